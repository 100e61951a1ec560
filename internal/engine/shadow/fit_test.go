package shadow

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/windworn/skyterrain/internal/engine/camera"
)

func testCamera(pos mgl32.Vec3) camera.State {
	return camera.State{
		Position: pos,
		Forward:  mgl32.Vec3{0, 0, 1},
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     gomath.Pi / 3,
		Aspect:   16.0 / 9.0,
		Near:     1,
		Far:      5000,
	}
}

var testBounds = [2]mgl32.Vec3{{-4096, 0, -4096}, {4096, 300, 4096}}

var testSun = mgl32.Vec3{0.5, 0.8, 0.3}

func TestSnapQuantizes(t *testing.T) {
	cases := []struct {
		v, anchor, step, want float32
	}{
		{0, 0, 1, 0},
		{0.4, 0, 1, 0},
		{0.6, 0, 1, 1},
		{-0.4, 0, 1, 0},
		{10.2, 0.5, 1, 10.5},
		{7, 0, 0, 7}, // zero step passes through
	}
	for _, c := range cases {
		if got := snap(c.v, c.anchor, c.step); got != c.want {
			t.Errorf("snap(%f, %f, %f): got %f, want %f", c.v, c.anchor, c.step, got, c.want)
		}
	}
}

func TestFitTexelSnapIdempotent(t *testing.T) {
	// Straight-down sun makes the light-space center track the observer
	// X/Z exactly, so sub-texel observer offsets can be constructed
	// deterministically.
	down := mgl32.Vec3{0, 1, 0}
	opts := FitOptions{Resolution: 2048}

	probe := Fit(testCamera(mgl32.Vec3{0, 200, 0}).SliceCorners(1, 50), testBounds, down, opts)
	texel := probe.TexelSize

	a := Fit(testCamera(mgl32.Vec3{0.1 * texel, 200, 0.1 * texel}).SliceCorners(1, 50), testBounds, down, opts)
	b := Fit(testCamera(mgl32.Vec3{0.3 * texel, 200, 0.3 * texel}).SliceCorners(1, 50), testBounds, down, opts)

	if a.Center != b.Center {
		t.Errorf("snapped center moved under sub-texel motion: %v vs %v", a.Center, b.Center)
	}
}

func TestFitCenterMovesByWholeTexels(t *testing.T) {
	// Under any motion the snapped center may only jump in whole-texel
	// steps on the anchored grid; fractional drift is what shimmers.
	opts := FitOptions{Resolution: 1024}

	a := Fit(testCamera(mgl32.Vec3{100, 200, 100}).SliceCorners(1, 50), testBounds, testSun, opts)
	b := Fit(testCamera(mgl32.Vec3{103.7, 200, 98.2}).SliceCorners(1, 50), testBounds, testSun, opts)

	dx := float64((a.Center.X() - b.Center.X()) / a.TexelSize)
	if gomath.Abs(dx-gomath.Round(dx)) > 0.05 {
		t.Errorf("center X moved by fractional texels: %f", dx)
	}
}

func TestFitSnapOnTexelGrid(t *testing.T) {
	opts := FitOptions{Resolution: 1024}
	cam := testCamera(mgl32.Vec3{37.2, 180, -12.9})
	f := Fit(cam.SliceCorners(1, 120), testBounds, testSun, opts)

	// Center lands on a whole multiple of the texel size (anchor is the
	// origin, which projects to light-space 0).
	rx := float64(f.Center.X()) / float64(f.TexelSize)
	if gomath.Abs(rx-gomath.Round(rx)) > 0.05 {
		t.Errorf("center X %f not on texel grid (texel %f)", f.Center.X(), f.TexelSize)
	}
}

func TestFitCoversSliceAfterSnap(t *testing.T) {
	opts := FitOptions{Resolution: 512}
	cam := testCamera(mgl32.Vec3{500, 250, 500})
	corners := cam.SliceCorners(40, 900)
	f := Fit(corners, testBounds, testSun, opts)

	// Every slice corner must project inside the ortho volume in X/Y.
	for i, c := range corners {
		lp := f.View.Mul4x1(c.Vec4(1))
		if lp.X() < f.Center.X()-f.HalfWidth-1e-2 || lp.X() > f.Center.X()+f.HalfWidth+1e-2 {
			t.Errorf("corner %d X %f outside [%f, %f]", i, lp.X(),
				f.Center.X()-f.HalfWidth, f.Center.X()+f.HalfWidth)
		}
		if lp.Y() < f.Center.Y()-f.HalfHeight-1e-2 || lp.Y() > f.Center.Y()+f.HalfHeight+1e-2 {
			t.Errorf("corner %d Y %f outside volume", i, lp.Y())
		}
	}
}

func TestLightBasisStableNearVertical(t *testing.T) {
	// Noon sun: forward aligns with world down; the basis must stay
	// orthonormal instead of collapsing.
	forward, right, up := LightBasis(mgl32.Vec3{0, 1, 0})

	for name, v := range map[string]mgl32.Vec3{"forward": forward, "right": right, "up": up} {
		if gomath.Abs(float64(v.Len())-1) > 1e-5 {
			t.Errorf("%s not unit: %f", name, v.Len())
		}
	}
	if abs32(forward.Dot(right)) > 1e-5 || abs32(forward.Dot(up)) > 1e-5 || abs32(right.Dot(up)) > 1e-5 {
		t.Error("basis not orthogonal for vertical sun")
	}
}

func TestLightBasisZeroSun(t *testing.T) {
	forward, _, _ := LightBasis(mgl32.Vec3{})
	if gomath.Abs(float64(forward.Len())-1) > 1e-5 {
		t.Errorf("zero sun direction: forward not unit: %v", forward)
	}
}

func TestFitDegenerateSliceClamped(t *testing.T) {
	// All corners at a single point: extents clamp to a minimum positive
	// span, never zero or inverted.
	p := mgl32.Vec3{10, 10, 10}
	corners := [8]mgl32.Vec3{p, p, p, p, p, p, p, p}
	f := Fit(corners, [2]mgl32.Vec3{p, p}, testSun, FitOptions{Resolution: 256, Margin: 0})

	if f.HalfWidth < minSpan || f.HalfHeight < minSpan {
		t.Errorf("degenerate extents not clamped: %f x %f", f.HalfWidth, f.HalfHeight)
	}
	for i, v := range f.ViewProj {
		if gomath.IsNaN(float64(v)) || gomath.IsInf(float64(v), 0) {
			t.Fatalf("view-proj element %d not finite: %f", i, v)
		}
	}
}

func TestFitMarginGrowsVolume(t *testing.T) {
	cam := testCamera(mgl32.Vec3{0, 150, 0})
	corners := cam.SliceCorners(1, 60)

	small := Fit(corners, testBounds, testSun, FitOptions{Resolution: 1024, Margin: 0})
	big := Fit(corners, testBounds, testSun, FitOptions{Resolution: 1024, Margin: 50})

	if big.HalfWidth <= small.HalfWidth {
		t.Errorf("margin did not grow half-width: %f vs %f", big.HalfWidth, small.HalfWidth)
	}
}
