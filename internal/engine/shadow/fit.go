package shadow

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// FitOptions controls how a cascade's orthographic volume is fitted
// around a frustum slice.
type FitOptions struct {
	Resolution int32      // shadow map resolution (texels per side)
	Margin     float32    // extra half-extent in light-space X/Y
	Focus      mgl32.Vec3 // world-space snap anchor, usually the origin
}

// Fitted is a cascade's light-space projection for one frame.
type Fitted struct {
	View     mgl32.Mat4
	Proj     mgl32.Mat4
	ViewProj mgl32.Mat4

	// Snapped light-space bounds, exposed for tests and debugging.
	Center     mgl32.Vec2
	HalfWidth  float32
	HalfHeight float32
	TexelSize  float32
}

// LightBasis returns an orthonormal light-space basis for a directional
// light. forward points from the light into the scene (the negated sun
// direction). The up reference flips to +Z when forward runs within a
// degree of world up, so the basis never degenerates at noon.
func LightBasis(sunDir mgl32.Vec3) (forward, right, up mgl32.Vec3) {
	forward = sunDir.Mul(-1)
	if forward.Len() < 1e-6 {
		forward = mgl32.Vec3{0, -1, 0}
	}
	forward = forward.Normalize()

	ref := mgl32.Vec3{0, 1, 0}
	if abs32(forward.Y()) > 0.99 {
		ref = mgl32.Vec3{0, 0, 1}
	}

	right = forward.Cross(ref).Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

// LightView returns the rotation-only world-to-light view matrix.
func LightView(sunDir mgl32.Vec3) mgl32.Mat4 {
	forward, _, up := LightBasis(sunDir)
	return mgl32.LookAtV(mgl32.Vec3{}, forward, up)
}

// Fit computes the orthographic light projection covering a frustum slice.
//
// The slice corners and the scene bounds corners are transformed into light
// space; X/Y fit the slice tightly (plus margin) while depth extends to the
// scene bounds so casters between the light and the slice still shadow it.
// The X/Y center is snapped to whole shadow texels relative to the focus
// anchor, then the half-extents re-expand to restore any coverage the snap
// gave up. Without the snap, sub-texel camera motion reshuffles the depth
// rasterization every frame and the shadows shimmer.
func Fit(corners [8]mgl32.Vec3, sceneBounds [2]mgl32.Vec3, sunDir mgl32.Vec3, opts FitOptions) Fitted {
	if opts.Resolution <= 0 {
		opts.Resolution = 2048
	}

	view := LightView(sunDir)

	minV, maxV := lightAABB(view, corners[:])

	// Depth must include casters outside the slice: extend toward the
	// light (larger z in view space, light looks down -Z) using the
	// scene bounds.
	bMin, bMax := lightAABB(view, boxCorners(sceneBounds))
	if bMax.Z() > maxV.Z() {
		maxV = mgl32.Vec3{maxV.X(), maxV.Y(), bMax.Z()}
	}
	if bMin.Z() < minV.Z() {
		minV = mgl32.Vec3{minV.X(), minV.Y(), bMin.Z()}
	}

	cx := (minV.X() + maxV.X()) / 2
	cy := (minV.Y() + maxV.Y()) / 2
	halfW := (maxV.X()-minV.X())/2 + opts.Margin
	halfH := (maxV.Y()-minV.Y())/2 + opts.Margin
	if halfW < minSpan {
		halfW = minSpan
	}
	if halfH < minSpan {
		halfH = minSpan
	}

	// Texel snap relative to the light-space focus anchor.
	focus := view.Mul4x1(opts.Focus.Vec4(1))
	texelX := 2 * halfW / float32(opts.Resolution)
	texelY := 2 * halfH / float32(opts.Resolution)
	scx := snap(cx, focus.X(), texelX)
	scy := snap(cy, focus.Y(), texelY)

	// Re-expand so the snapped volume still covers the unsnapped bound.
	halfW = maxf(halfW, maxf(scx-(cx-halfW), (cx+halfW)-scx))
	halfH = maxf(halfH, maxf(scy-(cy-halfH), (cy+halfH)-scy))

	near := -maxV.Z() - minSpan
	far := -minV.Z() + minSpan
	if far-near < minSpan {
		far = near + minSpan
	}

	proj := mgl32.Ortho(scx-halfW, scx+halfW, scy-halfH, scy+halfH, near, far)

	return Fitted{
		View:       view,
		Proj:       proj,
		ViewProj:   proj.Mul4(view),
		Center:     mgl32.Vec2{scx, scy},
		HalfWidth:  halfW,
		HalfHeight: halfH,
		TexelSize:  texelX,
	}
}

// snap quantizes v to whole steps relative to an anchor.
func snap(v, anchor, step float32) float32 {
	if step <= 0 {
		return v
	}
	return float32(gomath.Round(float64((v-anchor)/step)))*step + anchor
}

// lightAABB transforms points into light space and returns their bounds.
func lightAABB(view mgl32.Mat4, points []mgl32.Vec3) (min, max mgl32.Vec3) {
	min = mgl32.Vec3{gomath.MaxFloat32, gomath.MaxFloat32, gomath.MaxFloat32}
	max = min.Mul(-1)
	for _, p := range points {
		lp := view.Mul4x1(p.Vec4(1))
		min = mgl32.Vec3{minf(min.X(), lp.X()), minf(min.Y(), lp.Y()), minf(min.Z(), lp.Z())}
		max = mgl32.Vec3{maxf(max.X(), lp.X()), maxf(max.Y(), lp.Y()), maxf(max.Z(), lp.Z())}
	}
	return min, max
}

// boxCorners expands an AABB into its 8 corner points.
func boxCorners(b [2]mgl32.Vec3) []mgl32.Vec3 {
	min, max := b[0], b[1]
	return []mgl32.Vec3{
		{min.X(), min.Y(), min.Z()},
		{max.X(), min.Y(), min.Z()},
		{min.X(), max.Y(), min.Z()},
		{max.X(), max.Y(), min.Z()},
		{min.X(), min.Y(), max.Z()},
		{max.X(), min.Y(), max.Z()},
		{min.X(), max.Y(), max.Z()},
		{max.X(), max.Y(), max.Z()},
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
