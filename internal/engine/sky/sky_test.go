package sky

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSunNoonElevationMax(t *testing.T) {
	if el := Elevation(12.0); gomath.Abs(el-MaxElevation) > 1e-6 {
		t.Errorf("noon elevation: got %f, want %f", el, MaxElevation)
	}
}

func TestSunElevationPinned(t *testing.T) {
	for h := 0.0; h < 24.0; h += 0.25 {
		el := Elevation(h)
		if el < MinElevation-1e-6 || el > MaxElevation+1e-6 {
			t.Errorf("t=%f: elevation %f outside [%f, %f]", h, el, MinElevation, MaxElevation)
		}
	}
}

func TestSunMidnightElevationMin(t *testing.T) {
	if el := Elevation(0.0); gomath.Abs(el-MinElevation) > 1e-6 {
		t.Errorf("midnight elevation: got %f, want %f", el, MinElevation)
	}
}

func TestSunWraparound(t *testing.T) {
	a := SunAt(0.0)
	b := SunAt(24.0)
	if a != b {
		t.Errorf("SunAt(0) != SunAt(24): %+v vs %+v", a, b)
	}
}

func TestSunDirectionUnit(t *testing.T) {
	for h := 0.0; h < 24.0; h += 1.0 {
		d := SunAt(h).Direction
		if gomath.Abs(float64(d.Len())-1) > 1e-5 {
			t.Errorf("t=%f: direction length %f", h, d.Len())
		}
	}
}

func TestSunIntensityNonNegative(t *testing.T) {
	for h := 0.0; h < 24.0; h += 0.5 {
		if s := SunAt(h); s.Intensity < 0 {
			t.Errorf("t=%f: negative intensity %f", h, s.Intensity)
		}
	}
}

func TestSampleAtKeyframe(t *testing.T) {
	got := Sample(12.0, DefaultKeyframes)
	want := DefaultKeyframes[2]
	if got.Horizon != want.Horizon || got.Intensity != want.Intensity {
		t.Errorf("exact keyframe sample: got %+v, want %+v", got, want)
	}
}

func TestSampleInterpolatesBetweenFrames(t *testing.T) {
	frames := []Keyframe{
		{T: 0, Horizon: mgl32.Vec3{0, 0, 0}, Intensity: 0},
		{T: 12, Horizon: mgl32.Vec3{1, 1, 1}, Intensity: 1},
	}

	got := Sample(6.0, frames)
	if gomath.Abs(float64(got.Intensity)-0.5) > 1e-6 {
		t.Errorf("midpoint intensity: got %f, want 0.5", got.Intensity)
	}
	if gomath.Abs(float64(got.Horizon[0])-0.5) > 1e-6 {
		t.Errorf("midpoint horizon: got %v", got.Horizon)
	}
}

func TestSampleWrapsAcrossMidnight(t *testing.T) {
	frames := []Keyframe{
		{T: 6, Intensity: 1},
		{T: 18, Intensity: 0},
	}

	// t=0 is halfway through the 18 -> 6 wrap bracket.
	got := Sample(0.0, frames)
	if gomath.Abs(float64(got.Intensity)-0.5) > 1e-6 {
		t.Errorf("midnight wrap: got %f, want 0.5", got.Intensity)
	}

	// Approaching from either side of the boundary agrees.
	before := Sample(23.999, frames)
	after := Sample(0.001, frames)
	if gomath.Abs(float64(before.Intensity-after.Intensity)) > 1e-3 {
		t.Errorf("discontinuity at midnight: %f vs %f", before.Intensity, after.Intensity)
	}
}

func TestSampleDegenerateInputs(t *testing.T) {
	if got := Sample(10, nil); got != (State{}) {
		t.Errorf("empty frames: got %+v, want zero state", got)
	}

	one := []Keyframe{{T: 3, Intensity: 0.7}}
	if got := Sample(20, one); got.Intensity != 0.7 {
		t.Errorf("single frame: got %f, want 0.7", got.Intensity)
	}
}

func TestSunStateScalesIntensity(t *testing.T) {
	frames := []Keyframe{
		{T: 0, Intensity: 0.5},
		{T: 12, Intensity: 0.5},
	}
	sun, _ := SunState(12.0, frames)
	bare := SunAt(12.0)
	if gomath.Abs(float64(sun.Intensity-bare.Intensity*0.5)) > 1e-6 {
		t.Errorf("intensity scaling: got %f, want %f", sun.Intensity, bare.Intensity*0.5)
	}
}
