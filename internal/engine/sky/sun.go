// Package sky derives sun and sky lighting state from a time-of-day scalar.
package sky

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Elevation limits of the sun arc, in degrees. The sun never drops below
// MinElevation (keeps some directional light for night shading) and peaks
// at MaxElevation around t=12.
const (
	MinElevation = -20.0
	MaxElevation = 80.0
)

// HoursPerDay is the length of one full day cycle in time-of-day units.
const HoursPerDay = 24.0

// Sun is the per-frame directional light state. Read-only to consumers.
type Sun struct {
	Direction mgl32.Vec3 // unit vector pointing toward the sun
	Intensity float32    // >= 0
	Tint      mgl32.Vec3 // color multiplier
}

// SunAt computes the sun state for a time of day in [0, 24). Values outside
// the range wrap, so SunAt(0) == SunAt(24).
//
// Azimuth sweeps one full turn per day. Elevation follows a clamped sine
// ramp pinned between MinElevation and MaxElevation, peaking near t=12.
func SunAt(t float64) Sun {
	t = wrapTime(t)

	azimuth := t / HoursPerDay * 2 * gomath.Pi

	s := gomath.Sin((t - 6) / 12 * gomath.Pi)
	ramp := (clamp(s, -0.35, 1.0) + 0.35) / 1.35
	elevation := (MinElevation + (MaxElevation-MinElevation)*ramp) * gomath.Pi / 180

	cosEl := gomath.Cos(elevation)
	dir := mgl32.Vec3{
		float32(cosEl * gomath.Sin(azimuth)),
		float32(gomath.Sin(elevation)),
		float32(cosEl * gomath.Cos(azimuth)),
	}

	// Geometric intensity: full above the horizon, fading through twilight.
	intensity := float32(clamp(gomath.Sin(elevation)*4, 0, 1))

	// Warm tint near the horizon, neutral at altitude.
	warmth := float32(clamp(1-ramp*1.6, 0, 1))
	tint := mgl32.Vec3{1, 1 - 0.35*warmth, 1 - 0.6*warmth}

	return Sun{
		Direction: dir.Normalize(),
		Intensity: intensity,
		Tint:      tint,
	}
}

// Elevation returns the sun elevation in degrees for a time of day.
// Exposed separately for hosts that drive fog or exposure from it.
func Elevation(t float64) float64 {
	t = wrapTime(t)
	s := gomath.Sin((t - 6) / 12 * gomath.Pi)
	ramp := (clamp(s, -0.35, 1.0) + 0.35) / 1.35
	return MinElevation + (MaxElevation-MinElevation)*ramp
}

func wrapTime(t float64) float64 {
	t = gomath.Mod(t, HoursPerDay)
	if t < 0 {
		t += HoursPerDay
	}
	return t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
