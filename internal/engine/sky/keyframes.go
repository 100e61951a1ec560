package sky

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Keyframe pins sky colors and light intensity to a time of day.
type Keyframe struct {
	T         float64 // time of day in [0, 24)
	Horizon   mgl32.Vec3
	Zenith    mgl32.Vec3
	Intensity float32
}

// State is an interpolated sky sample.
type State struct {
	Horizon   mgl32.Vec3
	Zenith    mgl32.Vec3
	Intensity float32
}

// DefaultKeyframes is a plain dawn/day/dusk/night cycle.
var DefaultKeyframes = []Keyframe{
	{T: 0, Horizon: mgl32.Vec3{0.05, 0.06, 0.12}, Zenith: mgl32.Vec3{0.01, 0.01, 0.04}, Intensity: 0.05},
	{T: 6, Horizon: mgl32.Vec3{0.95, 0.55, 0.30}, Zenith: mgl32.Vec3{0.30, 0.35, 0.55}, Intensity: 0.55},
	{T: 12, Horizon: mgl32.Vec3{0.75, 0.85, 0.95}, Zenith: mgl32.Vec3{0.25, 0.50, 0.90}, Intensity: 1.0},
	{T: 18, Horizon: mgl32.Vec3{0.95, 0.45, 0.25}, Zenith: mgl32.Vec3{0.25, 0.25, 0.50}, Intensity: 0.50},
}

// Sample interpolates linearly between the two keyframes bracketing t,
// wrapping across the day boundary. An empty frame list yields a zero
// state; a single frame is returned as-is.
func Sample(t float64, frames []Keyframe) State {
	if len(frames) == 0 {
		return State{}
	}
	if len(frames) == 1 {
		f := frames[0]
		return State{Horizon: f.Horizon, Zenith: f.Zenith, Intensity: f.Intensity}
	}

	sorted := make([]Keyframe, len(frames))
	copy(sorted, frames)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })

	t = wrapTime(t)

	// Find the first keyframe at or after t.
	next := 0
	for ; next < len(sorted); next++ {
		if sorted[next].T >= t {
			break
		}
	}

	var a, b Keyframe
	var span, local float64
	switch next {
	case 0:
		// Before the first frame: bracket is last -> first across midnight.
		a = sorted[len(sorted)-1]
		b = sorted[0]
		span = HoursPerDay - a.T + b.T
		local = HoursPerDay - a.T + t
	case len(sorted):
		// After the last frame: same wrap bracket, approached from the left.
		a = sorted[len(sorted)-1]
		b = sorted[0]
		span = HoursPerDay - a.T + b.T
		local = t - a.T
	default:
		a = sorted[next-1]
		b = sorted[next]
		span = b.T - a.T
		local = t - a.T
	}

	if span <= 0 {
		return State{Horizon: b.Horizon, Zenith: b.Zenith, Intensity: b.Intensity}
	}
	k := float32(local / span)

	return State{
		Horizon:   lerpVec3(a.Horizon, b.Horizon, k),
		Zenith:    lerpVec3(a.Zenith, b.Zenith, k),
		Intensity: a.Intensity + (b.Intensity-a.Intensity)*k,
	}
}

// SunState combines the geometric sun with the keyframed sky: the sampled
// intensity scales the sun intensity, per-frame, with no other coupling.
func SunState(t float64, frames []Keyframe) (Sun, State) {
	sun := SunAt(t)
	state := Sample(t, frames)
	sun.Intensity *= state.Intensity
	return sun, state
}

func lerpVec3(a, b mgl32.Vec3, k float32) mgl32.Vec3 {
	return mgl32.Vec3{
		a[0] + (b[0]-a[0])*k,
		a[1] + (b[1]-a[1])*k,
		a[2] + (b[2]-a[2])*k,
	}
}
