// Package camera provides the observer camera and view-frustum queries.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// State is an immutable snapshot of the camera for one frame. The renderer
// and the shadow fitter both consume the same snapshot, so view and shadow
// projections can never disagree within a frame.
type State struct {
	Position mgl32.Vec3
	Forward  mgl32.Vec3 // unit
	Up       mgl32.Vec3 // unit, orthogonal to Forward
	FovY     float32    // radians
	Aspect   float32
	Near     float32
	Far      float32
}

// ViewMatrix returns the world-to-eye transform.
func (s State) ViewMatrix() mgl32.Mat4 {
	target := s.Position.Add(s.Forward)
	return mgl32.LookAtV(s.Position, target, s.Up)
}

// ProjMatrix returns the perspective projection.
func (s State) ProjMatrix() mgl32.Mat4 {
	return mgl32.Perspective(s.FovY, s.Aspect, s.Near, s.Far)
}

// Right returns the camera right vector.
func (s State) Right() mgl32.Vec3 {
	return s.Forward.Cross(s.Up).Normalize()
}

// SliceCorners returns the 8 world-space corners of the frustum slice
// between the given near and far depths. Order: near plane then far plane,
// each bottom-left, bottom-right, top-left, top-right.
func (s State) SliceCorners(near, far float32) [8]mgl32.Vec3 {
	tanHalf := float32(gomath.Tan(float64(s.FovY) / 2))
	right := s.Right()

	var corners [8]mgl32.Vec3
	for i, d := range [2]float32{near, far} {
		hh := tanHalf * d
		hw := hh * s.Aspect
		center := s.Position.Add(s.Forward.Mul(d))

		corners[i*4+0] = center.Sub(right.Mul(hw)).Sub(s.Up.Mul(hh))
		corners[i*4+1] = center.Add(right.Mul(hw)).Sub(s.Up.Mul(hh))
		corners[i*4+2] = center.Sub(right.Mul(hw)).Add(s.Up.Mul(hh))
		corners[i*4+3] = center.Add(right.Mul(hw)).Add(s.Up.Mul(hh))
	}
	return corners
}

// Flight is a free-flying observer: yaw/pitch orientation with smooth
// positional motion, the usual control scheme for roaming over terrain.
type Flight struct {
	Position mgl32.Vec3
	Yaw      float32 // radians, around world up
	Pitch    float32 // radians, clamped short of the poles

	Speed       float32
	Sensitivity float32

	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

// NewFlight creates a flight camera with sane defaults.
func NewFlight() *Flight {
	return &Flight{
		Position:    mgl32.Vec3{0, 200, 0},
		Pitch:       -0.2,
		Speed:       120,
		Sensitivity: 0.0025,
		FovY:        gomath.Pi / 3,
		Aspect:      16.0 / 9.0,
		Near:        1,
		Far:         5000,
	}
}

// Forward returns the view direction from yaw/pitch.
func (f *Flight) Forward() mgl32.Vec3 {
	cp := float32(gomath.Cos(float64(f.Pitch)))
	return mgl32.Vec3{
		cp * float32(gomath.Sin(float64(f.Yaw))),
		float32(gomath.Sin(float64(f.Pitch))),
		cp * float32(gomath.Cos(float64(f.Yaw))),
	}
}

// HandleLook applies a mouse delta to yaw and pitch.
func (f *Flight) HandleLook(dx, dy float32) {
	f.Yaw -= dx * f.Sensitivity
	f.Pitch -= dy * f.Sensitivity

	const maxPitch = gomath.Pi/2 - 0.01
	if f.Pitch > maxPitch {
		f.Pitch = maxPitch
	}
	if f.Pitch < -maxPitch {
		f.Pitch = -maxPitch
	}
}

// HandleMove advances the camera. forward/strafe/lift are -1..1 axes,
// dt is the frame time in seconds.
func (f *Flight) HandleMove(forward, strafe, lift, dt float32) {
	dir := f.Forward()
	right := dir.Cross(mgl32.Vec3{0, 1, 0}).Normalize()

	delta := dir.Mul(forward).Add(right.Mul(strafe)).Add(mgl32.Vec3{0, lift, 0})
	f.Position = f.Position.Add(delta.Mul(f.Speed * dt))
}

// Snapshot freezes the camera into a frame State.
func (f *Flight) Snapshot() State {
	fwd := f.Forward()
	right := fwd.Cross(mgl32.Vec3{0, 1, 0})
	if right.Len() < 1e-4 {
		right = mgl32.Vec3{1, 0, 0}
	}
	up := right.Normalize().Cross(fwd).Normalize()

	return State{
		Position: f.Position,
		Forward:  fwd,
		Up:       up,
		FovY:     f.FovY,
		Aspect:   f.Aspect,
		Near:     f.Near,
		Far:      f.Far,
	}
}
