package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testState() State {
	return State{
		Position: mgl32.Vec3{0, 0, 0},
		Forward:  mgl32.Vec3{0, 0, 1},
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     gomath.Pi / 2,
		Aspect:   1,
		Near:     1,
		Far:      100,
	}
}

func approx(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestSliceCornersSquareFrustum(t *testing.T) {
	// 90 degree vertical FOV at aspect 1: the slice cross-section at
	// depth d is a 2d x 2d square. For a +Z forward, +Y up camera the
	// right vector Forward x Up points toward -X, so "bottom-left"
	// corners sit at positive X.
	s := testState()
	corners := s.SliceCorners(10, 50)

	want := [8]mgl32.Vec3{
		{10, -10, 10}, {-10, -10, 10}, {10, 10, 10}, {-10, 10, 10},
		{50, -50, 50}, {-50, -50, 50}, {50, 50, 50}, {-50, 50, 50},
	}
	for i := range corners {
		for axis := 0; axis < 3; axis++ {
			if !approx(corners[i][axis], want[i][axis], 1e-3) {
				t.Errorf("corner %d = %v, want %v", i, corners[i], want[i])
				break
			}
		}
	}
}

func TestSliceCornersFollowPosition(t *testing.T) {
	s := testState()
	base := s.SliceCorners(5, 20)

	s.Position = mgl32.Vec3{100, 50, -30}
	moved := s.SliceCorners(5, 20)

	for i := range base {
		delta := moved[i].Sub(base[i])
		if !approx(delta.X(), 100, 1e-3) || !approx(delta.Y(), 50, 1e-3) || !approx(delta.Z(), -30, 1e-3) {
			t.Errorf("corner %d moved by %v, want (100, 50, -30)", i, delta)
		}
	}
}

func TestRightIsOrthonormal(t *testing.T) {
	s := testState()
	right := s.Right()

	if !approx(right.Len(), 1, 1e-5) {
		t.Errorf("right vector length = %f, want 1", right.Len())
	}
	if !approx(right.Dot(s.Forward), 0, 1e-5) {
		t.Error("right not orthogonal to forward")
	}
	if !approx(right.Dot(s.Up), 0, 1e-5) {
		t.Error("right not orthogonal to up")
	}
}

func TestFlightSnapshotOrthonormal(t *testing.T) {
	f := NewFlight()
	f.Yaw = 1.3
	f.Pitch = 0.7

	s := f.Snapshot()
	if !approx(s.Forward.Len(), 1, 1e-5) {
		t.Errorf("forward length = %f, want 1", s.Forward.Len())
	}
	if !approx(s.Up.Len(), 1, 1e-5) {
		t.Errorf("up length = %f, want 1", s.Up.Len())
	}
	if !approx(s.Forward.Dot(s.Up), 0, 1e-5) {
		t.Error("forward and up not orthogonal")
	}
}

func TestFlightPitchClamped(t *testing.T) {
	f := NewFlight()
	// Drag far past the pole.
	f.HandleLook(0, -1e6)
	if f.Pitch >= gomath.Pi/2 {
		t.Errorf("pitch %f reached the pole", f.Pitch)
	}

	f.HandleLook(0, 1e6)
	if f.Pitch <= -gomath.Pi/2 {
		t.Errorf("pitch %f reached the pole", f.Pitch)
	}

	// Snapshot must stay well formed even at the clamp.
	s := f.Snapshot()
	if !approx(s.Up.Len(), 1, 1e-4) {
		t.Errorf("up length = %f at pitch clamp", s.Up.Len())
	}
}

func TestFlightMoveAdvances(t *testing.T) {
	f := NewFlight()
	f.Yaw = 0
	f.Pitch = 0
	f.Position = mgl32.Vec3{}
	f.Speed = 10

	f.HandleMove(1, 0, 0, 1)
	// Yaw 0, pitch 0 faces +Z.
	if !approx(f.Position.Z(), 10, 1e-4) {
		t.Errorf("position after forward move = %v, want z=10", f.Position)
	}

	f.HandleMove(0, 0, 1, 0.5)
	if !approx(f.Position.Y(), 5, 1e-4) {
		t.Errorf("position after lift = %v, want y=5", f.Position)
	}
}
