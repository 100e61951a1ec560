package shadow

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/windworn/skyterrain/internal/engine/camera"
	"github.com/windworn/skyterrain/internal/engine/framebuffer"
	"github.com/windworn/skyterrain/internal/logger"
)

// passState tracks a cascade through one frame. There is no cross-frame
// state; Fit resets every cascade to fitted and rendering advances it.
type passState int

const (
	stateIdle passState = iota
	stateFitted
	stateRendered
)

// Cascade is one depth slice's light projection and render target.
type Cascade struct {
	Range   Range
	Fitted  Fitted
	Enabled bool

	target *framebuffer.Depth
	state  passState
}

// System owns the three cascades and refits them to the camera frustum
// every frame.
type System struct {
	cascades   [CascadeCount]Cascade
	resolution int32
	lambda     float32
	overlap    float32

	globalNear float32
	globalFar  float32
}

// NewSystem allocates the cascade depth targets. A target allocation
// failure propagates; it means no shadowed frame can be produced.
func NewSystem(resolution int32, lambda, overlap float32) (*System, error) {
	if resolution <= 0 {
		resolution = framebufferDefaultResolution
	}
	s := &System{
		resolution: resolution,
		lambda:     lambda,
		overlap:    overlap,
	}

	for i := range s.cascades {
		target, err := framebuffer.NewDepth(resolution)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("cascade %d target: %w", i, err)
		}
		s.cascades[i].target = target
		s.cascades[i].Enabled = true
	}

	logger.Sugar.Infow("shadow system created",
		"cascades", CascadeCount,
		"resolution", resolution,
		"lambda", lambda,
	)
	return s, nil
}

const framebufferDefaultResolution = 2048

// Fit recomputes every enabled cascade's light projection for this frame.
// The margin grows with the cascade index; distant slices cover far more
// terrain and need the slack against silhouette clipping.
func (s *System) Fit(cam camera.State, sunDir mgl32.Vec3, sceneBounds [2]mgl32.Vec3) {
	s.globalNear = cam.Near
	s.globalFar = cam.Far

	splits := ComputeSplits(cam.Near, cam.Far, CascadeCount, s.lambda)
	ranges := SplitRanges(cam.Near, cam.Far, splits, s.overlap)

	for i := range s.cascades {
		c := &s.cascades[i]
		c.Range = ranges[i]
		c.state = stateIdle
		if !c.Enabled {
			continue
		}

		corners := cam.SliceCorners(c.Range.Near, c.Range.Far)
		c.Fitted = Fit(corners, sceneBounds, sunDir, FitOptions{
			Resolution: s.resolution,
			Margin:     baseMargin * float32(1+i),
		})
		c.state = stateFitted
	}
}

// baseMargin is the light-space slack added per cascade index.
const baseMargin = 10.0

// BeginDepthPass binds cascade i's target for depth rendering and returns
// its light view-projection. ok is false for disabled or unfitted
// cascades, which the caller must skip entirely.
func (s *System) BeginDepthPass(i int) (lightViewProj mgl32.Mat4, ok bool) {
	if i < 0 || i >= CascadeCount {
		return mgl32.Mat4{}, false
	}
	c := &s.cascades[i]
	if !c.Enabled || c.state != stateFitted {
		return mgl32.Mat4{}, false
	}

	c.target.Bind()
	return c.Fitted.ViewProj, true
}

// EndDepthPass finishes cascade i's depth pass.
func (s *System) EndDepthPass(i int) {
	if i < 0 || i >= CascadeCount {
		return
	}
	c := &s.cascades[i]
	c.target.Unbind()
	if c.state == stateFitted {
		c.state = stateRendered
	}
}

// SetEnabled toggles a cascade. A disabled cascade is skipped by fitting
// and rendering, and the shading stage must treat it as unshadowed.
func (s *System) SetEnabled(i int, enabled bool) {
	if i < 0 || i >= CascadeCount {
		return
	}
	s.cascades[i].Enabled = enabled
}

// Enabled reports whether cascade i both exists and rendered this frame.
func (s *System) Enabled(i int) bool {
	if i < 0 || i >= CascadeCount {
		return false
	}
	return s.cascades[i].Enabled
}

// Matrices returns the light view-projection matrix per cascade.
func (s *System) Matrices() [CascadeCount]mgl32.Mat4 {
	var out [CascadeCount]mgl32.Mat4
	for i := range s.cascades {
		out[i] = s.cascades[i].Fitted.ViewProj
	}
	return out
}

// SplitVector packs the cascade far boundaries for the shading stage:
// (far0, far1, far2, globalFar).
func (s *System) SplitVector() mgl32.Vec4 {
	return mgl32.Vec4{
		s.cascades[0].Range.Far,
		s.cascades[1].Range.Far,
		s.cascades[2].Range.Far,
		s.globalFar,
	}
}

// DepthTexture returns cascade i's depth texture ID, or 0 when disabled.
func (s *System) DepthTexture(i int) uint32 {
	if i < 0 || i >= CascadeCount || !s.cascades[i].Enabled {
		return 0
	}
	return s.cascades[i].target.Texture()
}

// EnabledMask returns a 0/1 flag per cascade for the shading stage.
// Disabled means unshadowed, never fully shadowed.
func (s *System) EnabledMask() [CascadeCount]int32 {
	var mask [CascadeCount]int32
	for i := range s.cascades {
		if s.cascades[i].Enabled && s.cascades[i].state == stateRendered {
			mask[i] = 1
		}
	}
	return mask
}

// Resolution returns the depth target side length.
func (s *System) Resolution() int32 {
	return s.resolution
}

// Resize reallocates the depth targets at a new resolution. Old targets
// are fully destroyed before the new ones are created.
func (s *System) Resize(resolution int32) error {
	if resolution <= 0 {
		return fmt.Errorf("invalid shadow resolution %d", resolution)
	}
	if resolution == s.resolution {
		return nil
	}

	for i := range s.cascades {
		if s.cascades[i].target != nil {
			s.cascades[i].target.Destroy()
			s.cascades[i].target = nil
		}
	}

	for i := range s.cascades {
		target, err := framebuffer.NewDepth(resolution)
		if err != nil {
			s.Destroy()
			return fmt.Errorf("cascade %d target: %w", i, err)
		}
		s.cascades[i].target = target
	}

	s.resolution = resolution
	logger.Sugar.Infow("shadow targets resized", "resolution", resolution)
	return nil
}

// Destroy releases all cascade render targets.
func (s *System) Destroy() {
	for i := range s.cascades {
		if s.cascades[i].target != nil {
			s.cascades[i].target.Destroy()
			s.cascades[i].target = nil
		}
	}
}
