// Package renderer ties the terrain, shadow and sky stages into one
// frame pipeline.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/windworn/skyterrain/internal/engine/camera"
	"github.com/windworn/skyterrain/internal/engine/shadow"
	"github.com/windworn/skyterrain/internal/engine/sky"
	"github.com/windworn/skyterrain/internal/engine/terrain"
	"github.com/windworn/skyterrain/internal/logger"
)

// Options configures the frame pipeline.
type Options struct {
	Width  int
	Height int

	ShadowResolution int32
	ShadowLambda     float32
	ShadowOverlap    float32

	TimeScale float32 // day hours advanced per real second
	StartTime float32 // initial time of day in hours
	Keyframes []sky.Keyframe
}

// Renderer advances the day cycle and drives the per-frame passes in
// their fixed order: recenter, refit shadows, depth passes, color pass.
type Renderer struct {
	terrain *terrain.Terrain
	shadows *shadow.System

	width  int
	height int

	keyframes []sky.Keyframe
	timeOfDay float32
	timeScale float32
}

// Init initializes OpenGL and the default pipeline state.
// Must be called after the GL context is created, before New.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	return nil
}

// New wires a renderer around an existing terrain.
func New(t *terrain.Terrain, opts Options) (*Renderer, error) {
	if t == nil {
		return nil, fmt.Errorf("renderer: nil terrain")
	}
	if opts.ShadowLambda == 0 {
		opts.ShadowLambda = shadow.DefaultLambda
	}
	if opts.TimeScale == 0 {
		opts.TimeScale = 0.1
	}
	frames := opts.Keyframes
	if len(frames) == 0 {
		frames = sky.DefaultKeyframes
	}

	shadows, err := shadow.NewSystem(opts.ShadowResolution, opts.ShadowLambda, opts.ShadowOverlap)
	if err != nil {
		return nil, fmt.Errorf("shadow system: %w", err)
	}

	return &Renderer{
		terrain:   t,
		shadows:   shadows,
		width:     opts.Width,
		height:    opts.Height,
		keyframes: frames,
		timeOfDay: opts.StartTime,
		timeScale: opts.TimeScale,
	}, nil
}

// Terrain returns the terrain the renderer drives.
func (r *Renderer) Terrain() *terrain.Terrain {
	return r.terrain
}

// Shadows returns the cascade system for host-side toggles.
func (r *Renderer) Shadows() *shadow.System {
	return r.shadows
}

// TimeOfDay returns the current day-cycle time in hours.
func (r *Renderer) TimeOfDay() float32 {
	return r.timeOfDay
}

// SetTimeOfDay jumps the day cycle to an absolute hour.
func (r *Renderer) SetTimeOfDay(hours float32) {
	r.timeOfDay = hours
}

// SetTimeScale sets how many day hours pass per real second.
func (r *Renderer) SetTimeScale(scale float32) {
	r.timeScale = scale
}

// Resize handles a window resize.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Advance steps the day cycle and renders one frame for the given camera
// snapshot. dt is the frame time in seconds.
func (r *Renderer) Advance(cam camera.State, dt float32) {
	r.timeOfDay += dt * r.timeScale

	// Environment drives the direct light, the ambient tint and the fog.
	sun, skyState := sky.SunState(float64(r.timeOfDay), r.keyframes)
	r.terrain.SetSun(sun.Direction, sun.Intensity, sun.Tint)
	r.terrain.SetAmbient(mgl32.Vec3{0, 1, 0}, 0.25+0.35*sun.Intensity, skyState.Zenith)
	r.terrain.SetFog(cam.Far*0.1, cam.Far*0.9, skyState.Horizon)

	// The terrain follows the observer; geometry never rebuilds for this.
	r.terrain.Recenter(mgl32.Vec2{cam.Position.X(), cam.Position.Z()})

	viewProj := cam.ProjMatrix().Mul4(cam.ViewMatrix())

	min, max := r.terrain.Bounds()
	r.shadows.Fit(cam, sun.Direction, [2]mgl32.Vec3{min, max})

	for i := 0; i < shadow.CascadeCount; i++ {
		lightViewProj, ok := r.shadows.BeginDepthPass(i)
		if !ok {
			continue
		}
		r.terrain.RenderDepth(lightViewProj)
		r.shadows.EndDepthPass(i)
	}

	gl.ClearColor(skyState.Horizon.X(), skyState.Horizon.Y(), skyState.Horizon.Z(), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.terrain.Render(terrain.FrameState{
		ViewProj:       viewProj,
		CameraPos:      cam.Position,
		ShadowMatrices: r.shadows.Matrices(),
		ShadowSplits:   r.shadows.SplitVector(),
		ShadowTextures: [3]uint32{
			r.shadows.DepthTexture(0),
			r.shadows.DepthTexture(1),
			r.shadows.DepthTexture(2),
		},
		CascadeEnabled:   r.shadows.EnabledMask(),
		ShadowResolution: r.shadows.Resolution(),
	})
}

// Destroy releases the shadow targets. The terrain is owned by the host
// and destroyed separately.
func (r *Renderer) Destroy() {
	logger.Info("closing renderer")
	r.shadows.Destroy()
}
