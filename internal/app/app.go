// Package app runs the interactive terrain viewer: window, input,
// camera and the frame pipeline.
package app

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/windworn/skyterrain/internal/config"
	"github.com/windworn/skyterrain/internal/engine/camera"
	"github.com/windworn/skyterrain/internal/engine/debug"
	"github.com/windworn/skyterrain/internal/engine/heightfield"
	"github.com/windworn/skyterrain/internal/engine/input"
	"github.com/windworn/skyterrain/internal/engine/renderer"
	"github.com/windworn/skyterrain/internal/engine/terrain"
	"github.com/windworn/skyterrain/internal/engine/window"
	"github.com/windworn/skyterrain/internal/logger"
)

// App is the viewer instance.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	input    *input.Input
	terrain  *terrain.Terrain
	renderer *renderer.Renderer
	camera   *camera.Flight

	screenshots *debug.ScreenshotCapture
	captured    bool
}

// New creates the viewer. The window comes first because every GL
// resource needs its context.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	a := &App{cfg: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "skyterrain",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := renderer.Init(); err != nil {
		a.window.Close()
		return nil, err
	}

	field := generateField(cfg.Field)

	a.terrain, err = terrain.New(field,
		cfg.Terrain.WorldWidth, cfg.Terrain.Levels, cfg.Terrain.Resolution,
		terrain.Options{
			ShadowsEnabled: cfg.Shadow.Enabled,
			MorphRegion:    cfg.Terrain.MorphRegion,
		})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create terrain: %w", err)
	}
	a.terrain.SetShadowParams(cfg.Shadow.Bias, cfg.Shadow.Strength, cfg.Shadow.Softness)

	a.renderer, err = renderer.New(a.terrain, renderer.Options{
		Width:            cfg.Graphics.Width,
		Height:           cfg.Graphics.Height,
		ShadowResolution: cfg.Shadow.Resolution,
		ShadowLambda:     cfg.Shadow.Lambda,
		ShadowOverlap:    cfg.Shadow.Overlap,
		TimeScale:        cfg.Sky.TimeScale,
		StartTime:        cfg.Sky.StartTime,
	})
	if err != nil {
		a.terrain.Destroy()
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.renderer.Resize(cfg.Graphics.Width, cfg.Graphics.Height)

	a.input = input.New()
	a.camera = camera.NewFlight()
	a.camera.Aspect = float32(cfg.Graphics.Width) / float32(cfg.Graphics.Height)
	a.screenshots = debug.NewScreenshotCapture("screenshots", "skyterrain")

	logger.Info("viewer initialized")
	return a, nil
}

// generateField builds the height field from config, applying the
// optional erosion passes.
func generateField(cfg config.FieldConfig) *heightfield.Field {
	start := time.Now()
	field := heightfield.Generate(heightfield.Params{
		Resolution:   cfg.Resolution,
		Seed:         cfg.Seed,
		Octaves:      cfg.Octaves,
		OctaveGrowth: cfg.OctaveGrowth,
		Smoothing:    cfg.Smoothing,
		Gain:         cfg.Gain,
		Island:       cfg.Island,
	})
	if cfg.ThermalIterations > 0 {
		field = field.Thermal(cfg.ThermalIterations, cfg.ThermalTalus)
	}
	if cfg.HydraulicDrops > 0 {
		field = field.Hydraulic(cfg.HydraulicDrops, cfg.HydraulicSteps)
	}

	logger.Info("height field generated",
		zap.Int64("seed", cfg.Seed),
		zap.Int("resolution", cfg.Resolution),
		zap.Duration("took", time.Since(start)),
	)
	return field
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true
	a.setCaptured(true)

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()
		a.update(dt)

		a.renderer.Advance(a.camera.Snapshot(), dt)
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if a.cfg.Graphics.ShowFPS {
				a.window.SetTitle(fmt.Sprintf("skyterrain — %d fps, %05.2fh",
					frameCount, a.renderer.TimeOfDay()))
			}
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents reacts to the discrete events of this frame.
func (a *App) handleEvents() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.renderer.Resize(event.Width, event.Height)
			a.camera.Aspect = float32(event.Width) / float32(event.Height)

		case input.EventMouseMove:
			if a.captured {
				a.camera.HandleLook(float32(event.RelX), float32(event.RelY))
			}

		case input.EventKeyDown:
			a.handleKey(event.Key)
		}
	}
}

func (a *App) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false

	case sdl.SCANCODE_TAB:
		a.setCaptured(!a.captured)

	case sdl.SCANCODE_F1:
		a.terrain.SetSurfaceProgram(terrain.SurfaceStandard)
	case sdl.SCANCODE_F2:
		a.terrain.SetSurfaceProgram(terrain.SurfaceFlat)
	case sdl.SCANCODE_F3:
		a.terrain.SetSurfaceProgram(terrain.SurfaceNormals)

	case sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3:
		i := int(key - sdl.SCANCODE_1)
		enabled := !a.renderer.Shadows().Enabled(i)
		a.renderer.Shadows().SetEnabled(i, enabled)
		logger.Info("cascade toggled", zap.Int("cascade", i), zap.Bool("enabled", enabled))

	case sdl.SCANCODE_R:
		a.regenerate(a.cfg.Field.Seed + 1)

	case sdl.SCANCODE_F9:
		img := a.terrain.Field().ExportImage()
		if path, err := a.screenshots.CaptureFromImage(img); err != nil {
			logger.Error("heightmap export failed", zap.Error(err))
		} else {
			logger.Info("heightmap exported", zap.String("path", path))
		}

	case sdl.SCANCODE_F12:
		a.captureScreenshot()
	}
}

// regenerate replaces the height field with a new seed. The terrain
// keeps its geometry; only the texture changes.
func (a *App) regenerate(seed int64) {
	a.cfg.Field.Seed = seed
	field := generateField(a.cfg.Field)
	if err := a.terrain.SetField(field); err != nil {
		logger.Error("field swap failed", zap.Error(err))
	}
}

func (a *App) captureScreenshot() {
	width, height := a.window.GetSize()
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	path, err := a.screenshots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// update advances continuous state: camera motion from held keys.
func (a *App) update(dt float32) {
	forward := a.input.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W)
	strafe := a.input.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D)
	lift := a.input.Axis(sdl.SCANCODE_LCTRL, sdl.SCANCODE_SPACE)

	speed := a.camera.Speed
	if a.input.IsKeyHeld(sdl.SCANCODE_LSHIFT) {
		a.camera.Speed = speed * 5
	}
	a.camera.HandleMove(forward, strafe, lift, dt)
	a.camera.Speed = speed

	// Keep the observer above the surface.
	ground := a.terrain.HeightAt(a.camera.Position.X(), a.camera.Position.Z())
	if a.camera.Position.Y() < ground+2 {
		a.camera.Position[1] = ground + 2
	}
}

func (a *App) setCaptured(captured bool) {
	a.captured = captured
	a.window.CaptureMouse(captured)
}

// Close cleans up all resources.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Destroy()
	}
	if a.terrain != nil {
		a.terrain.Destroy()
	}
	if a.window != nil {
		a.window.Close()
	}
}
