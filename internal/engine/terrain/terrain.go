package terrain

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/windworn/skyterrain/internal/engine/heightfield"
	"github.com/windworn/skyterrain/internal/logger"
)

// Options tunes construction.
type Options struct {
	ShadowsEnabled bool
	MorphRegion    float32 // fraction of the tile edge that morphs, default 0.3
}

// SurfaceParams is the explicit shared material state forwarded to every
// tile. Host writes and render reads are plain scalar assignments; the
// last write before a frame wins.
type SurfaceParams struct {
	MorphRegion float32

	SunDir       mgl32.Vec3
	SunIntensity float32
	SunTint      mgl32.Vec3

	AmbientDir       mgl32.Vec3
	AmbientIntensity float32
	AmbientColor     mgl32.Vec3

	FogNear  float32
	FogFar   float32
	FogColor mgl32.Vec3

	Smoothing float32
	Specular  float32
	SkyTint   mgl32.Vec3

	ShadowBias     float32
	ShadowStrength float32
	ShadowSoftness float32
}

// FrameState carries the per-frame inputs of the color pass.
type FrameState struct {
	ViewProj  mgl32.Mat4
	CameraPos mgl32.Vec3

	ShadowMatrices   [3]mgl32.Mat4
	ShadowSplits     mgl32.Vec4
	ShadowTextures   [3]uint32
	CascadeEnabled   [3]int32
	ShadowResolution int32
}

// Terrain owns the ring tile set, the shared grid mesh and the height
// texture. Tiles are created and destroyed together; camera motion only
// ever moves the recentring offset.
type Terrain struct {
	field      *heightfield.Field
	worldWidth float32
	levels     int
	resolution int

	offset mgl32.Vec2
	tiles  []Tile

	mesh      *gridMesh
	heightTex uint32
	colors    [surfaceProgramCount]colorUniforms
	depth     depthUniforms
	variant   SurfaceProgram

	params         SurfaceParams
	shadowsEnabled bool
}

// New builds the terrain. Levels and resolution clamp into their valid
// ranges before anything touches the GPU; a GL allocation failure
// propagates because no frame can be produced without the tile mesh.
func New(field *heightfield.Field, worldWidth float32, levels, resolution int, opts Options) (*Terrain, error) {
	if field == nil {
		return nil, fmt.Errorf("terrain: nil height field")
	}
	if worldWidth <= 0 {
		return nil, fmt.Errorf("terrain: invalid world width %f", worldWidth)
	}
	levels = ClampLevels(levels)
	resolution = ClampResolution(resolution)

	morph := opts.MorphRegion
	if morph <= 0 || morph >= 1 {
		morph = 0.3
	}

	t := &Terrain{
		field:          field,
		worldWidth:     worldWidth,
		levels:         levels,
		resolution:     resolution,
		shadowsEnabled: opts.ShadowsEnabled,
		params: SurfaceParams{
			MorphRegion:      morph,
			SunDir:           mgl32.Vec3{0.4, 0.8, 0.4},
			SunIntensity:     1,
			SunTint:          mgl32.Vec3{1, 1, 1},
			AmbientDir:       mgl32.Vec3{0, 1, 0},
			AmbientIntensity: 0.35,
			AmbientColor:     mgl32.Vec3{0.55, 0.65, 0.8},
			FogNear:          500,
			FogFar:           4500,
			FogColor:         mgl32.Vec3{0.6, 0.7, 0.85},
			Smoothing:        1,
			Specular:         0.1,
			SkyTint:          mgl32.Vec3{0.7, 0.8, 1.0},
			ShadowBias:       0.0015,
			ShadowStrength:   0.8,
			ShadowSoftness:   1,
		},
	}

	if err := t.allocate(); err != nil {
		return nil, err
	}

	logger.Sugar.Infow("terrain built",
		"worldWidth", worldWidth,
		"levels", levels,
		"resolution", resolution,
		"tiles", len(t.tiles),
	)
	return t, nil
}

// allocate creates every GPU resource for the current configuration.
func (t *Terrain) allocate() error {
	t.tiles = BuildLayout(t.worldWidth, t.levels)

	mesh, err := newGridMesh(t.resolution, t.tiles)
	if err != nil {
		return fmt.Errorf("terrain mesh: %w", err)
	}

	colors, depth, err := compilePrograms()
	if err != nil {
		mesh.destroy()
		return fmt.Errorf("terrain programs: %w", err)
	}

	tex, err := uploadHeightTexture(t.field)
	if err != nil {
		mesh.destroy()
		deletePrograms(colors, depth)
		return fmt.Errorf("height texture: %w", err)
	}

	t.mesh = mesh
	t.colors = colors
	t.depth = depth
	t.heightTex = tex
	return nil
}

// release disposes every GPU resource. Always runs fully before a
// reallocation, never interleaved with one.
func (t *Terrain) release() {
	if t.mesh != nil {
		t.mesh.destroy()
		t.mesh = nil
	}
	deletePrograms(t.colors, t.depth)
	t.colors = [surfaceProgramCount]colorUniforms{}
	t.depth = depthUniforms{}
	if t.heightTex != 0 {
		gl.DeleteTextures(1, &t.heightTex)
		t.heightTex = 0
	}
}

// uploadHeightTexture pushes the field grid into a mirrored-repeat R32F
// texture, the same wrap mode the CPU queries use.
func uploadHeightTexture(field *heightfield.Field) (uint32, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	res := int32(field.Resolution())
	grid := field.Grid()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R32F, res, res, 0, gl.RED, gl.FLOAT, gl.Ptr(grid))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.MIRRORED_REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.MIRRORED_REPEAT)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := gl.GetError(); err != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, fmt.Errorf("gl error 0x%x", err)
	}
	return tex, nil
}

// Recenter moves the terrain under the observer. No geometry changes;
// the offset shifts where every tile samples the height field, which is
// the whole trick behind the apparently infinite surface.
func (t *Terrain) Recenter(observer mgl32.Vec2) {
	t.offset = observer
}

// Offset returns the current recentring offset.
func (t *Terrain) Offset() mgl32.Vec2 {
	return t.offset
}

// Tiles returns the current tile layout. Callers must not mutate it.
func (t *Terrain) Tiles() []Tile {
	return t.tiles
}

// Rebuild tears down and reallocates geometry for a new ring count and
// tile density. This is the only path that replaces geometry; it never
// happens as a side effect of camera motion.
func (t *Terrain) Rebuild(levels, resolution int) error {
	levels = ClampLevels(levels)
	resolution = ClampResolution(resolution)
	if levels == t.levels && resolution == t.resolution {
		return nil
	}

	t.release()
	t.levels = levels
	t.resolution = resolution
	if err := t.allocate(); err != nil {
		return fmt.Errorf("terrain rebuild: %w", err)
	}

	logger.Sugar.Infow("terrain rebuilt",
		"levels", levels,
		"resolution", resolution,
		"tiles", len(t.tiles),
	)
	return nil
}

// SetField swaps in a regenerated height field and re-uploads its
// texture. The old field is simply dropped; grids are never mutated in
// place.
func (t *Terrain) SetField(field *heightfield.Field) error {
	if field == nil {
		return fmt.Errorf("terrain: nil height field")
	}

	tex, err := uploadHeightTexture(field)
	if err != nil {
		return fmt.Errorf("height texture: %w", err)
	}

	if t.heightTex != 0 {
		gl.DeleteTextures(1, &t.heightTex)
	}
	t.heightTex = tex
	t.field = field
	return nil
}

// Field returns the current height field.
func (t *Terrain) Field() *heightfield.Field {
	return t.field
}

// HeightAt queries the elevation under a world position, including the
// recentring offset, so it matches what the GPU renders there.
func (t *Terrain) HeightAt(worldX, worldZ float32) float32 {
	cells := float32(t.field.Resolution()) / t.worldWidth
	return t.field.HeightAt(worldX*cells, worldZ*cells)
}

// NormalAt is the world-space companion of HeightAt.
func (t *Terrain) NormalAt(worldX, worldZ float32) [3]float32 {
	cells := float32(t.field.Resolution()) / t.worldWidth
	return t.field.NormalAt(worldX*cells, worldZ*cells)
}

// Bounds returns the world-space box the tile set currently covers,
// centered on the recentring offset.
func (t *Terrain) Bounds() (min, max mgl32.Vec3) {
	half := t.worldWidth / 2
	maxH := float32(heightfield.MaxSample) * t.field.Gain()
	min = mgl32.Vec3{t.offset.X() - half, 0, t.offset.Y() - half}
	max = mgl32.Vec3{t.offset.X() + half, maxH, t.offset.Y() + half}
	return min, max
}

// SetSurfaceProgram selects the shading variant for subsequent color
// passes. Out-of-range variants are ignored.
func (t *Terrain) SetSurfaceProgram(variant SurfaceProgram) {
	if variant < 0 || variant >= surfaceProgramCount {
		return
	}
	t.variant = variant
}

// SurfaceProgramVariant returns the active shading variant.
func (t *Terrain) SurfaceProgramVariant() SurfaceProgram {
	return t.variant
}

// Params returns the current shared surface parameters.
func (t *Terrain) Params() SurfaceParams {
	return t.params
}

// SetMorphRegion sets the edge-morph band as a fraction of the tile edge.
func (t *Terrain) SetMorphRegion(fraction float32) {
	if fraction <= 0 || fraction >= 1 {
		return
	}
	t.params.MorphRegion = fraction
}

// SetSun forwards the directional light to every tile.
func (t *Terrain) SetSun(dir mgl32.Vec3, intensity float32, tint mgl32.Vec3) {
	t.params.SunDir = dir
	if intensity < 0 {
		intensity = 0
	}
	t.params.SunIntensity = intensity
	t.params.SunTint = tint
}

// SetAmbient forwards the hemispheric ambient term.
func (t *Terrain) SetAmbient(dir mgl32.Vec3, intensity float32, color mgl32.Vec3) {
	t.params.AmbientDir = dir
	if intensity < 0 {
		intensity = 0
	}
	t.params.AmbientIntensity = intensity
	t.params.AmbientColor = color
}

// SetFog sets the fade range. far <= near clamps to a minimum positive
// span instead of producing an inverted ramp.
func (t *Terrain) SetFog(near, far float32, color mgl32.Vec3) {
	if far <= near {
		far = near + 1
	}
	t.params.FogNear = near
	t.params.FogFar = far
	t.params.FogColor = color
}

// SetSurface forwards the surface appearance scalars.
func (t *Terrain) SetSurface(smoothing, specular float32, skyTint mgl32.Vec3) {
	if smoothing < 0 {
		smoothing = 0
	}
	t.params.Smoothing = smoothing
	t.params.Specular = specular
	t.params.SkyTint = skyTint
}

// SetShadowParams forwards the shadow shaping scalars.
func (t *Terrain) SetShadowParams(bias, strength, softness float32) {
	t.params.ShadowBias = bias
	t.params.ShadowStrength = clamp01(strength)
	if softness < 0 {
		softness = 0
	}
	t.params.ShadowSoftness = softness
}

// ShadowsEnabled reports whether the color pass samples shadow maps.
func (t *Terrain) ShadowsEnabled() bool {
	return t.shadowsEnabled
}

// SetShadowsEnabled toggles shadow sampling without touching geometry.
func (t *Terrain) SetShadowsEnabled(enabled bool) {
	t.shadowsEnabled = enabled
}

// Destroy releases all GPU resources.
func (t *Terrain) Destroy() {
	t.release()
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
