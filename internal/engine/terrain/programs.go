package terrain

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/windworn/skyterrain/internal/engine/shader"
	"github.com/windworn/skyterrain/internal/engine/terrain/shaders"
)

// SurfaceProgram selects one of the statically compiled surface shading
// variants. Switching variants only changes which program the color pass
// binds; geometry, LOD state and the depth pass are untouched.
type SurfaceProgram int

const (
	SurfaceStandard SurfaceProgram = iota // lit, fogged, shadowed
	SurfaceFlat                           // unlit height tint
	SurfaceNormals                        // normal visualization
	surfaceProgramCount
)

// colorUniforms caches the uniform locations of one surface variant.
// The set is closed: every binding the pass needs is a struct field, so a
// missing lookup is a startup failure instead of a silent black frame.
type colorUniforms struct {
	program uint32

	viewProj   int32
	offset     int32
	worldWidth int32
	gain       int32
	resolution int32
	morph      int32
	heightMap  int32
	cameraPos  int32

	sunDir           int32
	sunIntensity     int32
	sunTint          int32
	ambientDir       int32
	ambientIntensity int32
	ambientColor     int32

	fogNear  int32
	fogFar   int32
	fogColor int32

	smoothing int32
	specular  int32
	skyTint   int32

	shadowMap0       int32
	shadowMap1       int32
	shadowMap2       int32
	lightViewProj    int32
	splits           int32
	cascadeEnabled   int32
	shadowBias       int32
	shadowStrength   int32
	shadowSoftness   int32
	shadowResolution int32
}

// depthUniforms caches the uniform locations of the shadow depth pass.
type depthUniforms struct {
	program uint32

	lightViewProj int32
	offset        int32
	worldWidth    int32
	gain          int32
	resolution    int32
	morph         int32
	heightMap     int32
}

// compilePrograms builds the fixed program set. Variants share the
// terrain vertex stage.
func compilePrograms() ([surfaceProgramCount]colorUniforms, depthUniforms, error) {
	var colors [surfaceProgramCount]colorUniforms
	var depth depthUniforms

	fragments := [surfaceProgramCount]string{
		SurfaceStandard: shaders.TerrainFragmentShader,
		SurfaceFlat:     shaders.FlatFragmentShader,
		SurfaceNormals:  shaders.NormalsFragmentShader,
	}

	for variant, frag := range fragments {
		program, err := shader.CompileProgram(shaders.TerrainVertexShader, frag)
		if err != nil {
			return colors, depth, fmt.Errorf("surface variant %d: %w", variant, err)
		}
		colors[variant] = lookupColorUniforms(program)
	}

	program, err := shader.CompileProgram(shaders.DepthVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		return colors, depth, fmt.Errorf("depth program: %w", err)
	}
	depth = depthUniforms{
		program:       program,
		lightViewProj: shader.GetUniform(program, "uLightViewProj"),
		offset:        shader.GetUniform(program, "uOffset"),
		worldWidth:    shader.GetUniform(program, "uWorldWidth"),
		gain:          shader.GetUniform(program, "uGain"),
		resolution:    shader.GetUniform(program, "uResolution"),
		morph:         shader.GetUniform(program, "uMorphRegion"),
		heightMap:     shader.GetUniform(program, "uHeightMap"),
	}

	return colors, depth, nil
}

func lookupColorUniforms(program uint32) colorUniforms {
	return colorUniforms{
		program: program,

		viewProj:   shader.GetUniform(program, "uViewProj"),
		offset:     shader.GetUniform(program, "uOffset"),
		worldWidth: shader.GetUniform(program, "uWorldWidth"),
		gain:       shader.GetUniform(program, "uGain"),
		resolution: shader.GetUniform(program, "uResolution"),
		morph:      shader.GetUniform(program, "uMorphRegion"),
		heightMap:  shader.GetUniform(program, "uHeightMap"),
		cameraPos:  shader.GetUniform(program, "uCameraPos"),

		sunDir:           shader.GetUniform(program, "uSunDir"),
		sunIntensity:     shader.GetUniform(program, "uSunIntensity"),
		sunTint:          shader.GetUniform(program, "uSunTint"),
		ambientDir:       shader.GetUniform(program, "uAmbientDir"),
		ambientIntensity: shader.GetUniform(program, "uAmbientIntensity"),
		ambientColor:     shader.GetUniform(program, "uAmbientColor"),

		fogNear:  shader.GetUniform(program, "uFogNear"),
		fogFar:   shader.GetUniform(program, "uFogFar"),
		fogColor: shader.GetUniform(program, "uFogColor"),

		smoothing: shader.GetUniform(program, "uSmoothing"),
		specular:  shader.GetUniform(program, "uSpecular"),
		skyTint:   shader.GetUniform(program, "uSkyTint"),

		shadowMap0:       shader.GetUniform(program, "uShadowMap0"),
		shadowMap1:       shader.GetUniform(program, "uShadowMap1"),
		shadowMap2:       shader.GetUniform(program, "uShadowMap2"),
		lightViewProj:    shader.GetUniform(program, "uLightViewProj"),
		splits:           shader.GetUniform(program, "uSplits"),
		cascadeEnabled:   shader.GetUniform(program, "uCascadeEnabled"),
		shadowBias:       shader.GetUniform(program, "uShadowBias"),
		shadowStrength:   shader.GetUniform(program, "uShadowStrength"),
		shadowSoftness:   shader.GetUniform(program, "uShadowSoftness"),
		shadowResolution: shader.GetUniform(program, "uShadowResolution"),
	}
}

func deletePrograms(colors [surfaceProgramCount]colorUniforms, depth depthUniforms) {
	for i := range colors {
		if colors[i].program != 0 {
			gl.DeleteProgram(colors[i].program)
			colors[i].program = 0
		}
	}
	if depth.program != 0 {
		gl.DeleteProgram(depth.program)
	}
}
