package terrain

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Render draws every tile with the active surface variant. The three
// shadow maps, their matrices, split depths and enabled flags come in
// through the frame state; a disabled cascade simply lights its depth
// range unshadowed.
func (t *Terrain) Render(frame FrameState) {
	u := t.colors[t.variant]
	gl.UseProgram(u.program)

	viewProj := frame.ViewProj
	gl.UniformMatrix4fv(u.viewProj, 1, false, &viewProj[0])
	gl.Uniform2f(u.offset, t.offset.X(), t.offset.Y())
	gl.Uniform1f(u.worldWidth, t.worldWidth)
	gl.Uniform1f(u.gain, t.field.Gain())
	gl.Uniform1f(u.resolution, float32(t.resolution))
	gl.Uniform1f(u.morph, t.params.MorphRegion)
	gl.Uniform3f(u.cameraPos, frame.CameraPos.X(), frame.CameraPos.Y(), frame.CameraPos.Z())

	gl.Uniform3f(u.sunDir, t.params.SunDir.X(), t.params.SunDir.Y(), t.params.SunDir.Z())
	gl.Uniform1f(u.sunIntensity, t.params.SunIntensity)
	gl.Uniform3f(u.sunTint, t.params.SunTint.X(), t.params.SunTint.Y(), t.params.SunTint.Z())
	gl.Uniform3f(u.ambientDir, t.params.AmbientDir.X(), t.params.AmbientDir.Y(), t.params.AmbientDir.Z())
	gl.Uniform1f(u.ambientIntensity, t.params.AmbientIntensity)
	gl.Uniform3f(u.ambientColor, t.params.AmbientColor.X(), t.params.AmbientColor.Y(), t.params.AmbientColor.Z())

	gl.Uniform1f(u.fogNear, t.params.FogNear)
	gl.Uniform1f(u.fogFar, t.params.FogFar)
	gl.Uniform3f(u.fogColor, t.params.FogColor.X(), t.params.FogColor.Y(), t.params.FogColor.Z())

	gl.Uniform1f(u.smoothing, t.params.Smoothing)
	gl.Uniform1f(u.specular, t.params.Specular)
	gl.Uniform3f(u.skyTint, t.params.SkyTint.X(), t.params.SkyTint.Y(), t.params.SkyTint.Z())

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.heightTex)
	gl.Uniform1i(u.heightMap, 0)

	t.bindShadowState(u, frame)

	t.mesh.draw()
	gl.UseProgram(0)
}

func (t *Terrain) bindShadowState(u colorUniforms, frame FrameState) {
	enabled := frame.CascadeEnabled
	if !t.shadowsEnabled {
		enabled = [3]int32{}
	}

	matrices := make([]float32, 0, 3*16)
	for i := range frame.ShadowMatrices {
		m := frame.ShadowMatrices[i]
		matrices = append(matrices, m[:]...)
	}
	gl.UniformMatrix4fv(u.lightViewProj, 3, false, &matrices[0])
	gl.Uniform4f(u.splits,
		frame.ShadowSplits.X(), frame.ShadowSplits.Y(),
		frame.ShadowSplits.Z(), frame.ShadowSplits.W())
	gl.Uniform1iv(u.cascadeEnabled, 3, &enabled[0])

	gl.Uniform1f(u.shadowBias, t.params.ShadowBias)
	gl.Uniform1f(u.shadowStrength, t.params.ShadowStrength)
	gl.Uniform1f(u.shadowSoftness, t.params.ShadowSoftness)
	gl.Uniform1f(u.shadowResolution, float32(frame.ShadowResolution))

	samplers := [3]int32{u.shadowMap0, u.shadowMap1, u.shadowMap2}
	for i := 0; i < 3; i++ {
		gl.ActiveTexture(uint32(gl.TEXTURE1 + i))
		gl.BindTexture(gl.TEXTURE_2D, frame.ShadowTextures[i])
		gl.Uniform1i(samplers[i], int32(1+i))
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// RenderDepth draws every tile into the currently bound shadow target
// using the depth-only program. Displacement matches the color pass
// exactly, including the edge morph.
func (t *Terrain) RenderDepth(lightViewProj mgl32.Mat4) {
	u := t.depth
	gl.UseProgram(u.program)

	gl.UniformMatrix4fv(u.lightViewProj, 1, false, &lightViewProj[0])
	gl.Uniform2f(u.offset, t.offset.X(), t.offset.Y())
	gl.Uniform1f(u.worldWidth, t.worldWidth)
	gl.Uniform1f(u.gain, t.field.Gain())
	gl.Uniform1f(u.resolution, float32(t.resolution))
	gl.Uniform1f(u.morph, t.params.MorphRegion)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.heightTex)
	gl.Uniform1i(u.heightMap, 0)

	t.mesh.draw()
	gl.UseProgram(0)
}
