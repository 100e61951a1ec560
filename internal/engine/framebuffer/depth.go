// Package framebuffer provides OpenGL offscreen render targets.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Depth is a depth-only render target for shadow passes. The attachment is
// a comparison-mode texture, so the shading pass can sample it through a
// sampler2DShadow with hardware PCF.
type Depth struct {
	fbo          uint32
	texture      uint32
	resolution   int32
	prevViewport [4]int32
}

// NewDepth creates a square depth-only target. Allocation failure is an
// error for the caller to surface; a frame cannot be produced without its
// shadow targets.
func NewDepth(resolution int32) (*Depth, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("invalid depth target resolution %d", resolution)
	}

	d := &Depth{resolution: resolution}

	gl.GenFramebuffers(1, &d.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)

	gl.GenTextures(1, &d.texture)
	gl.BindTexture(gl.TEXTURE_2D, d.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, resolution, resolution, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// White border: samples outside the cascade read as fully lit instead
	// of fully shadowed.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	borderColor := []float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, d.texture, 0)

	// Depth-only pass, no color writes.
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		d.Destroy()
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return nil, fmt.Errorf("depth framebuffer incomplete: 0x%x", status)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return d, nil
}

// Bind makes this target current, sets its viewport and clears depth.
// Front-face culling while bound pushes the depth bias toward the light
// and cuts down on acne.
func (d *Depth) Bind() {
	gl.GetIntegerv(gl.VIEWPORT, &d.prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
	gl.Viewport(0, 0, d.resolution, d.resolution)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
}

// Unbind restores the default framebuffer, the saved viewport, and
// back-face culling.
func (d *Depth) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(d.prevViewport[0], d.prevViewport[1], d.prevViewport[2], d.prevViewport[3])
	gl.CullFace(gl.BACK)
}

// Texture returns the depth texture ID for sampling in the shading pass.
func (d *Depth) Texture() uint32 {
	return d.texture
}

// Resolution returns the target's side length in texels.
func (d *Depth) Resolution() int32 {
	return d.resolution
}

// Destroy releases the GL resources.
func (d *Depth) Destroy() {
	if d.fbo != 0 {
		gl.DeleteFramebuffers(1, &d.fbo)
		d.fbo = 0
	}
	if d.texture != 0 {
		gl.DeleteTextures(1, &d.texture)
		d.texture = 0
	}
}
