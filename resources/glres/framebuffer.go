package glres

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/yuripourre/cardboard/graphics"
)

// Framebuffer is an offscreen color target sampled as a texture, one per
// eye in the demo renderer.
type Framebuffer struct {
	width, height int

	fbo       uint32
	textureID uint32
	gen       uint64
}

func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{width: width, height: height}
}

func (f *Framebuffer) Reload(h *graphics.Handle) error {
	if err := checkHandle(h); err != nil {
		return err
	}
	if live(f.gen, h) {
		return nil
	}
	gl.GenTextures(1, &f.textureID)
	gl.BindTexture(gl.TEXTURE_2D, f.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(f.width), int32(f.height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &f.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, f.textureID, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &f.fbo)
		gl.DeleteTextures(1, &f.textureID)
		return fmt.Errorf("framebuffer %dx%d is not complete: 0x%x", f.width, f.height, status)
	}
	f.gen = h.Generation
	return nil
}

// Resize reallocates the color texture when the size changed.
func (f *Framebuffer) Resize(width, height int) {
	if width == f.width && height == f.height {
		return
	}
	f.width, f.height = width, height
	if f.gen == 0 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, f.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// BindForWriting makes the framebuffer the draw target covering its size.
func (f *Framebuffer) BindForWriting() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.fbo)
	gl.Viewport(0, 0, int32(f.width), int32(f.height))
}

func (f *Framebuffer) UnbindForWriting() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (f *Framebuffer) TextureID() uint32 { return f.textureID }

func (f *Framebuffer) Size() (int, int) { return f.width, f.height }

func (f *Framebuffer) Destroy() {
	if f.gen != 0 {
		gl.DeleteFramebuffers(1, &f.fbo)
		gl.DeleteTextures(1, &f.textureID)
	}
	f.fbo, f.textureID, f.gen = 0, 0, 0
}
