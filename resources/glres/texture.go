package glres

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/golang/glog"
	"github.com/yuripourre/cardboard/graphics"
	"github.com/yuripourre/cardboard/resources"
)

// Texture is a 2D texture whose pixels stay in memory for reloads.
type Texture struct {
	rgba    *image.RGBA
	sampler resources.Sampler

	textureID uint32
	gen       uint64
}

// NewTexture prepares img for upload. Nothing touches GL until Reload.
func NewTexture(img image.Image, sampler resources.Sampler) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("texture image is nil")
	}
	return &Texture{rgba: resources.ToRGBA(img, sampler.VFlip), sampler: sampler}, nil
}

func (t *Texture) Reload(h *graphics.Handle) error {
	if err := checkHandle(h); err != nil {
		return err
	}
	if live(t.gen, h) {
		return nil
	}
	width := int32(t.rgba.Rect.Dx())
	height := int32(t.rgba.Rect.Dy())

	gl.GenTextures(1, &t.textureID)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, getWrapMode(t.sampler.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, getWrapMode(t.sampler.Wrap))
	minFilter, magFilter := getFilterMode(t.sampler.Filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat(t.sampler), width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(t.rgba.Pix))
	if t.sampler.Mipmapped() {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	t.gen = h.Generation
	glog.V(1).Infof("glres: texture %d uploaded (%dx%d)", t.textureID, width, height)
	return nil
}

// Bind binds the texture to texture unit unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
}

func (t *Texture) TextureID() uint32 { return t.textureID }

func (t *Texture) Resolution() [3]float32 {
	return [3]float32{float32(t.rgba.Rect.Dx()), float32(t.rgba.Rect.Dy()), 1}
}

func (t *Texture) Destroy() {
	if t.gen != 0 {
		gl.DeleteTextures(1, &t.textureID)
	}
	t.textureID, t.gen = 0, 0
}
