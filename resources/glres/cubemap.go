package glres

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/yuripourre/cardboard/graphics"
	"github.com/yuripourre/cardboard/resources"
)

// Cubemap is a cube map texture built from six faces in +X, -X, +Y, -Y,
// +Z, -Z order.
type Cubemap struct {
	faces   [6]*image.RGBA
	sampler resources.Sampler

	textureID uint32
	gen       uint64
}

func NewCubemap(images [6]image.Image, sampler resources.Sampler) (*Cubemap, error) {
	c := &Cubemap{sampler: sampler}
	for i, img := range images {
		if img == nil {
			return nil, fmt.Errorf("input image for cube map face %d is nil", i)
		}
		// Faces are flipped to match OpenGL's coordinate system.
		c.faces[i] = resources.ToRGBA(img, true)
	}
	return c, nil
}

func (c *Cubemap) Reload(h *graphics.Handle) error {
	if err := checkHandle(h); err != nil {
		return err
	}
	if live(c.gen, h) {
		return nil
	}
	gl.GenTextures(1, &c.textureID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, c.textureID)
	for i, face := range c.faces {
		gl.TexImage2D(
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i),
			0,
			internalFormat(c.sampler),
			int32(face.Rect.Dx()),
			int32(face.Rect.Dy()),
			0,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(face.Pix),
		)
	}

	wrap := getWrapMode(c.sampler.Wrap)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, wrap)
	minFilter, magFilter := getFilterMode(c.sampler.Filter)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, magFilter)
	if c.sampler.Mipmapped() {
		gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	}
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	c.gen = h.Generation
	return nil
}

func (c *Cubemap) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, c.textureID)
}

func (c *Cubemap) TextureID() uint32 { return c.textureID }

func (c *Cubemap) Destroy() {
	if c.gen != 0 {
		gl.DeleteTextures(1, &c.textureID)
	}
	c.textureID, c.gen = 0, 0
}
