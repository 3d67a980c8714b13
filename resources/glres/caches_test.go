package glres

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuripourre/cardboard/resources"
)

// These tests stay on the CPU side; nothing here needs a GL context.

func TestCachesRegisterEveryKind(t *testing.T) {
	r := &resources.Registry{}
	NewCaches().Register(r)
	assert.Equal(t, []string{"meshes", "textures", "cubemaps", "shaders", "framebuffers"}, r.Names())
	assert.Equal(t, "meshes: 0, textures: 0, cubemaps: 0, shaders: 0, framebuffers: 0", r.Status())
}

func TestReloadWithoutContext(t *testing.T) {
	tex, err := NewTexture(image.NewRGBA(image.Rect(0, 0, 4, 4)), resources.DefaultSampler)
	require.NoError(t, err)

	for _, m := range []resources.Managed{NewQuad(), tex, NewFramebuffer(8, 8), NewBlitProgram()} {
		assert.ErrorIs(t, m.Reload(nil), resources.ErrNoContext)
	}
}

func TestNewTextureRejectsNil(t *testing.T) {
	_, err := NewTexture(nil, resources.DefaultSampler)
	assert.Error(t, err)
}

func TestNewCubemapRejectsMissingFace(t *testing.T) {
	var faces [6]image.Image
	for i := 0; i < 5; i++ {
		faces[i] = image.NewRGBA(image.Rect(0, 0, 2, 2))
	}
	_, err := NewCubemap(faces, resources.DefaultSampler)
	assert.ErrorContains(t, err, "face 5")
}

func TestTextureResolution(t *testing.T) {
	tex, err := NewTexture(image.NewRGBA(image.Rect(0, 0, 16, 8)), resources.Sampler{VFlip: true})
	require.NoError(t, err)
	assert.Equal(t, [3]float32{16, 8, 1}, tex.Resolution())
}

func TestFramebufferResizeBeforeUpload(t *testing.T) {
	f := NewFramebuffer(100, 50)
	f.Resize(200, 80)
	w, h := f.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 80, h)
}

func TestProgramLocationMissing(t *testing.T) {
	p := NewBlitProgram()
	assert.Equal(t, int32(-1), p.Location("u_texture"), "no locations before linking")
	assert.Equal(t, "blit", p.Name())
}
