package resources

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stripes() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(y * 100), G: uint8(x), A: 255})
		}
	}
	return img
}

func TestToRGBA(t *testing.T) {
	rgba := ToRGBA(stripes(), false)
	require.Equal(t, image.Rect(0, 0, 2, 3), rgba.Bounds())
	assert.Equal(t, color.RGBA{R: 200, G: 1, A: 255}, rgba.RGBAAt(1, 2))
}

func TestToRGBAFlip(t *testing.T) {
	rgba := ToRGBA(stripes(), true)
	assert.Equal(t, uint8(200), rgba.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(100), rgba.RGBAAt(0, 1).R)
	assert.Equal(t, uint8(0), rgba.RGBAAt(0, 2).R)
}

func TestToRGBAOffsetBounds(t *testing.T) {
	src := stripes().SubImage(image.Rect(0, 1, 2, 3))
	rgba := ToRGBA(src, false)
	assert.Equal(t, image.Rect(0, 0, 2, 2), rgba.Bounds())
	assert.Equal(t, uint8(100), rgba.RGBAAt(0, 0).R)
}

func TestSampler(t *testing.T) {
	assert.False(t, DefaultSampler.Mipmapped())
	assert.True(t, Sampler{Filter: "mipmap"}.Mipmapped())
}
