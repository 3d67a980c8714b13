package resources

import (
	"image"
	"image/draw"
)

// Sampler holds texture sampling state using the names shaders are
// published with: wrap "repeat" or "clamp", filter "mipmap", "linear" or
// "nearest".
type Sampler struct {
	Wrap   string
	Filter string
	SRGB   bool
	VFlip  bool
}

// DefaultSampler repeats and filters linearly.
var DefaultSampler = Sampler{Wrap: "repeat", Filter: "linear"}

// Mipmapped reports whether the sampler needs mipmaps generated.
func (s Sampler) Mipmapped() bool { return s.Filter == "mipmap" }

// ToRGBA converts img to tightly packed RGBA, flipping it when flip is set.
// The returned image never aliases img.
func ToRGBA(img image.Image, flip bool) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	if flip {
		return VFlip(rgba)
	}
	return rgba
}

// VFlip returns a vertically flipped copy of src.
func VFlip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}
