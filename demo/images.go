package demo

import (
	"image"
	"image/color"
	"math/rand/v2"
)

// Noise is a grey value noise texture, identical on every run.
func Noise(size int) *image.Gray {
	rng := rand.New(rand.NewPCG(1, 2))
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.IntN(256))
	}
	return img
}

// skyColors holds the zenith and horizon colors of the sky.
var skyColors = [2]color.RGBA{
	{R: 40, G: 90, B: 200, A: 255},
	{R: 220, G: 200, B: 170, A: 255},
}

// Sky returns six cube faces shading from horizon to zenith. The bottom
// face is the darkened horizon color.
func Sky(size int) [6]image.Image {
	var faces [6]image.Image
	for f := range faces {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				img.SetRGBA(x, y, skyAt(f, y, size))
			}
		}
		faces[f] = img
	}
	return faces
}

// Cube face order: +X, -X, +Y, -Y, +Z, -Z.
const (
	facePosY = 2
	faceNegY = 3
)

func skyAt(face, y, size int) color.RGBA {
	zenith, horizon := skyColors[0], skyColors[1]
	switch face {
	case facePosY:
		return zenith
	case faceNegY:
		return color.RGBA{R: horizon.R / 3, G: horizon.G / 3, B: horizon.B / 3, A: 255}
	}
	// Side faces: row 0 is the top edge.
	t := float64(y) / float64(max(size-1, 1))
	return color.RGBA{
		R: lerp(zenith.R, horizon.R, t),
		G: lerp(zenith.G, horizon.G, t),
		B: lerp(zenith.B, horizon.B, t),
		A: 255,
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
