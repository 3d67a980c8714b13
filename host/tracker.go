package host

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/yuripourre/cardboard/stereo"
)

// HeadTracker supplies the head pose at the start of each frame.
type HeadTracker interface {
	HeadTransform() stereo.HeadTransform
}

// Static always reports the same pose.
type Static struct {
	Head stereo.HeadTransform
}

func (s Static) HeadTransform() stereo.HeadTransform { return s.Head }

// MouseLook maps the cursor position on the surface to yaw and pitch: the
// left and right edges look 90 degrees aside, the top and bottom edges 45
// degrees up and down.
type MouseLook struct {
	// Input returns x and y in framebuffer pixels with y growing upwards,
	// like graphics.Context.GetMouseInput.
	Input func() [4]float32
	Size  func() (int, int)
}

func (m MouseLook) HeadTransform() stereo.HeadTransform {
	w, h := m.Size()
	if w <= 0 || h <= 0 {
		return stereo.IdentityHead()
	}
	in := m.Input()
	nx := clamp(in[0]/float32(w)*2-1, -1, 1)
	ny := clamp(in[1]/float32(h)*2-1, -1, 1)

	yaw := -nx * math.Pi / 2
	pitch := ny * math.Pi / 4
	q := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}).Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0}))
	return stereo.NewHeadTransform(q)
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
