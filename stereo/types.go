package stereo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/yuripourre/cardboard/graphics"
)

// EyeType identifies which eye a draw call is for.
type EyeType int

const (
	Monocular EyeType = iota
	Left
	Right
)

func (t EyeType) String() string {
	switch t {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "monocular"
	}
}

// Viewport is a rectangle of the surface in pixels.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// Apply sets the GL viewport to v.
func (v Viewport) Apply(g graphics.GL) {
	g.Viewport(int32(v.X), int32(v.Y), int32(v.Width), int32(v.Height))
}

func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", v.Width, v.Height, v.X, v.Y)
}

// FieldOfView holds the half angles of an eye's frustum in degrees.
type FieldOfView struct {
	Left, Right, Bottom, Top float32
}

// Perspective returns the off-axis projection for the field of view.
func (f FieldOfView) Perspective(near, far float32) mgl32.Mat4 {
	tan := func(deg float32) float32 {
		return float32(math.Tan(float64(mgl32.DegToRad(deg))))
	}
	return mgl32.Frustum(-tan(f.Left)*near, tan(f.Right)*near, -tan(f.Bottom)*near, tan(f.Top)*near, near, far)
}

// Eye carries what the host knows about one eye for the current frame.
type Eye struct {
	Type     EyeType
	View     mgl32.Mat4
	Viewport Viewport
	FOV      FieldOfView
	// ProjectionChanged is set when FOV differs from the previous frame.
	ProjectionChanged bool
}

func (e Eye) Perspective(near, far float32) mgl32.Mat4 {
	return e.FOV.Perspective(near, far)
}

// NewEye derives the eye view from the head pose. The eyes sit ipd apart
// along the head's x axis.
func NewEye(t EyeType, head HeadTransform, ipd float32, vp Viewport, fov FieldOfView) Eye {
	var offset float32
	switch t {
	case Left:
		offset = ipd / 2
	case Right:
		offset = -ipd / 2
	}
	return Eye{
		Type:     t,
		View:     mgl32.Translate3D(offset, 0, 0).Mul4(head.HeadView),
		Viewport: vp,
		FOV:      fov,
	}
}

// HeadTransform is the head pose for a frame, stored as the view matrix
// that takes world space into head space.
type HeadTransform struct {
	HeadView mgl32.Mat4
}

// NewHeadTransform builds the head view for orientation q.
func NewHeadTransform(q mgl32.Quat) HeadTransform {
	return HeadTransform{HeadView: q.Normalize().Conjugate().Mat4()}
}

// IdentityHead looks down -z with no translation.
func IdentityHead() HeadTransform {
	return HeadTransform{HeadView: mgl32.Ident4()}
}

// Quaternion returns the head orientation.
func (h HeadTransform) Quaternion() mgl32.Quat {
	return mgl32.Mat4ToQuat(h.HeadView.Transpose()).Normalize()
}

func (h HeadTransform) Forward() mgl32.Vec3 {
	return h.HeadView.Row(2).Vec3().Mul(-1)
}

func (h HeadTransform) Up() mgl32.Vec3 {
	return h.HeadView.Row(1).Vec3()
}

func (h HeadTransform) Right() mgl32.Vec3 {
	return h.HeadView.Row(0).Vec3()
}

func (h HeadTransform) Translation() mgl32.Vec3 {
	return h.HeadView.Col(3).Vec3()
}
