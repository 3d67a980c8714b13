package demo

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuripourre/cardboard/shader"
	"github.com/yuripourre/cardboard/stereo"
)

func TestNoiseIsDeterministic(t *testing.T) {
	a, b := Noise(16), Noise(16)
	assert.Equal(t, a.Pix, b.Pix)
	assert.Len(t, a.Pix, 256)
}

func TestSkyFaces(t *testing.T) {
	faces := Sky(8)
	for i, f := range faces {
		require.NotNil(t, f, "face %d", i)
		assert.Equal(t, 8, f.Bounds().Dx())
	}
	assert.Equal(t, skyColors[0], faces[facePosY].At(3, 3))
	assert.Equal(t, skyColors[0], faces[0].At(0, 0), "side faces start at the zenith color")
	assert.Equal(t, skyColors[1], faces[0].At(0, 7), "and end at the horizon")
	bottom := faces[faceNegY].At(0, 0).(color.RGBA)
	assert.Less(t, bottom.R, skyColors[1].R)
}

func TestUniformsForEye(t *testing.T) {
	fov := stereo.FieldOfView{Left: 45, Right: 45, Bottom: 45, Top: 45}
	eye := stereo.NewEye(stereo.Right, stereo.IdentityHead(), 0.064, stereo.Viewport{X: 400, Width: 400, Height: 300}, fov)
	u := uniformsFor(eye)

	assert.Equal(t, mgl32.Vec3{400, 300, 1}, u.resolution)
	assert.Equal(t, mgl32.Vec4{0, 0, 400, 300}, u.viewport)
	assert.Equal(t, int32(stereo.Right), u.eye)
	assert.Equal(t, eye.View, u.eyeView)

	identity := eye.Perspective(zNear, zFar).Mul4(u.invProjection)
	assert.True(t, identity.ApproxEqualThreshold(mgl32.Ident4(), 1e-4))
}

func TestDefaultShaderUsesMainVR(t *testing.T) {
	assert.True(t, shader.HasMainVR(DefaultShader))
	assert.Contains(t, DefaultShader, "iChannel1")
}
