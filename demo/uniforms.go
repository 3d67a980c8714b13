package demo

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yuripourre/cardboard/stereo"
)

const (
	zNear = 0.1
	zFar  = 100
)

// frameState is what the scene knows when a frame starts.
type frameState struct {
	time      float32
	delta     float32
	frameRate float32
	frame     int32
	mouse     [4]float32
}

// eyeUniforms are the values of the stereo uniforms for one eye pass.
// The pass renders into an eye sized framebuffer, so the viewport always
// starts at the origin.
type eyeUniforms struct {
	resolution    mgl32.Vec3
	viewport      mgl32.Vec4
	eye           int32
	eyeView       mgl32.Mat4
	invProjection mgl32.Mat4
}

func uniformsFor(eye stereo.Eye) eyeUniforms {
	w, h := float32(eye.Viewport.Width), float32(eye.Viewport.Height)
	return eyeUniforms{
		resolution:    mgl32.Vec3{w, h, 1},
		viewport:      mgl32.Vec4{0, 0, w, h},
		eye:           int32(eye.Type),
		eyeView:       eye.View,
		invProjection: eye.Perspective(zNear, zFar).Inv(),
	}
}
