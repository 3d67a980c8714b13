// Package demo is the built-in stereo application: a WebGL2 fragment
// shader rendered once per eye into an offscreen target and composed onto
// the side by side surface.
package demo

import (
	_ "embed"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/golang/glog"
	"github.com/yuripourre/cardboard/frame"
	"github.com/yuripourre/cardboard/graphics"
	"github.com/yuripourre/cardboard/resources"
	"github.com/yuripourre/cardboard/resources/glres"
	"github.com/yuripourre/cardboard/shader"
	"github.com/yuripourre/cardboard/stereo"
)

//go:embed default.glsl
var DefaultShader string

type Scene struct {
	caches *glres.Caches
	common string
	user   string
	now    frame.Source
	mouse  func() [4]float32

	quad    *glres.Mesh
	program *glres.Program
	blit    *glres.Program
	noise   *glres.Texture
	sky     *glres.Cubemap
	targets map[stereo.EyeType]*glres.Framebuffer

	ready   bool
	start   float64
	last    float64
	frameNo int32
	state   frameState
}

var _ stereo.StereoListener = (*Scene)(nil)

type Option func(*Scene)

// WithClock sets the time source for iTime.
func WithClock(now frame.Source) Option {
	return func(s *Scene) { s.now = now }
}

// WithMouse sets the source for iMouse.
func WithMouse(mouse func() [4]float32) Option {
	return func(s *Scene) { s.mouse = mouse }
}

// New returns a scene running user, a fragment shader defining mainVR or
// mainImage. Its GPU objects are tracked in caches.
func New(caches *glres.Caches, common, user string, opts ...Option) *Scene {
	s := &Scene{
		caches:  caches,
		common:  common,
		user:    user,
		now:     frame.WallClock(),
		mouse:   func() [4]float32 { return [4]float32{} },
		targets: make(map[stereo.EyeType]*glres.Framebuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create loads the GPU objects into the active context. A scene that fails
// to load logs the error and renders nothing.
func (s *Scene) Create() {
	h := graphics.Active()

	noise, err := glres.NewTexture(Noise(256), resources.Sampler{Wrap: "repeat", Filter: "mipmap"})
	if err != nil {
		glog.Errorf("demo: %v", err)
		return
	}
	sky, err := glres.NewCubemap(Sky(64), resources.Sampler{Wrap: "clamp", Filter: "linear"})
	if err != nil {
		glog.Errorf("demo: %v", err)
		return
	}
	s.quad = glres.NewQuad()
	s.noise, s.sky = noise, sky
	s.program = glres.NewShaderProgram("scene", s.common, s.user)
	s.blit = glres.NewBlitProgram()

	for _, load := range []func() error{
		func() error { return s.caches.Meshes.Load(s.quad, h) },
		func() error { return s.caches.Textures.Load(s.noise, h) },
		func() error { return s.caches.Cubemaps.Load(s.sky, h) },
		func() error { return s.caches.Shaders.Load(s.program, h) },
		func() error { return s.caches.Shaders.Load(s.blit, h) },
	} {
		if err := load(); err != nil {
			glog.Errorf("demo: %v", err)
			return
		}
	}
	s.start = s.now()
	s.last = s.start
	s.ready = true
	glog.Infof("demo: scene created (mainVR=%t)", shader.HasMainVR(s.user))
}

func (s *Scene) Resize(width, height int) {
	glog.V(1).Infof("demo: per eye surface %dx%d", width, height)
}

func (s *Scene) OnNewFrame(head stereo.HeadTransform) {
	t := s.now()
	delta := t - s.last
	s.last = t
	s.state = frameState{
		time:  float32(t - s.start),
		delta: float32(delta),
		frame: s.frameNo,
		mouse: s.mouse(),
	}
	if delta > 0 {
		s.state.frameRate = float32(1 / delta)
	}
	s.frameNo++
}

// target returns the offscreen framebuffer for an eye, sized to its viewport.
func (s *Scene) target(eye stereo.Eye) (*glres.Framebuffer, error) {
	fb, ok := s.targets[eye.Type]
	if !ok {
		fb = glres.NewFramebuffer(eye.Viewport.Width, eye.Viewport.Height)
		if err := s.caches.Framebuffers.Load(fb, graphics.Active()); err != nil {
			return nil, err
		}
		s.targets[eye.Type] = fb
	}
	fb.Resize(eye.Viewport.Width, eye.Viewport.Height)
	return fb, nil
}

func (s *Scene) OnDrawEye(eye stereo.Eye) {
	if !s.ready || eye.Viewport.Width <= 0 || eye.Viewport.Height <= 0 {
		return
	}
	fb, err := s.target(eye)
	if err != nil {
		glog.Errorf("demo: %s eye target: %v", eye.Type, err)
		s.ready = false
		return
	}

	fb.BindForWriting()
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	s.program.Use()
	s.setUniforms(uniformsFor(eye))
	s.noise.Bind(0)
	s.sky.Bind(1)
	s.quad.Draw()
	fb.UnbindForWriting()

	gl.Viewport(int32(eye.Viewport.X), int32(eye.Viewport.Y), int32(eye.Viewport.Width), int32(eye.Viewport.Height))
	s.blit.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, fb.TextureID())
	if loc := s.blit.Location(shader.BlitTexture); loc != -1 {
		gl.Uniform1i(loc, 0)
	}
	s.quad.Draw()
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (s *Scene) setUniforms(u eyeUniforms) {
	p := s.program
	if loc := p.Location(shader.Resolution); loc != -1 {
		gl.Uniform3f(loc, u.resolution[0], u.resolution[1], u.resolution[2])
	}
	if loc := p.Location(shader.Time); loc != -1 {
		gl.Uniform1f(loc, s.state.time)
	}
	if loc := p.Location(shader.TimeDelta); loc != -1 {
		gl.Uniform1f(loc, s.state.delta)
	}
	if loc := p.Location(shader.FrameRate); loc != -1 {
		gl.Uniform1f(loc, s.state.frameRate)
	}
	if loc := p.Location(shader.Frame); loc != -1 {
		gl.Uniform1i(loc, s.state.frame)
	}
	if loc := p.Location(shader.Mouse); loc != -1 {
		m := s.state.mouse
		gl.Uniform4f(loc, m[0], m[1], m[2], m[3])
	}
	if loc := p.Location(shader.Viewport); loc != -1 {
		gl.Uniform4f(loc, u.viewport[0], u.viewport[1], u.viewport[2], u.viewport[3])
	}
	if loc := p.Location(shader.Eye); loc != -1 {
		gl.Uniform1i(loc, u.eye)
	}
	if loc := p.Location(shader.EyeView); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &u.eyeView[0])
	}
	if loc := p.Location(shader.InvProjection); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &u.invProjection[0])
	}
	if loc := p.Location(shader.Channel0); loc != -1 {
		gl.Uniform1i(loc, 0)
	}
	if loc := p.Location(shader.Channel1); loc != -1 {
		gl.Uniform1i(loc, 1)
	}
}

func (s *Scene) OnFinishFrame(vp stereo.Viewport) {
	glog.V(2).Infof("demo: frame %d finished on %s", s.frameNo, vp)
}

// OnRendererShutdown releases every GPU object the scene created.
func (s *Scene) OnRendererShutdown() {
	s.ready = false
	if s.quad != nil {
		s.caches.Meshes.Remove(s.quad)
		s.quad.Destroy()
	}
	if s.noise != nil {
		s.caches.Textures.Remove(s.noise)
		s.noise.Destroy()
	}
	if s.sky != nil {
		s.caches.Cubemaps.Remove(s.sky)
		s.sky.Destroy()
	}
	for _, p := range []*glres.Program{s.program, s.blit} {
		if p != nil {
			s.caches.Shaders.Remove(p)
			p.Destroy()
		}
	}
	for t, fb := range s.targets {
		s.caches.Framebuffers.Remove(fb)
		fb.Destroy()
		delete(s.targets, t)
	}
	glog.Info("demo: scene released")
}
