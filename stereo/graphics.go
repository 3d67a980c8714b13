// Package stereo bridges a headset host's stereo renderer callbacks to an
// application listener.
package stereo

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/yuripourre/cardboard/diag"
	"github.com/yuripourre/cardboard/frame"
	"github.com/yuripourre/cardboard/glcontext"
	"github.com/yuripourre/cardboard/graphics"
	"github.com/yuripourre/cardboard/lifecycle"
	"github.com/yuripourre/cardboard/metrics"
	"github.com/yuripourre/cardboard/resources"
)

// SurfaceState is the per-eye size of the split surface.
type SurfaceState struct {
	Width, Height int
	Initialized   bool
}

// Option configures a Graphics.
type Option func(*Graphics)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c *frame.Clock) Option {
	return func(g *Graphics) { g.clock = c }
}

// WithRegistry sets the caches invalidated on every surface creation.
func WithRegistry(r *resources.Registry) Option {
	return func(g *Graphics) { g.registry = r }
}

// WithDiagnostics sets where surface diagnostics are reported.
func WithDiagnostics(s diag.Sink) Option {
	return func(g *Graphics) { g.sink = diag.Safe(s) }
}

// Graphics implements Renderer on top of an ApplicationListener. All
// callbacks must come from the rendering goroutine; Shutdown, Pause,
// Resume, Running, State and Post may be called from any goroutine.
type Graphics struct {
	listener ApplicationListener
	stereo   StereoListener

	init     *glcontext.Initializer
	tracker  *metrics.Tracker
	machine  lifecycle.Machine
	clock    *frame.Clock
	registry *resources.Registry
	sink     diag.Sink

	handle  *graphics.Handle
	surface SurfaceState
	format  graphics.BufferFormat
}

var _ Renderer = (*Graphics)(nil)

// New wires listener to a stereo host. The stereo capability is resolved
// here once; a listener without it fails on its first stereo callback.
func New(listener ApplicationListener, init *glcontext.Initializer, display metrics.DisplayQuery, opts ...Option) *Graphics {
	g := &Graphics{
		listener: listener,
		init:     init,
		tracker:  metrics.NewTracker(display),
		registry: &resources.Registry{},
		sink:     diag.Glog{Tag: "AndroidGraphics"},
	}
	if s, ok := listener.(StereoListener); ok {
		g.stereo = s
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.clock == nil {
		g.clock = frame.NewClock(nil)
	}
	return g
}

func (g *Graphics) requireStereo(op string) StereoListener {
	if g.stereo == nil {
		panic(&lifecycle.FatalError{Op: op, Err: ErrNotStereo})
	}
	return g.stereo
}

func (g *Graphics) gl() *graphics.Handle {
	if g.handle == nil {
		glog.Warningf("stereo: surface changed before surface created, initializing GL now")
		g.handle = g.init.Initialize()
	}
	return g.handle
}

// OnSurfaceCreated sets up GL for a new context and rebuilds every
// managed resource.
func (g *Graphics) OnSurfaceCreated(cfg graphics.FramebufferConfig) {
	g.handle = g.init.Initialize()
	g.format = graphics.ReadBufferFormat(cfg)
	g.sink.Status("framebuffer", g.format.String())

	m := g.tracker.Update()
	glog.V(1).Infof("stereo: display %s", m)

	g.registry.InvalidateAll(g.handle)
	g.sink.Status("managed caches", g.registry.Status())

	w, h := g.tracker.DisplaySize()
	g.clock.Reset(w, h)
	g.handle.GL.Viewport(0, 0, int32(w), int32(h))
}

// OnSurfaceChanged receives the full surface size. Each eye gets half of
// it in both dimensions.
func (g *Graphics) OnSurfaceChanged(width, height int) {
	g.surface = SurfaceState{Width: width / 2, Height: height / 2, Initialized: true}
	g.tracker.Update()
	g.gl().GL.Viewport(0, 0, int32(g.surface.Width), int32(g.surface.Height))

	if g.machine.Establish(g.listener.Create) {
		glog.Infof("stereo: application created at %dx%d per eye", g.surface.Width, g.surface.Height)
	}
	g.listener.Resize(g.surface.Width, g.surface.Height)
}

func (g *Graphics) OnNewFrame(head HeadTransform) {
	g.machine.RequireCreated("OnNewFrame")
	g.clock.Tick()
	s := g.requireStereo("OnNewFrame")
	if g.machine.ShuttingDown() {
		return
	}
	s.OnNewFrame(head)
}

func (g *Graphics) OnDrawEye(eye Eye) {
	g.machine.RequireCreated("OnDrawEye")
	s := g.requireStereo("OnDrawEye")
	if g.machine.ShuttingDown() {
		return
	}
	s.OnDrawEye(eye)
}

func (g *Graphics) OnFinishFrame(vp Viewport) {
	g.machine.RequireCreated("OnFinishFrame")
	s := g.requireStereo("OnFinishFrame")
	if g.machine.ShuttingDown() {
		return
	}
	s.OnFinishFrame(vp)
}

// OnRendererShutdown is forwarded even after Shutdown so the application
// can release its resources.
func (g *Graphics) OnRendererShutdown() {
	g.requireStereo("OnRendererShutdown").OnRendererShutdown()
}

// OnContextLost forgets the GL handle; the next OnSurfaceCreated probes
// the new context.
func (g *Graphics) OnContextLost() {
	g.init.Reset()
	g.handle = nil
}

// Shutdown stops frame events from reaching the listener. It reports
// whether this call initiated the shutdown.
func (g *Graphics) Shutdown() bool {
	if !g.machine.Shutdown() {
		return false
	}
	glog.Infof("stereo: shutting down")
	return true
}

func (g *Graphics) Pause() bool  { return g.machine.Pause() }
func (g *Graphics) Resume() bool { return g.machine.Resume() }

func (g *Graphics) Running() bool { return g.machine.Running() }

func (g *Graphics) State() lifecycle.State { return g.machine.State() }

// Post runs r on the rendering goroutine at the start of the next frame.
func (g *Graphics) Post(r func()) { g.clock.Post(r) }

func (g *Graphics) Width() int  { return g.surface.Width }
func (g *Graphics) Height() int { return g.surface.Height }

func (g *Graphics) Surface() SurfaceState { return g.surface }

func (g *Graphics) Metrics() metrics.DisplayMetrics { return g.tracker.Metrics() }

// Info describes the current context. The zero Info is returned before
// OnSurfaceCreated and after a context loss.
func (g *Graphics) Info() graphics.Info {
	if g.handle == nil {
		return graphics.Info{}
	}
	return g.handle.Info
}

// Handle is the GL handle of the current context, nil when there is none.
func (g *Graphics) Handle() *graphics.Handle { return g.handle }

func (g *Graphics) BufferFormat() graphics.BufferFormat { return g.format }

func (g *Graphics) DeltaTime() float32    { return g.clock.DeltaTime() }
func (g *Graphics) RawDeltaTime() float32 { return g.clock.RawDeltaTime() }
func (g *Graphics) FramesPerSecond() int  { return g.clock.FramesPerSecond() }
func (g *Graphics) FrameID() int64        { return g.clock.FrameID() }

func (g *Graphics) String() string {
	return fmt.Sprintf("stereo.Graphics{%s, surface %dx%d}", g.machine.State(), g.surface.Width, g.surface.Height)
}
