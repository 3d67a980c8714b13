// Package host drives a stereo.Renderer from a graphics.Context the way a
// headset runtime would: one surface, split side by side, one head pose
// per frame.
package host

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/yuripourre/cardboard/graphics"
	"github.com/yuripourre/cardboard/lifecycle"
	"github.com/yuripourre/cardboard/stereo"
)

// FrameSink receives every finished frame while its pixels are still in
// the default framebuffer.
type FrameSink interface {
	WriteFrame(width, height int) error
}

type Config struct {
	// IPD is the distance between the eyes in world units.
	IPD float32
	FOV stereo.FieldOfView
	// Duration stops the loop after this many seconds of context time.
	// Zero runs until the context asks to close.
	Duration float64
}

// DefaultConfig matches a typical phone headset.
var DefaultConfig = Config{
	IPD: 0.064,
	FOV: stereo.FieldOfView{Left: 45, Right: 45, Bottom: 45, Top: 45},
}

type Option func(*Host)

func WithConfig(cfg Config) Option {
	return func(h *Host) { h.cfg = cfg }
}

func WithTracker(t HeadTracker) Option {
	return func(h *Host) { h.tracker = t }
}

func WithFrameSink(s FrameSink) Option {
	return func(h *Host) { h.sink = s }
}

// stateful is implemented by renderers that can be paused.
type stateful interface {
	State() lifecycle.State
}

// Host owns the frame loop. It must run on the goroutine that owns the
// graphics context.
type Host struct {
	gfx      graphics.Context
	renderer stereo.Renderer
	fb       graphics.FramebufferConfig
	cfg      Config
	tracker  HeadTracker
	sink     FrameSink

	width, height int
	lastFOV       stereo.FieldOfView
	frames        int
}

func New(gfx graphics.Context, r stereo.Renderer, fb graphics.FramebufferConfig, opts ...Option) *Host {
	h := &Host{
		gfx:      gfx,
		renderer: r,
		fb:       fb,
		cfg:      DefaultConfig,
		tracker:  Static{Head: stereo.IdentityHead()},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run creates the surface and renders until ctx is done, the context asks
// to close or the configured duration elapsed. OnRendererShutdown is
// delivered on every exit path. Only a failing frame sink is reported as
// an error.
func (h *Host) Run(ctx context.Context) error {
	h.gfx.MakeCurrent()
	h.renderer.OnSurfaceCreated(h.fb)
	h.width, h.height = h.gfx.GetFramebufferSize()
	h.renderer.OnSurfaceChanged(h.width, h.height)
	defer h.renderer.OnRendererShutdown()

	start := h.gfx.Time()
	for {
		select {
		case <-ctx.Done():
			glog.Infof("host: stopping after %d frames: %v", h.frames, ctx.Err())
			return nil
		default:
		}
		if h.gfx.ShouldClose() {
			glog.Infof("host: context closed after %d frames", h.frames)
			return nil
		}
		if h.cfg.Duration > 0 && h.gfx.Time()-start >= h.cfg.Duration {
			glog.Infof("host: rendered %d frames in %.2fs", h.frames, h.cfg.Duration)
			return nil
		}
		if err := h.Frame(); err != nil {
			return err
		}
	}
}

func (h *Host) paused() bool {
	s, ok := h.renderer.(stateful)
	return ok && s.State() == lifecycle.Created
}

// Frame delivers one stereo frame and presents it.
func (h *Host) Frame() error {
	defer h.gfx.EndFrame()

	w, ht := h.gfx.GetFramebufferSize()
	if w != h.width || ht != h.height {
		glog.V(1).Infof("host: surface resized to %dx%d", w, ht)
		h.width, h.height = w, ht
		h.renderer.OnSurfaceChanged(w, ht)
	}
	if h.paused() {
		return nil
	}

	head := h.tracker.HeadTransform()
	h.renderer.OnNewFrame(head)
	for _, eye := range h.eyes(head) {
		h.renderer.OnDrawEye(eye)
	}
	h.renderer.OnFinishFrame(stereo.Viewport{Width: w, Height: ht})
	h.frames++

	if h.sink != nil {
		if err := h.sink.WriteFrame(w, ht); err != nil {
			return fmt.Errorf("writing frame %d: %w", h.frames, err)
		}
	}
	return nil
}

// eyes splits the surface into a left and a right half.
func (h *Host) eyes(head stereo.HeadTransform) [2]stereo.Eye {
	half := h.width / 2
	changed := h.frames == 0 || h.cfg.FOV != h.lastFOV
	h.lastFOV = h.cfg.FOV

	left := stereo.NewEye(stereo.Left, head, h.cfg.IPD, stereo.Viewport{Width: half, Height: h.height}, h.cfg.FOV)
	right := stereo.NewEye(stereo.Right, head, h.cfg.IPD, stereo.Viewport{X: half, Width: h.width - half, Height: h.height}, h.cfg.FOV)
	left.ProjectionChanged, right.ProjectionChanged = changed, changed
	return [2]stereo.Eye{left, right}
}

// Frames is the number of frames delivered so far.
func (h *Host) Frames() int { return h.frames }

// RecreateSurface replays surface creation after the platform replaced the
// GL context, telling the renderer the old one is gone first.
func (h *Host) RecreateSurface() {
	if o, ok := h.renderer.(stereo.ContextLossObserver); ok {
		o.OnContextLost()
	}
	h.gfx.MakeCurrent()
	h.renderer.OnSurfaceCreated(h.fb)
	h.width, h.height = h.gfx.GetFramebufferSize()
	h.renderer.OnSurfaceChanged(h.width, h.height)
}
