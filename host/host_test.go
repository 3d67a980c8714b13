package host

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuripourre/cardboard/graphics"
	"github.com/yuripourre/cardboard/lifecycle"
	"github.com/yuripourre/cardboard/stereo"
)

type fakeContext struct {
	width, height int
	now           float64
	step          float64
	closeAfter    int
	frames        int
	current       bool
	mouse         [4]float32
	onEndFrame    func(c *fakeContext)
}

func (c *fakeContext) MakeCurrent()                   { c.current = true }
func (c *fakeContext) Shutdown()                      {}
func (c *fakeContext) ShouldClose() bool              { return c.closeAfter > 0 && c.frames >= c.closeAfter }
func (c *fakeContext) GetFramebufferSize() (int, int) { return c.width, c.height }
func (c *fakeContext) Time() float64                  { return c.now }
func (c *fakeContext) IsGLES() bool                   { return false }
func (c *fakeContext) GetMouseInput() [4]float32      { return c.mouse }

func (c *fakeContext) EndFrame() {
	c.frames++
	c.now += c.step
	if c.onEndFrame != nil {
		c.onEndFrame(c)
	}
}

type recordingRenderer struct {
	calls []string
	eyes  []stereo.Eye
	heads []stereo.HeadTransform
	state lifecycle.State
}

func (r *recordingRenderer) OnSurfaceCreated(graphics.FramebufferConfig) {
	r.calls = append(r.calls, "created")
}

func (r *recordingRenderer) OnSurfaceChanged(w, h int) {
	r.calls = append(r.calls, fmt.Sprintf("changed %dx%d", w, h))
}

func (r *recordingRenderer) OnNewFrame(head stereo.HeadTransform) {
	r.calls = append(r.calls, "new frame")
	r.heads = append(r.heads, head)
}

func (r *recordingRenderer) OnDrawEye(e stereo.Eye) {
	r.calls = append(r.calls, "draw "+e.Type.String())
	r.eyes = append(r.eyes, e)
}

func (r *recordingRenderer) OnFinishFrame(vp stereo.Viewport) {
	r.calls = append(r.calls, "finish "+vp.String())
}

func (r *recordingRenderer) OnRendererShutdown() {
	r.calls = append(r.calls, "shutdown")
}

type pausableRenderer struct {
	recordingRenderer
}

func (r *pausableRenderer) State() lifecycle.State { return r.state }

type failingSink struct{ after int }

func (s *failingSink) WriteFrame(w, h int) error {
	s.after--
	if s.after < 0 {
		return errors.New("pipe closed")
	}
	return nil
}

func TestRunSequence(t *testing.T) {
	gfx := &fakeContext{width: 800, height: 600, step: 1.0 / 60, closeAfter: 2}
	r := &recordingRenderer{}
	require.NoError(t, New(gfx, r, nil).Run(context.Background()))

	assert.True(t, gfx.current)
	assert.Equal(t, []string{
		"created", "changed 800x600",
		"new frame", "draw left", "draw right", "finish 800x600+0+0",
		"new frame", "draw left", "draw right", "finish 800x600+0+0",
		"shutdown",
	}, r.calls)
}

func TestEyeViewports(t *testing.T) {
	gfx := &fakeContext{width: 801, height: 600, closeAfter: 1}
	r := &recordingRenderer{}
	require.NoError(t, New(gfx, r, nil).Run(context.Background()))

	require.Len(t, r.eyes, 2)
	assert.Equal(t, stereo.Viewport{Width: 400, Height: 600}, r.eyes[0].Viewport)
	assert.Equal(t, stereo.Viewport{X: 400, Width: 401, Height: 600}, r.eyes[1].Viewport)
	assert.True(t, r.eyes[0].ProjectionChanged)
	assert.Equal(t, DefaultConfig.FOV, r.eyes[1].FOV)
}

func TestProjectionChangedOnlyOnFirstFrame(t *testing.T) {
	gfx := &fakeContext{width: 800, height: 600, closeAfter: 3}
	r := &recordingRenderer{}
	require.NoError(t, New(gfx, r, nil).Run(context.Background()))

	require.Len(t, r.eyes, 6)
	assert.True(t, r.eyes[0].ProjectionChanged)
	assert.False(t, r.eyes[2].ProjectionChanged)
	assert.False(t, r.eyes[5].ProjectionChanged)
}

func TestResizeDetected(t *testing.T) {
	gfx := &fakeContext{width: 800, height: 600, closeAfter: 2}
	gfx.onEndFrame = func(c *fakeContext) { c.width, c.height = 1024, 768 }
	r := &recordingRenderer{}
	require.NoError(t, New(gfx, r, nil).Run(context.Background()))

	assert.Contains(t, r.calls, "changed 1024x768")
	assert.Equal(t, "finish 1024x768+0+0", r.calls[len(r.calls)-2])
}

func TestDurationStopsLoop(t *testing.T) {
	gfx := &fakeContext{width: 100, height: 100, step: 0.25}
	r := &recordingRenderer{}
	h := New(gfx, r, nil, WithConfig(Config{IPD: 0.06, FOV: DefaultConfig.FOV, Duration: 1}))
	require.NoError(t, h.Run(context.Background()))
	assert.Equal(t, 4, h.Frames())
}

func TestCancelledContextStillShutsDownRenderer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &recordingRenderer{}
	require.NoError(t, New(&fakeContext{width: 10, height: 10}, r, nil).Run(ctx))
	assert.Equal(t, []string{"created", "changed 10x10", "shutdown"}, r.calls)
}

func TestFrameSinkErrorStopsLoop(t *testing.T) {
	gfx := &fakeContext{width: 10, height: 10}
	r := &recordingRenderer{}
	err := New(gfx, r, nil, WithFrameSink(&failingSink{after: 2})).Run(context.Background())
	assert.ErrorContains(t, err, "writing frame 3: pipe closed")
	assert.Equal(t, "shutdown", r.calls[len(r.calls)-1])
	assert.Equal(t, 3, gfx.frames, "the failing frame is still presented")
}

func TestPausedRendererSkipsFrames(t *testing.T) {
	gfx := &fakeContext{width: 10, height: 10, closeAfter: 2}
	r := &pausableRenderer{}
	r.state = lifecycle.Created
	require.NoError(t, New(gfx, r, nil).Run(context.Background()))
	assert.Equal(t, []string{"created", "changed 10x10", "shutdown"}, r.calls)
	assert.Equal(t, 2, gfx.frames)

	gfx = &fakeContext{width: 10, height: 10, closeAfter: 1}
	r = &pausableRenderer{}
	r.state = lifecycle.ShuttingDown
	require.NoError(t, New(gfx, r, nil).Run(context.Background()))
	assert.Contains(t, r.calls, "new frame", "shutting down renderers still see frames")
}

func TestTrackerFeedsFrames(t *testing.T) {
	gfx := &fakeContext{width: 10, height: 10, closeAfter: 1}
	r := &recordingRenderer{}
	head := stereo.HeadTransform{HeadView: stereo.IdentityHead().HeadView.Mul(2)}
	require.NoError(t, New(gfx, r, nil, WithTracker(Static{Head: head})).Run(context.Background()))
	require.Len(t, r.heads, 1)
	assert.Equal(t, head, r.heads[0])
}

type losingRenderer struct {
	recordingRenderer
}

func (r *losingRenderer) OnContextLost() { r.calls = append(r.calls, "lost") }

func TestRecreateSurface(t *testing.T) {
	gfx := &fakeContext{width: 10, height: 10}
	r := &losingRenderer{}
	h := New(gfx, r, nil)
	gfx.width = 20
	h.RecreateSurface()
	assert.Equal(t, []string{"lost", "created", "changed 20x10"}, r.calls)

	plain := &recordingRenderer{}
	New(gfx, plain, nil).RecreateSurface()
	assert.Equal(t, []string{"created", "changed 20x10"}, plain.calls)
}
