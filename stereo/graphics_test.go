package stereo

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuripourre/cardboard/diag"
	"github.com/yuripourre/cardboard/frame"
	"github.com/yuripourre/cardboard/glcontext"
	"github.com/yuripourre/cardboard/graphics"
	"github.com/yuripourre/cardboard/internal/gltest"
	"github.com/yuripourre/cardboard/lifecycle"
	"github.com/yuripourre/cardboard/metrics"
	"github.com/yuripourre/cardboard/resources"
)

// recorder is an application listener that logs every call.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(format string, args ...any) {
	r.mu.Lock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recorder) Create()         { r.record("create") }
func (r *recorder) Resize(w, h int) { r.record("resize %dx%d", w, h) }

type stereoRecorder struct{ recorder }

func (r *stereoRecorder) OnNewFrame(HeadTransform) { r.record("new frame") }
func (r *stereoRecorder) OnDrawEye(e Eye)          { r.record("draw %s", e.Type) }
func (r *stereoRecorder) OnFinishFrame(Viewport)   { r.record("finish") }
func (r *stereoRecorder) OnRendererShutdown()      { r.record("shutdown") }

type countingCache struct {
	n     int
	gens  []uint64
	items int
}

func (c *countingCache) InvalidateAll(h *graphics.Handle) {
	c.n++
	c.gens = append(c.gens, h.Generation)
}

func (c *countingCache) Len() int { return c.items }

type fixture struct {
	g        *Graphics
	gl       *gltest.GL
	init     *glcontext.Initializer
	now      float64
	registry *resources.Registry
	status   map[string]string
}

func newFixture(t *testing.T, listener ApplicationListener) *fixture {
	t.Helper()
	f := &fixture{
		gl:       gltest.New("OpenGL ES 3.0"),
		registry: &resources.Registry{},
		status:   make(map[string]string),
	}
	sink := diag.SinkFunc(func(k, v string) { f.status[k] = v })
	init, err := glcontext.New(glcontext.Config{UseExtended: true, Diagnostics: sink}, f.gl, nil)
	require.NoError(t, err)
	t.Cleanup(init.Reset)
	f.init = init

	display := metrics.Fixed{
		Reading: metrics.Reading{XDPI: 254, YDPI: 254, Density: 2},
		Width:   800,
		Height:  600,
	}
	clock := frame.NewClock(func() float64 { return f.now })
	f.g = New(listener, init, display,
		WithClock(clock),
		WithRegistry(f.registry),
		WithDiagnostics(sink))
	return f
}

func (f *fixture) start() {
	f.g.OnSurfaceCreated(graphics.StaticConfig{graphics.RedSize: 8})
	f.g.OnSurfaceChanged(800, 600)
}

func (f *fixture) frame(eyes ...EyeType) {
	f.now += 1.0 / 60
	f.g.OnNewFrame(IdentityHead())
	for _, e := range eyes {
		f.g.OnDrawEye(Eye{Type: e})
	}
	f.g.OnFinishFrame(Viewport{Width: 800, Height: 600})
}

func fatalOf(t *testing.T, fn func()) *lifecycle.FatalError {
	t.Helper()
	var got *lifecycle.FatalError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a panic")
			err, ok := r.(error)
			require.True(t, ok, "panic value %v is not an error", r)
			require.True(t, errors.As(err, &got))
		}()
		fn()
	}()
	return got
}

func TestSurfaceChangedHalvesDimensions(t *testing.T) {
	app := &stereoRecorder{}
	f := newFixture(t, app)
	f.start()

	assert.Equal(t, SurfaceState{Width: 400, Height: 300, Initialized: true}, f.g.Surface())
	assert.Equal(t, 400, f.g.Width())
	assert.Equal(t, 300, f.g.Height())
	assert.Equal(t, [4]int32{0, 0, 400, 300}, f.gl.LastViewport())
	assert.Equal(t, []string{"create", "resize 400x300"}, app.Calls())
	assert.Equal(t, lifecycle.Running, f.g.State())
}

func TestCreateRunsOnce(t *testing.T) {
	app := &stereoRecorder{}
	f := newFixture(t, app)
	f.start()
	f.g.OnSurfaceChanged(1024, 768)
	f.g.OnSurfaceCreated(nil)
	f.g.OnSurfaceChanged(600, 400)

	assert.Equal(t, 1, app.count("create"))
	assert.Equal(t, []string{"create", "resize 400x300", "resize 512x384", "resize 300x200"}, app.Calls())
}

func TestSurfaceCreatedUsesRawDisplaySize(t *testing.T) {
	f := newFixture(t, &stereoRecorder{})
	f.g.OnSurfaceCreated(graphics.StaticConfig{
		graphics.RedSize:         5,
		graphics.GreenSize:       6,
		graphics.BlueSize:        5,
		graphics.DepthSize:       16,
		graphics.Samples:         0,
		graphics.CoverageSamples: 2,
	})

	assert.Equal(t, [4]int32{0, 0, 800, 600}, f.gl.LastViewport())
	assert.Equal(t, graphics.BufferFormat{R: 5, G: 6, B: 5, Depth: 16, Samples: 2, CoverageSampling: true}, f.g.BufferFormat())
	assert.Equal(t, f.g.BufferFormat().String(), f.status["framebuffer"])
	assert.Equal(t, graphics.TierExtended.String()+" (3.0)", f.status["OGL tier"])
	assert.Equal(t, 3, f.g.Info().Major)

	m := f.g.Metrics()
	assert.InDelta(t, 100, m.PixelsPerCmX, 1e-3)
	assert.InDelta(t, 2, m.Density, 1e-6)
	assert.Equal(t, lifecycle.Uninitialized, f.g.State())
}

func TestFrameDispatchOrder(t *testing.T) {
	app := &stereoRecorder{}
	f := newFixture(t, app)
	f.start()
	f.frame(Left, Right)

	assert.Equal(t, []string{
		"create", "resize 400x300",
		"new frame", "draw left", "draw right", "finish",
	}, app.Calls())
	assert.Equal(t, int64(0), f.g.FrameID())
}

func TestNoFrameForwardsAfterShutdown(t *testing.T) {
	app := &stereoRecorder{}
	f := newFixture(t, app)
	f.start()
	f.frame(Left, Right)
	before := len(app.Calls())

	require.True(t, f.g.Shutdown())
	assert.False(t, f.g.Shutdown())
	for i := 0; i < 3; i++ {
		f.frame(Left, Right)
	}

	assert.Len(t, app.Calls(), before)
	assert.Equal(t, lifecycle.ShuttingDown, f.g.State())
	assert.Equal(t, int64(3), f.g.FrameID(), "the clock keeps ticking during shutdown")
}

func TestRendererShutdownForwardedAfterShutdown(t *testing.T) {
	app := &stereoRecorder{}
	f := newFixture(t, app)
	f.start()
	f.g.Shutdown()
	f.g.OnRendererShutdown()

	assert.Equal(t, 1, app.count("shutdown"))
}

func TestNonStereoListenerFails(t *testing.T) {
	app := &recorder{}
	f := newFixture(t, app)
	f.start()

	err := fatalOf(t, func() { f.g.OnNewFrame(IdentityHead()) })
	assert.ErrorIs(t, err, ErrNotStereo)
	assert.Equal(t, "OnNewFrame", err.Op)

	err = fatalOf(t, func() { f.g.OnDrawEye(Eye{Type: Left}) })
	assert.ErrorIs(t, err, ErrNotStereo)

	err = fatalOf(t, func() { f.g.OnFinishFrame(Viewport{}) })
	assert.ErrorIs(t, err, ErrNotStereo)

	assert.Equal(t, []string{"create", "resize 400x300"}, app.Calls())
}

func TestNonStereoFailsEvenDuringShutdown(t *testing.T) {
	f := newFixture(t, &recorder{})
	f.start()
	f.g.Shutdown()

	err := fatalOf(t, f.g.OnRendererShutdown)
	assert.ErrorIs(t, err, ErrNotStereo)
	assert.Equal(t, "OnRendererShutdown", err.Op)

	err = fatalOf(t, func() { f.g.OnDrawEye(Eye{}) })
	assert.ErrorIs(t, err, ErrNotStereo)
}

func TestFrameBeforeCreateFails(t *testing.T) {
	app := &stereoRecorder{}
	f := newFixture(t, app)
	f.g.OnSurfaceCreated(nil)

	err := fatalOf(t, func() { f.g.OnNewFrame(IdentityHead()) })
	assert.ErrorIs(t, err, lifecycle.ErrNotCreated)
	assert.Equal(t, int64(-1), f.g.FrameID(), "contract check runs before the tick")

	err = fatalOf(t, func() { f.g.OnDrawEye(Eye{Type: Left}) })
	assert.ErrorIs(t, err, lifecycle.ErrNotCreated)
	assert.Equal(t, "OnDrawEye", err.Op)

	err = fatalOf(t, func() { f.g.OnFinishFrame(Viewport{}) })
	assert.ErrorIs(t, err, lifecycle.ErrNotCreated)
	assert.Empty(t, app.Calls())
}

func TestInvalidationOncePerCreation(t *testing.T) {
	f := newFixture(t, &stereoRecorder{})
	meshes := &countingCache{items: 2}
	textures := &countingCache{items: 5}
	f.registry.Register("meshes", meshes)
	f.registry.Register("textures", textures)

	f.start()
	assert.Equal(t, 1, meshes.n)
	assert.Equal(t, 1, textures.n)
	assert.Equal(t, "meshes: 2, textures: 5", f.status["managed caches"])

	f.g.OnContextLost()
	f.g.OnSurfaceCreated(nil)
	f.g.OnSurfaceChanged(800, 600)
	assert.Equal(t, 2, meshes.n)
	assert.Equal(t, 2, textures.n)
	assert.Equal(t, []uint64{1, 2}, meshes.gens)
}

func TestDuplicateSurfaceCreatedDoesNotReprobe(t *testing.T) {
	f := newFixture(t, &stereoRecorder{})
	f.g.OnSurfaceCreated(nil)
	first := f.g.Handle()
	versions := f.gl.Queries[graphics.Version]

	f.g.OnSurfaceCreated(nil)
	assert.Same(t, first, f.g.Handle())
	assert.Equal(t, versions, f.gl.Queries[graphics.Version])
}

func TestContextLostReprobes(t *testing.T) {
	f := newFixture(t, &stereoRecorder{})
	f.g.OnSurfaceCreated(nil)
	assert.Same(t, f.g.Handle(), graphics.Active())

	f.g.OnContextLost()
	assert.Nil(t, f.g.Handle())
	assert.Nil(t, graphics.Active())
	assert.Equal(t, graphics.Info{}, f.g.Info())

	f.gl.Strings[graphics.Version] = "OpenGL ES 2.0"
	f.g.OnSurfaceCreated(nil)
	require.NotNil(t, f.g.Handle())
	assert.Equal(t, graphics.TierBaseline, f.g.Handle().Tier)
	assert.Equal(t, uint64(2), f.g.Handle().Generation)
}

func TestPanickingDiagnosticsDoNotBreakSurfaceCreation(t *testing.T) {
	app := &stereoRecorder{}
	gl := gltest.New("3.3")
	init, err := glcontext.New(glcontext.Config{}, gl, nil)
	require.NoError(t, err)
	defer init.Reset()

	g := New(app, init, metrics.Fixed{Width: 10, Height: 10},
		WithDiagnostics(diag.SinkFunc(func(string, string) { panic("sink broke") })))
	assert.NotPanics(t, func() {
		g.OnSurfaceCreated(nil)
		g.OnSurfaceChanged(10, 10)
	})
	assert.Equal(t, []string{"create", "resize 5x5"}, app.Calls())
}

func TestPauseResume(t *testing.T) {
	f := newFixture(t, &stereoRecorder{})
	assert.False(t, f.g.Resume(), "nothing to resume before create")
	f.start()

	assert.True(t, f.g.Pause())
	assert.False(t, f.g.Running())
	assert.Equal(t, lifecycle.Created, f.g.State())
	assert.True(t, f.g.Resume())
	assert.True(t, f.g.Running())
}

func TestPostedRunnablesRunOnNextFrame(t *testing.T) {
	f := newFixture(t, &stereoRecorder{})
	f.start()

	ran := make(chan int64, 1)
	f.g.Post(func() { ran <- f.g.FrameID() })
	f.frame(Left, Right)

	select {
	case id := <-ran:
		assert.Equal(t, int64(0), id)
	default:
		t.Fatal("posted runnable did not run")
	}
}

func TestDeltaTimeTracksFrames(t *testing.T) {
	f := newFixture(t, &stereoRecorder{})
	f.start()
	for i := 0; i < 10; i++ {
		f.frame(Left, Right)
	}
	assert.InDelta(t, 1.0/60, f.g.DeltaTime(), 1e-4)
	assert.InDelta(t, 1.0/60, f.g.RawDeltaTime(), 1e-4)
}
