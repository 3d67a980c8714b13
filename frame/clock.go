// Package frame does the per-frame bookkeeping every stereo frame must
// observe: delta time, frame rate, frame id and posted runnables.
package frame

import (
	"sync"
	"time"

	"github.com/golang/glog"
)

const meanWindow = 5

// Source returns the current time in seconds, like graphics.Context.Time.
type Source func() float64

// WallClock is a Source backed by the monotonic clock.
func WallClock() Source {
	start := time.Now()
	return func() float64 {
		return time.Since(start).Seconds()
	}
}

// Clock is ticked once per stereo frame on the rendering goroutine.
type Clock struct {
	now Source

	lastFrameTime float64
	frameStart    float64
	deltaTime     float32
	frames        int
	fps           int
	frameID       int64
	mean          *WindowedMean

	rawWidth, rawHeight int

	mu        sync.Mutex
	runnables []func()
	executed  []func()
}

func NewClock(now Source) *Clock {
	if now == nil {
		now = WallClock()
	}
	t := now()
	return &Clock{
		now:           now,
		lastFrameTime: t,
		frameStart:    t,
		mean:          NewWindowedMean(meanWindow),
		frameID:       -1,
	}
}

// Reset restarts timing for a new surface of the given raw size. The next
// tick reports a delta measured from this call.
func (c *Clock) Reset(rawWidth, rawHeight int) {
	c.rawWidth, c.rawHeight = rawWidth, rawHeight
	c.mean = NewWindowedMean(meanWindow)
	c.lastFrameTime = c.now()
	c.frameStart = c.lastFrameTime
	c.frames = 0
}

// Tick accounts for one frame and runs the runnables posted since the
// previous tick.
func (c *Clock) Tick() {
	t := c.now()
	c.deltaTime = float32(t - c.lastFrameTime)
	if c.deltaTime < 0 {
		c.deltaTime = 0
	}
	c.lastFrameTime = t
	c.mean.Add(c.deltaTime)

	if t-c.frameStart >= 1 {
		c.fps = c.frames
		c.frames = 0
		c.frameStart = t
	}
	c.frames++
	c.frameID++

	c.mu.Lock()
	c.executed = append(c.executed[:0], c.runnables...)
	c.runnables = c.runnables[:0]
	c.mu.Unlock()

	for i, r := range c.executed {
		r()
		c.executed[i] = nil
	}
	if len(c.executed) > 0 {
		glog.V(2).Infof("frame %d: ran %d posted runnables", c.frameID, len(c.executed))
	}
}

// Post queues r to run on the rendering goroutine at the next tick. Safe
// for concurrent use.
func (c *Clock) Post(r func()) {
	c.mu.Lock()
	c.runnables = append(c.runnables, r)
	c.mu.Unlock()
}

// DeltaTime is the smoothed frame delta in seconds, falling back to the
// raw delta until enough frames were seen.
func (c *Clock) DeltaTime() float32 {
	if m := c.mean.Mean(); m != 0 {
		return m
	}
	return c.deltaTime
}

func (c *Clock) RawDeltaTime() float32 { return c.deltaTime }

func (c *Clock) FramesPerSecond() int { return c.fps }

// FrameID is the index of the current frame, -1 before the first tick.
func (c *Clock) FrameID() int64 { return c.frameID }

// RawSize is the unsplit display size captured at surface creation.
func (c *Clock) RawSize() (int, int) { return c.rawWidth, c.rawHeight }
