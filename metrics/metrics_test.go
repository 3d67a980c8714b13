package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingQuery struct {
	Fixed
	calls int
}

func (q *countingQuery) CurrentMetrics() Reading {
	q.calls++
	return q.Reading
}

func TestCapture(t *testing.T) {
	m := Capture(Fixed{Reading: Reading{XDPI: 254, YDPI: 508, Density: 2}})
	assert.Equal(t, float32(254), m.DPIX)
	assert.Equal(t, float32(508), m.DPIY)
	assert.InDelta(t, 100, m.PixelsPerCmX, 1e-4)
	assert.InDelta(t, 200, m.PixelsPerCmY, 1e-4)
	assert.Equal(t, float32(2), m.Density)
}

func TestTrackerFollowsDisplay(t *testing.T) {
	q := &countingQuery{Fixed: Fixed{Reading: Reading{XDPI: 160, YDPI: 160, Density: 1}, Width: 1920, Height: 1080}}
	tr := NewTracker(q)
	assert.Equal(t, float32(1), tr.Metrics().Density, "density defaults to 1 before the first capture")

	tr.Update()
	assert.Equal(t, float32(160), tr.Metrics().DPIX)

	q.Reading = Reading{XDPI: 320, YDPI: 320, Density: 2}
	tr.Update()
	assert.Equal(t, float32(2), tr.Metrics().Density)
	assert.Equal(t, 2, q.calls)

	w, h := tr.DisplaySize()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
}

func TestDPI(t *testing.T) {
	assert.InDelta(t, 96, DPI(1920, 508), 1e-3)
	assert.InDelta(t, 96, DPI(1920, 0), 1e-6, "unknown physical size")
	assert.InDelta(t, 96, DPI(0, 300), 1e-6)
}
