package headless

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepClock(t *testing.T) {
	c := stepClock{fps: 30}
	assert.Zero(t, c.Time())
	for i := 0; i < 45; i++ {
		c.Advance()
	}
	assert.InDelta(t, 1.5, c.Time(), 1e-9)

	assert.Zero(t, (&stepClock{}).Time())
}

func TestNominalDisplay(t *testing.T) {
	d := nominalDisplay(640, 480)
	w, h := d.CurrentDisplaySize()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	assert.InDelta(t, 96, d.CurrentMetrics().XDPI, 1e-6)
}
