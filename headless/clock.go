package headless

import "github.com/yuripourre/cardboard/metrics"

// stepClock reports time as a whole number of frame periods.
type stepClock struct {
	fps    int
	frames int
}

func (c *stepClock) Advance() { c.frames++ }

func (c *stepClock) Time() float64 {
	if c.fps <= 0 {
		return 0
	}
	return float64(c.frames) / float64(c.fps)
}

func nominalDisplay(width, height int) metrics.Fixed {
	return metrics.Fixed{
		Reading: metrics.Reading{XDPI: 96, YDPI: 96, Density: 1},
		Width:   width,
		Height:  height,
	}
}
