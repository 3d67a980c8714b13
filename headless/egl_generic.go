//go:build !linux

package headless

import (
	"fmt"

	"github.com/yuripourre/cardboard/graphics"
	"github.com/yuripourre/cardboard/metrics"
)

// Headless is unavailable off Linux; NewHeadless always fails.
type Headless struct {
	graphics.Context
	graphics.StaticConfig
	width, height int
}

func NewHeadless(width, height, fps int) (*Headless, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}

func (h *Headless) Display() metrics.DisplayQuery {
	return nominalDisplay(h.width, h.height)
}
