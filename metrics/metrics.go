// Package metrics captures display density for the current surface.
package metrics

import "fmt"

// Reading is what the display reports for itself.
type Reading struct {
	XDPI    float32
	YDPI    float32
	Density float32
}

// DisplayQuery is implemented by the host. Both calls always succeed.
type DisplayQuery interface {
	CurrentMetrics() Reading
	CurrentDisplaySize() (width, height int)
}

// DisplayMetrics is derived from a Reading and lives as long as the surface.
type DisplayMetrics struct {
	DPIX         float32
	DPIY         float32
	PixelsPerCmX float32
	PixelsPerCmY float32
	Density      float32
}

const cmPerInch = 2.54

// Capture converts the display's current reading.
func Capture(q DisplayQuery) DisplayMetrics {
	r := q.CurrentMetrics()
	return DisplayMetrics{
		DPIX:         r.XDPI,
		DPIY:         r.YDPI,
		PixelsPerCmX: r.XDPI / cmPerInch,
		PixelsPerCmY: r.YDPI / cmPerInch,
		Density:      r.Density,
	}
}

func (m DisplayMetrics) String() string {
	return fmt.Sprintf("dpi=(%.1f, %.1f) ppc=(%.1f, %.1f) density=%.2f", m.DPIX, m.DPIY, m.PixelsPerCmX, m.PixelsPerCmY, m.Density)
}

// Tracker keeps the metrics of the current surface. It is only touched from
// the rendering goroutine.
type Tracker struct {
	query   DisplayQuery
	current DisplayMetrics
}

func NewTracker(q DisplayQuery) *Tracker {
	return &Tracker{query: q, current: DisplayMetrics{Density: 1}}
}

// Update recaptures the metrics; called on every surface event since the
// density may change with a display mode switch.
func (t *Tracker) Update() DisplayMetrics {
	t.current = Capture(t.query)
	return t.current
}

func (t *Tracker) Metrics() DisplayMetrics {
	return t.current
}

// DisplaySize returns the raw size of the display.
func (t *Tracker) DisplaySize() (int, int) {
	return t.query.CurrentDisplaySize()
}

// Fixed is a DisplayQuery that never changes.
type Fixed struct {
	Reading
	Width, Height int
}

func (f Fixed) CurrentMetrics() Reading { return f.Reading }

func (f Fixed) CurrentDisplaySize() (int, int) { return f.Width, f.Height }

const mmPerInch = 25.4

// DPI derives dots per inch from a pixel count and its physical length.
// Displays that do not report a physical size read as 96 dpi.
func DPI(pixels, millimeters int) float32 {
	if pixels <= 0 || millimeters <= 0 {
		return 96
	}
	return float32(pixels) * mmPerInch / float32(millimeters)
}
