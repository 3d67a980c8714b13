package graphics

import "fmt"

// Attrib names a framebuffer configuration attribute.
type Attrib int

const (
	RedSize Attrib = iota
	GreenSize
	BlueSize
	AlphaSize
	DepthSize
	StencilSize
	Samples
	CoverageSamples
)

// FramebufferConfig is the surface configuration chosen by the host.
type FramebufferConfig interface {
	// Attrib returns the value of a and whether the host could query it.
	Attrib(a Attrib) (int, bool)
}

// StaticConfig is a FramebufferConfig backed by known values, used by hosts
// that request a configuration but cannot query what they got.
type StaticConfig map[Attrib]int

func (c StaticConfig) Attrib(a Attrib) (int, bool) {
	v, ok := c[a]
	return v, ok
}

// BufferFormat describes the framebuffer the host created.
type BufferFormat struct {
	R, G, B, A       int
	Depth, Stencil   int
	Samples          int
	CoverageSampling bool
}

// ReadBufferFormat queries cfg; attributes the host cannot report read as 0.
func ReadBufferFormat(cfg FramebufferConfig) BufferFormat {
	if cfg == nil {
		return BufferFormat{}
	}
	get := func(a Attrib) int {
		v, ok := cfg.Attrib(a)
		if !ok {
			return 0
		}
		return v
	}
	coverage := get(CoverageSamples)
	return BufferFormat{
		R:                get(RedSize),
		G:                get(GreenSize),
		B:                get(BlueSize),
		A:                get(AlphaSize),
		Depth:            get(DepthSize),
		Stencil:          get(StencilSize),
		Samples:          max(get(Samples), coverage),
		CoverageSampling: coverage != 0,
	}
}

func (f BufferFormat) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d) depth=%d stencil=%d samples=%d coverage=%t",
		f.R, f.G, f.B, f.A, f.Depth, f.Stencil, f.Samples, f.CoverageSampling)
}
