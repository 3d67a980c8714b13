package graphics

import (
	"fmt"
	"sync/atomic"
)

// String names accepted by GL.GetString.
const (
	Vendor     uint32 = 0x1F00
	Renderer   uint32 = 0x1F01
	Version    uint32 = 0x1F02
	Extensions uint32 = 0x1F03
)

// GL is the slice of the GL function table the stereo core calls directly.
// Resource caches and applications talk to the bound driver themselves.
type GL interface {
	GetString(name uint32) string
	Viewport(x, y, width, height int32)
}

// Tier identifies which implementation of the function table is active.
type Tier int

const (
	TierNone Tier = iota
	// TierBaseline is the GL ES 2.0 level feature set.
	TierBaseline
	// TierExtended is the GL ES 3.0 / desktop core level feature set.
	TierExtended
)

func (t Tier) String() string {
	switch t {
	case TierBaseline:
		return "baseline"
	case TierExtended:
		return "extended"
	default:
		return "none"
	}
}

// Info is captured once per context creation and never mutated afterwards.
type Info struct {
	Version    string
	Vendor     string
	Renderer   string
	Extensions string
	Major      int
	Minor      int
	GLES       bool
	// Extended reports whether the extended tier was selected.
	Extended bool
}

func (i Info) String() string {
	return fmt.Sprintf("%d.%d gles=%t extended=%t (%s, %s)", i.Major, i.Minor, i.GLES, i.Extended, i.Vendor, i.Renderer)
}

// Handle is the selected implementation for one context lifetime.
type Handle struct {
	GL         GL
	Tier       Tier
	Info       Info
	Generation uint64
}

var active atomic.Pointer[Handle]

// SetActive publishes h as the process-wide graphics handle. It is called
// only at context creation.
func SetActive(h *Handle) {
	active.Store(h)
}

// Active returns the handle published for the current context, or nil
// between a context loss and the next creation.
func Active() *Handle {
	return active.Load()
}

// ClearActive unpublishes h. A handle that has already been replaced is left alone.
func ClearActive(h *Handle) {
	active.CompareAndSwap(h, nil)
}
