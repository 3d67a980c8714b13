// Package glcontext performs the one-time GL setup for a rendering context:
// it probes the driver, picks the implementation tier and publishes it.
package glcontext

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/yuripourre/cardboard/diag"
	"github.com/yuripourre/cardboard/graphics"
)

var ErrNoBaseline = errors.New("glcontext: a baseline implementation is required")

type Config struct {
	// UseExtended requests the extended tier. It is honoured only when the
	// driver reports a major version above 2.
	UseExtended bool
	Diagnostics diag.Sink
}

// Initializer owns the graphics handle for the lifetime of one context.
type Initializer struct {
	cfg        Config
	baseline   graphics.GL
	extended   graphics.GL
	handle     *graphics.Handle
	generation uint64
	sink       diag.Sink
}

// New returns an Initializer choosing between baseline and extended.
// extended may be nil when the platform has no such implementation.
func New(cfg Config, baseline, extended graphics.GL) (*Initializer, error) {
	if baseline == nil {
		return nil, ErrNoBaseline
	}
	return &Initializer{
		cfg:      cfg,
		baseline: baseline,
		extended: extended,
		sink:     diag.Safe(cfg.Diagnostics),
	}, nil
}

// Initialize probes the driver and publishes the selected handle. Repeated
// calls before Reset return the current handle untouched.
func (i *Initializer) Initialize() *graphics.Handle {
	if i.handle != nil {
		glog.V(1).Infof("glcontext: context already initialized (%s tier), ignoring duplicate creation", i.handle.Tier)
		return i.handle
	}

	info := Probe(i.baseline)
	impl, tier := i.baseline, graphics.TierBaseline
	if i.cfg.UseExtended {
		switch {
		case info.Major <= 2:
			glog.Warningf("glcontext: extended profile requested but driver reports %q, using baseline", info.Version)
		case i.extended == nil:
			glog.Warningf("glcontext: extended profile requested but no extended implementation is available, using baseline")
		default:
			impl, tier = i.extended, graphics.TierExtended
		}
	}
	info.Extended = tier == graphics.TierExtended
	info.Extensions = impl.GetString(graphics.Extensions)

	i.generation++
	i.handle = &graphics.Handle{
		GL:         impl,
		Tier:       tier,
		Info:       info,
		Generation: i.generation,
	}
	graphics.SetActive(i.handle)

	i.sink.Status("OGL renderer", info.Renderer)
	i.sink.Status("OGL vendor", info.Vendor)
	i.sink.Status("OGL version", info.Version)
	i.sink.Status("OGL extensions", info.Extensions)
	i.sink.Status("OGL tier", fmt.Sprintf("%s (%d.%d)", tier, info.Major, info.Minor))
	return i.handle
}

// Reset forgets the current handle after a context loss so the next
// Initialize probes again.
func (i *Initializer) Reset() {
	if i.handle == nil {
		return
	}
	graphics.ClearActive(i.handle)
	i.handle = nil
}

// Handle returns the current handle, nil before Initialize or after Reset.
func (i *Initializer) Handle() *graphics.Handle {
	return i.handle
}
