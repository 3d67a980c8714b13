// Package diag carries plain key/value status lines out of the rendering
// core. A misbehaving sink must never take a frame down with it.
package diag

import (
	"github.com/golang/glog"
)

// Sink receives status lines such as the renderer string or framebuffer depths.
type Sink interface {
	Status(key, value string)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(key, value string)

func (f SinkFunc) Status(key, value string) { f(key, value) }

// Glog writes status lines through glog at info level, prefixed by tag.
type Glog struct {
	Tag string
}

func (g Glog) Status(key, value string) {
	glog.Infof("%s: %s: %s", g.Tag, key, value)
}

// Discard drops every line.
var Discard Sink = SinkFunc(func(string, string) {})

type safe struct {
	sink Sink
}

// Safe wraps s so that a panic inside it is logged and swallowed.
func Safe(s Sink) Sink {
	if s == nil {
		return Discard
	}
	if _, ok := s.(safe); ok {
		return s
	}
	return safe{sink: s}
}

func (s safe) Status(key, value string) {
	defer func() {
		if r := recover(); r != nil {
			glog.Warningf("diag: sink failed on %q: %v", key, r)
		}
	}()
	s.sink.Status(key, value)
}
