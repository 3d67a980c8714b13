// Package gltest provides a recording graphics.GL for tests.
package gltest

import "github.com/yuripourre/cardboard/graphics"

// GL answers GetString from a table and records every call.
type GL struct {
	Strings   map[uint32]string
	Queries   map[uint32]int
	Viewports [][4]int32
}

// New returns a GL reporting version, vendor and renderer.
func New(version string) *GL {
	return &GL{
		Strings: map[uint32]string{
			graphics.Version:    version,
			graphics.Vendor:     "Test Vendor",
			graphics.Renderer:   "Test Renderer",
			graphics.Extensions: "GL_OES_test",
		},
		Queries: make(map[uint32]int),
	}
}

func (g *GL) GetString(name uint32) string {
	g.Queries[name]++
	return g.Strings[name]
}

func (g *GL) Viewport(x, y, width, height int32) {
	g.Viewports = append(g.Viewports, [4]int32{x, y, width, height})
}

// LastViewport returns the most recent viewport, or zeros.
func (g *GL) LastViewport() [4]int32 {
	if len(g.Viewports) == 0 {
		return [4]int32{}
	}
	return g.Viewports[len(g.Viewports)-1]
}

// TotalQueries counts every GetString call.
func (g *GL) TotalQueries() int {
	n := 0
	for _, c := range g.Queries {
		n += c
	}
	return n
}
