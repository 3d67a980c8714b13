// Package gogl adapts the go-gl bindings to graphics.GL.
package gogl

import (
	"fmt"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/yuripourre/cardboard/graphics"
)

// Add a package-level variable to ensure gl.Init() is called only once.
var glInitOnce sync.Once
var glInitErr error

// Init loads the GL function pointers. The host context must be current.
func Init() error {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", glInitErr)
	}
	return nil
}

// Functions is the go-gl function table. Core profiles removed
// glGetString(GL_EXTENSIONS), so extended tables enumerate with glGetStringi.
type Functions struct {
	extended bool
}

// Implementations returns the baseline and extended tables. Both share the
// same loaded entry points; they differ in how they answer capability queries.
func Implementations() (baseline, extended graphics.GL) {
	return &Functions{}, &Functions{extended: true}
}

func (f *Functions) GetString(name uint32) string {
	if name == graphics.Extensions && f.extended {
		var n int32
		gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
		exts := make([]string, 0, n)
		for i := int32(0); i < n; i++ {
			if p := gl.GetStringi(gl.EXTENSIONS, uint32(i)); p != nil {
				exts = append(exts, gl.GoStr(p))
			}
		}
		return strings.Join(exts, " ")
	}
	p := gl.GetString(name)
	if p == nil {
		return ""
	}
	return gl.GoStr(p)
}

func (f *Functions) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}
