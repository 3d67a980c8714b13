// Package translator turns the WebGL2 shaders applications ship into the
// GLSL dialect of the current context.
package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"
	gst "github.com/richinsley/goshadertranslator"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// GetTranslator returns the process wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
		if initErr != nil {
			glog.Errorf("translator: %v", initErr)
		}
	})
	return translator, initErr
}

// Shader is a translated fragment shader.
type Shader struct {
	Code string
	// Uniforms maps a uniform's source name to its name in Code.
	Uniforms map[string]string
}

// Uniform returns the translated name of a uniform and whether it survived
// translation.
func (s *Shader) Uniform(name string) (string, bool) {
	n, ok := s.Uniforms[name]
	return n, ok
}

// Fragment translates a WebGL2 fragment shader for a GLES or desktop context.
func Fragment(src string, gles bool) (*Shader, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("shader translator unavailable: %w", err)
	}
	outputFormat := gst.OutputFormatGLSL410
	if gles {
		outputFormat = gst.OutputFormatESSL
	}
	out, err := t.TranslateShader(src, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}
	s := &Shader{Code: out.Code, Uniforms: make(map[string]string, len(out.Variables))}
	for name, v := range out.Variables {
		s.Uniforms[name] = v.MappedName
	}
	return s, nil
}
