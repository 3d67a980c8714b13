package glres

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/golang/glog"
	"github.com/yuripourre/cardboard/graphics"
	"github.com/yuripourre/cardboard/shader"
	"github.com/yuripourre/cardboard/translator"
)

// fragmentSource produces the fragment stage for a context dialect along
// with the mapping from source uniform names to compiled names.
type fragmentSource func(gles bool) (code string, uniforms map[string]string, err error)

// Program is a linked shader program over the full screen quad.
type Program struct {
	name     string
	fragment fragmentSource

	id        uint32
	locations map[string]int32
	gen       uint64
}

// NewShaderProgram builds a stereo fragment shader from WebGL2 sources.
// The source is translated on every reload, so the same program works on
// GLES and desktop contexts.
func NewShaderProgram(name, common, user string) *Program {
	src := shader.GetFragmentShader(common, user)
	return &Program{
		name: name,
		fragment: func(gles bool) (string, map[string]string, error) {
			s, err := translator.Fragment(src, gles)
			if err != nil {
				return "", nil, err
			}
			return s.Code, s.Uniforms, nil
		},
	}
}

// NewBlitProgram copies a texture onto the current viewport.
func NewBlitProgram() *Program {
	return &Program{
		name: "blit",
		fragment: func(gles bool) (string, map[string]string, error) {
			return shader.GetBlitFragmentShader(gles), map[string]string{shader.BlitTexture: shader.BlitTexture}, nil
		},
	}
}

func (p *Program) Reload(h *graphics.Handle) error {
	if err := checkHandle(h); err != nil {
		return err
	}
	if live(p.gen, h) {
		return nil
	}
	gles := h.Info.GLES
	code, uniforms, err := p.fragment(gles)
	if err != nil {
		return fmt.Errorf("program %s: %w", p.name, err)
	}
	id, err := newProgram(shader.GenerateVertexShader(gles), code)
	if err != nil {
		return fmt.Errorf("program %s: %w", p.name, err)
	}

	p.id = id
	p.locations = make(map[string]int32, len(uniforms))
	for name, mapped := range uniforms {
		p.locations[name] = gl.GetUniformLocation(id, gl.Str(mapped+"\x00"))
	}
	p.gen = h.Generation
	glog.V(1).Infof("glres: program %s linked (%d uniforms)", p.name, len(uniforms))
	return nil
}

// Location returns the location of a uniform by its source name, -1 when
// the compiler dropped it.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

func (p *Program) Use() {
	gl.UseProgram(p.id)
}

func (p *Program) Name() string { return p.name }

func (p *Program) Destroy() {
	if p.gen != 0 {
		gl.DeleteProgram(p.id)
	}
	p.id, p.gen, p.locations = 0, 0, nil
}
