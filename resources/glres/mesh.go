package glres

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/yuripourre/cardboard/graphics"
)

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// Mesh is a vertex array of 2D positions bound to attribute 0.
type Mesh struct {
	vertices []float32

	vao, vbo uint32
	gen      uint64
}

// NewQuad returns the full screen quad every fragment pass draws.
func NewQuad() *Mesh {
	return &Mesh{vertices: quadVertices}
}

func (m *Mesh) Reload(h *graphics.Handle) error {
	if err := checkHandle(h); err != nil {
		return err
	}
	if live(m.gen, h) {
		return nil
	}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.vertices)*4, gl.Ptr(m.vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	m.gen = h.Generation
	return nil
}

func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(m.vertices)/2))
	gl.BindVertexArray(0)
}

func (m *Mesh) Destroy() {
	if m.gen != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteVertexArrays(1, &m.vao)
	}
	m.vao, m.vbo, m.gen = 0, 0, 0
}
