package terrain

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// gridMesh is the single unit grid shared by every tile. Tiles never own
// vertex data; they are per-instance attributes over this one mesh, which
// is what keeps recentring free of geometry churn.
type gridMesh struct {
	vao         uint32
	vbo         uint32
	ebo         uint32
	instanceVBO uint32

	indexCount    int32
	instanceCount int32
}

// newGridMesh builds a (resolution x resolution)-quad unit grid and the
// per-instance buffer holding one vec4 per tile: offsetX, offsetZ, scale,
// edge mask.
func newGridMesh(resolution int, tiles []Tile) (*gridMesh, error) {
	verts := resolution + 1

	vertices := make([]float32, 0, verts*verts*2)
	for j := 0; j < verts; j++ {
		for i := 0; i < verts; i++ {
			vertices = append(vertices,
				float32(i)/float32(resolution),
				float32(j)/float32(resolution),
			)
		}
	}

	indices := make([]uint32, 0, resolution*resolution*6)
	for j := 0; j < resolution; j++ {
		for i := 0; i < resolution; i++ {
			a := uint32(j*verts + i)
			b := a + 1
			c := a + uint32(verts)
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}

	instances := make([]float32, 0, len(tiles)*4)
	for _, t := range tiles {
		instances = append(instances,
			float32(t.I)*t.Scale,
			float32(t.J)*t.Scale,
			t.Scale,
			float32(t.Edges),
		)
	}

	m := &gridMesh{
		indexCount:    int32(len(indices)),
		instanceCount: int32(len(tiles)),
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 8, nil)

	gl.GenBuffers(1, &m.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.instanceVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(instances)*4, gl.Ptr(instances), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, 16, nil)
	gl.VertexAttribDivisor(1, 1)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if err := gl.GetError(); err != gl.NO_ERROR {
		m.destroy()
		return nil, fmt.Errorf("allocating tile mesh: gl error 0x%x", err)
	}

	return m, nil
}

// draw issues all tiles in one instanced call.
func (m *gridMesh) draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElementsInstanced(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil, m.instanceCount)
	gl.BindVertexArray(0)
}

func (m *gridMesh) destroy() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	for _, buf := range []*uint32{&m.vbo, &m.ebo, &m.instanceVBO} {
		if *buf != 0 {
			gl.DeleteBuffers(1, buf)
			*buf = 0
		}
	}
}
