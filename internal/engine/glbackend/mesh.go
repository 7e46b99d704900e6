package glbackend

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/drawqueue/internal/engine/drawlist"
	"github.com/Faultbox/drawqueue/internal/engine/model"
	"github.com/Faultbox/drawqueue/pkg/math"
)

type mesh struct {
	vao, vbo, ebo uint32
	large         bool
}

// UploadMesh uploads md and returns the geometry to submit, one batch per
// group. Meshes with more than 65536 vertices use 32-bit indices.
func (b *Backend) UploadMesh(md *model.Mesh) (*drawlist.Geometry, error) {
	vertices, indices := md.Vertices, md.Indices
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("empty mesh")
	}
	for _, gr := range md.Groups {
		if gr.StartIndex < 0 || gr.IndexCount <= 0 || gr.StartIndex+gr.IndexCount > len(indices) {
			return nil, fmt.Errorf("group %+v outside %d indices", gr, len(indices))
		}
	}

	m := &mesh{large: len(vertices) > 1<<16}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)
	// Submodel
	gl.VertexAttribPointerWithOffset(3, 1, gl.FLOAT, false, int32(vertexSize), 8*4)
	gl.EnableVertexAttribArray(3)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if m.large {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	} else {
		short := make([]uint16, len(indices))
		for i, idx := range indices {
			short[i] = uint16(idx)
		}
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(short)*2, unsafe.Pointer(&short[0]), gl.STATIC_DRAW)
	}
	gl.BindVertexArray(0)
	b.boundMesh = -1

	id := b.nextMesh
	b.nextMesh++
	b.meshes[id] = m

	g := &drawlist.Geometry{Buffer: id, HasUV: true, HasModelID: md.Submodels > 1}
	for _, gr := range md.Groups {
		g.Batches = append(g.Batches, drawlist.Batch{Offset: gr.StartIndex, Count: gr.IndexCount, LargeIndex: m.large})
	}
	b.log.Debug("mesh uploaded",
		zap.Int("id", id),
		zap.Int("vertices", len(vertices)),
		zap.Int("indices", len(indices)),
		zap.Int("batches", len(md.Groups)))
	return g, nil
}

// DeleteMesh frees a mesh.
func (b *Backend) DeleteMesh(id int) {
	m, ok := b.meshes[id]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	delete(b.meshes, id)
	if b.boundMesh == id {
		b.boundMesh = -1
	}
}

// BindBuffer binds a mesh's vertex array. Unknown ids unbind.
func (b *Backend) BindBuffer(id int) {
	if _, ok := b.meshes[id]; !ok {
		gl.BindVertexArray(0)
		b.boundMesh = -1
		return
	}
	gl.BindVertexArray(b.meshes[id].vao)
	b.boundMesh = id
}

// Draw issues an indexed draw of a batch with the bound program.
func (b *Backend) Draw(g *drawlist.Geometry, batch int) {
	if !b.ensureBound(g) {
		return
	}
	drawBatch(g.Batches[batch])
}

func (b *Backend) ensureBound(g *drawlist.Geometry) bool {
	if b.boundMesh != g.Buffer {
		if _, ok := b.meshes[g.Buffer]; !ok {
			b.log.Error("draw with unknown mesh", zap.Int("buffer", g.Buffer))
			return false
		}
		b.BindBuffer(g.Buffer)
	}
	return true
}

func drawBatch(bt drawlist.Batch) {
	typ, size := uint32(gl.UNSIGNED_SHORT), 2
	if bt.LargeIndex {
		typ, size = gl.UNSIGNED_INT, 4
	}
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(bt.Count), typ, uintptr(bt.Offset*size))
}

// UploadTransforms replaces the batched submodel matrices sampled through
// the transform unit. Draws address them with SetTransformBufferOffset.
func (b *Backend) UploadTransforms(mats []math.Mat4) {
	if len(mats) == 0 {
		return
	}
	if b.transforms == 0 {
		gl.GenBuffers(1, &b.transBuf)
		gl.GenTextures(1, &b.transforms)
	}
	gl.BindBuffer(gl.TEXTURE_BUFFER, b.transBuf)
	gl.BufferData(gl.TEXTURE_BUFFER, len(mats)*16*4, unsafe.Pointer(&mats[0][0]), gl.DYNAMIC_DRAW)
	gl.ActiveTexture(gl.TEXTURE0 + uint32(drawlist.UnitTransform))
	gl.BindTexture(gl.TEXTURE_BUFFER, b.transforms)
	gl.TexBuffer(gl.TEXTURE_BUFFER, gl.RGBA32F, b.transBuf)
	gl.BindBuffer(gl.TEXTURE_BUFFER, 0)
}
