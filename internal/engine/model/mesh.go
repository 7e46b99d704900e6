package model

import (
	"github.com/chewxy/math32"
)

// builder appends geometry group by group.
type builder struct {
	mesh  Mesh
	start int
	id    float32
}

func newBuilder() *builder {
	return &builder{mesh: Mesh{Bounds: emptyBounds()}}
}

func (b *builder) vertex(p, n [3]float32, uv [2]float32) uint32 {
	b.mesh.Vertices = append(b.mesh.Vertices, Vertex{Position: p, Normal: n, TexCoord: uv, ModelID: b.id})
	updateBounds(&b.mesh.Bounds, p)
	return uint32(len(b.mesh.Vertices) - 1)
}

func (b *builder) quad(a, c, d, e uint32) {
	b.mesh.Indices = append(b.mesh.Indices, a, c, d, a, d, e)
}

// endGroup closes the indices added since the previous group.
func (b *builder) endGroup() {
	n := len(b.mesh.Indices) - b.start
	if n > 0 {
		b.mesh.Groups = append(b.mesh.Groups, Group{StartIndex: b.start, IndexCount: n})
	}
	b.start = len(b.mesh.Indices)
}

// submodel tags following vertices with the next model id.
func (b *builder) submodel() {
	if len(b.mesh.Vertices) > 0 {
		b.id++
	}
}

func (b *builder) done() *Mesh {
	b.endGroup()
	b.mesh.Submodels = int(b.id) + 1
	return &b.mesh
}

// box appends an axis-aligned box around center with half extents h.
func (b *builder) box(center, h [3]float32) {
	type face struct{ n, u, v [3]float32 }
	faces := [6]face{
		{[3]float32{1, 0, 0}, [3]float32{0, 0, -1}, [3]float32{0, 1, 0}},
		{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
		{[3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
		{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}},
		{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
		{[3]float32{0, 0, -1}, [3]float32{-1, 0, 0}, [3]float32{0, 1, 0}},
	}
	for _, f := range faces {
		var idx [4]uint32
		for i, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			var p [3]float32
			for k := range 3 {
				p[k] = center[k] + (f.n[k]+f.u[k]*c[0]+f.v[k]*c[1])*h[k]
			}
			idx[i] = b.vertex(p, f.n, [2]float32{(c[0] + 1) / 2, (c[1] + 1) / 2})
		}
		b.quad(idx[0], idx[1], idx[2], idx[3])
	}
}

// Box returns a box with the given full extents, one group per side pair.
func Box(sx, sy, sz float32) *Mesh {
	b := newBuilder()
	b.box([3]float32{}, [3]float32{sx / 2, sy / 2, sz / 2})
	return b.done()
}

// Plane returns a flat XZ plane of size, facing +Y, with texture
// coordinates repeating tiles times across it.
func Plane(size float32, tiles float32) *Mesh {
	b := newBuilder()
	h := size / 2
	up := [3]float32{0, 1, 0}
	a := b.vertex([3]float32{-h, 0, h}, up, [2]float32{0, 0})
	c := b.vertex([3]float32{h, 0, h}, up, [2]float32{tiles, 0})
	d := b.vertex([3]float32{h, 0, -h}, up, [2]float32{tiles, tiles})
	e := b.vertex([3]float32{-h, 0, -h}, up, [2]float32{0, tiles})
	b.quad(a, c, d, e)
	return b.done()
}

// Ring returns a flat annulus in the XZ plane, facing +Y.
func Ring(inner, outer float32, segments int) *Mesh {
	segments = max(segments, 3)
	b := newBuilder()
	up := [3]float32{0, 1, 0}
	for i := range segments {
		a0 := float32(i) / float32(segments) * 2 * math32.Pi
		a1 := float32(i+1) / float32(segments) * 2 * math32.Pi
		s0, c0 := math32.Sincos(a0)
		s1, c1 := math32.Sincos(a1)
		u0, u1 := float32(i)/float32(segments), float32(i+1)/float32(segments)
		p := b.vertex([3]float32{c0 * inner, 0, s0 * inner}, up, [2]float32{u0, 0})
		q := b.vertex([3]float32{c0 * outer, 0, s0 * outer}, up, [2]float32{u0, 1})
		r := b.vertex([3]float32{c1 * outer, 0, s1 * outer}, up, [2]float32{u1, 1})
		s := b.vertex([3]float32{c1 * inner, 0, s1 * inner}, up, [2]float32{u1, 0})
		b.quad(p, s, r, q)
	}
	return b.done()
}

// Ship returns a small craft of three submodels: a hull, a turret on top
// and an engine block trailing along -Z. The hull and turret form the
// first group, the engine the second, so the engine can be drawn with a
// thruster stretch.
func Ship(length float32) *Mesh {
	b := newBuilder()
	l := length / 2
	b.box([3]float32{0, 0, 0}, [3]float32{l * 0.4, l * 0.2, l})
	b.submodel()
	b.box([3]float32{0, l * 0.35, l * 0.2}, [3]float32{l * 0.15, l * 0.15, l * 0.3})
	b.endGroup()
	b.submodel()
	b.box([3]float32{0, 0, -l * 1.2}, [3]float32{l * 0.25, l * 0.12, l * 0.2})
	return b.done()
}

// SmoothNormals averages normals at shared vertex positions.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}
		var sum [3]float32
		for _, idx := range idxs {
			for k := range 3 {
				sum[k] += vertices[idx].Normal[k]
			}
		}
		l := math32.Sqrt(sum[0]*sum[0] + sum[1]*sum[1] + sum[2]*sum[2])
		if l == 0 {
			continue
		}
		avg := [3]float32{sum[0] / l, sum[1] / l, sum[2] / l}
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}
