// Package uniform elides redundant uniform uploads for the bound program.
//
// The cache remembers the last value set for every uniform name of the
// currently bound program. A set that does not change the value (exactly
// for integers, within epsilon for floats) schedules nothing; Flush uploads
// each changed uniform once. Binding another program forgets everything.
package uniform

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// Uploader resolves uniform locations and writes values for the bound
// program. A location of -1 marks an inactive uniform; it is never
// uploaded.
type Uploader interface {
	UniformLocation(program shader.Handle, name string) int32
	Upload(location int32, v Value)
}

// Stats counts cache activity since creation.
type Stats struct {
	Sets     int
	Skipped  int
	Uploads  int
	Lookups  int
	Rebinds  int
	Replaced int
}

type entry struct {
	name     string
	kind     Kind
	ints     []int32
	floats   []float32
	location int32
	located  bool
	dirty    bool
}

// Cache is the uniform state of one program at a time.
type Cache struct {
	up      Uploader
	epsilon float32

	program shader.Handle
	entries []entry
	index   map[string]int
	dirty   []int

	stats Stats
}

// New creates a cache uploading through up. Float values closer than
// epsilon to the cached value count as unchanged.
func New(up Uploader, epsilon float32) *Cache {
	return &Cache{
		up:      up,
		epsilon: epsilon,
		index:   make(map[string]int),
	}
}

// Bind switches the cache to program h. A different program discards every
// entry, pending uploads included.
func (c *Cache) Bind(h shader.Handle) {
	if h == c.program {
		return
	}
	c.program = h
	c.entries = c.entries[:0]
	clear(c.index)
	c.dirty = c.dirty[:0]
	c.stats.Rebinds++
}

// Program returns the bound program.
func (c *Cache) Program() shader.Handle {
	return c.program
}

// Pending returns the number of uniforms awaiting upload.
func (c *Cache) Pending() int {
	return len(c.dirty)
}

// Stats returns cache counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

// SetInt sets an int or sampler uniform.
func (c *Cache) SetInt(name string, v int32) {
	c.setInts(name, Int, []int32{v})
}

// SetIntArray sets an int array uniform.
func (c *Cache) SetIntArray(name string, v []int32) {
	c.setInts(name, IntArray, v)
}

// SetFloat sets a float uniform.
func (c *Cache) SetFloat(name string, v float32) {
	c.setFloats(name, Float, []float32{v})
}

// SetFloatArray sets a float array uniform.
func (c *Cache) SetFloatArray(name string, v []float32) {
	c.setFloats(name, FloatArray, v)
}

// SetVec2 sets a vec2 uniform.
func (c *Cache) SetVec2(name string, x, y float32) {
	c.setFloats(name, Vec2, []float32{x, y})
}

// SetVec3 sets a vec3 uniform.
func (c *Cache) SetVec3(name string, v math.Vec3) {
	c.setFloats(name, Vec3, []float32{v.X, v.Y, v.Z})
}

// SetVec3Array sets a vec3 array uniform from packed xyz triples.
func (c *Cache) SetVec3Array(name string, xyz []float32) {
	c.setFloats(name, Vec3Array, xyz)
}

// SetVec4 sets a vec4 uniform.
func (c *Cache) SetVec4(name string, x, y, z, w float32) {
	c.setFloats(name, Vec4, []float32{x, y, z, w})
}

// SetMat4 sets a mat4 uniform.
func (c *Cache) SetMat4(name string, m math.Mat4) {
	c.setFloats(name, Mat4, m[:])
}

// SetMat4Array sets a mat4 array uniform. Any differing element marks the
// whole array for upload.
func (c *Cache) SetMat4Array(name string, ms []math.Mat4) {
	flat := make([]float32, 0, len(ms)*16)
	for i := range ms {
		flat = append(flat, ms[i][:]...)
	}
	c.setFloats(name, Mat4Array, flat)
}

func (c *Cache) setInts(name string, kind Kind, v []int32) {
	c.stats.Sets++
	e, created := c.lookupOrCreate(name, kind)
	switch {
	case created:
		e.ints = append(e.ints[:0], v...)
	case e.kind != kind || len(e.ints) != len(v):
		c.stats.Replaced++
		c.replace(e, kind)
		e.ints = append(e.ints, v...)
	case intsEqual(e.ints, v):
		c.stats.Skipped++
		return
	default:
		copy(e.ints, v)
	}
	c.markDirty(name)
}

func (c *Cache) setFloats(name string, kind Kind, v []float32) {
	c.stats.Sets++
	e, created := c.lookupOrCreate(name, kind)
	switch {
	case created:
		e.floats = append(e.floats[:0], v...)
	case e.kind != kind || len(e.floats) != len(v):
		c.stats.Replaced++
		c.replace(e, kind)
		e.floats = append(e.floats, v...)
	case floatsEqual(e.floats, v, c.epsilon):
		c.stats.Skipped++
		return
	default:
		copy(e.floats, v)
	}
	c.markDirty(name)
}

func (c *Cache) lookupOrCreate(name string, kind Kind) (*entry, bool) {
	if i, ok := c.index[name]; ok {
		return &c.entries[i], false
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, entry{name: name, kind: kind})
	return &c.entries[len(c.entries)-1], true
}

// replace resets e to an empty value of kind. The location is kept since
// it belongs to the name, not the type.
func (c *Cache) replace(e *entry, kind Kind) {
	e.kind = kind
	e.ints = e.ints[:0]
	e.floats = e.floats[:0]
}

func (c *Cache) markDirty(name string) {
	i := c.index[name]
	e := &c.entries[i]
	if !e.dirty {
		e.dirty = true
		c.dirty = append(c.dirty, i)
	}
}

// Flush uploads every changed uniform once, in the order they first
// changed, and returns the number of uploads issued.
func (c *Cache) Flush() int {
	n := 0
	for _, i := range c.dirty {
		e := &c.entries[i]
		e.dirty = false
		if !e.located {
			e.location = c.up.UniformLocation(c.program, e.name)
			e.located = true
			c.stats.Lookups++
		}
		if e.location < 0 {
			continue
		}
		c.up.Upload(e.location, Value{Kind: e.kind, Ints: e.ints, Floats: e.floats})
		n++
	}
	c.dirty = c.dirty[:0]
	c.stats.Uploads += n
	return n
}

func intsEqual(a, b []int32) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// floatsEqual treats a NaN on either side as a change.
func floatsEqual(a, b []float32, eps float32) bool {
	for i := range a {
		if a[i] != b[i] && !(math32.Abs(a[i]-b[i]) <= eps) {
			return false
		}
	}
	return true
}
