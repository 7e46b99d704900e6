package lighting

import (
	"cmp"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/drawqueue/internal/invariant"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// DefaultMaxPerDraw is the per-draw light cap used when none is configured.
const DefaultMaxPerDraw = 8

type filterKey struct {
	pos    math.Vec3
	radius float32
}

type candidate struct {
	order int
	dist  float32
}

// Index holds the frame's active lights and the shared buffer that draw
// ranges point into. Ranges stay valid until the next Reset.
type Index struct {
	maxPerDraw int

	active []Light
	buffer []Light

	filters    map[int]map[filterKey]Range
	candidates []candidate
}

// NewIndex creates an index that selects at most maxPerDraw lights per
// query. A non-positive value uses DefaultMaxPerDraw.
func NewIndex(maxPerDraw int) *Index {
	if maxPerDraw <= 0 {
		maxPerDraw = DefaultMaxPerDraw
	}
	return &Index{
		maxPerDraw: maxPerDraw,
		filters:    make(map[int]map[filterKey]Range),
	}
}

// MaxPerDraw returns the per-query light cap.
func (x *Index) MaxPerDraw() int {
	return x.maxPerDraw
}

// Reset drops the active lights and every range handed out this frame.
func (x *Index) Reset() {
	x.active = x.active[:0]
	x.buffer = x.buffer[:0]
	clear(x.filters)
}

// Add registers an active light for the frame.
func (x *Index) Add(l Light) {
	x.active = append(x.active, l)
}

// Active returns the number of registered lights.
func (x *Index) Active() int {
	return len(x.active)
}

// Len returns the populated length of the shared buffer.
func (x *Index) Len() int {
	return len(x.buffer)
}

// Select appends the lights relevant to the sphere (pos, radius) to the
// shared buffer and returns their range. Directional lights come first in
// registration order. Point and tube lights whose influence reaches the
// sphere follow, nearest first, with ties kept in registration order.
func (x *Index) Select(pos math.Vec3, radius float32) Range {
	start := len(x.buffer)

	for _, l := range x.active {
		if len(x.buffer)-start == x.maxPerDraw {
			return Range{Start: start, Count: len(x.buffer) - start}
		}
		if l.Kind == Directional {
			x.buffer = append(x.buffer, l)
		}
	}

	x.candidates = x.candidates[:0]
	for i, l := range x.active {
		if l.Kind == Directional {
			continue
		}
		d := l.distance(pos)
		if d > l.Radius+radius {
			continue
		}
		x.candidates = append(x.candidates, candidate{order: i, dist: d})
	}
	slices.SortStableFunc(x.candidates, func(a, b candidate) int {
		return cmp.Compare(a.dist, b.dist)
	})

	for _, c := range x.candidates {
		if len(x.buffer)-start == x.maxPerDraw {
			break
		}
		x.buffer = append(x.buffer, x.active[c.order])
	}

	return Range{Start: start, Count: len(x.buffer) - start}
}

// Filter is Select memoized per object for the frame. Repeating a query
// with the same object, position and radius returns the earlier range
// without growing the buffer. Negative object ids are never memoized.
func (x *Index) Filter(objectID int, pos math.Vec3, radius float32) Range {
	if objectID < 0 {
		return x.Select(pos, radius)
	}

	key := filterKey{pos: pos, radius: radius}
	byObj := x.filters[objectID]
	if r, ok := byObj[key]; ok {
		return r
	}

	r := x.Select(pos, radius)
	if byObj == nil {
		byObj = make(map[filterKey]Range)
		x.filters[objectID] = byObj
	}
	byObj[key] = r
	return r
}

// Lights returns the buffer slice for r. A range past the populated
// buffer is a caller bug and is clamped to what exists.
func (x *Index) Lights(r Range) []Light {
	n := len(x.buffer)
	ok := invariant.Check(r.Start >= 0 && r.Count >= 0 && r.Start+r.Count <= n,
		"lighting", "light range outside buffer",
		zap.Int("start", r.Start), zap.Int("count", r.Count), zap.Int("len", n))
	if ok {
		return x.buffer[r.Start : r.Start+r.Count]
	}

	start := min(max(r.Start, 0), n)
	end := min(max(start+r.Count, start), n)
	return x.buffer[start:end]
}
