package drawlist

import (
	"github.com/Faultbox/drawqueue/pkg/math"
)

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Arc is an electrical arc segment in world space.
type Arc struct {
	Start, End         math.Vec3
	Primary, Secondary Color
	Width              float32
}

// ArcKind selects an arc palette.
type ArcKind uint8

const (
	ArcNormal ArcKind = iota
	ArcEMP
)

// ArcColors returns the palette of an arc kind. flicker picks the
// alternate primary color so callers can animate arcs frame to frame.
func ArcColors(kind ArcKind, flicker bool) (primary, secondary Color) {
	switch kind {
	case ArcEMP:
		if flicker {
			return Color{128, 128, 10, 255}, Color{255, 255, 10, 255}
		}
		return Color{64, 64, 5, 255}, Color{255, 255, 10, 255}
	default:
		if flicker {
			return Color{128, 128, 255, 255}, Color{200, 200, 255, 255}
		}
		return Color{64, 64, 255, 255}, Color{200, 200, 255, 255}
	}
}

// ArcWidth scales arc width to the size of the model it crawls over so
// small models get thinner arcs.
func ArcWidth(modelRadius float32) float32 {
	w := float32(0.9)
	if modelRadius < 500 {
		w *= modelRadius * 0.01
		if w < 0.2 {
			w = 0.2
		}
	}
	return w
}

// AddArc queues an arc between two points given in the current transform's
// space.
func (q *Queue) AddArc(v1, v2 math.Vec3, primary, secondary Color, width float32) {
	top := q.transforms.Top()
	q.arcs = append(q.arcs, Arc{
		Start:     top.Apply(v1),
		End:       top.Apply(v2),
		Primary:   primary,
		Secondary: secondary,
		Width:     width,
	})
}

// Arcs returns the number of queued arcs.
func (q *Queue) Arcs() int {
	return len(q.arcs)
}

// RenderArcs draws every queued arc in submission order. Call it after
// Dispatch so arcs land on top of the models they belong to.
func (q *Queue) RenderArcs() int {
	for _, a := range q.arcs {
		q.backend.DrawArc(a)
	}
	return len(q.arcs)
}
