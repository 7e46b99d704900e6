package lighting

import (
	"testing"

	"github.com/Faultbox/drawqueue/internal/invariant"
	"github.com/Faultbox/drawqueue/pkg/math"
)

func point(x, y, z, radius float32) Light {
	return Light{Kind: Point, Position: math.Vec3{X: x, Y: y, Z: z}, Radius: radius, Intensity: 1}
}

func TestSelectOrder(t *testing.T) {
	x := NewIndex(8)
	x.Add(point(50, 0, 0, 60))  // 0: far but in reach
	x.Add(Sun(0, 45, math.Vec3{X: 1, Y: 1, Z: 1}, 1))
	x.Add(point(5, 0, 0, 10))   // 2: near
	x.Add(point(500, 0, 0, 10)) // 3: out of reach
	x.Add(point(-5, 0, 0, 10))  // 4: tie with 2

	r := x.Select(math.Vec3{}, 1)
	got := x.Lights(r)

	if r.Start != 0 || r.Count != 4 {
		t.Fatalf("range = %+v, want {0 4}", r)
	}
	if got[0].Kind != Directional {
		t.Errorf("first light kind = %v, want directional", got[0].Kind)
	}
	wantX := []float32{5, -5, 50}
	for i, want := range wantX {
		if got[i+1].Position.X != want {
			t.Errorf("light %d at x=%g, want %g", i+1, got[i+1].Position.X, want)
		}
	}
}

func TestSelectCap(t *testing.T) {
	x := NewIndex(2)
	x.Add(Light{Kind: Directional})
	x.Add(point(1, 0, 0, 5))
	x.Add(point(2, 0, 0, 5))

	r := x.Select(math.Vec3{}, 1)
	if r.Count != 2 {
		t.Fatalf("count = %d, want cap 2", r.Count)
	}
	if got := x.Lights(r)[1].Position.X; got != 1 {
		t.Errorf("kept light at x=%g, want nearest (1)", got)
	}
}

func TestSelectAppends(t *testing.T) {
	x := NewIndex(8)
	x.Add(point(0, 0, 0, 5))

	a := x.Select(math.Vec3{}, 1)
	b := x.Select(math.Vec3{X: 100}, 1)
	c := x.Select(math.Vec3{X: 1}, 1)

	if a != (Range{0, 1}) {
		t.Errorf("a = %+v, want {0 1}", a)
	}
	if !b.Empty() || b.Start != 1 {
		t.Errorf("b = %+v, want empty at 1", b)
	}
	if c != (Range{1, 1}) {
		t.Errorf("c = %+v, want {1 1}", c)
	}
	if x.Len() != 2 {
		t.Errorf("buffer len = %d, want 2", x.Len())
	}
}

func TestSelectDeterministic(t *testing.T) {
	build := func() []Light {
		x := NewIndex(4)
		x.Add(point(3, 0, 0, 10))
		x.Add(point(0, 3, 0, 10))
		x.Add(point(0, 0, 3, 10))
		x.Add(point(1, 1, 1, 10))
		return x.Lights(x.Select(math.Vec3{}, 0))
	}

	a, b := build(), build()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("selection differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestTubeLight(t *testing.T) {
	x := NewIndex(8)
	x.Add(Light{
		Kind:     Tube,
		Position: math.Vec3{X: -100},
		End:      math.Vec3{X: 100},
		Radius:   2,
	})

	// Far from both endpoints but close to the segment.
	if r := x.Select(math.Vec3{Y: 3}, 1.5); r.Count != 1 {
		t.Errorf("tube light not selected near its middle: %+v", r)
	}
	if r := x.Select(math.Vec3{Y: 10}, 1); r.Count != 0 {
		t.Errorf("tube light selected out of reach: %+v", r)
	}
}

func TestFilterMemo(t *testing.T) {
	x := NewIndex(8)
	x.Add(point(0, 0, 0, 5))

	pos := math.Vec3{X: 1}
	a := x.Filter(7, pos, 2)
	b := x.Filter(7, pos, 2)
	if a != b {
		t.Errorf("memoized filter changed range: %+v vs %+v", a, b)
	}
	if x.Len() != 1 {
		t.Errorf("buffer grew on memo hit: len %d", x.Len())
	}

	// A moved object and an unmemoized id both select again.
	x.Filter(7, math.Vec3{X: 2}, 2)
	x.Filter(-1, pos, 2)
	x.Filter(-1, pos, 2)
	if x.Len() != 4 {
		t.Errorf("buffer len = %d, want 4", x.Len())
	}
}

func TestResetClearsFrame(t *testing.T) {
	x := NewIndex(8)
	x.Add(point(0, 0, 0, 5))
	x.Filter(1, math.Vec3{}, 1)

	x.Reset()
	if x.Len() != 0 || x.Active() != 0 {
		t.Fatalf("after reset len=%d active=%d", x.Len(), x.Active())
	}

	x.Add(point(0, 0, 0, 5))
	if r := x.Filter(1, math.Vec3{}, 1); r != (Range{0, 1}) {
		t.Errorf("filter after reset = %+v, want fresh {0 1}", r)
	}
}

func TestLightsClamps(t *testing.T) {
	invariant.SetStrict(false)

	x := NewIndex(8)
	x.Add(point(0, 0, 0, 5))
	x.Select(math.Vec3{}, 1)

	if got := x.Lights(Range{Start: 0, Count: 5}); len(got) != 1 {
		t.Errorf("clamped len = %d, want 1", len(got))
	}
	if got := x.Lights(Range{Start: 9, Count: 1}); len(got) != 0 {
		t.Errorf("range past end len = %d, want 0", len(got))
	}
}

func TestDefaultCap(t *testing.T) {
	if got := NewIndex(0).MaxPerDraw(); got != DefaultMaxPerDraw {
		t.Errorf("MaxPerDraw = %d, want %d", got, DefaultMaxPerDraw)
	}
}
