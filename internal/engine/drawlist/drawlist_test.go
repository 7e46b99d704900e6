package drawlist

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/Faultbox/drawqueue/internal/engine/lighting"
	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/internal/engine/shadow"
	"github.com/Faultbox/drawqueue/internal/engine/uniform"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// fakeBackend records every call as a short string.
type fakeBackend struct {
	calls      []string
	fixedLight []int
	depth      int
}

func (b *fakeBackend) log(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *fakeBackend) SetClipPlane(ClipPlane) { b.log("clip on") }
func (b *fakeBackend) DisableClipPlane() { b.log("clip off") }
func (b *fakeBackend) SetTextureAddressing(a TextureAddressing) { b.log("addressing %d", a) }
func (b *fakeBackend) SetFog(f Fog) { b.log("fog %d", f.Mode) }
func (b *fakeBackend) SetCull(c CullMode) { b.log("cull %d", c) }
func (b *fakeBackend) SetFill(f FillMode) { b.log("fill %d", f) }
func (b *fakeBackend) SetZBias(bias int) { b.log("zbias %d", bias) }
func (b *fakeBackend) SetCenterAlpha(mode int) { b.log("center %d", mode) }
func (b *fakeBackend) SetDepthMode(d DepthMode) { b.log("depth %d", d) }
func (b *fakeBackend) SetBlend(m BlendMode, _ float32) { b.log("blend %d", m) }
func (b *fakeBackend) BindBuffer(id int) { b.log("buffer %d", id) }
func (b *fakeBackend) BindTexture(unit int, tex Texture) { b.log("tex %d=%d", unit, tex) }
func (b *fakeBackend) UseProgram(h shader.Handle) { b.log("program %d", h) }
func (b *fakeBackend) PushModelMatrix(math.Mat4) { b.depth++ }
func (b *fakeBackend) PopModelMatrix() { b.depth-- }
func (b *fakeBackend) DrawArc(a Arc) { b.log("arc %.1f", a.Width) }

func (b *fakeBackend) Draw(g *Geometry, batch int) {
	b.log("draw %d/%d", g.Buffer, batch)
}

func (b *fakeBackend) DrawFixed(g *Geometry, batch int, _ *DrawRecord, lights []lighting.Light) {
	b.log("fixed %d/%d", g.Buffer, batch)
	b.fixedLight = append(b.fixedLight, len(lights))
}

func (b *fakeBackend) count(prefix string) int {
	n := 0
	for _, c := range b.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (b *fakeBackend) index(call string) int {
	return slices.Index(b.calls, call)
}

// seqCompiler hands out one handle per flags value.
type seqCompiler struct {
	next shader.Handle
	fail bool
}

func (c *seqCompiler) Compile(shader.Flags, string) (shader.Handle, error) {
	if c.fail {
		return 0, fmt.Errorf("no programs")
	}
	c.next++
	return c.next, nil
}

// nullUploader gives every uniform a location and counts uploads.
type nullUploader struct {
	uploads map[string]int
	names   map[int32]string
}

func (u *nullUploader) UniformLocation(_ shader.Handle, name string) int32 {
	for loc, n := range u.names {
		if n == name {
			return loc
		}
	}
	loc := int32(len(u.names))
	u.names[loc] = name
	return loc
}

func (u *nullUploader) Upload(loc int32, _ uniform.Value) {
	u.uploads[u.names[loc]]++
}

type harness struct {
	backend  *fakeBackend
	uploader *nullUploader
	compiler *seqCompiler
	resolver *shader.Resolver
	lights   *lighting.Index
	queue    *Queue
}

func newHarness() *harness {
	h := &harness{
		backend:  &fakeBackend{},
		uploader: &nullUploader{uploads: make(map[string]int), names: make(map[int32]string)},
		compiler: &seqCompiler{},
		lights:   lighting.NewIndex(4),
	}
	h.resolver = shader.NewResolver(h.compiler, shader.Options{ShaderModel: 3, NormalMaps: true, HeightMaps: true, ModelShading: true})
	h.queue = NewQueue(h.backend, h.resolver, uniform.New(h.uploader, 1e-4), h.lights, nil)
	return h
}

func testGeometry(buffer int) *Geometry {
	return &Geometry{
		Buffer:  buffer,
		Batches: []Batch{{Offset: 0, Count: 36}, {Offset: 36, Count: 12}},
		HasUV:   true,
	}
}

func TestBaseTextureOrdersEqualDraws(t *testing.T) {
	h := newHarness()
	q := h.queue
	g := testGeometry(1)

	q.SetTexture(SlotBase, 20)
	q.SubmitDraw(g, 0, DrawTextured)
	q.SetTexture(SlotBase, 10)
	q.SubmitDraw(g, 0, DrawTextured)

	q.SortForDispatch()
	order := q.Order()
	if q.Record(order[0]).Textures[SlotBase] != 10 || q.Record(order[1]).Textures[SlotBase] != 20 {
		t.Errorf("order = %v, want base texture 10 first", order)
	}
	if q.States() != 1 {
		t.Errorf("States() = %d, want 1 shared block", q.States())
	}
}

func TestUnlitDrawHasEmptyLightRange(t *testing.T) {
	h := newHarness()
	q := h.queue
	q.AddLight(lighting.Light{Kind: lighting.Directional, Direction: math.Vec3{Y: -1}, Color: math.Vec3{X: 1, Y: 1, Z: 1}, Intensity: 1})

	q.SetLighting(true)
	q.SetLightFilter(7, math.Vec3{}, 1)
	q.SubmitDraw(testGeometry(1), 0, 0)

	q.SetLighting(false)
	q.SubmitDraw(testGeometry(1), 1, 0)

	lit := q.State(q.Record(0).State).Lights
	if lit.Count != 1 {
		t.Errorf("lit range = %+v, want one light", lit)
	}
	unlit := q.State(q.Record(1).State).Lights
	if unlit != (lighting.Range{}) {
		t.Errorf("unlit range = %+v, want zero range", unlit)
	}
}

func TestClipPlaneActivatedOnce(t *testing.T) {
	h := newHarness()
	q := h.queue
	g := testGeometry(1)

	q.SetClipPlane(math.Vec3{}, math.Vec3{Y: 1})
	q.SubmitDraw(g, 0, 0)
	q.ClearClipPlane()
	q.SubmitDraw(g, 1, 0)

	q.SortForDispatch()
	stats := q.Dispatch(AnyBlend)

	b := h.backend
	on, off := b.index("clip on"), b.index("clip off")
	d1, d2 := b.index("draw 1/0"), b.index("draw 1/1")
	if on < 0 || off < 0 || d1 < 0 || d2 < 0 {
		t.Fatalf("missing calls: %v", b.calls)
	}
	if !(on < d1 && d1 < off && off < d2) {
		t.Errorf("call order = %v", b.calls)
	}
	if b.count("clip on") != 1 || b.count("clip off") != 1 {
		t.Errorf("clip calls = %d on, %d off, want 1 each", b.count("clip on"), b.count("clip off"))
	}
	if stats.ClipActivations != 1 || stats.ClipDeactivations != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestClipPlaneDisabledAtEnd(t *testing.T) {
	h := newHarness()
	q := h.queue
	q.SetClipPlane(math.Vec3{}, math.Vec3{Y: 1})
	q.SubmitDraw(testGeometry(1), 0, 0)
	q.SortForDispatch()
	q.Dispatch(AnyBlend)

	if last := h.backend.calls[len(h.backend.calls)-1]; last != "clip off" {
		t.Errorf("last call = %q, want clip off", last)
	}
}

func TestUnclippedDrawsFollowClipped(t *testing.T) {
	h := newHarness()
	q := h.queue
	g := testGeometry(1)

	q.SubmitDraw(g, 0, 0)
	q.SetClipPlane(math.Vec3{}, math.Vec3{Y: 1})
	q.SubmitDraw(g, 1, 0)
	q.ClearClipPlane()
	q.SubmitDraw(g, 0, 0)

	q.SortForDispatch()
	if got := q.Order(); !slices.Equal(got, []int{1, 0, 2}) {
		t.Errorf("order = %v, want [1 0 2]", got)
	}
}

// sortCase is one draw submitted by the sort tests.
type sortCase struct {
	clip   bool
	blend  BlendMode
	buffer int
	tex    Texture
	lit    bool
}

func submitCase(q *Queue, c sortCase) {
	if c.clip {
		q.SetClipPlane(math.Vec3{}, math.Vec3{Y: 1})
	} else {
		q.ClearClipPlane()
	}
	q.SetBlendFilter(c.blend, 1)
	q.SetTexture(SlotBase, c.tex)
	q.SetLighting(c.lit)
	q.SubmitDraw(testGeometry(c.buffer), 0, DrawTextured)
}

// groupKey is the part of the key that must form contiguous runs.
func groupKey(q *Queue, idx int) string {
	rec := q.Record(idx)
	st := q.State(rec.State)
	return fmt.Sprintf("clip=%d blend=%d flags=%d", st.ClipPlane, rec.Blend, sortFlags(&rec))
}

func TestSortClustersByKey(t *testing.T) {
	h := newHarness()
	q := h.queue

	cases := []sortCase{
		{blend: BlendAlpha, buffer: 2, tex: 5},
		{blend: BlendNone, buffer: 1, tex: 3, lit: true},
		{blend: BlendNone, buffer: 2, tex: 1},
		{clip: true, blend: BlendNone, buffer: 2, tex: 1},
		{blend: BlendAlpha, buffer: 1, tex: 4},
		{blend: BlendNone, buffer: 1, tex: 3},
		{blend: BlendNone, buffer: 1, tex: 3, lit: true},
		{clip: true, blend: BlendNone, buffer: 1, tex: 2},
		{blend: BlendNone, buffer: 1, tex: 2},
	}
	for _, c := range cases {
		submitCase(q, c)
	}
	q.SortForDispatch()
	order := q.Order()

	// Every (clip, blend, flags) group is one contiguous run.
	seen := make(map[string]bool)
	for i, idx := range order {
		key := groupKey(q, idx)
		if i > 0 && key == groupKey(q, order[i-1]) {
			continue
		}
		if seen[key] {
			t.Fatalf("order %v splits group %s", order, key)
		}
		seen[key] = true
	}

	// Clipped draws lead, then opaque before blended.
	if !cases[order[0]].clip || !cases[order[1]].clip {
		t.Errorf("order = %v, clipped draws not first", order)
	}
	for _, idx := range order[2:] {
		if cases[idx].clip {
			t.Errorf("order = %v, clipped draw after unclipped", order)
		}
	}
	if got := cases[order[len(order)-1]].blend; got != BlendAlpha {
		t.Errorf("order = %v, last draw blend %d", order, got)
	}

	// Inside a group buffer outranks texture.
	for i := 1; i < len(order); i++ {
		a, b := order[i-1], order[i]
		if groupKey(q, a) != groupKey(q, b) {
			continue
		}
		ca, cb := cases[a], cases[b]
		if ca.buffer > cb.buffer {
			t.Errorf("order = %v, buffer %d before %d", order, ca.buffer, cb.buffer)
		}
		if ca.buffer == cb.buffer && ca.tex > cb.tex {
			t.Errorf("order = %v, texture %d before %d", order, ca.tex, cb.tex)
		}
	}
	// Unclipped unlit opaque: buffer 1 (tex 2, then 3) ahead of buffer 2 (tex 1).
	want := []int{8, 5, 2}
	var got []int
	for _, idx := range order {
		if c := cases[idx]; !c.clip && !c.lit && c.blend == BlendNone {
			got = append(got, idx)
		}
	}
	if !slices.Equal(got, want) {
		t.Errorf("unlit opaque order = %v, want %v", got, want)
	}

	// Equal keys keep submission order.
	if i1, i6 := slices.Index(order, 1), slices.Index(order, 6); i1 > i6 {
		t.Errorf("equal draws reordered: %v", order)
	}
}

func TestSortIgnoresSubmissionOrder(t *testing.T) {
	var cases []sortCase
	for _, blend := range []BlendMode{BlendNone, BlendAlpha} {
		for buffer := range 3 {
			for tex := Texture(1); tex <= 3; tex++ {
				cases = append(cases,
					sortCase{blend: blend, buffer: buffer, tex: tex},
					sortCase{blend: blend, buffer: buffer, tex: tex, lit: true})
			}
		}
	}

	sorted := func(perm []int) []string {
		q := newHarness().queue
		for _, i := range perm {
			submitCase(q, cases[i])
		}
		q.SortForDispatch()
		var keys []string
		for _, idx := range q.Order() {
			rec := q.Record(idx)
			st := q.State(rec.State)
			keys = append(keys, fmt.Sprintf("%s buffer=%d tex=%d", groupKey(q, idx), st.Buffer, rec.Textures[SlotBase]))
		}
		return keys
	}

	identity := make([]int, len(cases))
	for i := range identity {
		identity[i] = i
	}
	first := sorted(identity)

	reversed := slices.Clone(identity)
	slices.Reverse(reversed)
	rotated := append(slices.Clone(identity[7:]), identity[:7]...)
	shuffled := slices.Clone(identity)
	rng := rand.New(rand.NewPCG(1, 2))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for name, perm := range map[string][]int{"reversed": reversed, "rotated": rotated, "shuffled": shuffled} {
		if got := sorted(perm); !slices.Equal(got, first) {
			t.Errorf("%s submission sorted to\n%v\nwant\n%v", name, got, first)
		}
	}
}

func TestSubmitDrawReusesState(t *testing.T) {
	h := newHarness()
	q := h.queue
	g := testGeometry(1)

	q.SubmitDraw(g, 0, 0)
	q.SubmitDraw(g, 1, 0)
	q.SetCullMode(CullNone)
	q.SubmitDraw(g, 0, 0)
	q.SetCullMode(CullBack)
	q.SubmitDraw(g, 0, 0)

	if q.States() != 3 {
		t.Errorf("States() = %d, want 3", q.States())
	}
	if q.Record(0).State != q.Record(1).State {
		t.Error("identical consecutive draws should share a state block")
	}
}

func TestSubmitDrawRejectsBadBatch(t *testing.T) {
	h := newHarness()
	q := h.queue

	if q.SubmitDraw(testGeometry(1), 5, 0) {
		t.Error("SubmitDraw accepted batch past the end")
	}
	if q.SubmitDraw(nil, 0, 0) {
		t.Error("SubmitDraw accepted nil geometry")
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestSetTextureIgnoresBadSlot(t *testing.T) {
	h := newHarness()
	q := h.queue
	q.SetTexture(NumSlots, 9)
	q.SubmitDraw(testGeometry(1), 0, 0)
	if q.Record(0).Textures != ([NumSlots]Texture{}) {
		t.Errorf("textures = %v, want none", q.Record(0).Textures)
	}
}

func TestDispatchFiltersByBlend(t *testing.T) {
	h := newHarness()
	q := h.queue
	g := testGeometry(1)

	q.SubmitDraw(g, 0, 0)
	q.SetBlendFilter(BlendAdditive, 0.5)
	q.SubmitDraw(g, 1, 0)
	q.SortForDispatch()

	opaque := q.Dispatch(BlendNone)
	if opaque.Draws != 1 || opaque.Filtered != 1 {
		t.Errorf("opaque pass = %+v", opaque)
	}
	blended := q.Dispatch(BlendAdditive)
	if blended.Draws != 1 || blended.Filtered != 1 {
		t.Errorf("blended pass = %+v", blended)
	}
	if all := q.Dispatch(AnyBlend); all.Draws != 2 {
		t.Errorf("any pass = %+v", all)
	}
}

func TestDispatchSkipsRedundantState(t *testing.T) {
	h := newHarness()
	q := h.queue
	g := testGeometry(3)

	q.SetBuffer(3)
	q.SetTexture(SlotBase, 8)
	for range 4 {
		q.SubmitDraw(g, 0, DrawTextured)
	}
	q.SortForDispatch()
	stats := q.Dispatch(AnyBlend)

	b := h.backend
	if stats.Draws != 4 {
		t.Fatalf("Draws = %d, want 4", stats.Draws)
	}
	if stats.ProgramBinds != 1 || b.count("program") != 1 {
		t.Errorf("program binds = %d, want 1", stats.ProgramBinds)
	}
	if b.count("buffer") != 1 || b.count("cull") != 1 || b.count("blend") != 1 {
		t.Errorf("state repeated: %v", b.calls)
	}
	// One bind per slot for the first draw, nothing after.
	if b.count("tex") != int(NumSlots) {
		t.Errorf("texture binds = %d, want %d", b.count("tex"), NumSlots)
	}
	if h.uploader.uploads["model_matrix"] != 1 {
		t.Errorf("model_matrix uploads = %d, want 1", h.uploader.uploads["model_matrix"])
	}
	if b.depth != 0 {
		t.Errorf("model matrix stack depth = %d after dispatch", b.depth)
	}
}

func TestDispatchUploadsLightsOnRangeChange(t *testing.T) {
	h := newHarness()
	q := h.queue
	q.AddLight(lighting.Light{Kind: lighting.Point, Position: math.Vec3{}, Radius: 10, Color: math.Vec3{X: 1}, Intensity: 1})
	q.AddLight(lighting.Light{Kind: lighting.Point, Position: math.Vec3{X: 100}, Radius: 10, Color: math.Vec3{Y: 1}, Intensity: 1})
	q.SetLighting(true)
	g := testGeometry(1)

	q.SetLightFilter(1, math.Vec3{}, 1)
	q.SubmitDraw(g, 0, 0)
	q.SubmitDraw(g, 1, 0)
	q.SetLightFilter(2, math.Vec3{X: 100}, 1)
	q.SubmitDraw(g, 0, 0)

	q.SortForDispatch()
	q.Dispatch(AnyBlend)

	if n := h.uploader.uploads["light_color"]; n != 2 {
		t.Errorf("light_color uploads = %d, want 2", n)
	}
	if n := h.uploader.uploads["n_lights"]; n != 1 {
		t.Errorf("n_lights uploads = %d, want 1", n)
	}
}

func TestDispatchFixedPath(t *testing.T) {
	h := newHarness()
	h.compiler.fail = true
	q := h.queue
	q.AddLight(lighting.Light{Kind: lighting.Directional, Direction: math.Vec3{Y: -1}, Color: math.Vec3{X: 1}, Intensity: 1})
	q.SetLighting(true)
	q.SetLightFilter(-1, math.Vec3{}, 1)
	q.SubmitDraw(testGeometry(1), 0, 0)

	q.SortForDispatch()
	stats := q.Dispatch(AnyBlend)

	if stats.FixedDraws != 1 || h.backend.count("draw") != 0 {
		t.Errorf("stats = %+v calls = %v", stats, h.backend.calls)
	}
	if !slices.Equal(h.backend.fixedLight, []int{1}) {
		t.Errorf("fixed draw lights = %v, want [1]", h.backend.fixedLight)
	}
	if h.resolver.Mode() != shader.ModeNoModelShading {
		t.Errorf("mode = %v, want no model shading", h.resolver.Mode())
	}
}

func TestBeginFrameClears(t *testing.T) {
	h := newHarness()
	q := h.queue
	q.SetClipPlane(math.Vec3{}, math.Vec3{Y: 1})
	q.SubmitDraw(testGeometry(1), 0, 0)
	p, sc := ArcColors(ArcNormal, false)
	q.AddArc(math.Vec3{}, math.Vec3{X: 1}, p, sc, ArcWidth(100))

	q.BeginFrame(FrameOptions{View: math.Identity(), Proj: math.Identity()})
	if q.Len() != 0 || q.States() != 0 || q.Arcs() != 0 {
		t.Errorf("queue not empty after BeginFrame: %d draws %d states %d arcs", q.Len(), q.States(), q.Arcs())
	}
	q.SubmitDraw(testGeometry(1), 0, 0)
	if q.State(0).ClipPlane != -1 {
		t.Error("clip plane survived BeginFrame")
	}
}

func TestSubmitDrawUsesTransformStack(t *testing.T) {
	h := newHarness()
	q := h.queue
	q.PushTransform(math.Vec3{X: 5}, math.Mat3Identity())
	q.PushTransform(math.Vec3{Y: 2}, math.Mat3Identity())
	q.SubmitDraw(testGeometry(1), 0, 0)
	q.PopTransform()
	q.PopTransform()

	got := q.Record(0).Transform.Origin
	if !got.ApproxEqual(math.Vec3{X: 5, Y: 2}, 1e-6) {
		t.Errorf("origin = %v, want (5,2,0)", got)
	}
	if !q.CurrentTransform().Origin.ApproxEqual(math.Vec3{}, 0) {
		t.Error("transform stack not restored")
	}
}

func TestShadowPassFlags(t *testing.T) {
	h := newHarness()
	q := h.queue
	q.BeginFrame(FrameOptions{View: math.Identity(), Proj: math.Identity(), ShadowPass: true, ShadowCascade: 2})
	q.SetLighting(true)
	q.SetFog(FogLinear, 10, 20, 30, 1, 100)
	q.SubmitDraw(testGeometry(1), 0, DrawTextured)

	if f := q.Record(0).Flags; f != shader.FlagShadowMap {
		t.Errorf("flags = %v, want shadow map only", f)
	}
	q.SortForDispatch()
	q.Dispatch(AnyBlend)
	if h.uploader.uploads["shadow_map_num"] != 1 {
		t.Error("shadow_map_num not uploaded")
	}
}

func TestShadowCascadeClamped(t *testing.T) {
	h := newHarness()
	q := h.queue
	u := shadow.Uniforms{Proj: []math.Mat4{math.Identity(), math.Identity()}}

	q.BeginFrame(FrameOptions{View: math.Identity(), Proj: math.Identity(), ShadowPass: true, ShadowCascade: 5, Shadows: &u})
	if got := q.Frame().ShadowCascade; got != 1 {
		t.Errorf("cascade = %d, want 1", got)
	}
	q.BeginFrame(FrameOptions{View: math.Identity(), Proj: math.Identity(), ShadowPass: true, ShadowCascade: 1, Shadows: &u})
	if got := q.Frame().ShadowCascade; got != 1 {
		t.Errorf("cascade = %d, want 1", got)
	}
}

func TestArcPalettes(t *testing.T) {
	tests := []struct {
		kind         ArcKind
		flicker      bool
		primary, sec Color
	}{
		{ArcNormal, false, Color{64, 64, 255, 255}, Color{200, 200, 255, 255}},
		{ArcNormal, true, Color{128, 128, 255, 255}, Color{200, 200, 255, 255}},
		{ArcEMP, false, Color{64, 64, 5, 255}, Color{255, 255, 10, 255}},
		{ArcEMP, true, Color{128, 128, 10, 255}, Color{255, 255, 10, 255}},
	}
	for _, tt := range tests {
		p, s := ArcColors(tt.kind, tt.flicker)
		if p != tt.primary || s != tt.sec {
			t.Errorf("ArcColors(%d, %v) = %v %v, want %v %v", tt.kind, tt.flicker, p, s, tt.primary, tt.sec)
		}
	}
}

func TestArcWidth(t *testing.T) {
	tests := []struct {
		radius float32
		want   float32
	}{
		{1000, 0.9},
		{500, 0.9},
		{100, 0.9},
		{10, 0.2},
	}
	for _, tt := range tests {
		if got := ArcWidth(tt.radius); got-tt.want > 1e-5 || tt.want-got > 1e-5 {
			t.Errorf("ArcWidth(%v) = %v, want %v", tt.radius, got, tt.want)
		}
	}
}

func TestArcsFollowTransformAndOrder(t *testing.T) {
	h := newHarness()
	q := h.queue
	p, s := ArcColors(ArcEMP, false)

	q.PushTransform(math.Vec3{Z: 10}, math.Mat3Identity())
	q.AddArc(math.Vec3{}, math.Vec3{X: 1}, p, s, 0.5)
	q.PopTransform()
	q.AddArc(math.Vec3{}, math.Vec3{X: 1}, p, s, 0.3)

	if n := q.RenderArcs(); n != 2 {
		t.Fatalf("RenderArcs() = %d, want 2", n)
	}
	if !slices.Equal(h.backend.calls, []string{"arc 0.5", "arc 0.3"}) {
		t.Errorf("calls = %v", h.backend.calls)
	}
	if got := q.arcs[0].Start; !got.ApproxEqual(math.Vec3{Z: 10}, 1e-6) {
		t.Errorf("arc start = %v, want (0,0,10)", got)
	}
}

func TestEnvMapAlphaUniform(t *testing.T) {
	for _, tc := range []struct {
		name  string
		env   Texture
		alpha bool
		want  int
	}{
		{"masked", 9, true, 1},
		{"unmasked", 9, false, 1},
		{"no env map", NoTexture, true, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness()
			q := h.queue
			q.BeginFrame(FrameOptions{View: math.Identity(), Proj: math.Identity(), EnvMap: tc.env, EnvMapAlpha: tc.alpha})
			q.SetLighting(true)
			q.SetTexture(SlotBase, 1)
			q.SetTexture(SlotSpecular, 2)
			q.SubmitDraw(testGeometry(1), 0, DrawTextured)
			q.SortForDispatch()
			q.Dispatch(AnyBlend)

			if got := h.uploader.uploads["alpha_spec"]; got != tc.want {
				t.Errorf("alpha_spec uploads = %d, want %d", got, tc.want)
			}
		})
	}
}
