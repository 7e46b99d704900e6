package drawlist

import (
	"go.uber.org/zap"

	"github.com/Faultbox/drawqueue/internal/engine/lighting"
	"github.com/Faultbox/drawqueue/internal/engine/shader"
)

// Stats describe one Dispatch.
type Stats struct {
	Draws             int
	FixedDraws        int
	Filtered          int
	ProgramBinds      int
	TextureBinds      int
	BufferBinds       int
	StateChanges      int
	ClipActivations   int
	ClipDeactivations int
	UniformUploads    int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Draws += o.Draws
	s.FixedDraws += o.FixedDraws
	s.Filtered += o.Filtered
	s.ProgramBinds += o.ProgramBinds
	s.TextureBinds += o.TextureBinds
	s.BufferBinds += o.BufferBinds
	s.StateChanges += o.StateChanges
	s.ClipActivations += o.ClipActivations
	s.ClipDeactivations += o.ClipDeactivations
	s.UniformUploads += o.UniformUploads
}

// unbound marks a texture unit whose binding is unknown.
const unbound = ^Texture(0)

type dispatchState struct {
	prev     *RenderState
	prevRec  *DrawRecord
	program  shader.Handle
	bound    bool
	clip     int
	textures [NumSlots]Texture

	// packed is the range currently held in Queue.packed.
	packed    lighting.Range
	hasPacked bool
}

// Dispatch draws the queued records in dispatch order, skipping records
// whose blend mode does not match filter. AnyBlend draws everything.
// SortForDispatch should be called first; without it records go out in
// submission order.
func (q *Queue) Dispatch(filter BlendMode) Stats {
	q.resolveVariants()

	var stats Stats
	ds := dispatchState{clip: -1}
	for i := range ds.textures {
		ds.textures[i] = unbound
	}
	if q.frame.EnvMap != NoTexture {
		q.backend.BindTexture(UnitEnvMap, q.frame.EnvMap)
		stats.TextureBinds++
	}

	for _, idx := range q.order {
		rec := &q.records[idx]
		if filter != AnyBlend && rec.Blend != filter {
			stats.Filtered++
			continue
		}
		st := &q.states[rec.State]

		q.applyClip(&ds, st, &stats)
		q.applyState(&ds, rec, st, &stats)

		for slot, tex := range rec.Textures {
			if ds.textures[slot] != tex {
				q.backend.BindTexture(slot, tex)
				ds.textures[slot] = tex
				stats.TextureBinds++
			}
		}

		model := rec.Transform.Matrix(rec.Scale)
		if !rec.Variant.Valid() {
			if !ds.bound || ds.program != 0 {
				q.backend.UseProgram(0)
				ds.program, ds.bound = 0, true
				stats.ProgramBinds++
			}
			q.backend.PushModelMatrix(model)
			q.backend.DrawFixed(rec.Geometry, rec.Batch, rec, q.lights.Lights(st.Lights))
			q.backend.PopModelMatrix()
			stats.FixedDraws++
		} else {
			if !ds.bound || ds.program != rec.Variant.Handle {
				q.backend.UseProgram(rec.Variant.Handle)
				ds.program, ds.bound = rec.Variant.Handle, true
				stats.ProgramBinds++
			}
			q.uniforms.Bind(rec.Variant.Handle)
			q.backend.PushModelMatrix(model)
			q.setDrawUniforms(&ds, rec, st, model)
			stats.UniformUploads += q.uniforms.Flush()
			q.backend.Draw(rec.Geometry, rec.Batch)
			q.backend.PopModelMatrix()
		}

		stats.Draws++
		ds.prev = st
		ds.prevRec = rec
	}

	if ds.clip >= 0 {
		q.backend.DisableClipPlane()
		stats.ClipDeactivations++
	}

	q.log.Debug("draw list dispatched",
		zap.Int("draws", stats.Draws),
		zap.Int("fixed", stats.FixedDraws),
		zap.Int("filtered", stats.Filtered),
		zap.Int("program_binds", stats.ProgramBinds),
		zap.Int("texture_binds", stats.TextureBinds),
		zap.Int("state_changes", stats.StateChanges),
		zap.Int("uniform_uploads", stats.UniformUploads))
	return stats
}

// applyClip activates a plane when the draw's plane differs from the
// active one and deactivates it before the first unclipped draw.
func (q *Queue) applyClip(ds *dispatchState, st *RenderState, stats *Stats) {
	switch {
	case st.ClipPlane >= 0 && st.ClipPlane != ds.clip:
		q.backend.SetClipPlane(q.clipPlanes[st.ClipPlane])
		ds.clip = st.ClipPlane
		stats.ClipActivations++
	case st.ClipPlane < 0 && ds.clip >= 0:
		q.backend.DisableClipPlane()
		ds.clip = -1
		stats.ClipDeactivations++
	}
}

// applyState issues the state calls that differ from the previous draw.
func (q *Queue) applyState(ds *dispatchState, rec *DrawRecord, st *RenderState, stats *Stats) {
	first := ds.prev == nil
	prev := ds.prev
	prevRec := ds.prevRec

	if first || prev.Addressing != st.Addressing {
		q.backend.SetTextureAddressing(st.Addressing)
		stats.StateChanges++
	}
	if first || prev.Fog != st.Fog {
		q.backend.SetFog(st.Fog)
		stats.StateChanges++
	}
	if first || prev.Cull != st.Cull {
		q.backend.SetCull(st.Cull)
		stats.StateChanges++
	}
	if first || prev.Fill != st.Fill {
		q.backend.SetFill(st.Fill)
		stats.StateChanges++
	}
	if first || prev.ZBias != st.ZBias {
		q.backend.SetZBias(st.ZBias)
		stats.StateChanges++
	}
	if first || prev.CenterAlpha != st.CenterAlpha {
		q.backend.SetCenterAlpha(st.CenterAlpha)
		stats.StateChanges++
	}
	if first || prev.Buffer != st.Buffer {
		q.backend.BindBuffer(st.Buffer)
		stats.BufferBinds++
	}
	if first || prevRec.Depth != rec.Depth {
		q.backend.SetDepthMode(rec.Depth)
		stats.StateChanges++
	}
	if first || prevRec.Blend != rec.Blend || prevRec.Alpha != rec.Alpha {
		q.backend.SetBlend(rec.Blend, rec.Alpha)
		stats.StateChanges++
	}
}
