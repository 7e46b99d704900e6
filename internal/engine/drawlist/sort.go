package drawlist

import (
	"cmp"
	"slices"

	"github.com/Faultbox/drawqueue/internal/engine/shader"
)

// resolveVariants asks the resolver for every record's program.
func (q *Queue) resolveVariants() {
	if q.resolved {
		return
	}
	for i := range q.records {
		q.records[i].Variant = q.resolver.Resolve(q.records[i].Flags)
	}
	q.resolved = true
}

// sortFlags is the bitmask a record is clustered by: its program's flags
// when it has one, the requested flags otherwise.
func sortFlags(r *DrawRecord) shader.Flags {
	if r.Variant.Valid() {
		return r.Variant.Flags
	}
	return r.Flags
}

// compareRecords orders draws by the cost of the state they would change,
// most expensive first. The clip plane index compares unsigned so that
// unclipped draws (-1) follow all clipped ones.
func (q *Queue) compareRecords(a, b int) int {
	ra, rb := &q.records[a], &q.records[b]
	sa, sb := &q.states[ra.State], &q.states[rb.State]

	if c := cmp.Compare(uint32(sa.ClipPlane), uint32(sb.ClipPlane)); c != 0 {
		return c
	}
	if c := cmp.Compare(ra.Blend, rb.Blend); c != 0 {
		return c
	}
	if c := cmp.Compare(sortFlags(ra), sortFlags(rb)); c != 0 {
		return c
	}
	if c := cmp.Compare(sa.Buffer, sb.Buffer); c != 0 {
		return c
	}
	for _, slot := range [...]Slot{SlotBase, SlotSpecular, SlotGlow, SlotNormal, SlotHeight, SlotMisc} {
		if c := cmp.Compare(ra.Textures[slot], rb.Textures[slot]); c != 0 {
			return c
		}
	}
	return cmp.Compare(sa.Lights.Start, sb.Lights.Start)
}

// SortForDispatch resolves each draw's variant and orders the draws.
// Draws with equal keys keep their submission order.
func (q *Queue) SortForDispatch() {
	q.resolveVariants()
	slices.SortStableFunc(q.order, q.compareRecords)
}

// Order returns the dispatch order as indices into submission order.
func (q *Queue) Order() []int {
	return slices.Clone(q.order)
}
