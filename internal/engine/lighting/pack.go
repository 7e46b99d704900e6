package lighting

// Packed holds a light selection flattened for uniform upload. Arrays are
// sized to a fixed capacity so the shader-side array length never changes.
type Packed struct {
	Count      int
	Kinds      []int32
	Positions  []float32 // xyz per light
	Directions []float32 // xyz per light, the segment for tubes
	Colors     []float32 // rgb per light, pre-multiplied by intensity
	Radii      []float32
}

// NewPacked allocates a buffer for up to capacity lights.
func NewPacked(capacity int) *Packed {
	return &Packed{
		Kinds:      make([]int32, capacity),
		Positions:  make([]float32, capacity*3),
		Directions: make([]float32, capacity*3),
		Colors:     make([]float32, capacity*3),
		Radii:      make([]float32, capacity),
	}
}

// Capacity returns the number of lights the buffer can hold.
func (p *Packed) Capacity() int {
	return len(p.Radii)
}

// Fill replaces the packed contents with lights, truncating to capacity.
// Unused slots are zeroed.
func (p *Packed) Fill(lights []Light) {
	n := min(len(lights), p.Capacity())
	clear(p.Kinds)
	clear(p.Positions)
	clear(p.Directions)
	clear(p.Colors)
	clear(p.Radii)

	for i, l := range lights[:n] {
		p.Kinds[i] = int32(l.Kind)
		p.Positions[i*3+0] = l.Position.X
		p.Positions[i*3+1] = l.Position.Y
		p.Positions[i*3+2] = l.Position.Z
		dir := l.Direction
		if l.Kind == Tube {
			dir = l.End.Sub(l.Position)
		}
		p.Directions[i*3+0] = dir.X
		p.Directions[i*3+1] = dir.Y
		p.Directions[i*3+2] = dir.Z

		c := l.Color.Scale(l.Intensity)
		// Intensity can push a channel past 1.
		p.Colors[i*3+0] = clamp01(c.X)
		p.Colors[i*3+1] = clamp01(c.Y)
		p.Colors[i*3+2] = clamp01(c.Z)
		p.Radii[i] = l.Radius
	}
	p.Count = n
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
