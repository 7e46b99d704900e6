package drawlist

import (
	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/internal/engine/transform"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// Texture is a backend texture name. Zero means no texture.
type Texture uint32

// NoTexture leaves a slot empty.
const NoTexture Texture = 0

// Slot is a per-draw texture binding point. Slots double as texture units.
type Slot uint8

const (
	SlotBase Slot = iota
	SlotGlow
	SlotSpecular
	SlotNormal
	SlotHeight
	SlotMisc

	NumSlots
)

// Texture units beyond the per-draw slots.
const (
	UnitEnvMap    = int(NumSlots)
	UnitTransform = UnitEnvMap + 1
	UnitShadowMap = UnitTransform + 1
)

// DrawFlags describe how a batch wants to be drawn.
type DrawFlags uint8

const (
	DrawTextured DrawFlags = 1 << iota
	DrawBatchTransforms
	DrawAnimated
)

// Batch is an indexed sub-range of a geometry buffer.
type Batch struct {
	Offset     int
	Count      int
	LargeIndex bool // 32-bit indices
}

// Geometry is an uploaded vertex buffer and its batches.
type Geometry struct {
	Buffer     int
	Batches    []Batch
	HasUV      bool
	HasModelID bool // per-vertex submodel ids for batched transforms
}

// DrawRecord is one queued draw.
type DrawRecord struct {
	State    int
	Geometry *Geometry
	Batch    int

	Textures [NumSlots]Texture
	Blend    BlendMode
	Alpha    float32
	Depth    DepthMode

	Flags   shader.Flags
	Variant shader.Variant

	Transform       transform.Transform
	Scale           math.Vec3
	ThrustScale     float32
	LightFactor     float32
	TransformOffset int // -1 when transforms are not batched
}
