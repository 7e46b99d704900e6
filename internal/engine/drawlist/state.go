package drawlist

import (
	"github.com/Faultbox/drawqueue/internal/engine/lighting"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// TextureAddressing selects how texture coordinates outside [0,1] sample.
type TextureAddressing uint8

const (
	AddressWrap TextureAddressing = iota
	AddressMirror
	AddressClamp
)

// FillMode selects polygon rasterization.
type FillMode uint8

const (
	FillSolid FillMode = iota
	FillWire
)

// CullMode selects face culling.
type CullMode uint8

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

// DepthMode selects depth test and write.
type DepthMode uint8

const (
	DepthFull DepthMode = iota // test and write
	DepthRead                  // test only
	DepthWrite                 // write only
	DepthNone
)

// BlendMode selects how a draw's fragments combine with the target.
type BlendMode int8

// AnyBlend is the Dispatch filter that matches every blend mode.
const AnyBlend BlendMode = -1

const (
	BlendNone BlendMode = iota
	BlendAlpha
	BlendAdditive
	BlendAlphaAdditive
)

// FogMode selects fog evaluation.
type FogMode uint8

const (
	FogNone FogMode = iota
	FogLinear
)

// Fog holds linear fog parameters.
type Fog struct {
	Mode    FogMode
	R, G, B uint8
	Near    float32
	Far     float32
}

// TeamColor overrides the base and stripe tint of team-colored maps.
type TeamColor struct {
	Set    bool
	Base   math.Vec3
	Stripe math.Vec3
}

// ClipPlane is a user clip plane in world space.
type ClipPlane struct {
	Point  math.Vec3
	Normal math.Vec3
}

// RenderState is the pipeline state shared by a run of draws. It is a
// comparable value so identical blocks can be detected with ==.
type RenderState struct {
	ClipPlane      int // index into the frame's clip planes, -1 for none
	Addressing     TextureAddressing
	Fill           FillMode
	Cull           CullMode
	CenterAlpha    int
	ZBias          int
	Buffer         int // backend buffer id, -1 for none
	Fog            Fog
	TeamColor      TeamColor
	AnimatedEffect int
	AnimatedTimer  float32
	Lighting       bool
	Lights         lighting.Range
}

func defaultState() RenderState {
	return RenderState{
		ClipPlane:  -1,
		Addressing: AddressWrap,
		Fill:       FillSolid,
		Cull:       CullBack,
		Buffer:     -1,
		Fog:        Fog{Mode: FogNone, Near: -1, Far: -1},
	}
}
