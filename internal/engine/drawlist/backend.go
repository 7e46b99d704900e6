package drawlist

import (
	"github.com/Faultbox/drawqueue/internal/engine/lighting"
	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// Backend issues pipeline commands. Dispatch calls a setter only when the
// value differs from what the previous draw used.
type Backend interface {
	SetClipPlane(p ClipPlane)
	DisableClipPlane()
	SetTextureAddressing(a TextureAddressing)
	SetFog(f Fog)
	SetCull(c CullMode)
	SetFill(f FillMode)
	SetZBias(bias int)
	SetCenterAlpha(mode int)
	SetDepthMode(d DepthMode)
	SetBlend(b BlendMode, alpha float32)

	BindBuffer(id int)
	BindTexture(unit int, tex Texture)
	// UseProgram binds a variant program. Zero unbinds.
	UseProgram(h shader.Handle)

	PushModelMatrix(m math.Mat4)
	PopModelMatrix()

	Draw(g *Geometry, batch int)
	// DrawFixed draws without a variant program.
	DrawFixed(g *Geometry, batch int, rec *DrawRecord, lights []lighting.Light)
	DrawArc(a Arc)
}
