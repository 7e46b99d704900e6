package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/drawqueue/internal/engine/drawlist"
	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/internal/logger"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// Backend issues draw list commands to OpenGL. It implements
// drawlist.Backend and must only be used on the thread that owns the
// context.
type Backend struct {
	width, height int32

	view math.Mat4
	proj math.Mat4
	eye  math.Vec3

	models []math.Mat4

	meshes     map[int]*mesh
	nextMesh   int
	boundMesh  int
	transforms uint32 // buffer texture with batched model matrices
	transBuf   uint32

	samplers   [3]uint32 // per TextureAddressing
	addressing drawlist.TextureAddressing
	fog        drawlist.Fog
	center     int
	clip       [4]float32
	clipOn     bool
	depth      drawlist.DepthMode
	shadowPass bool

	fixed *fixedProgram
	arc   *arcRenderer

	log *zap.Logger
}

// New initializes OpenGL on the current context and creates the backend.
func New(width, height int) (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	b := &Backend{
		width:     int32(width),
		height:    int32(height),
		view:      math.Identity(),
		proj:      math.Identity(),
		meshes:    make(map[int]*mesh),
		boundMesh: -1,
		log:       logger.Named("glbackend"),
	}
	b.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.ClearColor(0.05, 0.05, 0.08, 1.0)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	b.createSamplers()

	var err error
	if b.fixed, err = newFixedProgram(); err != nil {
		b.Close()
		return nil, fmt.Errorf("fixed program: %w", err)
	}
	if b.arc, err = newArcRenderer(); err != nil {
		b.Close()
		return nil, fmt.Errorf("arc program: %w", err)
	}
	return b, nil
}

// Close releases every GPU resource the backend created.
func (b *Backend) Close() {
	b.log.Info("closing backend")
	for id := range b.meshes {
		b.DeleteMesh(id)
	}
	gl.DeleteSamplers(int32(len(b.samplers)), &b.samplers[0])
	if b.transforms != 0 {
		gl.DeleteTextures(1, &b.transforms)
		gl.DeleteBuffers(1, &b.transBuf)
	}
	if b.fixed != nil {
		b.fixed.destroy()
	}
	if b.arc != nil {
		b.arc.destroy()
	}
}

// Resize handles window resize.
func (b *Backend) Resize(width, height int) {
	b.width, b.height = int32(width), int32(height)
	gl.Viewport(0, 0, b.width, b.height)
	b.log.Debug("backend resized", zap.Int("width", width), zap.Int("height", height))
}

// BeginFrame clears the default framebuffer.
func (b *Backend) BeginFrame() {
	gl.Viewport(0, 0, b.width, b.height)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetCamera sets the matrices used by fixed draws and arcs.
func (b *Backend) SetCamera(view, proj math.Mat4, eye math.Vec3) {
	b.view, b.proj, b.eye = view, proj, eye
}

// BeginShadowPass renders the following draws into a cascade layer.
func (b *Backend) BeginShadowPass(maps *ShadowMaps, layer int, first bool) {
	maps.BeginLayer(int32(layer), first)
	b.shadowPass = true
	b.SetDepthMode(drawlist.DepthFull)
}

// EndShadowPass returns to the default framebuffer.
func (b *Backend) EndShadowPass(maps *ShadowMaps) {
	maps.End()
	b.shadowPass = false
	b.SetDepthMode(b.depth)
}

func (b *Backend) createSamplers() {
	gl.GenSamplers(int32(len(b.samplers)), &b.samplers[0])
	wraps := [...]int32{
		drawlist.AddressWrap:   gl.REPEAT,
		drawlist.AddressMirror: gl.MIRRORED_REPEAT,
		drawlist.AddressClamp:  gl.CLAMP_TO_EDGE,
	}
	for i, s := range b.samplers {
		gl.SamplerParameteri(s, gl.TEXTURE_WRAP_S, wraps[i])
		gl.SamplerParameteri(s, gl.TEXTURE_WRAP_T, wraps[i])
		gl.SamplerParameteri(s, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.SamplerParameteri(s, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}
	b.SetTextureAddressing(drawlist.AddressWrap)
}

// SetClipPlane enables clip distance 0. Variant programs compute the
// distance from their clip uniforms, fixed draws from the stored plane.
func (b *Backend) SetClipPlane(p drawlist.ClipPlane) {
	n := p.Normal.Normalize()
	b.clip = [4]float32{n.X, n.Y, n.Z, -n.Dot(p.Point)}
	b.clipOn = true
	gl.Enable(gl.CLIP_DISTANCE0)
}

// DisableClipPlane disables clip distance 0.
func (b *Backend) DisableClipPlane() {
	b.clipOn = false
	gl.Disable(gl.CLIP_DISTANCE0)
}

// SetTextureAddressing binds the matching sampler to the per-draw units.
func (b *Backend) SetTextureAddressing(a drawlist.TextureAddressing) {
	if int(a) >= len(b.samplers) {
		a = drawlist.AddressWrap
	}
	b.addressing = a
	for unit := range int(drawlist.NumSlots) {
		gl.BindSampler(uint32(unit), b.samplers[a])
	}
}

// SetFog records fog for fixed draws. Variant programs read fog uniforms.
func (b *Backend) SetFog(f drawlist.Fog) {
	b.fog = f
}

func (b *Backend) SetCull(c drawlist.CullMode) {
	switch c {
	case drawlist.CullNone:
		gl.Disable(gl.CULL_FACE)
	case drawlist.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

func (b *Backend) SetFill(f drawlist.FillMode) {
	if f == drawlist.FillWire {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

// SetZBias pulls geometry toward the viewer by bias depth units.
func (b *Backend) SetZBias(bias int) {
	if bias == 0 {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
		return
	}
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(0, -float32(bias))
}

// SetCenterAlpha records the center-alpha mode for fixed draws.
func (b *Backend) SetCenterAlpha(mode int) {
	b.center = mode
}

func (b *Backend) SetDepthMode(d drawlist.DepthMode) {
	b.depth = d
	test := uint32(gl.LEQUAL)
	if b.shadowPass {
		test = gl.GREATER
	}
	switch d {
	case drawlist.DepthRead:
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(test)
		gl.DepthMask(false)
	case drawlist.DepthWrite:
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.ALWAYS)
		gl.DepthMask(true)
	case drawlist.DepthNone:
		gl.Disable(gl.DEPTH_TEST)
		gl.DepthMask(false)
	default:
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(test)
		gl.DepthMask(true)
	}
}

func (b *Backend) SetBlend(m drawlist.BlendMode, alpha float32) {
	switch m {
	case drawlist.BlendAlpha:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	case drawlist.BlendAdditive:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ONE, gl.ONE)
	case drawlist.BlendAlphaAdditive:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	default:
		gl.Disable(gl.BLEND)
	}
	gl.BlendColor(1, 1, 1, alpha)
}

// BindTexture binds tex to unit. The environment unit holds a cube map.
func (b *Backend) BindTexture(unit int, tex drawlist.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	if unit == drawlist.UnitEnvMap {
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, uint32(tex))
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

// UseProgram binds a variant program.
func (b *Backend) UseProgram(h shader.Handle) {
	gl.UseProgram(uint32(h))
}

func (b *Backend) PushModelMatrix(m math.Mat4) {
	b.models = append(b.models, m)
}

func (b *Backend) PopModelMatrix() {
	if len(b.models) == 0 {
		b.log.Error("model matrix stack underflow")
		return
	}
	b.models = b.models[:len(b.models)-1]
}

func (b *Backend) model() math.Mat4 {
	if len(b.models) == 0 {
		return math.Identity()
	}
	return b.models[len(b.models)-1]
}
