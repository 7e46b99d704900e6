package glbackend

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/drawqueue/internal/engine/drawlist"
	"github.com/Faultbox/drawqueue/internal/engine/glbackend/shaders"
	"github.com/Faultbox/drawqueue/internal/engine/lighting"
	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// fixedProgram draws records that have no variant: one texture, one
// light and linear fog.
type fixedProgram struct {
	program uint32

	locModel      int32
	locView       int32
	locProj       int32
	locClip       int32
	locTexture    int32
	locTextured   int32
	locAlpha      int32
	locCenter     int32
	locLit        int32
	locLightDir   int32
	locLightColor int32
	locFog        int32
	locFogColor   int32
	locFogRange   int32
}

func newFixedProgram() (*fixedProgram, error) {
	prog, err := CompileProgram(glslVersion+shaders.FixedVertexShader, glslVersion+shaders.FixedFragmentShader)
	if err != nil {
		return nil, err
	}
	return &fixedProgram{
		program:       prog,
		locModel:      uniformLocation(prog, "uModel"),
		locView:       uniformLocation(prog, "uView"),
		locProj:       uniformLocation(prog, "uProj"),
		locClip:       uniformLocation(prog, "uClipPlane"),
		locTexture:    uniformLocation(prog, "uTexture"),
		locTextured:   uniformLocation(prog, "uTextured"),
		locAlpha:      uniformLocation(prog, "uAlpha"),
		locCenter:     uniformLocation(prog, "uCenterAlpha"),
		locLit:        uniformLocation(prog, "uLit"),
		locLightDir:   uniformLocation(prog, "uLightDir"),
		locLightColor: uniformLocation(prog, "uLightColor"),
		locFog:        uniformLocation(prog, "uFog"),
		locFogColor:   uniformLocation(prog, "uFogColor"),
		locFogRange:   uniformLocation(prog, "uFogRange"),
	}, nil
}

func (p *fixedProgram) destroy() {
	gl.DeleteProgram(p.program)
}

// DrawFixed draws a record with the built-in program, lit by the first of
// its lights.
func (b *Backend) DrawFixed(g *drawlist.Geometry, batch int, rec *drawlist.DrawRecord, lights []lighting.Light) {
	if !b.ensureBound(g) {
		return
	}
	p := b.fixed
	gl.UseProgram(p.program)

	model := b.model()
	gl.UniformMatrix4fv(p.locModel, 1, false, model.Ptr())
	gl.UniformMatrix4fv(p.locView, 1, false, b.view.Ptr())
	gl.UniformMatrix4fv(p.locProj, 1, false, b.proj.Ptr())
	if b.clipOn {
		gl.Uniform4f(p.locClip, b.clip[0], b.clip[1], b.clip[2], b.clip[3])
	} else {
		gl.Uniform4f(p.locClip, 0, 0, 0, 1)
	}

	textured := rec.Flags.Has(shader.FlagDiffuseMap) && rec.Textures[drawlist.SlotBase] != drawlist.NoTexture
	gl.Uniform1i(p.locTexture, int32(drawlist.SlotBase))
	gl.Uniform1i(p.locTextured, boolInt(textured))
	gl.Uniform1f(p.locAlpha, rec.Alpha)
	gl.Uniform1i(p.locCenter, boolInt(b.center != 0))

	if len(lights) > 0 {
		l := lights[0]
		dir := l.Direction
		if l.Kind != lighting.Directional {
			dir = l.Position.Sub(rec.Transform.Origin)
		}
		dir = dir.Normalize()
		c := l.Color.Scale(l.Intensity * rec.LightFactor)
		gl.Uniform1i(p.locLit, 1)
		gl.Uniform3f(p.locLightDir, dir.X, dir.Y, dir.Z)
		gl.Uniform3f(p.locLightColor, c.X, c.Y, c.Z)
	} else {
		gl.Uniform1i(p.locLit, 0)
	}

	if b.fog.Mode == drawlist.FogLinear {
		gl.Uniform1i(p.locFog, 1)
		gl.Uniform3f(p.locFogColor, float32(b.fog.R)/255, float32(b.fog.G)/255, float32(b.fog.B)/255)
		gl.Uniform2f(p.locFogRange, b.fog.Near, b.fog.Far)
	} else {
		gl.Uniform1i(p.locFog, 0)
	}

	drawBatch(g.Batches[batch])
	gl.UseProgram(0)
}

func boolInt(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

// arcVertex is one corner of an arc quad.
type arcVertex struct {
	Position [3]float32
	Color    [4]float32
}

// arcRenderer draws arcs as camera-facing quads: a wide secondary glow
// under a narrow primary core.
type arcRenderer struct {
	program     uint32
	locViewProj int32
	vao, vbo    uint32
	verts       [8]arcVertex
}

func newArcRenderer() (*arcRenderer, error) {
	prog, err := CompileProgram(glslVersion+shaders.ArcVertexShader, glslVersion+shaders.ArcFragmentShader)
	if err != nil {
		return nil, err
	}
	r := &arcRenderer{program: prog, locViewProj: uniformLocation(prog, "uViewProj")}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	size := int(unsafe.Sizeof(arcVertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(r.verts)*size, nil, gl.STREAM_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(size), 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, int32(size), 3*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
	return r, nil
}

func (r *arcRenderer) destroy() {
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteProgram(r.program)
}

// DrawArc draws one arc with additive blending on top of the scene.
func (b *Backend) DrawArc(a drawlist.Arc) {
	r := b.arc
	dir := a.End.Sub(a.Start)
	side := dir.Cross(b.eye.Sub(a.Start)).Normalize()
	if side.Length() == 0 {
		return
	}

	quad := func(base int, width float32, c drawlist.Color) {
		off := side.Scale(width * 0.5)
		col := [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
		for i, p := range [4]math.Vec3{a.Start.Sub(off), a.Start.Add(off), a.End.Sub(off), a.End.Add(off)} {
			r.verts[base+i] = arcVertex{Position: [3]float32{p.X, p.Y, p.Z}, Color: col}
		}
	}
	quad(0, a.Width, a.Secondary)
	quad(4, a.Width*0.4, a.Primary)

	gl.UseProgram(r.program)
	vp := b.proj.Mul(b.view)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, vp.Ptr())

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	gl.DepthMask(false)

	gl.BindVertexArray(r.vao)
	b.boundMesh = -1
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.verts)*int(unsafe.Sizeof(arcVertex{})), unsafe.Pointer(&r.verts[0]))
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 4, 4)
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.UseProgram(0)
}
