package glbackend

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/internal/engine/uniform"
)

// Uploader sends cached uniform values to the bound program. It
// implements uniform.Uploader.
type Uploader struct{}

// UniformLocation returns the location of name in program, -1 if unused.
func (Uploader) UniformLocation(program shader.Handle, name string) int32 {
	return uniformLocation(uint32(program), name)
}

// Upload writes v at loc of the bound program.
func (Uploader) Upload(loc int32, v uniform.Value) {
	n := int32(v.Count())
	if n == 0 {
		return
	}
	switch v.Kind {
	case uniform.Int, uniform.IntArray:
		gl.Uniform1iv(loc, n, &v.Ints[0])
	case uniform.Float, uniform.FloatArray:
		gl.Uniform1fv(loc, n, &v.Floats[0])
	case uniform.Vec2:
		gl.Uniform2fv(loc, n, &v.Floats[0])
	case uniform.Vec3, uniform.Vec3Array:
		gl.Uniform3fv(loc, n, &v.Floats[0])
	case uniform.Vec4:
		gl.Uniform4fv(loc, n, &v.Floats[0])
	case uniform.Mat4, uniform.Mat4Array:
		gl.UniformMatrix4fv(loc, n, false, &v.Floats[0])
	}
}
