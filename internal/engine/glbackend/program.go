// Package glbackend draws the draw list with OpenGL 4.1 core.
package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/drawqueue/internal/engine/glbackend/shaders"
	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/internal/logger"
)

const glslVersion = "#version 410 core\n"

// Compiler builds variant programs from the embedded variant sources.
// It implements shader.Compiler.
type Compiler struct {
	vertexSrc   string
	fragmentSrc string
	programs    []uint32
}

// NewCompiler returns a compiler for the built-in variant sources.
func NewCompiler() *Compiler {
	return &Compiler{
		vertexSrc:   shaders.VariantVertexShader,
		fragmentSrc: shaders.VariantFragmentShader,
	}
}

// Compile links the variant for flags. defines is inserted after the
// version line of both stages.
func (c *Compiler) Compile(flags shader.Flags, defines string) (shader.Handle, error) {
	header := glslVersion + defines + "#line 1\n"
	prog, err := CompileProgram(header+c.vertexSrc, header+c.fragmentSrc)
	if err != nil {
		logger.Debug("variant compile failed",
			zap.Stringer("flags", flags),
			zap.Int("define_lines", strings.Count(defines, "\n")))
		return 0, fmt.Errorf("variant %s: %w", flags, err)
	}
	c.programs = append(c.programs, prog)

	// The driver drops uniforms a variant never reads.
	if unused := inactiveUniforms(flags, func(name string) bool {
		return uniformLocation(prog, name) >= 0
	}); len(unused) > 0 {
		logger.Debug("variant has inactive feature uniforms",
			zap.Stringer("flags", flags),
			zap.Strings("uniforms", unused))
	}
	return shader.Handle(prog), nil
}

// inactiveUniforms lists the feature uniforms of flags that active rejects.
func inactiveUniforms(flags shader.Flags, active func(string) bool) []string {
	var unused []string
	for _, name := range shader.UniformNames(flags) {
		if !active(name) {
			unused = append(unused, name)
		}
	}
	return unused
}

// Destroy deletes every program the compiler linked.
func (c *Compiler) Destroy() {
	for _, p := range c.programs {
		gl.DeleteProgram(p)
	}
	c.programs = nil
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", msg)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(sh, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%s shader: %s", name, msg)
	}
	return sh, nil
}

func infoLog(obj uint32, getiv func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var n int32
	getiv(obj, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return "no info log"
	}
	buf := make([]byte, n)
	getLog(obj, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

// uniformLocation looks up a uniform. It returns -1 for names the program
// does not use.
func uniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
