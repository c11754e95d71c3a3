// Package renderer implements gpu.Context on OpenGL 4.1 core.
package renderer

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/engine/gpu"
	"github.com/Faultbox/globe/internal/logger"
)

// Info describes the driver behind the current context.
type Info struct {
	Version  string
	Renderer string
	Vendor   string
	GLSL     string
}

// GL is the OpenGL graphics context. All methods must be called on the
// thread that owns the GL context.
type GL struct {
	info Info
	log  *zap.Logger
}

// New loads the GL function pointers for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created and made current!
func New() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &GL{
		info: Info{
			Version:  gl.GoStr(gl.GetString(gl.VERSION)),
			Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
			Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
			GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
		},
		log: logger.Named("gl"),
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", r.info.Version),
		zap.String("renderer", r.info.Renderer),
		zap.String("vendor", r.info.Vendor),
		zap.String("glsl", r.info.GLSL),
	)
	return r, nil
}

// Info returns the driver strings read at initialization.
func (r *GL) Info() Info { return r.info }

var errZeroHandle = errors.New("driver returned a zero handle")

func stageEnum(stage gpu.Stage) uint32 {
	if stage == gpu.FragmentStage {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func usageEnum(usage gpu.Usage) uint32 {
	if usage == gpu.DynamicDraw {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func primitiveEnum(p gpu.Primitive) uint32 {
	if p == gpu.Points {
		return gl.POINTS
	}
	return gl.TRIANGLES
}

func capabilityEnum(c gpu.Capability) uint32 {
	if c == gpu.ProgramPointSize {
		return gl.PROGRAM_POINT_SIZE
	}
	return gl.DEPTH_TEST
}

// cstr returns a NUL-terminated copy of s for the C calls.
func cstr(s string) *uint8 {
	return gl.Str(s + "\x00")
}

func (r *GL) CreateShader(stage gpu.Stage) (uint32, error) {
	id := gl.CreateShader(stageEnum(stage))
	if id == 0 {
		return 0, fmt.Errorf("create %s shader: %w", stage, errZeroHandle)
	}
	return id, nil
}

func (r *GL) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (r *GL) CompileShader(shader uint32) (bool, string) {
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status != gl.FALSE {
		return true, ""
	}

	var logLen int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
	return false, infoLog(logLen, func(buf *uint8) {
		gl.GetShaderInfoLog(shader, logLen, nil, buf)
	})
}

func (r *GL) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (r *GL) CreateProgram() (uint32, error) {
	id := gl.CreateProgram()
	if id == 0 {
		return 0, fmt.Errorf("create program: %w", errZeroHandle)
	}
	return id, nil
}

func (r *GL) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (r *GL) LinkProgram(program uint32) (bool, string) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status != gl.FALSE {
		return true, ""
	}

	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	return false, infoLog(logLen, func(buf *uint8) {
		gl.GetProgramInfoLog(program, logLen, nil, buf)
	})
}

func (r *GL) UseProgram(program uint32) { gl.UseProgram(program) }

func (r *GL) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (r *GL) CreateBuffer() (uint32, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("create buffer: %w", errZeroHandle)
	}
	return id, nil
}

func (r *GL) BindBuffer(buffer uint32) { gl.BindBuffer(gl.ARRAY_BUFFER, buffer) }

func (r *GL) BufferData(data []byte, usage gpu.Usage) {
	// gl.Ptr panics on an empty slice.
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data), ptr, usageEnum(usage))
}

func (r *GL) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (r *GL) CreateVertexArray() (uint32, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("create vertex array: %w", errZeroHandle)
	}
	return id, nil
}

func (r *GL) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (r *GL) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (r *GL) AttribLocation(program uint32, name string) (uint32, bool) {
	loc := gl.GetAttribLocation(program, cstr(name))
	if loc < 0 {
		return 0, false
	}
	return uint32(loc), true
}

func (r *GL) VertexAttribPointer(location uint32, size, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, stride, uintptr(offset))
}

func (r *GL) EnableVertexAttribArray(location uint32) { gl.EnableVertexAttribArray(location) }

func (r *GL) UniformLocation(program uint32, name string) (int32, bool) {
	loc := gl.GetUniformLocation(program, cstr(name))
	return loc, loc >= 0
}

func (r *GL) UniformMatrix4(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (r *GL) ClearColor(red, green, blue, alpha float32) { gl.ClearColor(red, green, blue, alpha) }

func (r *GL) Enable(c gpu.Capability) { gl.Enable(capabilityEnum(c)) }

func (r *GL) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
	r.log.Debug("viewport resized",
		zap.Int32("width", width),
		zap.Int32("height", height),
	)
}

func (r *GL) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }

func (r *GL) DrawArrays(mode gpu.Primitive, first, count int32) {
	gl.DrawArrays(primitiveEnum(mode), first, count)
}

// infoLog reads a driver log of logLen bytes (including the terminator).
func infoLog(logLen int32, read func(buf *uint8)) string {
	if logLen <= 0 {
		return "(no log)"
	}
	buf := make([]uint8, logLen)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00\r\n ")
}

var _ gpu.Context = (*GL)(nil)
