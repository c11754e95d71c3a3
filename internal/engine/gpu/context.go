// Package gpu wraps graphics-API resources (shader stages, programs, buffers,
// vertex layouts and matrix uniforms) behind an injected Context.
//
// Every resource is created through a checked constructor and freed by an
// explicit Release call. Release is safe to call more than once; any other
// operation on a released resource returns ErrReleased.
package gpu

// Stage is a shader pipeline stage.
type Stage uint8

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// Usage hints how often buffer contents change.
type Usage uint8

const (
	StaticDraw Usage = iota
	DynamicDraw
)

func (u Usage) String() string {
	if u == DynamicDraw {
		return "dynamic"
	}
	return "static"
}

// Primitive is the topology of a draw call.
type Primitive uint8

const (
	Triangles Primitive = iota
	Points
)

// Capability is a pipeline feature toggled with Context.Enable.
type Capability uint8

const (
	DepthTest Capability = iota
	ProgramPointSize
)

// Context is the graphics backend capability the wrappers are built on.
// Implementations issue opaque handles and report compile/link status with
// the backend's diagnostic log. All calls happen on the thread that owns the
// graphics context.
type Context interface {
	CreateShader(stage Stage) (uint32, error)
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32) (ok bool, log string)
	DeleteShader(shader uint32)

	CreateProgram() (uint32, error)
	AttachShader(program, shader uint32)
	LinkProgram(program uint32) (ok bool, log string)
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	CreateBuffer() (uint32, error)
	BindBuffer(buffer uint32)
	BufferData(data []byte, usage Usage)
	DeleteBuffer(buffer uint32)

	CreateVertexArray() (uint32, error)
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	// AttribLocation reports found=false when the program has no such attribute.
	AttribLocation(program uint32, name string) (location uint32, found bool)
	// VertexAttribPointer takes stride and offset in bytes.
	VertexAttribPointer(location uint32, size, stride int32, offset int)
	EnableVertexAttribArray(location uint32)

	// UniformLocation reports found=false when the program has no such uniform.
	UniformLocation(program uint32, name string) (location int32, found bool)
	// UniformMatrix4 uploads a column-major matrix to the program in use.
	UniformMatrix4(location int32, m [16]float32)

	ClearColor(r, g, b, a float32)
	Enable(c Capability)
	Viewport(width, height int32)
	Clear()
	DrawArrays(mode Primitive, first, count int32)
}
