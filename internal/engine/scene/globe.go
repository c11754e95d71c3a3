package scene

import (
	"fmt"

	"github.com/Faultbox/globe/internal/engine/gpu"
	"github.com/Faultbox/globe/internal/engine/shader"
	"github.com/Faultbox/globe/internal/mesh"
)

// PositionAttribute is the vertex attribute every scene program reads.
const PositionAttribute = "position"

// ProgramOptions selects where program sources come from.
type ProgramOptions struct {
	// Version is the directive prefixed to every source, e.g. shader.VersionCore.
	Version string
	// ShaderDir loads <name>.vert and <name>.frag from disk when set;
	// the embedded sources are used otherwise.
	ShaderDir string
}

func newProgram(ctx gpu.Context, src shader.Source, opts ProgramOptions) (*gpu.Program, error) {
	if opts.ShaderDir != "" {
		vpath, fpath := src.Files(opts.ShaderDir)
		return gpu.NewProgramFromFiles(ctx, opts.Version, vpath, fpath)
	}
	return gpu.NewProgramFromSources(ctx, opts.Version, src.Vertex, src.Fragment)
}

// GlobeOptions configures NewGlobe.
type GlobeOptions struct {
	ProgramOptions
	Iterations int
	// Animated uploads with a dynamic usage hint since Draw re-uploads the
	// pulsed mesh every frame.
	Animated bool
}

// Globe is the icosphere mesh with its program and vertex layout.
type Globe struct {
	program *gpu.Program
	buffer  *gpu.Buffer
	vao     *gpu.VertexArray

	base    []float32
	scratch []float32
}

// NewGlobe generates the mesh once and uploads it.
func NewGlobe(ctx gpu.Context, opts GlobeOptions) (*Globe, error) {
	cl := gpu.NewCleanup(ctx)
	defer cl.Run()

	program, err := newProgram(ctx, shader.Globe(), opts.ProgramOptions)
	if err != nil {
		return nil, fmt.Errorf("globe: %w", err)
	}
	cl.Add(program)

	usage := gpu.StaticDraw
	if opts.Animated {
		usage = gpu.DynamicDraw
	}
	buffer, err := gpu.NewBuffer(ctx, usage)
	if err != nil {
		return nil, fmt.Errorf("globe: buffer: %w", err)
	}
	cl.Add(buffer)

	vao, err := gpu.NewVertexArray(ctx)
	if err != nil {
		return nil, fmt.Errorf("globe: vertex array: %w", err)
	}
	cl.Add(vao)

	data := mesh.Generate(opts.Iterations)
	if err := buffer.Upload(ctx, data); err != nil {
		return nil, fmt.Errorf("globe: upload: %w", err)
	}
	if err := vao.BindAttribute(ctx, program, PositionAttribute, 3, 3, 0); err != nil {
		return nil, fmt.Errorf("globe: %w", err)
	}

	cl.Keep()
	return &Globe{
		program: program,
		buffer:  buffer,
		vao:     vao,
		base:    data,
	}, nil
}

// Program returns the globe's shader program.
func (g *Globe) Program() *gpu.Program { return g.program }

// VertexCount returns the number of vertices drawn per frame.
func (g *Globe) VertexCount() int { return g.buffer.VertexCount() }

// Draw binds the globe state and draws its triangles. When pulse is non-nil
// the mesh is scaled by the next pulse value and re-uploaded first.
func (g *Globe) Draw(ctx gpu.Context, pulse *Pulse) error {
	if err := g.program.Use(ctx); err != nil {
		return err
	}
	if pulse != nil {
		g.scratch = mesh.Scale(g.scratch, g.base, pulse.Advance())
		if err := g.buffer.Upload(ctx, g.scratch); err != nil {
			return err
		}
	} else if err := g.buffer.Bind(ctx); err != nil {
		return err
	}
	if err := g.vao.Bind(ctx); err != nil {
		return err
	}

	ctx.DrawArrays(gpu.Triangles, 0, int32(g.buffer.VertexCount()))
	return nil
}

// Release frees the program, buffer and vertex array.
func (g *Globe) Release(ctx gpu.Context) {
	g.vao.Release(ctx)
	g.buffer.Release(ctx)
	g.program.Release(ctx)
}
