package scene

import (
	"fmt"

	"github.com/Faultbox/globe/internal/engine/gpu"
	"github.com/Faultbox/globe/internal/engine/shader"
)

// Points is the overlay point cloud. Its buffer starts empty and is
// replaced whenever new data arrives.
type Points struct {
	program *gpu.Program
	buffer  *gpu.Buffer
	vao     *gpu.VertexArray
}

// NewPoints builds the point program and an empty dynamic buffer.
func NewPoints(ctx gpu.Context, opts ProgramOptions) (*Points, error) {
	cl := gpu.NewCleanup(ctx)
	defer cl.Run()

	program, err := newProgram(ctx, shader.Points(), opts)
	if err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}
	cl.Add(program)

	buffer, err := gpu.NewBuffer(ctx, gpu.DynamicDraw)
	if err != nil {
		return nil, fmt.Errorf("points: buffer: %w", err)
	}
	cl.Add(buffer)

	vao, err := gpu.NewVertexArray(ctx)
	if err != nil {
		return nil, fmt.Errorf("points: vertex array: %w", err)
	}
	cl.Add(vao)

	if err := buffer.Bind(ctx); err != nil {
		return nil, err
	}
	if err := vao.BindAttribute(ctx, program, PositionAttribute, 3, 3, 0); err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}

	cl.Keep()
	return &Points{program: program, buffer: buffer, vao: vao}, nil
}

// Program returns the point shader program.
func (p *Points) Program() *gpu.Program { return p.program }

// Len returns the number of floats currently uploaded.
func (p *Points) Len() int { return p.buffer.Len() }

// Draw re-uploads data when it is non-nil and draws the current cloud.
// A nil data keeps the previous upload.
func (p *Points) Draw(ctx gpu.Context, data []float32) error {
	if err := p.program.Use(ctx); err != nil {
		return err
	}
	if err := p.buffer.Bind(ctx); err != nil {
		return err
	}
	if err := p.vao.Bind(ctx); err != nil {
		return err
	}
	if data != nil {
		if err := p.buffer.Upload(ctx, data); err != nil {
			return err
		}
	}

	if n := p.buffer.VertexCount(); n > 0 {
		ctx.DrawArrays(gpu.Points, 0, int32(n))
	}
	return nil
}

// Release frees the program, buffer and vertex array.
func (p *Points) Release(ctx gpu.Context) {
	p.vao.Release(ctx)
	p.buffer.Release(ctx)
	p.program.Release(ctx)
}
