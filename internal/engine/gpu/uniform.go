package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformMatrix is a named mat4 uniform shared by several programs that
// follow the same naming convention. It holds no backend resource.
type UniformMatrix struct {
	name      string
	value     mgl32.Mat4
	locations map[*Program]int32
}

// BindUniformMatrix creates a uniform slot and checks that every program
// declares it. A missing uniform returns a *LocationError.
func BindUniformMatrix(ctx Context, name string, initial mgl32.Mat4, programs ...*Program) (*UniformMatrix, error) {
	if err := checkCString(name); err != nil {
		return nil, fmt.Errorf("uniform %q: %w", name, err)
	}

	u := &UniformMatrix{
		name:      name,
		value:     initial,
		locations: make(map[*Program]int32, len(programs)),
	}
	for _, p := range programs {
		if _, err := u.location(ctx, p); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Name returns the uniform name.
func (u *UniformMatrix) Name() string { return u.name }

// Value returns the current matrix.
func (u *UniformMatrix) Value() mgl32.Mat4 { return u.value }

// Set replaces the current matrix. Call Apply to push it.
func (u *UniformMatrix) Set(m mgl32.Mat4) { u.value = m }

// Apply pushes the current matrix into each program.
func (u *UniformMatrix) Apply(ctx Context, programs ...*Program) error {
	for _, p := range programs {
		loc, err := u.location(ctx, p)
		if err != nil {
			return err
		}
		ctx.UseProgram(p.id)
		ctx.UniformMatrix4(loc, [16]float32(u.value))
	}
	return nil
}

func (u *UniformMatrix) location(ctx Context, p *Program) (int32, error) {
	if err := p.live(); err != nil {
		return 0, err
	}
	if loc, ok := u.locations[p]; ok {
		return loc, nil
	}
	loc, found := ctx.UniformLocation(p.id, u.name)
	if !found {
		return 0, &LocationError{Kind: UniformLocation, Name: u.name, Program: p.id}
	}
	u.locations[p] = loc
	return loc, nil
}
