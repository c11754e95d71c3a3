package gpu

import "fmt"

// VertexArray records the attribute layout of the bound buffer.
type VertexArray struct {
	handle
}

// NewVertexArray creates an empty vertex layout object.
func NewVertexArray(ctx Context) (*VertexArray, error) {
	id, err := ctx.CreateVertexArray()
	if err != nil {
		return nil, err
	}
	return &VertexArray{handle: handle{id: id}}, nil
}

// Bind makes v the current vertex layout.
func (v *VertexArray) Bind(ctx Context) error {
	if err := v.live(); err != nil {
		return err
	}
	ctx.BindVertexArray(v.id)
	return nil
}

// BindAttribute points the named attribute of program at the currently bound
// buffer. size, stride and offset are in float elements, not bytes.
func (v *VertexArray) BindAttribute(ctx Context, program *Program, name string, size, stride, offset int) error {
	if err := program.live(); err != nil {
		return err
	}
	if err := checkCString(name); err != nil {
		return fmt.Errorf("attribute %q: %w", name, err)
	}
	if err := v.Bind(ctx); err != nil {
		return err
	}

	loc, found := ctx.AttribLocation(program.id, name)
	if !found {
		return &LocationError{Kind: AttributeLocation, Name: name, Program: program.id}
	}

	ctx.VertexAttribPointer(loc, int32(size), int32(stride*FloatSize), offset*FloatSize)
	ctx.EnableVertexAttribArray(loc)
	return nil
}

// Release frees the vertex array. Safe to call more than once.
func (v *VertexArray) Release(ctx Context) {
	if id, ok := v.take(); ok {
		ctx.DeleteVertexArray(id)
	}
}
