package gpu

// Program is a linked shader program.
type Program struct {
	handle
}

// LinkProgram links a vertex and fragment stage into a program. The stages
// stay owned by the caller. On failure the program handle is freed and a
// *LinkError with the backend log is returned.
func LinkProgram(ctx Context, vertex, fragment *Shader) (*Program, error) {
	if err := vertex.live(); err != nil {
		return nil, &LinkError{Err: err}
	}
	if err := fragment.live(); err != nil {
		return nil, &LinkError{Err: err}
	}

	id, err := ctx.CreateProgram()
	if err != nil {
		return nil, &LinkError{Err: err}
	}

	ctx.AttachShader(id, vertex.id)
	ctx.AttachShader(id, fragment.id)
	ok, log := ctx.LinkProgram(id)
	if !ok {
		ctx.DeleteProgram(id)
		return nil, &LinkError{Log: log}
	}

	return &Program{handle: handle{id: id}}, nil
}

// NewProgramFromSources compiles both stages with the version directive
// prefixed, links them, and releases the stages whatever the outcome.
func NewProgramFromSources(ctx Context, version, vertexSrc, fragmentSrc string) (*Program, error) {
	vs, err := CompileShader(ctx, Versioned(version, vertexSrc), VertexStage)
	if err != nil {
		return nil, &LinkError{Err: err}
	}
	defer vs.Release(ctx)

	fs, err := CompileShader(ctx, Versioned(version, fragmentSrc), FragmentStage)
	if err != nil {
		return nil, &LinkError{Err: err}
	}
	defer fs.Release(ctx)

	return LinkProgram(ctx, vs, fs)
}

// NewProgramFromFiles is NewProgramFromSources for sources on disk.
func NewProgramFromFiles(ctx Context, version, vertexPath, fragmentPath string) (*Program, error) {
	vs, err := CompileShaderFile(ctx, vertexPath, version, VertexStage)
	if err != nil {
		return nil, &LinkError{Err: err}
	}
	defer vs.Release(ctx)

	fs, err := CompileShaderFile(ctx, fragmentPath, version, FragmentStage)
	if err != nil {
		return nil, &LinkError{Err: err}
	}
	defer fs.Release(ctx)

	return LinkProgram(ctx, vs, fs)
}

// Use makes p the current program.
func (p *Program) Use(ctx Context) error {
	if err := p.live(); err != nil {
		return err
	}
	ctx.UseProgram(p.id)
	return nil
}

// Release frees the program. Safe to call more than once.
func (p *Program) Release(ctx Context) {
	if id, ok := p.take(); ok {
		ctx.DeleteProgram(id)
	}
}
