package gpu

import (
	"os"
)

// Shader is a compiled shader stage. Stages are intermediate: they are only
// needed until the program they belong to has been linked.
type Shader struct {
	handle
	stage Stage
}

// Stage returns the pipeline stage of the shader.
func (s *Shader) Stage() Stage { return s.stage }

// Versioned prefixes src with a backend version directive such as
// "#version 410". An empty version returns src unchanged.
func Versioned(version, src string) string {
	if version == "" {
		return src
	}
	return version + "\n" + src
}

// CompileShader compiles source for the given stage.
// Backend failures return a *CompileError with Kind CompileFailed and the
// backend log; nothing is left allocated on error.
func CompileShader(ctx Context, source string, stage Stage) (*Shader, error) {
	if err := checkCString(source); err != nil {
		kind := InvalidEncoding
		if err == ErrEmbeddedNUL {
			kind = EmbeddedNUL
		}
		return nil, &CompileError{Kind: kind, Stage: stage, Err: err}
	}

	id, err := ctx.CreateShader(stage)
	if err != nil {
		return nil, &CompileError{Kind: CompileFailed, Stage: stage, Err: err}
	}

	ctx.ShaderSource(id, source)
	ok, log := ctx.CompileShader(id)
	if !ok {
		ctx.DeleteShader(id)
		return nil, &CompileError{Kind: CompileFailed, Stage: stage, Log: log}
	}

	return &Shader{handle: handle{id: id}, stage: stage}, nil
}

// CompileShaderFile reads path, prefixes version and compiles it.
func CompileShaderFile(ctx Context, path, version string, stage Stage) (*Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CompileError{Kind: SourceUnreadable, Stage: stage, Path: path, Err: err}
	}

	s, err := CompileShader(ctx, Versioned(version, string(data)), stage)
	if err != nil {
		if ce, ok := err.(*CompileError); ok {
			ce.Path = path
		}
		return nil, err
	}
	return s, nil
}

// Release frees the stage. Safe to call more than once.
func (s *Shader) Release(ctx Context) {
	if id, ok := s.take(); ok {
		ctx.DeleteShader(id)
	}
}
