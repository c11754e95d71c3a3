package gpu_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/globe/internal/engine/gpu"
	"github.com/Faultbox/globe/internal/engine/gpu/gputest"
)

const (
	vertexSrc = `in vec3 position;
uniform mat4 modelMatrix;
void main() { gl_Position = modelMatrix * vec4(position, 1.0); }`
	fragmentSrc = `out vec4 color;
void main() { color = vec4(1.0); }`
	brokenSrc = `void main() { INVALID }`
)

func assertNoLeaks(t *testing.T, ctx *gputest.Context) {
	t.Helper()
	assert.Empty(t, ctx.Leaks(), "resources created but never released")
	assert.Zero(t, ctx.InvalidDeletes(), "resources released more than once")
}

func TestCompileShader(t *testing.T) {
	ctx := gputest.New()

	s, err := gpu.CompileShader(ctx, vertexSrc, gpu.VertexStage)
	require.NoError(t, err)
	assert.NotZero(t, s.ID())
	assert.Equal(t, gpu.VertexStage, s.Stage())
	assert.True(t, ctx.IsLive(gputest.KindShader, s.ID()))

	s.Release(ctx)
	assert.True(t, s.Released())
	assertNoLeaks(t, ctx)
}

func TestCompileShaderFailure(t *testing.T) {
	ctx := gputest.New()

	_, err := gpu.CompileShader(ctx, brokenSrc, gpu.FragmentStage)
	require.Error(t, err)

	var ce *gpu.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, gpu.CompileFailed, ce.Kind)
	assert.Equal(t, gpu.FragmentStage, ce.Stage)
	assert.NotEmpty(t, ce.Log)
	assert.Contains(t, err.Error(), ce.Log)

	// the failed stage was freed
	assert.Equal(t, 1, ctx.Created(gputest.KindShader))
	assertNoLeaks(t, ctx)
}

func TestCompileShaderEncoding(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   gpu.CompileErrorKind
		err    error
	}{
		{"embedded nul", "void main() {}\x00junk", gpu.EmbeddedNUL, gpu.ErrEmbeddedNUL},
		{"invalid utf8", "void main() {}\xff", gpu.InvalidEncoding, gpu.ErrInvalidEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := gputest.New()
			_, err := gpu.CompileShader(ctx, tt.source, gpu.VertexStage)

			var ce *gpu.CompileError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.kind, ce.Kind)
			assert.ErrorIs(t, err, tt.err)
			assert.Zero(t, ctx.Created(gputest.KindShader), "backend must not be called")
		})
	}
}

func TestCompileShaderFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "globe.vert")
	require.NoError(t, os.WriteFile(path, []byte(vertexSrc), 0644))

	ctx := gputest.New()
	s, err := gpu.CompileShaderFile(ctx, path, "#version 410", gpu.VertexStage)
	require.NoError(t, err)
	defer s.Release(ctx)

	_, err = gpu.CompileShaderFile(ctx, filepath.Join(dir, "missing.vert"), "", gpu.VertexStage)
	var ce *gpu.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, gpu.SourceUnreadable, ce.Kind)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, ce.Path, "missing.vert")
}

func TestVersioned(t *testing.T) {
	assert.Equal(t, "#version 300 es\nvoid main() {}", gpu.Versioned("#version 300 es", "void main() {}"))
	assert.Equal(t, "void main() {}", gpu.Versioned("", "void main() {}"))
}

func TestNewProgramFromSources(t *testing.T) {
	ctx := gputest.New()

	p, err := gpu.NewProgramFromSources(ctx, "#version 410", vertexSrc, fragmentSrc)
	require.NoError(t, err)

	// stages never outlive the link step
	assert.Equal(t, 2, ctx.Created(gputest.KindShader))
	assert.Zero(t, ctx.Live(gputest.KindShader))
	assert.True(t, ctx.IsLive(gputest.KindProgram, p.ID()))

	require.NoError(t, p.Use(ctx))
	assert.Equal(t, p.ID(), ctx.CurrentProgram)

	p.Release(ctx)
	assertNoLeaks(t, ctx)
}

func TestNewProgramFromSourcesReleasesStagesOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		vertex   string
		fragment string
		failLink bool
		stages   int
	}{
		{"vertex compile", brokenSrc, fragmentSrc, false, 1},
		{"fragment compile", vertexSrc, brokenSrc, false, 2},
		{"link", vertexSrc, fragmentSrc, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := gputest.New()
			ctx.FailLink = tt.failLink

			p, err := gpu.NewProgramFromSources(ctx, "", tt.vertex, tt.fragment)
			require.Error(t, err)
			assert.Nil(t, p)

			var le *gpu.LinkError
			require.True(t, errors.As(err, &le))
			if tt.failLink {
				assert.Equal(t, ctx.LinkLog, le.Log)
			} else {
				var ce *gpu.CompileError
				assert.True(t, errors.As(err, &ce))
			}

			assert.Equal(t, tt.stages, ctx.Created(gputest.KindShader))
			assertNoLeaks(t, ctx)
		})
	}
}

func TestLinkProgramReleasedStage(t *testing.T) {
	ctx := gputest.New()
	vs, err := gpu.CompileShader(ctx, vertexSrc, gpu.VertexStage)
	require.NoError(t, err)
	fs, err := gpu.CompileShader(ctx, fragmentSrc, gpu.FragmentStage)
	require.NoError(t, err)
	defer fs.Release(ctx)

	vs.Release(ctx)
	_, err = gpu.LinkProgram(ctx, vs, fs)
	assert.ErrorIs(t, err, gpu.ErrReleased)
	assert.Zero(t, ctx.Created(gputest.KindProgram))
}

func TestNewProgramFromFiles(t *testing.T) {
	dir := t.TempDir()
	vpath := filepath.Join(dir, "a.vert")
	fpath := filepath.Join(dir, "a.frag")
	require.NoError(t, os.WriteFile(vpath, []byte(vertexSrc), 0644))
	require.NoError(t, os.WriteFile(fpath, []byte(fragmentSrc), 0644))

	ctx := gputest.New()
	p, err := gpu.NewProgramFromFiles(ctx, "#version 410", vpath, fpath)
	require.NoError(t, err)
	p.Release(ctx)

	_, err = gpu.NewProgramFromFiles(ctx, "#version 410", vpath, filepath.Join(dir, "nope.frag"))
	var ce *gpu.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, gpu.SourceUnreadable, ce.Kind)
	assertNoLeaks(t, ctx)
}

func TestBufferUpload(t *testing.T) {
	ctx := gputest.New()

	b, err := gpu.NewBuffer(ctx, gpu.DynamicDraw)
	require.NoError(t, err)
	assert.Zero(t, b.Len())

	data := []float32{0, 1, 2, 3, 4, 5}
	require.NoError(t, b.Upload(ctx, data))

	assert.Equal(t, 6, b.Len())
	assert.Equal(t, 2, b.VertexCount())
	assert.Equal(t, b.ID(), ctx.BoundBuffer)

	up, ok := ctx.LastUpload(b.ID())
	require.True(t, ok)
	assert.Equal(t, data, up.Data)
	assert.Equal(t, gpu.DynamicDraw, up.Usage)

	// empty uploads clear the tracked count
	require.NoError(t, b.Upload(ctx, nil))
	assert.Zero(t, b.VertexCount())

	b.Release(ctx)
	assertNoLeaks(t, ctx)
}

func TestUseAfterRelease(t *testing.T) {
	ctx := gputest.New()

	b, err := gpu.NewBuffer(ctx, gpu.StaticDraw)
	require.NoError(t, err)
	v, err := gpu.NewVertexArray(ctx)
	require.NoError(t, err)
	p, err := gpu.NewProgramFromSources(ctx, "", vertexSrc, fragmentSrc)
	require.NoError(t, err)

	b.Release(ctx)
	v.Release(ctx)
	p.Release(ctx)

	assert.ErrorIs(t, b.Upload(ctx, []float32{1, 2, 3}), gpu.ErrReleased)
	assert.ErrorIs(t, b.Bind(ctx), gpu.ErrReleased)
	assert.ErrorIs(t, v.Bind(ctx), gpu.ErrReleased)
	assert.ErrorIs(t, p.Use(ctx), gpu.ErrReleased)

	// a second release never reaches the backend
	b.Release(ctx)
	v.Release(ctx)
	p.Release(ctx)
	assertNoLeaks(t, ctx)
	assert.Len(t, ctx.Uploads, 0)
}

func TestBindAttribute(t *testing.T) {
	ctx := gputest.New()
	p, err := gpu.NewProgramFromSources(ctx, "", vertexSrc, fragmentSrc)
	require.NoError(t, err)
	defer p.Release(ctx)
	b, err := gpu.NewBuffer(ctx, gpu.StaticDraw)
	require.NoError(t, err)
	defer b.Release(ctx)
	v, err := gpu.NewVertexArray(ctx)
	require.NoError(t, err)
	defer v.Release(ctx)

	require.NoError(t, b.Bind(ctx))
	require.NoError(t, v.BindAttribute(ctx, p, "position", 3, 6, 3))

	require.Len(t, ctx.Pointers, 1)
	ptr := ctx.Pointers[0]
	assert.Equal(t, int32(3), ptr.Size)
	assert.Equal(t, int32(6*gpu.FloatSize), ptr.Stride)
	assert.Equal(t, 3*gpu.FloatSize, ptr.Offset)
	assert.Equal(t, b.ID(), ptr.Buffer)
	assert.Equal(t, v.ID(), ptr.VAO)
	assert.Equal(t, []uint32{ptr.Location}, ctx.EnabledAttribs)
}

func TestBindAttributeMissing(t *testing.T) {
	ctx := gputest.New()
	p, err := gpu.NewProgramFromSources(ctx, "", vertexSrc, fragmentSrc)
	require.NoError(t, err)
	defer p.Release(ctx)
	v, err := gpu.NewVertexArray(ctx)
	require.NoError(t, err)
	defer v.Release(ctx)

	err = v.BindAttribute(ctx, p, "normal", 3, 3, 0)
	assert.ErrorIs(t, err, gpu.ErrLocationNotFound)

	var le *gpu.LocationError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, gpu.AttributeLocation, le.Kind)
	assert.Equal(t, "normal", le.Name)
	assert.Empty(t, ctx.Pointers)

	err = v.BindAttribute(ctx, p, "pos\x00ition", 3, 3, 0)
	assert.ErrorIs(t, err, gpu.ErrEmbeddedNUL)
}

func TestUniformMatrix(t *testing.T) {
	ctx := gputest.New()
	a, err := gpu.NewProgramFromSources(ctx, "", vertexSrc, fragmentSrc)
	require.NoError(t, err)
	defer a.Release(ctx)
	b, err := gpu.NewProgramFromSources(ctx, "", vertexSrc, fragmentSrc)
	require.NoError(t, err)
	defer b.Release(ctx)

	u, err := gpu.BindUniformMatrix(ctx, "modelMatrix", mgl32.Ident4(), a, b)
	require.NoError(t, err)
	assert.Equal(t, "modelMatrix", u.Name())

	m := mgl32.Translate3D(1, 2, 3)
	u.Set(m)
	assert.Equal(t, m, u.Value())
	require.NoError(t, u.Apply(ctx, a, b))

	for _, p := range []*gpu.Program{a, b} {
		got, ok := ctx.UniformValue(p.ID(), "modelMatrix")
		require.True(t, ok)
		assert.Equal(t, [16]float32(m), got)
	}
}

func TestUniformMatrixMissing(t *testing.T) {
	ctx := gputest.New()
	p, err := gpu.NewProgramFromSources(ctx, "", vertexSrc, fragmentSrc)
	require.NoError(t, err)
	defer p.Release(ctx)

	_, err = gpu.BindUniformMatrix(ctx, "projMatrix", mgl32.Ident4(), p)
	var le *gpu.LocationError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, gpu.UniformLocation, le.Kind)
	assert.ErrorIs(t, err, gpu.ErrLocationNotFound)

	// a slot bound to no program fails on the first Apply instead
	u, err := gpu.BindUniformMatrix(ctx, "projMatrix", mgl32.Ident4())
	require.NoError(t, err)
	assert.ErrorIs(t, u.Apply(ctx, p), gpu.ErrLocationNotFound)
}

func TestUniformApplyReleasedProgram(t *testing.T) {
	ctx := gputest.New()
	p, err := gpu.NewProgramFromSources(ctx, "", vertexSrc, fragmentSrc)
	require.NoError(t, err)

	u, err := gpu.BindUniformMatrix(ctx, "modelMatrix", mgl32.Ident4(), p)
	require.NoError(t, err)

	p.Release(ctx)
	assert.ErrorIs(t, u.Apply(ctx, p), gpu.ErrReleased)
}

func TestCleanup(t *testing.T) {
	ctx := gputest.New()

	build := func(fail bool) error {
		cl := gpu.NewCleanup(ctx)
		defer cl.Run()

		b, err := gpu.NewBuffer(ctx, gpu.StaticDraw)
		if err != nil {
			return err
		}
		cl.Add(b)

		v, err := gpu.NewVertexArray(ctx)
		if err != nil {
			return err
		}
		cl.Add(v)

		if fail {
			return errors.New("late failure")
		}
		cl.Keep()
		return nil
	}

	require.Error(t, build(true))
	assertNoLeaks(t, ctx)

	require.NoError(t, build(false))
	assert.Equal(t, 1, ctx.Live(gputest.KindBuffer))
	assert.Equal(t, 1, ctx.Live(gputest.KindVertexArray))
}

func TestCreateFailure(t *testing.T) {
	ctx := gputest.New()
	ctx.FailCreate[gputest.KindProgram] = true

	_, err := gpu.NewProgramFromSources(ctx, "", vertexSrc, fragmentSrc)
	var le *gpu.LinkError
	require.True(t, errors.As(err, &le))
	assertNoLeaks(t, ctx)
}
