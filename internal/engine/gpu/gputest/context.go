// Package gputest provides an in-memory gpu.Context for tests.
//
// The fake tracks every handle it issues, so tests can assert that each
// created resource was deleted exactly once. Compilation fails for sources
// containing FailMarker; attributes and uniforms are "found" when their name
// appears in the sources attached to the program at link time.
package gputest

import (
	"fmt"
	"sort"
	"strings"
	"unsafe"

	"github.com/Faultbox/globe/internal/engine/gpu"
)

// FailMarker makes CompileShader fail when present in a shader source.
const FailMarker = "INVALID"

// Kind is a resource kind tracked by the fake.
type Kind string

const (
	KindShader      Kind = "shader"
	KindProgram     Kind = "program"
	KindBuffer      Kind = "buffer"
	KindVertexArray Kind = "vertex array"
)

// DrawCall records one DrawArrays call.
type DrawCall struct {
	Mode    gpu.Primitive
	First   int32
	Count   int32
	Program uint32
	Buffer  uint32
	VAO     uint32
}

// AttribPointer records one VertexAttribPointer call.
type AttribPointer struct {
	Location uint32
	Size     int32
	Stride   int32
	Offset   int
	Buffer   uint32
	VAO      uint32
}

// Upload records one BufferData call.
type Upload struct {
	Buffer uint32
	Usage  gpu.Usage
	Data   []float32
}

type program struct {
	shaders  []uint32
	source   string
	linked   bool
	uniforms map[int32][16]float32
	names    map[string]int32
}

// Context is a fake gpu.Context. The zero value is not usable; call New.
type Context struct {
	// FailCreate makes the Create call for a kind return an error.
	FailCreate map[Kind]bool
	// FailLink makes every LinkProgram report failure.
	FailLink bool
	// LinkLog is the log reported when FailLink is set.
	LinkLog string

	nextID  uint32
	live    map[Kind]map[uint32]bool
	created map[Kind]int
	deleted map[Kind]int
	double  int

	sources  map[uint32]string
	stages   map[uint32]gpu.Stage
	programs map[uint32]*program
	attribs  map[string]uint32

	CurrentProgram uint32
	BoundBuffer    uint32
	BoundVAO       uint32
	ClearColorRGBA [4]float32
	Enabled        map[gpu.Capability]bool
	ViewportSize   [2]int32
	Clears         int

	Uploads        []Upload
	Pointers       []AttribPointer
	EnabledAttribs []uint32
	Draws          []DrawCall
}

// New creates an empty fake context.
func New() *Context {
	c := &Context{
		FailCreate: make(map[Kind]bool),
		LinkLog:    "error: linking failed",
		live:       make(map[Kind]map[uint32]bool),
		created:    make(map[Kind]int),
		deleted:    make(map[Kind]int),
		sources:    make(map[uint32]string),
		stages:     make(map[uint32]gpu.Stage),
		programs:   make(map[uint32]*program),
		attribs:    make(map[string]uint32),
		Enabled:    make(map[gpu.Capability]bool),
	}
	for _, k := range []Kind{KindShader, KindProgram, KindBuffer, KindVertexArray} {
		c.live[k] = make(map[uint32]bool)
	}
	return c
}

func (c *Context) create(k Kind) (uint32, error) {
	if c.FailCreate[k] {
		return 0, fmt.Errorf("gputest: create %s failed", k)
	}
	c.nextID++
	c.live[k][c.nextID] = true
	c.created[k]++
	return c.nextID, nil
}

func (c *Context) delete(k Kind, id uint32) {
	if !c.live[k][id] {
		c.double++
		return
	}
	delete(c.live[k], id)
	c.deleted[k]++
}

// Created returns how many resources of kind k were created.
func (c *Context) Created(k Kind) int { return c.created[k] }

// Deleted returns how many resources of kind k were deleted.
func (c *Context) Deleted(k Kind) int { return c.deleted[k] }

// Live returns how many resources of kind k are still allocated.
func (c *Context) Live(k Kind) int { return len(c.live[k]) }

// IsLive reports whether id of kind k is allocated.
func (c *Context) IsLive(k Kind, id uint32) bool { return c.live[k][id] }

// InvalidDeletes counts deletes of unknown or already deleted handles.
func (c *Context) InvalidDeletes() int { return c.double }

// Leaks describes every resource still allocated, sorted.
func (c *Context) Leaks() []string {
	var out []string
	for k, ids := range c.live {
		for id := range ids {
			out = append(out, fmt.Sprintf("%s %d", k, id))
		}
	}
	sort.Strings(out)
	return out
}

// LastUpload returns the most recent upload to buffer, if any.
func (c *Context) LastUpload(buffer uint32) (Upload, bool) {
	for i := len(c.Uploads) - 1; i >= 0; i-- {
		if c.Uploads[i].Buffer == buffer {
			return c.Uploads[i], true
		}
	}
	return Upload{}, false
}

// UniformValue returns the last matrix pushed to name in program.
func (c *Context) UniformValue(prog uint32, name string) ([16]float32, bool) {
	p, ok := c.programs[prog]
	if !ok {
		return [16]float32{}, false
	}
	loc, ok := p.names[name]
	if !ok {
		return [16]float32{}, false
	}
	m, ok := p.uniforms[loc]
	return m, ok
}

func (c *Context) CreateShader(stage gpu.Stage) (uint32, error) {
	id, err := c.create(KindShader)
	if err != nil {
		return 0, err
	}
	c.stages[id] = stage
	return id, nil
}

func (c *Context) ShaderSource(shader uint32, source string) {
	c.sources[shader] = source
}

func (c *Context) CompileShader(shader uint32) (bool, string) {
	src := c.sources[shader]
	if i := strings.Index(src, FailMarker); i >= 0 {
		line := strings.Count(src[:i], "\n") + 1
		return false, fmt.Sprintf("0:%d(1): error: syntax error, unexpected %s", line, FailMarker)
	}
	return true, ""
}

func (c *Context) DeleteShader(shader uint32) {
	c.delete(KindShader, shader)
	delete(c.sources, shader)
}

func (c *Context) CreateProgram() (uint32, error) {
	id, err := c.create(KindProgram)
	if err != nil {
		return 0, err
	}
	c.programs[id] = &program{
		uniforms: make(map[int32][16]float32),
		names:    make(map[string]int32),
	}
	return id, nil
}

func (c *Context) AttachShader(prog, shader uint32) {
	if p, ok := c.programs[prog]; ok {
		p.shaders = append(p.shaders, shader)
	}
}

func (c *Context) LinkProgram(prog uint32) (bool, string) {
	p, ok := c.programs[prog]
	if !ok {
		return false, "no such program"
	}
	if c.FailLink {
		return false, c.LinkLog
	}
	var b strings.Builder
	for _, s := range p.shaders {
		if !c.live[KindShader][s] {
			return false, fmt.Sprintf("shader %d is not a valid shader", s)
		}
		b.WriteString(c.sources[s])
		b.WriteByte('\n')
	}
	p.source = b.String()
	p.linked = true
	return true, ""
}

func (c *Context) UseProgram(prog uint32) { c.CurrentProgram = prog }

func (c *Context) DeleteProgram(prog uint32) {
	c.delete(KindProgram, prog)
	if c.CurrentProgram == prog {
		c.CurrentProgram = 0
	}
}

func (c *Context) CreateBuffer() (uint32, error) { return c.create(KindBuffer) }

func (c *Context) BindBuffer(buffer uint32) { c.BoundBuffer = buffer }

func (c *Context) BufferData(data []byte, usage gpu.Usage) {
	var floats []float32
	if len(data) > 0 {
		src := unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), len(data)/gpu.FloatSize)
		floats = append([]float32(nil), src...)
	}
	c.Uploads = append(c.Uploads, Upload{Buffer: c.BoundBuffer, Usage: usage, Data: floats})
}

func (c *Context) DeleteBuffer(buffer uint32) {
	c.delete(KindBuffer, buffer)
	if c.BoundBuffer == buffer {
		c.BoundBuffer = 0
	}
}

func (c *Context) CreateVertexArray() (uint32, error) { return c.create(KindVertexArray) }

func (c *Context) BindVertexArray(vao uint32) { c.BoundVAO = vao }

func (c *Context) DeleteVertexArray(vao uint32) {
	c.delete(KindVertexArray, vao)
	if c.BoundVAO == vao {
		c.BoundVAO = 0
	}
}

func (c *Context) AttribLocation(prog uint32, name string) (uint32, bool) {
	p, ok := c.programs[prog]
	if !ok || !p.linked || !strings.Contains(p.source, name) {
		return 0, false
	}
	loc, ok := c.attribs[name]
	if !ok {
		loc = uint32(len(c.attribs))
		c.attribs[name] = loc
	}
	return loc, true
}

func (c *Context) VertexAttribPointer(location uint32, size, stride int32, offset int) {
	c.Pointers = append(c.Pointers, AttribPointer{
		Location: location,
		Size:     size,
		Stride:   stride,
		Offset:   offset,
		Buffer:   c.BoundBuffer,
		VAO:      c.BoundVAO,
	})
}

func (c *Context) EnableVertexAttribArray(location uint32) {
	c.EnabledAttribs = append(c.EnabledAttribs, location)
}

func (c *Context) UniformLocation(prog uint32, name string) (int32, bool) {
	p, ok := c.programs[prog]
	if !ok || !p.linked || !strings.Contains(p.source, name) {
		return -1, false
	}
	loc, ok := p.names[name]
	if !ok {
		loc = int32(len(p.names))
		p.names[name] = loc
	}
	return loc, true
}

func (c *Context) UniformMatrix4(location int32, m [16]float32) {
	if p, ok := c.programs[c.CurrentProgram]; ok {
		p.uniforms[location] = m
	}
}

func (c *Context) ClearColor(r, g, b, a float32) { c.ClearColorRGBA = [4]float32{r, g, b, a} }

func (c *Context) Enable(cp gpu.Capability) { c.Enabled[cp] = true }

func (c *Context) Viewport(width, height int32) { c.ViewportSize = [2]int32{width, height} }

func (c *Context) Clear() { c.Clears++ }

func (c *Context) DrawArrays(mode gpu.Primitive, first, count int32) {
	c.Draws = append(c.Draws, DrawCall{
		Mode:    mode,
		First:   first,
		Count:   count,
		Program: c.CurrentProgram,
		Buffer:  c.BoundBuffer,
		VAO:     c.BoundVAO,
	})
}

var _ gpu.Context = (*Context)(nil)
