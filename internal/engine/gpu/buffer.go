package gpu

import "unsafe"

// FloatSize is the byte size of one buffer element.
const FloatSize = int(unsafe.Sizeof(float32(0)))

// Buffer is a vertex data buffer of float32 elements.
type Buffer struct {
	handle
	usage Usage
	n     int
}

// NewBuffer creates an empty buffer with the given usage hint.
func NewBuffer(ctx Context, usage Usage) (*Buffer, error) {
	id, err := ctx.CreateBuffer()
	if err != nil {
		return nil, err
	}
	return &Buffer{handle: handle{id: id}, usage: usage}, nil
}

// Bind makes b the current array buffer.
func (b *Buffer) Bind(ctx Context) error {
	if err := b.live(); err != nil {
		return err
	}
	ctx.BindBuffer(b.id)
	return nil
}

// Upload binds b and replaces its contents with data.
func (b *Buffer) Upload(ctx Context, data []float32) error {
	if err := b.Bind(ctx); err != nil {
		return err
	}
	ctx.BufferData(floatBytes(data), b.usage)
	b.n = len(data)
	return nil
}

// Len returns the number of floats in the most recent upload.
func (b *Buffer) Len() int { return b.n }

// VertexCount returns the number of xyz vertices in the most recent upload.
func (b *Buffer) VertexCount() int { return b.n / 3 }

// Usage returns the buffer's usage hint.
func (b *Buffer) Usage() Usage { return b.usage }

// Release frees the buffer. Safe to call more than once.
func (b *Buffer) Release(ctx Context) {
	if id, ok := b.take(); ok {
		ctx.DeleteBuffer(id)
	}
	b.n = 0
}

// floatBytes reinterprets data as its raw bytes without copying.
func floatBytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*FloatSize)
}
