package gpu

// handle is the backend identifier shared by every resource type.
type handle struct {
	id       uint32
	released bool
}

// ID returns the backend identifier. It is meaningless after Release.
func (h *handle) ID() uint32 { return h.id }

// Released reports whether Release has been called.
func (h *handle) Released() bool { return h.released }

func (h *handle) live() error {
	if h.released {
		return ErrReleased
	}
	return nil
}

// take marks the handle released and returns the id to free.
// ok is false when it was already released.
func (h *handle) take() (id uint32, ok bool) {
	if h.released {
		return 0, false
	}
	h.released = true
	id, h.id = h.id, 0
	return id, true
}

// Releaser is implemented by every resource.
type Releaser interface {
	Release(ctx Context)
}

// Cleanup releases resources acquired by a multi-step constructor when it
// fails part way. Add each resource as it is created, defer Run, and call
// Keep once construction succeeds:
//
//	cl := gpu.NewCleanup(ctx)
//	defer cl.Run()
//	buf, err := gpu.NewBuffer(ctx, gpu.StaticDraw)
//	if err != nil {
//		return nil, err
//	}
//	cl.Add(buf)
//	...
//	cl.Keep()
type Cleanup struct {
	ctx   Context
	items []Releaser
	kept  bool
}

// NewCleanup creates an armed cleanup for ctx.
func NewCleanup(ctx Context) *Cleanup {
	return &Cleanup{ctx: ctx}
}

// Add registers r for release.
func (c *Cleanup) Add(r Releaser) {
	c.items = append(c.items, r)
}

// Keep disarms the cleanup; Run becomes a no-op.
func (c *Cleanup) Keep() {
	c.kept = true
}

// Run releases the registered resources in reverse order unless Keep was called.
func (c *Cleanup) Run() {
	if c.kept {
		return
	}
	for i := len(c.items) - 1; i >= 0; i-- {
		c.items[i].Release(c.ctx)
	}
	c.items = nil
}
