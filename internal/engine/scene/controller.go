package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/globe/internal/engine/camera"
	"github.com/Faultbox/globe/internal/engine/gpu"
	"github.com/Faultbox/globe/internal/engine/input"
)

// Uniform names shared by every scene program.
const (
	ProjUniform  = "projMatrix"
	ViewUniform  = "viewMatrix"
	ModelUniform = "modelMatrix"
)

// DefaultMaxScrollStep bounds a single normalized scroll delta, keeping each
// zoom factor within [0.7, 1.3].
const DefaultMaxScrollStep = 10.0

// Matrices are the three transform uniform slots.
type Matrices struct {
	Proj  *gpu.UniformMatrix
	View  *gpu.UniformMatrix
	Model *gpu.UniformMatrix
}

// ControllerOptions configures NewController.
type ControllerOptions struct {
	Aspect float32
	// LineHeight converts wheel notches to logical pixels.
	LineHeight float64
	// MaxScrollStep clamps each normalized scroll delta. Zero disables it.
	MaxScrollStep float64
	// ScaleFactor is the display pixel density used for pixel scroll deltas.
	ScaleFactor float64
}

// Controller turns pointer and scroll input into transform updates and
// pushes them into every program that shares the uniform names.
type Controller struct {
	mvp      Matrices
	programs []*gpu.Program

	x, y     float64
	dragging bool

	lineHeight  float64
	maxStep     float64
	scaleFactor float64
}

// NewController binds the projection, view and model uniforms in every
// program, starting from the default camera.
func NewController(ctx gpu.Context, opts ControllerOptions, programs ...*gpu.Program) (*Controller, error) {
	proj, err := gpu.BindUniformMatrix(ctx, ProjUniform, camera.DefaultProjection(opts.Aspect), programs...)
	if err != nil {
		return nil, err
	}
	view, err := gpu.BindUniformMatrix(ctx, ViewUniform, camera.DefaultView(), programs...)
	if err != nil {
		return nil, err
	}
	model, err := gpu.BindUniformMatrix(ctx, ModelUniform, camera.DefaultModel(), programs...)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		mvp:         Matrices{Proj: proj, View: view, Model: model},
		programs:    programs,
		lineHeight:  opts.LineHeight,
		maxStep:     opts.MaxScrollStep,
		scaleFactor: opts.ScaleFactor,
	}
	if c.lineHeight <= 0 {
		c.lineHeight = input.DefaultLineHeight
	}
	if c.scaleFactor <= 0 {
		c.scaleFactor = 1
	}
	return c, nil
}

// Matrices returns the uniform slots.
func (c *Controller) Matrices() Matrices { return c.mvp }

// Dragging reports whether the primary button is held.
func (c *Controller) Dragging() bool { return c.dragging }

// SetScaleFactor updates the display density, e.g. after the window moved
// to another monitor.
func (c *Controller) SetScaleFactor(f float64) {
	if f > 0 {
		c.scaleFactor = f
	}
}

// OnPointerButton starts or stops a drag on the primary button.
func (c *Controller) OnPointerButton(button input.Button, pressed bool) {
	if button == input.ButtonPrimary {
		c.dragging = pressed
	}
}

// OnPointerMove rotates the model while dragging. The last position is
// recorded on every move so a drag never starts with a stale delta.
func (c *Controller) OnPointerMove(ctx gpu.Context, x, y float64) error {
	defer func() {
		c.x, c.y = x, y
	}()

	if !c.dragging {
		return nil
	}
	dx, dy := x-c.x, y-c.y
	c.mvp.Model.Set(camera.RotateFromMouse(c.mvp.Model.Value(), dx, dy))
	return c.mvp.Model.Apply(ctx, c.programs...)
}

// OnScroll zooms the view by a scroll delta in either host unit.
func (c *Controller) OnScroll(ctx gpu.Context, delta input.ScrollDelta) error {
	d := delta.Normalized(c.lineHeight, c.scaleFactor)
	if c.maxStep > 0 {
		d = max(-c.maxStep, min(d, c.maxStep))
	}
	if d == 0 {
		return nil
	}
	c.mvp.View.Set(camera.ZoomFromScroll(c.mvp.View.Value(), d))
	return c.mvp.View.Apply(ctx, c.programs...)
}

// OnResize updates the viewport. The projection keeps the aspect ratio it
// was created with.
func (c *Controller) OnResize(ctx gpu.Context, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	ctx.Viewport(int32(width), int32(height))
}

// Apply pushes all three matrices into every program.
func (c *Controller) Apply(ctx gpu.Context) error {
	for _, u := range []*gpu.UniformMatrix{c.mvp.Proj, c.mvp.View, c.mvp.Model} {
		if err := u.Apply(ctx, c.programs...); err != nil {
			return err
		}
	}
	return nil
}

// Model returns the current model matrix.
func (c *Controller) Model() mgl32.Mat4 { return c.mvp.Model.Value() }

// View returns the current view matrix.
func (c *Controller) View() mgl32.Mat4 { return c.mvp.View.Value() }

// Adopt copies the camera and pointer state of prev, e.g. after the scene
// was rebuilt with new shaders. Call Apply to push the matrices.
func (c *Controller) Adopt(prev *Controller) {
	c.mvp.Proj.Set(prev.mvp.Proj.Value())
	c.mvp.View.Set(prev.mvp.View.Value())
	c.mvp.Model.Set(prev.mvp.Model.Value())
	c.x, c.y = prev.x, prev.y
	c.dragging = prev.dragging
	c.scaleFactor = prev.scaleFactor
}
