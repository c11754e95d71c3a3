// Package scene assembles the globe and the point overlay into a drawable
// scene and routes input to the orbit camera.
package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/engine/gpu"
	"github.com/Faultbox/globe/internal/engine/input"
	"github.com/Faultbox/globe/internal/logger"
	"github.com/Faultbox/globe/internal/mesh"
)

// DefaultIterations is the subdivision depth of the globe mesh.
const DefaultIterations = 4

// Options contains scene configuration.
type Options struct {
	ProgramOptions

	Iterations int
	Animate    bool

	Width  int
	Height int

	ClearColor [4]float32

	LineHeight    float64
	MaxScrollStep float64
	ScaleFactor   float64
}

// DefaultOptions returns the options used by the viewer.
func DefaultOptions() Options {
	return Options{
		Iterations:    DefaultIterations,
		Animate:       true,
		Width:         1000,
		Height:        700,
		ClearColor:    [4]float32{0, 0, 0, 1},
		LineHeight:    input.DefaultLineHeight,
		MaxScrollStep: DefaultMaxScrollStep,
		ScaleFactor:   1,
	}
}

// Scene owns the globe, the point overlay and the camera controller.
type Scene struct {
	opts Options
	log  *zap.Logger

	globe      *Globe
	points     *Points
	controller *Controller
	pulse      *Pulse
}

// New builds every scene resource. On error nothing stays allocated.
func New(ctx gpu.Context, opts Options) (*Scene, error) {
	cl := gpu.NewCleanup(ctx)
	defer cl.Run()

	globe, err := NewGlobe(ctx, GlobeOptions{
		ProgramOptions: opts.ProgramOptions,
		Iterations:     opts.Iterations,
		Animated:       opts.Animate,
	})
	if err != nil {
		return nil, err
	}
	cl.Add(globe)

	points, err := NewPoints(ctx, opts.ProgramOptions)
	if err != nil {
		return nil, err
	}
	cl.Add(points)

	aspect := float32(1)
	if opts.Width > 0 && opts.Height > 0 {
		aspect = float32(opts.Width) / float32(opts.Height)
	}
	controller, err := NewController(ctx, ControllerOptions{
		Aspect:        aspect,
		LineHeight:    opts.LineHeight,
		MaxScrollStep: opts.MaxScrollStep,
		ScaleFactor:   opts.ScaleFactor,
	}, points.Program(), globe.Program())
	if err != nil {
		return nil, err
	}

	s := &Scene{
		opts:       opts,
		log:        logger.Named("scene"),
		globe:      globe,
		points:     points,
		controller: controller,
	}
	if opts.Animate {
		s.pulse = NewPulse()
	}

	s.log.Info("scene created",
		zap.Int("iterations", opts.Iterations),
		zap.Int("triangles", mesh.TriangleCount(opts.Iterations)),
		zap.Bool("animate", opts.Animate),
		zap.String("shader_dir", opts.ShaderDir),
	)

	cl.Keep()
	return s, nil
}

// Controller returns the interaction controller.
func (s *Scene) Controller() *Controller { return s.controller }

// Globe returns the globe drawable.
func (s *Scene) Globe() *Globe { return s.globe }

// Points returns the point overlay drawable.
func (s *Scene) Points() *Points { return s.points }

// Setup sets the fixed GL state and pushes the initial matrices.
func (s *Scene) Setup(ctx gpu.Context) error {
	c := s.opts.ClearColor
	ctx.ClearColor(c[0], c[1], c[2], c[3])
	ctx.Enable(gpu.DepthTest)
	ctx.Enable(gpu.ProgramPointSize)
	s.controller.OnResize(ctx, s.opts.Width, s.opts.Height)
	return s.controller.Apply(ctx)
}

// Handle routes one input event to the controller.
func (s *Scene) Handle(ctx gpu.Context, e input.Event) error {
	switch e.Type {
	case input.EventPointerMove:
		return s.controller.OnPointerMove(ctx, e.X, e.Y)
	case input.EventPointerButton:
		s.controller.OnPointerButton(e.Button, e.Pressed)
	case input.EventScroll:
		return s.controller.OnScroll(ctx, e.Scroll)
	case input.EventResize:
		s.log.Debug("resize", zap.Int("width", e.Width), zap.Int("height", e.Height))
		s.controller.OnResize(ctx, e.Width, e.Height)
	}
	return nil
}

// Draw clears the frame and draws the globe, then the points. points is
// uploaded before drawing when non-nil.
func (s *Scene) Draw(ctx gpu.Context, points []float32) error {
	ctx.Clear()
	if err := s.globe.Draw(ctx, s.pulse); err != nil {
		return err
	}
	return s.points.Draw(ctx, points)
}

// Adopt takes over the camera, pointer and animation state of prev.
func (s *Scene) Adopt(ctx gpu.Context, prev *Scene) error {
	s.controller.Adopt(prev.controller)
	if s.pulse != nil && prev.pulse != nil {
		*s.pulse = *prev.pulse
	}
	return s.controller.Apply(ctx)
}

// Release frees every scene resource.
func (s *Scene) Release(ctx gpu.Context) {
	s.points.Release(ctx)
	s.globe.Release(ctx)
}
