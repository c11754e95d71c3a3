// Package app implements the viewer's frame loop. It owns the window, the
// GL context, the scene and the point source, and rebuilds the scene when
// watched shader sources change.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/config"
	"github.com/Faultbox/globe/internal/engine/gpu"
	"github.com/Faultbox/globe/internal/engine/input"
	"github.com/Faultbox/globe/internal/engine/renderer"
	"github.com/Faultbox/globe/internal/engine/scene"
	"github.com/Faultbox/globe/internal/engine/shader"
	"github.com/Faultbox/globe/internal/engine/window"
	"github.com/Faultbox/globe/internal/logger"
	"github.com/Faultbox/globe/internal/pointfeed"
)

// DialTimeout bounds the websocket handshake of a ws point source.
const DialTimeout = 10 * time.Second

// App is the running viewer.
type App struct {
	cfg  *config.Config
	log  *zap.Logger
	host window.Host
	gl   gpu.Context

	opts    scene.Options
	scene   *scene.Scene
	source  pointfeed.Source
	watcher *shader.Watcher
	events  *input.Queue

	// cloud is the last cloud the source delivered. It is re-uploaded
	// into a rebuilt scene.
	cloud    []float32
	restore  bool
	feedDone bool

	start  time.Time
	closed bool
}

// New opens the window and GL context and builds the scene.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.String("backend", cfg.Window.Backend),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Create window (this also creates the OpenGL context)
	host, err := window.Open(windowConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Bind GL functions (AFTER window, since the context must be current)
	gl, err := renderer.New()
	if err != nil {
		host.Close()
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	a, err := newApp(cfg, host, gl)
	if err != nil {
		host.Close()
		return nil, err
	}

	logger.Info("viewer initialized successfully")
	return a, nil
}

// newApp builds everything above the window. The caller keeps ownership
// of host on error.
func newApp(cfg *config.Config, host window.Host, gl gpu.Context) (*App, error) {
	a := &App{
		cfg:    cfg,
		log:    logger.Named("app"),
		host:   host,
		gl:     gl,
		opts:   sceneOptions(cfg, host),
		events: input.NewQueue(),
		start:  time.Now(),
	}

	sc, err := scene.New(gl, a.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}
	a.scene = sc
	if err := sc.Setup(gl); err != nil {
		a.release()
		return nil, fmt.Errorf("failed to set up scene: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DialTimeout)
	defer cancel()
	a.source, err = pointfeed.Open(ctx, pointfeed.Options{
		Kind:    cfg.Points.Source,
		URL:     cfg.Points.URL,
		Modulus: cfg.Points.Modulus,
	})
	if err != nil {
		a.release()
		return nil, fmt.Errorf("failed to open point source: %w", err)
	}

	if cfg.Scene.WatchShaders {
		a.watcher, err = shader.Watch(cfg.Scene.ShaderDir)
		if err != nil {
			a.release()
			return nil, err
		}
	}
	return a, nil
}

func windowConfig(cfg *config.Config) window.Config {
	return window.Config{
		Backend:    cfg.Window.Backend,
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		MSAA:       cfg.Window.MSAA,
	}
}

func sceneOptions(cfg *config.Config, host window.Host) scene.Options {
	opts := scene.DefaultOptions()
	opts.Version = host.ShaderVersion()
	opts.ShaderDir = cfg.Scene.ShaderDir
	opts.Iterations = cfg.Scene.Iterations
	opts.Animate = cfg.Scene.Animate
	opts.ClearColor = cfg.Scene.ClearColor
	opts.Width, opts.Height = host.FramebufferSize()
	opts.LineHeight = cfg.Camera.LineHeight
	opts.MaxScrollStep = cfg.Camera.MaxScrollStep
	opts.ScaleFactor = host.ScaleFactor()
	return opts
}

// Scene returns the current scene. It changes after a shader reload.
func (a *App) Scene() *scene.Scene { return a.scene }

// Run drives frames until a quit is requested or a frame fails.
func (a *App) Run() error {
	a.start = time.Now()

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting render loop")

	for {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		quit, err := a.Frame()
		if err != nil {
			return fmt.Errorf("frame error: %w", err)
		}
		if quit {
			a.log.Info("quit requested")
			return nil
		}

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

// Frame processes pending input, polls the point source and presents one
// frame. It reports quit without drawing when the host asked to close.
func (a *App) Frame() (quit bool, err error) {
	a.events.Reset()
	a.host.Poll(a.events)
	if a.events.QuitRequested() {
		return true, nil
	}

	for _, e := range a.events.Events() {
		if e.Type == input.EventResize {
			a.opts.Width, a.opts.Height = e.Width, e.Height
			a.opts.ScaleFactor = a.host.ScaleFactor()
			a.scene.Controller().SetScaleFactor(a.opts.ScaleFactor)
		}
		if err := a.scene.Handle(a.gl, e); err != nil {
			return false, err
		}
	}

	a.checkShaders()
	a.checkFeed()

	points, changed := a.source.Next(time.Since(a.start))
	if changed {
		a.cloud = points
	} else if a.restore {
		points = a.cloud
	}
	a.restore = false

	if err := a.scene.Draw(a.gl, points); err != nil {
		return false, err
	}
	a.host.SwapBuffers()
	return false, nil
}

func (a *App) checkShaders() {
	if a.watcher == nil {
		return
	}
	select {
	case name := <-a.watcher.Changed():
		a.log.Info("reloading shaders", zap.String("file", name))
		if err := a.Reload(); err != nil {
			a.log.Error("shader reload failed, keeping previous scene", zap.Error(err))
		}
	default:
	}
}

// Reload rebuilds the scene with the current options and carries the
// camera and animation state over. On error the current scene stays.
func (a *App) Reload() error {
	next, err := scene.New(a.gl, a.opts)
	if err != nil {
		return err
	}
	if err := next.Setup(a.gl); err != nil {
		next.Release(a.gl)
		return err
	}
	if err := next.Adopt(a.gl, a.scene); err != nil {
		next.Release(a.gl)
		return err
	}

	a.scene.Release(a.gl)
	a.scene = next
	a.restore = true
	return nil
}

type finisher interface {
	Done() <-chan struct{}
	Err() error
}

// checkFeed logs once when a remote source stops. The last cloud stays on
// screen.
func (a *App) checkFeed() {
	f, ok := a.source.(finisher)
	if !ok || a.feedDone {
		return
	}
	select {
	case <-f.Done():
		a.feedDone = true
		a.log.Warn("point feed stopped, keeping last cloud", zap.Error(f.Err()))
	default:
	}
}

// Close releases the scene, the point source and the watcher, then closes
// the window. Safe to call more than once.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true

	a.log.Info("closing viewer")
	a.release()
	a.host.Close()
}

func (a *App) release() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("failed to stop shader watcher", zap.Error(err))
		}
		a.watcher = nil
	}

	if s, ok := a.source.(interface{ Stats() (int, int) }); ok {
		frames, dropped := s.Stats()
		a.log.Info("point feed totals", zap.Int("frames", frames), zap.Int("dropped", dropped))
	}
	if c, ok := a.source.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Warn("failed to close point source", zap.Error(err))
		}
	}
	a.source = nil

	if a.scene != nil {
		a.scene.Release(a.gl)
		a.scene = nil
	}
}
