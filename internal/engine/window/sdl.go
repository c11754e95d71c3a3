package window

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/engine/input"
	"github.com/Faultbox/globe/internal/engine/shader"
	"github.com/Faultbox/globe/internal/logger"
)

// sdlHost wraps an SDL2 window and OpenGL context.
type sdlHost struct {
	cfg       Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	log       *zap.Logger
}

func openSDL(cfg Config) (*sdlHost, error) {
	w := &sdlHost{
		cfg: cfg,
		log: logger.Named("window"),
	}

	w.log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("%w: SDL_Init failed: %w", ErrContextCreation, err)
	}

	// Set OpenGL attributes BEFORE creating window
	// We want OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	if cfg.MSAA > 0 {
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, cfg.MSAA)
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("%w: SDL_CreateWindow failed: %w", ErrContextCreation, err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("%w: SDL_GL_CreateContext failed: %w", ErrContextCreation, err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	w.log.Info("window created",
		zap.String("backend", BackendSDL),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Float64("scale", w.ScaleFactor()),
	)
	return w, nil
}

// Poll converts pending SDL events to input events.
func (w *sdlHost) Poll(q *input.Queue) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			q.Push(input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				// Viewport needs actual pixels, not window points
				fw, fh := w.FramebufferSize()
				q.Push(input.Event{Type: input.EventResize, Width: fw, Height: fh})
			case sdl.WINDOWEVENT_EXPOSED:
				q.Push(input.Event{Type: input.EventRedraw})
			case sdl.WINDOWEVENT_CLOSE:
				q.Push(input.Event{Type: input.EventQuit})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				q.Push(input.Event{Type: input.EventKeyDown, Key: input.KeyEscape})
			}

		case *sdl.MouseMotionEvent:
			q.Push(input.Event{
				Type: input.EventPointerMove,
				X:    float64(e.X),
				Y:    float64(e.Y),
			})

		case *sdl.MouseButtonEvent:
			q.Push(input.Event{
				Type:    input.EventPointerButton,
				X:       float64(e.X),
				Y:       float64(e.Y),
				Button:  sdlButton(e.Button),
				Pressed: e.State == sdl.PRESSED,
			})

		case *sdl.MouseWheelEvent:
			y := float64(e.Y)
			if e.Direction == uint32(sdl.MOUSEWHEEL_FLIPPED) {
				y = -y
			}
			q.Push(input.Event{Type: input.EventScroll, Scroll: input.Lines(y)})
		}
	}
}

func sdlButton(b uint8) input.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return input.ButtonPrimary
	case sdl.BUTTON_RIGHT:
		return input.ButtonSecondary
	case sdl.BUTTON_MIDDLE:
		return input.ButtonMiddle
	default:
		return input.ButtonOther
	}
}

// SwapBuffers swaps the OpenGL buffers.
func (w *sdlHost) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the window size in points.
func (w *sdlHost) Size() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// FramebufferSize returns the drawable size in pixels.
func (w *sdlHost) FramebufferSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

func (w *sdlHost) ScaleFactor() float64 {
	fw, _ := w.FramebufferSize()
	ww, _ := w.Size()
	return scaleFactor(fw, ww)
}

func (w *sdlHost) ShaderVersion() string { return shader.VersionCore }

// Close destroys the window and cleans up SDL2.
func (w *sdlHost) Close() {
	w.log.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}
