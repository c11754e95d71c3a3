package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/engine/input"
	"github.com/Faultbox/globe/internal/engine/shader"
	"github.com/Faultbox/globe/internal/logger"
)

// glfwHost wraps a GLFW window. GLFW delivers input through callbacks
// during PollEvents; they are buffered in pending and drained by Poll.
type glfwHost struct {
	cfg     Config
	window  *glfw.Window
	pending []input.Event
	log     *zap.Logger
}

func openGLFW(cfg Config) (*glfwHost, error) {
	w := &glfwHost{
		cfg:     cfg,
		pending: make([]input.Event, 0, 16),
		log:     logger.Named("window"),
	}

	w.log.Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: glfw.Init failed: %w", ErrContextCreation, err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	if cfg.MSAA > 0 {
		glfw.WindowHint(glfw.Samples, cfg.MSAA)
	}

	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	var err error
	w.window, err = glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("%w: glfw.CreateWindow failed: %w", ErrContextCreation, err)
	}
	w.window.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w.installCallbacks()

	w.log.Info("window created",
		zap.String("backend", BackendGLFW),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Float64("scale", w.ScaleFactor()),
	)
	return w, nil
}

func (w *glfwHost) push(e input.Event) {
	w.pending = append(w.pending, e)
}

func (w *glfwHost) installCallbacks() {
	w.window.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.push(input.Event{Type: input.EventPointerMove, X: xpos, Y: ypos})
	})

	w.window.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		x, y := win.GetCursorPos()
		w.push(input.Event{
			Type:    input.EventPointerButton,
			X:       x,
			Y:       y,
			Button:  glfwButton(button),
			Pressed: action == glfw.Press,
		})
	})

	w.window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		w.push(input.Event{Type: input.EventScroll, Scroll: input.Lines(yoff)})
	})

	w.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.push(input.Event{Type: input.EventKeyDown, Key: input.KeyEscape})
		}
	})

	w.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.push(input.Event{Type: input.EventResize, Width: width, Height: height})
	})

	w.window.SetRefreshCallback(func(_ *glfw.Window) {
		w.push(input.Event{Type: input.EventRedraw})
	})

	w.window.SetCloseCallback(func(_ *glfw.Window) {
		w.push(input.Event{Type: input.EventQuit})
	})
}

func glfwButton(b glfw.MouseButton) input.Button {
	switch b {
	case glfw.MouseButtonLeft:
		return input.ButtonPrimary
	case glfw.MouseButtonRight:
		return input.ButtonSecondary
	case glfw.MouseButtonMiddle:
		return input.ButtonMiddle
	default:
		return input.ButtonOther
	}
}

// Poll runs the GLFW event pump and forwards the buffered events.
func (w *glfwHost) Poll(q *input.Queue) {
	glfw.PollEvents()
	for _, e := range w.pending {
		q.Push(e)
	}
	w.pending = w.pending[:0]
}

func (w *glfwHost) SwapBuffers() {
	w.window.SwapBuffers()
}

func (w *glfwHost) Size() (int, int) {
	return w.window.GetSize()
}

func (w *glfwHost) FramebufferSize() (int, int) {
	return w.window.GetFramebufferSize()
}

func (w *glfwHost) ScaleFactor() float64 {
	fw, _ := w.FramebufferSize()
	ww, _ := w.Size()
	return scaleFactor(fw, ww)
}

func (w *glfwHost) ShaderVersion() string { return shader.VersionCore }

func (w *glfwHost) Close() {
	w.log.Info("closing window")
	if w.window != nil {
		w.window.Destroy()
	}
	glfw.Terminate()
}
