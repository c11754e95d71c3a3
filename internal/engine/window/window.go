// Package window creates the native window and OpenGL context and
// translates native events into input events.
package window

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/Faultbox/globe/internal/engine/input"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// ErrContextCreation is wrapped by every Open failure.
var ErrContextCreation = errors.New("window: could not create a GL context")

// Backend names.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Config holds window configuration.
type Config struct {
	Backend    string
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	// MSAA is the multisample count; 0 disables multisampling.
	MSAA int
}

// Host is a window with a current OpenGL context.
type Host interface {
	// Poll pushes every pending native event into q.
	Poll(q *input.Queue)
	SwapBuffers()
	// Size returns the window size in logical units.
	Size() (width, height int)
	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (width, height int)
	// ScaleFactor is pixels per logical unit.
	ScaleFactor() float64
	// ShaderVersion is the #version directive matching the context.
	ShaderVersion() string
	Close()
}

// Open creates the window for cfg.Backend and makes its context current.
func Open(cfg Config) (Host, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextCreation, err)
	}

	if strings.ToLower(cfg.Backend) == BackendGLFW {
		w, err := openGLFW(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	}

	w, err := openSDL(cfg)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (c Config) validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendSDL, BackendGLFW, "":
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendSDL, BackendGLFW)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.MSAA < 0 {
		return fmt.Errorf("invalid MSAA sample count %d", c.MSAA)
	}
	return nil
}

// scaleFactor returns the ratio of drawable to logical width.
func scaleFactor(fbWidth, width int) float64 {
	if fbWidth <= 0 || width <= 0 {
		return 1
	}
	return float64(fbWidth) / float64(width)
}
