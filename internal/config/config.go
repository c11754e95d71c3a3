// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// MaxIterations bounds the subdivision depth accepted from configuration.
// Depth 8 is already 1.3M triangles.
const MaxIterations = 8

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Scene   SceneConfig   `yaml:"scene"`
	Camera  CameraConfig  `yaml:"camera"`
	Points  PointsConfig  `yaml:"points"`
	Logging LoggingConfig `yaml:"logging"`

	// Source is the file the config was loaded from, empty for defaults.
	Source string `yaml:"-"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Backend    string `yaml:"backend"` // sdl or glfw
	MSAA       int    `yaml:"msaa"`
}

// SceneConfig holds globe rendering settings.
type SceneConfig struct {
	Iterations int    `yaml:"iterations"`
	Animate    bool   `yaml:"animate"`
	ShaderDir  string `yaml:"shader_dir"` // empty uses the embedded shaders
	// WatchShaders rebuilds the scene when a file in ShaderDir changes.
	WatchShaders bool       `yaml:"watch_shaders"`
	ClearColor   [4]float32 `yaml:"clear_color,flow"`
}

// CameraConfig holds input-to-camera settings.
type CameraConfig struct {
	LineHeight    float64 `yaml:"line_height"`
	MaxScrollStep float64 `yaml:"max_scroll_step"`
}

// PointsConfig selects the point overlay source.
type PointsConfig struct {
	Source  string  `yaml:"source"` // wave, ws or none
	URL     string  `yaml:"url"`
	Modulus float32 `yaml:"modulus"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Globe",
			Width:      1000,
			Height:     700,
			Fullscreen: false,
			VSync:      true,
			Backend:    "sdl",
			MSAA:       4,
		},
		Scene: SceneConfig{
			Iterations: 4,
			Animate:    true,
			ClearColor: [4]float32{0, 0, 0, 1},
		},
		Camera: CameraConfig{
			LineHeight:    5,
			MaxScrollStep: 10,
		},
		Points: PointsConfig{
			Source:  "wave",
			Modulus: 1000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height)
	}
	switch strings.ToLower(c.Window.Backend) {
	case "sdl", "glfw":
	default:
		return fmt.Errorf("window: unknown backend %q", c.Window.Backend)
	}
	if c.Scene.Iterations < 0 || c.Scene.Iterations > MaxIterations {
		return fmt.Errorf("scene: iterations must be in [0, %d], got %d", MaxIterations, c.Scene.Iterations)
	}
	if c.Scene.WatchShaders && c.Scene.ShaderDir == "" {
		return fmt.Errorf("scene: watch_shaders needs shader_dir")
	}
	switch c.Points.Source {
	case "", "wave", "none":
	case "ws":
		if c.Points.URL == "" {
			return fmt.Errorf("points: source ws needs a url")
		}
	default:
		return fmt.Errorf("points: unknown source %q", c.Points.Source)
	}
	return nil
}

// expandPaths resolves a leading ~ in path settings.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Scene.ShaderDir, &c.Logging.LogFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}
