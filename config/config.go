// Package config reads the optional canvas.yaml file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/canvas/build"
	"github.com/gogpu/canvas/geom"
)

// FileName is the name LoadOptional looks for.
const FileName = "canvas.yaml"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid value")

// Config represents canvas.yaml.
type Config struct {
	// Backend names a registered device backend. Empty selects the default.
	Backend string       `yaml:"backend,omitempty"`
	Render  RenderConfig `yaml:"render"`
	Log     LogConfig    `yaml:"log"`
}

// RenderConfig contains frame settings.
type RenderConfig struct {
	// Executor is "sequential", "group" or "pool". Empty means "group".
	Executor string `yaml:"executor,omitempty"`
	// Workers bounds the parallel executors. Zero means GOMAXPROCS.
	Workers int `yaml:"workers,omitempty"`
	// Background is a hex color (#rgb, #rrggbb, #rrggbbaa) or an SVG
	// color name.
	Background string `yaml:"background,omitempty"`
	// Antialias is "analytic", "off" or "multisample".
	Antialias string      `yaml:"antialias,omitempty"`
	Tolerance float64     `yaml:"tolerance,omitempty"`
	Clip      *ClipConfig `yaml:"clip,omitempty"`
}

// ClipConfig is a clip rectangle in canvas pixels.
type ClipConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is an slog level name: debug, info, warn or error.
	Level string `yaml:"level,omitempty"`
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOptional reads canvas.yaml from dir if present. A missing file
// yields the zero Config.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Parse decodes and validates YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := c.BuildOptions(); err != nil {
		return err
	}
	switch strings.ToLower(c.Render.Executor) {
	case "", "sequential", "group", "pool":
	default:
		return fmt.Errorf("%w: executor %q", ErrInvalid, c.Render.Executor)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Render.Workers)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// BuildOptions converts the render section to build options.
// Unset fields keep their build.DefaultOptions values.
func (c *Config) BuildOptions() (build.Options, error) {
	opts := build.DefaultOptions()
	rc := c.Render
	if rc.Background != "" {
		bg, err := ParseColor(rc.Background)
		if err != nil {
			return opts, err
		}
		opts.Background = bg
	}
	aa, ok := build.ParseAAMode(rc.Antialias)
	if !ok {
		return opts, fmt.Errorf("%w: antialias %q", ErrInvalid, rc.Antialias)
	}
	opts.Antialias = aa
	if rc.Tolerance < 0 {
		return opts, fmt.Errorf("%w: tolerance %v", ErrInvalid, rc.Tolerance)
	}
	opts.Tolerance = rc.Tolerance
	if rc.Clip != nil {
		r := geom.NewRect(rc.Clip.X, rc.Clip.Y, rc.Clip.Width, rc.Clip.Height)
		if !r.IsFinite() {
			return opts, fmt.Errorf("%w: clip %+v", ErrInvalid, *rc.Clip)
		}
		opts.Clip = &r
	}
	return opts, nil
}

// Executor creates the configured executor. A *build.Pool must be closed
// by the caller.
func (c *Config) Executor() (build.Executor, error) {
	workers := c.Render.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	switch strings.ToLower(c.Render.Executor) {
	case "sequential":
		return build.Sequential{}, nil
	case "", "group":
		return build.Group{Limit: workers}, nil
	case "pool":
		return build.NewPool(workers), nil
	default:
		return nil, fmt.Errorf("%w: executor %q", ErrInvalid, c.Render.Executor)
	}
}

// LogLevel returns the configured level. Empty means info.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return l, fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return l, nil
}

// ParseColor parses a hex color or an SVG color name. Hex colors are
// straight alpha and returned premultiplied.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("%w: color %q", ErrInvalid, s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("%w: color %q", ErrInvalid, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: color %q", ErrInvalid, s)
	}
	nrgba := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(nrgba).(color.RGBA), nil
}
