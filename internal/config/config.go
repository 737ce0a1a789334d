// Package config loads the canvastack server configuration from a TOML
// file, filling in defaults for anything the file omits.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/canvastack/pkg/canvas"
	"github.com/matzehuels/canvastack/pkg/command"
	"github.com/matzehuels/canvastack/pkg/errors"
	"github.com/matzehuels/canvastack/pkg/geometry"
	"github.com/matzehuels/canvastack/pkg/layout"
)

// Config is the full server configuration.
type Config struct {
	Server Server `toml:"server"`
	Canvas Canvas `toml:"canvas"`
	Sync   Sync   `toml:"sync"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
}

// Canvas holds the initial canvas geometry and layout settings.
type Canvas struct {
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	Padding       int     `toml:"padding"`
	Gap           int     `toml:"gap"`
	MinSize       int     `toml:"min_size"`
	MaxSize       int     `toml:"max_size"`
	AspectRatio   float64 `toml:"aspect_ratio"`
	EnforceBounds *bool   `toml:"enforce_bounds"`
	AvoidOverlap  *bool   `toml:"avoid_overlap"`
}

// Sync holds the command acknowledgment settings.
type Sync struct {
	AckTTL        duration `toml:"ack_ttl"`
	SweepInterval duration `toml:"sweep_interval"`
}

// duration wraps time.Duration with TOML string decoding ("30s", "5m").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: duration{10 * time.Second},
		},
		Canvas: Canvas{
			Width:   800,
			Height:  600,
			Padding: layout.DefaultPadding,
			Gap:     layout.DefaultGap,
			MinSize: layout.DefaultMinSize,
			MaxSize: layout.DefaultMaxSize,
		},
		Sync: Sync{
			AckTTL:        duration{command.DefaultTTL},
			SweepInterval: duration{time.Minute},
		},
	}
}

// Load reads a TOML file and merges it over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeValidation, err, "reading config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeValidation, err, "parsing config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := errors.ValidatePositive("canvas width", c.Canvas.Width); err != nil {
		return err
	}
	if err := errors.ValidatePositive("canvas height", c.Canvas.Height); err != nil {
		return err
	}
	if c.Canvas.AspectRatio < 0 {
		return errors.New(errors.ErrCodeValidation, "aspect_ratio must be zero or positive, got %g", c.Canvas.AspectRatio)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeValidation, "server addr cannot be empty")
	}
	return nil
}

// CanvasSize returns the configured canvas dimensions.
func (c Config) CanvasSize() geometry.Size {
	return geometry.Size{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// Settings converts the canvas section into registry settings.
func (c Config) Settings() canvas.Settings {
	s := canvas.DefaultSettings()
	s.Padding = c.Canvas.Padding
	s.Gap = c.Canvas.Gap
	s.MinSize = c.Canvas.MinSize
	s.MaxSize = c.Canvas.MaxSize
	s.AspectRatio = c.Canvas.AspectRatio
	if c.Canvas.EnforceBounds != nil {
		s.EnforceBounds = *c.Canvas.EnforceBounds
	}
	if c.Canvas.AvoidOverlap != nil {
		s.AvoidOverlap = *c.Canvas.AvoidOverlap
	}
	return s
}
