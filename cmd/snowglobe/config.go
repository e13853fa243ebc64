package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"

	"github.com/Carmen-Shannon/snowglobe/engine/renderer"
	"github.com/Carmen-Shannon/snowglobe/engine/scene"
)

// Config holds the command line settings.
type Config struct {
	Particles   int
	MaxDistance float64
	Speed       float64
	PointSize   float64

	Width, Height int

	// Assets is the directory holding models/ and images/.
	Assets string

	// FPS caps the frame rate; 0 leaves it uncapped.
	FPS     float64
	VSync   bool
	MSAA    int
	Profile bool

	// Software forces the fallback adapter, for machines without a GPU.
	Software bool

	// Seed makes the particle field reproducible; 0 picks a random seed.
	Seed    uint64
	Workers int
}

// parseConfig parses args into a Config and validates it.
func parseConfig(args []string, output io.Writer) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("snowglobe", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&cfg.Particles, "particles", scene.DefaultParticleCount, "number of snowflakes")
	fs.Float64Var(&cfg.MaxDistance, "max-distance", scene.DefaultMaxDistance, "radius of the sphere confining the snow")
	fs.Float64Var(&cfg.Speed, "speed", scene.DefaultSpeed, "snow speed multiplier")
	fs.Float64Var(&cfg.PointSize, "point-size", scene.DefaultPointSize, "snowflake size in pixels")
	fs.IntVar(&cfg.Width, "width", scene.DefaultWidth, "window width")
	fs.IntVar(&cfg.Height, "height", scene.DefaultHeight, "window height")
	fs.StringVar(&cfg.Assets, "assets", "assets", "directory holding models/ and images/")
	fs.Float64Var(&cfg.FPS, "fps", 0, "frame rate cap, 0 for uncapped")
	fs.BoolVar(&cfg.VSync, "vsync", true, "wait for vertical sync")
	fs.IntVar(&cfg.MSAA, "msaa", 4, "MSAA sample count: 1, 4, 8 or 16")
	fs.BoolVar(&cfg.Profile, "profile", false, "log frame statistics every second")
	fs.BoolVar(&cfg.Software, "software", false, "use the software fallback adapter")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "particle random seed, 0 for random")
	fs.IntVar(&cfg.Workers, "workers", 4, "texture decode workers")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the scene cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Particles <= 0 {
		errs = append(errs, fmt.Errorf("particles must be positive, got %d", c.Particles))
	} else if uint64(c.Particles) > math.MaxUint32 {
		errs = append(errs, fmt.Errorf("particles must be at most %d, got %d", uint64(math.MaxUint32), c.Particles))
	}
	if c.MaxDistance <= 0 {
		errs = append(errs, fmt.Errorf("max-distance must be positive, got %v", c.MaxDistance))
	}
	if c.Speed <= 0 {
		errs = append(errs, fmt.Errorf("speed must be positive, got %v", c.Speed))
	}
	if c.PointSize <= 0 {
		errs = append(errs, fmt.Errorf("point-size must be positive, got %v", c.PointSize))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.FPS < 0 {
		errs = append(errs, fmt.Errorf("fps must not be negative, got %v", c.FPS))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if _, err := renderer.ParseMSAASampleCount(c.MSAA); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// PresentMode maps the vsync flag to a renderer present mode.
func (c Config) PresentMode() renderer.PresentMode {
	if c.VSync {
		return renderer.PresentModeVSync
	}
	return renderer.PresentModeUncapped
}
