package main

import (
	"errors"
	"flag"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/snowglobe/engine/renderer"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}

	if cfg.Particles != 1000 || cfg.MaxDistance != 0.162 || cfg.Speed != 0.5 || cfg.PointSize != 15 {
		t.Errorf("Expected the scene defaults, got %+v", cfg)
	}
	if cfg.Width != 1024 || cfg.Height != 768 {
		t.Errorf("Expected 1024x768, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.PresentMode() != renderer.PresentModeVSync {
		t.Errorf("Expected vsync by default")
	}
}

func TestParseConfigFlags(t *testing.T) {
	cfg, err := parseConfig([]string{
		"-particles", "20", "-max-distance", "0.3", "-speed", "2",
		"-vsync=false", "-msaa", "1", "-seed", "7", "-fps", "30", "-software",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}

	if cfg.Particles != 20 || cfg.MaxDistance != 0.3 || cfg.Speed != 2 || cfg.Seed != 7 || cfg.FPS != 30 {
		t.Errorf("Expected the parsed flags, got %+v", cfg)
	}
	if !cfg.Software {
		t.Errorf("Expected the software adapter requested")
	}
	if cfg.PresentMode() != renderer.PresentModeUncapped {
		t.Errorf("Expected uncapped presentation without vsync")
	}
}

func TestParseConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero particles", []string{"-particles", "0"}, "particles"},
		{"too many particles", []string{"-particles", "4294967296"}, "particles"},
		{"negative radius", []string{"-max-distance", "-1"}, "max-distance"},
		{"zero speed", []string{"-speed", "0"}, "speed"},
		{"zero point size", []string{"-point-size", "0"}, "point-size"},
		{"zero width", []string{"-width", "0"}, "window size"},
		{"negative fps", []string{"-fps", "-5"}, "fps"},
		{"no workers", []string{"-workers", "0"}, "workers"},
		{"bad msaa", []string{"-msaa", "2"}, "MSAA"},
		{"stray argument", []string{"extra"}, "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(tt.args, io.Discard)
			if err == nil {
				t.Fatalf("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected the error to mention %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateParticleBound(t *testing.T) {
	cfg, err := parseConfig(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}

	if strconv.IntSize < 64 {
		t.Skip("int cannot hold counts past uint32")
	}
	limit := int64(math.MaxUint32)

	cfg.Particles = int(limit)
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected the largest uint32 count to be accepted, got %v", err)
	}
	cfg.Particles = int(limit + 1)
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "at most") {
		t.Errorf("Expected a count past uint32 to be rejected, got %v", err)
	}
}

func TestParseConfigHelp(t *testing.T) {
	if _, err := parseConfig([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp, got %v", err)
	}
}

func TestPrintKeyMap(t *testing.T) {
	var b strings.Builder
	printKeyMap(&b)
	for _, want := range []string{"Q/W", "M    colour mode", "Esc  quit"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("Expected the key map to contain %q", want)
		}
	}
}
