package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Carmen-Shannon/snowglobe/engine"
	"github.com/Carmen-Shannon/snowglobe/engine/loader"
	"github.com/Carmen-Shannon/snowglobe/engine/profiler"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer"
	"github.com/Carmen-Shannon/snowglobe/engine/scene"
	"github.com/Carmen-Shannon/snowglobe/engine/window"
)

const keyMap = `Keys:
  Q/W  rotate about x     E/R  rotate about y     T/Y  rotate about z
  A/S  shrink / grow      Z/X  move x             C/V  move y      B/N  move z
  1/2  light x            3/4  light y            5/6  light z
  7/8  view x             9/0  view y             O/P  view z
  K/L  step back / in     M    colour mode        N    draw mode (on release)
  F/G  snow speed         H/J  snow radius        Esc  quit
`

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("snowglobe: %v", err)
	}
	msaa, _ := renderer.ParseMSAASampleCount(cfg.MSAA)

	// ── Window ──────────────────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(window.DefaultTitle),
		window.WithSize(cfg.Width, cfg.Height),
	)

	// ── Renderer ────────────────────────────────────────────────────────
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(cfg.PresentMode()),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(cfg.Software),
	)

	// ── Assets ──────────────────────────────────────────────────────────
	l := loader.NewLoader(loader.BackendTypeOBJ, loader.WithWorkers(cfg.Workers))
	assets, err := loadAssets(l, cfg.Assets)
	l.Close()
	if err != nil {
		log.Fatalf("snowglobe: %v", err)
	}

	// ── Scene ───────────────────────────────────────────────────────────
	prof := profiler.NewProfiler()
	options := []scene.SceneBuilderOption{
		scene.WithParticleCount(uint32(cfg.Particles)),
		scene.WithMaxDistance(float32(cfg.MaxDistance)),
		scene.WithSpeed(float32(cfg.Speed)),
		scene.WithPointSize(float32(cfg.PointSize)),
	}
	if cfg.Profile {
		options = append(options, scene.WithProfiler(prof))
	}
	if cfg.Seed != 0 {
		options = append(options, scene.WithSeed(cfg.Seed))
	}

	sc := scene.NewScene("snowglobe", r, options...)
	sc.Resize(win.Width(), win.Height())
	if err := sc.Load(assets); err != nil {
		log.Fatalf("snowglobe: %v", err)
	}

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(0, sc),
		engine.WithProfiler(prof),
		engine.WithProfiling(cfg.Profile),
		engine.WithRenderFrameLimit(cfg.FPS),
	)

	printKeyMap(os.Stdout)
	eng.Run()

	sc.Release()
	r.Release()
	if err := win.Close(); err != nil {
		log.Printf("snowglobe: %v", err)
	}
}

func printKeyMap(w io.Writer) {
	fmt.Fprint(w, keyMap)
}
