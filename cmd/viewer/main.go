// Command viewer opens a window showing a preset or scene file spinning in
// real time.
//
// Keys: space pauses, left and right arrows step the spin, escape quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/presets"
	"github.com/df07/go-soft-renderer/pkg/renderer"
	"github.com/df07/go-soft-renderer/pkg/viewer"
)

const stepAngle = 15 * core.DegToRad

type game struct {
	player *viewer.Player
	screen *ebiten.Image
	last   time.Time
	stats  bool
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.player.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.player.Nudge(-stepAngle)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.player.Nudge(stepAngle)
	}

	now := time.Now()
	dt := now.Sub(g.last)
	g.last = now
	g.player.Step(dt)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	frame := g.player.Frame()
	if g.screen == nil {
		w, h := g.player.Size()
		g.screen = ebiten.NewImage(w, h)
	}
	g.screen.WritePixels(frame.Pix)
	screen.DrawImage(g.screen, nil)

	if g.stats {
		s := g.player.Setup().Camera.Stats()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS %.0f\ntris %d\n%s", ebiten.ActualTPS(), s.Rasterized, s.Duration))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.player.Size()
}

func main() {
	sceneID := flag.String("scene", "planet", "Built-in scene, or file:<name> for a file in -scenes")
	file := flag.String("file", "", "Scene file to show; overrides -scene")
	scenesDir := flag.String("scenes", "scenes", "Directory searched for scene files")
	size := flag.String("size", "", "Frame size as WIDTHxHEIGHT or a resolution name")
	scale := flag.Int("scale", 4, "Window pixels per rendered pixel")
	speed := flag.Float64("speed", 60, "Spin speed in degrees per second")
	stats := flag.Bool("stats", false, "Overlay render statistics")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*sceneID, *file, *scenesDir, *size, *scale, *speed*core.DegToRad, *stats, logger); err != nil {
		logger.Error("viewer failed", "error", err)
		os.Exit(1)
	}
}

func run(sceneID, file, scenesDir, size string, scale int, speed float64, stats bool, logger *slog.Logger) error {
	var width, height int
	if size != "" {
		var err error
		if width, height, err = renderer.ParseSize(size); err != nil {
			return err
		}
	}

	var (
		setup *presets.Setup
		err   error
	)
	if file != "" {
		setup, err = presets.LoadFile(file, width, height)
	} else {
		setup, err = presets.Load(sceneID, scenesDir, width, height)
	}
	if err != nil {
		return err
	}
	setup.Camera.SetLogger(logger)

	player, err := viewer.NewPlayer(setup, scale, speed)
	if err != nil {
		return err
	}
	player.Step(0)

	w, h := player.Size()
	ebiten.SetWindowTitle("Software Rasterizer")
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(30)

	logger.Info("viewer started", "scene", sceneID, "file", file, "width", w, "height", h)
	if err := ebiten.RunGame(&game{player: player, last: time.Now(), stats: stats}); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
