// Command radarview opens a window on the patrol scene with the overlay
// drawn on top. F7 cycles the overlay language.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/enemyradar/extension/internal/app"
	"github.com/enemyradar/extension/internal/overlay"
	"github.com/enemyradar/extension/internal/render/ebitencanvas"
	"github.com/enemyradar/extension/internal/sim"
	"github.com/enemyradar/extension/pkg/hostapi"
)

var CurrentVersion = "0.1.0"

const (
	screenWidth  = 1280
	screenHeight = 720
)

var background = color.NRGBA{R: 24, G: 28, B: 32, A: 255}

type game struct {
	patrol  *sim.Patrol
	boot    *hostapi.Bootstrap
	overlay *overlay.Overlay
	canvas  *ebitencanvas.Canvas
	start   time.Time
	now     time.Duration
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF7) && g.overlay != nil {
		g.overlay.Renderer().CycleLanguage()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.now = time.Since(g.start)
	g.patrol.Step(g.now)
	g.boot.Update(g.now)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.canvas.SetTarget(screen)
	g.boot.Draw(g.canvas, g.now)
}

func (g *game) Layout(int, int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	configDir := flag.String("config", ".", "config directory")
	flag.Parse()

	if err := run(*configDir); err != nil {
		fmt.Fprintln(os.Stderr, "radarview:", err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	a, err := app.Setup(app.Options{ConfigDir: configDir, Name: "radarview", Version: CurrentVersion})
	if err != nil {
		return err
	}
	defer a.Close()

	canvas, err := ebitencanvas.New()
	if err != nil {
		return err
	}
	defer canvas.Dispose()

	g := &game{patrol: sim.NewPatrol(), canvas: canvas, start: time.Now()}
	factory := overlay.NewFactory(a.Config, a.Dependencies())
	g.boot = hostapi.NewBootstrap(CurrentVersion, func(h hostapi.Host) (hostapi.Plugin, error) {
		p, err := factory(h)
		if o, ok := p.(*overlay.Overlay); ok {
			g.overlay = o
		}
		return p, err
	}, a.Logger)
	if err := g.boot.OnAfterSetup(g.patrol.World); err != nil {
		return err
	}
	defer g.boot.OnTeardown()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Enemy Radar " + CurrentVersion)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}
