// Command enemyradar runs the overlay headless against the patrol scene and
// writes PNG snapshots of the rendered frames.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/enemyradar/extension/internal/app"
	"github.com/enemyradar/extension/internal/config"
	"github.com/enemyradar/extension/internal/overlay"
	"github.com/enemyradar/extension/internal/render/raster"
	"github.com/enemyradar/extension/internal/sim"
	"github.com/enemyradar/extension/pkg/hostapi"
)

// Build info, set via ldflags.
var (
	CurrentVersion = "0.1.0"
	BuildDate      = "unknown"
)

var background = color.NRGBA{R: 24, G: 28, B: 32, A: 255}

type options struct {
	ConfigDir     string
	Frames        int
	FPS           int
	SnapshotEvery int
	Out           string
	Width         int
	Height        int
}

type summary struct {
	Frames       int
	Snapshots    int
	Bytes        uint64
	BannerFrames int
	Enemies      int
	Spots        int
	Beams        int
	Language     string
}

func main() {
	var opts options
	flag.StringVar(&opts.ConfigDir, "config", ".", "directory holding "+config.FileName)
	flag.IntVar(&opts.Frames, "frames", 600, "number of frames to simulate")
	flag.IntVar(&opts.FPS, "fps", 30, "simulated frames per second")
	flag.IntVar(&opts.SnapshotEvery, "snapshot-every", 0, "write a PNG every N frames, 0 to disable")
	flag.StringVar(&opts.Out, "out", "snapshots", "snapshot directory")
	flag.IntVar(&opts.Width, "width", 1280, "canvas width")
	flag.IntVar(&opts.Height, "height", 720, "canvas height")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("enemyradar %s (built %s)\n", CurrentVersion, BuildDate)
		return
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "enemyradar:", err)
		os.Exit(1)
	}
}

func run(opts options, stdout io.Writer) error {
	if opts.Frames <= 0 || opts.FPS <= 0 {
		return fmt.Errorf("frames and fps must be positive")
	}

	a, err := app.Setup(app.Options{ConfigDir: opts.ConfigDir, Name: "enemyradar", Version: CurrentVersion})
	if err != nil {
		return err
	}
	defer a.Close()

	patrol := sim.NewPatrol()

	var ov *overlay.Overlay
	factory := overlay.NewFactory(a.Config, a.Dependencies())
	boot := hostapi.NewBootstrap(CurrentVersion, func(h hostapi.Host) (hostapi.Plugin, error) {
		p, err := factory(h)
		if o, ok := p.(*overlay.Overlay); ok {
			ov = o
		}
		return p, err
	}, a.Logger)
	if err := boot.OnAfterSetup(patrol.World); err != nil {
		return err
	}
	defer boot.OnTeardown()

	canvas, err := raster.New(opts.Width, opts.Height, background)
	if err != nil {
		return err
	}
	defer canvas.Close()

	if opts.SnapshotEvery > 0 {
		if err := os.MkdirAll(opts.Out, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot dir: %w", err)
		}
	}

	var sum summary
	step := time.Second / time.Duration(opts.FPS)
	for i := 0; i < opts.Frames; i++ {
		now := time.Duration(i) * step
		patrol.Step(now)
		boot.Update(now)
		canvas.Clear(background)
		boot.Draw(canvas, now)
		sum.Frames++
		if ov.LastStats().Banner {
			sum.BannerFrames++
		}

		if opts.SnapshotEvery > 0 && (i+1)%opts.SnapshotEvery == 0 {
			n, err := snapshot(canvas, filepath.Join(opts.Out, fmt.Sprintf("frame_%06d.png", i+1)))
			if err != nil {
				return err
			}
			sum.Snapshots++
			sum.Bytes += n
		}
	}

	sum.Enemies = len(ov.LastScan().Enemies)
	sum.Spots = len(ov.Spots())
	sum.Beams = ov.Beams()
	sum.Language = ov.Renderer().Language().String()

	// Teardown closes the journal, so the counts below are final.
	boot.OnTeardown()
	a.Logger.Info("Run complete", "frames", sum.Frames, "snapshots", sum.Snapshots)
	printSummary(stdout, sum, a.Journal.Written(), a.Journal.Dropped())
	return nil
}

func snapshot(c *raster.Canvas, path string) (uint64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := c.WritePNG(f); err != nil {
		f.Close()
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, err
	}
	return uint64(info.Size()), f.Close()
}

func printSummary(w io.Writer, s summary, written, dropped int) {
	fmt.Fprintf(w, "frames:     %s (%s with low-health banner)\n", humanize.Comma(int64(s.Frames)), humanize.Comma(int64(s.BannerFrames)))
	fmt.Fprintf(w, "snapshots:  %d (%s)\n", s.Snapshots, humanize.Bytes(s.Bytes))
	fmt.Fprintf(w, "enemies:    %d\n", s.Enemies)
	fmt.Fprintf(w, "loot spots: %d (%d beams)\n", s.Spots, s.Beams)
	fmt.Fprintf(w, "journal:    %s written, %s dropped\n", humanize.Comma(int64(written)), humanize.Comma(int64(dropped)))
	fmt.Fprintf(w, "language:   %s\n", s.Language)
}
