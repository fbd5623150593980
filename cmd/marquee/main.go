package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"marquee14/pkg/config"
	"marquee14/pkg/page"
	"marquee14/pkg/render"
	"marquee14/pkg/text"
)

func main() {
	configPath := flag.String("config", "", "settings file (.yaml, .yml or .toml)")
	width := flag.Int("w", 0, "viewport width in pixels")
	height := flag.Int("h", 0, "viewport height in pixels")
	fps := flag.Int("fps", 0, "frames per second")
	duration := flag.Duration("duration", 0, "length of the capture")
	output := flag.String("o", "frames", "output directory for PNG frames")
	tags := flag.String("tags", "", "comma-separated extra element names to animate")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: marquee [flags] <page.html | url | ->\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	settings := config.Default()
	if *configPath != "" {
		var err error
		if settings, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *width > 0 {
		settings.Width = *width
	}
	if *height > 0 {
		settings.Height = *height
	}
	if *fps > 0 {
		settings.FPS = *fps
	}
	if *duration > 0 {
		settings.Duration = config.Duration(*duration)
	}
	if *tags != "" {
		settings.Tags = append(settings.Tags, strings.Split(*tags, ",")...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := capture(ctx, flag.Arg(0), *output, settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// capture plays the page on its virtual clock and writes one PNG per
// frame. Frames are rendered in order and encoded concurrently.
func capture(ctx context.Context, location, outDir string, settings config.Settings) error {
	fonts := text.NewFontMeasurer(settings.Fonts)
	p, err := page.New(page.Options{
		Width:    float64(settings.Width),
		Height:   float64(settings.Height),
		Measurer: fonts,
		Logger:   log.New(os.Stderr, "marquee: ", 0),
		Tags:     settings.Tags,
		Defaults: settings.Marquee,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Fprintf(os.Stderr, "Loading %s...\n", location)
	if err := p.Open(ctx, location); err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	frames := settings.Frames()
	interval := settings.FrameInterval()
	fmt.Fprintf(os.Stderr, "Rendering %d frames at %dx%d, %d marquee(s)...\n",
		frames, settings.Width, settings.Height, len(p.Instances()))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	start := time.Now()
	for i := 0; i < frames; i++ {
		if err := gctx.Err(); err != nil {
			break
		}
		r := render.NewRenderer(settings.Width, settings.Height)
		r.SetFonts(fonts)
		r.SetBackground(settings.BackgroundColor())
		p.Render(r)

		name := filepath.Join(outDir, fmt.Sprintf("frame%05d.png", i))
		g.Go(func() error {
			if err := r.SavePNG(name); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			return nil
		})
		p.Advance(interval)
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved %d frames to %s in %v\n", frames, outDir, time.Since(start).Round(time.Millisecond))
	return nil
}
