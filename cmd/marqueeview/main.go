package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

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
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: marqueeview [flags] <page.html | url>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	location := flag.Arg(0)

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

	fonts := text.NewFontMeasurer(settings.Fonts)
	p, err := page.New(page.Options{
		Width:    float64(settings.Width),
		Height:   float64(settings.Height),
		Measurer: fonts,
		Logger:   log.New(os.Stderr, "marqueeview: ", 0),
		Tags:     settings.Tags,
		Defaults: settings.Marquee,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Open(ctx, location); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading page: %v\n", err)
		os.Exit(1)
	}

	a := app.New()
	w := a.NewWindow("marquee14: " + location)
	w.Resize(fyne.NewSize(float32(settings.Width), float32(settings.Height+40)))

	bounds := image.Rect(0, 0, settings.Width, settings.Height)
	renderFrame := func() *image.RGBA {
		target := image.NewRGBA(bounds)
		r := render.NewRendererForImage(target)
		r.SetFonts(fonts)
		r.SetBackground(settings.BackgroundColor())
		p.Render(r)
		return target
	}

	canvasImg := canvas.NewImageFromImage(renderFrame())
	canvasImg.FillMode = canvas.ImageFillOriginal
	status := widget.NewLabel(fmt.Sprintf("%d marquee(s)", len(p.Instances())))
	w.SetContent(container.NewBorder(nil, status, nil, nil, canvasImg))

	frame := func(now time.Duration) {
		target := renderFrame()
		label := fmt.Sprintf("%v  %d marquee(s)", now.Round(time.Second/10), len(p.Instances()))
		fyne.Do(func() {
			canvasImg.Image = target
			canvasImg.Refresh()
			status.SetText(label)
		})
	}

	// The page is only touched from this goroutine once the window is up.
	go func() {
		if err := p.Run(ctx, settings.FPS, frame); err != nil && ctx.Err() == nil {
			log.Printf("marqueeview: %v", err)
		}
	}()
	w.SetOnClosed(cancel)
	w.ShowAndRun()
}
