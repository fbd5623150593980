package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"marquee14/pkg/config"
	"marquee14/pkg/page"
	"marquee14/pkg/termview"
)

type player struct {
	screen tcell.Screen
	page   *page.Page
	view   *termview.View
	frame  time.Duration
}

func main() {
	configPath := flag.String("config", "", "settings file (.yaml, .yml or .toml)")
	fps := flag.Int("fps", 0, "frames per second")
	tags := flag.String("tags", "", "comma-separated extra element names to animate")
	logFile := flag.String("log", "", "write page diagnostics to this file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: marqueeterm [flags] <page.html | url | ->\n\nFlags:\n")
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
	if *fps > 0 {
		settings.FPS = *fps
	}
	if *tags != "" {
		settings.Tags = append(settings.Tags, strings.Split(*tags, ",")...)
	}

	// The screen owns the terminal, so diagnostics go to a file or nowhere.
	var logger *log.Logger
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.New(f, "marqueeterm: ", log.Ltime)
	}

	pl, err := newPlayer(settings, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer pl.cleanup()

	if err := pl.page.Open(context.Background(), flag.Arg(0)); err != nil {
		pl.cleanup()
		fmt.Fprintf(os.Stderr, "Error loading page: %v\n", err)
		os.Exit(1)
	}
	pl.run()
}

func newPlayer(settings config.Settings, logger *log.Logger) (*player, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	w, h := termview.Viewport(screen.Size())
	p, err := page.New(page.Options{
		Width:    w,
		Height:   h,
		Measurer: termview.Measurer(),
		Logger:   logger,
		Tags:     settings.Tags,
		Defaults: settings.Marquee,
	})
	if err != nil {
		screen.Fini()
		return nil, err
	}

	view := termview.New(screen)
	view.SetOffsets(p.Offset)
	return &player{
		screen: screen,
		page:   p,
		view:   view,
		frame:  settings.FrameInterval(),
	}, nil
}

func (pl *player) draw() {
	pl.view.Draw(pl.page.Boxes())
	pl.screen.Show()
}

// handleInput reports whether the player should keep running.
func (pl *player) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventResize:
		pl.page.Layout().SetViewport(termview.Viewport(pl.screen.Size()))
		pl.screen.Sync()
	}
	return true
}

func (pl *player) run() {
	ticker := time.NewTicker(pl.frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := pl.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	last := time.Now()
	pl.draw()
	for {
		select {
		case ev := <-events:
			if !pl.handleInput(ev) {
				return
			}
		case t := <-ticker.C:
			pl.page.Advance(t.Sub(last))
			last = t
			pl.draw()
		}
	}
}

func (pl *player) cleanup() {
	pl.page.Close()
	pl.screen.Fini()
}
