// Package page hosts a document with live marquees: it lays the tree
// out, runs its scripts, and drives every animation on one event loop.
package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"marquee14/pkg/anim"
	"marquee14/pkg/css"
	"marquee14/pkg/html"
	"marquee14/pkg/images"
	"marquee14/pkg/js"
	"marquee14/pkg/layout"
	"marquee14/pkg/marquee"
	"marquee14/pkg/render"
	"marquee14/pkg/resource"
	"marquee14/pkg/text"
)

// Options configures a Page. Zero values give an 800x600 viewport with
// estimated text metrics.
type Options struct {
	Width    float64
	Height   float64
	Measurer text.Measurer
	Logger   *log.Logger

	// Tags are extra element names that attach as marquees, on top of
	// "marquee" and anything scripts define.
	Tags []string
	// Defaults are marquee attributes applied where an element omits them.
	Defaults map[string]string
}

type Page struct {
	doc      *html.Document
	layout   *layout.LayoutEngine
	loop     *anim.Loop
	trans    *anim.Transitions
	registry *marquee.Registry
	script   *js.Engine
	images   *images.Loader
	logger   *log.Logger

	tags     map[string]bool
	defaults marquee.Configuration
	boxes    []*layout.Box

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an empty page. It fails only when the default attributes
// do not form a valid configuration.
func New(opts Options) (*Page, error) {
	defaults, err := marquee.ParseAttributes(opts.Defaults, marquee.DefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("default marquee attributes: %w", err)
	}
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	loop := anim.NewLoop()
	p := &Page{
		doc:      html.NewDocument(),
		layout:   layout.NewLayoutEngine(opts.Width, opts.Height, opts.Measurer),
		loop:     loop,
		trans:    anim.NewTransitions(loop),
		images:   images.NewLoader(nil, ""),
		logger:   logger,
		tags:     map[string]bool{"marquee": true},
		defaults: defaults,
	}
	for _, t := range opts.Tags {
		p.tags[t] = true
	}
	p.layout.SetImageSizer(p.images)
	p.registry = marquee.NewRegistry(p)
	p.script = js.New(p, logger)
	p.ctx, p.cancel = context.WithCancel(context.Background())
	return p, nil
}

// Open loads a page from a file, URL, or "-" for standard input. Images
// resolve relative to where the page came from.
func (p *Page) Open(ctx context.Context, location string) error {
	src, err := resource.Open(ctx, location)
	if err != nil {
		return err
	}
	p.images = images.NewLoader(src.Fetcher, src.BaseDir())
	p.layout.SetImageSizer(p.images)
	return p.LoadHTML(src.HTML)
}

// LoadHTML parses markup into the page, attaches every marquee already in
// it, and then runs the page scripts. Script errors are logged.
func (p *Page) LoadHTML(markup string) error {
	doc, err := html.Parse(markup)
	if err != nil {
		return fmt.Errorf("parsing page: %w", err)
	}
	p.Load(doc)
	return nil
}

// Load installs doc as the page document.
func (p *Page) Load(doc *html.Document) {
	p.registry.Close()
	p.doc = doc
	p.Reflow()
	p.AttachAll()
	if err := p.script.Execute(doc); err != nil {
		p.logger.Printf("page: %v", err)
	}
}

// AttachAll starts a marquee on every matching element that has none.
func (p *Page) AttachAll() {
	var hosts []*html.Node
	walkElements(p.doc.Root, func(n *html.Node) {
		if p.tags[n.TagName] {
			hosts = append(hosts, n)
		}
	})
	for _, h := range hosts {
		p.attach(h)
	}
}

// attach starts a marquee on host, logging instead of failing. Hosts with
// nothing to animate stay static without complaint.
func (p *Page) attach(host *html.Node) {
	cfg, err := marquee.ParseAttributes(host.Attributes, p.defaults)
	if err != nil {
		p.logger.Printf("page: <%s>: %v", host.TagName, err)
		return
	}
	if _, err := p.registry.Attach(p.ctx, host, cfg); err != nil && !errors.Is(err, marquee.ErrNoSegments) {
		p.logger.Printf("page: <%s>: %v", host.TagName, err)
	}
}

// Detach stops the marquee on host, leaving its segments where they are.
func (p *Page) Detach(host *html.Node) bool {
	return p.registry.Detach(host)
}

// Close stops every marquee.
func (p *Page) Close() {
	p.cancel()
	p.registry.Close()
}

func (p *Page) Document() *html.Document       { return p.doc }
func (p *Page) Loop() *anim.Loop               { return p.loop }
func (p *Page) Instances() []*marquee.Instance { return p.registry.Instances() }
func (p *Page) Script() *js.Engine             { return p.script }
func (p *Page) Layout() *layout.LayoutEngine   { return p.layout }
func (p *Page) Transitions() *anim.Transitions { return p.trans }
func (p *Page) Images() render.ImageSource     { return p.images }

// Instance returns the marquee running on host.
func (p *Page) Instance(host *html.Node) (*marquee.Instance, bool) {
	return p.registry.Lookup(host)
}

// Advance moves the page clock forward by d.
func (p *Page) Advance(d time.Duration) {
	p.loop.Advance(d)
}

// Run plays the page in real time at fps frames per second until ctx is
// done. onFrame is called after every frame has advanced the clock.
func (p *Page) Run(ctx context.Context, fps int, onFrame func(now time.Duration)) error {
	if fps <= 0 {
		fps = 30
	}
	return p.loop.Run(ctx, time.Second/time.Duration(fps), onFrame)
}

// Boxes lays the page out and returns the top-level boxes.
func (p *Page) Boxes() []*layout.Box {
	p.Reflow()
	return p.boxes
}

// Offset returns the current animated translation of n alone.
func (p *Page) Offset(n *html.Node) (dx, dy float64) {
	o := p.trans.Offset(n)
	return o.X, o.Y
}

// Render paints the current frame with r.
func (p *Page) Render(r *render.Renderer) {
	r.SetImages(p.images)
	r.SetOffsets(p.Offset)
	r.Render(p.Boxes())
}

func (p *Page) computedStyle(n *html.Node) *css.Style {
	var chain []*html.Node
	for c := n; c != nil; c = c.Parent {
		chain = append(chain, c)
	}
	var style *css.Style
	for i := len(chain) - 1; i >= 0; i-- {
		style = css.ComputeStyle(chain[i], style)
	}
	return style
}

func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type != html.ElementNode {
		return
	}
	fn(n)
	for _, c := range append([]*html.Node(nil), n.Children...) {
		walkElements(c, fn)
	}
}
