package page

import (
	"time"

	"marquee14/pkg/anim"
	"marquee14/pkg/css"
	"marquee14/pkg/html"
	"marquee14/pkg/marquee"
)

// The page is the surface its marquees draw on.
var _ marquee.Surface = (*Page)(nil)

func (p *Page) Display(n *html.Node) string {
	return string(p.computedStyle(n).GetDisplay())
}

// Reflow lays the document out again.
func (p *Page) Reflow() {
	p.boxes = p.layout.Layout(p.doc)
}

// Measure returns n's laid-out border box, ignoring any translation.
func (p *Page) Measure(n *html.Node) marquee.Rect {
	r := p.layout.Rect(n)
	return marquee.Rect{Left: r.X, Top: r.Y, Width: r.Width, Height: r.Height}
}

// Restyle starts the transition described by n's inline transform and
// transition declarations. Without a transition the element jumps.
func (p *Page) Restyle(n *html.Node) {
	transform, ok := n.Style("transform")
	if !ok {
		return
	}
	off, ok := css.ParseTranslate(transform)
	if !ok {
		p.logger.Printf("page: unsupported transform %q", transform)
		return
	}
	var dur time.Duration
	easing := anim.Linear
	if v, ok := n.Style("transition"); ok {
		tr, err := css.ParseTransition(v)
		if err != nil {
			p.logger.Printf("page: transition %q: %v", v, err)
		} else {
			dur = tr.Duration()
			easing, _ = anim.ParseEasing(tr.Easing)
		}
	}
	p.trans.Translate(n, anim.Offset{X: off.X, Y: off.Y}, dur, easing)
}

func (p *Page) OnTransitionEnd(n *html.Node, fn func()) func() {
	return p.trans.OnFinished(n, fn)
}

func (p *Page) Defer(fn func()) func() {
	return p.loop.After(0, fn)
}
