package page

import (
	"time"

	"marquee14/pkg/html"
	"marquee14/pkg/js"
)

var _ js.Host = (*Page)(nil)

// DefineElement makes name attach as a marquee from now on and upgrades
// the elements of that name already in the document.
func (p *Page) DefineElement(name string) error {
	p.tags[name] = true
	var hosts []*html.Node
	walkElements(p.doc.Root, func(n *html.Node) {
		if n.TagName == name {
			hosts = append(hosts, n)
		}
	})
	for _, h := range hosts {
		p.attach(h)
	}
	return nil
}

// Connected attaches marquee elements as soon as a script inserts them,
// so their styling is visible to the same script.
func (p *Page) Connected(n *html.Node) {
	if p.tags[n.TagName] {
		p.attach(n)
	}
}

func (p *Page) Disconnected(n *html.Node) {
	p.registry.Detach(n)
}

// BoundingRect returns n's border box on screen, translations included.
func (p *Page) BoundingRect(n *html.Node) [4]float64 {
	p.Reflow()
	r := p.layout.Rect(n)
	for c := n; c != nil; c = c.Parent {
		dx, dy := p.Offset(c)
		r.X += dx
		r.Y += dy
	}
	return [4]float64{r.X, r.Y, r.Width, r.Height}
}

func (p *Page) After(d time.Duration, fn func()) func() {
	return p.loop.After(d, fn)
}
