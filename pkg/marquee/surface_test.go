package marquee

import (
	"time"
	"unicode/utf8"

	"marquee14/pkg/anim"
	"marquee14/pkg/css"
	"marquee14/pkg/html"
)

// testSurface lays each host's children out on one line, ten units per
// rune and twenty tall, and runs transitions on a virtual-clock loop.
// Every host gets the same box.
type testSurface struct {
	loop    *anim.Loop
	trans   *anim.Transitions
	hosts   []*html.Node
	hostBox Rect
	boxes   map[*html.Node]Rect

	reflows    int
	transforms map[*html.Node][]string
}

func newTestSurface(host *html.Node, width, height float64) *testSurface {
	loop := anim.NewLoop()
	return &testSurface{
		loop:       loop,
		trans:      anim.NewTransitions(loop),
		hosts:      []*html.Node{host},
		hostBox:    Rect{Left: 8, Top: 8, Width: width, Height: height},
		boxes:      make(map[*html.Node]Rect),
		transforms: make(map[*html.Node][]string),
	}
}

func (s *testSurface) Display(n *html.Node) string {
	return string(css.ComputeStyle(n, nil).GetDisplay())
}

func (s *testSurface) add(host *html.Node) {
	s.hosts = append(s.hosts, host)
}

func (s *testSurface) Reflow() {
	s.reflows++
	for _, h := range s.hosts {
		s.boxes[h] = s.hostBox
		x := s.hostBox.Left
		for _, c := range h.Children {
			w := float64(utf8.RuneCountInString(c.TextContent())) * 10
			s.boxes[c] = Rect{Left: x, Top: s.hostBox.Top, Width: w, Height: 20}
			x += w
		}
	}
}

func (s *testSurface) Measure(n *html.Node) Rect {
	return s.boxes[n]
}

func (s *testSurface) Restyle(n *html.Node) {
	transform, ok := n.Style("transform")
	if !ok {
		return
	}
	s.transforms[n] = append(s.transforms[n], transform)
	off, _ := css.ParseTranslate(transform)
	var dur time.Duration
	easing := anim.Linear
	if v, ok := n.Style("transition"); ok {
		if tr, err := css.ParseTransition(v); err == nil {
			dur = tr.Duration()
			easing, _ = anim.ParseEasing(tr.Easing)
		}
	}
	s.trans.Translate(n, anim.Offset{X: off.X, Y: off.Y}, dur, easing)
}

func (s *testSurface) OnTransitionEnd(n *html.Node, fn func()) func() {
	return s.trans.OnFinished(n, fn)
}

func (s *testSurface) Defer(fn func()) func() {
	return s.loop.After(0, fn)
}

// restyles counts transform writes across every node.
func (s *testSurface) restyles() int {
	total := 0
	for _, ts := range s.transforms {
		total += len(ts)
	}
	return total
}

func textHost(text string) *html.Node {
	host := html.NewElement("marquee")
	host.AppendText(text)
	body := html.NewElement("body")
	body.AddChild(host)
	return host
}
