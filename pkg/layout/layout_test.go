package layout

import (
	"errors"
	"testing"
	"unicode/utf8"

	"marquee14/pkg/html"
	"marquee14/pkg/text"
)

// fixedMeasurer gives every rune ten units and every line twenty.
type fixedMeasurer struct{}

func (fixedMeasurer) Measure(s string, _ text.FaceSpec) (float64, float64) {
	return float64(utf8.RuneCountInString(s)) * 10, 20
}

type fakeSizer map[string][2]int

func (f fakeSizer) Dimensions(src string) (int, int, error) {
	d, ok := f[src]
	if !ok {
		return 0, 0, errors.New("no such image")
	}
	return d[0], d[1], nil
}

func el(tag, style string, children ...*html.Node) *html.Node {
	n := html.NewElement(tag)
	if style != "" {
		n.SetAttribute("style", style)
	}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

func txt(s string) *html.Node { return html.NewText(s) }

// layoutBody lays out a body holding children in a 400x300 viewport.
// The body has the default 8px margins.
func layoutBody(children ...*html.Node) *LayoutEngine {
	doc := html.NewDocument()
	doc.Root.AddChild(el("body", "", children...))
	le := NewLayoutEngine(400, 300, fixedMeasurer{})
	le.Layout(doc)
	return le
}

func assertRect(t *testing.T, name string, got, want Rect) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

func TestLayoutNilDocument(t *testing.T) {
	le := NewLayoutEngine(100, 100, nil)
	if boxes := le.Layout(nil); boxes != nil {
		t.Errorf("Layout(nil) = %v", boxes)
	}
}

func TestBlockStacking(t *testing.T) {
	first := el("div", "height: 30px")
	second := el("div", "margin-top: 10px; height: 20px")
	le := layoutBody(first, second)

	assertRect(t, "first", le.Rect(first), Rect{X: 8, Y: 8, Width: 384, Height: 30})
	assertRect(t, "second", le.Rect(second), Rect{X: 8, Y: 48, Width: 384, Height: 20})
}

func TestAdjacentMarginsCollapse(t *testing.T) {
	first := el("div", "height: 30px; margin-bottom: 20px")
	second := el("div", "margin-top: 10px; height: 20px")
	le := layoutBody(first, second)
	if got := le.Rect(second).Y; got != 58 {
		t.Errorf("second.Y = %v, want 58", got)
	}
}

func TestPercentWidth(t *testing.T) {
	half := el("div", "width: 50%; padding: 0 4px")
	le := layoutBody(half)
	b, ok := le.BoxFor(half)
	if !ok {
		t.Fatal("no box")
	}
	if b.Width != 192 || b.Rect().Width != 200 {
		t.Errorf("content width %v, border width %v; want 192, 200", b.Width, b.Rect().Width)
	}
}

func TestNoWrapKeepsOneLine(t *testing.T) {
	words := txt("Hello World")
	host := el("marquee", "display: block; width: 100px; white-space: nowrap; overflow: hidden", words)
	le := layoutBody(host)

	assertRect(t, "host", le.Rect(host), Rect{X: 8, Y: 8, Width: 100, Height: 20})
	assertRect(t, "text", le.Rect(words), Rect{X: 8, Y: 8, Width: 110, Height: 20})
}

func TestWrapBreaksAtSpaces(t *testing.T) {
	words := txt("aaa bbb ccc")
	box := el("div", "width: 100px", words)
	le := layoutBody(box)

	assertRect(t, "text", le.Rect(words), Rect{X: 8, Y: 8, Width: 80, Height: 40})
	if got := le.Rect(box).Height; got != 40 {
		t.Errorf("div height = %v, want 40", got)
	}
	b, _ := le.BoxFor(words)
	last := b.Children[len(b.Children)-1]
	if last.Text != "ccc" || last.X != 8 || last.Y != 28 {
		t.Errorf("last fragment = %q at (%v, %v)", last.Text, last.X, last.Y)
	}
}

func TestWhitespaceCollapses(t *testing.T) {
	words := txt("  a \n\t b  ")
	le := layoutBody(el("div", "", words))
	b, _ := le.BoxFor(words)
	if b.Children[0].Text != "a" || b.Children[0].X != 8 {
		t.Errorf("first fragment = %q at %v", b.Children[0].Text, b.Children[0].X)
	}
	var got string
	for _, c := range b.Children {
		got += c.Text
	}
	if got != "a b " {
		t.Errorf("fragments = %q, want %q", got, "a b ")
	}
}

func TestNoBreakSpaceIsContent(t *testing.T) {
	if got := collapseSpace("a  b"); got != "a  b" {
		t.Errorf("collapseSpace = %q", got)
	}
}

func TestInlineBlockShrinksToContent(t *testing.T) {
	first := el("span", "display: inline-block", txt("ab"))
	second := el("span", "display: inline-block", txt("cde"))
	host := el("div", "white-space: nowrap", first, second)
	le := layoutBody(host)

	assertRect(t, "first", le.Rect(first), Rect{X: 8, Y: 8, Width: 20, Height: 20})
	assertRect(t, "second", le.Rect(second), Rect{X: 28, Y: 8, Width: 30, Height: 20})
}

func TestInlineBlockChildrenMoveWithIt(t *testing.T) {
	inner := txt("xy")
	seg := el("span", "display: inline-block; padding-left: 5px", inner)
	le := layoutBody(el("div", "", txt("ab"), seg))

	assertRect(t, "segment", le.Rect(seg), Rect{X: 28, Y: 8, Width: 25, Height: 20})
	assertRect(t, "inner text", le.Rect(inner), Rect{X: 33, Y: 8, Width: 20, Height: 20})
}

func TestInlinePadding(t *testing.T) {
	inner := txt("x")
	span := el("span", "padding-left: 5px", inner)
	le := layoutBody(el("div", "", span))

	assertRect(t, "text", le.Rect(inner), Rect{X: 13, Y: 8, Width: 10, Height: 20})
	assertRect(t, "span", le.Rect(span), Rect{X: 8, Y: 8, Width: 15, Height: 20})
}

func TestDisplayNoneHasNoBox(t *testing.T) {
	hidden := el("span", "display: none", txt("gone"))
	after := txt("here")
	le := layoutBody(el("div", "", hidden, after))
	if _, ok := le.BoxFor(hidden); ok {
		t.Error("display: none element got a box")
	}
	assertRect(t, "hidden", le.Rect(hidden), Rect{})
	if got := le.Rect(after).X; got != 8 {
		t.Errorf("following text X = %v, want 8", got)
	}
}

func TestLineBreak(t *testing.T) {
	second := txt("b")
	le := layoutBody(el("div", "", txt("a"), html.NewElement("br"), second))
	assertRect(t, "second line", le.Rect(second), Rect{X: 8, Y: 28, Width: 10, Height: 20})
}

func TestImageSizing(t *testing.T) {
	natural := el("img", "")
	natural.SetAttribute("src", "logo.png")
	scaled := el("img", "")
	scaled.SetAttribute("src", "logo.png")
	scaled.SetAttribute("width", "80")

	doc := html.NewDocument()
	doc.Root.AddChild(el("body", "", el("div", "", natural, scaled)))
	le := NewLayoutEngine(400, 300, fixedMeasurer{})
	le.SetImageSizer(fakeSizer{"logo.png": {40, 20}})
	le.Layout(doc)

	assertRect(t, "natural", le.Rect(natural), Rect{X: 8, Y: 28, Width: 40, Height: 20})
	assertRect(t, "scaled", le.Rect(scaled), Rect{X: 48, Y: 8, Width: 80, Height: 40})
	if b, _ := le.BoxFor(scaled); b.ImagePath != "logo.png" {
		t.Errorf("ImagePath = %q", b.ImagePath)
	}
}

func TestLayoutReturnsTopLevelBoxes(t *testing.T) {
	doc := html.NewDocument()
	body := el("body", "")
	doc.Root.AddChild(body)
	le := NewLayoutEngine(320, 200, fixedMeasurer{})
	boxes := le.Layout(doc)
	if len(boxes) != 1 || boxes[0].Node != body {
		t.Fatalf("boxes = %v", boxes)
	}
	if w, h := le.Viewport(); w != 320 || h != 200 {
		t.Errorf("Viewport = %v x %v", w, h)
	}
	if boxes[0].Width != 304 {
		t.Errorf("body width = %v, want 304", boxes[0].Width)
	}
}
