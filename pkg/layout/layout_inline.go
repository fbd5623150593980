package layout

import (
	"strings"

	"marquee14/pkg/css"
	"marquee14/pkg/html"
	"marquee14/pkg/text"
)

// Tolerance for line fitting, so a box laid out at its own shrunk width
// never wraps on rounding.
const epsilon = 0.01

// flow stacks block children and fills line boxes with inline content
// inside one block container.
type flow struct {
	le        *LayoutEngine
	x         float64 // Content-box left
	top       float64 // Content-box top
	y         float64 // Top of the next line or block
	width     float64
	refHeight float64
	shrink    bool

	line      []item
	lineWidth float64
	atSpace   bool // a collapsible space here would be dropped

	prevMargin float64 // Bottom margin of the last block, for collapsing
	used       float64 // Widest line or block seen
	inlines    []*Box  // Inline boxes to size once lines are placed
}

type item struct {
	box    *Box
	x      float64
	width  float64
	height float64
	noWrap bool
	space  bool
	atomic bool // box has its own subtree and moves as a whole
}

func newFlow(le *LayoutEngine, x, y, width, refHeight float64) *flow {
	return &flow{le: le, x: x, top: y, y: y, width: width, refHeight: refHeight, atSpace: true}
}

func (f *flow) height() float64 { return f.y - f.top }

func (f *flow) add(node *html.Node, parent *Box, parentStyle *css.Style) {
	if node.Type == html.TextNode {
		f.addText(node, parent, parentStyle)
		return
	}
	style := css.ComputeStyle(node, parentStyle)
	switch display := style.GetDisplay(); {
	case display == css.DisplayNone:
		return
	case display == css.DisplayBlock && !parent.Inline:
		f.addBlock(node, style, parent)
	case display == css.DisplayBlock, display == css.DisplayInlineBlock:
		f.addAtomic(f.le.layoutInlineBlock(node, style, parent, f.width, f.refHeight), parentStyle)
	case node.TagName == "br":
		_, h := f.le.measurer.Measure(" ", faceSpec(parentStyle))
		f.push(item{height: h, noWrap: true})
		f.breakLine()
	case node.TagName == "img":
		f.addImage(node, style, parent, parentStyle)
	default:
		f.addInline(node, style, parent)
	}
}

func (f *flow) addBlock(node *html.Node, style *css.Style, parent *Box) {
	f.breakLine()
	collapse := min(f.prevMargin, style.GetMargin().Top)
	b := f.le.layoutBlock(node, style, parent, f.x, f.y-collapse, f.width, f.refHeight, f.shrink)
	parent.Children = append(parent.Children, b)
	f.y = b.Y + b.Height + b.Padding.Vertical() + b.Margin.Bottom
	f.prevMargin = b.Margin.Bottom
	f.used = max(f.used, b.marginWidth())
	f.atSpace = true
}

func (f *flow) addAtomic(b *Box, containerStyle *css.Style) {
	b.Parent.Children = append(b.Parent.Children, b)
	f.push(item{box: b, width: b.marginWidth(), height: b.marginHeight(), noWrap: containerStyle.NoWrap(), atomic: true})
	f.atSpace = false
}

func (f *flow) addImage(node *html.Node, style *css.Style, parent *Box, parentStyle *css.Style) {
	src, _ := node.GetAttribute("src")
	w, h := f.le.imageSize(node, style, src, f.width)
	b := &Box{
		Node:      node,
		Style:     style,
		Parent:    parent,
		Width:     w,
		Height:    h,
		Margin:    style.GetMargin(),
		Padding:   style.GetPadding(),
		ImagePath: src,
	}
	f.le.boxes[node] = b
	f.addAtomic(b, parentStyle)
}

func (f *flow) addInline(node *html.Node, style *css.Style, parent *Box) {
	b := &Box{
		Node:    node,
		Style:   style,
		Parent:  parent,
		Margin:  style.GetMargin(),
		Padding: style.GetPadding(),
		Inline:  true,
	}
	f.le.boxes[node] = b
	parent.Children = append(parent.Children, b)
	f.inlines = append(f.inlines, b)

	if lead := b.Margin.Left + b.Padding.Left; lead > 0 {
		f.push(item{width: lead, noWrap: true})
		f.atSpace = false
	}
	for _, child := range node.Children {
		f.add(child, b, style)
	}
	if len(b.Children) == 0 {
		f.push(item{box: b, noWrap: true})
	}
	if trail := b.Margin.Right + b.Padding.Right; trail > 0 {
		f.push(item{width: trail, noWrap: true})
		f.atSpace = false
	}
}

func (f *flow) addText(node *html.Node, parent *Box, style *css.Style) {
	spec := faceSpec(style)
	noWrap := style.NoWrap()
	var tb *Box
	emit := func(s string, space bool) {
		if tb == nil {
			tb = &Box{Node: node, Style: style, Parent: parent, Inline: true}
			f.le.boxes[node] = tb
			parent.Children = append(parent.Children, tb)
			f.inlines = append(f.inlines, tb)
		}
		w, h := f.le.measurer.Measure(s, spec)
		frag := &Box{Node: node, Style: style, Parent: tb, Text: s, Face: spec, Width: w, Height: h}
		tb.Children = append(tb.Children, frag)
		f.push(item{box: frag, width: w, height: h, noWrap: noWrap, space: space})
	}

	if ws, _ := style.Get("white-space"); ws == "pre" {
		for i, ln := range strings.Split(node.Text, "\n") {
			if i > 0 {
				f.breakLine()
			}
			if ln != "" {
				emit(ln, false)
			}
		}
		f.atSpace = false
		return
	}

	collapsed := collapseSpace(node.Text)
	if f.atSpace {
		collapsed = strings.TrimPrefix(collapsed, " ")
	}
	if collapsed == "" {
		return
	}
	if noWrap {
		emit(collapsed, false)
		f.atSpace = strings.HasSuffix(collapsed, " ")
		return
	}
	for _, tok := range splitWords(collapsed) {
		if tok == " " {
			if f.atSpace {
				continue
			}
			emit(tok, true)
			f.atSpace = true
			continue
		}
		emit(tok, false)
		f.atSpace = false
	}
}

// push appends an item to the current line, starting a new line first when
// a breakable item would overflow.
func (f *flow) push(it item) {
	if !it.noWrap && !it.space && len(f.line) > 0 && f.lineWidth+it.width > f.width+epsilon {
		f.breakLine()
	}
	it.x = f.x + f.lineWidth
	f.lineWidth += it.width
	f.line = append(f.line, it)
}

// breakLine places the pending line: items sit on a common bottom edge.
func (f *flow) breakLine() {
	if len(f.line) == 0 {
		return
	}
	lineHeight := 0.0
	for _, it := range f.line {
		lineHeight = max(lineHeight, it.height)
	}
	for _, it := range f.line {
		if it.box == nil {
			continue
		}
		y := f.y + lineHeight - it.height
		if it.atomic {
			shift(it.box, it.x+it.box.Margin.Left-it.box.X, y+it.box.Margin.Top-it.box.Y)
			continue
		}
		it.box.X, it.box.Y = it.x, y
	}

	width := f.lineWidth
	for i := len(f.line) - 1; i >= 0 && f.line[i].space; i-- {
		width -= f.line[i].width
	}
	f.used = max(f.used, width)
	f.y += lineHeight
	f.line = f.line[:0]
	f.lineWidth = 0
	f.atSpace = true
	f.prevMargin = 0
}

// finish places the last line and sizes inline boxes to their fragments,
// innermost first.
func (f *flow) finish() {
	f.breakLine()
	for i := len(f.inlines) - 1; i >= 0; i-- {
		fitInline(f.inlines[i])
	}
}

func fitInline(b *Box) {
	if len(b.Children) == 0 {
		return
	}
	u := b.Children[0].Rect()
	for _, c := range b.Children[1:] {
		u = u.Union(c.Rect())
	}
	b.X = u.X - b.Padding.Left
	b.Y = u.Y - b.Padding.Top
	b.Width = u.Width
	b.Height = u.Height
}

func faceSpec(style *css.Style) text.FaceSpec {
	return text.FaceSpec{
		Size:   style.GetFontSize(),
		Bold:   style.GetFontWeight() == css.FontWeightBold,
		Italic: style.IsItalic(),
		Mono:   style.IsMonospace(),
	}
}

// collapseSpace folds runs of HTML whitespace into one space. No-break
// spaces are content and survive.
func collapseSpace(s string) string {
	var sb strings.Builder
	inSpace := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !inSpace {
				sb.WriteByte(' ')
			}
			inSpace = true
		default:
			sb.WriteRune(r)
			inSpace = false
		}
	}
	return sb.String()
}

// splitWords splits collapsed text into words and single spaces.
func splitWords(s string) []string {
	var out []string
	for i, w := range strings.Split(s, " ") {
		if i > 0 {
			out = append(out, " ")
		}
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
