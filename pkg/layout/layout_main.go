package layout

import (
	"strings"

	"marquee14/pkg/css"
	"marquee14/pkg/html"
)

// Layout lays out the document in the viewport and returns the boxes of the
// root's children. The node index used by Rect and BoxFor is rebuilt.
func (le *LayoutEngine) Layout(doc *html.Document) []*Box {
	le.boxes = make(map[*html.Node]*Box)
	if doc == nil || doc.Root == nil {
		return nil
	}
	root := &Box{Node: doc.Root, Style: css.NewStyle(), Width: le.viewport.width}
	f := newFlow(le, 0, 0, le.viewport.width, le.viewport.height)
	for _, child := range doc.Root.Children {
		f.add(child, root, root.Style)
	}
	f.finish()
	root.Height = f.height()
	for _, b := range root.Children {
		b.Parent = nil
	}
	return root.Children
}

// layoutBlock lays out a block container whose margin box starts at (x, y)
// in a containing block avail wide. refHeight is the containing block's
// height for percentages, zero when that height depends on content. When
// shrink is set and no width is given, the box is as wide as its content.
func (le *LayoutEngine) layoutBlock(node *html.Node, style *css.Style, parent *Box, x, y, avail, refHeight float64, shrink bool) *Box {
	box := &Box{
		Node:    node,
		Style:   style,
		Parent:  parent,
		Margin:  style.GetMargin(),
		Padding: style.GetPadding(),
	}
	le.boxes[node] = box
	box.X = x + box.Margin.Left
	box.Y = y + box.Margin.Top

	width, fixedWidth := resolveLength(style, "width", avail)
	if !fixedWidth {
		width = max(avail-box.Margin.Horizontal()-box.Padding.Horizontal(), 0)
	}
	height, fixedHeight := resolveLength(style, "height", refHeight)
	childRef := 0.0
	if fixedHeight {
		childRef = height
	}

	f := newFlow(le, box.ContentX(), box.ContentY(), width, childRef)
	f.shrink = shrink && !fixedWidth
	for _, child := range node.Children {
		f.add(child, box, style)
	}
	f.finish()

	box.Width = width
	if f.shrink {
		box.Width = f.used
	}
	box.Height = f.height()
	if fixedHeight {
		box.Height = height
	}
	return box
}

// layoutInlineBlock lays out an atomic inline box at the origin; the line
// it lands on moves it into place.
func (le *LayoutEngine) layoutInlineBlock(node *html.Node, style *css.Style, parent *Box, avail, refHeight float64) *Box {
	box := le.layoutBlock(node, style, parent, 0, 0, avail, refHeight, true)
	if _, fixed := resolveLength(style, "width", avail); fixed {
		return box
	}
	// Second pass at the shrunk width so block children stretch to it.
	fit := box.Width + box.Margin.Horizontal() + box.Padding.Horizontal()
	return le.layoutBlock(node, style, parent, 0, 0, fit, refHeight, false)
}

// imageSize returns an <img>'s content size: attributes, then style, then
// the natural size, keeping the aspect ratio when one side is given.
func (le *LayoutEngine) imageSize(node *html.Node, style *css.Style, src string, avail float64) (float64, float64) {
	var w, h float64
	var hasW, hasH bool
	if v, ok := node.GetAttribute("width"); ok {
		w, hasW = css.ParseLength(v)
	}
	if v, ok := node.GetAttribute("height"); ok {
		h, hasH = css.ParseLength(v)
	}
	if v, ok := resolveLength(style, "width", avail); ok {
		w, hasW = v, true
	}
	if v, ok := resolveLength(style, "height", 0); ok {
		h, hasH = v, true
	}
	if hasW && hasH {
		return w, h
	}

	var nw, nh float64
	if le.images != nil && src != "" {
		if iw, ih, err := le.images.Dimensions(src); err == nil {
			nw, nh = float64(iw), float64(ih)
		}
	}
	switch {
	case hasW && nw > 0:
		return w, w * nh / nw
	case hasH && nh > 0:
		return h * nw / nh, h
	case hasW:
		return w, 0
	case hasH:
		return 0, h
	}
	return nw, nh
}

// resolveLength reads a width or height property. Percentages against an
// unknown (zero) reference and "auto" count as unset.
func resolveLength(style *css.Style, property string, reference float64) (float64, bool) {
	v, ok := style.Get(property)
	if !ok {
		return 0, false
	}
	v = strings.TrimSpace(v)
	if v == "" || v == "auto" {
		return 0, false
	}
	if strings.HasSuffix(v, "%") && reference <= 0 {
		return 0, false
	}
	n, ok := css.ResolveLength(v, reference)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

func shift(b *Box, dx, dy float64) {
	b.X += dx
	b.Y += dy
	for _, c := range b.Children {
		shift(c, dx, dy)
	}
}
