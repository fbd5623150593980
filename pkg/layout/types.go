package layout

import (
	"marquee14/pkg/css"
	"marquee14/pkg/html"
	"marquee14/pkg/text"
)

// Rect is a border-box rectangle in layout units.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Union returns the smallest rectangle covering both.
func (r Rect) Union(o Rect) Rect {
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	return Rect{X: x, Y: y, Width: max(r.Right(), o.Right()) - x, Height: max(r.Bottom(), o.Bottom()) - y}
}

type Box struct {
	Node     *html.Node
	Style    *css.Style
	X        float64 // Border-box left
	Y        float64 // Border-box top
	Width    float64 // Content width
	Height   float64 // Content height
	Margin   css.BoxEdge
	Padding  css.BoxEdge
	Children []*Box
	Parent   *Box

	// Text is set on the line fragments of a text node, measured with Face.
	Text string
	Face text.FaceSpec

	ImagePath string

	// Inline boxes have no geometry of their own; they are sized to cover
	// their fragments once the lines are placed.
	Inline bool
}

// Rect returns the border box.
func (b *Box) Rect() Rect {
	return Rect{X: b.X, Y: b.Y, Width: b.Width + b.Padding.Horizontal(), Height: b.Height + b.Padding.Vertical()}
}

// ContentX returns the left edge of the content box.
func (b *Box) ContentX() float64 { return b.X + b.Padding.Left }

// ContentY returns the top edge of the content box.
func (b *Box) ContentY() float64 { return b.Y + b.Padding.Top }

// marginWidth is the horizontal space the box takes in its container.
func (b *Box) marginWidth() float64 {
	return b.Width + b.Padding.Horizontal() + b.Margin.Horizontal()
}

// marginHeight is the vertical space the box takes in its container.
func (b *Box) marginHeight() float64 {
	return b.Height + b.Padding.Vertical() + b.Margin.Vertical()
}

// ImageSizer reports the natural size of an image source.
type ImageSizer interface {
	Dimensions(src string) (width, height int, err error)
}

type LayoutEngine struct {
	viewport struct {
		width  float64
		height float64
	}
	measurer text.Measurer
	images   ImageSizer
	boxes    map[*html.Node]*Box
}
