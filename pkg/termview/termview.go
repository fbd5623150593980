// Package termview draws laid-out pages onto a terminal screen. Pages are
// laid out in pixels with a fixed cell size, then snapped to cells.
package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"marquee14/pkg/css"
	"marquee14/pkg/html"
	"marquee14/pkg/layout"
	"marquee14/pkg/text"
)

// One terminal cell in layout units.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Measurer measures text in whole cells.
func Measurer() text.Measurer {
	return text.CellMeasurer{CellWidth: CellWidth, CellHeight: CellHeight}
}

// Viewport returns the layout viewport covering cols x rows cells.
func Viewport(cols, rows int) (width, height float64) {
	return float64(cols * CellWidth), float64(rows * CellHeight)
}

type cellRect struct {
	left, top, right, bottom int
}

func (r cellRect) contains(x, y int) bool {
	return x >= r.left && x < r.right && y >= r.top && y < r.bottom
}

func (r cellRect) intersect(o cellRect) cellRect {
	return cellRect{max(r.left, o.left), max(r.top, o.top), min(r.right, o.right), min(r.bottom, o.bottom)}
}

// View paints box trees onto a tcell screen.
type View struct {
	screen     tcell.Screen
	offset     func(n *html.Node) (dx, dy float64)
	background tcell.Color
	clips      []cellRect
}

func New(screen tcell.Screen) *View {
	return &View{screen: screen, background: tcell.ColorDefault}
}

// SetOffsets sets the per-node translation applied while drawing.
func (v *View) SetOffsets(fn func(n *html.Node) (dx, dy float64)) { v.offset = fn }

// SetBackground sets the screen color painted before every frame.
func (v *View) SetBackground(c css.Color) {
	v.background = toColor(c)
}

// Draw clears the screen and paints boxes. It does not call Show.
func (v *View) Draw(boxes []*layout.Box) {
	v.screen.SetStyle(tcell.StyleDefault.Background(v.background))
	v.screen.Clear()
	w, h := v.screen.Size()
	v.clips = append(v.clips[:0], cellRect{0, 0, w, h})
	for _, b := range boxes {
		v.drawBox(b, 0, 0)
	}
}

func (v *View) drawBox(box *layout.Box, dx, dy float64) {
	if v.offset != nil && (box.Parent == nil || box.Parent.Node != box.Node) {
		ox, oy := v.offset(box.Node)
		dx, dy = dx+ox, dy+oy
	}

	if !box.Style.IsHidden() {
		if box.Node.Type == html.ElementNode {
			if c, ok := box.Style.GetBackgroundColor(); ok {
				v.fill(v.cells(box.Rect(), dx, dy), ' ', tcell.StyleDefault.Background(toColor(c)))
			}
		}
		if box.ImagePath != "" {
			v.fill(v.cells(box.Rect(), dx, dy), '░', tcell.StyleDefault)
		}
		if box.Text != "" {
			v.drawText(box, dx, dy)
		}
	}

	if len(box.Children) == 0 {
		return
	}
	clipped := !box.Inline && box.Style.ClipsOverflow()
	if clipped {
		top := v.clips[len(v.clips)-1]
		v.clips = append(v.clips, top.intersect(v.cells(box.Rect(), dx, dy)))
	}
	for _, c := range box.Children {
		v.drawBox(c, dx, dy)
	}
	if clipped {
		v.clips = v.clips[:len(v.clips)-1]
	}
}

func (v *View) drawText(box *layout.Box, dx, dy float64) {
	fg := tcell.ColorDefault
	if _, ok := box.Style.Get("color"); ok {
		fg = toColor(box.Style.GetColor())
	}
	var attrs tcell.AttrMask
	if box.Face.Bold {
		attrs |= tcell.AttrBold
	}
	if box.Face.Italic {
		attrs |= tcell.AttrItalic
	}

	col := snap(box.X+dx, CellWidth)
	row := snap(box.Y+dy, CellHeight)
	for _, r := range box.Text {
		if r == '\u00a0' {
			r = ' '
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if v.visible(col, row) {
			_, _, style, _ := v.screen.GetContent(col, row)
			v.screen.SetContent(col, row, r, nil, style.Foreground(fg).Attributes(attrs))
		}
		col += w
	}
}

func (v *View) fill(r cellRect, ch rune, style tcell.Style) {
	for y := r.top; y < r.bottom; y++ {
		for x := r.left; x < r.right; x++ {
			if v.visible(x, y) {
				v.screen.SetContent(x, y, ch, nil, style)
			}
		}
	}
}

func (v *View) visible(x, y int) bool {
	return v.clips[len(v.clips)-1].contains(x, y)
}

// cells snaps a layout rectangle, translated by dx, dy, to the cells it
// mostly covers.
func (v *View) cells(r layout.Rect, dx, dy float64) cellRect {
	return cellRect{
		left:   snap(r.X+dx, CellWidth),
		top:    snap(r.Y+dy, CellHeight),
		right:  snap(r.Right()+dx, CellWidth),
		bottom: snap(r.Bottom()+dy, CellHeight),
	}
}

func snap(v, cell float64) int {
	return int(math.Round(v / cell))
}

func toColor(c css.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
