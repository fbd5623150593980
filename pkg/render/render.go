package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"marquee14/pkg/css"
	"marquee14/pkg/html"
	"marquee14/pkg/layout"
	"marquee14/pkg/text"
)

// FaceSource supplies font faces for text runs.
type FaceSource interface {
	Face(spec text.FaceSpec) (font.Face, error)
}

// ImageSource supplies decoded images for <img> boxes.
type ImageSource interface {
	Load(src string) (image.Image, error)
}

// OffsetFunc reports the visual translation of a node, on top of its
// laid-out position.
type OffsetFunc func(n *html.Node) (dx, dy float64)

type Renderer struct {
	context    *gg.Context
	faces      FaceSource
	images     ImageSource
	offset     OffsetFunc
	background css.Color
	clips      []layout.Rect
}

func NewRenderer(width, height int) *Renderer {
	return newRenderer(gg.NewContext(width, height))
}

// NewRendererForImage renders into an existing image.
func NewRendererForImage(target *image.RGBA) *Renderer {
	return newRenderer(gg.NewContextForRGBA(target))
}

func newRenderer(dc *gg.Context) *Renderer {
	return &Renderer{
		context:    dc,
		background: css.Color{R: 255, G: 255, B: 255, A: 1},
	}
}

// SetFonts sets where text faces come from. Without one, text is drawn in
// gg's built-in bitmap face.
func (r *Renderer) SetFonts(faces FaceSource) { r.faces = faces }

// SetImages sets where <img> content comes from.
func (r *Renderer) SetImages(images ImageSource) { r.images = images }

// SetOffsets sets the per-node translation applied while painting.
func (r *Renderer) SetOffsets(fn OffsetFunc) { r.offset = fn }

// SetBackground sets the canvas color painted before every frame.
func (r *Renderer) SetBackground(c css.Color) { r.background = c }

// Render paints the box tree in document order.
func (r *Renderer) Render(boxes []*layout.Box) {
	r.context.ResetClip()
	r.context.Identity()
	r.clips = r.clips[:0]
	r.context.SetRGBA(r.background.RGBA())
	r.context.Clear()
	for _, box := range boxes {
		r.drawBox(box, 0, 0)
	}
}

// drawBox paints box and its subtree; tx, ty is the translation already in
// effect on the context.
func (r *Renderer) drawBox(box *layout.Box, tx, ty float64) {
	dc := r.context
	dc.Push()
	defer dc.Pop()

	// Fragments share their node with the text box above them.
	if r.offset != nil && (box.Parent == nil || box.Parent.Node != box.Node) {
		if dx, dy := r.offset(box.Node); dx != 0 || dy != 0 {
			dc.Translate(dx, dy)
			tx, ty = tx+dx, ty+dy
		}
	}

	if !box.Style.IsHidden() {
		r.drawBackground(box)
		if box.Text != "" {
			r.drawText(box)
		}
		if box.ImagePath != "" {
			r.drawImage(box)
		}
	}

	if len(box.Children) == 0 {
		return
	}
	clipped := !box.Inline && box.Style.ClipsOverflow()
	if clipped {
		rect := box.Rect()
		rect.X += tx
		rect.Y += ty
		if n := len(r.clips); n > 0 {
			rect = intersect(rect, r.clips[n-1])
		}
		r.clips = append(r.clips, rect)
		r.applyClip(tx, ty)
	}
	for _, child := range box.Children {
		r.drawBox(child, tx, ty)
	}
	if clipped {
		r.clips = r.clips[:len(r.clips)-1]
		r.applyClip(tx, ty)
	}
}

// applyClip installs the innermost clip rectangle, or none. gg's Pop keeps
// the mask, so clips are tracked here in device space.
func (r *Renderer) applyClip(tx, ty float64) {
	dc := r.context
	dc.ResetClip()
	if len(r.clips) == 0 {
		return
	}
	c := r.clips[len(r.clips)-1]
	dc.DrawRectangle(c.X-tx, c.Y-ty, c.Width, c.Height)
	dc.Clip()
}

func intersect(a, b layout.Rect) layout.Rect {
	x, y := max(a.X, b.X), max(a.Y, b.Y)
	right, bottom := min(a.Right(), b.Right()), min(a.Bottom(), b.Bottom())
	return layout.Rect{X: x, Y: y, Width: max(right-x, 0), Height: max(bottom-y, 0)}
}

func (r *Renderer) drawBackground(box *layout.Box) {
	// Text fragments paint nothing behind themselves; their element does.
	if box.Node.Type == html.TextNode {
		return
	}
	c, ok := box.Style.GetBackgroundColor()
	if !ok {
		return
	}
	rect := box.Rect()
	if rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	r.context.SetRGBA(c.RGBA())
	r.context.DrawRectangle(rect.X, rect.Y, rect.Width, rect.Height)
	r.context.Fill()
}

func (r *Renderer) drawText(box *layout.Box) {
	dc := r.context
	ascent, descent := 11.0, 2.0 // gg's default 7x13 bitmap face
	if r.faces != nil {
		if face, err := r.faces.Face(box.Face); err == nil {
			dc.SetFontFace(face)
			m := face.Metrics()
			ascent, descent = fixedToFloat(m.Ascent), fixedToFloat(m.Descent)
		}
	}
	dc.SetRGBA(box.Style.GetColor().RGBA())

	baseline := box.Y + (box.Height-(ascent+descent))/2 + ascent
	dc.DrawString(box.Text, box.X, baseline)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// drawImage renders an image element, or a crossed placeholder when the
// image cannot be loaded.
func (r *Renderer) drawImage(box *layout.Box) {
	dc := r.context
	x, y := box.ContentX(), box.ContentY()
	if box.Width <= 0 || box.Height <= 0 {
		return
	}

	var img image.Image
	if r.images != nil {
		img, _ = r.images.Load(box.ImagePath)
	}
	if img == nil {
		dc.SetRGB(0.9, 0.9, 0.9)
		dc.DrawRectangle(x, y, box.Width, box.Height)
		dc.Fill()
		dc.SetRGB(0.5, 0.5, 0.5)
		dc.SetLineWidth(2)
		dc.DrawLine(x, y, x+box.Width, y+box.Height)
		dc.DrawLine(x+box.Width, y, x, y+box.Height)
		dc.Stroke()
		return
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}
	dc.Push()
	dc.Translate(x, y)
	dc.Scale(box.Width/float64(bounds.Dx()), box.Height/float64(bounds.Dy()))
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// Image returns the rendered frame.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}
