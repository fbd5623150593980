package layout

import (
	"marquee14/pkg/html"
	"marquee14/pkg/text"
)

// NewLayoutEngine creates an engine for the given viewport. A nil measurer
// falls back to text.EstimateMeasurer.
func NewLayoutEngine(viewportWidth, viewportHeight float64, measurer text.Measurer) *LayoutEngine {
	if measurer == nil {
		measurer = text.EstimateMeasurer{}
	}
	le := &LayoutEngine{
		measurer: measurer,
		boxes:    make(map[*html.Node]*Box),
	}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}

// SetImageSizer sets where <img> elements without explicit dimensions get
// their natural size.
func (le *LayoutEngine) SetImageSizer(sizer ImageSizer) {
	le.images = sizer
}

// SetViewport changes the viewport used by the next Layout.
func (le *LayoutEngine) SetViewport(width, height float64) {
	le.viewport.width = width
	le.viewport.height = height
}

// Viewport returns the viewport size.
func (le *LayoutEngine) Viewport() (width, height float64) {
	return le.viewport.width, le.viewport.height
}

// BoxFor returns the box generated for n by the last Layout. Nodes that are
// not rendered have none.
func (le *LayoutEngine) BoxFor(n *html.Node) (*Box, bool) {
	b, ok := le.boxes[n]
	return b, ok
}

// Rect returns n's border box from the last Layout, the zero rectangle for
// nodes without a box.
func (le *LayoutEngine) Rect(n *html.Node) Rect {
	if b, ok := le.boxes[n]; ok {
		return b.Rect()
	}
	return Rect{}
}
