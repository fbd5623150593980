package marquee

import "marquee14/pkg/html"

// Rect is an untransformed bounding box in surface units.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Segment is one independently animated unit of a marquee's content.
type Segment struct {
	Index   int
	Element *html.Node
	Box     Rect
}

// Extents are the aggregate measurements the step table is built from.
type Extents struct {
	SegmentSpanWidth float64
	SegmentMaxHeight float64
	ContainerWidth   float64
	ContainerHeight  float64
}

// Measure derives extents from segment and container boxes. The span is
// taken from the first segment's left edge to the last segment's right
// edge in document order, not from the visual extremes.
func Measure(segments []Segment, container Rect) Extents {
	e := Extents{
		ContainerWidth:  container.Width,
		ContainerHeight: container.Height,
	}
	if len(segments) == 0 {
		return e
	}
	e.SegmentSpanWidth = segments[len(segments)-1].Box.Right() - segments[0].Box.Left
	for _, s := range segments {
		if s.Box.Height > e.SegmentMaxHeight {
			e.SegmentMaxHeight = s.Box.Height
		}
	}
	return e
}
