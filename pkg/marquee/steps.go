package marquee

import "fmt"

type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "Y"
	}
	return "X"
}

// Family is one of the three kinds of movement a direction supports.
type Family int

const (
	// FamilyOutside travels fully off the far edge.
	FamilyOutside Family = iota
	// FamilyInside travels edge to edge, ending flush with the container.
	FamilyInside
	// FamilyInsideOnly bounces between the container's two edges.
	FamilyInsideOnly
)

func (f Family) String() string {
	switch f {
	case FamilyOutside:
		return "outside"
	case FamilyInside:
		return "inside"
	case FamilyInsideOnly:
		return "insideOnly"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// StepSpec is one timed, single-axis translation from a segment's rest
// position. DurationBasis is a pixel distance; Duration converts it.
type StepSpec struct {
	Axis          Axis
	Distance      float64
	DurationBasis float64
	Reset         *StepSpec
}

// IsReset reports whether the step is an instantaneous placement.
func (s StepSpec) IsReset() bool {
	return s.DurationBasis == 0
}

// pixelsPerSecondPerAmount converts scrollamount to speed.
const pixelsPerSecondPerAmount = 11.8

// Duration returns the step's unscaled duration in seconds.
func (s StepSpec) Duration(scrollAmount float64) float64 {
	basis := s.DurationBasis
	if basis < 0 {
		basis = -basis
	}
	return basis / (pixelsPerSecondPerAmount * scrollAmount)
}

// StepTable holds every family for every direction.
type StepTable [4][3]StepSpec

// Get returns the step for a direction and family.
func (t *StepTable) Get(d Direction, f Family) StepSpec {
	return (*t)[d][f]
}

// BuildSteps computes the step table for a set of extents. It has no
// state: equal extents always yield equal tables.
func BuildSteps(e Extents) StepTable {
	span, maxH := e.SegmentSpanWidth, e.SegmentMaxHeight
	cw, ch := e.ContainerWidth, e.ContainerHeight

	var t StepTable
	set := func(d Direction, f Family, distance, basis float64) {
		t[d][f] = StepSpec{
			Axis:          d.Axis(),
			Distance:      distance,
			DurationBasis: basis,
			Reset:         &StepSpec{Axis: d.Axis(), Distance: distance},
		}
	}

	set(DirectionLeft, FamilyOutside, -span, span+cw)
	set(DirectionLeft, FamilyInside, 0, cw)
	set(DirectionLeft, FamilyInsideOnly, 0, cw-span)

	set(DirectionRight, FamilyOutside, cw, cw+span)
	set(DirectionRight, FamilyInside, cw-span, cw)
	set(DirectionRight, FamilyInsideOnly, cw-span, cw-span)

	set(DirectionUp, FamilyOutside, -maxH, maxH+ch)
	set(DirectionUp, FamilyInside, 0, ch)
	set(DirectionUp, FamilyInsideOnly, 0, ch-maxH)

	set(DirectionDown, FamilyOutside, ch, ch+maxH)
	set(DirectionDown, FamilyInside, ch-maxH, ch)
	set(DirectionDown, FamilyInsideOnly, ch-maxH, ch-maxH)

	return t
}
