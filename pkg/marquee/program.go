package marquee

import "fmt"

// Program is the step sequence every segment runs each iteration, plus an
// optional placement applied once before the first iteration.
type Program struct {
	Setup *StepSpec
	Steps [2]StepSpec
}

// SelectProgram picks the program for a behavior and direction.
func SelectProgram(t *StepTable, b Behavior, d Direction) (Program, error) {
	if d < DirectionLeft || d > DirectionDown {
		return Program{}, &ConfigurationError{Option: AttrDirection, Value: d.String(), Allowed: directionNames}
	}
	opp := d.Opposite()
	switch b {
	case BehaviorScroll:
		return Program{Steps: [2]StepSpec{
			*t.Get(opp, FamilyOutside).Reset,
			t.Get(d, FamilyOutside),
		}}, nil
	case BehaviorSlide:
		return Program{Steps: [2]StepSpec{
			*t.Get(opp, FamilyOutside).Reset,
			t.Get(d, FamilyInside),
		}}, nil
	case BehaviorAlternate:
		return Program{
			Setup: t.Get(d, FamilyInside).Reset,
			Steps: [2]StepSpec{
				t.Get(opp, FamilyInsideOnly),
				t.Get(d, FamilyInsideOnly),
			},
		}, nil
	}
	return Program{}, fmt.Errorf("select program: %w", &ConfigurationError{Option: AttrBehavior, Value: b.String(), Allowed: behaviorNames})
}
