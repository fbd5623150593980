package marquee

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoSegments is returned by Attach when the host has no content to
// animate. The host is left styled but static.
var ErrNoSegments = errors.New("marquee: no segments to animate")

// ConfigurationError reports an option value that cannot be used.
type ConfigurationError struct {
	Option  string
	Value   string
	Allowed []string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("marquee: invalid %s %q: want one of %s", e.Option, e.Value, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("marquee: invalid %s %q: %s", e.Option, e.Value, e.Reason)
}

type Behavior int

const (
	BehaviorScroll Behavior = iota
	BehaviorSlide
	BehaviorAlternate
)

var behaviorNames = []string{"scroll", "slide", "alternate"}

func (b Behavior) String() string {
	if b < 0 || int(b) >= len(behaviorNames) {
		return fmt.Sprintf("Behavior(%d)", int(b))
	}
	return behaviorNames[b]
}

// ParseBehavior accepts the attribute spelling. Empty means scroll.
func ParseBehavior(s string) (Behavior, error) {
	i, err := parseEnum("behavior", s, behaviorNames)
	return Behavior(i), err
}

type Direction int

const (
	DirectionLeft Direction = iota
	DirectionRight
	DirectionUp
	DirectionDown
)

var directionNames = []string{"left", "right", "up", "down"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Opposite pairs left with right and up with down.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	case DirectionUp:
		return DirectionDown
	default:
		return DirectionUp
	}
}

func (d Direction) Axis() Axis {
	if d == DirectionUp || d == DirectionDown {
		return AxisY
	}
	return AxisX
}

// ParseDirection accepts the attribute spelling. Empty means left.
func ParseDirection(s string) (Direction, error) {
	i, err := parseEnum("direction", s, directionNames)
	return Direction(i), err
}

type Stagger int

const (
	StaggerNone Stagger = iota
	StaggerLetters
	StaggerWords
)

var staggerNames = []string{"none", "letters", "words"}

func (s Stagger) String() string {
	if s < 0 || int(s) >= len(staggerNames) {
		return fmt.Sprintf("Stagger(%d)", int(s))
	}
	return staggerNames[s]
}

// ParseStagger accepts the attribute spelling. Empty means none.
func ParseStagger(s string) (Stagger, error) {
	i, err := parseEnum("stagger", s, staggerNames)
	return Stagger(i), err
}

func parseEnum(option, s string, names []string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return 0, nil
	}
	for i, n := range names {
		if v == n {
			return i, nil
		}
	}
	return 0, &ConfigurationError{Option: option, Value: s, Allowed: names}
}

// Configuration is the resolved, immutable set of options for one marquee.
type Configuration struct {
	Behavior     Behavior
	Direction    Direction
	Loop         int // -1 loops forever
	ScrollAmount float64
	Easing       string
	Stagger      Stagger
	StaggerScale float64

	// Styling passthrough, applied to the host verbatim.
	BgColor string
	Width   string
	Height  string
	HSpace  string
	VSpace  string
}

// DefaultConfiguration returns the options a bare <marquee> gets.
func DefaultConfiguration() Configuration {
	return Configuration{
		Behavior:     BehaviorScroll,
		Direction:    DirectionLeft,
		Loop:         -1,
		ScrollAmount: 6,
		Easing:       "linear",
		Stagger:      StaggerNone,
		StaggerScale: 1,
	}
}

// EffectiveLoop is the number of iterations the scheduler runs. Slide
// always runs once.
func (c Configuration) EffectiveLoop() int {
	if c.Behavior == BehaviorSlide {
		return 1
	}
	return c.Loop
}

// Validate checks every option. Configurations built by hand must pass it
// before Attach accepts them.
func (c Configuration) Validate() error {
	if c.Behavior < BehaviorScroll || c.Behavior > BehaviorAlternate {
		return &ConfigurationError{Option: "behavior", Value: c.Behavior.String(), Allowed: behaviorNames}
	}
	if c.Direction < DirectionLeft || c.Direction > DirectionDown {
		return &ConfigurationError{Option: "direction", Value: c.Direction.String(), Allowed: directionNames}
	}
	if c.Stagger < StaggerNone || c.Stagger > StaggerWords {
		return &ConfigurationError{Option: "stagger", Value: c.Stagger.String(), Allowed: staggerNames}
	}
	if c.Loop < -1 {
		return &ConfigurationError{Option: "loop", Value: strconv.Itoa(c.Loop), Reason: "must be -1 or a count of zero or more"}
	}
	if !(c.ScrollAmount > 0) {
		return &ConfigurationError{Option: "scrollamount", Value: formatFloat(c.ScrollAmount), Reason: "must be greater than zero"}
	}
	if !(c.StaggerScale >= 0) {
		return &ConfigurationError{Option: "staggerscale", Value: formatFloat(c.StaggerScale), Reason: "must not be negative"}
	}
	return nil
}

// Attribute names recognised on a marquee host.
const (
	AttrBehavior     = "behavior"
	AttrDirection    = "direction"
	AttrLoop         = "loop"
	AttrScrollAmount = "scrollamount"
	AttrEasing       = "easing"
	AttrStagger      = "stagger"
	AttrStaggerScale = "staggerscale"
	AttrBgColor      = "bgcolor"
	AttrWidth        = "width"
	AttrHeight       = "height"
	AttrHSpace       = "hspace"
	AttrVSpace       = "vspace"
)

// ParseAttributes resolves a Configuration from element attributes. Any
// attribute that is absent or blank keeps its value from base.
func ParseAttributes(attrs map[string]string, base Configuration) (Configuration, error) {
	get := func(name string) (string, bool) {
		v := strings.TrimSpace(attrs[name])
		return v, v != ""
	}

	c := base
	var err error
	if v, ok := get(AttrBehavior); ok {
		if c.Behavior, err = ParseBehavior(v); err != nil {
			return Configuration{}, err
		}
	}
	if v, ok := get(AttrDirection); ok {
		if c.Direction, err = ParseDirection(v); err != nil {
			return Configuration{}, err
		}
	}
	if v, ok := get(AttrStagger); ok {
		if c.Stagger, err = ParseStagger(v); err != nil {
			return Configuration{}, err
		}
	}
	if v, ok := get(AttrLoop); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Configuration{}, &ConfigurationError{Option: AttrLoop, Value: v, Reason: "not an integer"}
		}
		c.Loop = n
	}
	if v, ok := get(AttrScrollAmount); ok {
		if c.ScrollAmount, err = parseNumber(AttrScrollAmount, v); err != nil {
			return Configuration{}, err
		}
	}
	if v, ok := get(AttrStaggerScale); ok {
		if c.StaggerScale, err = parseNumber(AttrStaggerScale, v); err != nil {
			return Configuration{}, err
		}
	}
	if v, ok := get(AttrEasing); ok {
		c.Easing = v
	}
	for name, dst := range map[string]*string{
		AttrBgColor: &c.BgColor,
		AttrWidth:   &c.Width,
		AttrHeight:  &c.Height,
		AttrHSpace:  &c.HSpace,
		AttrVSpace:  &c.VSpace,
	} {
		if v, ok := get(name); ok {
			*dst = v
		}
	}
	if err := c.Validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

func parseNumber(option, v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, &ConfigurationError{Option: option, Value: v, Reason: "not a number"}
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
