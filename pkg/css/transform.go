package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Translation is the single-axis subset of CSS transforms a marquee uses.
type Translation struct {
	X float64
	Y float64
}

// ParseTranslate parses translateX(), translateY() and translate() with px
// arguments. Multiple functions are summed; anything else fails.
func ParseTranslate(value string) (Translation, bool) {
	var t Translation
	value = strings.TrimSpace(value)
	if value == "" || value == "none" {
		return t, true
	}
	for value != "" {
		open := strings.IndexByte(value, '(')
		closing := strings.IndexByte(value, ')')
		if open < 0 || closing < open {
			return Translation{}, false
		}
		name := strings.TrimSpace(value[:open])
		args := strings.Split(value[open+1:closing], ",")
		value = strings.TrimSpace(value[closing+1:])

		nums := make([]float64, 0, 2)
		for _, a := range args {
			n, ok := ParseLength(a)
			if !ok {
				return Translation{}, false
			}
			nums = append(nums, n)
		}
		switch {
		case name == "translateX" && len(nums) == 1:
			t.X += nums[0]
		case name == "translateY" && len(nums) == 1:
			t.Y += nums[0]
		case name == "translate" && len(nums) == 1:
			t.X += nums[0]
		case name == "translate" && len(nums) == 2:
			t.X += nums[0]
			t.Y += nums[1]
		default:
			return Translation{}, false
		}
	}
	return t, true
}

// FormatTranslateX renders a horizontal translation the way it is written
// into an inline style.
func FormatTranslateX(px float64) string {
	return "translateX(" + formatNumber(px) + "px)"
}

func FormatTranslateY(px float64) string {
	return "translateY(" + formatNumber(px) + "px)"
}

// Transition is a parsed single-property "transition" shorthand.
type Transition struct {
	Seconds float64
	Easing  string
}

// Duration is Seconds rounded to the nearest nanosecond.
func (t Transition) Duration() time.Duration {
	return SecondsDuration(t.Seconds)
}

// SecondsDuration rounds secs to the nearest nanosecond. Values beyond the
// range of time.Duration saturate.
func SecondsDuration(secs float64) time.Duration {
	ns := math.Round(secs * float64(time.Second))
	switch {
	case ns >= math.MaxInt64:
		return math.MaxInt64
	case ns <= math.MinInt64:
		return math.MinInt64
	}
	return time.Duration(ns)
}

// FormatTransition renders "<secs>s <easing>".
func FormatTransition(seconds float64, easing string) string {
	return formatNumber(seconds) + "s " + easing
}

// ParseTransition parses "<duration> [<easing>]". Durations accept s and ms.
func ParseTransition(value string) (Transition, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return Transition{}, fmt.Errorf("empty transition")
	}
	tr := Transition{Easing: "ease"}
	secs, err := parseTime(fields[0])
	if err != nil {
		return Transition{}, err
	}
	tr.Seconds = secs
	if len(fields) > 1 {
		tr.Easing = strings.Join(fields[1:], " ")
	}
	return tr, nil
}

func parseTime(v string) (float64, error) {
	div := 1.0
	switch {
	case strings.HasSuffix(v, "ms"):
		v = strings.TrimSuffix(v, "ms")
		div = 1000
	case strings.HasSuffix(v, "s"):
		v = strings.TrimSuffix(v, "s")
	default:
		return 0, fmt.Errorf("time %q has no unit", v)
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing time: %w", err)
	}
	return n / div, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
