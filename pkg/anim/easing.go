package anim

import (
	"math"
	"strconv"
	"strings"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

// CubicBezier returns the CSS cubic-bezier(x1, y1, x2, y2) timing function.
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	// Polynomial coefficients, with P0 = (0,0) and P3 = (1,1).
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(s float64) float64 { return ((ax*s+bx)*s + cx) * s }
	sampleY := func(s float64) float64 { return ((ay*s+by)*s + cy) * s }
	slopeX := func(s float64) float64 { return (3*ax*s+2*bx)*s + cx }

	solve := func(x float64) float64 {
		s := x
		for i := 0; i < 8; i++ {
			dx := sampleX(s) - x
			if math.Abs(dx) < 1e-7 {
				return s
			}
			d := slopeX(s)
			if math.Abs(d) < 1e-6 {
				break
			}
			s -= dx / d
		}
		// Newton did not converge, bisect.
		lo, hi := 0.0, 1.0
		s = x
		for lo < hi {
			v := sampleX(s)
			if math.Abs(v-x) < 1e-7 {
				return s
			}
			if x > v {
				lo = s
			} else {
				hi = s
			}
			s = (lo + hi) / 2
			if hi-lo < 1e-9 {
				break
			}
		}
		return s
	}

	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return sampleY(solve(t))
	}
}

// Steps returns the CSS steps(n, jump-end) or steps(n, jump-start) function.
func Steps(n int, start bool) Easing {
	if n < 1 {
		n = 1
	}
	return func(t float64) float64 {
		if t >= 1 {
			return 1
		}
		if t <= 0 {
			if start {
				return 1 / float64(n)
			}
			return 0
		}
		k := math.Floor(t * float64(n))
		if start {
			k++
		}
		return math.Min(k/float64(n), 1)
	}
}

var namedEasings = map[string]Easing{
	"linear":      Linear,
	"ease":        CubicBezier(0.25, 0.1, 0.25, 1),
	"ease-in":     CubicBezier(0.42, 0, 1, 1),
	"ease-out":    CubicBezier(0, 0, 0.58, 1),
	"ease-in-out": CubicBezier(0.42, 0, 0.58, 1),
	"step-start":  Steps(1, true),
	"step-end":    Steps(1, false),
}

// ParseEasing resolves a CSS timing function. Unknown values report false
// and fall back to linear.
func ParseEasing(s string) (Easing, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if e, ok := namedEasings[s]; ok {
		return e, true
	}
	name, args, ok := splitFunction(s)
	if !ok {
		return Linear, false
	}
	switch name {
	case "cubic-bezier":
		if len(args) != 4 {
			return Linear, false
		}
		var v [4]float64
		for i, a := range args {
			f, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return Linear, false
			}
			v[i] = f
		}
		if v[0] < 0 || v[0] > 1 || v[2] < 0 || v[2] > 1 {
			return Linear, false
		}
		return CubicBezier(v[0], v[1], v[2], v[3]), true
	case "steps":
		if len(args) < 1 || len(args) > 2 {
			return Linear, false
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return Linear, false
		}
		start := len(args) == 2 && (args[1] == "start" || args[1] == "jump-start")
		return Steps(n, start), true
	}
	return Linear, false
}

func splitFunction(s string) (string, []string, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.TrimSpace(s[:open]), parts, true
}
