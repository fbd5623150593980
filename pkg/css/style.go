package css

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// ParseLength parses a length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// ResolveLength parses a pixel or percentage length. Percentages are taken
// of reference.
func ResolveLength(val string, reference float64) (float64, bool) {
	val = strings.TrimSpace(val)
	if pct, ok := strings.CutSuffix(val, "%"); ok {
		num, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return 0, false
		}
		return reference * num / 100, true
	}
	return ParseLength(val)
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }
func (e BoxEdge) Vertical() float64   { return e.Top + e.Bottom }

// GetMargin returns the margin values for all four sides
func (s *Style) GetMargin() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("margin-top"),
		Right:  s.getLengthOrZero("margin-right"),
		Bottom: s.getLengthOrZero("margin-bottom"),
		Left:   s.getLengthOrZero("margin-left"),
	}
}

// GetPadding returns the padding values for all four sides
func (s *Style) GetPadding() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("padding-top"),
		Right:  s.getLengthOrZero("padding-right"),
		Bottom: s.getLengthOrZero("padding-bottom"),
		Left:   s.getLengthOrZero("padding-left"),
	}
}

func (s *Style) getLengthOrZero(property string) float64 {
	val, ok := s.GetLength(property)
	if !ok {
		return 0
	}
	return val
}

// ParseInlineStyle parses a style attribute, expanding box shorthands.
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, decl := range strings.Split(styleAttr, ";") {
		property, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		value = strings.TrimSpace(value)
		if property == "" {
			continue
		}
		expandShorthand(style, property, value)
	}
	return style
}

func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, value)
	case "background":
		// Only the color part of the shorthand is honoured.
		for _, part := range strings.Fields(value) {
			if _, ok := ParseColor(part); ok {
				style.Set("background-color", part)
			}
		}
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands margin/padding shorthand
// Supports: "10px" (all), "10px 20px" (vertical horizontal),
// "10px 20px 30px" (top h bottom), "10px 20px 30px 40px" (t r b l)
func expandBoxProperty(style *Style, prefix, value string) {
	parts := strings.Fields(value)
	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(prefix+"-top", top)
	style.Set(prefix+"-right", right)
	style.Set(prefix+"-bottom", bottom)
	style.Set(prefix+"-left", left)
}

type Color struct {
	R, G, B uint8
	A       float64
}

var namedColors = map[string]Color{
	"red":     {255, 0, 0, 1},
	"green":   {0, 128, 0, 1},
	"blue":    {0, 0, 255, 1},
	"yellow":  {255, 255, 0, 1},
	"cyan":    {0, 255, 255, 1},
	"magenta": {255, 0, 255, 1},
	"white":   {255, 255, 255, 1},
	"black":   {0, 0, 0, 1},
	"gray":    {128, 128, 128, 1},
	"grey":    {128, 128, 128, 1},
	"orange":  {255, 165, 0, 1},
	"purple":  {128, 0, 128, 1},
	"pink":    {255, 192, 203, 1},
	"brown":   {165, 42, 42, 1},
	"lime":    {0, 255, 0, 1},
	"navy":    {0, 0, 128, 1},
	"teal":    {0, 128, 128, 1},
	"silver":  {192, 192, 192, 1},
	"maroon":  {128, 0, 0, 1},
	"olive":   {128, 128, 0, 1},
	"aqua":    {0, 255, 255, 1},
	"fuchsia": {255, 0, 255, 1},
}

// ParseColor accepts named colors, "transparent", and #rgb / #rrggbb hex.
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if colorStr == "transparent" {
		return Color{}, true
	}
	if c, ok := namedColors[colorStr]; ok {
		return c, true
	}
	if !strings.HasPrefix(colorStr, "#") {
		return Color{}, false
	}
	hex := colorStr
	if len(hex) == 4 {
		hex = fmt.Sprintf("#%c%c%c%c%c%c", hex[1], hex[1], hex[2], hex[2], hex[3], hex[3])
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, false
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: 1}, true
}

// RGBA returns the color as unit floats, the form gg expects.
func (c Color) RGBA() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, c.A
}

// GetFontSize returns the font-size in pixels (default: 16px)
func (s *Style) GetFontSize() float64 {
	if size, ok := s.GetLength("font-size"); ok {
		return size
	}
	return 16.0
}

// GetColor returns the text color (default: black)
func (s *Style) GetColor() Color {
	if colorStr, ok := s.Get("color"); ok {
		if color, ok := ParseColor(colorStr); ok {
			return color
		}
	}
	return Color{0, 0, 0, 1}
}

// GetBackgroundColor returns the background color, if one is set and opaque
// enough to paint.
func (s *Style) GetBackgroundColor() (Color, bool) {
	val, ok := s.Get("background-color")
	if !ok {
		return Color{}, false
	}
	c, ok := ParseColor(val)
	if !ok || c.A == 0 {
		return Color{}, false
	}
	return c, true
}

type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

// GetFontWeight returns the font-weight value (default: normal)
func (s *Style) GetFontWeight() FontWeight {
	if weight, ok := s.Get("font-weight"); ok {
		switch weight {
		case "bold", "bolder", "600", "700", "800", "900":
			return FontWeightBold
		}
	}
	return FontWeightNormal
}

// IsItalic reports font-style: italic or oblique.
func (s *Style) IsItalic() bool {
	v, _ := s.Get("font-style")
	return v == "italic" || v == "oblique"
}

// IsMonospace reports a monospace font-family.
func (s *Style) IsMonospace() bool {
	v, _ := s.Get("font-family")
	return strings.Contains(strings.ToLower(v), "monospace")
}

// GetLineHeight returns the line-height in pixels (default: 1.2 * font-size)
func (s *Style) GetLineHeight() float64 {
	if lh, ok := s.GetLength("line-height"); ok {
		return lh
	}
	return s.GetFontSize() * 1.2
}

type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayNone        DisplayType = "none"
)

// GetDisplay returns the display value (default: inline, as for unknown
// elements in a browser).
func (s *Style) GetDisplay() DisplayType {
	if display, ok := s.Get("display"); ok {
		switch display {
		case "block", "flex", "grid", "list-item", "table":
			return DisplayBlock
		case "inline-block", "inline-flex", "inline-grid", "inline-table":
			return DisplayInlineBlock
		case "none":
			return DisplayNone
		}
	}
	return DisplayInline
}

// IsHidden reports visibility: hidden or collapse.
func (s *Style) IsHidden() bool {
	v, _ := s.Get("visibility")
	return v == "hidden" || v == "collapse"
}

// ClipsOverflow reports whether content outside the box is clipped.
func (s *Style) ClipsOverflow() bool {
	v, _ := s.Get("overflow")
	return v == "hidden" || v == "clip" || v == "scroll" || v == "auto"
}

// NoWrap reports white-space values that forbid line breaking.
func (s *Style) NoWrap() bool {
	v, _ := s.Get("white-space")
	return v == "nowrap" || v == "pre"
}
