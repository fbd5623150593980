package css

import (
	"testing"

	"marquee14/pkg/html"
)

func TestParseInlineStyle(t *testing.T) {
	style := ParseInlineStyle("width: 200px; margin: 0 10px; COLOR: red; bogus")
	if w, ok := style.GetLength("width"); !ok || w != 200 {
		t.Errorf("width = %v, %v", w, ok)
	}
	m := style.GetMargin()
	if m.Top != 0 || m.Right != 10 || m.Bottom != 0 || m.Left != 10 {
		t.Errorf("margin = %+v", m)
	}
	if c := style.GetColor(); c.R != 255 || c.G != 0 {
		t.Errorf("color = %+v", c)
	}
}

func TestResolveLength(t *testing.T) {
	tests := []struct {
		in   string
		ref  float64
		want float64
		ok   bool
	}{
		{"100px", 800, 100, true},
		{"100", 800, 100, true},
		{"50%", 800, 400, true},
		{" 12.5% ", 200, 25, true},
		{"auto", 800, 0, false},
		{"em%", 800, 0, false},
	}
	for _, tt := range tests {
		got, ok := ResolveLength(tt.in, tt.ref)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveLength(%q, %v) = %v, %v; want %v, %v", tt.in, tt.ref, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		ok      bool
	}{
		{"red", 255, 0, 0, true},
		{" Navy ", 0, 0, 128, true},
		{"#ff8000", 255, 128, 0, true},
		{"#0f0", 0, 255, 0, true},
		{"#zzzzzz", 0, 0, 0, false},
		{"chartreuse-ish", 0, 0, 0, false},
	}
	for _, tt := range tests {
		c, ok := ParseColor(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && (c.R != tt.r || c.G != tt.g || c.B != tt.b) {
			t.Errorf("ParseColor(%q) = %+v", tt.in, c)
		}
	}
	if c, ok := ParseColor("transparent"); !ok || c.A != 0 {
		t.Errorf("transparent = %+v, %v", c, ok)
	}
}

func TestDisplayDefaults(t *testing.T) {
	tests := []struct {
		tag  string
		want DisplayType
	}{
		{"span", DisplayInline},
		{"b", DisplayInline},
		{"pwc-marquee", DisplayInline},
		{"div", DisplayBlock},
		{"marquee", DisplayInline},
		{"img", DisplayInline},
		{"script", DisplayNone},
	}
	for _, tt := range tests {
		got := ComputeStyle(html.NewElement(tt.tag), nil).GetDisplay()
		if got != tt.want {
			t.Errorf("display(%s) = %s, want %s", tt.tag, got, tt.want)
		}
	}
}

func TestComputeStyleInheritance(t *testing.T) {
	parent := ComputeStyle(&html.Node{
		Type:       html.ElementNode,
		TagName:    "div",
		Attributes: map[string]string{"style": "color: blue; visibility: hidden; width: 10px"},
	}, nil)
	child := ComputeStyle(html.NewElement("span"), parent)
	if c := child.GetColor(); c.B != 255 {
		t.Errorf("color should inherit, got %+v", c)
	}
	if !child.IsHidden() {
		t.Error("visibility should inherit")
	}
	if _, ok := child.Get("width"); ok {
		t.Error("width must not inherit")
	}

	shown := html.NewElement("span")
	shown.SetStyle("visibility", "visible")
	if ComputeStyle(shown, parent).IsHidden() {
		t.Error("inline visibility should override the inherited value")
	}
}

func TestInlineStyleOverridesUserAgent(t *testing.T) {
	n := html.NewElement("marquee")
	n.SetStyle("display", "block")
	if got := ComputeStyle(n, nil).GetDisplay(); got != DisplayBlock {
		t.Errorf("display = %s", got)
	}
	if IsInlineLevel(n, nil) {
		t.Error("block marquee is not inline-level")
	}
	if !IsInlineLevel(html.NewElement("em"), nil) {
		t.Error("em is inline-level")
	}
}
