package marquee

import (
	"testing"

	"marquee14/pkg/css"
	"marquee14/pkg/html"
)

func display(n *html.Node) string {
	return string(css.ComputeStyle(n, nil).GetDisplay())
}

func TestSegmentHostCounts(t *testing.T) {
	tests := []struct {
		stagger Stagger
		want    int
	}{
		{StaggerLetters, 19},
		{StaggerWords, 3},
		{StaggerNone, 1},
	}
	for _, tt := range tests {
		host := textHost("Hello Marquee World")
		segs := SegmentHost(host, tt.stagger, display)
		if len(segs) != tt.want {
			t.Errorf("%s: got %d segments, want %d", tt.stagger, len(segs), tt.want)
		}
		if len(host.Children) != tt.want {
			t.Errorf("%s: host has %d children, want %d", tt.stagger, len(host.Children), tt.want)
		}
	}
}

func TestSegmentLettersUseNonBreakingSpaces(t *testing.T) {
	host := textHost("  ab c  ")
	segs := SegmentHost(host, StaggerLetters, display)
	var got []string
	for _, s := range segs {
		got = append(got, s.TextContent())
	}
	want := []string{"a", "b", nbsp, "c"}
	if len(got) != len(want) {
		t.Fatalf("segments = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSegmentLettersKeepGraphemeClusters(t *testing.T) {
	host := textHost("e\u0301\U0001F469\u200d\U0001F4BB!")
	segs := SegmentHost(host, StaggerLetters, display)
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	if segs[0].TextContent() != "e\u0301" {
		t.Errorf("first segment = %q", segs[0].TextContent())
	}
}

func TestSegmentWordsCarrySpacer(t *testing.T) {
	host := textHost("Hello World")
	segs := SegmentHost(host, StaggerWords, display)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if got := segs[0].TextContent(); got != "Hello"+nbsp {
		t.Errorf("word segment = %q, want %q", got, "Hello"+nbsp)
	}
	if n := len(segs[0].Children); n != 2 {
		t.Errorf("word segment has %d children, want text and spacer", n)
	}
}

func TestSegmentStylesHideUntilMeasured(t *testing.T) {
	host := textHost("hi")
	for _, seg := range SegmentHost(host, StaggerLetters, display) {
		for prop, want := range map[string]string{
			"visibility":  "hidden",
			"display":     "inline-block",
			"will-change": "transform",
		} {
			if got, _ := seg.Style(prop); got != want {
				t.Errorf("%s = %q, want %q", prop, got, want)
			}
		}
	}
}

func TestSegmentNoneWrapsEverything(t *testing.T) {
	doc, err := html.Parse(`<body><marquee>one <b>two</b> three</marquee></body>`)
	if err != nil {
		t.Fatal(err)
	}
	host := doc.Root.ElementsByTagName("marquee")[0]
	before := host.TextContent()
	segs := SegmentHost(host, StaggerNone, display)
	if len(segs) != 1 || len(host.Children) != 1 {
		t.Fatalf("got %d segments, want one wrapper", len(segs))
	}
	wrapper := segs[0]
	if wrapper.TagName != "span" || len(wrapper.Children) != 3 {
		t.Errorf("wrapper = %s with %d children", wrapper.TagName, len(wrapper.Children))
	}
	if wrapper.TextContent() != before {
		t.Errorf("content changed: %q -> %q", before, wrapper.TextContent())
	}
	if _, ok := host.GetAttribute("aria-label"); ok {
		t.Error("unstaggered host should not get an aria-label")
	}
}

func TestSegmentElementsByDisplay(t *testing.T) {
	doc, err := html.Parse(`<body><marquee><b>x</b><div>y</div></marquee></body>`)
	if err != nil {
		t.Fatal(err)
	}
	host := doc.Root.ElementsByTagName("marquee")[0]
	segs := SegmentHost(host, StaggerLetters, display)

	// Inline <b>: one wrapper holding spacer, b, spacer.
	// Block <div>: spacer, div, spacer as three segments.
	if len(segs) != 4 {
		t.Fatalf("got %d segments, want 4", len(segs))
	}
	inline := segs[0]
	if len(inline.Children) != 3 || inline.Children[1].TagName != "b" {
		t.Errorf("inline wrapper children = %d", len(inline.Children))
	}
	if segs[2].TagName != "div" {
		t.Errorf("block element should stay unwrapped, got %s", segs[2].TagName)
	}
	if v, _ := segs[2].Style("visibility"); v != "hidden" {
		t.Errorf("block visibility = %q, want hidden", v)
	}
	if segs[1].TextContent() != nbsp || segs[3].TextContent() != nbsp {
		t.Error("block element should be flanked by spacers")
	}
}

func TestSegmentWordsInlineOnlyTrailingSpacer(t *testing.T) {
	doc, _ := html.Parse(`<body><marquee><i>x</i></marquee></body>`)
	host := doc.Root.ElementsByTagName("marquee")[0]
	segs := SegmentHost(host, StaggerWords, display)
	if len(segs) != 1 || len(segs[0].Children) != 2 {
		t.Fatalf("want one wrapper with element and spacer")
	}
	if segs[0].Children[0].TagName != "i" {
		t.Errorf("first child = %q, want i", segs[0].Children[0].TagName)
	}
}

func TestSegmentNestedMarquee(t *testing.T) {
	doc, err := html.Parse(`<body><marquee>a<marquee>inner text</marquee></marquee></body>`)
	if err != nil {
		t.Fatal(err)
	}
	all := doc.Root.ElementsByTagName("marquee")
	outer, inner := all[0], all[1]

	segs := SegmentHost(outer, StaggerLetters, display)
	if len(segs) != 2 || segs[1] != inner {
		t.Fatalf("nested marquee should be its own segment")
	}
	if v, _ := inner.Style("visibility"); v != "hidden" {
		t.Errorf("nested visibility = %q", v)
	}
	if len(inner.Children) != 1 {
		t.Error("nested marquee content should not be split by the outer one")
	}
	if _, ok := outer.GetAttribute("aria-label"); ok {
		t.Error("top-level host should not be labelled")
	}

	SegmentHost(inner, StaggerWords, display)
	if got, _ := inner.GetAttribute("aria-label"); got != "inner text" {
		t.Errorf("aria-label = %q, want %q", got, "inner text")
	}
}

func TestSegmentEmptyHost(t *testing.T) {
	host := html.NewElement("marquee")
	if segs := SegmentHost(host, StaggerLetters, display); len(segs) != 0 {
		t.Errorf("got %d segments for empty host", len(segs))
	}
}
