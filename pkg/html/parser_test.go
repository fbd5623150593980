package html

import "testing"

func TestParser_SingleElement(t *testing.T) {
	doc, err := Parse("<div></div>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 1 {
		t.Errorf("expected 1 child, got %d", len(doc.Root.Children))
	}
	if doc.Root.Children[0].TagName != "div" {
		t.Errorf("expected tag 'div', got '%s'", doc.Root.Children[0].TagName)
	}
}

func TestParser_MarqueeAttributes(t *testing.T) {
	doc, err := Parse(`<marquee behavior="alternate" direction=up loop="3">Hello</marquee>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := doc.Root.Children[0]
	if m.TagName != "marquee" {
		t.Fatalf("expected marquee, got %q", m.TagName)
	}
	for name, want := range map[string]string{"behavior": "alternate", "direction": "up", "loop": "3"} {
		if got, _ := m.GetAttribute(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if m.TextContent() != "Hello" {
		t.Errorf("text = %q", m.TextContent())
	}
}

func TestParser_NestedElements(t *testing.T) {
	doc, err := Parse(`<marquee>Hello <b>big</b> world<marquee>inner</marquee></marquee>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer := doc.Root.Children[0]
	if len(outer.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(outer.Children))
	}
	if outer.Children[0].Text != "Hello " {
		t.Errorf("first text = %q", outer.Children[0].Text)
	}
	if outer.Children[1].TagName != "b" || outer.Children[1].Parent != outer {
		t.Error("second child should be <b> owned by outer")
	}
	if outer.Children[2].Text != " world" {
		t.Errorf("third text = %q", outer.Children[2].Text)
	}
	inner := outer.Children[3]
	if inner.TagName != "marquee" || inner.Parent != outer {
		t.Error("nested marquee should be a child of the outer one")
	}
}

func TestParser_ScriptsCollected(t *testing.T) {
	doc, err := Parse(`<body><script>var a = "<b>";</script><p>x</p><script type="text/javascript">a += 1</script></body>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Scripts) != 2 {
		t.Fatalf("expected 2 scripts, got %d", len(doc.Scripts))
	}
	if doc.Scripts[0] != `var a = "<b>";` {
		t.Errorf("script 0 = %q", doc.Scripts[0])
	}
	body := doc.Body()
	if body.TagName != "body" || len(body.Children) != 1 {
		t.Errorf("body should only contain <p>, has %d children", len(body.Children))
	}
}

func TestParser_StyleSkipped(t *testing.T) {
	doc, err := Parse(`<style>p { color: red }</style><p>x</p>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 1 || doc.Root.Children[0].TagName != "p" {
		t.Errorf("expected only <p>, got %d children", len(doc.Root.Children))
	}
}

func TestParser_VoidAndSelfClosing(t *testing.T) {
	doc, err := Parse(`<div>a<br>b<img src="x.png"/>c</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	div := doc.Root.Children[0]
	if len(div.Children) != 5 {
		t.Fatalf("expected 5 children, got %d", len(div.Children))
	}
	if len(div.Children[1].Children) != 0 || len(div.Children[3].Children) != 0 {
		t.Error("void elements should not have children")
	}
}

func TestParser_AutoCloseP(t *testing.T) {
	doc, err := Parse(`<p>one<div>two</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 2 {
		t.Errorf("expected <p> and <div> as siblings, got %d children", len(doc.Root.Children))
	}
}

func TestParser_Entities(t *testing.T) {
	doc, err := Parse(`<span>a&nbsp;b &amp; c</span>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Root.Children[0].TextContent(); got != "a\u00a0b & c" {
		t.Errorf("text = %q", got)
	}
}

func TestParser_UnmatchedEndTagIgnored(t *testing.T) {
	doc, err := Parse(`<div>x</span></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 1 || doc.Root.Children[0].TextContent() != "x" {
		t.Error("stray end tag should be ignored")
	}
}
