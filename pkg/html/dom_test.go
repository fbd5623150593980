package html

import "testing"

func makeTree() *Node {
	// <div id="parent"><span>hello</span><p>world</p></div>
	parent := &Node{
		Type:       ElementNode,
		TagName:    "div",
		Attributes: map[string]string{"id": "parent"},
		Children:   make([]*Node, 0),
	}
	span := &Node{Type: ElementNode, TagName: "span", Children: make([]*Node, 0)}
	span.AppendText("hello")
	parent.AddChild(span)

	p := &Node{Type: ElementNode, TagName: "p", Children: make([]*Node, 0)}
	p.AppendText("world")
	parent.AddChild(p)

	return parent
}

func TestRemoveChild(t *testing.T) {
	parent := makeTree()
	span := parent.Children[0]
	removed := parent.RemoveChild(span)
	if removed != span {
		t.Fatal("RemoveChild should return the removed child")
	}
	if span.Parent != nil {
		t.Error("removed child should have nil parent")
	}
	if len(parent.Children) != 1 {
		t.Errorf("expected 1 child, got %d", len(parent.Children))
	}
	if parent.Children[0].TagName != "p" {
		t.Error("remaining child should be <p>")
	}
}

func TestRemoveChildNotFound(t *testing.T) {
	parent := makeTree()
	other := &Node{Type: ElementNode, TagName: "em"}
	result := parent.RemoveChild(other)
	if result != nil {
		t.Error("RemoveChild of non-child should return nil")
	}
}

func TestInsertBefore(t *testing.T) {
	parent := makeTree()
	em := &Node{Type: ElementNode, TagName: "em", Children: make([]*Node, 0)}
	p := parent.Children[1] // <p>
	parent.InsertBefore(em, p)
	if len(parent.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(parent.Children))
	}
	if parent.Children[1] != em {
		t.Error("em should be at index 1")
	}
	if em.Parent != parent {
		t.Error("em.Parent should be parent")
	}
}

func TestInsertBeforeNilRef(t *testing.T) {
	parent := makeTree()
	em := &Node{Type: ElementNode, TagName: "em", Children: make([]*Node, 0)}
	parent.InsertBefore(em, nil)
	if parent.Children[len(parent.Children)-1] != em {
		t.Error("InsertBefore(nil) should append")
	}
}

func TestInsertBeforeReparent(t *testing.T) {
	parent := makeTree()
	span := parent.Children[0]
	// Insert span before <p>: moves span from index 0 to index 0 (before p, which is now at 0)
	p := parent.Children[1]
	parent.InsertBefore(span, p)
	if len(parent.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(parent.Children))
	}
	if parent.Children[0] != span {
		t.Error("span should remain at index 0")
	}
}

func TestContains(t *testing.T) {
	parent := makeTree()
	span := parent.Children[0]
	textNode := span.Children[0]

	if !parent.Contains(parent) {
		t.Error("node should contain itself")
	}
	if !parent.Contains(span) {
		t.Error("parent should contain child")
	}
	if !parent.Contains(textNode) {
		t.Error("parent should contain grandchild")
	}
	other := &Node{Type: ElementNode, TagName: "em"}
	if parent.Contains(other) {
		t.Error("parent should not contain unrelated node")
	}
}

func TestSerialize(t *testing.T) {
	parent := makeTree()
	got := parent.Serialize()
	want := "<span>hello</span><p>world</p>"
	if got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeOuter(t *testing.T) {
	parent := makeTree()
	got := parent.SerializeOuter()
	want := `<div id="parent"><span>hello</span><p>world</p></div>`
	if got != want {
		t.Errorf("SerializeOuter() = %q, want %q", got, want)
	}
}

func TestSerializeVoidElement(t *testing.T) {
	n := &Node{
		Type:       ElementNode,
		TagName:    "div",
		Children:   make([]*Node, 0),
	}
	br := &Node{Type: ElementNode, TagName: "br", Children: make([]*Node, 0)}
	n.AddChild(br)
	got := n.Serialize()
	want := "<br>"
	if got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeEscaping(t *testing.T) {
	n := &Node{
		Type:     ElementNode,
		TagName:  "p",
		Children: make([]*Node, 0),
	}
	n.AppendText(`<b>"hello" & 'world'</b>`)
	got := n.Serialize()
	want := `&lt;b&gt;"hello" &amp; 'world'&lt;/b&gt;`
	if got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeAttributes(t *testing.T) {
	n := &Node{
		Type:       ElementNode,
		TagName:    "a",
		Attributes: map[string]string{"href": "/test", "class": "link"},
		Children:   make([]*Node, 0),
	}
	n.AppendText("click")
	got := n.SerializeOuter()
	// Attributes sorted alphabetically
	want := `<a class="link" href="/test">click</a>`
	if got != want {
		t.Errorf("SerializeOuter() = %q, want %q", got, want)
	}
}

func TestSerializeNonBreakingSpace(t *testing.T) {
	n := NewElement("span")
	n.AppendText("a\u00a0b")
	if got := n.Serialize(); got != "a&nbsp;b" {
		t.Errorf("Serialize() = %q, want %q", got, "a&nbsp;b")
	}
}

func TestTextContent(t *testing.T) {
	parent := makeTree()
	if got := parent.TextContent(); got != "helloworld" {
		t.Errorf("TextContent() = %q, want %q", got, "helloworld")
	}
	parent.SetTextContent("replaced")
	if len(parent.Children) != 1 || parent.Children[0].Type != TextNode {
		t.Fatalf("expected a single text child, got %d children", len(parent.Children))
	}
	if parent.TextContent() != "replaced" {
		t.Errorf("TextContent() = %q after set", parent.TextContent())
	}
}

func TestReplaceChildren(t *testing.T) {
	parent := makeTree()
	span, p := parent.Children[0], parent.Children[1]
	wrapper := NewElement("span")
	wrapper.AddChild(span)
	wrapper.AddChild(p)
	parent.ReplaceChildren(wrapper)

	if len(parent.Children) != 1 || parent.Children[0] != wrapper {
		t.Fatalf("expected wrapper as only child, got %d children", len(parent.Children))
	}
	if wrapper.Parent != parent {
		t.Error("wrapper.Parent should be parent")
	}
	if span.Parent != wrapper || p.Parent != wrapper {
		t.Error("moved children should belong to wrapper")
	}
	if got := parent.Serialize(); got != "<span><span>hello</span><p>world</p></span>" {
		t.Errorf("Serialize() = %q", got)
	}
}

func TestAddChildReparents(t *testing.T) {
	a := NewElement("div")
	b := NewElement("div")
	child := NewText("x")
	a.AddChild(child)
	b.AddChild(child)
	if len(a.Children) != 0 {
		t.Errorf("old parent should lose the child, has %d", len(a.Children))
	}
	if child.Parent != b {
		t.Error("child.Parent should be the new parent")
	}
}

func TestElementsByTagName(t *testing.T) {
	outer := NewElement("marquee")
	inner := NewElement("marquee")
	outer.AddChild(NewElement("b"))
	outer.AddChild(inner)
	got := outer.ElementsByTagName("marquee")
	if len(got) != 2 || got[0] != outer || got[1] != inner {
		t.Errorf("expected [outer inner], got %d nodes", len(got))
	}
}

func TestInlineStyle(t *testing.T) {
	n := NewElement("span")
	n.SetStyle("visibility", "hidden")
	n.SetStyle("display", "inline-block")
	if got, _ := n.GetAttribute("style"); got != "display: inline-block; visibility: hidden;" {
		t.Errorf("style attribute = %q", got)
	}
	if v, ok := n.Style("visibility"); !ok || v != "hidden" {
		t.Errorf("Style(visibility) = %q, %v", v, ok)
	}
	n.SetStyle("visibility", "visible")
	if v, _ := n.Style("visibility"); v != "visible" {
		t.Errorf("Style(visibility) = %q after overwrite", v)
	}
	n.RemoveStyle("display")
	n.RemoveStyle("visibility")
	if _, ok := n.GetAttribute("style"); ok {
		t.Error("empty style attribute should be removed")
	}
}

func TestParseInlineDeclarations(t *testing.T) {
	decls := ParseInlineDeclarations(" Color: red ;; bogus; transform: translateX(-4px) ")
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d: %v", len(decls), decls)
	}
	if decls["color"] != "red" {
		t.Errorf("color = %q", decls["color"])
	}
	if decls["transform"] != "translateX(-4px)" {
		t.Errorf("transform = %q", decls["transform"])
	}
}
