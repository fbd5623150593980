package marquee

import (
	"strings"

	"github.com/rivo/uniseg"

	"marquee14/pkg/html"
)

// nbsp keeps spaces inside a segment from collapsing.
const nbsp = "\u00a0"

// DisplayFunc reports the computed display value of a node.
type DisplayFunc func(n *html.Node) string

// Split turns a host's children into the ordered list of segment
// elements for the given stagger mode. Children are reparented into the
// returned nodes where they are wrapped; the caller installs the result
// as the host's new child list.
func Split(children []*html.Node, stagger Stagger, hostTag string, display DisplayFunc) []*html.Node {
	if stagger == StaggerNone {
		wrapper := newSegmentSpan()
		for _, c := range children {
			wrapper.AddChild(c)
		}
		return []*html.Node{wrapper}
	}

	var out []*html.Node
	for _, c := range children {
		switch {
		case c.Type == html.ElementNode && c.TagName == hostTag:
			hideForAnimation(c)
			out = append(out, c)

		case c.Type == html.TextNode:
			for _, tok := range splitText(strings.TrimSpace(c.Text), stagger) {
				seg := newSegmentSpan()
				seg.AppendText(strings.ReplaceAll(tok, " ", nbsp))
				if stagger == StaggerWords {
					seg.AddChild(newSpacer())
				}
				out = append(out, seg)
			}

		case display(c) == "inline":
			seg := newSegmentSpan()
			if stagger == StaggerLetters {
				seg.AddChild(newSpacer())
			}
			seg.AddChild(c)
			seg.AddChild(newSpacer())
			out = append(out, seg)

		default:
			hideForAnimation(c)
			if stagger == StaggerLetters {
				out = append(out, newSpacer())
			}
			out = append(out, c, newSpacer())
		}
	}
	return out
}

// splitText breaks trimmed text into letters (grapheme clusters) or words
// (runs between single spaces).
func splitText(s string, stagger Stagger) []string {
	if stagger == StaggerWords {
		return strings.Split(s, " ")
	}
	var letters []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		letters = append(letters, g.Str())
	}
	return letters
}

// SegmentHost splits host's children in place and returns the segment
// elements in document order. When staggering a marquee nested directly
// in another of the same tag, the host is labelled with its original text
// so assistive technology does not read the split letters.
func SegmentHost(host *html.Node, stagger Stagger, display DisplayFunc) []*html.Node {
	text := strings.TrimSpace(host.TextContent())
	children := append([]*html.Node(nil), host.Children...)
	if len(children) == 0 {
		return nil
	}

	segments := Split(children, stagger, host.TagName, display)
	host.ReplaceChildren(segments...)

	if stagger != StaggerNone && host.Parent != nil && host.Parent.Type == html.ElementNode && host.Parent.TagName == host.TagName {
		host.SetAttribute("aria-label", text)
	}
	return segments
}

func newSegmentSpan() *html.Node {
	n := html.NewElement("span")
	n.SetStyle("visibility", "hidden")
	n.SetStyle("display", "inline-block")
	n.SetStyle("will-change", "transform")
	return n
}

func newSpacer() *html.Node {
	n := html.NewElement("span")
	n.AppendText(nbsp)
	return n
}

func hideForAnimation(n *html.Node) {
	n.SetStyle("visibility", "hidden")
	n.SetStyle("will-change", "transform")
}
