package css

import (
	"marquee14/pkg/html"
)

// inherited lists the properties a child takes from its parent when it does
// not set them itself.
var inherited = []string{
	"color", "font-size", "font-weight", "font-style", "font-family",
	"line-height", "white-space", "visibility",
}

// applyUserAgentStyles applies default browser styles based on element type
func applyUserAgentStyles(node *html.Node, style *Style) {
	if node.Type != html.ElementNode {
		return
	}
	switch node.TagName {
	case "html", "body", "div", "p", "section", "article", "header", "footer",
		"main", "nav", "aside", "ul", "ol", "li", "blockquote", "pre",
		"h1", "h2", "h3", "h4", "h5", "h6", "hr", "form", "figure", "table":
		style.Set("display", "block")
	case "head", "script", "style", "title", "meta", "link":
		style.Set("display", "none")
	case "a":
		style.Set("color", "#0645ad")
	case "b", "strong":
		style.Set("font-weight", "bold")
	case "i", "em", "cite", "var":
		style.Set("font-style", "italic")
	case "code", "kbd", "samp", "tt":
		style.Set("font-family", "monospace")
	}
	switch node.TagName {
	case "h1":
		style.Set("font-size", "32px")
		style.Set("font-weight", "bold")
	case "h2":
		style.Set("font-size", "24px")
		style.Set("font-weight", "bold")
	case "h3":
		style.Set("font-size", "18.72px")
		style.Set("font-weight", "bold")
	case "p":
		style.Set("margin-top", "16px")
		style.Set("margin-bottom", "16px")
	case "body":
		style.Set("margin-top", "8px")
		style.Set("margin-right", "8px")
		style.Set("margin-bottom", "8px")
		style.Set("margin-left", "8px")
	}
}

// ComputeStyle resolves a node's style: inherited values from parent, then
// user agent defaults, then the inline style attribute. Text nodes get
// the inherited values only.
func ComputeStyle(node *html.Node, parent *Style) *Style {
	style := NewStyle()
	if parent != nil {
		for _, prop := range inherited {
			if v, ok := parent.Get(prop); ok {
				style.Set(prop, v)
			}
		}
	}
	if node.Type != html.ElementNode {
		style.Set("display", "inline")
		return style
	}

	applyUserAgentStyles(node, style)

	if styleAttr, ok := node.GetAttribute("style"); ok {
		for property, value := range ParseInlineStyle(styleAttr).Properties {
			style.Set(property, value)
		}
	}
	return style
}

// IsInlineLevel reports whether node lays out inline (display: inline) once
// styles are resolved. This is the "computed display is inline" test a
// marquee uses when deciding how to wrap a child.
func IsInlineLevel(node *html.Node, parent *Style) bool {
	return ComputeStyle(node, parent).GetDisplay() == DisplayInline
}
