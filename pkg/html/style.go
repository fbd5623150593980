package html

import (
	"sort"
	"strings"
)

// Style returns the value of a property from the node's inline style attribute.
func (n *Node) Style(prop string) (string, bool) {
	style, ok := n.GetAttribute("style")
	if !ok {
		return "", false
	}
	val, ok := ParseInlineDeclarations(style)[prop]
	return val, ok
}

// SetStyle writes a single property into the node's inline style attribute,
// keeping every other declaration.
func (n *Node) SetStyle(prop, value string) {
	style, _ := n.GetAttribute("style")
	decls := ParseInlineDeclarations(style)
	decls[strings.ToLower(prop)] = value
	n.SetAttribute("style", SerializeInlineDeclarations(decls))
}

// RemoveStyle deletes a property from the inline style attribute.
func (n *Node) RemoveStyle(prop string) {
	style, ok := n.GetAttribute("style")
	if !ok {
		return
	}
	decls := ParseInlineDeclarations(style)
	delete(decls, prop)
	if len(decls) == 0 {
		n.RemoveAttribute("style")
		return
	}
	n.SetAttribute("style", SerializeInlineDeclarations(decls))
}

// ParseInlineDeclarations splits a style attribute into property/value pairs.
// Property names are lower-cased; malformed declarations are skipped.
func ParseInlineDeclarations(s string) map[string]string {
	result := make(map[string]string)
	s = strings.TrimSpace(s)
	if s == "" {
		return result
	}
	for _, decl := range strings.Split(s, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		idx := strings.IndexByte(decl, ':')
		if idx < 0 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(decl[:idx]))
		val := strings.TrimSpace(decl[idx+1:])
		result[prop] = val
	}
	return result
}

// SerializeInlineDeclarations is the inverse of ParseInlineDeclarations.
// Properties are sorted so that serialized markup is stable.
func SerializeInlineDeclarations(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+m[k]+";")
	}
	return strings.Join(parts, " ")
}
