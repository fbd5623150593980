package js

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"marquee14/pkg/css"
	"marquee14/pkg/html"

	"github.com/dop251/goja"
)

// domContext holds shared state for DOM bindings within a single execution.
// It maintains a node-to-proxy cache so the same JS object is returned for
// the same underlying *html.Node (needed for === identity checks).
type domContext struct {
	vm    *goja.Runtime
	doc   *html.Document
	host  Host
	cache map[*html.Node]goja.Value
}

func newDOMContext(vm *goja.Runtime, doc *html.Document, host Host) *domContext {
	return &domContext{
		vm:    vm,
		doc:   doc,
		host:  host,
		cache: make(map[*html.Node]goja.Value),
	}
}

// registerDocument sets up the global `document` object on the goja runtime.
func registerDocument(vm *goja.Runtime, doc *html.Document, host Host) *domContext {
	ctx := newDOMContext(vm, doc, host)

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		node := getElementById(doc.Root, call.Arguments[0].String())
		if node == nil {
			return goja.Null()
		}
		return ctx.elementProxy(node)
	})
	docObj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		tag := strings.ToLower(call.Arguments[0].String())
		return ctx.elementArray(descendantsByTag(doc.Root, tag))
	})
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
		}
		return ctx.elementProxy(html.NewElement(call.Arguments[0].String()))
	})
	docObj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		return ctx.elementProxy(html.NewText(text))
	})
	docObj.DefineAccessorProperty("body", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.elementProxy(doc.Body())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	docObj.DefineAccessorProperty("documentElement", vm.ToValue(func(goja.FunctionCall) goja.Value {
		for _, c := range doc.Root.Children {
			if c.Type == html.ElementNode {
				return ctx.elementProxy(c)
			}
		}
		return goja.Null()
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	vm.Set("document", docObj)
	vm.Set("getComputedStyle", func(call goja.FunctionCall) goja.Value {
		node := ctx.unwrapNode(call.Argument(0))
		if node == nil {
			panic(vm.NewTypeError("Failed to execute 'getComputedStyle': parameter 1 is not an Element"))
		}
		return ctx.computedStyle(node)
	})
	return ctx
}

// getElementById walks the tree and returns the first node with matching id.
func getElementById(node *html.Node, id string) *html.Node {
	if node.Type == html.ElementNode {
		if val, ok := node.Attributes["id"]; ok && val == id {
			return node
		}
	}
	for _, child := range node.Children {
		if found := getElementById(child, id); found != nil {
			return found
		}
	}
	return nil
}

// descendantsByTag collects the elements below node with the given tag,
// not node itself.
func descendantsByTag(node *html.Node, tag string) []*html.Node {
	var result []*html.Node
	for _, child := range node.Children {
		result = append(result, child.ElementsByTagName(tag)...)
	}
	return result
}

// connected reports whether node is part of the document tree.
func (ctx *domContext) connected(node *html.Node) bool {
	if ctx.doc == nil {
		return false
	}
	for n := node; n != nil; n = n.Parent {
		if n == ctx.doc.Root {
			return true
		}
	}
	return false
}

// each calls fn for node and its descendant elements in tree order.
func each(node *html.Node, fn func(*html.Node)) {
	if node.Type != html.ElementNode {
		return
	}
	fn(node)
	for _, c := range append([]*html.Node(nil), node.Children...) {
		each(c, fn)
	}
}

// insert moves child under parent before ref (nil appends), reporting
// the elements that leave and enter the document.
func (ctx *domContext) insert(parent, child, ref *html.Node) {
	if child.Contains(parent) {
		panic(ctx.vm.NewGoError(fmt.Errorf("HierarchyRequestError: the new child contains the parent")))
	}
	ctx.detach(child)
	parent.InsertBefore(child, ref)
	if ctx.connected(child) {
		each(child, ctx.host.Connected)
	}
}

// detach removes node from its parent, if any.
func (ctx *domContext) detach(node *html.Node) {
	if node.Parent == nil {
		return
	}
	wasConnected := ctx.connected(node)
	node.Parent.RemoveChild(node)
	if wasConnected {
		each(node, ctx.host.Disconnected)
	}
}

// clear removes all of node's children.
func (ctx *domContext) clear(node *html.Node) {
	for _, c := range append([]*html.Node(nil), node.Children...) {
		ctx.detach(c)
	}
}

// elementArray creates a JS array of Element proxies.
func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	values := make([]any, len(nodes))
	for i, n := range nodes {
		values[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(values...)
}

// elementProxy creates (or retrieves from cache) a JS DynamicObject wrapping an html.Node.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	return v
}

// unwrapNode extracts the *html.Node from a goja value that wraps an elementAccessor.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	for node, cached := range ctx.cache {
		if cached.SameAs(obj) {
			return node
		}
	}
	return nil
}

// nodeOrText unwraps a node argument, turning anything else into a text node.
func (ctx *domContext) nodeOrText(val goja.Value) *html.Node {
	if node := ctx.unwrapNode(val); node != nil {
		return node
	}
	return html.NewText(val.String())
}

// computedStyle returns a read-only snapshot of the node's resolved style
// with CSS property names in camelCase, colors as rgb()/rgba().
func (ctx *domContext) computedStyle(node *html.Node) goja.Value {
	var chain []*html.Node
	for n := node; n != nil && (ctx.doc == nil || n != ctx.doc.Root); n = n.Parent {
		chain = append(chain, n)
	}
	var style *css.Style
	for i := len(chain) - 1; i >= 0; i-- {
		style = css.ComputeStyle(chain[i], style)
	}

	obj := ctx.vm.NewObject()
	for prop, val := range style.Properties {
		if strings.HasSuffix(prop, "color") {
			if c, ok := css.ParseColor(val); ok {
				val = formatColor(c)
			}
		}
		obj.Set(kebabToCamel(prop), val)
	}
	obj.Set("display", string(style.GetDisplay()))
	obj.Set("getPropertyValue", func(call goja.FunctionCall) goja.Value {
		return obj.Get(kebabToCamel(call.Argument(0).String()))
	})
	return obj
}

func formatColor(c css.Color) string {
	if c.A >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// elementAccessor implements goja.DynamicObject to intercept property access
// on DOM element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"tagName", "nodeName", "nodeType", "nodeValue", "id", "className",
	"textContent", "innerHTML", "outerHTML",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "childNodes", "parentElement", "parentNode", "isConnected", "style",
	"appendChild", "removeChild", "insertBefore", "remove", "append", "replaceChildren",
	"firstChild", "lastChild", "nextSibling", "previousSibling",
	"contains", "hasChildNodes", "getElementsByTagName", "getBoundingClientRect",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	n := e.node

	switch key {
	case "nodeType":
		if n.Type == html.TextNode {
			return vm.ToValue(3) // Node.TEXT_NODE
		}
		return vm.ToValue(1) // Node.ELEMENT_NODE
	case "nodeName":
		if n.Type == html.TextNode {
			return vm.ToValue("#text")
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "nodeValue":
		if n.Type == html.TextNode {
			return vm.ToValue(n.Text)
		}
		return goja.Null()
	case "tagName":
		if n.Type == html.TextNode {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "id":
		id, _ := n.GetAttribute("id")
		return vm.ToValue(id)
	case "className":
		cls, _ := n.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(n.TextContent())
	case "innerHTML":
		return vm.ToValue(n.Serialize())
	case "outerHTML":
		return vm.ToValue(n.SerializeOuter())
	case "isConnected":
		return vm.ToValue(e.ctx.connected(n))
	case "style":
		return vm.NewDynamicObject(&styleAccessor{vm: vm, node: n})

	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			val, ok := n.GetAttribute(call.Argument(0).String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'setAttribute': 2 arguments required"))
			}
			n.SetAttribute(strings.ToLower(call.Arguments[0].String()), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			_, ok := n.GetAttribute(call.Argument(0).String())
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			n.RemoveAttribute(call.Argument(0).String())
			return goja.Undefined()
		})

	case "children":
		var elChildren []*html.Node
		for _, child := range n.Children {
			if child.Type == html.ElementNode {
				elChildren = append(elChildren, child)
			}
		}
		return e.ctx.elementArray(elChildren)
	case "childNodes":
		return e.ctx.elementArray(n.Children)
	case "parentElement", "parentNode":
		if n.Parent == nil || n.Parent.TagName == "document" {
			return goja.Null()
		}
		return e.ctx.elementProxy(n.Parent)
	case "firstChild":
		if len(n.Children) == 0 {
			return goja.Null()
		}
		return e.ctx.elementProxy(n.Children[0])
	case "lastChild":
		if len(n.Children) == 0 {
			return goja.Null()
		}
		return e.ctx.elementProxy(n.Children[len(n.Children)-1])
	case "nextSibling":
		return e.sibling(1)
	case "previousSibling":
		return e.sibling(-1)

	case "appendChild":
		return vm.ToValue(e.appendChildFn())
	case "removeChild":
		return vm.ToValue(e.removeChildFn())
	case "insertBefore":
		return vm.ToValue(e.insertBeforeFn())
	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			e.ctx.detach(n)
			return goja.Undefined()
		})
	case "append":
		return vm.ToValue(e.appendFn())
	case "replaceChildren":
		return vm.ToValue(e.replaceChildrenFn())

	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			other := e.ctx.unwrapNode(call.Argument(0))
			return vm.ToValue(other != nil && n.Contains(other))
		})
	case "hasChildNodes":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(len(n.Children) > 0)
		})
	case "getElementsByTagName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			tag := strings.ToLower(call.Argument(0).String())
			return e.ctx.elementArray(descendantsByTag(n, tag))
		})
	case "getBoundingClientRect":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			r := e.ctx.host.BoundingRect(n)
			obj := vm.NewObject()
			obj.Set("x", r[0])
			obj.Set("y", r[1])
			obj.Set("left", r[0])
			obj.Set("top", r[1])
			obj.Set("width", r[2])
			obj.Set("height", r[3])
			obj.Set("right", r[0]+r[2])
			obj.Set("bottom", r[1]+r[3])
			return obj
		})
	}
	return goja.Undefined()
}

func (e *elementAccessor) sibling(step int) goja.Value {
	parent := e.node.Parent
	if parent == nil {
		return goja.Null()
	}
	for i, c := range parent.Children {
		if c != e.node {
			continue
		}
		if j := i + step; j >= 0 && j < len(parent.Children) {
			return e.ctx.elementProxy(parent.Children[j])
		}
		break
	}
	return goja.Null()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.ctx.clear(e.node)
		e.node.SetTextContent(val.String())
		return true
	case "className":
		e.node.SetAttribute("class", val.String())
		return true
	case "id":
		e.node.SetAttribute("id", val.String())
		return true
	case "innerHTML":
		e.setInnerHTML(val.String())
		return true
	case "nodeValue":
		if e.node.Type == html.TextNode {
			e.node.Text = val.String()
		}
		return true
	}
	return false
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool {
	return false
}

func (e *elementAccessor) Keys() []string {
	return elementKeys
}

// styleAccessor maps JS camelCase property access to CSS kebab-case on the
// node's inline style attribute.
type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) Get(key string) goja.Value {
	if key == "cssText" {
		v, _ := s.node.GetAttribute("style")
		return s.vm.ToValue(v)
	}
	val, _ := s.node.Style(camelToKebab(key))
	return s.vm.ToValue(val)
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		s.node.SetAttribute("style", val.String())
		return true
	}
	v := val.String()
	if v == "" {
		s.node.RemoveStyle(camelToKebab(key))
		return true
	}
	s.node.SetStyle(camelToKebab(key), v)
	return true
}

func (s *styleAccessor) Has(key string) bool {
	return true
}

func (s *styleAccessor) Delete(key string) bool {
	s.node.RemoveStyle(camelToKebab(key))
	return true
}

func (s *styleAccessor) Keys() []string {
	style, _ := s.node.GetAttribute("style")
	decls := html.ParseInlineDeclarations(style)
	keys := make([]string, 0, len(decls))
	for k := range decls {
		keys = append(keys, kebabToCamel(k))
	}
	return keys
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// kebabToCamel converts a CSS property name to its camelCase form.
func kebabToCamel(s string) string {
	var sb strings.Builder
	upper := false
	for _, r := range s {
		if r == '-' {
			upper = sb.Len() > 0
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
