package js

import (
	"marquee14/pkg/html"

	"github.com/dop251/goja"
)

// appendChildFn returns a JS function that implements node.appendChild(child).
func (e *elementAccessor) appendChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'appendChild': 1 argument required"))
		}
		child := e.ctx.unwrapNode(call.Arguments[0])
		if child == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'appendChild': parameter is not a Node"))
		}
		e.ctx.insert(e.node, child, nil)
		return e.ctx.elementProxy(child)
	}
}

// removeChildFn returns a JS function that implements node.removeChild(child).
func (e *elementAccessor) removeChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': 1 argument required"))
		}
		child := e.ctx.unwrapNode(call.Arguments[0])
		if child == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': parameter is not a Node"))
		}
		if child.Parent != e.node {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': The node to be removed is not a child of this node"))
		}
		e.ctx.detach(child)
		return e.ctx.elementProxy(child)
	}
}

// insertBeforeFn returns a JS function that implements node.insertBefore(newNode, refNode).
func (e *elementAccessor) insertBeforeFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'insertBefore': 1 argument required"))
		}
		newChild := e.ctx.unwrapNode(call.Arguments[0])
		if newChild == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'insertBefore': parameter 1 is not a Node"))
		}
		refChild := e.ctx.unwrapNode(call.Argument(1))
		if refChild != nil && refChild.Parent != e.node {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'insertBefore': The node before which the new node is to be inserted is not a child of this node"))
		}
		e.ctx.insert(e.node, newChild, refChild)
		return e.ctx.elementProxy(newChild)
	}
}

// appendFn returns a JS function for element.append(...nodes).
// Accepts nodes and strings (strings become text nodes).
func (e *elementAccessor) appendFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		for _, arg := range call.Arguments {
			e.ctx.insert(e.node, e.ctx.nodeOrText(arg), nil)
		}
		return goja.Undefined()
	}
}

// replaceChildrenFn returns a JS function for element.replaceChildren(...nodes).
func (e *elementAccessor) replaceChildrenFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		nodes := make([]*html.Node, len(call.Arguments))
		for i, arg := range call.Arguments {
			nodes[i] = e.ctx.nodeOrText(arg)
		}
		e.ctx.clear(e.node)
		for _, n := range nodes {
			e.ctx.insert(e.node, n, nil)
		}
		return goja.Undefined()
	}
}

// setInnerHTML parses the markup and replaces the node's children with it.
func (e *elementAccessor) setInnerHTML(markup string) {
	e.ctx.clear(e.node)
	if markup == "" {
		return
	}
	frag, err := html.Parse(markup)
	if err != nil {
		panic(e.ctx.vm.NewGoError(err))
	}
	for _, child := range append([]*html.Node(nil), frag.Body().Children...) {
		e.ctx.insert(e.node, child, nil)
	}
}
