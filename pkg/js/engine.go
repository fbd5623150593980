package js

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"marquee14/pkg/html"

	"github.com/dop251/goja"
)

// Host connects scripts to the page they run in.
type Host interface {
	// DefineElement registers a custom element name that should behave as
	// a marquee.
	DefineElement(name string) error
	// Connected and Disconnected are called for every element entering or
	// leaving the document, in tree order.
	Connected(n *html.Node)
	Disconnected(n *html.Node)
	// BoundingRect returns n's border box as x, y, width, height.
	BoundingRect(n *html.Node) [4]float64
	// After runs fn on the page's event loop once d has elapsed.
	After(d time.Duration, fn func()) (cancel func())
}

// Engine executes JavaScript against an HTML document's DOM.
type Engine struct {
	vm     *goja.Runtime
	host   Host
	logger *log.Logger
	dom    *domContext

	defined   map[string]goja.Value
	timers    map[int64]func()
	nextTimer int64
}

// New creates a new JS engine with a fresh goja runtime. A nil host runs
// scripts against a detached document with no timers; a nil logger
// discards console output.
func New(host Host, logger *log.Logger) *Engine {
	if host == nil {
		host = detachedHost{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	vm := goja.New()
	e := &Engine{
		vm:      vm,
		host:    host,
		logger:  logger,
		defined: make(map[string]goja.Value),
		timers:  make(map[int64]func()),
	}

	registerConsole(vm, logger)
	e.registerTimers()
	e.registerCustomElements()
	vm.Set("window", vm.GlobalObject())
	return e
}

// Execute runs all scripts from the document against the DOM, in order.
// A failing script does not stop the ones after it; the errors are
// returned joined.
func (e *Engine) Execute(doc *html.Document) error {
	e.Bind(doc)
	var errs []error
	for i, script := range doc.Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			errs = append(errs, fmt.Errorf("script %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Bind points the `document` global at doc.
func (e *Engine) Bind(doc *html.Document) {
	e.dom = registerDocument(e.vm, doc, e.host)
}

// RunString evaluates src in the page's global scope.
func (e *Engine) RunString(src string) (goja.Value, error) {
	return e.vm.RunString(src)
}

// Defined reports whether a script registered name with
// customElements.define.
func (e *Engine) Defined(name string) bool {
	_, ok := e.defined[name]
	return ok
}

// call invokes a script callback, logging rather than propagating errors:
// a callback failing on the event loop has no caller to report to.
func (e *Engine) call(fn goja.Callable, args ...goja.Value) {
	if _, err := fn(goja.Undefined(), args...); err != nil {
		e.logger.Printf("js: uncaught error in callback: %v", err)
	}
}

func (e *Engine) registerTimers() {
	vm := e.vm
	schedule := func(call goja.FunctionCall, repeat bool) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("callback is not a function"))
		}
		delay := time.Duration(call.Argument(1).ToFloat() * float64(time.Millisecond))
		if delay < 0 {
			delay = 0
		}
		var extra []goja.Value
		if len(call.Arguments) > 2 {
			extra = call.Arguments[2:]
		}

		e.nextTimer++
		id := e.nextTimer
		var arm func()
		arm = func() {
			e.timers[id] = e.host.After(delay, func() {
				if _, live := e.timers[id]; !live {
					return
				}
				if repeat {
					arm()
				} else {
					delete(e.timers, id)
				}
				e.call(fn, extra...)
			})
		}
		arm()
		return vm.ToValue(id)
	}
	cancelTimer := func(call goja.FunctionCall) goja.Value {
		id := call.Argument(0).ToInteger()
		if cancel, ok := e.timers[id]; ok {
			cancel()
			delete(e.timers, id)
		}
		return goja.Undefined()
	}

	vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value { return schedule(call, false) })
	vm.Set("setInterval", func(call goja.FunctionCall) goja.Value { return schedule(call, true) })
	vm.Set("clearTimeout", cancelTimer)
	vm.Set("clearInterval", cancelTimer)
}

func (e *Engine) registerCustomElements() {
	vm := e.vm
	registry := vm.NewObject()
	registry.Set("define", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !validCustomElementName(name) {
			panic(vm.NewGoError(fmt.Errorf("SyntaxError: %q is not a valid custom element name", name)))
		}
		if _, ok := e.defined[name]; ok {
			panic(vm.NewGoError(fmt.Errorf("NotSupportedError: %q has already been defined", name)))
		}
		if err := e.host.DefineElement(name); err != nil {
			panic(vm.NewGoError(err))
		}
		e.defined[name] = call.Argument(1)
		return goja.Undefined()
	})
	registry.Set("get", func(call goja.FunctionCall) goja.Value {
		if ctor, ok := e.defined[call.Argument(0).String()]; ok {
			return ctor
		}
		return goja.Undefined()
	})
	vm.Set("customElements", registry)
}

// validCustomElementName checks the parts of the naming rule that matter
// here: a lowercase ASCII letter first and a hyphen somewhere.
func validCustomElementName(name string) bool {
	if len(name) < 2 || name[0] < 'a' || name[0] > 'z' {
		return false
	}
	hyphen := false
	for _, r := range name {
		switch {
		case r == '-':
			hyphen = true
		case r >= 'A' && r <= 'Z', r == ' ':
			return false
		}
	}
	return hyphen
}

type detachedHost struct{}

func (detachedHost) DefineElement(string) error { return nil }
func (detachedHost) Connected(*html.Node)       {}
func (detachedHost) Disconnected(*html.Node)    {}

func (detachedHost) BoundingRect(*html.Node) [4]float64 { return [4]float64{} }

func (detachedHost) After(time.Duration, func()) func() { return func() {} }
