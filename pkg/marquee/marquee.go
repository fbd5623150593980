// Package marquee animates the content of <marquee>-style elements. The
// content is split into segments, measured once, and each segment is then
// driven through a two-step translation program per iteration.
package marquee

import (
	"context"
	"fmt"
	"sync"

	"marquee14/pkg/html"
)

// Surface is the page a marquee lives on. Every callback it is handed
// must run on the same cooperative loop as the rest of the page.
type Surface interface {
	// Display returns the computed display value of n.
	Display(n *html.Node) string
	// Reflow lays the page out again after the tree has changed.
	Reflow()
	// Measure returns n's untransformed bounding box.
	Measure(n *html.Node) Rect
	// Restyle applies n's inline style, starting any transition it
	// describes.
	Restyle(n *html.Node)
	// OnTransitionEnd calls fn once, when n's next transition finishes.
	OnTransitionEnd(n *html.Node, fn func()) (cancel func())
	// Defer calls fn on a later turn of the loop.
	Defer(fn func()) (cancel func())
}

// Instance is one running marquee.
type Instance struct {
	Host     *html.Node
	Config   Configuration
	Segments []Segment
	Extents  Extents
	Program  Program

	sched *Scheduler
}

func (in *Instance) State() State          { return in.sched.State() }
func (in *Instance) Done() <-chan struct{} { return in.sched.Done() }
func (in *Instance) Stop()                 { in.sched.Stop() }
func (in *Instance) Scheduler() *Scheduler { return in.sched }

// Attach styles host, splits and measures its content, selects the
// program and starts the scheduler. A host with nothing to animate
// returns ErrNoSegments and stays static.
func Attach(ctx context.Context, surface Surface, host *html.Node, cfg Configuration) (*Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	StyleHost(host, cfg, surface.Display(host))

	nodes := SegmentHost(host, cfg.Stagger, surface.Display)
	if len(nodes) == 0 {
		return nil, ErrNoSegments
	}
	surface.Reflow()

	segments := make([]Segment, len(nodes))
	for i, n := range nodes {
		segments[i] = Segment{Index: i, Element: n, Box: surface.Measure(n)}
	}
	extents := Measure(segments, surface.Measure(host))
	table := BuildSteps(extents)
	program, err := SelectProgram(&table, cfg.Behavior, cfg.Direction)
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", host.TagName, err)
	}

	for _, s := range segments {
		s.Element.SetStyle("visibility", "visible")
		surface.Restyle(s.Element)
	}

	in := &Instance{
		Host:     host,
		Config:   cfg,
		Segments: segments,
		Extents:  extents,
		Program:  program,
		sched:    NewScheduler(surface, program, segments, cfg),
	}
	in.sched.Start(ctx)
	return in, nil
}

// Registry tracks the live instance for each host so that attaching twice
// is harmless and detaching tears the right one down.
type Registry struct {
	surface Surface

	mu        sync.Mutex
	instances map[*html.Node]*Instance
	order     []*html.Node
}

func NewRegistry(surface Surface) *Registry {
	return &Registry{
		surface:   surface,
		instances: make(map[*html.Node]*Instance),
	}
}

// Attach starts a marquee on host unless one is already running there,
// in which case the existing instance is returned.
func (r *Registry) Attach(ctx context.Context, host *html.Node, cfg Configuration) (*Instance, error) {
	r.mu.Lock()
	if in, ok := r.instances[host]; ok {
		r.mu.Unlock()
		return in, nil
	}
	r.mu.Unlock()

	in, err := Attach(ctx, r.surface, host, cfg)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[host] = in
	r.order = append(r.order, host)
	return in, nil
}

// Detach stops the marquee on host. It reports whether one was running.
func (r *Registry) Detach(host *html.Node) bool {
	r.mu.Lock()
	in, ok := r.instances[host]
	if ok {
		delete(r.instances, host)
		for i, h := range r.order {
			if h == host {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	if ok {
		in.Stop()
	}
	return ok
}

func (r *Registry) Lookup(host *html.Node) (*Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.instances[host]
	return in, ok
}

// Instances returns the live instances in attach order.
func (r *Registry) Instances() []*Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Instance, 0, len(r.order))
	for _, h := range r.order {
		out = append(out, r.instances[h])
	}
	return out
}

// Close detaches every instance.
func (r *Registry) Close() {
	for _, in := range r.Instances() {
		r.Detach(in.Host)
	}
}
