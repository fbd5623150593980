package anim

import (
	"sync"
	"time"
)

// Offset is a translation from an element's laid-out position.
type Offset struct {
	X float64
	Y float64
}

// Transitions tracks the animated translation of every element that has
// been moved. Keys are opaque element handles.
type Transitions struct {
	loop *Loop

	mu        sync.Mutex
	resting   map[any]Offset
	running   map[any]*transition
	listeners map[any][]*listener
}

type transition struct {
	from, to Offset
	start    time.Duration
	duration time.Duration
	easing   Easing
	cancel   func()
}

type listener struct {
	fn func()
}

func NewTransitions(loop *Loop) *Transitions {
	return &Transitions{
		loop:      loop,
		resting:   make(map[any]Offset),
		running:   make(map[any]*transition),
		listeners: make(map[any][]*listener),
	}
}

// Translate moves key to target. A zero duration places it immediately and
// fires nothing; if it interrupts a running transition, the listeners
// waiting on that transition are dropped. Otherwise the offset is interpolated from its current
// visual position and finished listeners fire on the loop once duration
// has elapsed. Starting a new transition replaces a running one.
func (tr *Transitions) Translate(key any, target Offset, duration time.Duration, easing Easing) {
	if easing == nil {
		easing = Linear
	}
	now := tr.loop.Now()

	tr.mu.Lock()
	from := tr.offsetLocked(key, now)
	old, interrupted := tr.running[key]
	if interrupted {
		old.cancel()
		delete(tr.running, key)
	}
	if duration <= 0 {
		tr.resting[key] = target
		if interrupted {
			delete(tr.listeners, key)
		}
		tr.mu.Unlock()
		return
	}
	t := &transition{from: from, to: target, start: now, duration: duration, easing: easing}
	tr.running[key] = t
	tr.mu.Unlock()

	t.cancel = tr.loop.After(duration, func() { tr.finish(key, t) })
}

func (tr *Transitions) finish(key any, t *transition) {
	tr.mu.Lock()
	if tr.running[key] != t {
		tr.mu.Unlock()
		return
	}
	delete(tr.running, key)
	tr.resting[key] = t.to
	fired := tr.listeners[key]
	delete(tr.listeners, key)
	tr.mu.Unlock()

	for _, l := range fired {
		l.fn()
	}
}

// OnFinished registers a one-shot listener for the next transition of key
// to finish. The returned function removes it.
func (tr *Transitions) OnFinished(key any, fn func()) (cancel func()) {
	l := &listener{fn: fn}
	tr.mu.Lock()
	tr.listeners[key] = append(tr.listeners[key], l)
	tr.mu.Unlock()
	return func() {
		tr.mu.Lock()
		defer tr.mu.Unlock()
		ls := tr.listeners[key]
		for i, x := range ls {
			if x == l {
				tr.listeners[key] = append(ls[:i:i], ls[i+1:]...)
				break
			}
		}
		if len(tr.listeners[key]) == 0 {
			delete(tr.listeners, key)
		}
	}
}

// Offset returns the current visual offset of key.
func (tr *Transitions) Offset(key any) Offset {
	now := tr.loop.Now()
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.offsetLocked(key, now)
}

func (tr *Transitions) offsetLocked(key any, now time.Duration) Offset {
	t, ok := tr.running[key]
	if !ok {
		return tr.resting[key]
	}
	p := float64(now-t.start) / float64(t.duration)
	if p > 1 {
		p = 1
	}
	e := t.easing(p)
	return Offset{
		X: t.from.X + (t.to.X-t.from.X)*e,
		Y: t.from.Y + (t.to.Y-t.from.Y)*e,
	}
}

// Running reports whether key has a transition in flight.
func (tr *Transitions) Running(key any) bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	_, ok := tr.running[key]
	return ok
}

// Forget drops all state for key, cancelling any transition and listeners.
func (tr *Transitions) Forget(key any) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if t, ok := tr.running[key]; ok {
		t.cancel()
	}
	delete(tr.running, key)
	delete(tr.resting, key)
	delete(tr.listeners, key)
}
