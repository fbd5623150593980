package anim

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Chains of short timers nested deeper than this are clamped to
// minNestedDelay, the same rule browsers apply to setTimeout. A chain of
// zero-delay tasks therefore still moves virtual time forward.
const (
	maxZeroDelayNesting = 5
	minNestedDelay      = 4 * time.Millisecond
)

// Loop is a single-threaded cooperative event loop with a virtual clock.
// Tasks run one at a time, in due-time order and FIFO among equal times.
// Time only moves when Advance (or Run) is called, which makes every
// animation deterministic under test.
//
// Post and After may be called from any goroutine. Advance and Run must
// be driven from one goroutine.
type Loop struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	queue   timerQueue
	nesting int
}

type timer struct {
	at      time.Duration
	seq     uint64
	nesting int
	fn      func()
	index   int
	dead    bool
}

func NewLoop() *Loop {
	return &Loop{}
}

// Now returns the elapsed virtual time.
func (l *Loop) Now() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

// Post queues fn to run on the next turn of the loop.
func (l *Loop) Post(fn func()) {
	l.After(0, fn)
}

// After schedules fn to run d from now. The returned function cancels it
// if it has not run yet.
func (l *Loop) After(d time.Duration, fn func()) (cancel func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if d < 0 {
		d = 0
	}
	nesting := 1
	if d < minNestedDelay {
		nesting = l.nesting + 1
	}
	if nesting > maxZeroDelayNesting && d < minNestedDelay {
		d = minNestedDelay
	}
	l.seq++
	t := &timer{at: l.now + d, seq: l.seq, nesting: nesting, fn: fn}
	heap.Push(&l.queue, t)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if t.dead {
			return
		}
		t.dead = true
		if t.index >= 0 {
			heap.Remove(&l.queue, t.index)
		}
	}
}

// Pending reports the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queue.Len()
}

// Advance moves the clock forward by d, running every task that falls
// due on the way. Each task observes Now() equal to its own due time.
// It returns the number of tasks run.
func (l *Loop) Advance(d time.Duration) int {
	l.mu.Lock()
	target := l.now + d
	l.mu.Unlock()

	ran := 0
	for {
		l.mu.Lock()
		if l.queue.Len() == 0 || l.queue[0].at > target {
			l.now = target
			l.nesting = 0
			l.mu.Unlock()
			return ran
		}
		t := heap.Pop(&l.queue).(*timer)
		t.dead = true
		l.now = t.at
		l.nesting = t.nesting
		l.mu.Unlock()

		t.fn()
		ran++
	}
}

// Flush runs everything already due without moving the clock.
func (l *Loop) Flush() int {
	return l.Advance(0)
}

// Run drives the loop in real time until ctx is done, advancing the clock
// by the wall time elapsed between frames. onFrame, if set, is called
// after each advance.
func (l *Loop) Run(ctx context.Context, frame time.Duration, onFrame func(now time.Duration)) error {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			l.Advance(t.Sub(last))
			last = t
			if onFrame != nil {
				onFrame(l.Now())
			}
		}
	}
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
