package marquee

import (
	"context"
	"fmt"
	"sync"

	"marquee14/pkg/css"
)

// Phase is where a segment is in its per-iteration step chain.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSetup
	PhaseStep0
	PhaseStep1
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSetup:
		return "setup"
	case PhaseStep0:
		return "step0"
	case PhaseStep1:
		return "step1"
	case PhaseTerminal:
		return "terminal"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// LoopState holds the counters the scheduler advances.
type LoopState struct {
	// TimesLooped counts iterations every segment has completed.
	TimesLooped                    int
	SegmentsCompletedThisIteration int
	SetupsIssued                   int
}

// State is a point-in-time snapshot of a scheduler.
type State struct {
	LoopState
	Running bool
	Phases  []Phase
}

// Scheduler drives every segment through the program. Each segment runs
// its steps independently; no segment starts iteration i+1 until all have
// finished iteration i. It waits on the surface for transitions to end,
// or for a deferred turn after an instantaneous placement, and checks for
// cancellation every time it resumes.
type Scheduler struct {
	surface  Surface
	program  Program
	segments []Segment
	loop     int
	amount   float64
	easing   string
	stagger  Stagger
	scale    float64

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once

	mu        sync.Mutex
	state     LoopState
	phases    []Phase
	setupDone []bool
	pending   []func()
	running   bool
	started   bool
}

func NewScheduler(surface Surface, program Program, segments []Segment, cfg Configuration) *Scheduler {
	return &Scheduler{
		surface:   surface,
		program:   program,
		segments:  segments,
		loop:      cfg.EffectiveLoop(),
		amount:    cfg.ScrollAmount,
		easing:    cfg.Easing,
		stagger:   cfg.Stagger,
		scale:     cfg.StaggerScale,
		done:      make(chan struct{}),
		phases:    make([]Phase, len(segments)),
		setupDone: make([]bool, len(segments)),
		pending:   make([]func(), len(segments)),
	}
}

// Start begins the first iteration. It returns immediately; the work runs
// as continuations on the surface. Cancelling ctx stops the scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	context.AfterFunc(s.ctx, s.stop)
	s.beginIteration()
}

// Stop cancels the scheduler and releases any pending waits. Segments are
// left wherever they are.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.stop()
}

// Done is closed once the scheduler has run its last iteration or has
// been stopped.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		LoopState: s.state,
		Running:   s.running,
		Phases:    append([]Phase(nil), s.phases...),
	}
}

// StaggerScale is the duration multiplier for the segment at index out of
// count. It runs linearly from 1 at the first segment to scale at the last.
func StaggerScale(index, count int, stagger Stagger, scale float64) float64 {
	if stagger == StaggerNone || count <= 1 || index <= 0 {
		return 1
	}
	if index >= count-1 {
		return scale
	}
	return float64(index)*(scale-1)/float64(count-1) + 1
}

// StepDuration returns the seconds segment i spends on step.
func (s *Scheduler) StepDuration(i int, step StepSpec) float64 {
	return step.Duration(s.amount) * StaggerScale(i, len(s.segments), s.stagger, s.scale)
}

func (s *Scheduler) beginIteration() {
	if s.ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	if s.loop != -1 && s.state.TimesLooped >= s.loop {
		s.mu.Unlock()
		s.stop()
		return
	}
	s.state.SegmentsCompletedThisIteration = 0
	s.mu.Unlock()

	for i := range s.segments {
		s.runSegment(i)
	}
}

func (s *Scheduler) runSegment(i int) {
	s.mu.Lock()
	setup := s.program.Setup != nil && !s.setupDone[i]
	if setup {
		s.setupDone[i] = true
		s.state.SetupsIssued++
	}
	s.mu.Unlock()

	step1 := func() { s.step(i, PhaseStep1, s.program.Steps[1], func() { s.segmentDone(i) }) }
	step0 := func() { s.step(i, PhaseStep0, s.program.Steps[0], step1) }
	if setup {
		s.step(i, PhaseSetup, *s.program.Setup, step0)
		return
	}
	step0()
}

// step applies one movement to segment i and arranges for next to run
// when it has finished.
func (s *Scheduler) step(i int, phase Phase, spec StepSpec, next func()) {
	if s.ctx.Err() != nil {
		return
	}
	seg := s.segments[i]
	// Surfaces run whole nanoseconds; a step that rounds to zero is an
	// instant placement and has no finished event to wait for.
	d := css.SecondsDuration(s.StepDuration(i, spec))

	s.mu.Lock()
	s.phases[i] = phase
	s.mu.Unlock()

	seg.Element.SetStyle("transition", css.FormatTransition(d.Seconds(), s.easing))
	seg.Element.SetStyle("transform", formatTransform(spec))

	resume := func() {
		s.mu.Lock()
		s.pending[i] = nil
		s.mu.Unlock()
		if s.ctx.Err() != nil {
			return
		}
		next()
	}
	var cancel func()
	if d > 0 {
		cancel = s.surface.OnTransitionEnd(seg.Element, resume)
	} else {
		cancel = s.surface.Defer(resume)
	}
	s.mu.Lock()
	s.pending[i] = cancel
	s.mu.Unlock()

	s.surface.Restyle(seg.Element)
}

func (s *Scheduler) segmentDone(i int) {
	s.mu.Lock()
	s.phases[i] = PhaseIdle
	s.state.SegmentsCompletedThisIteration++
	barrier := s.state.SegmentsCompletedThisIteration == len(s.segments)
	if barrier {
		s.state.TimesLooped++
	}
	s.mu.Unlock()

	if barrier {
		s.beginIteration()
	}
}

func (s *Scheduler) stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.running = false
		for i := range s.phases {
			s.phases[i] = PhaseTerminal
		}
		pending := s.pending
		s.pending = make([]func(), len(s.segments))
		cancel := s.cancel
		s.mu.Unlock()

		for _, c := range pending {
			if c != nil {
				c()
			}
		}
		if cancel != nil {
			cancel()
		}
		close(s.done)
	})
}

func formatTransform(spec StepSpec) string {
	if spec.Axis == AxisY {
		return css.FormatTranslateY(spec.Distance)
	}
	return css.FormatTranslateX(spec.Distance)
}
