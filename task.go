package oroboro

// Task is a suspendable computation expressed as a sequence of yielded
// Directive values, terminating in Done. Tasks are coroutines driven one
// Step at a time by an Engine; nothing here ever runs on its own
// goroutine.
type Task interface {
	Step(eng *Engine) Directive
}

// Sink receives the emissions and completion signal of a child task: the
// operator task that spawned it, or, at the top of an Always driver, an
// adapter routing straight to the assertion's callbacks.
type Sink interface {
	// Emit delivers an outcome produced by the child occupying slot.
	Emit(eng *Engine, slot int, outcome Outcome)
	// Done signals that the child occupying slot has completed and will
	// emit nothing further.
	Done(eng *Engine, slot int)
}

// TaskHandle is the engine's bookkeeping record for one scheduled
// instance of a Task: which Sink, if any, receives its emissions, which
// slot it occupies in that sink, and whether its owner has cancelled it.
//
// The code constructing a child task allocates its TaskHandle itself (so
// it can retain the pointer for a later Cancel, as FirstOf does) and
// hands it to the engine via the Spawn directive, or to Engine.Start for
// a task with no parent.
type TaskHandle struct {
	Task Task
	Sink Sink
	Slot int

	id        uint64
	cancelled bool
}

// ID returns the handle's engine-scoped identity, stamped once it is
// handed to an Engine via Start or the Spawn directive. Zero before then.
func (h *TaskHandle) ID() uint64 { return h.id }

// Cancel marks the task cancelled. Its next directive dispatch
// transitions to Done without further emissions.
func (h *TaskHandle) Cancel() { h.cancelled = true }

// Cancelled reports whether Cancel has been called.
func (h *TaskHandle) Cancelled() bool { return h.cancelled }

// Directive is the tagged value a Task yields from Step, interpreted by
// the Engine's dispatch loop.
type Directive interface{ isDirective() }

// WaitEvent suspends the task until Event is next posted.
type WaitEvent struct{ Event *Event }

// WaitTimeout schedules a wake at now+Delta. A Delta of zero re-queues
// the task at the back of the ready queue at the current virtual time.
type WaitTimeout struct{ Delta VirtualTime }

// Spawn pushes Handle.Task into the ready queue. It does not suspend the
// spawning task: the engine calls Step on it again immediately.
type Spawn struct{ Handle *TaskHandle }

// Emit delivers Outcome to the task's sink. It does not suspend the
// task: the engine calls Step on it again immediately.
type Emit struct{ Outcome Outcome }

// Done signals that the task will yield nothing further; the engine
// notifies its sink, if any, and drops it.
type Done struct{}

func (WaitEvent) isDirective()   {}
func (WaitTimeout) isDirective() {}
func (Spawn) isDirective()       {}
func (Emit) isDirective()        {}
func (Done) isDirective()        {}

// inboxMsg is one message delivered to a task acting as a Sink for its
// children: either an emitted outcome, or a completion signal.
type inboxMsg struct {
	slot    int
	outcome Outcome
	done    bool
}

// inbox buffers messages from a task's children and implements the
// suspend/wake mechanics every combinator uses: a task always drains its
// inbox before yielding WaitEvent, so a message delivered before the task
// ever waits is never lost. It is simply processed eagerly, without any
// suspension at all, which sidesteps the "posted before waited" rule that
// applies to ordinary Event wakeups.
type inbox struct {
	pending []inboxMsg
	waiting bool
	wake    *Event
}

func (b *inbox) push(eng *Engine, msg inboxMsg) {
	b.pending = append(b.pending, msg)
	if b.waiting {
		b.waiting = false
		eng.postNow(b.wake)
	}
}

func (b *inbox) pop() (inboxMsg, bool) {
	if len(b.pending) == 0 {
		return inboxMsg{}, false
	}
	m := b.pending[0]
	b.pending = b.pending[1:]
	return m, true
}

func (b *inbox) waitDirective(eng *Engine) Directive {
	if b.wake == nil {
		b.wake = eng.NewEvent()
	}
	b.waiting = true
	return WaitEvent{Event: b.wake}
}

// directiveQueue is a small FIFO of directives a task has decided to
// yield but cannot return all at once: Step returns exactly one per
// call.
type directiveQueue struct {
	items []Directive
}

func (q *directiveQueue) push(d Directive) { q.items = append(q.items, d) }

func (q *directiveQueue) empty() bool { return len(q.items) == 0 }

func (q *directiveQueue) pop() Directive {
	d := q.items[0]
	q.items = q.items[1:]
	return d
}

// delayedTask suspends until sampler next posts, then constructs and
// delegates to an inner task. Concat and Cond both need to advance one
// cycle (wait for the next sampling event) before starting a
// continuation, without blocking the rest of the operator that spawned
// it; wrapping the continuation in a delayedTask lets it be spawned and
// scheduled like any other child.
type delayedTask struct {
	sampler   *Event
	waited    bool
	makeInner func() Task
	inner     Task
}

func delayByEvent(sampler *Event, makeInner func() Task) Task {
	return &delayedTask{sampler: sampler, makeInner: makeInner}
}

func (t *delayedTask) Step(eng *Engine) Directive {
	if t.inner != nil {
		return t.inner.Step(eng)
	}
	if !t.waited {
		t.waited = true
		return WaitEvent{Event: t.sampler}
	}
	t.inner = t.makeInner()
	return t.inner.Step(eng)
}

// mapTraceTask delegates every Step to inner, rewriting the Trace of any
// Emit directive that passes through. Used by Repeat to flatten a nested
// Concat chain into a flat list-of-inners trace, and it composes cleanly
// with cancellation and suspension since every other directive is
// forwarded untouched.
type mapTraceTask struct {
	inner     Task
	transform func(TraceNode) TraceNode
}

func (t *mapTraceTask) Step(eng *Engine) Directive {
	d := t.inner.Step(eng)
	if e, ok := d.(Emit); ok {
		e.Outcome.Trace = t.transform(e.Outcome.Trace)
		return e
	}
	return d
}
