package oroboro

import "container/heap"

// VirtualTime is the scheduler's own clock: a scalar the host advances
// explicitly via RunUntil. It never reads the wall clock.
type VirtualTime int64

// timedEntry is a future posting (from PostAt) or task wake (from
// WaitTimeout) due at a given virtual time, ordered by time and then by
// submission sequence so entries scheduled for the same instant fire in
// the order they were scheduled.
type timedEntry struct {
	at    VirtualTime
	seq   uint64
	event *Event     // set for a PostAt-scheduled posting
	wake  *TaskHandle // set for a WaitTimeout-scheduled wake
}

type timedHeap []*timedEntry

func (h timedHeap) Len() int { return len(h) }
func (h timedHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h timedHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timedHeap) Push(x any)   { *h = append(*h, x.(*timedEntry)) }
func (h *timedHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Engine is the cooperative, single-threaded virtual-time scheduler:
// a FIFO ready queue, a time-ordered heap of future postings and
// timeouts, and the current virtual time. It is not safe for concurrent
// use; every call must come from the same goroutine, including from
// within a predicate, which must never call back into the Engine at all.
type Engine struct {
	state EngineState

	now VirtualTime

	ready     []*TaskHandle
	readyHead int

	timed    timedHeap
	timedSeq uint64

	nextTaskID uint64

	reg *registry

	metrics *Metrics
	logger  *Logger
	tag     string

	running bool
}

// New constructs an Engine, applying the given options.
func New(opts ...Option) (*Engine, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	eng := &Engine{
		state:  StateAwake,
		ready:  make([]*TaskHandle, 0, cfg.readyQueueCap),
		reg:    newRegistry(),
		logger: cfg.logger,
		tag:    newEngineTag(),
	}
	if cfg.metricsEnabled {
		eng.metrics = &Metrics{}
	}
	return eng, nil
}

// Metrics returns the Engine's runtime counters, or nil if WithMetrics
// was never enabled.
func (eng *Engine) Metrics() *Metrics { return eng.metrics }

// State returns the Engine's current lifecycle state.
func (eng *Engine) State() EngineState { return eng.state }

// Now returns the Engine's current virtual time.
func (eng *Engine) Now() VirtualTime { return eng.now }

// Close transitions the Engine to StateClosed. Further RunUntil or PostAt
// calls return ErrEngineClosed; Start does not check the state.
func (eng *Engine) Close() {
	eng.state = StateClosed
}

// NewEvent allocates a fresh Event owned by this Engine.
func (eng *Engine) NewEvent() *Event {
	return eng.reg.newEvent(eng)
}

// Start instantiates t as a top-level task with no sink: any Emit it
// yields is dropped (a top-level task, such as the one Always
// constructs, is expected to deliver outcomes itself via its own
// callbacks rather than by yielding Emit). Start pushes it onto the
// ready queue and returns its handle for later cancellation.
func (eng *Engine) Start(t Task) *TaskHandle {
	h := &TaskHandle{Task: t, id: eng.allocTaskID()}
	eng.metrics.recordTaskSpawned()
	logTask(eng.logger, eng.tag, "spawned", h.id)
	eng.pushReady(h)
	return h
}

// allocTaskID hands out the next engine-scoped task identity, stamped
// onto a TaskHandle by Start or by the Spawn directive's dispatch.
func (eng *Engine) allocTaskID() uint64 {
	eng.nextTaskID++
	return eng.nextTaskID
}

// PostAt schedules e to post at virtual time t, which must not be
// strictly before the Engine's current time. e must have been obtained
// from this Engine's NewEvent.
func (eng *Engine) PostAt(t VirtualTime, e *Event) error {
	if eng.state == StateClosed {
		return ErrEngineClosed
	}
	if !eng.reg.owns(e) {
		return ErrUnknownEvent
	}
	if t < eng.now {
		return &PastDeadlineError{Now: eng.now, At: t}
	}
	eng.timedSeq++
	heap.Push(&eng.timed, &timedEntry{at: t, seq: eng.timedSeq, event: e})
	return nil
}

// postNow posts e immediately, used internally by operators to wake a
// suspended parent task without going through the timed queue.
func (eng *Engine) postNow(e *Event) {
	e.post()
}

// RunUntil advances the Engine: while the earliest scheduled timed entry
// is due at or before target, it fires (posting an event or waking a
// timed-out task), and the ready queue is drained to completion before
// the next entry is considered. Predicates and directive handlers must
// never call RunUntil themselves; doing so returns ErrReentrantRun.
func (eng *Engine) RunUntil(target VirtualTime) error {
	if eng.state == StateClosed {
		return ErrEngineClosed
	}
	if eng.running {
		return ErrReentrantRun
	}
	eng.running = true
	defer func() { eng.running = false }()
	eng.state = StateRunning

	if err := eng.drainReady(); err != nil {
		return err
	}

	for len(eng.timed) > 0 && eng.timed[0].at <= target {
		entry := heap.Pop(&eng.timed).(*timedEntry)
		if entry.at > eng.now {
			eng.now = entry.at
		}
		if entry.event != nil {
			entry.event.post()
		} else {
			eng.pushReady(entry.wake)
		}
		if err := eng.drainReady(); err != nil {
			return err
		}
	}

	if eng.now < target {
		eng.now = target
	}
	return nil
}

func (eng *Engine) pushReady(h *TaskHandle) {
	eng.ready = append(eng.ready, h)
	eng.metrics.recordReadyQueueDepth(len(eng.ready) - eng.readyHead)
}

func (eng *Engine) popReady() (*TaskHandle, bool) {
	if eng.readyHead >= len(eng.ready) {
		eng.ready = eng.ready[:0]
		eng.readyHead = 0
		return nil, false
	}
	h := eng.ready[eng.readyHead]
	eng.ready[eng.readyHead] = nil
	eng.readyHead++
	if eng.readyHead > 64 && eng.readyHead*2 > len(eng.ready) {
		n := copy(eng.ready, eng.ready[eng.readyHead:])
		eng.ready = eng.ready[:n]
		eng.readyHead = 0
	}
	return h, true
}

func (eng *Engine) drainReady() error {
	for {
		h, ok := eng.popReady()
		if !ok {
			return nil
		}
		if err := eng.runHandle(h); err != nil {
			return err
		}
	}
}

// scheduleWake is how WaitTimeout directives are realized: a zero or
// negative delta re-queues the task immediately, otherwise it is parked
// on the timed heap.
func (eng *Engine) scheduleWake(h *TaskHandle, dt VirtualTime) {
	if dt <= 0 {
		eng.pushReady(h)
		return
	}
	eng.timedSeq++
	heap.Push(&eng.timed, &timedEntry{at: eng.now + dt, seq: eng.timedSeq, wake: h})
}

// runHandle steps h to its next suspension point, interpreting Spawn and
// Emit inline (neither suspends the task that yielded them) and
// recovering a panicking Step into a PanicError.
func (eng *Engine) runHandle(h *TaskHandle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = PanicError{Value: r}
		}
	}()
	for {
		if h.Cancelled() {
			logTask(eng.logger, eng.tag, "done", h.id)
			if h.Sink != nil {
				h.Sink.Done(eng, h.Slot)
			}
			return nil
		}
		d := h.Task.Step(eng)
		switch v := d.(type) {
		case WaitEvent:
			logDirective(eng.logger, eng.tag, "wait_event", h.id)
			v.Event.wait(h)
			return nil
		case WaitTimeout:
			logDirective(eng.logger, eng.tag, "wait_timeout", h.id)
			eng.scheduleWake(h, v.Delta)
			return nil
		case Spawn:
			logDirective(eng.logger, eng.tag, "spawn", h.id)
			v.Handle.id = eng.allocTaskID()
			eng.metrics.recordTaskSpawned()
			logTask(eng.logger, eng.tag, "spawned", v.Handle.id)
			eng.pushReady(v.Handle)
			continue
		case Emit:
			logDirective(eng.logger, eng.tag, "emit", h.id)
			if h.Sink != nil {
				h.Sink.Emit(eng, h.Slot, v.Outcome)
			}
			continue
		case Done:
			logDirective(eng.logger, eng.tag, "done", h.id)
			logTask(eng.logger, eng.tag, "done", h.id)
			if h.Sink != nil {
				h.Sink.Done(eng, h.Slot)
			}
			return nil
		default:
			return &TypeError{Message: "oroboro: task yielded an unknown directive"}
		}
	}
}
