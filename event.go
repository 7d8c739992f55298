package oroboro

// Event is an identity onto which tasks wait and onto which the host (or
// an operator, internally) posts. It carries no payload beyond identity
// and the FIFO queue of tasks currently suspended on it.
type Event struct {
	id      uint64
	eng     *Engine
	waiters []*TaskHandle
}

// ID returns the event's engine-scoped identity, stable for the lifetime
// of the owning Engine.
func (e *Event) ID() uint64 { return e.id }

// wait enqueues h onto e's FIFO wait list. An event posted before a task
// waits on it does not retroactively wake that task: waits only attach to
// postings that happen after the wait is registered.
func (e *Event) wait(h *TaskHandle) {
	e.waiters = append(e.waiters, h)
	logEventLifecycle(e.eng.logger, e.eng.tag, "wait", e.id, len(e.waiters))
}

// post drains the wait list into the engine's ready queue, preserving
// FIFO order among the woken tasks. Posting an event with no waiters is a
// no-op: the posting is not buffered for a future wait.
func (e *Event) post() {
	if len(e.waiters) == 0 {
		logEventLifecycle(e.eng.logger, e.eng.tag, "post", e.id, 0)
		return
	}
	waiters := e.waiters
	e.waiters = nil
	logEventLifecycle(e.eng.logger, e.eng.tag, "post", e.id, len(waiters))
	for _, h := range waiters {
		e.eng.pushReady(h)
	}
	e.eng.metrics.recordEventPosted()
}
