package oroboro

// Always starts the assertion driver for expr against sampler: on every
// posting of sampler it spawns a fresh evaluation of expr starting at the
// current cycle (cycle 0 on the first posting, incrementing by one per
// posting thereafter), routing every match it eventually produces to
// onMatch and every failure to onFail. The returned TaskHandle lets a
// caller cancel the driver itself via Cancel, stopping it from spawning
// any further evaluation; evaluations already in flight run to
// completion regardless.
func Always(eng *Engine, sampler *Event, expr Expr, onMatch, onFail func(trace TraceNode)) *TaskHandle {
	t := &alwaysTask{sampler: sampler, expr: expr, onMatch: onMatch, onFail: onFail}
	return eng.Start(t)
}

type alwaysTask struct {
	sampler *Event
	expr    Expr
	onMatch func(TraceNode)
	onFail  func(TraceNode)

	started bool
	cycle   Cycle
	out     directiveQueue
}

func (t *alwaysTask) Step(eng *Engine) Directive {
	if !t.out.empty() {
		return t.out.pop()
	}
	if !t.started {
		t.started = true
		return WaitEvent{Event: t.sampler}
	}
	cur := t.cycle
	t.cycle++
	ctx := evalContext{Engine: eng, Sampler: t.sampler, Start: cur}
	h := &TaskHandle{Task: t.expr.newTask(ctx), Sink: t, Slot: int(cur)}
	t.out.push(Spawn{Handle: h})
	t.out.push(WaitEvent{Event: t.sampler})
	return t.out.pop()
}

func (t *alwaysTask) Emit(eng *Engine, slot int, outcome Outcome) {
	eng.metrics.recordOutcome(outcome.Matched)
	logOutcome(eng.logger, eng.tag, outcome.Matched, VirtualTime(outcome.Start), VirtualTime(outcome.End))
	if outcome.Matched {
		if t.onMatch != nil {
			t.onMatch(outcome.Trace)
		}
		return
	}
	if t.onFail != nil {
		t.onFail(outcome.Trace)
	}
}

func (t *alwaysTask) Done(eng *Engine, slot int) {}
