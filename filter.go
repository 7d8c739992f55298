package oroboro

const slotFilter = 0

// FirstOf builds an expression forwarding only a's first match: once a
// emits a match, it is forwarded and a is cancelled, so a yields nothing
// further once its next dispatch observes the cancel. Any later match
// that reaches FirstOf is dropped. Every failure that reaches FirstOf is
// forwarded unchanged, whether it arrives before or after the first
// match.
func FirstOf(a Expr) Expr {
	return exprFunc(func(ctx evalContext) Task {
		return &firstOfTask{ctx: ctx, a: a}
	})
}

type firstOfTask struct {
	ctx evalContext
	a   Expr

	out directiveQueue
	in  inbox

	started bool
	handle  *TaskHandle
	matched bool
	done    bool
}

func (t *firstOfTask) Step(eng *Engine) Directive {
	if !t.started {
		t.started = true
		t.handle = &TaskHandle{Task: t.a.newTask(t.ctx), Sink: t, Slot: slotFilter}
		t.out.push(Spawn{Handle: t.handle})
	}
	if !t.out.empty() {
		return t.out.pop()
	}
	for {
		msg, ok := t.in.pop()
		if !ok {
			break
		}
		if msg.done {
			t.done = true
			continue
		}
		o := msg.outcome
		if o.Matched {
			if !t.matched {
				t.matched = true
				t.out.push(Emit{Outcome: o})
				t.handle.Cancel()
			}
		} else {
			t.out.push(Emit{Outcome: o})
		}
	}
	if !t.out.empty() {
		return t.out.pop()
	}
	if t.done {
		return Done{}
	}
	return t.in.waitDirective(eng)
}

func (t *firstOfTask) Emit(eng *Engine, slot int, outcome Outcome) {
	t.in.push(eng, inboxMsg{slot: slot, outcome: outcome})
}

func (t *firstOfTask) Done(eng *Engine, slot int) {
	t.in.push(eng, inboxMsg{slot: slot, done: true})
}

// Once builds an expression forwarding at most one match per distinct
// end cycle from a, silently dropping any further match sharing an
// already-forwarded end cycle. Unlike FirstOf, a is never cancelled and
// every failure is forwarded unchanged.
func Once(a Expr) Expr {
	return exprFunc(func(ctx evalContext) Task {
		return &onceTask{ctx: ctx, a: a, seenEnds: make(map[Cycle]bool)}
	})
}

type onceTask struct {
	ctx evalContext
	a   Expr

	out directiveQueue
	in  inbox

	started  bool
	seenEnds map[Cycle]bool
	done     bool
}

func (t *onceTask) Step(eng *Engine) Directive {
	if !t.started {
		t.started = true
		t.out.push(Spawn{Handle: &TaskHandle{Task: t.a.newTask(t.ctx), Sink: t, Slot: slotFilter}})
	}
	if !t.out.empty() {
		return t.out.pop()
	}
	for {
		msg, ok := t.in.pop()
		if !ok {
			break
		}
		if msg.done {
			t.done = true
			continue
		}
		o := msg.outcome
		if o.Matched {
			if !t.seenEnds[o.End] {
				t.seenEnds[o.End] = true
				t.out.push(Emit{Outcome: o})
			}
		} else {
			t.out.push(Emit{Outcome: o})
		}
	}
	if !t.out.empty() {
		return t.out.pop()
	}
	if t.done {
		return Done{}
	}
	return t.in.waitDirective(eng)
}

func (t *onceTask) Emit(eng *Engine, slot int, outcome Outcome) {
	t.in.push(eng, inboxMsg{slot: slot, outcome: outcome})
}

func (t *onceTask) Done(eng *Engine, slot int) {
	t.in.push(eng, inboxMsg{slot: slot, done: true})
}
