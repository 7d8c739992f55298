package oroboro

const (
	slotInterA = 0
	slotInterB = 1
)

// Inter builds the intersection expression a^b: spawn both a and b at
// the context's start cycle. Every new match from one side is paired
// against every match already seen from the other side ending at or
// before it, emitting one combined match per pair. A failure from one
// side is forwarded standalone once the other side settles without
// itself failing; if both sides fail, a single combined failure is
// emitted instead of two.
func Inter(a, b Expr) Expr {
	return exprFunc(func(ctx evalContext) Task {
		return &interTask{ctx: ctx, a: a, b: b}
	})
}

type interTask struct {
	ctx  evalContext
	a, b Expr

	out directiveQueue
	in  inbox

	started          bool
	aDone, bDone     bool
	aFailed, bFailed bool
	aFailTrace       TraceNode
	bFailTrace       TraceNode
	aFailEnd         Cycle
	bFailEnd         Cycle
	failureEmitted   bool

	aMatches []Outcome
	bMatches []Outcome
}

func (t *interTask) Step(eng *Engine) Directive {
	if !t.started {
		t.started = true
		t.out.push(Spawn{Handle: &TaskHandle{Task: t.a.newTask(t.ctx), Sink: t, Slot: slotInterA}})
		t.out.push(Spawn{Handle: &TaskHandle{Task: t.b.newTask(t.ctx), Sink: t, Slot: slotInterB}})
	}
	if !t.out.empty() {
		return t.out.pop()
	}
	for {
		msg, ok := t.in.pop()
		if !ok {
			break
		}
		t.handle(msg)
	}
	if !t.out.empty() {
		return t.out.pop()
	}
	if t.aDone && t.bDone {
		return Done{}
	}
	return t.in.waitDirective(eng)
}

func (t *interTask) handle(msg inboxMsg) {
	if msg.done {
		if msg.slot == slotInterA {
			t.aDone = true
		} else {
			t.bDone = true
		}
		t.maybeEmitFailure()
		return
	}
	o := msg.outcome
	if o.Matched {
		if msg.slot == slotInterA {
			for _, other := range t.bMatches {
				if other.End <= o.End {
					t.out.push(Emit{Outcome: MatchOutcome(t.ctx.Start, o.End, &InterTrace{A: o.Trace, B: other.Trace})})
				}
			}
			t.aMatches = append(t.aMatches, o)
		} else {
			for _, other := range t.aMatches {
				if other.End <= o.End {
					t.out.push(Emit{Outcome: MatchOutcome(t.ctx.Start, o.End, &InterTrace{A: other.Trace, B: o.Trace})})
				}
			}
			t.bMatches = append(t.bMatches, o)
		}
		return
	}
	if msg.slot == slotInterA {
		t.aFailed = true
		t.aFailTrace = o.Trace
		t.aFailEnd = o.End
	} else {
		t.bFailed = true
		t.bFailTrace = o.Trace
		t.bFailEnd = o.End
	}
	t.maybeEmitFailure()
}

// maybeEmitFailure mirrors Alt's resolution: combined once both sides
// have failed, standalone and tagged once the other side is done
// having only ever matched.
func (t *interTask) maybeEmitFailure() {
	if t.failureEmitted {
		return
	}
	switch {
	case t.aFailed && t.bFailed:
		t.failureEmitted = true
		end := t.aFailEnd
		if t.bFailEnd > end {
			end = t.bFailEnd
		}
		t.out.push(Emit{Outcome: FailureOutcome(end, &InterFailTrace{A: t.aFailTrace, B: t.bFailTrace})})
	case t.aFailed && t.bDone && !t.bFailed:
		t.failureEmitted = true
		t.out.push(Emit{Outcome: FailureOutcome(t.aFailEnd, &InterFailTrace{A: t.aFailTrace})})
	case t.bFailed && t.aDone && !t.aFailed:
		t.failureEmitted = true
		t.out.push(Emit{Outcome: FailureOutcome(t.bFailEnd, &InterFailTrace{B: t.bFailTrace})})
	}
}

func (t *interTask) Emit(eng *Engine, slot int, outcome Outcome) {
	t.in.push(eng, inboxMsg{slot: slot, outcome: outcome})
}

func (t *interTask) Done(eng *Engine, slot int) {
	t.in.push(eng, inboxMsg{slot: slot, done: true})
}
