package oroboro

const (
	slotConjA = 0
	slotConjB = 1
)

// Conj builds the conjunction expression a&b: spawn both a and b at the
// context's start cycle. A combined match is emitted only when a and b
// each produce a match ending at the same cycle; matches are buffered per
// end cycle so any later arrival on one side pairs with every earlier
// arrival on the other at that cycle. If a conjoined match was ever
// emitted, the operator never fails. Otherwise a failure from one side
// is forwarded standalone once the other settles without itself
// failing, and a combined failure is emitted if both sides fail.
func Conj(a, b Expr) Expr {
	return exprFunc(func(ctx evalContext) Task {
		return &conjTask{
			ctx:      ctx,
			a:        a,
			b:        b,
			aPending: make(map[Cycle][]TraceNode),
			bPending: make(map[Cycle][]TraceNode),
		}
	})
}

type conjTask struct {
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
	anyConjoined     bool
	failureEmitted   bool

	aPending map[Cycle][]TraceNode
	bPending map[Cycle][]TraceNode
}

func (t *conjTask) Step(eng *Engine) Directive {
	if !t.started {
		t.started = true
		t.out.push(Spawn{Handle: &TaskHandle{Task: t.a.newTask(t.ctx), Sink: t, Slot: slotConjA}})
		t.out.push(Spawn{Handle: &TaskHandle{Task: t.b.newTask(t.ctx), Sink: t, Slot: slotConjB}})
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

func (t *conjTask) handle(msg inboxMsg) {
	if msg.done {
		if msg.slot == slotConjA {
			t.aDone = true
		} else {
			t.bDone = true
		}
		t.maybeEmitFailure()
		return
	}
	o := msg.outcome
	if o.Matched {
		if msg.slot == slotConjA {
			for _, bTrace := range t.bPending[o.End] {
				t.anyConjoined = true
				t.out.push(Emit{Outcome: MatchOutcome(t.ctx.Start, o.End, &ConjTrace{A: o.Trace, B: bTrace})})
			}
			t.aPending[o.End] = append(t.aPending[o.End], o.Trace)
		} else {
			for _, aTrace := range t.aPending[o.End] {
				t.anyConjoined = true
				t.out.push(Emit{Outcome: MatchOutcome(t.ctx.Start, o.End, &ConjTrace{A: aTrace, B: o.Trace})})
			}
			t.bPending[o.End] = append(t.bPending[o.End], o.Trace)
		}
		return
	}
	if msg.slot == slotConjA {
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

// maybeEmitFailure mirrors Alt and Inter, but a conjoined match having
// ever been emitted permanently disqualifies any failure.
func (t *conjTask) maybeEmitFailure() {
	if t.failureEmitted || t.anyConjoined {
		return
	}
	switch {
	case t.aFailed && t.bFailed:
		t.failureEmitted = true
		end := t.aFailEnd
		if t.bFailEnd > end {
			end = t.bFailEnd
		}
		t.out.push(Emit{Outcome: FailureOutcome(end, &ConjFailTrace{A: t.aFailTrace, B: t.bFailTrace})})
	case t.aFailed && t.bDone && !t.bFailed:
		t.failureEmitted = true
		t.out.push(Emit{Outcome: FailureOutcome(t.aFailEnd, &ConjFailTrace{A: t.aFailTrace})})
	case t.bFailed && t.aDone && !t.aFailed:
		t.failureEmitted = true
		t.out.push(Emit{Outcome: FailureOutcome(t.bFailEnd, &ConjFailTrace{B: t.bFailTrace})})
	}
}

func (t *conjTask) Emit(eng *Engine, slot int, outcome Outcome) {
	t.in.push(eng, inboxMsg{slot: slot, outcome: outcome})
}

func (t *conjTask) Done(eng *Engine, slot int) {
	t.in.push(eng, inboxMsg{slot: slot, done: true})
}
