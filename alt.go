package oroboro

const (
	slotAltA = 0
	slotAltB = 1
)

// Alt builds the alternation expression a|b: spawn both a and b at the
// context's start cycle, forward every match from either side tagged
// with which one produced it. A failure from one side is forwarded
// standalone, tagged, once the other side has settled without itself
// failing (so it can never be combined with anything); if both sides
// fail, a single combined failure is emitted instead of two.
func Alt(a, b Expr) Expr {
	return exprFunc(func(ctx evalContext) Task {
		return &altTask{ctx: ctx, a: a, b: b}
	})
}

type altTask struct {
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
}

func (t *altTask) Step(eng *Engine) Directive {
	if !t.started {
		t.started = true
		t.out.push(Spawn{Handle: &TaskHandle{Task: t.a.newTask(t.ctx), Sink: t, Slot: slotAltA}})
		t.out.push(Spawn{Handle: &TaskHandle{Task: t.b.newTask(t.ctx), Sink: t, Slot: slotAltB}})
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

func (t *altTask) handle(msg inboxMsg) {
	if msg.done {
		if msg.slot == slotAltA {
			t.aDone = true
		} else {
			t.bDone = true
		}
		t.maybeEmitFailure()
		return
	}
	o := msg.outcome
	if o.Matched {
		t.out.push(Emit{Outcome: MatchOutcome(o.Start, o.End, &AltTrace{Which: msg.slot, Inner: o.Trace})})
		return
	}
	if msg.slot == slotAltA {
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

// maybeEmitFailure resolves a pending per-side failure as soon as the
// other side's fate is known: combined if both sides failed, standalone
// and tagged if the other side is done having only ever matched (so it
// can never retroactively join a combined failure).
func (t *altTask) maybeEmitFailure() {
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
		t.out.push(Emit{Outcome: FailureOutcome(end, &AltFailTrace{A: t.aFailTrace, B: t.bFailTrace})})
	case t.aFailed && t.bDone && !t.bFailed:
		t.failureEmitted = true
		t.out.push(Emit{Outcome: FailureOutcome(t.aFailEnd, &AltTrace{Which: slotAltA, Inner: t.aFailTrace})})
	case t.bFailed && t.aDone && !t.aFailed:
		t.failureEmitted = true
		t.out.push(Emit{Outcome: FailureOutcome(t.bFailEnd, &AltTrace{Which: slotAltB, Inner: t.bFailTrace})})
	}
}

func (t *altTask) Emit(eng *Engine, slot int, outcome Outcome) {
	t.in.push(eng, inboxMsg{slot: slot, outcome: outcome})
}

func (t *altTask) Done(eng *Engine, slot int) {
	t.in.push(eng, inboxMsg{slot: slot, done: true})
}
