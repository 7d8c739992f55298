package oroboro

const slotCondA = 0

// Cond builds the conditional expression a>>b: evaluate a at the
// context's start cycle. A failure from a makes the conditional
// vacuously true: it emits a match ending at a's failure cycle and never
// evaluates b. Each match from a waits for the next sampling-event
// posting and then evaluates b starting one cycle past it; a match from
// b completes the operator's match, a failure from b becomes the
// operator's failure.
func Cond(a, b Expr) Expr {
	return exprFunc(func(ctx evalContext) Task {
		return &condTask{
			ctx:        ctx,
			a:          a,
			b:          b,
			bInstances: make(map[int]*TaskHandle),
			bATrace:    make(map[int]TraceNode),
			nextSlot:   slotCondA + 1,
		}
	})
}

type condTask struct {
	ctx  evalContext
	a, b Expr

	out directiveQueue
	in  inbox

	started bool
	aDone   bool

	bInstances map[int]*TaskHandle
	bATrace    map[int]TraceNode
	nextSlot   int

	outstanding int
}

func (t *condTask) Step(eng *Engine) Directive {
	if !t.started {
		t.started = true
		t.outstanding++
		t.out.push(Spawn{Handle: &TaskHandle{Task: t.a.newTask(t.ctx), Sink: t, Slot: slotCondA}})
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
	if t.outstanding == 0 {
		return Done{}
	}
	return t.in.waitDirective(eng)
}

func (t *condTask) handle(msg inboxMsg) {
	if msg.slot == slotCondA {
		if msg.done {
			t.aDone = true
			t.outstanding--
			return
		}
		o := msg.outcome
		if !o.Matched {
			t.out.push(Emit{Outcome: MatchOutcome(t.ctx.Start, o.End, &CondTrace{Ante: o.Trace})})
			return
		}
		t.spawnB(o)
		return
	}

	aTrace := t.bATrace[msg.slot]
	if msg.done {
		delete(t.bInstances, msg.slot)
		delete(t.bATrace, msg.slot)
		t.outstanding--
		return
	}
	o := msg.outcome
	if o.Matched {
		t.out.push(Emit{Outcome: MatchOutcome(t.ctx.Start, o.End, &CondTrace{Ante: aTrace, Conseq: o.Trace})})
	} else {
		t.out.push(Emit{Outcome: FailureOutcome(o.End, &CondTrace{Ante: aTrace, Conseq: o.Trace})})
	}
}

func (t *condTask) spawnB(aOutcome Outcome) {
	slot := t.nextSlot
	t.nextSlot++

	b, startCycle, sampler, eng := t.b, aOutcome.End+1, t.ctx.Sampler, t.ctx.Engine

	childTask := delayByEvent(sampler, func() Task {
		return b.newTask(evalContext{Engine: eng, Sampler: sampler, Start: startCycle})
	})

	h := &TaskHandle{Task: childTask, Sink: t, Slot: slot}
	t.bInstances[slot] = h
	t.bATrace[slot] = aOutcome.Trace
	t.outstanding++
	t.out.push(Spawn{Handle: h})
}

func (t *condTask) Emit(eng *Engine, slot int, outcome Outcome) {
	t.in.push(eng, inboxMsg{slot: slot, outcome: outcome})
}

func (t *condTask) Done(eng *Engine, slot int) {
	t.in.push(eng, inboxMsg{slot: slot, done: true})
}
