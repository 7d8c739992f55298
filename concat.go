package oroboro

const slotConcatA = 0

// Concat builds the sequencing expression a+b: evaluate a starting at the
// context's start cycle; for every match a produces, wait for the next
// sampling-event posting and then evaluate b starting one cycle past a's
// match; a match from b completes the operator's match, a failure from b
// becomes the operator's failure. A failure from a becomes the operator's
// failure directly. The operator completes once a is done and every
// spawned evaluation of b is done.
func Concat(a, b Expr) Expr {
	return exprFunc(func(ctx evalContext) Task {
		return newConcatTask(ctx, a, b, true)
	})
}

// Fuse builds the abutting-sequencing expression a/b: identical to
// Concat except b starts at a's own end cycle rather than one cycle past
// it, so the two sub-matches share their boundary cycle instead of
// advancing past it.
func Fuse(a, b Expr) Expr {
	return exprFunc(func(ctx evalContext) Task {
		return newConcatTask(ctx, a, b, false)
	})
}

func newConcatTask(ctx evalContext, a, b Expr, advance bool) Task {
	return &concatTask{
		ctx:         ctx,
		a:           a,
		b:           b,
		advance:     advance,
		bInstances:  make(map[int]*TaskHandle),
		bATrace:     make(map[int]TraceNode),
		nextSlot:    slotConcatA + 1,
		outstanding: 0,
	}
}

type concatTask struct {
	ctx     evalContext
	a, b    Expr
	advance bool

	out directiveQueue
	in  inbox

	started bool
	aDone   bool

	bInstances map[int]*TaskHandle
	bATrace    map[int]TraceNode
	nextSlot   int

	outstanding int
}

func (t *concatTask) Step(eng *Engine) Directive {
	if !t.started {
		t.started = true
		h := &TaskHandle{Task: t.a.newTask(t.ctx), Sink: t, Slot: slotConcatA}
		t.outstanding++
		t.out.push(Spawn{Handle: h})
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

func (t *concatTask) handle(msg inboxMsg) {
	if msg.slot == slotConcatA {
		if msg.done {
			t.aDone = true
			t.outstanding--
			return
		}
		o := msg.outcome
		if !o.Matched {
			t.out.push(Emit{Outcome: FailureOutcome(o.End, o.Trace)})
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
		t.out.push(Emit{Outcome: MatchOutcome(t.ctx.Start, o.End, &ConcatTrace{Left: aTrace, Right: o.Trace})})
	} else {
		t.out.push(Emit{Outcome: FailureOutcome(o.End, &ConcatTrace{Left: aTrace, Right: o.Trace})})
	}
}

func (t *concatTask) spawnB(aOutcome Outcome) {
	slot := t.nextSlot
	t.nextSlot++

	b, start, sampler := t.b, aOutcome.End, t.ctx.Sampler
	eng := t.ctx.Engine

	var childTask Task
	if t.advance {
		startCycle := start + 1
		childTask = delayByEvent(sampler, func() Task {
			return b.newTask(evalContext{Engine: eng, Sampler: sampler, Start: startCycle})
		})
	} else {
		childTask = b.newTask(evalContext{Engine: eng, Sampler: sampler, Start: start})
	}

	h := &TaskHandle{Task: childTask, Sink: t, Slot: slot}
	t.bInstances[slot] = h
	t.bATrace[slot] = aOutcome.Trace
	t.outstanding++
	t.out.push(Spawn{Handle: h})
}

func (t *concatTask) Emit(eng *Engine, slot int, outcome Outcome) {
	t.in.push(eng, inboxMsg{slot: slot, outcome: outcome})
}

func (t *concatTask) Done(eng *Engine, slot int) {
	t.in.push(eng, inboxMsg{slot: slot, done: true})
}
