package oroboro

// Inv builds the inversion expression ~a: evaluate a at the context's
// start cycle and swap the polarity of everything it emits. A match from
// a becomes a failure at the match's end cycle; a failure from a becomes
// a match ending at the failure's cycle. Applying Inv twice reproduces
// the original match/failure pattern, with the trace wrapped twice.
func Inv(a Expr) Expr {
	return exprFunc(func(ctx evalContext) Task {
		return &invTask{inner: a.newTask(ctx), start: ctx.Start}
	})
}

type invTask struct {
	inner Task
	start Cycle
}

func (t *invTask) Step(eng *Engine) Directive {
	d := t.inner.Step(eng)
	e, ok := d.(Emit)
	if !ok {
		return d
	}
	o := e.Outcome
	if o.Matched {
		e.Outcome = FailureOutcome(o.End, &InvTrace{Inner: o.Trace})
	} else {
		e.Outcome = MatchOutcome(t.start, o.End, &InvTrace{Inner: o.Trace})
	}
	return e
}
