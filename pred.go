package oroboro

// Pred builds an Expr evaluating a single predicate immediately, on its
// first scheduling tick: id names the predicate for trace rendering, and
// fn reports the verdict. fn must be pure with respect to scheduling: it
// must not call back into the Engine. A panicking fn surfaces as a
// PanicError from the Engine's RunUntil.
func Pred(id string, fn func() bool) Expr {
	return exprFunc(func(ctx evalContext) Task {
		return &predTask{id: id, fn: fn, start: ctx.Start}
	})
}

type predTask struct {
	id    string
	fn    func() bool
	start Cycle
	done  bool
}

func (t *predTask) Step(eng *Engine) Directive {
	if t.done {
		return Done{}
	}
	t.done = true
	verdict := t.fn()
	leaf := &LeafTrace{Cycle: t.start, PredicateID: t.id, Verdict: verdict}
	if verdict {
		return Emit{Outcome: MatchOutcome(t.start, t.start, leaf)}
	}
	return Emit{Outcome: FailureOutcome(t.start, leaf)}
}
