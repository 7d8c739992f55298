package oroboro

import "testing"

func TestFirstOfForwardsOnlyFirstMatchAndCancels(t *testing.T) {
	eng := newTestEngine(t)
	sampler := eng.NewEvent()
	a := Alt(Pred("a1", func() bool { return true }), Pred("a2", func() bool { return true }))

	r := spawnExpr(t, eng, sampler, FirstOf(a), 0)
	matches := r.matches()
	if len(matches) != 1 {
		t.Fatalf("expected exactly one forwarded match, got %d", len(matches))
	}
}

func TestFirstOfForwardsFailuresUnconditionally(t *testing.T) {
	eng := newTestEngine(t)
	sampler := eng.NewEvent()
	a := Pred("a", func() bool { return false })

	r := spawnExpr(t, eng, sampler, FirstOf(a), 0)
	if len(r.failures()) != 1 {
		t.Fatalf("expected one failure forwarded, got %d", len(r.failures()))
	}
}

func TestOnceDedupsByEndCycleWithoutCancelling(t *testing.T) {
	eng := newTestEngine(t)
	sampler := eng.NewEvent()
	// Two alternatives that both match at the same end cycle: Once should
	// forward only one of them, unlike FirstOf it never cancels anything.
	a := Alt(Pred("a1", func() bool { return true }), Pred("a2", func() bool { return true }))

	r := spawnExpr(t, eng, sampler, Once(a), 0)
	matches := r.matches()
	if len(matches) != 1 {
		t.Fatalf("expected only one match per distinct end cycle, got %d", len(matches))
	}
}

func TestOnceForwardsFailuresUnconditionally(t *testing.T) {
	eng := newTestEngine(t)
	sampler := eng.NewEvent()
	a := Pred("a", func() bool { return false })

	r := spawnExpr(t, eng, sampler, Once(a), 0)
	if len(r.failures()) != 1 {
		t.Fatalf("expected one failure forwarded, got %d", len(r.failures()))
	}
}
