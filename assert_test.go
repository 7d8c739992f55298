package oroboro

import "testing"

func TestAlwaysSpawnsOneEvaluationPerPosting(t *testing.T) {
	eng := newTestEngine(t)
	sampler := eng.NewEvent()
	vals := []bool{true, false, true}
	idx := 0

	var matchedAt, failedAt []Cycle
	Always(eng, sampler, constPred("isA", vals, &idx),
		func(tr TraceNode) {
			leaf := tr.(*LeafTrace)
			matchedAt = append(matchedAt, leaf.Cycle)
		},
		func(tr TraceNode) {
			leaf := tr.(*LeafTrace)
			failedAt = append(failedAt, leaf.Cycle)
		},
	)

	for i := range vals {
		idx = i
		tick(t, eng, sampler, VirtualTime(i))
	}

	if len(matchedAt) != 2 || matchedAt[0] != 0 || matchedAt[1] != 2 {
		t.Fatalf("expected matches at cycles [0 2], got %v", matchedAt)
	}
	if len(failedAt) != 1 || failedAt[0] != 1 {
		t.Fatalf("expected failure at cycle 1, got %v", failedAt)
	}
}

func TestAlwaysUpdatesMetrics(t *testing.T) {
	eng := newTestEngine(t)
	sampler := eng.NewEvent()
	Always(eng, sampler, Pred("a", func() bool { return true }),
		func(TraceNode) {}, func(TraceNode) {})

	tick(t, eng, sampler, 0)
	tick(t, eng, sampler, 1)

	m := eng.Metrics()
	if m.MatchesEmitted != 2 {
		t.Fatalf("expected 2 matches emitted, got %d", m.MatchesEmitted)
	}
	if m.FailuresEmitted != 0 {
		t.Fatalf("expected 0 failures emitted, got %d", m.FailuresEmitted)
	}
}

func TestAlwaysCancelStopsFurtherEvaluations(t *testing.T) {
	eng := newTestEngine(t)
	sampler := eng.NewEvent()
	calls := 0
	h := Always(eng, sampler, Pred("a", func() bool { calls++; return true }),
		func(TraceNode) {}, func(TraceNode) {})

	tick(t, eng, sampler, 0)
	if calls != 1 {
		t.Fatalf("expected one evaluation before cancel, got %d", calls)
	}
	h.Cancel()
	tick(t, eng, sampler, 1)
	if calls != 1 {
		t.Fatalf("expected no further evaluations after cancelling the driver, got %d calls", calls)
	}
}
