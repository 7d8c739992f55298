package oroboro

import "testing"

func TestConcatWaitsACycleBetweenSides(t *testing.T) {
	eng := newTestEngine(t)
	sampler := eng.NewEvent()
	a := Pred("a", func() bool { return true })
	b := Pred("a", func() bool { return true })

	r := spawnExpr(t, eng, sampler, Concat(a, b), 0)
	if len(r.outcomes) != 0 {
		t.Fatalf("expected no outcome before the next sampling posting, got %v", r.outcomes)
	}

	tick(t, eng, sampler, 1)
	matches := r.matches()
	if len(matches) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(matches))
	}
	if matches[0].Start != 0 || matches[0].End != 1 {
		t.Fatalf("expected match (0,1), got (%d,%d)", matches[0].Start, matches[0].End)
	}
	if !r.done {
		t.Fatalf("expected concatTask to complete once b completes")
	}
}

func TestConcatAFailurePropagatesDirectly(t *testing.T) {
	eng := newTestEngine(t)
	sampler := eng.NewEvent()
	a := Pred("a", func() bool { return false })
	b := Pred("a", func() bool { return true })

	r := spawnExpr(t, eng, sampler, Concat(a, b), 5)
	failures := r.failures()
	if len(failures) != 1 {
		t.Fatalf("expected one failure, got %d", len(failures))
	}
	if failures[0].End != 5 {
		t.Fatalf("expected failure at cycle 5, got %d", failures[0].End)
	}
	if !r.done {
		t.Fatalf("expected concatTask done immediately on a's failure")
	}
}

func TestFuseStartsBAtASharedBoundary(t *testing.T) {
	eng := newTestEngine(t)
	sampler := eng.NewEvent()
	a := Pred("a", func() bool { return true })
	b := Pred("a", func() bool { return true })

	r := spawnExpr(t, eng, sampler, Fuse(a, b), 0)
	matches := r.matches()
	if len(matches) != 1 {
		t.Fatalf("expected one match without waiting for a tick, got %d", len(matches))
	}
	if matches[0].Start != 0 || matches[0].End != 0 {
		t.Fatalf("expected match (0,0), got (%d,%d)", matches[0].Start, matches[0].End)
	}
	if !r.done {
		t.Fatalf("expected Fuse's concatTask done synchronously")
	}
}

func TestConcatMultipleAMatchesSpawnMultipleBInstances(t *testing.T) {
	eng := newTestEngine(t)
	sampler := eng.NewEvent()

	// Alt(a,a) so a itself can match twice at the same evaluation start,
	// exercising two concurrent b instances under one Concat.
	a := Alt(Pred("a1", func() bool { return true }), Pred("a2", func() bool { return true }))
	b := Pred("b", func() bool { return true })

	r := spawnExpr(t, eng, sampler, Concat(a, b), 0)
	tick(t, eng, sampler, 1)

	matches := r.matches()
	if len(matches) != 2 {
		t.Fatalf("expected two matches, one per a-match spawning its own b, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Start != 0 || m.End != 1 {
			t.Fatalf("expected every match to be (0,1), got (%d,%d)", m.Start, m.End)
		}
	}
}
