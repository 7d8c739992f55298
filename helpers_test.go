package oroboro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder is a Sink that simply accumulates what it's given, used to
// observe a combinator's emissions directly without going through Always.
type recorder struct {
	outcomes []Outcome
	done     bool
}

func (r *recorder) Emit(eng *Engine, slot int, outcome Outcome) {
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recorder) Done(eng *Engine, slot int) {
	r.done = true
}

func (r *recorder) matches() []Outcome {
	var out []Outcome
	for _, o := range r.outcomes {
		if o.Matched {
			out = append(out, o)
		}
	}
	return out
}

func (r *recorder) failures() []Outcome {
	var out []Outcome
	for _, o := range r.outcomes {
		if !o.Matched {
			out = append(out, o)
		}
	}
	return out
}

// spawnExpr instantiates expr at start against sampler, spawns it as a
// root task reporting to a fresh recorder, and runs the engine to
// quiescence at its current time.
func spawnExpr(t *testing.T, eng *Engine, sampler *Event, expr Expr, start Cycle) *recorder {
	t.Helper()
	r := &recorder{}
	ctx := evalContext{Engine: eng, Sampler: sampler, Start: start}
	h := &TaskHandle{Task: expr.newTask(ctx), Sink: r, Slot: 0}
	eng.pushReady(h)
	require.NoError(t, eng.RunUntil(eng.Now()))
	return r
}

// tick posts sampler at vt and runs the engine up to vt.
func tick(t *testing.T, eng *Engine, sampler *Event, vt VirtualTime) {
	t.Helper()
	require.NoError(t, eng.PostAt(vt, sampler))
	require.NoError(t, eng.RunUntil(vt))
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(WithMetrics(true))
	require.NoError(t, err)
	return eng
}

// constPred builds a predicate reading a shared index into vals.
func constPred(id string, vals []bool, idx *int) Expr {
	return Pred(id, func() bool { return vals[*idx] })
}
