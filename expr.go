package oroboro

// evalContext is the context a parent expression hands to a child when
// instantiating it: the engine it runs on, the sampling event its cycle
// numbering is defined against, and the cycle it begins evaluating at.
type evalContext struct {
	Engine  *Engine
	Sampler *Event
	Start   Cycle
}

// Expr is a temporal expression: a factory that, given an evaluation
// context, produces a fresh Task evaluating that expression starting at
// ctx.Start. A single Expr value is reusable across any number of
// concurrent evaluations (Always spawns one fresh Task per sampling
// cycle); instantiation carries all of the per-evaluation state.
type Expr interface {
	newTask(ctx evalContext) Task
}

// exprFunc adapts a plain function to Expr, mirroring the function-type
// adapter pattern used for Option throughout this package.
type exprFunc func(ctx evalContext) Task

func (f exprFunc) newTask(ctx evalContext) Task { return f(ctx) }
