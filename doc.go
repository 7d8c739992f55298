// Package oroboro implements Oroboro, an executable engine for temporal
// expressions: compositional boolean assertions evaluated over
// cycle-indexed event sequences.
//
// # Architecture
//
// The engine is built around an [Engine] core: a cooperative,
// single-threaded, virtual-time scheduler with a FIFO ready queue and a
// time-ordered heap of future postings ([Engine.PostAt]) and timeouts.
// [Engine.RunUntil] advances virtual time, firing due postings and
// draining the ready queue to completion between each.
//
// Expressions ([Expr]) are factories that instantiate a fresh [Task] per
// evaluation: [Pred] for a single predicate check, [Concat] and [Fuse]
// for sequencing, [Alt] for alternation, [Inter] and [Conj] for
// intersection and conjunction, [Repeat] and [RepeatRange] for bounded
// repetition, [Cond] for conditionals, [Inv] for inversion, and [FirstOf]
// and [Once] as match-forwarding filters. [Always] drives a fresh
// evaluation of an expression on every posting of a sampling event,
// routing matches and failures to caller-supplied callbacks.
//
// Every outcome carries a [TraceNode] recording how it was derived,
// shaped like the expression tree that produced it.
//
// # Execution Model
//
// A [Task] is driven one [Directive] at a time by the [Engine]: Spawn and
// Emit do not suspend the yielding task (the engine calls Step again
// immediately), while WaitEvent and WaitTimeout do. Tasks are never
// goroutines; nothing in this package is safe for concurrent use from
// more than one goroutine, including from within a predicate, which must
// never call back into the Engine.
//
// # Errors
//
// Construction-time misuse (an out-of-range repeat count) surfaces as a
// [*RangeError]. A contract violation discovered while running (a
// panicking predicate) surfaces as a [PanicError] from [Engine.RunUntil].
// Scheduling misuse ([Engine.PostAt] at a time before the Engine's
// current time) surfaces as a [*PastDeadlineError].
package oroboro
