package oroboro

import (
	"fmt"
	"strings"
)

// TraceNode is a node in the immutable, append-only tree recording how an
// outcome was derived. Its concrete type mirrors the operator that
// produced it: a closed sum over LeafTrace, ConcatTrace, AltTrace,
// InterTrace, ConjTrace, RepeatTrace, CondTrace, InvTrace, and the
// *FailTrace pair types used when a binary operator's evaluation
// concludes in failure. Inter and Conj use their *FailTrace whether one
// side failed or both; Alt uses AltFailTrace only when both sides fail
// and tags a one-sided failure with an AltTrace.
type TraceNode interface {
	traceNode()
	String() string
}

// LeafTrace records a single predicate evaluation: the cycle it ran at,
// its identity, and the boolean it returned.
type LeafTrace struct {
	Cycle       Cycle
	PredicateID string
	Verdict     bool
}

func (*LeafTrace) traceNode() {}
func (n *LeafTrace) String() string {
	return fmt.Sprintf("Leaf(%d,%q,%t)", n.Cycle, n.PredicateID, n.Verdict)
}

// ConcatTrace records a Concat (+) or Fuse (/) match or partial failure:
// the left side's trace and the right side's.
type ConcatTrace struct {
	Left, Right TraceNode
}

func (*ConcatTrace) traceNode() {}
func (n *ConcatTrace) String() string {
	return fmt.Sprintf("Concat(%s,%s)", render(n.Left), render(n.Right))
}

// AltTrace records an Alternation (|) match, or a failure forwarded from
// one side alone: which side produced it (0 for the left operand, 1 for
// the right) and that side's own trace.
type AltTrace struct {
	Which int
	Inner TraceNode
}

func (*AltTrace) traceNode() {}
func (n *AltTrace) String() string {
	return fmt.Sprintf("Alt(%d,%s)", n.Which, render(n.Inner))
}

// AltFailTrace records an Alternation failure: both sides failed, and
// both failure traces are retained.
type AltFailTrace struct{ A, B TraceNode }

func (*AltFailTrace) traceNode() {}
func (n *AltFailTrace) String() string {
	return fmt.Sprintf("AltFail(%s,%s)", render(n.A), render(n.B))
}

// InterTrace records one paired match produced by Intersection (^): the
// a-side match and the b-side match it was paired with.
type InterTrace struct{ A, B TraceNode }

func (*InterTrace) traceNode() {}
func (n *InterTrace) String() string {
	return fmt.Sprintf("Inter(%s,%s)", render(n.A), render(n.B))
}

// InterFailTrace records an Intersection failure. When both sides
// fail, A and B are both set. When only one side fails and the other
// settles having only matched, the failing side's field is set and the
// other is nil.
type InterFailTrace struct{ A, B TraceNode }

func (*InterFailTrace) traceNode() {}
func (n *InterFailTrace) String() string {
	return fmt.Sprintf("InterFail(%s,%s)", render(n.A), render(n.B))
}

// ConjTrace records a paired match produced by Conjunction (&): the
// a-side and b-side matches sharing the same end cycle.
type ConjTrace struct{ A, B TraceNode }

func (*ConjTrace) traceNode() {}
func (n *ConjTrace) String() string {
	return fmt.Sprintf("Conj(%s,%s)", render(n.A), render(n.B))
}

// ConjFailTrace records a Conjunction failure with no conjoined match
// ever emitted. When both sides fail, A and B are both set. When only
// one side fails and the other settles having only matched without
// conjoining, the failing side's field is set and the other is nil.
type ConjFailTrace struct{ A, B TraceNode }

func (*ConjFailTrace) traceNode() {}
func (n *ConjFailTrace) String() string {
	return fmt.Sprintf("ConjFail(%s,%s)", render(n.A), render(n.B))
}

// RepeatTrace records a Repeat (*n) match or failure as the flattened
// list of its constituent repetitions, in order.
type RepeatTrace struct {
	Inners []TraceNode
}

func (*RepeatTrace) traceNode() {}
func (n *RepeatTrace) String() string {
	parts := make([]string, len(n.Inners))
	for i, inner := range n.Inners {
		parts[i] = render(inner)
	}
	return fmt.Sprintf("Repeat(%s)", strings.Join(parts, ","))
}

// CondTrace records a Conditional (>>) outcome: the antecedent's trace,
// and the consequent's trace if the antecedent matched and a consequent
// was evaluated (nil when the antecedent failed, making the conditional
// vacuously true).
type CondTrace struct {
	Ante   TraceNode
	Conseq TraceNode
}

func (*CondTrace) traceNode() {}
func (n *CondTrace) String() string {
	return fmt.Sprintf("Cond(%s,%s)", render(n.Ante), render(n.Conseq))
}

// InvTrace records an Inversion (~) outcome: the underlying expression's
// trace, unmodified.
type InvTrace struct{ Inner TraceNode }

func (*InvTrace) traceNode() {}
func (n *InvTrace) String() string {
	return fmt.Sprintf("Inv(%s)", render(n.Inner))
}

func render(n TraceNode) string {
	if n == nil {
		return "nil"
	}
	return n.String()
}

// flattenConcatChain walks a left-leaning chain of *ConcatTrace nodes
// (as produced by repeated Concat of the same sub-expression) into an
// ordered list of its leaves, regardless of depth. A chain shorter than
// the full repeat count, left by a mid-chain failure, flattens correctly
// too: flattening simply stops descending once a non-Concat node is
// reached.
func flattenConcatChain(tr TraceNode) []TraceNode {
	var out []TraceNode
	cur := tr
	for {
		c, ok := cur.(*ConcatTrace)
		if !ok {
			out = append([]TraceNode{cur}, out...)
			return out
		}
		out = append([]TraceNode{c.Right}, out...)
		cur = c.Left
	}
}
