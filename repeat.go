package oroboro

import "fmt"

// Repeat builds a*n, the expression requiring a to match n consecutive
// times back to back: a*1 is a itself, and a*n is (a*(n-1))+a. n must be
// at least 1; otherwise Repeat returns a *RangeError.
func Repeat(a Expr, n int) (Expr, error) {
	if n <= 0 {
		return nil, &RangeError{Message: fmt.Sprintf("oroboro: repeat count must be >= 1, got %d", n)}
	}
	return repeatWrap(repeatExact(a, n)), nil
}

// RepeatRange builds a*(n,m), equivalent to the alternation of a*n,
// a*(n+1), ..., a*m. Both bounds must be at least 1, and n must not
// exceed m. A non-positive bound returns a *RangeError; n > m returns an
// error wrapping a *RangeError, which errors.As still finds.
func RepeatRange(a Expr, n, m int) (Expr, error) {
	if n <= 0 || m <= 0 {
		return nil, &RangeError{Message: fmt.Sprintf("oroboro: repeat range bounds must be >= 1, got [%d,%d]", n, m)}
	}
	if n > m {
		cause := &RangeError{Message: fmt.Sprintf("lower bound %d exceeds upper bound %d", n, m)}
		return nil, WrapError("oroboro: invalid repeat range", cause)
	}
	expr := repeatWrap(repeatExact(a, n))
	for k := n + 1; k <= m; k++ {
		expr = Alt(expr, repeatWrap(repeatExact(a, k)))
	}
	return expr, nil
}

// repeatExact builds the unwrapped a*n via the recursive definition
// a*1 = a, a*k = a*(k-1) + a.
func repeatExact(a Expr, n int) Expr {
	if n == 1 {
		return a
	}
	return Concat(repeatExact(a, n-1), a)
}

// repeatWrap flattens the nested ConcatTrace chain repeatExact produces
// into a RepeatTrace, so a Repeat match or failure presents as a single
// Repeat node with its repetitions listed in order, rather than a
// right-nested tree of Concat nodes.
func repeatWrap(inner Expr) Expr {
	return exprFunc(func(ctx evalContext) Task {
		return &mapTraceTask{
			inner: inner.newTask(ctx),
			transform: func(tr TraceNode) TraceNode {
				return &RepeatTrace{Inners: flattenConcatChain(tr)}
			},
		}
	})
}
