// Package eval implements the tree-walking evaluator: it reduces an
// ast.Expr to a []value.Val, applying APL-style scalar extension with
// checked arithmetic and the defined error semantics of spec.md §4.
// It is ported from original_source/apiel/src/parse/eval.rs; see
// DESIGN.md for the per-primitive grounding.
//
// Eval is deterministic modulo Roll and Deal. It performs no
// mutation of inputs and shares no state between calls.
package eval

import (
	"math"
	"math/rand/v2"
	"strconv"

	"apling/ast"
	"apling/value"
)

// Error is the (Span, message) pair every evaluation failure carries
// (spec.md §3.4). Span{} is the sentinel "no meaningful location".
type Error struct {
	Span ast.Span
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func errAt(span ast.Span, msg string) error {
	return &Error{Span: span, Msg: msg}
}

// Eval recursively evaluates e, returning the resulting vector or the
// first error encountered. The result is always non-empty except when
// e structurally yields GenIndex 0, Where over non-positive values, or
// Deal with a count of 0 (spec.md §8, invariant 1).
func Eval(e ast.Expr) ([]value.Val, error) {
	switch n := e.(type) {

	// ---- Dyadic arithmetic ----
	case ast.Add:
		lhs, rhs, err := evalPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		return applyDyadic(n.Span(), lhs, rhs, "overflow in addition", value.CheckedAdd)
	case ast.Sub:
		lhs, rhs, err := evalPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		return applyDyadic(n.Span(), lhs, rhs, "overflow in subtraction", value.CheckedSub)
	case ast.Mul:
		lhs, rhs, err := evalPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		return applyDyadic(n.Span(), lhs, rhs, "overflow in multiplication", value.CheckedMul)
	case ast.Div:
		lhs, rhs, err := evalPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		return applyDyadic(n.Span(), lhs, rhs, "division failed", value.CheckedDiv)
	case ast.Power:
		lhs, rhs, err := evalPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		return applyDyadic(n.Span(), lhs, rhs, "exponentiation overflow or invalid operand", power)
	case ast.Log:
		lhs, rhs, err := evalPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		// Dyadic Log is written base⍟value, i.e. Lhs is the base.
		return applyDyadic(n.Span(), lhs, rhs, "logarithm undefined for non-positive base or value", dyadicLog)
	case ast.Min:
		lhs, rhs, err := evalPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		return applyDyadic(n.Span(), lhs, rhs, "comparison failed", minOf)
	case ast.Max:
		lhs, rhs, err := evalPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		return applyDyadic(n.Span(), lhs, rhs, "comparison failed", maxOf)
	case ast.Binomial:
		lhs, rhs, err := evalPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		return applyDyadic(n.Span(), lhs, rhs, "invalid input for binomial calculation", binomial)
	case ast.Deal:
		lhs, rhs, err := evalPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		return evalDeal(n.Span(), lhs, rhs)
	case ast.Residue:
		lhs, rhs, err := evalPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		return applyDyadic(n.Span(), lhs, rhs, "residue failed", residue)

	// ---- Monadic ----
	case ast.Conjugate:
		// Identity on reals; a placeholder for future complex support.
		return Eval(n.Arg)
	case ast.Negate:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return applyMonadic(n.Span(), arg, "overflow in negation", value.CheckedNeg)
	case ast.Direction:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return applyMonadic(n.Span(), arg, "comparison failed, possibly due to NaN", direction)
	case ast.Reciprocal:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return applyMonadic(n.Span(), arg, "reciprocal failed", reciprocal)
	case ast.Exp:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return applyMonadic(n.Span(), arg, "exponential failed", func(a value.Val) (value.Val, bool) {
			return value.Float(math.Exp(a.ToFloat())), true
		})
	case ast.NaturalLog:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return applyMonadic(n.Span(), arg, "logarithm undefined for non-positive value", naturalLog)
	case ast.PiMultiple:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return applyMonadic(n.Span(), arg, "pi multiple failed", func(a value.Val) (value.Val, bool) {
			return value.Float(a.ToFloat() * math.Pi), true
		})
	case ast.Factorial:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return applyMonadic(n.Span(), arg, "factorial not defined for negative numbers or non-integers, or overflowed", factorial)
	case ast.Roll:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return applyMonadic(n.Span(), arg, "roll operand must be a non-negative integer", roll)
	case ast.Magnitude:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return applyMonadic(n.Span(), arg, "overflow in magnitude", magnitude)
	case ast.Ceil:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return applyMonadic(n.Span(), arg, "ceiling failed", func(a value.Val) (value.Val, bool) {
			if a.IsInt() {
				return a, true
			}
			return value.Float(math.Ceil(a.Float64())), true
		})
	case ast.Floor:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return applyMonadic(n.Span(), arg, "floor failed", func(a value.Val) (value.Val, bool) {
			if a.IsInt() {
				return a, true
			}
			return value.Float(math.Floor(a.Float64())), true
		})
	case ast.MonadicMax:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return reduceExtreme(n.Span(), arg, 1)
	case ast.MonadicMin:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return reduceExtreme(n.Span(), arg, -1)
	case ast.GenIndex:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return evalGenIndex(n.Span(), arg)
	case ast.Where:
		arg, err := Eval(n.Arg)
		if err != nil {
			return nil, err
		}
		return evalWhere(arg), nil

	// ---- Reduction ----
	case ast.Reduce:
		term, err := Eval(n.Term)
		if err != nil {
			return nil, err
		}
		return evalReduce(n.Span(), n.Op, term)

	// ---- Leaves ----
	case ast.ScalarInteger:
		i, perr := strconv.ParseInt(n.Text, 10, 64)
		if perr != nil {
			return nil, errAt(n.Span(), "integer literal out of range or malformed")
		}
		return []value.Val{value.Int(i)}, nil
	case ast.ScalarFloat:
		f, perr := strconv.ParseFloat(n.Text, 64)
		if perr != nil {
			return nil, errAt(n.Span(), "float literal malformed")
		}
		return []value.Val{value.Float(f)}, nil
	case ast.Vector:
		result := make([]value.Val, 0, len(n.Elements))
		for _, elem := range n.Elements {
			vs, err := Eval(elem)
			if err != nil {
				return nil, err
			}
			result = append(result, vs...)
		}
		return result, nil
	}
	return nil, errAt(ast.Span{}, "unrecognized expression node")
}

func evalPair(lhs, rhs ast.Expr) ([]value.Val, []value.Val, error) {
	l, err := Eval(lhs)
	if err != nil {
		return nil, nil, err
	}
	r, err := Eval(rhs)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// applyDyadic implements scalar extension (spec.md §4.2): operands of
// equal length are paired elementwise; a length-1 operand is
// broadcast against the other; any other length combination is a
// shape-mismatch error carrying the operator's span. Evaluation is
// left-to-right and short-circuits on the first per-element failure.
func applyDyadic(span ast.Span, lhs, rhs []value.Val, msg string, op func(a, b value.Val) (value.Val, bool)) ([]value.Val, error) {
	m, n := len(lhs), len(rhs)
	switch {
	case m == n:
		out := make([]value.Val, m)
		for i := range out {
			r, ok := op(lhs[i], rhs[i])
			if !ok {
				return nil, errAt(span, msg)
			}
			out[i] = r
		}
		return out, nil
	case m == 1:
		out := make([]value.Val, n)
		for i := range out {
			r, ok := op(lhs[0], rhs[i])
			if !ok {
				return nil, errAt(span, msg)
			}
			out[i] = r
		}
		return out, nil
	case n == 1:
		out := make([]value.Val, m)
		for i := range out {
			r, ok := op(lhs[i], rhs[0])
			if !ok {
				return nil, errAt(span, msg)
			}
			out[i] = r
		}
		return out, nil
	default:
		return nil, errAt(span, "operands must be of the same size or one must be scalar")
	}
}

// applyMonadic maps op elementwise over arg, aborting on first failure.
func applyMonadic(span ast.Span, arg []value.Val, msg string, op func(value.Val) (value.Val, bool)) ([]value.Val, error) {
	out := make([]value.Val, len(arg))
	for i, a := range arg {
		r, ok := op(a)
		if !ok {
			return nil, errAt(span, msg)
		}
		out[i] = r
	}
	return out, nil
}

// ---- dyadic primitive bodies ----

func power(a, b value.Val) (value.Val, bool) {
	if idx, ok := b.ToIndex(); ok {
		return value.CheckedPow(a, idx)
	}
	return value.CheckedPowf(a, b.ToFloat())
}

// dyadicLog implements base⍟value: Lhs is the base, Rhs is the value.
func dyadicLog(base, v value.Val) (value.Val, bool) {
	if v.ToFloat() <= 0 || base.ToFloat() <= 0 || base.ToFloat() == 1 {
		return value.Val{}, false
	}
	return value.Log(v, base), true
}

func minOf(a, b value.Val) (value.Val, bool) {
	if value.Compare(a, b) <= 0 {
		return a, true
	}
	return b, true
}

func maxOf(a, b value.Val) (value.Val, bool) {
	if value.Compare(a, b) >= 0 {
		return a, true
	}
	return b, true
}

// lnGamma returns the natural logarithm of |Γ(n)|.
func lnGamma(n float64) float64 {
	lg, _ := math.Lgamma(n)
	return lg
}

// binomialCoefficient computes x! / (y! (x-y)!) through log-gamma, so
// non-integral Float operands are covered too. For integers with
// y > x, Γ(x-y+1) has a pole and the result is 0.
func binomialCoefficient(x, y float64) float64 {
	return math.Exp(lnGamma(x+1) - lnGamma(y+1) - lnGamma(x-y+1))
}

func binomial(a, b value.Val) (value.Val, bool) {
	if a.IsInt() && b.IsInt() {
		n, k := a.Int64(), b.Int64()
		if n >= 0 && k >= 0 {
			return value.Float(math.Round(binomialCoefficient(float64(n), float64(k)))), true
		}
		return value.Val{}, false
	}
	if a.IsFloat() && b.IsFloat() {
		x, y := a.Float64(), b.Float64()
		if y >= 0 && x >= y {
			return value.Float(binomialCoefficient(x, y)), true
		}
		return value.Val{}, false
	}
	return value.Val{}, false
}

func residue(a, b value.Val) (value.Val, bool) {
	switch {
	case a.IsInt() && b.IsInt():
		if b.Int64() == 0 {
			return value.Val{}, false
		}
		return value.Int(a.Int64() % b.Int64()), true
	default:
		return value.Float(math.Mod(a.ToFloat(), b.ToFloat())), true
	}
}

// evalDeal implements the scalar-only Deal(count, pool) primitive:
// count independent draws, with replacement, uniformly from [0, pool].
func evalDeal(span ast.Span, lhs, rhs []value.Val) ([]value.Val, error) {
	if len(lhs) != 1 || len(rhs) != 1 {
		return nil, errAt(span, "deal operands must be scalars")
	}
	if !lhs[0].IsInt() || !rhs[0].IsInt() {
		return nil, errAt(span, "deal operands must be integers")
	}
	count, pool := lhs[0].Int64(), rhs[0].Int64()
	if count < 0 || pool < count {
		return nil, errAt(span, "deal requires pool >= count >= 0")
	}
	out := make([]value.Val, count)
	for i := range out {
		out[i] = value.Int(rand.Int64N(pool + 1))
	}
	return out, nil
}

// ---- monadic primitive bodies ----

func direction(a value.Val) (value.Val, bool) {
	if a.IsFloat() && math.IsNaN(a.Float64()) {
		return value.Val{}, false
	}
	switch c := value.Compare(a, value.Int(0)); {
	case c < 0:
		return value.Int(-1), true
	case c > 0:
		return value.Int(1), true
	default:
		return value.Int(0), true
	}
}

func reciprocal(a value.Val) (value.Val, bool) {
	return value.CheckedDiv(value.Int(1), a)
}

func naturalLog(a value.Val) (value.Val, bool) {
	if a.ToFloat() <= 0 {
		return value.Val{}, false
	}
	return value.Float(math.Log(a.ToFloat())), true
}

func factorial(a value.Val) (value.Val, bool) {
	if a.IsInt() {
		if a.Int64() < 0 {
			return value.Val{}, false
		}
		acc := value.Int(1)
		for x := int64(1); x <= a.Int64(); x++ {
			next, ok := value.CheckedMul(acc, value.Int(x))
			if !ok {
				return value.Val{}, false
			}
			acc = next
		}
		return acc, true
	}
	f := a.Float64()
	if f < 0 || f != math.Trunc(f) {
		return value.Val{}, false
	}
	acc := 1.0
	for x := int64(1); x <= int64(f); x++ {
		acc *= float64(x)
	}
	return value.Float(acc), true
}

func roll(a value.Val) (value.Val, bool) {
	if !a.IsInt() || a.Int64() < 0 {
		return value.Val{}, false
	}
	if a.Int64() == 0 {
		return value.Int(int64(rand.Uint64())), true
	}
	return value.Int(rand.Int64N(a.Int64() + 1)), true
}

func magnitude(a value.Val) (value.Val, bool) {
	if a.IsFloat() {
		return value.Float(math.Abs(a.Float64())), true
	}
	if a.Int64() >= 0 {
		return a, true
	}
	return value.CheckedNeg(a)
}

// reduceExtreme finds the max (sign>0) or min (sign<0) of arg,
// implementing MonadicMax/MonadicMin directly and also serving as the
// lowering target for the "⌈/" and "⌊/" surface forms (DESIGN.md,
// SPEC_FULL.md §6 item 2).
func reduceExtreme(span ast.Span, arg []value.Val, sign int) ([]value.Val, error) {
	if len(arg) == 0 {
		return nil, errAt(span, "cannot find max/min of an empty vector")
	}
	best := arg[0]
	for _, v := range arg[1:] {
		c := value.Compare(v, best)
		if (sign > 0 && c > 0) || (sign < 0 && c < 0) {
			best = v
		}
	}
	return []value.Val{best}, nil
}

func evalGenIndex(span ast.Span, arg []value.Val) ([]value.Val, error) {
	if len(arg) != 1 {
		return nil, errAt(span, "generate index accepts a single scalar operand")
	}
	n, ok := arg[0].ToIndex()
	if !ok {
		return nil, errAt(span, "generate index requires a non-negative integer operand")
	}
	out := make([]value.Val, n)
	for i := range out {
		out[i] = value.Int(int64(i + 1))
	}
	return out, nil
}

func evalWhere(arg []value.Val) []value.Val {
	var out []value.Val
	for i, v := range arg {
		var count int
		switch {
		case v.IsInt() && v.Int64() > 0:
			count = int(v.Int64())
		case v.IsFloat() && v.Float64() > 0:
			count = int(math.Floor(v.Float64()))
		default:
			continue
		}
		for k := 0; k < count; k++ {
			out = append(out, value.Int(int64(i+1)))
		}
	}
	return out
}

// evalReduce left-folds op across term: acc starts at term[0] and
// combines with each subsequent element using checked arithmetic with
// promotion. An empty term has no identity and is an error
// (spec.md §9 Open Question 3 — a deliberate departure from
// original_source's silent 0/1 default).
func evalReduce(span ast.Span, op ast.ReduceOp, term []value.Val) ([]value.Val, error) {
	if len(term) == 0 {
		return nil, errAt(span, "reduction of an empty vector has no identity")
	}
	var step func(a, b value.Val) (value.Val, bool)
	switch op {
	case ast.ReduceAdd:
		step = value.CheckedAdd
	case ast.ReduceSub:
		step = value.CheckedSub
	case ast.ReduceMul:
		step = value.CheckedMul
	case ast.ReduceDiv:
		step = value.CheckedDiv
	}
	acc := term[0]
	for _, v := range term[1:] {
		next, ok := step(acc, v)
		if !ok {
			return nil, errAt(span, "arithmetic error in reduction")
		}
		acc = next
	}
	return []value.Val{acc}, nil
}
