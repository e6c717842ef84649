// Package value implements Val, the tagged numeric scalar at the heart
// of the evaluator, together with promotion, total ordering, and
// checked arithmetic. It is ported from original_source/apiel's
// val.rs, which defines the same Integer/Float union with the same
// promotion and overflow rules; see DESIGN.md.
package value

import (
	"math"

	"github.com/spf13/cast"
)

// Kind identifies which branch of the Integer/Float union a Val holds.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
)

// Val is a tagged union of a signed 64-bit integer or an IEEE-754
// double. There is no implicit widening on construction: the tag
// reflects the literal kind the parser produced, or the kind a
// primitive's definition always returns (spec.md §3.1).
type Val struct {
	kind Kind
	i    int64
	f    float64
}

// Int constructs an Integer-tagged Val.
func Int(i int64) Val { return Val{kind: KindInt, i: i} }

// Float constructs a Float-tagged Val.
func Float(f float64) Val { return Val{kind: KindFloat, f: f} }

// IsInt reports whether v holds an Integer.
func (v Val) IsInt() bool { return v.kind == KindInt }

// IsFloat reports whether v holds a Float.
func (v Val) IsFloat() bool { return v.kind == KindFloat }

// Int64 returns v's payload as an int64, valid only when IsInt.
func (v Val) Int64() int64 { return v.i }

// Float64 returns v's payload as a float64, valid only when IsFloat.
func (v Val) Float64() float64 { return v.f }

// ToFloat widens v to a float64 regardless of its tag.
func (v Val) ToFloat() float64 {
	if v.kind == KindFloat {
		return v.f
	}
	return cast.ToFloat64(v.i)
}

// ToIndex converts v to a non-negative int, for operand positions
// that require an integer count or index (GenIndex's operand, Power's
// exponent). It fails (ok=false) when v is
// negative, or a Float with a non-zero fractional part.
func (v Val) ToIndex() (n int, ok bool) {
	switch v.kind {
	case KindInt:
		if v.i < 0 {
			return 0, false
		}
		return int(v.i), true
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) || v.f != math.Trunc(v.f) || v.f < 0 {
			return 0, false
		}
		return cast.ToInt(v.f), true
	}
	return 0, false
}

// promote widens a mismatched pair to a common tag: Integer/Integer
// and Float/Float pass through unchanged; any Integer/Float mix
// widens the Integer side to Float.
func promote(a, b Val) (Val, Val) {
	if a.kind == b.kind {
		return a, b
	}
	if a.kind == KindInt {
		a = Float(a.ToFloat())
	}
	if b.kind == KindInt {
		b = Float(b.ToFloat())
	}
	return a, b
}

// Equal reports whether a and b are numerically equal after
// promotion. NaN is treated as equal to NaN, matching the total order
// defined by Compare.
func Equal(a, b Val) bool {
	return Compare(a, b) == 0
}

// Compare implements the total order from spec.md §3.1: NaN compares
// less than every non-NaN float and equal to itself; mixed
// Integer/Float pairs compare after promoting the integer to float.
func Compare(a, b Val) int {
	pa, pb := promote(a, b)
	if pa.kind == KindInt {
		switch {
		case pa.i < pb.i:
			return -1
		case pa.i > pb.i:
			return 1
		default:
			return 0
		}
	}
	fa, fb := pa.f, pb.f
	aNaN, bNaN := math.IsNaN(fa), math.IsNaN(fb)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	default:
		return 0
	}
}

// ---- checked arithmetic ----

// CheckedAdd returns a+b after promotion, or ok=false on signed
// 64-bit integer overflow. Float addition is always total (IEEE
// arithmetic never fails; NaN/±Inf are valid results).
func CheckedAdd(a, b Val) (Val, bool) {
	pa, pb := promote(a, b)
	if pa.kind == KindInt {
		r, ok := checkedAddInt64(pa.i, pb.i)
		return Int(r), ok
	}
	return Float(pa.f + pb.f), true
}

// CheckedSub returns a-b after promotion, or ok=false on overflow.
func CheckedSub(a, b Val) (Val, bool) {
	pa, pb := promote(a, b)
	if pa.kind == KindInt {
		r, ok := checkedSubInt64(pa.i, pb.i)
		return Int(r), ok
	}
	return Float(pa.f - pb.f), true
}

// CheckedMul returns a*b after promotion, or ok=false on overflow.
func CheckedMul(a, b Val) (Val, bool) {
	pa, pb := promote(a, b)
	if pa.kind == KindInt {
		r, ok := checkedMulInt64(pa.i, pb.i)
		return Int(r), ok
	}
	return Float(pa.f * pb.f), true
}

// CheckedNeg returns -a, or ok=false when a is the Integer math.MinInt64
// (whose negation does not fit in int64).
func CheckedNeg(a Val) (Val, bool) {
	if a.kind == KindInt {
		if a.i == math.MinInt64 {
			return Val{}, false
		}
		return Int(-a.i), true
	}
	return Float(-a.f), true
}

// CheckedDiv always returns a Float: Integer/Integer division widens
// to Float rather than truncating (spec.md §4.1, a deliberate design
// decision carried from original_source). It is always ok=true;
// division by exact zero yields IEEE ±Inf/NaN.
func CheckedDiv(a, b Val) (Val, bool) {
	return Float(a.ToFloat() / b.ToFloat()), true
}

// CheckedPow raises base to the non-negative integer power exp,
// preserving the Integer tag when base is Integer. ok=false on
// integer overflow.
func CheckedPow(base Val, exp int) (Val, bool) {
	if base.kind == KindFloat {
		return Float(math.Pow(base.f, float64(exp))), true
	}
	r := int64(1)
	b := base.i
	for i := 0; i < exp; i++ {
		next, ok := checkedMulInt64(r, b)
		if !ok {
			return Val{}, false
		}
		r = next
	}
	return Int(r), true
}

// CheckedPowf raises base to an arbitrary float power; the result is
// always Float.
func CheckedPowf(base Val, exp float64) (Val, bool) {
	return Float(math.Pow(base.ToFloat(), exp)), true
}

// Log returns the logarithm of value in the given base; both operands
// widen to Float, and the result is always Float. Domain checking
// (non-positive value or base) is the caller's responsibility.
func Log(value, base Val) Val {
	return Float(math.Log(value.ToFloat()) / math.Log(base.ToFloat()))
}

// checkedAddInt64, checkedSubInt64 and checkedMulInt64 detect signed
// 64-bit overflow without math/bits: addition and subtraction compare
// the result's direction against the operand's sign, and
// multiplication special-cases MinInt64 * -1 and otherwise divides the
// product back, following the overflow checks of
// Tangerg-lynx/pkg/math/math.go's MultiplyExact/DivideExact.
func checkedAddInt64(a, b int64) (int64, bool) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

func checkedSubInt64(a, b int64) (int64, bool) {
	r := a - b
	if (b < 0 && r < a) || (b > 0 && r > a) {
		return 0, false
	}
	return r, true
}

func checkedMulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if a == math.MinInt64 && b == -1 {
		return 0, false
	}
	if r/b != a {
		return 0, false
	}
	return r, true
}
