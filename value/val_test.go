package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromotionMonotonicity(t *testing.T) {
	r, ok := CheckedAdd(Int(2), Float(3.5))
	assert.True(t, ok)
	assert.True(t, r.IsFloat())
	assert.Equal(t, 5.5, r.Float64())
}

func TestCheckedAddOverflow(t *testing.T) {
	_, ok := CheckedAdd(Int(math.MaxInt64), Int(1))
	assert.False(t, ok)
}

func TestCheckedNegMinInt(t *testing.T) {
	_, ok := CheckedNeg(Int(math.MinInt64))
	assert.False(t, ok)
}

func TestCheckedNegFloat(t *testing.T) {
	r, ok := CheckedNeg(Float(3))
	assert.True(t, ok)
	assert.Equal(t, -3.0, r.Float64())
}

func TestCheckedDivAlwaysFloat(t *testing.T) {
	r, ok := CheckedDiv(Int(7), Int(2))
	assert.True(t, ok)
	assert.True(t, r.IsFloat())
	assert.Equal(t, 3.5, r.Float64())
}

func TestCheckedMulOverflow(t *testing.T) {
	_, ok := CheckedMul(Int(math.MaxInt64), Int(2))
	assert.False(t, ok)
}

func TestCompareNaNLeastAndEqualToItself(t *testing.T) {
	nan := Float(math.NaN())
	assert.Equal(t, 0, Compare(nan, nan))
	assert.Equal(t, -1, Compare(nan, Float(0)))
	assert.Equal(t, 1, Compare(Float(0), nan))
}

func TestCompareMixedPromotesInteger(t *testing.T) {
	assert.Equal(t, 0, Compare(Int(2), Float(2.0)))
	assert.True(t, Compare(Int(1), Float(1.5)) < 0)
}

func TestToIndex(t *testing.T) {
	n, ok := Int(5).ToIndex()
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = Int(-1).ToIndex()
	assert.False(t, ok)

	n, ok = Float(4.0).ToIndex()
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = Float(4.5).ToIndex()
	assert.False(t, ok)

	_, ok = Float(math.NaN()).ToIndex()
	assert.False(t, ok)
}

func TestCheckedPowIntegerPreservesTag(t *testing.T) {
	r, ok := CheckedPow(Int(2), 10)
	assert.True(t, ok)
	assert.True(t, r.IsInt())
	assert.Equal(t, int64(1024), r.Int64())
}

func TestCheckedPowOverflow(t *testing.T) {
	_, ok := CheckedPow(Int(math.MaxInt64), 2)
	assert.False(t, ok)
}
