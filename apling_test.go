package apling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		input string
		want  []float64
	}{
		{"2+2", []float64{4.0}},
		{"4 2 3 + 8 5 7", []float64{12.0, 7.0, 10.0}},
		{"+/⍳10", []float64{55.0}},
		{"×/⍳5", []float64{120.0}},
		{"⌈/1 5 2 9 3", []float64{9.0}},
		{"⌊/1 5 2 9 3", []float64{1.0}},
		{"(+/⍳10)÷10", []float64{5.5}},
	}
	for _, c := range cases {
		got, err := ParseAndEvaluate(c.input)
		require.NoError(t, err, "input %q", c.input)
		assert.Equal(t, c.want, got, "input %q", c.input)
	}
}

func TestParseErrorIsFormatted(t *testing.T) {
	_, err := ParseAndEvaluate("2 @ 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Parse error:")
}

func TestEvaluationErrorIsFormatted(t *testing.T) {
	_, err := ParseAndEvaluate("9223372036854775807+1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Evaluation error at line 1 column")
}

func TestGenIndexZeroYieldsEmptyResult(t *testing.T) {
	got, err := ParseAndEvaluate("⍳0")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank("   \t  "))
	assert.False(t, IsBlank("2+2"))
}
