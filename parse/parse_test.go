package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apling/ast"
	"apling/scan"
)

func parseLine(t *testing.T, line string) ast.Expr {
	t.Helper()
	tokens, errTok := scan.Scan(line)
	require.Nil(t, errTok)
	expr, err := Parse(tokens)
	require.NoError(t, err)
	return expr
}

func TestParseSimpleDyadic(t *testing.T) {
	expr := parseLine(t, "2+2")
	_, ok := expr.(ast.Add)
	assert.True(t, ok)
}

func TestParseVectorJuxtaposition(t *testing.T) {
	expr := parseLine(t, "4 2 3 + 8 5 7")
	add, ok := expr.(ast.Add)
	require.True(t, ok)
	lhsVec, ok := add.Lhs.(ast.Vector)
	require.True(t, ok)
	assert.Len(t, lhsVec.Elements, 3)
	rhsVec, ok := add.Rhs.(ast.Vector)
	require.True(t, ok)
	assert.Len(t, rhsVec.Elements, 3)
}

func TestParseReduceLowersToGenericReduce(t *testing.T) {
	expr := parseLine(t, "+/⍳10")
	reduce, ok := expr.(ast.Reduce)
	require.True(t, ok)
	assert.Equal(t, ast.ReduceAdd, reduce.Op)
	_, ok = reduce.Term.(ast.GenIndex)
	assert.True(t, ok)
}

func TestParseMaxReduceLowersToMonadicMax(t *testing.T) {
	expr := parseLine(t, "⌈/1 5 2 9 3")
	_, ok := expr.(ast.MonadicMax)
	assert.True(t, ok)
}

func TestParseMinReduceLowersToMonadicMin(t *testing.T) {
	expr := parseLine(t, "⌊/1 5 2 9 3")
	_, ok := expr.(ast.MonadicMin)
	assert.True(t, ok)
}

func TestParseParenthesizedExpression(t *testing.T) {
	expr := parseLine(t, "(+/⍳10)÷10")
	div, ok := expr.(ast.Div)
	require.True(t, ok)
	_, ok = div.Lhs.(ast.Reduce)
	assert.True(t, ok)
}

func TestParseRightToLeftAssociativity(t *testing.T) {
	// "2×3+4" is "2×(3+4)", not "(2×3)+4" — APL evaluates right to left.
	expr := parseLine(t, "2×3+4")
	mul, ok := expr.(ast.Mul)
	require.True(t, ok)
	_, ok = mul.Rhs.(ast.Add)
	assert.True(t, ok)
}

func TestParseUnmatchedParenIsError(t *testing.T) {
	tokens, errTok := scan.Scan("(1 2")
	require.Nil(t, errTok)
	_, err := Parse(tokens)
	require.Error(t, err)
}

func TestParseEmptyInputIsError(t *testing.T) {
	_, err := Parse(nil)
	require.Error(t, err)
}
