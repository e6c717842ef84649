// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package apling is the front-end adapter (spec.md §4.6): it wires
// scan, parse and eval together behind a single entry point,
// ParseAndEvaluate, and turns both parse and evaluation failures into
// the human-readable strings described by the language design.
package apling

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"apling/ast"
	"apling/eval"
	"apling/parse"
	"apling/scan"
)

// ParseAndEvaluate tokenizes, parses and evaluates a single line of
// source, returning the result widened to float64 (spec.md §6) or a
// human-readable error message as err.Error().
func ParseAndEvaluate(line string) ([]float64, error) {
	tokens, lexErr := scan.Scan(line)
	if lexErr != nil {
		return nil, errors.New(formatParseError(lexErr.Text))
	}

	tree, err := parse.Parse(tokens)
	if err != nil {
		if perr, ok := err.(*parse.Error); ok {
			return nil, errors.New(formatParseError(perr.Msg))
		}
		return nil, errors.New(formatParseError(err.Error()))
	}

	vals, err := eval.Eval(tree)
	if err != nil {
		evalErr, ok := err.(*eval.Error)
		if !ok {
			return nil, errors.Wrap(err, "evaluation failed")
		}
		return nil, errors.New(formatEvalError(line, evalErr))
	}

	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = cast.ToFloat64(v.ToFloat())
	}
	return out, nil
}

func formatParseError(details string) string {
	return fmt.Sprintf("Parse error: %s", details)
}

// formatEvalError resolves the error's span against line to a
// (line, column) pair and the offending substring, per spec.md §4.6
// and §7. Span{} is the sentinel "no location" and renders as 1:1.
func formatEvalError(line string, evalErr *eval.Error) string {
	lineNo, col, text := resolveSpan(line, evalErr.Span)
	return fmt.Sprintf("Evaluation error at line %d column %d: '%s', %s.", lineNo, col, text, evalErr.Msg)
}

// resolveSpan converts a byte-offset Span into the source into a
// 1-based (line, column) pair and the exact substring it covers.
// ParseAndEvaluate only ever processes a single line, so line is
// always 1; column is counted in runes, matching how a terminal
// displays the offending text.
func resolveSpan(source string, span ast.Span) (lineNo, col int, text string) {
	if span == (ast.Span{}) {
		return 1, 1, ""
	}
	start, end := int(span.Start), int(span.End)
	if start < 0 || end > len(source) || start > end {
		return 1, 1, ""
	}
	col = len([]rune(source[:start])) + 1
	return 1, col, source[start:end]
}

// Version identifies this evaluator for diagnostic banners.
const Version = "apling/1.0"

// trimLine is a small convenience the REPL driver uses to decide
// whether a line is empty/whitespace-only before calling
// ParseAndEvaluate (spec.md §6, CLI step 3).
func trimLine(s string) string { return strings.TrimSpace(s) }

// IsBlank reports whether line contains nothing but whitespace.
func IsBlank(line string) bool { return trimLine(line) == "" }
