// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"

	"apling"
	"apling/config"
)

var (
	format = flag.String("format", "", "format string for printing numbers; empty sets default format")
	prompt = flag.String("prompt", ">>> ", "interactive prompt")
	debug  multiFlag
)

func init() {
	flag.Var(&debug, "debug", "enable a debug tag; can be set multiple times")
}

var conf config.Config

func main() {
	flag.Usage = usage
	flag.Parse()

	conf.SetFormat(*format)
	conf.SetPrompt(*prompt)
	for _, tag := range debug {
		conf.SetDebug(tag, true)
	}

	slog.Info("-----------------")
	slog.Info("-------apling start--------")
	slog.Info("-----------------")

	if err := run(os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "apling: %s\n", err)
		os.Exit(1)
	}

	slog.Info("-----------------")
	slog.Info("-------apling stop--------")
	slog.Info("-----------------")
}

// run drives the line-at-a-time REPL loop described by spec.md §6: a
// banner, a flushed prompt, one line read, blank lines skipped, and
// success/failure printed to stdout/stderr respectively. It returns
// non-nil only on an I/O failure of the REPL itself, which is the
// only case that yields a non-zero exit code.
func run(in *os.File, out, errOut *os.File) error {
	fmt.Fprintln(out, "apling — an APL-style array expression evaluator")

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, conf.Prompt())

		line, readErr := reader.ReadString('\n')
		if line != "" {
			if !apling.IsBlank(line) {
				if conf.Debug("line") {
					slog.Debug("read line", "text", line)
				}
				result, err := apling.ParseAndEvaluate(strings.TrimRight(line, "\r\n"))
				if err != nil {
					fmt.Fprintln(errOut, err)
				} else if f := conf.Format(); f != "" {
					parts := make([]string, len(result))
					for i, x := range result {
						parts[i] = fmt.Sprintf(f, x)
					}
					fmt.Fprintf(out, "Result: [%s]\n", strings.Join(parts, " "))
				} else {
					fmt.Fprintf(out, "Result: %v\n", result)
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return errors.Wrap(readErr, "reading stdin")
		}
	}
}

// multiFlag allows setting a value multiple times to collect a list,
// as in -debug=panic -debug=line.
type multiFlag []string

func (m *multiFlag) String() string { return fmt.Sprint(*m) }

func (m *multiFlag) Set(val string) error {
	*m = append(*m, val)
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: apling [options]\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
	os.Exit(2)
}
