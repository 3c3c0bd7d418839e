/*
 * Copyright 2024 The Pique Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package pglog is a thin, verbosity-gated wrapper around the standard
// library logger. Library code (dlcbf, seedcache, kmerset) never logs;
// only the ingest/traverse drivers and the command entrypoints do, and
// always to stderr so stdout stays clean for Matrix Market / Harwell-Boeing
// output.
package pglog

import (
	"io"
	"log"
	"os"
)

// Logger writes timestamp-free, level-gated progress lines to stderr (or
// any io.Writer supplied via New, for tests).
type Logger struct {
	verbose bool
	l       *log.Logger
}

// New returns a Logger writing to w, with verbose progress lines enabled or
// not.
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{
		verbose: verbose,
		l:       log.New(w, "", 0),
	}
}

// Default returns a Logger writing to os.Stderr.
func Default(verbose bool) *Logger {
	return New(os.Stderr, verbose)
}

// Verbosef logs a formatted progress line only if verbose output is
// enabled.
func (g *Logger) Verbosef(format string, args ...interface{}) {
	if g == nil || !g.verbose {
		return
	}
	g.l.Printf(format, args...)
}

// Errorf always logs, regardless of verbosity.
func (g *Logger) Errorf(format string, args ...interface{}) {
	if g == nil {
		return
	}
	g.l.Printf(format, args...)
}
