// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracelog provides the toggle-able step-by-step logger shared
// by validate and cmd/wasm-validate, generalized from the teacher's
// per-package PrintDebugInfo/logger pair so both trace through one switch.
package tracelog

import (
	"io"
	"log"
	"os"
)

// Verbose records whether step-by-step tracing is on. It defaults to
// off, the same as the teacher's PrintDebugInfo. Assigning it directly
// does not reconfigure the logger; SetVerbose does.
var Verbose = false

var logger = newLogger(Verbose)

func newLogger(verbose bool) *log.Logger {
	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	return log.New(w, "", log.Lshortfile)
}

// SetVerbose reconfigures the shared logger; call it before validating
// if PrintDebugInfo-style tracing is wanted.
func SetVerbose(v bool) {
	Verbose = v
	logger = newLogger(v)
}

func Printf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}
