// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import "github.com/go-interpreter/wasmtypecheck/internal/tracelog"

// PrintDebugInfo mirrors the teacher's package-level debug toggle. Its
// value is passed to tracelog.SetVerbose once, at package init; a later
// assignment has no effect, so tracing is switched afterwards through
// tracelog.SetVerbose.
var PrintDebugInfo = false

func init() {
	tracelog.SetVerbose(PrintDebugInfo)
}
