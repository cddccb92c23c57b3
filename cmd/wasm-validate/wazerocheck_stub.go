// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !wazerocheck

package main

import "context"

// wazeroCrossCheck is a no-op in the default build: the wazero
// dependency only needs paying for when a caller explicitly opts in
// with -tags wazerocheck, since it brings in a full compiler/runtime
// just to double-check this package's own verdict.
func wazeroCrossCheck(ctx context.Context, wasmBytes []byte) error {
	return nil
}
