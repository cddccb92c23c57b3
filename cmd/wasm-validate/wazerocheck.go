// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build wazerocheck

package main

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
)

// wazeroCrossCheck compiles wasmBytes with wazero, an independent
// implementation, as a sanity check against this package's own
// verdict on the same module. It is opt-in (-tags wazerocheck) since
// it pulls in wazero's full compiler for what is otherwise a
// dev-time double-check, not part of the validator's own contract.
func wazeroCrossCheck(ctx context.Context, wasmBytes []byte) error {
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		return fmt.Errorf("wazero rejected module: %w", err)
	}
	return compiled.Close(ctx)
}
