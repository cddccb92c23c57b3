// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package validate type-checks a decoded WebAssembly module: operand
// stack discipline for every function body, well-formedness of global,
// element and data initializers, and the reference-types/GC/tail-call
// extensions layered on top (spec §4).
package validate

import (
	"fmt"

	"github.com/go-interpreter/wasmtypecheck/internal/tracelog"
	"github.com/go-interpreter/wasmtypecheck/stack"
	"github.com/go-interpreter/wasmtypecheck/wasm"
)

// Validate type-checks module in its entirety (spec §4.5) and reports
// the first problem found, wrapped as a *ValidationError. internalError
// values raised by unimplemented or unreachable code paths deep in the
// checker are recovered here and surfaced as a KindInternal
// ValidationError. Any other panic (for instance an index out of range
// in a module that is not index-resolved) is re-raised.
func Validate(module *wasm.Module) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(internalError)
			if !ok {
				panic(r)
			}
			err = &ValidationError{Kind: KindInternal, Context: ie.reason, Func: -1}
		}
	}()

	refs := map[uint32]bool{}

	if err := validateGlobals(module, refs); err != nil {
		return err
	}
	if err := validateElems(module, refs); err != nil {
		return err
	}
	if err := validateData(module, refs); err != nil {
		return err
	}
	for _, i := range module.ExportedFuncs {
		refs[i] = true
	}
	for i, fn := range module.Funcs {
		if err := validateFunc(module, refs, i, fn); err != nil {
			if ve, ok := err.(*ValidationError); ok {
				ve.Func = i
			}
			return err
		}
		tracelog.Printf("function %d validated", i)
	}
	return nil
}

func validateGlobals(module *wasm.Module, refs map[uint32]bool) error {
	for i, g := range module.Globals {
		if g.Imported() {
			continue
		}
		got, err := typecheckConstExpr(module, refs, g.Init)
		if err != nil {
			return err
		}
		// Equality, not MatchTypes: a global's declared type is exact, not
		// a bound the initializer only has to satisfy (spec §4.5 step 1).
		if got != stack.FromValType(g.Type) {
			return typeMismatch(fmt.Sprintf("global %d initializer", i))
		}
	}
	return nil
}

func validateElems(module *wasm.Module, refs map[uint32]bool) error {
	for i, elem := range module.Elems {
		declared := stack.FromValType(elem.Type)
		for _, init := range elem.Init {
			got, err := typecheckConstExpr(module, refs, init)
			if err != nil {
				return err
			}
			if got.Kind == stack.KindRef && !stack.MatchTypes(declared, got) {
				return typeMismatch(fmt.Sprintf("elem %d initializer", i))
			}
		}
		if elem.Mode != wasm.ElemActive {
			continue
		}
		if int(elem.Table) >= len(module.Tables) {
			return typeMismatch(fmt.Sprintf("elem %d: unknown table %d", i, elem.Table))
		}
		tbl := module.Tables[elem.Table]
		if tbl.Type != elem.Type {
			return typeMismatch(fmt.Sprintf("elem %d: table element type mismatch", i))
		}
		if _, err := typecheckConstExpr(module, refs, elem.Offset); err != nil {
			return err
		}
	}
	return nil
}

func validateData(module *wasm.Module, refs map[uint32]bool) error {
	for _, d := range module.Data {
		if d.Mode != wasm.DataActive {
			continue
		}
		if int(d.Mem) >= len(module.Mem) {
			return unknownMemory(d.Mem)
		}
		if _, err := typecheckConstExpr(module, refs, d.Offset); err != nil {
			return err
		}
	}
	return nil
}

func validateFunc(module *wasm.Module, refs map[uint32]bool, i int, fn wasm.Func) error {
	if fn.Imported() {
		return nil
	}
	env := newEnv(module, refs, fn.Type.Params, fn.Locals, fn.Type.Results)
	bt := wasm.BlockType{Results: fn.Type.Results}
	// typecheckExpr itself enforces that the walked body's final stack
	// equals the block type's (here: the function's) declared results
	// (spec §4.3 "Block entry / exit" step 4); nothing further to check.
	if _, err := typecheckExpr(env, fn.Body, false, bt, nil); err != nil {
		return err
	}
	return nil
}
