// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"github.com/go-interpreter/wasmtypecheck/stack"
	"github.com/go-interpreter/wasmtypecheck/wasm"
)

// Env is a read-only view of the module plus the per-function state
// needed to typecheck one function body (spec §3.4). It is rebuilt for
// every function; nothing here is shared across functions.
type Env struct {
	module *wasm.Module

	locals []stack.Typ // one entry per parameter, then per declared local
	result []stack.Typ // the function's result types, declaration order

	// blocks is the stack of enclosing-block jump-types. The last entry
	// is the innermost enclosing block; label(i) indexes LIFO by depth,
	// the way a branch target does.
	blocks []jumpType

	// refs is the declared-refs set: function indices that may appear
	// as the operand of ref.func inside a function body. It is built
	// once by the orchestrator, before any function body is walked, and
	// is never mutated while walking one.
	refs map[uint32]bool
}

type jumpType struct {
	types []stack.Typ
}

func newEnv(m *wasm.Module, refs map[uint32]bool, params, locals []wasm.ValType, result []wasm.ValType) *Env {
	ls := make([]stack.Typ, 0, len(params)+len(locals))
	ls = append(ls, stack.FromValTypes(params)...)
	ls = append(ls, stack.FromValTypes(locals)...)
	return &Env{
		module: m,
		locals: ls,
		result: stack.FromValTypes(result),
		refs:   refs,
	}
}

// Local returns the abstract type of the i-th local (parameters come
// first), or ok=false if i is out of range.
func (e *Env) Local(i uint32) (stack.Typ, bool) {
	if int(i) >= len(e.locals) {
		return stack.Typ{}, false
	}
	return e.locals[i], true
}

func (e *Env) pushBlock(jt jumpType) {
	e.blocks = append(e.blocks, jt)
}

func (e *Env) popBlock() {
	e.blocks = e.blocks[:len(e.blocks)-1]
}

// label returns the jump-type of the block at nesting depth i: 0 is the
// innermost enclosing block.
func (e *Env) label(i uint32) (jumpType, bool) {
	if int(i) >= len(e.blocks) {
		return jumpType{}, false
	}
	return e.blocks[len(e.blocks)-1-int(i)], true
}

func (e *Env) isDeclaredRef(i uint32) bool {
	return e.refs[i]
}
