// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-interpreter/wasmtypecheck/wasm"
)

func TestFromValType(t *testing.T) {
	require.Equal(t, Num(wasm.I64), FromValType(wasm.NumVal(wasm.I64)))
	require.Equal(t, Ref(wasm.StructHeap), FromValType(wasm.RefVal(true, wasm.StructHeap)))

	concrete := wasm.ValType{IsRef: true, Ref: wasm.RefType{Heap: wasm.ConcreteHeap, Index: 7}}
	require.Equal(t, RefConcrete(7), FromValType(concrete))
}

func TestReverse(t *testing.T) {
	i32, i64, f32 := Num(wasm.I32), Num(wasm.I64), Num(wasm.F32)
	require.Equal(t, []Typ{f32, i64, i32}, Reverse([]Typ{i32, i64, f32}))
	require.Empty(t, Reverse(nil))
}

func TestFromValTypesPreservesOrder(t *testing.T) {
	vs := []wasm.ValType{wasm.NumVal(wasm.I32), wasm.NumVal(wasm.F64)}
	require.Equal(t, []Typ{Num(wasm.I32), Num(wasm.F64)}, FromValTypes(vs))
}
