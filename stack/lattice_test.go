// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-interpreter/wasmtypecheck/wasm"
)

func TestMatchRefType(t *testing.T) {
	tcs := []struct {
		name     string
		required wasm.HeapType
		got      wasm.HeapType
		want     bool
	}{
		{"any accepts struct", wasm.AnyHeap, wasm.StructHeap, true},
		{"identical heap types", wasm.StructHeap, wasm.StructHeap, true},
		{"struct <: eq", wasm.EqHeap, wasm.StructHeap, true},
		{"struct <: any", wasm.AnyHeap, wasm.StructHeap, true},
		{"array <: eq", wasm.EqHeap, wasm.ArrayHeap, true},
		{"i31 <: eq", wasm.EqHeap, wasm.I31Heap, true},
		{"none <: struct", wasm.StructHeap, wasm.NoneHeap, true},
		{"none <: any", wasm.AnyHeap, wasm.NoneHeap, true},
		{"eq does not satisfy struct", wasm.StructHeap, wasm.EqHeap, false},
		{"func and any unrelated", wasm.AnyHeap, wasm.FuncHeap, false},
		{"no_func <: func", wasm.FuncHeap, wasm.NoFuncHeap, true},
		{"no_extern <: extern", wasm.ExternHeap, wasm.NoExternHeap, true},
		{"extern unrelated to any", wasm.AnyHeap, wasm.ExternHeap, false},
		{"concrete never matches via MatchRefType", wasm.StructHeap, wasm.ConcreteHeap, false},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, MatchRefType(tc.required, tc.got))
		})
	}
}

func TestMatchTypes(t *testing.T) {
	tcs := []struct {
		name     string
		required Typ
		got      Typ
		want     bool
	}{
		{"num equal", Num(wasm.I32), Num(wasm.I32), true},
		{"num mismatch", Num(wasm.I32), Num(wasm.I64), false},
		{"any absorbs num", Any, Num(wasm.I32), true},
		{"something absorbs ref", Something, Ref(wasm.StructHeap), true},
		{"ref subtyping", Ref(wasm.AnyHeap), Ref(wasm.StructHeap), true},
		{"concrete vs concrete same index", RefConcrete(3), RefConcrete(3), true},
		{"concrete vs concrete different index", RefConcrete(3), RefConcrete(4), false},
		{"concrete vs abstract never matches", RefConcrete(3), Ref(wasm.AnyHeap), false},
		{"num vs ref never matches", Num(wasm.I32), Ref(wasm.AnyHeap), false},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, MatchTypes(tc.required, tc.got))
		})
	}
}

func TestEqual(t *testing.T) {
	i32 := Num(wasm.I32)
	i64 := Num(wasm.I64)

	tcs := []struct {
		name string
		a, b []Typ
		want bool
	}{
		{"both empty", nil, nil, true},
		{"identical", []Typ{i32, i64}, []Typ{i32, i64}, true},
		{"different lengths no any", []Typ{i32}, []Typ{i32, i64}, false},
		{"any absorbs extra on one side", []Typ{Any}, []Typ{i32, i64}, true},
		{"any absorbs nothing needed", []Typ{Any}, nil, true},
		{"any on both sides, shapes differ", []Typ{i32, Any}, []Typ{i32, i64, Any}, true},
		{"mismatched concrete types under any", []Typ{Any, i32}, []Typ{Any, i64}, false},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Equal(tc.a, tc.b))
		})
	}
}
