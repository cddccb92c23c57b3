// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import "github.com/go-interpreter/wasmtypecheck/wasm"

// heapLattice maps each abstract heap type to the heap types it is a
// subtype of, itself included (see MatchRefType). ConcreteHeap (nominal
// type indices) is deliberately excluded: matching between two concrete
// indices needs structural subtyping this validator does not implement
// (spec §9.1, SPEC_FULL "SUPPLEMENTED FEATURES"); two concrete
// references match only when their indices are identical.
var heapLattice = map[wasm.HeapType][]wasm.HeapType{
	// none <: {struct, array, i31, eq} <: eq <: any
	wasm.NoneHeap:   {wasm.NoneHeap, wasm.EqHeap, wasm.I31Heap, wasm.StructHeap, wasm.ArrayHeap, wasm.AnyHeap},
	wasm.I31Heap:    {wasm.I31Heap, wasm.EqHeap, wasm.AnyHeap},
	wasm.StructHeap: {wasm.StructHeap, wasm.EqHeap, wasm.AnyHeap},
	wasm.ArrayHeap:  {wasm.ArrayHeap, wasm.EqHeap, wasm.AnyHeap},
	wasm.EqHeap:     {wasm.EqHeap, wasm.AnyHeap},
	wasm.AnyHeap:    {wasm.AnyHeap},
	// no_func <: func
	wasm.NoFuncHeap: {wasm.NoFuncHeap, wasm.FuncHeap},
	wasm.FuncHeap:   {wasm.FuncHeap},
	// no_extern <: extern
	wasm.NoExternHeap: {wasm.NoExternHeap, wasm.ExternHeap},
	wasm.ExternHeap:   {wasm.ExternHeap},
}

// MatchRefType reports whether a value of heap type got is acceptable
// where required is expected, per the GC proposal's heap-type hierarchy
// (spec §4.1, extended per §9.1).
func MatchRefType(required, got wasm.HeapType) bool {
	// required == AnyHeap is not special-cased here: AnyHeap is the top
	// of only the internal (struct/array/i31/eq) hierarchy, not of the
	// disjoint func/extern hierarchies, so whether it accepts got still
	// depends on which hierarchy got belongs to.
	if required == got {
		return true
	}
	if required == wasm.ConcreteHeap || got == wasm.ConcreteHeap {
		return false
	}
	for _, g := range heapLattice[got] {
		if g == required {
			return true
		}
	}
	return false
}

// MatchTypes reports whether got is acceptable where required is
// expected (spec §4.1).
func MatchTypes(required, got Typ) bool {
	switch {
	case required.Kind == KindSomething || got.Kind == KindSomething:
		return true
	case required.Kind == KindAny || got.Kind == KindAny:
		return true
	case required.Kind == KindNum && got.Kind == KindNum:
		return required.Num == got.Num
	case required.Kind == KindRef && got.Kind == KindRef:
		if required.Heap == wasm.ConcreteHeap || got.Heap == wasm.ConcreteHeap {
			return required.Heap == wasm.ConcreteHeap && got.Heap == wasm.ConcreteHeap && required.Index == got.Index
		}
		return MatchRefType(required.Heap, got.Heap)
	default:
		return false
	}
}

// Equal reports whether two stacks are equal modulo Any: Any on either
// side may be split or duplicated arbitrarily to align with the other
// side. If one side is empty, the other must consist entirely of Any.
func Equal(a, b []Typ) bool {
	_, ok := equalRec(a, b)
	return ok
}

func equalRec(a, b []Typ) ([]Typ, bool) {
	switch {
	case len(a) == 0 && len(b) == 0:
		return nil, true
	case len(a) == 0:
		return nil, allAny(b)
	case len(b) == 0:
		return nil, allAny(a)
	case a[0].Kind == KindAny && b[0].Kind == KindAny:
		// Try consuming both wholesale, or peeling one element off either
		// side while keeping the Any in place for the next comparison.
		if _, ok := equalRec(a[1:], b[1:]); ok {
			return nil, true
		}
		if _, ok := equalRec(a, b[1:]); ok {
			return nil, true
		}
		if _, ok := equalRec(a[1:], b); ok {
			return nil, true
		}
		return nil, false
	case a[0].Kind == KindAny:
		if _, ok := equalRec(a[1:], b[1:]); ok {
			return nil, true
		}
		return equalRec(a, b[1:])
	case b[0].Kind == KindAny:
		if _, ok := equalRec(a[1:], b[1:]); ok {
			return nil, true
		}
		return equalRec(a[1:], b)
	case MatchTypes(a[0], b[0]):
		return equalRec(a[1:], b[1:])
	default:
		return nil, false
	}
}

func allAny(s []Typ) bool {
	for _, t := range s {
		if t.Kind != KindAny {
			return false
		}
	}
	return true
}
