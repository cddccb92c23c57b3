// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stack implements the abstract type lattice and the operand
// stack algebra the validator threads through a function body: a
// symbolic stack of Typ values, including the polymorphic bottom Any
// and the universal top Something used to type unreachable code and
// unannotated select.
package stack

import (
	"fmt"

	"github.com/go-interpreter/wasmtypecheck/wasm"
)

// Kind discriminates the variants of Typ.
type Kind uint8

const (
	KindNum Kind = iota
	KindRef
	// KindAny is the polymorphic bottom: it appears only on the stack of
	// unreachable code and matches, and is matched by, anything.
	KindAny
	// KindSomething is the universal top produced by an unannotated
	// select whose operand type is otherwise unconstrained.
	KindSomething
)

// Typ is one element of the abstract operand stack.
type Typ struct {
	Kind Kind
	Num  wasm.NumType
	Heap wasm.HeapType
	// Index is the nominal type index when Heap == wasm.ConcreteHeap.
	// The base lattice (spec §3.1) does not need it, but the GC
	// instruction family added per SPEC_FULL does: popping a struct or
	// array reference must know which struct/array type it names.
	Index uint32
}

func Num(n wasm.NumType) Typ { return Typ{Kind: KindNum, Num: n} }
func Ref(h wasm.HeapType) Typ { return Typ{Kind: KindRef, Heap: h} }

// RefConcrete is a reference to the nominal type at the given index.
func RefConcrete(index uint32) Typ {
	return Typ{Kind: KindRef, Heap: wasm.ConcreteHeap, Index: index}
}

// Any is the polymorphic bottom.
var Any = Typ{Kind: KindAny}

// Something is the universal top.
var Something = Typ{Kind: KindSomething}

// FromValType erases the nullability of a module value type, which the
// abstract stack does not track (spec §3.1).
func FromValType(v wasm.ValType) Typ {
	if v.IsRef {
		if v.Ref.Heap == wasm.ConcreteHeap {
			return RefConcrete(v.Ref.Index)
		}
		return Ref(v.Ref.Heap)
	}
	return Num(v.Num)
}

// FromValTypes converts a declaration-order (bottom-first) value type
// list into its corresponding Typ list, preserving order.
func FromValTypes(vs []wasm.ValType) []Typ {
	out := make([]Typ, len(vs))
	for i, v := range vs {
		out[i] = FromValType(v)
	}
	return out
}

func (t Typ) String() string {
	switch t.Kind {
	case KindNum:
		return t.Num.String()
	case KindRef:
		return fmt.Sprintf("(ref %s)", t.Heap)
	case KindAny:
		return "<bottom>"
	case KindSomething:
		return "<top>"
	default:
		return "<invalid typ>"
	}
}

// Reverse returns a new slice with the elements of vs in reverse order.
// The module declares parameter/result lists bottom-first; the stack is
// addressed top-first, so every comparison between the two reverses one
// of them first.
func Reverse(vs []Typ) []Typ {
	out := make([]Typ, len(vs))
	for i, v := range vs {
		out[len(vs)-1-i] = v
	}
	return out
}

func ReverseVal(vs []wasm.ValType) []wasm.ValType {
	out := make([]wasm.ValType, len(vs))
	for i, v := range vs {
		out[len(vs)-1-i] = v
	}
	return out
}
