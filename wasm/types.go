// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wasm defines the decoded, index-resolved representation of a
// WebAssembly module that the validator consumes. Binary decoding and
// name resolution are the job of an external collaborator; this package
// only describes the shape of their output.
package wasm

import "fmt"

// NumType is one of the four WebAssembly number types.
type NumType uint8

const (
	I32 NumType = iota
	I64
	F32
	F64
)

func (n NumType) String() string {
	switch n {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return fmt.Sprintf("<unknown num_type %d>", uint8(n))
	}
}

// SizeTag selects between the 32- and 64-bit variant of a numeric
// operator family (e.g. i32.add vs i64.add).
type SizeTag uint8

const (
	S32 SizeTag = iota
	S64
)

// HeapType is the "what it points to" half of a reference type.
// Nullability is tracked separately on ValType.
type HeapType uint8

const (
	AnyHeap HeapType = iota
	NoneHeap
	EqHeap
	I31Heap
	StructHeap
	ArrayHeap
	NoFuncHeap
	FuncHeap
	ExternHeap
	NoExternHeap
	// ConcreteHeap marks a nominal type-index reference; Index holds the
	// index into Module.Types. Matching against concrete indices is not
	// needed by the current rule set (see DESIGN.md) beyond identity.
	ConcreteHeap
)

func (h HeapType) String() string {
	switch h {
	case AnyHeap:
		return "any"
	case NoneHeap:
		return "none"
	case EqHeap:
		return "eq"
	case I31Heap:
		return "i31"
	case StructHeap:
		return "struct"
	case ArrayHeap:
		return "array"
	case NoFuncHeap:
		return "nofunc"
	case FuncHeap:
		return "func"
	case ExternHeap:
		return "extern"
	case NoExternHeap:
		return "noextern"
	case ConcreteHeap:
		return "concrete"
	default:
		return fmt.Sprintf("<unknown heap_type %d>", uint8(h))
	}
}

// RefType names a reference type: a heap type plus nullability, and for
// ConcreteHeap, the nominal type index it refers to.
type RefType struct {
	Nullable bool
	Heap     HeapType
	Index    uint32 // valid only when Heap == ConcreteHeap
}

// ValType is a value type as the module itself declares it: either a
// number type or a reference type. It is distinct from the abstract
// stack element Typ in package stack, which additionally carries the
// polymorphic lattice markers.
type ValType struct {
	IsRef bool
	Num   NumType
	Ref   RefType
}

func NumVal(n NumType) ValType { return ValType{Num: n} }

func RefVal(nullable bool, h HeapType) ValType {
	return ValType{IsRef: true, Ref: RefType{Nullable: nullable, Heap: h}}
}

func (v ValType) String() string {
	if v.IsRef {
		q := ""
		if v.Ref.Nullable {
			q = " null"
		}
		return fmt.Sprintf("(ref%s %s)", q, v.Ref.Heap)
	}
	return v.Num.String()
}

// FuncType is a block type / function signature: params then results,
// both in declaration (bottom-first) order.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

func (f *FuncType) String() string {
	return fmt.Sprintf("<func %v -> %v>", f.Params, f.Results)
}

// StructType and ArrayType give the GC instruction family something to
// typecheck against. Field/element mutability matters only to a write
// validator layer this package does not implement; it is recorded for
// a future collaborator.
type StructType struct {
	Fields []FieldType
}

type ArrayType struct {
	Elem FieldType
}

type FieldType struct {
	Type    ValType
	Mutable bool
}

// TypeDef is one entry of the module's type section: exactly one of
// Func, Struct, Array is non-nil.
type TypeDef struct {
	Func   *FuncType
	Struct *StructType
	Array  *ArrayType
}
