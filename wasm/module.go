// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

// Func is an entry in the function index space: either imported (Body is
// nil) or locally defined.
type Func struct {
	Type   *FuncType
	Locals []ValType // declared locals, in order, following the parameters
	Body   []Instr   // nil for an imported function
}

// Imported reports whether fn has no body to validate.
func (fn *Func) Imported() bool { return fn.Body == nil }

// Global is an entry in the global index space.
type Global struct {
	Type    ValType
	Mutable bool
	Init    []Instr // nil for an imported global
}

func (g *Global) Imported() bool { return g.Init == nil }

// Table is an entry in the table index space.
type Table struct {
	Type ValType // always a reference type
}

// ElemMode distinguishes the three ways an element segment is consumed.
type ElemMode uint8

const (
	ElemPassive ElemMode = iota
	ElemDeclarative
	ElemActive
)

// Elem is an element segment.
type Elem struct {
	Type  ValType // declared element type
	Init  [][]Instr
	Mode  ElemMode
	Table uint32  // valid only when Mode == ElemActive
	HasTable bool // whether an explicit table index accompanies Mode == ElemActive
	Offset []Instr // valid only when Mode == ElemActive
}

// DataMode distinguishes passive and active data segments.
type DataMode uint8

const (
	DataPassive DataMode = iota
	DataActive
)

// Data is a data segment.
type Data struct {
	Mode   DataMode
	Mem    uint32
	Offset []Instr // valid only when Mode == DataActive
}

// Memory records the presence of linear memory; only its existence (not
// its limits) matters to the validator.
type Memory struct{}

// Module is the decoded, index-resolved view the validator consumes.
// It is built and owned by an external decoder; the validator never
// mutates it.
type Module struct {
	Types   []TypeDef
	Funcs   []Func
	Globals []Global
	Tables  []Table
	Elems   []Elem
	Data    []Data
	Mem     []Memory

	ExportedFuncs []uint32
}

func (m *Module) HasMemory() bool { return len(m.Mem) > 0 }
