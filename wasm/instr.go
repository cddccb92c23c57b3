// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

// Opcode names one instruction family. Where several concrete WebAssembly
// opcodes share a typing rule (every i32/i64 binop, say) they share one
// Opcode here and are distinguished by the Instr's NumType/Size fields,
// the way the validator only ever cares about their stack effect.
type Opcode uint16

const (
	OpUnreachable Opcode = iota
	OpNop

	OpBlock
	OpLoop
	OpIf

	OpBr
	OpBrIf
	OpBrTable
	OpReturn

	OpCall
	OpCallIndirect
	OpCallRef
	OpReturnCall
	OpReturnCallIndirect
	OpReturnCallRef

	OpDrop
	OpSelect
	OpSelectT

	OpLocalGet
	OpLocalSet
	OpLocalTee
	OpGlobalGet
	OpGlobalSet

	OpTableGet
	OpTableSet
	OpTableSize
	OpTableGrow
	OpTableFill
	OpTableCopy
	OpTableInit

	OpLoad
	OpStore
	OpMemorySize
	OpMemoryGrow
	OpMemoryCopy
	OpMemoryFill
	OpMemoryInit

	OpConst
	OpUnOp
	OpBinOp
	OpTestOp
	OpRelOp
	OpConvert

	OpRefNull
	OpRefIsNull
	OpRefFunc
	OpRefI31
	OpI31Get
	OpRefAsNonNull
	OpRefEq
	OpExternConvertAny
	OpAnyConvertExtern

	OpArrayLen
	OpArrayNew
	OpArrayNewDefault
	OpArrayNewFixed
	OpArrayGet
	OpArraySet
	OpArrayFill
	OpArrayCopy

	OpStructNew
	OpStructNewDefault
	OpStructGet
	OpStructSet

	OpRefCast
	OpRefTest
	OpBrOnCast
	OpBrOnCastFail
	OpBrOnNull
	OpBrOnNonNull
)

// BlockType is a (params, results) signature, both in declaration order,
// optionally annotated on block/loop/if.
type BlockType struct {
	Params  []ValType
	Results []ValType
}

// Block carries the nested instruction sequence(s) of a structured
// control instruction. Else is non-nil only for an if with an else arm.
type Block struct {
	Type BlockType
	Body []Instr
	Else []Instr
}

// Instr is one decoded instruction. Only the fields relevant to Op are
// meaningful; the rest are zero. This mirrors how a decoder would hand
// the validator an already-parsed tree rather than a byte stream.
type Instr struct {
	Op Opcode

	Block *Block // OpBlock, OpLoop, OpIf

	Targets []uint32 // OpBrTable: label indices (last is the default)

	Index  uint32 // local/global/func/table/elem/data/type index, context-dependent
	Index2 uint32 // second index, context-dependent (e.g. table.copy dst/src, struct.get type/field)

	Size SizeTag // S32 or S64, for sized op families

	NumType NumType // operand type for const/unop/binop/testop/relop
	SrcType ValType // OpConvert: source type
	DstType ValType // OpConvert: destination type

	ConstI32 int32
	ConstI64 int64
	ConstF32 float32
	ConstF64 float64

	Align uint32 // memory alignment immediate (log2)
	Width uint8  // natural access width in bytes: 1, 2, 4 or 8

	RefType  RefType // OpRefNull, OpRefCast, OpRefTest, OpBrOnCast*: cast/null target type
	RefType2 RefType // OpBrOnCast*: source reference type
	ValTypes []ValType // OpSelectT: explicit operand type annotation
}
