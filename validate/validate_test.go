// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-interpreter/wasmtypecheck/wasm"
)

// addOne is `func (param i32) (result i32): local.get 0; i32.const 1; i32.add`.
func addOneFunc() wasm.Func {
	return wasm.Func{
		Type: &wasm.FuncType{Params: []wasm.ValType{i32v()}, Results: []wasm.ValType{i32v()}},
		Body: []wasm.Instr{
			{Op: wasm.OpLocalGet, Index: 0},
			{Op: wasm.OpConst, NumType: wasm.I32},
			{Op: wasm.OpBinOp, NumType: wasm.I32},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	module := &wasm.Module{Funcs: []wasm.Func{addOneFunc()}}
	require.NoError(t, Validate(module))
}

func TestValidateRejectsResultMismatch(t *testing.T) {
	fn := wasm.Func{
		Type: &wasm.FuncType{Results: []wasm.ValType{i64v()}},
		Body: []wasm.Instr{{Op: wasm.OpConst, NumType: wasm.I32}},
	}
	module := &wasm.Module{Funcs: []wasm.Func{fn}}

	err := Validate(module)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, KindTypeMismatch, ve.Kind)
	require.Equal(t, 0, ve.Func)
}

func TestValidateImportedFuncSkipsBody(t *testing.T) {
	imported := wasm.Func{Type: &wasm.FuncType{Results: []wasm.ValType{i32v()}}}
	module := &wasm.Module{Funcs: []wasm.Func{imported}}
	require.NoError(t, Validate(module))
}

func TestValidateGlobalInitializerMismatch(t *testing.T) {
	module := &wasm.Module{
		Globals: []wasm.Global{
			{
				Type: i64v(),
				Init: []wasm.Instr{{Op: wasm.OpConst, NumType: wasm.I32}},
			},
		},
	}
	err := Validate(module)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, KindTypeMismatch, ve.Kind)
}

func TestValidateElemActiveTableMismatch(t *testing.T) {
	module := &wasm.Module{
		Tables: []wasm.Table{{Type: wasm.RefVal(true, wasm.FuncHeap)}},
		Elems: []wasm.Elem{
			{
				Type: wasm.RefVal(true, wasm.ExternHeap),
				Mode: wasm.ElemActive,
				Init: [][]wasm.Instr{
					{{Op: wasm.OpRefNull, RefType: wasm.RefType{Heap: wasm.ExternHeap}}},
				},
				Offset: []wasm.Instr{{Op: wasm.OpConst, NumType: wasm.I32}},
			},
		},
	}
	err := Validate(module)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, KindTypeMismatch, ve.Kind)
}

func TestValidateExportedFuncIsDeclaredRef(t *testing.T) {
	fn := wasm.Func{
		Type: &wasm.FuncType{Results: []wasm.ValType{wasm.RefVal(true, wasm.FuncHeap)}},
		Body: []wasm.Instr{{Op: wasm.OpRefFunc, Index: 0}},
	}
	module := &wasm.Module{Funcs: []wasm.Func{fn}, ExportedFuncs: []uint32{0}}
	require.NoError(t, Validate(module))
}

func TestValidateUndeclaredFunctionReference(t *testing.T) {
	fn := wasm.Func{
		Type: &wasm.FuncType{Results: []wasm.ValType{wasm.RefVal(true, wasm.FuncHeap)}},
		Body: []wasm.Instr{{Op: wasm.OpRefFunc, Index: 0}},
	}
	module := &wasm.Module{Funcs: []wasm.Func{fn}}

	err := Validate(module)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, KindUndeclaredFunctionReference, ve.Kind)
}

func TestValidateDataUnknownMemory(t *testing.T) {
	module := &wasm.Module{
		Data: []wasm.Data{
			{Mode: wasm.DataActive, Mem: 0, Offset: []wasm.Instr{{Op: wasm.OpConst, NumType: wasm.I32}}},
		},
	}
	err := Validate(module)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, KindUnknownMemory, ve.Kind)
}

func TestValidateCallRefAgainstConcreteType(t *testing.T) {
	callee := &wasm.FuncType{Params: []wasm.ValType{i32v()}, Results: []wasm.ValType{i32v()}}
	caller := wasm.Func{
		Type: &wasm.FuncType{Results: []wasm.ValType{i32v()}},
		Body: []wasm.Instr{
			{Op: wasm.OpConst, NumType: wasm.I32},
			{Op: wasm.OpRefNull, RefType: wasm.RefType{Heap: wasm.ConcreteHeap, Index: 0}},
			{Op: wasm.OpCallRef},
		},
	}
	module := &wasm.Module{
		Types: []wasm.TypeDef{{Func: callee}},
		Funcs: []wasm.Func{caller},
	}
	require.NoError(t, Validate(module))
}

func TestValidateUnimplementedInstructionIsInternalError(t *testing.T) {
	fn := wasm.Func{
		Type: &wasm.FuncType{},
		Body: []wasm.Instr{{Op: wasm.Opcode(9999)}},
	}
	module := &wasm.Module{Funcs: []wasm.Func{fn}}

	err := Validate(module)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, KindInternal, ve.Kind)
}
