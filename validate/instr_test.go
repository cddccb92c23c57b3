// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-interpreter/wasmtypecheck/stack"
	"github.com/go-interpreter/wasmtypecheck/wasm"
)

func i32v() wasm.ValType { return wasm.NumVal(wasm.I32) }
func i64v() wasm.ValType { return wasm.NumVal(wasm.I64) }

func TestTypecheckInstrNumeric(t *testing.T) {
	env := newEnv(&wasm.Module{}, map[uint32]bool{}, nil, nil, nil)

	tcs := []struct {
		name    string
		instr   wasm.Instr
		in      []stack.Typ
		want    []stack.Typ
		wantErr bool
	}{
		{
			name:  "i32.const pushes i32",
			instr: wasm.Instr{Op: wasm.OpConst, NumType: wasm.I32},
			in:    nil,
			want:  []stack.Typ{stack.Num(wasm.I32)},
		},
		{
			name:  "binop pops two pushes one",
			instr: wasm.Instr{Op: wasm.OpBinOp, NumType: wasm.I32},
			in:    []stack.Typ{stack.Num(wasm.I32), stack.Num(wasm.I32)},
			want:  []stack.Typ{stack.Num(wasm.I32)},
		},
		{
			name:    "binop type mismatch",
			instr:   wasm.Instr{Op: wasm.OpBinOp, NumType: wasm.I32},
			in:      []stack.Typ{stack.Num(wasm.I64), stack.Num(wasm.I32)},
			wantErr: true,
		},
		{
			name:  "relop pushes i32",
			instr: wasm.Instr{Op: wasm.OpRelOp, NumType: wasm.F64},
			in:    []stack.Typ{stack.Num(wasm.F64), stack.Num(wasm.F64)},
			want:  []stack.Typ{stack.Num(wasm.I32)},
		},
		{
			name:  "drop underflow",
			instr:   wasm.Instr{Op: wasm.OpDrop},
			in:      nil,
			wantErr: true,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out, err := typecheckInstr(env, tc.in, tc.instr)
			if tc.wantErr {
				require.Error(t, err)
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				require.Equal(t, KindTypeMismatch, ve.Kind)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, out)
		})
	}
}

func TestTypecheckInstrLocals(t *testing.T) {
	env := newEnv(&wasm.Module{}, map[uint32]bool{}, []wasm.ValType{i32v()}, []wasm.ValType{i64v()}, nil)

	out, err := typecheckInstr(env, nil, wasm.Instr{Op: wasm.OpLocalGet, Index: 0})
	require.NoError(t, err)
	require.Equal(t, []stack.Typ{stack.Num(wasm.I32)}, out)

	out, err = typecheckInstr(env, nil, wasm.Instr{Op: wasm.OpLocalGet, Index: 1})
	require.NoError(t, err)
	require.Equal(t, []stack.Typ{stack.Num(wasm.I64)}, out)

	out, err = typecheckInstr(env, []stack.Typ{stack.Num(wasm.I64)}, wasm.Instr{Op: wasm.OpLocalTee, Index: 1})
	require.NoError(t, err)
	require.Equal(t, []stack.Typ{stack.Num(wasm.I64)}, out)
}

func TestTypecheckInstrMemory(t *testing.T) {
	withMem := newEnv(&wasm.Module{Mem: []wasm.Memory{{}}}, map[uint32]bool{}, nil, nil, nil)
	noMem := newEnv(&wasm.Module{}, map[uint32]bool{}, nil, nil, nil)

	load := wasm.Instr{Op: wasm.OpLoad, NumType: wasm.I32, Align: 2, Width: 4}

	_, err := typecheckInstr(noMem, []stack.Typ{stack.Num(wasm.I32)}, load)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, KindUnknownMemory, ve.Kind)

	out, err := typecheckInstr(withMem, []stack.Typ{stack.Num(wasm.I32)}, load)
	require.NoError(t, err)
	require.Equal(t, []stack.Typ{stack.Num(wasm.I32)}, out)

	tooLarge := wasm.Instr{Op: wasm.OpLoad, NumType: wasm.I32, Align: 4, Width: 4}
	_, err = typecheckInstr(withMem, []stack.Typ{stack.Num(wasm.I32)}, tooLarge)
	require.ErrorAs(t, err, &ve)
	require.Equal(t, KindAlignmentTooLarge, ve.Kind)
}

func TestTypecheckSelect(t *testing.T) {
	i32 := stack.Num(wasm.I32)

	tcs := []struct {
		name    string
		in      []stack.Typ
		want    []stack.Typ
		wantErr bool
	}{
		{"matching nums", []stack.Typ{i32, i32, i32}, []stack.Typ{i32}, false},
		{"mismatched nums", []stack.Typ{i32, stack.Num(wasm.I64), i32}, nil, true},
		{"concrete ref forbidden implicit", []stack.Typ{i32, stack.Ref(wasm.StructHeap), stack.Ref(wasm.StructHeap)}, nil, true},
		{"any absorbs everything", []stack.Typ{stack.Any}, []stack.Typ{stack.Something, stack.Any}, false},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out, err := typecheckSelect(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, out)
		})
	}
}

func TestTypecheckCallRef(t *testing.T) {
	ft := &wasm.FuncType{Params: []wasm.ValType{i32v()}, Results: []wasm.ValType{i64v()}}
	module := &wasm.Module{Types: []wasm.TypeDef{{Func: ft}}}
	env := newEnv(module, map[uint32]bool{}, nil, nil, nil)

	in := []stack.Typ{stack.RefConcrete(0), stack.Num(wasm.I32)}
	out, err := typecheckCallRef(env, in)
	require.NoError(t, err)
	require.Equal(t, []stack.Typ{stack.Num(wasm.I64)}, out)

	_, err = typecheckCallRef(env, nil)
	require.Error(t, err)
}
