// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"fmt"

	"github.com/go-interpreter/wasmtypecheck/internal/tracelog"
	"github.com/go-interpreter/wasmtypecheck/stack"
	"github.com/go-interpreter/wasmtypecheck/wasm"
)

// typecheckExpr walks one instruction sequence, the body of a function,
// block, loop or if-arm, threading the abstract stack through it
// (spec §4.3 "Block entry / exit"). isLoop selects whether a branch to
// this block's own label restarts it (pt) or exits it (rt).
func typecheckExpr(env *Env, body []wasm.Instr, isLoop bool, bt wasm.BlockType, prevStack []stack.Typ) ([]stack.Typ, error) {
	pt := stack.Reverse(stack.FromValTypes(bt.Params))
	rt := stack.Reverse(stack.FromValTypes(bt.Results))

	jt := rt
	if isLoop {
		jt = pt
	}

	env.pushBlock(jumpType{types: jt})
	defer env.popBlock()

	s := pt
	for _, instr := range body {
		var err error
		s, err = typecheckOne(env, s, instr)
		if err != nil {
			return nil, err
		}
		tracelog.Printf("after %d: stack=%v", instr.Op, s)
	}

	if !stack.Equal(s, rt) {
		return nil, typeMismatch(fmt.Sprintf("block exit: want %v got %v", rt, s))
	}

	rest, ok := stack.MatchPrefix(pt, prevStack)
	if !ok {
		return nil, typeMismatch(fmt.Sprintf("block entry: want %v on %v", pt, prevStack))
	}
	return stack.Push(rt, rest), nil
}

// typecheckOne dispatches one instruction: structured control and
// branches recurse or consult env.blocks; everything else is handled
// by typecheckInstr.
func typecheckOne(env *Env, s []stack.Typ, instr wasm.Instr) ([]stack.Typ, error) {
	switch instr.Op {

	case wasm.OpBlock:
		return typecheckExpr(env, instr.Block.Body, false, instr.Block.Type, s)

	case wasm.OpLoop:
		return typecheckExpr(env, instr.Block.Body, true, instr.Block.Type, s)

	case wasm.OpIf:
		rest, err := popT(i32T1(), s, "if")
		if err != nil {
			return nil, err
		}
		thenStack, err := typecheckExpr(env, instr.Block.Body, false, instr.Block.Type, rest)
		if err != nil {
			return nil, err
		}
		if instr.Block.Else == nil {
			if len(instr.Block.Type.Results) != 0 {
				return nil, typeMismatch("if: no else arm with non-empty result type")
			}
			return thenStack, nil
		}
		elseStack, err := typecheckExpr(env, instr.Block.Else, false, instr.Block.Type, rest)
		if err != nil {
			return nil, err
		}
		if !stack.Equal(thenStack, elseStack) {
			return nil, typeMismatch("if: then/else arms disagree")
		}
		return thenStack, nil

	case wasm.OpBr:
		jt, ok := env.label(instr.Index)
		if !ok {
			return nil, unknownLabel(fmt.Sprintf("br %d", instr.Index))
		}
		if _, err := popT(jt.types, s, "br"); err != nil {
			return nil, err
		}
		return []stack.Typ{stack.Any}, nil

	case wasm.OpBrIf:
		rest, err := popT(i32T1(), s, "br_if")
		if err != nil {
			return nil, err
		}
		jt, ok := env.label(instr.Index)
		if !ok {
			return nil, unknownLabel(fmt.Sprintf("br_if %d", instr.Index))
		}
		out, err := popT(jt.types, rest, "br_if")
		if err != nil {
			return nil, err
		}
		return pushT(out, jt.types...), nil

	case wasm.OpBrTable:
		rest, err := popT(i32T1(), s, "br_table")
		if err != nil {
			return nil, err
		}
		if len(instr.Targets) == 0 {
			return nil, unreachableReturn("br_table: no default target")
		}
		def := instr.Targets[len(instr.Targets)-1]
		defJt, ok := env.label(def)
		if !ok {
			return nil, unknownLabel(fmt.Sprintf("br_table default %d", def))
		}
		for _, target := range instr.Targets[:len(instr.Targets)-1] {
			jt, ok := env.label(target)
			if !ok {
				return nil, unknownLabel(fmt.Sprintf("br_table %d", target))
			}
			if len(jt.types) != len(defJt.types) {
				return nil, typeMismatch("br_table")
			}
			if _, err := popT(jt.types, rest, "br_table"); err != nil {
				return nil, err
			}
		}
		if _, err := popT(defJt.types, rest, "br_table"); err != nil {
			return nil, err
		}
		return []stack.Typ{stack.Any}, nil

	case wasm.OpBrOnNull:
		rest, err := stack.PopRef(s)
		if err != nil {
			return nil, typeMismatch("br_on_null")
		}
		jt, ok := env.label(instr.Index)
		if !ok {
			return nil, unknownLabel(fmt.Sprintf("br_on_null %d", instr.Index))
		}
		if _, err := popT(jt.types, rest, "br_on_null"); err != nil {
			return nil, err
		}
		// Fallthrough (ref was non-null) keeps the narrowed reference on
		// top of the stack; only the branch taken on null drops it.
		return pushT(rest, s[0]), nil

	case wasm.OpBrOnNonNull:
		rest, err := stack.PopRef(s)
		if err != nil {
			return nil, typeMismatch("br_on_non_null")
		}
		jt, ok := env.label(instr.Index)
		if !ok {
			return nil, unknownLabel(fmt.Sprintf("br_on_non_null %d", instr.Index))
		}
		if _, err := popT(jt.types, pushT(rest, s[0]), "br_on_non_null"); err != nil {
			return nil, err
		}
		return rest, nil

	case wasm.OpBrOnCast:
		rest, err := popT([]stack.Typ{stack.Ref(instr.RefType2.Heap)}, s, "br_on_cast")
		if err != nil {
			return nil, err
		}
		jt, ok := env.label(instr.Index)
		if !ok {
			return nil, unknownLabel(fmt.Sprintf("br_on_cast %d", instr.Index))
		}
		if _, err := popT(jt.types, pushT(rest, stack.Ref(instr.RefType.Heap)), "br_on_cast"); err != nil {
			return nil, err
		}
		return pushT(rest, stack.Ref(instr.RefType2.Heap)), nil

	case wasm.OpBrOnCastFail:
		rest, err := popT([]stack.Typ{stack.Ref(instr.RefType2.Heap)}, s, "br_on_cast_fail")
		if err != nil {
			return nil, err
		}
		jt, ok := env.label(instr.Index)
		if !ok {
			return nil, unknownLabel(fmt.Sprintf("br_on_cast_fail %d", instr.Index))
		}
		if _, err := popT(jt.types, pushT(rest, stack.Ref(instr.RefType2.Heap)), "br_on_cast_fail"); err != nil {
			return nil, err
		}
		return pushT(rest, stack.Ref(instr.RefType.Heap)), nil

	default:
		return typecheckInstr(env, s, instr)
	}
}

func unreachableReturn(context string) *ValidationError {
	return typeMismatch(context)
}

// typecheckConstExpr validates a whole constant expression (spec §4.4):
// a deliberately restricted sub-language, distinct from the full
// function-body walker in typecheckOne/typecheckInstr. It is well
// typed only if exactly one value remains on the stack afterwards.
// refs accumulates ref.func side effects across the whole module, per
// the orchestrator's running refs set.
func typecheckConstExpr(module *wasm.Module, refs map[uint32]bool, body []wasm.Instr) (stack.Typ, error) {
	var s []stack.Typ
	for _, instr := range body {
		var err error
		s, err = typecheckConstInstr(module, refs, s, instr)
		if err != nil {
			return stack.Typ{}, err
		}
	}
	if len(s) != 1 {
		return stack.Typ{}, typeMismatch(fmt.Sprintf("const-expr: want 1 value, got %d", len(s)))
	}
	return s[0], nil
}

func typecheckConstInstr(module *wasm.Module, refs map[uint32]bool, s []stack.Typ, instr wasm.Instr) ([]stack.Typ, error) {
	switch instr.Op {
	case wasm.OpConst:
		return pushT(s, stack.Num(instr.NumType)), nil

	case wasm.OpRefNull:
		return pushT(s, stack.Ref(instr.RefType.Heap)), nil

	case wasm.OpRefFunc:
		refs[instr.Index] = true
		return pushT(s, stack.Ref(wasm.FuncHeap)), nil

	case wasm.OpGlobalGet:
		if int(instr.Index) >= len(module.Globals) || !module.Globals[instr.Index].Imported() {
			return nil, unknownGlobal(fmt.Sprintf("const global.get %d: not an imported global", instr.Index))
		}
		return pushT(s, stack.FromValType(module.Globals[instr.Index].Type)), nil

	case wasm.OpBinOp:
		t := stack.Num(instr.NumType)
		if t.Num != wasm.I32 && t.Num != wasm.I64 {
			unimplemented("const: non-integer binop")
		}
		rest, err := popT([]stack.Typ{t, t}, s, "const binop")
		if err != nil {
			return nil, err
		}
		return pushT(rest, t), nil

	case wasm.OpArrayNew:
		elem := arrayElemType(&Env{module: module}, instr.Index)
		rest, err := popT([]stack.Typ{i32T(), stack.FromValType(elem)}, s, "const array.new")
		if err != nil {
			return nil, err
		}
		return pushT(rest, concreteArrayRef(instr.Index)), nil

	case wasm.OpRefI31:
		rest, err := popT(i32T1(), s, "const ref.i31")
		if err != nil {
			return nil, err
		}
		return pushT(rest, stack.Ref(wasm.I31Heap)), nil

	default:
		unimplemented(fmt.Sprintf("const opcode %d", instr.Op))
		return nil, nil
	}
}
