// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"fmt"

	"github.com/go-interpreter/wasmtypecheck/stack"
	"github.com/go-interpreter/wasmtypecheck/wasm"
)

func popT(required []stack.Typ, s []stack.Typ, context string) ([]stack.Typ, error) {
	rest, err := stack.Pop(required, s)
	if err != nil {
		return nil, typeMismatch(context)
	}
	return rest, nil
}

func pushT(s []stack.Typ, ts ...stack.Typ) []stack.Typ {
	return stack.Push(ts, s)
}

func i32T() stack.Typ { return stack.Num(wasm.I32) }

// typecheckInstr threads the abstract stack through one plain (non
// structured-control) instruction (spec §4.3). Structured control
// (block/loop/if) is handled by the walker in expr.go, since it needs
// to recurse into nested bodies.
func typecheckInstr(env *Env, s []stack.Typ, instr wasm.Instr) ([]stack.Typ, error) {
	switch instr.Op {

	case wasm.OpUnreachable:
		return []stack.Typ{stack.Any}, nil

	case wasm.OpNop:
		return s, nil

	case wasm.OpDrop:
		rest, err := stack.Drop(s)
		if err != nil {
			return nil, typeMismatch("drop")
		}
		return rest, nil

	case wasm.OpSelect:
		return typecheckSelect(s)

	case wasm.OpSelectT:
		if len(instr.ValTypes) == 0 {
			unreachable("select: missing type annotation")
		}
		t := stack.FromValType(instr.ValTypes[0])
		rest, err := popT(i32T1(), s, "select")
		if err != nil {
			return nil, err
		}
		rest, err = popT([]stack.Typ{t, t}, rest, "select")
		if err != nil {
			return nil, err
		}
		return pushT(rest, t), nil

	case wasm.OpReturn:
		if _, err := popT(stack.Reverse(env.result), s, "return"); err != nil {
			return nil, err
		}
		return []stack.Typ{stack.Any}, nil

	case wasm.OpLocalGet:
		t, ok := env.Local(instr.Index)
		if !ok {
			unreachable("local.get: out of range")
		}
		return pushT(s, t), nil

	case wasm.OpLocalSet:
		t, ok := env.Local(instr.Index)
		if !ok {
			unreachable("local.set: out of range")
		}
		return popT([]stack.Typ{t}, s, "local.set")

	case wasm.OpLocalTee:
		t, ok := env.Local(instr.Index)
		if !ok {
			unreachable("local.tee: out of range")
		}
		rest, err := popT([]stack.Typ{t}, s, "local.tee")
		if err != nil {
			return nil, err
		}
		return pushT(rest, t), nil

	case wasm.OpGlobalGet:
		g, ok := globalAt(env, instr.Index)
		if !ok {
			return nil, unknownGlobal(fmt.Sprintf("global.get %d", instr.Index))
		}
		return pushT(s, stack.FromValType(g.Type)), nil

	case wasm.OpGlobalSet:
		g, ok := globalAt(env, instr.Index)
		if !ok {
			return nil, unknownGlobal(fmt.Sprintf("global.set %d", instr.Index))
		}
		return popT([]stack.Typ{stack.FromValType(g.Type)}, s, "global.set")

	case wasm.OpConst:
		return pushT(s, stack.Num(instr.NumType)), nil

	case wasm.OpUnOp:
		t := stack.Num(instr.NumType)
		rest, err := popT([]stack.Typ{t}, s, "unop")
		if err != nil {
			return nil, err
		}
		return pushT(rest, t), nil

	case wasm.OpBinOp:
		t := stack.Num(instr.NumType)
		rest, err := popT([]stack.Typ{t, t}, s, "binop")
		if err != nil {
			return nil, err
		}
		return pushT(rest, t), nil

	case wasm.OpTestOp:
		rest, err := popT([]stack.Typ{stack.Num(instr.NumType)}, s, "testop")
		if err != nil {
			return nil, err
		}
		return pushT(rest, i32T()), nil

	case wasm.OpRelOp:
		t := stack.Num(instr.NumType)
		rest, err := popT([]stack.Typ{t, t}, s, "relop")
		if err != nil {
			return nil, err
		}
		return pushT(rest, i32T()), nil

	case wasm.OpConvert:
		rest, err := popT([]stack.Typ{stack.FromValType(instr.SrcType)}, s, "convert")
		if err != nil {
			return nil, err
		}
		return pushT(rest, stack.FromValType(instr.DstType)), nil

	case wasm.OpLoad:
		if err := checkMem(env, instr.Align, instr.Width, "load"); err != nil {
			return nil, err
		}
		rest, err := popT(i32T1(), s, "load")
		if err != nil {
			return nil, err
		}
		return pushT(rest, stack.Num(instr.NumType)), nil

	case wasm.OpStore:
		if err := checkMem(env, instr.Align, instr.Width, "store"); err != nil {
			return nil, err
		}
		rest, err := popT([]stack.Typ{stack.Num(instr.NumType), stack.Num(wasm.I32)}, s, "store")
		if err != nil {
			return nil, err
		}
		return rest, nil

	case wasm.OpMemorySize:
		return pushT(s, i32T()), nil

	case wasm.OpMemoryGrow:
		rest, err := popT(i32T1(), s, "memory.grow")
		if err != nil {
			return nil, err
		}
		return pushT(rest, i32T()), nil

	case wasm.OpMemoryCopy, wasm.OpMemoryFill, wasm.OpMemoryInit:
		return popT([]stack.Typ{i32T(), i32T(), i32T()}, s, "memory")

	case wasm.OpCall:
		fn := env.module.Funcs[instr.Index]
		rest, err := popT(stack.Reverse(stack.FromValTypes(fn.Type.Params)), s, "call")
		if err != nil {
			return nil, err
		}
		return pushT(rest, stack.Reverse(stack.FromValTypes(fn.Type.Results))...), nil

	case wasm.OpCallIndirect:
		rest, err := popT(i32T1(), s, "call_indirect")
		if err != nil {
			return nil, err
		}
		ft := env.module.Types[instr.Index].Func
		out, err := stack.PopPush(stack.FromValTypes(ft.Params), stack.FromValTypes(ft.Results), rest)
		if err != nil {
			return nil, typeMismatch("call_indirect")
		}
		return out, nil

	case wasm.OpCallRef:
		return typecheckCallRef(env, s)

	case wasm.OpReturnCall:
		fn := env.module.Funcs[instr.Index]
		if err := checkReturnResults(env, fn.Type.Results); err != nil {
			return nil, err
		}
		rest, err := popT(stack.Reverse(stack.FromValTypes(fn.Type.Params)), s, "return_call")
		if err != nil {
			return nil, err
		}
		_ = rest
		return []stack.Typ{stack.Any}, nil

	case wasm.OpReturnCallIndirect:
		ft := env.module.Types[instr.Index].Func
		if err := checkReturnResults(env, ft.Results); err != nil {
			return nil, err
		}
		rest, err := popT(i32T1(), s, "return_call_indirect")
		if err != nil {
			return nil, err
		}
		rest, err = popT(stack.Reverse(stack.FromValTypes(ft.Params)), rest, "return_call_indirect")
		if err != nil {
			return nil, err
		}
		_ = rest
		return []stack.Typ{stack.Any}, nil

	case wasm.OpReturnCallRef:
		return typecheckReturnCallRef(env, s)

	case wasm.OpRefNull:
		if instr.RefType.Heap == wasm.ConcreteHeap {
			return pushT(s, stack.RefConcrete(instr.RefType.Index)), nil
		}
		return pushT(s, stack.Ref(instr.RefType.Heap)), nil

	case wasm.OpRefIsNull:
		rest, err := stack.PopRef(s)
		if err != nil {
			return nil, typeMismatch("ref.is_null")
		}
		return pushT(rest, i32T()), nil

	case wasm.OpRefFunc:
		if !env.isDeclaredRef(instr.Index) {
			return nil, undeclaredFunctionReference(instr.Index)
		}
		return pushT(s, stack.Ref(wasm.FuncHeap)), nil

	case wasm.OpRefI31:
		rest, err := popT(i32T1(), s, "ref.i31")
		if err != nil {
			return nil, err
		}
		return pushT(rest, stack.Ref(wasm.I31Heap)), nil

	case wasm.OpI31Get:
		rest, err := popT([]stack.Typ{stack.Ref(wasm.I31Heap)}, s, "i31.get")
		if err != nil {
			return nil, err
		}
		return pushT(rest, i32T()), nil

	case wasm.OpRefAsNonNull:
		rest, err := stack.PopRef(s)
		if err != nil {
			return nil, typeMismatch("ref.as_non_null")
		}
		if len(rest) < len(s) {
			return pushT(rest, s[0]), nil
		}
		return rest, nil

	case wasm.OpRefEq:
		rest, err := popT([]stack.Typ{stack.Ref(wasm.EqHeap), stack.Ref(wasm.EqHeap)}, s, "ref.eq")
		if err != nil {
			return nil, err
		}
		return pushT(rest, i32T()), nil

	case wasm.OpExternConvertAny:
		rest, err := popT([]stack.Typ{stack.Ref(wasm.AnyHeap)}, s, "extern.convert_any")
		if err != nil {
			return nil, err
		}
		return pushT(rest, stack.Ref(wasm.ExternHeap)), nil

	case wasm.OpAnyConvertExtern:
		rest, err := popT([]stack.Typ{stack.Ref(wasm.ExternHeap)}, s, "any.convert_extern")
		if err != nil {
			return nil, err
		}
		return pushT(rest, stack.Ref(wasm.AnyHeap)), nil

	case wasm.OpArrayLen:
		rest, err := popT([]stack.Typ{stack.Ref(wasm.ArrayHeap)}, s, "array.len")
		if err != nil {
			return nil, err
		}
		return pushT(rest, i32T()), nil

	case wasm.OpArrayNew:
		elem := arrayElemType(env, instr.Index)
		rest, err := popT([]stack.Typ{i32T(), stack.FromValType(elem)}, s, "array.new")
		if err != nil {
			return nil, err
		}
		return pushT(rest, concreteArrayRef(instr.Index)), nil

	case wasm.OpArrayNewDefault:
		rest, err := popT(i32T1(), s, "array.new_default")
		if err != nil {
			return nil, err
		}
		return pushT(rest, concreteArrayRef(instr.Index)), nil

	case wasm.OpArrayNewFixed:
		elem := arrayElemType(env, instr.Index)
		req := make([]stack.Typ, instr.Index2)
		for i := range req {
			req[i] = stack.FromValType(elem)
		}
		rest, err := popT(req, s, "array.new_fixed")
		if err != nil {
			return nil, err
		}
		return pushT(rest, concreteArrayRef(instr.Index)), nil

	case wasm.OpArrayGet:
		elem := arrayElemType(env, instr.Index)
		rest, err := popT([]stack.Typ{i32T(), concreteArrayRef(instr.Index)}, s, "array.get")
		if err != nil {
			return nil, err
		}
		return pushT(rest, stack.FromValType(elem)), nil

	case wasm.OpArraySet:
		elem := arrayElemType(env, instr.Index)
		return popT([]stack.Typ{stack.FromValType(elem), i32T(), concreteArrayRef(instr.Index)}, s, "array.set")

	case wasm.OpArrayFill:
		elem := arrayElemType(env, instr.Index)
		return popT([]stack.Typ{i32T(), stack.FromValType(elem), i32T(), concreteArrayRef(instr.Index)}, s, "array.fill")

	case wasm.OpArrayCopy:
		return popT([]stack.Typ{i32T(), concreteArrayRef(instr.Index2), i32T(), concreteArrayRef(instr.Index), i32T()}, s, "array.copy")

	case wasm.OpStructNew:
		st := env.module.Types[instr.Index].Struct
		req := make([]stack.Typ, len(st.Fields))
		for i, f := range st.Fields {
			req[len(st.Fields)-1-i] = stack.FromValType(f.Type)
		}
		rest, err := popT(req, s, "struct.new")
		if err != nil {
			return nil, err
		}
		return pushT(rest, concreteHeapRef(instr.Index)), nil

	case wasm.OpStructNewDefault:
		return pushT(s, concreteHeapRef(instr.Index)), nil

	case wasm.OpStructGet:
		st := env.module.Types[instr.Index].Struct
		field := st.Fields[instr.Index2]
		rest, err := popT([]stack.Typ{concreteHeapRef(instr.Index)}, s, "struct.get")
		if err != nil {
			return nil, err
		}
		return pushT(rest, stack.FromValType(field.Type)), nil

	case wasm.OpStructSet:
		st := env.module.Types[instr.Index].Struct
		field := st.Fields[instr.Index2]
		return popT([]stack.Typ{stack.FromValType(field.Type), concreteHeapRef(instr.Index)}, s, "struct.set")

	case wasm.OpRefCast:
		rest, err := popT([]stack.Typ{stack.Ref(instr.RefType.Heap)}, s, "ref.cast")
		if err != nil {
			return nil, err
		}
		return pushT(rest, stack.Ref(instr.RefType.Heap)), nil

	case wasm.OpRefTest:
		rest, err := popT([]stack.Typ{stack.Ref(instr.RefType.Heap)}, s, "ref.test")
		if err != nil {
			return nil, err
		}
		return pushT(rest, i32T()), nil

	case wasm.OpTableGet:
		t := env.module.Tables[instr.Index].Type
		rest, err := popT(i32T1(), s, "table.get")
		if err != nil {
			return nil, err
		}
		return pushT(rest, stack.FromValType(t)), nil

	case wasm.OpTableSet:
		t := env.module.Tables[instr.Index].Type
		return popT([]stack.Typ{stack.FromValType(t), i32T()}, s, "table.set")

	case wasm.OpTableSize:
		return pushT(s, i32T()), nil

	case wasm.OpTableGrow:
		t := env.module.Tables[instr.Index].Type
		rest, err := popT([]stack.Typ{i32T(), stack.FromValType(t)}, s, "table.grow")
		if err != nil {
			return nil, err
		}
		return pushT(rest, i32T()), nil

	case wasm.OpTableFill:
		t := env.module.Tables[instr.Index].Type
		return popT([]stack.Typ{i32T(), stack.FromValType(t), i32T()}, s, "table.fill")

	case wasm.OpTableInit:
		tbl := env.module.Tables[instr.Index].Type
		elem := env.module.Elems[instr.Index2]
		if !stack.MatchRefType(tbl.Ref.Heap, elem.Type.Ref.Heap) {
			return nil, typeMismatch("table.init")
		}
		return popT([]stack.Typ{i32T(), i32T(), i32T()}, s, "table.init")

	case wasm.OpTableCopy:
		dst := env.module.Tables[instr.Index].Type
		src := env.module.Tables[instr.Index2].Type
		if dst != src {
			return nil, typeMismatch("table_copy")
		}
		return popT([]stack.Typ{i32T(), i32T(), i32T()}, s, "table_copy")

	default:
		unimplemented(fmt.Sprintf("opcode %d", instr.Op))
		return nil, nil // unreachable: unimplemented panics
	}
}

func i32T1() []stack.Typ { return []stack.Typ{i32T()} }

func globalAt(env *Env, i uint32) (*wasm.Global, bool) {
	if int(i) >= len(env.module.Globals) {
		return nil, false
	}
	return &env.module.Globals[i], true
}

func arrayElemType(env *Env, typeIndex uint32) wasm.ValType {
	return env.module.Types[typeIndex].Array.Elem.Type
}

func concreteArrayRef(typeIndex uint32) stack.Typ {
	return concreteHeapRef(typeIndex)
}

func concreteHeapRef(typeIndex uint32) stack.Typ {
	return stack.RefConcrete(typeIndex)
}

func checkReturnResults(env *Env, calleeResults []wasm.ValType) error {
	if !stack.Equal(stack.Reverse(stack.FromValTypes(calleeResults)), stack.Reverse(env.result)) {
		return typeMismatch("return_call: result type mismatch")
	}
	return nil
}

func typecheckSelect(s []stack.Typ) ([]stack.Typ, error) {
	s, err := popT(i32T1(), s, "select implicit")
	if err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, typeMismatch("select implicit")
	}
	if s[0].Kind == stack.KindAny {
		return pushT(s, stack.Something), nil
	}
	if len(s) > 1 && s[1].Kind == stack.KindAny {
		return s, nil
	}
	if s[0].Kind == stack.KindRef {
		return nil, typeMismatch("select implicit")
	}
	if len(s) < 2 {
		return nil, typeMismatch("select implicit")
	}
	x, y, tl := s[0], s[1], s[2:]
	if !stack.MatchTypes(x, y) {
		return nil, typeMismatch("select implicit")
	}
	return pushT(tl, x), nil
}

// typecheckCallRef implements call_ref. The base rule (spec §4.3) only
// pops a reference, ignoring the callee's declared type (spec §9.4).
// Per SPEC_FULL this is tightened whenever the popped reference names a
// concrete function type: its params are popped and its results
// pushed, same as a direct call. The permissive base rule remains the
// fallback for a bare funcref with no nominal signature attached.
func typecheckCallRef(env *Env, s []stack.Typ) ([]stack.Typ, error) {
	if len(s) == 0 {
		return nil, typeMismatch("call_ref")
	}
	top := s[0]
	if top.Kind == stack.KindRef && top.Heap == wasm.ConcreteHeap {
		if ft := env.module.Types[top.Index].Func; ft != nil {
			rest, err := stack.PopRef(s)
			if err != nil {
				return nil, typeMismatch("call_ref")
			}
			out, err := stack.PopPush(stack.FromValTypes(ft.Params), stack.FromValTypes(ft.Results), rest)
			if err != nil {
				return nil, typeMismatch("call_ref")
			}
			return out, nil
		}
	}
	rest, err := stack.PopRef(s)
	if err != nil {
		return nil, typeMismatch("call_ref")
	}
	return rest, nil
}

// typecheckReturnCallRef implements return_call_ref: verify the
// callee's results equal the enclosing function's when the reference
// names a concrete function type, pop the reference then its params,
// and emit the polymorphic bottom. With a bare funcref (no nominal
// type attached) only the reference itself is popped, matching the
// permissive base rule call_ref falls back to.
func typecheckReturnCallRef(env *Env, s []stack.Typ) ([]stack.Typ, error) {
	if len(s) == 0 {
		return nil, typeMismatch("return_call_ref")
	}
	top := s[0]
	if top.Kind == stack.KindRef && top.Heap == wasm.ConcreteHeap {
		ft := env.module.Types[top.Index].Func
		if ft != nil {
			if err := checkReturnResults(env, ft.Results); err != nil {
				return nil, err
			}
			rest, err := stack.PopRef(s)
			if err != nil {
				return nil, typeMismatch("return_call_ref")
			}
			if _, err := popT(stack.Reverse(stack.FromValTypes(ft.Params)), rest, "return_call_ref"); err != nil {
				return nil, err
			}
			return []stack.Typ{stack.Any}, nil
		}
	}
	if _, err := stack.PopRef(s); err != nil {
		return nil, typeMismatch("return_call_ref")
	}
	return []stack.Typ{stack.Any}, nil
}
