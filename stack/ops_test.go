// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-interpreter/wasmtypecheck/wasm"
)

func TestDrop(t *testing.T) {
	i32 := Num(wasm.I32)

	_, err := Drop(nil)
	require.ErrorIs(t, err, ErrUnderflow)

	rest, err := Drop([]Typ{i32, i32})
	require.NoError(t, err)
	require.Equal(t, []Typ{i32}, rest)

	rest, err = Drop([]Typ{Any})
	require.NoError(t, err)
	require.Equal(t, []Typ{Any}, rest)
}

func TestPopRef(t *testing.T) {
	ref := Ref(wasm.StructHeap)

	_, err := PopRef(nil)
	require.ErrorIs(t, err, ErrUnderflow)

	rest, err := PopRef([]Typ{ref, Num(wasm.I32)})
	require.NoError(t, err)
	require.Equal(t, []Typ{Num(wasm.I32)}, rest)

	rest, err = PopRef([]Typ{Any})
	require.NoError(t, err)
	require.Equal(t, []Typ{Any}, rest)

	_, err = PopRef([]Typ{Num(wasm.I32)})
	require.ErrorIs(t, err, ErrBadTop)
}

func TestMatchPrefix(t *testing.T) {
	i32, i64 := Num(wasm.I32), Num(wasm.I64)

	rest, ok := MatchPrefix([]Typ{i32, i64}, []Typ{i32, i64, i64})
	require.True(t, ok)
	require.Equal(t, []Typ{i64}, rest)

	_, ok = MatchPrefix([]Typ{i32}, []Typ{i64})
	require.False(t, ok)

	// A bottom beneath the required prefix still matches: the
	// invariant that Any is always the stack's terminal element means
	// it absorbs whatever the prefix still needs.
	rest, ok = MatchPrefix([]Typ{i32, i64}, []Typ{Any})
	require.True(t, ok)
	require.Equal(t, []Typ{Any}, rest)
}

func TestPopPush(t *testing.T) {
	i32, i64 := Num(wasm.I32), Num(wasm.I64)

	out, err := PopPush([]Typ{i32, i32}, []Typ{i64}, []Typ{i32, i32, i64})
	require.NoError(t, err)
	require.Equal(t, []Typ{i64, i64}, out)

	_, err = PopPush([]Typ{i32}, nil, []Typ{i64})
	require.ErrorIs(t, err, ErrTypeMismatch)
}
