// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import "fmt"

// Kind tags a ValidationError so a caller can distinguish failure modes
// without parsing the context string (spec §6).
type Kind uint8

const (
	KindTypeMismatch Kind = iota
	KindUnknownMemory
	KindAlignmentTooLarge
	KindUnknownLabel
	KindUnknownGlobal
	KindUndeclaredFunctionReference
	// KindInternal marks a programmer error in the validator itself: an
	// unimplemented instruction or an unreachable code path was hit. It
	// is never a verdict about the module under validation.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindTypeMismatch:
		return "type_mismatch"
	case KindUnknownMemory:
		return "unknown_memory"
	case KindAlignmentTooLarge:
		return "alignment_too_large"
	case KindUnknownLabel:
		return "unknown_label"
	case KindUnknownGlobal:
		return "unknown_global"
	case KindUndeclaredFunctionReference:
		return "undeclared_function_reference"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("<unknown kind %d>", uint8(k))
	}
}

// ValidationError is the sole error type Validate reports. Context is
// advisory (spec §7): tests should assert on Kind, not on its text.
type ValidationError struct {
	Kind    Kind
	Context string

	// MemoryIndex is populated for KindUnknownMemory.
	MemoryIndex uint32

	// Func identifies which function index was being validated, or -1
	// for errors raised while validating globals/elements/data.
	Func int
}

func (e *ValidationError) Error() string {
	if e.Func >= 0 {
		return fmt.Sprintf("validate: function %d: %s: %s", e.Func, e.Kind, e.Context)
	}
	return fmt.Sprintf("validate: %s: %s", e.Kind, e.Context)
}

func typeMismatch(context string) *ValidationError {
	return &ValidationError{Kind: KindTypeMismatch, Context: context, Func: -1}
}

func unknownMemory(index uint32) *ValidationError {
	return &ValidationError{Kind: KindUnknownMemory, MemoryIndex: index, Context: "no memory section", Func: -1}
}

func alignmentTooLarge(context string) *ValidationError {
	return &ValidationError{Kind: KindAlignmentTooLarge, Context: context, Func: -1}
}

func unknownLabel(context string) *ValidationError {
	return &ValidationError{Kind: KindUnknownLabel, Context: context, Func: -1}
}

func unknownGlobal(context string) *ValidationError {
	return &ValidationError{Kind: KindUnknownGlobal, Context: context, Func: -1}
}

func undeclaredFunctionReference(index uint32) *ValidationError {
	return &ValidationError{
		Kind:    KindUndeclaredFunctionReference,
		Context: fmt.Sprintf("ref.func %d", index),
		Func:    -1,
	}
}

// internalError is panicked, never returned, by code paths the
// validator does not implement (spec §9) or that should be
// unreachable given a well-formed decoded module. Validate recovers it
// at its single call boundary and turns it into a KindInternal
// ValidationError, so these paths never panic out of Validate.
type internalError struct {
	reason string
}

func (e internalError) Error() string { return "validate: internal: " + e.reason }

func unimplemented(what string) {
	panic(internalError{reason: "unimplemented: " + what})
}

func unreachable(what string) {
	panic(internalError{reason: "unreachable: " + what})
}
