// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vm

import (
	"errors"
	"strings"
	"testing"
)

func TestConstError_Error(t *testing.T) {
	const myError = ConstError("this is a constant error")

	if myError.Error() != "this is a constant error" {
		t.Errorf("expected 'this is a constant error', got '%s'", myError.Error())
	}

	if !errors.Is(myError, ConstError("this is a constant error")) {
		t.Errorf("expected true, got false")
	}
}

func TestConstError_Empty(t *testing.T) {
	const emptyError ConstError = ""

	if emptyError.Error() != "" {
		t.Errorf("expected empty string, got '%s'", emptyError.Error())
	}
}

func TestExceptionKind_String(t *testing.T) {
	tests := map[ExceptionKind]string{
		OutOfGas:            "OutOfGas",
		InvalidOpcode:       "InvalidOpcode",
		InvalidJump:         "InvalidJump",
		StackOverflow:       "StackOverflow",
		StackUnderflow:      "StackUnderflow",
		WriteProtection:     "WriteProtection",
		Revert:              "Revert",
		InvalidInput:        "InvalidInput",
		ExceptionKind(1234): "ExceptionKind(1234)",
	}

	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("String() of kind %d = %q, want %q", int(kind), got, want)
		}
	}
}

func TestExceptionError_MessageIsTheErrorText(t *testing.T) {
	err := &ExceptionError{Kind: OutOfGas, Message: "out of gas"}
	if err.Error() != "out of gas" {
		t.Errorf("unexpected error text: %q", err.Error())
	}
}

func TestInputError_TagsTheWrappedSentinel(t *testing.T) {
	err := &InputError{Kind: InvalidInput, Err: ErrNegativeValue}
	if err.Error() != ErrNegativeValue.Error() {
		t.Errorf("unexpected error text: %q", err.Error())
	}
	if !errors.Is(err, ErrNegativeValue) {
		t.Errorf("the wrapped sentinel must remain matchable")
	}
	var inputErr *InputError
	if !errors.As(err, &inputErr) || inputErr.Kind != InvalidInput {
		t.Errorf("the kind tag is not recoverable from %v", err)
	}
}

func TestValidationErrors_HaveStableMessages(t *testing.T) {
	if got, want := ErrNegativeValue.Error(), "value field cannot be negative"; got != want {
		t.Errorf("unexpected message: %q, want %q", got, want)
	}
	if got := ErrPcOutOfRange.Error(); !strings.Contains(got, "program counter not in range") {
		t.Errorf("unexpected message: %q", got)
	}
}
