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

import "fmt"

// ConstError is an error type for constant error messages. It allows errors
// to be declared as constants, which makes them comparable and usable in
// switch statements as well as with errors.Is.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

// Fatal input-validation errors. These are returned by Run before any
// execution state is built; the run never starts and no Result is produced.
const (
	// ErrNegativeValue is returned when the value field of the run
	// parameters is a negative number.
	ErrNegativeValue = ConstError("value field cannot be negative")

	// ErrPcOutOfRange is returned when the initial program counter lies
	// outside the half-open range [0, len(code)).
	ErrPcOutOfRange = ConstError("Internal error: program counter not in range")

	// ErrNegativeGasLimit is returned when the gas limit of the run
	// parameters is a negative number.
	ErrNegativeGasLimit = ConstError("gas limit cannot be negative")
)

// InputError tags a fatal input-validation failure with the exception kind
// describing it. The wrapped sentinel remains matchable with errors.Is.
type InputError struct {
	Kind ExceptionKind
	Err  error
}

func (e *InputError) Error() string {
	return e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ExceptionKind is a stable tag classifying the expected ways a byte-code
// execution can halt exceptionally. Exceptional halts are legitimate end
// states of a run; they are reported through the Result, never as an error.
type ExceptionKind int

const (
	OutOfGas ExceptionKind = iota
	InvalidOpcode
	InvalidJump
	StackOverflow
	StackUnderflow
	WriteProtection
	Revert
	InvalidInput
)

func (k ExceptionKind) String() string {
	switch k {
	case OutOfGas:
		return "OutOfGas"
	case InvalidOpcode:
		return "InvalidOpcode"
	case InvalidJump:
		return "InvalidJump"
	case StackOverflow:
		return "StackOverflow"
	case StackUnderflow:
		return "StackUnderflow"
	case WriteProtection:
		return "WriteProtection"
	case Revert:
		return "Revert"
	case InvalidInput:
		return "InvalidInput"
	}
	return fmt.Sprintf("ExceptionKind(%d)", int(k))
}

// ExceptionError describes a classified exceptional halt. It is carried in
// the Result of a completed run; gas accounting up to the halt point is
// preserved alongside it.
type ExceptionError struct {
	Kind    ExceptionKind
	Message string
}

func (e *ExceptionError) Error() string {
	return e.Message
}
