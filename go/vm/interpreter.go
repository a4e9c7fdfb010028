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

import "math/big"

// Interpreter is a component capable of executing EVM byte-code against a
// metered gas budget and a pluggable state backend.
// To obtain an Interpreter instance, client code should use NewInterpreter()
// provided by the registry file in this package.
type Interpreter interface {
	// Run executes the code provided by the parameters and returns the
	// processing result. The resulting error is nil whenever the code was
	// correctly executed -- including executions that terminated in a
	// classified exceptional halt, which is reported through the result's
	// ExceptionError field. The error is not nil only for fatal conditions:
	// invalid run parameters, or a failure of the state backend that is
	// unrelated to EVM semantics. In the fatal case no result is produced.
	// Interpreters are required to be thread-safe. Thus, multiple runs may
	// be conducted in parallel, each owning its own run state.
	Run(Parameters) (Result, error)
}

// Parameters summarizes the list of input parameters required for executing
// code.
type Parameters struct {
	// Code is the byte-code to be executed. Required.
	Code Code
	// Pc is the initial program counter. If nil, execution starts at offset
	// zero. A non-nil value must be in the range [0, len(Code)); any other
	// value, including len(Code) itself, is rejected as a fatal error.
	Pc *int64
	// GasLimit is the gas budget of the run. If nil, an implementation
	// defined default is used. Must not be negative.
	GasLimit *big.Int
	// Value is the amount of chain currency transferred with the call.
	// If nil, zero is assumed. Must not be negative.
	Value *big.Int
	// Static marks the run as read-only; state-mutating instructions halt
	// with a write-protection error.
	Static bool
	// Sender and Recipient provide the transaction context consumed by
	// environment instructions such as CALLER and ADDRESS.
	Sender    Address
	Recipient Address
	// Input is the call data of the run.
	Input Data
	// Backend is the state collaborator consulted by storage and account
	// instructions. May be nil for programs that do not touch state.
	Backend StateBackend
}

// Result summarizes the outcome of a code execution. Exactly one of the
// following holds: the run completed normally (ExceptionError is nil), or
// the run terminated in a classified exceptional halt (ExceptionError is
// set). Fatal failures are never represented in a Result.
type Result struct {
	// RunState is the final snapshot of the execution state. It is nil only
	// if the run terminated before any execution state was built.
	RunState *RunStateSnapshot
	// GasUsed is the amount of gas consumed by the run.
	GasUsed Gas
	// Output is the data returned by a RETURN or REVERT instruction, if any.
	Output Data
	// ExceptionError describes the exceptional halt that terminated the
	// run, or nil if the run completed normally.
	ExceptionError *ExceptionError
}

// RunStateSnapshot is a read-only copy of the mutable execution state at the
// end of a run. Observers receive equivalent snapshots through step events.
type RunStateSnapshot struct {
	Pc      uint64
	GasLeft Gas
	Stack   []Word
	Memory  []byte
}

// StepEvent is the notification delivered to a StepListener for each
// executed instruction, after its gas was charged and before its execution
// function ran. The stack and memory slices are copies; mutating them has no
// effect on the run.
type StepEvent struct {
	Pc      uint64
	OpCode  byte
	OpName  string
	GasLeft Gas
	Stack   []Word
	Memory  []byte
}

// StepListener is an observer invoked synchronously by the interpreter loop,
// exactly once per executed instruction. Listeners must not block; there is
// no buffering between the listener and the loop.
type StepListener func(StepEvent)

// Gas represents the type used to represent the Gas values.
type Gas int64

// Data represents the input or output of contract invocations.
type Data []byte
