// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package dtvm

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/rondo-vm/rondo/go/vm"
)

// status is enumeration of the execution state of an interpreter run.
type status byte

const (
	statusRunning  status = iota // < all fine, ops are processed
	statusStopped                // < execution stopped with a STOP
	statusReverted               // < execution stopped with a REVERT
	statusReturned               // < execution stopped with a RETURN
	statusFailed                 // < execution stopped with a classified halt
)

// RunState is the mutable execution context of one interpreter run. It is
// created per run, mutated exclusively by the interpreter loop and the
// execution functions it invokes, and discarded at run end; its final
// snapshot is part of the run result. Execution functions of custom opcodes
// receive the run state and may operate on its stack and memory, charge gas
// through UseGas, move the program counter, or signal a halt.
type RunState struct {
	// Pc is the program counter, a byte offset into Code. After an
	// execution function returns, the interpreter advances Pc by one unless
	// the function moved it itself.
	Pc int32

	Stack  *Stack
	Memory *Memory

	// Code is the immutable byte sequence being executed.
	Code vm.Code

	// Transaction context consumed by environment instructions.
	Caller    vm.Address
	Address   vm.Address
	CallValue uint256.Int
	Input     vm.Data

	// Static marks the run as read-only.
	Static bool

	// Backend is the external state collaborator. Failures of the backend
	// are fatal for the run and are never classified as exceptional halts.
	Backend vm.StateBackend

	gas        vm.Gas
	status     status
	returnData []byte
	jumpDests  bitvec
}

// UseGas reduces the gas level by the given amount. If the gas level would
// drop below zero, the gas level is left untouched and the out-of-gas halt
// error is returned.
func (s *RunState) UseGas(amount vm.Gas) error {
	if s.gas < 0 || amount < 0 || s.gas < amount {
		return errOutOfGas
	}
	s.gas -= amount
	return nil
}

// Gas returns the remaining gas budget of the run.
func (s *RunState) Gas() vm.Gas {
	return s.gas
}

// Stop signals a normal termination of the run, equivalent to the effect of
// a STOP instruction.
func (s *RunState) Stop() {
	s.status = statusStopped
}

// SetReturnData defines the output of the run. It is combined with Stop()
// or used by RETURN-like custom instructions.
func (s *RunState) SetReturnData(data []byte) {
	s.returnData = data
}

// validJumpDest determines whether the given value is a valid jump target:
// an in-range code offset holding a JUMPDEST instruction that is not part
// of the immediate data of a PUSH instruction.
func (s *RunState) validJumpDest(dest *uint256.Int) bool {
	if !dest.IsUint64() || dest.Uint64() >= uint64(len(s.Code)) {
		return false
	}
	udest := dest.Uint64()
	if udest > math.MaxInt32 {
		return false
	}
	if OpCode(s.Code[udest]) != JUMPDEST {
		return false
	}
	return s.jumpDests.codeSegment(udest)
}

// snapshot captures the externally visible portion of the run state.
func (s *RunState) snapshot() *vm.RunStateSnapshot {
	return &vm.RunStateSnapshot{
		Pc:      uint64(s.Pc),
		GasLeft: s.gas,
		Stack:   s.Stack.snapshot(),
		Memory:  s.Memory.snapshot(),
	}
}
