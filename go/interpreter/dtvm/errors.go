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
	"errors"

	"github.com/rondo-vm/rondo/go/vm"
)

const (
	errGasUintOverflow = vm.ConstError("gas uint64 overflow")
	errInvalidJump     = vm.ConstError("invalid jump destination")
	errInvalidOpCode   = vm.ConstError("invalid opcode")
	errOutOfGas        = vm.ConstError("out of gas")
	errOverflow        = vm.ConstError("value overflows integer range")
	errStackOverflow   = vm.ConstError("stack overflow")
	errStackUnderflow  = vm.ConstError("stack underflow")
	errWriteProtection = vm.ConstError("write protection")
)

// classifyHalt decides whether the given execution error is one of the
// expected EVM-level halt conditions. If so, the corresponding stable kind
// is returned and the run is reported as completed with an exception in its
// result. Any other error is not classified; it propagates unmodified to
// the caller of Run as a fatal failure.
func classifyHalt(err error) (vm.ExceptionKind, bool) {
	switch {
	case errors.Is(err, errOutOfGas):
		return vm.OutOfGas, true
	case errors.Is(err, errGasUintOverflow):
		return vm.OutOfGas, true
	case errors.Is(err, errOverflow):
		return vm.OutOfGas, true
	case errors.Is(err, errInvalidOpCode):
		return vm.InvalidOpcode, true
	case errors.Is(err, errInvalidJump):
		return vm.InvalidJump, true
	case errors.Is(err, errStackOverflow):
		return vm.StackOverflow, true
	case errors.Is(err, errStackUnderflow):
		return vm.StackUnderflow, true
	case errors.Is(err, errWriteProtection):
		return vm.WriteProtection, true
	}
	return 0, false
}
