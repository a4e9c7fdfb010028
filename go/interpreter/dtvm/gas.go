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
	"github.com/holiman/uint256"
	"github.com/rondo-vm/rondo/go/vm"
)

// Gas fees of the base instruction set. The full revision-dependent fee
// schedule of a production chain is intentionally not reproduced here; the
// table below fixes one consistent schedule for the base instruction set.
const (
	gasQuickStep   vm.Gas = 2
	gasFastestStep vm.Gas = 3
	gasFastStep    vm.Gas = 5
	gasMidStep     vm.Gas = 8
	gasSlowStep    vm.Gas = 10
	gasJumpDest    vm.Gas = 1

	gasSha3          vm.Gas = 30
	gasSha3Word      vm.Gas = 6
	gasCopyWord      vm.Gas = 3
	gasExpByte       vm.Gas = 50
	gasBalance       vm.Gas = 700
	gasSload         vm.Gas = 800
	gasSstore        vm.Gas = 5000
	gasMemoryExpWord vm.Gas = 3
)

// getStaticGasPrice returns the revision-independent base fee of the given
// instruction of the base instruction set.
func getStaticGasPrice(op OpCode) vm.Gas {
	if PUSH1 <= op && op <= PUSH32 {
		return gasFastestStep
	}
	if DUP1 <= op && op <= DUP16 {
		return gasFastestStep
	}
	if SWAP1 <= op && op <= SWAP16 {
		return gasFastestStep
	}
	if LT <= op && op <= SAR {
		return gasFastestStep
	}
	switch op {
	case STOP, RETURN, REVERT:
		return 0
	case ADD, SUB, CALLDATALOAD, CALLDATACOPY, CODECOPY,
		MLOAD, MSTORE, MSTORE8:
		return gasFastestStep
	case MUL, DIV, SDIV, MOD, SMOD, SIGNEXTEND:
		return gasFastStep
	case ADDMOD, MULMOD, JUMP:
		return gasMidStep
	case EXP, JUMPI:
		return gasSlowStep
	case POP, PUSH0, PC, MSIZE, GAS,
		ADDRESS, CALLER, CALLVALUE, CALLDATASIZE, CODESIZE:
		return gasQuickStep
	case JUMPDEST:
		return gasJumpDest
	case SHA3:
		return gasSha3
	case BALANCE:
		return gasBalance
	case SLOAD:
		return gasSload
	case SSTORE:
		return gasSstore
	}
	return 0
}

// memoryAccessCost computes the memory expansion fee for accessing the
// range [offset, offset+size), without applying the expansion. A zero size
// never expands. Offsets beyond the uint64 range are reported as a gas
// overflow, halting the run before its execution function ever touches the
// memory.
func memoryAccessCost(st *RunState, offset, size *uint256.Int) (vm.Gas, error) {
	if size.IsZero() {
		return 0, nil
	}
	if !offset.IsUint64() || !size.IsUint64() {
		return 0, errGasUintOverflow
	}
	needed := offset.Uint64() + size.Uint64()
	if needed < offset.Uint64() {
		return 0, errGasUintOverflow
	}
	return st.Memory.expansionCosts(needed), nil
}

// The dynamic gas functions below compute the input-dependent fee component
// of the base instruction set. They only inspect the run state; the
// corresponding execution functions apply the already paid effects.

func gasMLoad(st *RunState) (vm.Gas, error) {
	offset, err := st.Stack.PeekN(0)
	if err != nil {
		return 0, err
	}
	return memoryAccessCost(st, offset, uint256.NewInt(32))
}

func gasMStore(st *RunState) (vm.Gas, error) {
	offset, err := st.Stack.PeekN(0)
	if err != nil {
		return 0, err
	}
	return memoryAccessCost(st, offset, uint256.NewInt(32))
}

func gasMStore8(st *RunState) (vm.Gas, error) {
	offset, err := st.Stack.PeekN(0)
	if err != nil {
		return 0, err
	}
	return memoryAccessCost(st, offset, uint256.NewInt(1))
}

func gasSha3Op(st *RunState) (vm.Gas, error) {
	offset, err := st.Stack.PeekN(0)
	if err != nil {
		return 0, err
	}
	size, err := st.Stack.PeekN(1)
	if err != nil {
		return 0, err
	}
	cost, err := memoryAccessCost(st, offset, size)
	if err != nil {
		return 0, err
	}
	return cost + gasSha3Word*vm.Gas(vm.SizeInWords(size.Uint64())), nil
}

func gasExp(st *RunState) (vm.Gas, error) {
	exponent, err := st.Stack.PeekN(1)
	if err != nil {
		return 0, err
	}
	return gasExpByte * vm.Gas(exponent.ByteLen()), nil
}

func gasReturnData(st *RunState) (vm.Gas, error) {
	offset, err := st.Stack.PeekN(0)
	if err != nil {
		return 0, err
	}
	size, err := st.Stack.PeekN(1)
	if err != nil {
		return 0, err
	}
	return memoryAccessCost(st, offset, size)
}

func gasDataCopy(st *RunState) (vm.Gas, error) {
	memOffset, err := st.Stack.PeekN(0)
	if err != nil {
		return 0, err
	}
	size, err := st.Stack.PeekN(2)
	if err != nil {
		return 0, err
	}
	cost, err := memoryAccessCost(st, memOffset, size)
	if err != nil {
		return 0, err
	}
	if !size.IsUint64() {
		return 0, errGasUintOverflow
	}
	return cost + gasCopyWord*vm.Gas(vm.SizeInWords(size.Uint64())), nil
}
