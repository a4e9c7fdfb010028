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
	"fmt"

	"github.com/rondo-vm/rondo/go/vm"
)

// GasFunc computes the input-dependent fee component of an instruction. It
// is consulted by the interpreter loop before the instruction's execution
// function runs; the returned fee is charged on top of the descriptor's
// base fee. Gas functions must not mutate the run state.
type GasFunc func(*RunState) (vm.Gas, error)

// ExecutionFunc applies the effect of an instruction to the run state. It
// may operate on the stack and memory, move the program counter, consult
// the state backend, or signal a halt. Returned errors that match the
// recognized halt conditions terminate the run as a classified exceptional
// halt; any other error is a fatal failure of the run.
type ExecutionFunc func(*RunState) error

// operation is the descriptor bound to an opcode slot: the instruction's
// name, its fee, and its behavior.
type operation struct {
	name    string
	baseFee vm.Gas
	gasFunc GasFunc
	execute ExecutionFunc
}

// opTable is the dispatch table of an interpreter configuration. Slots
// without a descriptor dispatch to an invalid-opcode halt. The table is
// built once at interpreter construction and immutable thereafter; all runs
// of the configuration share it by read-only reference.
type opTable [numOpCodes]*operation

// CustomOpCode describes one caller-supplied patch of the opcode table. An
// entry carrying only the OpCode byte deletes the slot; an entry with an
// execution function installs or replaces the slot's descriptor wholesale.
// Descriptors are never merged: a replacement discards every property of
// the previous descriptor at that slot.
type CustomOpCode struct {
	OpCode  OpCode
	Name    string
	BaseFee vm.Gas
	GasFunc GasFunc
	Execute ExecutionFunc
}

// isDeletion is true for entries carrying nothing but the opcode byte.
func (c CustomOpCode) isDeletion() bool {
	return c.Name == "" && c.BaseFee == 0 && c.GasFunc == nil && c.Execute == nil
}

// newOpTable builds the dispatch table from the base instruction set and
// the given ordered sequence of custom entries. A malformed entry is a
// configuration error reported at construction time; missing descriptors
// are only detected at dispatch time, as an invalid-opcode halt.
func newOpTable(custom []CustomOpCode) (*opTable, error) {
	table := newBaseInstructionSet()
	for _, entry := range custom {
		if entry.isDeletion() {
			table[entry.OpCode] = nil
			continue
		}
		if entry.Execute == nil {
			return nil, fmt.Errorf("invalid custom opcode 0x%02x: descriptor without execution function", byte(entry.OpCode))
		}
		if entry.BaseFee < 0 {
			return nil, fmt.Errorf("invalid custom opcode 0x%02x: negative base fee %d", byte(entry.OpCode), entry.BaseFee)
		}
		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("CUSTOM(0x%02x)", byte(entry.OpCode))
		}
		table[entry.OpCode] = &operation{
			name:    name,
			baseFee: entry.BaseFee,
			gasFunc: entry.GasFunc,
			execute: entry.Execute,
		}
	}
	return &table, nil
}

// newBaseInstructionSet builds the dispatch table of the base instruction
// set. The INVALID slot and all unassigned slots are left empty.
func newBaseInstructionSet() opTable {
	var table opTable

	install := func(op OpCode, execute ExecutionFunc) {
		table[op] = &operation{
			name:    op.String(),
			baseFee: getStaticGasPrice(op),
			execute: execute,
		}
	}
	installDynamic := func(op OpCode, gasFunc GasFunc, execute ExecutionFunc) {
		install(op, execute)
		table[op].gasFunc = gasFunc
	}

	install(STOP, opStop)
	install(ADD, opAdd)
	install(MUL, opMul)
	install(SUB, opSub)
	install(DIV, opDiv)
	install(SDIV, opSDiv)
	install(MOD, opMod)
	install(SMOD, opSMod)
	install(ADDMOD, opAddMod)
	install(MULMOD, opMulMod)
	installDynamic(EXP, gasExp, opExp)
	install(SIGNEXTEND, opSignExtend)

	install(LT, opLt)
	install(GT, opGt)
	install(SLT, opSlt)
	install(SGT, opSgt)
	install(EQ, opEq)
	install(ISZERO, opIszero)
	install(AND, opAnd)
	install(OR, opOr)
	install(XOR, opXor)
	install(NOT, opNot)
	install(BYTE, opByte)
	install(SHL, opShl)
	install(SHR, opShr)
	install(SAR, opSar)

	installDynamic(SHA3, gasSha3Op, opSha3)

	install(ADDRESS, opAddress)
	install(BALANCE, opBalance)
	install(CALLER, opCaller)
	install(CALLVALUE, opCallvalue)
	install(CALLDATALOAD, opCallDataload)
	install(CALLDATASIZE, opCallDatasize)
	installDynamic(CALLDATACOPY, gasDataCopy, makeDataCopy(func(s *RunState) []byte { return s.Input }))
	install(CODESIZE, opCodeSize)
	installDynamic(CODECOPY, gasDataCopy, makeDataCopy(func(s *RunState) []byte { return s.Code }))

	install(POP, opPop)
	installDynamic(MLOAD, gasMLoad, opMload)
	installDynamic(MSTORE, gasMStore, opMstore)
	installDynamic(MSTORE8, gasMStore8, opMstore8)
	install(SLOAD, opSload)
	install(SSTORE, opSstore)
	install(JUMP, opJump)
	install(JUMPI, opJumpi)
	install(PC, opPc)
	install(MSIZE, opMsize)
	install(GAS, opGas)
	install(JUMPDEST, opJumpdest)

	install(PUSH0, opPush0)
	for i := 1; i <= 32; i++ {
		install(PUSH1+OpCode(i-1), makePush(i))
	}
	for i := 1; i <= 16; i++ {
		install(DUP1+OpCode(i-1), makeDup(i))
		install(SWAP1+OpCode(i-1), makeSwap(i))
	}

	installDynamic(RETURN, gasReturnData, opReturn)
	installDynamic(REVERT, gasReturnData, opRevert)

	return table
}
