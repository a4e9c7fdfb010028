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

import "fmt"

// OpCode is a single-byte instruction code dispatched by the interpreter.
type OpCode byte

// numOpCodes is the number of addressable opcode slots.
const numOpCodes = 256

// The instruction codes of the base instruction set.
const (
	// Control flow and arithmetic
	STOP       OpCode = 0x00
	ADD        OpCode = 0x01
	MUL        OpCode = 0x02
	SUB        OpCode = 0x03
	DIV        OpCode = 0x04
	SDIV       OpCode = 0x05
	MOD        OpCode = 0x06
	SMOD       OpCode = 0x07
	ADDMOD     OpCode = 0x08
	MULMOD     OpCode = 0x09
	EXP        OpCode = 0x0a
	SIGNEXTEND OpCode = 0x0b

	// Comparison and bit-wise logic
	LT     OpCode = 0x10
	GT     OpCode = 0x11
	SLT    OpCode = 0x12
	SGT    OpCode = 0x13
	EQ     OpCode = 0x14
	ISZERO OpCode = 0x15
	AND    OpCode = 0x16
	OR     OpCode = 0x17
	XOR    OpCode = 0x18
	NOT    OpCode = 0x19
	BYTE   OpCode = 0x1a
	SHL    OpCode = 0x1b
	SHR    OpCode = 0x1c
	SAR    OpCode = 0x1d

	SHA3 OpCode = 0x20

	// Execution environment
	ADDRESS      OpCode = 0x30
	BALANCE      OpCode = 0x31
	CALLER       OpCode = 0x33
	CALLVALUE    OpCode = 0x34
	CALLDATALOAD OpCode = 0x35
	CALLDATASIZE OpCode = 0x36
	CALLDATACOPY OpCode = 0x37
	CODESIZE     OpCode = 0x38
	CODECOPY     OpCode = 0x39

	// Stack, memory, storage and flow operations
	POP      OpCode = 0x50
	MLOAD    OpCode = 0x51
	MSTORE   OpCode = 0x52
	MSTORE8  OpCode = 0x53
	SLOAD    OpCode = 0x54
	SSTORE   OpCode = 0x55
	JUMP     OpCode = 0x56
	JUMPI    OpCode = 0x57
	PC       OpCode = 0x58
	MSIZE    OpCode = 0x59
	GAS      OpCode = 0x5a
	JUMPDEST OpCode = 0x5b

	// Push operations
	PUSH0  OpCode = 0x5f
	PUSH1  OpCode = 0x60
	PUSH2  OpCode = 0x61
	PUSH3  OpCode = 0x62
	PUSH4  OpCode = 0x63
	PUSH5  OpCode = 0x64
	PUSH6  OpCode = 0x65
	PUSH7  OpCode = 0x66
	PUSH8  OpCode = 0x67
	PUSH9  OpCode = 0x68
	PUSH10 OpCode = 0x69
	PUSH11 OpCode = 0x6a
	PUSH12 OpCode = 0x6b
	PUSH13 OpCode = 0x6c
	PUSH14 OpCode = 0x6d
	PUSH15 OpCode = 0x6e
	PUSH16 OpCode = 0x6f
	PUSH17 OpCode = 0x70
	PUSH18 OpCode = 0x71
	PUSH19 OpCode = 0x72
	PUSH20 OpCode = 0x73
	PUSH21 OpCode = 0x74
	PUSH22 OpCode = 0x75
	PUSH23 OpCode = 0x76
	PUSH24 OpCode = 0x77
	PUSH25 OpCode = 0x78
	PUSH26 OpCode = 0x79
	PUSH27 OpCode = 0x7a
	PUSH28 OpCode = 0x7b
	PUSH29 OpCode = 0x7c
	PUSH30 OpCode = 0x7d
	PUSH31 OpCode = 0x7e
	PUSH32 OpCode = 0x7f

	// Duplication operations
	DUP1  OpCode = 0x80
	DUP2  OpCode = 0x81
	DUP3  OpCode = 0x82
	DUP4  OpCode = 0x83
	DUP5  OpCode = 0x84
	DUP6  OpCode = 0x85
	DUP7  OpCode = 0x86
	DUP8  OpCode = 0x87
	DUP9  OpCode = 0x88
	DUP10 OpCode = 0x89
	DUP11 OpCode = 0x8a
	DUP12 OpCode = 0x8b
	DUP13 OpCode = 0x8c
	DUP14 OpCode = 0x8d
	DUP15 OpCode = 0x8e
	DUP16 OpCode = 0x8f

	// Swap operations
	SWAP1  OpCode = 0x90
	SWAP2  OpCode = 0x91
	SWAP3  OpCode = 0x92
	SWAP4  OpCode = 0x93
	SWAP5  OpCode = 0x94
	SWAP6  OpCode = 0x95
	SWAP7  OpCode = 0x96
	SWAP8  OpCode = 0x97
	SWAP9  OpCode = 0x98
	SWAP10 OpCode = 0x99
	SWAP11 OpCode = 0x9a
	SWAP12 OpCode = 0x9b
	SWAP13 OpCode = 0x9c
	SWAP14 OpCode = 0x9d
	SWAP15 OpCode = 0x9e
	SWAP16 OpCode = 0x9f

	// Closure related operations
	RETURN OpCode = 0xf3
	REVERT OpCode = 0xfd

	// INVALID is the designated invalid instruction. No descriptor is
	// installed for it; executing it halts with an invalid-opcode error.
	INVALID OpCode = 0xfe
)

// opCodeNames maps the base instruction set to its mnemonic names. Opcodes
// without a name render through the hexadecimal fallback of String().
var opCodeNames = map[OpCode]string{
	STOP:         "STOP",
	ADD:          "ADD",
	MUL:          "MUL",
	SUB:          "SUB",
	DIV:          "DIV",
	SDIV:         "SDIV",
	MOD:          "MOD",
	SMOD:         "SMOD",
	ADDMOD:       "ADDMOD",
	MULMOD:       "MULMOD",
	EXP:          "EXP",
	SIGNEXTEND:   "SIGNEXTEND",
	LT:           "LT",
	GT:           "GT",
	SLT:          "SLT",
	SGT:          "SGT",
	EQ:           "EQ",
	ISZERO:       "ISZERO",
	AND:          "AND",
	OR:           "OR",
	XOR:          "XOR",
	NOT:          "NOT",
	BYTE:         "BYTE",
	SHL:          "SHL",
	SHR:          "SHR",
	SAR:          "SAR",
	SHA3:         "SHA3",
	ADDRESS:      "ADDRESS",
	BALANCE:      "BALANCE",
	CALLER:       "CALLER",
	CALLVALUE:    "CALLVALUE",
	CALLDATALOAD: "CALLDATALOAD",
	CALLDATASIZE: "CALLDATASIZE",
	CALLDATACOPY: "CALLDATACOPY",
	CODESIZE:     "CODESIZE",
	CODECOPY:     "CODECOPY",
	POP:          "POP",
	MLOAD:        "MLOAD",
	MSTORE:       "MSTORE",
	MSTORE8:      "MSTORE8",
	SLOAD:        "SLOAD",
	SSTORE:       "SSTORE",
	JUMP:         "JUMP",
	JUMPI:        "JUMPI",
	PC:           "PC",
	MSIZE:        "MSIZE",
	GAS:          "GAS",
	JUMPDEST:     "JUMPDEST",
	RETURN:       "RETURN",
	REVERT:       "REVERT",
	INVALID:      "INVALID",
}

func init() {
	for i := 0; i < 32; i++ {
		opCodeNames[PUSH1+OpCode(i)] = fmt.Sprintf("PUSH%d", i+1)
	}
	opCodeNames[PUSH0] = "PUSH0"
	for i := 0; i < 16; i++ {
		opCodeNames[DUP1+OpCode(i)] = fmt.Sprintf("DUP%d", i+1)
		opCodeNames[SWAP1+OpCode(i)] = fmt.Sprintf("SWAP%d", i+1)
	}
}

func (op OpCode) String() string {
	if name, found := opCodeNames[op]; found {
		return name
	}
	return fmt.Sprintf("op(0x%02x)", byte(op))
}

// isPush returns true for PUSH1 through PUSH32, the instructions trailed by
// immediate data bytes in the code.
func (op OpCode) isPush() bool {
	return PUSH1 <= op && op <= PUSH32
}

// pushDataSize returns the number of immediate data bytes following the
// given PUSH instruction, or 0 for any other instruction.
func (op OpCode) pushDataSize() int {
	if op.isPush() {
		return int(op-PUSH1) + 1
	}
	return 0
}
