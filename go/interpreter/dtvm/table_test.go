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
	"strings"
	"testing"

	"github.com/rondo-vm/rondo/go/vm"
)

func TestOpTable_BaseInstructionSetCoversAllOperations(t *testing.T) {
	table := newBaseInstructionSet()

	expected := []OpCode{
		STOP, ADD, MUL, SUB, DIV, SDIV, MOD, SMOD, ADDMOD, MULMOD, EXP,
		SIGNEXTEND, LT, GT, SLT, SGT, EQ, ISZERO, AND, OR, XOR, NOT, BYTE,
		SHL, SHR, SAR, SHA3, ADDRESS, BALANCE, CALLER, CALLVALUE,
		CALLDATALOAD, CALLDATASIZE, CALLDATACOPY, CODESIZE, CODECOPY, POP,
		MLOAD, MSTORE, MSTORE8, SLOAD, SSTORE, JUMP, JUMPI, PC, MSIZE, GAS,
		JUMPDEST, RETURN, REVERT,
	}
	for i := 0; i < 32; i++ {
		expected = append(expected, PUSH1+OpCode(i))
	}
	expected = append(expected, PUSH0)
	for i := 0; i < 16; i++ {
		expected = append(expected, DUP1+OpCode(i), SWAP1+OpCode(i))
	}

	assigned := map[OpCode]bool{}
	for _, op := range expected {
		assigned[op] = true
		entry := table[op]
		if entry == nil {
			t.Errorf("missing descriptor for %v", op)
			continue
		}
		if entry.execute == nil {
			t.Errorf("descriptor of %v lacks an execution function", op)
		}
		if entry.name != op.String() {
			t.Errorf("descriptor of %v carries name %q", op, entry.name)
		}
		if entry.baseFee != getStaticGasPrice(op) {
			t.Errorf("descriptor of %v carries base fee %d, want %d", op, entry.baseFee, getStaticGasPrice(op))
		}
	}

	// all remaining slots, the designated INVALID instruction included,
	// must be empty
	for i := 0; i < numOpCodes; i++ {
		op := OpCode(i)
		if !assigned[op] && table[op] != nil {
			t.Errorf("unexpected descriptor for %v", op)
		}
	}
}

func TestNewOpTable_CustomEntryReplacesDescriptorWholesale(t *testing.T) {
	executed := false
	table, err := newOpTable([]CustomOpCode{{
		OpCode:  ADD,
		Name:    "MY-ADD",
		BaseFee: 42,
		Execute: func(*RunState) error {
			executed = true
			return nil
		},
	}})
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}

	entry := table[ADD]
	if entry.name != "MY-ADD" {
		t.Errorf("unexpected name %q", entry.name)
	}
	if entry.baseFee != 42 {
		t.Errorf("unexpected base fee %d", entry.baseFee)
	}
	if entry.gasFunc != nil {
		t.Errorf("replacement must not inherit the gas function of the replaced descriptor")
	}
	if err := entry.execute(nil); err != nil || !executed {
		t.Errorf("installed execution function was not used")
	}
}

func TestNewOpTable_BareOpCodeDeletesTheSlot(t *testing.T) {
	table, err := newOpTable([]CustomOpCode{{OpCode: SHA3}})
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	if table[SHA3] != nil {
		t.Errorf("deleted slot still carries a descriptor")
	}
}

func TestNewOpTable_EntriesApplyInOrder(t *testing.T) {
	noop := func(*RunState) error { return nil }

	t.Run("replace then delete", func(t *testing.T) {
		table, err := newOpTable([]CustomOpCode{
			{OpCode: ADD, Name: "FIRST", Execute: noop},
			{OpCode: ADD},
		})
		if err != nil {
			t.Fatalf("failed to build table: %v", err)
		}
		if table[ADD] != nil {
			t.Errorf("later deletion did not win over earlier replacement")
		}
	})

	t.Run("delete then replace", func(t *testing.T) {
		table, err := newOpTable([]CustomOpCode{
			{OpCode: ADD},
			{OpCode: ADD, Name: "SECOND", Execute: noop},
		})
		if err != nil {
			t.Fatalf("failed to build table: %v", err)
		}
		if table[ADD] == nil || table[ADD].name != "SECOND" {
			t.Errorf("later replacement did not win over earlier deletion")
		}
	})
}

func TestNewOpTable_CustomEntryCanPopulateEmptySlots(t *testing.T) {
	noop := func(*RunState) error { return nil }
	table, err := newOpTable([]CustomOpCode{
		{OpCode: INVALID, Name: "NOT-SO-INVALID", Execute: noop},
		{OpCode: OpCode(0xe0), Execute: noop},
	})
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	if table[INVALID] == nil {
		t.Errorf("failed to populate the INVALID slot")
	}
	if entry := table[OpCode(0xe0)]; entry == nil {
		t.Errorf("failed to populate an unassigned slot")
	} else if entry.name != "CUSTOM(0xe0)" {
		t.Errorf("unexpected default name %q", entry.name)
	}
}

func TestNewOpTable_MalformedEntriesAreRejected(t *testing.T) {
	noop := func(*RunState) error { return nil }

	tests := map[string]struct {
		entry CustomOpCode
		issue string
	}{
		"gas function without execution function": {
			entry: CustomOpCode{OpCode: ADD, GasFunc: func(*RunState) (vm.Gas, error) { return 0, nil }},
			issue: "without execution function",
		},
		"name without execution function": {
			entry: CustomOpCode{OpCode: ADD, Name: "BROKEN"},
			issue: "without execution function",
		},
		"negative base fee": {
			entry: CustomOpCode{OpCode: ADD, BaseFee: -1, Execute: noop},
			issue: "negative base fee",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := newOpTable([]CustomOpCode{test.entry})
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !strings.Contains(err.Error(), test.issue) {
				t.Errorf("unexpected error message: %v", err)
			}
		})
	}
}
