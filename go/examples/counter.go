// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"github.com/rondo-vm/rondo/go/interpreter/dtvm"
	"github.com/rondo-vm/rondo/go/vm"
)

// GetCounterExample returns an example incrementing the storage slot 0 of
// the executing account n times and returning its final value. It is the
// only example touching the state backend.
func GetCounterExample() Example {
	const (
		loop = 5  // offset of the loop-head JUMPDEST
		end  = 37 // offset of the exit JUMPDEST
	)
	code := vm.Code{
		byte(dtvm.PUSH1), 1, // i = 1
		byte(dtvm.PUSH1), 0,
		byte(dtvm.MSTORE),
		byte(dtvm.JUMPDEST), // loop:
		byte(dtvm.PUSH1), 0, // n = input[0]
		byte(dtvm.CALLDATALOAD),
		byte(dtvm.PUSH1), 0, // i
		byte(dtvm.MLOAD),
		byte(dtvm.GT), // i > n ?
		byte(dtvm.PUSH1), end,
		byte(dtvm.JUMPI),
		byte(dtvm.PUSH1), 0, // store[0] += 1
		byte(dtvm.SLOAD),
		byte(dtvm.PUSH1), 1,
		byte(dtvm.ADD),
		byte(dtvm.PUSH1), 0,
		byte(dtvm.SSTORE),
		byte(dtvm.PUSH1), 0, // i += 1
		byte(dtvm.MLOAD),
		byte(dtvm.PUSH1), 1,
		byte(dtvm.ADD),
		byte(dtvm.PUSH1), 0,
		byte(dtvm.MSTORE),
		byte(dtvm.PUSH1), loop,
		byte(dtvm.JUMP),
		byte(dtvm.JUMPDEST), // end:
		byte(dtvm.PUSH1), 0, // return store[0]
		byte(dtvm.SLOAD),
		byte(dtvm.PUSH1), 0,
		byte(dtvm.MSTORE),
		byte(dtvm.PUSH1), 32,
		byte(dtvm.PUSH1), 0,
		byte(dtvm.RETURN),
	}

	return exampleSpec{
		Name: "counter",
		code: code,
		reference: func(n int) int {
			if n < 0 {
				return 0
			}
			return n
		},
	}.build()
}
