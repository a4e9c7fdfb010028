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

// GetSumExample returns an example computing the sum 1+2+...+n for the
// argument n. The loop counter lives at memory offset 0, the accumulated
// sum at offset 32.
func GetSumExample() Example {
	const (
		loop = 5  // offset of the loop-head JUMPDEST
		end  = 38 // offset of the exit JUMPDEST
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
		byte(dtvm.PUSH1), 0, // sum += i
		byte(dtvm.MLOAD),
		byte(dtvm.PUSH1), 32,
		byte(dtvm.MLOAD),
		byte(dtvm.ADD),
		byte(dtvm.PUSH1), 32,
		byte(dtvm.MSTORE),
		byte(dtvm.PUSH1), 0, // i += 1
		byte(dtvm.MLOAD),
		byte(dtvm.PUSH1), 1,
		byte(dtvm.ADD),
		byte(dtvm.PUSH1), 0,
		byte(dtvm.MSTORE),
		byte(dtvm.PUSH1), loop,
		byte(dtvm.JUMP),
		byte(dtvm.JUMPDEST), // end:
		byte(dtvm.PUSH1), 32,
		byte(dtvm.PUSH1), 32,
		byte(dtvm.RETURN), // return sum
	}

	return exampleSpec{
		Name:      "sum",
		code:      code,
		reference: sum,
	}.build()
}

func sum(n int) int {
	res := 0
	for i := 1; i <= n; i++ {
		res += i
	}
	return res
}
