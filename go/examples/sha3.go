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
	"golang.org/x/crypto/sha3"
)

// GetSha3Example returns an example hashing the 32-byte argument word and
// returning the hash. Only the last 4 bytes of the hash survive the output
// decoding.
func GetSha3Example() Example {
	code := vm.Code{
		byte(dtvm.PUSH1), 0, // mem[0] = input[0]
		byte(dtvm.CALLDATALOAD),
		byte(dtvm.PUSH1), 0,
		byte(dtvm.MSTORE),
		byte(dtvm.PUSH1), 32, // mem[0] = keccak256(mem[0:32])
		byte(dtvm.PUSH1), 0,
		byte(dtvm.SHA3),
		byte(dtvm.PUSH1), 0,
		byte(dtvm.MSTORE),
		byte(dtvm.PUSH1), 32, // return mem[0:32]
		byte(dtvm.PUSH1), 0,
		byte(dtvm.RETURN),
	}

	return exampleSpec{
		Name:      "sha3",
		code:      code,
		reference: sha3Reference,
	}.build()
}

func sha3Reference(arg int) int {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(encodeArgument(arg))
	var hash [32]byte
	hasher.Sum(hash[0:0])
	res, err := decodeOutput(hash[:])
	if err != nil {
		panic("keccak256 produced a hash of unexpected length")
	}
	return res
}
