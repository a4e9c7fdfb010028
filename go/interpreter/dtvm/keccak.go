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
	"hash"
	"sync"

	"github.com/rondo-vm/rondo/go/vm"
	"golang.org/x/crypto/sha3"
)

// keccakHasher extends the hash.Hash interface by the Read function
// supported by the sha3 keccak implementation, which allows extracting a
// hash without a heap allocation.
type keccakHasher interface {
	hash.Hash
	Read(buf []byte) (int, error)
}

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

// Keccak256 computes the keccak-256 hash of the given data using a pooled
// hasher instance. This function is thread-safe.
func Keccak256(data []byte) vm.Hash {
	hasher := keccakHasherPool.Get().(keccakHasher)
	hasher.Reset()
	hasher.Write(data)
	var res vm.Hash
	hasher.Read(res[:])
	keccakHasherPool.Put(hasher)
	return res
}
