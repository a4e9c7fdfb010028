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
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rondo-vm/rondo/go/vm"
)

// bitvec is a bit vector which maps bytes in a program to indicate whether
// the byte is an opcode or the immediate data of a preceding PUSH
// instruction.
type bitvec []byte

func (bits bitvec) set1(pos uint64) {
	bits[pos/8] |= 1 << (pos % 8)
}

func (bits bitvec) isSet(pos uint64) bool {
	return bits[pos/8]&(1<<(pos%8)) != 0
}

// codeSegment checks if the position is in a code segment, as opposed to
// being part of PUSH immediate data.
func (bits bitvec) codeSegment(pos uint64) bool {
	return !bits.isSet(pos)
}

// codeBitmap collects the positions of PUSH immediate data in the given
// code. Jump targets pointing at such positions are invalid.
func codeBitmap(code []byte) bitvec {
	bits := make(bitvec, len(code)/8+1)
	for pc := uint64(0); pc < uint64(len(code)); {
		op := OpCode(code[pc])
		pc++
		if n := op.pushDataSize(); n > 0 {
			for i := 0; i < n && pc < uint64(len(code)); i++ {
				bits.set1(pc)
				pc++
			}
		}
	}
	return bits
}

// analysisCache is an LRU governed fixed-capacity cache for code bitmaps,
// keyed by the keccak hash of the analyzed code. The same contract code is
// typically executed many times, while the bitmap only depends on the code.
// The cache is thread-safe.
type analysisCache struct {
	cache *lru.Cache[vm.Hash, bitvec]
}

// newAnalysisCache creates a cache with the given capacity of entries. A
// non-positive capacity disables caching.
func newAnalysisCache(capacity int) (*analysisCache, error) {
	if capacity <= 0 {
		return &analysisCache{}, nil
	}
	cache, err := lru.New[vm.Hash, bitvec](capacity)
	if err != nil {
		return nil, err
	}
	return &analysisCache{cache: cache}, nil
}

// getBitmap fetches the cached bitmap for the given code or computes and
// caches it.
func (c *analysisCache) getBitmap(code []byte) bitvec {
	if c.cache == nil {
		return codeBitmap(code)
	}
	key := Keccak256(code)
	if res, found := c.cache.Get(key); found {
		return res
	}
	res := codeBitmap(code)
	c.cache.Add(key, res)
	return res
}
