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
	"math"

	"github.com/holiman/uint256"
	"github.com/rondo-vm/rondo/go/vm"
)

// Memory is the byte-addressable linear memory of a single run. It starts
// empty, grows on demand in 32-byte-aligned increments, and never shrinks
// within a run. Every expansion is charged to the run's gas budget based on
// the new highest touched offset.
type Memory struct {
	store             []byte
	currentMemoryCost vm.Gas
}

func NewMemory() *Memory {
	return &Memory{}
}

func toValidMemorySize(size uint64) uint64 {
	fullWordsSize := vm.SizeInWords(size) * 32
	if size != 0 && fullWordsSize < size {
		return math.MaxUint64
	}
	return fullWordsSize
}

// Maximum memory size allowed before the expansion cost saturates the gas
// budget.
const maxMemoryExpansionSize = 0x1FFFFFFFE0

// expansionCosts computes the gas fee for growing the memory to the given
// size, relative to the already paid memory cost.
func (m *Memory) expansionCosts(size uint64) vm.Gas {
	if m.Length() >= size {
		return 0
	}
	size = toValidMemorySize(size)

	if size > maxMemoryExpansionSize {
		return vm.Gas(math.MaxInt64)
	}

	words := vm.SizeInWords(size)
	newCosts := vm.Gas((words*words)/512 + (3 * words))
	return newCosts - m.currentMemoryCost
}

// ExpandMemory grows the memory so that the range [offset, offset+size) is
// addressable, charging the expansion fee to the given run state. If the
// memory is already large enough or size is 0, it does nothing. An overflow
// of offset+size or an insufficient gas budget is reported as an error.
func (m *Memory) ExpandMemory(offset, size uint64, st *RunState) error {
	if size == 0 {
		return nil
	}
	needed := offset + size
	// check overflow
	if needed < offset {
		return errGasUintOverflow
	}
	if m.Length() < needed {
		fee := m.expansionCosts(needed)
		if err := st.UseGas(fee); err != nil {
			return err
		}
		m.expandTo(needed)
	}
	return nil
}

// expandTo grows the memory to the given size without charging gas. It is
// used by instructions whose expansion fee was already collected through
// their descriptor's gas function.
func (m *Memory) expandTo(needed uint64) {
	needed = toValidMemorySize(needed)
	size := m.Length()
	if size < needed {
		m.currentMemoryCost += m.expansionCosts(needed)
		m.store = append(m.store, make([]byte, needed-size)...)
	}
}

// Length returns the current size of the memory in bytes.
func (m *Memory) Length() uint64 {
	return uint64(len(m.store))
}

// SetByte writes a single byte at the given offset, expanding and charging
// as needed.
func (m *Memory) SetByte(offset uint64, value byte, st *RunState) error {
	if err := m.ExpandMemory(offset, 1, st); err != nil {
		return err
	}
	if m.Length() < offset+1 {
		return fmt.Errorf("memory too small, size %d, attempted to write at position %d", m.Length(), offset)
	}
	m.store[offset] = value
	return nil
}

// SetWord writes a 32-byte word at the given offset, expanding and charging
// as needed.
func (m *Memory) SetWord(offset uint64, value *uint256.Int, st *RunState) error {
	if err := m.ExpandMemory(offset, 32, st); err != nil {
		return err
	}
	if m.Length() < offset+32 {
		return fmt.Errorf("memory too small, size %d, attempted to write 32 byte at position %d", m.Length(), offset)
	}
	data := value.Bytes32()
	copy(m.store[offset:offset+32], data[:])
	return nil
}

// Set copies the given value into the already addressable memory range
// [offset, offset+size). The range must have been expanded before.
func (m *Memory) Set(offset, size uint64, value []byte) error {
	if size > 0 {
		if offset+size < offset {
			return errGasUintOverflow
		}
		if offset+size > m.Length() {
			return fmt.Errorf("memory too small, size %d, attempted to write %d bytes at %d", m.Length(), size, offset)
		}
		copy(m.store[offset:offset+size], value)
	}
	return nil
}

// SetWithExpansion expands and charges the target range and copies the
// given value into it.
func (m *Memory) SetWithExpansion(offset, size uint64, value []byte, st *RunState) error {
	if err := m.ExpandMemory(offset, size, st); err != nil {
		return err
	}
	return m.Set(offset, size, value)
}

// GetSlice obtains a slice of size bytes from the memory at the given
// offset, expanding and charging as needed. The returned slice is backed by
// the memory's internal data. Updates to the slice will thus affect the
// memory state. This connection is invalidated by any subsequent memory
// operation that may change the size of the memory.
func (m *Memory) GetSlice(offset, size uint64, st *RunState) ([]byte, error) {
	if err := m.ExpandMemory(offset, size, st); err != nil {
		return nil, err
	}
	// since memory does not expand on size 0 independently of the offset,
	// we need to prevent out of bounds access
	if size == 0 {
		return nil, nil
	}
	return m.store[offset : offset+size], nil
}

// sliceFor obtains the memory range [offset, offset+size) without charging
// gas, expanding the memory as needed. It is used by instructions whose
// expansion fee was collected through their descriptor's gas function. The
// caller must have verified that offset+size does not overflow.
func (m *Memory) sliceFor(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	m.expandTo(offset + size)
	return m.store[offset : offset+size]
}

// ReadWord reads a word from the memory at the given offset and stores it
// in the provided target, expanding and charging as needed.
func (m *Memory) ReadWord(offset uint64, target *uint256.Int, st *RunState) error {
	data, err := m.GetSlice(offset, 32, st)
	if err != nil {
		return err
	}
	target.SetBytes32(data)
	return nil
}

// CopyData copies data from the memory, starting at the given offset, into
// the target slice, padding with zeros where the source range extends past
// the memory size.
func (m *Memory) CopyData(offset uint64, target []byte) {
	if m.Length() < offset {
		copy(target, make([]byte, len(target)))
		return
	}

	// Copy what is available.
	covered := copy(target, m.store[offset:])

	// Pad the rest
	if covered < len(target) {
		copy(target[covered:], make([]byte, len(target)-covered))
	}
}

// snapshot produces a copy of the current memory content.
func (m *Memory) snapshot() []byte {
	res := make([]byte, len(m.store))
	copy(res, m.store)
	return res
}
