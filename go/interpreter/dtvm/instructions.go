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

// This file provides the execution functions of the base instruction set.
// Their gas fees are collected by the interpreter loop through the opcode
// table before an execution function runs; memory ranges paid for through a
// descriptor's gas function are accessed without further charging.

func opStop(s *RunState) error {
	s.status = statusStopped
	return nil
}

func opEndWithResult(s *RunState) error {
	offset, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	size, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	if err := checkSizeOffsetUint64Overflow(offset, size); err != nil {
		return err
	}
	data := s.Memory.sliceFor(offset.Uint64(), size.Uint64())
	s.returnData = make([]byte, len(data))
	copy(s.returnData, data)
	return nil
}

func opReturn(s *RunState) error {
	if err := opEndWithResult(s); err != nil {
		return err
	}
	s.status = statusReturned
	return nil
}

func opRevert(s *RunState) error {
	if err := opEndWithResult(s); err != nil {
		return err
	}
	s.status = statusReverted
	return nil
}

// --- Control flow ---

func opJump(s *RunState) error {
	destination, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	if !s.validJumpDest(destination) {
		return errInvalidJump
	}
	s.Pc = int32(destination.Uint64())
	return nil
}

func opJumpi(s *RunState) error {
	destination, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	condition, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	if condition.IsZero() {
		return nil
	}
	if !s.validJumpDest(destination) {
		return errInvalidJump
	}
	s.Pc = int32(destination.Uint64())
	return nil
}

func opJumpdest(*RunState) error {
	return nil
}

func opPc(s *RunState) error {
	z, err := s.Stack.PushUndefined()
	if err != nil {
		return err
	}
	z.SetUint64(uint64(s.Pc))
	return nil
}

func opGas(s *RunState) error {
	z, err := s.Stack.PushUndefined()
	if err != nil {
		return err
	}
	z.SetUint64(uint64(s.gas))
	return nil
}

// --- Stack operations ---

func opPop(s *RunState) error {
	_, err := s.Stack.Pop()
	return err
}

func opPush0(s *RunState) error {
	z, err := s.Stack.PushUndefined()
	if err != nil {
		return err
	}
	z.Clear()
	return nil
}

// makePush creates the execution function of the PUSHn instruction. The n
// immediate data bytes following the instruction form the pushed value;
// bytes past the end of the code read as zero. The program counter is
// moved past the instruction and its immediate data.
func makePush(n int) ExecutionFunc {
	return func(s *RunState) error {
		z, err := s.Stack.PushUndefined()
		if err != nil {
			return err
		}
		var buf [32]byte
		start := int(s.Pc) + 1
		if start < len(s.Code) {
			copy(buf[:n], s.Code[start:])
		}
		z.SetBytes(buf[:n])
		s.Pc += int32(n) + 1
		return nil
	}
}

// makeDup creates the execution function of the DUPn instruction.
func makeDup(n int) ExecutionFunc {
	return func(s *RunState) error {
		return s.Stack.Dup(n - 1)
	}
}

// makeSwap creates the execution function of the SWAPn instruction.
func makeSwap(n int) ExecutionFunc {
	return func(s *RunState) error {
		return s.Stack.Swap(n)
	}
}

// --- Arithmetic, comparison, and bit-wise logic ---

// popPeek obtains the two topmost stack elements of a binary instruction:
// the popped first operand and the in-place replaceable second operand.
func popPeek(s *RunState) (*uint256.Int, *uint256.Int, error) {
	a, err := s.Stack.Pop()
	if err != nil {
		return nil, nil, err
	}
	b, err := s.Stack.Peek()
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// popPopPeek obtains the three topmost stack elements of a ternary
// instruction.
func popPopPeek(s *RunState) (*uint256.Int, *uint256.Int, *uint256.Int, error) {
	a, err := s.Stack.Pop()
	if err != nil {
		return nil, nil, nil, err
	}
	b, err := s.Stack.Pop()
	if err != nil {
		return nil, nil, nil, err
	}
	n, err := s.Stack.Peek()
	if err != nil {
		return nil, nil, nil, err
	}
	return a, b, n, nil
}

func opAdd(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	b.Add(a, b)
	return nil
}

func opSub(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	b.Sub(a, b)
	return nil
}

func opMul(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	b.Mul(a, b)
	return nil
}

func opDiv(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	b.Div(a, b)
	return nil
}

func opSDiv(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	b.SDiv(a, b)
	return nil
}

func opMod(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	b.Mod(a, b)
	return nil
}

func opSMod(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	b.SMod(a, b)
	return nil
}

func opAddMod(s *RunState) error {
	a, b, n, err := popPopPeek(s)
	if err != nil {
		return err
	}
	n.AddMod(a, b, n)
	return nil
}

func opMulMod(s *RunState) error {
	a, b, n, err := popPopPeek(s)
	if err != nil {
		return err
	}
	n.MulMod(a, b, n)
	return nil
}

func opExp(s *RunState) error {
	base, exponent, err := popPeek(s)
	if err != nil {
		return err
	}
	exponent.Exp(base, exponent)
	return nil
}

func opSignExtend(s *RunState) error {
	back, num, err := popPeek(s)
	if err != nil {
		return err
	}
	num.ExtendSign(num, back)
	return nil
}

func setBool(z *uint256.Int, value bool) {
	if value {
		z.SetOne()
	} else {
		z.Clear()
	}
}

func opLt(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	setBool(b, a.Lt(b))
	return nil
}

func opGt(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	setBool(b, a.Gt(b))
	return nil
}

func opSlt(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	setBool(b, a.Slt(b))
	return nil
}

func opSgt(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	setBool(b, a.Sgt(b))
	return nil
}

func opEq(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	setBool(b, a.Eq(b))
	return nil
}

func opIszero(s *RunState) error {
	a, err := s.Stack.Peek()
	if err != nil {
		return err
	}
	setBool(a, a.IsZero())
	return nil
}

func opAnd(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	b.And(a, b)
	return nil
}

func opOr(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	b.Or(a, b)
	return nil
}

func opXor(s *RunState) error {
	a, b, err := popPeek(s)
	if err != nil {
		return err
	}
	b.Xor(a, b)
	return nil
}

func opNot(s *RunState) error {
	a, err := s.Stack.Peek()
	if err != nil {
		return err
	}
	a.Not(a)
	return nil
}

func opByte(s *RunState) error {
	index, value, err := popPeek(s)
	if err != nil {
		return err
	}
	value.Byte(index)
	return nil
}

func opShl(s *RunState) error {
	shift, value, err := popPeek(s)
	if err != nil {
		return err
	}
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil
}

func opShr(s *RunState) error {
	shift, value, err := popPeek(s)
	if err != nil {
		return err
	}
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil
}

func opSar(s *RunState) error {
	shift, value, err := popPeek(s)
	if err != nil {
		return err
	}
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return nil
	}
	value.SRsh(value, uint(shift.Uint64()))
	return nil
}

// --- Hashing ---

func opSha3(s *RunState) error {
	offset, size, err := popPeek(s)
	if err != nil {
		return err
	}
	if err := checkSizeOffsetUint64Overflow(offset, size); err != nil {
		return err
	}
	data := s.Memory.sliceFor(offset.Uint64(), size.Uint64())
	hash := Keccak256(data)
	size.SetBytes32(hash[:])
	return nil
}

// --- Memory ---

func opMload(s *RunState) error {
	trg, err := s.Stack.Peek()
	if err != nil {
		return err
	}
	if !trg.IsUint64() {
		return errOverflow
	}
	offset := trg.Uint64()
	if offset+32 < offset {
		return errOverflow
	}
	trg.SetBytes32(s.Memory.sliceFor(offset, 32))
	return nil
}

func opMstore(s *RunState) error {
	offset, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	value, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	if !offset.IsUint64() || offset.Uint64()+32 < offset.Uint64() {
		return errOverflow
	}
	data := value.Bytes32()
	copy(s.Memory.sliceFor(offset.Uint64(), 32), data[:])
	return nil
}

func opMstore8(s *RunState) error {
	offset, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	value, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	if !offset.IsUint64() || offset.Uint64()+1 < offset.Uint64() {
		return errOverflow
	}
	s.Memory.sliceFor(offset.Uint64(), 1)[0] = byte(value.Uint64())
	return nil
}

func opMsize(s *RunState) error {
	z, err := s.Stack.PushUndefined()
	if err != nil {
		return err
	}
	z.SetUint64(s.Memory.Length())
	return nil
}

// --- Storage ---

func opSload(s *RunState) error {
	key, err := s.Stack.Peek()
	if err != nil {
		return err
	}
	if s.Backend == nil {
		return fmt.Errorf("no state backend configured")
	}
	word, err := s.Backend.GetStorage(s.Address, vm.Key(key.Bytes32()))
	if err != nil {
		// A backend failure is no valid outcome of an execution; it is
		// passed on unmodified to be reported as a fatal issue.
		return err
	}
	key.SetBytes32(word[:])
	return nil
}

func opSstore(s *RunState) error {
	if s.Static {
		return errWriteProtection
	}
	key, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	value, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	if s.Backend == nil {
		return fmt.Errorf("no state backend configured")
	}
	return s.Backend.SetStorage(s.Address, vm.Key(key.Bytes32()), vm.Word(value.Bytes32()))
}

// --- Execution environment ---

func opAddress(s *RunState) error {
	z, err := s.Stack.PushUndefined()
	if err != nil {
		return err
	}
	z.SetBytes20(s.Address[:])
	return nil
}

func opCaller(s *RunState) error {
	z, err := s.Stack.PushUndefined()
	if err != nil {
		return err
	}
	z.SetBytes20(s.Caller[:])
	return nil
}

func opCallvalue(s *RunState) error {
	return s.Stack.Push(&s.CallValue)
}

func opBalance(s *RunState) error {
	trg, err := s.Stack.Peek()
	if err != nil {
		return err
	}
	if s.Backend == nil {
		return fmt.Errorf("no state backend configured")
	}
	bytes := trg.Bytes32()
	var address vm.Address
	copy(address[:], bytes[12:])
	account, err := s.Backend.GetAccount(address)
	if err != nil {
		return err
	}
	trg.SetBytes32(account.Balance[:])
	return nil
}

func opCallDataload(s *RunState) error {
	offset, err := s.Stack.Peek()
	if err != nil {
		return err
	}
	var buf [32]byte
	copyDataPadded(buf[:], s.Input, offset)
	offset.SetBytes32(buf[:])
	return nil
}

func opCallDatasize(s *RunState) error {
	z, err := s.Stack.PushUndefined()
	if err != nil {
		return err
	}
	z.SetUint64(uint64(len(s.Input)))
	return nil
}

func opCodeSize(s *RunState) error {
	z, err := s.Stack.PushUndefined()
	if err != nil {
		return err
	}
	z.SetUint64(uint64(len(s.Code)))
	return nil
}

// makeDataCopy creates the execution function of an instruction copying a
// section of the given source data into the memory, padding with zeros
// where the requested range extends past the source.
func makeDataCopy(source func(*RunState) []byte) ExecutionFunc {
	return func(s *RunState) error {
		memOffset, err := s.Stack.Pop()
		if err != nil {
			return err
		}
		dataOffset, err := s.Stack.Pop()
		if err != nil {
			return err
		}
		size, err := s.Stack.Pop()
		if err != nil {
			return err
		}
		if err := checkSizeOffsetUint64Overflow(memOffset, size); err != nil {
			return err
		}
		trg := s.Memory.sliceFor(memOffset.Uint64(), size.Uint64())
		copyDataPadded(trg, source(s), dataOffset)
		return nil
	}
}

// copyDataPadded fills the target with data starting at the given offset,
// padding with zeros where the source is exhausted. Offsets beyond the
// source length read as all zeros.
func copyDataPadded(target, data []byte, offset *uint256.Int) {
	start := uint64(len(data))
	if offset.IsUint64() && offset.Uint64() < start {
		start = offset.Uint64()
	}
	covered := copy(target, data[start:])
	for i := covered; i < len(target); i++ {
		target[i] = 0
	}
}

// checkSizeOffsetUint64Overflow verifies that the pair of offset and size
// describes a range representable in the uint64 address space.
func checkSizeOffsetUint64Overflow(offset, size *uint256.Int) error {
	if size.IsZero() {
		return nil
	}
	if !offset.IsUint64() || !size.IsUint64() || offset.Uint64() > math.MaxUint64-size.Uint64() {
		return errOverflow
	}
	return nil
}
