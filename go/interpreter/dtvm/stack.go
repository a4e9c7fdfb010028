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
	"strings"
	"sync"

	"github.com/holiman/uint256"
	"github.com/rondo-vm/rondo/go/vm"
)

const maxStackSize = 1024 // Maximum size of VM stack allowed.

// Stack is the 1024-element 256-bit word-wide stack used by the VM.
// It is a fixed-size stack to prevent memory reallocation during execution.
// All accessors check the stack boundaries; exceeding them is reported
// through the stack overflow and underflow halt errors.
//
// Each stack consumes 1024 * 32 bytes = 32KB of memory. Thus, creating and
// destroying stacks could incur significant overhead. To mitigate this, a
// stack pool is provided to reuse stack instances. To obtain an empty stack
// from the pool, use NewStack(). To return a stack to the pool, use
// ReturnStack(s).
//
// Example usage:
//
//	s := NewStack()
//	defer ReturnStack(s)
//	<use the stack in your local scope>
//
// The stack is not thread-safe. NewStack() and ReturnStack() are thread-safe.
type Stack struct {
	data         [maxStackSize]uint256.Int
	stackPointer int
}

// Push adds a copy of the given value to the top of the stack.
func (s *Stack) Push(d *uint256.Int) error {
	if s.stackPointer >= maxStackSize {
		return errStackOverflow
	}
	s.data[s.stackPointer] = *d
	s.stackPointer++
	return nil
}

// PushUndefined adds a value with an undefined content to the top of the
// stack and returns a pointer to this element. Use this function if the
// element on the top of the stack should be set directly through the
// returned pointer.
func (s *Stack) PushUndefined() (*uint256.Int, error) {
	if s.stackPointer >= maxStackSize {
		return nil, errStackOverflow
	}
	s.stackPointer++
	return &s.data[s.stackPointer-1], nil
}

// Pop removes the top element from the stack and returns a pointer to it.
// The obtained pointer is only valid until the next push operation. The
// pointer can be used to obtain the popped element without the need to copy
// it.
func (s *Stack) Pop() (*uint256.Int, error) {
	if s.stackPointer <= 0 {
		return nil, errStackUnderflow
	}
	s.stackPointer--
	return &s.data[s.stackPointer], nil
}

// Peek returns a pointer to the top element of the stack without removing
// it. The returned pointer is only valid until the next operation on the
// stack.
func (s *Stack) Peek() (*uint256.Int, error) {
	if s.stackPointer <= 0 {
		return nil, errStackUnderflow
	}
	return &s.data[s.stackPointer-1], nil
}

// PeekN returns a pointer to the n-th element from the top of the stack
// without removing it. The top element is at index 0. Thus, PeekN(0) is
// equivalent to Peek().
func (s *Stack) PeekN(n int) (*uint256.Int, error) {
	if n < 0 || s.stackPointer <= n {
		return nil, errStackUnderflow
	}
	return &s.data[s.stackPointer-n-1], nil
}

// Len returns the number of elements on the stack.
func (s *Stack) Len() int {
	return s.stackPointer
}

// Swap exchanges the top element with the n-th element from the top. The
// top element is at index 0. Thus, Swap(0) is a no-op.
func (s *Stack) Swap(n int) error {
	if s.stackPointer <= n {
		return errStackUnderflow
	}
	top := s.stackPointer - 1
	s.data[top-n], s.data[top] = s.data[top], s.data[top-n]
	return nil
}

// Dup duplicates the n-th element from the top and pushes it to the top of
// the stack. The top element is at index 0. Thus, Dup(0) duplicates the top
// element.
func (s *Stack) Dup(n int) error {
	if s.stackPointer <= n {
		return errStackUnderflow
	}
	if s.stackPointer >= maxStackSize {
		return errStackOverflow
	}
	s.data[s.stackPointer] = s.data[s.stackPointer-n-1]
	s.stackPointer++
	return nil
}

// Get returns the element at the given index. The bottom element is at
// index 0.
func (s *Stack) Get(i int) *uint256.Int {
	return &s.data[i]
}

// snapshot produces a bottom-up copy of the stack content as plain words.
func (s *Stack) snapshot() []vm.Word {
	res := make([]vm.Word, s.stackPointer)
	for i := 0; i < s.stackPointer; i++ {
		res[i] = s.data[i].Bytes32()
	}
	return res
}

func (s *Stack) String() string {
	toHex := func(z *uint256.Int) string {
		b := strings.Builder{}
		b.WriteString("0x")
		bytes := z.Bytes32()
		for i, cur := range bytes {
			b.WriteString(fmt.Sprintf("%02x", cur))
			if (i+1)%8 == 0 {
				b.WriteString(" ")
			}
		}
		return b.String()
	}

	b := strings.Builder{}
	for i := s.Len() - 1; i >= 0; i-- {
		b.WriteString(fmt.Sprintf("    [%4d] %v\n", i, toHex(&s.data[i])))
	}
	return b.String()
}

// ------------------ Stack Pool ------------------

var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{}
	},
}

// NewStack returns a new stack instance from the a reuse pool. Heavy stack
// users should use this function to prevent memory reallocation overhead.
// This function is thread-safe.
func NewStack() *Stack {
	return stackPool.Get().(*Stack)
}

// ReturnStack returns the stack to the reuse pool. Any stack may only be
// returned once to avoid concurrent re-use. This is not checked internally.
// This function is thread-safe.
func ReturnStack(s *Stack) {
	s.stackPointer = 0
	stackPool.Put(s)
}
