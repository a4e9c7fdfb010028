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
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"pgregory.net/rand"
)

func TestStack_PushAndPopValues(t *testing.T) {
	stack := NewStack()
	defer ReturnStack(stack)

	values := []uint64{1, 1 << 16, 1 << 62, 0}
	for _, value := range values {
		if err := stack.Push(uint256.NewInt(value)); err != nil {
			t.Fatalf("failed to push %d: %v", value, err)
		}
	}
	if got, want := stack.Len(), len(values); got != want {
		t.Fatalf("unexpected stack size, got %d, want %d", got, want)
	}
	for i := len(values) - 1; i >= 0; i-- {
		got, err := stack.Pop()
		if err != nil {
			t.Fatalf("failed to pop: %v", err)
		}
		if got.Uint64() != values[i] {
			t.Errorf("popped %d, want %d", got.Uint64(), values[i])
		}
	}
}

func TestStack_PushOnFullStackIsDetected(t *testing.T) {
	stack := NewStack()
	defer ReturnStack(stack)

	stack.stackPointer = maxStackSize
	if err := stack.Push(uint256.NewInt(1)); !errors.Is(err, errStackOverflow) {
		t.Errorf("expected stack overflow, got %v", err)
	}
	if _, err := stack.PushUndefined(); !errors.Is(err, errStackOverflow) {
		t.Errorf("expected stack overflow, got %v", err)
	}
	if err := stack.Dup(0); !errors.Is(err, errStackOverflow) {
		t.Errorf("expected stack overflow, got %v", err)
	}
}

func TestStack_AccessOnEmptyStackIsDetected(t *testing.T) {
	stack := NewStack()
	defer ReturnStack(stack)

	if _, err := stack.Pop(); !errors.Is(err, errStackUnderflow) {
		t.Errorf("expected stack underflow, got %v", err)
	}
	if _, err := stack.Peek(); !errors.Is(err, errStackUnderflow) {
		t.Errorf("expected stack underflow, got %v", err)
	}
	if _, err := stack.PeekN(0); !errors.Is(err, errStackUnderflow) {
		t.Errorf("expected stack underflow, got %v", err)
	}
	if err := stack.Swap(1); !errors.Is(err, errStackUnderflow) {
		t.Errorf("expected stack underflow, got %v", err)
	}
	if err := stack.Dup(0); !errors.Is(err, errStackUnderflow) {
		t.Errorf("expected stack underflow, got %v", err)
	}
}

func TestStack_SwapExchangesElements(t *testing.T) {
	stack := NewStack()
	defer ReturnStack(stack)

	for i := 1; i <= 4; i++ {
		if err := stack.Push(uint256.NewInt(uint64(i))); err != nil {
			t.Fatalf("failed to push: %v", err)
		}
	}
	if err := stack.Swap(3); err != nil {
		t.Fatalf("failed to swap: %v", err)
	}
	top, err := stack.Peek()
	if err != nil {
		t.Fatalf("failed to peek: %v", err)
	}
	if top.Uint64() != 1 {
		t.Errorf("unexpected top of stack, got %d, want 1", top.Uint64())
	}
	if stack.Get(0).Uint64() != 4 {
		t.Errorf("unexpected bottom of stack, got %d, want 4", stack.Get(0).Uint64())
	}
}

func TestStack_DupCopiesElement(t *testing.T) {
	stack := NewStack()
	defer ReturnStack(stack)

	for i := 1; i <= 3; i++ {
		if err := stack.Push(uint256.NewInt(uint64(i))); err != nil {
			t.Fatalf("failed to push: %v", err)
		}
	}
	if err := stack.Dup(2); err != nil {
		t.Fatalf("failed to dup: %v", err)
	}
	if got, want := stack.Len(), 4; got != want {
		t.Fatalf("unexpected stack size, got %d, want %d", got, want)
	}
	top, err := stack.Peek()
	if err != nil {
		t.Fatalf("failed to peek: %v", err)
	}
	if top.Uint64() != 1 {
		t.Errorf("unexpected top of stack, got %d, want 1", top.Uint64())
	}
}

func TestStack_PeekNReachesIntoTheStack(t *testing.T) {
	stack := NewStack()
	defer ReturnStack(stack)

	for i := 1; i <= 5; i++ {
		if err := stack.Push(uint256.NewInt(uint64(i))); err != nil {
			t.Fatalf("failed to push: %v", err)
		}
	}
	for n := 0; n < 5; n++ {
		value, err := stack.PeekN(n)
		if err != nil {
			t.Fatalf("failed to peek at depth %d: %v", n, err)
		}
		if want := uint64(5 - n); value.Uint64() != want {
			t.Errorf("PeekN(%d) = %d, want %d", n, value.Uint64(), want)
		}
	}
	if _, err := stack.PeekN(5); !errors.Is(err, errStackUnderflow) {
		t.Errorf("expected stack underflow, got %v", err)
	}
}

func TestStack_SnapshotIsBottomUpAndDetached(t *testing.T) {
	stack := NewStack()
	defer ReturnStack(stack)

	rnd := rand.New(12345)
	values := make([]uint64, 7)
	for i := range values {
		values[i] = rnd.Uint64()
		if err := stack.Push(uint256.NewInt(values[i])); err != nil {
			t.Fatalf("failed to push: %v", err)
		}
	}

	snapshot := stack.snapshot()
	if len(snapshot) != len(values) {
		t.Fatalf("unexpected snapshot size, got %d, want %d", len(snapshot), len(values))
	}
	for i, value := range values {
		if got := new(uint256.Int).SetBytes32(snapshot[i][:]); got.Uint64() != value {
			t.Errorf("unexpected snapshot value at %d, got %v, want %d", i, got, value)
		}
	}

	// the snapshot must not be affected by later stack updates
	if _, err := stack.Pop(); err != nil {
		t.Fatalf("failed to pop: %v", err)
	}
	if err := stack.Push(uint256.NewInt(0)); err != nil {
		t.Fatalf("failed to push: %v", err)
	}
	if got := new(uint256.Int).SetBytes32(snapshot[len(snapshot)-1][:]); got.Uint64() != values[len(values)-1] {
		t.Errorf("snapshot was modified by a stack update")
	}
}

func TestStack_ReturnedStacksAreEmpty(t *testing.T) {
	stack := NewStack()
	if err := stack.Push(uint256.NewInt(42)); err != nil {
		t.Fatalf("failed to push: %v", err)
	}
	ReturnStack(stack)

	fresh := NewStack()
	defer ReturnStack(fresh)
	if fresh.Len() != 0 {
		t.Errorf("stack obtained from the pool is not empty, size %d", fresh.Len())
	}
}
