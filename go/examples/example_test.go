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
	"fmt"
	"testing"

	"github.com/rondo-vm/rondo/go/vm"
)

func TestExamples_ProduceTheReferenceResults(t *testing.T) {
	interpreter, err := vm.NewInterpreter("dtvm")
	if err != nil {
		t.Fatalf("failed to create interpreter: %v", err)
	}

	for _, example := range GetAllExamples() {
		example := example
		for _, argument := range []int{0, 1, 2, 10, 100} {
			t.Run(fmt.Sprintf("%s/%d", example.Name, argument), func(t *testing.T) {
				result, err := example.RunOn(interpreter, argument)
				if err != nil {
					t.Fatalf("failed to run example: %v", err)
				}
				if want := example.RunReference(argument); result.Result != want {
					t.Errorf("unexpected result, got %d, want %d", result.Result, want)
				}
				if result.UsedGas <= 0 {
					t.Errorf("no gas consumed by the example run")
				}
			})
		}
	}
}

func TestExamples_GasUsageIsDeterministic(t *testing.T) {
	interpreter, err := vm.NewInterpreter("dtvm")
	if err != nil {
		t.Fatalf("failed to create interpreter: %v", err)
	}

	for _, example := range GetAllExamples() {
		example := example
		t.Run(example.Name, func(t *testing.T) {
			first, err := example.RunOn(interpreter, 10)
			if err != nil {
				t.Fatalf("failed to run example: %v", err)
			}
			second, err := example.RunOn(interpreter, 10)
			if err != nil {
				t.Fatalf("failed to run example: %v", err)
			}
			if first.UsedGas != second.UsedGas {
				t.Errorf("gas usage diverged, got %d and %d", first.UsedGas, second.UsedGas)
			}
		})
	}
}

func BenchmarkExamples(b *testing.B) {
	interpreter, err := vm.NewInterpreter("dtvm")
	if err != nil {
		b.Fatalf("failed to create interpreter: %v", err)
	}
	for _, example := range GetAllExamples() {
		example := example
		b.Run(example.Name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := example.RunOn(interpreter, 50); err != nil {
					b.Fatalf("failed to run example: %v", err)
				}
			}
		})
	}
}
