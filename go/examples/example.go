// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package examples provides small executable contracts with a known
// (int)->int semantic, used by tests, benchmarks, and the driver tool.
package examples

import (
	"fmt"
	"math"
	"math/big"

	"github.com/rondo-vm/rondo/go/backend/memstate"
	"github.com/rondo-vm/rondo/go/vm"
)

// Example is an executable piece of code with a (int)->int signature. The
// argument is passed as a single 256-bit big-endian input word, the result
// is read from the last 4 bytes of the output.
type Example struct {
	exampleSpec
}

// exampleSpec specifies the code of an example and a reference function
// computing the same result in plain Go.
type exampleSpec struct {
	Name      string
	code      vm.Code
	reference func(int) int
}

func (s exampleSpec) build() Example {
	return Example{exampleSpec: s}
}

type Result struct {
	Result  int
	UsedGas vm.Gas
}

// RunOn runs this example on the given interpreter, using the given
// argument. The example runs against a fresh in-memory state backend.
func (e *Example) RunOn(interpreter vm.Interpreter, argument int) (Result, error) {
	params := vm.Parameters{
		Code:     e.code,
		Input:    encodeArgument(argument),
		GasLimit: big.NewInt(math.MaxInt64),
		Backend:  memstate.NewState(),
	}

	res, err := interpreter.Run(params)
	if err != nil {
		return Result{}, err
	}
	if res.ExceptionError != nil {
		return Result{}, fmt.Errorf("example %q halted exceptionally: %v", e.Name, res.ExceptionError)
	}

	result, err := decodeOutput(res.Output)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Result:  result,
		UsedGas: res.GasUsed,
	}, nil
}

// RunReference runs the reference function of this example to produce the
// expected result.
func (e *Example) RunReference(argument int) int {
	return e.reference(argument)
}

// GetAllExamples returns all examples of this package.
func GetAllExamples() []Example {
	return []Example{
		GetSumExample(),
		GetCounterExample(),
		GetSha3Example(),
	}
}

func encodeArgument(arg int) []byte {
	// the argument is padded up to a full 32-byte word
	data := make([]byte, 32)
	data[28] = byte(arg >> 24)
	data[29] = byte(arg >> 16)
	data[30] = byte(arg >> 8)
	data[31] = byte(arg)
	return data
}

func decodeOutput(output []byte) (int, error) {
	if len(output) != 32 {
		return 0, fmt.Errorf("unexpected length of output; wanted 32, got %d", len(output))
	}
	return (int(output[28]) << 24) | (int(output[29]) << 16) | (int(output[30]) << 8) | (int(output[31]) << 0), nil
}
