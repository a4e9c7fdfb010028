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

	"github.com/holiman/uint256"
	"github.com/rondo-vm/rondo/go/vm"
)

// interpreterConfig bundles the immutable per-configuration inputs of the
// execution loop. All runs of one interpreter instance share it by
// read-only reference.
type interpreterConfig struct {
	table    *opTable
	listener vm.StepListener
	analysis *analysisCache
}

// run executes the given code in a fresh run state. The returned error is
// reserved for fatal conditions; classified exceptional halts are part of
// the result.
func run(cfg interpreterConfig, params vm.Parameters, gasLimit vm.Gas, startPc int32, value *uint256.Int) (vm.Result, error) {
	// Don't bother with the execution if there's no code.
	if len(params.Code) == 0 {
		return vm.Result{}, nil
	}

	ctxt := RunState{
		Pc:        startPc,
		Stack:     NewStack(),
		Memory:    NewMemory(),
		Code:      params.Code,
		Caller:    params.Sender,
		Address:   params.Recipient,
		CallValue: *value,
		Input:     params.Input,
		Static:    params.Static,
		Backend:   params.Backend,
		gas:       gasLimit,
		status:    statusRunning,
		jumpDests: cfg.analysis.getBitmap(params.Code),
	}
	defer ReturnStack(ctxt.Stack)

	haltErr, err := steps(&ctxt, cfg)
	if err != nil {
		return vm.Result{}, err
	}

	return generateResult(&ctxt, haltErr, gasLimit)
}

// steps is the fetch/decode/execute loop. It runs the code of the given
// state until a halting instruction, an exceptional condition, or gas
// exhaustion terminates it. The first return value is the classified halt
// that ended the run, if any; the second is a fatal failure that voids the
// run.
func steps(s *RunState, cfg interpreterConfig) (*vm.ExceptionError, error) {
	table := cfg.table
	for s.status == statusRunning {
		if int(s.Pc) >= len(s.Code) {
			s.status = statusStopped
			break
		}

		op := OpCode(s.Code[s.Pc])
		operation := table[op]
		if operation == nil {
			// No descriptor executes, so no gas is charged for this slot.
			s.status = statusFailed
			return &vm.ExceptionError{
				Kind:    vm.InvalidOpcode,
				Message: fmt.Sprintf("%s: %v", errInvalidOpCode, op),
			}, nil
		}

		// Consume the instruction fee before execution.
		cost := operation.baseFee
		if operation.gasFunc != nil {
			delta, err := operation.gasFunc(s)
			if err != nil {
				return classifyOrFail(s, err)
			}
			cost += delta
		}
		if err := s.UseGas(cost); err != nil {
			return classifyOrFail(s, err)
		}

		// Notify the observer exactly once per executed instruction,
		// before its effect is applied. The event carries copies; the
		// authoritative state remains exclusively owned by this loop.
		if cfg.listener != nil {
			cfg.listener(vm.StepEvent{
				Pc:      uint64(s.Pc),
				OpCode:  byte(op),
				OpName:  operation.name,
				GasLeft: s.gas,
				Stack:   s.Stack.snapshot(),
				Memory:  s.Memory.snapshot(),
			})
		}

		// Control-flow instructions move the counter themselves; for all
		// other instructions the loop advances to the next byte.
		pcBefore := s.Pc
		if err := operation.execute(s); err != nil {
			return classifyOrFail(s, err)
		}
		if s.Pc == pcBefore {
			s.Pc++
		}
	}
	return nil, nil
}

// classifyOrFail sorts an execution error into the two error channels. A
// recognized halt condition marks the run as failed and consumes the
// remaining gas; any other error is passed through verbatim as a fatal
// failure, voiding the run.
func classifyOrFail(s *RunState, err error) (*vm.ExceptionError, error) {
	kind, ok := classifyHalt(err)
	if !ok {
		return nil, err
	}
	s.status = statusFailed
	s.gas = 0
	return &vm.ExceptionError{Kind: kind, Message: err.Error()}, nil
}

// generateResult derives the run result from the final state of the loop.
func generateResult(s *RunState, haltErr *vm.ExceptionError, gasLimit vm.Gas) (vm.Result, error) {
	res := vm.Result{
		RunState: s.snapshot(),
		GasUsed:  gasLimit - s.gas,
	}
	switch s.status {
	case statusStopped:
		return res, nil
	case statusReturned:
		res.Output = s.returnData
		return res, nil
	case statusReverted:
		// A revert retains the remaining gas and the produced output.
		res.Output = s.returnData
		res.ExceptionError = &vm.ExceptionError{Kind: vm.Revert, Message: "execution reverted"}
		return res, nil
	case statusFailed:
		res.ExceptionError = haltErr
		return res, nil
	default:
		return vm.Result{}, fmt.Errorf("unexpected error in interpreter, unknown status: %v", s.status)
	}
}
