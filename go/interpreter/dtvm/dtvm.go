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

// Registers the dynamic-table VM as a possible interpreter implementation.
func init() {
	configs := map[string]Config{
		// This is the officially supported configuration to be used for
		// production purposes.
		"dtvm": {},

		// A variant tracing every executed instruction to stderr, intended
		// for debugging sessions.
		"dtvm-logging": {
			Listener: NewStepLogger(nil),
		},
	}

	for name, config := range configs {
		config := config
		err := vm.RegisterInterpreterFactory(name, func(cfg any) (vm.Interpreter, error) {
			if cfg != nil {
				custom, ok := cfg.(Config)
				if !ok {
					return nil, fmt.Errorf("invalid configuration of type %T", cfg)
				}
				return NewVm(custom)
			}
			return NewVm(config)
		})
		if err != nil {
			panic(err)
		}
	}
}

// Config contains the construction-time configuration options of a VM
// instance.
type Config struct {
	// CustomOpCodes is the ordered sequence of opcode-table patches applied
	// on top of the base instruction set.
	CustomOpCodes []CustomOpCode

	// Listener, if set, observes every executed instruction of every run.
	Listener vm.StepListener

	// AnalysisCacheSize is the maximum number of jump-destination analyses
	// kept cached across runs. If set to 0, a default size is used. If
	// negative, no cache is used.
	AnalysisCacheSize int
}

const (
	// defaultGasLimit is the gas budget of runs that do not specify one.
	defaultGasLimit = vm.Gas(1) << 32

	// defaultAnalysisCacheSize is the number of cached code analyses.
	defaultAnalysisCacheSize = 1 << 14
)

type dtvm struct {
	config interpreterConfig
}

// NewVm creates a VM instance for the given configuration. The opcode
// table is built once here; a contradictory custom-opcode sequence is a
// configuration error reported at this point, never during a run.
func NewVm(config Config) (*dtvm, error) {
	table, err := newOpTable(config.CustomOpCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to build opcode table: %w", err)
	}
	cacheSize := config.AnalysisCacheSize
	if cacheSize == 0 {
		cacheSize = defaultAnalysisCacheSize
	}
	analysis, err := newAnalysisCache(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}
	return &dtvm{config: interpreterConfig{
		table:    table,
		listener: config.Listener,
		analysis: analysis,
	}}, nil
}

// Run executes the given code. It validates the run parameters, sets up a
// fresh run state, and hands control to the execution loop. Validation
// failures are fatal: they are returned as errors before any execution
// state is built.
func (v *dtvm) Run(params vm.Parameters) (vm.Result, error) {
	value := uint256.NewInt(0)
	if params.Value != nil {
		if params.Value.Sign() < 0 {
			return vm.Result{}, &vm.InputError{Kind: vm.InvalidInput, Err: vm.ErrNegativeValue}
		}
		converted, overflow := uint256.FromBig(params.Value)
		if overflow {
			return vm.Result{}, &vm.InputError{Kind: vm.InvalidInput, Err: fmt.Errorf("value exceeds 256 bits")}
		}
		value = converted
	}

	startPc := int32(0)
	if params.Pc != nil {
		pc := *params.Pc
		// The valid range is strictly [0, len(code)); the offset one past
		// the end is rejected as well.
		if pc < 0 || pc >= int64(len(params.Code)) || pc > math.MaxInt32 {
			return vm.Result{}, vm.ErrPcOutOfRange
		}
		startPc = int32(pc)
	}

	gasLimit := defaultGasLimit
	if params.GasLimit != nil {
		if params.GasLimit.Sign() < 0 {
			return vm.Result{}, &vm.InputError{Kind: vm.InvalidInput, Err: vm.ErrNegativeGasLimit}
		}
		if params.GasLimit.IsInt64() {
			gasLimit = vm.Gas(params.GasLimit.Int64())
		} else {
			gasLimit = vm.Gas(math.MaxInt64)
		}
	}

	return run(v.config, params, gasLimit, startPc, value)
}
