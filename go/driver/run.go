// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/dsnet/golib/unitconv"
	"github.com/rondo-vm/rondo/go/backend/memstate"
	"github.com/rondo-vm/rondo/go/interpreter/dtvm"
	"github.com/rondo-vm/rondo/go/vm"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Run a byte-code program on an interpreter",
	ArgsUsage: "<code>",
	Description: "The code argument is either a hex string or the path of " +
		"a file containing one.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "interpreter",
			Usage: "the registered interpreter implementation to use",
			Value: "dtvm",
		},
		&cli.Int64Flag{
			Name:  "gas",
			Usage: "the gas budget of the run",
			Value: 1 << 32,
		},
		&cli.StringFlag{
			Name:  "input",
			Usage: "the call data of the run, as a hex string",
		},
		&cli.Int64Flag{
			Name:  "value",
			Usage: "the amount of chain currency transferred with the call",
		},
		&cli.Int64Flag{
			Name:  "pc",
			Usage: "the initial program counter; if negative, execution starts at offset zero",
			Value: -1,
		},
		&cli.BoolFlag{
			Name:  "static",
			Usage: "run the code in a read-only context",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "log every executed instruction to stdout",
		},
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "print instruction frequency statistics after the run",
		},
	},
}

func doRun(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one code argument")
	}
	code, err := readCode(context.Args().Get(0))
	if err != nil {
		return err
	}

	var input []byte
	if inputHex := context.String("input"); inputHex != "" {
		input, err = hex.DecodeString(strings.TrimPrefix(inputHex, "0x"))
		if err != nil {
			return fmt.Errorf("failed to decode input: %w", err)
		}
	}

	statistics := dtvm.NewStepStatistics()
	interpreter, err := makeInterpreter(context, statistics)
	if err != nil {
		return err
	}

	params := vm.Parameters{
		Code:     code,
		GasLimit: big.NewInt(context.Int64("gas")),
		Value:    big.NewInt(context.Int64("value")),
		Static:   context.Bool("static"),
		Input:    input,
		Backend:  memstate.NewState(),
	}
	if pc := context.Int64("pc"); pc >= 0 {
		params.Pc = &pc
	}

	start := time.Now()
	result, err := interpreter.Run(params)
	duration := time.Since(start)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	rate := float64(result.GasUsed) / duration.Seconds()
	fmt.Printf("used %d gas in %v (%sgas/s)\n",
		result.GasUsed, duration, unitconv.FormatPrefix(rate, unitconv.SI, 1))
	if result.ExceptionError != nil {
		fmt.Printf("exceptional halt: %v\n", result.ExceptionError)
	}
	if len(result.Output) > 0 {
		fmt.Printf("output: 0x%s\n", hex.EncodeToString(result.Output))
	}
	if context.Bool("stats") {
		fmt.Print(statistics.GetSummary())
	}
	return nil
}

// makeInterpreter resolves the requested interpreter implementation and,
// for the dynamic-table VM, attaches the requested observers.
func makeInterpreter(context *cli.Context, statistics *dtvm.StepStatistics) (vm.Interpreter, error) {
	identifier := context.String("interpreter")
	if vm.GetInterpreterFactory(identifier) == nil {
		return nil, fmt.Errorf("invalid interpreter identifier %q, use one of: %v",
			identifier, maps.Keys(vm.GetAllRegisteredInterpreters()))
	}

	trace := context.Bool("trace")
	stats := context.Bool("stats")
	if !trace && !stats {
		return vm.NewInterpreter(identifier)
	}

	var listeners []vm.StepListener
	if trace {
		listeners = append(listeners, dtvm.NewStepLogger(os.Stdout))
	}
	if stats {
		listeners = append(listeners, statistics.Listen())
	}
	config := dtvm.Config{
		Listener: func(event vm.StepEvent) {
			for _, listener := range listeners {
				listener(event)
			}
		},
	}
	return vm.NewInterpreter(identifier, config)
}

// readCode interprets the argument as a hex string, or as the path of a
// file containing one.
func readCode(argument string) (vm.Code, error) {
	text := argument
	if data, err := os.ReadFile(argument); err == nil {
		text = string(data)
	}
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "0x"))
	code, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("failed to decode code: %w", err)
	}
	return code, nil
}
