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
	"fmt"
	"sort"
	"time"

	"github.com/dsnet/golib/unitconv"
	"github.com/rondo-vm/rondo/go/examples"
	"github.com/rondo-vm/rondo/go/vm"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

var ExamplesCmd = cli.Command{
	Action: doRunExamples,
	Name:   "examples",
	Usage:  "Run the bundled example programs and check their results",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "interpreter",
			Usage: "the registered interpreter implementation to use",
			Value: "dtvm",
		},
		&cli.IntFlag{
			Name:  "arg",
			Usage: "the argument passed to each example",
			Value: 10,
		},
	},
}

var ListCmd = cli.Command{
	Action: doList,
	Name:   "list",
	Usage:  "List the registered interpreter implementations",
}

func doRunExamples(context *cli.Context) error {
	interpreter, err := vm.NewInterpreter(context.String("interpreter"))
	if err != nil {
		return err
	}
	argument := context.Int("arg")

	for _, example := range examples.GetAllExamples() {
		start := time.Now()
		result, err := example.RunOn(interpreter, argument)
		duration := time.Since(start)
		if err != nil {
			return fmt.Errorf("example %q failed: %w", example.Name, err)
		}
		if want := example.RunReference(argument); result.Result != want {
			return fmt.Errorf("example %q produced wrong result: wanted %d, got %d",
				example.Name, want, result.Result)
		}
		rate := float64(result.UsedGas) / duration.Seconds()
		fmt.Printf("%-12s f(%d) = %-12d %8d gas, %sgas/s\n",
			example.Name, argument, result.Result, result.UsedGas,
			unitconv.FormatPrefix(rate, unitconv.SI, 1))
	}
	return nil
}

func doList(*cli.Context) error {
	names := maps.Keys(vm.GetAllRegisteredInterpreters())
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
