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
	"io"
	"os"

	"github.com/holiman/uint256"
	"github.com/rondo-vm/rondo/go/vm"
)

// NewStepLogger creates a step listener that logs every executed
// instruction to the provided io.Writer. If no writer is provided, the log
// is written to os.Stderr.
func NewStepLogger(writer io.Writer) vm.StepListener {
	if writer == nil {
		writer = os.Stderr
	}
	return func(event vm.StepEvent) {
		// log format: <pc>, <op>, <gas>, <top-of-stack>\n
		top := "-empty-"
		if len(event.Stack) > 0 {
			value := new(uint256.Int).SetBytes32(event.Stack[len(event.Stack)-1][:])
			top = value.ToBig().String()
		}
		fmt.Fprintf(writer, "%d, %v, %d, %v\n", event.Pc, event.OpName, event.GasLeft, top)
	}
}
