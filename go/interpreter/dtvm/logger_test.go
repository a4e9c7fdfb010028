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
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/rondo-vm/rondo/go/vm"
)

func TestStepLogger_LogsExecutedInstructions(t *testing.T) {
	buffer := &bytes.Buffer{}
	interpreter := newTestVm(t, Config{Listener: NewStepLogger(buffer)})

	_, err := interpreter.Run(vm.Parameters{
		Code:     vm.Code{byte(PUSH1), 5, byte(STOP)},
		GasLimit: big.NewInt(100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("unexpected number of log lines: %v", lines)
	}
	if want := "0, PUSH1, 97, -empty-"; lines[0] != want {
		t.Errorf("unexpected first line %q, want %q", lines[0], want)
	}
	if want := "2, STOP, 97, 5"; lines[1] != want {
		t.Errorf("unexpected second line %q, want %q", lines[1], want)
	}
}
