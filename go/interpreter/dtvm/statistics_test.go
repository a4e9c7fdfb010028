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
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/rondo-vm/rondo/go/vm"
)

func TestStepStatistics_CountsExecutedInstructions(t *testing.T) {
	statistics := NewStepStatistics()
	interpreter := newTestVm(t, Config{Listener: statistics.Listen()})

	_, err := interpreter.Run(vm.Parameters{
		Code:     vm.Code{byte(PUSH1), 1, byte(PUSH1), 2, byte(ADD), byte(STOP)},
		GasLimit: big.NewInt(100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := statistics.Count("PUSH1"); got != 2 {
		t.Errorf("unexpected PUSH1 count %d, want 2", got)
	}
	if got := statistics.Count("ADD"); got != 1 {
		t.Errorf("unexpected ADD count %d, want 1", got)
	}
	if got := statistics.Count("MUL"); got != 0 {
		t.Errorf("unexpected MUL count %d, want 0", got)
	}
}

func TestStepStatistics_SummaryListsMostFrequentFirst(t *testing.T) {
	statistics := NewStepStatistics()
	listener := statistics.Listen()
	for i := 0; i < 3; i++ {
		listener(vm.StepEvent{OpName: "PUSH1"})
	}
	listener(vm.StepEvent{OpName: "STOP"})

	summary := statistics.GetSummary()
	if !strings.HasPrefix(summary, "Steps: 4\n") {
		t.Errorf("unexpected summary header: %q", summary)
	}
	if strings.Index(summary, "PUSH1") > strings.Index(summary, "STOP") {
		t.Errorf("summary is not sorted by frequency:\n%s", summary)
	}
}

func TestStepStatistics_ResetClearsCounts(t *testing.T) {
	statistics := NewStepStatistics()
	statistics.Listen()(vm.StepEvent{OpName: "ADD"})
	statistics.Reset()
	if got := statistics.Count("ADD"); got != 0 {
		t.Errorf("unexpected count after reset: %d", got)
	}
}

func TestStepStatistics_SupportsConcurrentObservers(t *testing.T) {
	statistics := NewStepStatistics()
	listener := statistics.Listen()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				listener(vm.StepEvent{OpName: "ADD"})
			}
		}()
	}
	wg.Wait()

	if got := statistics.Count("ADD"); got != 1000 {
		t.Errorf("unexpected count %d, want 1000", got)
	}
}
