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
	"sort"
	"strings"
	"sync"

	"github.com/rondo-vm/rondo/go/vm"
)

// StepStatistics is a step listener collecting instruction frequency
// statistics across runs. It counts, per instruction name, how often the
// instruction was executed. The collector is thread-safe and may observe
// concurrent runs.
type StepStatistics struct {
	mutex  sync.Mutex
	counts map[string]uint64
}

func NewStepStatistics() *StepStatistics {
	return &StepStatistics{counts: map[string]uint64{}}
}

// Listen returns the listener function to be registered in a VM
// configuration.
func (s *StepStatistics) Listen() vm.StepListener {
	return func(event vm.StepEvent) {
		s.mutex.Lock()
		s.counts[event.OpName]++
		s.mutex.Unlock()
	}
}

// Count returns the number of times the named instruction was observed
// since the last reset.
func (s *StepStatistics) Count(name string) uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.counts[name]
}

// Reset clears the collected statistics.
func (s *StepStatistics) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.counts = map[string]uint64{}
}

// GetSummary returns the collected statistics in a human-readable format,
// most frequent instruction first.
func (s *StepStatistics) GetSummary() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	type entry struct {
		name  string
		count uint64
	}
	entries := make([]entry, 0, len(s.counts))
	total := uint64(0)
	for name, count := range s.counts {
		entries = append(entries, entry{name, count})
		total += count
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("Steps: %d\n", total))
	for _, cur := range entries {
		builder.WriteString(fmt.Sprintf("%-16s %12d\n", cur.name, cur.count))
	}
	return builder.String()
}
