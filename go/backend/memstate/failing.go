// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package memstate

import "github.com/rondo-vm/rondo/go/vm"

// FailingState is a vm.StateBackend whose every operation fails with the
// configured error. It is used to demonstrate and test that backend
// failures surface to the caller of Run unwrapped, as fatal conditions.
type FailingState struct {
	Err error
}

func (s *FailingState) GetStorage(vm.Address, vm.Key) (vm.Word, error) {
	return vm.Word{}, s.Err
}

func (s *FailingState) SetStorage(vm.Address, vm.Key, vm.Word) error {
	return s.Err
}

func (s *FailingState) GetAccount(vm.Address) (vm.Account, error) {
	return vm.Account{}, s.Err
}
