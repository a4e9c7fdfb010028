// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vm

//go:generate mockgen -source state_backend.go -destination state_backend_mock.go -package vm

// StateBackend is the narrow contract through which the interpreter consumes
// persistent chain state. It is consumed, never implemented, by the
// interpreter core. Every operation may fail; such a failure is a fatal
// condition of the enclosing run, not an exceptional halt, and is surfaced
// to the caller of Run unmodified.
type StateBackend interface {
	// GetStorage retrieves the word stored under the given key of the given
	// account. Unset slots read as the zero word.
	GetStorage(Address, Key) (Word, error)

	// SetStorage updates the word stored under the given key of the given
	// account.
	SetStorage(Address, Key, Word) error

	// GetAccount retrieves the balance, nonce, and code hash of the given
	// account. Unknown accounts read as the zero account.
	GetAccount(Address) (Account, error)
}

// Account summarizes the fields of an account visible to the interpreter.
type Account struct {
	Balance  Value
	Nonce    uint64
	CodeHash Hash
}
