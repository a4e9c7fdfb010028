// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package memstate provides an in-memory implementation of the interpreter's
// state-backend contract, backed by a key-value database. It is intended for
// tests, tools, and examples; a production chain would provide its own
// backend over its persistent state.
package memstate

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/rondo-vm/rondo/go/vm"
)

// Key prefixes of the database schema.
var (
	accountPrefix = []byte("a")
	storagePrefix = []byte("s")
	codePrefix    = []byte("c")
)

// State is a deterministic vm.StateBackend over an ethdb key-value store.
type State struct {
	db ethdb.KeyValueStore
}

// NewState creates a state backend over a fresh in-memory database.
func NewState() *State {
	return &State{db: rawdb.NewMemoryDatabase()}
}

// NewStateWithDb creates a state backend over the provided database.
func NewStateWithDb(db ethdb.KeyValueStore) *State {
	return &State{db: db}
}

func storageKey(addr vm.Address, key vm.Key) []byte {
	res := make([]byte, 0, len(storagePrefix)+len(addr)+len(key))
	res = append(res, storagePrefix...)
	res = append(res, addr[:]...)
	res = append(res, key[:]...)
	return res
}

func accountKey(addr vm.Address) []byte {
	res := make([]byte, 0, len(accountPrefix)+len(addr))
	res = append(res, accountPrefix...)
	res = append(res, addr[:]...)
	return res
}

// GetStorage retrieves the word stored under the given slot. Unset slots
// read as the zero word.
func (s *State) GetStorage(addr vm.Address, key vm.Key) (vm.Word, error) {
	dbKey := storageKey(addr, key)
	exists, err := s.db.Has(dbKey)
	if err != nil {
		return vm.Word{}, err
	}
	if !exists {
		return vm.Word{}, nil
	}
	data, err := s.db.Get(dbKey)
	if err != nil {
		return vm.Word{}, err
	}
	if len(data) != 32 {
		return vm.Word{}, fmt.Errorf("corrupted storage entry of length %d", len(data))
	}
	var res vm.Word
	copy(res[:], data)
	return res, nil
}

// SetStorage updates the word stored under the given slot.
func (s *State) SetStorage(addr vm.Address, key vm.Key, value vm.Word) error {
	return s.db.Put(storageKey(addr, key), value[:])
}

// GetAccount retrieves the account fields of the given address. Unknown
// accounts read as the zero account.
func (s *State) GetAccount(addr vm.Address) (vm.Account, error) {
	dbKey := accountKey(addr)
	exists, err := s.db.Has(dbKey)
	if err != nil {
		return vm.Account{}, err
	}
	if !exists {
		return vm.Account{}, nil
	}
	data, err := s.db.Get(dbKey)
	if err != nil {
		return vm.Account{}, err
	}
	return decodeAccount(data)
}

// SetAccount stores the account fields of the given address.
func (s *State) SetAccount(addr vm.Address, account vm.Account) error {
	return s.db.Put(accountKey(addr), encodeAccount(account))
}

// SetBalance updates the balance of the given account, keeping its
// remaining fields.
func (s *State) SetBalance(addr vm.Address, balance vm.Value) error {
	account, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	account.Balance = balance
	return s.SetAccount(addr, account)
}

// SetNonce updates the nonce of the given account, keeping its remaining
// fields.
func (s *State) SetNonce(addr vm.Address, nonce uint64) error {
	account, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	account.Nonce = nonce
	return s.SetAccount(addr, account)
}

// SetCode stores the code of the given account and updates the account's
// code hash accordingly.
func (s *State) SetCode(addr vm.Address, code vm.Code) error {
	account, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	hash := crypto.Keccak256Hash(code)
	account.CodeHash = vm.Hash(hash)

	dbKey := make([]byte, 0, len(codePrefix)+len(addr))
	dbKey = append(dbKey, codePrefix...)
	dbKey = append(dbKey, addr[:]...)
	if err := s.db.Put(dbKey, code); err != nil {
		return err
	}
	return s.SetAccount(addr, account)
}

// GetCode retrieves the code stored for the given account, or nil if none
// was set.
func (s *State) GetCode(addr vm.Address) (vm.Code, error) {
	dbKey := make([]byte, 0, len(codePrefix)+len(addr))
	dbKey = append(dbKey, codePrefix...)
	dbKey = append(dbKey, addr[:]...)
	exists, err := s.db.Has(dbKey)
	if err != nil || !exists {
		return nil, err
	}
	return s.db.Get(dbKey)
}

// The account encoding is balance (32 bytes), nonce (8 bytes, big-endian),
// and code hash (32 bytes).
const encodedAccountLength = 32 + 8 + 32

func encodeAccount(account vm.Account) []byte {
	res := make([]byte, encodedAccountLength)
	copy(res[0:32], account.Balance[:])
	binary.BigEndian.PutUint64(res[32:40], account.Nonce)
	copy(res[40:72], account.CodeHash[:])
	return res
}

func decodeAccount(data []byte) (vm.Account, error) {
	if len(data) != encodedAccountLength {
		return vm.Account{}, fmt.Errorf("corrupted account entry of length %d", len(data))
	}
	var res vm.Account
	copy(res.Balance[:], data[0:32])
	res.Nonce = binary.BigEndian.Uint64(data[32:40])
	copy(res.CodeHash[:], data[40:72])
	return res, nil
}
