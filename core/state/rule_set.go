// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package state

import (
	"github.com/holiman/uint256"

	"github.com/erigontech/eosevm-interhashes/core/types"
	"github.com/erigontech/eosevm-interhashes/erigon-lib/common"
)

// Revision is the active EVM fork level, mirroring evmc_revision.
type Revision int

const (
	RevFrontier Revision = iota
	RevSpuriousDragon
	RevByzantium
	RevLondon
	RevShanghai
)

// IntraBlockState is the mutable account/storage view the processor drives.
// Journaling, substate tracking and DB writeback are all owned by the
// implementation; the processor only sequences calls onto it.
type IntraBlockState interface {
	Logs() []types.Log
	SetLogs(logs []types.Log)
	ClearJournalAndSubstate()
	AccessAccount(addr common.Address)
	AccessStorage(addr common.Address, key common.Hash)
	SetNonce(addr common.Address, nonce uint64)
	GetBalance(addr common.Address) *uint256.Int
	SubtractFromBalance(addr common.Address, amount *uint256.Int)
	AddToBalance(addr common.Address, amount *uint256.Int)
	SetBalance(addr common.Address, amount *uint256.Int)
	DestructSuicides()
	DestructTouchedDead()
	FinalizeTransaction()
	ResetReservedObjects()
	WriteToDB(blockNumber uint64) error
}

// EVM is the interpreter binding for one block: its revision, EOS-EVM
// version and beneficiary are fixed at construction, the way
// silkworm::EVM binds a Block + ChainConfig.
type EVM interface {
	Revision() Revision
	EOSEVMVersion() int
	Beneficiary() common.Address
	SetBeneficiary(addr common.Address)
	Execute(txn *types.Transaction, gasLimit uint64, gasParams GasParams) (types.CallResult, error)
}

// MessageFilter mirrors set_evm_message_filter: an optional hook the caller
// can install to intercept/veto calls before they reach the interpreter.
type MessageFilter func(to common.Address, data []byte) bool

// RuleSetType distinguishes the "trust" rule set (which skips the
// post-block consensus checks and the DAO transfer) from ordinary Ethereum
// rule sets.
type RuleSetType int

const (
	RuleSetStandard RuleSetType = iota
	RuleSetTrust
)

// RuleSet is the chain's protocol-rules collaborator: beneficiary
// selection, block finalization, the DAO fork block number and transfer,
// and (an EOS-EVM specific accommodation) reserved-address pre-seeding.
type RuleSet interface {
	Type() RuleSetType
	GetBeneficiary(header *types.Header) common.Address
	Finalize(state IntraBlockState, block *types.Block) error
	DAOBlock() uint64

	// TransferDAOBalances implements the DAO hard-fork state transition
	// (draining every affected account's balance into the refund
	// contract). The drain/refund address list is chain-specific
	// configuration data, so it lives behind this hook rather than as a
	// hardcoded constant the processor calls directly — a standard
	// Ethereum rule set implements it with the mainnet address list; a
	// rule set for a chain with no DAO fork no-ops here.
	TransferDAOBalances(state IntraBlockState)

	// IsReservedAddress and PreSeed implement the EOS-EVM bridge
	// accommodation: a reserved address's balance/nonce are externally
	// driven and must be pre-seeded from the incoming transaction before
	// validation runs, mirroring an ABI-level contract's initial state.
	// A standard Ethereum rule set returns false/no-ops here.
	IsReservedAddress(addr common.Address) bool
	PreSeed(state IntraBlockState, addr common.Address, value, maxFeePerGas *uint256.Int, gasLimit, nonce uint64)
}

// IntrinsicGasFunc computes the intrinsic (pre-execution) gas cost of a
// transaction. The exact EOS-EVM resource-pricing formula is chain-specific
// and, like the EVM itself, is an injected collaborator rather than
// something this package hardcodes.
type IntrinsicGasFunc func(txn *types.Transaction, rev Revision, eosEVMVersion int, gasParams GasParams) (uint64, error)

// ValidateTransactionFunc validates txn against the current state and the
// gas still available in the block. Returns nil for a valid transaction.
type ValidateTransactionFunc func(txn *types.Transaction, state IntraBlockState, availableGas uint64) error
