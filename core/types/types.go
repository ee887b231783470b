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

// Package types holds the block/transaction/receipt value objects the
// execution processor consumes. RLP encoding, signature recovery and the EVM
// itself live outside this package's scope; here we only model the shapes
// the processor reads and writes.
package types

import (
	"github.com/holiman/uint256"

	"github.com/erigontech/eosevm-interhashes/erigon-lib/common"
)

// Header is the subset of a block header the processor and its post-block
// validation need.
type Header struct {
	Number        uint64
	GasLimit      uint64
	GasUsed       uint64
	Time          uint64
	BaseFeePerGas *uint256.Int
	DataGasPrice  *uint256.Int
	ReceiptsRoot  common.Hash
	LogsBloom     common.Bloom

	// EIP-4844 fields, populated once the chain has activated data/blob gas.
	ExcessBlobGas *uint64
	BlobGasUsed   *uint64
}

// AvailableGas is header.gas_limit - cumulativeGasUsed, exposed for
// transaction-validation callers outside the processor itself.
func (h *Header) AvailableGas(cumulativeGasUsed uint64) uint64 {
	if cumulativeGasUsed >= h.GasLimit {
		return 0
	}
	return h.GasLimit - cumulativeGasUsed
}

// AccessListEntry is one address/storage-keys pair from an EIP-2930 access list.
type AccessListEntry struct {
	Address     common.Address
	StorageKeys []common.Hash
}

// Transaction is the subset of transaction fields gas accounting and
// execution need. Signature recovery, nonce/chainID checks and RLP framing
// are out of scope: validate_transaction is an injected collaborator.
type Transaction struct {
	Nonce                uint64
	GasLimit             uint64
	To                   *common.Address
	Value                *uint256.Int
	Data                 []byte
	AccessList           []AccessListEntry
	MaxFeePerGas         *uint256.Int
	MaxPriorityFeePerGas *uint256.Int
	MaxFeePerDataGas     *uint256.Int
	DataHashes           []common.Hash
	From                 common.Address
	Type                 uint8
}

// EffectiveGasPrice is min(MaxFeePerGas, baseFee + MaxPriorityFeePerGas),
// floored at baseFee for legacy (non-dynamic-fee) transactions whose
// MaxFeePerGas already encodes a flat gas price.
func (t *Transaction) EffectiveGasPrice(baseFee *uint256.Int) *uint256.Int {
	tip := t.PriorityFeePerGas(baseFee)
	price := new(uint256.Int).Add(baseFee, tip)
	return price
}

// PriorityFeePerGas is min(MaxPriorityFeePerGas, MaxFeePerGas - baseFee),
// clamped to zero.
func (t *Transaction) PriorityFeePerGas(baseFee *uint256.Int) *uint256.Int {
	if t.MaxFeePerGas.Cmp(baseFee) <= 0 {
		return new(uint256.Int)
	}
	headroom := new(uint256.Int).Sub(t.MaxFeePerGas, baseFee)
	if t.MaxPriorityFeePerGas.Cmp(headroom) <= 0 {
		return new(uint256.Int).Set(t.MaxPriorityFeePerGas)
	}
	return headroom
}

// TotalDataGas returns the EIP-4844 data gas consumed by this transaction's
// blobs (a fixed per-blob constant times the blob count).
func (t *Transaction) TotalDataGas() uint64 {
	const gasPerBlob = 131072
	return uint64(len(t.DataHashes)) * gasPerBlob
}

// Log is a single EVM log entry.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// Receipt is the per-transaction execution outcome.
type Receipt struct {
	Type              uint8
	Success           bool
	CumulativeGasUsed uint64
	Logs              []Log
	Bloom             common.Bloom
}

// Block bundles a header with its transactions.
type Block struct {
	Header       *Header
	Transactions []Transaction
}

// CallResult is the low-level EVM outcome, passed back verbatim alongside
// the higher-level ExecutionResult so callers get both without an
// out-parameter.
type CallResult struct {
	Success   bool
	GasLeft   uint64
	GasRefund uint64
	Output    []byte
}
