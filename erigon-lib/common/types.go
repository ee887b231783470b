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

// Package common holds the small value types shared across the trie and
// execution packages: hashes, addresses and the consensus log bloom.
package common

import "encoding/hex"

const HashLength = 32

// Hash is a 32-byte Keccak-256 output: an account/storage hash, a trie node
// hash, or a receipts/state root.
type Hash [HashLength]byte

func (h Hash) Bytes() []byte  { return h[:] }
func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

const AddressLength = 20

// Address is a 20-byte account address.
type Address [AddressLength]byte

func (a Address) Bytes() []byte  { return a[:] }
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

const BloomByteLength = 256

// Bloom is the 2048-bit logs bloom filter attached to a block header.
type Bloom [BloomByteLength]byte

// Join ORs src into b in place, the way block-level bloom aggregation
// combines every receipt's bloom into the header's.
func (b *Bloom) Join(src Bloom) {
	for i := range b {
		b[i] |= src[i]
	}
}
