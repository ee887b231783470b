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

package math

import "math/bits"

// Popcount16 returns the number of set bits in a 16-bit mask.
func Popcount16(x uint16) int {
	return bits.OnesCount16(x)
}

// Ctz16 returns the index of the lowest set bit of x, or 16 if x == 0.
// Callers that rely on a node's state_mask must never pass zero: the
// trie node invariant requires state_mask != 0.
func Ctz16(x uint16) int {
	return bits.TrailingZeros16(x)
}

// BitLen16 returns the position one past the highest set bit of x (0 if x == 0).
func BitLen16(x uint16) int {
	return bits.Len16(x)
}

// PrefixPopcount16 returns the number of set bits in x at positions < nibble.
// Used to locate the hash-array index of a given nibble's cached hash.
func PrefixPopcount16(x uint16, nibble int) int {
	mask := uint16(1<<uint(nibble)) - 1
	return bits.OnesCount16(x & mask)
}
