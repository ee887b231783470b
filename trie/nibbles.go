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

// Package trie walks the persisted intermediate-hash table in nibble
// preorder, deciding for every subtree whether its cached hash can be reused
// or must be recomputed. Ported from silkworm's stage_interhashes trie
// cursor (node/silkworm/stagedsync/stage_interhashes/trie_cursor.cpp).
package trie

// ToNibbles unpacks a byte slice into one nibble per byte, high nibble first.
func ToNibbles(packed []byte) []byte {
	out := make([]byte, 0, len(packed)*2)
	for _, b := range packed {
		out = append(out, b>>4, b&0x0f)
	}
	return out
}

// FromNibbles packs an even-length nibble sequence two-per-byte, high
// nibble first. Callers must pad odd-length sequences before calling this;
// it panics on odd-length input.
func FromNibbles(nibbles []byte) []byte {
	if len(nibbles)%2 != 0 {
		panic("trie: FromNibbles called with odd-length nibble sequence")
	}
	out := make([]byte, len(nibbles)/2)
	for i := 0; i < len(out); i++ {
		out[i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
	return out
}

// IncrementNibbledKey finds the rightmost nibble below 0x0f, truncates
// everything after it and adds one. It is empty iff every nibble of k is
// 0x0f (there is no successor within the same keyspace).
func IncrementNibbledKey(k []byte) []byte {
	for i := len(k) - 1; i >= 0; i-- {
		if k[i] < 0x0f {
			out := make([]byte, i+1)
			copy(out, k[:i+1])
			out[i]++
			return out
		}
	}
	return nil
}

// ComputeNextUncoveredPrefix resumes the state-trie scan between skippable
// subtrees: previous incremented to its next sibling if previous is
// non-empty, else prefix unchanged; an odd-length result gets a trailing
// zero nibble appended, and the sequence is packed.
func ComputeNextUncoveredPrefix(previous, prefix []byte) []byte {
	var next []byte
	if len(previous) != 0 {
		next = IncrementNibbledKey(previous)
	} else {
		next = append([]byte(nil), prefix...)
	}
	if len(next)%2 != 0 {
		next = append(next, 0)
	}
	return FromNibbles(next)
}

// hasPrefix reports whether b starts with prefix.
func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}
