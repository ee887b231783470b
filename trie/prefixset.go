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

package trie

import "sort"

// PrefixSet is the ordered set of nibble keys that changed since the last
// hash computation. It is built once per scan and consumed read-mostly, so
// a sorted slice with binary search is cheaper than a tree.
type PrefixSet struct {
	keys   [][]byte
	sorted bool
}

// NewPrefixSet builds a PrefixSet from a (possibly unsorted) batch of
// changed nibble keys.
func NewPrefixSet(keys ...[]byte) *PrefixSet {
	ps := &PrefixSet{keys: keys}
	ps.ensureSorted()
	return ps
}

// Insert adds a changed nibble key. Safe to call before the first read;
// once a read (Contains/ContainsAndNextMarked) happens the set is expected
// to stay fixed for the remainder of the scan.
func (ps *PrefixSet) Insert(key []byte) {
	ps.keys = append(ps.keys, append([]byte(nil), key...))
	ps.sorted = false
}

func (ps *PrefixSet) ensureSorted() {
	if ps.sorted {
		return
	}
	sort.Slice(ps.keys, func(i, j int) bool {
		return less(ps.keys[i], ps.keys[j])
	})
	ps.sorted = true
}

// Contains reports whether key is itself a changed key, or is a strict
// prefix of one — i.e. whether the subtree rooted at key contains any
// changed key. Cursor positions are intermediate-depth prefixes while the
// set's members are full leaf-depth paths, so membership has to be tested
// by prefix, not literal equality: any key with `key` as a prefix sorts
// immediately at-or-after `key` in nibble-lexicographic order, so the
// first stored key >= key is the only candidate worth checking.
func (ps *PrefixSet) Contains(key []byte) bool {
	ps.ensureSorted()
	i := sort.Search(len(ps.keys), func(i int) bool { return !less(ps.keys[i], key) })
	return i < len(ps.keys) && hasPrefix(ps.keys[i], key)
}

// ContainsAndNextMarked reports, by the same prefix rule as Contains,
// whether the subtree rooted at key holds a changed key, and in the same
// pass the lowest key in the set that is >= key (nil if none).
func (ps *PrefixSet) ContainsAndNextMarked(key []byte) (contains bool, next []byte) {
	ps.ensureSorted()
	i := sort.Search(len(ps.keys), func(i int) bool { return !less(ps.keys[i], key) })
	if i >= len(ps.keys) {
		return false, nil
	}
	return hasPrefix(ps.keys[i], key), ps.keys[i]
}

func less(a, b []byte) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
