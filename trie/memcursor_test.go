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

// memCursor is a minimal in-memory kv.RwCursor over a sorted byte-keyed
// table, used by the trie package's own tests in place of an mdbx handle.
type memCursor struct {
	keys   [][]byte
	values [][]byte
	pos    int
	erased map[int]bool
}

func newMemCursor(rows [][2][]byte) *memCursor {
	sort.Slice(rows, func(i, j int) bool { return less(rows[i][0], rows[j][0]) })
	mc := &memCursor{erased: make(map[int]bool)}
	for _, r := range rows {
		mc.keys = append(mc.keys, r[0])
		mc.values = append(mc.values, r[1])
	}
	return mc
}

func (m *memCursor) Find(key []byte) ([]byte, []byte, bool, error) {
	for i, k := range m.keys {
		if m.erased[i] {
			continue
		}
		if equal(k, key) {
			m.pos = i
			return k, m.values[i], true, nil
		}
	}
	return nil, nil, false, nil
}

func (m *memCursor) LowerBound(key []byte) ([]byte, []byte, bool, error) {
	i := sort.Search(len(m.keys), func(i int) bool { return !less(m.keys[i], key) })
	for ; i < len(m.keys); i++ {
		if m.erased[i] {
			continue
		}
		m.pos = i
		return m.keys[i], m.values[i], true, nil
	}
	return nil, nil, false, nil
}

func (m *memCursor) ToFirst() ([]byte, []byte, bool, error) {
	for i := range m.keys {
		if m.erased[i] {
			continue
		}
		m.pos = i
		return m.keys[i], m.values[i], true, nil
	}
	return nil, nil, false, nil
}

func (m *memCursor) Erase() error {
	m.erased[m.pos] = true
	return nil
}

func (m *memCursor) remaining() [][2][]byte {
	var out [][2][]byte
	for i, k := range m.keys {
		if !m.erased[i] {
			out = append(out, [2][]byte{k, m.values[i]})
		}
	}
	return out
}
