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

package kv

import (
	"errors"

	"github.com/erigontech/mdbx-go/mdbx"
)

// MdbxCursor adapts a raw *mdbx.Cursor to the RwCursor contract the trie
// scanners use. This is the only place MDBX's op-code based Get/Del API
// leaks into the package.
type MdbxCursor struct {
	c *mdbx.Cursor
}

func NewMdbxCursor(c *mdbx.Cursor) *MdbxCursor { return &MdbxCursor{c: c} }

func (m *MdbxCursor) Find(key []byte) ([]byte, []byte, bool, error) {
	k, v, err := m.c.Get(key, nil, mdbx.Set)
	return result(k, v, err)
}

func (m *MdbxCursor) LowerBound(key []byte) ([]byte, []byte, bool, error) {
	k, v, err := m.c.Get(key, nil, mdbx.SetRange)
	return result(k, v, err)
}

func (m *MdbxCursor) ToFirst() ([]byte, []byte, bool, error) {
	k, v, err := m.c.Get(nil, nil, mdbx.First)
	return result(k, v, err)
}

func (m *MdbxCursor) Erase() error {
	return m.c.Del(0)
}

func result(k, v []byte, err error) ([]byte, []byte, bool, error) {
	if err != nil {
		if errors.Is(err, mdbx.NotFound) {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	return k, v, true, nil
}
