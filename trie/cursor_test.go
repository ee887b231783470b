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

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/eosevm-interhashes/erigon-lib/common"
)

func twoChildHashNode(t *testing.T) (common.Hash, common.Hash, []byte) {
	t.Helper()
	h0 := common.BytesToHash([]byte{0xaa})
	h1 := common.BytesToHash([]byte{0xbb})
	n := &Node{StateMask: 0b11, HashMask: 0b11, Hashes: []common.Hash{h0, h1}}
	return h0, h1, n.Encode()
}

// TestCursorEmptyChangedSetPreorder walks E2's two-child root with an empty
// PrefixSet. The root record itself is loaded with nibble != -1 (it carries
// no root_hash), so consume_node's erase-on-visit rule removes it
// regardless of skip-state; see DESIGN.md for why this differs from the
// "erases nothing" framing of the distilled scenario.
func TestCursorEmptyChangedSetPreorder(t *testing.T) {
	h0, h1, raw := twoChildHashNode(t)
	db := newMemCursor([][2][]byte{{{}, raw}})

	c, err := NewCursor(db, NewPrefixSet(), nil)
	require.NoError(t, err)

	require.Equal(t, []byte{0}, c.Key())
	require.Equal(t, &h0, c.Hash())

	require.NoError(t, c.Next())
	require.Equal(t, []byte{1}, c.Key())
	require.Equal(t, &h1, c.Hash())

	require.NoError(t, c.Next())
	require.Nil(t, c.Key())

	require.Empty(t, db.remaining())
}

// TestCursorChangedKeyMarksFirstChildDirty mirrors E3: with changed={[0]},
// the first emission is reported non-skippable, the second skippable.
func TestCursorChangedKeyMarksFirstChildDirty(t *testing.T) {
	h0, h1, raw := twoChildHashNode(t)
	db := newMemCursor([][2][]byte{{{}, raw}})
	changed := NewPrefixSet([]byte{0})

	c, err := NewCursor(db, changed, nil)
	require.NoError(t, err)

	require.Equal(t, []byte{0}, c.Key())
	require.Equal(t, &h0, c.Hash())
	require.False(t, c.CanSkipState())

	require.NoError(t, c.Next())
	require.Equal(t, []byte{1}, c.Key())
	require.Equal(t, &h1, c.Hash())
	require.True(t, c.CanSkipState())

	require.NoError(t, c.Next())
	require.Nil(t, c.Key())
}

func TestFirstUncoveredPrefix(t *testing.T) {
	_, _, raw := twoChildHashNode(t)
	db := newMemCursor([][2][]byte{{{}, raw}})
	c, err := NewCursor(db, NewPrefixSet(), nil)
	require.NoError(t, err)

	// canSkipState is true at [0] in the empty-changed-set case; the
	// uncovered region starts at increment_nibbled_key([0]) = [1], padded
	// to [1, 0] and packed as 0x10.
	require.Equal(t, []byte{0x10}, c.FirstUncoveredPrefix())
}
