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
)

// TestPrefixSetContainsExactKey covers the depth-1 case where the query key
// coincides with a changed leaf key.
func TestPrefixSetContainsExactKey(t *testing.T) {
	ps := NewPrefixSet([]byte{0x01})
	require.True(t, ps.Contains([]byte{0x01}))
	require.False(t, ps.Contains([]byte{0x02}))
}

// TestPrefixSetContainsBySubtreePrefix is the multi-depth fixture: a cursor
// position at an intermediate-depth key ([0x01]) must report Contains ==
// true when a deeper, full leaf-depth changed key ([0x01, 0x02, 0x03]) lies
// within its subtree, even though the two keys are not byte-for-byte equal.
// A cursor positioned one sibling over ([0x02]) must report false, since no
// changed key falls under that subtree.
func TestPrefixSetContainsBySubtreePrefix(t *testing.T) {
	ps := NewPrefixSet([]byte{0x01, 0x02, 0x03})

	require.True(t, ps.Contains([]byte{0x01}))
	require.True(t, ps.Contains([]byte{0x01, 0x02}))
	require.True(t, ps.Contains([]byte{0x01, 0x02, 0x03}))
	require.False(t, ps.Contains([]byte{0x02}))
	require.False(t, ps.Contains([]byte{0x01, 0x03}))
	// The empty key is a prefix of every key: the whole scan region counts
	// as dirty whenever the set holds any changed key at all.
	require.True(t, ps.Contains(nil))
}

// TestPrefixSetContainsAndNextMarkedBySubtreePrefix mirrors the above for
// the combined accessor AccCursor relies on: contains must follow the same
// prefix rule, and next must still be the lowest key >= the query
// regardless of whether it shares a prefix with it.
func TestPrefixSetContainsAndNextMarkedBySubtreePrefix(t *testing.T) {
	ps := NewPrefixSet([]byte{0x01, 0x02, 0x03}, []byte{0x05})

	contains, next := ps.ContainsAndNextMarked([]byte{0x01})
	require.True(t, contains)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, next)

	contains, next = ps.ContainsAndNextMarked([]byte{0x02})
	require.False(t, contains)
	require.Equal(t, []byte{0x05}, next)

	contains, next = ps.ContainsAndNextMarked([]byte{0x06})
	require.False(t, contains)
	require.Nil(t, next)
}

// TestCursorSkipStateRespectsDeepChangedKey is the regression that the
// fixed PrefixSet semantics were meant to catch at the Cursor level:
// without prefix-aware containment, a changed leaf key nested under the
// current node's key would be invisible to updateSkipState, and
// can_skip_state would spuriously report true for a dirty subtree.
func TestCursorSkipStateRespectsDeepChangedKey(t *testing.T) {
	h0, _, raw := twoChildHashNode(t)
	db := newMemCursor([][2][]byte{{{}, raw}})
	// A leaf several levels below child 0, not equal to it.
	changed := NewPrefixSet([]byte{0, 7, 9})

	c, err := NewCursor(db, changed, nil)
	require.NoError(t, err)

	require.Equal(t, []byte{0}, c.Key())
	require.Equal(t, &h0, c.Hash())
	require.False(t, c.CanSkipState())
}
