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

func TestNodeEncodeDecodeRoundTrip(t *testing.T) {
	h0 := common.BytesToHash([]byte{1})
	h1 := common.BytesToHash([]byte{2})
	root := common.BytesToHash([]byte{3})
	n := &Node{
		StateMask: 0b11,
		HashMask:  0b11,
		Hashes:    []common.Hash{h0, h1},
		RootHash:  &root,
	}
	raw := n.Encode()
	got, err := DecodeNode(raw)
	require.NoError(t, err)
	require.Equal(t, n.StateMask, got.StateMask)
	require.Equal(t, n.HashMask, got.HashMask)
	require.Equal(t, n.Hashes, got.Hashes)
	require.NotNil(t, got.RootHash)
	require.Equal(t, *n.RootHash, *got.RootHash)
}

func TestDecodeNodeRejectsShortValue(t *testing.T) {
	_, err := DecodeNode([]byte{0, 0, 0})
	require.Error(t, err)
}

func TestDecodeNodeRejectsMisalignedHashes(t *testing.T) {
	raw := make([]byte, 6+10)
	raw[1] = 0x01
	_, err := DecodeNode(raw)
	require.Error(t, err)
}

func TestDecodeNodeRejectsZeroStateMask(t *testing.T) {
	raw := make([]byte, 6)
	_, err := DecodeNode(raw)
	require.Error(t, err)
}

func TestHashForNibble(t *testing.T) {
	h0 := common.BytesToHash([]byte{1})
	h2 := common.BytesToHash([]byte{2})
	n := &Node{StateMask: 0b101, HashMask: 0b101, Hashes: []common.Hash{h0, h2}}
	require.Equal(t, &h0, n.HashForNibble(0))
	require.Nil(t, n.HashForNibble(1))
	require.Equal(t, &h2, n.HashForNibble(2))
}
