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

func TestNibbleRoundTrip(t *testing.T) {
	for _, b := range [][]byte{{}, {0x00}, {0xab, 0xcd}, {0x12, 0x34, 0x56, 0xff}} {
		require.Equal(t, b, FromNibbles(ToNibbles(b)))
	}
}

func TestFromNibblesPanicsOnOddLength(t *testing.T) {
	require.Panics(t, func() { FromNibbles([]byte{0x01, 0x02, 0x03}) })
}

func TestIncrementNibbledKey(t *testing.T) {
	require.Equal(t, []byte{0x01, 0x03}, IncrementNibbledKey([]byte{0x01, 0x02}))
	require.Nil(t, IncrementNibbledKey([]byte{0x0f, 0x0f}))
	require.Equal(t, []byte{0x02}, IncrementNibbledKey([]byte{0x01, 0x0f}))
}

func TestIncrementNibbledKeyIsShortestStrictSuccessor(t *testing.T) {
	in := []byte{0x03, 0x0f, 0x0f}
	got := IncrementNibbledKey(in)
	require.Equal(t, []byte{0x04}, got)
	require.True(t, less(in, got))
}

func TestComputeNextUncoveredPrefix(t *testing.T) {
	require.Equal(t, []byte{0x13}, ComputeNextUncoveredPrefix([]byte{0x01, 0x02}, nil))
	require.Equal(t, []byte{0xa0}, ComputeNextUncoveredPrefix(nil, []byte{0x0a}))
}
