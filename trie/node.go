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
	"encoding/binary"
	"fmt"

	"github.com/erigontech/eosevm-interhashes/erigon-lib/common"
	emath "github.com/erigontech/eosevm-interhashes/erigon-lib/common/math"
)

// DecodeError is returned when a TrieOfAccounts/TrieOfStorage value fails
// the minimum-length or hash-count invariant. It is fatal to the scan that
// triggered it.
type DecodeError struct {
	Length int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("trie: malformed node value, length %d", e.Length)
}

// Node is the decoded form of a TrieOfAccounts/TrieOfStorage record.
//
//	offset  size  field
//	0       2     state_mask
//	2       2     tree_mask
//	4       2     hash_mask
//	6       N*32  hashes (N = popcount(hash_mask)), optionally followed by
//	              32 bytes of root_hash (distinguished by total length)
type Node struct {
	StateMask uint16
	TreeMask  uint16
	HashMask  uint16
	Hashes    []common.Hash
	RootHash  *common.Hash
}

// DecodeNode parses a raw TrieOfAccounts/TrieOfStorage value.
func DecodeNode(raw []byte) (*Node, error) {
	if len(raw) < 6 {
		return nil, &DecodeError{Length: len(raw)}
	}
	if (len(raw)-6)%common.HashLength != 0 {
		return nil, &DecodeError{Length: len(raw)}
	}
	n := &Node{
		StateMask: binary.BigEndian.Uint16(raw[0:2]),
		TreeMask:  binary.BigEndian.Uint16(raw[2:4]),
		HashMask:  binary.BigEndian.Uint16(raw[4:6]),
	}
	if n.StateMask == 0 {
		return nil, fmt.Errorf("trie: decode: state_mask must be non-zero")
	}
	nHashes := emath.Popcount16(n.HashMask)
	if extra := len(raw) - 6 - nHashes*common.HashLength; extra != 0 && extra != common.HashLength {
		return nil, &DecodeError{Length: len(raw)}
	}
	rest := raw[6:]
	n.Hashes = make([]common.Hash, nHashes)
	for i := 0; i < nHashes; i++ {
		n.Hashes[i] = common.BytesToHash(rest[i*common.HashLength : (i+1)*common.HashLength])
	}
	rest = raw[6+nHashes*common.HashLength:]
	if len(rest) == common.HashLength {
		h := common.BytesToHash(rest)
		n.RootHash = &h
	}
	return n, nil
}

// Encode serialises the node back to its on-disk representation.
func (n *Node) Encode() []byte {
	size := 6 + len(n.Hashes)*common.HashLength
	if n.RootHash != nil {
		size += common.HashLength
	}
	out := make([]byte, size)
	binary.BigEndian.PutUint16(out[0:2], n.StateMask)
	binary.BigEndian.PutUint16(out[2:4], n.TreeMask)
	binary.BigEndian.PutUint16(out[4:6], n.HashMask)
	off := 6
	for _, h := range n.Hashes {
		copy(out[off:off+common.HashLength], h[:])
		off += common.HashLength
	}
	if n.RootHash != nil {
		copy(out[off:off+common.HashLength], n.RootHash[:])
	}
	return out
}

// HashForNibble returns the cached hash for child nibble, if hash_mask has
// that bit set.
func (n *Node) HashForNibble(nibble int) *common.Hash {
	if n.HashMask&(1<<uint(nibble)) == 0 {
		return nil
	}
	idx := emath.PrefixPopcount16(n.HashMask, nibble)
	return &n.Hashes[idx]
}
