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
	"github.com/erigontech/eosevm-interhashes/erigon-lib/common"
	"github.com/erigontech/eosevm-interhashes/erigon-lib/kv"
)

// subNode is one stack frame of a Cursor: the path from the scan root to
// this node, its decoded value (nil only for the synthetic root), and the
// child currently under consideration. nibble == -1 means "emit this node
// itself" (its root_hash represents the whole subtree).
type subNode struct {
	key    []byte
	node   *Node
	nibble int8
}

func (sn *subNode) fullKey() []byte {
	if sn.nibble < 0 {
		return sn.key
	}
	out := make([]byte, len(sn.key)+1)
	copy(out, sn.key)
	out[len(sn.key)] = byte(sn.nibble)
	return out
}

func (sn *subNode) stateFlag() bool {
	if sn.nibble < 0 || sn.node == nil {
		return true
	}
	return sn.node.StateMask&(1<<uint(sn.nibble)) != 0
}

func (sn *subNode) treeFlag() bool {
	if sn.nibble < 0 || sn.node == nil {
		return true
	}
	return sn.node.TreeMask&(1<<uint(sn.nibble)) != 0
}

func (sn *subNode) hashFlag() bool {
	if sn.node == nil {
		return false
	}
	if sn.nibble < 0 {
		return sn.node.RootHash != nil
	}
	return sn.node.HashMask&(1<<uint(sn.nibble)) != 0
}

func (sn *subNode) hash() *common.Hash {
	if !sn.hashFlag() {
		return nil
	}
	if sn.nibble < 0 {
		return sn.node.RootHash
	}
	return sn.node.HashForNibble(int(sn.nibble))
}

// Cursor walks a generic intermediate-hash table under a fixed byte prefix
// in nibble preorder, deciding for each position whether its cached hash is
// still authoritative.
type Cursor struct {
	db           kv.RwCursor
	changed      *PrefixSet
	prefix       []byte
	subnodes     []subNode
	canSkipState bool
}

// NewCursor constructs a Cursor and positions it at the first emitted key
// under prefix.
func NewCursor(db kv.RwCursor, changed *PrefixSet, prefix []byte) (*Cursor, error) {
	c := &Cursor{db: db, changed: changed, prefix: append([]byte(nil), prefix...)}
	c.subnodes = make([]subNode, 0, 64)
	if err := c.consumeNode(nil, true); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cursor) consumeNode(key []byte, exact bool) error {
	dbKey := append(append([]byte(nil), c.prefix...), key...)

	var k, v []byte
	var ok bool
	var err error
	if exact {
		k, v, ok, err = c.db.Find(dbKey)
	} else {
		k, v, ok, err = c.db.LowerBound(dbKey)
	}
	if err != nil {
		return err
	}

	if !exact {
		if !ok {
			c.subnodes = c.subnodes[:0]
			return nil
		}
		if !hasPrefix(k, c.prefix) {
			c.subnodes = c.subnodes[:0]
			return nil
		}
		key = k[len(c.prefix):]
	}

	var node *Node
	if ok {
		node, err = DecodeNode(v)
		if err != nil {
			return err
		}
	}

	nibble := 0
	if node == nil || node.RootHash != nil {
		nibble = -1
	} else {
		for node.StateMask&(1<<uint(nibble)) == 0 {
			nibble++
		}
	}

	if len(key) > 0 && len(c.subnodes) > 0 {
		c.subnodes[0].nibble = int8(key[0])
	}

	c.subnodes = append(c.subnodes, subNode{key: append([]byte(nil), key...), node: node, nibble: int8(nibble)})

	c.updateSkipState()

	// don't erase nodes with valid root hashes
	if ok && (!c.canSkipState || nibble != -1) {
		if err := c.db.Erase(); err != nil {
			return err
		}
	}
	return nil
}

// Next advances the cursor in preorder.
func (c *Cursor) Next() error {
	if len(c.subnodes) == 0 {
		return nil
	}
	if !c.canSkipState && c.ChildrenAreInTrie() {
		sn := &c.subnodes[len(c.subnodes)-1]
		if sn.nibble < 0 {
			if err := c.moveToNextSibling(true); err != nil {
				return err
			}
		} else {
			if err := c.consumeNode(c.Key(), false); err != nil {
				return err
			}
		}
	} else {
		if err := c.moveToNextSibling(false); err != nil {
			return err
		}
	}
	c.updateSkipState()
	return nil
}

func (c *Cursor) updateSkipState() {
	k := c.Key()
	if k == nil || c.changed.Contains(append(append([]byte(nil), c.prefix...), k...)) {
		c.canSkipState = false
		return
	}
	c.canSkipState = c.subnodes[len(c.subnodes)-1].hashFlag()
}

func (c *Cursor) moveToNextSibling(allowRootToChildNibbleWithinSubnode bool) error {
	if len(c.subnodes) == 0 {
		return nil
	}
	sn := &c.subnodes[len(c.subnodes)-1]

	if sn.nibble >= 15 || (sn.nibble < 0 && !allowRootToChildNibbleWithinSubnode) {
		c.subnodes = c.subnodes[:len(c.subnodes)-1]
		return c.moveToNextSibling(false)
	}

	sn.nibble++

	if sn.node == nil {
		return c.consumeNode(c.Key(), false)
	}

	for sn.nibble < 16 {
		if sn.stateFlag() {
			return nil
		}
		sn.nibble++
	}

	c.subnodes = c.subnodes[:len(c.subnodes)-1]
	return c.moveToNextSibling(false)
}

// Key returns the current full nibble key (from the scan prefix), or nil
// at end of traversal.
func (c *Cursor) Key() []byte {
	if len(c.subnodes) == 0 {
		return nil
	}
	return c.subnodes[len(c.subnodes)-1].fullKey()
}

// Hash returns the cached hash for the current position, if any.
func (c *Cursor) Hash() *common.Hash {
	if len(c.subnodes) == 0 {
		return nil
	}
	return c.subnodes[len(c.subnodes)-1].hash()
}

// ChildrenAreInTrie reports whether the current node's tree_mask marks the
// current child as materialised.
func (c *Cursor) ChildrenAreInTrie() bool {
	if len(c.subnodes) == 0 {
		return false
	}
	return c.subnodes[len(c.subnodes)-1].treeFlag()
}

// CanSkipState reports whether the subtree rooted at the current position
// has a usable hash and no changed key intersects it.
func (c *Cursor) CanSkipState() bool {
	return c.canSkipState
}

// FirstUncoveredPrefix returns the packed-byte key just past the region the
// cursor has proved clean, for seeking the state cursor over the remainder.
func (c *Cursor) FirstUncoveredPrefix() []byte {
	k := c.Key()
	if c.canSkipState && k != nil {
		k = IncrementNibbledKey(k)
	}
	if k == nil {
		return nil
	}
	padded := k
	if len(padded)%2 != 0 {
		padded = append(append([]byte(nil), padded...), 0)
	}
	return FromNibbles(padded)
}
