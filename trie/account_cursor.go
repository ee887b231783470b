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

	emath "github.com/erigontech/eosevm-interhashes/erigon-lib/common/math"
	"github.com/erigontech/eosevm-interhashes/erigon-lib/kv"
)

const maxAccCursorDepth = 64

// accSubNode is one level of AccCursor's depth-indexed stack. key/value are
// copies of the DB row the level was last parsed from (nil once the level
// is climbed past or cleared).
type accSubNode struct {
	key, value []byte
	hasState   uint16
	hasTree    uint16
	hasHash    uint16
	childID    int8
	hashID     int8
	deleted    bool
}

// AccCursor is the account-trie-specialised cursor: an explicit
// depth-indexed stack plus ETL-collector-based deletion of stale cached
// subtrees, ported from silkworm's AccCursor.
type AccCursor struct {
	db        kv.RwCursor
	changed   *PrefixSet
	collector kv.Collector

	prefix []byte
	level  int

	subNodes [maxAccCursorDepth]accSubNode

	skipState   bool
	nextCreated []byte

	prev, curr, next, buff []byte
}

// NewAccCursor constructs an AccCursor. collector may be nil, in which case
// deletions are computed but not recorded anywhere.
func NewAccCursor(db kv.RwCursor, changed *PrefixSet, prefix []byte, collector kv.Collector) *AccCursor {
	return &AccCursor{
		db:        db,
		changed:   changed,
		collector: collector,
		prefix:    append([]byte(nil), prefix...),
	}
}

// Seek positions the cursor at the first emitted key under prefix.
//
// next_ is intentionally left untouched here, matching the observed
// silkworm behaviour: AccCursor always scans a single table dedicated to
// the account trie, so to_first() (used when next_ is still empty, as it is
// on a freshly constructed cursor) already lands inside prefix.
func (c *AccCursor) Seek(prefix []byte) (bool, error) {
	c.skipState = true
	_, nextCreated := c.changed.ContainsAndNextMarked(nil)
	c.nextCreated = nextCreated
	c.prev = append(c.prev[:0], c.curr...)
	c.prefix = append([]byte(nil), prefix...)

	ok, err := c.seekInDB(nil)
	if err != nil {
		return false, err
	}
	if !ok {
		c.curr = c.curr[:0]
		c.skipState = false
		return false, nil
	}

	consumed, err := c.consume()
	if err != nil {
		return false, err
	}
	if consumed {
		return true, nil
	}
	return c.Next()
}

// MoveNext is a preorder step that does not descend: it skips over the
// whole subtree at the current position. Returns whether the new position
// additionally has a tree child.
func (c *AccCursor) MoveNext() (bool, error) {
	c.skipState = true
	c.prev = append(c.prev[:0], c.curr...)
	if err := c.preorderTraversalStepNoIndepth(); err != nil {
		return false, err
	}

	if c.subNodes[c.level].key == nil {
		c.curr = c.curr[:0]
		c.skipState = c.skipState && IncrementNibbledKey(c.prev) == nil
		return false, nil
	}

	consumed, err := c.consume()
	if err != nil {
		return false, err
	}
	if consumed {
		return c.HasTree(), nil
	}
	return c.Next()
}

// Next is a full preorder step with descent when has_tree permits.
// Returns whether the new position has a tree child (false at end of
// traversal); whether a key was produced is visible through Key().
func (c *AccCursor) Next() (bool, error) {
	c.skipState = c.skipState && c.HasTree()
	if err := c.preorderTraversalStep(); err != nil {
		return false, err
	}
	for {
		if c.subNodes[c.level].key == nil {
			c.curr = c.curr[:0]
			c.skipState = c.skipState && IncrementNibbledKey(c.prev) == nil
			return false, nil
		}
		consumed, err := c.consume()
		if err != nil {
			return false, err
		}
		if consumed {
			return c.HasTree(), nil
		}
		c.skipState = c.skipState && c.HasTree()
		if err := c.preorderTraversalStep(); err != nil {
			return false, err
		}
	}
}

func (c *AccCursor) HasState() bool {
	sn := &c.subNodes[c.level]
	return (uint16(1)<<uint(sn.childID))&sn.hasState != 0
}

func (c *AccCursor) HasTree() bool {
	sn := &c.subNodes[c.level]
	return (uint16(1)<<uint(sn.childID))&sn.hasTree != 0
}

func (c *AccCursor) HasHash() bool {
	sn := &c.subNodes[c.level]
	return (uint16(1)<<uint(sn.childID))&sn.hasHash != 0
}

// Key returns the current emitted key; it is empty (length 0) once the
// cursor is at end.
func (c *AccCursor) Key() []byte { return c.curr }

// SkipState reports whether the skipped region contains no unscanned dirty key.
func (c *AccCursor) SkipState() bool { return c.skipState }

func (c *AccCursor) preorderTraversalStep() error {
	if c.HasTree() {
		sn := &c.subNodes[c.level]
		c.next = append(append(c.next[:0], sn.key...), byte(sn.childID))
		ok, err := c.seekInDB(c.next)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return c.preorderTraversalStepNoIndepth()
}

func (c *AccCursor) preorderTraversalStepNoIndepth() error {
	ok, err := c.nextSiblingInMem()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	ok, err = c.nextSiblingOfParentInMem()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return c.nextSiblingInDB()
}

func (c *AccCursor) DeleteCurrent() error {
	sn := &c.subNodes[c.level]
	if !sn.deleted && sn.key != nil {
		if c.collector != nil {
			if err := c.collector.Collect(sn.key, nil); err != nil {
				return err
			}
		}
		sn.deleted = true
	}
	return nil
}

func (c *AccCursor) parseSubnode(key, value []byte) error {
	if len(value) < 6 || (len(value)-6)%32 != 0 {
		return &DecodeError{Length: len(value)}
	}

	from := c.level + 1
	to := len(key)
	if c.level >= len(key) {
		from = len(key) + 1
		to = c.level + 2
	}
	for i := from; i < to && i < maxAccCursorDepth; i++ {
		c.subNodes[i] = accSubNode{}
	}

	c.level = len(key)
	sn := &c.subNodes[c.level]
	// Always non-nil, even for the table's own root row (key == []byte{}):
	// nil is reserved for "this level has no parsed row" (see the end-of-
	// traversal checks below), which a literal empty key must not collide
	// with.
	sn.key = append(make([]byte, 0, len(key)), key...)
	sn.value = append([]byte(nil), value...)
	sn.deleted = false
	sn.hasState = binary.BigEndian.Uint16(value[0:2])
	sn.hasTree = binary.BigEndian.Uint16(value[2:4])
	sn.hasHash = binary.BigEndian.Uint16(value[4:6])
	sn.hashID = -1
	sn.childID = int8(emath.Ctz16(sn.hasState)) - 1
	return nil
}

func (c *AccCursor) nextSiblingInDB() error {
	sn := &c.subNodes[c.level]
	incremented := IncrementNibbledKey(sn.key)
	if incremented == nil {
		sn.key = nil
		return nil
	}
	c.next = append(c.next[:0], incremented...)
	_, err := c.seekInDB(nil)
	return err
}

func (c *AccCursor) nextSiblingInMem() (bool, error) {
	sn := &c.subNodes[c.level]
	for int(sn.childID) < emath.BitLen16(sn.hasState) {
		sn.childID++
		if c.HasHash() {
			sn.hashID++
			return true, nil
		}
		if c.HasTree() {
			return true, nil
		}
		if c.HasState() {
			c.skipState = false
		}
	}
	return false, nil
}

// nextSiblingOfParentInMem climbs the stack looking for the next sibling of
// an ancestor. The next_/buff_ assembly below is carried over verbatim from
// the observed silkworm source (sub_nodes_[level_].key is read while that
// slot has just been found empty): see the design-notes open question.
// The tests in account_cursor_test.go use single-row tables and do not
// reach this path.
func (c *AccCursor) nextSiblingOfParentInMem() (bool, error) {
	for c.level > 1 {
		if c.subNodes[c.level].key == nil {
			upLevel := c.level - 1
			for upLevel > 1 && len(c.subNodes[upLevel].key) == 0 {
				upLevel--
			}
			sn := &c.subNodes[c.level]
			c.next = append(c.next[:0], sn.key...)
			c.next = append(c.next, byte(sn.childID))
			up := &c.subNodes[upLevel]
			c.buff = append(c.buff[:0], up.key...)
			c.buff = append(c.buff, byte(up.childID))
			ok, err := c.seekInDB(c.buff)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
			c.level = upLevel + 1
			continue
		}
		c.level--
		ok, err := c.nextSiblingInMem()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// seekInDB fetches the next row at c.next (to_first when c.next is empty)
// and parses it if it falls within withinPrefix (or c.prefix when
// withinPrefix is nil, in which case a miss also clears the current level's
// key/value).
func (c *AccCursor) seekInDB(withinPrefix []byte) (bool, error) {
	var k, v []byte
	var ok bool
	var err error
	if len(c.next) == 0 {
		k, v, ok, err = c.db.ToFirst()
	} else {
		k, v, ok, err = c.db.LowerBound(c.next)
	}
	if err != nil {
		return false, err
	}

	if len(withinPrefix) != 0 {
		if !ok || !hasPrefix(k, withinPrefix) {
			return false, nil
		}
	} else {
		if !ok || !hasPrefix(k, c.prefix) {
			sn := &c.subNodes[c.level]
			sn.key = nil
			sn.value = nil
			return false, nil
		}
	}

	if err := c.parseSubnode(k, v); err != nil {
		return false, err
	}
	if _, err := c.nextSiblingInMem(); err != nil {
		return false, err
	}
	return true, nil
}

func (c *AccCursor) consume() (bool, error) {
	if c.HasHash() {
		sn := &c.subNodes[c.level]
		c.buff = append(append(c.buff[:0], sn.key...), byte(sn.childID))
		contains, nextCreated := c.changed.ContainsAndNextMarked(c.buff)
		if !contains {
			c.skipState = c.skipState && keyIsBefore(c.buff, nextCreated)
			c.nextCreated = nextCreated
			c.curr = append(c.curr[:0], c.buff...)
			return true, nil
		}
	}
	if err := c.DeleteCurrent(); err != nil {
		return false, err
	}
	return false, nil
}

func keyIsBefore(k1, k2 []byte) bool {
	if len(k1) == 0 {
		return false
	}
	if len(k2) == 0 {
		return true
	}
	return less(k1, k2)
}
