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
	"hash/fnv"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/erigontech/eosevm-interhashes/erigon-lib/kv"
)

// MemCollector is an in-memory kv.Collector used when callers don't have an
// on-disk ETL sink configured (tests, one-off scans). It records the
// (key, value) pair of each distinct key in Entries, in arrival order; a
// repeated key is dropped. A roaring64 bitmap of key fingerprints short-circuits the
// common case where AccCursor re-visits the same subnode key twice in a
// scan (e.g. after re-seeking): a large, sparse membership set is exactly
// roaring's sweet spot, unlike the fixed 16-bit node masks elsewhere in
// this package.
type MemCollector struct {
	seen    *roaring64.Bitmap
	Entries [][2][]byte
}

func NewMemCollector() *MemCollector {
	return &MemCollector{seen: roaring64.New()}
}

func (c *MemCollector) Collect(key, value []byte) error {
	fp := fingerprint(key)
	if c.seen.Contains(fp) {
		// A fingerprint hit is confirmed against the recorded keys, so a
		// fingerprint collision never drops a distinct key.
		for _, e := range c.Entries {
			if string(e[0]) == string(key) {
				return nil
			}
		}
	}
	c.seen.Add(fp)
	c.Entries = append(c.Entries, [2][]byte{append([]byte(nil), key...), append([]byte(nil), value...)})
	return nil
}

func fingerprint(key []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(key)
	return h.Sum64()
}

var _ kv.Collector = (*MemCollector)(nil)
