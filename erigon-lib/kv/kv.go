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

// Package kv declares the minimal, byte-ordered cursor contract the trie
// scanners and the execution processor's callers need from the underlying
// key-value store. Everything else about the store (MDBX pages, transaction
// isolation, table DBI management) is out of scope here and lives behind
// this interface, the way erigon-lib/kv hides MDBX from the stage code.
package kv

// Cursor is a forward, byte-ordered read cursor over a single table.
// Implementations are not required to be reentrant: callers must not share
// one across concurrent scans.
type Cursor interface {
	// Find performs an exact-match lookup. ok is false if the key is absent.
	Find(key []byte) (k, v []byte, ok bool, err error)
	// LowerBound returns the first key >= key, or ok == false at end-of-table.
	LowerBound(key []byte) (k, v []byte, ok bool, err error)
	// ToFirst rewinds to the first key in the table.
	ToFirst() (k, v []byte, ok bool, err error)
}

// RwCursor additionally allows deleting the row at the cursor's current
// position, used by the trie cursors to erase stale cached subtrees in
// lockstep with traversal.
type RwCursor interface {
	Cursor
	// Erase removes the row the cursor is currently positioned on.
	Erase() error
}

// Collector is an ETL-style sink for (key, value) pairs, used by AccCursor
// to queue bulk deletions of stale cached subtrees for later application.
// Applying the collected entries to the database is out of scope.
type Collector interface {
	Collect(key, value []byte) error
}
