// Copyright 2021 The Erigon Authors
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

const (
	/*
	   TrieOfAccounts and TrieOfStorage

	   hasState  - mark prefixes existing in the hashed-account/hashed-storage table
	   hasTree   - mark prefixes that have a cached subnode in this table
	   hasHash   - mark prefixes whose hash is cached in the current record

	   +-----------------------------------------------------------------------------------------------------+
	   | DB record: 0x0B, hasState: 0b1011, hasTree: 0b1001, hasHash: 0b1001, hashes: [x,x]                  |
	   +-----------------------------------------------------------------------------------------------------+

	   Invariants:
	   - hasTree is a subset of hasState
	   - hasHash is a subset of hasState
	   - the first level always exists if hasState > 0
	   - a TrieOfStorage record for the account's storage root (key length 40) carries +1 hash: the storage root
	   - every record must have a parent (possibly several levels up) whose hasTree bit covers it
	   - a record is only written when hasTree != 0 || hasHash != 0
	*/
	TrieOfAccounts = "TrieAccount"
	TrieOfStorage  = "TrieStorage"
)
