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

// Command interhashes is a small operator tool for driving the trie
// cursors directly against an MDBX environment, outside of staged sync.
package main

import (
	"fmt"
	"os"

	"github.com/erigontech/mdbx-go/mdbx"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/eosevm-interhashes/erigon-lib/kv"
	"github.com/erigontech/eosevm-interhashes/erigon-lib/log"
	"github.com/erigontech/eosevm-interhashes/trie"
)

func main() {
	app := &cli.App{
		Name:  "interhashes",
		Usage: "inspect and verify the intermediate-hash trie tables",
		Commands: []*cli.Command{
			verifyTrieCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Error("interhashes: fatal", "err", err)
		os.Exit(1)
	}
}

var verifyTrieCommand = &cli.Command{
	Name:  "verify-trie",
	Usage: "walk TrieOfAccounts in nibble preorder, reporting how many emitted keys are skippable",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "datadir", Required: true, Usage: "path to the MDBX data directory"},
	},
	Action: runVerifyTrie,
}

func runVerifyTrie(c *cli.Context) error {
	env, err := mdbx.NewEnv(mdbx.Default)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.SetGeometry(-1, -1, -1, -1, -1, -1); err != nil {
		return err
	}
	if err := env.Open(c.String("datadir"), mdbx.Readonly, 0644); err != nil {
		return fmt.Errorf("interhashes: open %s: %w", c.String("datadir"), err)
	}

	txn, err := env.BeginTxn(nil, mdbx.Readonly)
	if err != nil {
		return err
	}
	defer txn.Abort()

	dbi, err := txn.OpenDBI(kv.TrieOfAccounts, 0, nil, nil)
	if err != nil {
		return fmt.Errorf("interhashes: open table %s: %w", kv.TrieOfAccounts, err)
	}

	mdbxCursor, err := txn.OpenCursor(dbi)
	if err != nil {
		return err
	}
	defer mdbxCursor.Close()

	cursor := kv.NewMdbxCursor(mdbxCursor)
	changed := trie.NewPrefixSet()

	tc, err := trie.NewCursor(cursor, changed, nil)
	if err != nil {
		return err
	}

	emitted, skipped := 0, 0
	for tc.Key() != nil {
		emitted++
		if tc.CanSkipState() {
			skipped++
		}
		if err := tc.Next(); err != nil {
			return err
		}
	}

	log.Info("verify-trie complete", "emitted", emitted, "skippable", skipped)
	return nil
}
