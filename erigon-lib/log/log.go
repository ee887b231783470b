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

// Package log is the structured, key/value logging facade used across this
// module, standing in for erigon-lib/log/v3. Call sites pass an alternating key/value tail, e.g.
// log.Warn("...", "err", err).
package log

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Level int

const (
	LvlError Level = iota
	LvlWarn
	LvlInfo
	LvlDebug
)

var current = LvlInfo

// SetLevel controls the minimum level that reaches the writer.
func SetLevel(l Level) { current = l }

func Debug(msg string, ctx ...interface{}) { write(LvlDebug, msg, ctx...) }
func Info(msg string, ctx ...interface{})  { write(LvlInfo, msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { write(LvlWarn, msg, ctx...) }
func Error(msg string, ctx ...interface{}) { write(LvlError, msg, ctx...) }

func write(lvl Level, msg string, ctx ...interface{}) {
	if lvl > current {
		return
	}
	var b strings.Builder
	b.WriteString(time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))
	b.WriteByte(' ')
	b.WriteString(levelName(lvl))
	b.WriteByte(' ')
	b.WriteString(msg)
	for i := 0; i+1 < len(ctx); i += 2 {
		fmt.Fprintf(&b, " %v=%v", ctx[i], ctx[i+1])
	}
	fmt.Fprintln(os.Stderr, b.String())
}

func levelName(l Level) string {
	switch l {
	case LvlError:
		return "ERROR"
	case LvlWarn:
		return "WARN"
	case LvlInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
