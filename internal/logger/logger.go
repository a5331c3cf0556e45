/* Shuuro server — realtime core
Copyright (C) 2026 Shuuro server contributors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>. */

// Package logger is a small leveled logger plus an audit trail, used by
// every actor in the concurrency core. Level and debug toggles are set
// once at bootstrap from config and never mutated concurrently afterward,
// the same discipline the teacher applies to its package-level
// DebugNetwork/DebugPackets switches.
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level is the minimum severity that will be printed.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

var (
	MinLevel    = LevelInfo
	AuditPath   = "logs/audit"
	auditMu     sync.Mutex
	std         = log.New(os.Stdout, "", log.LstdFlags)
)

func logf(level Level, prefix, format string, args ...any) {
	if level < MinLevel {
		return
	}
	std.Printf("[%s] %s", prefix, fmt.Sprintf(format, args...))
}

func LogDebug(msg string)                         { logf(LevelDebug, "DEBUG", "%s", msg) }
func LogDebugf(format string, args ...any)         { logf(LevelDebug, "DEBUG", format, args...) }
func LogInfo(msg string)                           { logf(LevelInfo, "INFO", "%s", msg) }
func LogInfof(format string, args ...any)          { logf(LevelInfo, "INFO", format, args...) }
func LogWarning(msg string)                        { logf(LevelWarning, "WARN", "%s", msg) }
func LogWarningf(format string, args ...any)       { logf(LevelWarning, "WARN", format, args...) }
func LogError(msg string)                          { logf(LevelError, "ERROR", "%s", msg) }
func LogErrorf(format string, args ...any)         { logf(LevelError, "ERROR", format, args...) }

// WriteAuditEvent formats a {ts, kind, game_id, detail} audit record and
// writes it through WriteAudit. kind is a short lifecycle label (join,
// start, stage_change, abort, terminal) and detail is free-form context.
func WriteAuditEvent(kind, gameID, detail string) {
	WriteAudit(fmt.Sprintf("%s\tkind=%s\tgame_id=%s\t%s", time.Now().UTC().Format(time.RFC3339), kind, gameID, detail))
}

// WriteAudit appends a line to the day's audit log file, creating
// AuditPath if needed. Best-effort: a failure here is logged, never
// escalated (spec.md §7, StoreUnavailable is logged and swallowed the
// same way).
func WriteAudit(line string) {
	auditMu.Lock()
	defer auditMu.Unlock()
	if err := os.MkdirAll(AuditPath, 0o755); err != nil {
		LogErrorf("audit: mkdir failed: %v", err)
		return
	}
	name := filepath.Join(AuditPath, time.Now().UTC().Format("2006-01-02")+".log")
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		LogErrorf("audit: open failed: %v", err)
		return
	}
	defer f.Close()
	fmt.Fprintln(f, line)
}
