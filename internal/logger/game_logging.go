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

package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// LogPath is the root directory per-game log files are written under.
var LogPath = "logs/games"

// EnableGameLogging gates whether CreateGameLogDirectory/WriteGameLog do
// anything at all; operators who don't want a full move-by-move replay
// trail per match can turn it off.
var EnableGameLogging = false

var unsafeNameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// sanitizeGameName strips filesystem-unsafe characters from a game id so
// it can be used as a directory name.
func sanitizeGameName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// CreateGameLogDirectory makes the per-match log directory. A no-op when
// game logging is disabled.
func CreateGameLogDirectory(gameID string) error {
	if !EnableGameLogging {
		return nil
	}
	dir := filepath.Join(LogPath, sanitizeGameName(gameID))
	return os.MkdirAll(dir, 0o755)
}

// WriteGameLog appends a line to today's log file for gameID. Silently a
// no-op when disabled; failures are logged, not escalated.
func WriteGameLog(gameID, line string) {
	if !EnableGameLogging {
		return
	}
	safe := sanitizeGameName(gameID)
	dir := filepath.Join(LogPath, safe)
	today := time.Now().UTC().Format("2006-01-02")
	path := filepath.Join(dir, safe+"-"+today+".txt")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		LogErrorf("game log: open failed for %s: %v", gameID, err)
		return
	}
	defer f.Close()
	fmt.Fprintln(f, line)
}
