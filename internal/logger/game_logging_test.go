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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeGameName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc123", "abc123"},
		{"game/with/slashes", "game_with_slashes"},
		{"game:with:colons", "game_with_colons"},
		{"game*with*stars", "game_with_stars"},
	}

	for _, tt := range tests {
		if got := sanitizeGameName(tt.input); got != tt.expected {
			t.Errorf("sanitizeGameName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCreateGameLogDirectory(t *testing.T) {
	tempDir := t.TempDir()
	LogPath = tempDir

	EnableGameLogging = false
	if err := CreateGameLogDirectory("abc123"); err != nil {
		t.Errorf("CreateGameLogDirectory should not error when disabled: %v", err)
	}

	EnableGameLogging = true
	if err := CreateGameLogDirectory("abc123"); err != nil {
		t.Errorf("CreateGameLogDirectory failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "abc123")); os.IsNotExist(err) {
		t.Errorf("game log directory was not created")
	}
}

func TestWriteGameLog(t *testing.T) {
	tempDir := t.TempDir()
	LogPath = tempDir
	EnableGameLogging = true

	gameID := "game-xyz"
	if err := CreateGameLogDirectory(gameID); err != nil {
		t.Fatalf("CreateGameLogDirectory failed: %v", err)
	}

	entries := []string{
		"selection confirmed by white",
		"placement: P@a1",
		"fight: a1-a2",
	}
	for _, e := range entries {
		WriteGameLog(gameID, e)
	}

	today := time.Now().UTC().Format("2006-01-02")
	path := filepath.Join(tempDir, gameID, gameID+"-"+today+".txt")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != len(entries) {
		t.Fatalf("expected %d lines, got %d", len(entries), len(lines))
	}
	for i, e := range entries {
		if lines[i] != e {
			t.Errorf("line %d = %q, want %q", i, lines[i], e)
		}
	}
}

func TestWriteGameLogDisabled(t *testing.T) {
	tempDir := t.TempDir()
	LogPath = tempDir
	EnableGameLogging = false

	gameID := "game-disabled"
	WriteGameLog(gameID, "should not be written")

	today := time.Now().UTC().Format("2006-01-02")
	path := filepath.Join(tempDir, gameID, gameID+"-"+today+".txt")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("log file should not exist when disabled")
	}
}
