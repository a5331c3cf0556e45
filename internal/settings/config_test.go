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

package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	originalConfigPath := ConfigPath
	defer func() { ConfigPath = originalConfigPath }()
	ConfigPath = tmpDir

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.SessionTTLAnon != 2*24*time.Hour {
		t.Errorf("SessionTTLAnon = %v, want 48h", cfg.SessionTTLAnon)
	}
	if cfg.SessionTTLRegistered != 365*24*time.Hour {
		t.Errorf("SessionTTLRegistered = %v, want 365 days", cfg.SessionTTLRegistered)
	}
	if len(cfg.AIHandSeeds) == 0 {
		t.Errorf("expected default AI hand seeds to be populated")
	}
}

func TestLoadFromTomlFile(t *testing.T) {
	tmpDir := t.TempDir()
	originalConfigPath := ConfigPath
	defer func() { ConfigPath = originalConfigPath }()
	ConfigPath = tmpDir

	content := `
port = 9090
moderator_username = "root"
webhook_url = "https://discord.example/webhook"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "shuuro.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.ModeratorUsername != "root" {
		t.Errorf("ModeratorUsername = %q, want root", cfg.ModeratorUsername)
	}
	if cfg.WebhookURL != "https://discord.example/webhook" {
		t.Errorf("WebhookURL = %q, want https://discord.example/webhook", cfg.WebhookURL)
	}
}
