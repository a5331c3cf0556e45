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

// Package settings loads the server's configuration: flags and
// environment merged over an optional shuuro.toml file, via viper —
// generalized from the teacher's BurntSushi/toml-only config to a
// layered flags>env>file>defaults config, the way Seednode-partybox's
// cobra/viper command wires its own config.
package settings

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// ConfigPath is the directory Load searches for shuuro.toml. Exposed as a
// var (not a constant) so tests can point it at a temp directory, the
// same pattern the teacher uses for its own ConfigPath.
var ConfigPath = "."

// Config is the fully resolved server configuration.
type Config struct {
	Addr string
	Port int

	TLSCertPath string
	TLSKeyPath  string

	ReverseProxyMode bool

	MongoURI string
	MongoDB  string
	RedisURI string

	SessionCookieName    string
	SessionTTLAnon       time.Duration
	SessionTTLRegistered time.Duration

	ModeratorUsername string

	WebhookURL string

	DiscordBotToken  string
	DiscordGuildID   string
	DiscordModRoleID string

	// AIHandSeeds maps a variant tag to a set of candidate hand strings.
	// It is loaded here but not read by the match actor: the AI's stage-0
	// selection is built by its own heuristic, not drawn from these seeds.
	AIHandSeeds map[string][]string
}

// Load builds a Config from viper, merging defaults, an optional
// shuuro.toml under ConfigPath, environment variables (SHUURO_ prefix)
// and already-bound pflags.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("addr", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("reverse_proxy_mode", false)
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "shuuro")
	v.SetDefault("redis_uri", "redis://localhost:6379/0")
	v.SetDefault("session_cookie_name", "axum_session")
	v.SetDefault("session_ttl_anon", "2d")
	v.SetDefault("session_ttl_registered", "365d")
	v.SetDefault("moderator_username", "")
	v.SetDefault("webhook_url", "")
	v.SetDefault("discord_bot_token", "")
	v.SetDefault("discord_guild_id", "")
	v.SetDefault("discord_mod_role_id", "")

	v.SetConfigName("shuuro")
	v.SetConfigType("toml")
	v.AddConfigPath(ConfigPath)
	v.SetEnvPrefix("SHUURO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("settings: reading config: %w", err)
		}
	}

	anonTTL, err := str2duration.ParseDuration(v.GetString("session_ttl_anon"))
	if err != nil {
		return nil, fmt.Errorf("settings: session_ttl_anon: %w", err)
	}
	regTTL, err := str2duration.ParseDuration(v.GetString("session_ttl_registered"))
	if err != nil {
		return nil, fmt.Errorf("settings: session_ttl_registered: %w", err)
	}

	cfg := &Config{
		Addr:                 v.GetString("addr"),
		Port:                 v.GetInt("port"),
		TLSCertPath:          v.GetString("tls_cert_path"),
		TLSKeyPath:           v.GetString("tls_key_path"),
		ReverseProxyMode:     v.GetBool("reverse_proxy_mode"),
		MongoURI:             v.GetString("mongo_uri"),
		MongoDB:              v.GetString("mongo_db"),
		RedisURI:             v.GetString("redis_uri"),
		SessionCookieName:    v.GetString("session_cookie_name"),
		SessionTTLAnon:       anonTTL,
		SessionTTLRegistered: regTTL,
		ModeratorUsername:    v.GetString("moderator_username"),
		WebhookURL:           v.GetString("webhook_url"),
		DiscordBotToken:      v.GetString("discord_bot_token"),
		DiscordGuildID:       v.GetString("discord_guild_id"),
		DiscordModRoleID:     v.GetString("discord_mod_role_id"),
		AIHandSeeds:          defaultAIHandSeeds(),
	}
	if seeds := v.GetStringMapStringSlice("ai_hand_seeds"); len(seeds) > 0 {
		cfg.AIHandSeeds = seeds
	}
	return cfg, nil
}

// defaultAIHandSeeds provides one simple, affordable seed hand for each
// of the three base variants, so AIHandSeeds is populated even with no
// shuuro.toml present.
func defaultAIHandSeeds() map[string][]string {
	return map[string][]string{
		"shuuro":        {"PPPPPPPPNNBBRRQ"},
		"shuuro_mini":   {"PPPPNBRQ"},
		"standard":      {"PPPPPPPPNNBBRRQ"},
	}
}
