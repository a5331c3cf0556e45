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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/ecnepsnai/discord"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"nhooyr.io/websocket"

	"github.com/MangosArentLiterature/shuuroserver/internal/bootstrap"
	"github.com/MangosArentLiterature/shuuroserver/internal/conn"
	"github.com/MangosArentLiterature/shuuroserver/internal/discord/bot"
	"github.com/MangosArentLiterature/shuuroserver/internal/ids"
	"github.com/MangosArentLiterature/shuuroserver/internal/logger"
	"github.com/MangosArentLiterature/shuuroserver/internal/settings"
	"github.com/MangosArentLiterature/shuuroserver/internal/store"
	"github.com/MangosArentLiterature/shuuroserver/internal/webhook"
)

// FatalError mirrors the teacher's top-level error channel: any listener
// goroutine that dies for a reason other than a clean shutdown posts here.
var FatalError = make(chan error, 1)

func main() {
	if err := newCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "shuuroserver",
		Short:         "Realtime core for the Shuuro board game server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.String("addr", "0.0.0.0", "address to bind to (env: SHUURO_ADDR)")
	fs.Int("port", 8080, "port to listen on (env: SHUURO_PORT)")
	fs.String("config-path", ".", "directory to search for shuuro.toml")
	fs.Bool("debug", false, "enable debug logging")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})

	return cmd
}

func run(ctx context.Context, v *viper.Viper) error {
	if v.GetBool("debug") {
		logger.MinLevel = logger.LevelDebug
	}
	settings.ConfigPath = v.GetString("config-path")

	cfg, err := settings.Load(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Addr != "" {
		v.Set("addr", cfg.Addr)
	}

	mongo, err := store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("connecting to mongo: %w", err)
	}
	defer mongo.Close(context.Background())

	redis, err := store.NewRedis(ctx, cfg.RedisURI)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer redis.Close()

	if cfg.WebhookURL != "" {
		discord.WebhookURL = cfg.WebhookURL
	}
	webhook.ServerName = "Shuuro"
	webhook.Initialize()
	defer webhook.Shutdown()

	sys, err := bootstrap.Start(ctx, mongo.Games)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	deps := sys.Deps(cfg.ModeratorUsername)
	mux := setupHTTPMux(deps, cfg, sys)

	if cfg.DiscordBotToken != "" {
		b, err := bot.New(bot.Config{
			Token:     cfg.DiscordBotToken,
			GuildID:   cfg.DiscordGuildID,
			ModRoleID: cfg.DiscordModRoleID,
		}, opsServer{sys})
		if err != nil {
			return fmt.Errorf("discord bot: %w", err)
		}
		if err := b.Start(); err != nil {
			return fmt.Errorf("discord bot: %w", err)
		}
		defer b.Stop()
	}

	addr := v.GetString("addr") + ":" + strconv.Itoa(v.GetInt("port"))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.LogInfof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			FatalError <- err
		}
	}()

	return <-FatalError
}

// setupHTTPMux wires the websocket handler and the operator endpoints,
// the way the teacher's setupHTTPMux registers specific paths ahead of
// its websocket catch-all.
func setupHTTPMux(deps conn.Deps, cfg *settings.Config, sys bootstrap.System) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/shutdown", func(w http.ResponseWriter, r *http.Request) {
		username := resolveUsername(r)
		if cfg.ModeratorUsername == "" || username != cfg.ModeratorUsername {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		for _, h := range sys.Games.All() {
			go h.SaveState()
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		username := resolveUsername(r)
		conn.HandleWS(w, r, username, deps, &websocket.AcceptOptions{})
	})

	return mux
}

// resolveUsername stands in for the session-cookie resolution spec.md §1
// explicitly treats as an external collaborator: here it is a thin query
// param reader, good enough to exercise the connection actor end to end.
func resolveUsername(r *http.Request) string {
	if u := r.URL.Query().Get("user"); u != "" {
		return u
	}
	return ids.NewAnonUsername()
}

// opsServer adapts bootstrap.System to bot.ServerInterface for the
// read-only Discord ops bot.
type opsServer struct{ sys bootstrap.System }

func (o opsServer) GameCount() int { return o.sys.Games.Count() }

func (o opsServer) Shutdown() {
	for _, h := range o.sys.Games.All() {
		go h.SaveState()
	}
}
