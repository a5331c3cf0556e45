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

// Package bootstrap wires the sibling actors together and recovers
// unfinished matches on startup, per spec.md §4.9.
package bootstrap

import (
	"context"

	"github.com/MangosArentLiterature/shuuroserver/internal/conn"
	"github.com/MangosArentLiterature/shuuroserver/internal/lobby"
	"github.com/MangosArentLiterature/shuuroserver/internal/logger"
	"github.com/MangosArentLiterature/shuuroserver/internal/matchactor"
	"github.com/MangosArentLiterature/shuuroserver/internal/players"
	"github.com/MangosArentLiterature/shuuroserver/internal/registry"
	"github.com/MangosArentLiterature/shuuroserver/internal/rules"
	"github.com/MangosArentLiterature/shuuroserver/internal/store"
	"github.com/MangosArentLiterature/shuuroserver/internal/tv"
	"github.com/MangosArentLiterature/shuuroserver/internal/webhook"
)

// System bundles every actor bootstrap spins up, ready to hand to the
// connection layer as conn.Deps.
type System struct {
	Lobby   lobby.Handle
	TV      tv.Handle
	Players players.Handle
	Games   *registry.Registry
}

// Deps returns the conn.Deps view of this system for moderatorID.
func (s System) Deps(moderatorID string) conn.Deps {
	return conn.Deps{
		Lobby:       s.Lobby,
		TV:          s.TV,
		Players:     s.Players,
		Games:       s.Games,
		ModeratorID: moderatorID,
	}
}

// Start initializes the rules tables, spawns the empty sibling actors,
// and revives every eligible unfinished match from gameStore.
func Start(ctx context.Context, gameStore store.Games) (System, error) {
	rules.InitTables()

	reg := registry.New()
	tvHandle := tv.Spawn()
	playersHandle := players.Spawn()

	var lobbyHandle lobby.Handle
	lobbyHandle = lobby.Spawn(lobby.Config{
		Spawn: func(cfg matchactor.Config) matchactor.Handle {
			cfg.Lobby = lobbyHandle
			cfg.Registry = reg
			cfg.TV = tvHandle
			cfg.Store = gameStore
			cfg.Notify = webhook.PostGameEnd
			return matchactor.Spawn(cfg)
		},
		Registry: reg,
		Players:  playersHandle,
		Store:    gameStore,
		TV:       tvHandle,
		Notify:   webhook.PostGameEnd,
	})

	sys := System{Lobby: lobbyHandle, TV: tvHandle, Players: playersHandle, Games: reg}

	if err := reviveUnfinished(ctx, gameStore, sys); err != nil {
		return sys, err
	}
	return sys, nil
}

// reviveUnfinished loads every status<0 match, drops the ones missing a
// seat, and spawns the rest as revived match actors.
func reviveUnfinished(ctx context.Context, gameStore store.Games, sys System) error {
	matches, err := gameStore.Unfinished(ctx)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if m.Players[0] == "" || m.Players[1] == "" {
			if derr := gameStore.DeleteOne(ctx, m.ID); derr != nil {
				logger.LogErrorf("bootstrap: delete incomplete match %s: %v", m.ID, derr)
			}
			continue
		}
		isAI := [2]bool{false, m.Players[1] == "AI"}
		handle := matchactor.Spawn(matchactor.Config{
			ID:         m.ID,
			Players:    m.Players,
			IsAI:       isAI,
			Minutes:    m.Minutes,
			Increment:  m.Increment,
			Variant:    m.Variant,
			SubVariant: m.SubVariant,
			Lobby:      sys.Lobby,
			Registry:   sys.Games,
			TV:         sys.TV,
			Store:      gameStore,
			Notify:     webhook.PostGameEnd,
			Seed:       m,
		})
		sys.Games.Put(handle)
		if isAI[1] {
			continue
		}
		sys.Lobby.ActivatePlayer(m.Players[0])
		sys.Lobby.ActivatePlayer(m.Players[1])
	}
	return nil
}
