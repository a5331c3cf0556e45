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

// Package lobby is the request router actor of spec.md §4.5: it accepts
// challenges, enforces the playing/ai_games/game_count ceilings, spawns
// match actors, and broadcasts the live game count to "home" watchers.
package lobby

import (
	"github.com/google/uuid"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/matchactor"
	"github.com/MangosArentLiterature/shuuroserver/internal/registry"
	"github.com/MangosArentLiterature/shuuroserver/internal/watch"
)

const maxPlaying = 60
const maxAIGames = 10
const mailboxSize = 256

const aiName = "AI"

// Spawner is the slice of matchactor this package drives; narrowed so
// tests can substitute a fake without spinning up real actors.
type Spawner func(cfg matchactor.Config) matchactor.Handle

// Redirector is the slice of the players registry the lobby needs, to
// push the newly spawned game's id at each participant's client.
type Redirector interface {
	Redirect(gameID, player string) bool
}

type msgJoin struct {
	player string
	sink   watch.Sink
}
type msgLeave struct{ player string }
type msgAddGameRequest struct {
	caller  string
	request game.GameRequest
}
type msgAddActivePlayer struct{ player string }
type msgRemovePlayers struct{ players [2]string }
type msgNewGame struct{}

// Config parameterizes Spawn.
type Config struct {
	Spawn    Spawner
	Registry *registry.Registry
	Players  Redirector
	Store    matchactor.GameStore
	TV       matchactor.TVNotifier
	Notify   func(id string, players [2]string, status game.StatusCode, result int, minutes int)

	// GameCount is the starting game_count. bootstrap.Start leaves it at
	// zero, so matches revived at bootstrap are not counted.
	GameCount int
}

// Actor is the lobby state machine.
type Actor struct {
	playing  map[string]bool
	aiGames  int
	gameCount int
	watchers *watch.Watchers

	spawn    Spawner
	registry *registry.Registry
	players  Redirector
	store    matchactor.GameStore
	tv       matchactor.TVNotifier
	notify   func(id string, players [2]string, status game.StatusCode, result int, minutes int)

	mailbox chan any
}

// Handle is the weak, send-only reference other actors hold to the lobby.
type Handle struct{ mailbox chan<- any }

func trySend(ch chan<- any, msg any) bool {
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

func (h Handle) Join(player string, sink watch.Sink) bool {
	return trySend(h.mailbox, msgJoin{player, sink})
}
func (h Handle) Leave(player string) bool { return trySend(h.mailbox, msgLeave{player}) }
func (h Handle) AddGameRequest(caller string, req game.GameRequest) bool {
	return trySend(h.mailbox, msgAddGameRequest{caller, req})
}

// ActivatePlayer registers the second human seat once it accepts.
// Satisfies matchactor.LobbyNotifier.
func (h Handle) ActivatePlayer(player string) {
	trySend(h.mailbox, msgAddActivePlayer{player})
}

// ReleasePlayers frees both seats when a match ends. Satisfies
// matchactor.LobbyNotifier.
func (h Handle) ReleasePlayers(players [2]string) {
	trySend(h.mailbox, msgRemovePlayers{players})
}

func (h Handle) NewGame() bool { return trySend(h.mailbox, msgNewGame{}) }

// Spawn starts the lobby actor.
func Spawn(cfg Config) Handle {
	a := &Actor{
		playing:   make(map[string]bool),
		gameCount: cfg.GameCount,
		watchers:  watch.New(),
		spawn:     cfg.Spawn,
		registry:  cfg.Registry,
		players:   cfg.Players,
		store:     cfg.Store,
		tv:        cfg.TV,
		notify:    cfg.Notify,
		mailbox:   make(chan any, mailboxSize),
	}
	go a.run()
	return Handle{mailbox: a.mailbox}
}

func (a *Actor) run() {
	for msg := range a.mailbox {
		switch m := msg.(type) {
		case msgJoin:
			a.onJoin(m.player, m.sink)
		case msgLeave:
			a.watchers.Remove(m.player)
		case msgAddGameRequest:
			a.onAddGameRequest(m.caller, m.request)
		case msgAddActivePlayer:
			a.onAddActivePlayer(m.player)
		case msgRemovePlayers:
			a.onRemovePlayers(m.players)
		case msgNewGame:
			a.gameCount++
			a.broadcastCount()
		}
	}
}

func (a *Actor) onJoin(player string, sink watch.Sink) {
	a.watchers.Add(player, sink)
	a.notifyOne(player)
}

func opponentName(req game.GameRequest) string {
	if req.Opponent.IsAI {
		return aiName
	}
	return req.Opponent.Friend
}

func (a *Actor) onAddGameRequest(caller string, req game.GameRequest) {
	if a.playing[caller] || len(a.playing) >= maxPlaying {
		return
	}
	opponent := opponentName(req)
	if opponent == "" || opponent == caller || a.playing[opponent] {
		return
	}
	isAI := req.Opponent.IsAI
	if isAI && a.aiGames >= maxAIGames {
		return
	}

	a.playing[caller] = true
	if isAI {
		a.aiGames++
	}

	id := uuid.NewString()
	players := [2]string{caller, opponent}
	expectedFriend := ""
	if !isAI {
		expectedFriend = opponent
	} else {
		players[1] = aiName
	}

	cfg := matchactor.Config{
		ID:             id,
		Players:        players,
		IsAI:           [2]bool{false, isAI},
		ExpectedFriend: expectedFriend,
		Depth:          req.Opponent.Depth,
		Minutes:        req.Minutes,
		Increment:      req.Increment,
		Variant:        req.Variant,
		SubVariant:     req.SubVariant,
		Lobby:          Handle{mailbox: a.mailbox},
		Registry:       a.registry,
		TV:             a.tv,
		Store:          a.store,
		Notify:         a.notify,
	}
	handle := a.spawn(cfg)
	a.registry.Put(handle)

	a.gameCount++
	a.broadcastCount()
	if a.players != nil {
		a.players.Redirect(id, caller)
		if !isAI {
			a.players.Redirect(id, opponent)
		}
	}
}

func (a *Actor) onAddActivePlayer(player string) {
	if player == aiName || player == "" {
		return
	}
	a.playing[player] = true
}

func (a *Actor) onRemovePlayers(players [2]string) {
	for _, p := range players {
		if p == "" || p == aiName {
			continue
		}
		delete(a.playing, p)
	}
	if players[0] == aiName || players[1] == aiName {
		if a.aiGames > 0 {
			a.aiGames--
		}
	}
	if a.gameCount > 0 {
		a.gameCount--
	}
	a.broadcastCount()
}

func (a *Actor) broadcastCount() {
	msg, err := game.Encode(game.TagGameCount, game.GameCountPayload{Count: a.gameCount})
	if err != nil {
		return
	}
	a.watchers.Notify(msg, watch.Everyone())
}

func (a *Actor) notifyOne(player string) {
	msg, err := game.Encode(game.TagGameCount, game.GameCountPayload{Count: a.gameCount})
	if err != nil {
		return
	}
	a.watchers.Notify(msg, watch.Only(player))
}
