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

// Package players is the process-wide players registry of spec.md §4.7:
// tracks the logged-in name set for the player-count broadcast and
// delivers one-shot redirect hints to a specific player right after a
// match is spawned for them.
package players

import (
	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/watch"
)

const mailboxSize = 256

type msgJoin struct {
	player string
	sink   watch.Sink
}
type msgLeave struct {
	player       string
	disconnected bool
}
type msgRedirect struct {
	game   string
	player string
}

// Actor owns the registered name set and its watchers.
type Actor struct {
	names    map[string]bool
	watchers *watch.Watchers
	mailbox  chan any
}

// Handle is the weak, send-only reference other actors hold to the
// players registry.
type Handle struct{ mailbox chan<- any }

func trySend(ch chan<- any, msg any) bool {
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

// Join records player (first connection opens the name; later ones just
// add a sink) and rebroadcasts the count.
func (h Handle) Join(player string, sink watch.Sink) bool {
	return trySend(h.mailbox, msgJoin{player, sink})
}

// Leave drops the sink. When disconnected is true the player is also
// removed from the name set and the count is rebroadcast.
func (h Handle) Leave(player string, disconnected bool) bool {
	return trySend(h.mailbox, msgLeave{player, disconnected})
}

// Redirect unicasts RedirectToGame{game} at player, used right after a
// match is spawned for them so their client jumps straight to it.
func (h Handle) Redirect(gameID, player string) bool {
	return trySend(h.mailbox, msgRedirect{gameID, player})
}

// Spawn starts the players registry actor.
func Spawn() Handle {
	a := &Actor{names: make(map[string]bool), watchers: watch.New(), mailbox: make(chan any, mailboxSize)}
	go a.run()
	return Handle{mailbox: a.mailbox}
}

func (a *Actor) run() {
	for msg := range a.mailbox {
		switch m := msg.(type) {
		case msgJoin:
			a.onJoin(m.player, m.sink)
		case msgLeave:
			a.onLeave(m.player, m.disconnected)
		case msgRedirect:
			a.onRedirect(m.game, m.player)
		}
	}
}

func (a *Actor) onJoin(player string, sink watch.Sink) {
	wasNew := a.watchers.Add(player, sink)
	if wasNew {
		a.names[player] = true
	}
	a.broadcastCount()
}

func (a *Actor) onLeave(player string, disconnected bool) {
	a.watchers.Remove(player)
	if disconnected {
		delete(a.names, player)
		a.broadcastCount()
	}
}

func (a *Actor) onRedirect(gameID, player string) {
	msg, err := game.Encode(game.TagRedirectToGame, game.RedirectToGamePayload{Game: gameID})
	if err != nil {
		return
	}
	a.watchers.Notify(msg, watch.Only(player))
}

func (a *Actor) broadcastCount() {
	msg, err := game.Encode(game.TagPlayerCount, game.PlayerCountPayload{Count: len(a.names)})
	if err != nil {
		return
	}
	a.watchers.Notify(msg, watch.Everyone())
}
