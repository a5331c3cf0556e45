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

// Package tv is the TV aggregator actor of spec.md §4.6: a capped list of
// fight-stage games (the first ones added, up to the cap), broadcast to
// everyone parked in the "tv" room.
package tv

import (
	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/watch"
)

const capacity = 10
const mailboxSize = 64

type msgAdd struct{ game game.TvGame }
type msgMove struct {
	id             string
	sfen           string
	firstMoveError bool
}
type msgRemove struct{ id string }
type msgJoin struct {
	player string
	sink   watch.Sink
}
type msgLeave struct{ player string }
type msgGet struct{ player string }

// Actor owns the capped slice of tracked games and their watchers.
type Actor struct {
	games    []game.TvGame
	watchers *watch.Watchers
	mailbox  chan any
}

// Handle is the weak, send-only reference other actors hold to the TV
// aggregator.
type Handle struct{ mailbox chan<- any }

func trySend(ch chan<- any, msg any) bool {
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

func (h Handle) Add(tv game.TvGame)                        { trySend(h.mailbox, msgAdd{tv}) }
func (h Handle) Move(id, sfen string, firstMoveError bool) { trySend(h.mailbox, msgMove{id, sfen, firstMoveError}) }
func (h Handle) Remove(id string)                          { trySend(h.mailbox, msgRemove{id}) }
func (h Handle) Join(player string, sink watch.Sink)       { trySend(h.mailbox, msgJoin{player, sink}) }
func (h Handle) Leave(player string)                       { trySend(h.mailbox, msgLeave{player}) }

// GetTv asks the aggregator to push the current set to player alone,
// used to seed a newly joined viewer's client.
func (h Handle) GetTv(player string) { trySend(h.mailbox, msgGet{player}) }

// Spawn starts the TV actor and returns a Handle to it.
func Spawn() Handle {
	a := &Actor{watchers: watch.New(), mailbox: make(chan any, mailboxSize)}
	go a.run()
	return Handle{mailbox: a.mailbox}
}

func (a *Actor) run() {
	for msg := range a.mailbox {
		switch m := msg.(type) {
		case msgAdd:
			a.onAdd(m.game)
		case msgMove:
			a.onMove(m.id, m.sfen, m.firstMoveError)
		case msgRemove:
			a.onRemove(m.id)
		case msgJoin:
			a.watchers.Add(m.player, m.sink)
		case msgLeave:
			a.watchers.Remove(m.player)
		case msgGet:
			a.onGet(m.player)
		}
	}
}

func (a *Actor) indexOf(id string) int {
	for i, g := range a.games {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (a *Actor) onAdd(g game.TvGame) {
	if a.indexOf(g.ID) >= 0 || len(a.games) >= capacity {
		return
	}
	a.games = append(a.games, g)
	a.broadcast(game.TagAddTvGame, g)
}

func (a *Actor) onMove(id, sfen string, firstMoveError bool) {
	i := a.indexOf(id)
	if i < 0 {
		return
	}
	a.games[i].SFEN = sfen
	a.broadcast(game.TagNewTvMove, game.NewTvMovePayload{ID: id, SFEN: sfen, FirstMoveError: firstMoveError})
	if firstMoveError {
		a.onRemove(id)
	}
}

// onGet pushes the full current set to a single newly joined viewer.
func (a *Actor) onGet(player string) {
	for _, g := range a.games {
		a.notifyOne(player, game.TagGetTv, g)
	}
}

func (a *Actor) onRemove(id string) {
	i := a.indexOf(id)
	if i < 0 {
		return
	}
	a.games = append(a.games[:i], a.games[i+1:]...)
	a.broadcast(game.TagRemoveTvGame, game.RemoveTvGamePayload{ID: id})
}

func (a *Actor) broadcast(tag game.MessageTag, payload any) {
	msg, err := game.Encode(tag, payload)
	if err != nil {
		return
	}
	a.watchers.Notify(msg, watch.Everyone())
}

func (a *Actor) notifyOne(player string, tag game.MessageTag, payload any) {
	msg, err := game.Encode(tag, payload)
	if err != nil {
		return
	}
	a.watchers.Notify(msg, watch.Only(player))
}
