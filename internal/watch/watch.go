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

// Package watch implements the fan-out primitive shared by every room
// actor (match, lobby, TV, players registry): a keyed set of subscriber
// sinks with best-effort, never-blocking notify.
package watch

// Sink is one open connection's outbound channel. Sends are bounded and
// non-blocking; a full sink drops the message rather than stalling the
// broadcaster (spec.md §4.1).
type Sink chan<- []byte

// SendTo selects who a notify call reaches.
type SendTo struct {
	Everyone  bool
	Players   []string
	ToOthers  bool // when Players is set: also reach everyone not listed
}

// Everyone addresses every subscriber.
func Everyone() SendTo { return SendTo{Everyone: true} }

// Only addresses exactly the listed players.
func Only(players ...string) SendTo { return SendTo{Players: players} }

// OnlyOthers sets ToOthers on the listed players: Notify then reaches the
// listed players and also everyone not listed.
func OnlyOthers(players ...string) SendTo { return SendTo{Players: players, ToOthers: true} }

// Watchers maps player id to the set of open sinks for that player (a
// player may have more than one connection open at once).
type Watchers struct {
	subs map[string][]Sink
}

// New returns an empty Watchers set.
func New() *Watchers { return &Watchers{subs: make(map[string][]Sink)} }

// Add appends sink for player if not already present (identity by channel
// equality). Returns true if this was player's first open subscription.
func (w *Watchers) Add(player string, sink Sink) bool {
	existing := w.subs[player]
	for _, s := range existing {
		if sameChan(s, sink) {
			return false
		}
	}
	first := len(existing) == 0
	w.subs[player] = append(existing, sink)
	return first
}

// Remove drops every sink registered for player.
func (w *Watchers) Remove(player string) {
	delete(w.subs, player)
}

// Count returns the number of distinct players with at least one sink.
func (w *Watchers) Count() int { return len(w.subs) }

// Has reports whether player currently has any open sink.
func (w *Watchers) Has(player string) bool { return len(w.subs[player]) > 0 }

// Notify best-effort delivers msg according to to. Never blocks: a full
// sink silently drops the message for that connection.
func (w *Watchers) Notify(msg []byte, to SendTo) {
	if to.Everyone {
		for _, sinks := range w.subs {
			sendAll(sinks, msg)
		}
		return
	}
	listed := make(map[string]bool, len(to.Players))
	for _, p := range to.Players {
		listed[p] = true
		sendAll(w.subs[p], msg)
	}
	if to.ToOthers {
		for player, sinks := range w.subs {
			if listed[player] {
				continue
			}
			sendAll(sinks, msg)
		}
	}
}

func sendAll(sinks []Sink, msg []byte) {
	for _, s := range sinks {
		select {
		case s <- msg:
		default:
			// backpressure: drop for this sink, the connection will be
			// reaped when its read loop notices the socket is dead.
		}
	}
}

func sameChan(a, b Sink) bool { return a == b }
