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

package tv

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/watch"
)

func recvOrTimeout(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}

func decode(t *testing.T, msg []byte) game.ClientMessage {
	t.Helper()
	var env game.ClientMessage
	require.NoError(t, json.Unmarshal(msg, &env))
	return env
}

func TestGetTvPushesCurrentGamesToOneViewer(t *testing.T) {
	h := Spawn()

	sink := make(chan []byte, 4)
	h.Join("watcher", watch.Sink(sink))

	h.Add(game.TvGame{ID: "g1", Players: [2]string{"alice", "bob"}, SFEN: "start"})
	env := decode(t, recvOrTimeout(t, sink))
	require.Equal(t, game.TagAddTvGame, env.T)

	h.GetTv("watcher")
	env = decode(t, recvOrTimeout(t, sink))
	require.Equal(t, game.TagGetTv, env.T)
	var g game.TvGame
	require.NoError(t, json.Unmarshal(env.D, &g))
	require.Equal(t, "g1", g.ID)
}

func TestAddDropsOnceAtCapacity(t *testing.T) {
	h := Spawn()

	sink := make(chan []byte, capacity+2)
	h.Join("watcher", watch.Sink(sink))

	for i := 0; i < capacity; i++ {
		h.Add(game.TvGame{ID: string(rune('a' + i))})
		recvOrTimeout(t, sink)
	}

	h.Add(game.TvGame{ID: "overflow"})
	select {
	case <-sink:
		t.Fatal("expected the overflow Add to be dropped silently")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestMoveWithFirstMoveErrorRemovesGame(t *testing.T) {
	h := Spawn()

	sink := make(chan []byte, 4)
	h.Join("watcher", watch.Sink(sink))

	h.Add(game.TvGame{ID: "g1"})
	recvOrTimeout(t, sink) // the Add broadcast

	h.Move("g1", "after-abort", true)
	env := decode(t, recvOrTimeout(t, sink)) // the Move broadcast
	require.Equal(t, game.TagNewTvMove, env.T)

	env = decode(t, recvOrTimeout(t, sink)) // the self-triggered Remove
	require.Equal(t, game.TagRemoveTvGame, env.T)

	h.GetTv("watcher")
	select {
	case <-sink:
		t.Fatal("removed game should not be re-sent by GetTv")
	case <-time.After(200 * time.Millisecond):
	}
}
