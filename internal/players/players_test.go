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

package players

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/watch"
)

func recvOrTimeout(t *testing.T, ch <-chan []byte) game.ClientMessage {
	t.Helper()
	select {
	case msg := <-ch:
		var env game.ClientMessage
		require.NoError(t, json.Unmarshal(msg, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message")
		return game.ClientMessage{}
	}
}

func TestJoinBroadcastsGrowingCount(t *testing.T) {
	h := Spawn()

	aliceSink := make(chan []byte, 4)
	h.Join("alice", watch.Sink(aliceSink))
	env := recvOrTimeout(t, aliceSink)
	require.Equal(t, game.TagPlayerCount, env.T)
	var p game.PlayerCountPayload
	require.NoError(t, json.Unmarshal(env.D, &p))
	require.Equal(t, 1, p.Count)

	bobSink := make(chan []byte, 4)
	h.Join("bob", watch.Sink(bobSink))
	env = recvOrTimeout(t, aliceSink)
	require.NoError(t, json.Unmarshal(env.D, &p))
	require.Equal(t, 2, p.Count)
}

func TestLeaveWithoutDisconnectKeepsCount(t *testing.T) {
	h := Spawn()

	aliceSink := make(chan []byte, 4)
	h.Join("alice", watch.Sink(aliceSink))
	recvOrTimeout(t, aliceSink)

	bobSink := make(chan []byte, 4)
	h.Join("bob", watch.Sink(bobSink))
	recvOrTimeout(t, aliceSink)

	h.Leave("bob", false)
	select {
	case <-aliceSink:
		t.Fatal("a non-disconnect leave must not rebroadcast the count")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestLeaveWithDisconnectDropsCount(t *testing.T) {
	h := Spawn()

	aliceSink := make(chan []byte, 4)
	h.Join("alice", watch.Sink(aliceSink))
	recvOrTimeout(t, aliceSink)

	bobSink := make(chan []byte, 4)
	h.Join("bob", watch.Sink(bobSink))
	recvOrTimeout(t, aliceSink)

	h.Leave("bob", true)
	env := recvOrTimeout(t, aliceSink)
	var p game.PlayerCountPayload
	require.NoError(t, json.Unmarshal(env.D, &p))
	require.Equal(t, 1, p.Count)
}

func TestRedirectReachesOnlyTargetPlayer(t *testing.T) {
	h := Spawn()

	aliceSink := make(chan []byte, 4)
	h.Join("alice", watch.Sink(aliceSink))
	recvOrTimeout(t, aliceSink)

	bobSink := make(chan []byte, 4)
	h.Join("bob", watch.Sink(bobSink))
	recvOrTimeout(t, aliceSink)
	recvOrTimeout(t, bobSink)

	h.Redirect("game-1", "alice")
	env := recvOrTimeout(t, aliceSink)
	require.Equal(t, game.TagRedirectToGame, env.T)
	var p game.RedirectToGamePayload
	require.NoError(t, json.Unmarshal(env.D, &p))
	require.Equal(t, "game-1", p.Game)

	select {
	case <-bobSink:
		t.Fatal("redirect must not reach a different player")
	case <-time.After(200 * time.Millisecond):
	}
}
