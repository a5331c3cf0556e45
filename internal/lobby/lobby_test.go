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

package lobby

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/matchactor"
	"github.com/MangosArentLiterature/shuuroserver/internal/registry"
	"github.com/MangosArentLiterature/shuuroserver/internal/watch"
)

// fakeRedirector records every Redirect call instead of unicasting to a
// real players actor.
type fakeRedirector struct {
	mu    sync.Mutex
	calls []string // "game:player"
}

func (f *fakeRedirector) Redirect(gameID, player string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, gameID+":"+player)
	return true
}

func (f *fakeRedirector) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeTV is a no-op matchactor.TVNotifier, standing in for the real TV
// aggregator actor so spawned matches have somewhere safe to report to.
type fakeTV struct{}

func (fakeTV) Add(game.TvGame)             {}
func (fakeTV) Move(id, sfen string, _ bool) {}
func (fakeTV) Remove(id string)            {}

func newTestLobby(t *testing.T) (Handle, *fakeRedirector, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	red := &fakeRedirector{}
	spawn := func(cfg matchactor.Config) matchactor.Handle {
		return matchactor.Spawn(cfg)
	}
	h := Spawn(Config{Spawn: spawn, Registry: reg, Players: red, TV: fakeTV{}})
	return h, red, reg
}

func aiRequest() game.GameRequest {
	return game.GameRequest{Minutes: 5, Opponent: game.Opponent{IsAI: true}}
}

func recvCount(t *testing.T, ch <-chan []byte) int {
	t.Helper()
	select {
	case msg := <-ch:
		var env game.ClientMessage
		require.NoError(t, json.Unmarshal(msg, &env))
		require.Equal(t, game.TagGameCount, env.T)
		var p game.GameCountPayload
		require.NoError(t, json.Unmarshal(env.D, &p))
		return p.Count
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a game count broadcast")
		return -1
	}
}

func TestAddGameRequestSpawnsAndRedirectsAI(t *testing.T) {
	h, red, reg := newTestLobby(t)

	sink := make(chan []byte, 4)
	h.Join("alice", watch.Sink(sink))
	recvCount(t, sink) // initial count on join

	h.AddGameRequest("alice", aiRequest())
	count := recvCount(t, sink)
	require.Equal(t, 1, count)

	require.Eventually(t, func() bool { return reg.Count() == 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return red.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestAddGameRequestDroppedWhenAlreadyPlaying(t *testing.T) {
	h, red, _ := newTestLobby(t)

	h.AddGameRequest("alice", aiRequest())
	require.Eventually(t, func() bool { return red.count() == 1 }, time.Second, 10*time.Millisecond)

	h.AddGameRequest("alice", aiRequest())
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, red.count())
}

func TestAddGameRequestDroppedWhenOpponentIsSelf(t *testing.T) {
	h, red, _ := newTestLobby(t)

	h.AddGameRequest("alice", game.GameRequest{
		Minutes:  5,
		Opponent: game.Opponent{Friend: "alice"},
	})
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 0, red.count())
}

func TestRemovePlayersFreesTheirSeats(t *testing.T) {
	h, red, _ := newTestLobby(t)

	h.AddGameRequest("alice", aiRequest())
	require.Eventually(t, func() bool { return red.count() == 1 }, time.Second, 10*time.Millisecond)

	h.ReleasePlayers([2]string{"alice", "AI"})
	h.AddGameRequest("alice", aiRequest())
	require.Eventually(t, func() bool { return red.count() == 2 }, time.Second, 10*time.Millisecond)
}
