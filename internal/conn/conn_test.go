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

package conn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/lobby"
	"github.com/MangosArentLiterature/shuuroserver/internal/matchactor"
	"github.com/MangosArentLiterature/shuuroserver/internal/players"
	"github.com/MangosArentLiterature/shuuroserver/internal/registry"
	"github.com/MangosArentLiterature/shuuroserver/internal/tv"
)

func newTestServer(t *testing.T, modID string) (string, Deps) {
	t.Helper()
	reg := registry.New()
	tvHandle := tv.Spawn()
	playersHandle := players.Spawn()
	spawn := func(cfg matchactor.Config) matchactor.Handle { return matchactor.Spawn(cfg) }
	lobbyHandle := lobby.Spawn(lobby.Config{Spawn: spawn, Registry: reg, Players: playersHandle, TV: tvHandle})
	deps := Deps{Lobby: lobbyHandle, TV: tvHandle, Players: playersHandle, Games: reg, ModeratorID: modID}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("user")
		HandleWS(w, r, username, deps, &websocket.AcceptOptions{InsecureSkipVerify: true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws", deps
}

func dial(t *testing.T, wsURL, user string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, wsURL+"?user="+user, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })
	return c
}

func sendMsg(t *testing.T, c *websocket.Conn, tag game.MessageTag, payload any) {
	t.Helper()
	msg, err := game.Encode(tag, payload)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, msg))
}

func recvMsg(t *testing.T, c *websocket.Conn) game.ClientMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := c.Read(ctx)
	require.NoError(t, err)
	var env game.ClientMessage
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestChangeRoomToHomeJoinsTheLobby(t *testing.T) {
	wsURL, _ := newTestServer(t, "")
	c := dial(t, wsURL, "alice")
	recvMsg(t, c) // player count pushed on connect

	sendMsg(t, c, game.TagChangeRoom, game.ChangeRoomPayload{Room: "home"})
	env := recvMsg(t, c)
	require.Equal(t, game.TagGameCount, env.T)
}

func TestAddGameRequestOutsideHomeRoomIsIgnored(t *testing.T) {
	wsURL, deps := newTestServer(t, "")
	c := dial(t, wsURL, "alice")

	sendMsg(t, c, game.TagAddGameRequest, game.AddGameRequestPayload{
		Minutes: 5, AI: true,
	})
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0, deps.Games.Count())
}

func TestAddGameRequestFromHomeSpawnsAMatch(t *testing.T) {
	wsURL, deps := newTestServer(t, "")
	c := dial(t, wsURL, "alice")
	recvMsg(t, c) // player count pushed on connect

	sendMsg(t, c, game.TagChangeRoom, game.ChangeRoomPayload{Room: "home"})
	recvMsg(t, c) // initial game count

	sendMsg(t, c, game.TagAddGameRequest, game.AddGameRequestPayload{Minutes: 5, AI: true})
	recvMsg(t, c) // game count bump
	env := recvMsg(t, c)
	require.Equal(t, game.TagRedirectToGame, env.T)

	require.Eventually(t, func() bool { return deps.Games.Count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestChangeRoomToUnknownGameIDStaysInRoomNone(t *testing.T) {
	wsURL, _ := newTestServer(t, "")
	c := dial(t, wsURL, "alice")

	sendMsg(t, c, game.TagChangeRoom, game.ChangeRoomPayload{Room: "/game/does-not-exist"})
	sendMsg(t, c, game.TagGetHand, nil)
	time.Sleep(100 * time.Millisecond) // no crash, no reply expected
}

func TestSaveStateIsGatedOnModeratorIdentity(t *testing.T) {
	wsURL, deps := newTestServer(t, "mod-only")
	c := dial(t, wsURL, "alice")

	sendMsg(t, c, game.TagChangeRoom, game.ChangeRoomPayload{Room: "home"})
	recvMsg(t, c)
	sendMsg(t, c, game.TagAddGameRequest, game.AddGameRequestPayload{Minutes: 5, AI: true})
	recvMsg(t, c)
	recvMsg(t, c)
	require.Eventually(t, func() bool { return deps.Games.Count() == 1 }, time.Second, 10*time.Millisecond)

	sendMsg(t, c, game.TagSaveState, nil)
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, deps.Games.Count(), "a non-moderator's SaveState must be ignored")

	mod := dial(t, wsURL, "mod-only")
	sendMsg(t, mod, game.TagSaveState, nil)
	require.Eventually(t, func() bool { return deps.Games.Count() == 0 }, time.Second, 10*time.Millisecond)
}
