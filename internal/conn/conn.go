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

// Package conn is the per-connection actor of spec.md §4.8: one instance
// per accepted websocket, gating inbound frames by whichever room the
// socket is currently bound to and forwarding them to the right sibling
// actor.
package conn

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/lobby"
	"github.com/MangosArentLiterature/shuuroserver/internal/logger"
	"github.com/MangosArentLiterature/shuuroserver/internal/players"
	"github.com/MangosArentLiterature/shuuroserver/internal/registry"
	"github.com/MangosArentLiterature/shuuroserver/internal/tv"
	"github.com/MangosArentLiterature/shuuroserver/internal/watch"
)

const sendBuffer = 32
const writeTimeout = 5 * time.Second

// Deps bundles the sibling actors a connection forwards to. Shared across
// every connection; built once at bootstrap.
type Deps struct {
	Lobby       lobby.Handle
	TV          tv.Handle
	Players     players.Handle
	Games       *registry.Registry
	ModeratorID string
}

// Conn is one accepted websocket and its forwarding state.
type Conn struct {
	ws       *websocket.Conn
	username string
	deps     Deps

	room   game.Room
	gameID string
	game   gameHandle

	send chan []byte
}

// gameHandle is the slice of matchactor.Handle a connection needs,
// narrowed locally so this package doesn't need to import matchactor
// just to hold a reference to one.
type gameHandle interface {
	Join(player string, sink watch.Sink) bool
	Leave(player string) bool
	GameMove(player, move string) bool
	GetHand(player string) bool
	Draw(player string) bool
	Resign(player string) bool
	SaveState() bool
}

// HandleWS accepts a websocket on r and runs its connection actor to
// completion. Call from the mux's /ws handler with the username already
// resolved from the session cookie — session resolution itself is an
// external collaborator's contract (spec.md §1), not this package's job.
func HandleWS(w http.ResponseWriter, r *http.Request, username string, deps Deps, opts *websocket.AcceptOptions) {
	ws, err := websocket.Accept(w, r, opts)
	if err != nil {
		logger.LogErrorf("websocket accept failed for %s: %v", username, err)
		return
	}
	New(ws, username, deps)
}

// New wraps an accepted websocket for username and starts its read/write
// loops. Blocks until the connection closes.
func New(ws *websocket.Conn, username string, deps Deps) {
	c := &Conn{ws: ws, username: username, deps: deps, send: make(chan []byte, sendBuffer)}
	done := make(chan struct{})
	go c.writeLoop(done)
	c.readLoop()
	close(done)
	c.leaveRoom()
	c.deps.Players.Leave(c.username, true)
	c.ws.Close(websocket.StatusNormalClosure, "")
}

func (c *Conn) writeLoop(done <-chan struct{}) {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := c.ws.Write(ctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (c *Conn) readLoop() {
	ctx := context.Background()
	c.deps.Players.Join(c.username, watch.Sink(c.send))
	for {
		_, data, err := c.ws.Read(ctx)
		if err != nil {
			logDisconnect(c.username, err)
			return
		}
		var m game.ClientMessage
		if json.Unmarshal(data, &m) != nil {
			continue
		}
		c.dispatch(m)
	}
}

func (c *Conn) dispatch(m game.ClientMessage) {
	switch m.T {
	case game.TagChangeRoom:
		c.onChangeRoom(m.D)
	case game.TagAddGameRequest:
		if c.room == game.RoomHome {
			c.onAddGameRequest(m.D)
		}
	case game.TagGetHand:
		c.inGame(func() { c.game.GetHand(c.username) })
	case game.TagSelectMove, game.TagPlacePiece, game.TagMovePiece, game.TagConfirmSelection:
		c.inGame(func() { c.forwardMove(m.D) })
	case game.TagDraw:
		c.inGame(func() { c.game.Draw(c.username) })
	case game.TagResign:
		c.inGame(func() { c.game.Resign(c.username) })
	case game.TagGetTv:
		if c.room == game.RoomTv {
			c.deps.TV.GetTv(c.username)
		}
	case game.TagSaveState:
		if c.deps.ModeratorID != "" && c.username == c.deps.ModeratorID {
			c.onSaveState()
		}
	}
}

// onSaveState persists and retires every live match — the operator's
// graceful-shutdown hook (spec.md §4.8).
func (c *Conn) onSaveState() {
	for _, h := range c.deps.Games.All() {
		go h.SaveState()
	}
}

func (c *Conn) inGame(fn func()) {
	if c.room == game.RoomGame && c.game != nil {
		fn()
	}
}

func (c *Conn) forwardMove(raw json.RawMessage) {
	var p game.GameMovePayload
	if json.Unmarshal(raw, &p) != nil {
		return
	}
	c.game.GameMove(c.username, p.Move)
}

func (c *Conn) onChangeRoom(raw json.RawMessage) {
	var p game.ChangeRoomPayload
	if json.Unmarshal(raw, &p) != nil {
		return
	}
	room, id := game.ParseRoom(p.Room)
	c.leaveRoom()

	switch room {
	case game.RoomHome:
		c.room = game.RoomHome
		c.deps.Lobby.Join(c.username, watch.Sink(c.send))
	case game.RoomTv:
		c.room = game.RoomTv
		c.deps.TV.Join(c.username, watch.Sink(c.send))
	case game.RoomGame:
		handle, ok := c.deps.Games.Get(id)
		if !ok {
			c.room = game.RoomNone
			return
		}
		c.room = game.RoomGame
		c.gameID = id
		c.game = handle
		c.game.Join(c.username, watch.Sink(c.send))
	default:
		c.room = game.RoomNone
	}
}

func (c *Conn) leaveRoom() {
	switch c.room {
	case game.RoomHome:
		c.deps.Lobby.Leave(c.username)
	case game.RoomTv:
		c.deps.TV.Leave(c.username)
	case game.RoomGame:
		if c.game != nil {
			c.game.Leave(c.username)
		}
		c.game = nil
		c.gameID = ""
	}
	c.room = game.RoomNone
}

func (c *Conn) onAddGameRequest(raw json.RawMessage) {
	var p game.AddGameRequestPayload
	if json.Unmarshal(raw, &p) != nil {
		return
	}
	req := game.GameRequest{
		Minutes:        p.Minutes,
		Increment:      p.Increment,
		Variant:        game.Variant(p.Variant),
		SubVariant:     p.SubVariant,
		PreferredColor: game.PreferredColor(p.PreferredColor),
		Opponent:       game.Opponent{IsAI: p.AI, Friend: p.Friend, Depth: p.AIDepth},
	}
	c.deps.Lobby.AddGameRequest(c.username, req)
}

func logDisconnect(username string, err error) {
	if err != nil {
		logger.LogDebugf("conn %s closed: %v", username, err)
	}
}
