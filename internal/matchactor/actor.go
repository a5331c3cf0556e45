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

// Package matchactor is the per-match actor of spec.md §4.2: one mailbox
// per live game, owning the rules engines, the clock, the watcher fan-out
// and the persistence calls. Nothing outside this package ever touches a
// Match directly — callers only ever hold a Handle (a mailbox sender).
package matchactor

import (
	"context"
	"fmt"
	"time"

	"github.com/MangosArentLiterature/shuuroserver/internal/clock"
	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/logger"
	"github.com/MangosArentLiterature/shuuroserver/internal/rules"
	"github.com/MangosArentLiterature/shuuroserver/internal/watch"
)

const maxWatchers = 10
const mailboxSize = 30

// GameSnapshot is what GetGame answers with: the match with hands
// blanked, since hands are private to their owner.
type GameSnapshot = game.Match

// LobbyNotifier is the slice of the lobby actor a match needs: releasing
// both seats when the game ends, and marking the second human seat
// active once it's filled.
type LobbyNotifier interface {
	ReleasePlayers(players [2]string)
	ActivatePlayer(player string)
}

// RegistryNotifier is the slice of the games registry a match needs to
// drop its own entry when it exits.
type RegistryNotifier interface {
	Drop(id string)
}

// TVNotifier is the slice of the TV aggregator a match drives.
type TVNotifier interface {
	Add(tv game.TvGame)
	Move(id, sfen string, firstMoveError bool)
	Remove(id string)
}

// GameStore is the persistence contract a match actor needs (spec.md §6).
type GameStore interface {
	InsertOne(ctx context.Context, m *game.Match) error
	UpdateOne(ctx context.Context, m *game.Match) error
	DeleteOne(ctx context.Context, id string) error
}

// Config parameterizes Spawn.
type Config struct {
	ID             string
	Players        [2]string
	IsAI           [2]bool
	ExpectedFriend string // non-empty when players[1] is awaiting a named friend to Join
	Depth          int    // AI search depth, 0..3; only meaningful when IsAI[1]
	Minutes        int
	Increment      int
	Variant        game.Variant
	SubVariant     string

	Lobby    LobbyNotifier
	Registry RegistryNotifier
	TV       TVNotifier
	Store    GameStore
	Notify   func(id string, players [2]string, status game.StatusCode, result int, minutes int)

	// Seed, when non-nil, revives an in-progress match from persistence
	// instead of starting a fresh one (spec.md §4.9).
	Seed *game.Match

	Now func() time.Time
}

// Actor is the match state machine. Every field is owned exclusively by
// the goroutine running run; nothing else ever reads or writes them.
type Actor struct {
	id       string
	match    game.Match
	isAI     [2]bool
	expectedFriend string
	started  bool

	selection *rules.Selection
	placement *rules.Placement
	fight     *rules.Fight

	tc *clock.TC

	watchers *watch.Watchers

	abortCounter int

	lobby    LobbyNotifier
	registry RegistryNotifier
	tv       TVNotifier
	store    GameStore
	notify   func(id string, players [2]string, status game.StatusCode, result int, minutes int)
	now      func() time.Time

	mailbox   chan any
	ticker    tickerHandle
	persisted bool

	ai [2]*aiActor
}

// Handle is the weak, send-only reference other actors hold to a match.
// A send may fail silently if the match has already exited — callers
// must never assume the match is still alive.
type Handle struct {
	id      string
	mailbox chan<- any
}

func (h Handle) ID() string { return h.id }

func trySend(ch chan<- any, msg any) bool {
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

func (h Handle) Join(player string, sink watch.Sink) bool {
	return trySend(h.mailbox, MsgJoin{Player: player, Sink: sink})
}
func (h Handle) Leave(player string) bool { return trySend(h.mailbox, MsgLeave{Player: player}) }
func (h Handle) GameMove(player, move string) bool {
	return trySend(h.mailbox, MsgGameMove{Player: player, Move: move})
}
func (h Handle) GetHand(player string) bool { return trySend(h.mailbox, MsgGetHand{Player: player}) }
func (h Handle) Draw(player string) bool    { return trySend(h.mailbox, MsgDraw{Player: player}) }
func (h Handle) Resign(player string) bool  { return trySend(h.mailbox, MsgResign{Player: player}) }
func (h Handle) Abort() bool                { return trySend(h.mailbox, MsgAbort{}) }
func (h Handle) CheckClock() bool           { return trySend(h.mailbox, MsgCheckClock{}) }

// GetGame blocks for a reply on a private one-shot channel; used by HTTP
// read paths and tests, never from inside another actor's hot loop.
func (h Handle) GetGame() (GameSnapshot, bool) {
	reply := make(chan GameSnapshot, 1)
	if !trySend(h.mailbox, MsgGetGame{Reply: reply}) {
		return GameSnapshot{}, false
	}
	snap, ok := <-reply
	return snap, ok
}

// SaveState blocks until the actor has persisted and exited, or the
// mailbox was already gone.
func (h Handle) SaveState() bool {
	done := make(chan struct{})
	if !trySend(h.mailbox, MsgSaveState{Done: done}) {
		return false
	}
	<-done
	return true
}

// Spawn creates and starts a match actor, returning a Handle to it.
func Spawn(cfg Config) Handle {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	now := cfg.Now()

	a := &Actor{
		id:             cfg.ID,
		isAI:           cfg.IsAI,
		expectedFriend: cfg.ExpectedFriend,
		watchers:       watch.New(),
		lobby:          cfg.Lobby,
		registry:       cfg.Registry,
		tv:             cfg.TV,
		store:          cfg.Store,
		notify:         cfg.Notify,
		now:            cfg.Now,
		mailbox:        make(chan any, mailboxSize),
	}

	if cfg.Seed != nil {
		a.reviveFrom(*cfg.Seed)
	} else {
		a.match = game.Match{
			ID:         cfg.ID,
			Players:    cfg.Players,
			Minutes:    cfg.Minutes,
			Increment:  cfg.Increment,
			Variant:    cfg.Variant,
			SubVariant: cfg.SubVariant,
			Stage:      game.StageSelection,
			Status:     game.StatusPaused,
		}
		a.selection = rules.NewSelection(cfg.Variant)
		a.tc = clock.New(cfg.Minutes, cfg.Increment, now)

		// AI opponents are bound immediately; a human "friend" seat waits
		// for that player's Join (see onJoin).
		if cfg.IsAI[1] {
			a.started = true
			a.tc.LastClick = now
		}
	}

	a.ticker = spawnTicker(func() { trySend(a.mailbox, MsgCheckClock{}) })

	if a.started && cfg.IsAI[1] {
		a.ai[game.Black] = newAIActor(a, game.Black, cfg.Depth)
		a.maybeAIAct()
	}

	go a.run()
	return Handle{id: a.id, mailbox: a.mailbox}
}

func (a *Actor) run() {
	for msg := range a.mailbox {
		stop := a.dispatch(msg)
		if stop {
			return
		}
	}
}

func (a *Actor) dispatch(msg any) (stop bool) {
	switch m := msg.(type) {
	case MsgJoin:
		a.onJoin(m)
	case MsgLeave:
		a.watchers.Remove(m.Player)
	case MsgGetGame:
		snap := a.match.WithoutHands()
		m.Reply <- snap
	case MsgGetHand:
		a.onGetHand(m)
	case MsgGameMove:
		return a.onGameMove(m)
	case MsgDraw:
		return a.onDraw(m)
	case MsgResign:
		return a.onResign(m)
	case MsgAbort:
		a.onAbort()
		return true
	case MsgCheckClock:
		return a.onCheckClock()
	case MsgSaveState:
		a.onSaveState(m)
		return true
	}
	return false
}

func (a *Actor) broadcast(tag game.MessageTag, payload any) {
	msg, err := game.Encode(tag, payload)
	if err != nil {
		logger.LogErrorf("match %s: encode failed: %v", a.id, err)
		return
	}
	a.watchers.Notify(msg, watch.Everyone())
}

func (a *Actor) notifyOne(player string, tag game.MessageTag, payload any) {
	msg, err := game.Encode(tag, payload)
	if err != nil {
		logger.LogErrorf("match %s: encode failed: %v", a.id, err)
		return
	}
	a.watchers.Notify(msg, watch.Only(player))
}

func (a *Actor) onJoin(m MsgJoin) {
	if !a.watchers.Has(m.Player) && a.watchers.Count() >= maxWatchers {
		return
	}
	a.watchers.Add(m.Player, m.Sink)
	logger.WriteAuditEvent("join", a.id, "player="+m.Player)

	if a.started || m.Player == a.match.Players[0] {
		return
	}
	emptySlot := a.match.Players[1] == ""
	isFriend := a.expectedFriend != "" && m.Player == a.expectedFriend
	if !emptySlot && !isFriend {
		return
	}

	now := a.now()
	a.match.Players[1] = m.Player
	a.started = true
	a.tc.UpdateStage(a.match.Stage, now)
	logger.WriteAuditEvent("start", a.id, fmt.Sprintf("players=%s,%s", a.match.Players[0], a.match.Players[1]))
	a.broadcast(game.TagStartClock, game.StartClockPayload{Players: a.match.Players, Now: now.UnixMilli()})
	a.lobby.ActivatePlayer(m.Player)
	a.persist()
	a.ticker.SetInterval(a.nextTickerInterval(now))
}

func (a *Actor) onGetHand(m MsgGetHand) {
	if a.match.Stage != game.StageSelection {
		return
	}
	idx := a.match.PlayerIndex(m.Player)
	if idx < 0 {
		return
	}
	hand := a.selection.Hand(game.Color(idx))
	a.notifyOne(m.Player, game.TagGetHand, game.GetHandPayload{Hand: hand})
}
