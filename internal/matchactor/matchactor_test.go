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

package matchactor

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/watch"
)

// fakeLobby/fakeRegistry/fakeTV/fakeStore record calls instead of driving
// real sibling actors or a database, mirroring lobby_test.go's fakes.

type fakeLobby struct {
	mu        sync.Mutex
	activated []string
	released  [][2]string
}

func (f *fakeLobby) ActivatePlayer(player string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated = append(f.activated, player)
}
func (f *fakeLobby) ReleasePlayers(players [2]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, players)
}
func (f *fakeLobby) releasedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.released)
}

type fakeRegistry struct {
	mu      sync.Mutex
	dropped []string
}

func (f *fakeRegistry) Drop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropped = append(f.dropped, id)
}
func (f *fakeRegistry) droppedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dropped)
}

type fakeTV struct{}

func (fakeTV) Add(game.TvGame)             {}
func (fakeTV) Move(id, sfen string, _ bool) {}
func (fakeTV) Remove(id string)            {}

type fakeStore struct {
	mu       sync.Mutex
	inserted int
	updated  int
	deleted  int
}

func (f *fakeStore) InsertOne(ctx context.Context, m *game.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted++
	return nil
}
func (f *fakeStore) UpdateOne(ctx context.Context, m *game.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated++
	return nil
}
func (f *fakeStore) DeleteOne(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted++
	return nil
}

// manualClock lets a test move time forward deterministically instead of
// depending on wall time.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(start time.Time) *manualClock {
	return &manualClock{now: start}
}
func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

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

func newTestMatch(t *testing.T, cfg Config) (Handle, *fakeLobby, *fakeRegistry, *fakeStore) {
	t.Helper()
	lobby := &fakeLobby{}
	reg := &fakeRegistry{}
	store := &fakeStore{}
	cfg.ID = "m1"
	cfg.Players = [2]string{"alice", "bob"}
	cfg.ExpectedFriend = "bob"
	cfg.Minutes = 5
	cfg.Lobby = lobby
	cfg.Registry = reg
	cfg.TV = fakeTV{}
	cfg.Store = store
	h := Spawn(cfg)
	return h, lobby, reg, store
}

func TestJoinStartsClockOnceBothSeatsFilled(t *testing.T) {
	h, lobby, _, _ := newTestMatch(t, Config{})

	aliceSink := make(chan []byte, 4)
	h.Join("alice", watch.Sink(aliceSink))

	bobSink := make(chan []byte, 4)
	h.Join("bob", watch.Sink(bobSink))

	env := recvOrTimeout(t, aliceSink)
	require.Equal(t, game.TagStartClock, env.T)

	require.Eventually(t, func() bool { return len(lobby.activated) == 1 }, time.Second, 10*time.Millisecond)
}

func TestGetGameBlocksForReply(t *testing.T) {
	h, _, _, _ := newTestMatch(t, Config{})

	snap, ok := h.GetGame()
	require.True(t, ok)
	require.Equal(t, "m1", snap.ID)
	require.Equal(t, [2]string{"alice", "bob"}, snap.Players)
	require.Equal(t, game.StageSelection, snap.Stage)
}

func TestGetHandOnlyDuringSelection(t *testing.T) {
	h, _, _, _ := newTestMatch(t, Config{})

	sink := make(chan []byte, 4)
	h.Join("alice", watch.Sink(sink))
	h.Join("bob", watch.Sink(make(chan []byte, 4)))
	recvOrTimeout(t, sink) // the start-clock broadcast

	h.GetHand("alice")
	env := recvOrTimeout(t, sink)
	require.Equal(t, game.TagGetHand, env.T)
}

func TestSelectionMoveAddsPieceThenConfirmBroadcasts(t *testing.T) {
	h, _, _, store := newTestMatch(t, Config{})

	sink := make(chan []byte, 8)
	h.Join("alice", watch.Sink(sink))
	h.Join("bob", watch.Sink(make(chan []byte, 8)))
	recvOrTimeout(t, sink) // start-clock

	h.GameMove("alice", "+P")
	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.inserted+store.updated > 0
	}, time.Second, 10*time.Millisecond)

	h.GameMove("alice", "confirm")
	env := recvOrTimeout(t, sink)
	require.Equal(t, game.TagConfirmSelection, env.T)
	var p game.ConfirmSelectionPayload
	require.NoError(t, json.Unmarshal(env.D, &p))
	require.True(t, p.Confirmed[game.White])
	require.False(t, p.Confirmed[game.Black])
}

func TestDrawRequiresBothPlayersToAgree(t *testing.T) {
	h, lobby, reg, _ := newTestMatch(t, Config{})

	aliceSink := make(chan []byte, 4)
	h.Join("alice", watch.Sink(aliceSink))
	bobSink := make(chan []byte, 4)
	h.Join("bob", watch.Sink(bobSink))
	recvOrTimeout(t, aliceSink)
	recvOrTimeout(t, bobSink) // bob's own start-clock

	h.Draw("alice")
	env := recvOrTimeout(t, bobSink)
	require.Equal(t, game.TagDraw, env.T)
	require.Equal(t, 0, lobby.releasedCount())

	h.Draw("bob")
	require.Eventually(t, func() bool { return lobby.releasedCount() == 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return reg.droppedCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestResignEndsTheGameForTheOtherSide(t *testing.T) {
	h, lobby, _, _ := newTestMatch(t, Config{})

	aliceSink := make(chan []byte, 4)
	h.Join("alice", watch.Sink(aliceSink))
	h.Join("bob", watch.Sink(make(chan []byte, 4)))
	recvOrTimeout(t, aliceSink)

	h.Resign("alice")
	env := recvOrTimeout(t, aliceSink)
	require.Equal(t, game.TagGameEnd, env.T)
	var p game.GameEndPayload
	require.NoError(t, json.Unmarshal(env.D, &p))
	require.Equal(t, game.StatusResignation, p.Status)
	require.Equal(t, game.ResultBlack, p.Result)

	require.Eventually(t, func() bool { return lobby.releasedCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestAbortBeforeSecondSeatJoins(t *testing.T) {
	h, lobby, reg, _ := newTestMatch(t, Config{})

	sink := make(chan []byte, 4)
	h.Join("alice", watch.Sink(sink))

	h.Abort()
	env := recvOrTimeout(t, sink)
	require.Equal(t, game.TagGameEnd, env.T)
	var p game.GameEndPayload
	require.NoError(t, json.Unmarshal(env.D, &p))
	require.Equal(t, game.StatusAborted, p.Status)

	require.Eventually(t, func() bool { return lobby.releasedCount() == 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return reg.droppedCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestCheckClockTimesOutAStalledSide(t *testing.T) {
	mc := newManualClock(time.Now())
	h, _, _, _ := newTestMatch(t, Config{Now: mc.Now})

	sink := make(chan []byte, 4)
	h.Join("alice", watch.Sink(sink))
	h.Join("bob", watch.Sink(make(chan []byte, 4)))
	recvOrTimeout(t, sink) // start-clock

	mc.Advance(6 * time.Minute) // past the 5-minute budget
	h.CheckClock()

	env := recvOrTimeout(t, sink)
	require.Equal(t, game.TagGameEnd, env.T)
	var p game.GameEndPayload
	require.NoError(t, json.Unmarshal(env.D, &p))
	require.Equal(t, game.StatusTimeout, p.Status)
}

func TestSaveStateBlocksUntilPersistedAndTornDown(t *testing.T) {
	h, lobby, _, store := newTestMatch(t, Config{})

	ok := h.SaveState()
	require.True(t, ok)
	require.Equal(t, 1, lobby.releasedCount())
	store.mu.Lock()
	defer store.mu.Unlock()
	require.Equal(t, 1, store.inserted)
}
