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

package bootstrap

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
)

// fakeGameStore is an in-memory store.Games, just enough for Start/
// reviveUnfinished to exercise without a real database.
type fakeGameStore struct {
	mu      sync.Mutex
	docs    map[string]*game.Match
	deleted []string
}

func newFakeGameStore(seed ...*game.Match) *fakeGameStore {
	s := &fakeGameStore{docs: make(map[string]*game.Match)}
	for _, m := range seed {
		s.docs[m.ID] = m
	}
	return s
}

func (s *fakeGameStore) FindOne(ctx context.Context, id string) (*game.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[id], nil
}
func (s *fakeGameStore) InsertOne(ctx context.Context, m *game.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.docs[m.ID] = &cp
	return nil
}
func (s *fakeGameStore) UpdateOne(ctx context.Context, m *game.Match) error {
	return s.InsertOne(ctx, m)
}
func (s *fakeGameStore) DeleteOne(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	s.deleted = append(s.deleted, id)
	return nil
}
func (s *fakeGameStore) Unfinished(ctx context.Context) ([]*game.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*game.Match
	for _, m := range s.docs {
		if m.Status < 0 {
			out = append(out, m)
		}
	}
	return out, nil
}
func (s *fakeGameStore) ByPlayer(ctx context.Context, username string, page int) ([]*game.Match, error) {
	return nil, nil
}

func TestStartWithNoUnfinishedMatchesBootsEmpty(t *testing.T) {
	store := newFakeGameStore()
	sys, err := Start(context.Background(), store)
	require.NoError(t, err)
	require.Equal(t, 0, sys.Games.Count())
}

func TestStartRevivesAnUnfinishedTwoPlayerMatch(t *testing.T) {
	m := &game.Match{
		ID:      "revived-1",
		Players: [2]string{"alice", "bob"},
		Minutes: 5,
		Stage:   game.StagePlacement,
		Status:  game.StatusLive,
		SFEN:    "some-placement-sfen",
	}
	store := newFakeGameStore(m)

	sys, err := Start(context.Background(), store)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return sys.Games.Count() == 1 }, time.Second, 10*time.Millisecond)

	h, ok := sys.Games.Get("revived-1")
	require.True(t, ok)
	snap, ok := h.GetGame()
	require.True(t, ok)
	require.Equal(t, [2]string{"alice", "bob"}, snap.Players)
}

func TestStartDropsAnUnfinishedMatchMissingASeat(t *testing.T) {
	m := &game.Match{
		ID:      "half-empty",
		Players: [2]string{"alice", ""},
		Status:  game.StatusPaused,
	}
	store := newFakeGameStore(m)

	sys, err := Start(context.Background(), store)
	require.NoError(t, err)
	require.Equal(t, 0, sys.Games.Count())
	require.Contains(t, store.deleted, "half-empty")
}

func TestStartSkipsAlreadyFinishedMatches(t *testing.T) {
	m := &game.Match{
		ID:      "finished",
		Players: [2]string{"alice", "bob"},
		Status:  game.StatusCheckmate,
	}
	store := newFakeGameStore(m)

	sys, err := Start(context.Background(), store)
	require.NoError(t, err)
	require.Equal(t, 0, sys.Games.Count())
	require.NotContains(t, store.deleted, "finished")
}

func TestDepsProjectsModeratorID(t *testing.T) {
	store := newFakeGameStore()
	sys, err := Start(context.Background(), store)
	require.NoError(t, err)

	d := sys.Deps("mod-1")
	require.Equal(t, "mod-1", d.ModeratorID)
	require.Equal(t, sys.Games, d.Games)
}
