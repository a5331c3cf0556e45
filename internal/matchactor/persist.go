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
	"hash/fnv"
	"time"

	"github.com/MangosArentLiterature/shuuroserver/internal/clock"
	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/logger"
	"github.com/MangosArentLiterature/shuuroserver/internal/rules"
)

const persistTimeout = 5 * time.Second

// persist writes the current match document, inserting on the first call
// and updating thereafter. The actor's own goroutine blocks on the store
// round trip. It runs when the second seat binds, after every accepted
// selection, placement and fight move, and on terminal and save events.
func (a *Actor) persist() {
	if a.store == nil {
		return
	}
	a.match.LastClock = a.now()
	a.match.TC = a.tc.ToPersisted()
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if !a.persisted {
		err = a.store.InsertOne(ctx, &a.match)
		a.persisted = err == nil
	} else {
		err = a.store.UpdateOne(ctx, &a.match)
	}
	if err != nil {
		logger.LogErrorf("match %s: persist: %v", a.id, err)
	}
}

func (a *Actor) deleteFromStore() {
	if a.store == nil || !a.persisted {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := a.store.DeleteOne(ctx, a.id); err != nil {
		logger.LogErrorf("match %s: delete: %v", a.id, err)
	}
}

// plinthSeed derives a deterministic placement seed from the match id, so
// the same match id always yields the same plinth layout.
func plinthSeed(id string) int64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return int64(h.Sum64())
}

// reviveFrom restores actor state from a persisted document: it seeds
// the stage engine that owns the current stage from the persisted hands
// (selection) or the persisted sfen (placement, fight). No move history
// is replayed; a.match.History is kept for the record only.
func (a *Actor) reviveFrom(m game.Match) {
	a.match = m
	a.started = true
	a.persisted = true
	a.tc = clock.FromPersisted(m.TC)

	var err error
	switch m.Stage {
	case game.StageSelection:
		a.selection = rules.NewSelectionFromHands(m.Variant, m.Hands, m.Credits)
	case game.StagePlacement:
		a.placement, err = rules.NewPlacementFromSFEN(m.Variant, m.SFEN)
	case game.StageFight:
		a.fight, err = rules.NewFightFromSFEN(m.Variant, m.SFEN)
	}
	if err != nil {
		logger.LogErrorf("match %s: revive at stage %d: %v", a.id, m.Stage, err)
	}
}
