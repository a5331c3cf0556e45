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

// Package clock implements the per-match chess-clock semantics of
// spec.md §4.2.3: TimeControl.play/select/update_stage/set_to_zero.
package clock

import (
	"time"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
)

// TC wraps a game.TimeControl with the mutating operations the match
// actor drives it through. It is owned exclusively by its match actor —
// never shared.
type TC struct {
	LastClick time.Time
	Clocks    [2]time.Duration
	Stage     game.Stage
	Increment time.Duration
}

// New creates a fresh time control at match creation: both clocks get
// minutes*60+increment seconds, per spec.md §4.2.3.
func New(minutes, increment int, now time.Time) *TC {
	budget := time.Duration(minutes)*time.Minute + time.Duration(increment)*time.Second
	return &TC{
		LastClick: now,
		Clocks:    [2]time.Duration{budget, budget},
		Stage:     game.StageSelection,
		Increment: time.Duration(increment) * time.Second,
	}
}

// currentRemaining is clocks[color] - (now-last_click). During selection
// LastClick only advances when UpdateStage/New run, so both colors drain
// in lockstep off the same budget until the caller picks which one
// actually matters (see matchactor's stage-0 ticking-side check).
func (t *TC) currentRemaining(color game.Color, now time.Time) time.Duration {
	return t.Clocks[color] - now.Sub(t.LastClick)
}

// Remaining exposes currentRemaining for the ticker's adaptive-interval
// computation and for broadcasting clocks to clients.
func (t *TC) Remaining(color game.Color, now time.Time) time.Duration {
	return t.currentRemaining(color, now)
}

// Play is tc.play(color): consumes time on a successful move. Returns
// (remaining-for-both-sides, ok); ok is false when color's clock had
// already run out, and nothing is changed. The match actor's move
// handlers then end the game on time themselves; they do not leave it to
// the ticker.
func (t *TC) Play(color game.Color, now time.Time) (remaining [2]time.Duration, ok bool) {
	rem := t.currentRemaining(color, now)
	if rem < 0 {
		return t.Clocks, false
	}
	if t.Stage == game.StagePlacement || t.Stage == game.StageFight {
		t.Clocks[color] = rem + t.Increment
	}
	if t.Stage < 3 {
		t.LastClick = now
	}
	return t.Clocks, true
}

// Select is tc.select(color), run when color confirms its selection.
// Stage is temporarily bumped to 3 so Play neither rewrites the clocks
// (only stages 1 and 2 do) nor stamps last_click (only stages below 3
// do), then restored. The time control is therefore left unchanged: both
// clocks keep draining from the last stage transition.
func (t *TC) Select(color game.Color, now time.Time) {
	saved := t.Stage
	t.Stage = 3
	t.Play(color, now)
	t.Stage = saved
}

// UpdateStage sets stage and stamps last_click, called at every stage
// transition.
func (t *TC) UpdateStage(stage game.Stage, now time.Time) {
	t.Stage = stage
	t.LastClick = now
}

// SetToZero zeroes color's clock (used when the ticker declares a
// timeout).
func (t *TC) SetToZero(color game.Color) {
	t.Clocks[color] = 0
}

// Snapshot returns the clocks as they should be broadcast right now.
func (t *TC) Snapshot(now time.Time) [2]time.Duration {
	return [2]time.Duration{t.currentRemaining(game.White, now), t.currentRemaining(game.Black, now)}
}

// ToPersisted copies this TC into the persisted game.TimeControl shape.
func (t *TC) ToPersisted() game.TimeControl {
	return game.TimeControl{
		LastClickTS:      t.LastClick,
		Clocks:           t.Clocks,
		Stage:            t.Stage,
		IncrementSeconds: t.Increment,
	}
}

// FromPersisted restores a TC from a persisted game.TimeControl, used on
// recovery.
func FromPersisted(p game.TimeControl) *TC {
	return &TC{LastClick: p.LastClickTS, Clocks: p.Clocks, Stage: p.Stage, Increment: p.IncrementSeconds}
}
