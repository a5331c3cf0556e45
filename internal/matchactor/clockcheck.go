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
	"time"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
)

// onCheckClock is the ticker's periodic wakeup: time out a side whose
// clock has run out, or abort a match still waiting for its second seat
// after too many idle ticks (spec.md §4.3).
func (a *Actor) onCheckClock() bool {
	now := a.now()
	if !a.started {
		a.abortCounter++
		if a.abortCounter >= maxUnstartedTicks {
			a.onAbort()
			return true
		}
		a.ticker.SetInterval(a.nextTickerInterval(now))
		return false
	}

	if a.match.Stage == game.StageSelection {
		return a.checkSelectionClock(now)
	}

	for _, c := range [2]game.Color{game.White, game.Black} {
		if a.tc.Remaining(c, now) <= 0 {
			return a.finishTimeout(c, now)
		}
	}

	a.ticker.SetInterval(a.nextTickerInterval(now))
	return false
}

// checkSelectionClock implements the stage-0 ticking side of spec.md §4.3:
// while neither player has confirmed their selection, white's budget is
// the one that's ticking; once one confirms, only the other's remaining
// time matters. If both are still unconfirmed when time runs out the game
// is drawn rather than lost, since neither side is "on the clock" alone.
func (a *Actor) checkSelectionClock(now time.Time) bool {
	whiteConfirmed := a.selection.IsConfirmed(game.White)
	blackConfirmed := a.selection.IsConfirmed(game.Black)

	ticking := game.White
	if whiteConfirmed && !blackConfirmed {
		ticking = game.Black
	}

	if a.tc.Remaining(ticking, now) > 0 {
		a.ticker.SetInterval(a.nextTickerInterval(now))
		return false
	}

	if !whiteConfirmed && !blackConfirmed {
		a.tc.SetToZero(ticking)
		a.match.Status = game.StatusTimeout
		a.match.Result = game.ResultDraw
		return a.finishTerminal(now)
	}
	return a.finishTimeout(ticking, now)
}
