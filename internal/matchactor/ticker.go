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

// tickerHandle drives the match actor's own CheckClock cadence. It never
// touches actor state directly — it only ever sends a message into the
// actor's mailbox, so the actor's goroutine remains the sole owner of
// everything it reads to decide the next interval.
type tickerHandle struct {
	stop     chan struct{}
	interval chan time.Duration
}

func spawnTicker(checkClock func()) tickerHandle {
	h := tickerHandle{stop: make(chan struct{}), interval: make(chan time.Duration, 1)}
	go func() {
		d := 10 * time.Second
		timer := time.NewTimer(d)
		defer timer.Stop()
		for {
			select {
			case <-h.stop:
				return
			case nd := <-h.interval:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				d = nd
				timer.Reset(d)
			case <-timer.C:
				checkClock()
				timer.Reset(d)
			}
		}
	}()
	return h
}

// SetInterval replaces the pending wakeup period; the latest call wins.
func (h tickerHandle) SetInterval(d time.Duration) {
	select {
	case h.interval <- d:
		return
	default:
	}
	select {
	case <-h.interval:
	default:
	}
	select {
	case h.interval <- d:
	default:
	}
}

func (h tickerHandle) Stop() { close(h.stop) }

const maxUnstartedTicks = 4 // ~40s of polling at the slow 10s cadence

// nextTickerInterval implements the adaptive cadence of spec.md §4.3:
// poll faster as either clock runs low, slower otherwise.
func (a *Actor) nextTickerInterval(now time.Time) time.Duration {
	if !a.started {
		return 10 * time.Second
	}
	white := a.tc.Remaining(game.White, now)
	black := a.tc.Remaining(game.Black, now)
	min := white
	if black < min {
		min = black
	}
	switch {
	case min <= 10*time.Second:
		return 500 * time.Millisecond
	case min <= time.Minute:
		return 2 * time.Second
	case min <= 5*time.Minute:
		return 5 * time.Second
	default:
		return 10 * time.Second
	}
}
