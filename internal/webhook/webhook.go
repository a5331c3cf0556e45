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

// Package webhook posts an optional, best-effort Discord notification
// when a match ends. It is queued onto a buffered worker channel exactly
// like the teacher's modcall webhook, so a slow or unreachable Discord
// endpoint never blocks a match actor.
package webhook

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ecnepsnai/discord"
	"github.com/MangosArentLiterature/shuuroserver/internal/game"
)

var (
	ServerName  string
	ServerColor uint32 = 0x05b2f7

	webhookQueue chan gameEndTask
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
)

type gameEndTask struct {
	gameID  string
	players [2]string
	status  game.StatusCode
	result  int
	minutes int
}

// reportableStatus is the set of terminal statuses that look like a
// completed, decisive game worth reporting — not an abort, pause, or
// first-move error, which are housekeeping rather than results.
func reportableStatus(status game.StatusCode) bool {
	switch status {
	case game.StatusCheckmate, game.StatusResignation, game.StatusTimeout:
		return true
	default:
		return false
	}
}

const minReportableMinutes = 10

// Initialize starts the webhook worker goroutine. Must be called before
// PostGameEnd. A no-op URL simply means Post calls fail silently — the
// caller isn't required to check whether a webhook is configured.
func Initialize() {
	ctx, cancel = context.WithCancel(context.Background())
	webhookQueue = make(chan gameEndTask, 100)
	wg.Add(1)
	go worker()
}

// Shutdown drains pending tasks and stops the worker.
func Shutdown() {
	if cancel != nil {
		cancel()
	}
	wg.Wait()
}

func worker() {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case task := <-webhookQueue:
					post(task)
				default:
					close(webhookQueue)
					return
				}
			}
		case task, ok := <-webhookQueue:
			if !ok {
				return
			}
			post(task)
		}
	}
}

func post(task gameEndTask) {
	e := discord.Embed{
		Title:       fmt.Sprintf("Game %s ended", task.gameID),
		Description: describe(task),
		Color:       ServerColor,
	}
	p := discord.PostOptions{
		Username: ServerName,
		Embeds:   []discord.Embed{e},
	}
	if err := discord.Post(p); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to post game-end webhook for %v: %v\n", task.gameID, err)
	}
}

func describe(task gameEndTask) string {
	winner := "draw"
	switch task.result {
	case game.ResultWhite:
		winner = task.players[game.White] + " (white)"
	case game.ResultBlack:
		winner = task.players[game.Black] + " (black)"
	}
	return fmt.Sprintf("%s vs %s — status %d, winner: %s", task.players[0], task.players[1], task.status, winner)
}

// PostGameEnd queues a terminal-status notification for a rated-looking
// game (minutes >= 10) that ended in a checkmate, resignation, or
// timeout — aborts, pauses, and quick casual games never reach Discord.
// Never blocks: a full queue silently drops the notification.
func PostGameEnd(gameID string, players [2]string, status game.StatusCode, result int, minutes int) {
	if webhookQueue == nil {
		return
	}
	if minutes < minReportableMinutes || !reportableStatus(status) {
		return
	}
	select {
	case webhookQueue <- gameEndTask{gameID: gameID, players: players, status: status, result: result, minutes: minutes}:
	default:
	}
}
