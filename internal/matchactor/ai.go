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
	"math/rand"
	"time"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/rules"
)

// aiActor is the built-in opponent for one color. Its move functions must
// only ever be called from inside the match actor's own goroutine — the
// rules engines they read are plain mutable state, not safe to touch from
// anywhere else. Only the human-plausible delay before posting the chosen
// move runs on a separate timer; the move itself travels as a plain
// string, never a pointer into the engine.
type aiActor struct {
	color game.Color
	depth int
	seed  string // preset selection hand, e.g. "PPPPPPPPPNNBBRRQ"; empty = heuristic fielding
	self  Handle
}

// clampDepth bounds a requested AI search depth to 0..3 and downgrades
// depth 3 to 2 on the largest boards, where a full extra ply is too
// expensive to search within the move-delay budget.
func clampDepth(depth int, variant game.Variant) int {
	if depth < 0 {
		depth = 0
	}
	if depth > 3 {
		depth = 3
	}
	if depth == 3 && variant.BoardSize() >= 12 {
		depth = 2
	}
	return depth
}

func newAIActor(a *Actor, color game.Color, depth int) *aiActor {
	return &aiActor{color: color, depth: clampDepth(depth, a.match.Variant), self: Handle{id: a.id, mailbox: a.mailbox}}
}

// maybeAIAct checks whether it is currently the AI's turn, computes its
// move right here (still inside the actor's own goroutine) and schedules
// its delivery after a short delay.
func (a *Actor) maybeAIAct() {
	ai := a.ai[1]
	if ai == nil {
		return
	}
	var move string
	switch a.match.Stage {
	case game.StageSelection:
		if a.selection.IsConfirmed(ai.color) {
			return
		}
		move = ai.selectionMove(a.match.Variant, a.selection.Hand(ai.color))
	case game.StagePlacement:
		if a.placement.SideToMove() != ai.color {
			return
		}
		move = ai.placementMove(a.placement, a.match.Variant.BoardSize())
	case game.StageFight:
		if a.fight.SideToMove() != ai.color {
			return
		}
		move = ai.fightMove(a.fight)
	default:
		return
	}
	ai.scheduleMove(move)
}

func (ai *aiActor) selectionMove(variant game.Variant, hand string) string {
	if ai.seed != "" {
		for _, ch := range ai.seed {
			letter := byte(ch)
			if !containsRune(hand, letter) {
				return "+" + string(letter)
			}
		}
		return ""
	}
	// Heuristic fallback: field a broad, cheap army then confirm.
	for _, k := range rules.KindsFor(variant) {
		if k == rules.King {
			continue
		}
		letter := byte(k)
		if ai.color == game.Black {
			letter += 'a' - 'A'
		}
		if rules.Credit[k] <= 5 && !containsRune(hand, letter) {
			return "+" + string(letter)
		}
	}
	return ""
}

func containsRune(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

func (ai *aiActor) placementMove(p *rules.Placement, size int) string {
	squares := p.GetPlacementSquares()
	for kind, sqs := range squares {
		if len(sqs) == 0 {
			continue
		}
		sq := sqs[rand.Intn(len(sqs))]
		pm := rules.PutMove{To: sq, Piece: rules.Piece{Kind: kind, Color: ai.color}}
		return pm.String(size)
	}
	return ""
}

func (ai *aiActor) fightMove(f *rules.Fight) string {
	legal := f.LegalMoves(ai.color)
	if len(legal) == 0 {
		return ""
	}
	depth := ai.depth
	if len(legal) > 80 { // large boards: bound the search cost
		depth = 1
	}
	sign := 1
	if ai.color == game.Black {
		sign = -1
	}
	best := legal[0]
	bestScore := -1 << 30
	for _, mv := range legal {
		trial := f.Clone()
		if _, err := trial.Play(mv, ai.color); err != nil {
			continue
		}
		score := sign * search(trial, depth-1, ai.color.Opposite())
		if score > bestScore {
			bestScore = score
			best = mv
		}
	}
	return best.String(f.BoardSize())
}

// search is a plain negamax over material balance, depth-limited; not an
// optimal engine, just enough for the AI opponent to not blunder pieces
// for free.
func search(f *rules.Fight, depth int, turn game.Color) int {
	if depth <= 0 {
		return f.Evaluate()
	}
	legal := f.LegalMoves(turn)
	if len(legal) == 0 {
		if f.InCheck(turn) {
			if turn == game.White {
				return -100000
			}
			return 100000
		}
		return 0
	}
	sign := 1
	if turn == game.Black {
		sign = -1
	}
	best := -1 << 30
	for _, mv := range legal {
		trial := f.Clone()
		if _, err := trial.Play(mv, turn); err != nil {
			continue
		}
		score := sign * search(trial, depth-1, turn.Opposite())
		if score > best {
			best = score
		}
	}
	return sign * best
}

// scheduleMove posts move back through the ordinary GameMove mailbox path
// after a short human-plausible delay. The timer goroutine carries only
// the finished string, never a reference into the engines.
func (ai *aiActor) scheduleMove(move string) {
	delay := 200*time.Millisecond + time.Duration(rand.Intn(400))*time.Millisecond
	time.AfterFunc(delay, func() {
		ai.self.GameMove("AI", move)
	})
}
