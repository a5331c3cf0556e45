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

package rules

import (
	"fmt"
	"strings"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
)

// NormalMove is a parsed stage-2 "move a piece on the board" move,
// optionally carrying a promotion piece kind (the `placed` field of
// spec.md's Normal{from,to,placed?}).
type NormalMove struct {
	From, To Square
	Placed   Kind
}

// ParseNormalMove parses "<from>-<to>" or "<from>-<to>=<Kind>".
func ParseNormalMove(s string, size int) (NormalMove, bool) {
	promo := Kind(0)
	if i := strings.IndexByte(s, '='); i >= 0 {
		if i+1 >= len(s) {
			return NormalMove{}, false
		}
		k, _ := kindFromLetter(s[i+1])
		promo = k
		s = s[:i]
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return NormalMove{}, false
	}
	from, err := parseSquare(parts[0], size)
	if err != nil {
		return NormalMove{}, false
	}
	to, err := parseSquare(parts[1], size)
	if err != nil {
		return NormalMove{}, false
	}
	return NormalMove{From: from, To: to, Placed: promo}, true
}

func (m NormalMove) String(size int) string {
	s := fmt.Sprintf("%s-%s", m.From.String(size), m.To.String(size))
	if m.Placed != 0 {
		s += fmt.Sprintf("=%c", m.Placed)
	}
	return s
}

// Fight is the fight-phase engine.
type Fight struct {
	variant    game.Variant
	board      *board
	sideToMove game.Color
	history    map[string]int // sfen board occurrences, for repetition
}

// NewFight builds a fight engine from the final placement sfen board.
func NewFight(v game.Variant, placementBoard string) (*Fight, error) {
	f := &Fight{variant: v, board: newBoard(v.BoardSize()), sideToMove: game.White, history: map[string]int{}}
	if err := f.board.parseSFENBoard(placementBoard); err != nil {
		return nil, err
	}
	f.history[f.board.sfenBoard()]++
	return f, nil
}

func (f *Fight) GenerateSFEN() string {
	side := "0"
	if f.sideToMove == game.Black {
		side = "1"
	}
	return fmt.Sprintf("%s|%s", f.board.sfenBoard(), side)
}

func (f *Fight) SetSFEN(s string) error {
	parts := strings.SplitN(s, "|", 2)
	if len(parts) != 2 {
		return errParse
	}
	f.board = newBoard(f.variant.BoardSize())
	if err := f.board.parseSFENBoard(parts[0]); err != nil {
		return err
	}
	if parts[1] == "1" {
		f.sideToMove = game.Black
	} else {
		f.sideToMove = game.White
	}
	f.history = map[string]int{f.board.sfenBoard(): 1}
	return nil
}

// NewFightFromSFEN rebuilds a fight engine from a persisted fight sfen
// ("board|side"), used to revive a match actor mid-fight. Repetition
// history starts fresh at count 1 for the restored position — recovery
// loses only the (rare) in-flight repetition count, never correctness of
// future claims.
func NewFightFromSFEN(v game.Variant, sfen string) (*Fight, error) {
	f := &Fight{variant: v, board: newBoard(v.BoardSize()), history: map[string]int{}}
	if err := f.SetSFEN(sfen); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Fight) SideToMove() game.Color { return f.sideToMove }

// BoardSize returns the board dimension, needed by callers formatting
// move tokens without holding the variant themselves.
func (f *Fight) BoardSize() int { return f.board.size }

func (f *Fight) PieceAt(sq Square) *Piece { return f.board.squares[sq] }

func (f *Fight) InCheck(c game.Color) bool { return f.board.inCheck(c) }

// hasLegalMove reports whether color has any move that doesn't leave its
// own king in check.
func (f *Fight) hasLegalMove(c game.Color) bool {
	for i, p := range f.board.squares {
		if p == nil || p.Color != c {
			continue
		}
		from := Square(i)
		for _, to := range f.board.pseudoLegalTargets(from, *p) {
			trial := f.board.clone()
			trial.squares[to] = trial.squares[from]
			trial.squares[from] = nil
			if !trial.inCheck(c) {
				return true
			}
		}
	}
	return false
}

// LegalMoves enumerates every move for color that doesn't leave its own
// king in check — the AI actor's move-generation entry point.
func (f *Fight) LegalMoves(c game.Color) []NormalMove {
	var out []NormalMove
	for i, p := range f.board.squares {
		if p == nil || p.Color != c {
			continue
		}
		from := Square(i)
		for _, to := range f.board.pseudoLegalTargets(from, *p) {
			trial := f.board.clone()
			trial.squares[to] = trial.squares[from]
			trial.squares[from] = nil
			if trial.inCheck(c) {
				continue
			}
			out = append(out, NormalMove{From: from, To: to})
		}
	}
	return out
}

// Evaluate is a material-balance heuristic from white's perspective, used
// by the AI actor's search; it is not part of the rules oracle's
// verdict-producing surface.
func (f *Fight) Evaluate() int {
	value := map[Kind]int{Pawn: 1, Knight: 3, Bishop: 3, Rook: 5, Queen: 9, Chancellor: 8, ArchBishop: 8, King: 0}
	total := 0
	for _, p := range f.board.squares {
		if p == nil {
			continue
		}
		v := value[p.Kind]
		if p.Color == game.Black {
			v = -v
		}
		total += v
	}
	return total
}

// Clone returns an independent copy for search trees to mutate.
func (f *Fight) Clone() *Fight {
	cp := &Fight{variant: f.variant, board: f.board.clone(), sideToMove: f.sideToMove, history: map[string]int{}}
	for k, v := range f.history {
		cp.history[k] = v
	}
	return cp
}

func (f *Fight) insufficientMaterial() bool {
	count := 0
	for _, p := range f.board.squares {
		if p != nil && p.Kind != King {
			count++
		}
	}
	return count == 0
}

// Play validates and applies a fight move, returning the oracle's verdict.
func (f *Fight) Play(move NormalMove, mover game.Color) (Outcome, error) {
	if mover != f.sideToMove {
		return Outcome{}, errIllegal
	}
	p := f.board.squares[move.From]
	if p == nil || p.Color != mover {
		return Outcome{}, errIllegal
	}
	legal := false
	for _, to := range f.board.pseudoLegalTargets(move.From, *p) {
		if to == move.To {
			legal = true
			break
		}
	}
	if !legal {
		return Outcome{}, errIllegal
	}

	trial := f.board.clone()
	trial.squares[move.To] = trial.squares[move.From]
	trial.squares[move.From] = nil
	if trial.inCheck(mover) {
		return Outcome{}, errIllegal
	}
	f.board = trial
	moved := f.board.squares[move.To]
	if move.Placed != 0 && moved.Kind == Pawn {
		lastRank := f.board.size - 1
		if mover == game.Black {
			lastRank = 0
		}
		if move.To.rank(f.board.size) == lastRank {
			moved.Kind = move.Placed
		}
	}

	f.sideToMove = mover.Opposite()
	key := f.board.sfenBoard()
	f.history[key]++

	opp := f.sideToMove
	inCheck := f.board.inCheck(opp)
	hasMove := f.hasLegalMove(opp)

	switch {
	case inCheck && !hasMove:
		return Outcome{Kind: Checkmate, Color: mover}, nil
	case !inCheck && !hasMove:
		return Outcome{Kind: Stalemate}, nil
	case f.history[key] >= 3:
		return Outcome{Kind: DrawByRepetition}, nil
	case f.insufficientMaterial():
		return Outcome{Kind: DrawByMaterial}, nil
	case inCheck:
		return Outcome{Kind: Check}, nil
	default:
		return Outcome{Kind: MoveOk}, nil
	}
}
