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
	"math/rand"
	"strings"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
)

// PutMove is a parsed stage-1 "drop this piece from hand" move.
type PutMove struct {
	To    Square
	Piece Piece
}

// ParsePutMove parses a placement-stage move token of the form
// "<PieceLetter>@<square>", e.g. "P@e4".
func ParsePutMove(s string, size int) (PutMove, bool) {
	parts := strings.SplitN(s, "@", 2)
	if len(parts) != 2 || len(parts[0]) != 1 {
		return PutMove{}, false
	}
	kind, color := kindFromLetter(parts[0][0])
	sq, err := parseSquare(parts[1], size)
	if err != nil {
		return PutMove{}, false
	}
	return PutMove{To: sq, Piece: Piece{Kind: kind, Color: color}}, true
}

func (m PutMove) String(size int) string {
	return fmt.Sprintf("%c@%s", Piece{Kind: m.Kind(), Color: m.Piece.Color}.Letter(), m.To.String(size))
}

func (m PutMove) Kind() Kind { return m.Piece.Kind }

// Placement is the placement-phase engine.
type Placement struct {
	variant    game.Variant
	board      *board
	hand       [2]string
	sideToMove game.Color
}

// NewPlacement builds a placement engine from a combined selection hand
// (uppercase letters for white, lowercase for black).
func NewPlacement(v game.Variant, combinedHand string) *Placement {
	size := v.BoardSize()
	p := &Placement{variant: v, board: newBoard(size), sideToMove: game.White}
	for _, ch := range combinedHand {
		if ch >= 'A' && ch <= 'Z' {
			p.hand[game.White] += string(ch)
		} else {
			p.hand[game.Black] += string(ch)
		}
	}
	return p
}

// GeneratePlinths scatters terrain obstacles on the two middle ranks,
// each square getting one with a 1-in-3 chance drawn from a source seeded
// with seed, so the same seed always gives the same layout. Recovery from
// a persisted sfen never needs this call again (the plinths are already
// baked into the sfen at that point).
func (p *Placement) GeneratePlinths(seed int64) {
	r := rand.New(rand.NewSource(seed))
	size := p.board.size
	mid := size / 2
	rows := []int{mid - 1, mid}
	for _, row := range rows {
		for f := 0; f < size; f++ {
			if r.Intn(3) == 0 {
				p.board.plinths[Square(row*size+f)] = true
			}
		}
	}
}

// EmptyPlacementBoard returns the sfen board fragment before any piece has
// been placed (plinths included once generated).
func (p *Placement) EmptyPlacementBoard() string { return p.board.sfenBoard() }

// GenerateSFEN returns "<board>|<hand>|<side>".
func (p *Placement) GenerateSFEN() string {
	side := "0"
	if p.sideToMove == game.Black {
		side = "1"
	}
	return fmt.Sprintf("%s|%s%s|%s", p.board.sfenBoard(), p.hand[game.White], p.hand[game.Black], side)
}

func (p *Placement) ToSFEN() string { return p.GenerateSFEN() }

// SetSFEN loads board+hand+side from a persisted placement sfen, used to
// seed a revived match actor.
func (p *Placement) SetSFEN(s string) error {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 {
		return errParse
	}
	p.board = newBoard(p.variant.BoardSize())
	if err := p.board.parseSFENBoard(parts[0]); err != nil {
		return err
	}
	p.hand = [2]string{}
	for _, ch := range parts[1] {
		if ch >= 'A' && ch <= 'Z' {
			p.hand[game.White] += string(ch)
		} else {
			p.hand[game.Black] += string(ch)
		}
	}
	if parts[2] == "1" {
		p.sideToMove = game.Black
	} else {
		p.sideToMove = game.White
	}
	return nil
}

// NewPlacementFromSFEN rebuilds a placement engine from a persisted
// placement sfen, used to revive a match actor mid-placement.
func NewPlacementFromSFEN(v game.Variant, sfen string) (*Placement, error) {
	p := &Placement{variant: v, board: newBoard(v.BoardSize())}
	if err := p.SetSFEN(sfen); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Placement) SideToMove() game.Color { return p.sideToMove }
func (p *Placement) GetHand(c game.Color) string { return p.hand[c] }

// IsHandEmpty reports whether color has no more of kind left to place. If
// kind is 0, reports whether color's whole hand is empty.
func (p *Placement) IsHandEmpty(c game.Color, kind Kind) bool {
	if kind == 0 {
		return p.hand[c] == ""
	}
	letter := byte(kind)
	if c == game.Black {
		letter += 'a' - 'A'
	}
	return !strings.ContainsRune(p.hand[c], rune(letter))
}

// HandsEmpty reports whether both hands are fully placed — the condition
// that ends the placement stage (spec.md §4.2.1).
func (p *Placement) HandsEmpty() bool {
	return p.hand[game.White] == "" && p.hand[game.Black] == ""
}

func ownTerritory(c game.Color, sq Square, size int) bool {
	r := sq.rank(size)
	if c == game.White {
		return r < size/2
	}
	return r >= size/2
}

// GetPlacementSquares returns, for each kind still in sideToMove's hand,
// the empty non-plinth squares in that color's own territory.
func (p *Placement) GetPlacementSquares() map[Kind][]Square {
	out := map[Kind][]Square{}
	c := p.sideToMove
	seen := map[Kind]bool{}
	for _, ch := range p.hand[c] {
		kind, _ := kindFromLetter(byte(ch))
		if seen[kind] {
			continue
		}
		seen[kind] = true
		var squares []Square
		for sq := 0; sq < p.board.size*p.board.size; sq++ {
			s := Square(sq)
			if p.board.squares[s] != nil || p.board.plinths[s] {
				continue
			}
			if !ownTerritory(c, s, p.board.size) {
				continue
			}
			squares = append(squares, s)
		}
		out[kind] = squares
	}
	return out
}

// Place drops piece at `to`, removing it from hand. Returns the resulting
// sfen, or an error if the move is illegal.
func (p *Placement) Place(piece Piece, to Square) (string, error) {
	if piece.Color != p.sideToMove {
		return "", errIllegal
	}
	if !ownTerritory(piece.Color, to, p.board.size) {
		return "", errIllegal
	}
	if p.board.squares[to] != nil || p.board.plinths[to] {
		return "", errIllegal
	}
	letter := byte(piece.Kind)
	if piece.Color == game.Black {
		letter += 'a' - 'A'
	}
	idx := strings.IndexRune(p.hand[piece.Color], rune(letter))
	if idx < 0 {
		return "", errIllegal
	}
	p.hand[piece.Color] = p.hand[piece.Color][:idx] + p.hand[piece.Color][idx+1:]
	pc := piece
	p.board.squares[to] = &pc

	// Alternate turns, skipping a side whose hand just emptied.
	next := p.sideToMove.Opposite()
	if p.hand[next] == "" && p.hand[p.sideToMove] != "" {
		next = p.sideToMove
	}
	p.sideToMove = next
	return p.GenerateSFEN(), nil
}
