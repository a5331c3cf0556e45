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
	"strconv"
	"strings"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
)

// board is the shared square grid used by the placement and fight
// engines. nil entries are empty squares; plinths are tracked separately
// since a square may carry a plinth and a piece at once: a plinth blocks
// placement and a pawn's forward step, but other fight moves may land on
// it.
type board struct {
	size    int
	squares []*Piece
	plinths map[Square]bool
}

func newBoard(size int) *board {
	return &board{size: size, squares: make([]*Piece, size*size), plinths: map[Square]bool{}}
}

func (b *board) clone() *board {
	nb := newBoard(b.size)
	copy(nb.squares, b.squares)
	for k, v := range b.plinths {
		nb.plinths[k] = v
	}
	return nb
}

// sfenBoard encodes just the board+plinth part of an sfen (no hand, no
// side-to-move); ranks are separated by '/', starting at the highest
// rank, consistent with the "rank 1 is the bottom" convention used when
// parsing squares.
func (b *board) sfenBoard() string {
	var sb strings.Builder
	for r := b.size - 1; r >= 0; r-- {
		empty := 0
		for f := 0; f < b.size; f++ {
			sq := Square(r*b.size + f)
			p := b.squares[sq]
			plinth := b.plinths[sq]
			if p == nil && !plinth {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			if p != nil {
				sb.WriteByte(p.Letter())
			} else {
				sb.WriteByte('*') // bare plinth, no piece
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// parseSFENBoard fills b from the board portion of an sfen string.
func (b *board) parseSFENBoard(s string) error {
	ranks := strings.Split(s, "/")
	if len(ranks) != b.size {
		return errParse
	}
	for i, rankStr := range ranks {
		r := b.size - 1 - i
		f := 0
		for _, ch := range rankStr {
			if f >= b.size {
				return errParse
			}
			switch {
			case ch >= '0' && ch <= '9':
				f += int(ch - '0')
			case ch == '*':
				b.plinths[Square(r*b.size+f)] = true
				f++
			default:
				kind := Kind(ch)
				color := game.White
				if ch >= 'a' && ch <= 'z' {
					kind = Kind(byte(ch) - ('a' - 'A'))
					color = game.Black
				}
				b.squares[Square(r*b.size+f)] = &Piece{Kind: kind, Color: color}
				f++
			}
		}
	}
	return nil
}

func kindFromLetter(ch byte) (Kind, game.Color) {
	if ch >= 'a' && ch <= 'z' {
		return Kind(ch - ('a' - 'A')), game.Black
	}
	return Kind(ch), game.White
}

// direction is one (dx, dy) step; the tables below list the step/slide
// directions per piece kind.
type direction struct{ dx, dy int }

var rookDirs = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var knightSteps = []direction{{1, 2}, {2, 1}, {-1, 2}, {-2, 1}, {1, -2}, {2, -1}, {-1, -2}, {-2, -1}}
var kingSteps = append(append([]direction{}, rookDirs...), bishopDirs...)

// pseudoLegalTargets returns the squares a piece on `from` may move to,
// ignoring whether the mover is left in check (checkmate detection below
// does a simple "can I escape check" scan rather than full legality
// filtering, matching the oracle's treatment as a deliberately simple,
// pure function rather than an optimal engine).
func (b *board) pseudoLegalTargets(from Square, p Piece) []Square {
	var out []Square
	add := func(to Square) bool {
		// returns true if we should keep sliding past `to`
		if b.squares[to] != nil {
			if b.squares[to].Color != p.Color {
				out = append(out, to)
			}
			return false
		}
		out = append(out, to)
		return true
	}
	fx, fy := from.file(b.size), from.rank(b.size)
	switch p.Kind {
	case Knight:
		for _, d := range knightSteps {
			x, y := fx+d.dx, fy+d.dy
			if x < 0 || y < 0 || x >= b.size || y >= b.size {
				continue
			}
			add(Square(y*b.size + x))
		}
	case King:
		for _, d := range kingSteps {
			x, y := fx+d.dx, fy+d.dy
			if x < 0 || y < 0 || x >= b.size || y >= b.size {
				continue
			}
			add(Square(y*b.size + x))
		}
	case Rook, Bishop, Queen, Chancellor, ArchBishop:
		var dirs []direction
		switch p.Kind {
		case Rook:
			dirs = rookDirs
		case Bishop:
			dirs = bishopDirs
		case Queen:
			dirs = kingSteps
		case Chancellor:
			dirs = rookDirs
		case ArchBishop:
			dirs = bishopDirs
		}
		for _, d := range dirs {
			x, y := fx+d.dx, fy+d.dy
			for x >= 0 && y >= 0 && x < b.size && y < b.size {
				if !add(Square(y*b.size + x)) {
					break
				}
				x += d.dx
				y += d.dy
			}
		}
		if p.Kind == Chancellor || p.Kind == ArchBishop {
			for _, d := range knightSteps {
				x, y := fx+d.dx, fy+d.dy
				if x < 0 || y < 0 || x >= b.size || y >= b.size {
					continue
				}
				add(Square(y*b.size + x))
			}
		}
	case Pawn:
		dir := 1
		if p.Color == game.Black {
			dir = -1
		}
		fwd := Square((fy+dir)*b.size + fx)
		if fy+dir >= 0 && fy+dir < b.size && b.squares[fwd] == nil && !b.plinths[fwd] {
			out = append(out, fwd)
		}
		for _, dx := range []int{-1, 1} {
			x, y := fx+dx, fy+dir
			if x < 0 || y < 0 || x >= b.size || y >= b.size {
				continue
			}
			to := Square(y*b.size + x)
			if b.squares[to] != nil && b.squares[to].Color != p.Color {
				out = append(out, to)
			}
		}
	}
	return out
}

// kingSquare locates color's king, or -1 if captured (checkmate already
// happened by capture, which the match loop treats as a normal capture
// followed by a Checkmate outcome on the mover's next reply — practically
// this never surfaces since InCheck gates legality, see fight.go).
func (b *board) kingSquare(c game.Color) Square {
	for i, p := range b.squares {
		if p != nil && p.Kind == King && p.Color == c {
			return Square(i)
		}
	}
	return -1
}

// attacks reports whether `by` attacks square `target`.
func (b *board) attacks(by game.Color, target Square) bool {
	for i, p := range b.squares {
		if p == nil || p.Color != by {
			continue
		}
		for _, to := range b.pseudoLegalTargets(Square(i), *p) {
			if to == target {
				return true
			}
		}
	}
	return false
}

func (b *board) inCheck(c game.Color) bool {
	k := b.kingSquare(c)
	if k < 0 {
		return false
	}
	return b.attacks(c.Opposite(), k)
}
