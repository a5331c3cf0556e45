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

// Package rules is the Shuuro rules oracle: pure functions over SFEN
// strings that validate and apply selection, placement and fight moves
// and classify the outcome of a fight move. Callers (the match actor)
// treat it as a black box — all variability lives in the input SFEN, per
// spec.md §6.
package rules

import (
	"errors"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
)

// Kind is a piece type, always stored canonically uppercase.
type Kind byte

const (
	Pawn       Kind = 'P'
	Knight     Kind = 'N'
	Bishop     Kind = 'B'
	Rook       Kind = 'R'
	Queen      Kind = 'Q'
	King       Kind = 'K'
	Chancellor Kind = 'C' // fairy: rook+knight
	ArchBishop Kind = 'A' // fairy: bishop+knight
)

// Credit is the selection-phase cost of fielding one of a kind.
var Credit = map[Kind]int{
	Pawn: 1, Knight: 3, Bishop: 3, Rook: 5, Queen: 9, King: 0,
	Chancellor: 8, ArchBishop: 8,
}

var baseKinds = []Kind{Pawn, Knight, Bishop, Rook, Queen}
var fairyKinds = []Kind{Pawn, Knight, Bishop, Rook, Queen, Chancellor, ArchBishop}

// KindsFor returns the piece set available for selection in a variant.
func KindsFor(v game.Variant) []Kind {
	switch v {
	case game.VariantShuuroFairy, game.VariantStandardFairy, game.VariantShuuroMiniFairy:
		return fairyKinds
	default:
		return baseKinds
	}
}

// SelectionCredits is the starting budget for fielding an army.
const SelectionCredits = 800

// Piece is a kind+color pair occupying a square.
type Piece struct {
	Kind  Kind
	Color game.Color
}

// Letter encodes the piece the way SFEN/hands do: uppercase for white,
// lowercase for black.
func (p Piece) Letter() byte {
	if p.Color == game.White {
		return byte(p.Kind)
	}
	return byte(p.Kind) + ('a' - 'A')
}

// OutcomeKind is the rules oracle's verdict on a fight move.
type OutcomeKind int

const (
	MoveOk OutcomeKind = iota
	Check
	Stalemate
	DrawByAgreement
	DrawByRepetition
	DrawByMaterial
	Checkmate
	Resign
	LostOnTime
	FirstMoveError
	MoveNotOk
)

// Outcome is the classified result of a fight move; Color is meaningful
// only for the color-carrying kinds (Checkmate, Resign, LostOnTime,
// FirstMoveError).
type Outcome struct {
	Kind  OutcomeKind
	Color game.Color
}

var errIllegal = errors.New("rules: illegal move")
var errParse = errors.New("rules: malformed sfen")
