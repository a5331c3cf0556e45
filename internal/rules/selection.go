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
	"strings"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
)

// SelectMove is a parsed stage-0 "field this piece" move.
type SelectMove struct {
	Piece Piece
}

// ParseSelectMove parses a selection-stage move token. Anything that
// doesn't match "+<letter>" is not a selection move (the caller treats it
// as an implicit confirm per spec.md §4.2.1).
func ParseSelectMove(s string) (SelectMove, bool) {
	if len(s) != 2 || s[0] != '+' {
		return SelectMove{}, false
	}
	kind, color := kindFromLetter(s[1])
	if _, ok := Credit[kind]; !ok || kind == King {
		return SelectMove{}, false
	}
	return SelectMove{Piece: Piece{Kind: kind, Color: color}}, true
}

// Selection is the selection-phase engine: one per match, holding both
// colors' credit budgets and fielded hands.
type Selection struct {
	variant   game.Variant
	credits   [2]int
	hand      [2]string
	confirmed [2]bool
}

// NewSelection creates a selection engine with full starting credits.
func NewSelection(v game.Variant) *Selection {
	return &Selection{
		variant: v,
		credits: [2]int{SelectionCredits, SelectionCredits},
	}
}

// Play attempts to field one instance of piece.Kind for piece.Color.
// Returns an error if the piece kind is not legal for the variant or the
// color cannot afford it.
func (s *Selection) Play(piece Piece) error {
	cost, ok := Credit[piece.Kind]
	if !ok {
		return errIllegal
	}
	allowed := false
	for _, k := range KindsFor(s.variant) {
		if k == piece.Kind {
			allowed = true
			break
		}
	}
	if !allowed || piece.Kind == King {
		return errIllegal
	}
	c := piece.Color
	if s.credits[c] < cost {
		return errIllegal
	}
	s.credits[c] -= cost
	s.hand[c] += string(piece.Letter())
	return nil
}

// Confirm locks in color's hand. Shuuro always includes a free king, added
// here if the player hasn't already been dealt one.
func (s *Selection) Confirm(color game.Color) {
	s.confirmed[color] = true
	kingLetter := byte(King)
	if color == game.Black {
		kingLetter += 'a' - 'A'
	}
	if !strings.ContainsRune(s.hand[color], rune(kingLetter)) {
		s.hand[color] += string(kingLetter)
	}
}

// NewSelectionFromHands rebuilds a selection engine from persisted hands
// and credits, used to revive a match actor that crashed mid-selection.
// Confirmation state isn't persisted separately, so a revived selection
// always starts with neither side confirmed — at worst a player repeats
// their confirm click.
func NewSelectionFromHands(v game.Variant, hands [2]string, credits [2]int) *Selection {
	return &Selection{variant: v, hand: hands, credits: credits}
}

func (s *Selection) IsConfirmed(color game.Color) bool { return s.confirmed[color] }

func (s *Selection) Hand(color game.Color) string { return s.hand[color] }

// Credits reports color's remaining selection budget, persisted alongside
// the hand so a crashed-and-revived selection can resume exactly.
func (s *Selection) Credits(color game.Color) int { return s.credits[color] }

// CombinedHand concatenates both hands, the seed the placement engine is
// built from (spec.md §4.2.2 step 4).
func (s *Selection) CombinedHand() string { return s.hand[game.White] + s.hand[game.Black] }
