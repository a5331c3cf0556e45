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

// Package game holds the domain types shared by the lobby, match actors,
// TV aggregator and persistence adapters: sessions, players, challenges,
// and the persisted match document itself.
package game

import "time"

// Color identifies a side. 0 = white, 1 = black.
type Color int

const (
	White Color = 0
	Black Color = 1
)

// Opposite returns the other color.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// Stage is one of the three phases of a match.
type Stage int

const (
	StageSelection Stage = 0
	StagePlacement Stage = 1
	StageFight     Stage = 2
)

// StatusCode mirrors the signed status codes of spec.md §3.
type StatusCode int

const (
	StatusPaused       StatusCode = -2
	StatusLive         StatusCode = -1
	StatusCheckmate    StatusCode = 1
	StatusStalemate    StatusCode = 3
	StatusRepetition   StatusCode = 4
	StatusAgreement    StatusCode = 5
	StatusMaterial     StatusCode = 6
	StatusResignation  StatusCode = 7
	StatusTimeout      StatusCode = 8
	StatusFirstMoveErr StatusCode = 9
	StatusAborted      StatusCode = 10
)

// Result values. 2 means draw/no-winner.
const (
	ResultWhite = 0
	ResultBlack = 1
	ResultDraw  = 2
)

// Variant is the board-size + piece-set combination.
type Variant int

const (
	VariantShuuro Variant = iota
	VariantShuuroFairy
	VariantStandard
	VariantStandardFairy
	VariantShuuroMini
	VariantShuuroMiniFairy
)

// BoardSize returns the square board dimension for the variant.
func (v Variant) BoardSize() int {
	switch v {
	case VariantStandard, VariantStandardFairy:
		return 8
	case VariantShuuroMini, VariantShuuroMiniFairy:
		return 6
	default:
		return 12
	}
}

// DurationSet is the finite whitelist of allowed per-game minutes/increment values.
var DurationSet = map[int]bool{
	1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true,
	9: true, 10: true, 11: true, 12: true, 13: true, 14: true, 15: true,
	16: true, 17: true, 18: true, 19: true, 20: true, 25: true, 30: true,
	35: true, 40: true, 45: true, 60: true, 75: true, 90: true,
}

// ValidDuration reports whether minutes is in DURATION_SET and increment is
// either 0 or also in DURATION_SET.
func ValidDuration(minutes, increment int) bool {
	if !DurationSet[minutes] {
		return false
	}
	return increment == 0 || DurationSet[increment]
}

// PreferredColor is the caller's color preference when opening a challenge.
type PreferredColor int

const (
	PreferWhite PreferredColor = iota
	PreferBlack
	PreferRandom
)

// Opponent is either a named friend or a built-in AI of a given search depth.
type Opponent struct {
	IsAI   bool
	Friend string
	Depth  int // 0..3, only meaningful when IsAI
}

// GameRequest is an open challenge posted to the lobby.
type GameRequest struct {
	Minutes        int
	Increment      int
	Variant        Variant
	SubVariant     string
	PreferredColor PreferredColor
	Opponent       Opponent
}

// Session identifies an anonymous or registered player.
type Session struct {
	ID           string
	Username     string
	Registered   bool
	CodeVerifier string // PKCE verifier for the OAuth exchange, opaque here.
	CreatedAt    time.Time
}

// TTL returns the session's key-value store lifetime.
func (s Session) TTL() time.Duration {
	if s.Registered {
		return 365 * 24 * time.Hour
	}
	return 2 * 24 * time.Hour
}

// Player is the persisted, append-only identity record for a username.
type Player struct {
	Username  string    `bson:"_id"`
	Registered bool     `bson:"reg"`
	CreatedAt time.Time `bson:"created_at"`
}

// Move is an history entry: the textual form of a move as recorded in
// selection_moves/placement_moves/fight_moves. Per §9 open question (iii)
// this is always move.to_fen(), never the engine's own sfen tail.
type Move string

// History is the per-stage move log of a match.
type History struct {
	Selection []Move `bson:"selection_moves"`
	Placement []Move `bson:"placement_moves"`
	Fight     []Move `bson:"fight_moves"`
}

// TimeControl is the clock state attached to a match. See spec.md §4.2.3.
type TimeControl struct {
	LastClickTS      time.Time     `bson:"last_click_ts"`
	Clocks           [2]time.Duration `bson:"clocks"`
	Stage            Stage         `bson:"stage"`
	IncrementSeconds time.Duration `bson:"increment_seconds"`
}

// Match is the persisted ShuuroGame document.
type Match struct {
	ID string `bson:"_id"`

	Players [2]string `bson:"players"`

	Minutes    int     `bson:"minutes"`
	Increment  int     `bson:"increment"`
	Variant    Variant `bson:"variant"`
	SubVariant string  `bson:"sub_variant,omitempty"`

	Stage      Stage      `bson:"stage"`
	SideToMove Color      `bson:"side_to_move"`
	Status     StatusCode `bson:"status"`
	Result     int        `bson:"result"`

	SFEN            string    `bson:"sfen"`
	PlacementStart  string    `bson:"placement_start"`
	GameStart       string    `bson:"game_start"`
	Hands           [2]string `bson:"hands"`
	Credits         [2]int    `bson:"credits"`

	Clocks     [2]time.Duration `bson:"clocks"`
	LastClock  time.Time        `bson:"last_clock_ts"`
	TC         TimeControl      `bson:"tc"`

	History History `bson:"history"`

	Draws [2]bool `bson:"-"`
}

// WithoutHands returns a shallow copy of m with hands blanked, used to
// answer GetGame requests (hands are private to their owner).
func (m Match) WithoutHands() Match {
	m.Hands = [2]string{}
	return m
}

// PlayerIndex returns the color of username in the match, or -1 if the
// username is not a participant.
func (m Match) PlayerIndex(username string) int {
	for i, p := range m.Players {
		if p == username {
			return i
		}
	}
	return -1
}
