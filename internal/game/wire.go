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

package game

import "encoding/json"

// MessageTag is the fixed-order wire enum. The integer values must not be
// reordered — the existing client depends on them.
type MessageTag int

const (
	TagChangeRoom MessageTag = iota
	TagAddGameRequest
	TagGetHand
	TagSelectMove
	TagPlacePiece
	TagMovePiece
	TagConfirmSelection
	TagDraw
	TagResign
	TagGetTv
	TagSaveState
	TagStartClock
	TagPlayerCount
	TagGameCount
	TagGameEnd
	TagRedirectToGame
	TagAddTvGame
	TagNewTvMove
	TagRemoveTvGame
)

// ClientMessage is the envelope every inbound/outbound text frame uses:
// {"t": <MessageTag>, "d": <payload>}.
type ClientMessage struct {
	T MessageTag      `json:"t"`
	D json.RawMessage `json:"d"`
}

// Encode marshals tag and payload into a wire frame.
func Encode(tag MessageTag, payload any) ([]byte, error) {
	d, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ClientMessage{T: tag, D: d})
}

// Room is the connection actor's notion of what it is currently bound to.
type Room int

const (
	RoomNone Room = iota
	RoomHome
	RoomTv
	RoomGame
)

// ParseRoom maps a ChangeRoom payload string to a Room and, for "/game/<id>",
// the game id.
func ParseRoom(s string) (Room, string) {
	switch {
	case s == "home":
		return RoomHome, ""
	case s == "tv":
		return RoomTv, ""
	case len(s) > len("/game/") && s[:len("/game/")] == "/game/":
		return RoomGame, s[len("/game/"):]
	default:
		return RoomNone, ""
	}
}

// Outbound payload shapes (§4 / §8).

type StartClockPayload struct {
	Players [2]string `json:"players"`
	Now     int64     `json:"now"`
}

type PlayerCountPayload struct {
	Count int `json:"count"`
}

type GameCountPayload struct {
	Count int `json:"count"`
}

type PlacePiecePayload struct {
	Clocks         [2]int64 `json:"clocks"`
	FirstMoveError bool     `json:"first_move_error"`
	NextStage      Stage    `json:"next_stage"`
	SFEN           string   `json:"sfen"`
}

type MovePiecePayload struct {
	Clocks [2]int64   `json:"clocks"`
	Status StatusCode `json:"status"`
	Result int        `json:"result"`
	Move   string     `json:"game_move"`
}

type GameEndPayload struct {
	Status StatusCode `json:"status"`
	Result int        `json:"result"`
}

type GetHandPayload struct {
	Hand string `json:"hand"`
}

type ConfirmSelectionPayload struct {
	Confirmed [2]bool `json:"confirmed"`
}

type RedirectToGamePayload struct {
	Game string `json:"game"`
}

type RedirectToPlacementPayload struct {
	ID      string    `json:"id"`
	Now     int64     `json:"now"`
	Players [2]string `json:"players"`
	SFEN    string    `json:"sfen"`
	Variant Variant   `json:"variant"`
}

type TvGame struct {
	ID        string    `json:"id"`
	Players   [2]string `json:"players"`
	SFEN      string    `json:"sfen"`
	Variant   Variant   `json:"variant"`
	LastClock int64     `json:"last_clock"`
}

type NewTvMovePayload struct {
	ID             string `json:"id"`
	SFEN           string `json:"sfen"`
	FirstMoveError bool   `json:"first_move_error"`
}

type RemoveTvGamePayload struct {
	ID string `json:"id"`
}

type DrawOfferPayload struct {
	From string `json:"from"`
}

// Inbound payload shapes.

type ChangeRoomPayload struct {
	Room string `json:"room"`
}

type AddGameRequestPayload struct {
	Minutes        int    `json:"minutes"`
	Increment      int    `json:"increment"`
	Variant        int    `json:"variant"`
	SubVariant     string `json:"sub_variant,omitempty"`
	PreferredColor int    `json:"preferred_color"`
	Friend         string `json:"friend,omitempty"`
	AI             bool   `json:"ai,omitempty"`
	AIDepth        int    `json:"ai_depth,omitempty"`
}

type GameMovePayload struct {
	Move string `json:"move"`
}
