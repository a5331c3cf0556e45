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

// Package store is the CRUD contract spec.md §6 requires of the document
// store (the `games` and `players` collections) and the TTL'd key-value
// session store, plus the MongoDB and Redis adapters that implement it.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
)

// ErrNotFound is returned by Games/Players lookups that miss.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned by Players.Insert when the username already
// exists — used to probe for fresh random usernames (spec.md §6).
var ErrDuplicate = errors.New("store: duplicate key")

// Games is the persistence contract for ShuuroGame documents.
type Games interface {
	FindOne(ctx context.Context, id string) (*game.Match, error)
	InsertOne(ctx context.Context, m *game.Match) error
	UpdateOne(ctx context.Context, m *game.Match) error
	DeleteOne(ctx context.Context, id string) error
	Unfinished(ctx context.Context) ([]*game.Match, error)
	ByPlayer(ctx context.Context, username string, page int) ([]*game.Match, error)
}

// Players is the persistence contract for player documents.
type Players interface {
	Insert(ctx context.Context, p *game.Player) error
	FindOne(ctx context.Context, username string) (*game.Player, error)
}

// Sessions is the TTL'd key-value session store: get/set/expire on
// string keys and values.
type Sessions interface {
	Get(ctx context.Context, sid string) (string, error)
	Set(ctx context.Context, sid, value string, ttl time.Duration) error
	Expire(ctx context.Context, sid string, ttl time.Duration) error
}
