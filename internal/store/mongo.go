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

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
)

const pageSize = 5

// Mongo holds the client and exposes the two collections as separate
// Games/Players implementations (they can't share a single FindOne
// method name across two different document shapes).
type Mongo struct {
	client  *mongo.Client
	Games   *GamesColl
	Players *PlayersColl
}

// GamesColl implements Games against the "games" collection.
type GamesColl struct{ coll *mongo.Collection }

// PlayersColl implements Players against the "players" collection.
type PlayersColl struct{ coll *mongo.Collection }

// NewMongo connects to uri/db and prepares the two collections. It creates
// no index; the username probe (spec.md §6) relies on MongoDB's built-in
// uniqueness of players._id.
func NewMongo(ctx context.Context, uri, db string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("store: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("store: mongo ping: %w", err)
	}
	d := client.Database(db)
	return &Mongo{
		client:  client,
		Games:   &GamesColl{coll: d.Collection("games")},
		Players: &PlayersColl{coll: d.Collection("players")},
	}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error { return m.client.Disconnect(ctx) }

func (g *GamesColl) FindOne(ctx context.Context, id string) (*game.Match, error) {
	var out game.Match
	err := g.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GamesColl) InsertOne(ctx context.Context, m *game.Match) error {
	_, err := g.coll.InsertOne(ctx, m)
	return err
}

func (g *GamesColl) UpdateOne(ctx context.Context, m *game.Match) error {
	_, err := g.coll.UpdateOne(ctx, bson.M{"_id": m.ID}, bson.M{"$set": m})
	return err
}

func (g *GamesColl) DeleteOne(ctx context.Context, id string) error {
	_, err := g.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Unfinished returns every match with status < 0 ("unfinished").
func (g *GamesColl) Unfinished(ctx context.Context) ([]*game.Match, error) {
	cur, err := g.coll.Find(ctx, bson.M{"status": bson.M{"$lt": 0}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*game.Match
	for cur.Next(ctx) {
		var m game.Match
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

// ByPlayer returns finished games for username, newest-by-last-clock
// first, paged pageSize per page, with history replaced by its counts
// only (bandwidth, spec.md §6).
func (g *GamesColl) ByPlayer(ctx context.Context, username string, page int) ([]*game.Match, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "last_clock_ts", Value: -1}}).
		SetSkip(int64(page * pageSize)).
		SetLimit(pageSize)
	cur, err := g.coll.Find(ctx, bson.M{
		"players": bson.M{"$in": []string{username}},
		"status":  bson.M{"$gt": 0},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*game.Match
	for cur.Next(ctx) {
		var m game.Match
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		m.History = game.History{Selection: make([]game.Move, len(m.History.Selection))}
		out = append(out, &m)
	}
	return out, cur.Err()
}

func (p *PlayersColl) Insert(ctx context.Context, pl *game.Player) error {
	_, err := p.coll.InsertOne(ctx, pl)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (p *PlayersColl) FindOne(ctx context.Context, username string) (*game.Player, error) {
	var out game.Player
	err := p.coll.FindOne(ctx, bson.M{"_id": username}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
