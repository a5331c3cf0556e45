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
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Sessions: a TTL'd string store keyed by session id.
type Redis struct {
	client *redis.Client
}

// NewRedis parses uri and opens a client.
func NewRedis(ctx context.Context, uri string) (*Redis, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("store: redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("store: redis ping: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, sid string) (string, error) {
	v, err := r.client.Get(ctx, sid).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return v, err
}

func (r *Redis) Set(ctx context.Context, sid, value string, ttl time.Duration) error {
	return r.client.Set(ctx, sid, value, ttl).Err()
}

func (r *Redis) Expire(ctx context.Context, sid string, ttl time.Duration) error {
	return r.client.Expire(ctx, sid, ttl).Err()
}

// Close closes the underlying client.
func (r *Redis) Close() error { return r.client.Close() }
