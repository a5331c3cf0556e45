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

// Package ids generates the random, base64url-derived identifiers used
// for session ids, game ids and anonymous usernames (spec.md §6).
package ids

import (
	"crypto/rand"
	"encoding/base64"
	"regexp"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

func randomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failing means the OS entropy source is broken
	}
	return nonAlnum.ReplaceAllString(base64.RawURLEncoding.EncodeToString(buf), "")
}

// NewGameID returns a random 9-byte, base64url id stripped of
// non-alphanumerics. Callers are responsible for collision-checking
// against the store (spec.md §6).
func NewGameID() string { return randomToken(9) }

// NewSessionID returns a random session id for the key-value store.
func NewSessionID() string { return randomToken(24) }

// NewAnonUsername returns a random "Anon-XXXXXX" username.
func NewAnonUsername() string {
	suffix := randomToken(6)
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return "Anon-" + suffix
}

// NewCodeVerifier returns a 32-byte, base64url PKCE code verifier.
func NewCodeVerifier() string { return randomToken(32) }
