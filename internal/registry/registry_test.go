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

package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MangosArentLiterature/shuuroserver/internal/matchactor"
)

func TestPutGetDrop(t *testing.T) {
	r := New()
	require.Equal(t, 0, r.Count())

	h := matchactor.Spawn(matchactor.Config{ID: "g1", Players: [2]string{"alice", "bob"}})
	r.Put(h)
	require.Equal(t, 1, r.Count())

	got, ok := r.Get("g1")
	require.True(t, ok)
	require.Equal(t, "g1", got.ID())

	r.Drop("g1")
	require.Equal(t, 0, r.Count())
	_, ok = r.Get("g1")
	require.False(t, ok)
}

func TestAllReturnsEverySpawnedMatch(t *testing.T) {
	r := New()
	r.Put(matchactor.Spawn(matchactor.Config{ID: "g1", Players: [2]string{"a", "b"}}))
	r.Put(matchactor.Spawn(matchactor.Config{ID: "g2", Players: [2]string{"c", "d"}}))

	all := r.All()
	require.Len(t, all, 2)

	ids := map[string]bool{}
	for _, h := range all {
		ids[h.ID()] = true
	}
	require.True(t, ids["g1"])
	require.True(t, ids["g2"])
}
