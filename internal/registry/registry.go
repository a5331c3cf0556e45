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

// Package registry is the process-wide games registry: a lookup from
// match id to that match's Handle, so the connection actor can resolve
// "/game/<id>" without asking every match actor in turn. Unlike the
// actors elsewhere in this codebase, this is a plain mutex-guarded map —
// lookups are read-mostly and there is no ordering to preserve across
// calls, so a mailbox would only add latency.
package registry

import (
	"sync"

	"github.com/MangosArentLiterature/shuuroserver/internal/matchactor"
)

// Registry maps live match ids to their Handle. matchactor only ever
// depends on this package through the narrow RegistryNotifier interface
// it declares itself, so this import runs one way.
type Registry struct {
	mu    sync.RWMutex
	games map[string]matchactor.Handle
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{games: make(map[string]matchactor.Handle)}
}

// Put registers handle under its own id, overwriting any previous entry.
func (r *Registry) Put(handle matchactor.Handle) {
	r.mu.Lock()
	r.games[handle.ID()] = handle
	r.mu.Unlock()
}

// Get looks up a match by id.
func (r *Registry) Get(id string) (matchactor.Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.games[id]
	return h, ok
}

// Drop removes a match by id. Satisfies matchactor.RegistryNotifier.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	delete(r.games, id)
	r.mu.Unlock()
}

// Count reports the number of live matches, used by the ops bot's /games
// command.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// All returns a snapshot of every live match's Handle, used by the
// operator SaveState action to persist and retire the whole fleet.
func (r *Registry) All() []matchactor.Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]matchactor.Handle, 0, len(r.games))
	for _, h := range r.games {
		all = append(all, h)
	}
	return all
}
