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

package bot

// ServerInterface decouples the bot from the concrete actor system: it
// names only the two operations the ops bot exposes over Discord.
type ServerInterface interface {
	// GameCount reports the number of currently live matches.
	GameCount() int

	// Shutdown persists and retires every live match, the same action
	// the HTTP /shutdown route triggers.
	Shutdown()
}
