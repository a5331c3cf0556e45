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

import "fmt"

// Square is a 0-indexed board offset, rank-major: square = rank*size+file.
type Square int

// parseSquare decodes algebraic notation ("a1".."l12") against a board of
// the given size.
func parseSquare(s string, size int) (Square, error) {
	if len(s) < 2 || len(s) > 3 {
		return -1, fmt.Errorf("rules: bad square %q", s)
	}
	file := int(s[0] - 'a')
	if file < 0 || file >= size {
		return -1, fmt.Errorf("rules: bad file in %q", s)
	}
	var rank int
	if _, err := fmt.Sscanf(s[1:], "%d", &rank); err != nil {
		return -1, fmt.Errorf("rules: bad rank in %q", s)
	}
	rank--
	if rank < 0 || rank >= size {
		return -1, fmt.Errorf("rules: bad rank in %q", s)
	}
	return Square(rank*size + file), nil
}

func (sq Square) String(size int) string {
	file := int(sq) % size
	rank := int(sq)/size + 1
	return fmt.Sprintf("%c%d", 'a'+file, rank)
}

func (sq Square) file(size int) int { return int(sq) % size }
func (sq Square) rank(size int) int { return int(sq) / size }

// attackTables holds precomputed step-move offsets per board size. It is
// initialised once at bootstrap (InitTables) and never mutated afterward,
// the process's only global mutable state besides it being written once.
type attackTables struct {
	knightSteps [][2]int
	kingSteps   [][2]int
}

var tables = map[int]*attackTables{}
var tablesInit bool

// InitTables precomputes per-board-size step tables. Idempotent; intended
// to be called exactly once per process at bootstrap (spec.md §4.9.1).
func InitTables() {
	if tablesInit {
		return
	}
	for _, size := range []int{6, 8, 12} {
		tables[size] = &attackTables{
			knightSteps: [][2]int{{1, 2}, {2, 1}, {-1, 2}, {-2, 1}, {1, -2}, {2, -1}, {-1, -2}, {-2, -1}},
			kingSteps:   [][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}},
		}
	}
	tablesInit = true
}
