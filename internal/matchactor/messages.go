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

package matchactor

import "github.com/MangosArentLiterature/shuuroserver/internal/watch"

// Mailbox messages. The actor's dispatch loop type-switches on these; each
// carries exactly what spec.md §4.2 says the operation needs.

type MsgJoin struct {
	Player string
	Sink   watch.Sink
}

type MsgLeave struct {
	Player string
}

type MsgGetGame struct {
	Reply chan GameSnapshot
}

type MsgGetHand struct {
	Player string
}

type MsgGameMove struct {
	Player string
	Move   string
}

type MsgDraw struct {
	Player string
}

type MsgResign struct {
	Player string
}

type MsgAbort struct{}

type MsgCheckClock struct{}

type MsgSaveState struct {
	Done chan struct{}
}
