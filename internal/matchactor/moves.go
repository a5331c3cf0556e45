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

import (
	"fmt"
	"time"

	"github.com/MangosArentLiterature/shuuroserver/internal/game"
	"github.com/MangosArentLiterature/shuuroserver/internal/logger"
	"github.com/MangosArentLiterature/shuuroserver/internal/rules"
)

// onGameMove dispatches a move token to whichever stage engine currently
// owns the match, per spec.md §4.2.1. Anything malformed or out of turn
// is silently ignored — the sender's own client is the only one that
// cares, and it will simply see no state change.
func (a *Actor) onGameMove(m MsgGameMove) (stop bool) {
	idx := a.match.PlayerIndex(m.Player)
	if idx < 0 {
		return false
	}
	color := game.Color(idx)
	switch a.match.Stage {
	case game.StageSelection:
		return a.playSelection(color, m.Move)
	case game.StagePlacement:
		return a.playPlacement(color, m.Move)
	case game.StageFight:
		return a.playFight(color, m.Move)
	}
	return false
}

func (a *Actor) playSelection(color game.Color, move string) bool {
	if a.selection.IsConfirmed(color) {
		return false
	}
	now := a.now()

	if sm, ok := rules.ParseSelectMove(move); ok {
		if sm.Piece.Color != color {
			return false
		}
		if err := a.selection.Play(sm.Piece); err != nil {
			return false
		}
		a.match.History.Selection = append(a.match.History.Selection, game.Move(move))
		a.match.Hands = [2]string{a.selection.Hand(game.White), a.selection.Hand(game.Black)}
		a.match.Credits = [2]int{a.selection.Credits(game.White), a.selection.Credits(game.Black)}
		a.persist()
		return false
	}

	// Not a "+<letter>" token: an implicit confirm.
	a.selection.Confirm(color)
	a.tc.Select(color, now)
	confirmed := [2]bool{a.selection.IsConfirmed(game.White), a.selection.IsConfirmed(game.Black)}
	a.broadcast(game.TagConfirmSelection, game.ConfirmSelectionPayload{Confirmed: confirmed})
	a.maybeAIAct()

	if !confirmed[game.White] || !confirmed[game.Black] {
		a.ticker.SetInterval(a.nextTickerInterval(now))
		return false
	}

	combined := a.selection.CombinedHand()
	a.placement = rules.NewPlacement(a.match.Variant, combined)
	a.placement.GeneratePlinths(plinthSeed(a.id))
	a.match.Hands = [2]string{a.selection.Hand(game.White), a.selection.Hand(game.Black)}
	a.match.Stage = game.StagePlacement
	a.tc.UpdateStage(game.StagePlacement, now)
	a.match.PlacementStart = a.placement.GenerateSFEN()
	a.match.SFEN = a.match.PlacementStart
	logger.WriteAuditEvent("stage_change", a.id, "stage=placement")

	a.broadcast(game.TagRedirectToGame, game.RedirectToPlacementPayload{
		ID:      a.id,
		Now:     now.UnixMilli(),
		Players: a.match.Players,
		SFEN:    a.match.SFEN,
		Variant: a.match.Variant,
	})
	a.ticker.SetInterval(a.nextTickerInterval(now))
	a.maybeAIAct()
	return false
}

func (a *Actor) playPlacement(color game.Color, move string) bool {
	size := a.match.Variant.BoardSize()
	pm, ok := rules.ParsePutMove(move, size)
	if !ok || pm.Piece.Color != color {
		return false
	}
	now := a.now()
	sfen, err := a.placement.Place(pm.Piece, pm.To)
	if err != nil {
		return false
	}

	clocks, ok := a.tc.Play(color, now)
	if !ok {
		return a.finishTimeout(color, now)
	}

	a.match.History.Placement = append(a.match.History.Placement, game.Move(move))
	a.match.SFEN = sfen
	a.match.Clocks = clocks

	nextStage := a.match.Stage
	if a.placement.HandsEmpty() {
		nextStage = game.StageFight
	}

	firstMoveError := false
	if nextStage == game.StageFight {
		a.match.GameStart = sfen
		fight, err := rules.NewFight(a.match.Variant, placementBoardOf(sfen))
		if err != nil {
			return false
		}
		a.fight = fight
		a.match.Stage = game.StageFight
		a.tc.UpdateStage(game.StageFight, now)
		a.match.SFEN = a.fight.GenerateSFEN()
		logger.WriteAuditEvent("stage_change", a.id, "stage=fight")

		if a.fight.InCheck(a.fight.SideToMove()) {
			firstMoveError = true
		} else {
			a.tv.Add(game.TvGame{ID: a.id, Players: a.match.Players, SFEN: a.match.SFEN, Variant: a.match.Variant, LastClock: now.UnixMilli()})
		}
	}

	a.broadcast(game.TagPlacePiece, game.PlacePiecePayload{
		Clocks:         [2]int64{int64(clocks[0]), int64(clocks[1])},
		FirstMoveError: firstMoveError,
		NextStage:      nextStage,
		SFEN:           sfen,
	})

	if firstMoveError {
		a.match.Status = game.StatusFirstMoveErr
		a.match.Result = int(a.fight.SideToMove().Opposite())
		return a.finishTerminal(now)
	}

	a.persist()
	a.ticker.SetInterval(a.nextTickerInterval(now))
	a.maybeAIAct()
	return false
}

// placementBoardOf strips the hand/side fragments off a placement sfen,
// leaving just the board fragment the fight engine seeds from.
func placementBoardOf(sfen string) string {
	for i := 0; i < len(sfen); i++ {
		if sfen[i] == '|' {
			return sfen[:i]
		}
	}
	return sfen
}

func (a *Actor) playFight(color game.Color, move string) bool {
	if a.fight.SideToMove() != color {
		return false
	}
	size := a.match.Variant.BoardSize()
	nm, ok := rules.ParseNormalMove(move, size)
	if !ok {
		return false
	}
	now := a.now()
	outcome, err := a.fight.Play(nm, color)
	if err != nil {
		return false
	}

	clocks, ok := a.tc.Play(color, now)
	if !ok {
		return a.finishTimeout(color, now)
	}

	a.match.History.Fight = append(a.match.History.Fight, game.Move(move))
	a.match.SFEN = a.fight.GenerateSFEN()
	a.match.Clocks = clocks
	a.tv.Move(a.id, a.match.SFEN, false)

	status, result, terminal := classify(outcome, color)
	a.broadcast(game.TagMovePiece, game.MovePiecePayload{
		Clocks: [2]int64{int64(clocks[0]), int64(clocks[1])},
		Status: status,
		Result: result,
		Move:   move,
	})
	if terminal {
		a.match.Status = status
		a.match.Result = result
		return a.finishTerminal(now)
	}
	a.persist()
	a.ticker.SetInterval(a.nextTickerInterval(now))
	a.maybeAIAct()
	return false
}

func classify(o rules.Outcome, mover game.Color) (status game.StatusCode, result int, terminal bool) {
	switch o.Kind {
	case rules.Checkmate:
		return game.StatusCheckmate, int(mover), true
	case rules.Stalemate:
		return game.StatusStalemate, game.ResultDraw, true
	case rules.DrawByRepetition:
		return game.StatusRepetition, game.ResultDraw, true
	case rules.DrawByMaterial:
		return game.StatusMaterial, game.ResultDraw, true
	default:
		return game.StatusLive, game.ResultDraw, false
	}
}

func (a *Actor) onDraw(m MsgDraw) bool {
	idx := a.match.PlayerIndex(m.Player)
	if idx < 0 {
		return false
	}
	a.match.Draws[idx] = true
	if a.match.Draws[0] && a.match.Draws[1] {
		a.match.Status = game.StatusAgreement
		a.match.Result = game.ResultDraw
		return a.finishTerminal(a.now())
	}
	opponent := a.match.Players[game.Color(idx).Opposite()]
	a.notifyOne(opponent, game.TagDraw, game.DrawOfferPayload{From: m.Player})
	return false
}

func (a *Actor) onResign(m MsgResign) bool {
	idx := a.match.PlayerIndex(m.Player)
	if idx < 0 {
		return false
	}
	color := game.Color(idx)
	now := a.now()
	a.tc.Play(color, now)
	a.match.Status = game.StatusResignation
	a.match.Result = int(color.Opposite())
	return a.finishTerminal(now)
}

func (a *Actor) onAbort() {
	a.match.Status = game.StatusAborted
	a.match.Result = game.ResultDraw
	logger.WriteAuditEvent("abort", a.id, fmt.Sprintf("players=%s,%s", a.match.Players[0], a.match.Players[1]))
	a.teardown()
	a.ticker.Stop()
	a.deleteFromStore()
	a.broadcast(game.TagGameEnd, game.GameEndPayload{Status: a.match.Status, Result: a.match.Result})
	if a.notify != nil {
		a.notify(a.id, a.match.Players, a.match.Status, a.match.Result, a.match.Minutes)
	}
}

func (a *Actor) finishTimeout(loser game.Color, now time.Time) bool {
	a.tc.SetToZero(loser)
	a.match.Status = game.StatusTimeout
	a.match.Result = int(loser.Opposite())
	return a.finishTerminal(now)
}

// finishTerminal persists the final document, broadcasts GameEnd and tears
// the actor down. Returns true so callers can propagate "stop the loop".
func (a *Actor) finishTerminal(now time.Time) bool {
	logger.WriteAuditEvent("terminal", a.id, fmt.Sprintf("status=%d,result=%d", a.match.Status, a.match.Result))
	a.ticker.Stop()
	a.persist()
	a.tv.Remove(a.id)
	a.teardown()
	a.broadcast(game.TagGameEnd, game.GameEndPayload{Status: a.match.Status, Result: a.match.Result})
	if a.notify != nil {
		a.notify(a.id, a.match.Players, a.match.Status, a.match.Result, a.match.Minutes)
	}
	return true
}

func (a *Actor) onSaveState(m MsgSaveState) {
	a.ticker.Stop()
	a.match.Status = game.StatusPaused
	a.persist()
	a.teardown()
	close(m.Done)
}

func (a *Actor) teardown() {
	a.lobby.ReleasePlayers(a.match.Players)
	a.registry.Drop(a.id)
}
