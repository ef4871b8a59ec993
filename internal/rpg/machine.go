package rpg

import "github.com/rocketscienceinc/minigames-backend/internal/entity"

// CanSubmit reports whether a player may start an action right now.
// Turn ownership of the local device is checked by the session, not here.
func (that *Game) CanSubmit(actor int, kind entity.ActionKind) bool {
	if that.IsTerminal() || that.Pending != StageNone {
		return false
	}

	if actor < 0 || actor >= PlayerCount || that.Moved[actor] {
		return false
	}

	player := that.Players[actor]
	if player.IsDead() || !kind.IsValid() {
		return false
	}

	return player.Cooldown(kind) == 0
}

// Submit records a player's action and marks its primary stage as pending.
// Illegal submissions leave the game untouched and return false.
func (that *Game) Submit(actor int, kind entity.ActionKind) bool {
	if !that.CanSubmit(actor, kind) {
		return false
	}

	that.LastAction = entity.ActionRecord{Kind: kind, Actor: actor, Target: NoTarget}
	that.Pending = StagePrimary

	return true
}

// ResolvePrimary applies the pre-action status check and the primary effect of the pending action.
func (that *Game) ResolvePrimary() []Event {
	if that.Pending != StagePrimary {
		return nil
	}

	events, target, skipped := that.act(that.LastAction.Actor, that.LastAction.Kind)

	that.LastAction.Target = target
	that.LastAction.Skipped = skipped
	that.Pending = StageAdvance

	return events
}

// Advance runs the post-action resolution of the pending action and moves the turn on,
// resolving the opponent's turn synchronously once every living player has moved.
func (that *Game) Advance() []Event {
	if that.Pending != StageAdvance {
		return nil
	}

	record := that.LastAction
	events := that.settle(record.Actor, record.Kind, record.Skipped)

	that.Moved[record.Actor] = true
	that.Pending = StageNone

	if that.conclude() {
		return append(events, Event{Kind: EventOutcome, Actor: NoTarget, Target: NoTarget, Outcome: that.Outcome})
	}

	return append(events, that.advanceTurn(record.Actor)...)
}

// Replay re-applies whatever stages of the last action were still pending.
// A fully resolved action replays as a no-op.
func (that *Game) Replay() []Event {
	events := that.ResolvePrimary()

	return append(events, that.Advance()...)
}

func (that *Game) advanceTurn(last int) []Event {
	if next, ok := that.nextPlayer(last); ok {
		that.CurrentTurn = next
		return []Event{{Kind: EventTurn, Actor: next, Target: NoTarget}}
	}

	that.CurrentTurn = OpponentIndex
	events := that.opponentTurn()

	if that.conclude() {
		return append(events, Event{Kind: EventOutcome, Actor: NoTarget, Target: NoTarget, Outcome: that.Outcome})
	}

	that.Round++
	that.Moved = [PlayerCount]bool{}

	first, _ := that.nextPlayer(PlayerCount - 1)
	that.CurrentTurn = first

	return append(events,
		Event{Kind: EventRound, Actor: NoTarget, Target: NoTarget, Amount: float64(that.Round)},
		Event{Kind: EventTurn, Actor: first, Target: NoTarget},
	)
}

// nextPlayer finds the next living player after index that has not moved this round, wrapping around.
func (that *Game) nextPlayer(after int) (int, bool) {
	for step := 1; step <= PlayerCount; step++ {
		i := (after + step) % PlayerCount
		if !that.Players[i].IsDead() && !that.Moved[i] {
			return i, true
		}
	}

	return NoTarget, false
}

// conclude sets the outcome once the opponent or every player is dead. Opponent death wins ties.
func (that *Game) conclude() bool {
	switch {
	case that.Opponent.IsDead():
		that.Outcome = entity.OutcomeWin
	case len(that.livingPlayers()) == 0:
		that.Outcome = entity.OutcomeLose
	default:
		return false
	}

	return true
}
