package rpg

import (
	"fmt"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

type EventKind string

const (
	EventAction        EventKind = "action"
	EventSkipped       EventKind = "skipped"
	EventDamage        EventKind = "damage"
	EventHeal          EventKind = "heal"
	EventMiss          EventKind = "miss"
	EventStatusApplied EventKind = "status_applied"
	EventStatusTick    EventKind = "status_tick"
	EventStatusCleared EventKind = "status_cleared"
	EventDeath         EventKind = "death"
	EventTurn          EventKind = "turn"
	EventRound         EventKind = "round"
	EventOutcome       EventKind = "outcome"
)

// Event is one user-visible consequence of resolving an action.
type Event struct {
	Kind    EventKind
	Actor   int
	Target  int
	Action  entity.ActionKind
	Status  entity.StatusKind
	Amount  float64
	Outcome entity.Outcome
}

var actionNames = map[entity.ActionKind]string{
	entity.ActionBasic:    "a basic attack",
	entity.ActionSpecial:  "a special attack",
	entity.ActionSupport:  "a healing spell",
	entity.ActionUltimate: "the ultimate",
}

func (that *Game) name(index int) string {
	if index == TargetAllPlayers {
		return "everyone"
	}

	if actor := that.Actor(index); actor != nil {
		return actor.Name
	}

	return "nobody"
}

// Announce is the line shown before a player's action resolves.
func (that *Game) Announce(actor int, kind entity.ActionKind) string {
	return fmt.Sprintf("%s prepares %s.", that.name(actor), actionNames[kind])
}

// Narrate renders an event as a line of battle text.
func (that *Game) Narrate(event Event) string {
	switch event.Kind {
	case EventAction:
		return fmt.Sprintf("%s uses %s on %s.", that.name(event.Actor), actionNames[event.Action], that.name(event.Target))
	case EventSkipped:
		return fmt.Sprintf("%s is stunned and loses the turn.", that.name(event.Actor))
	case EventDamage:
		return fmt.Sprintf("%s takes %.0f damage.", that.name(event.Target), event.Amount)
	case EventHeal:
		return fmt.Sprintf("%s recovers %.0f health.", that.name(event.Target), event.Amount)
	case EventMiss:
		return fmt.Sprintf("%s misses.", that.name(event.Actor))
	case EventStatusApplied:
		return fmt.Sprintf("%s is afflicted with %s.", that.name(event.Target), event.Status)
	case EventStatusTick:
		return fmt.Sprintf("%s suffers %.0f %s damage.", that.name(event.Actor), event.Amount, event.Status)
	case EventStatusCleared:
		return fmt.Sprintf("%s is no longer affected by %s.", that.name(event.Actor), event.Status)
	case EventDeath:
		return fmt.Sprintf("%s falls.", that.name(event.Actor))
	case EventTurn:
		return fmt.Sprintf("It is %s's turn.", that.name(event.Actor))
	case EventRound:
		return fmt.Sprintf("Round %.0f begins.", event.Amount)
	case EventOutcome:
		switch event.Outcome {
		case entity.OutcomeWin:
			return fmt.Sprintf("%s is defeated. Victory!", that.Opponent.Name)
		case entity.OutcomeLose:
			return "The party has fallen. Defeat."
		default:
			return "The battle ends in a draw."
		}
	default:
		return ""
	}
}
