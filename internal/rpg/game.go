package rpg

import (
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/rng"
)

const (
	PlayerCount   = 2
	OpponentIndex = PlayerCount

	// NoTarget marks skipped actions and records without a resolved target.
	NoTarget = -1
	// TargetAllPlayers is the target of the opponent's ultimate.
	TargetAllPlayers = -2
)

// Stage is the part of the last recorded action that still has to be applied.
type Stage string

const (
	StageNone    Stage = ""
	StagePrimary Stage = "primary"
	StageAdvance Stage = "advance"
)

func (that Stage) IsValid() bool {
	return that == StageNone || that == StagePrimary || that == StageAdvance
}

// Game is the live state of an RPG skirmish: two players against one opponent.
type Game struct {
	Players  [PlayerCount]*entity.Actor
	Opponent *entity.Actor

	CurrentTurn int
	Round       int
	Moved       [PlayerCount]bool

	LastAction entity.ActionRecord
	Pending    Stage
	Outcome    entity.Outcome

	RNG *rng.Source
}

func NewGame(names [PlayerCount]string, players [PlayerCount]*entity.Archetype, opponent *entity.Archetype, src *rng.Source) *Game {
	game := &Game{
		Opponent:    entity.NewActor(opponent.Name, opponent),
		CurrentTurn: 0,
		Round:       1,
		LastAction:  entity.NoAction,
		Pending:     StageNone,
		Outcome:     entity.OutcomeNone,
		RNG:         src,
	}

	for i := range players {
		game.Players[i] = entity.NewActor(names[i], players[i])
	}

	return game
}

// Actor returns the player at index 0 or 1, the opponent at OpponentIndex, or nil.
func (that *Game) Actor(index int) *entity.Actor {
	switch {
	case index == OpponentIndex:
		return that.Opponent
	case index >= 0 && index < PlayerCount:
		return that.Players[index]
	default:
		return nil
	}
}

func (that *Game) IsTerminal() bool {
	return that.Outcome != entity.OutcomeNone
}

func (that *Game) livingPlayers() []int {
	living := make([]int, 0, PlayerCount)
	for i, player := range that.Players {
		if !player.IsDead() {
			living = append(living, i)
		}
	}

	return living
}

// weakestPlayer picks the living player with the lowest health ratio, lower index on ties.
func (that *Game) weakestPlayer() int {
	weakest := NoTarget
	for _, i := range that.livingPlayers() {
		if weakest == NoTarget || that.Players[i].HealthRatio() < that.Players[weakest].HealthRatio() {
			weakest = i
		}
	}

	return weakest
}
