package rpg

import "github.com/rocketscienceinc/minigames-backend/internal/entity"

// enrageRatio is the health ratio below which the opponent starts healing and favours its ultimate.
const enrageRatio = 0.5

// opponentTurn resolves the opponent's whole turn through the same pre/post pipeline as players.
func (that *Game) opponentTurn() []Event {
	kind := that.decide()

	events, target, skipped := that.act(OpponentIndex, kind)
	if !skipped {
		events = append([]Event{{Kind: EventAction, Actor: OpponentIndex, Target: target, Action: kind}}, events...)
	}

	return append(events, that.settle(OpponentIndex, kind, skipped)...)
}

// decide makes a weighted random choice among the actions that are off cooldown.
func (that *Game) decide() entity.ActionKind {
	opponent := that.Opponent
	enraged := opponent.HealthRatio() < enrageRatio

	weights := make([]float64, len(entity.ActionKinds))
	total := 0.0

	for i, kind := range entity.ActionKinds {
		weight := opponent.Archetype.Weights.For(kind)

		switch {
		case opponent.Cooldown(kind) > 0:
			weight = 0
		case kind == entity.ActionSupport && !enraged:
			weight = 0
		case kind == entity.ActionUltimate && enraged:
			weight *= 2
		}

		if weight < 0 {
			weight = 0
		}

		weights[i] = weight
		total += weight
	}

	if total <= 0 {
		return entity.ActionBasic
	}

	roll := that.RNG.Float64() * total
	for i, weight := range weights {
		if roll < weight {
			return entity.ActionKinds[i]
		}

		roll -= weight
	}

	// float rounding can leave roll at the very top of the range
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return entity.ActionKinds[i]
		}
	}

	return entity.ActionBasic
}
