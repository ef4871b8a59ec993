package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/rng"
	"github.com/rocketscienceinc/minigames-backend/internal/rpg"
)

const (
	actorCount = rpg.PlayerCount + 1

	// maxDraws bounds the fast-forward work a snapshot can ask for.
	maxDraws = 1 << 20
)

type archetypes interface {
	LookupRole(tag string, role entity.Role) (*entity.Archetype, error)
}

func EncodeRPG(game *rpg.Game) ([]byte, error) {
	snapshot := RPGSnapshot{
		Variant:           VariantRPG,
		PlayerNames:       make([]string, 0, rpg.PlayerCount),
		PlayerArchetypes:  make([]string, 0, rpg.PlayerCount),
		Opponent:          game.Opponent.Archetype.Tag,
		Health:            make([]float64, 0, actorCount),
		StatusKinds:       make([]string, 0, actorCount),
		StatusDurations:   make([]int, 0, actorCount),
		Cooldowns:         make([]map[string]int, 0, actorCount),
		CurrentTurn:       game.CurrentTurn,
		Round:             game.Round,
		Moved:             game.Moved[:],
		LastActionKind:    string(game.LastAction.Kind),
		LastActionActor:   game.LastAction.Actor,
		LastActionTarget:  game.LastAction.Target,
		LastActionSkipped: game.LastAction.Skipped,
		PendingStage:      string(game.Pending),
		Seed:              game.RNG.Seed(),
		RNGDraws:          game.RNG.Draws(),
		GameOver:          game.IsTerminal(),
		Outcome:           string(game.Outcome),
	}

	for _, player := range game.Players {
		snapshot.PlayerNames = append(snapshot.PlayerNames, player.Name)
		snapshot.PlayerArchetypes = append(snapshot.PlayerArchetypes, player.Archetype.Tag)
	}

	for i := 0; i < actorCount; i++ {
		actor := game.Actor(i)

		status := actor.Status
		if !status.Active() {
			status = entity.Status{}
		}

		cooldowns := make(map[string]int, len(actor.Cooldowns))
		for kind, turns := range actor.Cooldowns {
			if turns > 0 {
				cooldowns[string(kind)] = turns
			}
		}

		snapshot.Health = append(snapshot.Health, actor.Health)
		snapshot.StatusKinds = append(snapshot.StatusKinds, string(status.Kind))
		snapshot.StatusDurations = append(snapshot.StatusDurations, status.Remaining)
		snapshot.Cooldowns = append(snapshot.Cooldowns, cooldowns)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("could not marshal rpg snapshot: %w", err)
	}

	return data, nil
}

// DecodeRPG rebuilds a game from its snapshot. Empty input yields apperror.ErrNoPriorState,
// anything else that does not describe a valid game yields a wrapped apperror.ErrMalformedSnapshot.
func DecodeRPG(data []byte, catalog archetypes) (*rpg.Game, error) {
	variant, err := Variant(data)
	if err != nil {
		return nil, err
	}

	if variant != VariantRPG {
		return nil, fmt.Errorf("%w: expected %s snapshot, got %s", apperror.ErrMalformedSnapshot, VariantRPG, variant)
	}

	snapshot := RPGSnapshot{LastActionActor: rpg.NoTarget, LastActionTarget: rpg.NoTarget}
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedSnapshot, err)
	}

	game, err := snapshot.build(catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedSnapshot, err)
	}

	return game, nil
}

var (
	errShape = errors.New("unexpected array length")
	errRange = errors.New("value out of range")
)

func (that *RPGSnapshot) build(catalog archetypes) (*rpg.Game, error) {
	if err := that.validate(); err != nil {
		return nil, err
	}

	game := &rpg.Game{
		CurrentTurn: that.CurrentTurn,
		Round:       that.Round,
		LastAction: entity.ActionRecord{
			Kind:    entity.ActionKind(that.LastActionKind),
			Actor:   that.LastActionActor,
			Target:  that.LastActionTarget,
			Skipped: that.LastActionSkipped,
		},
		Pending: rpg.Stage(that.PendingStage),
		Outcome: entity.Outcome(that.Outcome),
		RNG:     rng.Restore(that.Seed, that.RNGDraws),
	}
	copy(game.Moved[:], that.Moved)

	opponent, err := catalog.LookupRole(that.Opponent, entity.RoleOpponent)
	if err != nil {
		return nil, err
	}

	game.Opponent, err = that.actor(rpg.OpponentIndex, opponent.Name, opponent)
	if err != nil {
		return nil, err
	}

	for i := range game.Players {
		archetype, lookupErr := catalog.LookupRole(that.PlayerArchetypes[i], entity.RolePlayer)
		if lookupErr != nil {
			return nil, lookupErr
		}

		game.Players[i], err = that.actor(i, that.PlayerNames[i], archetype)
		if err != nil {
			return nil, err
		}
	}

	return game, nil
}

func (that *RPGSnapshot) actor(index int, name string, archetype *entity.Archetype) (*entity.Actor, error) {
	health := that.Health[index]
	if math.IsNaN(health) || health < 0 || health > archetype.MaxHealth {
		return nil, fmt.Errorf("%w: health %v of actor %d", errRange, health, index)
	}

	actor := &entity.Actor{
		Name:      name,
		Archetype: archetype,
		Health:    health,
		Status:    entity.Status{Kind: entity.StatusKind(that.StatusKinds[index]), Remaining: that.StatusDurations[index]},
		Cooldowns: make(map[entity.ActionKind]int, len(that.Cooldowns[index])),
	}

	for kind, turns := range that.Cooldowns[index] {
		if !entity.ActionKind(kind).IsValid() || turns <= 0 {
			return nil, fmt.Errorf("%w: cooldown %s=%d of actor %d", errRange, kind, turns, index)
		}

		actor.Cooldowns[entity.ActionKind(kind)] = turns
	}

	return actor, nil
}

func (that *RPGSnapshot) validate() error {
	if len(that.PlayerNames) != rpg.PlayerCount || len(that.PlayerArchetypes) != rpg.PlayerCount || len(that.Moved) != rpg.PlayerCount {
		return fmt.Errorf("%w: players", errShape)
	}

	if len(that.Health) != actorCount || len(that.StatusKinds) != actorCount ||
		len(that.StatusDurations) != actorCount || len(that.Cooldowns) != actorCount {
		return fmt.Errorf("%w: actors", errShape)
	}

	for i := 0; i < actorCount; i++ {
		kind := entity.StatusKind(that.StatusKinds[i])
		if !kind.IsValid() || that.StatusDurations[i] < 0 || (kind == entity.StatusNone) != (that.StatusDurations[i] == 0) {
			return fmt.Errorf("%w: status of actor %d", errRange, i)
		}
	}

	if that.CurrentTurn < 0 || that.CurrentTurn > rpg.OpponentIndex || that.Round < 1 {
		return fmt.Errorf("%w: turn", errRange)
	}

	kind := entity.ActionKind(that.LastActionKind)
	stage := rpg.Stage(that.PendingStage)

	switch {
	case !stage.IsValid():
		return fmt.Errorf("%w: pending stage %q", errRange, that.PendingStage)
	case kind == entity.ActionNone && (stage != rpg.StageNone || that.LastActionActor != rpg.NoTarget):
		return fmt.Errorf("%w: pending stage without an action", errRange)
	case kind != entity.ActionNone && (!kind.IsValid() || that.LastActionActor < 0 || that.LastActionActor >= rpg.PlayerCount):
		return fmt.Errorf("%w: last action", errRange)
	case that.LastActionTarget < rpg.TargetAllPlayers || that.LastActionTarget > rpg.OpponentIndex:
		return fmt.Errorf("%w: last action target", errRange)
	}

	outcome := entity.Outcome(that.Outcome)
	if !outcome.IsValid() || that.GameOver != (outcome != entity.OutcomeNone) {
		return fmt.Errorf("%w: outcome", errRange)
	}

	if that.RNGDraws > maxDraws {
		return fmt.Errorf("%w: rng draws", errRange)
	}

	return nil
}
