package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/codec"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/rng"
	"github.com/rocketscienceinc/minigames-backend/internal/rpg"
	"github.com/rocketscienceinc/minigames-backend/internal/tictactoe"
)

type hostBridge interface {
	Notify(ctx context.Context, snapshot string)
}

type archetypes interface {
	LookupRole(tag string, role entity.Role) (*entity.Archetype, error)
}

// Config describes one launch. Snapshot is the inner state handed over by the host;
// an empty one starts a fresh game.
type Config struct {
	ID       string
	Scene    string
	Snapshot []byte

	PlayerNames      [2]string
	PlayerArchetypes [2]string
	Opponent         string
	// Seed is used for fresh games; zero asks for a random one.
	Seed int64

	NarrationDelay time.Duration

	Catalog  archetypes
	Bridge   hostBridge
	Narrator func(line string)
	Logger   *slog.Logger
}

// Bootstrap starts a fresh game or resumes the one in cfg.Snapshot.
// A resumed session takes the index of the player that did not make the last move,
// and replays whatever part of that move had not been applied yet.
func Bootstrap(ctx context.Context, cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}

	session := &Session{
		id:       id,
		logger:   logger.With("component", "session", "sessionID", id),
		bridge:   cfg.Bridge,
		narrator: cfg.Narrator,
		delay:    cfg.NarrationDelay,
	}
	session.queue = NewQueue(session.show)

	fresh := codec.IsEmptySnapshot(cfg.Snapshot)

	scene := cfg.Scene
	if !fresh {
		variant, err := codec.Variant(cfg.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}

		if scene != "" && scene != variant {
			return nil, fmt.Errorf("%w: scene %s got a %s snapshot", apperror.ErrMalformedSnapshot, scene, variant)
		}

		scene = variant
	}

	session.scene = scene

	var err error
	switch scene {
	case codec.VariantRPG:
		err = session.bootstrapRPG(cfg, fresh)
	case codec.VariantTicTacToe:
		err = session.bootstrapTicTacToe(cfg, fresh)
	default:
		err = fmt.Errorf("%w: %q", apperror.ErrUnknownScene, scene)
	}

	if err != nil {
		return nil, err
	}

	// a game that was already over when handed back has nothing new for the host
	session.delivered = session.state.isTerminal()

	session.logger.InfoContext(ctx, "session started", "scene", scene, "fresh", fresh, "myPlayerIndex", session.me)

	return session, nil
}

func (that *Session) bootstrapRPG(cfg Config, fresh bool) error {
	if !fresh {
		game, err := codec.DecodeRPG(cfg.Snapshot, cfg.Catalog)
		if err != nil {
			return fmt.Errorf("failed to decode snapshot: %w", err)
		}

		that.state = &rpgState{game: game}
		that.me = resumeIndex(game)
		that.replayRPG(game)

		return nil
	}

	seed, err := freshSeed(cfg.Seed)
	if err != nil {
		return err
	}

	var players [rpg.PlayerCount]*entity.Archetype
	for i, tag := range cfg.PlayerArchetypes {
		if players[i], err = cfg.Catalog.LookupRole(tag, entity.RolePlayer); err != nil {
			return fmt.Errorf("failed to look up player archetype: %w", err)
		}
	}

	opponent, err := cfg.Catalog.LookupRole(cfg.Opponent, entity.RoleOpponent)
	if err != nil {
		return fmt.Errorf("failed to look up opponent archetype: %w", err)
	}

	that.state = &rpgState{game: rpg.NewGame(cfg.PlayerNames, players, opponent, rng.New(seed))}
	that.me = 0

	return nil
}

func (that *Session) bootstrapTicTacToe(cfg Config, fresh bool) error {
	if !fresh {
		game, err := codec.DecodeTicTacToe(cfg.Snapshot)
		if err != nil {
			return fmt.Errorf("failed to decode snapshot: %w", err)
		}

		game.Replay()

		that.state = &ticTacToeState{game: game}
		that.me = flip(game.LastMoveBy)

		return nil
	}

	seed, err := freshSeed(cfg.Seed)
	if err != nil {
		return err
	}

	that.state = &ticTacToeState{game: tictactoe.NewGame(cfg.PlayerNames, seed)}
	that.me = 0

	return nil
}

// replayRPG re-runs the pending stages of the last action without the ownership check.
func (that *Session) replayRPG(game *rpg.Game) {
	switch game.Pending {
	case rpg.StagePrimary:
		that.replaying = true
		that.queue.Enqueue(that.primaryItem(game, game.Announce(game.LastAction.Actor, game.LastAction.Kind)))
	case rpg.StageAdvance:
		that.replaying = true
		that.queue.Enqueue(that.advanceItem(game))
	case rpg.StageNone:
	}
}

// flip is the two player convention: the resuming device is whoever did not move last.
func flip(lastMover int) int {
	if lastMover < 0 {
		return 0
	}

	return 1 - lastMover
}

// resumeIndex flips to the other player unless that player is dead, in which case the
// device keeps controlling the last mover so the survivor can still act.
func resumeIndex(game *rpg.Game) int {
	me := flip(game.LastAction.Actor)
	if game.Players[me].IsDead() && game.LastAction.Actor >= 0 && game.LastAction.Actor < rpg.PlayerCount {
		return game.LastAction.Actor
	}

	return me
}

var errSeed = errors.New("failed to generate seed")

func freshSeed(seed int64) (int64, error) {
	if seed != 0 {
		return seed, nil
	}

	seed, err := rng.NewSeed()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errSeed, err)
	}

	return seed, nil
}
