package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/rpg"
)

type Phase string

const (
	PhaseWaitingForLocalInput   Phase = "waiting_for_local_input"
	PhaseResolvingAction        Phase = "resolving_action"
	PhaseWaitingForOpponentTurn Phase = "waiting_for_opponent_turn"
	PhaseTerminal               Phase = "terminal"
)

// Session is one running mini-game on this device. It is not safe for concurrent use.
type Session struct {
	id     string
	scene  string
	logger *slog.Logger

	bridge   hostBridge
	narrator func(line string)
	delay    time.Duration
	queue    *Queue

	state state
	me    int

	replaying bool
	delivered bool
	closed    bool
}

func (that *Session) ID() string {
	return that.id
}

func (that *Session) Scene() string {
	return that.scene
}

func (that *Session) MyPlayerIndex() int {
	return that.me
}

func (that *Session) IsTerminal() bool {
	return that.state.isTerminal()
}

func (that *Session) Outcome() entity.Outcome {
	return that.state.outcome(that.me)
}

func (that *Session) Closed() bool {
	return that.closed
}

func (that *Session) Replaying() bool {
	return that.replaying
}

// Phase reports what the session is waiting for. PhaseWaitingForOpponentTurn covers the whole
// other side of the table: the peer device in a two player game as well as the opponent, whose
// own turn resolves synchronously inside the last player's action. Within a round the living
// players may act in any order, so the game's CurrentTurn is only the expected next player and
// is not consulted here.
func (that *Session) Phase() Phase {
	switch {
	case that.state.isTerminal():
		return PhaseTerminal
	case that.replaying || !that.queue.Idle():
		return PhaseResolvingAction
	case that.state.localTurn(that.me):
		return PhaseWaitingForLocalInput
	default:
		return PhaseWaitingForOpponentTurn
	}
}

// Snapshot encodes the current state.
func (that *Session) Snapshot() (string, error) {
	data, err := that.state.encode()
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// SubmitAction starts an RPG action for the local player. Anything that is not legal
// right now is ignored and reported as false.
func (that *Session) SubmitAction(ctx context.Context, kind entity.ActionKind) bool {
	log := that.logger.With("method", "SubmitAction")

	current, ok := that.state.(*rpgState)
	if !ok || that.closed || that.Phase() != PhaseWaitingForLocalInput {
		log.DebugContext(ctx, "action ignored", "action", kind)
		return false
	}

	game := current.game
	if !game.Submit(that.me, kind) {
		log.DebugContext(ctx, "action rejected", "action", kind)
		return false
	}

	that.queue.Enqueue(that.primaryItem(game, game.Announce(that.me, kind)))

	return true
}

// SubmitMark places the local player's mark. Illegal moves are ignored and reported as false.
func (that *Session) SubmitMark(ctx context.Context, cell int) bool {
	log := that.logger.With("method", "SubmitMark")

	current, ok := that.state.(*ticTacToeState)
	if !ok || that.closed || that.Phase() != PhaseWaitingForLocalInput {
		log.DebugContext(ctx, "mark ignored", "cell", cell)
		return false
	}

	game := current.game
	if err := game.MakeTurn(that.me, cell); err != nil {
		log.DebugContext(ctx, "mark rejected", "cell", cell, "error", err)
		return false
	}

	that.queue.Enqueue(Item{Narration: game.Describe(that.me, cell), Delay: that.delay})
	if game.IsTerminal() {
		that.queue.Enqueue(Item{Narration: game.Result(), Delay: that.delay})
		that.deliver(ctx)
	}

	return true
}

// Tick feeds elapsed time to the narration queue and hands the final state to the host
// as soon as the game is over.
func (that *Session) Tick(ctx context.Context, dt time.Duration) {
	if that.closed {
		return
	}

	that.queue.Tick(dt)

	if that.replaying && that.queue.Idle() {
		that.replaying = false
		that.logger.DebugContext(ctx, "replay finished")
	}

	if that.state.isTerminal() {
		that.deliver(ctx)
	}
}

// Exit drops pending narration and hands the current state to the host.
func (that *Session) Exit(ctx context.Context) {
	if that.closed {
		return
	}

	that.queue.Discard()
	that.replaying = false
	that.deliver(ctx)
	that.closed = true

	that.logger.InfoContext(ctx, "session exited", "outcome", that.Outcome())
}

func (that *Session) deliver(ctx context.Context) {
	if that.delivered {
		return
	}

	snapshot, err := that.Snapshot()
	if err != nil {
		that.logger.ErrorContext(ctx, "failed to encode snapshot", "error", err)
		return
	}

	that.delivered = true

	if that.bridge != nil {
		that.bridge.Notify(ctx, snapshot)
	}
}

func (that *Session) show(line string) {
	if that.narrator != nil {
		that.narrator(line)
	}
}

func (that *Session) narrate(game *rpg.Game, events []rpg.Event) {
	for _, event := range events {
		if line := game.Narrate(event); line != "" {
			that.queue.Enqueue(Item{Narration: line, Delay: that.delay})
		}
	}
}

func (that *Session) primaryItem(game *rpg.Game, announcement string) Item {
	var events []rpg.Event

	return Item{
		Narration: announcement,
		Delay:     that.delay,
		Effect:    func() { events = game.ResolvePrimary() },
		After: func() {
			that.narrate(game, events)
			that.queue.Enqueue(that.advanceItem(game))
		},
	}
}

func (that *Session) advanceItem(game *rpg.Game) Item {
	var events []rpg.Event

	return Item{
		Effect: func() { events = game.Advance() },
		After:  func() { that.narrate(game, events) },
	}
}
