package session

import (
	"github.com/rocketscienceinc/minigames-backend/internal/codec"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/rpg"
	"github.com/rocketscienceinc/minigames-backend/internal/tictactoe"
)

// state is the part of a session that differs between game variants.
type state interface {
	encode() ([]byte, error)
	isTerminal() bool
	outcome(me int) entity.Outcome
	localTurn(me int) bool
}

type rpgState struct {
	game *rpg.Game
}

func (that *rpgState) encode() ([]byte, error) {
	return codec.EncodeRPG(that.game)
}

func (that *rpgState) isTerminal() bool {
	return that.game.IsTerminal()
}

// outcome is shared: both players fight on the same side.
func (that *rpgState) outcome(_ int) entity.Outcome {
	return that.game.Outcome
}

func (that *rpgState) localTurn(me int) bool {
	return that.game.CanSubmit(me, entity.ActionBasic)
}

type ticTacToeState struct {
	game *tictactoe.Game
}

func (that *ticTacToeState) encode() ([]byte, error) {
	return codec.EncodeTicTacToe(that.game)
}

func (that *ticTacToeState) isTerminal() bool {
	return that.game.IsTerminal()
}

func (that *ticTacToeState) outcome(me int) entity.Outcome {
	return that.game.OutcomeFor(me)
}

func (that *ticTacToeState) localTurn(me int) bool {
	return !that.game.IsTerminal() && that.game.CurrentTurn == me
}
