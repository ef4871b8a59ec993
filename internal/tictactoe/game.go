package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

const (
	PlayerCount = 2
	NoMove      = -1
)

// Game is a two player tic-tac-toe match; player 0 plays X and player 1 plays O.
type Game struct {
	Names       [PlayerCount]string
	Board       entity.Board
	CurrentTurn int
	LastMoveBy  int
	Winner      string
	Seed        int64
}

func NewGame(names [PlayerCount]string, seed int64) *Game {
	return &Game{
		Names:       names,
		CurrentTurn: 0,
		LastMoveBy:  NoMove,
		Seed:        seed,
	}
}

func MarkFor(player int) string {
	if player == 0 {
		return entity.PlayerX
	}

	return entity.PlayerO
}

func (that *Game) IsTerminal() bool {
	return that.Winner != ""
}

// MakeTurn places the player's mark on cell and passes the turn.
func (that *Game) MakeTurn(player, cell int) error {
	if that.IsTerminal() {
		return apperror.ErrGameFinished
	}

	if err := that.validateMove(player, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.Board[cell] = MarkFor(player)
	that.LastMoveBy = player
	that.updateStatus()

	return nil
}

// validateMove - checks if the move is valid.
func (that *Game) validateMove(player, cell int) error {
	if cell < 0 || cell >= len(that.Board) {
		return apperror.ErrInvalidCell
	}

	if player < 0 || player >= PlayerCount {
		return apperror.ErrIllegalAction
	}

	if that.CurrentTurn != player {
		return apperror.ErrNotYourTurn
	}

	if that.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// Replay recomputes the result and the turn owner from the board and the last mover.
func (that *Game) Replay() {
	that.updateStatus()
}

func (that *Game) updateStatus() {
	that.Winner = that.Board.DetermineResult()

	if that.LastMoveBy != NoMove {
		that.CurrentTurn = 1 - that.LastMoveBy
	}
}

// OutcomeFor returns the result of the game from one player's point of view.
func (that *Game) OutcomeFor(player int) entity.Outcome {
	switch that.Winner {
	case "":
		return entity.OutcomeNone
	case entity.PlayerTie:
		return entity.OutcomeDraw
	case MarkFor(player):
		return entity.OutcomeWin
	default:
		return entity.OutcomeLose
	}
}

// Describe renders a move as a line of narration.
func (that *Game) Describe(player, cell int) string {
	return fmt.Sprintf("%s places %s on cell %d.", that.Names[player], MarkFor(player), cell)
}

// Result renders the end of the match.
func (that *Game) Result() string {
	switch that.Winner {
	case entity.PlayerTie:
		return "It's a draw."
	case entity.PlayerX:
		return that.Names[0] + " wins!"
	case entity.PlayerO:
		return that.Names[1] + " wins!"
	default:
		return ""
	}
}
