package codec

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/tictactoe"
)

func EncodeTicTacToe(game *tictactoe.Game) ([]byte, error) {
	snapshot := TicTacToeSnapshot{
		Variant:     VariantTicTacToe,
		PlayerNames: game.Names[:],
		Board:       game.Board[:],
		Winner:      game.Winner,
		LastMoveBy:  game.LastMoveBy,
		CurrentTurn: game.CurrentTurn,
		Seed:        game.Seed,
		GameOver:    game.IsTerminal(),
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("could not marshal tictactoe snapshot: %w", err)
	}

	return data, nil
}

func DecodeTicTacToe(data []byte) (*tictactoe.Game, error) {
	variant, err := Variant(data)
	if err != nil {
		return nil, err
	}

	if variant != VariantTicTacToe {
		return nil, fmt.Errorf("%w: expected %s snapshot, got %s", apperror.ErrMalformedSnapshot, VariantTicTacToe, variant)
	}

	snapshot := TicTacToeSnapshot{LastMoveBy: tictactoe.NoMove}
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedSnapshot, err)
	}

	if err = snapshot.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedSnapshot, err)
	}

	game := &tictactoe.Game{
		Winner:      snapshot.Winner,
		LastMoveBy:  snapshot.LastMoveBy,
		CurrentTurn: snapshot.CurrentTurn,
		Seed:        snapshot.Seed,
	}
	copy(game.Names[:], snapshot.PlayerNames)
	copy(game.Board[:], snapshot.Board)

	return game, nil
}

func (that *TicTacToeSnapshot) validate() error {
	if len(that.PlayerNames) != tictactoe.PlayerCount || len(that.Board) != entity.BoardSize {
		return fmt.Errorf("%w: board or players", errShape)
	}

	for i, cell := range that.Board {
		if cell != entity.EmptyCell && !entity.IsMark(cell) {
			return fmt.Errorf("%w: cell %d holds %q", errRange, i, cell)
		}
	}

	if that.Winner != "" && that.Winner != entity.PlayerTie && !entity.IsMark(that.Winner) {
		return fmt.Errorf("%w: winner %q", errRange, that.Winner)
	}

	if that.LastMoveBy < tictactoe.NoMove || that.LastMoveBy >= tictactoe.PlayerCount {
		return fmt.Errorf("%w: last move", errRange)
	}

	if that.CurrentTurn < 0 || that.CurrentTurn >= tictactoe.PlayerCount {
		return fmt.Errorf("%w: current turn", errRange)
	}

	if that.GameOver != (that.Winner != "") {
		return fmt.Errorf("%w: game over flag", errRange)
	}

	return nil
}
