// Package codec converts live games to and from their snapshot, the flat JSON
// object the host stores as an opaque game message and hands back on the next launch.
//
// An RPG snapshot looks like:
//
//	{
//	  "variant": "rpg",
//	  "playerNames": ["Jenni", "Alex"],
//	  "playerArchetypes": ["knight", "mage"],
//	  "opponent": "dragon",
//	  "health": [120, 90, 290],
//	  "statusKinds": ["", "burn", ""],
//	  "statusDurations": [0, 2, 0],
//	  "cooldowns": [{}, {"ultimate": 3}, {}],
//	  "currentTurn": 0,
//	  "round": 1,
//	  "moved": [false, true],
//	  "lastActionKind": "basic",
//	  "lastActionActor": 1,
//	  "lastActionTarget": 2,
//	  "lastActionSkipped": false,
//	  "pendingStage": "",
//	  "seed": 5678,
//	  "rngDraws": 0,
//	  "gameOver": false,
//	  "outcome": "none"
//	}
//
// Actor arrays are indexed players first, opponent last. A tic-tac-toe
// snapshot carries "board", "winner", "lastMoveBy" and "currentTurn" instead.
// An empty payload or an empty object means there is no prior state.
package codec

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
)

const (
	VariantRPG       = "rpg"
	VariantTicTacToe = "tictactoe"
)

type RPGSnapshot struct {
	Variant           string           `json:"variant"`
	PlayerNames       []string         `json:"playerNames"`
	PlayerArchetypes  []string         `json:"playerArchetypes"`
	Opponent          string           `json:"opponent"`
	Health            []float64        `json:"health"`
	StatusKinds       []string         `json:"statusKinds"`
	StatusDurations   []int            `json:"statusDurations"`
	Cooldowns         []map[string]int `json:"cooldowns"`
	CurrentTurn       int              `json:"currentTurn"`
	Round             int              `json:"round"`
	Moved             []bool           `json:"moved"`
	LastActionKind    string           `json:"lastActionKind"`
	LastActionActor   int              `json:"lastActionActor"`
	LastActionTarget  int              `json:"lastActionTarget"`
	LastActionSkipped bool             `json:"lastActionSkipped"`
	PendingStage      string           `json:"pendingStage"`
	Seed              int64            `json:"seed"`
	RNGDraws          uint64           `json:"rngDraws"`
	GameOver          bool             `json:"gameOver"`
	Outcome           string           `json:"outcome"`
}

type TicTacToeSnapshot struct {
	Variant     string   `json:"variant"`
	PlayerNames []string `json:"playerNames"`
	Board       []string `json:"board"`
	Winner      string   `json:"winner"`
	LastMoveBy  int      `json:"lastMoveBy"`
	CurrentTurn int      `json:"currentTurn"`
	Seed        int64    `json:"seed"`
	GameOver    bool     `json:"gameOver"`
}

// IsEmptySnapshot reports whether data carries no prior state: nothing, whitespace, null or an empty object.
func IsEmptySnapshot(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return true
	}

	if !gjson.ValidBytes(trimmed) {
		return false
	}

	result := gjson.ParseBytes(trimmed)
	if result.Type == gjson.Null {
		return true
	}

	return result.IsObject() && len(result.Map()) == 0
}

// Variant tells which game a snapshot belongs to, falling back to its shape when the tag is absent.
func Variant(data []byte) (string, error) {
	if IsEmptySnapshot(data) {
		return "", apperror.ErrNoPriorState
	}

	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return "", fmt.Errorf("%w: not a JSON object", apperror.ErrMalformedSnapshot)
	}

	if variant := gjson.GetBytes(data, "variant"); variant.Exists() {
		switch variant.String() {
		case VariantRPG, VariantTicTacToe:
			return variant.String(), nil
		default:
			return "", fmt.Errorf("%w: unknown variant %q", apperror.ErrMalformedSnapshot, variant.String())
		}
	}

	switch {
	case gjson.GetBytes(data, "board").IsArray():
		return VariantTicTacToe, nil
	case gjson.GetBytes(data, "health").IsArray():
		return VariantRPG, nil
	default:
		return "", fmt.Errorf("%w: cannot tell the variant", apperror.ErrMalformedSnapshot)
	}
}
