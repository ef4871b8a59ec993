package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/archetype"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/rng"
	"github.com/rocketscienceinc/minigames-backend/internal/rpg"
	"github.com/rocketscienceinc/minigames-backend/internal/tictactoe"
)

func newRPG(t *testing.T, seed int64) *rpg.Game {
	t.Helper()

	catalog := archetype.Default()
	knight, err := catalog.Lookup("knight")
	require.NoError(t, err)
	mage, err := catalog.Lookup("mage")
	require.NoError(t, err)
	serpent, err := catalog.Lookup("serpent")
	require.NoError(t, err)

	return rpg.NewGame([rpg.PlayerCount]string{"Jenni", "Alex"}, [rpg.PlayerCount]*entity.Archetype{knight, mage}, serpent, rng.New(seed))
}

func TestIsEmptySnapshot(t *testing.T) {
	for _, payload := range []string{"", "   \n\t", "{}", " { } ", "null"} {
		assert.True(t, IsEmptySnapshot([]byte(payload)), "payload %q", payload)
	}

	for _, payload := range []string{`{"board":[]}`, "not json", "[]"} {
		assert.False(t, IsEmptySnapshot([]byte(payload)), "payload %q", payload)
	}
}

func TestRPG_RoundTrip(t *testing.T) {
	// Given: a game several actions in, including a pending stage
	game := newRPG(t, 5678)
	for i, kind := range []entity.ActionKind{entity.ActionSpecial, entity.ActionUltimate, entity.ActionBasic, entity.ActionSupport} {
		require.True(t, game.Submit(game.CurrentTurn, kind), "action %d", i)
		game.ResolvePrimary()
		game.Advance()
	}
	require.True(t, game.Submit(game.CurrentTurn, entity.ActionBasic))
	game.ResolvePrimary()

	// When: encoding, decoding and encoding again
	first, err := EncodeRPG(game)
	require.NoError(t, err)

	decoded, err := DecodeRPG(first, archetype.Default())
	require.NoError(t, err)

	second, err := EncodeRPG(decoded)
	require.NoError(t, err)

	// Then: both snapshots are identical and the live state survived
	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, game, decoded)
	assert.Equal(t, string(rpg.StageAdvance), gjson.GetBytes(first, "pendingStage").String())
}

func TestRPG_ResumedRunsMatch(t *testing.T) {
	// Given: a game and a copy decoded from its snapshot
	game := newRPG(t, 31337)
	data, err := EncodeRPG(game)
	require.NoError(t, err)

	resumed, err := DecodeRPG(data, archetype.Default())
	require.NoError(t, err)

	// When: both play the same round
	for _, current := range []*rpg.Game{game, resumed} {
		for actor := range rpg.PlayerCount {
			require.True(t, current.Submit(actor, entity.ActionSpecial))
			current.ResolvePrimary()
			current.Advance()
		}
	}

	// Then: they produce the same snapshot
	left, err := EncodeRPG(game)
	require.NoError(t, err)
	right, err := EncodeRPG(resumed)
	require.NoError(t, err)
	assert.Equal(t, string(left), string(right))
}

func TestDecodeRPG_Errors(t *testing.T) {
	t.Run("Empty object is no prior state", func(t *testing.T) {
		// When: decoding an empty object
		_, err := DecodeRPG([]byte(" {} "), archetype.Default())

		// Then: the fresh game signal is returned
		require.ErrorIs(t, err, apperror.ErrNoPriorState)
	})

	t.Run("Malformed payloads", func(t *testing.T) {
		valid, err := EncodeRPG(newRPG(t, 1))
		require.NoError(t, err)

		cases := map[string]string{
			"garbage":          `{"variant":`,
			"wrong variant":    `{"variant":"tictactoe","board":[]}`,
			"unknown opponent": replace(t, valid, "opponent", "unicorn"),
			"player as boss":   replace(t, valid, "opponent", "knight"),
			"short health":     replace(t, valid, "health", []float64{1, 2}),
			"overhealed":       replace(t, valid, "health.0", 99999),
			"bad status":       replace(t, valid, "statusKinds.1", "sleepy"),
			"bad outcome":      replace(t, valid, "outcome", "maybe"),
			"bad turn":         replace(t, valid, "currentTurn", 7),
			"orphan stage":     replace(t, valid, "pendingStage", "advance"),
			"bad cooldown":     replace(t, valid, "cooldowns.0", map[string]int{"dance": 2}),
		}

		for name, payload := range cases {
			t.Run(name, func(t *testing.T) {
				// When: decoding it
				_, err := DecodeRPG([]byte(payload), archetype.Default())

				// Then: the launch fails as malformed
				require.ErrorIs(t, err, apperror.ErrMalformedSnapshot)
			})
		}
	})
}

func TestTicTacToe_Scenario(t *testing.T) {
	// Given: a fresh game where player 0 marks the centre
	game := tictactoe.NewGame([tictactoe.PlayerCount]string{"Jenni", "Alex"}, 0)
	require.NoError(t, game.MakeTurn(0, 4))

	// When: encoding it
	data, err := EncodeTicTacToe(game)
	require.NoError(t, err)

	// Then: the snapshot holds the board, no winner and the last mover
	assert.JSONEq(t, `["","","","","X","","","",""]`, gjson.GetBytes(data, "board").Raw)
	assert.Equal(t, "", gjson.GetBytes(data, "winner").String())
	assert.Equal(t, int64(0), gjson.GetBytes(data, "lastMoveBy").Int())

	// When: the other device decodes it and player 1 marks cell 0
	resumed, err := DecodeTicTacToe(data)
	require.NoError(t, err)
	require.NoError(t, resumed.MakeTurn(1, 0))

	data, err = EncodeTicTacToe(resumed)
	require.NoError(t, err)

	// Then: the board carries both marks
	assert.JSONEq(t, `["O","","","","X","","","",""]`, gjson.GetBytes(data, "board").Raw)
}

func TestDecodeTicTacToe(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		// Given: a finished game
		game := tictactoe.NewGame([tictactoe.PlayerCount]string{"Jenni", "Alex"}, 9)
		for _, move := range [][2]int{{0, 0}, {1, 3}, {0, 1}, {1, 4}, {0, 2}} {
			require.NoError(t, game.MakeTurn(move[0], move[1]))
		}

		// When: encoding, decoding and encoding again
		first, err := EncodeTicTacToe(game)
		require.NoError(t, err)
		decoded, err := DecodeTicTacToe(first)
		require.NoError(t, err)
		second, err := EncodeTicTacToe(decoded)
		require.NoError(t, err)

		// Then: nothing changed
		assert.Equal(t, string(first), string(second))
		assert.Equal(t, game, decoded)
	})

	t.Run("Snapshot without a variant tag", func(t *testing.T) {
		// Given: a snapshot recognised by its board
		payload := `{"playerNames":["Jenni","Alex"],"board":["","","","","X","","","",""],"winner":"","lastMoveBy":0,"currentTurn":1}`

		// When: decoding it
		game, err := DecodeTicTacToe([]byte(payload))

		// Then: it is accepted
		require.NoError(t, err)
		assert.Equal(t, 0, game.LastMoveBy)
	})

	t.Run("Malformed board", func(t *testing.T) {
		// Given: a board with a foreign mark
		payload := `{"variant":"tictactoe","playerNames":["Jenni","Alex"],"board":["Z","","","","","","","",""],"winner":"","lastMoveBy":-1,"currentTurn":0}`

		// When: decoding it
		_, err := DecodeTicTacToe([]byte(payload))

		// Then: it is malformed
		require.ErrorIs(t, err, apperror.ErrMalformedSnapshot)
	})
}

func TestParseEnvelope(t *testing.T) {
	t.Run("State as a JSON string", func(t *testing.T) {
		// Given: the host's usual envelope with extra keys
		envelope := `{"scene":"rpg","conversationId":"c-1","state":"{\"variant\":\"rpg\"}"}`

		// When: parsing it
		parsed, err := ParseEnvelope([]byte(envelope))

		// Then: only the scene and inner state are kept
		require.NoError(t, err)
		assert.Equal(t, "rpg", parsed.Scene)
		assert.JSONEq(t, `{"variant":"rpg"}`, string(parsed.State))
	})

	t.Run("State as an object", func(t *testing.T) {
		parsed, err := ParseEnvelope([]byte(`{"scene":"tictactoe","state":{}}`))

		require.NoError(t, err)
		assert.Equal(t, "tictactoe", parsed.Scene)
		assert.True(t, IsEmptySnapshot(parsed.State))
	})

	t.Run("Missing state", func(t *testing.T) {
		parsed, err := ParseEnvelope([]byte(`{"scene":"rpg"}`))

		require.NoError(t, err)
		assert.Nil(t, parsed.State)
	})

	t.Run("Invalid envelope", func(t *testing.T) {
		_, err := ParseEnvelope([]byte(`{"scene":`))

		require.ErrorIs(t, err, apperror.ErrMalformedSnapshot)
	})
}

func replace(t *testing.T, data []byte, path string, value any) string {
	t.Helper()

	out, err := sjson.SetBytes(data, path, value)
	require.NoError(t, err)

	return string(out)
}
