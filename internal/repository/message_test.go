package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/testing/suite"
)

func TestMessageRepository_Append(t *testing.T) {
	t.Run("Latest game tracks game messages only", func(t *testing.T) {
		ctx, st := suite.New(t)

		messageRepo := NewMessageRepository(st.Storage, 0)

		// Given: a game message followed by a text message
		game := &entity.Message{ID: "m1", ConversationID: "c1", Kind: entity.MessageKindGame, Scene: "tictactoe", Payload: `{"variant":"tictactoe"}`}
		text := &entity.Message{ID: "m2", ConversationID: "c1", Kind: "text", Payload: "gg"}

		// When: both are appended
		require.NoError(t, messageRepo.Append(ctx, game))
		require.NoError(t, messageRepo.Append(ctx, text))

		// Then: the latest game is the game message and the history holds both
		latest, err := messageRepo.GetLatestGame(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, game, latest)

		messages, err := messageRepo.List(ctx, "c1", 0)
		require.NoError(t, err)
		assert.Equal(t, []*entity.Message{game, text}, messages)
	})

	t.Run("Retention caps the history", func(t *testing.T) {
		ctx, st := suite.New(t)

		messageRepo := NewMessageRepository(st.Storage, 2)

		// Given: three appended messages
		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, messageRepo.Append(ctx, &entity.Message{ID: id, ConversationID: "c1", Kind: "text"}))
		}

		// When: listing the conversation
		messages, err := messageRepo.List(ctx, "c1", 10)
		require.NoError(t, err)

		// Then: only the two most recent remain
		require.Len(t, messages, 2)
		assert.Equal(t, "b", messages[0].ID)
		assert.Equal(t, "c", messages[1].ID)
	})

	t.Run("New messages are published", func(t *testing.T) {
		ctx, st := suite.New(t)

		messageRepo := NewMessageRepository(st.Storage, 0)
		pubsub := st.Storage.Subscribe(ctx, EventsChannel("c1"))
		t.Cleanup(func() { _ = pubsub.Close() })

		_, err := pubsub.Receive(ctx)
		require.NoError(t, err)

		// When: a message is appended
		require.NoError(t, messageRepo.Append(ctx, &entity.Message{ID: "m1", ConversationID: "c1", Kind: "text", Payload: "hi"}))

		// Then: subscribers receive it
		received, err := pubsub.ReceiveMessage(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"m1","conversation_id":"c1","kind":"text","payload":"hi","created_at":0}`, received.Payload)
	})
}

func TestMessageRepository_GetLatestGame(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		messageRepo := NewMessageRepository(st.Storage, 0)

		// When: GetLatestGame is called on an empty conversation
		message, err := messageRepo.GetLatestGame(ctx, "nobody")

		// Then: ErrMessageNotFound should be returned
		require.ErrorIs(t, err, ErrMessageNotFound)
		assert.Nil(t, message)
	})

	t.Run("Deleted conversation", func(t *testing.T) {
		ctx, st := suite.New(t)

		messageRepo := NewMessageRepository(st.Storage, 0)
		require.NoError(t, messageRepo.Append(ctx, &entity.Message{ID: "m1", ConversationID: "c1", Kind: entity.MessageKindGame}))

		// When: the conversation is deleted
		require.NoError(t, messageRepo.DeleteConversation(ctx, "c1"))

		// Then: nothing is left
		_, err := messageRepo.GetLatestGame(ctx, "c1")
		require.ErrorIs(t, err, ErrMessageNotFound)

		messages, err := messageRepo.List(ctx, "c1", 0)
		require.NoError(t, err)
		assert.Empty(t, messages)
	})
}
