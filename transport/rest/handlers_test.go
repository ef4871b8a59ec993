package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/repository"
	"github.com/rocketscienceinc/minigames-backend/testing/suite"
)

func TestHandlers(t *testing.T) {
	ctx, st := suite.New(t)

	messageRepo := repository.NewMessageRepository(st.Storage, 0)
	router := NewRouter(NewHandlers(st.Logger, messageRepo))

	require.NoError(t, messageRepo.Append(ctx, &entity.Message{ID: "m1", ConversationID: "c1", Kind: "text", Payload: "hi"}))
	require.NoError(t, messageRepo.Append(ctx, &entity.Message{
		ID:             "m2",
		ConversationID: "c1",
		Kind:           entity.MessageKindGame,
		Scene:          "tictactoe",
		Payload:        `{"variant":"tictactoe"}`,
	}))

	serve := func(target string) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
		return recorder
	}

	t.Run("Ping", func(t *testing.T) {
		recorder := serve("/ping")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "pong", recorder.Body.String())
	})

	t.Run("Latest game is a launch envelope", func(t *testing.T) {
		recorder := serve("/conversations/c1/game")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"scene":"tictactoe","state":"{\"variant\":\"tictactoe\"}"}`, recorder.Body.String())
	})

	t.Run("No game yet", func(t *testing.T) {
		recorder := serve("/conversations/empty/game")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Messages honour the limit", func(t *testing.T) {
		recorder := serve("/conversations/c1/messages?limit=1")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"id":"m2"`)
		assert.NotContains(t, recorder.Body.String(), `"id":"m1"`)
	})

	t.Run("Invalid limit", func(t *testing.T) {
		recorder := serve("/conversations/c1/messages?limit=zero")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
