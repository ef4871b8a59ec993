package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/repository"
)

const defaultMessageLimit = 50

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	LatestGame(w http.ResponseWriter, r *http.Request)
	Messages(w http.ResponseWriter, r *http.Request)
}

type messageRepo interface {
	GetLatestGame(ctx context.Context, conversationID string) (*entity.Message, error)
	List(ctx context.Context, conversationID string, limit int64) ([]*entity.Message, error)
}

type handlers struct {
	logger   *slog.Logger
	messages messageRepo
}

func NewHandlers(logger *slog.Logger, messages messageRepo) Handlers {
	return &handlers{
		logger:   logger.With("component", "rest"),
		messages: messages,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// LatestGame returns the conversation's latest game message, the envelope a host would launch with.
func (that *handlers) LatestGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "LatestGame")

	conversationID := r.PathValue("id")

	message, err := that.messages.GetLatestGame(r.Context(), conversationID)
	if errors.Is(err, repository.ErrMessageNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get latest game", "conversationID", conversationID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, map[string]string{
		"scene": message.Scene,
		"state": message.Payload,
	})
}

func (that *handlers) Messages(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Messages")

	conversationID := r.PathValue("id")

	limit := int64(defaultMessageLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = parsed
	}

	messages, err := that.messages.List(r.Context(), conversationID, limit)
	if err != nil {
		log.Error("failed to list messages", "conversationID", conversationID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, messages)
}

func (that *handlers) writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
