package bridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

type messageRepo interface {
	Append(ctx context.Context, message *entity.Message) error
}

type conversationBridge struct {
	logger   *slog.Logger
	messages messageRepo

	conversationID string
	scene          string
	now            func() time.Time
}

// NewConversation stores every snapshot as a game message of the conversation,
// which is what the other device loads on its next launch.
func NewConversation(logger *slog.Logger, messages messageRepo, conversationID, scene string) HostBridge {
	return &conversationBridge{
		logger:         logger.With("component", "bridge", "conversationID", conversationID),
		messages:       messages,
		conversationID: conversationID,
		scene:          scene,
		now:            time.Now,
	}
}

func (that *conversationBridge) Notify(ctx context.Context, snapshot string) {
	log := that.logger.With("method", "Notify")

	message := &entity.Message{
		ID:             uuid.NewString(),
		ConversationID: that.conversationID,
		Kind:           entity.MessageKindGame,
		Scene:          that.scene,
		Payload:        snapshot,
		CreatedAt:      that.now().Unix(),
	}

	if err := that.messages.Append(ctx, message); err != nil {
		log.ErrorContext(ctx, "failed to store snapshot", "error", err)
		return
	}

	log.InfoContext(ctx, "snapshot stored", "messageID", message.ID)
}
