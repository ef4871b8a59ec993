package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Append(ctx context.Context, message *entity.Message) error
	GetLatestGame(ctx context.Context, conversationID string) (*entity.Message, error)
	List(ctx context.Context, conversationID string, limit int64) ([]*entity.Message, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}

type dbMessage struct {
	client    *redis.Client
	retention int64
}

// NewMessageRepository stores conversations as capped Redis lists; retention <= 0 keeps everything.
func NewMessageRepository(client *redis.Client, retention int64) MessageRepository {
	return &dbMessage{
		client:    client,
		retention: retention,
	}
}

func messagesKey(conversationID string) string {
	return "conversation:" + conversationID + ":messages"
}

func latestGameKey(conversationID string) string {
	return "conversation:" + conversationID + ":game"
}

// EventsChannel is where new conversation messages are published.
func EventsChannel(conversationID string) string {
	return "conversation:" + conversationID + ":events"
}

func (that *dbMessage) Append(ctx context.Context, message *entity.Message) error {
	messageJSON, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("could not marshal message: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		key := messagesKey(message.ConversationID)

		pipe.RPush(ctx, key, messageJSON)
		if that.retention > 0 {
			pipe.LTrim(ctx, key, -that.retention, -1)
		}

		if message.IsGame() {
			pipe.Set(ctx, latestGameKey(message.ConversationID), messageJSON, 0)
		}

		pipe.Publish(ctx, EventsChannel(message.ConversationID), messageJSON)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	return nil
}

func (that *dbMessage) GetLatestGame(ctx context.Context, conversationID string) (*entity.Message, error) {
	response, err := that.client.Get(ctx, latestGameKey(conversationID)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrMessageNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get latest game: %w", err)
	}

	var message entity.Message
	if err = json.Unmarshal([]byte(response), &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &message, nil
}

// List returns up to limit most recent messages, oldest first; limit <= 0 returns all.
func (that *dbMessage) List(ctx context.Context, conversationID string, limit int64) ([]*entity.Message, error) {
	start := int64(0)
	if limit > 0 {
		start = -limit
	}

	responses, err := that.client.LRange(ctx, messagesKey(conversationID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]*entity.Message, 0, len(responses))
	for _, response := range responses {
		var message entity.Message
		if err = json.Unmarshal([]byte(response), &message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}

		messages = append(messages, &message)
	}

	return messages, nil
}

func (that *dbMessage) DeleteConversation(ctx context.Context, conversationID string) error {
	err := that.client.Del(ctx, messagesKey(conversationID), latestGameKey(conversationID)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	return nil
}
