package entity

const MessageKindGame = "game"

// Message is a conversation record; game messages carry a snapshot as Payload.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Kind           string `json:"kind"`
	Scene          string `json:"scene,omitempty"`
	Payload        string `json:"payload"`
	CreatedAt      int64  `json:"created_at"`
}

func (that *Message) IsGame() bool {
	return that.Kind == MessageKindGame
}
