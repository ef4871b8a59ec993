package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/usecase"
)

const (
	ActionLaunch = "game:launch"
	ActionGame   = "game:action"
	ActionExit   = "game:exit"
	ActionState  = "game:state"

	ActionNarration = "game:narration"
	ActionEnd       = "game:end"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	ConversationID string            `json:"conversationId,omitempty"`
	Envelope       json.RawMessage   `json:"envelope,omitempty"`
	PlayerNames    []string          `json:"playerNames,omitempty"`
	SessionID      string            `json:"sessionId,omitempty"`
	Kind           entity.ActionKind `json:"kind,omitempty"`
	Cell           *int              `json:"cell,omitempty"`
}

type ResponsePayload struct {
	SessionID string        `json:"sessionId,omitempty"`
	View      *usecase.View `json:"view,omitempty"`
	Accepted  *bool         `json:"accepted,omitempty"`
	Line      string        `json:"line,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func encode(action string, payload ResponsePayload) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Action: action, Payload: payloadJSON})
}
