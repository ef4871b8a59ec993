package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/minigames-backend/internal/session"
	"github.com/rocketscienceinc/minigames-backend/internal/usecase"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	// must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024

	sendBuffer = 256
)

// Client is one connection. It receives the narration and state of the sessions it launched.
type Client struct {
	id     string
	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu       sync.Mutex
	closed   bool
	sessions map[string]struct{}
}

func newClient(server *Server, conn *websocket.Conn) *Client {
	return &Client{
		id:       uuid.NewString(),
		server:   server,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		sessions: make(map[string]struct{}),
	}
}

func (that *Client) readPump(ctx context.Context) {
	log := that.server.logger.With("method", "readPump", "clientID", that.id)

	defer func() {
		that.server.disconnect(ctx, that)
		_ = that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendError("", "invalid message")
			continue
		}

		that.server.dispatch(ctx, that, &message)
	}
}

func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case data, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (that *Client) sendMessage(action string, payload ResponsePayload) {
	data, err := encode(action, payload)
	if err != nil {
		that.server.logger.Error("failed to marshal response", "action", action, "error", err)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	select {
	case that.send <- data:
	default:
		that.server.logger.Warn("send buffer is full, dropping client", "clientID", that.id)
		that.closed = true
		close(that.send)
	}
}

func (that *Client) sendError(action, errorMsg string) {
	that.sendMessage(action, ResponsePayload{Error: errorMsg})
}

func (that *Client) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.closed {
		that.closed = true
		close(that.send)
	}
}

func (that *Client) attach(sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[sessionID] = struct{}{}
}

func (that *Client) detach(sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, sessionID)
}

func (that *Client) owns(sessionID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, ok := that.sessions[sessionID]
	return ok
}

func (that *Client) detachAll() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	ids := make([]string, 0, len(that.sessions))
	for id := range that.sessions {
		ids = append(ids, id)
	}
	that.sessions = make(map[string]struct{})

	return ids
}

// Narrate implements usecase.Listener.
func (that *Client) Narrate(sessionID, line string) {
	that.sendMessage(ActionNarration, ResponsePayload{SessionID: sessionID, Line: line})
}

// Update implements usecase.Listener.
func (that *Client) Update(view *usecase.View) {
	action := ActionState
	if view.Closed || view.Phase == session.PhaseTerminal {
		action = ActionEnd
	}

	that.sendMessage(action, ResponsePayload{View: view})
}
