package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/usecase"
)

type uGame interface {
	Launch(ctx context.Context, req usecase.LaunchRequest) (*usecase.View, error)
	SubmitAction(ctx context.Context, sessionID string, kind entity.ActionKind) (bool, error)
	SubmitMark(ctx context.Context, sessionID string, cell int) (bool, error)
	Exit(ctx context.Context, sessionID string) (*usecase.View, error)
	State(sessionID string) (*usecase.View, error)
}

type handler func(ctx context.Context, client *Client, message *Message) error

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader

	handlers map[string]handler
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handler),
	}

	server.handlers[ActionLaunch] = server.handleLaunch
	server.handlers[ActionGame] = server.handleGameAction
	server.handlers[ActionExit] = server.handleExit
	server.handlers[ActionState] = server.handleState

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.ServeWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeWS upgrades the request and serves the connection until it closes.
func (that *Server) ServeWS(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(that, conn)
	log.Info("WebSocket connection established", "clientID", client.id)

	go client.writePump()
	client.readPump(ctx)
}

func (that *Server) dispatch(ctx context.Context, client *Client, message *Message) {
	log := that.logger.With("method", "dispatch", "clientID", client.id)

	handle, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action", "action", message.Action)
		client.sendError(message.Action, "unknown action")
		return
	}

	if err := handle(ctx, client, message); err != nil {
		log.Error("error processing message", "action", message.Action, "error", err)
	}
}

// disconnect exits every session the client left open so the host still gets their state.
func (that *Server) disconnect(ctx context.Context, client *Client) {
	log := that.logger.With("method", "disconnect", "clientID", client.id)

	for _, sessionID := range client.detachAll() {
		if _, err := that.uGame.Exit(ctx, sessionID); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
			log.Warn("failed to exit session", "sessionID", sessionID, "error", err)
		}
	}

	client.close()
	log.Info("client disconnected")
}
