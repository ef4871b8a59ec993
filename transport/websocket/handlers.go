package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/usecase"
)

func (that *Server) handleLaunch(ctx context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleLaunch", "clientID", client.id)

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		client.sendError(msg.Action, "invalid payload")
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	req := usecase.LaunchRequest{
		ConversationID: payloadReq.ConversationID,
		Envelope:       payloadReq.Envelope,
		Listener:       client,
	}
	copy(req.PlayerNames[:], payloadReq.PlayerNames)

	view, err := that.uGame.Launch(ctx, req)
	if err != nil {
		client.sendError(msg.Action, launchError(err))
		return fmt.Errorf("failed to launch session: %w", err)
	}

	client.attach(view.SessionID)
	client.sendMessage(msg.Action, ResponsePayload{SessionID: view.SessionID, View: view})

	log.Info("session launched", "sessionID", view.SessionID, "scene", view.Scene)

	return nil
}

func (that *Server) handleGameAction(ctx context.Context, client *Client, msg *Message) error {
	payloadReq, ok := that.ownedSession(client, msg)
	if !ok {
		return nil
	}

	var (
		accepted bool
		err      error
	)

	if payloadReq.Cell != nil {
		accepted, err = that.uGame.SubmitMark(ctx, payloadReq.SessionID, *payloadReq.Cell)
	} else {
		accepted, err = that.uGame.SubmitAction(ctx, payloadReq.SessionID, payloadReq.Kind)
	}

	if err != nil {
		client.sendError(msg.Action, sessionError(err))
		return fmt.Errorf("failed to submit action: %w", err)
	}

	client.sendMessage(msg.Action, ResponsePayload{SessionID: payloadReq.SessionID, Accepted: &accepted})

	return nil
}

func (that *Server) handleExit(ctx context.Context, client *Client, msg *Message) error {
	payloadReq, ok := that.ownedSession(client, msg)
	if !ok {
		return nil
	}

	client.detach(payloadReq.SessionID)

	// the final view reaches the client as game:end through Update
	if _, err := that.uGame.Exit(ctx, payloadReq.SessionID); err != nil {
		client.sendError(msg.Action, sessionError(err))
		return fmt.Errorf("failed to exit session: %w", err)
	}

	return nil
}

func (that *Server) handleState(_ context.Context, client *Client, msg *Message) error {
	payloadReq, ok := that.ownedSession(client, msg)
	if !ok {
		return nil
	}

	view, err := that.uGame.State(payloadReq.SessionID)
	if err != nil {
		client.sendError(msg.Action, sessionError(err))
		return fmt.Errorf("failed to get state: %w", err)
	}

	client.sendMessage(msg.Action, ResponsePayload{SessionID: view.SessionID, View: view})

	return nil
}

func (that *Server) ownedSession(client *Client, msg *Message) (*Payload, bool) {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		client.sendError(msg.Action, "invalid payload")
		return nil, false
	}

	if payloadReq.SessionID == "" {
		client.sendError(msg.Action, "sessionId is required")
		return nil, false
	}

	if !client.owns(payloadReq.SessionID) {
		client.sendError(msg.Action, apperror.ErrSessionNotFound.Error())
		return nil, false
	}

	return &payloadReq, true
}

func launchError(err error) string {
	switch {
	case errors.Is(err, apperror.ErrMalformedSnapshot):
		return apperror.ErrMalformedSnapshot.Error()
	case errors.Is(err, apperror.ErrUnknownScene):
		return apperror.ErrUnknownScene.Error()
	case errors.Is(err, apperror.ErrUnknownArchetype):
		return apperror.ErrUnknownArchetype.Error()
	default:
		return "failed to launch game"
	}
}

func sessionError(err error) string {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return apperror.ErrSessionNotFound.Error()
	case errors.Is(err, apperror.ErrSessionClosed):
		return apperror.ErrSessionClosed.Error()
	default:
		return "internal error"
	}
}
