package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/bridge"
	"github.com/rocketscienceinc/minigames-backend/internal/codec"
	"github.com/rocketscienceinc/minigames-backend/internal/config"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/repository"
	"github.com/rocketscienceinc/minigames-backend/internal/session"
)

type messageRepo interface {
	Append(ctx context.Context, message *entity.Message) error
	GetLatestGame(ctx context.Context, conversationID string) (*entity.Message, error)
}

type archetypes interface {
	LookupRole(tag string, role entity.Role) (*entity.Archetype, error)
}

// Listener receives what a running session produces. It is called with the session locked
// and must not call back into the manager.
type Listener interface {
	Narrate(sessionID, line string)
	Update(view *View)
}

type LaunchRequest struct {
	ConversationID string
	// Envelope is the host payload: {"scene": "...", "state": "..."}.
	Envelope    []byte
	PlayerNames [2]string
	Listener    Listener
}

// View is the outward state of one session.
type View struct {
	SessionID      string          `json:"sessionId"`
	ConversationID string          `json:"conversationId,omitempty"`
	Scene          string          `json:"scene"`
	MyPlayerIndex  int             `json:"myPlayerIndex"`
	Phase          session.Phase   `json:"phase"`
	Outcome        entity.Outcome  `json:"outcome"`
	Closed         bool            `json:"closed"`
	Snapshot       json.RawMessage `json:"snapshot"`
}

type managedSession struct {
	mu sync.Mutex

	session        *session.Session
	conversationID string
	listener       Listener
	lastPhase      session.Phase
}

type SessionManager struct {
	logger   *slog.Logger
	messages messageRepo
	catalog  archetypes
	conf     config.Game

	mu       sync.RWMutex
	sessions map[string]*managedSession
}

func NewSessionManager(logger *slog.Logger, messages messageRepo, catalog archetypes, conf config.Game) *SessionManager {
	return &SessionManager{
		logger:   logger.With("component", "sessionManager"),
		messages: messages,
		catalog:  catalog,
		conf:     conf,

		sessions: make(map[string]*managedSession),
	}
}

// Launch starts a session. With no state in the envelope the conversation's latest game
// message is resumed, and with none of those either a fresh game starts.
func (that *SessionManager) Launch(ctx context.Context, req LaunchRequest) (*View, error) {
	log := that.logger.With("method", "Launch", "conversationID", req.ConversationID)

	envelope, err := codec.ParseEnvelope(req.Envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse envelope: %w", err)
	}

	scene, state := envelope.Scene, envelope.State
	if codec.IsEmptySnapshot(state) && req.ConversationID != "" {
		scene, state, err = that.latestGame(ctx, req.ConversationID, scene)
		if err != nil {
			return nil, err
		}
	}

	if scene == "" && !codec.IsEmptySnapshot(state) {
		// an unreadable snapshot is reported by Bootstrap
		scene, _ = codec.Variant(state)
	}

	names := req.PlayerNames
	for i, name := range names {
		if name == "" {
			names[i] = fmt.Sprintf("Player %d", i+1)
		}
	}

	managed := &managedSession{
		conversationID: req.ConversationID,
		listener:       req.Listener,
	}

	hostBridge := bridge.NewLog(that.logger)
	if req.ConversationID != "" {
		hostBridge = bridge.Multi(hostBridge, bridge.NewConversation(that.logger, that.messages, req.ConversationID, scene))
	}

	current, err := session.Bootstrap(ctx, session.Config{
		Scene:            scene,
		Snapshot:         state,
		PlayerNames:      names,
		PlayerArchetypes: that.conf.Archetypes(),
		Opponent:         that.conf.Opponent,
		NarrationDelay:   that.conf.NarrationDelay,
		Catalog:          that.catalog,
		Bridge:           hostBridge,
		Narrator: func(line string) {
			if managed.listener != nil {
				managed.listener.Narrate(managed.session.ID(), line)
			}
		},
		Logger: that.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap session: %w", err)
	}

	managed.session = current

	that.mu.Lock()
	that.sessions[current.ID()] = managed
	that.mu.Unlock()

	managed.mu.Lock()
	defer managed.mu.Unlock()

	view, err := managed.view()
	if err != nil {
		return nil, err
	}

	managed.lastPhase = view.Phase

	log.InfoContext(ctx, "session launched", "sessionID", view.SessionID, "scene", view.Scene, "myPlayerIndex", view.MyPlayerIndex)

	return view, nil
}

func (that *SessionManager) latestGame(ctx context.Context, conversationID, scene string) (string, []byte, error) {
	message, err := that.messages.GetLatestGame(ctx, conversationID)
	if errors.Is(err, repository.ErrMessageNotFound) {
		return scene, nil, nil
	}

	if err != nil {
		return "", nil, fmt.Errorf("failed to get latest game: %w", err)
	}

	if scene == "" {
		scene = message.Scene
	}

	if scene != message.Scene {
		return scene, nil, nil
	}

	return scene, []byte(message.Payload), nil
}

// SubmitAction forwards an RPG action. Illegal actions report false without an error.
func (that *SessionManager) SubmitAction(ctx context.Context, sessionID string, kind entity.ActionKind) (bool, error) {
	return that.apply(ctx, sessionID, func(current *session.Session) bool {
		return current.SubmitAction(ctx, kind)
	})
}

// SubmitMark forwards a tic-tac-toe move. Illegal moves report false without an error.
func (that *SessionManager) SubmitMark(ctx context.Context, sessionID string, cell int) (bool, error) {
	return that.apply(ctx, sessionID, func(current *session.Session) bool {
		return current.SubmitMark(ctx, cell)
	})
}

// Exit closes the session and hands its state to the host.
func (that *SessionManager) Exit(ctx context.Context, sessionID string) (*View, error) {
	managed, err := that.get(sessionID)
	if err != nil {
		return nil, err
	}

	that.mu.Lock()
	delete(that.sessions, sessionID)
	that.mu.Unlock()

	managed.mu.Lock()
	defer managed.mu.Unlock()

	managed.session.Exit(ctx)

	view, err := managed.view()
	if err != nil {
		return nil, err
	}

	managed.publish(view)

	return view, nil
}

func (that *SessionManager) State(sessionID string) (*View, error) {
	managed, err := that.get(sessionID)
	if err != nil {
		return nil, err
	}

	managed.mu.Lock()
	defer managed.mu.Unlock()

	return managed.view()
}

// Tick advances every session by dt.
func (that *SessionManager) Tick(ctx context.Context, dt time.Duration) {
	that.mu.RLock()
	sessions := make([]*managedSession, 0, len(that.sessions))
	for _, managed := range that.sessions {
		sessions = append(sessions, managed)
	}
	that.mu.RUnlock()

	for _, managed := range sessions {
		managed.mu.Lock()
		managed.session.Tick(ctx, dt)
		that.notifyChange(ctx, managed)
		managed.mu.Unlock()
	}
}

// Run ticks all sessions until ctx is done, then exits the ones still open.
func (that *SessionManager) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	interval := that.conf.TickInterval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			that.exitAll(context.WithoutCancel(ctx))
			log.Info("session manager stopped")
			return
		case now := <-ticker.C:
			that.Tick(ctx, now.Sub(last))
			last = now
		}
	}
}

func (that *SessionManager) exitAll(ctx context.Context) {
	that.mu.RLock()
	ids := make([]string, 0, len(that.sessions))
	for id := range that.sessions {
		ids = append(ids, id)
	}
	that.mu.RUnlock()

	for _, id := range ids {
		if _, err := that.Exit(ctx, id); err != nil {
			that.logger.Error("failed to exit session", "sessionID", id, "error", err)
		}
	}
}

func (that *SessionManager) apply(ctx context.Context, sessionID string, submit func(*session.Session) bool) (bool, error) {
	managed, err := that.get(sessionID)
	if err != nil {
		return false, err
	}

	managed.mu.Lock()
	defer managed.mu.Unlock()

	if managed.session.Closed() {
		return false, apperror.ErrSessionClosed
	}

	accepted := submit(managed.session)
	if accepted {
		that.notifyChange(ctx, managed)
	}

	return accepted, nil
}

func (that *SessionManager) get(sessionID string) (*managedSession, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	managed, ok := that.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}

	return managed, nil
}

func (that *SessionManager) notifyChange(ctx context.Context, managed *managedSession) {
	phase := managed.session.Phase()
	if phase == managed.lastPhase {
		return
	}

	managed.lastPhase = phase

	view, err := managed.view()
	if err != nil {
		that.logger.ErrorContext(ctx, "failed to build view", "sessionID", managed.session.ID(), "error", err)
		return
	}

	managed.publish(view)
}

func (that *managedSession) publish(view *View) {
	if that.listener != nil {
		that.listener.Update(view)
	}
}

func (that *managedSession) view() (*View, error) {
	snapshot, err := that.session.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return &View{
		SessionID:      that.session.ID(),
		ConversationID: that.conversationID,
		Scene:          that.session.Scene(),
		MyPlayerIndex:  that.session.MyPlayerIndex(),
		Phase:          that.session.Phase(),
		Outcome:        that.session.Outcome(),
		Closed:         that.session.Closed(),
		Snapshot:       json.RawMessage(snapshot),
	}, nil
}
