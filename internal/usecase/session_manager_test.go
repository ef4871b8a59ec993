package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/archetype"
	"github.com/rocketscienceinc/minigames-backend/internal/config"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/repository"
	"github.com/rocketscienceinc/minigames-backend/internal/session"
	"github.com/rocketscienceinc/minigames-backend/testing/suite"
)

var errRedisDown = errors.New("redis down")

type listener struct {
	lines   []string
	updates []*View
}

func (that *listener) Narrate(_, line string) {
	that.lines = append(that.lines, line)
}

func (that *listener) Update(view *View) {
	that.updates = append(that.updates, view)
}

func (that *listener) lastUpdate() *View {
	if len(that.updates) == 0 {
		return nil
	}

	return that.updates[len(that.updates)-1]
}

type mockMessageRepo struct {
	mock.Mock
}

func (that *mockMessageRepo) Append(ctx context.Context, message *entity.Message) error {
	args := that.Called(ctx, message)
	return args.Error(0)
}

func (that *mockMessageRepo) GetLatestGame(ctx context.Context, conversationID string) (*entity.Message, error) {
	args := that.Called(ctx, conversationID)
	message, _ := args.Get(0).(*entity.Message)
	return message, args.Error(1)
}

func gameConfig() config.Game {
	return config.Game{
		PlayerArchetypes: "knight,mage",
		Opponent:         "dragon",
	}
}

func TestSessionManager_TicTacToeConversation(t *testing.T) {
	ctx, st := suite.New(t)

	messageRepo := repository.NewMessageRepository(st.Storage, 0)
	manager := NewSessionManager(st.Logger, messageRepo, archetype.Default(), gameConfig())

	// Given: the first device launches a fresh game in the conversation
	first := &listener{}
	view, err := manager.Launch(ctx, LaunchRequest{
		ConversationID: "c1",
		Envelope:       []byte(`{"scene":"tictactoe","state":""}`),
		PlayerNames:    [2]string{"Jenni", "Alex"},
		Listener:       first,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, view.MyPlayerIndex)
	assert.Equal(t, session.PhaseWaitingForLocalInput, view.Phase)

	// When: it plays the centre and the narration runs out
	accepted, err := manager.SubmitMark(ctx, view.SessionID, 4)
	require.NoError(t, err)
	require.True(t, accepted)

	manager.Tick(ctx, time.Second)

	// Then: the device waits for the other player and a second move is ignored
	assert.Equal(t, session.PhaseWaitingForOpponentTurn, first.lastUpdate().Phase)
	assert.Contains(t, first.lines, "Jenni places X on cell 4.")

	accepted, err = manager.SubmitMark(ctx, view.SessionID, 0)
	require.NoError(t, err)
	assert.False(t, accepted)

	// When: the first device exits
	exited, err := manager.Exit(ctx, view.SessionID)
	require.NoError(t, err)
	assert.True(t, exited.Closed)
	assert.True(t, first.lastUpdate().Closed)

	// Then: the snapshot is the conversation's latest game
	latest, err := messageRepo.GetLatestGame(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "tictactoe", latest.Scene)
	assert.Equal(t, "X", gjson.Get(latest.Payload, "board.4").String())

	_, err = manager.SubmitMark(ctx, view.SessionID, 0)
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)

	// When: the second device launches without a state
	second, err := manager.Launch(ctx, LaunchRequest{
		ConversationID: "c1",
		Envelope:       []byte(`{"scene":"tictactoe"}`),
		Listener:       &listener{},
	})
	require.NoError(t, err)

	// Then: it resumes as the other player
	assert.Equal(t, 1, second.MyPlayerIndex)
	assert.Equal(t, session.PhaseWaitingForLocalInput, second.Phase)
	assert.Equal(t, "Jenni", gjson.GetBytes(second.Snapshot, "playerNames.0").String())

	accepted, err = manager.SubmitMark(ctx, second.SessionID, 4)
	require.NoError(t, err)
	assert.False(t, accepted)
}

func TestSessionManager_RPG(t *testing.T) {
	ctx, st := suite.New(t)

	conf := gameConfig()
	conf.NarrationDelay = 100 * time.Millisecond

	manager := NewSessionManager(st.Logger, repository.NewMessageRepository(st.Storage, 0), archetype.Default(), conf)

	// Given: a fresh RPG session
	events := &listener{}
	view, err := manager.Launch(ctx, LaunchRequest{
		Envelope:    []byte(`{"scene":"rpg","extra":true}`),
		PlayerNames: [2]string{"Jenni", "Alex"},
		Listener:    events,
	})
	require.NoError(t, err)
	assert.Equal(t, "rpg", view.Scene)
	assert.Equal(t, entity.OutcomeNone, view.Outcome)

	// When: the local player attacks
	accepted, err := manager.SubmitAction(ctx, view.SessionID, entity.ActionBasic)
	require.NoError(t, err)
	require.True(t, accepted)
	assert.Equal(t, session.PhaseResolvingAction, events.lastUpdate().Phase)

	for range 10 {
		manager.Tick(ctx, 100*time.Millisecond)
	}

	// Then: the attack resolved and the narration reached the listener
	state, err := manager.State(view.SessionID)
	require.NoError(t, err)

	assert.Equal(t, session.PhaseWaitingForOpponentTurn, state.Phase)
	assert.InDelta(t, 288, gjson.GetBytes(state.Snapshot, "health.2").Float(), 0)
	assert.Equal(t, "Jenni prepares a basic attack.", events.lines[0])
	assert.Contains(t, events.lines, "Dragon takes 12 damage.")
}

func TestSessionManager_Launch(t *testing.T) {
	t.Run("Malformed envelope", func(t *testing.T) {
		ctx, st := suite.New(t)
		manager := NewSessionManager(st.Logger, repository.NewMessageRepository(st.Storage, 0), archetype.Default(), gameConfig())

		_, err := manager.Launch(ctx, LaunchRequest{Envelope: []byte(`{"scene":"rpg","state":"{not json"}`)})

		require.ErrorIs(t, err, apperror.ErrMalformedSnapshot)
	})

	t.Run("Scene is inferred from the state", func(t *testing.T) {
		ctx, st := suite.New(t)
		manager := NewSessionManager(st.Logger, repository.NewMessageRepository(st.Storage, 0), archetype.Default(), gameConfig())

		state := `{\"playerNames\":[\"Jenni\",\"Alex\"],\"board\":[\"X\",\"\",\"\",\"\",\"\",\"\",\"\",\"\",\"\"],\"lastMoveBy\":0,\"currentTurn\":1}`

		view, err := manager.Launch(ctx, LaunchRequest{Envelope: []byte(`{"state":"` + state + `"}`)})
		require.NoError(t, err)

		assert.Equal(t, "tictactoe", view.Scene)
		assert.Equal(t, 1, view.MyPlayerIndex)
	})

	t.Run("Storage failure", func(t *testing.T) {
		// Given: a message repository that cannot be reached
		messageRepo := &mockMessageRepo{}
		messageRepo.On("GetLatestGame", mock.Anything, "c1").Return(nil, errRedisDown).Once()

		manager := NewSessionManager(suite.Discard(), messageRepo, archetype.Default(), gameConfig())

		// When: a session is launched without a state
		_, err := manager.Launch(context.Background(), LaunchRequest{ConversationID: "c1", Envelope: []byte(`{"scene":"rpg"}`)})

		// Then: the storage error is returned
		require.ErrorIs(t, err, errRedisDown)
		messageRepo.AssertExpectations(t)
	})

	t.Run("Stored game of another scene starts fresh", func(t *testing.T) {
		messageRepo := &mockMessageRepo{}
		messageRepo.On("GetLatestGame", mock.Anything, "c1").
			Return(&entity.Message{Kind: entity.MessageKindGame, Scene: "tictactoe", Payload: `{"variant":"tictactoe"}`}, nil).
			Once()

		manager := NewSessionManager(suite.Discard(), messageRepo, archetype.Default(), gameConfig())

		view, err := manager.Launch(context.Background(), LaunchRequest{ConversationID: "c1", Envelope: []byte(`{"scene":"rpg"}`)})
		require.NoError(t, err)

		assert.Equal(t, "rpg", view.Scene)
		assert.Equal(t, 1, int(gjson.GetBytes(view.Snapshot, "round").Int()))
	})
}

func TestSessionManager_Run(t *testing.T) {
	// Given: a manager with a terminal-free open session
	messageRepo := &mockMessageRepo{}
	messageRepo.On("Append", mock.Anything, mock.AnythingOfType("*entity.Message")).Return(nil).Once()
	messageRepo.On("GetLatestGame", mock.Anything, "c1").Return(nil, repository.ErrMessageNotFound).Once()

	conf := gameConfig()
	conf.TickInterval = time.Millisecond

	manager := NewSessionManager(suite.Discard(), messageRepo, archetype.Default(), conf)

	events := &listener{}
	view, err := manager.Launch(context.Background(), LaunchRequest{
		ConversationID: "c1",
		Envelope:       []byte(`{"scene":"tictactoe"}`),
		Listener:       events,
	})
	require.NoError(t, err)

	// When: the run loop is stopped
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.Run(ctx)
		close(done)
	}()

	cancel()
	<-done

	// Then: the open session was exited and handed to the host once
	_, err = manager.State(view.SessionID)
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	messageRepo.AssertExpectations(t)
}
