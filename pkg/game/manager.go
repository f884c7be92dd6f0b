package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/messages"
	"github.com/cbodonnell/breedadventure/pkg/queue"
	"github.com/cbodonnell/breedadventure/pkg/repositories"
	"github.com/cbodonnell/breedadventure/pkg/state"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// Broadcaster forwards published snapshots and command errors to clients.
type Broadcaster interface {
	Publish(snapshot types.Snapshot)
	Send(msg *messages.Message)
}

type managedSession struct {
	session *Session
	loop    *Loop
	ctx     context.Context
	cancel  context.CancelFunc
}

// GameManager runs every live session on its own Loop and routes commands
// to them, whether they arrive over HTTP or from the network queue.
type GameManager struct {
	lock               sync.RWMutex
	sessions           map[string]*managedSession
	template           NewSessionOptions
	stateManager       state.StateManager
	broadcaster        Broadcaster
	scores             repositories.HighScoreRepository
	clientMessageQueue queue.Queue[*messages.Message]
	gameLoopInterval   time.Duration
	maxSessions        int
	ctx                context.Context
	logger             *log.Logger
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	// Template is copied for every session. Scheduler, ID, Context and
	// Rand are set per session.
	Template           NewSessionOptions
	StateManager       state.StateManager
	Broadcaster        Broadcaster
	ClientMessageQueue queue.Queue[*messages.Message]
	GameLoopInterval   time.Duration
	// MaxSessions bounds live sessions. Zero means unbounded.
	MaxSessions int
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	if opts.StateManager == nil {
		opts.StateManager = state.NewInMemoryStateManager()
	}
	if opts.GameLoopInterval <= 0 {
		opts.GameLoopInterval = DefaultLoopInterval
	}
	return &GameManager{
		sessions:           make(map[string]*managedSession),
		template:           opts.Template,
		stateManager:       opts.StateManager,
		broadcaster:        opts.Broadcaster,
		scores:             opts.Template.Scores,
		clientMessageQueue: opts.ClientMessageQueue,
		gameLoopInterval:   opts.GameLoopInterval,
		maxSessions:        opts.MaxSessions,
		ctx:                context.Background(),
		logger:             log.With("game"),
	}
}

// Start processes commands from the client message queue until ctx is done.
// Sessions created afterwards live until ctx is done or they are deleted.
func (gm *GameManager) Start(ctx context.Context) error {
	gm.lock.Lock()
	gm.ctx = ctx
	gm.lock.Unlock()

	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			gm.stopAll()
			return nil
		case <-ticker.C:
			gm.processClientMessages()
		}
	}
}

// processClientMessages hands every pending command from the network to its
// session's loop.
func (gm *GameManager) processClientMessages() {
	if gm.clientMessageQueue == nil {
		return
	}
	for _, message := range gm.clientMessageQueue.ReadAllMessages() {
		command, err := messages.DecodeCommand(message)
		if err != nil {
			gm.logger.Warn("Failed to decode command for session %s: %v", message.SessionID, err)
			continue
		}
		managed, err := gm.get(message.SessionID)
		if err != nil {
			gm.sendError(message.SessionID, command.Action, err)
			continue
		}
		// posted without waiting so commands keep their arrival order
		sessionID := message.SessionID
		managed.loop.Post(func() {
			if err := managed.session.Apply(managed.ctx, command); err != nil {
				gm.sendError(sessionID, command.Action, err)
			}
		})
	}
}

func (gm *GameManager) sendError(sessionID string, action messages.CommandAction, cause error) {
	if gm.broadcaster == nil {
		return
	}
	msg, err := messages.NewErrorMessage(sessionID, action, cause)
	if err != nil {
		gm.logger.Error("Failed to build error message: %v", err)
		return
	}
	gm.broadcaster.Send(msg)
}

// Create starts a new session and initializes it. A session whose
// initialization fails is kept so it can be recovered and retried; its
// snapshot is returned along with the error.
func (gm *GameManager) Create(ctx context.Context) (types.Snapshot, error) {
	gm.lock.Lock()
	if gm.maxSessions > 0 && len(gm.sessions) >= gm.maxSessions {
		gm.lock.Unlock()
		return types.Snapshot{}, fmt.Errorf("session limit of %d reached", gm.maxSessions)
	}
	parent := gm.ctx
	gm.lock.Unlock()

	loopCtx, cancel := context.WithCancel(parent)
	loop := NewLoop(gm.gameLoopInterval)

	opts := gm.template
	opts.ID = uuid.NewString()
	opts.Context = loopCtx
	opts.Scheduler = loop
	opts.Rand = nil
	opts.Observers = append(append([]Observer(nil), gm.template.Observers...), gm.observe)

	session, err := NewSession(opts)
	if err != nil {
		cancel()
		return types.Snapshot{}, fmt.Errorf("failed to create session: %v", err)
	}

	gm.lock.Lock()
	gm.sessions[session.ID()] = &managedSession{session: session, loop: loop, ctx: loopCtx, cancel: cancel}
	gm.lock.Unlock()

	go loop.Run(loopCtx)
	gm.logger.Info("Created session %s", session.ID())

	var snapshot types.Snapshot
	err = loop.Do(ctx, func() error {
		initErr := session.Initialize(ctx)
		snapshot = session.Snapshot()
		return initErr
	})
	return snapshot, err
}

func (gm *GameManager) observe(snapshot types.Snapshot) {
	if err := gm.stateManager.Set(context.Background(), snapshot); err != nil {
		gm.logger.Error("Failed to store snapshot of session %s: %v", snapshot.SessionID, err)
	}
	if gm.broadcaster != nil {
		gm.broadcaster.Publish(snapshot)
	}
}

// Execute applies command to the session and returns the resulting snapshot.
func (gm *GameManager) Execute(ctx context.Context, sessionID string, command *messages.Command) (types.Snapshot, error) {
	managed, err := gm.get(sessionID)
	if err != nil {
		return types.Snapshot{}, err
	}

	var snapshot types.Snapshot
	err = managed.loop.Do(ctx, func() error {
		applyErr := managed.session.Apply(ctx, command)
		snapshot = managed.session.Snapshot()
		return applyErr
	})
	return snapshot, err
}

// Snapshot returns the latest published snapshot of a session.
func (gm *GameManager) Snapshot(ctx context.Context, sessionID string) (types.Snapshot, error) {
	if _, err := gm.get(sessionID); err != nil {
		return types.Snapshot{}, err
	}
	return gm.stateManager.Get(ctx, sessionID)
}

// Sessions returns the ids of every live session.
func (gm *GameManager) Sessions() []string {
	gm.lock.RLock()
	defer gm.lock.RUnlock()
	ids := make([]string, 0, len(gm.sessions))
	for id := range gm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Delete stops a session's loop and forgets it.
func (gm *GameManager) Delete(ctx context.Context, sessionID string) error {
	gm.lock.Lock()
	managed, ok := gm.sessions[sessionID]
	delete(gm.sessions, sessionID)
	gm.lock.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	managed.cancel()
	if err := gm.stateManager.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete snapshot: %v", err)
	}
	gm.logger.Info("Deleted session %s", sessionID)
	return nil
}

// HighScore returns the stored best score, or 0 without a repository.
func (gm *GameManager) HighScore(ctx context.Context) (int, error) {
	if gm.scores == nil {
		return 0, nil
	}
	return gm.scores.GetHighScore(ctx)
}

func (gm *GameManager) get(sessionID string) (*managedSession, error) {
	gm.lock.RLock()
	defer gm.lock.RUnlock()
	managed, ok := gm.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return managed, nil
}

func (gm *GameManager) stopAll() {
	gm.lock.Lock()
	defer gm.lock.Unlock()
	for id, managed := range gm.sessions {
		managed.cancel()
		delete(gm.sessions, id)
	}
}
