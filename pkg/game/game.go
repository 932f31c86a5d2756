package game

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/cardquest/pkg/catalog"
	"github.com/cbodonnell/cardquest/pkg/levels"
	"github.com/cbodonnell/cardquest/pkg/log"
	"github.com/cbodonnell/cardquest/pkg/match"
	"github.com/cbodonnell/cardquest/pkg/messages"
	"github.com/cbodonnell/cardquest/pkg/queue"
	"github.com/cbodonnell/cardquest/pkg/repositories"
	"github.com/cbodonnell/cardquest/pkg/state"
)

const (
	// DefaultNotificationQueueSize bounds the notifications a session can
	// produce in one tick.
	DefaultNotificationQueueSize = 256
)

type GameManager struct {
	clientMessageQueue    queue.Queue
	serverMessageChan     chan<- *messages.Message
	repository            repositories.Repository
	loader                levels.ContentLoader
	catalog               *catalog.Catalog
	stateManager          state.StateManager
	sessions              map[string]*Session
	gameLoopInterval      time.Duration
	selectDelay           time.Duration
	fallbackContent       string
	sessionIdleTimeout    time.Duration
	seed                  int64
	sessionsCreated       int64
	notificationQueueSize int
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	ClientMessageQueue queue.Queue
	ServerMessageChan  chan<- *messages.Message
	Repository         repositories.Repository
	Loader             levels.ContentLoader
	Catalog            *catalog.Catalog
	StateManager       state.StateManager
	GameLoopInterval   time.Duration
	// SelectDelay postpones loading a level picked from the level list.
	SelectDelay time.Duration
	// FallbackContent is the content path of the level a player falls back to
	// when their saved current level is gone.
	FallbackContent string
	// SessionIdleTimeout evicts sessions without input for this long. Zero
	// keeps every session for the lifetime of the process.
	SessionIdleTimeout time.Duration
	// Seed seeds the board shuffles. Zero uses the current time.
	Seed                  int64
	NotificationQueueSize int
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	queueSize := opts.NotificationQueueSize
	if queueSize <= 0 {
		queueSize = DefaultNotificationQueueSize
	}
	return &GameManager{
		clientMessageQueue:    opts.ClientMessageQueue,
		serverMessageChan:     opts.ServerMessageChan,
		repository:            opts.Repository,
		loader:                opts.Loader,
		catalog:               opts.Catalog,
		stateManager:          opts.StateManager,
		sessions:              make(map[string]*Session),
		gameLoopInterval:      opts.GameLoopInterval,
		selectDelay:           opts.SelectDelay,
		fallbackContent:       opts.FallbackContent,
		sessionIdleTimeout:    opts.SessionIdleTimeout,
		seed:                  seed,
		notificationQueueSize: queueSize,
	}
}

// Start starts the game loop.
func (gm *GameManager) Start(ctx context.Context) error {
	if gm.gameLoopInterval <= 0 {
		return fmt.Errorf("invalid game loop interval: %v", gm.gameLoopInterval)
	}

	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			err := gm.gameTick(ctx, t)
			if err != nil {
				log.Error("Failed to run game tick: %v", err)
			}
		}
	}
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick(ctx context.Context, t time.Time) error {
	gm.processClientMessages(ctx)

	for _, session := range gm.sessions {
		session.scheduler.Update(gm.gameLoopInterval)
		gm.processNotifications(ctx, session)
		if gm.evictIdle(ctx, session) {
			continue
		}
		if err := gm.stateManager.Set(ctx, session.snapshot(t.UnixMilli())); err != nil {
			log.Error("Failed to publish snapshot for player %s: %v", session.playerID, err)
		}
	}

	return nil
}

// processClientMessages processes all pending client messages in the queue
// and updates the player sessions accordingly.
func (gm *GameManager) processClientMessages(ctx context.Context) {
	pendingMessages, err := gm.clientMessageQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read client messages: %v", err)
		return
	}
	for _, item := range pendingMessages {
		message, ok := item.(*messages.Message)
		if !ok {
			log.Error("Failed to cast message to messages.Message")
			continue
		}

		session, err := gm.getSession(ctx, message.PlayerID)
		if err != nil {
			log.Error("Failed to get session for player %s: %v", message.PlayerID, err)
			continue
		}

		session.idle = 0
		if err := gm.handleClientMessage(ctx, session, message); err != nil {
			log.Error("Failed to handle %s message from player %s: %v", message.Type, message.PlayerID, err)
		}
	}
}

// getSession returns the player's session, creating it on first use.
func (gm *GameManager) getSession(ctx context.Context, playerID string) (*Session, error) {
	if playerID == "" {
		return nil, fmt.Errorf("player id is missing")
	}
	if session, ok := gm.sessions[playerID]; ok {
		return session, nil
	}

	session, err := newSession(ctx, newSessionOptions{
		PlayerID:          playerID,
		Catalog:           gm.catalog,
		Store:             repositories.NewPlayerStore(gm.repository, playerID),
		Loader:            gm.loader,
		SelectDelay:       gm.selectDelay,
		FallbackContent:   gm.fallbackContent,
		NotificationQueue: queue.NewInMemoryQueue(gm.notificationQueueSize),
		Rand:              rand.New(rand.NewSource(gm.seed + gm.sessionsCreated)),
	})
	if err != nil {
		return nil, err
	}
	gm.sessionsCreated++
	gm.sessions[playerID] = session
	log.Info("Created session %s for player %s", session.id, playerID)

	return session, nil
}

// evictIdle drops a session that has seen no input for the idle timeout and has
// no delayed callbacks left. Progress is already saved, so the next input
// rebuilds the session from the repository.
func (gm *GameManager) evictIdle(ctx context.Context, session *Session) bool {
	if gm.sessionIdleTimeout <= 0 {
		return false
	}
	session.idle += gm.gameLoopInterval
	if session.idle < gm.sessionIdleTimeout || session.scheduler.Pending() > 0 {
		return false
	}

	delete(gm.sessions, session.playerID)
	if err := gm.stateManager.Delete(ctx, session.playerID); err != nil {
		log.Error("Failed to delete snapshot for player %s: %v", session.playerID, err)
	}
	log.Info("Evicted idle session %s for player %s", session.id, session.playerID)
	return true
}

func (gm *GameManager) handleClientMessage(ctx context.Context, session *Session, message *messages.Message) error {
	switch message.Type {
	case messages.MessageTypeClientStartGame:
		return session.levels.StartGame(ctx)
	case messages.MessageTypeClientRepeatLevel:
		return session.levels.RepeatLevel(ctx)
	case messages.MessageTypeClientAdvance:
		return session.levels.AdvanceToNext(ctx)
	case messages.MessageTypeClientSelectLevel:
		selectLevel := &messages.ClientSelectLevel{}
		if err := json.Unmarshal(message.Payload, selectLevel); err != nil {
			return fmt.Errorf("failed to unmarshal select level: %w", err)
		}
		return session.levels.SelectLevel(ctx, selectLevel.Name)
	case messages.MessageTypeClientComplete:
		complete := &messages.ClientCompleteLevel{}
		if err := json.Unmarshal(message.Payload, complete); err != nil {
			return fmt.Errorf("failed to unmarshal complete level: %w", err)
		}
		return session.levels.CompleteCurrent(ctx, complete.Result)
	case messages.MessageTypeClientNewMatch:
		return session.deal()
	case messages.MessageTypeClientReveal:
		reveal := &messages.ClientReveal{}
		if err := json.Unmarshal(message.Payload, reveal); err != nil {
			return fmt.Errorf("failed to unmarshal reveal: %w", err)
		}
		if !session.matcher.Reveal(reveal.CardID) {
			log.Debug("Reveal of card %d by player %s was ignored", reveal.CardID, session.playerID)
		}
		return nil
	case messages.MessageTypeClientStopMatch:
		session.matcher.Stop()
		return nil
	case messages.MessageTypeClientResumeMatch:
		session.matcher.Resume()
		return nil
	default:
		return fmt.Errorf("unhandled message type: %s", message.Type)
	}
}

// processNotifications forwards the session's notifications to the player and
// reacts to the ones that drive the other state machine. Reactions may queue
// further notifications, which are handled in the same tick.
func (gm *GameManager) processNotifications(ctx context.Context, session *Session) {
	for {
		pending, err := session.notifications.ReadAllMessages()
		if err != nil {
			log.Error("Failed to read notifications for player %s: %v", session.playerID, err)
			return
		}
		if len(pending) == 0 {
			return
		}

		for _, event := range pending {
			gm.sendServerMessage(session.playerID, event)
			if err := gm.react(ctx, session, event); err != nil {
				log.Error("Failed to handle %T for player %s: %v", event, session.playerID, err)
			}
		}
	}
}

func (gm *GameManager) react(ctx context.Context, session *Session, event interface{}) error {
	switch e := event.(type) {
	case *levels.LevelLoaded:
		return session.deal()
	case *match.CardsMismatched:
		session.mismatches++
	case *match.GameWon:
		result := session.rank()
		log.Info("Player %s won on %s with %d mismatches, ranked %s", session.playerID, e.GroupKey, session.mismatches, result)
		return session.levels.CompleteCurrent(ctx, result)
	case *match.GameLost:
		log.Info("Player %s lost: cleared %s, target was %s", session.playerID, e.GroupKey, e.Target)
	}
	return nil
}

func (gm *GameManager) sendServerMessage(playerID string, event interface{}) {
	if gm.serverMessageChan == nil {
		return
	}

	msg, err := messages.NewServerMessage(playerID, event)
	if err != nil {
		log.Error("Failed to create server message: %v", err)
		return
	}

	select {
	case gm.serverMessageChan <- msg:
	default:
		log.Warn("Server message channel is full, dropping %s for player %s", msg.Type, playerID)
	}
}
