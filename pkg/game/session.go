package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/cardquest/pkg/catalog"
	"github.com/cbodonnell/cardquest/pkg/levels"
	"github.com/cbodonnell/cardquest/pkg/log"
	"github.com/cbodonnell/cardquest/pkg/match"
	"github.com/cbodonnell/cardquest/pkg/messages"
	"github.com/cbodonnell/cardquest/pkg/queue"
	"github.com/cbodonnell/cardquest/pkg/scheduler"
	"github.com/cbodonnell/cardquest/pkg/state"
	"github.com/google/uuid"
)

// Session is one player's level progression and match board. It is owned by
// the game loop goroutine.
type Session struct {
	id            string
	playerID      string
	levels        *levels.Manager
	matcher       *match.Matcher
	scheduler     *scheduler.Scheduler
	notifications queue.Queue
	deck          catalog.CardSettings
	arity         int
	rnd           *rand.Rand
	mismatches    int
	// idle is the game time since the player's last input.
	idle time.Duration
}

type newSessionOptions struct {
	PlayerID          string
	Catalog           *catalog.Catalog
	Store             levels.Store
	Loader            levels.ContentLoader
	SelectDelay       time.Duration
	FallbackContent   string
	NotificationQueue queue.Queue
	Rand              *rand.Rand
}

func newSession(ctx context.Context, opts newSessionOptions) (*Session, error) {
	sched := scheduler.New()

	manager := levels.NewManager(levels.NewManagerOptions{
		Catalog:             opts.Catalog.LevelList(),
		Store:               opts.Store,
		Loader:              opts.Loader,
		Notifications:       opts.NotificationQueue,
		Scheduler:           sched,
		SelectDelay:         opts.SelectDelay,
		FallbackContentPath: opts.FallbackContent,
	})
	if err := manager.Init(ctx); err != nil {
		if !errors.Is(err, levels.ErrMissingCurrentLevel) {
			return nil, fmt.Errorf("failed to initialize levels: %w", err)
		}
		log.Warn("Player %s has no resolvable current level: %v", opts.PlayerID, err)
		if err := manager.Fallback(ctx); err != nil {
			log.Error("Failed to save fallback level for player %s: %v", opts.PlayerID, err)
		}
	}

	matcherOpts := opts.Catalog.MatcherOptions()
	matcherOpts.Notifications = opts.NotificationQueue
	matcherOpts.Scheduler = sched

	return &Session{
		id:            uuid.NewString(),
		playerID:      opts.PlayerID,
		levels:        manager,
		matcher:       match.NewMatcher(matcherOpts),
		scheduler:     sched,
		notifications: opts.NotificationQueue,
		deck:          opts.Catalog.Cards,
		arity:         opts.Catalog.Arity(),
		rnd:           opts.Rand,
	}, nil
}

// deal shuffles a new board for the current level.
func (s *Session) deal() error {
	cards, target, err := match.NewBoard(s.deck.Faces, s.deck.Pairs, s.arity, s.rnd)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	if err := s.matcher.Deal(cards, target); err != nil {
		return fmt.Errorf("failed to deal board: %w", err)
	}
	s.mismatches = 0

	dealt := &messages.ServerMatchDealt{
		Cards:  s.matcher.Cards(),
		Target: target,
		Arity:  s.arity,
	}
	if err := s.notifications.Enqueue(dealt); err != nil {
		return fmt.Errorf("failed to enqueue deal notification: %w", err)
	}
	return nil
}

// rank grades a won board by the number of mismatches.
func (s *Session) rank() levels.Result {
	switch {
	case s.mismatches == 0:
		return levels.ResultHigh
	case s.mismatches <= s.deck.Pairs:
		return levels.ResultMiddle
	default:
		return levels.ResultLow
	}
}

func (s *Session) snapshot(timestamp int64) *state.Snapshot {
	snapshot := &state.Snapshot{
		SessionID: s.id,
		PlayerID:  s.playerID,
		Timestamp: timestamp,
		Levels:    s.levels.Levels(),
		Match: state.MatchSnapshot{
			Cards:     s.matcher.Cards(),
			Pending:   s.matcher.Pending(),
			Remaining: s.matcher.Remaining(),
			Target:    s.matcher.Target(),
			Stopped:   s.matcher.Stopped(),
			Finished:  s.matcher.Finished(),
		},
	}
	if current := s.levels.Current(); current != nil {
		snapshot.Current = current.Name
	}
	return snapshot
}
