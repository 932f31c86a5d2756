package state

import (
	"context"
	"errors"

	"github.com/cbodonnell/cardquest/pkg/levels"
	"github.com/cbodonnell/cardquest/pkg/match"
)

var ErrNotFound = errors.New("snapshot not found")

// StateManager provides shared access to player snapshots.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns a copy of the player's latest snapshot.
	Get(ctx context.Context, playerID string) (*Snapshot, error)
	// Set replaces the player's snapshot.
	Set(ctx context.Context, snapshot *Snapshot) error
	// Delete removes the player's snapshot. Deleting a missing one is not an error.
	Delete(ctx context.Context, playerID string) error
}

// Snapshot is a read-only view of a player's session taken at the end of a tick.
type Snapshot struct {
	SessionID string          `json:"sessionID"`
	PlayerID  string          `json:"playerID"`
	Timestamp int64           `json:"timestamp"`
	Levels    []*levels.Level `json:"levels"`
	Current   string          `json:"current,omitempty"`
	Match     MatchSnapshot   `json:"match"`
}

type MatchSnapshot struct {
	Cards     []match.Card `json:"cards"`
	Pending   []int        `json:"pending"`
	Remaining int          `json:"remaining"`
	Target    string       `json:"target,omitempty"`
	Stopped   bool         `json:"stopped"`
	Finished  bool         `json:"finished"`
}

func (s *Snapshot) Copy() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Levels = levels.CopyLevels(s.Levels)
	out.Match.Cards = append([]match.Card(nil), s.Match.Cards...)
	out.Match.Pending = append([]int(nil), s.Match.Pending...)
	return &out
}
