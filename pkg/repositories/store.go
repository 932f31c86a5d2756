package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/cardquest/pkg/levels"
	"github.com/cbodonnell/cardquest/pkg/repositories/models"
)

// PlayerStore exposes one player's progress in a Repository as a levels.Store.
type PlayerStore struct {
	repository Repository
	playerID   string
	now        func() time.Time
}

func NewPlayerStore(repository Repository, playerID string) *PlayerStore {
	return &PlayerStore{
		repository: repository,
		playerID:   playerID,
		now:        time.Now,
	}
}

// Load returns empty progress for a player that never saved.
func (s *PlayerStore) Load(ctx context.Context) (*levels.SavedProgress, string, error) {
	progress, err := s.repository.LoadProgress(ctx, s.playerID)
	if err != nil {
		if IsNotFound(err) {
			return &levels.SavedProgress{}, "", nil
		}
		return nil, "", fmt.Errorf("failed to load progress for player %s: %w", s.playerID, err)
	}

	saved := &levels.SavedProgress{}
	for _, r := range progress.Results {
		saved.Entries = append(saved.Entries, levels.ProgressEntry{
			Name:   r.Level,
			Result: levels.Result(r.Result),
		})
	}
	return saved, progress.CurrentLevel, nil
}

func (s *PlayerStore) Save(ctx context.Context, saved *levels.SavedProgress, current string) error {
	progress := &models.Progress{
		PlayerID:     s.playerID,
		CurrentLevel: current,
		UpdatedAt:    s.now().UnixMilli(),
		Results:      make([]models.LevelResult, 0, saved.Len()),
	}
	if saved != nil {
		for _, e := range saved.Entries {
			progress.Results = append(progress.Results, models.LevelResult{
				Level:  e.Name,
				Result: int(e.Result),
			})
		}
	}

	if err := s.repository.SaveProgress(ctx, progress); err != nil {
		return fmt.Errorf("failed to save progress for player %s: %w", s.playerID, err)
	}
	return nil
}
