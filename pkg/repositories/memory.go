package repositories

import (
	"context"
	"sync"

	"github.com/cbodonnell/cardquest/pkg/repositories/models"
)

// MemoryRepository keeps progress for the lifetime of the process.
type MemoryRepository struct {
	players map[string]*models.Progress
	lock    sync.RWMutex
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		players: make(map[string]*models.Progress),
	}
}

func (r *MemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) LoadProgress(ctx context.Context, playerID string) (*models.Progress, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	progress, ok := r.players[playerID]
	if !ok {
		return nil, &ErrNotFound{}
	}
	return progress.Copy(), nil
}

func (r *MemoryRepository) SaveProgress(ctx context.Context, progress *models.Progress) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.players[progress.PlayerID] = progress.Copy()
	return nil
}
