package repositories

import (
	"context"

	"github.com/cbodonnell/cardquest/pkg/repositories/models"
)

// Repository persists player progress. LoadProgress returns an *ErrNotFound
// for players that never saved. SaveProgress replaces the stored progress
// as a whole or not at all.
type Repository interface {
	Close(ctx context.Context) error
	LoadProgress(ctx context.Context, playerID string) (*models.Progress, error)
	SaveProgress(ctx context.Context, progress *models.Progress) error
}
