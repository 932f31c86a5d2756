package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cbodonnell/cardquest/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(migrations, func(name string, migration string) error {
		_, err := db.ExecContext(ctx, migration)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

// runMigrations executes the .sql files of a directory in name order.
func runMigrations(migrations string, exec func(name string, migration string) error) error {
	dir, err := os.ReadDir(migrations)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}
	sort.Slice(dir, func(i, j int) bool { return dir[i].Name() < dir[j].Name() })

	for _, entry := range dir {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", migrationPath, err)
		}

		if err := exec(entry.Name(), string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migrationPath, err)
		}
	}

	return nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) LoadProgress(ctx context.Context, playerID string) (*models.Progress, error) {
	progress := &models.Progress{
		PlayerID: playerID,
	}

	q := `
	SELECT current_level, updated_at FROM players WHERE player_id = ?;
	`
	if err := r.db.QueryRowContext(ctx, q, playerID).Scan(&progress.CurrentLevel, &progress.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}

	q = `
	SELECT level_name, result FROM level_results WHERE player_id = ? ORDER BY position;
	`
	rows, err := r.db.QueryContext(ctx, q, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query level results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var result models.LevelResult
		if err := rows.Scan(&result.Level, &result.Result); err != nil {
			return nil, fmt.Errorf("failed to scan level result: %w", err)
		}
		progress.Results = append(progress.Results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read level results: %w", err)
	}

	return progress, nil
}

func (r *SQLiteRepository) SaveProgress(ctx context.Context, progress *models.Progress) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := `
	INSERT OR REPLACE INTO players (player_id, current_level, updated_at)
	VALUES (?, ?, ?);
	`
	if _, err := tx.ExecContext(ctx, q, progress.PlayerID, progress.CurrentLevel, progress.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM level_results WHERE player_id = ?;`, progress.PlayerID); err != nil {
		return fmt.Errorf("failed to clear level results: %w", err)
	}

	q = `
	INSERT INTO level_results (player_id, position, level_name, result)
	VALUES (?, ?, ?, ?);
	`
	for i, result := range progress.Results {
		if _, err := tx.ExecContext(ctx, q, progress.PlayerID, i, result.Level, result.Result); err != nil {
			return fmt.Errorf("failed to insert level result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
