package repositories

import (
	"context"
	"fmt"

	"github.com/cbodonnell/cardquest/pkg/log"
	"github.com/cbodonnell/cardquest/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository connects to the database and runs the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	conn, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(migrations, func(name string, migration string) error {
		_, err := conn.Exec(ctx, migration)
		return err
	}); err != nil {
		conn.Close(ctx)
		return nil, err
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %w", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return conn, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) LoadProgress(ctx context.Context, playerID string) (*models.Progress, error) {
	progress := &models.Progress{
		PlayerID: playerID,
	}

	q := `
	SELECT current_level, updated_at FROM players WHERE player_id = $1;
	`
	if err := r.conn.QueryRow(ctx, q, playerID).Scan(&progress.CurrentLevel, &progress.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}

	q = `
	SELECT level_name, result FROM level_results WHERE player_id = $1 ORDER BY position;
	`
	rows, err := r.conn.Query(ctx, q, playerID)
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

func (r *PostgresRepository) SaveProgress(ctx context.Context, progress *models.Progress) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	q := `
	INSERT INTO players (player_id, current_level, updated_at) VALUES ($1, $2, $3)
	ON CONFLICT (player_id) DO UPDATE SET current_level = $2, updated_at = $3;
	`
	if _, err := tx.Exec(ctx, q, progress.PlayerID, progress.CurrentLevel, progress.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM level_results WHERE player_id = $1;`, progress.PlayerID)
	for i, result := range progress.Results {
		batch.Queue(`
		INSERT INTO level_results (player_id, position, level_name, result) VALUES ($1, $2, $3, $4);
		`, progress.PlayerID, i, result.Level, result.Result)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to write level results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
