package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cbodonnell/cardquest/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../migrations"

func newRepositories(t *testing.T) map[string]Repository {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	sqlite, err := NewSQLiteRepository(ctx, filepath.Join(dir, "progress.db"), filepath.Join(migrationsDir, "sqlite"))
	require.NoError(t, err)
	plain, err := NewFileRepository(filepath.Join(dir, "progress.json"))
	require.NoError(t, err)
	compressed, err := NewFileRepository(filepath.Join(dir, "nested", "progress.json.zst"))
	require.NoError(t, err)

	repos := map[string]Repository{
		"sqlite":          sqlite,
		"file":            plain,
		"compressed file": compressed,
		"memory":          NewMemoryRepository(),
	}
	t.Cleanup(func() {
		for _, r := range repos {
			r.Close(ctx)
		}
	})
	return repos
}

func TestRepository_RoundTrip(t *testing.T) {
	for name, repo := range newRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := repo.LoadProgress(ctx, "alice")
			assert.True(t, IsNotFound(err))

			first := &models.Progress{
				PlayerID:     "alice",
				CurrentLevel: "forest",
				UpdatedAt:    100,
				Results: []models.LevelResult{
					{Level: "meadow", Result: 3},
					{Level: "forest", Result: 0},
				},
			}
			require.NoError(t, repo.SaveProgress(ctx, first))

			second := &models.Progress{
				PlayerID:     "alice",
				CurrentLevel: "castle",
				UpdatedAt:    200,
				Results: []models.LevelResult{
					{Level: "meadow", Result: 3},
					{Level: "forest", Result: 2},
					{Level: "castle", Result: 0},
				},
			}
			require.NoError(t, repo.SaveProgress(ctx, second))
			require.NoError(t, repo.SaveProgress(ctx, &models.Progress{PlayerID: "bob", CurrentLevel: "meadow", UpdatedAt: 5}))

			got, err := repo.LoadProgress(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, second, got)

			bob, err := repo.LoadProgress(ctx, "bob")
			require.NoError(t, err)
			assert.Equal(t, "meadow", bob.CurrentLevel)
			assert.Empty(t, bob.Results)
		})
	}
}

func TestFileRepository_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.json.zst")

	repo, err := NewFileRepository(path)
	require.NoError(t, err)
	progress := &models.Progress{
		PlayerID:     "alice",
		CurrentLevel: "meadow",
		Results:      []models.LevelResult{{Level: "meadow", Result: 1}},
	}
	require.NoError(t, repo.SaveProgress(ctx, progress))

	reopened, err := NewFileRepository(path)
	require.NoError(t, err)
	got, err := reopened.LoadProgress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, progress, got)

	matches, err := filepath.Glob(path + ".tmp-*")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		url     string
		want    interface{}
		wantErr bool
	}{
		{name: "memory", url: "memory://", want: &MemoryRepository{}},
		{name: "sqlite", url: "sqlite://" + filepath.Join(dir, "p.db"), want: &SQLiteRepository{}},
		{name: "file", url: "file://" + filepath.Join(dir, "p.json"), want: &FileRepository{}},
		{name: "no scheme", url: "progress.db", wantErr: true},
		{name: "unknown scheme", url: "redis://localhost", wantErr: true},
		{name: "empty sqlite path", url: "sqlite://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := Open(ctx, tt.url, migrationsDir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer repo.Close(ctx)
			assert.IsType(t, tt.want, repo)
		})
	}
}
