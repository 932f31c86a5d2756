package levels

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cbodonnell/cardquest/pkg/log"
	"github.com/cbodonnell/cardquest/pkg/queue"
	"github.com/cbodonnell/cardquest/pkg/scheduler"
)

// Store persists a player's progress and current level name.
// Save must not leave previously saved progress corrupted if it fails midway.
type Store interface {
	Load(ctx context.Context) (*SavedProgress, string, error)
	Save(ctx context.Context, progress *SavedProgress, current string) error
}

// ContentLoader loads the content of a level.
type ContentLoader interface {
	LoadContent(ctx context.Context, contentPath string) error
}

// Manager owns one player's level progression. It is not safe for concurrent
// use; the game loop serializes all calls.
type Manager struct {
	catalog       []Level
	store         Store
	loader        ContentLoader
	notifications queue.Queue
	scheduler     *scheduler.Scheduler
	selectDelay   time.Duration
	fallbackPath  string

	saved         *SavedProgress
	savedCurrent  string
	playerLevels  []*Level
	current       *Level
	pendingSelect *scheduler.Handle
}

// NewManagerOptions contains options for creating a new Manager.
type NewManagerOptions struct {
	Catalog       []Level
	Store         Store
	Loader        ContentLoader
	Notifications queue.Queue
	Scheduler     *scheduler.Scheduler
	// SelectDelay postpones loading a selected level. Zero loads immediately.
	SelectDelay time.Duration
	// FallbackContentPath names the content of the level Fallback prefers
	// over the first catalog level.
	FallbackContentPath string
}

func NewManager(opts NewManagerOptions) *Manager {
	catalog := make([]Level, len(opts.Catalog))
	copy(catalog, opts.Catalog)
	return &Manager{
		catalog:       catalog,
		store:         opts.Store,
		loader:        opts.Loader,
		notifications: opts.Notifications,
		scheduler:     opts.Scheduler,
		selectDelay:   opts.SelectDelay,
		fallbackPath:  opts.FallbackContentPath,
		saved:         &SavedProgress{},
	}
}

// Init loads the saved progress and resolves the current level. A player without
// any progress starts at the first catalog level. An ErrMissingCurrentLevel
// error leaves the level list built; callers recover with Fallback.
func (m *Manager) Init(ctx context.Context) error {
	if len(m.catalog) == 0 {
		return ErrEmptyCatalog
	}

	saved, current, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	if saved.Len() == 0 {
		first := m.catalog[0].Name
		saved = NewSavedProgress(ProgressEntry{Name: first, Result: ResultNotPassed})
		current = first
	}

	m.saved = saved.Copy()
	m.savedCurrent = current
	return m.rebuild()
}

func (m *Manager) rebuild() error {
	playerLevels, current, err := LoadProgress(m.saved, m.savedCurrent, m.catalog)
	m.playerLevels = playerLevels
	if err != nil {
		m.current = nil
		return err
	}
	m.current = current
	return nil
}

// Fallback makes a level current when the saved one cannot be resolved. An
// unlocked level whose content matches the fallback content path wins;
// otherwise the first catalog level is used, unlocking it if needed.
func (m *Manager) Fallback(ctx context.Context) error {
	if len(m.playerLevels) == 0 {
		return ErrEmptyCatalog
	}

	level := m.playerLevels[0]
	if m.fallbackPath != "" {
		found, err := FindByContentPath(m.playerLevels, m.fallbackPath)
		switch {
		case err != nil:
			log.Warn("Fallback content %s was not resolved: %v", m.fallbackPath, err)
		case found.State == StateLocked:
			log.Warn("Fallback level %s is locked", found.Name)
		default:
			level = found
		}
	}

	if level.State == StateLocked {
		level.unlock()
	}
	if _, ok := m.saved.Get(level.Name); !ok {
		m.saved.Set(level.Name, level.Result)
	}
	m.current = level
	m.savedCurrent = level.Name
	log.Warn("Falling back to level %s", level.Name)

	return m.save(ctx)
}

// CompleteCurrent records the result of the current level and unlocks the next
// one. The stored result only ever improves, but the finish notification always
// carries the reported result.
func (m *Manager) CompleteCurrent(ctx context.Context, result Result) error {
	if !result.Valid() {
		return fmt.Errorf("invalid result: %d", result)
	}
	if m.current == nil {
		m.emit(&LoadError{})
		return ErrMissingCurrentLevel
	}

	if m.current.Result < result {
		m.current.Result = result
	}
	m.saved.Set(m.current.Name, m.current.Result)
	saveErr := m.save(ctx)

	m.emit(&LevelFinished{
		Name:   m.current.Name,
		Result: result,
	})

	next := FindNextByName(m.playerLevels, m.current.Name)
	if next == nil {
		log.Info("Level %s was the last level", m.current.Name)
		m.emit(&CatalogComplete{})
		return saveErr
	}

	if next.State == StateLocked {
		next.unlock()
		m.emit(&LevelUnlocked{Level: next.Copy()})
	}
	m.savedCurrent = next.Name

	return errors.Join(saveErr, m.save(ctx))
}

// SelectLevel makes the named level current and loads it after the select delay.
// A newer selection replaces one that is still waiting.
func (m *Manager) SelectLevel(ctx context.Context, name string) error {
	m.pendingSelect.Cancel()
	m.pendingSelect = nil

	if m.selectDelay <= 0 || m.scheduler == nil {
		return m.selectNow(ctx, name)
	}

	m.pendingSelect = m.scheduler.After(m.selectDelay, func() {
		m.pendingSelect = nil
		if err := m.selectNow(ctx, name); err != nil {
			log.Error("Failed to load selected level %s: %v", name, err)
		}
	})
	return nil
}

func (m *Manager) selectNow(ctx context.Context, name string) error {
	level := FindByName(m.playerLevels, name)
	if level == nil {
		log.Warn("Level named %s was not found", name)
		m.emit(&SelectedLevelMissing{Name: name})
		return nil
	}
	if level.State == StateLocked {
		log.Warn("Level %s is locked", name)
		m.emit(&LevelLocked{Name: name})
		return nil
	}

	m.current = level
	return m.LoadCurrent(ctx)
}

// StartGame resolves the current level from the saved progress and loads it.
func (m *Manager) StartGame(ctx context.Context) error {
	current := resolveCurrent(m.playerLevels, m.saved, m.savedCurrent)
	if current == nil {
		m.emit(&LoadError{})
		return fmt.Errorf("%w: %q", ErrMissingCurrentLevel, m.savedCurrent)
	}
	m.current = current
	return m.LoadCurrent(ctx)
}

// RepeatLevel reloads the current level.
func (m *Manager) RepeatLevel(ctx context.Context) error {
	return m.LoadCurrent(ctx)
}

// AdvanceToNext makes the level after the current one current and loads it.
func (m *Manager) AdvanceToNext(ctx context.Context) error {
	if m.current == nil {
		m.emit(&LoadError{})
		return nil
	}

	next := FindNextByName(m.playerLevels, m.current.Name)
	if next == nil {
		log.Info("The last level was finished, there is no next level")
		m.emit(&CatalogComplete{})
		return nil
	}
	if next.State == StateLocked {
		m.emit(&LevelLocked{Name: next.Name})
		return nil
	}

	m.current = next
	return m.LoadCurrent(ctx)
}

// LoadCurrent saves the current level name and loads its content.
func (m *Manager) LoadCurrent(ctx context.Context) error {
	if m.current == nil {
		log.Warn("The current level cannot be loaded")
		m.emit(&LoadError{})
		return nil
	}

	m.savedCurrent = m.current.Name
	saveErr := m.save(ctx)

	m.emit(&LevelLoading{Name: m.current.Name})
	if err := m.loader.LoadContent(ctx, m.current.ContentPath); err != nil {
		log.Warn("Content %s for level %s was not loaded: %v", m.current.ContentPath, m.current.Name, err)
		m.emit(&ContentNotFound{
			Name:        m.current.Name,
			ContentPath: m.current.ContentPath,
		})
		return saveErr
	}
	m.emit(&LevelLoaded{Name: m.current.Name})

	return saveErr
}

// Levels returns a copy of the player's level list.
func (m *Manager) Levels() []*Level {
	return CopyLevels(m.playerLevels)
}

// Current returns a copy of the current level, or nil.
func (m *Manager) Current() *Level {
	if m.current == nil {
		return nil
	}
	return m.current.Copy()
}

// Saved returns a copy of the saved progress and current level name.
func (m *Manager) Saved() (*SavedProgress, string) {
	return m.saved.Copy(), m.savedCurrent
}

func (m *Manager) save(ctx context.Context) error {
	if err := m.store.Save(ctx, m.saved.Copy(), m.savedCurrent); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func (m *Manager) emit(event interface{}) {
	if m.notifications == nil {
		return
	}
	if err := m.notifications.Enqueue(event); err != nil {
		log.Error("Failed to enqueue %T notification: %v", event, err)
	}
}
