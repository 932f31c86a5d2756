package levels

import (
	"errors"
	"fmt"

	"github.com/cbodonnell/cardquest/pkg/log"
)

var (
	// ErrMissingCurrentLevel means the saved current level could not be resolved.
	// Callers must fall back to a default level or abort initialization.
	ErrMissingCurrentLevel = errors.New("current level was not set")
	// ErrEmptyCatalog means there are no levels to play.
	ErrEmptyCatalog = errors.New("level catalog is empty")
)

// LoadProgress rebuilds a player's level list from the catalog and the saved
// progress, and resolves the current level.
//
// Saved levels are unlocked with their saved result. The level right after the
// last saved one is unlocked as well, but only if that last result is better than
// not passed. The walk stops at the first level that is neither saved nor that
// single frontier level, so everything after it stays locked.
func LoadProgress(saved *SavedProgress, savedCurrent string, catalog []Level) ([]*Level, *Level, error) {
	if len(catalog) == 0 {
		return nil, nil, ErrEmptyCatalog
	}

	playerLevels := make([]*Level, 0, len(catalog))
	for _, l := range catalog {
		playerLevels = append(playerLevels, &Level{
			Name:        l.Name,
			ContentPath: l.ContentPath,
			State:       StateLocked,
			Result:      ResultNotPassed,
		})
	}

	for _, name := range saved.Names() {
		if FindByName(playerLevels, name) == nil {
			log.Warn("Saved level %s is not in the catalog", name)
		}
	}

	last, _ := saved.Last()
	unlockNext := false
	for _, l := range playerLevels {
		if result, ok := saved.Get(l.Name); ok {
			if !result.Valid() {
				log.Warn("Saved level %s has unknown result %d", l.Name, result)
				result = ResultNotPassed
			}
			l.State = StateUnlocked
			l.Result = result
			if result != ResultNotPassed && l.Name == last.Name {
				unlockNext = true
			}
		} else if unlockNext {
			l.unlock()
			unlockNext = false
		} else {
			break
		}
	}

	current := resolveCurrent(playerLevels, saved, savedCurrent)
	if current == nil {
		return playerLevels, nil, fmt.Errorf("%w: %q", ErrMissingCurrentLevel, savedCurrent)
	}

	return playerLevels, current, nil
}

// resolveCurrent finds the saved current level. A player whose only progress is
// a passed first level continues with the second one instead of replaying it.
func resolveCurrent(playerLevels []*Level, saved *SavedProgress, savedCurrent string) *Level {
	if saved.Len() == 1 {
		first := playerLevels[0].Name
		entry := saved.Entries[0]
		if entry.Result != ResultNotPassed && entry.Name == first && savedCurrent == first {
			if next := FindNextByName(playerLevels, first); next != nil {
				return next
			}
		}
	}
	return FindByName(playerLevels, savedCurrent)
}
