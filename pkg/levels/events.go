package levels

// LevelUnlocked is emitted when a level becomes playable.
type LevelUnlocked struct {
	Level *Level `json:"level"`
}

// LevelFinished carries the result reported for the finished level, which may
// be lower than the stored best result.
type LevelFinished struct {
	Name   string `json:"name"`
	Result Result `json:"result"`
}

// CatalogComplete is emitted when there is no level after the current one.
type CatalogComplete struct{}

// LoadError is emitted when there is no current level to load.
type LoadError struct{}

type ContentNotFound struct {
	Name        string `json:"name"`
	ContentPath string `json:"contentPath"`
}

type SelectedLevelMissing struct {
	Name string `json:"name"`
}

type LevelLocked struct {
	Name string `json:"name"`
}

type LevelLoading struct {
	Name string `json:"name"`
}

type LevelLoaded struct {
	Name string `json:"name"`
}
