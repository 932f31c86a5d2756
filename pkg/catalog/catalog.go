// Package catalog reads the level catalog and card deck settings from YAML.
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cbodonnell/cardquest/pkg/levels"
	"github.com/cbodonnell/cardquest/pkg/match"
	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Levels []LevelEntry `yaml:"levels"`
	Cards  CardSettings `yaml:"cards"`
}

type LevelEntry struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
}

// CardSettings configures the board dealt for every level.
// Zero durations and arity fall back to the matcher defaults.
type CardSettings struct {
	Faces         []string      `yaml:"faces"`
	Pairs         int           `yaml:"pairs"`
	Arity         int           `yaml:"arity,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	MismatchDelay time.Duration `yaml:"mismatch_delay,omitempty"`
	HideDelay     time.Duration `yaml:"hide_delay,omitempty"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a catalog, rejecting unknown fields.
func Parse(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var c Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return &c, nil
}

func (c *Catalog) Validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("levels list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(c.Levels))
	for i, l := range c.Levels {
		if l.Name == "" {
			return fmt.Errorf("level %d: name is required", i)
		}
		if seen[l.Name] {
			return fmt.Errorf("level %d: duplicate name %s", i, l.Name)
		}
		seen[l.Name] = true
		if l.Content == "" {
			return fmt.Errorf("level %s: content is required", l.Name)
		}
	}

	if len(c.Cards.Faces) == 0 {
		return fmt.Errorf("cards.faces is required and must be non-empty")
	}
	if c.Cards.Pairs < 1 {
		return fmt.Errorf("cards.pairs must be at least 1")
	}
	if c.Cards.Arity != 0 && c.Cards.Arity < 2 {
		return fmt.Errorf("cards.arity must be at least 2")
	}
	if c.Cards.Timeout < 0 || c.Cards.MismatchDelay < 0 || c.Cards.HideDelay < 0 {
		return fmt.Errorf("card delays must not be negative")
	}

	return nil
}

// LevelList returns the catalog levels, locked and not passed.
func (c *Catalog) LevelList() []levels.Level {
	out := make([]levels.Level, 0, len(c.Levels))
	for _, l := range c.Levels {
		out = append(out, levels.Level{
			Name:        l.Name,
			ContentPath: l.Content,
		})
	}
	return out
}

// MatcherOptions returns the matcher settings without queue or scheduler.
func (c *Catalog) MatcherOptions() match.NewMatcherOptions {
	return match.NewMatcherOptions{
		Arity:         c.Cards.Arity,
		Timeout:       c.Cards.Timeout,
		MismatchDelay: c.Cards.MismatchDelay,
		HideDelay:     c.Cards.HideDelay,
	}
}

// Arity returns the configured match arity or the matcher default.
func (c *Catalog) Arity() int {
	if c.Cards.Arity == 0 {
		return match.DefaultArity
	}
	return c.Cards.Arity
}
