// Package history persists the two lookup histories (JQL searches and
// viewed issues) as flat JSON arrays on disk. Each file is capped and
// de-duplicated most-recent-first.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultMaxEntries caps each history file unless overridden.
const DefaultMaxEntries = 50

// Store is one capped most-recent-first history file.
type Store struct {
	path       string
	maxEntries int
}

// NewStore creates a store backed by the given file path. maxEntries
// <= 0 falls back to DefaultMaxEntries.
func NewStore(path string, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{path: path, maxEntries: maxEntries}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the history file. A missing or corrupt file is treated as
// an empty history; lookups must never fail because a cache file rotted.
func (s *Store) Load() []string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

// Add prepends entry, removing any earlier occurrence and trimming to
// the cap, then writes the file back.
func (s *Store) Add(entry string) error {
	if entry == "" {
		return nil
	}
	entries := s.Load()

	updated := make([]string, 0, len(entries)+1)
	updated = append(updated, entry)
	for _, e := range entries {
		if e != entry {
			updated = append(updated, e)
		}
	}
	if len(updated) > s.maxEntries {
		updated = updated[:s.maxEntries]
	}

	return s.save(updated)
}

// Clear removes the history file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// save writes entries to the backing file, creating the directory if
// needed.
func (s *Store) save(entries []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// Searches opens the JQL search history store under dir.
func Searches(dir string, maxEntries int) *Store {
	return NewStore(filepath.Join(dir, "search_history.json"), maxEntries)
}

// Issues opens the viewed-issue history store under dir.
func Issues(dir string, maxEntries int) *Store {
	return NewStore(filepath.Join(dir, "issue_history.json"), maxEntries)
}
