// Package state persists the set of slot identity keys seen on the
// previous run and computes the delta against the current run.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	appLog "surfwatch/internal/log"
	"surfwatch/internal/model"
)

// Store reads and writes the previous-state snapshot at an injected
// path, so tests can point it at a temporary file.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the previously seen identity keys.
//
// This is fail-open: an absent, unreadable, or structurally invalid file
// means "nothing previously seen" and yields an empty set. Corruption
// must never abort the pipeline; the next diff simply reports every
// current slot as new.
func (s *Store) Load() map[string]struct{} {
	seen := make(map[string]struct{})

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			appLog.Info("state file unreadable, starting fresh", "path", s.path, "reason", err)
		}
		return seen
	}

	var rec model.StateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		appLog.Info("state file invalid, starting fresh", "path", s.path, "reason", err)
		return seen
	}

	for _, key := range rec.SeenSlots {
		seen[key] = struct{}{}
	}
	return seen
}

// Save overwrites the snapshot with the identity keys of the current
// slots and a fresh timestamp. It runs unconditionally every run,
// including runs with zero new slots, and must complete before any
// notification attempt so a delivery failure never re-reports a slot.
//
// The write is atomic: temp file in the target directory, fsync, chmod
// 0600, rename.
func (s *Store) Save(slots []model.Slot) error {
	rec := model.StateRecord{
		SeenSlots: model.Keys(slots),
		UpdatedAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(&rec, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".surfwatch-state-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, s.path)
}
