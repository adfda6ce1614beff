package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"surfwatch/internal/model"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "last_state.json"))
}

func slot(date, tod, session string) model.Slot {
	return model.Slot{Date: date, Time: tod, Session: session, SortKey: date + "T00:00:00"}
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := tempStore(t)
	seen := s.Load()
	if len(seen) != 0 {
		t.Errorf("Load() on missing file returned %d keys, want 0", len(seen))
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{{{not json"},
		{"wrong shape", `{"seen_slots": "not-a-list"}`},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tempStore(t)
			if err := os.WriteFile(s.Path(), []byte(tt.body), 0o600); err != nil {
				t.Fatal(err)
			}
			// Fail-open: corruption means "nothing previously seen".
			seen := s.Load()
			if len(seen) != 0 {
				t.Errorf("Load() on corrupt file returned %d keys, want 0", len(seen))
			}
		})
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := tempStore(t)
	slots := []model.Slot{
		slot("2024-06-01", "9:00 AM", "Beginner"),
		slot("2024-06-01", "10:00 AM", "Advanced"),
		slot("2024-06-02", "1:30 PM", "Unknown"),
	}

	if err := s.Save(slots); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	seen := s.Load()
	if len(seen) != len(slots) {
		t.Fatalf("Load() returned %d keys, want %d", len(seen), len(slots))
	}
	for _, sl := range slots {
		if _, ok := seen[sl.Key()]; !ok {
			t.Errorf("Load() missing key %q", sl.Key())
		}
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := tempStore(t)

	if err := s.Save([]model.Slot{slot("2024-06-01", "9:00 AM", "Beginner")}); err != nil {
		t.Fatal(err)
	}
	// Second snapshot fully replaces the first; a slot that disappears
	// and reappears later counts as new again.
	if err := s.Save([]model.Slot{slot("2024-06-02", "2:00 PM", "Advanced")}); err != nil {
		t.Fatal(err)
	}

	seen := s.Load()
	if len(seen) != 1 {
		t.Fatalf("Load() returned %d keys, want 1", len(seen))
	}
	if _, ok := seen["2024-06-01|9:00 AM|Beginner"]; ok {
		t.Error("old snapshot key survived an overwrite")
	}
	if _, ok := seen["2024-06-02|2:00 PM|Advanced"]; !ok {
		t.Error("new snapshot key missing after overwrite")
	}
}

func TestStore_SaveEmptySnapshot(t *testing.T) {
	s := tempStore(t)
	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil) error: %v", err)
	}
	if seen := s.Load(); len(seen) != 0 {
		t.Errorf("Load() after empty save returned %d keys, want 0", len(seen))
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Errorf("state file not created by empty save: %v", err)
	}
}

func TestStore_SaveFileFormat(t *testing.T) {
	s := tempStore(t)
	if err := s.Save([]model.Slot{slot("2024-06-01", "9:00 AM", "Beginner")}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	var rec model.StateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("state file is not valid JSON: %v", err)
	}
	if len(rec.SeenSlots) != 1 || rec.SeenSlots[0] != "2024-06-01|9:00 AM|Beginner" {
		t.Errorf("seen_slots = %v", rec.SeenSlots)
	}
	if rec.UpdatedAt.IsZero() {
		t.Error("updated_at is zero")
	}
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	s := tempStore(t)
	if err := s.Save([]model.Slot{slot("2024-06-01", "9:00 AM", "Beginner")}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("state dir has %d entries, want 1", len(entries))
	}
}

// First invocation: nothing persisted yet, so every current slot is new,
// and afterwards the state file holds exactly those slots' keys.
func TestStore_FirstRunScenario(t *testing.T) {
	s := tempStore(t)
	current := []model.Slot{
		slot("2024-06-01", "9:00 AM", "Beginner"),
		slot("2024-06-01", "10:00 AM", "Beginner"),
	}

	fresh := Diff(current, s.Load())
	if len(fresh) != len(current) {
		t.Fatalf("first run reported %d new slots, want %d", len(fresh), len(current))
	}
	for i := range current {
		if fresh[i].Key() != current[i].Key() {
			t.Errorf("first run diff[%d] = %q, want %q", i, fresh[i].Key(), current[i].Key())
		}
	}

	if err := s.Save(current); err != nil {
		t.Fatal(err)
	}
	seen := s.Load()
	if len(seen) != len(current) {
		t.Fatalf("persisted %d keys, want %d", len(seen), len(current))
	}
	if len(Diff(current, seen)) != 0 {
		t.Error("second pass over identical slots still reports new ones")
	}
}
