package progress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is the current snapshot format. Version 1 records carry no
// missed list and are still accepted.
const SchemaVersion = 2

// KeyPrefix namespaces progress records in the backing store.
const KeyPrefix = "quizmaster/progress/v1/"

// ErrCorrupt marks a stored record that cannot be used as a snapshot.
var ErrCorrupt = errors.New("corrupt progress snapshot")

// Key derives the storage key for a category. The prefix is fixed, so
// distinct category IDs never share a key.
func Key(categoryID string) string {
	return KeyPrefix + categoryID
}

// Snapshot is the persisted subset of a quiz session.
type Snapshot struct {
	Version       int       `json:"version"`
	CategoryID    string    `json:"category_id"`
	QuestionIndex int       `json:"question_index"`
	TotalScore    int       `json:"total_score"`
	Attempted     []int     `json:"attempted"`
	// Missed holds the indices that got a wrong answer before the right one.
	Missed        []int     `json:"missed"`
	SavedAt       time.Time `json:"saved_at"`
}

// Encode serializes s at the current schema version.
func Encode(s Snapshot) ([]byte, error) {
	s.Version = SchemaVersion
	if s.Attempted == nil {
		s.Attempted = []int{}
	}
	if s.Missed == nil {
		s.Missed = []int{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

// Decode parses a stored record for categoryID. Any record that does not
// have exactly the expected shape returns an error wrapping ErrCorrupt.
// Bounds against the question list are the caller's concern.
func Decode(categoryID string, data []byte) (Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if dec.More() {
		return Snapshot{}, fmt.Errorf("%w: trailing data", ErrCorrupt)
	}
	if err := s.check(categoryID); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return s, nil
}

func (s Snapshot) check(categoryID string) error {
	if s.Version < 1 || s.Version > SchemaVersion {
		return fmt.Errorf("version %d, want 1..%d", s.Version, SchemaVersion)
	}
	if s.CategoryID != categoryID {
		return fmt.Errorf("category %q, want %q", s.CategoryID, categoryID)
	}
	if s.QuestionIndex < 0 {
		return fmt.Errorf("negative question index %d", s.QuestionIndex)
	}
	if s.TotalScore < 0 {
		return fmt.Errorf("negative score %d", s.TotalScore)
	}
	if err := checkIndices("attempted", s.Attempted); err != nil {
		return err
	}
	return checkIndices("missed", s.Missed)
}

func checkIndices(field string, indices []int) error {
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 {
			return fmt.Errorf("negative %s index %d", field, i)
		}
		if seen[i] {
			return fmt.Errorf("duplicate %s index %d", field, i)
		}
		seen[i] = true
	}
	return nil
}
