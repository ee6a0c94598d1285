package progress

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnavailable is returned when a backend cannot be reached.
var ErrUnavailable = errors.New("progress storage unavailable")

// Backend is a key-value medium for raw snapshot records.
type Backend interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// KeyLister is implemented by backends that can enumerate keys by prefix.
type KeyLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// PrefixDeleter is implemented by backends that can drop every key under a
// prefix in one operation.
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

// ErrNotListable is returned by List and ClearAll when the backend cannot
// enumerate its keys.
var ErrNotListable = errors.New("progress backend cannot list records")

// Store loads and saves per-category snapshots. Read failures and corrupt
// records are logged and reported as "no snapshot"; they never block a
// session from starting.
type Store struct {
	backend Backend
	log     zerolog.Logger
	now     func() time.Time
}

// New creates a Store on top of backend.
func New(backend Backend, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log.With().Str("component", "progress").Logger(),
		now:     time.Now,
	}
}

// Load returns the snapshot saved for categoryID, if a usable one exists.
// A corrupt record is deleted so it is not reported again.
func (s *Store) Load(ctx context.Context, categoryID string) (Snapshot, bool) {
	key := Key(categoryID)
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.log.Error().Err(err).Str("category", categoryID).Msg("progress read failed")
		return Snapshot{}, false
	}
	if !ok {
		return Snapshot{}, false
	}

	snap, err := Decode(categoryID, data)
	if err != nil {
		s.log.Warn().Err(err).Str("category", categoryID).Msg("discarding corrupt progress")
		if delErr := s.backend.Delete(ctx, key); delErr != nil {
			s.log.Error().Err(delErr).Str("category", categoryID).Msg("delete corrupt progress failed")
		}
		return Snapshot{}, false
	}
	return snap, true
}

// Save overwrites the snapshot for categoryID.
func (s *Store) Save(ctx context.Context, categoryID string, snap Snapshot) error {
	snap.CategoryID = categoryID
	if snap.SavedAt.IsZero() {
		snap.SavedAt = s.now().UTC()
	}
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := s.backend.Put(ctx, Key(categoryID), data); err != nil {
		return fmt.Errorf("save progress %q: %w", categoryID, err)
	}
	return nil
}

// Clear removes the snapshot for categoryID. Clearing a missing record succeeds.
func (s *Store) Clear(ctx context.Context, categoryID string) error {
	if err := s.backend.Delete(ctx, Key(categoryID)); err != nil {
		return fmt.Errorf("clear progress %q: %w", categoryID, err)
	}
	return nil
}

// List returns every usable snapshot, ordered by category ID. Corrupt
// records are skipped and logged, not deleted.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	keys, err := s.keys(ctx)
	if err != nil {
		return nil, err
	}
	var out []Snapshot
	for _, key := range keys {
		id := strings.TrimPrefix(key, KeyPrefix)
		data, ok, err := s.backend.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read progress %q: %w", id, err)
		}
		if !ok {
			continue
		}
		snap, err := Decode(id, data)
		if err != nil {
			s.log.Warn().Err(err).Str("category", id).Msg("skipping corrupt progress")
			continue
		}
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

// ClearAll removes every progress record and returns how many were removed.
func (s *Store) ClearAll(ctx context.Context) (int, error) {
	if pd, ok := s.backend.(PrefixDeleter); ok {
		n, err := pd.DeletePrefix(ctx, KeyPrefix)
		if err != nil {
			return 0, fmt.Errorf("clear progress: %w", err)
		}
		return int(n), nil
	}
	keys, err := s.keys(ctx)
	if err != nil {
		return 0, err
	}
	for i, key := range keys {
		if err := s.backend.Delete(ctx, key); err != nil {
			return i, fmt.Errorf("clear progress: %w", err)
		}
	}
	return len(keys), nil
}

func (s *Store) keys(ctx context.Context) ([]string, error) {
	lister, ok := s.backend.(KeyLister)
	if !ok {
		return nil, ErrNotListable
	}
	keys, err := lister.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return keys, nil
}
