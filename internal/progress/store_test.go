package progress

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBackend fails every call with err.
type failingBackend struct{ err error }

func (f failingBackend) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingBackend) Put(context.Context, string, []byte) error       { return f.err }
func (f failingBackend) Delete(context.Context, string) error            { return f.err }

type listingBackend interface {
	Backend
	KeyLister
}

func exerciseBackend(t *testing.T, b listingBackend) {
	t.Helper()
	ctx := context.Background()
	st := New(b, zerolog.Nop())

	_, ok := st.Load(ctx, "Geography")
	assert.False(t, ok, "no snapshot yet")

	snap := Snapshot{QuestionIndex: 1, TotalScore: 10, Attempted: []int{0}}
	require.NoError(t, st.Save(ctx, "Geography", snap))

	got, ok := st.Load(ctx, "Geography")
	require.True(t, ok)
	assert.Equal(t, "Geography", got.CategoryID)
	assert.Equal(t, 1, got.QuestionIndex)
	assert.Equal(t, 10, got.TotalScore)
	assert.Equal(t, []int{0}, got.Attempted)
	assert.False(t, got.SavedAt.IsZero())

	// Categories are isolated.
	_, ok = st.Load(ctx, "History")
	assert.False(t, ok)

	// Overwrite.
	snap.QuestionIndex = 2
	require.NoError(t, st.Save(ctx, "Geography", snap))
	got, ok = st.Load(ctx, "Geography")
	require.True(t, ok)
	assert.Equal(t, 2, got.QuestionIndex)

	require.NoError(t, st.Clear(ctx, "Geography"))
	_, ok = st.Load(ctx, "Geography")
	assert.False(t, ok)

	// Clearing twice is fine.
	require.NoError(t, st.Clear(ctx, "Geography"))

	// Listing and clearing everything.
	require.NoError(t, st.Save(ctx, "Geography", Snapshot{QuestionIndex: 1, TotalScore: 10, Attempted: []int{0}}))
	require.NoError(t, st.Save(ctx, "Sports", Snapshot{}))
	require.NoError(t, b.Put(ctx, "unrelated", []byte("x")))
	all, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Geography", all[0].CategoryID)
	assert.Equal(t, "Sports", all[1].CategoryID)

	n, err := st.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	all, err = st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	_, exists, err := b.Get(ctx, "unrelated")
	require.NoError(t, err)
	assert.True(t, exists, "keys outside the prefix are untouched")

	// Corrupt records are discarded and removed.
	require.NoError(t, b.Put(ctx, Key("History"), []byte("{{{")))
	_, ok = st.Load(ctx, "History")
	assert.False(t, ok)
	_, exists, err = b.Get(ctx, Key("History"))
	require.NoError(t, err)
	assert.False(t, exists, "corrupt record should be deleted")
}

func TestStore_Memory(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewRedisBackendFromClient(rdb)
	t.Cleanup(func() { b.Close() })

	exerciseBackend(t, b)
}

func TestNewRedisBackend_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisBackend(ctx, "redis://"+addr+"/0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestStore_BackendFailures(t *testing.T) {
	var logs bytes.Buffer
	st := New(failingBackend{err: errors.New("quota exceeded")}, zerolog.New(&logs))
	ctx := context.Background()

	_, ok := st.Load(ctx, "Geography")
	assert.False(t, ok, "read failure reads as no snapshot")
	assert.Contains(t, logs.String(), "progress read failed")

	err := st.Save(ctx, "Geography", Snapshot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	require.Error(t, st.Clear(ctx, "Geography"))
}

func TestStore_CorruptIsLogged(t *testing.T) {
	var logs bytes.Buffer
	b := NewMemoryBackend()
	st := New(b, zerolog.New(&logs))
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, Key("Geography"), []byte("garbage")))
	_, ok := st.Load(ctx, "Geography")
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "discarding corrupt progress")
}

func TestStore_ListUnsupported(t *testing.T) {
	st := New(failingBackend{err: errors.New("x")}, zerolog.Nop())
	_, err := st.List(context.Background())
	assert.ErrorIs(t, err, ErrNotListable)
	_, err = st.ClearAll(context.Background())
	assert.ErrorIs(t, err, ErrNotListable)
}
