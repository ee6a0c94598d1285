package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmaster/internal/progress"
	"github.com/abhisek/quizmaster/internal/questionbank"
	"github.com/abhisek/quizmaster/internal/store"
)

// geographyAnswers are the correct labels for the embedded Geography category.
var geographyAnswers = []string{"B", "A", "C", "D", "B"}

// fakeTimers records AfterFunc calls and fires them on demand.
type fakeTimers struct {
	mu      sync.Mutex
	pending []*fakeTimer
	started int
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (ft *fakeTimers) AfterFunc(d time.Duration, f func()) func() bool {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	ft.pending = append(ft.pending, t)
	ft.started++
	return func() bool {
		ft.mu.Lock()
		defer ft.mu.Unlock()
		was := !t.stopped
		t.stopped = true
		return was
	}
}

// fireAll runs every timer, including stopped ones, the way a timer that
// already fired before Stop would.
func (ft *fakeTimers) fireAll() {
	ft.mu.Lock()
	pending := ft.pending
	ft.pending = nil
	ft.mu.Unlock()
	for _, t := range pending {
		t.f()
	}
}

type recordingEvents struct {
	mu     sync.Mutex
	events []store.SessionEventData
}

func (r *recordingEvents) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return nil
}

func (r *recordingEvents) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

// fakeSource serves a fixed category map or a fixed error.
type fakeSource struct {
	mu         sync.Mutex
	categories map[string]*questionbank.Category
	err        error
	gate       chan struct{}
	calls      int
}

func (f *fakeSource) Category(ctx context.Context, id string) (*questionbank.Category, error) {
	f.mu.Lock()
	f.calls++
	gate, err := f.gate, f.err
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	cat, ok := f.categories[id]
	if !ok {
		return nil, questionbank.ErrCategoryNotFound
	}
	return cat, nil
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type harness struct {
	t       *testing.T
	ctx     context.Context
	c       *Controller
	timers  *fakeTimers
	backend *progress.MemoryBackend
	store   *progress.Store
	events  *recordingEvents
	tokens  []Token
}

func embeddedSource() QuestionSource {
	return questionbank.NewClient(questionbank.EmbeddedSource{}, zerolog.Nop())
}

func newHarness(t *testing.T, src QuestionSource) *harness {
	backend := progress.NewMemoryBackend()
	return newHarnessWithBackend(t, src, backend)
}

func newHarnessWithBackend(t *testing.T, src QuestionSource, backend *progress.MemoryBackend) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		ctx:     context.Background(),
		timers:  &fakeTimers{},
		backend: backend,
		store:   progress.New(backend, zerolog.Nop()),
		events:  &recordingEvents{},
	}
	h.c = New(Options{
		Questions: src,
		Progress:  h.store,
		Events:    h.events,
		Delay:     1500 * time.Millisecond,
		AfterFunc: h.timers.AfterFunc,
		Dispatch:  func(tok Token) { h.tokens = append(h.tokens, tok) },
		Logger:    zerolog.Nop(),
	})
	return h
}

// fire runs pending timers and delivers their tokens to the controller.
// It returns how many fires were accepted.
func (h *harness) fire() int {
	h.timers.fireAll()
	tokens := h.tokens
	h.tokens = nil
	accepted := 0
	for _, tok := range tokens {
		if h.c.Fire(h.ctx, tok) {
			accepted++
		}
	}
	return accepted
}

func (h *harness) snapshot(categoryID string) (progress.Snapshot, bool) {
	return h.store.Load(h.ctx, categoryID)
}

// requireScoreInvariant checks the score always equals the award times the
// number of correctly answered questions.
func requireScoreInvariant(t *testing.T, st State) {
	t.Helper()
	require.Equal(t, PointsPerCorrect*len(st.Attempted), st.TotalScore, "score invariant")
}

func testCategory(id string, n int) *questionbank.Category {
	cat := &questionbank.Category{ID: id, DisplayName: id}
	for i := 0; i < n; i++ {
		cat.Questions = append(cat.Questions, questionbank.Question{
			Prompt:     "Question",
			Options:    []string{"yes", "no"},
			Answer:     0,
			Difficulty: questionbank.DifficultyEasy,
		})
	}
	return cat
}
