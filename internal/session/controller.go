package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizmaster/internal/config"
	"github.com/abhisek/quizmaster/internal/progress"
	"github.com/abhisek/quizmaster/internal/questionbank"
	"github.com/abhisek/quizmaster/internal/store"
)

var (
	// ErrCategoryNotFound is returned by Initialize for unknown or empty categories.
	ErrCategoryNotFound = questionbank.ErrCategoryNotFound

	// ErrDataUnavailable is returned by Initialize when the bank cannot be fetched.
	ErrDataUnavailable = errors.New("question data unavailable")

	// ErrSuperseded is returned by Initialize when a newer load, reset or
	// close happened while the category was being fetched, and by
	// Initialize and Reset once the controller is closed.
	ErrSuperseded = errors.New("load superseded")
)

// QuestionSource resolves a category ID to its questions.
type QuestionSource interface {
	Category(ctx context.Context, id string) (*questionbank.Category, error)
}

// ProgressStore persists per-category snapshots.
type ProgressStore interface {
	Load(ctx context.Context, categoryID string) (progress.Snapshot, bool)
	Save(ctx context.Context, categoryID string, snap progress.Snapshot) error
	Clear(ctx context.Context, categoryID string) error
}

// EventRecorder receives session lifecycle events.
type EventRecorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Options configures a Controller.
type Options struct {
	Questions QuestionSource
	Progress  ProgressStore

	// Events is optional.
	Events EventRecorder

	// Delay before a correct answer auto-advances. Defaults to
	// config.DefaultAdvanceDelay.
	Delay time.Duration

	// AfterFunc starts auto-advance timers. Defaults to TimeAfterFunc.
	AfterFunc AfterFunc

	// Dispatch receives fired timer tokens. The receiver must eventually
	// call Fire with the token. Defaults to calling Fire directly from the
	// timer goroutine.
	Dispatch func(Token)

	Logger zerolog.Logger
}

// Controller drives one quiz session. All methods are safe for concurrent
// use; timer callbacks and user input are serialized by an internal mutex.
type Controller struct {
	mu sync.Mutex

	questions QuestionSource
	progress  ProgressStore
	events    EventRecorder
	log       zerolog.Logger
	sched     *Scheduler

	category  *questionbank.Category
	state     State
	sessionID string

	// loadGen is bumped by every Initialize, Reset and Close so a fetch that
	// completes late can tell it has been superseded.
	loadGen uint64
	closed  bool
}

// New creates a Controller in the Loading phase.
func New(opts Options) *Controller {
	c := &Controller{
		questions: opts.Questions,
		progress:  opts.Progress,
		events:    opts.Events,
		log:       opts.Logger.With().Str("component", "session").Logger(),
		state:     State{Phase: PhaseLoading},
	}

	delay := opts.Delay
	if delay <= 0 {
		delay = config.DefaultAdvanceDelay
	}
	dispatch := opts.Dispatch
	if dispatch == nil {
		dispatch = func(tok Token) { c.Fire(context.Background(), tok) }
	}
	c.sched = NewScheduler(delay, opts.AfterFunc, dispatch)
	return c
}

// Initialize loads categoryID and restores saved progress for it. The
// category fetch runs without holding the lock.
func (c *Controller) Initialize(ctx context.Context, categoryID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.loadGen++
	gen := c.loadGen
	c.sched.Cancel()
	c.category = nil
	c.state = State{CategoryID: categoryID, Phase: PhaseLoading}
	c.mu.Unlock()

	cat, err := c.questions.Category(ctx, categoryID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.loadGen {
		c.log.Debug().Str("category", categoryID).Msg("discarding superseded load")
		return ErrSuperseded
	}

	switch {
	case errors.Is(err, questionbank.ErrCategoryNotFound):
		c.state.Phase = PhaseNotFound
		return err
	case err != nil:
		c.state.Phase = PhaseNotFound
		c.log.Error().Err(err).Str("category", categoryID).Msg("question bank unavailable")
		return fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	case cat == nil || cat.Len() == 0:
		c.state.Phase = PhaseNotFound
		return fmt.Errorf("%w: %q has no questions", ErrCategoryNotFound, categoryID)
	}

	c.category = cat
	c.sessionID = uuid.NewString()
	c.state.TotalQuestions = cat.Len()

	action := store.ActionStart
	if snap, ok := c.progress.Load(ctx, categoryID); ok {
		if err := c.restoreLocked(snap); err != nil {
			c.log.Warn().Err(err).Str("category", categoryID).Msg("discarding out-of-range progress")
			c.clearLocked(ctx)
		} else {
			action = store.ActionResume
		}
	}

	c.state.Phase = PhaseActive
	c.recordLocked(ctx, action)
	c.log.Info().
		Str("category", categoryID).
		Str("action", action).
		Int("index", c.state.QuestionIndex).
		Int("score", c.state.TotalScore).
		Msg("session started")
	return nil
}

// restoreLocked applies snap if it fits the loaded category.
func (c *Controller) restoreLocked(snap progress.Snapshot) error {
	n := c.category.Len()
	if snap.QuestionIndex < 0 || snap.QuestionIndex >= n {
		return fmt.Errorf("%w: index %d outside [0,%d)", progress.ErrCorrupt, snap.QuestionIndex, n)
	}
	if len(snap.Attempted) > n {
		return fmt.Errorf("%w: %d attempted for %d questions", progress.ErrCorrupt, len(snap.Attempted), n)
	}
	for _, i := range snap.Attempted {
		if i < 0 || i > snap.QuestionIndex {
			return fmt.Errorf("%w: attempted index %d beyond position %d", progress.ErrCorrupt, i, snap.QuestionIndex)
		}
	}
	for _, i := range snap.Missed {
		if !slices.Contains(snap.Attempted, i) {
			return fmt.Errorf("%w: missed index %d was never answered", progress.ErrCorrupt, i)
		}
	}
	if snap.TotalScore != MaxScore(len(snap.Attempted)) {
		return fmt.Errorf("%w: score %d for %d correct answers", progress.ErrCorrupt, snap.TotalScore, len(snap.Attempted))
	}

	attempted := slices.Clone(snap.Attempted)
	slices.Sort(attempted)
	c.state.QuestionIndex = snap.QuestionIndex
	c.state.TotalScore = snap.TotalScore
	c.state.Attempted = attempted
	c.state.Missed = slices.Sorted(slices.Values(snap.Missed))
	return nil
}

// Submit selects an option by label. It is ignored unless a question is
// showing with no selection and label names one of its options.
func (c *Controller) Submit(ctx context.Context, label string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseActive || c.state.Selected != "" {
		c.log.Debug().Str("label", label).Stringer("phase", c.state.Phase).Msg("submit ignored")
		return false
	}
	q := c.category.Questions[c.state.QuestionIndex]
	if _, ok := q.IndexOf(label); !ok {
		c.log.Debug().Str("label", label).Msg("submit ignored: no such option")
		return false
	}

	c.state.Selected = label
	if !q.IsCorrect(label) {
		c.state.Feedback = FeedbackWrong
		i := c.state.QuestionIndex
		if !c.state.HasAttempted(i) && !c.state.HasMissed(i) {
			c.state.Missed = append(c.state.Missed, i)
			slices.Sort(c.state.Missed)
		}
		return true
	}

	c.state.Feedback = FeedbackCorrect
	if !c.state.HasAttempted(c.state.QuestionIndex) {
		c.state.TotalScore += Score(true)
		c.state.Attempted = append(c.state.Attempted, c.state.QuestionIndex)
		slices.Sort(c.state.Attempted)
	}
	c.saveLocked(ctx)
	c.sched.Arm()
	return true
}

// Retry clears a wrong answer so the question can be answered again.
func (c *Controller) Retry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseActive || c.state.Feedback != FeedbackWrong {
		c.log.Debug().Stringer("feedback", c.state.Feedback).Msg("retry ignored")
		return false
	}
	c.sched.Cancel()
	c.state.Selected = ""
	c.state.Feedback = FeedbackNone
	return true
}

// Advance moves past a correctly answered question without waiting for the
// auto-advance timer.
func (c *Controller) Advance(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseActive || c.state.Feedback != FeedbackCorrect {
		c.log.Debug().Stringer("feedback", c.state.Feedback).Msg("advance ignored")
		return false
	}
	c.sched.Cancel()
	c.advanceLocked(ctx)
	return true
}

// Fire handles an auto-advance timer firing. Stale tokens are ignored.
func (c *Controller) Fire(ctx context.Context, tok Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sched.Accept(tok) {
		c.log.Debug().Uint64("token", uint64(tok)).Msg("stale auto-advance ignored")
		return false
	}
	if c.state.Phase != PhaseActive || c.state.Feedback != FeedbackCorrect {
		return false
	}
	c.advanceLocked(ctx)
	return true
}

func (c *Controller) advanceLocked(ctx context.Context) {
	c.state.Selected = ""
	c.state.Feedback = FeedbackNone

	if c.state.IsLast() {
		c.state.Phase = PhaseComplete
		c.clearLocked(ctx)
		c.recordLocked(ctx, store.ActionComplete)
		c.log.Info().
			Str("category", c.state.CategoryID).
			Int("score", c.state.TotalScore).
			Msg("session complete")
		return
	}

	c.state.QuestionIndex++
	c.saveLocked(ctx)
}

// Reset starts the category over from the first question and forgets saved
// progress. If no questions are loaded it retries the load instead.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.sched.Cancel()
	c.clearLocked(ctx)

	if c.category == nil {
		id := c.state.CategoryID
		c.mu.Unlock()
		return c.Initialize(ctx, id)
	}
	defer c.mu.Unlock()

	c.loadGen++
	c.recordLocked(ctx, store.ActionReset)
	c.sessionID = uuid.NewString()
	c.state = State{
		CategoryID:     c.state.CategoryID,
		Phase:          PhaseActive,
		TotalQuestions: c.category.Len(),
	}
	c.recordLocked(ctx, store.ActionStart)
	c.log.Info().Str("category", c.state.CategoryID).Msg("session reset")
	return nil
}

// Close tears the session down. Pending timers are cancelled, in-flight
// loads are discarded and nothing further is persisted. Repeat calls are
// no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.sched.Cancel()
	c.loadGen++
	if c.state.Phase == PhaseActive {
		c.recordLocked(context.Background(), store.ActionAbandon)
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Question returns the current question, if one is showing.
func (c *Controller) Question() (questionbank.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.category == nil || c.state.Phase != PhaseActive {
		return questionbank.Question{}, false
	}
	return c.category.Questions[c.state.QuestionIndex], true
}

// Category returns the loaded category, or nil before a successful load.
func (c *Controller) Category() *questionbank.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

// Summary reports the score so far against the category maximum.
func (c *Controller) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	var name string
	if c.category != nil {
		name = c.category.DisplayName
	}
	return buildSummary(c.state, name)
}

// AutoAdvancePending reports whether an auto-advance timer is armed.
func (c *Controller) AutoAdvancePending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sched.Armed()
}

// Delay returns the auto-advance delay.
func (c *Controller) Delay() time.Duration {
	return c.sched.Delay()
}

func (c *Controller) saveLocked(ctx context.Context) {
	snap := progress.Snapshot{
		QuestionIndex: c.state.QuestionIndex,
		TotalScore:    c.state.TotalScore,
		Attempted:     slices.Clone(c.state.Attempted),
		Missed:        slices.Clone(c.state.Missed),
	}
	if err := c.progress.Save(ctx, c.state.CategoryID, snap); err != nil {
		c.log.Error().Err(err).Str("category", c.state.CategoryID).Msg("progress write failed")
	}
}

func (c *Controller) clearLocked(ctx context.Context) {
	if c.state.CategoryID == "" {
		return
	}
	if err := c.progress.Clear(ctx, c.state.CategoryID); err != nil {
		c.log.Error().Err(err).Str("category", c.state.CategoryID).Msg("progress clear failed")
	}
}

func (c *Controller) recordLocked(ctx context.Context, action string) {
	if c.events == nil || c.category == nil {
		return
	}
	err := c.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:     c.sessionID,
		CategoryID:    c.state.CategoryID,
		Action:        action,
		QuestionIndex: c.state.QuestionIndex,
		TotalScore:    c.state.TotalScore,
		Correct:       len(c.state.Attempted),
		Total:         c.category.Len(),
	})
	if err != nil {
		c.log.Error().Err(err).Str("action", action).Msg("record session event failed")
	}
}
