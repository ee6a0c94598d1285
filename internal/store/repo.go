package store

import (
	"context"
	"time"
)

// Session lifecycle actions.
const (
	ActionStart    = "start"
	ActionResume   = "resume"
	ActionComplete = "complete"
	ActionReset    = "reset"
	ActionAbandon  = "abandon"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit      int       // max results (0 = unlimited)
	After      int64     // sequence > After
	Before     int64     // sequence < Before
	From       time.Time // timestamp >= From
	To         time.Time // timestamp <= To
	CategoryID string    // exact match when set
}

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID     string
	CategoryID    string
	Action        string
	QuestionIndex int
	TotalScore    int
	Correct       int // questions answered correctly so far
	Total         int // questions in the category
}

// SessionEvent is a stored session lifecycle event.
type SessionEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// CategoryStats aggregates session events for one category.
type CategoryStats struct {
	CategoryID string
	Sessions   int // distinct sessions
	Completed  int
	Resets     int
	BestScore  int
	LastPlayed time.Time
}

// EventRepo provides append and query access to session events.
type EventRepo interface {
	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QuerySessionEvents returns events newest first.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)

	// CategoryStats aggregates events per category, ordered by category ID.
	CategoryStats(ctx context.Context) ([]CategoryStats, error)
}
