package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmaster/internal/store"
)

type stubEvents struct {
	rows []store.SessionEvent
	err  error
	opts store.QueryOpts
}

func (s *stubEvents) QuerySessionEvents(_ context.Context, opts store.QueryOpts) ([]store.SessionEvent, error) {
	s.opts = opts
	return s.rows, s.err
}

func load(t *testing.T, src *stubEvents) *HistoryScreen {
	t.Helper()
	h := New(src)
	h.Update(h.Init()())
	return h
}

func TestHistoryListsEvents(t *testing.T) {
	src := &stubEvents{rows: []store.SessionEvent{
		{Sequence: 2, Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), SessionEventData: store.SessionEventData{
			SessionID: "0123456789", CategoryID: "Geography", Action: store.ActionComplete, QuestionIndex: 4, TotalScore: 50, Correct: 5, Total: 5,
		}},
		{Sequence: 1, Timestamp: time.Date(2026, 3, 1, 9, 58, 0, 0, time.UTC), SessionEventData: store.SessionEventData{
			SessionID: "0123456789", CategoryID: "Geography", Action: store.ActionStart, Total: 5,
		}},
	}}
	h := load(t, src)

	assert.Equal(t, historyLimit, src.opts.Limit)
	view := h.View(100, 30)
	assert.Contains(t, view, "Geography")
	assert.Contains(t, view, "complete")
	assert.Contains(t, view, "50 pts")

	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, h.View(100, 30), "5 of 5 correct")
	assert.Contains(t, h.View(100, 30), "session 01234567")

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, h.selected)
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, h.selected, "selection stops at the last row")
}

func TestHistoryEmpty(t *testing.T) {
	h := load(t, &stubEvents{})
	assert.Contains(t, h.View(100, 30), "No quizzes played yet")
}

func TestHistoryError(t *testing.T) {
	h := load(t, &stubEvents{err: errors.New("database is locked")})
	assert.Contains(t, h.View(100, 30), "database is locked")
}

func TestHistoryEscPops(t *testing.T) {
	h := load(t, &stubEvents{})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Science a…", truncate("Science and Natural Sciences", 10))
}
