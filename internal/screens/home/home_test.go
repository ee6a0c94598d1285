package home

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmaster/internal/progress"
	"github.com/abhisek/quizmaster/internal/questionbank"
	"github.com/abhisek/quizmaster/internal/router"
	"github.com/abhisek/quizmaster/internal/screen"
)

type stubLister struct {
	cats []questionbank.Category
	err  error
}

func (s stubLister) Categories(context.Context) ([]questionbank.Category, error) {
	return s.cats, s.err
}

type stubProgress map[string]progress.Snapshot

func (s stubProgress) Load(_ context.Context, id string) (progress.Snapshot, bool) {
	snap, ok := s[id]
	return snap, ok
}

type stubScreen struct{ id string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.id }
func (s *stubScreen) Title() string                           { return s.id }

func testCategories() []questionbank.Category {
	q := questionbank.Question{Prompt: "?", Options: []string{"a", "b"}, Difficulty: questionbank.DifficultyEasy}
	return []questionbank.Category{
		{ID: "Geography", DisplayName: "Geography", Description: "Places", Questions: []questionbank.Question{q, q}},
		{ID: "Science and Natural Sciences", DisplayName: "Science & Nature", Questions: []questionbank.Question{q}},
	}
}

func newLoadedHome(t *testing.T, saved stubProgress) *HomeScreen {
	t.Helper()
	h := New(Deps{
		Categories: stubLister{cats: testCategories()},
		Progress:   saved,
		OpenQuiz:   func(id string) screen.Screen { return &stubScreen{id: id} },
	})
	h.Update(h.Init()())
	return h
}

func TestHomeListsCategoriesWithProgress(t *testing.T) {
	h := newLoadedHome(t, stubProgress{
		"Geography": {QuestionIndex: 1, TotalScore: 10, Attempted: []int{0}},
	})

	require.Len(t, h.menu.Items, 3) // two categories + EXIT
	assert.Equal(t, "Geography", h.menu.Items[0].Label)
	assert.Equal(t, "2 questions · resume Q2 · 10 pts", h.menu.Items[0].Detail)
	assert.Equal(t, "1 questions", h.menu.Items[1].Detail)
	assert.Equal(t, "EXIT", h.menu.Items[2].Label)

	view := h.View(120, 40)
	assert.Contains(t, view, "Science & Nature")
}

func TestHomeEnterOpensQuizByID(t *testing.T) {
	h := newLoadedHome(t, stubProgress{})

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Science and Natural Sciences", msg.Screen.Title())
}

func TestHomeFilter(t *testing.T) {
	h := newLoadedHome(t, stubProgress{})

	h.Update(tea.KeyPressMsg{Code: '/', Text: "/"})
	require.True(t, h.filter.Focused())

	for _, r := range "natur" {
		h.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	require.Len(t, h.menu.Items, 2)
	assert.Equal(t, "Science & Nature", h.menu.Items[0].Label)

	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.False(t, h.filter.Focused())
	assert.Equal(t, "natur", h.filter.Value())

	h.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Empty(t, h.filter.Value())
	assert.Len(t, h.menu.Items, 3)
}

func TestHomeLoadError(t *testing.T) {
	h := New(Deps{Categories: stubLister{err: errors.New("bank offline")}})
	h.Update(h.Init()())

	view := h.View(120, 40)
	assert.Contains(t, view, "bank offline")
	assert.Contains(t, view, "I can't reach the question bank.")
	require.Len(t, h.menu.Items, 1)
	assert.Equal(t, "EXIT", h.menu.Items[0].Label)
}

func TestHomeReloadsAfterPop(t *testing.T) {
	saved := stubProgress{}
	h := newLoadedHome(t, saved)
	assert.Equal(t, "2 questions", h.menu.Items[0].Detail)

	saved["Geography"] = progress.Snapshot{QuestionIndex: 1, TotalScore: 10, Attempted: []int{0}}
	_, cmd := h.Update(router.ScreenPoppedMsg{})
	require.NotNil(t, cmd)
	h.Update(cmd())

	assert.Contains(t, h.menu.Items[0].Detail, "resume Q2")
}

func TestHostLine(t *testing.T) {
	tests := []struct {
		name       string
		errMsg     string
		loaded     bool
		inProgress int
		wantMood   hostMood
		want       string
	}{
		{"loading", "", false, 0, moodWelcome, "Shuffling the question cards..."},
		{"fresh", "", true, 0, moodWelcome, "6 of them, 10 points a question."},
		{"one waiting", "", true, 1, moodResume, "One quiz is waiting for you."},
		{"several waiting", "", true, 3, moodResume, "3 quizzes are waiting for you."},
		{"offline", "timeout", true, 2, moodTrouble, "Press r and I'll try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mood := moodFor(tt.errMsg, tt.inProgress)
			assert.Equal(t, tt.wantMood, mood)
			assert.Contains(t, hostLine(mood, tt.loaded, 6, tt.inProgress), tt.want)
		})
	}
}
