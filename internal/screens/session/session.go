package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizmaster/internal/questionbank"
	"github.com/abhisek/quizmaster/internal/router"
	"github.com/abhisek/quizmaster/internal/screen"
	sess "github.com/abhisek/quizmaster/internal/session"
	"github.com/abhisek/quizmaster/internal/ui/components"
	"github.com/abhisek/quizmaster/internal/ui/layout"
)

// Deps are the collaborators a quiz screen needs.
type Deps struct {
	Questions sess.QuestionSource
	Progress  sess.ProgressStore
	Events    sess.EventRecorder
	Delay     time.Duration
	AfterFunc sess.AfterFunc
	Logger    zerolog.Logger
}

// SessionScreen plays one category.
type SessionScreen struct {
	categoryID string
	ctrl       *sess.Controller

	ctx    context.Context
	cancel context.CancelFunc

	// fires buffers timer tokens until the update loop picks them up.
	fires     chan sess.Token
	done      chan struct{}
	closeOnce sync.Once

	choices    components.MultiChoice
	shownIndex int
	loadErr    error

	ShowingResetConfirm bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.Closer = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)

// New creates a quiz screen for categoryID.
func New(categoryID string, deps Deps) *SessionScreen {
	ctx, cancel := context.WithCancel(context.Background())
	s := &SessionScreen{
		categoryID: categoryID,
		ctx:        ctx,
		cancel:     cancel,
		fires:      make(chan sess.Token, 1),
		done:       make(chan struct{}),
		shownIndex: -1,
	}
	s.ctrl = sess.New(sess.Options{
		Questions: deps.Questions,
		Progress:  deps.Progress,
		Events:    deps.Events,
		Delay:     deps.Delay,
		AfterFunc: deps.AfterFunc,
		Dispatch:  s.dispatch,
		Logger:    deps.Logger,
	})
	return s
}

// dispatch runs on the timer goroutine. It never blocks: only one timer is
// armed at a time, so the buffer holds at most one live token.
func (s *SessionScreen) dispatch(tok sess.Token) {
	select {
	case s.fires <- tok:
	default:
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(s.loadCmd(), s.waitForFire())
}

// Close cancels pending timers and loads. Safe to call more than once.
func (s *SessionScreen) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.ctrl.Close()
		close(s.done)
	})
}

func (s *SessionScreen) Title() string {
	if cat := s.ctrl.Category(); cat != nil {
		return cat.DisplayName
	}
	return s.categoryID
}

// Status returns the running score for the header.
func (s *SessionScreen) Status() string {
	st := s.ctrl.State()
	if st.Phase != sess.PhaseActive && st.Phase != sess.PhaseComplete {
		return ""
	}
	return fmt.Sprintf("%d pts", st.TotalScore)
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.ShowingResetConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Start over"},
			{Key: "N", Description: "Keep going"},
		}
	}

	st := s.ctrl.State()
	switch st.Phase {
	case sess.PhaseLoading:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case sess.PhaseNotFound:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Back to categories"},
			{Key: "R", Description: "Try again"},
		}
	case sess.PhaseComplete:
		return []layout.KeyHint{
			{Key: "R", Description: "Play again"},
			{Key: "Enter", Description: "Back to categories"},
		}
	}

	switch st.Feedback {
	case sess.FeedbackWrong:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Try again"},
			{Key: "Esc", Description: "Back"},
		}
	case sess.FeedbackCorrect:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "A-D", Description: "Answer"},
		{Key: "Enter", Description: "Submit"},
		{Key: "R", Description: "Reset"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionInitMsg:
		return s.handleInit(msg)

	case autoAdvanceMsg:
		s.ctrl.Fire(s.ctx, msg.Token)
		s.syncChoices()
		return s, s.waitForFire()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleInit(msg sessionInitMsg) (screen.Screen, tea.Cmd) {
	if errors.Is(msg.Err, sess.ErrSuperseded) {
		return s, nil
	}
	s.loadErr = msg.Err
	s.syncChoices()
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.ShowingResetConfirm {
		switch key {
		case "y", "Y":
			s.ShowingResetConfirm = false
			return s, s.resetCmd()
		case "n", "N", "esc":
			s.ShowingResetConfirm = false
		}
		return s, nil
	}

	st := s.ctrl.State()
	switch st.Phase {
	case sess.PhaseLoading:
		return s, nil

	case sess.PhaseNotFound, sess.PhaseComplete:
		switch key {
		case "enter":
			return s, popCmd
		case "r", "R":
			return s, s.resetCmd()
		}
		return s, nil
	}

	if key == "r" || key == "R" {
		s.ShowingResetConfirm = true
		return s, nil
	}

	switch st.Feedback {
	case sess.FeedbackWrong:
		if key == "enter" || key == "space" {
			s.ctrl.Retry()
			s.syncChoices()
		}
		return s, nil

	case sess.FeedbackCorrect:
		if key == "enter" || key == "space" || key == "n" {
			s.ctrl.Advance(s.ctx)
			s.syncChoices()
		}
		return s, nil
	}

	if key == "enter" {
		return s.submit(s.choices.CursorLabel())
	}
	if label, ok := questionbank.ParseLabel(key, len(s.choices.Options)); ok {
		return s.submit(label)
	}

	var cmd tea.Cmd
	s.choices, cmd = s.choices.Update(msg)
	return s, cmd
}

func (s *SessionScreen) submit(label string) (screen.Screen, tea.Cmd) {
	s.ctrl.Submit(s.ctx, label)
	s.syncChoices()
	return s, nil
}

// syncChoices rebuilds the option list when the question changes and
// mirrors the controller's selection onto it.
func (s *SessionScreen) syncChoices() {
	q, ok := s.ctrl.Question()
	if !ok {
		s.shownIndex = -1
		return
	}
	st := s.ctrl.State()
	if st.QuestionIndex != s.shownIndex {
		s.choices = components.NewMultiChoice(q.Labels(), q.Options)
		s.shownIndex = st.QuestionIndex
	}
	s.choices.Chosen = st.Selected
	switch st.Feedback {
	case sess.FeedbackCorrect:
		s.choices.Result = components.ChoiceCorrect
	case sess.FeedbackWrong:
		s.choices.Result = components.ChoiceWrong
	default:
		s.choices.Result = components.ChoicePending
	}
}

func (s *SessionScreen) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionInitMsg{Err: s.ctrl.Initialize(s.ctx, s.categoryID)}
	}
}

func (s *SessionScreen) resetCmd() tea.Cmd {
	s.shownIndex = -1
	return func() tea.Msg {
		return sessionInitMsg{Err: s.ctrl.Reset(s.ctx)}
	}
}

// waitForFire delivers the next timer token as a message. It returns nil
// once the screen is closed.
func (s *SessionScreen) waitForFire() tea.Cmd {
	return func() tea.Msg {
		select {
		case tok := <-s.fires:
			return autoAdvanceMsg{Token: tok}
		case <-s.done:
			return nil
		}
	}
}

func popCmd() tea.Msg {
	return router.PopScreenMsg{}
}
