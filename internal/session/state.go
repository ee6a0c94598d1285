package session

import "slices"

// Phase is the lifecycle phase of a quiz session.
type Phase int

const (
	PhaseLoading  Phase = iota // Fetching the category
	PhaseActive                // Serving questions
	PhaseComplete              // Last question answered correctly
	PhaseNotFound              // Unknown category or bank unavailable
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	case PhaseNotFound:
		return "not_found"
	}
	return "unknown"
}

// Feedback is the verdict shown for the current question.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackWrong
)

func (f Feedback) String() string {
	switch f {
	case FeedbackCorrect:
		return "correct"
	case FeedbackWrong:
		return "wrong"
	}
	return "none"
}

// State is a point-in-time copy of a session. It is safe to read after the
// controller has moved on.
type State struct {
	// CategoryID is the category the session was initialized with.
	CategoryID string

	// Phase is the current lifecycle phase.
	Phase Phase

	// QuestionIndex is the zero-based index of the current question.
	QuestionIndex int

	// TotalQuestions is the number of questions in the category (0 until loaded).
	TotalQuestions int

	// TotalScore is the accumulated score.
	TotalScore int

	// Attempted holds the indices answered correctly, ascending.
	Attempted []int

	// Missed holds the indices that got a wrong answer before being answered
	// correctly, ascending. It does not affect the score.
	Missed []int

	// Selected is the submitted option label, empty when nothing is selected.
	Selected string

	// Feedback is the verdict for Selected.
	Feedback Feedback
}

// HasAttempted reports whether index i was answered correctly.
func (s State) HasAttempted(i int) bool {
	for _, a := range s.Attempted {
		if a == i {
			return true
		}
	}
	return false
}

// HasMissed reports whether index i got a wrong answer.
func (s State) HasMissed(i int) bool {
	return slices.Contains(s.Missed, i)
}

// FirstTry counts the questions answered correctly without a miss.
func (s State) FirstTry() int {
	n := 0
	for _, i := range s.Attempted {
		if !s.HasMissed(i) {
			n++
		}
	}
	return n
}

// IsLast reports whether the current question is the final one.
func (s State) IsLast() bool {
	return s.TotalQuestions > 0 && s.QuestionIndex == s.TotalQuestions-1
}

func (s State) clone() State {
	out := s
	out.Attempted = append([]int(nil), s.Attempted...)
	out.Missed = append([]int(nil), s.Missed...)
	return out
}
