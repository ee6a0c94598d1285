package components

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/ui/theme"
)

// QuestionTrack shows where a quiz stands: one cell per question, coloured
// by outcome, under a "Question n of N" label.
type QuestionTrack struct {
	Index     int   // zero-based current question
	Total     int
	Attempted []int // answered correctly
	Missed    []int // got a wrong answer first
	Width     int
}

// Cell glyphs, also used in tests.
const (
	cellDone    = "●"
	cellCurrent = "◆"
	cellAhead   = "○"
)

// NewQuestionTrack builds a track for the given position and outcomes.
func NewQuestionTrack(index, total int, attempted, missed []int, width int) QuestionTrack {
	return QuestionTrack{
		Index:     index,
		Total:     total,
		Attempted: attempted,
		Missed:    missed,
		Width:     width,
	}
}

// View renders the label and the cells. When the cells would not fit in
// Width, a proportional bar is drawn instead.
func (q QuestionTrack) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).
		Render(fmt.Sprintf("Question %d of %d", q.Index+1, q.Total))

	avail := q.Width - lipgloss.Width(label) - 2
	var track string
	if q.Total*2-1 <= avail {
		track = q.cells()
	} else {
		track = q.bar(max(avail, 4))
	}
	return label + "  " + track
}

func (q QuestionTrack) cells() string {
	done := lipgloss.NewStyle().Foreground(theme.Success)
	retried := lipgloss.NewStyle().Foreground(theme.Accent)
	current := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	ahead := lipgloss.NewStyle().Foreground(theme.Border)

	out := make([]string, q.Total)
	for i := range q.Total {
		switch {
		case i == q.Index && !slices.Contains(q.Attempted, i):
			out[i] = current.Render(cellCurrent)
		case slices.Contains(q.Missed, i):
			out[i] = retried.Render(cellDone)
		case slices.Contains(q.Attempted, i):
			out[i] = done.Render(cellDone)
		default:
			out[i] = ahead.Render(cellAhead)
		}
	}
	return strings.Join(out, " ")
}

func (q QuestionTrack) bar(width int) string {
	filled := 0
	if q.Total > 0 {
		filled = min(width*(q.Index+1)/q.Total, width)
	}
	return lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", width-filled))
}
