package session

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/questionbank"
	sess "github.com/abhisek/quizmaster/internal/session"
	"github.com/abhisek/quizmaster/internal/ui/components"
	"github.com/abhisek/quizmaster/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.ShowingResetConfirm {
		return renderResetConfirm(width, height)
	}

	st := s.ctrl.State()
	switch st.Phase {
	case sess.PhaseLoading:
		return renderLoading(width, height)
	case sess.PhaseNotFound:
		return renderNotFound(width, height, s.categoryID, s.loadErr)
	case sess.PhaseComplete:
		return renderComplete(width, height, s.ctrl.Summary())
	}
	return s.renderQuestionView(width, st)
}

// renderQuestionView renders the active question display.
func (s *SessionScreen) renderQuestionView(width int, st sess.State) string {
	q, ok := s.ctrl.Question()
	if !ok {
		return renderLoading(width, 0)
	}

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + s.Title())

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d pts", lipgloss.NewStyle().Foreground(theme.Accent).Render("★"), st.TotalScore))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	barWidth := min(width-8, 60)
	bar := components.NewQuestionTrack(st.QuestionIndex, st.TotalQuestions, st.Attempted, st.Missed, barWidth).View()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderBadges(q)))
	b.WriteString("\n\n")

	questionStyle := lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, questionStyle.Render(q.Prompt)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))
	b.WriteString("\n")
	b.WriteString(renderFeedback(width, st, s.ctrl.AutoAdvancePending()))

	return b.String()
}

// renderBadges renders the difficulty badge and topic tag.
func renderBadges(q questionbank.Question) string {
	var badge lipgloss.Style
	switch q.Difficulty {
	case questionbank.DifficultyEasy:
		badge = theme.DifficultyEasy
	case questionbank.DifficultyMedium:
		badge = theme.DifficultyMedium
	default:
		badge = theme.DifficultyHard
	}
	out := badge.Render(string(q.Difficulty))
	if q.Tag != "" {
		out += "  " + theme.Tag.Render("#"+q.Tag)
	}
	return out
}

// renderFeedback renders the verdict line under the options.
func renderFeedback(width int, st sess.State, advancing bool) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch st.Feedback {
	case sess.FeedbackCorrect:
		line := center.Foreground(theme.Success).Bold(true).Render(fmt.Sprintf("Correct! +%d", sess.PointsPerCorrect))
		hint := "Press Enter to continue"
		if advancing {
			hint = "Moving on..."
		}
		return line + "\n" + center.Foreground(theme.TextDim).Italic(true).Render(hint)
	case sess.FeedbackWrong:
		line := center.Foreground(theme.Error).Bold(true).Render("Not quite.")
		return line + "\n" + center.Foreground(theme.TextDim).Italic(true).Render("Press Enter to try again")
	}
	return center.Foreground(theme.TextDim).Render("Select A-D or use arrows + Enter")
}

func renderLoading(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n  Loading questions...")
}

func renderNotFound(width, height int, categoryID string, err error) string {
	title := "Category not found"
	detail := fmt.Sprintf("There is no quiz called %q.", categoryID)
	if errors.Is(err, sess.ErrDataUnavailable) {
		title = "Questions unavailable"
		detail = "The question bank could not be loaded. Try again later."
	}

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Foreground(theme.Error).Bold(true).Render(title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Foreground(theme.Text).Render(detail))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Foreground(theme.TextDim).Italic(true).Render("Press Enter to go back to the categories"))
	return b.String()
}

// renderComplete renders the end-of-quiz summary.
func renderComplete(width, height int, sum sess.Summary) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	verdictColor := theme.Error
	switch {
	case sum.Percent >= 80:
		verdictColor = theme.Success
	case sum.Percent >= 60:
		verdictColor = theme.Accent
	}

	score := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("%d / %d", sum.Score, sum.MaxScore))

	body := strings.Join([]string{
		theme.Title.Render("Quiz complete!"),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Render(sum.DisplayName),
		"",
		"Score  " + score,
		lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("%d of %d on the first try · %d%%", sum.FirstTry, sum.Total, sum.Percent)),
		"",
		lipgloss.NewStyle().Foreground(verdictColor).Bold(true).Render(sum.Verdict),
	}, "\n")

	card := theme.Card.Width(min(width-8, 50)).Align(lipgloss.Center).Render(body)
	return "\n" + center.Render(card)
}

func renderResetConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Foreground(theme.Accent).Bold(true).Render("Start this quiz over?"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Foreground(theme.Text).Render("Your score and saved progress for this category will be cleared."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Foreground(theme.TextDim).Render("Y to reset, N to keep going"))
	return b.String()
}
