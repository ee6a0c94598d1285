package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/ui/theme"
)

// ChoiceResult is the verdict shown next to a submitted option.
type ChoiceResult int

const (
	ChoicePending ChoiceResult = iota
	ChoiceCorrect
	ChoiceWrong
)

// MultiChoice is a labelled multiple-choice selector. It tracks the cursor
// only; submission is left to the owner.
type MultiChoice struct {
	Labels  []string
	Options []string
	Cursor  int

	// Chosen is the submitted label, empty when nothing is submitted.
	Chosen string
	Result ChoiceResult
}

// NewMultiChoice creates a selector for options addressed by labels.
func NewMultiChoice(labels, options []string) MultiChoice {
	return MultiChoice{Labels: labels, Options: options}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update moves the cursor. It is inert while an answer is shown.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Chosen != "" {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	}

	return m, nil
}

// CursorLabel returns the label under the cursor.
func (m MultiChoice) CursorLabel() string {
	if m.Cursor < 0 || m.Cursor >= len(m.Labels) {
		return ""
	}
	return m.Labels[m.Cursor]
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder

	for i, opt := range m.Options {
		label := m.Labels[i]
		prefix := "  "
		if i == m.Cursor && m.Chosen == "" {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		var style lipgloss.Style
		switch {
		case m.Chosen == label && m.Result == ChoiceCorrect:
			style = theme.Correct
			line += "  ✓"
		case m.Chosen == label && m.Result == ChoiceWrong:
			style = theme.Incorrect
			line += "  ✗"
		case m.Chosen != "":
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		default:
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}
		b.WriteString(style.Render(line) + "\n")
	}

	return b.String()
}
