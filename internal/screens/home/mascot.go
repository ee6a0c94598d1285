package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/ui/theme"
)

// hostMood is the quiz host's expression on the home screen.
type hostMood int

const (
	moodWelcome hostMood = iota
	moodResume           // at least one quiz in progress
	moodTrouble          // the question bank failed to load
)

var hostArt = map[hostMood]string{
	moodWelcome: `╭─────╮
│ ◉ ◉ │
│  ◡  │
╰┬───┬╯
 │ ? │`,
	moodResume: `╭─────╮
│ ★ ★ │
│  ▽  │
╰┬───┬╯
 │A B│`,
	moodTrouble: `╭─────╮
│ ◉ ◉ │!
│  ~  │
╰┬───┬╯
 │ … │`,
}

func moodFor(errMsg string, inProgress int) hostMood {
	switch {
	case errMsg != "":
		return moodTrouble
	case inProgress > 0:
		return moodResume
	}
	return moodWelcome
}

// hostLine is what the host says for the current home screen state.
func hostLine(mood hostMood, loaded bool, categories, inProgress int) string {
	switch mood {
	case moodTrouble:
		return "I can't reach the question bank.\nPress r and I'll try again."
	case moodResume:
		if inProgress == 1 {
			return "Welcome back!\nOne quiz is waiting for you."
		}
		return fmt.Sprintf("Welcome back!\n%d quizzes are waiting for you.", inProgress)
	}
	if !loaded {
		return "Shuffling the question cards..."
	}
	return fmt.Sprintf("Pick a category.\n%d of them, 10 points a question.", categories)
}

// renderHost draws the host with a speech bubble, centered in cw columns.
func renderHost(mood hostMood, line string, cw int) string {
	fg := theme.Primary
	switch mood {
	case moodResume:
		fg = theme.ArcadeYellow
	case moodTrouble:
		fg = theme.Accent
	}
	art := lipgloss.NewStyle().Foreground(fg).Render(hostArt[mood])
	bubble := lipgloss.NewStyle().
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fg).
		Padding(0, 1).
		Render(line)

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.JoinHorizontal(lipgloss.Center, art, "  ", bubble))
}
