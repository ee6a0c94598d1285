package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/ui/theme"
)

// Smallest terminal the quiz screens fit in.
const (
	MinWidth  = 80
	MinHeight = 24
)

const brand = "◆ QuizMaster"

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the player to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"QuizMaster needs a %d x %d terminal.\nThis one is %d x %d.\n\nYour progress is saved, so resize and carry on.",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader draws the top bar: brand on the left, the screen title in the
// middle and, when set, status (the running score) as a chip on the right.
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(brand)
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	var right string
	if status != "" {
		right = lipgloss.NewStyle().
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			Bold(true).
			Padding(0, 1).
			Render(status)
	}
	return bar(spread(innerWidth(width), left, center, right), width)
}

// RenderFooter draws the key hints. Hints that do not fit are dropped from
// the end, so screens list the most important keys first.
func RenderFooter(hints []KeyHint, width int) string {
	avail := innerWidth(width)
	var line string
	for _, h := range hints {
		part := keyChip(h.Key) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		next := part
		if line != "" {
			next = line + "   " + part
		}
		if lipgloss.Width(next) > avail {
			break
		}
		line = next
	}
	return bar(line, width)
}

// RenderFrame stacks header, content and footer, sizing the content to fill
// the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).Render(content),
		footer,
	)
}

func keyChip(key string) string {
	return lipgloss.NewStyle().
		Foreground(theme.Text).
		Background(theme.Border).
		Bold(true).
		Padding(0, 1).
		Render(key)
}

// innerWidth is the usable width inside a bar's border and padding.
func innerWidth(width int) int {
	return max(width-4, 0)
}

// spread places left and right at the edges and center in the middle of w
// columns, keeping at least one space between them.
func spread(w int, left, center, right string) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((w-cw)/2-lw, 1)
	rightGap := max(w-lw-leftGap-cw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}
