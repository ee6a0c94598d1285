package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/ui/theme"
)

const arcadeTitleFull = ` ___  _   _ ___ _____ __  __   _   ___ _____ ___ ___
/ _ \| | | |_ _|_  /|  \/  | /_\ / __|_   _| __| _ \
| (_) | |_| || | / / | |\/| |/ _ \\__ \ | | | _||   /
\__\_\\___/|___/___||_|  |_/_/ \_\___/ |_| |___|_|_\`

const arcadeTitleCompact = "Q · U · I · Z · M · A · S · T · E · R"

// contentWidth returns the uniform inner width used for all sections.
// All boxes are rendered at this width so they visually align.
func contentWidth(frameWidth int) int {
	// Leave room for cabinet border (2) + inner padding (4)
	w := frameWidth - 6
	// Cap so it doesn't stretch absurdly wide
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact || cw < lipgloss.Width(arcadeTitleFull) {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(categories, questions, inProgress, cw int, compact bool) string {
	catStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	qStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	progStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			catStyle.Render(fmt.Sprintf("▦%d", categories)),
			qStyle.Render(fmt.Sprintf("?%d", questions)),
			progressText(inProgress, true, progStyle, dimStyle),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			catStyle.Render(fmt.Sprintf("▦ %d CATEGORIES", categories)),
			qStyle.Render(fmt.Sprintf("? %d QUESTIONS", questions)),
			progressText(inProgress, false, progStyle, dimStyle),
		)
	}

	// Wrap in a double-border box at the same content width
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func progressText(n int, compact bool, active, dim lipgloss.Style) string {
	if n == 0 {
		if compact {
			return dim.Render("▶0")
		}
		return dim.Render("▶ NONE IN PROGRESS")
	}
	if compact {
		return active.Render(fmt.Sprintf("▶%d", n))
	}
	return active.Render(fmt.Sprintf("▶ %d IN PROGRESS", n))
}

// renderMenuBox renders the category menu in a rounded card.
func renderMenuBox(menu string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(menu)
}

// renderBanner renders a one-line warning across the content width.
func renderBanner(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + text)
}

// renderCabinetFrame wraps content in a double-border cabinet frame,
// centering vertically and horizontally within the given dimensions.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).   // account for border chars
		Height(height - 2). // account for border chars
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
