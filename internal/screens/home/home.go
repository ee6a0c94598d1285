package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizmaster/internal/progress"
	"github.com/abhisek/quizmaster/internal/questionbank"
	"github.com/abhisek/quizmaster/internal/router"
	"github.com/abhisek/quizmaster/internal/screen"
	"github.com/abhisek/quizmaster/internal/ui/components"
	"github.com/abhisek/quizmaster/internal/ui/layout"
)

// CategoryLister lists the categories of the question bank.
type CategoryLister interface {
	Categories(ctx context.Context) ([]questionbank.Category, error)
}

// ProgressReader reads saved progress for a category.
type ProgressReader interface {
	Load(ctx context.Context, categoryID string) (progress.Snapshot, bool)
}

// Deps are the collaborators of the home screen. OpenQuiz and OpenHistory
// build the screens pushed on selection; OpenHistory may be nil.
type Deps struct {
	Categories  CategoryLister
	Progress    ProgressReader
	OpenQuiz    func(categoryID string) screen.Screen
	OpenHistory func() screen.Screen
}

type categoriesLoadedMsg struct {
	Categories []questionbank.Category
	Progress   map[string]progress.Snapshot
	Err        error
}

// HomeScreen lists categories and routes to quizzes.
type HomeScreen struct {
	deps       Deps
	categories []questionbank.Category
	saved      map[string]progress.Snapshot
	filter     components.TextInput
	menu       components.Menu
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{
		deps:   deps,
		saved:  make(map[string]progress.Snapshot),
		filter: components.NewTextInput("Filter:", "type to search categories", 40),
	}
	h.rebuildMenu()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadCmd()
}

func (h *HomeScreen) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		cats, err := h.deps.Categories.Categories(ctx)
		if err != nil {
			return categoriesLoadedMsg{Err: err}
		}
		saved := make(map[string]progress.Snapshot)
		if h.deps.Progress != nil {
			for _, c := range cats {
				if snap, ok := h.deps.Progress.Load(ctx, c.ID); ok {
					saved[c.ID] = snap
				}
			}
		}
		return categoriesLoadedMsg{Categories: cats, Progress: saved}
	}
}

func (h *HomeScreen) Title() string {
	return "Categories"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear filter"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "/", Description: "Filter"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			h.categories = nil
		} else {
			h.errMsg = ""
			h.categories = msg.Categories
			h.saved = msg.Progress
		}
		h.rebuildMenu()
		return h, nil

	case router.ScreenPoppedMsg:
		// A quiz may have saved or cleared progress.
		return h, h.loadCmd()

	case tea.KeyMsg:
		return h.handleKey(msg)
	}

	if h.filter.Focused() {
		var cmd tea.Cmd
		h.filter, cmd = h.filter.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HomeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if h.filter.Focused() {
		switch key {
		case "enter":
			h.filter.Blur()
			return h, nil
		case "esc":
			h.filter.Reset()
			h.filter.Blur()
			h.rebuildMenu()
			return h, nil
		}
		var cmd tea.Cmd
		h.filter, cmd = h.filter.Update(msg)
		h.rebuildMenu()
		return h, cmd
	}

	switch key {
	case "/":
		return h, h.filter.Focus()
	case "r":
		return h, h.loadCmd()
	case "esc":
		if h.filter.Value() != "" {
			h.filter.Reset()
			h.rebuildMenu()
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// visibleCategories applies the filter, matching name, ID or description
// case-insensitively.
func (h *HomeScreen) visibleCategories() []questionbank.Category {
	q := strings.ToLower(h.filter.Value())
	if q == "" {
		return h.categories
	}
	var out []questionbank.Category
	for _, c := range h.categories {
		if strings.Contains(strings.ToLower(c.DisplayName), q) ||
			strings.Contains(strings.ToLower(c.ID), q) ||
			strings.Contains(strings.ToLower(c.Description), q) {
			out = append(out, c)
		}
	}
	return out
}

func (h *HomeScreen) rebuildMenu() {
	var items []components.MenuItem
	for _, c := range h.visibleCategories() {
		id := c.ID
		items = append(items, components.MenuItem{
			Label:  c.DisplayName,
			Detail: h.categoryDetail(c),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: h.deps.OpenQuiz(id)}
				}
			},
		})
	}
	if h.deps.OpenHistory != nil {
		items = append(items, components.MenuItem{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: h.deps.OpenHistory()}
			}
		}})
	}
	items = append(items, components.MenuItem{Label: "EXIT", Action: func() tea.Cmd {
		return tea.Quit
	}})
	h.menu.SetItems(items)
}

func (h *HomeScreen) categoryDetail(c questionbank.Category) string {
	detail := fmt.Sprintf("%d questions", c.Len())
	if snap, ok := h.saved[c.ID]; ok {
		detail += fmt.Sprintf(" · resume Q%d · %d pts", snap.QuestionIndex+1, snap.TotalScore)
	}
	return detail
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 36 || width < 100

	cw := contentWidth(width)

	var questions int
	for _, c := range h.categories {
		questions += c.Len()
	}

	mood := moodFor(h.errMsg, len(h.saved))

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderHost(mood, hostLine(mood, h.loaded, len(h.categories), len(h.saved)), cw))
	}
	sections = append(sections, renderStatsBar(len(h.categories), questions, len(h.saved), cw, compact))

	switch {
	case h.errMsg != "":
		sections = append(sections, renderBanner("Could not load questions: "+h.errMsg+" (press r to retry)", cw))
	case !h.loaded:
		sections = append(sections, renderBanner("Loading categories...", cw))
	}

	if h.filter.Focused() || h.filter.Value() != "" {
		sections = append(sections, h.filter.View())
	}
	sections = append(sections, renderMenuBox(h.menu.View(), cw))

	content := strings.Join(sections, "\n\n")
	return renderCabinetFrame(content, width, height)
}
