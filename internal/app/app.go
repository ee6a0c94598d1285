package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizmaster/internal/progress"
	"github.com/abhisek/quizmaster/internal/questionbank"
	"github.com/abhisek/quizmaster/internal/router"
	"github.com/abhisek/quizmaster/internal/screen"
	"github.com/abhisek/quizmaster/internal/screens/history"
	"github.com/abhisek/quizmaster/internal/screens/home"
	sessionscreen "github.com/abhisek/quizmaster/internal/screens/session"
	"github.com/abhisek/quizmaster/internal/store"
	"github.com/abhisek/quizmaster/internal/ui/layout"
)

// Options holds the dependencies the TUI wires into its screens.
type Options struct {
	Questions *questionbank.Client
	Progress  *progress.Store

	// Events is optional; history is hidden without it.
	Events store.EventRepo

	Delay  time.Duration
	Logger zerolog.Logger

	// InitialCategory opens a quiz directly on top of the home screen.
	InitialCategory string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	initial tea.Cmd
	width   int
	height  int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	openQuiz := func(categoryID string) screen.Screen {
		deps := sessionscreen.Deps{
			Questions: opts.Questions,
			Progress:  opts.Progress,
			Delay:     opts.Delay,
			Logger:    opts.Logger,
		}
		if opts.Events != nil {
			deps.Events = opts.Events
		}
		return sessionscreen.New(categoryID, deps)
	}

	deps := home.Deps{
		Categories: opts.Questions,
		Progress:   opts.Progress,
		OpenQuiz:   openQuiz,
	}
	if opts.Events != nil {
		deps.OpenHistory = func() screen.Screen { return history.New(opts.Events) }
	}

	homeScreen := home.New(deps)
	m := AppModel{router: router.New(homeScreen)}
	m.initial = homeScreen.Init()
	if opts.InitialCategory != "" {
		m.initial = tea.Batch(m.initial, m.router.Push(openQuiz(opts.InitialCategory)))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.initial
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.CloseAll()
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	status := ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := newAppModel(opts)
	p := tea.NewProgram(m)
	_, err := p.Run()
	m.router.CloseAll()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
