package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmaster/internal/progress"
	"github.com/abhisek/quizmaster/internal/questionbank"
	"github.com/abhisek/quizmaster/internal/router"
)

func testOptions() Options {
	return Options{
		Questions: questionbank.NewClient(questionbank.EmbeddedSource{}, zerolog.Nop()),
		Progress:  progress.New(progress.NewMemoryBackend(), zerolog.Nop()),
		Logger:    zerolog.Nop(),
	}
}

func TestNewAppModel_StartsAtHome(t *testing.T) {
	m := newAppModel(testOptions())
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "Categories", m.router.Active().Title())
	assert.NotNil(t, m.Init())
}

func TestNewAppModel_InitialCategory(t *testing.T) {
	opts := testOptions()
	opts.InitialCategory = "Geography"
	m := newAppModel(opts)
	defer m.router.CloseAll()

	require.Equal(t, 2, m.router.Depth())
	assert.Equal(t, "Geography", m.router.Active().Title())
}

func TestEscPopsOnlyAboveHome(t *testing.T) {
	m := newAppModel(testOptions())
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		_, isPop := cmd().(router.PopScreenMsg)
		assert.False(t, isPop, "home is never popped")
	}

	opts := testOptions()
	opts.InitialCategory = "Geography"
	m = newAppModel(opts)
	defer m.router.CloseAll()
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}

func TestViewWaitsForWindowSize(t *testing.T) {
	m := newAppModel(testOptions())
	v := m.View()
	assert.True(t, v.AltScreen)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(AppModel)
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 30, m.height)
}
