package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizmaster/internal/app"
)

// runApp opens storage, builds dependencies, and launches the TUI. A
// non-empty categoryID opens that quiz directly.
func runApp(cmd *cobra.Command, categoryID string) error {
	d, err := buildDeps(cmd, depsOpts{})
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(app.Options{
		Questions:       d.questions,
		Progress:        d.progress,
		Events:          d.events,
		Delay:           d.cfg.AdvanceDelay,
		Logger:          d.log,
		InitialCategory: categoryID,
	})
}
