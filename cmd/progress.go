package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmaster/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show saved in-progress quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, depsOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		snaps, err := d.progress.List(contextOf(cmd))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(snaps) == 0 {
			fmt.Fprintln(out, "No quizzes in progress.")
			return nil
		}
		return printSnapshots(cmd, snaps)
	},
}

func printSnapshots(cmd *cobra.Command, snaps []progress.Snapshot) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tQUESTION\tSCORE\tCORRECT\tSAVED")
	for _, s := range snaps {
		saved := "-"
		if !s.SavedAt.IsZero() {
			saved = s.SavedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", s.CategoryID, s.QuestionIndex+1, s.TotalScore, len(s.Attempted), saved)
	}
	return w.Flush()
}
