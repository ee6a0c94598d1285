package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmaster/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent quiz sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		category, _ := cmd.Flags().GetString("category")

		d, err := buildDeps(cmd, depsOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		events, err := d.events.QuerySessionEvents(contextOf(cmd), store.QueryOpts{
			Limit:      limit,
			CategoryID: category,
		})
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tCATEGORY\tACTION\tQUESTION\tSCORE\tCORRECT")
		for _, e := range events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\t%d\n",
				e.Timestamp.Local().Format(time.DateTime),
				e.CategoryID, e.Action,
				e.QuestionIndex+1, e.Total,
				e.TotalScore, e.Correct)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of sessions to show")
	historyCmd.Flags().String("category", "", "Only show sessions for this category")
}
