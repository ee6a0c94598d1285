package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-category totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, depsOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		stats, err := d.events.CategoryStats(contextOf(cmd))
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tSESSIONS\tCOMPLETED\tRESETS\tBEST\tLAST PLAYED")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n",
				s.CategoryID, s.Sessions, s.Completed, s.Resets, s.BestScore,
				s.LastPlayed.Local().Format(time.DateTime))
		}
		return w.Flush()
	},
}
