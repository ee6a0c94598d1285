package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List quiz categories in the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, depsOpts{ephemeral: true})
		if err != nil {
			return err
		}
		defer d.Close()

		cats, err := d.questions.Categories(contextOf(cmd))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tQUESTIONS\tDESCRIPTION")
		for _, c := range cats {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.ID, c.DisplayName, c.Len(), c.Description)
		}
		return w.Flush()
	},
}
