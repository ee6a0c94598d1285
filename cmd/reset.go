package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset [category]",
	Short: "Forget saved progress for a category, or every category with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all == (len(args) == 1) {
			return errors.New("give a category or --all")
		}

		d, err := buildDeps(cmd, depsOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := contextOf(cmd)
		out := cmd.OutOrStdout()
		if all {
			n, err := d.progress.ClearAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Cleared progress for %d categories.\n", n)
			return nil
		}

		if err := d.progress.Clear(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared progress for %q.\n", args[0])
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Clear progress for every category")
}
