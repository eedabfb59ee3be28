package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <collection>",
	Short: "Reset every item in a collection to a new schedule",
	Long: `Reset every item in a collection to the default schedule (ease 2.5, no
repetitions, due now). Attempt and session history is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		c, err := e.findCollection(ctx, args[0])
		if err != nil {
			return err
		}
		n, err := e.store.ItemRepo().ResetSchedules(ctx, c.ID, time.Now())
		if err != nil {
			return fmt.Errorf("reset schedules: %w", err)
		}
		fmt.Printf("Reset %d items in %q\n", n, c.Name)
		return nil
	},
}
