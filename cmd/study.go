package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/app"
	"github.com/abhisek/recall/internal/screens/study"
)

var studyCmd = &cobra.Command{
	Use:   "study <collection>",
	Short: "Start an interactive study session",
	Args:  cobra.ExactArgs(1),
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

		count, _ := cmd.Flags().GetInt("count")
		if !cmd.Flags().Changed("count") {
			count = e.cfg.Session.DefaultTarget
		}
		typed, _ := cmd.Flags().GetBool("typed")

		scr := study.New(study.Options{
			Items:          e.store.ItemRepo(),
			Events:         e.store.EventRepo(),
			Recorder:       e.stats(),
			CollectionID:   c.ID,
			CollectionName: c.Name,
			Target:         count,
			Seed:           e.cfg.Session.Seed,
			Typed:          typed,
		})

		runErr := app.Run(scr)

		// Record the end of a run interrupted with Ctrl+C.
		if _, err := scr.Finish(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to record session end: %v\n", err)
		}
		return runErr
	},
}

func init() {
	studyCmd.Flags().Int("count", 0, "Number of items to present (0 = whole collection; default from config)")
	studyCmd.Flags().Bool("typed", false, "Type answers instead of self-rating")
}
