package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/mastery"
	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/spacedrep"
	"github.com/abhisek/recall/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review <item-id>",
	Short: "Apply one review to an item outside a study session",
	Long: `Apply one review to an item and print its new schedule.

--rating takes a native 0-5 recall quality, or with --simple the 1-4 scale used by
the study screen (1 again, 2 hard, 3 good, 4 easy). The names again, hard, good and
easy are always accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ratingFlag, _ := cmd.Flags().GetString("rating")
		simple, _ := cmd.Flags().GetBool("simple")

		scale := spacedrep.ScaleNative
		if simple {
			scale = spacedrep.ScaleSimple
		}
		quality, err := spacedrep.ParseRating(ratingFlag, scale)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		it, err := e.store.ItemRepo().Get(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("item %q not found", args[0])
		}
		if err != nil {
			return err
		}

		now := time.Now()
		next, err := session.Review(ctx, e.store.ItemRepo(), e.store.EventRepo(), *it, quality, now)
		if err != nil {
			return err
		}

		cls := mastery.Classify(next, now)
		fmt.Printf("%s  quality %d\n", it.Prompt, quality)
		fmt.Printf("  ease %.2f → %.2f   interval %dd → %dd   reps %d → %d\n",
			it.EaseFactor, next.EaseFactor, it.IntervalDays, next.IntervalDays, it.Repetitions, next.Repetitions)
		fmt.Printf("  status %s %s   next review %s\n",
			mastery.Label(cls.Status), mastery.MasteryBar(cls.MasteryPercent),
			next.NextReviewAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

func init() {
	reviewCmd.Flags().String("rating", "", "Recall quality (0-5, or 1-4 with --simple)")
	reviewCmd.Flags().Bool("simple", false, "Read --rating on the 1-4 scale")
	_ = reviewCmd.MarkFlagRequired("rating")
}
