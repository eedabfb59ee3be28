package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/stats"
	"github.com/abhisek/recall/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <collection>",
	Short: "Show learning statistics",
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
		svc := e.stats()

		if itemID, _ := cmd.Flags().GetString("item"); itemID != "" {
			it, err := e.store.ItemRepo().Get(ctx, itemID)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("item %q not found", itemID)
			}
			if err != nil {
				return err
			}
			is, err := svc.Item(ctx, itemID)
			if err != nil {
				return err
			}
			printItemStats(it, is)
			return nil
		}

		if n, _ := cmd.Flags().GetInt("history"); n > 0 {
			snaps, err := svc.History(ctx, c.ID, n)
			if err != nil {
				return err
			}
			printHistory(snaps)
			return nil
		}

		cs, err := svc.Collection(ctx, c.ID, time.Now())
		if err != nil {
			return err
		}
		printCollectionStats(c.Name, cs)
		return nil
	},
}

func init() {
	statsCmd.Flags().String("item", "", "Show attempt statistics for one item")
	statsCmd.Flags().Int("history", 0, "Show the last N post-session snapshots")
}

func printCollectionStats(name string, cs stats.CollectionStats) {
	fmt.Printf("Collection %q\n", name)
	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("  Items         %d (%d new, %d due, %d learning)\n",
		cs.TotalItems, cs.NewItems, cs.DueItems, cs.LearningItems)
	fmt.Printf("  Due now       %d\n", cs.DueNow)
	fmt.Printf("  Sessions      %d\n", cs.TotalSessions)
	fmt.Printf("  Answers       %d correct, %d incorrect\n", cs.Correct, cs.Incorrect)
	fmt.Printf("  Accuracy      %.1f%%\n", cs.Accuracy)
	fmt.Printf("  Mastery       %.1f%%\n", cs.MasteryLevel)
	fmt.Printf("  Average ease  %.2f\n", cs.AverageEase)
}

func printItemStats(it *store.Item, is stats.ItemStats) {
	fmt.Printf("Item %s  %q\n", it.ID, it.Prompt)
	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("  Attempts      %d (%d correct, %d incorrect)\n", is.TotalAttempts, is.Correct, is.Incorrect)
	fmt.Printf("  Accuracy      %.1f%%\n", is.Accuracy)
	fmt.Printf("  Average time  %s\n", is.AverageTime.Round(100*time.Millisecond))
	if is.LastAttemptAt != nil {
		fmt.Printf("  Last attempt  %s\n", is.LastAttemptAt.Local().Format("2006-01-02 15:04"))
	}
}

func printHistory(snaps []store.Snapshot) {
	if len(snaps) == 0 {
		fmt.Println("No snapshots yet. One is saved after every study session.")
		return
	}
	fmt.Printf("%-16s  %5s  %5s  %5s  %8s  %8s\n", "Taken", "Items", "Due", "Sess", "Accuracy", "Mastery")
	fmt.Println(strings.Repeat("─", 60))
	for _, s := range snaps {
		d := s.Data.Stats
		if d == nil {
			continue
		}
		fmt.Printf("%-16s  %5d  %5d  %5d  %7.1f%%  %7.1f%%\n",
			s.Timestamp.Local().Format("2006-01-02 15:04"),
			d.TotalItems, d.DueItems, d.TotalSessions, d.Accuracy, d.MasteryLevel)
	}
}
