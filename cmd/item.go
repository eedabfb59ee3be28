package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/mastery"
	"github.com/abhisek/recall/internal/spacedrep"
	"github.com/abhisek/recall/internal/store"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Add and browse items",
}

var itemAddCmd = &cobra.Command{
	Use:   "add <collection>",
	Short: "Add an item to a collection",
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

		prompt, _ := cmd.Flags().GetString("prompt")
		answer, _ := cmd.Flags().GetString("answer")
		media, _ := cmd.Flags().GetString("media")

		it := &store.Item{CollectionID: c.ID, Prompt: prompt, Answer: answer, Media: media}
		if err := e.store.ItemRepo().Create(ctx, it); err != nil {
			return fmt.Errorf("add item: %w", err)
		}
		fmt.Printf("Added item %s to %q\n", it.ID, c.Name)
		return nil
	},
}

var itemListCmd = &cobra.Command{
	Use:   "list <collection>",
	Short: "List items with their review status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		statusFlag, _ := cmd.Flags().GetString("status")
		sortFlag, _ := cmd.Flags().GetString("sort")

		var status mastery.Status
		if statusFlag != "" {
			s, ok := mastery.ParseStatus(statusFlag)
			if !ok {
				return fmt.Errorf("unknown status %q (want new, due or learning)", statusFlag)
			}
			status = s
		}
		if sortFlag != "" && sortFlag != "priority" && sortFlag != "created" {
			return fmt.Errorf("unknown sort %q (want priority or created)", sortFlag)
		}

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
		items, err := e.store.ItemRepo().ListItems(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		now := time.Now()
		if status != "" {
			filtered := items[:0]
			for _, it := range items {
				if mastery.StatusOf(it.Item, now) == status {
					filtered = append(filtered, it)
				}
			}
			items = filtered
		}
		if sortFlag == "priority" {
			items = spacedrep.SortFunc(items, func(it store.Item) spacedrep.Item { return it.Item }, now)
		}

		if len(items) == 0 {
			fmt.Println("No items found.")
			return nil
		}

		fmt.Printf("%-36s  %-28s  %-10s  %-6s  %4s  %5s  %s\n",
			"ID", "Prompt", "Status", "Level", "Ease", "Ivl", "Next review")
		fmt.Println(strings.Repeat("─", 115))
		for _, it := range items {
			cls := mastery.Classify(it.Item, now)
			fmt.Printf("%-36s  %-28s  %-10s  %-6s  %4.2f  %4dd  %s\n",
				it.ID, truncate(it.Prompt, 28),
				mastery.Label(cls.Status), mastery.MasteryBar(cls.MasteryPercent),
				it.EaseFactor, it.IntervalDays,
				it.NextReviewAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Printf("\n%d items\n", len(items))
		return nil
	},
}

func init() {
	itemAddCmd.Flags().String("prompt", "", "Front of the card (required)")
	itemAddCmd.Flags().String("answer", "", "Back of the card (required)")
	itemAddCmd.Flags().String("media", "", "Optional media reference shown with the prompt")
	_ = itemAddCmd.MarkFlagRequired("prompt")
	_ = itemAddCmd.MarkFlagRequired("answer")

	itemListCmd.Flags().String("status", "", "Filter by status: new, due or learning")
	itemListCmd.Flags().String("sort", "created", "Sort order: created or priority")

	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemListCmd)
}
