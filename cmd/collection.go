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

var collectionCmd = &cobra.Command{
	Use:     "collection",
	Aliases: []string{"col"},
	Short:   "Manage collections of items",
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		desc, _ := cmd.Flags().GetString("description")
		c := &store.Collection{Name: args[0], Description: desc}
		if err := e.store.CollectionRepo().Create(cmd.Context(), c); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
		fmt.Printf("Created collection %q (%s)\n", c.Name, c.ID)
		return nil
	},
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections with item counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		cols, err := e.store.CollectionRepo().List(ctx)
		if err != nil {
			return fmt.Errorf("list collections: %w", err)
		}
		if len(cols) == 0 {
			fmt.Println("No collections yet. Create one with `recall collection create <name>`.")
			return nil
		}

		now := time.Now()
		fmt.Printf("%-36s  %-24s  %5s  %5s  %5s\n", "ID", "Name", "Items", "New", "Due")
		fmt.Println(strings.Repeat("─", 83))
		for _, c := range cols {
			items, err := e.store.ItemRepo().ListItems(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("list items: %w", err)
			}
			counts := mastery.CountByStatus(schedules(items), now)
			fmt.Printf("%-36s  %-24s  %5d  %5d  %5d\n",
				c.ID, truncate(c.Name, 24), len(items),
				counts[mastery.StatusNew], counts[mastery.StatusDue])
		}
		return nil
	},
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a collection with its items and history",
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
		if force, _ := cmd.Flags().GetBool("force"); !force {
			return fmt.Errorf("refusing to delete %q without --force", c.Name)
		}
		if err := e.store.CollectionRepo().Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		fmt.Printf("Deleted collection %q\n", c.Name)
		return nil
	},
}

func init() {
	collectionCreateCmd.Flags().String("description", "", "Optional description")
	collectionDeleteCmd.Flags().Bool("force", false, "Confirm deletion")

	collectionCmd.AddCommand(collectionCreateCmd)
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionDeleteCmd)
}

// schedules extracts the schedule state of stored items.
func schedules(items []store.Item) []spacedrep.Item {
	out := make([]spacedrep.Item, len(items))
	for i, it := range items {
		out[i] = it.Item
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
