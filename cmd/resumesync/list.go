package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List synced resumes, most recently updated first",
	RunE:  runList,
}

var (
	listLimit  int
	listSearch string
)

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Show at most this many resumes (0 shows all)")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by title prefix")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, store, err := newRemoteClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	items, err := fetchList(ctx, client, listSearch, listLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No resumes found.")
		return nil
	}
	for _, item := range items {
		fmt.Fprintf(out, "%s  %-30s  updated %s\n", item.ID, item.Title, item.LastUpdated)
	}
	return nil
}
