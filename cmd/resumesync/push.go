package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push <resume.json>",
	Short: "Import a resume document into the synced collection",
	Long:  "Validates a resume JSON file against the document schema and commits it as a new document owned by the configured user.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume file %s: %w", args[0], err)
	}

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

	doc, err := client.Import(ctx, raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as %s\n", doc.Title, doc.ID)
	return nil
}
