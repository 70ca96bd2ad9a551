package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-sync/internal/llm"
	"github.com/jonathan/resume-sync/internal/resumeutil"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Generate content suggestions for a resume document",
}

var suggestSummaryCmd = &cobra.Command{
	Use:   "summary <resume.json>",
	Short: "Suggest professional summary candidates",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggestSummary,
}

var suggestBulletsCmd = &cobra.Command{
	Use:   "bullets <resume.json>",
	Short: "Suggest work-summary bullet points for one experience entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggestBullets,
}

var suggestExperienceIndex int

func init() {
	suggestBulletsCmd.Flags().IntVarP(&suggestExperienceIndex, "experience", "e", 0, "Index of the experience entry to suggest for")
	suggestCmd.AddCommand(suggestSummaryCmd)
	suggestCmd.AddCommand(suggestBulletsCmd)
	rootCmd.AddCommand(suggestCmd)
}

func newSuggestionClient(ctx context.Context) (llm.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	return llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
}

func runSuggestSummary(cmd *cobra.Command, args []string) error {
	doc, err := readResumeFile(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := newSuggestionClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	candidates, err := client.SuggestSummary(ctx, doc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), resumeutil.FormatSuggestions(candidates))
	return nil
}

func runSuggestBullets(cmd *cobra.Command, args []string) error {
	doc, err := readResumeFile(args[0])
	if err != nil {
		return err
	}
	if suggestExperienceIndex < 0 || suggestExperienceIndex >= len(doc.Experience) {
		return fmt.Errorf("experience index %d out of range (resume has %d entries)", suggestExperienceIndex, len(doc.Experience))
	}

	ctx := context.Background()
	client, err := newSuggestionClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	candidates, err := client.SuggestBullets(ctx, doc.Experience[suggestExperienceIndex])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), resumeutil.FormatBullets(candidates))
	return nil
}
