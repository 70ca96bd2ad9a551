package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-sync/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate <resume.json>",
	Short: "Validate a resume document and score its completeness",
	Long:  "Checks a resume JSON file against the document schema, reports field-level errors and warnings, and prints the completeness score.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, err := readResumeFile(args[0])
	if err != nil {
		return err
	}

	result := validation.Validate(doc)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Completeness: %d/100\n", result.CompletenessScore)
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nErrors (%d):\n", len(result.Errors))
		for _, issue := range result.Errors {
			fmt.Fprintf(out, "  %s: %s\n", issue.Field, issue.Message)
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(out, "\nWarnings (%d):\n", len(result.Warnings))
		for _, issue := range result.Warnings {
			fmt.Fprintf(out, "  %s: %s\n", issue.Field, issue.Message)
		}
	}

	summary := validation.Summarize(result)
	fmt.Fprintf(out, "\n%s\n", summary.Message)
	for _, suggestion := range summary.Suggestions {
		fmt.Fprintf(out, "  - %s\n", suggestion)
	}

	if !result.IsValid {
		return fmt.Errorf("resume has %d validation error(s)", len(result.Errors))
	}
	return nil
}
