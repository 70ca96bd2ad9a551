package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-sync/internal/resumeutil"
	"github.com/jonathan/resume-sync/internal/types"
)

var exportCmd = &cobra.Command{
	Use:   "export <resume.json>",
	Short: "Export a resume document as JSON, plain text, or markdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format (json, txt, md)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format := types.ExportFormat(exportFormat)
	switch format {
	case types.FormatJSON, types.FormatText, types.FormatMarkdown:
	default:
		return fmt.Errorf("unsupported format %q (expected json, txt, or md)", exportFormat)
	}

	doc, err := readResumeFile(args[0])
	if err != nil {
		return err
	}

	rendered, err := resumeutil.Export(doc, format)
	if err != nil {
		return err
	}

	if exportOutput != "" {
		if err := os.WriteFile(exportOutput, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOutput)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}
