package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-sync/internal/clock"
	"github.com/jonathan/resume-sync/internal/resumeutil"
)

var statsCmd = &cobra.Command{
	Use:   "stats <resume.json>",
	Short: "Show content statistics and keywords for a resume document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	doc, err := readResumeFile(args[0])
	if err != nil {
		return err
	}

	clk := clock.System{}
	stats := resumeutil.Stats(doc, clk)
	years := resumeutil.CalculateExperienceYears(doc.Experience, clk)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Words:      %d\n", stats.WordCount)
	fmt.Fprintf(out, "Characters: %d\n", stats.CharacterCount)
	fmt.Fprintf(out, "Sections:   %d\n", stats.SectionCount)
	fmt.Fprintf(out, "Skills:     %d\n", stats.SkillCount)
	fmt.Fprintf(out, "Projects:   %d\n", stats.ProjectCount)
	fmt.Fprintf(out, "Experience: %.1f years (%s)\n", years, resumeutil.ExperienceLevel(years))

	if keywords := resumeutil.GenerateKeywords(doc); len(keywords) > 0 {
		fmt.Fprintf(out, "Keywords:   %s\n", strings.Join(keywords, ", "))
	}
	if preview := resumeutil.PreviewText(doc); preview != "" {
		fmt.Fprintf(out, "Preview:    %s\n", preview)
	}
	return nil
}
