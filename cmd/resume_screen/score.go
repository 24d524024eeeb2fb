package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/parsing"
	"github.com/jonathan/resume-screener/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Score a resume against a target job without classifying it",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

var scoreJobFile string

func init() {
	scoreCmd.Flags().StringVarP(&scoreJobFile, "job", "j", "", "Path to a JSON or YAML job context file")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, args []string) error {
	job, err := loadJobContext(scoreJobFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	text, err := a.readText(ctx, args[0])
	if err != nil {
		return err
	}

	scores := scoring.Score(text, job)
	if a.cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintSkills("CANDIDATE SKILLS", parsing.ExtractSkills(text, job.Skills))
		printer.PrintScores(&scores)
	}
	return writeOutput(scores)
}
