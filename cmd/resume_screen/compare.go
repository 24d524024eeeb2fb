package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/ats"
	"github.com/jonathan/resume-screener/internal/observability"
)

var compareCmd = &cobra.Command{
	Use:   "compare <before> <after>",
	Short: "Compare the ATS metrics of two versions of a resume",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	before, err := a.readText(ctx, args[0])
	if err != nil {
		return err
	}
	after, err := a.readText(ctx, args[1])
	if err != nil {
		return err
	}

	cmp := ats.CompareMetrics(before, after)
	if a.cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintComparison(&cmp)
	}
	return writeOutput(cmp)
}
