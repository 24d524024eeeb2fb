package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/observability"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract normalized text from a PDF, DOCX or DOC file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var extractJSON bool

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print text and document metadata as JSON")

	rootCmd.AddCommand(extractCmd)
}

// extractOutput is the JSON shape of the extract command
type extractOutput struct {
	Metadata any    `json:"metadata"`
	Text     string `json:"text"`
}

func runExtract(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}
	text, err := a.extractor.Extract(ctx, doc)
	if err != nil {
		return newUserError(err)
	}

	metadata := extraction.NewMetadata(doc, text)
	if a.cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintMetadata(&metadata)
	}

	if extractJSON {
		return writeOutput(extractOutput{Metadata: metadata, Text: text})
	}
	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	_, err = fmt.Fprintln(os.Stdout, text)
	return err
}
