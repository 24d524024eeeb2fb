package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/classification"
	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Decide whether a document is a resume",
	Long: "Classify extracts the document's text, runs the classification cascade and applies " +
		"the upload rejection policy. Set GEMINI_API_KEY to enable the model stage.",
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

var classifyNoModel bool

func init() {
	classifyCmd.Flags().BoolVar(&classifyNoModel, "no-model", false, "Skip the model stage and use heuristics only")

	rootCmd.AddCommand(classifyCmd)
}

// classifyOutput is the JSON shape of the classify command
type classifyOutput struct {
	Classification types.ClassificationResult `json:"classification"`
	Rejected       bool                       `json:"rejected"`
	Message        string                     `json:"message,omitempty"`
}

func runClassify(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, !classifyNoModel)
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

	result := a.classifier.Classify(ctx, text)
	out := classifyOutput{
		Classification: result,
		Rejected: classification.ShouldReject(result, classification.RejectContext{
			Filename:  doc.Filename,
			MIMEType:  doc.MIMEType,
			WordCount: extraction.WordCount(text),
		}),
	}
	if out.Rejected {
		out.Message = classification.RejectionMessage(result)
	}

	if a.cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintClassification(&result)
		printer.PrintRejection(out.Message)
	}
	return writeOutput(out)
}
