package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <file>...",
	Short: "Extract, classify and score one or more uploads",
	Long: "Evaluate runs the full screening pipeline on every file. Documents are evaluated " +
		"concurrently; one result is printed per file, in argument order.",
	Args: cobra.MinimumNArgs(1),
	RunE: runEvaluate,
}

var (
	evaluateJobFile string
	evaluateNoModel bool
)

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateJobFile, "job", "j", "", "Path to a JSON or YAML job context file")
	evaluateCmd.Flags().BoolVar(&evaluateNoModel, "no-model", false, "Skip the model stage and use heuristics only")

	rootCmd.AddCommand(evaluateCmd)
}

// evaluateOutput is the JSON shape of one evaluated file
type evaluateOutput struct {
	Filename   string            `json:"filename"`
	Evaluation *types.Evaluation `json:"evaluation,omitempty"`
	Rejected   bool              `json:"rejected,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func runEvaluate(_ *cobra.Command, args []string) error {
	job, err := loadJobContext(evaluateJobFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, !evaluateNoModel)
	if err != nil {
		return err
	}
	defer a.Close()

	outputs := make([]evaluateOutput, len(args))
	docs := make([]types.RawDocument, 0, len(args))
	// docIndex maps a batch position back to its argument
	docIndex := make([]int, 0, len(args))
	failed := 0
	for i, path := range args {
		doc, err := readDocument(path)
		if err != nil {
			outputs[i] = evaluateOutput{Filename: filepath.Base(path), Error: err.Error()}
			failed++
			continue
		}
		docs = append(docs, doc)
		docIndex = append(docIndex, i)
	}

	p := pipeline.New(a.extractor, a.classifier,
		pipeline.WithLogger(a.logger),
		pipeline.WithConcurrency(a.cfg.Concurrency),
		pipeline.WithProgress(func(event pipeline.ProgressEvent) {
			a.logger.Debug().
				Str("request_id", event.RequestID).
				Str("step", event.Step).
				Msg(event.Message)
		}),
	)

	printer := observability.NewPrinter(os.Stderr)
	for j, r := range p.EvaluateBatch(ctx, docs, job) {
		out := toEvaluateOutput(r)
		if out.Error != "" {
			failed++
		}
		if a.cfg.Verbose {
			printer.PrintEvaluation(r.Evaluation)
			var rejection *pipeline.RejectionError
			if errors.As(r.Err, &rejection) {
				printer.PrintClassification(&rejection.Classification)
				printer.PrintRejection(rejection.Error())
			}
		}
		outputs[docIndex[j]] = out
	}

	if len(args) == 1 {
		if err := writeOutput(outputs[0]); err != nil {
			return err
		}
	} else if err := writeOutput(outputs); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents were not accepted", failed, len(args))
	}
	return nil
}

func toEvaluateOutput(r pipeline.BatchResult) evaluateOutput {
	out := evaluateOutput{Filename: r.Filename, Evaluation: r.Evaluation}
	if r.Err == nil {
		return out
	}

	var rejection *pipeline.RejectionError
	if errors.As(r.Err, &rejection) {
		out.Rejected = true
	}
	out.Error = userMessage(r.Err)
	return out
}
