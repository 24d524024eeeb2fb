// Package pipeline provides the high-level orchestration for screening an
// uploaded document: text extraction, classification, the rejection gate and
// scoring.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-screener/internal/classification"
	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/scoring"
	"github.com/jonathan/resume-screener/internal/types"
)

// Pipeline steps reported through ProgressEvent
const (
	StepExtract  = "extract"
	StepClassify = "classify"
	StepReject   = "reject"
	StepScore    = "score"
)

// DefaultConcurrency bounds EvaluateBatch when no limit is configured
const DefaultConcurrency = 4

// ProgressEvent represents a progress update during an evaluation
type ProgressEvent struct {
	Step      string `json:"step"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Content   any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs. It may be called
// from several goroutines during EvaluateBatch.
type ProgressCallback func(event ProgressEvent)

// TextExtractor turns an uploaded document into plain text
type TextExtractor interface {
	Extract(ctx context.Context, doc types.RawDocument) (string, error)
}

// DocumentClassifier decides whether text is a resume
type DocumentClassifier interface {
	Classify(ctx context.Context, text string) types.ClassificationResult
}

// Pipeline screens documents. It holds no per-document state and is safe for
// concurrent use.
type Pipeline struct {
	extractor   TextExtractor
	classifier  DocumentClassifier
	logger      zerolog.Logger
	concurrency int
	onProgress  ProgressCallback
	newID       func() string
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the structured logger
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithConcurrency bounds the number of documents EvaluateBatch works on at once
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithProgress registers a progress callback
func WithProgress(fn ProgressCallback) Option {
	return func(p *Pipeline) {
		p.onProgress = fn
	}
}

// New creates a Pipeline from its two collaborators
func New(extractor TextExtractor, classifier DocumentClassifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:   extractor,
		classifier:  classifier,
		logger:      zerolog.Nop(),
		concurrency: DefaultConcurrency,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Evaluate screens one document against job. Extraction failures are
// returned unchanged (*extraction.Error or extraction.ErrUnsupportedFormat).
// A document the rejection policy turns away yields a *RejectionError.
func (p *Pipeline) Evaluate(ctx context.Context, doc types.RawDocument, job types.JobContext) (*types.Evaluation, error) {
	requestID := p.newID()
	logger := p.logger.With().
		Str("request_id", requestID).
		Str("filename", doc.Filename).
		Logger()

	text, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		logger.Warn().Err(err).Msg("extraction failed")
		return nil, err
	}
	metadata := extraction.NewMetadata(doc, text)
	p.emit(ProgressEvent{
		Step:      StepExtract,
		Message:   fmt.Sprintf("Extracted %d words from %s", metadata.WordCount, metadata.Format),
		RequestID: requestID,
	})

	result := p.classifier.Classify(ctx, text)
	logger.Info().
		Bool("is_resume", result.IsResume).
		Str("class_name", result.ClassName).
		Float64("confidence", result.Confidence).
		Msg("document classified")
	p.emit(ProgressEvent{
		Step:      StepClassify,
		Message:   fmt.Sprintf("Classified as %s", result.ClassName),
		RequestID: requestID,
		Content:   result,
	})

	rejectCtx := classification.RejectContext{
		Filename:  doc.Filename,
		MIMEType:  doc.MIMEType,
		WordCount: metadata.WordCount,
	}
	if classification.ShouldReject(result, rejectCtx) {
		rejection := &RejectionError{
			RequestID:      requestID,
			Metadata:       metadata,
			Classification: result,
		}
		logger.Info().Str("class_name", result.ClassName).Msg("document rejected")
		p.emit(ProgressEvent{
			Step:      StepReject,
			Message:   rejection.Error(),
			RequestID: requestID,
		})
		return nil, rejection
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation cancelled: %w", err)
	}

	scores := scoring.Score(text, job)
	logger.Info().
		Int("overall", scores.Overall).
		Int("selection_probability", scores.SelectionProbability).
		Msg("document scored")
	p.emit(ProgressEvent{
		Step:      StepScore,
		Message:   fmt.Sprintf("Overall score %d, selection probability %d%%", scores.Overall, scores.SelectionProbability),
		RequestID: requestID,
		Content:   scores,
	})

	return &types.Evaluation{
		RequestID:      requestID,
		Metadata:       metadata,
		Classification: result,
		Scores:         &scores,
	}, nil
}

// BatchResult is the outcome of one document of a batch. Exactly one of
// Evaluation and Err is set.
type BatchResult struct {
	Filename   string            `json:"filename"`
	Evaluation *types.Evaluation `json:"evaluation,omitempty"`
	Err        error             `json:"-"`
}

// EvaluateBatch evaluates docs concurrently. It returns one result per
// document in input order; a failing document does not stop the others.
func (p *Pipeline) EvaluateBatch(ctx context.Context, docs []types.RawDocument, job types.JobContext) []BatchResult {
	results := make([]BatchResult, len(docs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			eval, err := p.Evaluate(gCtx, doc, job)
			// each goroutine owns its slot
			results[i] = BatchResult{Filename: doc.Filename, Evaluation: eval, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Pipeline) emit(event ProgressEvent) {
	if p.onProgress != nil {
		p.onProgress(event)
	}
}
