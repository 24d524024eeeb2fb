// Package classification decides whether extracted text is a resume.
//
// A Classifier runs an ordered cascade of stages. Cheap keyword heuristics
// come first, then an optional generative model, then a statistical fallback
// that needs no external service. The first stage with a verdict wins.
// Classify never fails: model errors are logged and the cascade moves on.
package classification

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/retry"
	"github.com/jonathan/resume-screener/internal/types"
)

// GenerateFunc sends a prompt to a model and returns its raw answer
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

// ParseFunc turns a raw model answer into a ModelAnswer. A nil answer with a
// nil error means the answer carried no usable verdict.
type ParseFunc func(raw string) (*ModelAnswer, error)

// Classifier runs the classification cascade. It is safe for concurrent use.
type Classifier struct {
	logger   zerolog.Logger
	generate GenerateFunc
	parse    ParseFunc
	retry    retry.Options
	stages   []stage
}

// Option configures a Classifier
type Option func(*Classifier)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// WithModel enables the model stage using g at the given tier
func WithModel(g llm.Generator, tier llm.ModelTier) Option {
	return func(c *Classifier) {
		if g == nil {
			return
		}
		c.generate = func(ctx context.Context, prompt string) (string, error) {
			return g.GenerateJSON(ctx, prompt, tier)
		}
	}
}

// WithGenerateFunc enables the model stage with a plain function
func WithGenerateFunc(fn GenerateFunc) Option {
	return func(c *Classifier) {
		c.generate = fn
	}
}

// WithParseFunc replaces the default model answer parser
func WithParseFunc(fn ParseFunc) Option {
	return func(c *Classifier) {
		if fn != nil {
			c.parse = fn
		}
	}
}

// WithRetryOptions overrides the retry policy for model calls
func WithRetryOptions(opts retry.Options) Option {
	return func(c *Classifier) {
		c.retry = opts
	}
}

// New creates a Classifier. Without a model the model stage is skipped.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		logger: zerolog.Nop(),
		parse:  ParseModelAnswer,
		retry:  retry.ModelPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.stages = []stage{
		{name: "empty_text", run: emptyTextStage},
		{name: "vocabulary", run: vocabularyStage},
		{name: "job_posting", run: jobPostingStage},
		{name: "dual_keyword", run: dualKeywordStage},
		{name: "model", run: c.modelStage},
		{name: "statistical", run: statisticalStage},
		{name: "final", run: finalStage},
	}
	return c
}

// stage is one step of the cascade. run returns a verdict or nil to defer
// to the next stage.
type stage struct {
	name string
	run  func(s *cascadeState) *types.ClassificationResult
}

// cascadeState is the per-call input shared by all stages
type cascadeState struct {
	ctx   context.Context
	text  string
	lower string
	// nonResume is the first non-resume verdict of this pass; later resume
	// verdicts never override it
	nonResume *types.ClassificationResult
}

// Classify returns the verdict for text
func (c *Classifier) Classify(ctx context.Context, text string) types.ClassificationResult {
	state := &cascadeState{
		ctx:   ctx,
		text:  text,
		lower: strings.ToLower(text),
	}

	for _, st := range c.stages {
		result := st.run(state)
		if result == nil {
			continue
		}

		if !result.IsResume && state.nonResume == nil {
			state.nonResume = result
		}
		if result.IsResume && state.nonResume != nil {
			result = state.nonResume
		}

		c.logger.Debug().
			Str("stage", st.name).
			Bool("is_resume", result.IsResume).
			Str("class_name", result.ClassName).
			Float64("confidence", result.Confidence).
			Msg("document classified")
		return *result
	}

	// finalStage always answers; this is unreachable with the default stages
	return *unknownDocument(text)
}
