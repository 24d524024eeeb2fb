package classification

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/prompts"
	"github.com/jonathan/resume-screener/internal/retry"
	"github.com/jonathan/resume-screener/internal/schemas"
	"github.com/jonathan/resume-screener/internal/types"
)

const (
	classifyTemplate = "classify-document"

	// maxExcerptChars bounds the text sent to the model
	maxExcerptChars = 3600

	defaultModelResumeConfidence    = 0.75
	defaultModelNonResumeConfidence = 0.5

	modelTypeResume    = "resume"
	modelTypeNonResume = "non_resume"

	unknownDescription = "unknown document"
	unknownClassName   = "unknown_document"
)

// ModelAnswer is the decoded JSON verdict returned by the model
type ModelAnswer struct {
	Type         string   `json:"type"`
	ProbableType string   `json:"probableType"`
	Confidence   *float64 `json:"confidence"`
	Reason       string   `json:"reason"`
}

// ParseModelAnswer extracts the JSON object from a model answer, decodes it
// leniently and validates it against the classification response schema.
func ParseModelAnswer(raw string) (*ModelAnswer, error) {
	body, ok := llm.ExtractJSON(raw)
	if !ok {
		return nil, llm.ErrNoJSON
	}

	var fields map[string]any
	if err := llm.DecodeLenient(body, &fields); err != nil {
		return nil, err
	}
	if t, ok := fields["type"].(string); ok {
		fields["type"] = normalizeModelType(t)
	}
	if err := schemas.Validate(schemas.ClassificationResponse, fields); err != nil {
		return nil, err
	}

	answer := &ModelAnswer{Type: fields["type"].(string)}
	if v, ok := fields["probableType"].(string); ok {
		answer.ProbableType = strings.TrimSpace(v)
	}
	if v, ok := fields["reason"].(string); ok {
		answer.Reason = strings.TrimSpace(v)
	}
	if v, ok := fields["confidence"].(float64); ok {
		answer.Confidence = &v
	}
	return answer, nil
}

// normalizeModelType accepts "Resume", "non-resume" and "non resume"
func normalizeModelType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	return strings.NewReplacer("-", "_", " ", "_").Replace(t)
}

func (c *Classifier) modelStage(s *cascadeState) *types.ClassificationResult {
	if c.generate == nil || s.nonResume != nil {
		return nil
	}

	prompt, err := prompts.Render(classifyTemplate, map[string]string{"Excerpt": excerpt(s.text, maxExcerptChars)})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to build classification prompt")
		return nil
	}

	opts := c.retry
	onRetry := opts.OnRetry
	opts.OnRetry = func(err error, attempt int, delay time.Duration) {
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("retrying classification model call")
		if onRetry != nil {
			onRetry(err, attempt, delay)
		}
	}

	raw, err := retry.Execute(s.ctx, func(ctx context.Context, _ int) (string, error) {
		return c.generate(ctx, prompt)
	}, opts)
	if err != nil {
		c.logger.Warn().Err(err).Msg("classification model call failed, falling back to heuristics")
		return nil
	}

	answer, err := c.parse(raw)
	if err != nil || answer == nil {
		c.logger.Warn().
			Err(err).
			Int("response_chars", len(raw)).
			Msg("failed to parse classification model answer")
		return nil
	}

	return answerToResult(answer)
}

func answerToResult(answer *ModelAnswer) *types.ClassificationResult {
	if normalizeModelType(answer.Type) == modelTypeResume {
		return &types.ClassificationResult{
			IsResume:    true,
			Description: "resume",
			ClassName:   types.ResumeClassName,
			Confidence:  confidenceOr(answer.Confidence, defaultModelResumeConfidence),
			Reason:      answer.Reason,
		}
	}

	description, className := unknownDescription, unknownClassName
	if probable := answer.ProbableType; probable != "" && !strings.EqualFold(probable, modelTypeResume) {
		description = probable
		className = nonResumeClassName(probable)
	}

	return &types.ClassificationResult{
		IsResume:    false,
		Description: description,
		ClassName:   className,
		Confidence:  confidenceOr(answer.Confidence, defaultModelNonResumeConfidence),
		Reason:      answer.Reason,
	}
}

func confidenceOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return min(1, max(0, *v))
}

// excerpt returns at most limit characters of text, cut on a rune boundary
func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}
