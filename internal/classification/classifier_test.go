package classification

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/retry"
	"github.com/jonathan/resume-screener/internal/types"
)

// MockGenerator implements llm.Generator for testing
type MockGenerator struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

func (m *MockGenerator) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "", errors.New("not implemented")
}

// fastRetry keeps model failure tests quick
func fastRetry() retry.Options {
	return retry.Options{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

const exampleResume = "Experience\n- Engineer at Acme\nEducation\n- State University\nSkills\n- SQL, Python"

func TestClassify_EmptyText(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		result := New().Classify(context.Background(), text)

		assert.False(t, result.IsResume)
		assert.Equal(t, "empty_document", result.ClassName)
		assert.Equal(t, "empty document", result.Description)
		assert.Equal(t, 0.0, result.Confidence)
		assert.Equal(t, "The document does not contain any text.", result.Reason)
	}
}

func TestClassify_Vocabulary(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		className  string
		confidence float64
	}{
		{
			name:       "job description",
			text:       "Senior Analyst\nJob Description\nResponsibilities: own reporting\nQualifications: BSc",
			className:  "job_description",
			confidence: 0.85,
		},
		{
			name:       "cover letter",
			text:       "Dear Hiring Manager,\nI am writing to apply for the analyst role.\nSincerely,\nJane",
			className:  "cover_letter",
			confidence: 0.85,
		},
		{
			name:       "invoice",
			text:       "INVOICE #42\nBill to: Acme Ltd\nSubtotal 100\nAmount due 120",
			className:  "invoice",
			confidence: 0.85,
		},
		{
			name:       "meeting notes",
			text:       "Weekly sync\nAttendees: Ann, Bo\nAgenda\n1. Budget\nAction items: Bo to follow up",
			className:  "meeting_notes",
			confidence: 0.85,
		},
		{
			name:       "academic paper",
			text:       "Abstract\nWe study caching.\nMethodology\nWe ran experiments (Smith et al., 2020).",
			className:  "academic_paper",
			confidence: 0.85,
		},
		{
			name:       "policy",
			text:       "Data Retention\nPolicy statement\nThis policy applies to all staff. Records shall be kept for 7 years.",
			className:  "policy_document",
			confidence: 0.85,
		},
		{
			name:       "marketing brochure",
			text:       "Sunny Dental\nOur services: whitening, braces\nSpecial offer this month! Call us today.",
			className:  "marketing_brochure",
			confidence: 0.85,
		},
		{
			name:       "slide deck",
			text:       "Q3 Review\nPresented by the finance team\nSlide 2: revenue\nKey takeaways",
			className:  "slide_deck",
			confidence: 0.85,
		},
		{
			name:       "certificate",
			text:       "Certificate of Completion\nJane Doe\nAdvanced Excel",
			className:  "certificate",
			confidence: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().Classify(context.Background(), tt.text)

			assert.False(t, result.IsResume)
			assert.Equal(t, tt.className, result.ClassName)
			assert.Equal(t, tt.confidence, result.Confidence)
			assert.NotEmpty(t, result.Description)
		})
	}
}

func TestClassify_JobDescriptionKeywords(t *testing.T) {
	text := "Responsibilities\nBuild dashboards\nQualifications\nThree years with SQL"

	result := New().Classify(context.Background(), text)

	assert.False(t, result.IsResume)
	assert.Equal(t, "job_description", result.ClassName)
	assert.Equal(t, `The document contains job description language such as "responsibilities" and "qualifications".`, result.Reason)
}

func TestClassify_JobPosting(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{
			name:     "three phrases",
			text:     "We are looking for a barista. Join our team! Apply now.",
			expected: true,
		},
		{
			name:     "two phrases and two requirement keywords",
			text:     "We are looking for a driver.\nRequirements: licence\nMust have: clean record\nGreat benefits.",
			expected: true,
		},
		{
			name:     "two phrases and one requirement keyword",
			text:     "We are looking for a driver.\nRequirements: licence\nGreat benefits.",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().Classify(context.Background(), tt.text)
			assert.Equal(t, tt.expected, result.ClassName == "job_posting", "got %+v", result)
			if tt.expected {
				assert.Equal(t, 0.8, result.Confidence)
			}
		})
	}
}

func TestClassify_DualKeywordShortcut(t *testing.T) {
	text := "Jane Doe\nProfessional Summary\nAnalyst with 5 years of experience in retail."

	result := New().Classify(context.Background(), text)

	assert.True(t, result.IsResume)
	assert.Equal(t, types.ResumeClassName, result.ClassName)
	assert.Equal(t, 0.6, result.Confidence)
}

func TestClassify_NonResumeSignalBeatsShortcut(t *testing.T) {
	text := "Dear Hiring Manager,\nMy professional summary: years of experience.\nSincerely, Jane"

	result := New().Classify(context.Background(), text)

	assert.False(t, result.IsResume)
	assert.Equal(t, "cover_letter", result.ClassName)
}

func TestClassify_ExampleResumeUsesStatisticalFallback(t *testing.T) {
	result := New().Classify(context.Background(), exampleResume)

	assert.True(t, result.IsResume)
	assert.Equal(t, types.ResumeClassName, result.ClassName)
	assert.Equal(t, 0.6, result.Confidence)
}

func TestClassify_FinalHeuristicResume(t *testing.T) {
	text := "Over the years I gained experience, a solid education and many skills in sales."

	result := New().Classify(context.Background(), text)

	assert.True(t, result.IsResume)
	assert.Equal(t, 0.55, result.Confidence)
}

func TestClassify_FinalHeuristicNonResume(t *testing.T) {
	text := "\n\nGrocery list\nmilk\neggs"

	result := New().Classify(context.Background(), text)

	assert.False(t, result.IsResume)
	assert.Equal(t, "Grocery list", result.Description)
	assert.Equal(t, "grocery_list", result.ClassName)
	assert.Equal(t, 0.3, result.Confidence)
	assert.Equal(t, LacksSectionsReason, result.Reason)
}

func TestClassify_FinalHeuristicTruncatesDescription(t *testing.T) {
	text := strings.Repeat("word ", 30)

	result := New().Classify(context.Background(), text)

	assert.LessOrEqual(t, len([]rune(result.Description)), 60)
	assert.NotEmpty(t, result.ClassName)
}

func TestClassify_ModelResume(t *testing.T) {
	var prompt string
	mock := &MockGenerator{
		GenerateJSONFunc: func(_ context.Context, p string, tier llm.ModelTier) (string, error) {
			prompt = p
			assert.Equal(t, llm.TierLite, tier)
			return "```json\n{\"type\": \"resume\", \"probableType\": \"resume\", \"reason\": \"work history\"}\n```", nil
		},
	}

	text := "Jane Doe\nAcme Corp 2019-2023\nState University 2015"
	result := New(WithModel(mock, llm.TierLite)).Classify(context.Background(), text)

	assert.True(t, result.IsResume)
	assert.Equal(t, 0.75, result.Confidence)
	assert.Equal(t, "work history", result.Reason)
	assert.Contains(t, prompt, "\"\"\"\n"+text+"\n\"\"\"")
	assert.Contains(t, prompt, "probableType")
	assert.True(t, strings.HasPrefix(prompt, "[[Template:classify-document]]\n[[Version:"), "prompt starts with its header")
	assert.Contains(t, prompt, "\n[[Description:")
	assert.Contains(t, prompt, "\n---\nROLE\n")
}

func TestClassify_ModelNonResume(t *testing.T) {
	generate := func(context.Context, string) (string, error) {
		return `Sure! {'type': 'non-resume', 'probableType': 'A restaurant menu', 'confidence': 0.9,}`, nil
	}

	result := New(WithGenerateFunc(generate)).Classify(context.Background(), "Starters\nSoup 5\nMains\nSteak 20")

	assert.False(t, result.IsResume)
	assert.Equal(t, "A restaurant menu", result.Description)
	assert.Equal(t, "restaurant_menu", result.ClassName)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestClassify_ModelNonResumeDefaultConfidence(t *testing.T) {
	generate := func(context.Context, string) (string, error) {
		return `{"type": "non_resume"}`, nil
	}

	result := New(WithGenerateFunc(generate)).Classify(context.Background(), "lorem ipsum")

	assert.False(t, result.IsResume)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Equal(t, "unknown_document", result.ClassName)
}

func TestClassify_ModelSkippedAfterNonResumeVerdict(t *testing.T) {
	var calls atomic.Int32
	generate := func(context.Context, string) (string, error) {
		calls.Add(1)
		return `{"type": "resume"}`, nil
	}

	result := New(WithGenerateFunc(generate)).Classify(context.Background(), "Invoice\nAmount due: 10")

	assert.Equal(t, "invoice", result.ClassName)
	assert.Equal(t, int32(0), calls.Load())
}

func TestClassify_ModelFailureFallsThrough(t *testing.T) {
	var calls atomic.Int32
	var retries atomic.Int32
	generate := func(context.Context, string) (string, error) {
		calls.Add(1)
		return "", errors.New("503 service unavailable")
	}
	opts := fastRetry()
	opts.OnRetry = func(error, int, time.Duration) { retries.Add(1) }

	result := New(WithGenerateFunc(generate), WithRetryOptions(opts)).Classify(context.Background(), exampleResume)

	assert.True(t, result.IsResume, "statistical fallback should still classify")
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int32(2), retries.Load())
}

func TestClassify_ModelGarbageFallsThrough(t *testing.T) {
	tests := []string{
		"I think this is a resume.",
		`{"type": "maybe"}`,
		`{"type": "resume", "confidence": 40}`,
		`{"type": `,
	}

	for _, answer := range tests {
		t.Run(answer, func(t *testing.T) {
			generate := func(context.Context, string) (string, error) { return answer, nil }

			result := New(WithGenerateFunc(generate), WithRetryOptions(fastRetry())).
				Classify(context.Background(), "Grocery list\nmilk")

			assert.False(t, result.IsResume)
			assert.Equal(t, LacksSectionsReason, result.Reason)
		})
	}
}

func TestClassify_CustomParseFunc(t *testing.T) {
	generate := func(context.Context, string) (string, error) { return "RESUME", nil }
	parse := func(raw string) (*ModelAnswer, error) {
		if raw == "RESUME" {
			return &ModelAnswer{Type: "resume"}, nil
		}
		return nil, nil
	}

	result := New(WithGenerateFunc(generate), WithParseFunc(parse)).Classify(context.Background(), "Jane Doe")

	assert.True(t, result.IsResume)
	assert.Equal(t, 0.75, result.Confidence)
}

func TestClassify_ModelExcerptIsBounded(t *testing.T) {
	var prompt string
	generate := func(_ context.Context, p string) (string, error) {
		prompt = p
		return `{"type": "resume"}`, nil
	}

	text := strings.Repeat("é", 5000)
	New(WithGenerateFunc(generate)).Classify(context.Background(), text)

	require.NotEmpty(t, prompt)
	assert.Contains(t, prompt, strings.Repeat("é", maxExcerptChars))
	assert.NotContains(t, prompt, strings.Repeat("é", maxExcerptChars+1))
}

func TestClassify_NeverPanicsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	generate := func(ctx context.Context, _ string) (string, error) { return "", ctx.Err() }

	result := New(WithGenerateFunc(generate), WithRetryOptions(fastRetry())).Classify(ctx, exampleResume)
	assert.True(t, result.IsResume)
}
