package scoring

import (
	"math"

	"github.com/jonathan/resume-screener/internal/ats"
	"github.com/jonathan/resume-screener/internal/parsing"
	"github.com/jonathan/resume-screener/internal/types"
)

// Overall score weights
const (
	readabilityWeight         = 0.18
	keywordDensityWeight      = 0.22
	impactWeight              = 0.15
	crispnessWeight           = 0.10
	experienceRelevanceWeight = 0.12
	layoutWeight              = 0.08
	grammarWeight             = 0.05
	formatParsabilityWeight   = 0.05
	sectionCompletenessWeight = 0.03

	// maxRedFlagPenalty is deducted when the red-flag scan scores 0
	maxRedFlagPenalty = 8
)

// Selection probability blend
const (
	overallBlend      = 0.5
	keywordMatchBlend = 0.3
	atsBlend          = 0.2

	logisticMidpoint = 50
	logisticScale    = 10
)

// Inputs are the metric values the cards and the overall score are built from
type Inputs struct {
	ATS types.ATSMetrics
	Job types.JobMetrics
	// HasTitle and HasSkills report whether the job context supplied a title
	// and required skills; without them the matching metrics are left out of
	// the card averages
	HasTitle  bool
	HasSkills bool
	// ATSScore feeds the ats card
	ATSScore int
}

// Cards averages each card's metrics. Metrics without input are skipped and
// a card with nothing to average scores 0.
func Cards(in Inputs) types.CardScores {
	return types.CardScores{
		Alignment: average(
			optional(in.Job.RoleTitleMatch, in.HasTitle),
			optional(in.Job.ExperienceRelevance, in.HasSkills),
			&in.ATS.KeywordDensity,
		),
		Accomplishments: average(&in.ATS.Impact, &in.Job.AccomplishmentDensity),
		Format: average(
			&in.ATS.LayoutSearchability,
			&in.Job.FormatParsability,
			&in.ATS.SectionHeadingClarity,
		),
		Hygiene: average(
			&in.ATS.Grammar,
			&in.Job.DateConsistency,
			&in.ATS.ContactInfoCompleteness,
			&in.ATS.Crispness,
			&in.ATS.Readability,
		),
		Risk: average(&in.Job.RedFlagScan),
		ATS:  clamp(float64(in.ATSScore)),
	}
}

// OverallScore is the weighted sum of nine metrics minus the red-flag
// penalty, floored at 0 and rounded
func OverallScore(in Inputs) int {
	sum := readabilityWeight*float64(in.ATS.Readability) +
		keywordDensityWeight*float64(in.ATS.KeywordDensity) +
		impactWeight*float64(in.ATS.Impact) +
		crispnessWeight*float64(in.ATS.Crispness) +
		experienceRelevanceWeight*float64(in.Job.ExperienceRelevance) +
		layoutWeight*float64(in.ATS.LayoutSearchability) +
		grammarWeight*float64(in.ATS.Grammar) +
		formatParsabilityWeight*float64(in.Job.FormatParsability) +
		sectionCompletenessWeight*float64(in.ATS.SectionHeadingClarity)

	penalty := float64(100-in.Job.RedFlagScan) / 100 * maxRedFlagPenalty
	return clamp(math.Round(sum - penalty))
}

// SelectionProbability blends logistic transforms of the overall score,
// keyword match and ATS score into a 0-100 estimate
func SelectionProbability(overall, keywordMatch, atsScore int) int {
	p := overallBlend*logistic(float64(overall)) +
		keywordMatchBlend*logistic(float64(keywordMatch)) +
		atsBlend*logistic(float64(atsScore))
	return clamp(math.Round(p * 100))
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-(x-logisticMidpoint)/logisticScale))
}

// ComputeJobMetrics runs the six job-aware metrics
func ComputeJobMetrics(text string, job types.JobContext) types.JobMetrics {
	candidateSkills := parsing.ExtractSkills(text, job.Skills)
	return types.JobMetrics{
		RoleTitleMatch:        RoleTitleMatch(text, job.Title),
		ExperienceRelevance:   ExperienceRelevance(candidateSkills, job.Skills),
		AccomplishmentDensity: AccomplishmentDensity(text),
		FormatParsability:     FormatParsability(text),
		DateConsistency:       DateConsistency(text),
		RedFlagScan:           RedFlagScan(text),
	}
}

// Score builds the full score bundle for resume text. job.ATSScore, when
// set, replaces the computed ATS score in the ats card and the selection
// probability. Keyword match uses job.Keywords, then job.Skills, and falls
// back to keyword density when the job lists neither.
func Score(text string, job types.JobContext) types.ScoreBundle {
	atsMetrics := ats.Compute(text)
	in := Inputs{
		ATS:       atsMetrics,
		Job:       ComputeJobMetrics(text, job),
		HasTitle:  len(splitTitle(job.Title)) > 0,
		HasSkills: hasAny(job.Skills),
		ATSScore:  ats.Overall(atsMetrics),
	}
	if job.ATSScore != nil {
		in.ATSScore = clamp(float64(*job.ATSScore))
	}

	var keywordMatch int
	switch {
	case hasAny(job.Keywords):
		keywordMatch = KeywordMatch(text, job.Keywords)
	case hasAny(job.Skills):
		keywordMatch = KeywordMatch(text, job.Skills)
	default:
		keywordMatch = atsMetrics.KeywordDensity
	}

	overall := OverallScore(in)
	return types.ScoreBundle{
		ATS:                  in.ATS,
		Job:                  in.Job,
		Cards:                Cards(in),
		KeywordMatch:         keywordMatch,
		Overall:              overall,
		SelectionProbability: SelectionProbability(overall, keywordMatch, in.ATSScore),
	}
}

func optional(v int, ok bool) *int {
	if !ok {
		return nil
	}
	return &v
}

// average rounds the mean of the non-nil values; none scores 0
func average(values ...*int) int {
	sum, n := 0, 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return 0
	}
	return clamp(float64(sum) / float64(n))
}

func hasAny(items []string) bool {
	for _, item := range items {
		if parsing.SkillKey(item) != "" {
			return true
		}
	}
	return false
}
