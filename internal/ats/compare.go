package ats

import "github.com/jonathan/resume-screener/internal/types"

// Metric is one named ATS sub-score
type Metric struct {
	Name  string
	Value int
}

// Named lists the metrics of m in a fixed order, keyed by their JSON names
func Named(m types.ATSMetrics) []Metric {
	return []Metric{
		{Name: "readability", Value: m.Readability},
		{Name: "keyword_density", Value: m.KeywordDensity},
		{Name: "impact", Value: m.Impact},
		{Name: "crispness", Value: m.Crispness},
		{Name: "layout_searchability", Value: m.LayoutSearchability},
		{Name: "section_heading_clarity", Value: m.SectionHeadingClarity},
		{Name: "contact_info_completeness", Value: m.ContactInfoCompleteness},
		{Name: "grammar", Value: m.Grammar},
	}
}

// Comparison holds the metrics of two versions of a text and the percent
// change of each metric
type Comparison struct {
	Before      types.ATSMetrics   `json:"before"`
	After       types.ATSMetrics   `json:"after"`
	Improvement map[string]float64 `json:"improvement"`
}

// CompareMetrics scores before and after. Improvement is
// (after-before)/before*100, or 0 when the before value is 0.
func CompareMetrics(before, after string) Comparison {
	cmp := Comparison{
		Before:      Compute(before),
		After:       Compute(after),
		Improvement: make(map[string]float64, 8),
	}

	afterNamed := Named(cmp.After)
	for i, b := range Named(cmp.Before) {
		a := afterNamed[i]
		if b.Value == 0 {
			cmp.Improvement[b.Name] = 0
			continue
		}
		cmp.Improvement[b.Name] = float64(a.Value-b.Value) / float64(b.Value) * 100
	}
	return cmp
}
