package types

// ATSMetrics holds the eight text-only quality sub-scores (each 0-100)
type ATSMetrics struct {
	Readability             int `json:"readability"`
	KeywordDensity          int `json:"keyword_density"`
	Impact                  int `json:"impact"`
	Crispness               int `json:"crispness"`
	LayoutSearchability     int `json:"layout_searchability"`
	SectionHeadingClarity   int `json:"section_heading_clarity"`
	ContactInfoCompleteness int `json:"contact_info_completeness"`
	Grammar                 int `json:"grammar"`
}

// JobMetrics holds the job-context-aware sub-scores (each 0-100)
type JobMetrics struct {
	RoleTitleMatch        int `json:"role_title_match"`
	ExperienceRelevance   int `json:"experience_relevance"`
	AccomplishmentDensity int `json:"accomplishment_density"`
	FormatParsability     int `json:"format_parsability"`
	DateConsistency       int `json:"date_consistency"`
	RedFlagScan           int `json:"red_flag_scan"`
}

// CardScores groups related metrics into display cards (each 0-100)
type CardScores struct {
	Alignment       int `json:"alignment"`
	Accomplishments int `json:"accomplishments"`
	Format          int `json:"format"`
	Hygiene         int `json:"hygiene"`
	Risk            int `json:"risk"`
	ATS             int `json:"ats"`
}

// ScoreBundle is the complete scoring output for one resume
type ScoreBundle struct {
	ATS                  ATSMetrics `json:"ats"`
	Job                  JobMetrics `json:"job"`
	Cards                CardScores `json:"cards"`
	KeywordMatch         int        `json:"keyword_match"`
	Overall              int        `json:"overall"`
	SelectionProbability int        `json:"selection_probability"`
}
