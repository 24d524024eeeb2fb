package types

import "github.com/go-playground/validator/v10"

// JobContext carries the target job information used by job-aware metrics.
// All fields are optional; metrics degrade to neutral values when empty.
type JobContext struct {
	Title    string   `json:"title,omitempty" yaml:"title"`
	Skills   []string `json:"skills,omitempty" yaml:"skills" validate:"omitempty,dive,required"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords" validate:"omitempty,dive,required"`
	// ATSScore overrides the ATS card input when set by the caller
	ATSScore *int `json:"ats_score,omitempty" yaml:"ats_score" validate:"omitempty,gte=0,lte=100"`
}

// Validate validates the JobContext using the validator.
func (j *JobContext) Validate() error {
	validate := validator.New()
	return validate.Struct(j)
}
