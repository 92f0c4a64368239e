package core

// CriterionResult is the synthesized verdict for one rubric dimension.
type CriterionResult struct {
	DimensionID    string    `json:"dimension_id"`
	DimensionName  string    `json:"dimension_name"`
	FinalScore     int       `json:"final_score"`
	JudgeOpinions  []Opinion `json:"judge_opinions"`
	DissentSummary string    `json:"dissent_summary,omitempty"`
	Remediation    string    `json:"remediation"`
}

// HasDissent reports whether the opinions disagreed enough to be flagged.
func (c CriterionResult) HasDissent() bool {
	return c.DissentSummary != ""
}

// AuditReport is the terminal artifact of a run.
type AuditReport struct {
	SubjectIdentifier string            `json:"subject_identifier"`
	ExecutiveSummary  string            `json:"executive_summary"`
	OverallScore      float64           `json:"overall_score"`
	Criteria          []CriterionResult `json:"criteria"`
	RemediationPlan   string            `json:"remediation_plan"`
}

// Criterion looks up a result by dimension id.
func (r *AuditReport) Criterion(id string) (CriterionResult, bool) {
	for _, c := range r.Criteria {
		if c.DimensionID == id {
			return c, true
		}
	}
	return CriterionResult{}, false
}
