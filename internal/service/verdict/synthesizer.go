// Package verdict reduces judge opinions into the audit report. Everything
// here is deterministic and makes no external calls.
package verdict

import (
	"fmt"
	"math"
	"strings"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

const (
	// DefaultDissentThreshold is the score spread at which judges are
	// considered to disagree.
	DefaultDissentThreshold = 2

	// DefaultMaxRemediationItems caps how many gap locations a
	// remediation names.
	DefaultMaxRemediationItems = 3
)

// NoCriticalIssues is the remediation used when every collector goal was met.
const NoCriticalIssues = "No critical issues found."

// NoRemediationRequired is the plan used when every criterion scored 5.
const NoRemediationRequired = "No remediation required."

// EarlyExitSummary is the executive summary of a run that found no evidence.
const EarlyExitSummary = "No evidence was found; opinion generation and synthesis were skipped."

// Synthesizer builds the audit report from frozen evidence and opinions.
type Synthesizer struct {
	DissentThreshold    int
	MaxRemediationItems int
}

// NewSynthesizer creates a synthesizer with the default thresholds.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{
		DissentThreshold:    DefaultDissentThreshold,
		MaxRemediationItems: DefaultMaxRemediationItems,
	}
}

// Synthesize builds one CriterionResult per rubric dimension, in rubric
// order, and the overall report around them.
func (s *Synthesizer) Synthesize(rubric *core.Rubric, input core.Input, evidence []core.Evidence, opinions []core.Opinion) *core.AuditReport {
	var dimensions []core.RubricDimension
	if rubric != nil {
		dimensions = rubric.Dimensions
	}

	remediation := s.Remediation(evidence)
	criteria := make([]core.CriterionResult, 0, len(dimensions))
	for _, dim := range dimensions {
		selected := SelectOpinions(opinions, dim.ID)
		criteria = append(criteria, core.CriterionResult{
			DimensionID:    dim.ID,
			DimensionName:  dim.Name,
			FinalScore:     FinalScore(selected),
			JudgeOpinions:  selected,
			DissentSummary: s.Dissent(selected),
			Remediation:    remediation,
		})
	}

	return &core.AuditReport{
		SubjectIdentifier: input.Subject(),
		ExecutiveSummary: fmt.Sprintf("Considered %d evidence item(s) and %d opinion(s) across %d criteria.",
			len(evidence), len(opinions), len(criteria)),
		OverallScore:    OverallScore(criteria),
		Criteria:        criteria,
		RemediationPlan: RemediationPlan(criteria),
	}
}

// EarlyExitReport is the minimal report of a run whose collectors produced
// nothing.
func EarlyExitReport(input core.Input) *core.AuditReport {
	return &core.AuditReport{
		SubjectIdentifier: input.Subject(),
		ExecutiveSummary:  EarlyExitSummary,
		OverallScore:      float64(core.MinScore),
		Criteria:          []core.CriterionResult{},
		RemediationPlan:   "Provide a readable repository URL or document path and run the audit again.",
	}
}

// SelectOpinions returns the opinions about a criterion, in their original
// order.
func SelectOpinions(opinions []core.Opinion, criterionID string) []core.Opinion {
	selected := make([]core.Opinion, 0)
	for _, op := range opinions {
		if op.CriterionID == criterionID {
			selected = append(selected, op)
		}
	}
	return selected
}

// FinalScore is the stance-weighted mean of the scores, rounded half away
// from zero and clamped to [1,5]. No opinions scores the minimum.
func FinalScore(opinions []core.Opinion) int {
	var sum, weights float64
	for _, op := range opinions {
		w := op.Judge.Weight()
		sum += float64(op.Score) * w
		weights += w
	}
	if weights == 0 {
		return core.MinScore
	}
	return core.ClampScore(int(math.Round(sum / weights)))
}

// Dissent describes the disagreement among opinions, or returns "" when
// there is none worth flagging.
func (s *Synthesizer) Dissent(opinions []core.Opinion) string {
	if len(opinions) < 2 {
		return ""
	}
	lo, hi := opinions[0].Score, opinions[0].Score
	for _, op := range opinions[1:] {
		lo = min(lo, op.Score)
		hi = max(hi, op.Score)
	}
	spread := hi - lo
	if spread < s.DissentThreshold {
		return ""
	}

	note := fmt.Sprintf("Score spread of %d (%d–%d) across %d opinions.", spread, lo, hi, len(opinions))
	if direction := stanceDirection(opinions); direction != "" {
		note += " " + direction
	}
	return note
}

// stanceDirection names which of the adversarial and lenient stances
// flagged concerns the other accepted. Stances with several opinions are
// compared by their mean score.
func stanceDirection(opinions []core.Opinion) string {
	prosecutor, okP := meanScore(opinions, core.StanceProsecutor)
	defense, okD := meanScore(opinions, core.StanceDefense)
	if !okP || !okD || prosecutor == defense {
		return ""
	}
	if prosecutor < defense {
		return "The Prosecutor flagged concerns that the Defense treated as acceptable."
	}
	return "The Defense flagged concerns that the Prosecutor treated as acceptable."
}

func meanScore(opinions []core.Opinion, stance core.Stance) (float64, bool) {
	var sum float64
	n := 0
	for _, op := range opinions {
		if op.Judge == stance {
			sum += float64(op.Score)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Remediation names the locations of unmet collector goals, deduplicated
// by location.
func (s *Synthesizer) Remediation(evidence []core.Evidence) string {
	seen := make(map[string]bool)
	var gaps []string
	for _, e := range evidence {
		if e.Found {
			continue
		}
		where := strings.TrimSpace(e.Location)
		if where == "" {
			where = e.Goal
		}
		if seen[where] {
			continue
		}
		seen[where] = true
		gaps = append(gaps, where)
	}
	if len(gaps) == 0 {
		return NoCriticalIssues
	}

	limit := s.MaxRemediationItems
	if limit <= 0 {
		limit = DefaultMaxRemediationItems
	}
	named := gaps
	if len(named) > limit {
		named = named[:limit]
	}
	text := "Address missing evidence at: " + strings.Join(named, "; ")
	if extra := len(gaps) - len(named); extra > 0 {
		text += fmt.Sprintf(" (and %d more)", extra)
	}
	return text + "."
}

// OverallScore is the mean final score rounded to two decimals, or the
// minimum when there are no criteria.
func OverallScore(criteria []core.CriterionResult) float64 {
	if len(criteria) == 0 {
		return float64(core.MinScore)
	}
	var sum float64
	for _, c := range criteria {
		sum += float64(c.FinalScore)
	}
	return math.Round(sum/float64(len(criteria))*100) / 100
}

// RemediationPlan lists every criterion below the maximum score in rubric
// order.
func RemediationPlan(criteria []core.CriterionResult) string {
	var lines []string
	for _, c := range criteria {
		if c.FinalScore >= core.MaxScore {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s (%d/%d): %s", c.DimensionName, c.FinalScore, core.MaxScore, c.Remediation))
	}
	if len(lines) == 0 {
		return NoRemediationRequired
	}
	return strings.Join(lines, "\n")
}

// CitationIssue is an opinion citing an evidence id that does not exist.
type CitationIssue struct {
	OpinionID  string
	Judge      core.Stance
	EvidenceID string
}

// ValidateCitations reports citations of unknown evidence. Offending
// opinions are kept.
func ValidateCitations(evidence []core.Evidence, opinions []core.Opinion) []CitationIssue {
	known := make(map[string]bool, len(evidence))
	for _, e := range evidence {
		known[e.ID] = true
	}
	var issues []CitationIssue
	for _, op := range opinions {
		for _, id := range op.CitedEvidence {
			if !known[id] {
				issues = append(issues, CitationIssue{OpinionID: op.ID, Judge: op.Judge, EvidenceID: id})
			}
		}
	}
	return issues
}
