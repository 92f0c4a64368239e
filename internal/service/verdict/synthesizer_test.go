package verdict

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

func opinion(judge core.Stance, criterion string, score int) core.Opinion {
	return core.Opinion{ID: string(judge) + "-" + criterion, Judge: judge, CriterionID: criterion, Score: score}
}

func bench(criterion string, prosecutor, defense, techlead int) []core.Opinion {
	return []core.Opinion{
		opinion(core.StanceProsecutor, criterion, prosecutor),
		opinion(core.StanceDefense, criterion, defense),
		opinion(core.StanceTechLead, criterion, techlead),
	}
}

func TestFinalScore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		opinions []core.Opinion
		want     int
	}{
		{"empty is unassessed", nil, 1},
		{"weighted 2,2,5", bench("d", 2, 2, 5), 3},
		{"weighted 1,5,4", bench("d", 1, 5, 4), 3},
		{"weighted 3,3,4", bench("d", 3, 3, 4), 3},
		{"unanimous", bench("d", 5, 5, 5), 5},
		{"single opinion", []core.Opinion{opinion(core.StanceDefense, "d", 4)}, 4},
		{"half rounds up", []core.Opinion{opinion(core.StanceProsecutor, "d", 2), opinion(core.StanceDefense, "d", 3)}, 3},
		{"out of range clamps", []core.Opinion{opinion(core.StanceDefense, "d", 9)}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FinalScore(tt.opinions); got != tt.want {
				t.Errorf("FinalScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDissent(t *testing.T) {
	t.Parallel()
	s := NewSynthesizer()
	tests := []struct {
		name     string
		opinions []core.Opinion
		want     string
	}{
		{"none", nil, ""},
		{"single opinion never dissents", []core.Opinion{opinion(core.StanceDefense, "d", 5)}, ""},
		{"spread of one", bench("d", 3, 4, 4), ""},
		{
			"prosecutor low",
			bench("d", 1, 5, 4),
			"Score spread of 4 (1–5) across 3 opinions. The Prosecutor flagged concerns that the Defense treated as acceptable.",
		},
		{
			"defense low",
			bench("d", 5, 2, 4),
			"Score spread of 3 (2–5) across 3 opinions. The Defense flagged concerns that the Prosecutor treated as acceptable.",
		},
		{
			"tech lead outlier",
			bench("d", 4, 4, 1),
			"Score spread of 3 (1–4) across 3 opinions.",
		},
		{
			"no defense opinion",
			[]core.Opinion{opinion(core.StanceProsecutor, "d", 1), opinion(core.StanceTechLead, "d", 3)},
			"Score spread of 2 (1–3) across 2 opinions.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Dissent(tt.opinions); got != tt.want {
				t.Errorf("Dissent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemediation(t *testing.T) {
	t.Parallel()
	s := NewSynthesizer()

	if got := s.Remediation([]core.Evidence{core.NewEvidence("g", true, "x", "", 1)}); got != NoCriticalIssues {
		t.Errorf("Remediation() = %q, want %q", got, NoCriticalIssues)
	}

	evidence := []core.Evidence{
		core.MissingEvidence("git", "https://repo", "clone failed"),
		core.MissingEvidence("git", "https://repo", "history failed"),
		core.NewEvidence("docs", true, "report.pdf", "", 1),
		core.MissingEvidence("doc_parsing", "", "no document"),
		core.MissingEvidence("vision", "/tmp/a", "none"),
		core.MissingEvidence("other", "/tmp/b", "none"),
	}
	got := s.Remediation(evidence)
	want := "Address missing evidence at: https://repo; doc_parsing; /tmp/a (and 1 more)."
	if got != want {
		t.Errorf("Remediation() = %q, want %q", got, want)
	}
}

func TestOverallScore(t *testing.T) {
	t.Parallel()
	if got := OverallScore(nil); got != 1.0 {
		t.Errorf("OverallScore(nil) = %v, want 1.0", got)
	}
	criteria := []core.CriterionResult{{FinalScore: 3}, {FinalScore: 4}, {FinalScore: 4}}
	if got := OverallScore(criteria); got != 3.67 {
		t.Errorf("OverallScore() = %v, want 3.67", got)
	}
}

func TestSynthesize_EndToEndScenario(t *testing.T) {
	t.Parallel()
	rubric := &core.Rubric{Dimensions: []core.RubricDimension{{ID: "D1", Name: "Dimension One", TargetArtifact: core.TargetRepository}}}
	evidence := []core.Evidence{core.NewEvidence("g", true, "repo", "ok", 0.9)}
	opinions := bench("D1", 1, 5, 4)

	report := NewSynthesizer().Synthesize(rubric, core.Input{RepoURL: "https://example.com/r"}, evidence, opinions)

	if report.SubjectIdentifier != "https://example.com/r" {
		t.Errorf("subject = %q", report.SubjectIdentifier)
	}
	if len(report.Criteria) != 1 {
		t.Fatalf("len(criteria) = %d, want 1", len(report.Criteria))
	}
	c := report.Criteria[0]
	if c.FinalScore != 3 {
		t.Errorf("final score = %d, want 3", c.FinalScore)
	}
	if !c.HasDissent() {
		t.Error("expected dissent")
	}
	if c.Remediation != NoCriticalIssues {
		t.Errorf("remediation = %q", c.Remediation)
	}
	if report.OverallScore != 3.0 {
		t.Errorf("overall = %v, want 3.0", report.OverallScore)
	}
	if diff := cmp.Diff(opinions, c.JudgeOpinions); diff != "" {
		t.Errorf("judge opinions mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(report.ExecutiveSummary, "1 evidence item(s) and 3 opinion(s)") {
		t.Errorf("summary = %q", report.ExecutiveSummary)
	}
	if !strings.HasPrefix(report.RemediationPlan, "- Dimension One (3/5)") {
		t.Errorf("plan = %q", report.RemediationPlan)
	}
}

func TestSynthesize_DimensionOrderAndUnassessed(t *testing.T) {
	t.Parallel()
	rubric := &core.Rubric{Dimensions: []core.RubricDimension{
		{ID: "b", Name: "B"}, {ID: "a", Name: "A"}, {ID: "c", Name: "C"},
	}}
	opinions := append(bench("a", 5, 5, 5), bench("b", 4, 4, 4)...)
	opinions = append(opinions, opinion(core.StanceDefense, core.UnassessedCriterion, 3))

	report := NewSynthesizer().Synthesize(rubric, core.Input{}, nil, opinions)

	var ids []string
	var scores []int
	for _, c := range report.Criteria {
		ids = append(ids, c.DimensionID)
		scores = append(scores, c.FinalScore)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{4, 5, 1}, scores); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
	if report.OverallScore != 3.33 {
		t.Errorf("overall = %v, want 3.33", report.OverallScore)
	}
	if got, _ := report.Criterion("c"); len(got.JudgeOpinions) != 0 {
		t.Errorf("criterion c should have no opinions, got %d", len(got.JudgeOpinions))
	}
	if strings.Contains(report.RemediationPlan, "- A ") {
		t.Errorf("perfect criterion listed in plan: %q", report.RemediationPlan)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	t.Parallel()
	rubric := &core.Rubric{Dimensions: []core.RubricDimension{{ID: "d", Name: "D"}}}
	evidence := []core.Evidence{core.MissingEvidence("g", "loc", "missing")}
	opinions := bench("d", 2, 4, 3)

	s := NewSynthesizer()
	first := s.Synthesize(rubric, core.Input{}, evidence, opinions)
	second := s.Synthesize(rubric, core.Input{}, evidence, opinions)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("synthesis not reproducible (-first +second):\n%s", diff)
	}
}

func TestEarlyExitReport(t *testing.T) {
	t.Parallel()
	report := EarlyExitReport(core.Input{DocumentPath: "report.pdf"})
	if report.SubjectIdentifier != "report.pdf" {
		t.Errorf("subject = %q", report.SubjectIdentifier)
	}
	if len(report.Criteria) != 0 || report.OverallScore != 1.0 {
		t.Errorf("unexpected early exit report: %+v", report)
	}
	if report.ExecutiveSummary != EarlyExitSummary {
		t.Errorf("summary = %q", report.ExecutiveSummary)
	}
}

func TestValidateCitations(t *testing.T) {
	t.Parallel()
	e := core.NewEvidence("g", true, "x", "", 1)
	opinions := []core.Opinion{
		{ID: "o1", Judge: core.StanceDefense, CitedEvidence: []string{e.ID}},
		{ID: "o2", Judge: core.StanceProsecutor, CitedEvidence: []string{e.ID, "ghost"}},
	}
	got := ValidateCitations([]core.Evidence{e}, opinions)
	want := []CitationIssue{{OpinionID: "o2", Judge: core.StanceProsecutor, EvidenceID: "ghost"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestRemediationPlan(t *testing.T) {
	criteria := []core.CriterionResult{
		{DimensionName: "Perfect", FinalScore: 5, Remediation: NoCriticalIssues},
		{DimensionName: "Git Forensic Analysis", FinalScore: 2, Remediation: "Address missing evidence at: repo."},
		{DimensionName: "Docs", FinalScore: 4, Remediation: NoCriticalIssues},
	}
	want := "- Git Forensic Analysis (2/5): Address missing evidence at: repo.\n- Docs (4/5): " + NoCriticalIssues
	if diff := cmp.Diff(want, RemediationPlan(criteria)); diff != "" {
		t.Errorf("RemediationPlan() mismatch (-want +got):\n%s", diff)
	}

	if got := RemediationPlan(criteria[:1]); got != NoRemediationRequired {
		t.Errorf("RemediationPlan(all perfect) = %q, want %q", got, NoRemediationRequired)
	}
	if got := RemediationPlan(nil); got != NoRemediationRequired {
		t.Errorf("RemediationPlan(nil) = %q, want %q", got, NoRemediationRequired)
	}
}
