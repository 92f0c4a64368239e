package core

import (
	"strings"

	"github.com/google/uuid"
)

// Input names the artifact under audit. Either field may be empty.
type Input struct {
	RepoURL      string `json:"repo_url,omitempty"`
	DocumentPath string `json:"document_path,omitempty"`
}

// Subject returns the identifier the report is written about.
func (in Input) Subject() string {
	switch {
	case strings.TrimSpace(in.RepoURL) != "":
		return in.RepoURL
	case strings.TrimSpace(in.DocumentPath) != "":
		return in.DocumentPath
	default:
		return "unspecified"
	}
}

// RunState is the shared state of one audit run. Evidence and opinions
// grow only through MergeEvidence and AppendOpinions. FreezeEvidence
// closes the evidence set before judging; Freeze closes both.
type RunState struct {
	RunID    string
	Input    Input
	Rubric   *Rubric
	Stage    Stage
	Evidence *EvidenceMap
	Opinions []Opinion
	Report   *AuditReport

	evidenceFrozen bool
	opinionsFrozen bool
}

// NewRunState creates the state for a new run.
func NewRunState(input Input, rubric *Rubric) *RunState {
	return &RunState{
		RunID:    uuid.NewString(),
		Input:    input,
		Rubric:   rubric,
		Stage:    StageCollect,
		Evidence: NewEvidenceMap(),
	}
}

// MergeEvidence adds one collector's records under its name.
func (s *RunState) MergeEvidence(collector string, records []Evidence) error {
	if s.evidenceFrozen {
		return ErrState(CodeStateFrozen, "evidence is frozen")
	}
	return s.Evidence.Merge(collector, records)
}

// AppendOpinions appends opinions in the given order.
func (s *RunState) AppendOpinions(opinions ...Opinion) error {
	if s.opinionsFrozen {
		return ErrState(CodeStateFrozen, "opinions are frozen")
	}
	s.Opinions = append(s.Opinions, opinions...)
	return nil
}

// FreezeEvidence makes the evidence set read-only.
func (s *RunState) FreezeEvidence() {
	s.evidenceFrozen = true
}

// Freeze makes the evidence and opinion sets read-only.
func (s *RunState) Freeze() {
	s.evidenceFrozen = true
	s.opinionsFrozen = true
}

// EvidenceFrozen reports whether the evidence set is closed.
func (s *RunState) EvidenceFrozen() bool {
	return s.evidenceFrozen
}
