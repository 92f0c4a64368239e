package core

import (
	"fmt"
	"strings"
	"unicode"
)

// Target artifacts a rubric dimension can point at.
const (
	TargetRepository = "github_repo"
	TargetDocument   = "pdf_report"
)

// RubricDimension is one criterion the audit scores.
type RubricDimension struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	TargetArtifact string `json:"target_artifact" yaml:"target_artifact"`
	Instruction    string `json:"instruction,omitempty" yaml:"instruction,omitempty"`
}

// Rubric is the ordered list of dimensions loaded from configuration.
type Rubric struct {
	Dimensions []RubricDimension `json:"dimensions" yaml:"dimensions"`
}

// Validate checks that the rubric can drive an audit.
func (r *Rubric) Validate() error {
	if r == nil || len(r.Dimensions) == 0 {
		return ErrValidation(CodeInvalidRubric, "rubric has no dimensions")
	}
	seen := make(map[string]bool, len(r.Dimensions))
	for i, d := range r.Dimensions {
		if strings.TrimSpace(d.ID) == "" {
			return ErrValidation(CodeInvalidRubric, fmt.Sprintf("dimension %d has no id", i))
		}
		if strings.ContainsRune(d.ID, '`') || strings.ContainsFunc(d.ID, unicode.IsSpace) {
			return ErrValidation(CodeInvalidRubric, fmt.Sprintf("dimension id %q may not contain backticks or whitespace", d.ID))
		}
		if strings.TrimSpace(d.Name) == "" {
			return ErrValidation(CodeInvalidRubric, fmt.Sprintf("dimension %q has no name", d.ID))
		}
		if seen[d.ID] {
			return ErrValidation(CodeInvalidRubric, fmt.Sprintf("duplicate dimension id %q", d.ID))
		}
		seen[d.ID] = true
	}
	return nil
}

// Normalized returns a copy whose dimension names are folded onto one
// line with single spaces, the form reports render them in.
func (r *Rubric) Normalized() *Rubric {
	out := &Rubric{Dimensions: make([]RubricDimension, len(r.Dimensions))}
	for i, d := range r.Dimensions {
		d.Name = strings.Join(strings.Fields(d.Name), " ")
		out.Dimensions[i] = d
	}
	return out
}

// IDs returns dimension ids in configuration order.
func (r *Rubric) IDs() []string {
	ids := make([]string, len(r.Dimensions))
	for i, d := range r.Dimensions {
		ids[i] = d.ID
	}
	return ids
}

// Dimension looks up a dimension by id.
func (r *Rubric) Dimension(id string) (RubricDimension, bool) {
	for _, d := range r.Dimensions {
		if d.ID == id {
			return d, true
		}
	}
	return RubricDimension{}, false
}
