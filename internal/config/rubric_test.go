package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

func writeRubric(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRubric_JSON(t *testing.T) {
	path := writeRubric(t, "rubric.json", DefaultRubricJSON)
	rubric, err := LoadRubric(path)
	if err != nil {
		t.Fatalf("LoadRubric() error = %v", err)
	}
	if len(rubric.Dimensions) != 4 {
		t.Fatalf("expected 4 dimensions, got %d", len(rubric.Dimensions))
	}
	first := rubric.Dimensions[0]
	if first.ID != "git_forensic_analysis" || first.TargetArtifact != core.TargetRepository {
		t.Errorf("unexpected first dimension %+v", first)
	}
	if first.Instruction == "" {
		t.Errorf("expected instruction to be decoded")
	}
}

func TestLoadRubric_YAML(t *testing.T) {
	path := writeRubric(t, "rubric.yaml", `
dimensions:
  - id: modularity
    name: Modularity
    target_artifact: github_repo
  - id: docs
    name: Documentation
    target_artifact: pdf_report
`)
	rubric, err := LoadRubric(path)
	if err != nil {
		t.Fatalf("LoadRubric() error = %v", err)
	}
	if got := rubric.IDs(); len(got) != 2 || got[0] != "modularity" || got[1] != "docs" {
		t.Errorf("unexpected ids %v", got)
	}
}

func TestLoadRubric_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"malformed json", "r.json", `{"dimensions": [`},
		{"malformed yaml", "r.yaml", "dimensions: [unclosed"},
		{"empty dimensions", "r.json", `{"dimensions": []}`},
		{"missing id", "r.json", `{"dimensions": [{"name": "A"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRubric(writeRubric(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !core.IsCategory(err, core.ErrCatValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLoadRubric_Missing(t *testing.T) {
	_, err := LoadRubric(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing rubric")
	}
	if !core.IsCategory(err, core.ErrCatValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoadRubric_NormalizesNames(t *testing.T) {
	path := writeRubric(t, "rubric.yaml", `
dimensions:
  - id: report_accuracy
    name: |
      Report   Accuracy
      (Cross-Reference)
    target_artifact: pdf_report
`)
	rubric, err := LoadRubric(path)
	if err != nil {
		t.Fatalf("LoadRubric() error = %v", err)
	}
	if got := rubric.Dimensions[0].Name; got != "Report Accuracy (Cross-Reference)" {
		t.Errorf("Name = %q", got)
	}
}
