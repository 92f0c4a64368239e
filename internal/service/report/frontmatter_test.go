package report

import (
	"testing"
)

func TestFrontmatter_Render(t *testing.T) {
	t.Parallel()
	fm := NewFrontmatter()
	fm.Set("subject", "https://example.com/a")
	fm.Set("overall_score", 3.0)
	fm.Set("criteria_count", 4)
	fm.Set("subject", "report.pdf")

	want := "---\nsubject: report.pdf\noverall_score: 3.00\ncriteria_count: 4\n---\n\n"
	if got := fm.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
	if v, ok := fm.Get("criteria_count"); !ok || v != 4 {
		t.Errorf("Get(criteria_count) = %v, %v", v, ok)
	}
}

func TestFrontmatter_Empty(t *testing.T) {
	t.Parallel()
	if got := NewFrontmatter().Render(); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"plain", false},
		{"https://x", true},
		{"yes", true},
		{"42", true},
		{" padded", true},
		{"src/graph.py", false},
	}
	for _, tt := range tests {
		if got := needsQuoting(tt.in); got != tt.want {
			t.Errorf("needsQuoting(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplitFrontmatter(t *testing.T) {
	t.Parallel()
	fm := NewFrontmatter()
	fm.Set("subject", "a: b")
	fm.Set("overall_score", 4.25)

	fields, body, err := SplitFrontmatter(fm.Render() + "# Title\n")
	if err != nil {
		t.Fatalf("SplitFrontmatter() error = %v", err)
	}
	if fields["subject"] != "a: b" {
		t.Errorf("subject = %v", fields["subject"])
	}
	if fields["overall_score"] != 4.25 {
		t.Errorf("overall_score = %v", fields["overall_score"])
	}
	if body != "# Title\n" {
		t.Errorf("body = %q", body)
	}
}
