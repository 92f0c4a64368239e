package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

func fixedWriter(t *testing.T, cfg Config) *Writer {
	t.Helper()
	w := NewWriter(cfg, nil)
	w.now = func() time.Time {
		return time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("CET", 3600))
	}
	return w
}

func TestWriter_Persist(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := fixedWriter(t, Config{BaseDir: dir, UseUTC: true, Enabled: true})
	report := sampleReport()
	doc := Render(report)

	path, err := w.Persist(context.Background(), doc, report, core.CategorySelf)
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	want := filepath.Join(dir, "report_onself_generated", "audit_20260304T040607.md")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading markdown: %v", err)
	}
	if string(data) != doc {
		t.Error("markdown content differs from rendered document")
	}

	loaded, err := LoadJSON(filepath.Join(dir, "report_onself_generated", "audit_20260304T040607.json"))
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	if diff := cmp.Diff(report, loaded); diff != "" {
		t.Errorf("json report mismatch (-want +got):\n%s", diff)
	}
}

func TestWriter_CategoriesAndPeer(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := fixedWriter(t, Config{BaseDir: dir, PeerID: "team 7/b", UseUTC: true, Enabled: true})

	tests := []struct {
		category core.ReportCategory
		sub      string
	}{
		{core.CategoryPeer, "report_onpeer_generated"},
		{core.CategoryByPeer, "report_bypeer_received"},
	}
	for _, tt := range tests {
		path, err := w.Persist(context.Background(), "doc", sampleReport(), tt.category)
		if err != nil {
			t.Fatalf("Persist(%s) error = %v", tt.category, err)
		}
		want := filepath.Join(dir, tt.sub, "audit_team-7-b_20260304T040607.md")
		if path != want {
			t.Errorf("path = %q, want %q", path, want)
		}
	}
}

func TestWriter_Disabled(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := NewWriter(Config{BaseDir: dir, Enabled: false}, nil)

	path, err := w.Persist(context.Background(), "doc", sampleReport(), core.CategorySelf)
	if err != nil || path != "" {
		t.Fatalf("Persist() = %q, %v; want nothing written", path, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("disabled writer created %d entries", len(entries))
	}
}

func TestWriter_UnknownCategory(t *testing.T) {
	t.Parallel()
	w := NewWriter(Config{BaseDir: t.TempDir(), Enabled: true}, nil)
	_, err := w.Persist(context.Background(), "doc", sampleReport(), core.ReportCategory("elsewhere"))
	if !core.IsCategory(err, core.ErrCatValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}
