package document

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestChunk(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		size    int
		want    []string
	}{
		{"empty", "", 4, []string{}},
		{"exact", "abcd", 4, []string{"abcd"}},
		{"remainder", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"multibyte", "ñandú€", 2, []string{"ña", "nd", "ú€"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.content, tt.size)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Chunk mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChunk_DefaultSize(t *testing.T) {
	t.Parallel()
	content := strings.Repeat("x", 2500)
	chunks := Chunk(content, 0)
	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d, want 3", len(chunks))
	}
	if utf8.RuneCountInString(chunks[0]) != DefaultChunkSize {
		t.Fatalf("first chunk has %d characters", utf8.RuneCountInString(chunks[0]))
	}
}

func TestExtractReferencedPaths(t *testing.T) {
	t.Parallel()
	s := NewSource(0, nil, nil)
	text := "The graph lives in src/graph.py, and judges in (src/nodes/judges.py). " +
		"See src/graph.py again; also lib/other.py and the bare src/ prefix."
	got := s.ExtractReferencedPaths(text)
	want := []string{"src/graph.py", "src/nodes/judges.py"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractReferencedPaths_CustomPrefixes(t *testing.T) {
	t.Parallel()
	s := NewSource(0, []string{"internal/", "cmd/"}, nil)
	got := s.ExtractReferencedPaths("`internal/core/state.go` and cmd/verdict/main.go")
	want := []string{"internal/core/state.go", "cmd/verdict/main.go"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestIngest_PlainText(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("a", 30)), 0o600); err != nil {
		t.Fatal(err)
	}
	chunks := NewSource(10, nil, nil).Ingest(context.Background(), path)
	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d, want 3", len(chunks))
	}
}

func TestIngest_Markdown(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "report.md")
	md := "# Architecture\n\nWe use **Fan-Out** for detectives\nand Fan-In for judges.\n\n```\nsrc/graph.py\n```\n"
	if err := os.WriteFile(path, []byte(md), 0o600); err != nil {
		t.Fatal(err)
	}
	chunks := NewSource(0, nil, nil).Ingest(context.Background(), path)
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	text := chunks[0]
	for _, want := range []string{"Architecture", "Fan-Out", "Fan-In for judges", "src/graph.py"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in extracted text %q", want, text)
		}
	}
	if strings.Contains(text, "**") || strings.Contains(text, "# ") {
		t.Errorf("markdown syntax leaked into text: %q", text)
	}
}

func TestIngest_MissingAndEmpty(t *testing.T) {
	t.Parallel()
	s := NewSource(0, nil, nil)
	if got := s.Ingest(context.Background(), filepath.Join(t.TempDir(), "absent.pdf")); got != nil {
		t.Errorf("expected nil for missing document, got %v", got)
	}

	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, []byte("  \n\t"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := s.Ingest(context.Background(), empty); got != nil {
		t.Errorf("expected nil for blank document, got %v", got)
	}
}

func TestIngest_CorruptPDF(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := NewSource(0, nil, nil).Ingest(context.Background(), path); got != nil {
		t.Errorf("expected nil for corrupt pdf, got %v", got)
	}
}
