package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/testutil"
)

func TestParseLog(t *testing.T) {
	t.Parallel()
	input := "abc123|2024-03-01T10:00:00+01:00|Add graph wiring\n" +
		"def456|2024-02-28T09:30:00Z|fix: handle a|b separator\n" +
		"\n" +
		"garbage line\n"

	commits := parseLog(input)
	if len(commits) != 2 {
		t.Fatalf("len(commits) = %d, want 2", len(commits))
	}
	if commits[0].Hash != "abc123" || commits[0].Message != "Add graph wiring" {
		t.Errorf("unexpected first commit %+v", commits[0])
	}
	if commits[0].Timestamp.IsZero() {
		t.Errorf("expected timestamp to be parsed")
	}
	if commits[1].Message != "fix: handle a|b separator" {
		t.Errorf("separator in subject lost: %q", commits[1].Message)
	}
}

func TestParseLog_Empty(t *testing.T) {
	t.Parallel()
	if got := parseLog(""); len(got) != 0 {
		t.Fatalf("expected no commits, got %d", len(got))
	}
}

func TestClone_EmptyURL(t *testing.T) {
	t.Parallel()
	_, cleanup, err := NewClient().Clone(context.Background(), "  ")
	defer cleanup()
	if !core.IsCategory(err, core.ErrCatUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestClient_CloneAndHistory(t *testing.T) {
	t.Parallel()
	repo := testutil.NewGitRepo(t)
	repo.CommitFiles("initial", "add collectors", "wire judges")
	origin := repo.Path

	client := NewClient(WithCloneTimeout(30*time.Second), WithTimeout(10*time.Second))
	path, cleanup, err := client.Clone(context.Background(), origin)
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}

	commits, err := client.History(context.Background(), path, 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(commits) != 3 {
		t.Fatalf("len(commits) = %d, want 3", len(commits))
	}
	if commits[0].Message != "wire judges" {
		t.Errorf("newest commit = %q, want %q", commits[0].Message, "wire judges")
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected sandbox to be removed, stat err = %v", err)
	}
}

func TestClient_CloneFailure(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	_, cleanup, err := NewClient().Clone(context.Background(), filepath.Join(t.TempDir(), "missing"))
	defer cleanup()
	if err == nil {
		t.Fatal("expected clone of missing path to fail")
	}
	if !core.IsCategory(err, core.ErrCatExecution) {
		t.Errorf("expected execution error, got %v", err)
	}
}
