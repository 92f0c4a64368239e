package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitRepo is a throwaway repository used as a local clone source.
type GitRepo struct {
	Path string
	t    *testing.T
}

// NewGitRepo initializes an empty repository in a temp dir. The test is
// skipped when git is not installed.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	repo := &GitRepo{Path: t.TempDir(), t: t}
	repo.run("init", "--quiet")
	repo.run("checkout", "--quiet", "-b", "main")
	return repo
}

func (r *GitRepo) run(args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test User", "GIT_COMMITTER_EMAIL=test@example.com")

	output, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v: %s: %v", args, output, err)
	}
	return strings.TrimSpace(string(output))
}

// WriteFile creates a file in the working tree, making parent dirs.
func (r *GitRepo) WriteFile(name, content string) {
	r.t.Helper()

	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		r.t.Fatalf("creating directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		r.t.Fatalf("writing file: %v", err)
	}
}

// Commit stages everything and commits, returning the new hash.
func (r *GitRepo) Commit(message string) string {
	r.t.Helper()

	r.run("add", "-A")
	r.run("commit", "--quiet", "--allow-empty", "-m", message)
	return r.run("rev-parse", "HEAD")
}

// CommitFiles writes one file per subject and commits it, giving a
// history of len(subjects) commits.
func (r *GitRepo) CommitFiles(subjects ...string) {
	r.t.Helper()
	for i, s := range subjects {
		r.WriteFile(filepath.Join("steps", string(rune('a'+i%26))+".txt"), s+"\n")
		r.Commit(s)
	}
}
