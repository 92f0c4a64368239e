package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

// Client wraps the git CLI operations the repository collector needs:
// cloning into a sandbox and reading history.
type Client struct {
	binary       string
	cloneTimeout time.Duration
	timeout      time.Duration
	depth        int
}

// Option configures a Client.
type Option func(*Client)

// WithCloneTimeout bounds how long a clone may take.
func WithCloneTimeout(d time.Duration) Option {
	return func(c *Client) { c.cloneTimeout = d }
}

// WithTimeout bounds every other git command.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithDepth makes clones shallow. Zero clones full history.
func WithDepth(depth int) Option {
	return func(c *Client) { c.depth = depth }
}

// WithBinary overrides the git executable.
func WithBinary(path string) Option {
	return func(c *Client) { c.binary = path }
}

// NewClient creates a git client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		binary:       "git",
		cloneTimeout: 60 * time.Second,
		timeout:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ core.RepositorySource = (*Client)(nil)

// run executes a git command in dir.
func (c *Client) run(ctx context.Context, timeout time.Duration, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", core.ErrTimeout(fmt.Sprintf("git %s timed out after %s", args[0], timeout))
		}
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(stderr.String()), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Clone fetches url into a fresh temporary directory. The returned
// cleanup removes the directory and is safe to call more than once.
func (c *Client) Clone(ctx context.Context, url string) (string, func(), error) {
	if strings.TrimSpace(url) == "" {
		return "", func() {}, core.ErrUnavailable(core.CodeSourceMissing, "no repository url")
	}

	dir, err := os.MkdirTemp("", "verdict-repo-")
	if err != nil {
		return "", func() {}, fmt.Errorf("creating sandbox: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	args := []string{"clone", "--quiet"}
	if c.depth > 0 {
		args = append(args, "--depth", strconv.Itoa(c.depth))
	}
	args = append(args, "--", url, dir)

	if _, err := c.run(ctx, c.cloneTimeout, "", args...); err != nil {
		cleanup()
		if core.IsCategory(err, core.ErrCatTimeout) {
			return "", func() {}, err
		}
		return "", func() {}, core.ErrExecution(core.CodeCloneFailed, "git clone failed").WithCause(err)
	}
	return dir, cleanup, nil
}

// History returns up to limit commits of the checkout at path, newest first.
func (c *Client) History(ctx context.Context, path string, limit int) ([]core.Commit, error) {
	if limit <= 0 {
		limit = 200
	}
	output, err := c.run(ctx, c.timeout, path, "log", fmt.Sprintf("-n%d", limit), "--pretty=%H|%cI|%s")
	if err != nil {
		return nil, core.ErrExecution(core.CodeHistoryFailed, "git log failed").WithCause(err)
	}
	return parseLog(output), nil
}

// parseLog reads "hash|iso-timestamp|subject" lines. Subjects may
// themselves contain the separator.
func parseLog(output string) []core.Commit {
	commits := make([]core.Commit, 0)
	for _, line := range strings.Split(output, "\n") {
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			continue
		}
		ts, _ := time.Parse(time.RFC3339, parts[1])
		commits = append(commits, core.Commit{
			Hash:      parts[0],
			Timestamp: ts,
			Message:   parts[2],
		})
	}
	return commits
}
