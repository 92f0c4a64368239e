package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/logging"
)

// iterativeCommitThreshold is the commit count above which history is
// read as iterative development rather than a bulk upload.
const iterativeCommitThreshold = 3

// RepoInvestigator clones the repository, reads its history and counts
// orchestration patterns in its sources.
type RepoInvestigator struct {
	repo         core.RepositorySource
	scanner      core.StructureScanner
	historyLimit int
	logger       *logging.Logger
}

// NewRepoInvestigator creates the repository collector.
func NewRepoInvestigator(repo core.RepositorySource, scanner core.StructureScanner, historyLimit int, logger *logging.Logger) *RepoInvestigator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if historyLimit <= 0 {
		historyLimit = 200
	}
	return &RepoInvestigator{
		repo:         repo,
		scanner:      scanner,
		historyLimit: historyLimit,
		logger:       logger.WithCollector(core.CollectorRepoInvestigator),
	}
}

var _ core.Collector = (*RepoInvestigator)(nil)

// Name implements core.Collector.
func (r *RepoInvestigator) Name() string {
	return core.CollectorRepoInvestigator
}

// Collect implements core.Collector.
func (r *RepoInvestigator) Collect(ctx context.Context, input core.Input) []core.Evidence {
	repoURL := strings.TrimSpace(input.RepoURL)
	if repoURL == "" {
		return []core.Evidence{core.MissingEvidence(core.GoalGitForensics, "", "No repository URL provided")}
	}
	location := redactURL(repoURL)

	path, cleanup, err := r.repo.Clone(ctx, repoURL)
	if err != nil {
		r.logger.Warn("clone failed", "url", location, "error", err)
		return []core.Evidence{core.MissingEvidence(core.GoalGitForensics, location, fmt.Sprintf("Clone failed: %v", err))}
	}
	defer cleanup()

	var records []core.Evidence

	commits, err := r.repo.History(ctx, path, r.historyLimit)
	if err != nil {
		r.logger.Warn("history unavailable", "url", location, "error", err)
		records = append(records, core.MissingEvidence(core.GoalGitForensics, location,
			fmt.Sprintf("Failed to extract git history: %v", err)))
	} else {
		shown := commits
		if len(shown) > 10 {
			shown = shown[:10]
		}
		records = append(records,
			core.NewEvidence(core.GoalGitForensics, len(commits) > 0, location,
				fmt.Sprintf("Extracted git log (%d commits); more than %d commits indicate activity", len(commits), iterativeCommitThreshold),
				0.9).WithContent(contentJSON(shown)),
			core.NewEvidence(core.GoalCommitProgression, len(commits) > iterativeCommitThreshold, location,
				progressionRationale(len(commits)), 0.7),
		)
	}

	counts, err := r.scanner.Scan(ctx, path)
	if err != nil {
		r.logger.Warn("structure scan failed", "url", location, "error", err)
		records = append(records, core.MissingEvidence(core.GoalGraphOrchestration, location,
			fmt.Sprintf("Structure scan failed: %v", err)))
	} else {
		records = append(records,
			core.NewEvidence(core.GoalGraphOrchestration, counts.Total() > 0, location,
				"Syntax-tree scan for StateGraph construction and add_edge wiring", 0.8).
				WithContent(contentJSON(counts)))
	}

	r.logger.Debug("repository evidence collected", "url", location, "records", len(records))
	return records
}

func progressionRationale(n int) string {
	if n > iterativeCommitThreshold {
		return fmt.Sprintf("%d commits show iterative development", n)
	}
	return fmt.Sprintf("Only %d commit(s); history looks like a bulk upload", n)
}
