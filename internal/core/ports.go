package core

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// Collector Port
// =============================================================================

// Collector gathers evidence about the audit input. Collect never fails:
// every internal problem is reported as a negative Evidence record.
type Collector interface {
	// Name is the key the collector's records are merged under.
	Name() string

	// Collect returns at least one record for any input.
	Collect(ctx context.Context, input Input) []Evidence
}

// =============================================================================
// Opinion Generator Port
// =============================================================================

// ReviewRequest is what a generator judges: the frozen evidence snapshot
// and the dimensions it is asked about.
type ReviewRequest struct {
	Evidence   []Evidence
	Dimensions []RubricDimension
	// AttemptTimeout bounds each completion attempt. Zero leaves the
	// bound to the generator.
	AttemptTimeout time.Duration
}

// OpinionGenerator produces exactly one opinion per Review call and never
// fails; unrecoverable problems yield a fallback opinion.
type OpinionGenerator interface {
	Stance() Stance
	Review(ctx context.Context, req ReviewRequest) Opinion
}

// =============================================================================
// Completion Port
// =============================================================================

// CompletionRequest configures one call to the completion service.
type CompletionRequest struct {
	Prompt       string
	SystemPrompt string
	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}

// CompletionResult holds a completion. Parsed is set when the provider
// already returned a structured object.
type CompletionResult struct {
	Output    string
	Parsed    map[string]interface{}
	Model     string
	TokensIn  int
	TokensOut int
	Duration  time.Duration
}

// TotalTokens returns the sum of input and output tokens.
func (r *CompletionResult) TotalTokens() int {
	return r.TokensIn + r.TokensOut
}

// Completer is the language-model completion service.
type Completer interface {
	// Name returns the provider identifier (e.g., "cli", "genai").
	Name() string

	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
}

// =============================================================================
// Repository Port
// =============================================================================

// Commit is one entry of repository history.
type Commit struct {
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// RepositorySource fetches a repository into a local sandbox and reads it.
type RepositorySource interface {
	// Clone fetches url into a fresh directory. cleanup removes it.
	Clone(ctx context.Context, url string) (path string, cleanup func(), err error)

	// History returns up to limit commits, newest first.
	History(ctx context.Context, path string, limit int) ([]Commit, error)
}

// StructureCounts maps a structural pattern name to its occurrence count.
type StructureCounts map[string]int

// Total sums every count.
func (c StructureCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// StructureScanner counts structural patterns in source files under a root.
type StructureScanner interface {
	Scan(ctx context.Context, root string) (StructureCounts, error)
}

// =============================================================================
// Document Port
// =============================================================================

// DocumentSource turns a document into text chunks.
type DocumentSource interface {
	// Ingest returns the document's text chunks, or nil when the document
	// is missing or unreadable.
	Ingest(ctx context.Context, path string) []string

	// ExtractReferencedPaths lists file paths mentioned in text.
	ExtractReferencedPaths(text string) []string
}

// =============================================================================
// Report Sink Port
// =============================================================================

// ReportCategory selects where a rendered report is filed.
type ReportCategory string

const (
	// CategorySelf is a report generated on one's own work.
	CategorySelf ReportCategory = "self"
	// CategoryPeer is a report generated on a peer's work.
	CategoryPeer ReportCategory = "peer"
	// CategoryByPeer is a report received from a peer.
	CategoryByPeer ReportCategory = "by-peer"
)

// ParseReportCategory validates a category name.
func ParseReportCategory(s string) (ReportCategory, error) {
	switch c := ReportCategory(s); c {
	case CategorySelf, CategoryPeer, CategoryByPeer:
		return c, nil
	default:
		return "", fmt.Errorf("invalid report category: %s", s)
	}
}

// ReportSink persists a rendered report and returns where it was written.
type ReportSink interface {
	Persist(ctx context.Context, document string, report *AuditReport, category ReportCategory) (string, error)
}
