package collect

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/logging"
)

// keywordHit is one theory term found in a chunk.
type keywordHit struct {
	Keyword string `json:"keyword"`
	Excerpt string `json:"excerpt"`
}

// DocAnalyst reads the accompanying document, searches it for theory
// terms and lists the file paths it references.
type DocAnalyst struct {
	docs     core.DocumentSource
	keywords []string
	logger   *logging.Logger
}

// NewDocAnalyst creates the document collector.
func NewDocAnalyst(docs core.DocumentSource, keywords []string, logger *logging.Logger) *DocAnalyst {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DocAnalyst{
		docs:     docs,
		keywords: keywords,
		logger:   logger.WithCollector(core.CollectorDocAnalyst),
	}
}

var _ core.Collector = (*DocAnalyst)(nil)

// Name implements core.Collector.
func (d *DocAnalyst) Name() string {
	return core.CollectorDocAnalyst
}

// Collect implements core.Collector.
func (d *DocAnalyst) Collect(ctx context.Context, input core.Input) []core.Evidence {
	path := strings.TrimSpace(input.DocumentPath)
	if path == "" {
		return []core.Evidence{core.MissingEvidence(core.GoalDocParsing, "", "No document path provided")}
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return []core.Evidence{core.MissingEvidence(core.GoalDocParsing, path, "Document not found")}
	}

	chunks := d.docs.Ingest(ctx, path)
	if len(chunks) == 0 {
		return []core.Evidence{core.MissingEvidence(core.GoalDocParsing, path, "No text could be extracted from the document")}
	}

	hits := d.findKeywords(chunks)
	confidence := 0.2
	if len(hits) > 0 {
		confidence = 0.8
	}
	shownHits := hits
	if len(shownHits) > 3 {
		shownHits = shownHits[:3]
	}

	paths := d.docs.ExtractReferencedPaths(strings.Join(chunks, ""))
	shownPaths := paths
	if len(shownPaths) > 20 {
		shownPaths = shownPaths[:20]
	}

	d.logger.Debug("document evidence collected", "path", path, "chunks", len(chunks), "hits", len(hits), "paths", len(paths))

	return []core.Evidence{
		core.NewEvidence(core.GoalTheoreticalDepth, len(hits) > 0, path,
			fmt.Sprintf("Searched %d chunk(s) for architecture terms; %d hit(s)", len(chunks), len(hits)),
			confidence).WithContent(contentJSON(shownHits)),
		core.NewEvidence(core.GoalReportFilePaths, len(paths) > 0, path,
			fmt.Sprintf("Extracted %d file path(s) mentioned in the document", len(paths)),
			0.8).WithContent(contentJSON(shownPaths)),
	}
}

func (d *DocAnalyst) findKeywords(chunks []string) []keywordHit {
	hits := make([]keywordHit, 0)
	for _, chunk := range chunks {
		lower := strings.ToLower(chunk)
		for _, kw := range d.keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(kw)) {
				hits = append(hits, keywordHit{Keyword: kw, Excerpt: truncate(chunk, 400)})
			}
		}
	}
	return hits
}
