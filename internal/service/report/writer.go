package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/renameio/v2"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/logging"
)

// timestampLayout is the UTC stamp used in report filenames.
const timestampLayout = "20060102T150405"

var categoryDirs = map[core.ReportCategory]string{
	core.CategorySelf:   "report_onself_generated",
	core.CategoryPeer:   "report_onpeer_generated",
	core.CategoryByPeer: "report_bypeer_received",
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Config configures the report writer
type Config struct {
	BaseDir string // default: "audit"
	PeerID  string // optional filename prefix component
	UseUTC  bool   // default: true
	Enabled bool   // whether to write reports
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseDir: "audit",
		UseUTC:  true,
		Enabled: true,
	}
}

// Writer persists rendered reports, together with their JSON form, under
// one directory per category.
type Writer struct {
	config Config
	now    func() time.Time
	logger *logging.Logger
}

// NewWriter creates a report writer.
func NewWriter(cfg Config, logger *logging.Logger) *Writer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Writer{config: cfg, now: time.Now, logger: logger}
}

var _ core.ReportSink = (*Writer)(nil)

// CategoryDir returns the directory a category's reports are written to.
func (w *Writer) CategoryDir(category core.ReportCategory) (string, error) {
	sub, ok := categoryDirs[category]
	if !ok {
		return "", core.ErrValidation(core.CodeInvalidInput, "unknown report category: "+string(category))
	}
	return filepath.Join(w.config.BaseDir, sub), nil
}

// Persist writes document as <prefix>_<timestamp>.md and the report as a
// .json sibling, and returns the markdown path. Nothing is written when
// the writer is disabled.
func (w *Writer) Persist(ctx context.Context, document string, report *core.AuditReport, category core.ReportCategory) (string, error) {
	if !w.config.Enabled {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := w.CategoryDir(category)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", core.ErrExecution(core.CodePersistFailed, "creating report directory").WithCause(err)
	}

	base := w.baseName()
	mdPath := filepath.Join(dir, base+".md")
	jsonPath := filepath.Join(dir, base+".json")

	if err := renameio.WriteFile(mdPath, []byte(document), 0o644); err != nil {
		return "", core.ErrExecution(core.CodePersistFailed, "writing markdown report").WithCause(err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", core.ErrExecution(core.CodePersistFailed, "encoding report").WithCause(err)
	}
	if err := renameio.WriteFile(jsonPath, append(data, '\n'), 0o644); err != nil {
		return "", core.ErrExecution(core.CodePersistFailed, "writing json report").WithCause(err)
	}

	w.logger.Info("report written", "path", mdPath, "category", string(category))
	return mdPath, nil
}

func (w *Writer) baseName() string {
	now := w.now()
	if w.config.UseUTC {
		now = now.UTC()
	}
	prefix := "audit"
	if peer := unsafeFilenameChars.ReplaceAllString(w.config.PeerID, "-"); peer != "" && peer != "-" {
		prefix = fmt.Sprintf("audit_%s", peer)
	}
	return prefix + "_" + now.Format(timestampLayout)
}

// LoadJSON reads a report written by Persist.
func LoadJSON(path string) (*core.AuditReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r core.AuditReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, core.ErrValidation(core.CodeInvalidInput, "malformed report JSON").WithCause(err)
	}
	return &r, nil
}
