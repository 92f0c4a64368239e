// Package pipeline runs an audit: collectors fan out and merge into the
// evidence map, the route stage decides whether judging is worthwhile,
// judges fan out over the frozen evidence, and the synthesizer builds the
// report. Each stage is a full barrier.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/logging"
	"github.com/hugo-lorenzo-mato/verdict/internal/service/report"
	"github.com/hugo-lorenzo-mato/verdict/internal/service/verdict"
)

// Options tunes stage execution.
type Options struct {
	// CollectorTimeout bounds each collector. Zero means no bound.
	CollectorTimeout time.Duration

	// JudgeTimeout bounds each completion attempt of a review. Pacing
	// waits and the retry delay are outside it. Zero leaves the bound to
	// the generator.
	JudgeTimeout time.Duration

	// JudgeConcurrency caps concurrent reviews. Zero means no cap.
	JudgeConcurrency int

	// PerDimension asks every judge about each dimension separately
	// instead of once about all of them.
	PerDimension bool

	// Sink, when set, receives the rendered report under Category.
	Sink     core.ReportSink
	Category core.ReportCategory
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		CollectorTimeout: 3 * time.Minute,
		JudgeTimeout:     3 * time.Minute,
		JudgeConcurrency: 3,
		PerDimension:     true,
		Category:         core.CategorySelf,
	}
}

// Result is the outcome of a run.
type Result struct {
	State     *core.RunState
	Report    *core.AuditReport
	Document  string
	EarlyExit bool

	// Location is where the sink wrote the report, if anywhere.
	Location string

	// CitationIssues lists opinions citing evidence that does not exist.
	CitationIssues []verdict.CitationIssue
}

// Pipeline is the audit orchestrator.
type Pipeline struct {
	rubric      *core.Rubric
	collectors  []core.Collector
	generators  []core.OpinionGenerator
	synthesizer *verdict.Synthesizer
	opts        Options
	logger      *logging.Logger
}

// New validates the wiring and creates a pipeline. A nil or invalid rubric
// is a configuration error. Generators may be omitted when only Collect is
// used.
func New(rubric *core.Rubric, collectors []core.Collector, generators []core.OpinionGenerator, opts Options, logger *logging.Logger) (*Pipeline, error) {
	if rubric == nil {
		return nil, core.ErrValidation(core.CodeInvalidRubric, "rubric required")
	}
	if err := rubric.Validate(); err != nil {
		return nil, err
	}
	if len(collectors) == 0 {
		return nil, core.ErrValidation(core.CodeNoCollectors, "at least one collector required")
	}
	seen := make(map[string]bool, len(collectors))
	for _, c := range collectors {
		if seen[c.Name()] {
			return nil, core.ErrValidation(core.CodeDuplicateCollector, "duplicate collector "+c.Name())
		}
		seen[c.Name()] = true
	}
	if opts.Category == "" {
		opts.Category = core.CategorySelf
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		rubric:      rubric.Normalized(),
		collectors:  collectors,
		generators:  generators,
		synthesizer: verdict.NewSynthesizer(),
		opts:        opts,
		logger:      logger,
	}, nil
}

// run carries one execution through the stages.
type run struct {
	state     *core.RunState
	logger    *logging.Logger
	evidence  []core.Evidence
	earlyExit bool
	done      bool
	citations []verdict.CitationIssue
}

// stage is one step of the fixed stage list.
type stage struct {
	id      core.Stage
	execute func(ctx context.Context, r *run) error
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{core.StageCollect, p.collect},
		{core.StageRoute, p.route},
		{core.StageJudge, p.judge},
		{core.StageSynthesize, p.synthesize},
	}
}

// Run audits input. Per-task failures become degraded records; the only
// errors returned are wiring and state errors.
func (p *Pipeline) Run(ctx context.Context, input core.Input) (*Result, error) {
	if len(p.generators) == 0 {
		return nil, core.ErrValidation(core.CodeNoGenerators, "at least one opinion generator required")
	}
	r := p.newRun(input)
	start := time.Now()
	r.logger.Info("audit started", "subject", input.Subject(), "dimensions", len(p.rubric.Dimensions))

	for _, s := range p.stages() {
		if r.done {
			break
		}
		if err := p.runStage(ctx, r, s); err != nil {
			return nil, err
		}
	}
	r.state.Stage = core.StageDone

	res := &Result{
		State:          r.state,
		Report:         r.state.Report,
		Document:       report.Render(r.state.Report),
		EarlyExit:      r.earlyExit,
		CitationIssues: r.citations,
	}
	if p.opts.Sink != nil {
		location, err := p.opts.Sink.Persist(ctx, res.Document, res.Report, p.opts.Category)
		if err != nil {
			r.logger.Error("persisting report", "error", err)
		}
		res.Location = location
	}

	r.logger.Info("audit finished",
		"overall_score", res.Report.OverallScore,
		"early_exit", res.EarlyExit,
		"duration", time.Since(start),
	)
	return res, nil
}

// Collect runs only the collector stage and returns the frozen state.
func (p *Pipeline) Collect(ctx context.Context, input core.Input) (*core.RunState, error) {
	r := p.newRun(input)
	if err := p.runStage(ctx, r, stage{core.StageCollect, p.collect}); err != nil {
		return nil, err
	}
	r.state.Freeze()
	r.state.Stage = core.StageDone
	return r.state, nil
}

func (p *Pipeline) newRun(input core.Input) *run {
	state := core.NewRunState(input, p.rubric)
	return &run{state: state, logger: p.logger.WithRun(state.RunID)}
}

func (p *Pipeline) runStage(ctx context.Context, r *run, s stage) error {
	r.state.Stage = s.id
	start := time.Now()
	if err := s.execute(ctx, r); err != nil {
		return fmt.Errorf("%s stage: %w", s.id, err)
	}
	r.logger.WithStage(s.id.String()).Debug("stage complete", "duration", time.Since(start))
	return nil
}
