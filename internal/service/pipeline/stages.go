package pipeline

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/service/judge"
	"github.com/hugo-lorenzo-mato/verdict/internal/service/verdict"
)

// collect fans out over the collectors and merges their buckets in
// registration order.
func (p *Pipeline) collect(ctx context.Context, r *run) error {
	input := r.state.Input
	tasks := make([]task[[]core.Evidence], len(p.collectors))
	for i, c := range p.collectors {
		tasks[i] = func(ctx context.Context) []core.Evidence {
			return p.runCollector(ctx, r, c, input)
		}
	}

	results := fanOut(ctx, 0, tasks)
	for i, c := range p.collectors {
		if err := r.state.MergeEvidence(c.Name(), results[i]); err != nil {
			return err
		}
	}
	r.logger.Info("evidence collected", "collectors", len(p.collectors), "records", r.state.Evidence.Len())
	return nil
}

func (p *Pipeline) runCollector(ctx context.Context, r *run, c core.Collector, input core.Input) (records []core.Evidence) {
	logger := r.logger.WithCollector(c.Name())
	if p.opts.CollectorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.CollectorTimeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("collector panicked", "panic", rec)
			records = []core.Evidence{core.MissingEvidence(c.Name(), "",
				fmt.Sprintf("Collector failed unexpectedly: %v", rec))}
		}
	}()

	records = c.Collect(ctx, input)
	if len(records) == 0 && ctx.Err() != nil {
		logger.Warn("collector timed out", "error", ctx.Err())
		records = []core.Evidence{core.MissingEvidence(c.Name(), "",
			fmt.Sprintf("Collector did not finish: %v", ctx.Err()))}
	}
	logger.Debug("collector finished", "records", len(records))
	return records
}

// route flattens and freezes the evidence. With nothing to judge the run
// ends here with the minimal report.
func (p *Pipeline) route(_ context.Context, r *run) error {
	r.state.FreezeEvidence()
	r.evidence = r.state.Evidence.Flatten()
	if len(r.evidence) > 0 {
		return nil
	}

	r.logger.Warn("no evidence collected, skipping judges and synthesis")
	r.state.Freeze()
	r.state.Report = verdict.EarlyExitReport(r.state.Input)
	r.earlyExit = true
	r.done = true
	return nil
}

// review is one judge invocation.
type review struct {
	generator core.OpinionGenerator
	request   core.ReviewRequest
}

// reviews lists the judge invocations in generator order.
func (p *Pipeline) reviews(evidence []core.Evidence) []review {
	dims := p.rubric.Dimensions
	var out []review
	for _, g := range p.generators {
		if !p.opts.PerDimension {
			out = append(out, review{g, core.ReviewRequest{Evidence: evidence, Dimensions: dims}})
			continue
		}
		for _, d := range dims {
			out = append(out, review{g, core.ReviewRequest{Evidence: evidence, Dimensions: []core.RubricDimension{d}}})
		}
	}
	return out
}

// judge fans out over the reviews and appends the opinions in review
// order.
func (p *Pipeline) judge(ctx context.Context, r *run) error {
	if !r.state.EvidenceFrozen() {
		return core.ErrState(core.CodeStateFrozen, "judging requires frozen evidence")
	}
	reviews := p.reviews(r.evidence)
	tasks := make([]task[core.Opinion], len(reviews))
	for i, rv := range reviews {
		tasks[i] = func(ctx context.Context) core.Opinion {
			return p.runReview(ctx, r, rv)
		}
	}

	opinions := fanOut(ctx, p.opts.JudgeConcurrency, tasks)
	if err := r.state.AppendOpinions(opinions...); err != nil {
		return err
	}
	r.logger.Info("opinions collected", "count", len(opinions))
	return nil
}

func (p *Pipeline) runReview(ctx context.Context, r *run, rv review) (op core.Opinion) {
	stance := rv.generator.Stance()
	logger := r.logger.WithJudge(string(stance))

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("judge panicked", "panic", rec)
			op = judge.FallbackOpinion(stance, rv.request)
		}
	}()

	// Every judge gets its own copy of the snapshot.
	req := rv.request
	req.Evidence = append([]core.Evidence(nil), rv.request.Evidence...)
	req.AttemptTimeout = p.opts.JudgeTimeout

	op = rv.generator.Review(ctx, req)
	if op.Judge != stance {
		logger.Warn("opinion judge does not match generator stance", "judge", op.Judge)
		op.Judge = stance
	}
	return op
}

// synthesize closes the run state and builds the report.
func (p *Pipeline) synthesize(_ context.Context, r *run) error {
	r.state.Freeze()
	r.citations = verdict.ValidateCitations(r.evidence, r.state.Opinions)
	for _, issue := range r.citations {
		r.logger.Warn("opinion cites unknown evidence",
			"judge", issue.Judge,
			"opinion", issue.OpinionID,
			"evidence", issue.EvidenceID,
		)
	}
	r.state.Report = p.synthesizer.Synthesize(p.rubric, r.state.Input, r.evidence, r.state.Opinions)
	return nil
}
