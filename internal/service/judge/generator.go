// Package judge turns frozen evidence into scored opinions, one stance per
// generator.
package judge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/logging"
)

// defaultConfidence is used when a judge does not report one.
const defaultConfidence = 0.5

// fallbackScore is the neutral score given when no valid opinion could be
// obtained.
const fallbackScore = 3

// Options configures the completion calls of a generator. Timeout bounds
// one attempt; pacing waits and retry delays are not counted against it.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Policy      *RetryPolicy
	Pacer       Pacer
}

// Generator is the completion-backed OpinionGenerator for one stance.
type Generator struct {
	stance    core.Stance
	completer core.Completer
	renderer  *PromptRenderer
	opts      Options
	logger    *logging.Logger
}

// New creates a generator for stance.
func New(stance core.Stance, completer core.Completer, renderer *PromptRenderer, opts Options, logger *logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Policy == nil {
		opts.Policy = DefaultRetryPolicy()
	}
	if opts.Pacer == nil {
		opts.Pacer = NoPacing
	}
	return &Generator{
		stance:    stance,
		completer: completer,
		renderer:  renderer,
		opts:      opts,
		logger:    logger.WithJudge(string(stance)),
	}
}

// NewProsecutor creates the skeptical judge.
func NewProsecutor(completer core.Completer, renderer *PromptRenderer, opts Options, logger *logging.Logger) *Generator {
	return New(core.StanceProsecutor, completer, renderer, opts, logger)
}

// NewDefense creates the charitable judge.
func NewDefense(completer core.Completer, renderer *PromptRenderer, opts Options, logger *logging.Logger) *Generator {
	return New(core.StanceDefense, completer, renderer, opts, logger)
}

// NewTechLead creates the architecture-focused judge.
func NewTechLead(completer core.Completer, renderer *PromptRenderer, opts Options, logger *logging.Logger) *Generator {
	return New(core.StanceTechLead, completer, renderer, opts, logger)
}

// Bench creates one generator per stance, in stance order.
func Bench(completer core.Completer, renderer *PromptRenderer, opts Options, logger *logging.Logger) []core.OpinionGenerator {
	stances := core.AllStances()
	out := make([]core.OpinionGenerator, 0, len(stances))
	for _, s := range stances {
		out = append(out, New(s, completer, renderer, opts, logger))
	}
	return out
}

var _ core.OpinionGenerator = (*Generator)(nil)

// Stance implements core.OpinionGenerator.
func (g *Generator) Stance() core.Stance {
	return g.stance
}

// Review implements core.OpinionGenerator. It never fails: when every
// attempt is used up the fallback opinion is returned.
func (g *Generator) Review(ctx context.Context, req core.ReviewRequest) core.Opinion {
	prompt, err := g.renderer.RenderOpinion(g.stance, req)
	if err != nil {
		g.logger.Error("rendering prompt", "error", err)
		return FallbackOpinion(g.stance, req)
	}

	timeout := g.opts.Timeout
	if req.AttemptTimeout > 0 {
		timeout = req.AttemptTimeout
	}

	var opinion core.Opinion
	attempt := func(ctx context.Context) error {
		if err := g.opts.Pacer.Wait(ctx); err != nil {
			return err
		}
		callCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		result, err := g.completer.Complete(callCtx, core.CompletionRequest{
			Prompt:       prompt,
			SystemPrompt: systemPrompt,
			Model:        g.opts.Model,
			Temperature:  g.opts.Temperature,
			MaxTokens:    g.opts.MaxTokens,
			Timeout:      timeout,
		})
		if err != nil {
			return fmt.Errorf("completion: %w", err)
		}
		op, err := g.toOpinion(result, req)
		if err != nil {
			return err
		}
		g.logger.Debug("opinion received",
			"criterion", op.CriterionID,
			"score", op.Score,
			"tokens", result.TotalTokens(),
			"duration", result.Duration,
		)
		opinion = op
		return nil
	}
	notify := func(n int, err error, delay time.Duration) {
		g.logger.Warn("judge attempt failed, retrying", "attempt", n, "error", err, "delay", delay)
	}

	if err := g.opts.Policy.Execute(ctx, attempt, notify); err != nil {
		g.logger.Warn("using fallback opinion", "error", err)
		return FallbackOpinion(g.stance, req)
	}
	return opinion
}

func (g *Generator) toOpinion(result *core.CompletionResult, req core.ReviewRequest) (core.Opinion, error) {
	payload, err := parsePayload(result)
	if err != nil {
		return core.Opinion{}, err
	}
	score, criterion, err := payload.validate(req)
	if err != nil {
		return core.Opinion{}, err
	}

	confidence := defaultConfidence
	if payload.Confidence != nil {
		confidence = core.ClampConfidence(*payload.Confidence)
	}
	cited := payload.CitedEvidence
	if cited == nil {
		cited = []string{}
	}

	return core.Opinion{
		ID:            uuid.NewString(),
		Judge:         g.stance,
		CriterionID:   criterion,
		Score:         score,
		Argument:      payload.Argument,
		CitedEvidence: cited,
		Confidence:    confidence,
	}, nil
}

// FallbackOpinion is the neutral opinion recorded when a judge could not
// produce a valid one.
func FallbackOpinion(stance core.Stance, req core.ReviewRequest) core.Opinion {
	criterion := core.UnassessedCriterion
	if len(req.Dimensions) > 0 {
		criterion = req.Dimensions[0].ID
	}
	return core.Opinion{
		ID:            uuid.NewString(),
		Judge:         stance,
		CriterionID:   criterion,
		Score:         fallbackScore,
		Argument:      "Technical limitation: no valid opinion could be produced, so a neutral score was recorded.",
		CitedEvidence: []string{},
		Confidence:    0,
	}
}
