package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/verdict/internal/adapters/completion"
	"github.com/hugo-lorenzo-mato/verdict/internal/adapters/document"
	"github.com/hugo-lorenzo-mato/verdict/internal/adapters/git"
	"github.com/hugo-lorenzo-mato/verdict/internal/adapters/scan"
	"github.com/hugo-lorenzo-mato/verdict/internal/config"
	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/logging"
	"github.com/hugo-lorenzo-mato/verdict/internal/service/collect"
	"github.com/hugo-lorenzo-mato/verdict/internal/service/judge"
	"github.com/hugo-lorenzo-mato/verdict/internal/service/pipeline"
	"github.com/hugo-lorenzo-mato/verdict/internal/service/report"
)

const (
	defaultCollectorTimeout = 3 * time.Minute
	defaultJudgeTimeout     = 3 * time.Minute
)

// loadConfig loads and validates configuration using the global viper
// instance so that flag bindings apply.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoaderWithViper(viper.GetViper())
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	if quiet {
		return logging.New(logging.Config{Level: "error", Format: cfg.Log.Format})
	}
	return logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// loadRubric reads the rubric named by the flag, or by configuration.
func loadRubric(cfg *config.Config, flagPath string) (*core.Rubric, error) {
	path := cfg.Rubric.Path
	if flagPath != "" {
		path = flagPath
	}
	return config.LoadRubric(path)
}

// buildCollectors wires the three collectors to their adapters.
func buildCollectors(cfg *config.Config, logger *logging.Logger) []core.Collector {
	timeout := cfg.CollectorTimeout(defaultCollectorTimeout)
	repo := git.NewClient(
		git.WithCloneTimeout(cfg.CloneTimeout(timeout)),
		git.WithDepth(cfg.Collectors.CloneDepth),
	)
	docs := document.NewSource(cfg.Collectors.ChunkSize, cfg.Collectors.PathPrefixes, logger)

	return []core.Collector{
		collect.NewRepoInvestigator(repo, scan.NewScanner(), cfg.Collectors.HistoryLimit, logger),
		collect.NewDocAnalyst(docs, cfg.Collectors.Keywords, logger),
		collect.NewVisionInspector(cfg.Collectors.ImageDirs, logger),
	}
}

// buildGenerators wires the judge bench to the configured completion
// service.
func buildGenerators(ctx context.Context, cfg *config.Config, logger *logging.Logger) ([]core.OpinionGenerator, error) {
	timeout := cfg.JudgeTimeout(defaultJudgeTimeout)
	completer, err := completion.FromConfig(ctx, cfg.Completion, timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("creating completer: %w", err)
	}
	renderer, err := judge.NewPromptRenderer()
	if err != nil {
		return nil, err
	}
	return judge.Bench(completer, renderer, judge.Options{
		Model:       cfg.Completion.Model,
		Temperature: cfg.Completion.Temperature,
		MaxTokens:   cfg.Completion.MaxTokens,
		Timeout:     timeout,
		Pacer:       judge.NewIntervalPacer(cfg.PacingInterval()),
	}, logger), nil
}

// pipelineOptions maps configuration onto pipeline options.
func pipelineOptions(cfg *config.Config, logger *logging.Logger, save bool, category core.ReportCategory) pipeline.Options {
	opts := pipeline.Options{
		CollectorTimeout: cfg.CollectorTimeout(defaultCollectorTimeout),
		JudgeTimeout:     cfg.JudgeTimeout(defaultJudgeTimeout),
		JudgeConcurrency: cfg.Judging.Concurrency,
		PerDimension:     cfg.Judging.PerDimension,
		Category:         category,
	}
	if save && cfg.Report.Enabled {
		opts.Sink = report.NewWriter(report.Config{
			BaseDir: cfg.Report.Dir,
			PeerID:  cfg.Report.PeerID,
			UseUTC:  cfg.Report.UseUTC,
			Enabled: true,
		}, logger)
	}
	return opts
}

// auditInput reads --repo and --doc. Neither is required; missing inputs
// surface as negative evidence.
func auditInput(cmd *cobra.Command) core.Input {
	repo, _ := cmd.Flags().GetString("repo")
	doc, _ := cmd.Flags().GetString("doc")
	return core.Input{RepoURL: repo, DocumentPath: doc}
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("repo", "", "repository URL or local path to audit")
	cmd.Flags().String("doc", "", "path to the accompanying report (PDF, markdown or text)")
	cmd.Flags().String("rubric", "", "rubric file (overrides rubric.path)")
}
