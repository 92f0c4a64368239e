package config

import (
	"strings"
	"testing"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

// validConfig returns a valid configuration for testing.
func validConfig() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "auto"},
		Rubric: RubricConfig{Path: "rubric/rubric.json"},
		Collectors: CollectorsConfig{
			Timeout:      "3m",
			HistoryLimit: 200,
			ChunkSize:    1200,
			Keywords:     DefaultKeywords,
		},
		Judging: JudgingConfig{
			PerDimension: true,
			Concurrency:  3,
			Pacing:       "0s",
			Timeout:      "3m",
		},
		Completion: CompletionConfig{
			Provider:  "cli",
			MaxTokens: 2048,
			CLI:       CLIConfig{Path: "claude"},
		},
		Report: ReportConfig{Dir: "audit", Category: "self", Enabled: true},
	}
}

func TestValidator_ValidConfig(t *testing.T) {
	if err := NewValidator().Validate(validConfig()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"rubric path", func(c *Config) { c.Rubric.Path = " " }, "rubric.path"},
		{"collector timeout", func(c *Config) { c.Collectors.Timeout = "soon" }, "collectors.timeout"},
		{"clone depth", func(c *Config) { c.Collectors.CloneDepth = -1 }, "collectors.clone_depth"},
		{"history limit", func(c *Config) { c.Collectors.HistoryLimit = 0 }, "collectors.history_limit"},
		{"chunk size", func(c *Config) { c.Collectors.ChunkSize = 0 }, "collectors.chunk_size"},
		{"empty keyword", func(c *Config) { c.Collectors.Keywords = []string{""} }, "collectors.keywords[0]"},
		{"concurrency", func(c *Config) { c.Judging.Concurrency = -2 }, "judging.concurrency"},
		{"pacing", func(c *Config) { c.Judging.Pacing = "-1s" }, "judging.pacing"},
		{"judge timeout", func(c *Config) { c.Judging.Timeout = "0s" }, "judging.timeout"},
		{"provider", func(c *Config) { c.Completion.Provider = "openai" }, "completion.provider"},
		{"temperature", func(c *Config) { c.Completion.Temperature = 3 }, "completion.temperature"},
		{"cli path", func(c *Config) { c.Completion.CLI.Path = "" }, "completion.cli.path"},
		{"genai key", func(c *Config) {
			c.Completion.Provider = "genai"
			c.Completion.Model = "gemini-2.5-flash"
		}, "completion.genai.api_key"},
		{"genai model", func(c *Config) {
			c.Completion.Provider = "genai"
			c.Completion.GenAI.APIKey = "k"
		}, "completion.model"},
		{"report category", func(c *Config) { c.Report.Category = "mine" }, "report.category"},
		{"report dir", func(c *Config) { c.Report.Dir = "" }, "report.dir"},
		{"clone timeout format", func(c *Config) { c.Collectors.CloneTimeout = "soon" }, "collectors.clone_timeout"},
		{"clone timeout budget", func(c *Config) { c.Collectors.CloneTimeout = "3m" }, "collectors.clone_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			v := NewValidator()
			err := v.Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			found := false
			for _, e := range v.Errors() {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestValidator_CollectsMultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "bad"
	cfg.Report.Category = "bad"

	err := NewValidator().Validate(cfg)
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(errs) != 2 || !errs.HasErrors() {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if !strings.Contains(errs.Error(), "; ") {
		t.Errorf("expected joined message, got %q", errs.Error())
	}
}

func TestValidateConfig_DomainError(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "bad"
	err := ValidateConfig(cfg)
	if !core.IsCategory(err, core.ErrCatValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}
