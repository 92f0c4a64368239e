package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateRubric(&cfg.Rubric)
	v.validateCollectors(&cfg.Collectors)
	v.validateJudging(&cfg.Judging)
	v.validateCompletion(&cfg.Completion)
	v.validateReport(&cfg.Report)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}
}

func (v *Validator) validateRubric(cfg *RubricConfig) {
	if strings.TrimSpace(cfg.Path) == "" {
		v.addError("rubric.path", cfg.Path, "rubric file required")
	}
}

func (v *Validator) validateCollectors(cfg *CollectorsConfig) {
	v.validateDuration("collectors.timeout", cfg.Timeout, false)
	v.validateDuration("collectors.clone_timeout", cfg.CloneTimeout, true)
	if clone, err := time.ParseDuration(cfg.CloneTimeout); err == nil && clone > 0 {
		if total, err := time.ParseDuration(cfg.Timeout); err == nil && clone >= total {
			v.addError("collectors.clone_timeout", cfg.CloneTimeout, "must be shorter than collectors.timeout")
		}
	}
	if cfg.CloneDepth < 0 {
		v.addError("collectors.clone_depth", cfg.CloneDepth, "must be zero (full history) or positive")
	}
	if cfg.HistoryLimit <= 0 {
		v.addError("collectors.history_limit", cfg.HistoryLimit, "must be positive")
	}
	if cfg.ChunkSize <= 0 {
		v.addError("collectors.chunk_size", cfg.ChunkSize, "must be positive")
	}
	for i, kw := range cfg.Keywords {
		if strings.TrimSpace(kw) == "" {
			v.addError(fmt.Sprintf("collectors.keywords[%d]", i), kw, "keyword cannot be empty")
		}
	}
}

func (v *Validator) validateJudging(cfg *JudgingConfig) {
	if cfg.Concurrency < 0 {
		v.addError("judging.concurrency", cfg.Concurrency, "must be zero (unbounded) or positive")
	}
	v.validateDuration("judging.timeout", cfg.Timeout, false)
	v.validateDuration("judging.pacing", cfg.Pacing, true)
}

func (v *Validator) validateCompletion(cfg *CompletionConfig) {
	if !core.IsValidProvider(cfg.Provider) {
		v.addError("completion.provider", cfg.Provider,
			fmt.Sprintf("must be one of: %s", strings.Join(core.Providers, ", ")))
		return
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		v.addError("completion.temperature", cfg.Temperature, "must be between 0 and 2")
	}
	if cfg.MaxTokens < 0 {
		v.addError("completion.max_tokens", cfg.MaxTokens, "cannot be negative")
	}

	switch cfg.Provider {
	case core.ProviderCLI:
		if strings.TrimSpace(cfg.CLI.Path) == "" {
			v.addError("completion.cli.path", cfg.CLI.Path, "command required for cli provider")
		}
	case core.ProviderGenAI:
		if cfg.GenAI.APIKey == "" {
			v.addError("completion.genai.api_key", "", "api key required for genai provider (or set GEMINI_API_KEY)")
		}
		if cfg.Model == "" {
			v.addError("completion.model", cfg.Model, "model required for genai provider")
		}
	}
}

func (v *Validator) validateReport(cfg *ReportConfig) {
	if _, err := core.ParseReportCategory(cfg.Category); err != nil {
		v.addError("report.category", cfg.Category, "must be one of: self, peer, by-peer")
	}
	if cfg.Enabled && strings.TrimSpace(cfg.Dir) == "" {
		v.addError("report.dir", cfg.Dir, "directory required when reports are enabled")
	}
}

func (v *Validator) validateDuration(field, value string, allowZero bool) {
	if value == "" {
		if !allowZero {
			v.addError(field, value, "duration required")
		}
		return
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		v.addError(field, value, "invalid duration format")
		return
	}
	if d < 0 || (d == 0 && !allowZero) {
		v.addError(field, value, "must be positive")
	}
}

// ValidateConfig validates the configuration and wraps failures as a
// domain validation error.
func ValidateConfig(cfg *Config) error {
	if err := NewValidator().Validate(cfg); err != nil {
		return core.ErrValidation(core.CodeInvalidConfig, "invalid configuration").WithCause(err)
	}
	return nil
}
