package config

import "time"

// Config holds all application configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Rubric     RubricConfig     `mapstructure:"rubric"`
	Collectors CollectorsConfig `mapstructure:"collectors"`
	Judging    JudgingConfig    `mapstructure:"judging"`
	Completion CompletionConfig `mapstructure:"completion"`
	Report     ReportConfig     `mapstructure:"report"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RubricConfig points at the rubric definition file (JSON or YAML).
type RubricConfig struct {
	Path string `mapstructure:"path"`
}

// CollectorsConfig configures evidence collection.
type CollectorsConfig struct {
	Timeout      string   `mapstructure:"timeout"`
	CloneTimeout string   `mapstructure:"clone_timeout"`
	CloneDepth   int      `mapstructure:"clone_depth"`
	HistoryLimit int      `mapstructure:"history_limit"`
	Keywords     []string `mapstructure:"keywords"`
	PathPrefixes []string `mapstructure:"path_prefixes"`
	ChunkSize    int      `mapstructure:"chunk_size"`
	ImageDirs    []string `mapstructure:"image_dirs"`
}

// JudgingConfig configures opinion generation.
type JudgingConfig struct {
	PerDimension bool   `mapstructure:"per_dimension"`
	Concurrency  int    `mapstructure:"concurrency"`
	Pacing       string `mapstructure:"pacing"`
	Timeout      string `mapstructure:"timeout"`
}

// CompletionConfig selects and configures the completion service.
type CompletionConfig struct {
	Provider    string      `mapstructure:"provider"`
	Model       string      `mapstructure:"model"`
	Temperature float64     `mapstructure:"temperature"`
	MaxTokens   int         `mapstructure:"max_tokens"`
	CLI         CLIConfig   `mapstructure:"cli"`
	GenAI       GenAIConfig `mapstructure:"genai"`
}

// CLIConfig runs an external command that reads a prompt on stdin and
// prints the completion on stdout.
type CLIConfig struct {
	Path string   `mapstructure:"path"`
	Args []string `mapstructure:"args"`
}

// GenAIConfig configures the Gemini API provider.
type GenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// ReportConfig configures report persistence.
type ReportConfig struct {
	Dir      string `mapstructure:"dir"`
	Category string `mapstructure:"category"`
	PeerID   string `mapstructure:"peer_id"`
	UseUTC   bool   `mapstructure:"use_utc"`
	Enabled  bool   `mapstructure:"enabled"`
}

// CollectorTimeout parses collectors.timeout, falling back to def.
func (c *Config) CollectorTimeout(def time.Duration) time.Duration {
	return parseDurationOr(c.Collectors.Timeout, def)
}

// CloneTimeout parses collectors.clone_timeout. When unset the clone gets
// two thirds of the collector budget, leaving the rest for history and
// the structure scan.
func (c *Config) CloneTimeout(collectorTimeout time.Duration) time.Duration {
	return parseDurationOr(c.Collectors.CloneTimeout, collectorTimeout*2/3)
}

// JudgeTimeout parses judging.timeout, falling back to def.
func (c *Config) JudgeTimeout(def time.Duration) time.Duration {
	return parseDurationOr(c.Judging.Timeout, def)
}

// PacingInterval parses judging.pacing. Zero disables pacing.
func (c *Config) PacingInterval() time.Duration {
	return parseDurationOr(c.Judging.Pacing, 0)
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
