package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "VERDICT",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "VERDICT",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (VERDICT_*)
// 3. Project config (.verdict.yaml in current directory)
// 4. User config (~/.config/verdict/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".verdict")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "verdict"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// The Gemini SDK convention; only consulted when no key is configured.
	if cfg.Completion.GenAI.APIKey == "" {
		cfg.Completion.GenAI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return &cfg, nil
}

// setDefaults configures default values.
func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	l.v.SetDefault("rubric.path", "rubric/rubric.json")

	l.v.SetDefault("collectors.timeout", "3m")
	l.v.SetDefault("collectors.clone_timeout", "")
	l.v.SetDefault("collectors.clone_depth", 0)
	l.v.SetDefault("collectors.history_limit", 200)
	l.v.SetDefault("collectors.keywords", DefaultKeywords)
	l.v.SetDefault("collectors.path_prefixes", []string{"src/"})
	l.v.SetDefault("collectors.chunk_size", 1200)
	l.v.SetDefault("collectors.image_dirs", []string{"docs/images"})

	l.v.SetDefault("judging.per_dimension", true)
	l.v.SetDefault("judging.concurrency", 3)
	l.v.SetDefault("judging.pacing", "0s")
	l.v.SetDefault("judging.timeout", "3m")

	l.v.SetDefault("completion.provider", "cli")
	l.v.SetDefault("completion.model", "")
	l.v.SetDefault("completion.temperature", 0.0)
	l.v.SetDefault("completion.max_tokens", 2048)
	l.v.SetDefault("completion.cli.path", "claude")
	l.v.SetDefault("completion.cli.args", []string{"-p", "--output-format", "text"})
	l.v.SetDefault("completion.genai.api_key", "")

	l.v.SetDefault("report.dir", "audit")
	l.v.SetDefault("report.category", "self")
	l.v.SetDefault("report.peer_id", "")
	l.v.SetDefault("report.use_utc", true)
	l.v.SetDefault("report.enabled", true)
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// DefaultKeywords are the theory terms the document analyst searches for.
var DefaultKeywords = []string{
	"Dialectical Synthesis",
	"Fan-In",
	"Fan-Out",
	"Metacognition",
}
