// Package completion provides the completion-service adapters opinion
// generators call: a local CLI agent and the Gemini API.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/logging"
)

// CLIConfig configures a command-line completion provider. The prompt is
// written to the command's stdin; stdout is the completion.
type CLIConfig struct {
	Path    string
	Args    []string
	Model   string
	Timeout time.Duration
}

// CLI runs an external agent command per completion.
type CLI struct {
	config CLIConfig
	logger *logging.Logger
}

// NewCLI creates a CLI completer.
func NewCLI(cfg CLIConfig, logger *logging.Logger) *CLI {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 3 * time.Minute
	}
	return &CLI{config: cfg, logger: logger}
}

var _ core.Completer = (*CLI)(nil)

// Name returns the provider identifier.
func (c *CLI) Name() string {
	return core.ProviderCLI
}

// Complete runs the configured command with the prompt on stdin.
func (c *CLI) Complete(ctx context.Context, req core.CompletionRequest) (*core.CompletionResult, error) {
	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdPath := c.config.Path
	if cmdPath == "" {
		return nil, core.ErrValidation(core.CodeInvalidConfig, "completion command not configured")
	}
	args := append([]string{}, c.config.Args...)
	// Multi-word commands such as "gh copilot".
	if parts := strings.Fields(cmdPath); len(parts) > 1 {
		cmdPath = parts[0]
		args = append(parts[1:], args...)
	}
	model := req.Model
	if model == "" {
		model = c.config.Model
	}
	if model != "" {
		args = append(args, "--model", model)
	}

	stdin := req.Prompt
	if req.SystemPrompt != "" {
		stdin = req.SystemPrompt + "\n\n" + req.Prompt
	}

	// #nosec G204 -- command path and args come from validated config
	cmd := exec.CommandContext(ctx, cmdPath, args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = append(os.Environ(), "VERDICT_MANAGED=true")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("completion: executing command",
		"path", cmdPath,
		"args", args,
		"prompt_length", len(stdin),
		"timeout", timeout,
	)

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, core.ErrTimeout(fmt.Sprintf("completion command timed out after %v", timeout))
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, classifyError(exitErr.ExitCode(), stderr.String(), stdout.String())
		}
		return nil, fmt.Errorf("executing completion command: %w", err)
	}

	c.logger.Debug("completion: command completed",
		"path", cmdPath,
		"duration", duration,
		"stdout_length", stdout.Len(),
	)

	return &core.CompletionResult{
		Output:   stdout.String(),
		Model:    model,
		Duration: duration,
	}, nil
}

func classifyError(exitCode int, stderr, stdout string) error {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = extractErrorFromOutput(stdout)
	}
	if msg == "" {
		msg = "(no error message captured)"
	}
	return core.ErrExecution(core.CodeCompletionFailed,
		fmt.Sprintf("command failed with exit code %d: %s", exitCode, msg))
}

// extractErrorFromOutput looks for a JSON error object on stdout, then
// falls back to the last plain line.
func extractErrorFromOutput(stdout string) string {
	lines := strings.Split(stdout, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			continue
		}
		if msg, ok := obj["error"].(string); ok && msg != "" {
			return msg
		}
		if errObj, ok := obj["error"].(map[string]interface{}); ok {
			if msg, ok := errObj["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" && !strings.HasPrefix(line, "{") {
			if len(line) > 200 {
				return line[:200] + "..."
			}
			return line
		}
	}
	return ""
}
