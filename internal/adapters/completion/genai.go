package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/logging"
)

// contentGenerator is the slice of the Gemini client the completer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIConfig configures the Gemini API provider.
type GenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// GenAI calls the Gemini API and asks for a JSON response.
type GenAI struct {
	models contentGenerator
	config GenAIConfig
	logger *logging.Logger
}

// NewGenAI creates a Gemini completer.
func NewGenAI(ctx context.Context, cfg GenAIConfig, logger *logging.Logger) (*GenAI, error) {
	if cfg.APIKey == "" {
		return nil, core.ErrValidation(core.CodeInvalidConfig, "genai api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return newGenAI(client.Models, cfg, logger), nil
}

func newGenAI(models contentGenerator, cfg GenAIConfig, logger *logging.Logger) *GenAI {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 3 * time.Minute
	}
	return &GenAI{models: models, config: cfg, logger: logger}
}

var _ core.Completer = (*GenAI)(nil)

// Name returns the provider identifier.
func (g *GenAI) Name() string {
	return core.ProviderGenAI
}

// Complete sends the prompt as a single user turn.
func (g *GenAI) Complete(ctx context.Context, req core.CompletionRequest) (*core.CompletionResult, error) {
	timeout := req.Timeout
	if timeout == 0 {
		timeout = g.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = g.config.Model
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = g.config.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.config.MaxTokens
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(temperature)),
		ResponseMIMEType: "application/json",
	}
	if maxTokens > 0 {
		genCfg.MaxOutputTokens = int32(maxTokens)
	}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, model, genai.Text(req.Prompt), genCfg)
	duration := time.Since(start)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, core.ErrTimeout(fmt.Sprintf("genai request timed out after %v", timeout))
		}
		return nil, core.ErrExecution(core.CodeCompletionFailed, "genai request failed").WithCause(err)
	}

	result := &core.CompletionResult{
		Output:   resp.Text(),
		Model:    model,
		Duration: duration,
	}
	if resp.UsageMetadata != nil {
		result.TokensIn = int(resp.UsageMetadata.PromptTokenCount)
		result.TokensOut = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	g.logger.Debug("completion: genai response",
		"model", model,
		"duration", duration,
		"tokens_in", result.TokensIn,
		"tokens_out", result.TokensOut,
	)
	return result, nil
}
