package judge

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

//go:embed prompts/*.md.tmpl
var promptsFS embed.FS

// maxContentInPrompt bounds the evidence content copied into a prompt.
const maxContentInPrompt = 2000

// systemPrompt is sent with every opinion request.
const systemPrompt = "You are one judge on a software audit bench. " +
	"Base every claim on the supplied evidence and answer with a single JSON object."

// PromptRenderer renders the stance prompts.
type PromptRenderer struct {
	templates *template.Template
}

// NewPromptRenderer parses the embedded templates.
func NewPromptRenderer() (*PromptRenderer, error) {
	tmpl, err := template.New("prompts").Funcs(template.FuncMap{
		"join":      strings.Join,
		"trimSpace": strings.TrimSpace,
	}).ParseFS(promptsFS, "prompts/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &PromptRenderer{templates: tmpl}, nil
}

// OpinionPromptParams contains parameters for a stance prompt.
type OpinionPromptParams struct {
	Dimensions      []core.RubricDimension
	Evidence        string
	SingleDimension bool
}

// RenderOpinion renders the prompt for a stance and review request.
func (r *PromptRenderer) RenderOpinion(stance core.Stance, req core.ReviewRequest) (string, error) {
	if len(req.Dimensions) == 0 {
		return "", core.ErrValidation(core.CodeInvalidInput, "review request has no dimensions")
	}
	name := templateName(stance)
	if r.templates.Lookup(name) == nil {
		return "", core.ErrNotFound("template", name)
	}

	params := OpinionPromptParams{
		Dimensions:      req.Dimensions,
		Evidence:        EvidenceLines(req.Evidence),
		SingleDimension: len(req.Dimensions) == 1,
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, params); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

func templateName(stance core.Stance) string {
	return strings.ToLower(string(stance)) + ".md.tmpl"
}

// EvidenceLines serializes evidence as one JSON object per line, with long
// content truncated.
func EvidenceLines(evidence []core.Evidence) string {
	lines := make([]string, 0, len(evidence))
	for _, e := range evidence {
		if r := []rune(e.Content); len(r) > maxContentInPrompt {
			e.Content = string(r[:maxContentInPrompt]) + "..."
		}
		data, err := json.Marshal(e)
		if err != nil {
			continue
		}
		lines = append(lines, string(data))
	}
	return strings.Join(lines, "\n")
}
