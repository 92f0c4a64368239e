package judge

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

// opinionPayload is the JSON object a judge is asked to return.
type opinionPayload struct {
	CriterionID   string   `json:"criterion_id"`
	Score         *float64 `json:"score"`
	Argument      string   `json:"argument"`
	CitedEvidence []string `json:"cited_evidence"`
	Confidence    *float64 `json:"confidence"`
}

// parsePayload reads an opinion from a completion. A structured result is
// used as-is; otherwise the JSON object is dug out of the text.
func parsePayload(result *core.CompletionResult) (*opinionPayload, error) {
	if result == nil {
		return nil, core.ErrExecution(core.CodeParseFailed, "empty completion result")
	}

	var raw []byte
	if result.Parsed != nil {
		data, err := json.Marshal(result.Parsed)
		if err != nil {
			return nil, core.ErrExecution(core.CodeParseFailed, "re-encoding structured output").WithCause(err)
		}
		raw = data
	} else {
		text := stripFences(result.Output)
		if json.Valid([]byte(text)) {
			raw = []byte(text)
		} else if extracted := ExtractJSON(text); extracted != "" {
			raw = []byte(extracted)
		} else {
			return nil, core.ErrExecution(core.CodeParseFailed, "no JSON object found in output")
		}
	}

	var p opinionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, core.ErrExecution(core.CodeParseFailed, "decoding opinion").WithCause(err)
	}
	return &p, nil
}

// validate checks the payload against the request and returns the
// criterion the opinion is about.
func (p *opinionPayload) validate(req core.ReviewRequest) (int, string, error) {
	if p.Score == nil {
		return 0, "", core.ErrValidation(core.CodeInvalidOpinion, "score missing")
	}
	s := *p.Score
	if s != math.Trunc(s) || s < core.MinScore || s > core.MaxScore {
		return 0, "", core.ErrValidation(core.CodeInvalidOpinion,
			fmt.Sprintf("score %v outside %d..%d", s, core.MinScore, core.MaxScore))
	}

	criterion := strings.TrimSpace(p.CriterionID)
	if len(req.Dimensions) == 1 {
		// A single-dimension request can only be about that dimension.
		return int(s), req.Dimensions[0].ID, nil
	}
	for _, d := range req.Dimensions {
		if d.ID == criterion {
			return int(s), criterion, nil
		}
	}
	if criterion == "" {
		return 0, "", core.ErrValidation(core.CodeInvalidOpinion, "criterion_id missing")
	}
	return 0, "", core.ErrValidation(core.CodeInvalidOpinion, "unknown criterion "+criterion)
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag.
func stripFences(output string) string {
	s := strings.TrimSpace(output)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return ""
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// ExtractJSON finds the first balanced JSON object in mixed text output.
func ExtractJSON(output string) string {
	start := strings.Index(output, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(output); i++ {
		c := output[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return output[start : i+1]
			}
		}
	}
	return ""
}
