package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

// LoadRubric reads and validates a rubric file. JSON and YAML are both
// accepted; the extension picks the decoder. Every failure is a
// validation error so callers can abort before any stage runs.
func LoadRubric(path string) (*core.Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.ErrValidation(core.CodeInvalidRubric, "rubric file not found: "+path).WithCause(err)
		}
		return nil, core.ErrValidation(core.CodeInvalidRubric, "reading rubric").WithCause(err)
	}
	rubric, err := ParseRubric(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return rubric, nil
}

// ParseRubric decodes rubric content. ext is the file extension including
// the dot; anything other than .json is decoded as YAML.
func ParseRubric(data []byte, ext string) (*core.Rubric, error) {
	var rubric core.Rubric
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&rubric); err != nil {
			return nil, core.ErrValidation(core.CodeInvalidRubric, "malformed rubric JSON").WithCause(err)
		}
	default:
		if err := yaml.Unmarshal(data, &rubric); err != nil {
			return nil, core.ErrValidation(core.CodeInvalidRubric, "malformed rubric YAML").WithCause(err)
		}
	}
	if err := rubric.Validate(); err != nil {
		return nil, fmt.Errorf("validating rubric: %w", err)
	}
	return rubric.Normalized(), nil
}
