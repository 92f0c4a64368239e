package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter represents YAML frontmatter for markdown files
type Frontmatter struct {
	fields map[string]interface{}
	order  []string // Track insertion order
}

// NewFrontmatter creates a new frontmatter instance
func NewFrontmatter() *Frontmatter {
	return &Frontmatter{
		fields: make(map[string]interface{}),
		order:  make([]string, 0),
	}
}

// Set adds or updates a field in the frontmatter
func (f *Frontmatter) Set(key string, value interface{}) {
	if _, exists := f.fields[key]; !exists {
		f.order = append(f.order, key)
	}
	f.fields[key] = value
}

// Get retrieves a field value
func (f *Frontmatter) Get(key string) (interface{}, bool) {
	v, ok := f.fields[key]
	return v, ok
}

// Render produces the YAML frontmatter string with delimiters
func (f *Frontmatter) Render() string {
	if len(f.fields) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	for _, key := range f.order {
		sb.WriteString(formatYAMLField(key, f.fields[key]))
	}
	sb.WriteString("---\n\n")
	return sb.String()
}

// formatYAMLField formats a single YAML field
func formatYAMLField(key string, value interface{}) string {
	switch v := value.(type) {
	case string:
		if needsQuoting(v) {
			return fmt.Sprintf("%s: %q\n", key, v)
		}
		return fmt.Sprintf("%s: %s\n", key, v)
	case int, int32, int64:
		return fmt.Sprintf("%s: %d\n", key, v)
	case float64:
		return fmt.Sprintf("%s: %s\n", key, strconv.FormatFloat(v, 'f', 2, 64))
	case bool:
		return fmt.Sprintf("%s: %t\n", key, v)
	default:
		return fmt.Sprintf("%s: %v\n", key, v)
	}
}

// needsQuoting checks if a string value needs YAML quoting
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	if strings.ContainsAny(s, ":#[]{},&*!|>'\"%@`\n") {
		return true
	}
	lower := strings.ToLower(s)
	if lower == "true" || lower == "false" || lower == "null" || lower == "yes" || lower == "no" {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return strings.TrimSpace(s) != s
}

// SplitFrontmatter separates a document's frontmatter from its body and
// decodes the frontmatter. A document without frontmatter yields an
// empty map and the whole document as body.
func SplitFrontmatter(doc string) (map[string]interface{}, string, error) {
	fields := make(map[string]interface{})
	if !strings.HasPrefix(doc, "---\n") {
		return fields, doc, nil
	}
	rest := doc[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return nil, "", fmt.Errorf("unterminated frontmatter")
	}
	if err := yaml.NewDecoder(bytes.NewReader([]byte(rest[:end]))).Decode(&fields); err != nil {
		return nil, "", fmt.Errorf("decoding frontmatter: %w", err)
	}
	return fields, strings.TrimLeft(rest[end+len("\n---\n"):], "\n"), nil
}
