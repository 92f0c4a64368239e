// Package document turns report documents (PDF, Markdown, plain text)
// into text chunks and finds file paths they mention.
package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/logging"
)

// DefaultChunkSize is the chunk length in characters.
const DefaultChunkSize = 1200

// maxDocumentSize bounds how much of a document is read.
const maxDocumentSize = 32 << 20

// Source reads documents from the local filesystem.
type Source struct {
	chunkSize    int
	pathPrefixes []string
	markdown     goldmark.Markdown
	logger       *logging.Logger
}

// NewSource creates a document source. A non-positive chunkSize uses
// DefaultChunkSize; empty prefixes default to "src/".
func NewSource(chunkSize int, pathPrefixes []string, logger *logging.Logger) *Source {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if len(pathPrefixes) == 0 {
		pathPrefixes = []string{"src/"}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Source{
		chunkSize:    chunkSize,
		pathPrefixes: pathPrefixes,
		markdown:     goldmark.New(),
		logger:       logger,
	}
}

var _ core.DocumentSource = (*Source)(nil)

// Ingest extracts the document's text and splits it into chunks. It
// returns nil when the document is missing, unreadable or empty.
func (s *Source) Ingest(ctx context.Context, path string) []string {
	if err := ctx.Err(); err != nil {
		return nil
	}
	content, err := s.extract(path)
	if err != nil {
		s.logger.Warn("document ingest failed", "path", path, "error", err)
		return nil
	}
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return Chunk(content, s.chunkSize)
}

func (s *Source) extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".md", ".markdown":
		data, err := readLimited(path)
		if err != nil {
			return "", err
		}
		return s.extractMarkdown(data), nil
	default:
		data, err := readLimited(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxDocumentSize))
}

func extractPDF(path string) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(plain, maxDocumentSize)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractMarkdown renders the Markdown syntax tree down to plain text,
// one block per line.
func (s *Source) extractMarkdown(src []byte) string {
	doc := s.markdown.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
				b.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// Chunk splits text into pieces of at most size characters. Splits never
// cut a UTF-8 sequence.
func Chunk(content string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([]string, 0, utf8.RuneCountInString(content)/size+1)
	for len(content) > 0 {
		end, n := 0, 0
		for end < len(content) && n < size {
			_, w := utf8.DecodeRuneInString(content[end:])
			end += w
			n++
		}
		chunks = append(chunks, content[:end])
		content = content[end:]
	}
	return chunks
}

// ExtractReferencedPaths returns whitespace-separated tokens that start
// with one of the configured prefixes, with surrounding punctuation
// removed. Duplicates are dropped; first-seen order is kept.
func (s *Source) ExtractReferencedPaths(content string) []string {
	seen := make(map[string]bool)
	paths := make([]string, 0)
	for _, field := range strings.Fields(content) {
		token := strings.Trim(field, ".,;:()[]{}<>'\"`")
		if token == "" || seen[token] {
			continue
		}
		for _, prefix := range s.pathPrefixes {
			if strings.HasPrefix(token, prefix) && len(token) > len(prefix) {
				seen[token] = true
				paths = append(paths, token)
				break
			}
		}
	}
	return paths
}
