// Package scan counts orchestration patterns in Python sources using
// tree-sitter syntax trees.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

// Pattern names reported by the default scanner.
const (
	PatternAddEdge             = "add_edge_calls"
	PatternAddConditionalEdges = "add_conditional_edges"
	PatternStateGraphInit      = "stategraph_inits"
)

// Pattern matches a call expression. Method matches obj.Method(...),
// Function matches a bare Function(...) call. Exactly one is set.
type Pattern struct {
	Name     string
	Method   string
	Function string
}

// DefaultPatterns detects state-graph wiring.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Name: PatternAddEdge, Method: "add_edge"},
		{Name: PatternAddConditionalEdges, Method: "add_conditional_edges"},
		{Name: PatternStateGraphInit, Function: "StateGraph"},
	}
}

// maxFileSize skips generated or vendored blobs.
const maxFileSize = 2 << 20

var skipDirs = map[string]bool{
	".git": true, ".venv": true, "venv": true, "node_modules": true,
	"__pycache__": true, "site-packages": true, ".tox": true,
}

// Scanner walks a directory tree and counts pattern matches.
type Scanner struct {
	patterns []Pattern
}

// NewScanner creates a scanner for the given patterns, or the defaults
// when none are given.
func NewScanner(patterns ...Pattern) *Scanner {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	return &Scanner{patterns: patterns}
}

var _ core.StructureScanner = (*Scanner)(nil)

// Scan parses every .py file under root. Files that fail to read or parse
// are skipped. Every pattern appears in the result, possibly with zero.
func (s *Scanner) Scan(ctx context.Context, root string) (core.StructureCounts, error) {
	counts := make(core.StructureCounts, len(s.patterns))
	for _, p := range s.patterns {
		counts[p.Name] = 0
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, core.ErrExecution(core.CodeScanFailed, "scan root unavailable").WithCause(err)
	}
	if !info.IsDir() {
		return nil, core.ErrExecution(core.CodeScanFailed, fmt.Sprintf("%s is not a directory", root))
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".py" {
			return nil
		}
		if fi, err := d.Info(); err != nil || fi.Size() > maxFileSize {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		s.countFile(ctx, parser, content, counts)
		return nil
	})
	if err != nil {
		return nil, core.ErrExecution(core.CodeScanFailed, "scan interrupted").WithCause(err)
	}
	return counts, nil
}

// CountSource counts pattern matches in a single Python source.
func (s *Scanner) CountSource(ctx context.Context, content []byte) core.StructureCounts {
	counts := make(core.StructureCounts, len(s.patterns))
	for _, p := range s.patterns {
		counts[p.Name] = 0
	}
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())
	s.countFile(ctx, parser, content, counts)
	return counts
}

func (s *Scanner) countFile(ctx context.Context, parser *sitter.Parser, content []byte, counts core.StructureCounts) {
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil || tree == nil {
		return
	}
	defer tree.Close()
	s.walk(tree.RootNode(), content, counts)
}

func (s *Scanner) walk(node *sitter.Node, content []byte, counts core.StructureCounts) {
	if node == nil {
		return
	}
	if node.Type() == "call" {
		s.matchCall(node, content, counts)
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		s.walk(node.NamedChild(i), content, counts)
	}
}

func (s *Scanner) matchCall(call *sitter.Node, content []byte, counts core.StructureCounts) {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return
	}
	text := func(n *sitter.Node) string {
		return string(content[n.StartByte():n.EndByte()])
	}

	switch fn.Type() {
	case "attribute":
		attr := fn.ChildByFieldName("attribute")
		if attr == nil {
			return
		}
		name := text(attr)
		for _, p := range s.patterns {
			if p.Method != "" && p.Method == name {
				counts[p.Name]++
			}
		}
	case "identifier":
		name := text(fn)
		for _, p := range s.patterns {
			if p.Function != "" && p.Function == name {
				counts[p.Name]++
			}
		}
	}
}
