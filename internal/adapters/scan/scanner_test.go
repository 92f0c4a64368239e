package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

const graphSource = `
from langgraph.graph import StateGraph

builder = StateGraph(AgentState)
builder.add_node("repo", repo_node)
builder.add_edge("start", "repo")
builder.add_edge("start", "doc")
builder.add_conditional_edges("aggregate", route, {"judge": "judge", "end": END})

def add_edge(a, b):
    # a bare function with the same name is not a method call
    return a, b

add_edge(1, 2)
`

func TestScanner_CountSource(t *testing.T) {
	t.Parallel()
	got := NewScanner().CountSource(context.Background(), []byte(graphSource))
	want := core.StructureCounts{
		PatternAddEdge:             2,
		PatternAddConditionalEdges: 1,
		PatternStateGraphInit:      1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestScanner_ScanTree(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write("src/graph.py", graphSource)
	write("src/other.py", "g.add_edge('a', 'b')\n")
	write("README.md", "builder.add_edge('x', 'y')")
	write(".venv/lib/dep.py", "g.add_edge('skip', 'me')\n")
	write("src/broken.py", "def (:\n")

	counts, err := NewScanner().Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if counts[PatternAddEdge] != 3 {
		t.Errorf("add_edge = %d, want 3", counts[PatternAddEdge])
	}
	if counts.Total() != 5 {
		t.Errorf("Total() = %d, want 5", counts.Total())
	}
}

func TestScanner_EmptyTreeReportsZeros(t *testing.T) {
	t.Parallel()
	counts, err := NewScanner().Scan(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(counts) != 3 || counts.Total() != 0 {
		t.Fatalf("expected three zero counts, got %v", counts)
	}
}

func TestScanner_MissingRoot(t *testing.T) {
	t.Parallel()
	_, err := NewScanner().Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !core.IsCategory(err, core.ErrCatExecution) {
		t.Fatalf("expected execution error, got %v", err)
	}
}

func TestScanner_CustomPatterns(t *testing.T) {
	t.Parallel()
	s := NewScanner(Pattern{Name: "gathers", Method: "gather"})
	got := s.CountSource(context.Background(), []byte("await asyncio.gather(a(), b())\n"))
	if got["gathers"] != 1 {
		t.Fatalf("gathers = %d, want 1", got["gathers"])
	}
}
