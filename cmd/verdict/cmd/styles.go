package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	fairStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	poorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// styled applies a style unless color output is disabled.
func styled(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 4:
		return goodStyle
	case score >= 2.5:
		return fairStyle
	default:
		return poorStyle
	}
}

// printSummary writes a short human summary of a report.
func printSummary(w io.Writer, r *core.AuditReport) {
	fmt.Fprintf(w, "%s %s\n", styled(titleStyle, "Audit:"), r.SubjectIdentifier)
	fmt.Fprintf(w, "%s %s\n", styled(titleStyle, "Overall:"),
		styled(scoreStyle(r.OverallScore), fmt.Sprintf("%.2f / %d", r.OverallScore, core.MaxScore)))

	width := 0
	for _, c := range r.Criteria {
		width = max(width, len(c.DimensionName))
	}
	for _, c := range r.Criteria {
		line := fmt.Sprintf("  %-*s  %s", width, c.DimensionName,
			styled(scoreStyle(float64(c.FinalScore)), fmt.Sprintf("%d", c.FinalScore)))
		if c.HasDissent() {
			line += "  " + styled(warnStyle, "dissent")
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, styled(dimStyle, r.ExecutiveSummary))
}

// printMarkdown writes a markdown document, styled for the terminal when
// stdout is one.
func printMarkdown(w io.Writer, doc string, fd int) error {
	if noColor || !term.IsTerminal(fd) {
		_, err := io.WriteString(w, doc)
		return err
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := renderer.Render(stripFrontmatter(doc))
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func stripFrontmatter(doc string) string {
	if !strings.HasPrefix(doc, "---\n") {
		return doc
	}
	if end := strings.Index(doc[4:], "\n---\n"); end >= 0 {
		return doc[4+end+len("\n---\n"):]
	}
	return doc
}
