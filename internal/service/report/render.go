// Package report renders audit reports to markdown, reads them back and
// persists them.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

// Render turns a report into its markdown document. Sections always
// appear in the same order.
func Render(r *core.AuditReport) string {
	fm := NewFrontmatter()
	fm.Set("subject", r.SubjectIdentifier)
	fm.Set("overall_score", r.OverallScore)
	fm.Set("criteria_count", len(r.Criteria))

	var sb strings.Builder
	sb.WriteString(fm.Render())

	fmt.Fprintf(&sb, "# Audit Report: %s\n\n", singleLine(r.SubjectIdentifier))
	fmt.Fprintf(&sb, "**Overall Score:** %s / %d\n\n", strconv.FormatFloat(r.OverallScore, 'f', 2, 64), core.MaxScore)

	sb.WriteString("## Executive Summary\n\n")
	sb.WriteString(strings.TrimSpace(r.ExecutiveSummary))
	sb.WriteString("\n\n")

	sb.WriteString("## Criteria\n\n")
	if len(r.Criteria) == 0 {
		sb.WriteString("_No criteria were assessed._\n\n")
	}
	for _, c := range r.Criteria {
		renderCriterion(&sb, c)
	}

	sb.WriteString("## Remediation Plan\n\n")
	sb.WriteString(strings.TrimSpace(r.RemediationPlan))
	sb.WriteString("\n")
	return sb.String()
}

func renderCriterion(sb *strings.Builder, c core.CriterionResult) {
	fmt.Fprintf(sb, "### %s (`%s`)\n\n", singleLine(c.DimensionName), c.DimensionID)
	fmt.Fprintf(sb, "**Score:** %d / %d\n\n", c.FinalScore, core.MaxScore)
	if c.HasDissent() {
		fmt.Fprintf(sb, "**Dissent:** %s\n\n", singleLine(c.DissentSummary))
	}
	fmt.Fprintf(sb, "**Remediation:** %s\n\n", singleLine(c.Remediation))

	sb.WriteString("| Judge | Score | Argument |\n")
	sb.WriteString("|-------|-------|----------|\n")
	for _, op := range c.JudgeOpinions {
		fmt.Fprintf(sb, "| %s | %d | %s |\n", op.Judge, op.Score, escapeCell(op.Argument))
	}
	sb.WriteString("\n")
}

// escapeCell makes text safe inside a table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

func unescapeCell(s string) string {
	s = strings.ReplaceAll(s, "<br>", "\n")
	return strings.ReplaceAll(s, `\|`, "|")
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
