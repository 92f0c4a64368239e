package report

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

var (
	overallRe   = regexp.MustCompile(`^\*\*Overall Score:\*\* ([0-9.]+) / \d+$`)
	criterionRe = regexp.MustCompile("^### (.+) \\(`([^`]+)`\\)$")
	scoreRe     = regexp.MustCompile(`^\*\*Score:\*\* (\d+) / \d+$`)
	rowRe       = regexp.MustCompile(`^\| ([A-Za-z]+) \| (\d+) \| (.*) \|$`)
)

// ParsedCriterion is a criterion block read back from a document.
type ParsedCriterion struct {
	ID       string
	Name     string
	Score    int
	Opinions []ParsedOpinion
}

// ParsedOpinion is one judge row of a criterion table.
type ParsedOpinion struct {
	Judge    core.Stance
	Score    int
	Argument string
}

// ParsedReport holds the structured values recovered from a rendered
// report.
type ParsedReport struct {
	Subject      string
	OverallScore float64
	Criteria     []ParsedCriterion
}

// Parse reads the scores, criterion names and judge rows back out of a
// document produced by Render.
func Parse(doc string) (*ParsedReport, error) {
	fields, body, err := SplitFrontmatter(doc)
	if err != nil {
		return nil, err
	}

	out := &ParsedReport{}
	if v, ok := fields["subject"]; ok {
		out.Subject = fmt.Sprint(v)
	}

	var current *ParsedCriterion
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case overallRe.MatchString(line):
			m := overallRe.FindStringSubmatch(line)
			score, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil, fmt.Errorf("overall score %q: %w", m[1], err)
			}
			out.OverallScore = score

		case criterionRe.MatchString(line):
			m := criterionRe.FindStringSubmatch(line)
			out.Criteria = append(out.Criteria, ParsedCriterion{Name: m[1], ID: m[2]})
			current = &out.Criteria[len(out.Criteria)-1]

		case current != nil && scoreRe.MatchString(line):
			m := scoreRe.FindStringSubmatch(line)
			current.Score, _ = strconv.Atoi(m[1])

		case current != nil && rowRe.MatchString(line):
			m := rowRe.FindStringSubmatch(line)
			stance, err := core.ParseStance(m[1])
			if err != nil {
				continue
			}
			score, _ := strconv.Atoi(m[2])
			current.Opinions = append(current.Opinions, ParsedOpinion{
				Judge:    stance,
				Score:    score,
				Argument: unescapeCell(m[3]),
			})

		case strings.HasPrefix(line, "## "):
			current = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning report: %w", err)
	}
	return out, nil
}
