// Package report renders audit results for terminals and machine consumers.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursecheck/internal/audit"
	"github.com/abhisek/coursecheck/internal/ui/theme"
)

// Meta carries display context the result value does not record.
type Meta struct {
	CourseTitle  string
	TaxonomyName string
}

const sepWidth = 72

// Text renders a human-readable report: header, score banner, then one
// section per executed check in execution order. With color disabled the
// output is plain text suitable for pipes and tests.
func Text(res *audit.Result, meta Meta, color bool) string {
	st := styler{on: color}
	var b strings.Builder

	b.WriteString(st.apply(theme.Title, "Course Quality Report"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", sepWidth))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Course:    %s\n", labelWithID(meta.CourseTitle, res.CourseID)))
	b.WriteString(fmt.Sprintf("Taxonomy:  %s\n", labelWithID(meta.TaxonomyName, res.TaxonomyID)))
	b.WriteString(fmt.Sprintf("Checks:    %d run\n", len(res.ChecksRun)))
	b.WriteString(fmt.Sprintf("Score:     %s    %s\n",
		st.apply(scoreStyle(res.Score), fmt.Sprintf("%d / 100", res.Score)),
		countSummary(res)))
	b.WriteString("\n")

	byCheck := make(map[audit.CheckType][]audit.Issue)
	for _, is := range res.Issues {
		byCheck[is.CheckType] = append(byCheck[is.CheckType], is)
	}

	for _, ct := range res.ChecksRun {
		issues := byCheck[ct]
		if len(issues) == 0 {
			b.WriteString(fmt.Sprintf("%s %s\n",
				st.apply(theme.ScoreGood, "✓"),
				strings.ToUpper(string(ct))))
			continue
		}

		b.WriteString(fmt.Sprintf("\n%s (%s)\n",
			strings.ToUpper(string(ct)), plural(len(issues), "issue")))
		b.WriteString(strings.Repeat("─", sepWidth))
		b.WriteString("\n")
		for _, is := range issues {
			writeIssue(&b, st, is)
		}
	}

	return b.String()
}

// JSON renders the result as indented JSON. Issue order inside is the
// engine's deterministic check order, so repeated runs diff cleanly.
func JSON(res *audit.Result) ([]byte, error) {
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return append(out, '\n'), nil
}

func writeIssue(b *strings.Builder, st styler, is audit.Issue) {
	b.WriteString(fmt.Sprintf("%s %s\n",
		st.apply(severityStyle(is.Severity), severityGlyph(is.Severity)),
		st.apply(severityStyle(is.Severity), is.Title)))
	b.WriteString(fmt.Sprintf("  %s\n", is.Description))
	if len(is.AffectedElements) > 0 {
		refs := make([]string, len(is.AffectedElements))
		for i, ref := range is.AffectedElements {
			refs[i] = formatRef(ref)
		}
		b.WriteString(st.apply(theme.Hint, fmt.Sprintf("  Affected: %s", strings.Join(refs, "; "))))
		b.WriteString("\n")
	}
	if is.SuggestedFix != "" {
		b.WriteString(st.apply(theme.Hint, fmt.Sprintf("  Fix: %s", is.SuggestedFix)))
		b.WriteString("\n")
	}
}

func formatRef(ref audit.ElementRef) string {
	if ref.Title != "" {
		return fmt.Sprintf("%s %s (%q)", ref.Type, ref.ID, ref.Title)
	}
	return fmt.Sprintf("%s %s", ref.Type, ref.ID)
}

func labelWithID(label, id string) string {
	if label == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", label, id)
}

func countSummary(res *audit.Result) string {
	return fmt.Sprintf("%s, %s, %d info",
		plural(res.ErrorCount, "error"),
		plural(res.WarningCount, "warning"),
		res.InfoCount)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func severityGlyph(s audit.Severity) string {
	switch s {
	case audit.SeverityError:
		return "✗"
	case audit.SeverityWarning:
		return "!"
	default:
		return "·"
	}
}

func severityStyle(s audit.Severity) lipgloss.Style {
	switch s {
	case audit.SeverityError:
		return theme.SevError
	case audit.SeverityWarning:
		return theme.SevWarning
	default:
		return theme.SevInfo
	}
}

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 90:
		return theme.ScoreGood
	case score >= 70:
		return theme.ScoreFair
	default:
		return theme.ScorePoor
	}
}

// styler applies a style only when color output is on, so the same render
// path serves terminals, pipes, and tests.
type styler struct {
	on bool
}

func (s styler) apply(style lipgloss.Style, text string) string {
	if !s.on {
		return text
	}
	return style.Render(text)
}
