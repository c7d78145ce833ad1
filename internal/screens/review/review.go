// Package review implements the interactive audit report browser: the full
// issue list with severity and text filters, expandable detail per issue,
// and a jump into the stored run history for the same course.
package review

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursecheck/internal/audit"
	"github.com/abhisek/coursecheck/internal/router"
	"github.com/abhisek/coursecheck/internal/screen"
	"github.com/abhisek/coursecheck/internal/screens/runs"
	"github.com/abhisek/coursecheck/internal/store"
	"github.com/abhisek/coursecheck/internal/ui/components"
	"github.com/abhisek/coursecheck/internal/ui/layout"
	"github.com/abhisek/coursecheck/internal/ui/theme"
)

// severityFilters is the filter cycle: everything, then each severity alone.
var severityFilters = []audit.Severity{"", audit.SeverityError, audit.SeverityWarning, audit.SeverityInfo}

// ReviewScreen browses one audit result.
type ReviewScreen struct {
	result      *audit.Result
	courseTitle string
	taxonomy    string
	runRepo     store.RunRepo // nil disables the history jump

	filterIdx int // index into severityFilters
	query     components.FilterInput
	selected  int
	expanded  map[int]bool // keyed by issue index in result.Issues
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// Options carries everything the review screen needs. RunRepo may be nil
// when no database is open.
type Options struct {
	Result      *audit.Result
	CourseTitle string
	Taxonomy    string
	RunRepo     store.RunRepo
}

// New creates a review screen over one result.
func New(opts Options) *ReviewScreen {
	return &ReviewScreen{
		result:      opts.Result,
		courseTitle: opts.CourseTitle,
		taxonomy:    opts.Taxonomy,
		runRepo:     opts.RunRepo,
		query:       components.NewFilterInput("filter issues"),
		expanded:    make(map[int]bool),
	}
}

func (s *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (s *ReviewScreen) Title() string {
	if s.courseTitle != "" {
		return "Review: " + s.courseTitle
	}
	return "Review"
}

// Status surfaces the score in the app header.
func (s *ReviewScreen) Status() string {
	if s.result == nil {
		return ""
	}
	return fmt.Sprintf("Score %d/100", s.result.Score)
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	if s.query.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply filter"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "f", Description: "Severity"},
		{Key: "/", Description: "Filter"},
	}
	if s.runRepo != nil {
		hints = append(hints, layout.KeyHint{Key: "h", Description: "History"})
	}
	escHint := layout.KeyHint{Key: "Esc", Description: "Quit"}
	if s.query.Value() != "" || severityFilters[s.filterIdx] != "" {
		escHint.Description = "Clear filters"
	}
	return append(hints, escHint)
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	// While the filter field is being edited it owns the keyboard.
	if s.query.Focused() {
		switch kmsg.String() {
		case "enter":
			s.query.Blur()
		case "esc":
			s.query.Reset()
		default:
			var cmd tea.Cmd
			s.query, cmd = s.query.Update(msg)
			s.clampSelection()
			return s, cmd
		}
		s.clampSelection()
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.visible())-1 {
			s.selected++
		}
	case "enter":
		if vis := s.visible(); len(vis) > 0 {
			idx := vis[s.selected]
			s.expanded[idx] = !s.expanded[idx]
		}
	case "f", "tab":
		s.filterIdx = (s.filterIdx + 1) % len(severityFilters)
		s.clampSelection()
	case "/":
		return s, s.query.Focus()
	case "h":
		if s.runRepo != nil {
			repo, courseID := s.runRepo, s.result.CourseID
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: runs.New(repo, courseID)}
			}
		}
	case "esc":
		if s.query.Value() != "" || severityFilters[s.filterIdx] != "" {
			s.query.Reset()
			s.filterIdx = 0
			s.clampSelection()
			return s, nil
		}
		return s, tea.Quit
	}
	return s, nil
}

// visible returns indexes into result.Issues that pass the active filters,
// in engine order.
func (s *ReviewScreen) visible() []int {
	if s.result == nil {
		return nil
	}
	sev := severityFilters[s.filterIdx]
	q := strings.ToLower(strings.TrimSpace(s.query.Value()))

	var out []int
	for i, is := range s.result.Issues {
		if sev != "" && is.Severity != sev {
			continue
		}
		if q != "" && !issueMatches(is, q) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// issueMatches reports whether the issue's text mentions the query.
func issueMatches(is audit.Issue, q string) bool {
	if strings.Contains(strings.ToLower(is.Title), q) ||
		strings.Contains(strings.ToLower(is.Description), q) ||
		strings.Contains(strings.ToLower(string(is.CheckType)), q) {
		return true
	}
	for _, ref := range is.AffectedElements {
		if strings.Contains(strings.ToLower(ref.Title), q) {
			return true
		}
	}
	return false
}

func (s *ReviewScreen) clampSelection() {
	n := len(s.visible())
	if s.selected >= n {
		s.selected = n - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *ReviewScreen) View(width, height int) string {
	if s.result == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderScoreBlock(width))
	b.WriteString("\n")

	filterLine := s.renderFilterLine()
	if filterLine != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, filterLine))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	vis := s.visible()
	if len(vis) == 0 {
		empty := "No issues found. The course is looking good!"
		if len(s.result.Issues) > 0 {
			empty = "No issues match the current filter."
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n" + empty))
		return b.String()
	}

	inner := width - 8
	if inner < 40 {
		inner = 40
	}
	left := (width - inner) / 2
	if left < 0 {
		left = 0
	}
	pad := strings.Repeat(" ", left)

	for pos, idx := range vis {
		is := s.result.Issues[idx]

		prefix := "  "
		if pos == s.selected {
			prefix = "> "
		}
		marker := "+"
		if s.expanded[idx] {
			marker = "-"
		}

		line := fmt.Sprintf("%s%s %s [%s] %s",
			prefix, marker, severityGlyph(is.Severity), is.CheckType, is.Title)
		style := lipgloss.NewStyle().Foreground(severityColor(is.Severity))
		if pos == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(pad + style.Render(truncate(line, inner)))
		b.WriteString("\n")

		if s.expanded[idx] {
			b.WriteString(s.renderDetail(is, pad, inner))
		}
	}

	return b.String()
}

// renderScoreBlock draws the score bar and the severity tally.
func (s *ReviewScreen) renderScoreBlock(width int) string {
	res := s.result
	barWidth := width / 2
	if barWidth > 50 {
		barWidth = 50
	}

	bar := components.ProgressBar{
		Label:   fmt.Sprintf("Score %3d", res.Score),
		Percent: float64(res.Score) / 100,
		Width:   barWidth,
		Fill:    scoreColor(res.Score),
	}

	tally := fmt.Sprintf("%d errors   %d warnings   %d info   (%d checks run)",
		res.ErrorCount, res.WarningCount, res.InfoCount, len(res.ChecksRun))

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(tally)))
	b.WriteString("\n")
	if s.taxonomy != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Taxonomy: "+s.taxonomy)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFilterLine shows the active severity filter and the text filter.
func (s *ReviewScreen) renderFilterLine() string {
	var parts []string
	if sev := severityFilters[s.filterIdx]; sev != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(severityColor(sev)).Bold(true).
			Render(fmt.Sprintf("[%s only]", sev)))
	}
	if s.query.Focused() || s.query.Value() != "" {
		parts = append(parts, s.query.View())
	}
	return strings.Join(parts, "  ")
}

// renderDetail draws the expanded body of one issue.
func (s *ReviewScreen) renderDetail(is audit.Issue, pad string, inner int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(inner - 6)

	var b strings.Builder
	b.WriteString(pad + "      " + body.Render(is.Description) + "\n")
	if len(is.AffectedElements) > 0 {
		refs := make([]string, len(is.AffectedElements))
		for i, ref := range is.AffectedElements {
			if ref.Title != "" {
				refs[i] = fmt.Sprintf("%s %q", ref.Type, ref.Title)
			} else {
				refs[i] = fmt.Sprintf("%s %s", ref.Type, ref.ID)
			}
		}
		b.WriteString(pad + "      " + dim.Render(truncate("Affected: "+strings.Join(refs, "; "), inner-6)) + "\n")
	}
	if is.SuggestedFix != "" {
		b.WriteString(pad + "      " + dim.Italic(true).Render(truncate("Fix: "+is.SuggestedFix, inner-6)) + "\n")
	}
	return b.String()
}

func severityGlyph(sev audit.Severity) string {
	switch sev {
	case audit.SeverityError:
		return "✗"
	case audit.SeverityWarning:
		return "!"
	default:
		return "·"
	}
}

func severityColor(sev audit.Severity) color.Color {
	switch sev {
	case audit.SeverityError:
		return theme.Error
	case audit.SeverityWarning:
		return theme.Accent
	default:
		return theme.TextDim
	}
}

func scoreColor(score int) color.Color {
	switch {
	case score >= 90:
		return theme.Success
	case score >= 70:
		return theme.Accent
	default:
		return theme.Error
	}
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
