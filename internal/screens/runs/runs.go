// Package runs implements the stored audit run browser: recent runs for one
// course or across all courses, with expandable per-run detail.
package runs

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursecheck/internal/audit"
	"github.com/abhisek/coursecheck/internal/router"
	"github.com/abhisek/coursecheck/internal/screen"
	"github.com/abhisek/coursecheck/internal/store"
	"github.com/abhisek/coursecheck/internal/ui/layout"
	"github.com/abhisek/coursecheck/internal/ui/theme"
)

// loadLimit caps how many runs the screen fetches.
const loadLimit = 50

type runsLoadedMsg struct {
	Runs []*store.Run
	Err  error
}

// RunsScreen displays stored audit runs, newest first.
type RunsScreen struct {
	repo     store.RunRepo
	courseID string // empty loads runs across all courses

	runs     []*store.Run
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*RunsScreen)(nil)
var _ screen.KeyHintProvider = (*RunsScreen)(nil)

// New creates a runs screen. A non-empty courseID restricts the listing to
// that course.
func New(repo store.RunRepo, courseID string) *RunsScreen {
	return &RunsScreen{
		repo:     repo,
		courseID: courseID,
		expanded: make(map[int]bool),
	}
}

func (s *RunsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		var (
			runs []*store.Run
			err  error
		)
		if s.courseID != "" {
			runs, err = s.repo.ForCourse(ctx, s.courseID, loadLimit)
		} else {
			runs, err = s.repo.Recent(ctx, loadLimit)
		}
		if err != nil {
			return runsLoadedMsg{Err: err}
		}
		return runsLoadedMsg{Runs: runs}
	}
}

func (s *RunsScreen) Title() string {
	return "Audit History"
}

func (s *RunsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *RunsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case runsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.runs = msg.Runs
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.runs)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.runs) > 0 {
				s.expanded[s.selected] = !s.expanded[s.selected]
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *RunsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\nFailed to load runs: " + s.errMsg)
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\nLoading...")
	}
	if len(s.runs) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\nNo audits recorded yet. Run one with: coursecheck audit <course.json> --save")
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

	var b strings.Builder
	b.WriteString("\n")

	for i, run := range s.runs {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		title := truncate(run.CourseTitle, inner-32)
		line := fmt.Sprintf("%s%s  %s  %s  %s",
			prefix,
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			scoreStyleFor(run.Score).Render(fmt.Sprintf("%3d", run.Score)),
			fmt.Sprintf("%dE/%dW/%dI", run.Errors, run.Warnings, run.Infos),
			title,
		)
		if i == s.selected {
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}
		b.WriteString(pad + line)
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderDetail(run, pad, inner))
		}
	}

	return b.String()
}

// renderDetail shows the stored result of one run: the taxonomy used, the
// checks executed, and the first few findings.
func (s *RunsScreen) renderDetail(run *store.Run, pad string, inner int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	tax := run.TaxonomyName
	if tax == "" {
		tax = run.TaxonomyID
	}
	b.WriteString(pad + "      " + dim.Render("Taxonomy: "+tax) + "\n")

	if run.Result != nil {
		checks := make([]string, len(run.Result.ChecksRun))
		for i, c := range run.Result.ChecksRun {
			checks[i] = string(c)
		}
		b.WriteString(pad + "      " + dim.Render(truncate("Checks: "+strings.Join(checks, ", "), inner-6)) + "\n")

		shown := 0
		for _, is := range run.Result.Issues {
			if shown >= 5 {
				b.WriteString(pad + "      " + dim.Italic(true).Render(
					fmt.Sprintf("... and %d more", len(run.Result.Issues)-shown)) + "\n")
				break
			}
			title := truncate(is.Title, inner-24)
			line := fmt.Sprintf("%s [%s] %s", sevStyleFor(is.Severity).Render(string(is.Severity)), is.CheckType, title)
			b.WriteString(pad + "      " + line + "\n")
			shown++
		}
	}
	return b.String()
}

func scoreStyleFor(score int) lipgloss.Style {
	switch {
	case score >= 90:
		return theme.ScoreGood
	case score >= 70:
		return theme.ScoreFair
	default:
		return theme.ScorePoor
	}
}

func sevStyleFor(sev audit.Severity) lipgloss.Style {
	switch sev {
	case audit.SeverityError:
		return theme.SevError
	case audit.SeverityWarning:
		return theme.SevWarning
	default:
		return theme.SevInfo
	}
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
