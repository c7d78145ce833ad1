package audit

import "fmt"

// checkDuration flags modules whose duration is far off the course mean.
// A lopsided module usually means content belongs elsewhere.
func (a *Auditor) checkDuration() {
	n := len(a.course.Modules)
	if n == 0 {
		return
	}
	total := 0
	for _, m := range a.course.Modules {
		total += m.DurationMinutes()
	}
	mean := float64(total) / float64(n)

	for mi := range a.course.Modules {
		m := &a.course.Modules[mi]
		d := float64(m.DurationMinutes())
		switch {
		case d < a.cfg.ShortModuleRatio*mean:
			a.report(Issue{
				CheckType:        CheckDuration,
				Severity:         SeverityWarning,
				Title:            "Module much shorter than average",
				Description:      fmt.Sprintf("Module %q runs %.0f minutes against a course average of %.0f; it may be underdeveloped.", m.Title, d, mean),
				AffectedElements: []ElementRef{refModule(m)},
				SuggestedFix:     "Expand the module or fold its content into a neighboring module.",
			})
		case d > a.cfg.LongModuleRatio*mean:
			a.report(Issue{
				CheckType:        CheckDuration,
				Severity:         SeverityWarning,
				Title:            "Module much longer than average",
				Description:      fmt.Sprintf("Module %q runs %.0f minutes against a course average of %.0f; it may overload learners.", m.Title, d, mean),
				AffectedElements: []ElementRef{refModule(m)},
				SuggestedFix:     "Split the module or move some activities into other modules.",
			})
		}
	}
}
