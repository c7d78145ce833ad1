package audit

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursecheck/internal/course"
)

// checkGaps reports content that is missing or unfinished: draft activities,
// modules without video, and modules without hands-on or assessed work.
func (a *Auditor) checkGaps() {
	var drafts []activityCtx
	for _, ac := range a.activities() {
		if ac.act.BuildState == course.StateDraft {
			drafts = append(drafts, ac)
		}
	}
	if len(drafts) > 0 {
		limit := a.cfg.DraftListLimit
		listed := drafts
		if len(listed) > limit {
			listed = listed[:limit]
		}
		var titles []string
		var affected []ElementRef
		for _, ac := range listed {
			titles = append(titles, fmt.Sprintf("%q", ac.act.Title))
			affected = append(affected, refActivity(ac.act))
		}
		desc := fmt.Sprintf("%d activities are still in draft state: %s", len(drafts), strings.Join(titles, ", "))
		if len(drafts) > limit {
			desc += fmt.Sprintf(" and %d more", len(drafts)-limit)
		}
		a.report(Issue{
			CheckType:        CheckGaps,
			Severity:         SeverityWarning,
			Title:            "Draft content present",
			Description:      desc + ".",
			AffectedElements: affected,
			SuggestedFix:     "Finish and review the draft activities before publishing.",
		})
	}

	for mi := range a.course.Modules {
		m := &a.course.Modules[mi]
		hasVideo := false
		hasAssessment := false
		for _, l := range m.Lessons {
			for _, act := range l.Activities {
				switch act.ContentType {
				case course.ContentVideo:
					hasVideo = true
				case course.ContentQuiz, course.ContentLab, course.ContentHOL:
					hasAssessment = true
				}
			}
		}
		if !hasVideo {
			a.report(Issue{
				CheckType:        CheckGaps,
				Severity:         SeverityInfo,
				Title:            "Module has no video",
				Description:      fmt.Sprintf("Module %q contains no video content.", m.Title),
				AffectedElements: []ElementRef{refModule(m)},
				SuggestedFix:     "Consider adding a short video to anchor the module.",
			})
		}
		if !hasAssessment {
			a.report(Issue{
				CheckType:        CheckGaps,
				Severity:         SeverityWarning,
				Title:            "Module has no knowledge check",
				Description:      fmt.Sprintf("Module %q contains no quiz, lab, or hands-on lab, so learners get no practice or feedback.", m.Title),
				AffectedElements: []ElementRef{refModule(m)},
				SuggestedFix:     "Add a quiz or a lab so learners can apply what the module taught.",
			})
		}
	}
}
