package audit

import "fmt"

// checkAlignment verifies that learning outcomes and graded activities point
// at each other: every outcome maps to activities, and every graded activity
// is claimed by some outcome.
func (a *Auditor) checkAlignment() {
	mapped := make(map[string]bool)
	for oi := range a.course.Outcomes {
		o := &a.course.Outcomes[oi]
		if len(o.MappedActivityIDs) == 0 {
			a.report(Issue{
				CheckType:        CheckAlignment,
				Severity:         SeverityWarning,
				Title:            "Outcome not mapped to activities",
				Description:      fmt.Sprintf("Learning outcome %q is not mapped to any activity, so nothing in the course demonstrably teaches it.", o.Behavior),
				AffectedElements: []ElementRef{refOutcome(o)},
				SuggestedFix:     "Map the outcome to the activities that teach and assess it.",
			})
			continue
		}
		for _, id := range o.MappedActivityIDs {
			mapped[id] = true
		}
	}

	for _, ac := range a.activities() {
		if !ac.act.ContentType.Graded() {
			continue
		}
		if mapped[ac.act.ID] {
			continue
		}
		a.report(Issue{
			CheckType:        CheckAlignment,
			Severity:         SeverityInfo,
			Title:            "Graded activity outside outcome mappings",
			Description:      fmt.Sprintf("Graded activity %q is not referenced by any learning outcome.", ac.act.Title),
			AffectedElements: []ElementRef{refActivity(ac.act)},
			SuggestedFix:     "Map the activity to the outcome it assesses, or reconsider why it is graded.",
		})
	}
}
