package audit

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursecheck/internal/course"
	"github.com/abhisek/coursecheck/internal/taxonomy"
)

// resolvedOutcome is an outcome whose cognitive level was resolved against
// the active taxonomy. Order is -1 when the level value is unknown; every
// comparison treats -1 as incomparable, never as "lowest".
type resolvedOutcome struct {
	outcome *course.Outcome
	value   string
	order   int
}

// checkProgression evaluates the course's learning outcomes against the
// active taxonomy. Linear taxonomies get ordering rules (regressions, a
// higher-order floor); categorical taxonomies get a diversity floor instead.
// Both finish by comparing outcome levels against the activity types mapped
// to them.
func (a *Auditor) checkProgression() {
	resolved := a.resolveOutcomes()

	if a.tax.Kind == taxonomy.KindCategorical {
		a.checkLevelDiversity(resolved)
		a.checkOutcomeActivityFit(resolved)
		return
	}

	if a.tax.RequireProgression && len(resolved) >= 2 {
		for i := 1; i < len(resolved); i++ {
			prev, curr := resolved[i-1], resolved[i]
			if prev.order < 0 || curr.order < 0 {
				continue
			}
			if prev.order-curr.order > a.tax.AllowRegressionWithin {
				a.report(Issue{
					CheckType: CheckProgression,
					Severity:  SeverityInfo,
					Title:     "Outcome sequence regresses",
					Description: fmt.Sprintf("Outcome %q (%s) drops more than %d level(s) below the preceding outcome %q (%s).",
						curr.outcome.Behavior, curr.value, a.tax.AllowRegressionWithin, prev.outcome.Behavior, prev.value),
					AffectedElements: []ElementRef{refOutcome(prev.outcome), refOutcome(curr.outcome)},
					SuggestedFix:     "Reorder the outcomes, or raise the later outcome's cognitive level.",
				})
			}
		}
	}

	if a.tax.RequireHigherOrder {
		maxOrder := -1
		for _, r := range resolved {
			if r.order > maxOrder {
				maxOrder = r.order
			}
		}
		// maxOrder of -1 means no outcome resolved at all; no data, no finding.
		if maxOrder >= 0 && maxOrder < a.tax.HigherOrderThreshold {
			var unused []string
			for _, lv := range a.tax.LevelsAbove(maxOrder) {
				unused = append(unused, lv.Name)
			}
			a.report(Issue{
				CheckType:        CheckProgression,
				Severity:         SeverityWarning,
				Title:            "No higher-order outcomes",
				Description:      fmt.Sprintf("The course's outcomes never rise above the lower cognitive levels; unused higher levels: %s.", strings.Join(unused, ", ")),
				AffectedElements: []ElementRef{refCourse(a.course)},
				SuggestedFix:     "Add outcomes that ask learners to apply, analyze, or create, not only recall.",
			})
		}
	}

	// Independent of the higher-order gate: a course that ends at a lower
	// level than it starts reads as anticlimactic.
	if len(resolved) >= 3 {
		first, last := resolved[0], resolved[len(resolved)-1]
		if first.order >= 0 && last.order >= 0 && last.order < first.order {
			a.report(Issue{
				CheckType:        CheckProgression,
				Severity:         SeverityInfo,
				Title:            "Outcomes end below their starting level",
				Description:      fmt.Sprintf("The first outcome targets %s but the final outcome only targets %s.", first.value, last.value),
				AffectedElements: []ElementRef{refOutcome(first.outcome), refOutcome(last.outcome)},
				SuggestedFix:     "Close the course with its most demanding outcome.",
			})
		}
	}

	a.checkOutcomeActivityFit(resolved)
}

// resolveOutcomes resolves each outcome's level value and order in
// declaration order. Outcomes without any level set are skipped.
func (a *Auditor) resolveOutcomes() []resolvedOutcome {
	var out []resolvedOutcome
	for oi := range a.course.Outcomes {
		o := &a.course.Outcomes[oi]
		v := o.EffectiveLevel()
		if v == "" {
			continue
		}
		out = append(out, resolvedOutcome{outcome: o, value: v, order: a.tax.LevelOrder(v)})
	}
	return out
}

// checkLevelDiversity enforces the categorical diversity floor: the course's
// outcomes must touch at least MinUniqueLevels distinct categories.
func (a *Auditor) checkLevelDiversity(resolved []resolvedOutcome) {
	if a.tax.MinUniqueLevels <= 0 {
		return
	}
	used := make(map[string]bool)
	for _, r := range resolved {
		if lv, ok := a.tax.LevelByValue(r.value); ok {
			used[strings.ToLower(lv.Value)] = true
		}
	}
	if len(used) >= a.tax.MinUniqueLevels {
		return
	}
	var uncovered []string
	for _, lv := range a.tax.Levels {
		if !used[strings.ToLower(lv.Value)] {
			uncovered = append(uncovered, lv.Name)
		}
	}
	a.report(Issue{
		CheckType: CheckProgression,
		Severity:  SeverityWarning,
		Title:     "Narrow cognitive coverage",
		Description: fmt.Sprintf("Outcomes touch %d of the taxonomy's categories (minimum %d); uncovered: %s.",
			len(used), a.tax.MinUniqueLevels, strings.Join(uncovered, ", ")),
		AffectedElements: []ElementRef{refCourse(a.course)},
		SuggestedFix:     "Spread the outcomes across more categories of the taxonomy.",
	})
}

// checkOutcomeActivityFit compares each outcome's level against the activity
// types it is mapped to. Only "activity too simple" is flagged: an activity
// whose compatible levels top out below the outcome cannot demonstrate it.
// Overqualified activities are fine and never flagged. Unknown levels and
// unmapped activity types short-circuit to no finding.
func (a *Auditor) checkOutcomeActivityFit(resolved []resolvedOutcome) {
	idx := a.activityIndex()
	for _, r := range resolved {
		if r.order < 0 {
			continue
		}
		for _, id := range r.outcome.MappedActivityIDs {
			ac, ok := idx[id]
			if !ok {
				continue
			}
			maxCompat := a.tax.MaxCompatibleOrder(ac.act.ActivityType)
			if maxCompat < 0 {
				continue
			}
			if r.order > maxCompat {
				a.report(Issue{
					CheckType: CheckProgression,
					Severity:  SeverityInfo,
					Title:     "Activity too simple for its outcome",
					Description: fmt.Sprintf("Outcome %q targets %s, but mapped activity %q is a %s, which suits lower levels only.",
						r.outcome.Behavior, r.value, ac.act.Title, ac.act.ActivityType),
					AffectedElements: []ElementRef{refOutcome(r.outcome), refActivity(ac.act)},
					SuggestedFix:     "Map the outcome to a more demanding activity type, or lower the outcome's level.",
				})
			}
		}
	}
}
