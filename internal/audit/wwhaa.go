package audit

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursecheck/internal/course"
)

// Phase is a WWHAA (Why/What/How/Apply/Assess) pedagogical phase.
type Phase string

const (
	PhaseWhy    Phase = "why"
	PhaseWhat   Phase = "what"
	PhaseHow    Phase = "how"
	PhaseApply  Phase = "apply"
	PhaseAssess Phase = "assess"
)

// phaseRule classifies an activity into a phase. Rules are evaluated in
// order and the first match wins; an empty field matches anything. An
// explicit phase hint on the activity overrides the table entirely.
type phaseRule struct {
	content  course.ContentType
	activity course.ActivityType
	phase    Phase
}

// phaseRules is the classification table, most specific rules first.
// Content type is the primary key; activity type breaks ties.
var phaseRules = []phaseRule{
	{content: course.ContentQuiz, phase: PhaseAssess},
	{content: course.ContentAssignment, phase: PhaseAssess},
	{content: course.ContentLab, phase: PhaseApply},
	{content: course.ContentHOL, phase: PhaseApply},
	{content: course.ContentProject, phase: PhaseApply},
	{content: course.ContentVideo, activity: course.ActivityDemonstration, phase: PhaseHow},
	{content: course.ContentVideo, activity: course.ActivityGuidedPractice, phase: PhaseHow},
	{content: course.ContentVideo, phase: PhaseWhat},
	{content: course.ContentReading, activity: course.ActivityCaseStudy, phase: PhaseWhy},
	{content: course.ContentReading, phase: PhaseWhat},
	{content: course.ContentDiscussion, phase: PhaseWhy},
	// Fallbacks on activity type alone, for content the rules above missed.
	{activity: course.ActivityAssessment, phase: PhaseAssess},
	{activity: course.ActivityPeerReview, phase: PhaseAssess},
	{activity: course.ActivityIndependentPractice, phase: PhaseApply},
	{activity: course.ActivitySimulation, phase: PhaseApply},
	{activity: course.ActivityCapstone, phase: PhaseApply},
	{activity: course.ActivityGuidedPractice, phase: PhaseHow},
	{activity: course.ActivityDemonstration, phase: PhaseHow},
	{activity: course.ActivityDiscussion, phase: PhaseWhy},
	{activity: course.ActivityLecture, phase: PhaseWhat},
}

// typicalContent lists the content types normally used for each phase.
// Activities classified into a phase through a hint or their activity type
// get an INFO when their content type falls outside this set.
var typicalContent = map[Phase][]course.ContentType{
	PhaseWhy:    {course.ContentDiscussion, course.ContentVideo, course.ContentReading},
	PhaseWhat:   {course.ContentVideo, course.ContentReading},
	PhaseHow:    {course.ContentVideo, course.ContentReading},
	PhaseApply:  {course.ContentLab, course.ContentHOL, course.ContentProject, course.ContentAssignment},
	PhaseAssess: {course.ContentQuiz, course.ContentAssignment, course.ContentProject},
}

// classifyPhase resolves an activity's WWHAA phase, or "" when nothing
// matches.
func classifyPhase(act *course.Activity) Phase {
	if act.PhaseHint != "" {
		return Phase(act.PhaseHint)
	}
	for _, r := range phaseRules {
		if r.content != "" && r.content != act.ContentType {
			continue
		}
		if r.activity != "" && r.activity != act.ActivityType {
			continue
		}
		return r.phase
	}
	return ""
}

// checkWWHAA verifies each module's pedagogical sequence: the essential
// WHAT and APPLY phases must be present, and each activity's content type
// should suit its classified phase.
func (a *Auditor) checkWWHAA() {
	for mi := range a.course.Modules {
		m := &a.course.Modules[mi]
		present := make(map[Phase]bool)
		for li := range m.Lessons {
			l := &m.Lessons[li]
			for ai := range l.Activities {
				act := &l.Activities[ai]
				phase := classifyPhase(act)
				if phase == "" {
					continue
				}
				present[phase] = true
				if !contentTypical(phase, act.ContentType) {
					a.report(Issue{
						CheckType:        CheckWWHAA,
						Severity:         SeverityInfo,
						Title:            "Content type unusual for phase",
						Description:      fmt.Sprintf("Activity %q plays the %q phase but is delivered as %s, which is unusual for that phase.", act.Title, phase, act.ContentType),
						AffectedElements: []ElementRef{refActivity(act)},
						SuggestedFix:     "Reconsider the content format, or adjust the activity's phase hint.",
					})
				}
			}
		}

		var missing []string
		for _, essential := range []Phase{PhaseWhat, PhaseApply} {
			if !present[essential] {
				missing = append(missing, string(essential))
			}
		}
		if len(missing) > 0 {
			a.report(Issue{
				CheckType:        CheckWWHAA,
				Severity:         SeverityWarning,
				Title:            "Missing essential phases",
				Description:      fmt.Sprintf("Module %q has no activity covering the essential phase(s): %s.", m.Title, strings.Join(missing, ", ")),
				AffectedElements: []ElementRef{refModule(m)},
				SuggestedFix:     "Add activities that teach the concept (what) and let learners practice it (apply).",
			})
		}
	}
}

func contentTypical(phase Phase, ct course.ContentType) bool {
	for _, t := range typicalContent[phase] {
		if t == ct {
			return true
		}
	}
	return false
}
