package audit

import (
	"fmt"
	"regexp"
)

// sequentialPattern is one phrasing that couples an activity to the course's
// current ordering. Such phrases break when modules are reordered, reused in
// another course, or served out of sequence by adaptive paths.
type sequentialPattern struct {
	re    *regexp.Regexp
	label string
}

// sequentialPatterns is the fixed pattern table. All matching is
// case-insensitive against raw activity content.
var sequentialPatterns = []sequentialPattern{
	{regexp.MustCompile(`(?i)in the (?:previous|last) (?:video|lesson|module|section|activity|unit)`), "reference to a previous item"},
	{regexp.MustCompile(`(?i)in the next (?:video|lesson|module|section|activity|unit)`), "reference to a following item"},
	{regexp.MustCompile(`(?i)as (?:we|you) (?:discussed|saw|covered|learned) (?:in|during) (?:module|lesson|unit|week) \d+`), "reference to a numbered item"},
	{regexp.MustCompile(`(?i)in (?:module|lesson|unit|week) \d+,? (?:we|you)`), "reference to a numbered item"},
	{regexp.MustCompile(`(?i)(?:see|refer to) (?:module|lesson|unit|chapter) \d+`), "cross-reference by number"},
	{regexp.MustCompile(`(?i)(?:earlier|previously) in this (?:course|module|unit)`), "reference to earlier material"},
	{regexp.MustCompile(`(?i)later in this (?:course|module|unit)`), "reference to later material"},
	{regexp.MustCompile(`(?i)as mentioned (?:earlier|before|previously)`), "reference to earlier material"},
	{regexp.MustCompile(`(?i)(?:going|referring) back to the (?:previous|earlier|last)`), "reference to earlier material"},
	{regexp.MustCompile(`(?i)as (?:we|you) will see (?:later|next|shortly)`), "forward reference"},
	{regexp.MustCompile(`(?i)(?:recall|remember) from (?:the )?(?:previous|last|earlier)`), "reference to earlier material"},
}

// checkSequential flags content whose wording hard-codes the course order.
func (a *Auditor) checkSequential() {
	for _, ac := range a.activities() {
		if ac.act.Content == "" {
			continue
		}
		for _, p := range sequentialPatterns {
			for _, match := range p.re.FindAllString(ac.act.Content, -1) {
				a.report(Issue{
					CheckType:        CheckSequential,
					Severity:         SeverityWarning,
					Title:            "Order-dependent wording",
					Description:      fmt.Sprintf("Activity %q contains a %s (%q), which breaks if the course is reordered or content reused.", ac.act.Title, p.label, match),
					AffectedElements: []ElementRef{refActivity(ac.act)},
					SuggestedFix:     "Rephrase so the content stands alone, or link to the referenced item explicitly.",
				})
			}
		}
	}
}
