package audit

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// stopWords are excluded from similarity keyword sets. Fixed list: common
// English function words plus generic course vocabulary.
var stopWords = map[string]bool{
	"this": true, "that": true, "these": true, "those": true,
	"with": true, "from": true, "into": true, "about": true,
	"have": true, "will": true, "your": true, "they": true,
	"their": true, "there": true, "which": true, "when": true,
	"what": true, "where": true, "while": true, "than": true,
	"then": true, "them": true, "been": true, "being": true,
	"were": true, "does": true, "each": true, "also": true,
	"more": true, "most": true, "some": true, "such": true,
	"very": true, "over": true, "under": true, "after": true,
	"before": true, "between": true, "through": true, "during": true,
	"should": true, "would": true, "could": true, "other": true,
	"course": true, "module": true, "lesson": true, "activity": true,
	"learn": true, "learning": true, "student": true, "students": true,
}

// checkRepetition finds duplicated activity titles and near-duplicate
// activity content.
func (a *Auditor) checkRepetition() {
	acts := a.activities()

	// Duplicate titles, case-insensitive and trimmed. One warning covers all
	// duplicate groups: they are usually fixed in a single editing pass.
	groups := make(map[string][]activityCtx)
	for _, ac := range acts {
		key := strings.ToLower(strings.TrimSpace(ac.act.Title))
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], ac)
	}
	var dupKeys []string
	for key, g := range groups {
		if len(g) > 1 {
			dupKeys = append(dupKeys, key)
		}
	}
	if len(dupKeys) > 0 {
		sort.Strings(dupKeys)
		var parts []string
		var affected []ElementRef
		for _, key := range dupKeys {
			g := groups[key]
			parts = append(parts, fmt.Sprintf("%q (%d activities)", g[0].act.Title, len(g)))
			for _, ac := range g {
				affected = append(affected, refActivity(ac.act))
			}
		}
		a.report(Issue{
			CheckType:        CheckRepetition,
			Severity:         SeverityWarning,
			Title:            "Duplicated activity titles",
			Description:      fmt.Sprintf("Multiple activities share the same title: %s.", strings.Join(parts, "; ")),
			AffectedElements: affected,
			SuggestedFix:     "Rename the activities so each title is unique, or merge duplicated content.",
		})
	}

	// Near-duplicate content. Pairwise keyword overlap over activities with
	// substantial content. O(n^2), fine at course scale.
	type candidate struct {
		ctx      activityCtx
		keywords map[string]bool
	}
	var cands []candidate
	for _, ac := range acts {
		if len(ac.act.Content) <= a.cfg.SimilarityMinContentLength {
			continue
		}
		kw := keywordSet(ac.act.Content)
		if len(kw) == 0 {
			continue
		}
		cands = append(cands, candidate{ctx: ac, keywords: kw})
	}
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			sim := overlapRatio(cands[i].keywords, cands[j].keywords)
			if sim > a.cfg.SimilarityThreshold {
				a.report(Issue{
					CheckType: CheckRepetition,
					Severity:  SeverityInfo,
					Title:     "Similar activity content",
					Description: fmt.Sprintf("Activities %q and %q share %.0f%% of their keywords; their content may be redundant.",
						cands[i].ctx.act.Title, cands[j].ctx.act.Title, sim*100),
					AffectedElements: []ElementRef{refActivity(cands[i].ctx.act), refActivity(cands[j].ctx.act)},
					SuggestedFix:     "Differentiate the two activities or consolidate them into one.",
				})
			}
		}
	}
}

// keywordSet extracts the similarity fingerprint of a piece of content:
// lowercase words of four or more letters, minus stop words.
func keywordSet(content string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool)
	for _, w := range words {
		if len(w) < 4 || stopWords[w] {
			continue
		}
		set[w] = true
	}
	return set
}

// overlapRatio computes the share of the smaller keyword set that also
// appears in the larger one.
func overlapRatio(a, b map[string]bool) float64 {
	smaller, larger := a, b
	if len(b) < len(a) {
		smaller, larger = b, a
	}
	if len(smaller) == 0 {
		return 0
	}
	common := 0
	for w := range smaller {
		if larger[w] {
			common++
		}
	}
	return float64(common) / float64(len(smaller))
}
