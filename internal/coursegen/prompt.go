package coursegen

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursecheck/internal/taxonomy"
)

const outlineSystemPrompt = `You are an experienced instructional designer drafting course outlines. You produce well-structured, pedagogically sound drafts that human course authors then refine.`

func buildOutlineUserMessage(input OutlineInput, tx *taxonomy.Taxonomy) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %s\n", input.Topic))
	if input.Audience != "" {
		b.WriteString(fmt.Sprintf("Audience: %s\n", input.Audience))
	}
	if input.TargetDurationMinutes > 0 {
		b.WriteString(fmt.Sprintf("Target total duration: %d minutes\n", input.TargetDurationMinutes))
	}

	b.WriteString(fmt.Sprintf("\nCognitive framework: %s\n", tx.Name))
	b.WriteString("Levels (cognitive_level must be one of these values):\n")
	for _, lv := range tx.Levels {
		b.WriteString(fmt.Sprintf("- %s: %s", lv.Value, lv.Description))
		if len(lv.Verbs) > 0 {
			b.WriteString(fmt.Sprintf(" (verbs: %s)", strings.Join(lv.Verbs, ", ")))
		}
		b.WriteString("\n")
	}

	moduleCount := "3-5 modules"
	if input.Modules > 0 {
		moduleCount = fmt.Sprintf("exactly %d modules", input.Modules)
	}

	b.WriteString(fmt.Sprintf(`
Instructions:
Create a draft course outline that:
1. Contains %s, each with 2-3 lessons of 2-4 activities.
2. Gives every activity a short lowercase id (letters, digits, hyphens), unique across the whole course.
3. Uses prerequisite_ids only for hard dependencies, and only references ids of activities that appear earlier in the outline.
4. Mixes content types across the course and includes graded work (quiz, assignment, or project).
5. Keeps estimated_duration_minutes between 5 and 45 per activity.
6. States 3-6 learning outcomes as observable behaviors and maps each to the ids of the activities that teach it.
7. Writes each activity content summary so it stands alone. Never refer to other modules or lessons by number.
`, moduleCount))

	if tx.RequireProgression {
		b.WriteString("8. Orders activities so cognitive levels progress from lower to higher across the course, allowing small local dips.\n")
	} else if tx.MinUniqueLevels > 1 {
		b.WriteString(fmt.Sprintf("8. Covers at least %d distinct cognitive levels across the course.\n", tx.MinUniqueLevels))
	}

	return b.String()
}
