package course

import (
	"fmt"
	"strings"
)

// ContentType describes the media/delivery format of an activity.
type ContentType string

const (
	ContentVideo      ContentType = "video"
	ContentReading    ContentType = "reading"
	ContentQuiz       ContentType = "quiz"
	ContentLab        ContentType = "lab"
	ContentHOL        ContentType = "hol" // hands-on lab in a hosted environment
	ContentAssignment ContentType = "assignment"
	ContentProject    ContentType = "project"
	ContentDiscussion ContentType = "discussion"
)

// AllContentTypes returns all content types in display order.
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentVideo,
		ContentReading,
		ContentQuiz,
		ContentLab,
		ContentHOL,
		ContentAssignment,
		ContentProject,
		ContentDiscussion,
	}
}

// Graded reports whether the content type carries a grade.
func (ct ContentType) Graded() bool {
	switch ct {
	case ContentQuiz, ContentAssignment, ContentProject:
		return true
	default:
		return false
	}
}

// ActivityType describes the instructional role of an activity.
type ActivityType string

const (
	ActivityLecture             ActivityType = "lecture"
	ActivityDemonstration       ActivityType = "demonstration"
	ActivityGuidedPractice      ActivityType = "guided-practice"
	ActivityIndependentPractice ActivityType = "independent-practice"
	ActivityDiscussion          ActivityType = "discussion"
	ActivityCaseStudy           ActivityType = "case-study"
	ActivitySimulation          ActivityType = "simulation"
	ActivityAssessment          ActivityType = "assessment"
	ActivityPeerReview          ActivityType = "peer-review"
	ActivityCapstone            ActivityType = "capstone"
)

// AllActivityTypes returns all activity types in display order.
func AllActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityLecture,
		ActivityDemonstration,
		ActivityGuidedPractice,
		ActivityIndependentPractice,
		ActivityDiscussion,
		ActivityCaseStudy,
		ActivitySimulation,
		ActivityAssessment,
		ActivityPeerReview,
		ActivityCapstone,
	}
}

// BuildState is an activity's content-production lifecycle stage.
type BuildState string

const (
	StateDraft     BuildState = "draft"
	StateInReview  BuildState = "in-review"
	StatePublished BuildState = "published"
)

// AllBuildStates returns all build states in lifecycle order.
func AllBuildStates() []BuildState {
	return []BuildState{StateDraft, StateInReview, StatePublished}
}

// Course is the root of a course content tree. The audit engine treats the
// whole tree as read-only input.
type Course struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Description           string    `json:"description,omitempty"`
	TargetDurationMinutes int       `json:"target_duration_minutes,omitempty"`
	Modules               []Module  `json:"modules"`
	Outcomes              []Outcome `json:"learning_outcomes,omitempty"`
}

// Module groups lessons under one teaching unit.
type Module struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson groups activities.
type Lesson struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

// Activity is a single piece of learnable content.
type Activity struct {
	ID                       string       `json:"id"`
	Title                    string       `json:"title"`
	ContentType              ContentType  `json:"content_type"`
	ActivityType             ActivityType `json:"activity_type"`
	CognitiveLevel           string       `json:"cognitive_level,omitempty"`
	BloomLevel               string       `json:"bloom_level,omitempty"` // legacy field, read when CognitiveLevel is unset
	BuildState               BuildState   `json:"build_state,omitempty"`
	EstimatedDurationMinutes int          `json:"estimated_duration_minutes,omitempty"`
	PrerequisiteIDs          []string     `json:"prerequisite_ids,omitempty"`
	PhaseHint                string       `json:"phase_hint,omitempty"`
	Content                  string       `json:"content,omitempty"`
}

// Outcome is a learning outcome the course promises, optionally mapped to the
// activities that teach it.
type Outcome struct {
	ID                string   `json:"id"`
	Behavior          string   `json:"behavior"`
	CognitiveLevel    string   `json:"cognitive_level,omitempty"`
	BloomLevel        string   `json:"bloom_level,omitempty"`
	MappedActivityIDs []string `json:"mapped_activity_ids,omitempty"`
}

// EffectiveLevel resolves the activity's cognitive level, preferring the
// modern field over the legacy bloom field. Empty means unset.
func (a Activity) EffectiveLevel() string {
	if a.CognitiveLevel != "" {
		return a.CognitiveLevel
	}
	return a.BloomLevel
}

// EffectiveLevel resolves the outcome's cognitive level, preferring the
// modern field over the legacy bloom field. Empty means unset.
func (o Outcome) EffectiveLevel() string {
	if o.CognitiveLevel != "" {
		return o.CognitiveLevel
	}
	return o.BloomLevel
}

// ActivityCount returns the number of activities in the module.
func (m Module) ActivityCount() int {
	n := 0
	for _, l := range m.Lessons {
		n += len(l.Activities)
	}
	return n
}

// DurationMinutes sums the estimated duration of every activity in the module.
func (m Module) DurationMinutes() int {
	total := 0
	for _, l := range m.Lessons {
		for _, a := range l.Activities {
			total += a.EstimatedDurationMinutes
		}
	}
	return total
}

// ActivityCount returns the number of activities in the course.
func (c *Course) ActivityCount() int {
	n := 0
	for _, m := range c.Modules {
		n += m.ActivityCount()
	}
	return n
}

// TotalDurationMinutes sums the estimated duration of every activity.
func (c *Course) TotalDurationMinutes() int {
	total := 0
	for _, m := range c.Modules {
		total += m.DurationMinutes()
	}
	return total
}

// normalize lowercases enum-valued fields and trims stray whitespace so that
// hand-authored JSON compares cleanly. Called on every parse.
func (c *Course) normalize() {
	c.ID = strings.TrimSpace(c.ID)
	c.Title = strings.TrimSpace(c.Title)
	for mi := range c.Modules {
		m := &c.Modules[mi]
		m.ID = strings.TrimSpace(m.ID)
		m.Title = strings.TrimSpace(m.Title)
		for li := range m.Lessons {
			l := &m.Lessons[li]
			l.ID = strings.TrimSpace(l.ID)
			l.Title = strings.TrimSpace(l.Title)
			for ai := range l.Activities {
				a := &l.Activities[ai]
				a.ID = strings.TrimSpace(a.ID)
				a.Title = strings.TrimSpace(a.Title)
				a.ContentType = ContentType(normToken(string(a.ContentType)))
				a.ActivityType = ActivityType(normToken(string(a.ActivityType)))
				a.BuildState = BuildState(normToken(string(a.BuildState)))
				a.CognitiveLevel = normToken(a.CognitiveLevel)
				a.BloomLevel = normToken(a.BloomLevel)
				a.PhaseHint = normToken(a.PhaseHint)
			}
		}
	}
	for oi := range c.Outcomes {
		o := &c.Outcomes[oi]
		o.ID = strings.TrimSpace(o.ID)
		o.Behavior = strings.TrimSpace(o.Behavior)
		o.CognitiveLevel = normToken(o.CognitiveLevel)
		o.BloomLevel = normToken(o.BloomLevel)
	}
}

func normToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// validate performs semantic checks a JSON schema cannot express: enum
// membership after case normalization and activity ID uniqueness. Structural
// quality problems (empty modules, dangling prerequisites, cycles) are audit
// findings, not load errors, and are deliberately not rejected here.
// Returns a combined error describing all problems found, or nil if valid.
func (c *Course) validate() error {
	var errs []string

	contentTypes := make(map[ContentType]bool)
	for _, ct := range AllContentTypes() {
		contentTypes[ct] = true
	}
	activityTypes := make(map[ActivityType]bool)
	for _, at := range AllActivityTypes() {
		activityTypes[at] = true
	}
	buildStates := make(map[BuildState]bool)
	for _, bs := range AllBuildStates() {
		buildStates[bs] = true
	}
	phaseHints := map[string]bool{"why": true, "what": true, "how": true, "apply": true, "assess": true}

	seen := make(map[string]bool)
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			for _, a := range l.Activities {
				if seen[a.ID] {
					errs = append(errs, fmt.Sprintf("duplicate activity ID: %q", a.ID))
				}
				seen[a.ID] = true
				if !contentTypes[a.ContentType] {
					errs = append(errs, fmt.Sprintf("activity %q: unknown content type %q", a.ID, a.ContentType))
				}
				if !activityTypes[a.ActivityType] {
					errs = append(errs, fmt.Sprintf("activity %q: unknown activity type %q", a.ID, a.ActivityType))
				}
				if a.BuildState != "" && !buildStates[a.BuildState] {
					errs = append(errs, fmt.Sprintf("activity %q: unknown build state %q", a.ID, a.BuildState))
				}
				if a.PhaseHint != "" && !phaseHints[a.PhaseHint] {
					errs = append(errs, fmt.Sprintf("activity %q: unknown phase hint %q", a.ID, a.PhaseHint))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("course document invalid:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
