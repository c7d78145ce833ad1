package audit

// CheckType names one of the audit checks.
type CheckType string

const (
	CheckFlow         CheckType = "flow"
	CheckRepetition   CheckType = "repetition"
	CheckAlignment    CheckType = "alignment"
	CheckGaps         CheckType = "gaps"
	CheckDuration     CheckType = "duration"
	CheckProgression  CheckType = "progression"
	CheckSequential   CheckType = "sequential"
	CheckWWHAA        CheckType = "wwhaa"
	CheckDistribution CheckType = "distribution"
)

// AllCheckTypes returns every check in execution order. The order is fixed so
// repeated runs of an unmodified course produce identical results.
func AllCheckTypes() []CheckType {
	return []CheckType{
		CheckFlow,
		CheckRepetition,
		CheckAlignment,
		CheckGaps,
		CheckDuration,
		CheckProgression,
		CheckSequential,
		CheckWWHAA,
		CheckDistribution,
	}
}

// Severity ranks how strongly an issue should gate publishing.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Status tracks an issue through triage. The engine always emits open issues;
// the other states belong to reviewers.
type Status string

const (
	StatusOpen         Status = "open"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
)

// ElementType tags which kind of course element an ElementRef points at.
type ElementType string

const (
	ElementCourse   ElementType = "course"
	ElementModule   ElementType = "module"
	ElementLesson   ElementType = "lesson"
	ElementActivity ElementType = "activity"
	ElementOutcome  ElementType = "outcome"
)

// ElementRef is a non-owning reference to a course element: identifiers only,
// never live pointers, so issues stay serializable after the element is
// edited or deleted.
type ElementRef struct {
	Type  ElementType `json:"type"`
	ID    string      `json:"id"`
	Title string      `json:"title,omitempty"`
}

// Issue is one audit finding.
type Issue struct {
	CheckType        CheckType    `json:"check_type"`
	Severity         Severity     `json:"severity"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	AffectedElements []ElementRef `json:"affected_elements,omitempty"`
	SuggestedFix     string       `json:"suggested_fix,omitempty"`
	Status           Status       `json:"status"`
}

// Result is the outcome of one engine invocation. It is a plain value object:
// the engine never stores it anywhere.
type Result struct {
	CourseID     string      `json:"course_id"`
	TaxonomyID   string      `json:"taxonomy_id"`
	ChecksRun    []CheckType `json:"checks_run"`
	Issues       []Issue     `json:"issues"`
	Score        int         `json:"score"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	InfoCount    int         `json:"info_count"`
}

// Score weights. A simple weighted-defect heuristic, not a statistical model.
const (
	penaltyError   = 15
	penaltyWarning = 5
	penaltyInfo    = 1
)

// scoreFor computes the 0-100 quality score from severity counts.
func scoreFor(errors, warnings, infos int) int {
	score := 100 - penaltyError*errors - penaltyWarning*warnings - penaltyInfo*infos
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
