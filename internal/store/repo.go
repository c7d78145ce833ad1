package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/coursecheck/internal/audit"
	"github.com/abhisek/coursecheck/internal/course"
	"github.com/abhisek/coursecheck/internal/taxonomy"
)

// Sentinel errors returned by repositories. Callers match them with
// errors.Is.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPreset indicates an attempt to save or delete a preset taxonomy.
	// Presets ship with the binary and are reseeded on every open; the only
	// way to customize one is Duplicate.
	ErrPreset = errors.New("preset taxonomies are read-only")
)

// TaxonomyRepo manages stored taxonomies: the five shipped presets plus any
// user-defined ones.
type TaxonomyRepo interface {
	// Load returns the taxonomy with the given ID, or ErrNotFound.
	Load(ctx context.Context, id string) (*taxonomy.Taxonomy, error)

	// Save validates and upserts a user taxonomy. Presets are rejected with
	// ErrPreset.
	Save(ctx context.Context, t *taxonomy.Taxonomy) error

	// Delete removes a user taxonomy. Presets are rejected with ErrPreset;
	// a missing ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// ListAll returns every stored taxonomy, presets first, then
	// alphabetically by name.
	ListAll(ctx context.Context) ([]*taxonomy.Taxonomy, error)

	// Duplicate deep-copies the taxonomy with the given ID under a new name,
	// assigning fresh IDs throughout. The copy is always a user taxonomy,
	// even when the source is a preset. An empty name derives one from the
	// source.
	Duplicate(ctx context.Context, id, name string) (*taxonomy.Taxonomy, error)

	// GetDefault returns Bloom's taxonomy, re-seeding its row first if it
	// has gone missing.
	GetDefault(ctx context.Context) (*taxonomy.Taxonomy, error)
}

// CourseSummary is the listing row for a stored course. Counts are
// denormalized at save time so List never decodes course documents.
type CourseSummary struct {
	ID              string
	Title           string
	Modules         int
	Activities      int
	DurationMinutes int
	ImportedAt      time.Time
	UpdatedAt       time.Time
}

// CourseRepo manages imported course documents.
type CourseRepo interface {
	// Save upserts a course document keyed by its ID.
	Save(ctx context.Context, c *course.Course) error

	// Load returns the course with the given ID, or ErrNotFound.
	Load(ctx context.Context, id string) (*course.Course, error)

	// List returns summaries of all stored courses, alphabetical by title.
	List(ctx context.Context) ([]CourseSummary, error)

	// Delete removes a course, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// Run is one recorded audit: identifying metadata, the severity tally, and
// the full result document.
type Run struct {
	ID           int64
	CourseID     string
	CourseTitle  string
	TaxonomyID   string
	TaxonomyName string
	Score        int
	Errors       int
	Warnings     int
	Infos        int
	Result       *audit.Result
	CreatedAt    time.Time
}

// RunRepo records audit runs. The audit engine itself never persists
// anything; callers append results here after a run completes.
type RunRepo interface {
	// Append stores a run and fills in its ID and creation time.
	Append(ctx context.Context, run *Run) error

	// Recent returns the newest runs, most recent first. limit <= 0 means
	// no limit.
	Recent(ctx context.Context, limit int) ([]*Run, error)

	// ForCourse returns the newest runs for one course, most recent first.
	ForCourse(ctx context.Context, courseID string, limit int) ([]*Run, error)

	// Get returns a single run by ID, or ErrNotFound.
	Get(ctx context.Context, id int64) (*Run, error)
}

// LLMRequestData captures one LLM API call for the request log.
type LLMRequestData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequest is a stored LLM request log row.
type LLMRequest struct {
	ID        int64
	CreatedAt time.Time
	LLMRequestData
}

// LLMPurposeUsage aggregates call counts and token totals for one purpose.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// LLMModelUsage aggregates call counts and token totals for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// LLMLogRepo provides append and query access to the LLM request log.
type LLMLogRepo interface {
	// Append records an LLM API call.
	Append(ctx context.Context, data LLMRequestData) error

	// Recent returns the newest log rows, most recent first. limit <= 0
	// means no limit.
	Recent(ctx context.Context, limit int) ([]*LLMRequest, error)

	// Get returns a single log row by ID, or ErrNotFound.
	Get(ctx context.Context, id int64) (*LLMRequest, error)

	// UsageByPurpose aggregates usage per purpose, sorted by purpose.
	UsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)

	// UsageByModel aggregates usage per model, sorted by model.
	UsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
