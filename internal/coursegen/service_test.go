package coursegen

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/coursecheck/internal/audit"
	"github.com/abhisek/coursecheck/internal/course"
	"github.com/abhisek/coursecheck/internal/llm"
	"github.com/abhisek/coursecheck/internal/taxonomy"
)

func validOutlineJSON() json.RawMessage {
	return json.RawMessage(`{
		"title": "Practical Go Concurrency",
		"description": "Goroutines, channels, and the patterns that keep them safe.",
		"modules": [
			{
				"title": "Goroutine Fundamentals",
				"lessons": [
					{
						"title": "Starting and Stopping Goroutines",
						"activities": [
							{
								"id": "gr-intro",
								"title": "Why concurrency matters in Go",
								"content_type": "video",
								"activity_type": "lecture",
								"cognitive_level": "understand",
								"estimated_duration_minutes": 10,
								"prerequisite_ids": [],
								"content": "Motivates goroutines by profiling a slow sequential crawler."
							},
							{
								"id": "gr-lab",
								"title": "Launch your first goroutines",
								"content_type": "lab",
								"activity_type": "guided-practice",
								"cognitive_level": "apply",
								"estimated_duration_minutes": 20,
								"prerequisite_ids": ["gr-intro"],
								"content": "Hands-on lab spawning goroutines and waiting with a WaitGroup."
							}
						]
					}
				]
			},
			{
				"title": "Channels in Practice",
				"lessons": [
					{
						"title": "Channel Patterns",
						"activities": [
							{
								"id": "ch-quiz",
								"title": "Channel semantics check",
								"content_type": "quiz",
								"activity_type": "assessment",
								"cognitive_level": "analyze",
								"estimated_duration_minutes": 15,
								"prerequisite_ids": ["gr-lab"],
								"content": "Short quiz on buffered versus unbuffered channel behavior."
							}
						]
					}
				]
			}
		],
		"learning_outcomes": [
			{
				"behavior": "Explain when goroutines improve throughput",
				"cognitive_level": "understand",
				"mapped_activity_ids": ["gr-intro"]
			},
			{
				"behavior": "Coordinate goroutines with channels and WaitGroups",
				"cognitive_level": "apply",
				"mapped_activity_ids": ["gr-lab", "ch-quiz"]
			}
		]
	}`)
}

func newTestService(t *testing.T, responses ...llm.MockResponse) (*Service, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	return NewService(mock, taxonomy.Default(), DefaultConfig()), mock
}

func TestService_GeneratesDraft(t *testing.T) {
	svc, mock := newTestService(t, llm.MockResponse{Content: validOutlineJSON()})

	input := OutlineInput{
		Topic:                 "Go concurrency",
		Audience:              "working engineers new to Go",
		TargetDurationMinutes: 120,
	}
	c, err := svc.Generate(t.Context(), input)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if c.ID == "" {
		t.Error("expected a minted course ID")
	}
	if c.Title != "Practical Go Concurrency" {
		t.Errorf("expected fixture title, got %q", c.Title)
	}
	if c.TargetDurationMinutes != 120 {
		t.Errorf("expected target duration 120, got %d", c.TargetDurationMinutes)
	}
	if len(c.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(c.Modules))
	}
	if c.Modules[0].ID != "m1" || c.Modules[1].ID != "m2" {
		t.Errorf("expected positional module IDs, got %q and %q", c.Modules[0].ID, c.Modules[1].ID)
	}
	if c.Modules[1].Lessons[0].ID != "m2-l1" {
		t.Errorf("expected positional lesson ID m2-l1, got %q", c.Modules[1].Lessons[0].ID)
	}
	if c.ActivityCount() != 3 {
		t.Errorf("expected 3 activities, got %d", c.ActivityCount())
	}
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			for _, a := range l.Activities {
				if a.BuildState != course.StateDraft {
					t.Errorf("activity %s: expected draft state, got %q", a.ID, a.BuildState)
				}
			}
		}
	}
	lab := c.Modules[0].Lessons[0].Activities[1]
	if len(lab.PrerequisiteIDs) != 1 || lab.PrerequisiteIDs[0] != "gr-intro" {
		t.Errorf("expected preserved prerequisite, got %v", lab.PrerequisiteIDs)
	}

	if len(c.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(c.Outcomes))
	}
	if c.Outcomes[0].ID != "o1" || c.Outcomes[1].ID != "o2" {
		t.Errorf("expected positional outcome IDs, got %q and %q", c.Outcomes[0].ID, c.Outcomes[1].ID)
	}
	if len(c.Outcomes[1].MappedActivityIDs) != 2 {
		t.Errorf("expected preserved outcome mapping, got %v", c.Outcomes[1].MappedActivityIDs)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema == nil || req.Schema.Name != "course-outline-bloom" {
		t.Error("expected schema name 'course-outline-bloom'")
	}
	if req.MaxTokens != DefaultConfig().MaxTokens {
		t.Errorf("expected configured max tokens, got %d", req.MaxTokens)
	}
	if !strings.Contains(req.Messages[0].Content, "Topic: Go concurrency") {
		t.Error("expected topic in user message")
	}
	if !strings.Contains(req.Messages[0].Content, "- create:") {
		t.Error("expected taxonomy levels listed in user message")
	}
}

func TestService_DraftIsImmediatelyAuditable(t *testing.T) {
	svc, _ := newTestService(t, llm.MockResponse{Content: validOutlineJSON()})

	c, err := svc.Generate(t.Context(), OutlineInput{Topic: "Go concurrency"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	auditor, err := audit.New(c, taxonomy.Default(), audit.DefaultConfig())
	if err != nil {
		t.Fatalf("audit.New: %v", err)
	}
	result := auditor.RunAllChecks()

	// A well-formed draft has no structural errors. The draft build state
	// itself still surfaces as a warning.
	for _, is := range result.Issues {
		if is.Severity == audit.SeverityError {
			t.Errorf("unexpected error finding in fresh draft: %s", is.Title)
		}
	}
}

func TestService_TopicRequired(t *testing.T) {
	svc, mock := newTestService(t, llm.MockResponse{Content: validOutlineJSON()})

	if _, err := svc.Generate(t.Context(), OutlineInput{Topic: "   "}); err == nil {
		t.Fatal("expected error for empty topic")
	}
	if mock.CallCount() != 0 {
		t.Errorf("expected no provider calls, got %d", mock.CallCount())
	}
}

func TestService_DedupesRepeatedActivityIDs(t *testing.T) {
	svc, _ := newTestService(t, llm.MockResponse{Content: json.RawMessage(`{
		"title": "Intro to SQL",
		"description": "Queries from scratch.",
		"modules": [
			{
				"title": "Queries",
				"lessons": [
					{
						"title": "SELECT Basics",
						"activities": [
							{"id": "intro", "title": "Reading rows", "content_type": "video", "activity_type": "lecture", "cognitive_level": "remember", "estimated_duration_minutes": 10, "prerequisite_ids": [], "content": "Tour of SELECT and FROM."},
							{"id": "intro", "title": "Filtering rows", "content_type": "reading", "activity_type": "lecture", "cognitive_level": "understand", "estimated_duration_minutes": 10, "prerequisite_ids": [], "content": "WHERE clauses and predicates."},
							{"id": "", "title": "First queries", "content_type": "lab", "activity_type": "guided-practice", "cognitive_level": "apply", "estimated_duration_minutes": 15, "prerequisite_ids": ["intro"], "content": "Write SELECT statements against a sample schema."}
						]
					}
				]
			}
		],
		"learning_outcomes": [
			{"behavior": "Write basic SELECT queries", "cognitive_level": "apply", "mapped_activity_ids": ["intro"]}
		]
	}`)})

	c, err := svc.Generate(t.Context(), OutlineInput{Topic: "SQL"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	acts := c.Modules[0].Lessons[0].Activities
	if len(acts) != 3 {
		t.Fatalf("expected 3 activities, got %d", len(acts))
	}
	if acts[0].ID != "intro" {
		t.Errorf("expected first occurrence to keep its id, got %q", acts[0].ID)
	}
	if acts[1].ID != "intro-2" {
		t.Errorf("expected reused id to gain a counter suffix, got %q", acts[1].ID)
	}
	if len(acts[2].ID) != 36 {
		t.Errorf("expected a UUID for the empty id, got %q", acts[2].ID)
	}
}

func TestService_ProviderError(t *testing.T) {
	svc, _ := newTestService(t, llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	_, err := svc.Generate(t.Context(), OutlineInput{Topic: "Go concurrency"})
	if err == nil {
		t.Fatal("expected error")
	}
	var unavailable *llm.ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("expected wrapped ErrProviderUnavailable, got %v", err)
	}
}

func TestService_RejectsInvalidDraft(t *testing.T) {
	svc, _ := newTestService(t, llm.MockResponse{Content: json.RawMessage(`{
		"title": "Broken",
		"description": "",
		"modules": [
			{
				"title": "Only Module",
				"lessons": [
					{
						"title": "Only Lesson",
						"activities": [
							{"id": "a1", "title": "Bad type", "content_type": "webinar", "activity_type": "lecture", "cognitive_level": "remember", "estimated_duration_minutes": 10, "prerequisite_ids": [], "content": "Uses a content type the format does not define."}
						]
					}
				]
			}
		],
		"learning_outcomes": []
	}`)})

	_, err := svc.Generate(t.Context(), OutlineInput{Topic: "Anything"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "webinar") {
		t.Errorf("expected error to name the bad content type, got %v", err)
	}
}

func TestService_RejectsEmptyOutline(t *testing.T) {
	svc, _ := newTestService(t, llm.MockResponse{Content: json.RawMessage(
		`{"title": "Empty", "description": "", "modules": [], "learning_outcomes": []}`,
	)})

	_, err := svc.Generate(t.Context(), OutlineInput{Topic: "Anything"})
	if err == nil || !strings.Contains(err.Error(), "no modules") {
		t.Fatalf("expected no-modules error, got %v", err)
	}
}
