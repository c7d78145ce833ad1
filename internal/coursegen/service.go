package coursegen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/coursecheck/internal/course"
	"github.com/abhisek/coursecheck/internal/llm"
	"github.com/abhisek/coursecheck/internal/taxonomy"
)

// Service drafts course outlines with an LLM provider. Drafts come back as
// ordinary course documents: they pass the same parse gate as an imported
// file and can be audited immediately. Generation never patches an existing
// course, it only produces new drafts.
type Service struct {
	provider llm.Provider
	tx       *taxonomy.Taxonomy
	cfg      Config
}

// NewService creates an outline generation service bound to one taxonomy.
func NewService(provider llm.Provider, tx *taxonomy.Taxonomy, cfg Config) *Service {
	return &Service{provider: provider, tx: tx, cfg: cfg}
}

type outlineOutput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Modules     []moduleOutput  `json:"modules"`
	Outcomes    []outcomeOutput `json:"learning_outcomes"`
}

type moduleOutput struct {
	Title   string         `json:"title"`
	Lessons []lessonOutput `json:"lessons"`
}

type lessonOutput struct {
	Title      string           `json:"title"`
	Activities []activityOutput `json:"activities"`
}

type activityOutput struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	ContentType     string   `json:"content_type"`
	ActivityType    string   `json:"activity_type"`
	CognitiveLevel  string   `json:"cognitive_level"`
	DurationMinutes int      `json:"estimated_duration_minutes"`
	PrerequisiteIDs []string `json:"prerequisite_ids"`
	Content         string   `json:"content"`
}

type outcomeOutput struct {
	Behavior          string   `json:"behavior"`
	CognitiveLevel    string   `json:"cognitive_level"`
	MappedActivityIDs []string `json:"mapped_activity_ids"`
}

// Generate drafts a course outline for the given input. Every activity in
// the result is in the draft build state.
func (s *Service) Generate(ctx context.Context, input OutlineInput) (*course.Course, error) {
	if strings.TrimSpace(input.Topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}

	ctx = llm.WithPurpose(ctx, "course-draft")

	req := llm.Request{
		System: outlineSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildOutlineUserMessage(input, s.tx)},
		},
		Schema:      outlineSchema(s.tx),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("outline generation: %w", err)
	}

	var out outlineOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse outline response: %w", err)
	}
	if len(out.Modules) == 0 {
		return nil, fmt.Errorf("outline generation: model returned no modules")
	}

	draft := out.toCourse(input)
	raw, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	c, err := course.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("draft failed course validation: %w", err)
	}
	return c, nil
}

// toCourse builds a course document from the model output. Module, lesson,
// and outcome IDs are minted positionally; activity IDs come from the model
// because prerequisites and outcome mappings reference them, with empty or
// reused IDs repaired.
func (o outlineOutput) toCourse(input OutlineInput) *course.Course {
	c := &course.Course{
		ID:                    uuid.NewString(),
		Title:                 o.Title,
		Description:           o.Description,
		TargetDurationMinutes: input.TargetDurationMinutes,
		Modules:               make([]course.Module, 0, len(o.Modules)),
	}

	seen := make(map[string]bool)
	for mi, mo := range o.Modules {
		m := course.Module{
			ID:      fmt.Sprintf("m%d", mi+1),
			Title:   mo.Title,
			Lessons: make([]course.Lesson, 0, len(mo.Lessons)),
		}
		for li, lo := range mo.Lessons {
			l := course.Lesson{
				ID:         fmt.Sprintf("m%d-l%d", mi+1, li+1),
				Title:      lo.Title,
				Activities: make([]course.Activity, 0, len(lo.Activities)),
			}
			for _, ao := range lo.Activities {
				l.Activities = append(l.Activities, course.Activity{
					ID:                       uniqueID(ao.ID, seen),
					Title:                    ao.Title,
					ContentType:              course.ContentType(ao.ContentType),
					ActivityType:             course.ActivityType(ao.ActivityType),
					CognitiveLevel:           ao.CognitiveLevel,
					BuildState:               course.StateDraft,
					EstimatedDurationMinutes: ao.DurationMinutes,
					PrerequisiteIDs:          ao.PrerequisiteIDs,
					Content:                  ao.Content,
				})
			}
			m.Lessons = append(m.Lessons, l)
		}
		c.Modules = append(c.Modules, m)
	}

	for oi, oo := range o.Outcomes {
		c.Outcomes = append(c.Outcomes, course.Outcome{
			ID:                fmt.Sprintf("o%d", oi+1),
			Behavior:          oo.Behavior,
			CognitiveLevel:    oo.CognitiveLevel,
			MappedActivityIDs: oo.MappedActivityIDs,
		})
	}

	return c
}

// uniqueID returns id, replaced with a fresh UUID when empty and suffixed
// with a counter when the model reused it. References to a reused id keep
// resolving to its first occurrence.
func uniqueID(id string, seen map[string]bool) string {
	if id == "" {
		id = uuid.NewString()
	}
	candidate := id
	for n := 2; seen[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	seen[candidate] = true
	return candidate
}
