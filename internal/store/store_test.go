package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/abhisek/coursecheck/internal/audit"
	"github.com/abhisek/coursecheck/internal/course"
	"github.com/abhisek/coursecheck/internal/taxonomy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenSeedsPresets(t *testing.T) {
	s := openTestStore(t)
	repo := s.TaxonomyRepo()
	ctx := context.Background()

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("fresh store has %d taxonomies, want the 5 presets", len(all))
	}

	seen := make(map[string]bool)
	for _, tx := range all {
		if !tx.Preset {
			t.Errorf("taxonomy %q seeded without preset flag", tx.ID)
		}
		seen[tx.ID] = true
	}
	for _, id := range []string{taxonomy.PresetBloom, taxonomy.PresetSOLO, taxonomy.PresetDOK, taxonomy.PresetMarzano, taxonomy.PresetFink} {
		if !seen[id] {
			t.Errorf("preset %q missing after open", id)
		}
	}
}

func TestTaxonomyLoadPreset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx, err := s.TaxonomyRepo().Load(ctx, taxonomy.PresetBloom)
	if err != nil {
		t.Fatalf("load bloom: %v", err)
	}
	if !tx.Preset {
		t.Error("stored bloom lost its preset flag")
	}
	if len(tx.Levels) != 6 {
		t.Errorf("bloom has %d levels, want 6", len(tx.Levels))
	}
	for i := 1; i < len(tx.Levels); i++ {
		if tx.Levels[i-1].Order >= tx.Levels[i].Order {
			t.Fatalf("levels not sorted by order after load: %v >= %v", tx.Levels[i-1].Order, tx.Levels[i].Order)
		}
	}
}

func TestTaxonomySaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.TaxonomyRepo()
	ctx := context.Background()

	tx := userTaxonomy("Corporate Levels")
	if err := repo.Save(ctx, tx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if tx.ID == "" {
		t.Fatal("save did not assign an ID")
	}

	got, err := repo.Load(ctx, tx.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "Corporate Levels" {
		t.Errorf("name = %q, want %q", got.Name, "Corporate Levels")
	}
	if got.Preset {
		t.Error("user taxonomy loaded with preset flag set")
	}
	if !got.RequireProgression || got.HigherOrderThreshold != 1 {
		t.Errorf("tunables did not round-trip: %+v", got)
	}

	// Upsert under the same ID replaces, not duplicates.
	tx.Name = "Corporate Levels v2"
	if err := repo.Save(ctx, tx); err != nil {
		t.Fatalf("resave: %v", err)
	}
	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("store has %d taxonomies after upsert, want 6", len(all))
	}
}

func TestTaxonomySaveRejectsPreset(t *testing.T) {
	s := openTestStore(t)
	repo := s.TaxonomyRepo()
	ctx := context.Background()

	bloom, _ := taxonomy.Preset(taxonomy.PresetBloom)
	if err := repo.Save(ctx, bloom); !errors.Is(err, ErrPreset) {
		t.Errorf("save preset clone: err = %v, want ErrPreset", err)
	}

	// Clearing the flag does not help: preset IDs are reserved.
	forged := bloom.Clone()
	forged.Preset = false
	if err := repo.Save(ctx, forged); !errors.Is(err, ErrPreset) {
		t.Errorf("save forged preset: err = %v, want ErrPreset", err)
	}
}

func TestTaxonomyDeleteGuards(t *testing.T) {
	s := openTestStore(t)
	repo := s.TaxonomyRepo()
	ctx := context.Background()

	if err := repo.Delete(ctx, taxonomy.PresetBloom); !errors.Is(err, ErrPreset) {
		t.Errorf("delete preset: err = %v, want ErrPreset", err)
	}
	if err := repo.Delete(ctx, "no-such-taxonomy"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: err = %v, want ErrNotFound", err)
	}

	tx := userTaxonomy("Disposable")
	if err := repo.Save(ctx, tx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("delete user taxonomy: %v", err)
	}
	if _, err := repo.Load(ctx, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("load after delete: err = %v, want ErrNotFound", err)
	}
}

func TestTaxonomyListOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.TaxonomyRepo()
	ctx := context.Background()

	for _, name := range []string{"zeta levels", "Alpha levels"} {
		if err := repo.Save(ctx, userTaxonomy(name)); err != nil {
			t.Fatalf("save %q: %v", name, err)
		}
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 7 {
		t.Fatalf("got %d taxonomies, want 7", len(all))
	}
	for i, tx := range all[:5] {
		if !tx.Preset {
			t.Errorf("position %d is %q, want a preset before all user taxonomies", i, tx.Name)
		}
	}
	if all[5].Name != "Alpha levels" || all[6].Name != "zeta levels" {
		t.Errorf("user taxonomies not alphabetical: %q, %q", all[5].Name, all[6].Name)
	}
}

func TestTaxonomyDuplicate(t *testing.T) {
	s := openTestStore(t)
	repo := s.TaxonomyRepo()
	ctx := context.Background()

	dup, err := repo.Duplicate(ctx, taxonomy.PresetBloom, "My Bloom")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == taxonomy.PresetBloom || dup.ID == "" {
		t.Errorf("duplicate kept source ID %q", dup.ID)
	}
	if dup.Preset {
		t.Error("duplicate of a preset must be a user taxonomy")
	}
	if dup.Name != "My Bloom" {
		t.Errorf("name = %q, want %q", dup.Name, "My Bloom")
	}
	if len(dup.Levels) != 6 {
		t.Fatalf("duplicate has %d levels, want 6", len(dup.Levels))
	}
	for _, lv := range dup.Levels {
		if lv.ID == "" || lv.ID == "bloom-"+lv.Value {
			t.Errorf("level %q kept source ID %q", lv.Value, lv.ID)
		}
	}

	// The copy is stored, editable, and deletable.
	if _, err := repo.Load(ctx, dup.ID); err != nil {
		t.Fatalf("load duplicate: %v", err)
	}
	if err := repo.Delete(ctx, dup.ID); err != nil {
		t.Errorf("delete duplicate: %v", err)
	}
}

func TestTaxonomyDuplicateDerivesName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dup, err := s.TaxonomyRepo().Duplicate(ctx, taxonomy.PresetSOLO, "")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.Name != "SOLO Taxonomy (copy)" {
		t.Errorf("derived name = %q, want %q", dup.Name, "SOLO Taxonomy (copy)")
	}
}

func TestTaxonomyGetDefaultSelfHeals(t *testing.T) {
	s := openTestStore(t)
	repo := s.TaxonomyRepo()
	ctx := context.Background()

	def, err := repo.GetDefault(ctx)
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if def.ID != taxonomy.DefaultID {
		t.Errorf("default ID = %q, want %q", def.ID, taxonomy.DefaultID)
	}

	// Remove the row underneath the repo; GetDefault must recreate it.
	if _, err := s.DB().Exec("DELETE FROM taxonomies WHERE id = ?", taxonomy.DefaultID); err != nil {
		t.Fatalf("drop default row: %v", err)
	}
	def, err = repo.GetDefault(ctx)
	if err != nil {
		t.Fatalf("get default after drop: %v", err)
	}
	if def.ID != taxonomy.DefaultID {
		t.Errorf("healed default ID = %q, want %q", def.ID, taxonomy.DefaultID)
	}
	if _, err := repo.Load(ctx, taxonomy.DefaultID); err != nil {
		t.Errorf("default row not reseeded: %v", err)
	}
}

func TestCourseRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.CourseRepo()
	ctx := context.Background()

	c := testCourse("crs-go", "Intro to Go")
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx, "crs-go")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Title != "Intro to Go" || len(got.Modules) != 1 {
		t.Errorf("course did not round-trip: %+v", got)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d summaries, want 1", len(list))
	}
	sum := list[0]
	if sum.Modules != 1 || sum.Activities != 1 || sum.DurationMinutes != 15 {
		t.Errorf("summary counts = %d/%d/%d, want 1/1/15", sum.Modules, sum.Activities, sum.DurationMinutes)
	}
	if sum.ImportedAt.IsZero() || sum.UpdatedAt.IsZero() {
		t.Error("summary timestamps not set")
	}

	// Saving again upserts in place.
	c.Title = "Intro to Go, 2nd ed."
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("resave: %v", err)
	}
	list, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("list after resave: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Intro to Go, 2nd ed." {
		t.Errorf("upsert produced %+v", list)
	}

	if err := repo.Delete(ctx, "crs-go"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Load(ctx, "crs-go"); !errors.Is(err, ErrNotFound) {
		t.Errorf("load after delete: err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "crs-go"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: err = %v, want ErrNotFound", err)
	}
}

func TestRunAppendAndHistory(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	for i, courseID := range []string{"crs-a", "crs-a", "crs-b"} {
		run := &Run{
			CourseID:     courseID,
			CourseTitle:  "Course " + courseID,
			TaxonomyID:   taxonomy.PresetBloom,
			TaxonomyName: "Bloom's Taxonomy (Revised)",
			Score:        90 - i,
			Warnings:     1,
			Result:       testResult(courseID, 90-i),
		}
		if err := repo.Append(ctx, run); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if run.ID == 0 {
			t.Fatalf("append %d did not assign an ID", i)
		}
		if run.CreatedAt.IsZero() {
			t.Fatalf("append %d did not set CreatedAt", i)
		}
	}

	recent, err := repo.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("got %d runs, want 3", len(recent))
	}
	if recent[0].Score != 88 || recent[2].Score != 90 {
		t.Errorf("runs not newest-first: scores %d, %d, %d", recent[0].Score, recent[1].Score, recent[2].Score)
	}

	limited, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d runs", len(limited))
	}

	forA, err := repo.ForCourse(ctx, "crs-a", 0)
	if err != nil {
		t.Fatalf("for course: %v", err)
	}
	if len(forA) != 2 {
		t.Errorf("crs-a has %d runs, want 2", len(forA))
	}

	got, err := repo.Get(ctx, recent[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Result == nil || len(got.Result.Issues) != 1 {
		t.Errorf("stored result did not round-trip: %+v", got.Result)
	}
	if got.Result.Issues[0].Title != "Draft content present" {
		t.Errorf("issue title = %q", got.Result.Issues[0].Title)
	}

	if _, err := repo.Get(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}
}

func TestLLMLogAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.LLMLogRepo()
	ctx := context.Background()

	ok := LLMRequestData{
		Provider: "anthropic", Model: "claude-haiku", Purpose: "course-draft",
		InputTokens: 1200, OutputTokens: 800, LatencyMs: 2100, Success: true,
		RequestBody: "[user]\ndraft a module outline\n", ResponseBody: `{"modules":[]}`,
	}
	failed := LLMRequestData{
		Provider: "openai", Model: "gpt-4o-mini", Purpose: "course-draft",
		LatencyMs: 300, Success: false, ErrorMessage: "rate limited",
	}
	for i, data := range []LLMRequestData{ok, failed} {
		if err := repo.Append(ctx, data); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recent, err := repo.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d rows, want 2", len(recent))
	}
	if recent[0].Provider != "openai" {
		t.Errorf("rows not newest-first: first is %q", recent[0].Provider)
	}
	if recent[0].Success || recent[0].ErrorMessage != "rate limited" {
		t.Errorf("failure row did not round-trip: %+v", recent[0])
	}
	if !recent[1].Success || recent[1].InputTokens != 1200 {
		t.Errorf("success row did not round-trip: %+v", recent[1])
	}

	got, err := repo.Get(ctx, recent[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Model != "claude-haiku" {
		t.Errorf("model = %q", got.Model)
	}
	if got.RequestBody == "" || got.ResponseBody != `{"modules":[]}` {
		t.Errorf("bodies did not round-trip: %+v", got.LLMRequestData)
	}
	if _, err := repo.Get(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}
}

func TestLLMUsageAggregation(t *testing.T) {
	s := openTestStore(t)
	repo := s.LLMLogRepo()
	ctx := context.Background()

	fixtures := []LLMRequestData{
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "course-draft", InputTokens: 1000, OutputTokens: 500, LatencyMs: 100, Success: true},
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "course-draft", InputTokens: 2000, OutputTokens: 700, LatencyMs: 200, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "level-suggest", InputTokens: 300, OutputTokens: 100, LatencyMs: 50, Success: true},
	}
	for i, data := range fixtures {
		if err := repo.Append(ctx, data); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	byPurpose, err := repo.UsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	draft := byPurpose[0]
	if draft.Purpose != "course-draft" {
		t.Fatalf("purposes not sorted: first is %q", draft.Purpose)
	}
	if draft.Calls != 2 || draft.InputTokens != 3000 || draft.OutputTokens != 1200 {
		t.Errorf("draft totals wrong: %+v", draft)
	}
	if draft.AvgLatencyMs != 150 {
		t.Errorf("avg latency = %d, want 150", draft.AvgLatencyMs)
	}

	byModel, err := repo.UsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("got %d models, want 2", len(byModel))
	}
	if byModel[0].Model != "claude-haiku" || byModel[0].Calls != 2 {
		t.Errorf("model totals wrong: %+v", byModel[0])
	}
	if byModel[1].Model != "gpt-4o-mini" || byModel[1].InputTokens != 300 {
		t.Errorf("model totals wrong: %+v", byModel[1])
	}
}

func TestReopenKeepsUserData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursecheck.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	tx := userTaxonomy("Sticky")
	if err := s.TaxonomyRepo().Save(ctx, tx); err != nil {
		t.Fatalf("save taxonomy: %v", err)
	}
	if err := s.CourseRepo().Save(ctx, testCourse("crs-1", "Persisted")); err != nil {
		t.Fatalf("save course: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	all, err := s.TaxonomyRepo().ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("got %d taxonomies after reopen, want 5 presets + 1 user", len(all))
	}
	if _, err := s.TaxonomyRepo().Load(ctx, tx.ID); err != nil {
		t.Errorf("user taxonomy lost across reopen: %v", err)
	}
	if _, err := s.CourseRepo().Load(ctx, "crs-1"); err != nil {
		t.Errorf("course lost across reopen: %v", err)
	}

	// File-based databases really run in WAL mode.
	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

// userTaxonomy builds a small valid linear taxonomy for repo tests.
func userTaxonomy(name string) *taxonomy.Taxonomy {
	return &taxonomy.Taxonomy{
		Name: name,
		Kind: taxonomy.KindLinear,
		Levels: []taxonomy.Level{
			{Name: "Basic", Value: "basic", Order: 0},
			{Name: "Advanced", Value: "advanced", Order: 1},
		},
		RequireProgression:   true,
		HigherOrderThreshold: 1,
	}
}

// testCourse builds a one-activity course for repo tests.
func testCourse(id, title string) *course.Course {
	return &course.Course{
		ID:    id,
		Title: title,
		Modules: []course.Module{{
			ID:    "m1",
			Title: "Module One",
			Lessons: []course.Lesson{{
				ID:    "l1",
				Title: "Lesson One",
				Activities: []course.Activity{{
					ID:                       "a1",
					Title:                    "Watch",
					ContentType:              course.ContentVideo,
					ActivityType:             course.ActivityLecture,
					EstimatedDurationMinutes: 15,
				}},
			}},
		}},
	}
}

// testResult builds a minimal stored audit result.
func testResult(courseID string, score int) *audit.Result {
	return &audit.Result{
		CourseID:     courseID,
		TaxonomyID:   taxonomy.PresetBloom,
		ChecksRun:    audit.AllCheckTypes(),
		Issues:       []audit.Issue{{CheckType: audit.CheckGaps, Severity: audit.SeverityWarning, Title: "Draft content present", Status: audit.StatusOpen}},
		Score:        score,
		WarningCount: 1,
	}
}
