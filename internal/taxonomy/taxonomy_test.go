package taxonomy

import (
	"strings"
	"testing"

	"github.com/abhisek/coursecheck/internal/course"
)

func TestNew_RejectsEmptyLevels(t *testing.T) {
	_, err := New(Taxonomy{ID: "x", Name: "Empty", Kind: KindLinear})
	if err == nil {
		t.Fatal("expected error for empty level list, got nil")
	}
	if !strings.Contains(err.Error(), "at least one level") {
		t.Errorf("error should mention the empty level list, got: %v", err)
	}
}

func TestNew_RejectsDuplicateOrders(t *testing.T) {
	_, err := New(Taxonomy{
		ID:   "x",
		Name: "Dup",
		Kind: KindLinear,
		Levels: []Level{
			{Value: "low", Order: 0},
			{Value: "high", Order: 0},
		},
	})
	if err == nil {
		t.Fatal("expected error for duplicate orders, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate order") {
		t.Errorf("error should mention duplicate order, got: %v", err)
	}
}

func TestNew_RejectsDuplicateValues(t *testing.T) {
	_, err := New(Taxonomy{
		ID:   "x",
		Name: "Dup",
		Kind: KindLinear,
		Levels: []Level{
			{Value: "same", Order: 0},
			{Value: "SAME", Order: 1},
		},
	})
	if err == nil {
		t.Fatal("expected error for duplicate values, got nil")
	}
}

func TestNew_RejectsUnknownKind(t *testing.T) {
	_, err := New(Taxonomy{
		ID:     "x",
		Name:   "Bad",
		Kind:   "spiral",
		Levels: []Level{{Value: "a", Order: 0}},
	})
	if err == nil {
		t.Fatal("expected error for unknown kind, got nil")
	}
}

func TestNew_SortsLevelsByOrder(t *testing.T) {
	built, err := New(Taxonomy{
		ID:   "x",
		Name: "Unsorted",
		Kind: KindLinear,
		Levels: []Level{
			{Value: "c", Order: 2},
			{Value: "a", Order: 0},
			{Value: "b", Order: 1},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if built.Levels[i].Value != want {
			t.Errorf("Levels[%d].Value = %q, want %q", i, built.Levels[i].Value, want)
		}
	}
}

func TestLevelOrder_UnknownIsMinusOne(t *testing.T) {
	b := Default()
	if got := b.LevelOrder("transcend"); got != -1 {
		t.Errorf("LevelOrder(transcend) = %d, want -1", got)
	}
	if got := b.LevelOrder(""); got != -1 {
		t.Errorf("LevelOrder(empty) = %d, want -1", got)
	}
}

func TestLevelOrder_CaseInsensitive(t *testing.T) {
	b := Default()
	if got := b.LevelOrder("ANALYZE"); got != 3 {
		t.Errorf("LevelOrder(ANALYZE) = %d, want 3", got)
	}
}

func TestDefault_IsBloomWithExpectedOrders(t *testing.T) {
	b := Default()
	if b.ID != PresetBloom {
		t.Fatalf("Default().ID = %q, want %q", b.ID, PresetBloom)
	}
	if !b.Preset {
		t.Error("Default() should be a preset")
	}
	want := map[string]int{
		"remember":   0,
		"understand": 1,
		"apply":      2,
		"analyze":    3,
		"evaluate":   4,
		"create":     5,
	}
	for value, order := range want {
		if got := b.LevelOrder(value); got != order {
			t.Errorf("LevelOrder(%s) = %d, want %d", value, got, order)
		}
	}
	if b.HigherOrderThreshold != 2 {
		t.Errorf("HigherOrderThreshold = %d, want 2", b.HigherOrderThreshold)
	}
	if b.AllowRegressionWithin != 1 {
		t.Errorf("AllowRegressionWithin = %d, want 1", b.AllowRegressionWithin)
	}
}

func TestPresets_AllFivePresent(t *testing.T) {
	ps := Presets()
	if len(ps) != 5 {
		t.Fatalf("len(Presets()) = %d, want 5", len(ps))
	}
	for _, p := range ps {
		if !p.Preset {
			t.Errorf("preset %q missing preset flag", p.ID)
		}
		if len(p.Levels) == 0 {
			t.Errorf("preset %q has no levels", p.ID)
		}
	}
	fink, ok := Preset(PresetFink)
	if !ok {
		t.Fatal("Fink preset missing")
	}
	if fink.Kind != KindCategorical {
		t.Errorf("Fink kind = %q, want categorical", fink.Kind)
	}
	if fink.MinUniqueLevels != 2 {
		t.Errorf("Fink MinUniqueLevels = %d, want 2", fink.MinUniqueLevels)
	}
}

func TestPreset_ReturnsIndependentCopies(t *testing.T) {
	a, _ := Preset(PresetBloom)
	a.Name = "mutated"
	a.Levels[0].Value = "mutated"

	b, _ := Preset(PresetBloom)
	if b.Name == "mutated" || b.Levels[0].Value == "mutated" {
		t.Error("mutating a returned preset leaked into the registry")
	}
}

func TestMaxCompatibleOrder(t *testing.T) {
	b := Default()
	if got := b.MaxCompatibleOrder(course.ActivityLecture); got != 1 {
		t.Errorf("MaxCompatibleOrder(lecture) = %d, want 1 (understand)", got)
	}
	if got := b.MaxCompatibleOrder(course.ActivityCapstone); got != 5 {
		t.Errorf("MaxCompatibleOrder(capstone) = %d, want 5 (create)", got)
	}
	solo, _ := Preset(PresetSOLO)
	if got := solo.MaxCompatibleOrder(course.ActivityLecture); got != -1 {
		t.Errorf("MaxCompatibleOrder without mappings = %d, want -1", got)
	}
}

func TestParse_AppliesDefaultsForOmittedTunables(t *testing.T) {
	doc := `{
		"name": "Custom",
		"kind": "linear",
		"levels": [
			{"value": "basic", "order": 0},
			{"value": "advanced", "order": 1}
		]
	}`
	got, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.AllowRegressionWithin != 1 {
		t.Errorf("AllowRegressionWithin = %d, want default 1", got.AllowRegressionWithin)
	}
	if got.HigherOrderThreshold != 2 {
		t.Errorf("HigherOrderThreshold = %d, want default 2", got.HigherOrderThreshold)
	}
	if got.ID == "" {
		t.Error("Parse should assign an ID when omitted")
	}
	if got.Levels[0].ID == "" {
		t.Error("Parse should assign level IDs when omitted")
	}
}

func TestParse_RespectsExplicitZeroTolerance(t *testing.T) {
	doc := `{
		"name": "Strict",
		"kind": "linear",
		"allow_regression_within": 0,
		"levels": [{"value": "only", "order": 0}]
	}`
	got, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.AllowRegressionWithin != 0 {
		t.Errorf("AllowRegressionWithin = %d, want explicit 0", got.AllowRegressionWithin)
	}
}

func TestParse_CannotForgePresetFlag(t *testing.T) {
	doc := `{
		"id": "bloom",
		"name": "Fake Bloom",
		"kind": "linear",
		"is_system_preset": true,
		"levels": [{"value": "x", "order": 0}]
	}`
	got, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Preset {
		t.Error("imported taxonomy must never carry the preset flag")
	}
}
