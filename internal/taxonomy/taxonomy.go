package taxonomy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/coursecheck/internal/course"
)

// Kind distinguishes taxonomies whose levels form a strict total order from
// taxonomies whose levels are independent categories.
type Kind string

const (
	KindLinear      Kind = "linear"
	KindCategorical Kind = "categorical"
)

// Level is one cognitive level within a taxonomy.
type Level struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Value       string   `json:"value"`
	Order       int      `json:"order"` // meaningful for comparisons only in linear taxonomies
	Description string   `json:"description,omitempty"`
	Verbs       []string `json:"verbs,omitempty"`
	Color       string   `json:"color,omitempty"` // cosmetic, used by report rendering
}

// ActivityMapping declares which cognitive levels suit an activity type.
type ActivityMapping struct {
	ActivityType     course.ActivityType `json:"activity_type"`
	CompatibleLevels []string            `json:"compatible_levels"`
	PrimaryLevels    []string            `json:"primary_levels,omitempty"`
}

// Taxonomy is a named set of cognitive levels plus the progression and
// diversity rules the audit engine evaluates against it. Preset taxonomies
// are immutable and undeletable; accessors hand out deep copies.
type Taxonomy struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Kind        Kind              `json:"kind"`
	Preset      bool              `json:"is_system_preset"`
	Levels      []Level           `json:"levels"`
	Mappings    []ActivityMapping `json:"activity_mappings,omitempty"`

	// Validation parameters consumed by the progression check.
	RequireProgression    bool `json:"require_progression"`
	AllowRegressionWithin int  `json:"allow_regression_within"` // max backward order-jump tolerated
	MinUniqueLevels       int  `json:"minimum_unique_levels"`   // diversity floor for categorical taxonomies
	RequireHigherOrder    bool `json:"require_higher_order"`
	HigherOrderThreshold  int  `json:"higher_order_threshold"`
}

// New validates t and returns a copy with levels sorted by order. A taxonomy
// with no levels, duplicate order values, or duplicate level values is
// rejected here rather than misbehaving later.
func New(t Taxonomy) (*Taxonomy, error) {
	var errs []string

	if t.Kind != KindLinear && t.Kind != KindCategorical {
		errs = append(errs, fmt.Sprintf("unknown taxonomy kind %q", t.Kind))
	}
	if len(t.Levels) == 0 {
		errs = append(errs, "taxonomy must define at least one level")
	}
	orders := make(map[int]string, len(t.Levels))
	values := make(map[string]bool, len(t.Levels))
	for _, lv := range t.Levels {
		if lv.Value == "" {
			errs = append(errs, fmt.Sprintf("level %q has an empty value", lv.Name))
			continue
		}
		v := strings.ToLower(lv.Value)
		if values[v] {
			errs = append(errs, fmt.Sprintf("duplicate level value %q", lv.Value))
		}
		values[v] = true
		if prev, dup := orders[lv.Order]; dup {
			errs = append(errs, fmt.Sprintf("duplicate order %d shared by %q and %q", lv.Order, prev, lv.Value))
		}
		orders[lv.Order] = lv.Value
	}
	if t.AllowRegressionWithin < 0 {
		errs = append(errs, "allow_regression_within must be >= 0")
	}
	if t.MinUniqueLevels < 0 {
		errs = append(errs, "minimum_unique_levels must be >= 0")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid taxonomy %q:\n  %s", t.Name, strings.Join(errs, "\n  "))
	}

	out := t.clone()
	sort.SliceStable(out.Levels, func(i, j int) bool { return out.Levels[i].Order < out.Levels[j].Order })
	return out, nil
}

// LevelOrder returns the order of the level with the given value, or -1 when
// the value is unknown. Callers must treat -1 as incomparable, never as the
// lowest level. Matching is case-insensitive.
func (t *Taxonomy) LevelOrder(value string) int {
	lv, ok := t.LevelByValue(value)
	if !ok {
		return -1
	}
	return lv.Order
}

// LevelByValue looks up a level by its canonical value, case-insensitively.
func (t *Taxonomy) LevelByValue(value string) (Level, bool) {
	if value == "" {
		return Level{}, false
	}
	for _, lv := range t.Levels {
		if strings.EqualFold(lv.Value, value) {
			return lv, true
		}
	}
	return Level{}, false
}

// MaxCompatibleOrder returns the highest level order among the levels
// compatible with the given activity type, or -1 when the taxonomy has no
// mapping for it (or the mapping names only unknown levels).
func (t *Taxonomy) MaxCompatibleOrder(at course.ActivityType) int {
	best := -1
	for _, m := range t.Mappings {
		if m.ActivityType != at {
			continue
		}
		for _, v := range m.CompatibleLevels {
			if o := t.LevelOrder(v); o > best {
				best = o
			}
		}
	}
	return best
}

// LevelsAbove returns the levels with an order strictly greater than the
// given order, lowest first.
func (t *Taxonomy) LevelsAbove(order int) []Level {
	var out []Level
	for _, lv := range t.Levels {
		if lv.Order > order {
			out = append(out, lv)
		}
	}
	return out
}

// MaxOrder returns the highest order defined by the taxonomy, or -1 when it
// has no levels.
func (t *Taxonomy) MaxOrder() int {
	best := -1
	for _, lv := range t.Levels {
		if lv.Order > best {
			best = lv.Order
		}
	}
	return best
}

// Clone returns a deep copy sharing no slices with the receiver.
func (t *Taxonomy) Clone() *Taxonomy {
	return t.clone()
}

func (t Taxonomy) clone() *Taxonomy {
	out := t
	out.Levels = make([]Level, len(t.Levels))
	for i, lv := range t.Levels {
		out.Levels[i] = lv
		out.Levels[i].Verbs = append([]string(nil), lv.Verbs...)
	}
	out.Mappings = make([]ActivityMapping, len(t.Mappings))
	for i, m := range t.Mappings {
		out.Mappings[i] = m
		out.Mappings[i].CompatibleLevels = append([]string(nil), m.CompatibleLevels...)
		out.Mappings[i].PrimaryLevels = append([]string(nil), m.PrimaryLevels...)
	}
	return &out
}
