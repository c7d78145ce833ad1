package taxonomy

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// wireTaxonomy mirrors Taxonomy for import, with pointers where an omitted
// field must fall back to a documented default rather than the zero value.
type wireTaxonomy struct {
	ID                    string            `json:"id"`
	Name                  string            `json:"name"`
	Description           string            `json:"description"`
	Kind                  Kind              `json:"kind"`
	Levels                []Level           `json:"levels"`
	Mappings              []ActivityMapping `json:"activity_mappings"`
	RequireProgression    bool              `json:"require_progression"`
	AllowRegressionWithin *int              `json:"allow_regression_within"`
	MinUniqueLevels       int               `json:"minimum_unique_levels"`
	RequireHigherOrder    bool              `json:"require_higher_order"`
	HigherOrderThreshold  *int              `json:"higher_order_threshold"`
}

// Defaults applied to imported taxonomies that omit the tunable.
const (
	defaultAllowRegressionWithin = 1
	defaultHigherOrderThreshold  = 2
)

// Parse decodes and validates a taxonomy document. Imported taxonomies are
// always user taxonomies: the preset flag cannot be forged through import.
// A missing ID is assigned; missing tunables take their defaults.
func Parse(raw []byte) (*Taxonomy, error) {
	var w wireTaxonomy
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}

	t := Taxonomy{
		ID:                    w.ID,
		Name:                  w.Name,
		Description:           w.Description,
		Kind:                  w.Kind,
		Preset:                false,
		Levels:                w.Levels,
		Mappings:              w.Mappings,
		RequireProgression:    w.RequireProgression,
		AllowRegressionWithin: defaultAllowRegressionWithin,
		MinUniqueLevels:       w.MinUniqueLevels,
		RequireHigherOrder:    w.RequireHigherOrder,
		HigherOrderThreshold:  defaultHigherOrderThreshold,
	}
	if w.AllowRegressionWithin != nil {
		t.AllowRegressionWithin = *w.AllowRegressionWithin
	}
	if w.HigherOrderThreshold != nil {
		t.HigherOrderThreshold = *w.HigherOrderThreshold
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	for i := range t.Levels {
		if t.Levels[i].ID == "" {
			t.Levels[i].ID = uuid.NewString()
		}
	}

	return New(t)
}

// Encode renders the taxonomy as indented JSON suitable for export.
func (t *Taxonomy) Encode() ([]byte, error) {
	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode taxonomy: %w", err)
	}
	return append(out, '\n'), nil
}
