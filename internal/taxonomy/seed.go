package taxonomy

import (
	"fmt"

	"github.com/abhisek/coursecheck/internal/course"
)

// Preset taxonomy IDs. Presets are seeded into the store at first boot and
// can never be edited or deleted.
const (
	PresetBloom   = "bloom"
	PresetSOLO    = "solo"
	PresetDOK     = "dok"
	PresetMarzano = "marzano"
	PresetFink    = "fink"
)

// DefaultID names the taxonomy used when a caller supplies none.
const DefaultID = PresetBloom

// presetRegistry holds the canonical preset instances, keyed by ID.
var presetRegistry map[string]*Taxonomy

// presetOrder lists preset IDs in display order.
var presetOrder = []string{PresetBloom, PresetSOLO, PresetDOK, PresetMarzano, PresetFink}

func init() {
	presetRegistry = make(map[string]*Taxonomy, len(seedPresets))
	for i := range seedPresets {
		p := mustPreset(seedPresets[i])
		presetRegistry[p.ID] = p
	}
}

func mustPreset(t Taxonomy) *Taxonomy {
	built, err := New(t)
	if err != nil {
		panic(fmt.Sprintf("taxonomy: bad preset seed: %v", err))
	}
	return built
}

// Preset returns a deep copy of the preset with the given ID.
func Preset(id string) (*Taxonomy, bool) {
	p, ok := presetRegistry[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Presets returns deep copies of every preset in display order.
func Presets() []*Taxonomy {
	out := make([]*Taxonomy, 0, len(presetOrder))
	for _, id := range presetOrder {
		out = append(out, presetRegistry[id].Clone())
	}
	return out
}

// IsPreset reports whether id names a built-in preset.
func IsPreset(id string) bool {
	_, ok := presetRegistry[id]
	return ok
}

// Default returns a deep copy of Bloom's taxonomy, the framework assumed
// whenever no taxonomy is supplied.
func Default() *Taxonomy {
	return presetRegistry[DefaultID].Clone()
}

// seedPresets defines the five built-in frameworks. Orders start at 0 and
// are comparison-meaningful only for the linear presets; Fink's carries them
// for display alone.
var seedPresets = []Taxonomy{
	{
		ID:          PresetBloom,
		Name:        "Bloom's Taxonomy (Revised)",
		Description: "Six hierarchical cognitive process levels, from recalling facts to producing original work",
		Kind:        KindLinear,
		Preset:      true,
		Levels: []Level{
			{ID: "bloom-remember", Name: "Remember", Value: "remember", Order: 0, Description: "Retrieve relevant knowledge from memory", Verbs: []string{"define", "list", "recall", "identify", "name"}, Color: "#9E9E9E"},
			{ID: "bloom-understand", Name: "Understand", Value: "understand", Order: 1, Description: "Construct meaning from instructional messages", Verbs: []string{"explain", "summarize", "classify", "describe", "discuss"}, Color: "#03A9F4"},
			{ID: "bloom-apply", Name: "Apply", Value: "apply", Order: 2, Description: "Carry out or use a procedure in a given situation", Verbs: []string{"use", "implement", "solve", "demonstrate", "execute"}, Color: "#4CAF50"},
			{ID: "bloom-analyze", Name: "Analyze", Value: "analyze", Order: 3, Description: "Break material into parts and detect how they relate", Verbs: []string{"differentiate", "organize", "compare", "contrast", "examine"}, Color: "#FF9800"},
			{ID: "bloom-evaluate", Name: "Evaluate", Value: "evaluate", Order: 4, Description: "Make judgments based on criteria and standards", Verbs: []string{"judge", "critique", "justify", "assess", "defend"}, Color: "#E91E63"},
			{ID: "bloom-create", Name: "Create", Value: "create", Order: 5, Description: "Put elements together into a coherent or original whole", Verbs: []string{"design", "construct", "develop", "formulate", "compose"}, Color: "#9C27B0"},
		},
		Mappings: []ActivityMapping{
			{ActivityType: course.ActivityLecture, CompatibleLevels: []string{"remember", "understand"}, PrimaryLevels: []string{"understand"}},
			{ActivityType: course.ActivityDemonstration, CompatibleLevels: []string{"understand", "apply"}, PrimaryLevels: []string{"understand"}},
			{ActivityType: course.ActivityGuidedPractice, CompatibleLevels: []string{"understand", "apply"}, PrimaryLevels: []string{"apply"}},
			{ActivityType: course.ActivityIndependentPractice, CompatibleLevels: []string{"apply", "analyze"}, PrimaryLevels: []string{"apply"}},
			{ActivityType: course.ActivityDiscussion, CompatibleLevels: []string{"understand", "analyze", "evaluate"}, PrimaryLevels: []string{"analyze"}},
			{ActivityType: course.ActivityCaseStudy, CompatibleLevels: []string{"analyze", "evaluate"}, PrimaryLevels: []string{"analyze"}},
			{ActivityType: course.ActivitySimulation, CompatibleLevels: []string{"apply", "analyze", "evaluate"}, PrimaryLevels: []string{"apply"}},
			{ActivityType: course.ActivityAssessment, CompatibleLevels: []string{"remember", "understand", "apply", "analyze", "evaluate", "create"}, PrimaryLevels: []string{"apply"}},
			{ActivityType: course.ActivityPeerReview, CompatibleLevels: []string{"analyze", "evaluate"}, PrimaryLevels: []string{"evaluate"}},
			{ActivityType: course.ActivityCapstone, CompatibleLevels: []string{"evaluate", "create"}, PrimaryLevels: []string{"create"}},
		},
		RequireProgression:    true,
		AllowRegressionWithin: 1,
		RequireHigherOrder:    true,
		HigherOrderThreshold:  2, // apply and above count as higher-order
	},
	{
		ID:          PresetSOLO,
		Name:        "SOLO Taxonomy",
		Description: "Structure of Observed Learning Outcomes: five levels of response complexity",
		Kind:        KindLinear,
		Preset:      true,
		Levels: []Level{
			{ID: "solo-prestructural", Name: "Prestructural", Value: "prestructural", Order: 0, Description: "Response misses the point or uses irrelevant information", Color: "#9E9E9E"},
			{ID: "solo-unistructural", Name: "Unistructural", Value: "unistructural", Order: 1, Description: "One relevant aspect is picked up", Verbs: []string{"identify", "name", "follow"}, Color: "#03A9F4"},
			{ID: "solo-multistructural", Name: "Multistructural", Value: "multistructural", Order: 2, Description: "Several relevant aspects, treated independently", Verbs: []string{"describe", "list", "combine"}, Color: "#4CAF50"},
			{ID: "solo-relational", Name: "Relational", Value: "relational", Order: 3, Description: "Aspects are integrated into a coherent structure", Verbs: []string{"analyze", "relate", "integrate", "apply"}, Color: "#FF9800"},
			{ID: "solo-extended-abstract", Name: "Extended Abstract", Value: "extended-abstract", Order: 4, Description: "Structure is generalized to a new domain", Verbs: []string{"theorize", "generalize", "hypothesize", "create"}, Color: "#9C27B0"},
		},
		RequireProgression:    true,
		AllowRegressionWithin: 1,
		RequireHigherOrder:    true,
		HigherOrderThreshold:  3, // relational and above
	},
	{
		ID:          PresetDOK,
		Name:        "Webb's Depth of Knowledge",
		Description: "Four levels describing the cognitive demand of a task",
		Kind:        KindLinear,
		Preset:      true,
		Levels: []Level{
			{ID: "dok-recall", Name: "Recall & Reproduction", Value: "recall", Order: 0, Description: "Recall of a fact, term, or simple procedure", Verbs: []string{"recall", "recite", "state"}, Color: "#9E9E9E"},
			{ID: "dok-skill-concept", Name: "Skills & Concepts", Value: "skill-concept", Order: 1, Description: "Use information or conceptual knowledge in two or more steps", Verbs: []string{"summarize", "estimate", "organize"}, Color: "#03A9F4"},
			{ID: "dok-strategic-thinking", Name: "Strategic Thinking", Value: "strategic-thinking", Order: 2, Description: "Reasoning and planning with more than one possible answer", Verbs: []string{"investigate", "formulate", "critique"}, Color: "#FF9800"},
			{ID: "dok-extended-thinking", Name: "Extended Thinking", Value: "extended-thinking", Order: 3, Description: "Extended investigation connecting ideas across content areas", Verbs: []string{"design", "synthesize", "prove"}, Color: "#9C27B0"},
		},
		RequireProgression:    true,
		AllowRegressionWithin: 1,
		RequireHigherOrder:    true,
		HigherOrderThreshold:  2, // strategic thinking and above
	},
	{
		ID:          PresetMarzano,
		Name:        "Marzano's New Taxonomy",
		Description: "Four cognitive-system levels from Marzano and Kendall's framework",
		Kind:        KindLinear,
		Preset:      true,
		Levels: []Level{
			{ID: "marzano-retrieval", Name: "Retrieval", Value: "retrieval", Order: 0, Description: "Recognize, recall, and execute knowledge", Verbs: []string{"recognize", "recall", "execute"}, Color: "#9E9E9E"},
			{ID: "marzano-comprehension", Name: "Comprehension", Value: "comprehension", Order: 1, Description: "Integrate and symbolize knowledge", Verbs: []string{"integrate", "symbolize", "summarize"}, Color: "#03A9F4"},
			{ID: "marzano-analysis", Name: "Analysis", Value: "analysis", Order: 2, Description: "Match, classify, generalize, and specify", Verbs: []string{"match", "classify", "generalize", "specify"}, Color: "#FF9800"},
			{ID: "marzano-knowledge-utilization", Name: "Knowledge Utilization", Value: "knowledge-utilization", Order: 3, Description: "Use knowledge in decisions, problems, experiments, and investigations", Verbs: []string{"decide", "solve", "experiment", "investigate"}, Color: "#9C27B0"},
		},
		RequireProgression:    true,
		AllowRegressionWithin: 1,
		RequireHigherOrder:    true,
		HigherOrderThreshold:  2, // analysis and above
	},
	{
		ID:          PresetFink,
		Name:        "Fink's Significant Learning",
		Description: "Six interacting, non-hierarchical dimensions of significant learning",
		Kind:        KindCategorical,
		Preset:      true,
		Levels: []Level{
			{ID: "fink-foundational", Name: "Foundational Knowledge", Value: "foundational-knowledge", Order: 0, Description: "Understanding and remembering key information and ideas", Verbs: []string{"remember", "understand", "identify"}, Color: "#9E9E9E"},
			{ID: "fink-application", Name: "Application", Value: "application", Order: 1, Description: "Skills, critical and practical thinking, managing projects", Verbs: []string{"use", "critique", "manage", "solve"}, Color: "#4CAF50"},
			{ID: "fink-integration", Name: "Integration", Value: "integration", Order: 2, Description: "Connecting ideas, people, and realms of life", Verbs: []string{"connect", "relate", "compare"}, Color: "#03A9F4"},
			{ID: "fink-human-dimension", Name: "Human Dimension", Value: "human-dimension", Order: 3, Description: "Learning about oneself and others", Verbs: []string{"reflect", "empathize", "collaborate"}, Color: "#FF9800"},
			{ID: "fink-caring", Name: "Caring", Value: "caring", Order: 4, Description: "Developing new feelings, interests, and values", Verbs: []string{"value", "appreciate", "commit"}, Color: "#E91E63"},
			{ID: "fink-learning-how-to-learn", Name: "Learning How to Learn", Value: "learning-how-to-learn", Order: 5, Description: "Becoming a better, self-directing student", Verbs: []string{"plan", "self-assess", "inquire"}, Color: "#9C27B0"},
		},
		RequireProgression:    false,
		AllowRegressionWithin: 1,
		MinUniqueLevels:       2,
		RequireHigherOrder:    false,
	},
}
