package audit

// Config holds the tunable thresholds used by the checks. The defaults carry
// the values course reviewers have calibrated against real catalogs; change
// them per project via .coursecheck.yaml rather than editing call sites.
type Config struct {
	// SimilarityThreshold is the keyword-overlap ratio above which two
	// activities count as near-duplicates.
	SimilarityThreshold float64

	// SimilarityMinContentLength is the minimum content length, in
	// characters, before an activity participates in similarity pairing.
	SimilarityMinContentLength int

	// ShortModuleRatio and LongModuleRatio bound a module's duration
	// relative to the course mean.
	ShortModuleRatio float64
	LongModuleRatio  float64

	// DistributionTargets are the desired content-mix percentages.
	DistributionTargets DistributionTargets

	// DistributionTolerance is the allowed deviation, in percentage points,
	// from each distribution target. A share exactly at the tolerance edge
	// counts as outside.
	DistributionTolerance float64

	// DraftListLimit caps how many draft activities one gaps warning names.
	DraftListLimit int
}

// DistributionTargets holds desired percentage shares per content bucket.
type DistributionTargets struct {
	Video       float64
	Reading     float64
	Labs        float64 // lab + hol
	Assessments float64 // quiz + assignment + project
}

// DefaultConfig returns the calibrated default thresholds.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:        0.70,
		SimilarityMinContentLength: 100,
		ShortModuleRatio:           0.3,
		LongModuleRatio:            2.5,
		DistributionTargets: DistributionTargets{
			Video:       30,
			Reading:     20,
			Labs:        30,
			Assessments: 20,
		},
		DistributionTolerance: 10,
		DraftListLimit:        5,
	}
}

// normalized fills unset fields with defaults so a zero Config behaves like
// DefaultConfig rather than flagging everything.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = def.SimilarityThreshold
	}
	if c.SimilarityMinContentLength <= 0 {
		c.SimilarityMinContentLength = def.SimilarityMinContentLength
	}
	if c.ShortModuleRatio <= 0 {
		c.ShortModuleRatio = def.ShortModuleRatio
	}
	if c.LongModuleRatio <= 0 {
		c.LongModuleRatio = def.LongModuleRatio
	}
	if c.DistributionTargets == (DistributionTargets{}) {
		c.DistributionTargets = def.DistributionTargets
	}
	if c.DistributionTolerance <= 0 {
		c.DistributionTolerance = def.DistributionTolerance
	}
	if c.DraftListLimit <= 0 {
		c.DraftListLimit = def.DraftListLimit
	}
	return c
}
