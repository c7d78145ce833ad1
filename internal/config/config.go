// Package config loads the optional .coursecheck.yaml project file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/coursecheck/internal/audit"
)

// FileName is the project config file, discovered in the working directory
// or any parent.
const FileName = ".coursecheck.yaml"

// Config is the project-level configuration. The zero value means no
// overrides: unset audit fields fall back to the engine defaults.
type Config struct {
	// Taxonomy is the default taxonomy ID used when a command gets no
	// --taxonomy flag.
	Taxonomy string `yaml:"taxonomy"`

	// DB overrides the database path. The --db flag still wins.
	DB string `yaml:"db"`

	Audit AuditConfig `yaml:"audit"`
}

// AuditConfig mirrors the engine tunables in YAML form.
type AuditConfig struct {
	SimilarityThreshold        float64             `yaml:"similarity_threshold"`
	SimilarityMinContentLength int                 `yaml:"similarity_min_content_length"`
	ShortModuleRatio           float64             `yaml:"short_module_ratio"`
	LongModuleRatio            float64             `yaml:"long_module_ratio"`
	DistributionTargets        DistributionTargets `yaml:"distribution_targets"`
	DistributionTolerance      float64             `yaml:"distribution_tolerance"`
	DraftListLimit             int                 `yaml:"draft_list_limit"`
}

// DistributionTargets holds desired percentage shares per content bucket.
type DistributionTargets struct {
	Video       float64 `yaml:"video"`
	Reading     float64 `yaml:"reading"`
	Labs        float64 `yaml:"labs"`
	Assessments float64 `yaml:"assessments"`
}

// EngineConfig converts the YAML tunables into an engine config. Zero
// fields stay zero and the engine fills them with its defaults.
func (a AuditConfig) EngineConfig() audit.Config {
	return audit.Config{
		SimilarityThreshold:        a.SimilarityThreshold,
		SimilarityMinContentLength: a.SimilarityMinContentLength,
		ShortModuleRatio:           a.ShortModuleRatio,
		LongModuleRatio:            a.LongModuleRatio,
		DistributionTargets: audit.DistributionTargets{
			Video:       a.DistributionTargets.Video,
			Reading:     a.DistributionTargets.Reading,
			Labs:        a.DistributionTargets.Labs,
			Assessments: a.DistributionTargets.Assessments,
		},
		DistributionTolerance: a.DistributionTolerance,
		DraftListLimit:        a.DraftListLimit,
	}
}

// Validate rejects values no deployment could want. Zero means unset and is
// always valid.
func (c *Config) Validate() error {
	a := c.Audit
	if a.SimilarityThreshold < 0 || a.SimilarityThreshold > 1 {
		return fmt.Errorf("audit.similarity_threshold must be between 0 and 1")
	}
	if a.SimilarityMinContentLength < 0 {
		return fmt.Errorf("audit.similarity_min_content_length must be >= 0")
	}
	if a.ShortModuleRatio < 0 || a.LongModuleRatio < 0 {
		return fmt.Errorf("audit module duration ratios must be >= 0")
	}
	for _, target := range []float64{
		a.DistributionTargets.Video,
		a.DistributionTargets.Reading,
		a.DistributionTargets.Labs,
		a.DistributionTargets.Assessments,
	} {
		if target < 0 || target > 100 {
			return fmt.Errorf("audit.distribution_targets entries must be between 0 and 100")
		}
	}
	if a.DistributionTolerance < 0 || a.DistributionTolerance > 100 {
		return fmt.Errorf("audit.distribution_tolerance must be between 0 and 100")
	}
	if a.DraftListLimit < 0 {
		return fmt.Errorf("audit.draft_list_limit must be >= 0")
	}
	return nil
}

// Load parses the project config nearest to dir, walking toward the
// filesystem root. dir == "" means the working directory. A missing file is
// not an error and yields the zero config.
func Load(dir string) (*Config, error) {
	path := Find(dir)
	if path == "" {
		return &Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile parses and validates one specific config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Find returns the path of the nearest project config file, or "" when no
// directory from dir up to the root contains one.
func Find(dir string) string {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
