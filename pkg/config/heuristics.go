package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

// StageBucket maps a proxy value at or above Min to a lifecycle stage.
// Buckets in a table must be listed with ascending Min.
type StageBucket struct {
	Min   float64          `yaml:"min" json:"min"`
	Stage interfaces.Stage `yaml:"stage" json:"stage"`
}

// StageThresholds is the stage-inference table for sources that lack an
// explicit lifecycle stage. Each proxy (repository count, star count, age in
// years) is bucketed independently; the final stage is the most conservative
// of the three candidates.
type StageThresholds struct {
	Repos    []StageBucket `yaml:"repos" json:"repos"`
	Stars    []StageBucket `yaml:"stars" json:"stars"`
	AgeYears []StageBucket `yaml:"ageYears" json:"ageYears"`
}

// FounderPolicy controls inference of co-founded edges from implicit
// activity signals. A contributor qualifies when their contribution count
// meets MinContributions and the activity timestamp falls within
// RecencyMonths of the organization's creation.
type FounderPolicy struct {
	MinContributions int `yaml:"minContributions" json:"minContributions"`
	RecencyMonths    int `yaml:"recencyMonths" json:"recencyMonths"`
}

// Heuristics bundles every mapper inference table
type Heuristics struct {
	Stage StageThresholds `yaml:"stage" json:"stage"`

	// DomainLookup remaps raw categorical signals to human domain tags.
	// Signals without an entry pass through unchanged.
	DomainLookup map[string]string `yaml:"domainLookup" json:"domainLookup"`

	// TopSignals is how many ranked categorical signals feed domain tags
	TopSignals int `yaml:"topSignals" json:"topSignals"`

	Founder FounderPolicy `yaml:"founder" json:"founder"`
}

// DefaultHeuristics returns the built-in inference tables. The values are
// deliberately coarse; they exist to be reproducible, not authoritative.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		Stage: StageThresholds{
			Repos: []StageBucket{
				{Min: 0, Stage: interfaces.StageSeed},
				{Min: 5, Stage: interfaces.StageSeriesA},
				{Min: 20, Stage: interfaces.StageSeriesB},
				{Min: 50, Stage: interfaces.StageGrowth},
			},
			Stars: []StageBucket{
				{Min: 0, Stage: interfaces.StageSeed},
				{Min: 100, Stage: interfaces.StageSeriesA},
				{Min: 1000, Stage: interfaces.StageSeriesB},
				{Min: 10000, Stage: interfaces.StageGrowth},
			},
			AgeYears: []StageBucket{
				{Min: 0, Stage: interfaces.StageSeed},
				{Min: 2, Stage: interfaces.StageSeriesA},
				{Min: 5, Stage: interfaces.StageSeriesB},
				{Min: 10, Stage: interfaces.StageGrowth},
			},
		},
		DomainLookup: map[string]string{
			"ai":                      "AI",
			"artificial-intelligence": "AI",
			"machine-learning":        "AI",
			"ml":                      "AI",
			"llm":                     "AI",
			"fintech":                 "Fintech",
			"payments":                "Fintech",
			"healthcare":              "Healthcare",
			"healthtech":              "Healthcare",
			"biotech":                 "Healthcare",
			"developer-tools":         "DevTools",
			"devtools":                "DevTools",
			"database":                "Infrastructure",
			"kubernetes":              "Infrastructure",
			"cloud":                   "Infrastructure",
			"security":                "Security",
			"blockchain":              "Crypto",
			"crypto":                  "Crypto",
			"ecommerce":               "Commerce",
			"saas":                    "SaaS",
		},
		TopSignals: 3,
		Founder: FounderPolicy{
			MinContributions: 50,
			RecencyMonths:    6,
		},
	}
}

// InferStage resolves a lifecycle stage from the three proxies. Each proxy
// picks the highest bucket it reaches; the result is the earliest of the
// three candidate stages so a single inflated proxy cannot escalate alone.
func (t StageThresholds) InferStage(repos, stars int, ageYears float64) interfaces.Stage {
	candidates := []interfaces.Stage{
		bucketStage(t.Repos, float64(repos)),
		bucketStage(t.Stars, float64(stars)),
		bucketStage(t.AgeYears, ageYears),
	}

	result := candidates[0]
	for _, c := range candidates[1:] {
		if stageIndex(c) < stageIndex(result) {
			result = c
		}
	}
	return result
}

func bucketStage(buckets []StageBucket, value float64) interfaces.Stage {
	stage := interfaces.StageSeed
	for _, b := range buckets {
		if value >= b.Min {
			stage = b.Stage
		}
	}
	return stage
}

func stageIndex(s interfaces.Stage) int {
	for i, stage := range interfaces.Stages {
		if stage == s {
			return i
		}
	}
	return 0
}

// Validate checks that the tables are well formed
func (h Heuristics) Validate() error {
	for name, buckets := range map[string][]StageBucket{
		"repos":    h.Stage.Repos,
		"stars":    h.Stage.Stars,
		"ageYears": h.Stage.AgeYears,
	} {
		if len(buckets) == 0 {
			return fmt.Errorf("heuristics: stage.%s has no buckets", name)
		}
		if !sort.SliceIsSorted(buckets, func(i, j int) bool {
			return buckets[i].Min < buckets[j].Min
		}) {
			return fmt.Errorf("heuristics: stage.%s buckets must be ascending by min", name)
		}
		for _, b := range buckets {
			if !b.Stage.Valid() {
				return fmt.Errorf("heuristics: stage.%s references unknown stage %q", name, b.Stage)
			}
		}
	}
	if h.TopSignals <= 0 {
		return fmt.Errorf("heuristics: topSignals must be positive")
	}
	if h.Founder.MinContributions < 0 || h.Founder.RecencyMonths <= 0 {
		return fmt.Errorf("heuristics: founder policy out of range")
	}
	return nil
}

// LoadHeuristics reads an inference table overlay from a YAML file
func LoadHeuristics(path string) (Heuristics, error) {
	h := DefaultHeuristics()

	data, err := os.ReadFile(path)
	if err != nil {
		return h, fmt.Errorf("failed to read heuristics file: %w", err)
	}
	if err := yaml.Unmarshal(data, &h); err != nil {
		return h, fmt.Errorf("failed to parse heuristics file: %w", err)
	}
	if err := h.Validate(); err != nil {
		return h, err
	}
	return h, nil
}
