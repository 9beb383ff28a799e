package config

import (
	"fmt"
	"os"

	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
	"gopkg.in/yaml.v3"
)

// LoadScoringRules reads a YAML map of stat category to point weight. An empty
// path returns the PPR default.
func LoadScoringRules(path string) (analysis.ScoringRules, error) {
	if path == "" {
		return analysis.DefaultScoringRules(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scoring file: %w", err)
	}

	var rules analysis.ScoringRules
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("parsing scoring file %s: %w", path, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("scoring file %s has no categories", path)
	}
	return rules, nil
}
