package config

import "time"

// TiersConfig maps the ordered tier names (tier1..tier3) to their model
// settings. Loaded from tiers.yaml.
type TiersConfig struct {
	Tiers map[string]TierSettings `yaml:"tiers"`
}

// TierSettings is the static configuration for one model tier.
// Upgradeable gates escalation out of the tier; AcceptsEscalation gates
// escalation into it.
type TierSettings struct {
	Provider          string        `yaml:"provider"`
	Model             string        `yaml:"model"`
	DisplayName       string        `yaml:"display_name"`
	MaxTokens         int           `yaml:"max_tokens"`
	Temperature       float64       `yaml:"temperature"`
	Timeout           time.Duration `yaml:"timeout"`
	Upgradeable       bool          `yaml:"upgradeable"`
	AcceptsEscalation bool          `yaml:"accepts_escalation"`
}

// ForTier returns the settings for a tier name like "tier2".
func (tc *TiersConfig) ForTier(name string) (TierSettings, bool) {
	s, ok := tc.Tiers[name]
	return s, ok
}
