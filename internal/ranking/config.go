package ranking

// ScoringConfig holds the scoring constants for field matching.
type ScoringConfig struct {
	// SubstringScore is awarded per token found verbatim in a field value.
	SubstringScore float64 `yaml:"substring_score"` // default: 10
	// PrefixBonus is added when the substring match starts the value.
	PrefixBonus float64 `yaml:"prefix_bonus"` // default: 5
	// WordBoundaryBonus is added when the substring match starts the value
	// or immediately follows a space. Stacks with PrefixBonus at offset 0.
	WordBoundaryBonus float64 `yaml:"word_boundary_bonus"` // default: 3
	// PartialMatchScale scales the in-order partial character fallback,
	// which contributes (foundChars/tokenLength) * PartialMatchScale.
	PartialMatchScale float64 `yaml:"partial_match_scale"` // default: 2
}

// DefaultScoringConfig returns the default scoring configuration.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		SubstringScore:    10,
		PrefixBonus:       5,
		WordBoundaryBonus: 3,
		PartialMatchScale: 2,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *ScoringConfig) ApplyDefaults() {
	defaults := DefaultScoringConfig()

	if c.SubstringScore == 0 {
		c.SubstringScore = defaults.SubstringScore
	}
	if c.PrefixBonus == 0 {
		c.PrefixBonus = defaults.PrefixBonus
	}
	if c.WordBoundaryBonus == 0 {
		c.WordBoundaryBonus = defaults.WordBoundaryBonus
	}
	if c.PartialMatchScale == 0 {
		c.PartialMatchScale = defaults.PartialMatchScale
	}
}
