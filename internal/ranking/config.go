package ranking

// RankingConfig holds the points awarded by each signal.
type RankingConfig struct {
	ExactMatchScore   float64 `yaml:"exact_match_score"`   // default: 10
	KeywordMatchScore float64 `yaml:"keyword_match_score"` // default: 5
	PartialMatchScore float64 `yaml:"partial_match_score"` // default: 2
}

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		ExactMatchScore:   10,
		KeywordMatchScore: 5,
		PartialMatchScore: 2,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *RankingConfig) ApplyDefaults() {
	defaults := DefaultRankingConfig()
	if c.ExactMatchScore == 0 {
		c.ExactMatchScore = defaults.ExactMatchScore
	}
	if c.KeywordMatchScore == 0 {
		c.KeywordMatchScore = defaults.KeywordMatchScore
	}
	if c.PartialMatchScore == 0 {
		c.PartialMatchScore = defaults.PartialMatchScore
	}
}
