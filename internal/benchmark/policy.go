package benchmark

import (
	"benchboard/internal/config"
)

// Policy bundles the tunable constants of the submission pipeline so
// that tests and operators can vary them without recompiling.
type Policy struct {
	// Quota
	MaxVerifiedPerUser int

	// Scoring
	BaselineSeconds float64
	KeyBits         int

	// Classifier thresholds
	HighConfidence float64
	WeakCueFloor   float64
	FallbackScore  float64

	// Parsing
	MaxParseInput int

	DefaultSource string
}

func DefaultPolicy() Policy {
	return Policy{
		MaxVerifiedPerUser: 3,
		BaselineSeconds:    100.0,
		KeyBits:            28,
		HighConfidence:     0.7,
		WeakCueFloor:       0.3,
		FallbackScore:      0.6,
		MaxParseInput:      10000,
		DefaultSource:      "web",
	}
}

func PolicyFromConfig(cfg config.Config) Policy {
	return Policy{
		MaxVerifiedPerUser: cfg.Submissions.MaxVerifiedPerUser,
		BaselineSeconds:    cfg.Scoring.BaselineSeconds,
		KeyBits:            cfg.Scoring.KeyBits,
		HighConfidence:     cfg.Classifier.HighConfidence,
		WeakCueFloor:       cfg.Classifier.WeakCueFloor,
		FallbackScore:      cfg.Classifier.FallbackScore,
		MaxParseInput:      cfg.Submissions.MaxParseInput,
		DefaultSource:      cfg.Submissions.DefaultSource,
	}
}
