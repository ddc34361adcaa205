package benchmark

import (
	"regexp"
	"strings"

	"benchboard/internal/domain"
)

// keywordWeight pairs a lowercase substring cue with the confidence it
// contributes when found in a CPU model string.
type keywordWeight struct {
	keyword string
	weight  float64
}

// Server-indicative cues. Brand markers score high, generic terms low.
var serverKeywords = []keywordWeight{
	{"xeon", 0.95},
	{"epyc", 0.95},
	{"power", 0.95},
	{"opteron", 0.8},
	{"cavium", 0.8},
	{"thunderx", 0.8},
	{"ampere", 0.8},
	{"altra", 0.8},
	{"itanium", 0.8},
	{"server", 0.8},
	{"workstation", 0.8},
	{"ws", 0.8},
}

// Consumer-indicative cues.
var consumerKeywords = []keywordWeight{
	{"core i3", 0.95},
	{"core i5", 0.95},
	{"core i7", 0.95},
	{"core i9", 0.95},
	{"ryzen 3", 0.95},
	{"ryzen 5", 0.95},
	{"ryzen 7", 0.95},
	{"ryzen 9", 0.95},
	{"core i", 0.9},
	{"ryzen", 0.9},
	{"i3-", 0.9},
	{"i5-", 0.9},
	{"i7-", 0.9},
	{"i9-", 0.9},
	{"intel core", 0.9},
	{"core(tm)", 0.9},
	{"fx-", 0.7},
	{"athlon", 0.7},
	{"sempron", 0.7},
	{"pentium", 0.7},
	{"celeron", 0.7},
	{"apple m1", 0.7},
	{"apple m2", 0.7},
	{"apple m3", 0.7},
	{"apple m4", 0.7},
	{"snapdragon", 0.7},
	{"mediatek", 0.7},
	{"exynos", 0.7},
	{"desktop", 0.7},
	{"laptop", 0.7},
	{"mobile", 0.7},
}

var (
	// High-precision structural overrides. A model naming a server
	// SKU family is near-certain regardless of keyword score.
	xeonSeriesPattern = regexp.MustCompile(`(?i)xeon\s+(?:gold|silver|bronze|platinum|w-\d+|d-\d+)`)
	epycSeriesPattern = regexp.MustCompile(`(?i)epyc\s+\d+[a-z]*`)

	// Mobile SKU suffix (e.g. "Core i7-12700H") marks a consumer part.
	mobileSuffixPattern = regexp.MustCompile(`(?i)core\s+.*\d[uhqmk]$`)
)

var (
	serverFallbackTerms   = []string{"server", "workstation", "ws"}
	consumerFallbackTerms = []string{"desktop", "laptop", "mobile"}
)

// ClassifyCPU assigns a device tier and a confidence in [0,1] from a
// free-text CPU model. It is a pure function of the model string, the
// static cue tables above and the threshold policy.
func ClassifyCPU(cpuModel string, policy Policy) (string, float64) {
	if strings.TrimSpace(cpuModel) == "" {
		return domain.DeviceTypeUnknown, 0.0
	}

	model := strings.ToLower(cpuModel)

	serverScore := maxKeywordWeight(model, serverKeywords)
	consumerScore := maxKeywordWeight(model, consumerKeywords)

	if xeonSeriesPattern.MatchString(model) || epycSeriesPattern.MatchString(model) {
		serverScore = maxFloat(serverScore, 0.98)
	}
	if mobileSuffixPattern.MatchString(model) {
		consumerScore = maxFloat(consumerScore, 0.9)
	}

	if serverScore > consumerScore && serverScore >= policy.HighConfidence {
		return domain.DeviceTypeServer, serverScore
	}
	if consumerScore > serverScore && consumerScore >= policy.HighConfidence {
		return domain.DeviceTypeConsumer, consumerScore
	}

	// Weak cues: a generic term plus a non-trivial score still lets us
	// pick a side, at a capped confidence.
	if containsAny(model, serverFallbackTerms) && serverScore > policy.WeakCueFloor {
		return domain.DeviceTypeServer, maxFloat(serverScore, policy.FallbackScore)
	}
	if containsAny(model, consumerFallbackTerms) && consumerScore > policy.WeakCueFloor {
		return domain.DeviceTypeConsumer, maxFloat(consumerScore, policy.FallbackScore)
	}

	return domain.DeviceTypeUnknown, 0.0
}

func maxKeywordWeight(model string, keywords []keywordWeight) float64 {
	score := 0.0
	for _, kw := range keywords {
		if strings.Contains(model, kw.keyword) && kw.weight > score {
			score = kw.weight
		}
	}
	return score
}

func containsAny(model string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(model, term) {
			return true
		}
	}
	return false
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
