package benchmark

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedResult carries whatever fields could be recovered from a raw
// benchmark output blob. Nil means the field was not present.
type ParsedResult struct {
	CPUModel        string   `json:"cpu_model,omitempty"`
	CPUCores        *int     `json:"cpu_cores,omitempty"`
	MemoryGB        *float64 `json:"memory_gb,omitempty"`
	Phase1WallTime  *float64 `json:"phase1_wall_time,omitempty"`
	Phase2WallTime  *float64 `json:"phase2_wall_time,omitempty"`
	OverallWallTime *float64 `json:"overall_wall_time,omitempty"`
}

func (p ParsedResult) IsEmpty() bool {
	return p.CPUModel == "" &&
		p.CPUCores == nil &&
		p.MemoryGB == nil &&
		p.Phase1WallTime == nil &&
		p.Phase2WallTime == nil &&
		p.OverallWallTime == nil
}

var (
	cpuModelPattern = regexp.MustCompile(`(?i)CPU\s*[:\s]\s*([^\n]+)`)
	cpuCoresPattern = regexp.MustCompile(`(?i)Cores?(?:_logical)?\s*[:\s]\s*(\d+)`)
	memoryPattern   = regexp.MustCompile(`(?i)Memory\s*[:\s]\s*([\d.]+)\s*(?:GB|GiB)`)

	// Ordered candidates per timing field: explicit section markers
	// first, loose phrasings last. The first match wins.
	phase1Patterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)\[Phase\s*1\].*?wall_time\s*[:\s]\s*([\d.]+)\s*s`),
		regexp.MustCompile(`(?is)\[Phase\s*1\].*?finished\s+in\s+([\d.]+)\s*s`),
		regexp.MustCompile(`(?is)Phase\s*1.*?([\d.]+)\s*s`),
	}
	phase2Patterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)\[Phase\s*2\].*?wall_time\s*[:\s]\s*([\d.]+)\s*s`),
		regexp.MustCompile(`(?is)\[Phase\s*2\].*?finished\s+in\s+([\d.]+)\s*s`),
		regexp.MustCompile(`(?is)Phase\s*2.*?([\d.]+)\s*s`),
	}
	overallPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)\[Overall\].*?wall_time\s*[:\s]\s*([\d.]+)\s*s`),
		regexp.MustCompile(`(?is)\[Overall\].*?total\s+wall_time:\s*([\d.]+)\s*s`),
		regexp.MustCompile(`(?is)overall.*?([\d.]+)\s*s`),
		regexp.MustCompile(`(?is)total.*?wall_time:\s*([\d.]+)\s*s`),
	}
)

// ParseResultText extracts system and timing fields from free-form
// benchmark tool output. Every field is optional; completely
// unrecognizable input yields an empty result. A matched span whose
// numeric literal does not parse poisons the whole attempt, because
// it means the tool output was mangled somewhere upstream.
func ParseResultText(text string, maxInput int) ParsedResult {
	if maxInput > 0 && len(text) > maxInput {
		text = text[:maxInput]
	}

	var result ParsedResult

	if match := cpuModelPattern.FindStringSubmatch(text); match != nil {
		result.CPUModel = strings.TrimSpace(match[1])
	}

	if match := cpuCoresPattern.FindStringSubmatch(text); match != nil {
		cores, err := strconv.Atoi(match[1])
		if err != nil {
			return ParsedResult{}
		}
		result.CPUCores = &cores
	}

	if match := memoryPattern.FindStringSubmatch(text); match != nil {
		memory, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return ParsedResult{}
		}
		result.MemoryGB = &memory
	}

	var ok bool
	if result.Phase1WallTime, ok = firstTimingMatch(phase1Patterns, text); !ok {
		return ParsedResult{}
	}
	if result.Phase2WallTime, ok = firstTimingMatch(phase2Patterns, text); !ok {
		return ParsedResult{}
	}
	if result.OverallWallTime, ok = firstTimingMatch(overallPatterns, text); !ok {
		return ParsedResult{}
	}

	return result
}

// firstTimingMatch walks the pattern candidates in order and returns
// the first parsed value. ok is false only when a pattern matched but
// its captured literal was not a valid number.
func firstTimingMatch(patterns []*regexp.Regexp, text string) (*float64, bool) {
	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return nil, false
		}
		return &value, true
	}
	return nil, true
}
