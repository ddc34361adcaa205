package benchmark

import (
	"strings"
	"testing"
)

const wellFormedSample = `Benchmark run report
CPU: Intel Xeon E5-2670 v3
Cores: 16
Memory: 64GB

[Phase 1] key search
wall_time: 12.345s

[Phase 2] verification
wall_time: 8.000s

[Overall]
wall_time: 20.345s
`

func TestParseResultText_WellFormedSample(t *testing.T) {
	result := ParseResultText(wellFormedSample, 10000)

	if result.CPUModel != "Intel Xeon E5-2670 v3" {
		t.Fatalf("cpu model = %q, want %q", result.CPUModel, "Intel Xeon E5-2670 v3")
	}
	if result.CPUCores == nil || *result.CPUCores != 16 {
		t.Fatalf("cpu cores = %v, want 16", result.CPUCores)
	}
	if result.MemoryGB == nil || *result.MemoryGB != 64 {
		t.Fatalf("memory = %v, want 64", result.MemoryGB)
	}
	if result.Phase1WallTime == nil || *result.Phase1WallTime != 12.345 {
		t.Fatalf("phase1 = %v, want 12.345", result.Phase1WallTime)
	}
	if result.Phase2WallTime == nil || *result.Phase2WallTime != 8.0 {
		t.Fatalf("phase2 = %v, want 8.0", result.Phase2WallTime)
	}
	if result.OverallWallTime == nil || *result.OverallWallTime != 20.345 {
		t.Fatalf("overall = %v, want 20.345", result.OverallWallTime)
	}
}

func TestParseResultText_AlternatePhrasings(t *testing.T) {
	text := "[Phase 1] finished in 5.5s\n[Phase 2] finished in 2.25s\n"

	result := ParseResultText(text, 10000)

	if result.Phase1WallTime == nil || *result.Phase1WallTime != 5.5 {
		t.Fatalf("phase1 = %v, want 5.5", result.Phase1WallTime)
	}
	if result.Phase2WallTime == nil || *result.Phase2WallTime != 2.25 {
		t.Fatalf("phase2 = %v, want 2.25", result.Phase2WallTime)
	}
	if result.OverallWallTime != nil {
		t.Fatalf("overall = %v, want absent", result.OverallWallTime)
	}
}

func TestParseResultText_LooseSectionMarkers(t *testing.T) {
	text := "Phase 1 took 3.5s in total\n"

	result := ParseResultText(text, 10000)

	if result.Phase1WallTime == nil || *result.Phase1WallTime != 3.5 {
		t.Fatalf("phase1 = %v, want 3.5", result.Phase1WallTime)
	}
}

func TestParseResultText_UnparseableTextYieldsEmptyResult(t *testing.T) {
	result := ParseResultText("nothing useful in here", 10000)

	if !result.IsEmpty() {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestParseResultText_MalformedNumberPoisonsWholeParse(t *testing.T) {
	text := "CPU: Intel Core i7-9700K\n[Phase 1]\nwall_time: 1.2.3s\n"

	result := ParseResultText(text, 10000)

	if !result.IsEmpty() {
		t.Fatalf("expected empty result on malformed number, got %+v", result)
	}
}

func TestParseResultText_InputTruncatedAtLimit(t *testing.T) {
	// The cores line sits beyond the size bound and must be ignored.
	text := "CPU: Test CPU\n" + strings.Repeat("x", 100) + "\nCores: 8\n"

	result := ParseResultText(text, 40)

	if result.CPUModel != "Test CPU" {
		t.Fatalf("cpu model = %q, want %q", result.CPUModel, "Test CPU")
	}
	if result.CPUCores != nil {
		t.Fatalf("cpu cores = %v, want absent after truncation", result.CPUCores)
	}
}
