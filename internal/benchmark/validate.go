package benchmark

import "fmt"

// Accepted ranges for submitted metrics. Wall times shorter than a
// millisecond are noise from a broken run, and a non-positive time
// would outrank every honest result.
const (
	minWallTimeSeconds = 0.001
	minCPUCores        = 1
	maxCPUCores        = 256
	minMemoryGB        = 0.1
	maxMemoryGB        = 1024.0
)

// FieldError reports a submitted value outside its accepted range.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ValidateMetrics bounds-checks the optional hardware and timing
// fields of a submission or patch. Nil means absent and always passes.
func ValidateMetrics(cpuCores *int, memoryGB, phase1, phase2, overall *float64) error {
	if cpuCores != nil && (*cpuCores < minCPUCores || *cpuCores > maxCPUCores) {
		return &FieldError{
			Field:  "cpu_cores",
			Reason: fmt.Sprintf("must be between %d and %d", minCPUCores, maxCPUCores),
		}
	}
	if memoryGB != nil && (*memoryGB < minMemoryGB || *memoryGB > maxMemoryGB) {
		return &FieldError{
			Field:  "memory_gb",
			Reason: fmt.Sprintf("must be between %g and %g", minMemoryGB, maxMemoryGB),
		}
	}

	wallTimes := []struct {
		field string
		value *float64
	}{
		{"phase1_wall_time", phase1},
		{"phase2_wall_time", phase2},
		{"overall_wall_time", overall},
	}
	for _, wt := range wallTimes {
		if wt.value != nil && *wt.value < minWallTimeSeconds {
			return &FieldError{
				Field:  wt.field,
				Reason: fmt.Sprintf("must be at least %g seconds", minWallTimeSeconds),
			}
		}
	}

	return nil
}
