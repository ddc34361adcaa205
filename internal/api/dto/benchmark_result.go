package dto

// BenchmarkResultCreate is the submission payload. Every performance
// field is optional; raw text alone is enough when the parser can
// recover the fields from it.
type BenchmarkResultCreate struct {
	CPUModel        string   `json:"cpu_model,omitempty"`
	CPUCores        *int     `json:"cpu_cores,omitempty"`
	MemoryGB        *float64 `json:"memory_gb,omitempty"`
	Phase1WallTime  *float64 `json:"phase1_wall_time,omitempty"`
	Phase2WallTime  *float64 `json:"phase2_wall_time,omitempty"`
	OverallWallTime *float64 `json:"overall_wall_time,omitempty"`
	RawResultText   string   `json:"raw_result_text,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// BenchmarkResultUpdate is an owner-restricted partial patch; nil
// fields stay untouched.
type BenchmarkResultUpdate struct {
	CPUModel        *string  `json:"cpu_model,omitempty"`
	CPUCores        *int     `json:"cpu_cores,omitempty"`
	MemoryGB        *float64 `json:"memory_gb,omitempty"`
	Phase1WallTime  *float64 `json:"phase1_wall_time,omitempty"`
	Phase2WallTime  *float64 `json:"phase2_wall_time,omitempty"`
	OverallWallTime *float64 `json:"overall_wall_time,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

type DeviceTypeCorrection struct {
	DeviceType string `json:"device_type"`
}

type ParseTextRequest struct {
	Text string `json:"text"`
}
