package domain

import (
	"fmt"
	"strings"
	"time"
)

// Device tiers assigned by the CPU classifier.
const (
	DeviceTypeServer   = "server"
	DeviceTypeConsumer = "consumer"
	DeviceTypeUnknown  = "unknown"
)

func IsValidDeviceType(deviceType string) bool {
	switch deviceType {
	case DeviceTypeServer, DeviceTypeConsumer, DeviceTypeUnknown:
		return true
	}
	return false
}

type BenchmarkResult struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Username string `gorm:"not null;index;size:100" json:"username"` // snapshot at submission time

	// System descriptors
	CPUModel string   `gorm:"size:255" json:"cpu_model,omitempty"`
	CPUCores *int     `gorm:"" json:"cpu_cores,omitempty"`
	MemoryGB *float64 `gorm:"" json:"memory_gb,omitempty"`

	// Classification
	DeviceType                  string  `gorm:"size:20;not null;default:'unknown';index" json:"device_type"`
	DeviceTypeConfidence        float64 `gorm:"not null;default:0" json:"device_type_confidence"`
	DeviceTypeManuallyCorrected bool    `gorm:"not null;default:false" json:"device_type_manually_corrected"`

	// Timing, seconds
	Phase1WallTime  *float64 `gorm:"" json:"phase1_wall_time,omitempty"`
	Phase2WallTime  *float64 `gorm:"" json:"phase2_wall_time,omitempty"`
	OverallWallTime *float64 `gorm:"index" json:"overall_wall_time,omitempty"`

	// Derived metrics
	ThroughputKeysPerSec *int64   `gorm:"" json:"throughput_keys_per_sec,omitempty"`
	PerformanceScore     *float64 `gorm:"index" json:"performance_score,omitempty"`

	// Metadata
	RawResultText    string `gorm:"type:text" json:"-"`
	IPAddress        string `gorm:"size:45" json:"-"`
	Country          string `gorm:"size:56;default:''" json:"country,omitempty"`
	UserAgent        string `gorm:"type:text" json:"-"`
	SubmissionSource string `gorm:"size:50;default:'web'" json:"submission_source"`
	IsVerified       bool   `gorm:"not null;default:false;index" json:"is_verified"`
	Notes            string `gorm:"type:text" json:"notes,omitempty"`

	SubmittedAt time.Time `gorm:"autoCreateTime;index" json:"submitted_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CanBeCorrectedByUser reports whether the owner may override the
// classifier's tier: either the classifier was unsure, or the record
// was corrected manually before.
func (result *BenchmarkResult) CanBeCorrectedByUser(confidenceThreshold float64) bool {
	return result.DeviceTypeConfidence < confidenceThreshold || result.DeviceTypeManuallyCorrected
}

func (result *BenchmarkResult) FormattedTime() string {
	if result.OverallWallTime == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.3fs", *result.OverallWallTime)
}

func (result *BenchmarkResult) FormattedCPUInfo() string {
	var parts []string
	if result.CPUModel != "" {
		parts = append(parts, result.CPUModel)
	}
	if result.CPUCores != nil {
		parts = append(parts, fmt.Sprintf("%d cores", *result.CPUCores))
	}
	if result.MemoryGB != nil {
		parts = append(parts, fmt.Sprintf("%.0fGB", *result.MemoryGB))
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, " | ")
}
