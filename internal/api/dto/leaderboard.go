package dto

import "time"

type LeaderboardEntry struct {
	Rank                 int       `json:"rank"`
	UserID               uint      `json:"user_id"`
	Username             string    `json:"username"`
	CPUModel             string    `json:"cpu_model,omitempty"`
	CPUCores             *int      `json:"cpu_cores,omitempty"`
	MemoryGB             *float64  `json:"memory_gb,omitempty"`
	DeviceType           string    `json:"device_type"`
	DeviceTypeConfidence float64   `json:"device_type_confidence"`
	OverallWallTime      *float64  `json:"overall_wall_time,omitempty"`
	Phase1WallTime       *float64  `json:"phase1_wall_time,omitempty"`
	Phase2WallTime       *float64  `json:"phase2_wall_time,omitempty"`
	PerformanceScore     *float64  `json:"performance_score,omitempty"`
	ThroughputKeysPerSec *int64    `json:"throughput_keys_per_sec,omitempty"`
	SubmittedAt          time.Time `json:"submitted_at"`
}

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Pagination  Pagination         `json:"pagination"`
	DeviceType  string             `json:"device_type,omitempty"`
}

type MyRankResponse struct {
	Rank              *int              `json:"rank"`
	Result            *LeaderboardEntry `json:"result"`
	TotalParticipants int64             `json:"total_participants"`
	DeviceType        string            `json:"device_type,omitempty"`
}

type BenchmarkStatistics struct {
	TotalResults       int64    `json:"total_results"`
	VerifiedResults    int64    `json:"verified_results"`
	ServerResults      int64    `json:"server_results"`
	ConsumerResults    int64    `json:"consumer_results"`
	UnknownResults     int64    `json:"unknown_results"`
	TodayResults       int64    `json:"today_results"`
	AvgCompletionTime  *float64 `json:"avg_completion_time"`
	BestCompletionTime *float64 `json:"best_completion_time"`
}
