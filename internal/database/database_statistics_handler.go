package database

import (
	"time"

	"benchboard/internal/api/dto"
	"benchboard/internal/domain"
)

// GetBenchmarkStatistics aggregates platform-wide counters over the
// result set. Averages and minima are nil when nothing qualifies.
func GetBenchmarkStatistics() (dto.BenchmarkStatistics, error) {
	var stats dto.BenchmarkStatistics

	if err := DB.Model(&domain.BenchmarkResult{}).Count(&stats.TotalResults).Error; err != nil {
		return stats, err
	}

	if err := DB.Model(&domain.BenchmarkResult{}).
		Where("is_verified = ?", true).
		Count(&stats.VerifiedResults).Error; err != nil {
		return stats, err
	}

	tierCounts := []struct {
		tier  string
		count *int64
	}{
		{domain.DeviceTypeServer, &stats.ServerResults},
		{domain.DeviceTypeConsumer, &stats.ConsumerResults},
		{domain.DeviceTypeUnknown, &stats.UnknownResults},
	}
	for _, tc := range tierCounts {
		if err := DB.Model(&domain.BenchmarkResult{}).
			Where("is_verified = ? AND device_type = ?", true, tc.tier).
			Count(tc.count).Error; err != nil {
			return stats, err
		}
	}

	// "Today" means the current UTC calendar date.
	dayStart := time.Now().UTC().Truncate(24 * time.Hour)
	if err := DB.Model(&domain.BenchmarkResult{}).
		Where("submitted_at >= ? AND submitted_at < ?", dayStart, dayStart.Add(24*time.Hour)).
		Count(&stats.TodayResults).Error; err != nil {
		return stats, err
	}

	type timing struct {
		Avg  *float64 `gorm:"column:avg_time"`
		Best *float64 `gorm:"column:best_time"`
	}
	var t timing
	if err := DB.Model(&domain.BenchmarkResult{}).
		Where("is_verified = ? AND overall_wall_time IS NOT NULL", true).
		Select("AVG(overall_wall_time) AS avg_time, MIN(overall_wall_time) AS best_time").
		Scan(&t).Error; err != nil {
		return stats, err
	}
	stats.AvgCompletionTime = t.Avg
	stats.BestCompletionTime = t.Best

	return stats, nil
}
