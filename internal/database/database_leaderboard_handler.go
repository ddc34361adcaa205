package database

import (
	"benchboard/internal/domain"
)

// GetLeaderboardRows returns every qualifying best-per-user row in
// final leaderboard order: verified results with a recorded overall
// wall time, reduced to each user's fastest run, ordered by that time
// ascending with earlier submissions winning ties. Rank assembly and
// pagination happen in the leaderboard package on top of this.
func GetLeaderboardRows(deviceType string) ([]domain.BenchmarkResult, error) {
	sub := DB.Model(&domain.BenchmarkResult{}).
		Select("user_id, MIN(overall_wall_time) AS best_time").
		Where("is_verified = ? AND overall_wall_time IS NOT NULL", true)
	if deviceType != "" {
		sub = sub.Where("device_type = ?", deviceType)
	}
	sub = sub.Group("user_id")

	query := DB.Model(&domain.BenchmarkResult{}).
		Joins("JOIN (?) AS best ON benchmark_results.user_id = best.user_id AND benchmark_results.overall_wall_time = best.best_time", sub).
		Where("benchmark_results.is_verified = ?", true)
	if deviceType != "" {
		query = query.Where("benchmark_results.device_type = ?", deviceType)
	}

	var rows []domain.BenchmarkResult
	if err := query.
		Order("benchmark_results.overall_wall_time ASC, benchmark_results.submitted_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	// A user with two runs at the exact same best time joins twice;
	// keep only the earliest submission so nobody ranks twice.
	seen := make(map[uint]struct{}, len(rows))
	deduped := rows[:0]
	for _, row := range rows {
		if _, ok := seen[row.UserID]; ok {
			continue
		}
		seen[row.UserID] = struct{}{}
		deduped = append(deduped, row)
	}

	return deduped, nil
}
