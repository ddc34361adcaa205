package leaderboard

import (
	"benchboard/internal/api/dto"
	"benchboard/internal/config"
	"benchboard/internal/database"
	"benchboard/internal/domain"
)

// ClampPaging normalizes page and limit against the configured bounds.
func ClampPaging(page, limit int) (int, int) {
	cfg := config.GetConfig()
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = cfg.Leaderboard.DefaultPageSize
	}
	if limit > cfg.Leaderboard.MaxPageSize {
		limit = cfg.Leaderboard.MaxPageSize
	}
	return page, limit
}

// BuildPage ranks the full qualifying set and slices out one page.
// Ranks are assigned over the whole ordering, so page 3 of size 20
// starts at rank 41 no matter what the page holds.
func BuildPage(deviceType string, page, limit int) (dto.LeaderboardResponse, error) {
	rows, err := database.GetLeaderboardRows(deviceType)
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	total := int64(len(rows))

	start := (page - 1) * limit
	end := start + limit
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}

	entries := make([]dto.LeaderboardEntry, 0, end-start)
	for i, row := range rows[start:end] {
		entries = append(entries, entryFromRow(row, start+i+1))
	}

	pages := 1
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}

	return dto.LeaderboardResponse{
		Leaderboard: entries,
		Pagination: dto.Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			Pages:   pages,
			HasNext: page < pages,
			HasPrev: page > 1,
		},
		DeviceType: deviceType,
	}, nil
}

// MyRank locates the caller in the same full ordering. A nil rank
// means the user has no qualifying verified result.
func MyRank(userID uint, deviceType string) (dto.MyRankResponse, error) {
	rows, err := database.GetLeaderboardRows(deviceType)
	if err != nil {
		return dto.MyRankResponse{}, err
	}

	response := dto.MyRankResponse{
		TotalParticipants: int64(len(rows)),
		DeviceType:        deviceType,
	}

	for i, row := range rows {
		if row.UserID == userID {
			rank := i + 1
			entry := entryFromRow(row, rank)
			response.Rank = &rank
			response.Result = &entry
			break
		}
	}

	return response, nil
}

func entryFromRow(row domain.BenchmarkResult, rank int) dto.LeaderboardEntry {
	return dto.LeaderboardEntry{
		Rank:                 rank,
		UserID:               row.UserID,
		Username:             row.Username,
		CPUModel:             row.CPUModel,
		CPUCores:             row.CPUCores,
		MemoryGB:             row.MemoryGB,
		DeviceType:           row.DeviceType,
		DeviceTypeConfidence: row.DeviceTypeConfidence,
		OverallWallTime:      row.OverallWallTime,
		Phase1WallTime:       row.Phase1WallTime,
		Phase2WallTime:       row.Phase2WallTime,
		PerformanceScore:     row.PerformanceScore,
		ThroughputKeysPerSec: row.ThroughputKeysPerSec,
		SubmittedAt:          row.SubmittedAt,
	}
}
