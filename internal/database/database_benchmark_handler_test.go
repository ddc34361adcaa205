package database

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"gorm.io/driver/sqlite"

	"benchboard/internal/api/dto"
	"benchboard/internal/benchmark"
	"benchboard/internal/domain"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	_, err := SetupDB(
		WithDialector(sqlite.Open(dsn)),
		WithLogger(silentLogger()),
	)
	if err != nil {
		t.Fatalf("setup test database: %v", err)
	}

	t.Cleanup(func() { DB = nil })
}

func seedUser(t *testing.T, username string) *domain.User {
	t.Helper()

	user := &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Role:     "user",
	}
	if err := DB.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func newResult(userID uint, username, cpuModel string, phase1, overall float64) *domain.BenchmarkResult {
	return &domain.BenchmarkResult{
		UserID:          userID,
		Username:        username,
		CPUModel:        cpuModel,
		Phase1WallTime:  &phase1,
		OverallWallTime: &overall,
	}
}

func countResults(t *testing.T, userID uint) int64 {
	t.Helper()

	var count int64
	if err := DB.Model(&domain.BenchmarkResult{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count results: %v", err)
	}
	return count
}

func TestCreateBenchmarkResult_DerivesFields(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	policy := benchmark.DefaultPolicy()

	result := newResult(user.ID, user.Username, "Intel Xeon Gold 6248R", 12.345, 20.345)
	if err := CreateBenchmarkResult(result, policy); err != nil {
		t.Fatalf("create result: %v", err)
	}

	if !result.IsVerified {
		t.Fatal("expected submission to be verified")
	}
	if result.DeviceType != domain.DeviceTypeServer {
		t.Fatalf("device type = %q, want server", result.DeviceType)
	}
	if result.DeviceTypeConfidence < 0.98 {
		t.Fatalf("confidence = %v, want >= 0.98", result.DeviceTypeConfidence)
	}
	if result.PerformanceScore == nil || *result.PerformanceScore != 4915.21 {
		t.Fatalf("performance score = %v, want 4915.21", result.PerformanceScore)
	}
	wantThroughput := int64(math.Pow(2, float64(policy.KeyBits)) / 12.345)
	if result.ThroughputKeysPerSec == nil || *result.ThroughputKeysPerSec != wantThroughput {
		t.Fatalf("throughput = %v, want %v", result.ThroughputKeysPerSec, wantThroughput)
	}
	if result.SubmissionSource != policy.DefaultSource {
		t.Fatalf("source = %q, want %q", result.SubmissionSource, policy.DefaultSource)
	}
}

func TestCreateBenchmarkResult_QuotaExceeded(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "bob")
	policy := benchmark.DefaultPolicy()

	for i := 0; i < policy.MaxVerifiedPerUser; i++ {
		result := newResult(user.ID, user.Username, "AMD Ryzen 9 5900X", 10.0, float64(20+i))
		if err := CreateBenchmarkResult(result, policy); err != nil {
			t.Fatalf("create result %d: %v", i, err)
		}
	}

	rejected := newResult(user.ID, user.Username, "AMD Ryzen 9 5900X", 10.0, 50.0)
	err := CreateBenchmarkResult(rejected, policy)
	if err == nil {
		t.Fatal("expected quota error, got nil")
	}

	var quotaErr *benchmark.QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if quotaErr.Verified != policy.MaxVerifiedPerUser {
		t.Fatalf("quota error verified = %d, want %d", quotaErr.Verified, policy.MaxVerifiedPerUser)
	}

	// The rejected submission must not have touched stored state.
	if got := countResults(t, user.ID); got != int64(policy.MaxVerifiedPerUser) {
		t.Fatalf("stored results = %d, want %d", got, policy.MaxVerifiedPerUser)
	}
}

func TestCreateBenchmarkResult_RejectsOutOfRangeMetrics(t *testing.T) {
	setupTestDB(t)
	honest := seedUser(t, "honest")
	cheat := seedUser(t, "cheat")
	policy := benchmark.DefaultPolicy()

	good := newResult(honest.ID, honest.Username, "Intel Xeon Gold 6248R", 12.345, 20.0)
	if err := CreateBenchmarkResult(good, policy); err != nil {
		t.Fatalf("create honest result: %v", err)
	}

	t.Run("non-positive overall never stored", func(t *testing.T) {
		bad := newResult(cheat.ID, cheat.Username, "AMD Ryzen 9 5900X", 10.0, -5.0)
		err := CreateBenchmarkResult(bad, policy)

		var fieldErr *benchmark.FieldError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("expected FieldError, got %v", err)
		}
		if fieldErr.Field != "overall_wall_time" {
			t.Fatalf("field = %q, want overall_wall_time", fieldErr.Field)
		}
		if got := countResults(t, cheat.ID); got != 0 {
			t.Fatalf("stored results = %d, want 0", got)
		}

		// The honest result must still hold rank 1.
		rows, err := GetLeaderboardRows("")
		if err != nil {
			t.Fatalf("get leaderboard rows: %v", err)
		}
		if len(rows) != 1 || rows[0].UserID != honest.ID {
			t.Fatalf("leaderboard = %+v, want honest user only", rows)
		}
	})

	t.Run("rejected metrics by field", func(t *testing.T) {
		zero := 0.0
		tooManyCores := 1000
		tinyMemory := 0.01

		tests := []struct {
			name   string
			mutate func(*domain.BenchmarkResult)
			field  string
		}{
			{"zero phase1", func(r *domain.BenchmarkResult) { r.Phase1WallTime = &zero }, "phase1_wall_time"},
			{"zero phase2", func(r *domain.BenchmarkResult) { r.Phase2WallTime = &zero }, "phase2_wall_time"},
			{"cores above cap", func(r *domain.BenchmarkResult) { r.CPUCores = &tooManyCores }, "cpu_cores"},
			{"memory below floor", func(r *domain.BenchmarkResult) { r.MemoryGB = &tinyMemory }, "memory_gb"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				bad := newResult(cheat.ID, cheat.Username, "AMD Ryzen 9 5900X", 10.0, 20.0)
				tc.mutate(bad)

				var fieldErr *benchmark.FieldError
				if err := CreateBenchmarkResult(bad, policy); !errors.As(err, &fieldErr) {
					t.Fatalf("expected FieldError, got %v", err)
				} else if fieldErr.Field != tc.field {
					t.Fatalf("field = %q, want %q", fieldErr.Field, tc.field)
				}
			})
		}

		if got := countResults(t, cheat.ID); got != 0 {
			t.Fatalf("stored results = %d, want 0", got)
		}
	})
}

func TestCreateBenchmarkResult_EvictsOldestUnverified(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "carol")
	policy := benchmark.DefaultPolicy()

	verified := newResult(user.ID, user.Username, "Intel Xeon E5-2670 v3", 15.0, 30.0)
	if err := CreateBenchmarkResult(verified, policy); err != nil {
		t.Fatalf("create verified result: %v", err)
	}

	// Two stale unverified rows fill the remaining capacity exactly.
	base := time.Now().UTC().Add(-48 * time.Hour)
	older := newResult(user.ID, user.Username, "Old Box A", 40.0, 80.0)
	older.SubmittedAt = base
	newer := newResult(user.ID, user.Username, "Old Box B", 40.0, 80.0)
	newer.SubmittedAt = base.Add(time.Hour)
	for _, stale := range []*domain.BenchmarkResult{older, newer} {
		if err := DB.Create(stale).Error; err != nil {
			t.Fatalf("seed unverified result: %v", err)
		}
	}

	incoming := newResult(user.ID, user.Username, "AMD EPYC 7742", 11.0, 22.0)
	if err := CreateBenchmarkResult(incoming, policy); err != nil {
		t.Fatalf("create result with full unverified capacity: %v", err)
	}

	var gone domain.BenchmarkResult
	if err := DB.Where("id = ?", older.ID).First(&gone).Error; err == nil {
		t.Fatal("oldest unverified result should have been evicted")
	}
	var kept domain.BenchmarkResult
	if err := DB.Where("id = ?", newer.ID).First(&kept).Error; err != nil {
		t.Fatalf("newer unverified result should survive: %v", err)
	}
	var untouched domain.BenchmarkResult
	if err := DB.Where("id = ?", verified.ID).First(&untouched).Error; err != nil {
		t.Fatalf("verified result should never be evicted: %v", err)
	}

	if got := countResults(t, user.ID); got != 3 {
		t.Fatalf("stored results = %d, want 3", got)
	}
}

func TestUpdateResult(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "dave")
	policy := benchmark.DefaultPolicy()

	result := newResult(user.ID, user.Username, "Intel Core i7-9700K", 10.0, 25.0)
	if err := CreateBenchmarkResult(result, policy); err != nil {
		t.Fatalf("create result: %v", err)
	}

	t.Run("recomputes derived metrics", func(t *testing.T) {
		phase1 := 5.0
		overall := 12.5
		updated, err := UpdateResult(result.ID, user.ID, dto.BenchmarkResultUpdate{
			Phase1WallTime:  &phase1,
			OverallWallTime: &overall,
		}, policy)
		if err != nil {
			t.Fatalf("update result: %v", err)
		}
		wantThroughput := int64(math.Pow(2, float64(policy.KeyBits)) / 5.0)
		if updated.ThroughputKeysPerSec == nil || *updated.ThroughputKeysPerSec != wantThroughput {
			t.Fatalf("throughput = %v, want %v", updated.ThroughputKeysPerSec, wantThroughput)
		}
		if updated.PerformanceScore == nil || *updated.PerformanceScore != 8000.0 {
			t.Fatalf("performance score = %v, want 8000.0", updated.PerformanceScore)
		}
	})

	t.Run("notes-only patch keeps metrics", func(t *testing.T) {
		notes := "rerun on fresh boot"
		updated, err := UpdateResult(result.ID, user.ID, dto.BenchmarkResultUpdate{Notes: &notes}, policy)
		if err != nil {
			t.Fatalf("update result: %v", err)
		}
		if updated.Notes != notes {
			t.Fatalf("notes = %q, want %q", updated.Notes, notes)
		}
		if updated.PerformanceScore == nil || *updated.PerformanceScore != 8000.0 {
			t.Fatalf("performance score = %v, want unchanged", updated.PerformanceScore)
		}
	})

	t.Run("non-positive patch rejected without mutation", func(t *testing.T) {
		negative := -1.0
		_, err := UpdateResult(result.ID, user.ID, dto.BenchmarkResultUpdate{
			OverallWallTime: &negative,
		}, policy)

		var fieldErr *benchmark.FieldError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("expected FieldError, got %v", err)
		}

		stored, err := GetResultByID(result.ID)
		if err != nil {
			t.Fatalf("reload result: %v", err)
		}
		if stored.OverallWallTime == nil || *stored.OverallWallTime != 12.5 {
			t.Fatalf("overall = %v, want unchanged 12.5", stored.OverallWallTime)
		}
	})

	t.Run("other user cannot see or touch the row", func(t *testing.T) {
		other := seedUser(t, "dave2")
		notes := "mine now"
		_, err := UpdateResult(result.ID, other.ID, dto.BenchmarkResultUpdate{Notes: &notes}, policy)
		if !errors.Is(err, benchmark.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteResult(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "erin")
	other := seedUser(t, "frank")
	policy := benchmark.DefaultPolicy()

	result := newResult(user.ID, user.Username, "AMD Ryzen 7 5800X", 10.0, 20.0)
	if err := CreateBenchmarkResult(result, policy); err != nil {
		t.Fatalf("create result: %v", err)
	}

	if err := DeleteResult(result.ID, other.ID); !errors.Is(err, benchmark.ErrNotFound) {
		t.Fatalf("delete by non-owner: expected ErrNotFound, got %v", err)
	}
	if err := DeleteResult(result.ID, user.ID); err != nil {
		t.Fatalf("delete by owner: %v", err)
	}
	if err := DeleteResult(result.ID, user.ID); !errors.Is(err, benchmark.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDeviceType(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "grace")
	policy := benchmark.DefaultPolicy()

	confident := newResult(user.ID, user.Username, "Intel Xeon Gold 6248R", 10.0, 20.0)
	if err := CreateBenchmarkResult(confident, policy); err != nil {
		t.Fatalf("create confident result: %v", err)
	}
	unsure := newResult(user.ID, user.Username, "Mystery CPU 3000", 10.0, 21.0)
	if err := CreateBenchmarkResult(unsure, policy); err != nil {
		t.Fatalf("create unsure result: %v", err)
	}

	t.Run("invalid tier rejected", func(t *testing.T) {
		_, err := UpdateDeviceType(unsure.ID, user.ID, "mainframe", policy)
		if !errors.Is(err, benchmark.ErrInvalidDeviceType) {
			t.Fatalf("expected ErrInvalidDeviceType, got %v", err)
		}
	})

	t.Run("high confidence blocks correction", func(t *testing.T) {
		_, err := UpdateDeviceType(confident.ID, user.ID, domain.DeviceTypeConsumer, policy)
		if !errors.Is(err, benchmark.ErrCorrectionNotAllowed) {
			t.Fatalf("expected ErrCorrectionNotAllowed, got %v", err)
		}

		stored, err := GetResultByID(confident.ID)
		if err != nil {
			t.Fatalf("reload result: %v", err)
		}
		if stored.DeviceType != domain.DeviceTypeServer || stored.DeviceTypeManuallyCorrected {
			t.Fatalf("blocked correction mutated the row: %+v", stored)
		}
	})

	t.Run("low confidence allows correction", func(t *testing.T) {
		updated, err := UpdateDeviceType(unsure.ID, user.ID, domain.DeviceTypeServer, policy)
		if err != nil {
			t.Fatalf("correct device type: %v", err)
		}
		if updated.DeviceType != domain.DeviceTypeServer {
			t.Fatalf("device type = %q, want server", updated.DeviceType)
		}
		if !updated.DeviceTypeManuallyCorrected || updated.DeviceTypeConfidence != 1.0 {
			t.Fatalf("correction flags not set: %+v", updated)
		}
	})

	t.Run("corrected rows stay correctable", func(t *testing.T) {
		updated, err := UpdateDeviceType(unsure.ID, user.ID, domain.DeviceTypeConsumer, policy)
		if err != nil {
			t.Fatalf("second correction: %v", err)
		}
		if updated.DeviceType != domain.DeviceTypeConsumer {
			t.Fatalf("device type = %q, want consumer", updated.DeviceType)
		}
	})
}

func TestGetUserResults_Pagination(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "heidi")

	for i := 0; i < 5; i++ {
		result := newResult(user.ID, user.Username, "AMD Ryzen 5 5600X", 10.0, float64(20+i))
		result.SubmittedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		result.IsVerified = true
		if err := DB.Create(result).Error; err != nil {
			t.Fatalf("seed result %d: %v", i, err)
		}
	}

	page, total, err := GetUserResults(user.ID, 1, 2)
	if err != nil {
		t.Fatalf("get user results: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if page[0].SubmittedAt.Before(page[1].SubmittedAt) {
		t.Fatal("results not ordered newest first")
	}

	last, _, err := GetUserResults(user.ID, 3, 2)
	if err != nil {
		t.Fatalf("get last page: %v", err)
	}
	if len(last) != 1 {
		t.Fatalf("last page size = %d, want 1", len(last))
	}
}
