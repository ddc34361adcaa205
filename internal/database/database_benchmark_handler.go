package database

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"benchboard/internal/api/dto"
	"benchboard/internal/benchmark"
	"benchboard/internal/domain"
)

// userLocks serializes the quota-check / evict / insert sequence per
// user. The counts are a check-then-act pattern: without the lock two
// concurrent submissions from the same user could both pass the quota
// check.
var userLocks sync.Map

func lockUser(userID uint) func() {
	mu, _ := userLocks.LoadOrStore(userID, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	return lock.Unlock
}

// CreateBenchmarkResult enforces the verified quota, evicts at most one
// stale unverified row, derives classification and scores, and inserts
// the record — all as one atomic unit per user.
func CreateBenchmarkResult(result *domain.BenchmarkResult, policy benchmark.Policy) error {
	if err := benchmark.ValidateMetrics(
		result.CPUCores,
		result.MemoryGB,
		result.Phase1WallTime,
		result.Phase2WallTime,
		result.OverallWallTime,
	); err != nil {
		return err
	}

	unlock := lockUser(result.UserID)
	defer unlock()

	return DB.Transaction(func(tx *gorm.DB) error {
		var verifiedCount int64
		if err := tx.Model(&domain.BenchmarkResult{}).
			Where("user_id = ? AND is_verified = ?", result.UserID, true).
			Count(&verifiedCount).Error; err != nil {
			return err
		}

		if int(verifiedCount) >= policy.MaxVerifiedPerUser {
			return &benchmark.QuotaExceededError{
				Verified: int(verifiedCount),
				Limit:    policy.MaxVerifiedPerUser,
			}
		}

		unverifiedCapacity := policy.MaxVerifiedPerUser - int(verifiedCount)

		var unverifiedCount int64
		if err := tx.Model(&domain.BenchmarkResult{}).
			Where("user_id = ? AND is_verified = ?", result.UserID, false).
			Count(&unverifiedCount).Error; err != nil {
			return err
		}

		if unverifiedCapacity > 0 && int(unverifiedCount) >= unverifiedCapacity {
			var oldest domain.BenchmarkResult
			err := tx.Where("user_id = ? AND is_verified = ?", result.UserID, false).
				Order("submitted_at ASC, id ASC").
				First(&oldest).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err == nil {
				if err := tx.Delete(&oldest).Error; err != nil {
					return err
				}
			}
		}

		// Submissions are auto-verified for now; a review step would
		// flip this to false and verify out of band.
		result.IsVerified = true

		result.DeviceType, result.DeviceTypeConfidence = benchmark.ClassifyCPU(result.CPUModel, policy)
		result.PerformanceScore = benchmark.PerformanceScore(result.OverallWallTime, policy)
		result.ThroughputKeysPerSec = benchmark.Throughput(result.Phase1WallTime, policy)

		if result.SubmissionSource == "" {
			result.SubmissionSource = policy.DefaultSource
		}

		return tx.Create(result).Error
	})
}

func GetResultByID(resultID uint64) (*domain.BenchmarkResult, error) {
	var result domain.BenchmarkResult
	if err := DB.Where("id = ?", resultID).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, benchmark.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func GetUserResults(userID uint, page, limit int) ([]domain.BenchmarkResult, int64, error) {
	offset := (page - 1) * limit

	query := DB.Model(&domain.BenchmarkResult{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []domain.BenchmarkResult
	if err := query.Order("submitted_at DESC").
		Offset(offset).Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// UpdateResult applies an owner-restricted partial patch and recomputes
// the performance score when the overall wall time changed.
func UpdateResult(resultID uint64, userID uint, patch dto.BenchmarkResultUpdate, policy benchmark.Policy) (*domain.BenchmarkResult, error) {
	if err := benchmark.ValidateMetrics(
		patch.CPUCores,
		patch.MemoryGB,
		patch.Phase1WallTime,
		patch.Phase2WallTime,
		patch.OverallWallTime,
	); err != nil {
		return nil, err
	}

	unlock := lockUser(userID)
	defer unlock()

	var updated *domain.BenchmarkResult

	err := DB.Transaction(func(tx *gorm.DB) error {
		var result domain.BenchmarkResult
		if err := tx.Where("id = ? AND user_id = ?", resultID, userID).First(&result).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return benchmark.ErrNotFound
			}
			return err
		}

		overallChanged := false

		if patch.CPUModel != nil {
			result.CPUModel = *patch.CPUModel
		}
		if patch.CPUCores != nil {
			result.CPUCores = patch.CPUCores
		}
		if patch.MemoryGB != nil {
			result.MemoryGB = patch.MemoryGB
		}
		if patch.Phase1WallTime != nil {
			result.Phase1WallTime = patch.Phase1WallTime
			result.ThroughputKeysPerSec = benchmark.Throughput(result.Phase1WallTime, policy)
		}
		if patch.Phase2WallTime != nil {
			result.Phase2WallTime = patch.Phase2WallTime
		}
		if patch.OverallWallTime != nil {
			result.OverallWallTime = patch.OverallWallTime
			overallChanged = true
		}
		if patch.Notes != nil {
			result.Notes = *patch.Notes
		}

		if overallChanged {
			result.PerformanceScore = benchmark.PerformanceScore(result.OverallWallTime, policy)
		}

		result.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&result).Error; err != nil {
			return err
		}

		updated = &result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func DeleteResult(resultID uint64, userID uint) error {
	res := DB.Where("id = ? AND user_id = ?", resultID, userID).Delete(&domain.BenchmarkResult{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return benchmark.ErrNotFound
	}
	return nil
}

// UpdateDeviceType lets the owner override the classifier, gated on
// low confidence or a prior manual correction.
func UpdateDeviceType(resultID uint64, userID uint, newDeviceType string, policy benchmark.Policy) (*domain.BenchmarkResult, error) {
	if !domain.IsValidDeviceType(newDeviceType) {
		return nil, benchmark.ErrInvalidDeviceType
	}

	unlock := lockUser(userID)
	defer unlock()

	var updated *domain.BenchmarkResult

	err := DB.Transaction(func(tx *gorm.DB) error {
		var result domain.BenchmarkResult
		if err := tx.Where("id = ? AND user_id = ?", resultID, userID).First(&result).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return benchmark.ErrNotFound
			}
			return err
		}

		if !result.CanBeCorrectedByUser(policy.HighConfidence) {
			return benchmark.ErrCorrectionNotAllowed
		}

		result.DeviceType = newDeviceType
		result.DeviceTypeManuallyCorrected = true
		result.DeviceTypeConfidence = 1.0
		result.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&result).Error; err != nil {
			return err
		}

		updated = &result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
