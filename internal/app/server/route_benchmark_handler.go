package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"benchboard/internal/api/dto"
	"benchboard/internal/auth"
	"benchboard/internal/benchmark"
	"benchboard/internal/config"
	"benchboard/internal/database"
	"benchboard/internal/domain"
	"benchboard/internal/geoip"
	"benchboard/internal/leaderboard"
	"benchboard/internal/support"
)

func currentPolicy() benchmark.Policy {
	return benchmark.PolicyFromConfig(config.GetConfig())
}

func submitBenchmark(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user := database.GetUserFromId(userID)
	if user.ID == 0 {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload dto.BenchmarkResultCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	policy := currentPolicy()

	// A raw text blob can stand in for explicit fields: when the
	// payload carries no numbers of its own, recover them from it.
	if payloadIsBare(payload) && payload.RawResultText != "" {
		parsed := benchmark.ParseResultText(payload.RawResultText, policy.MaxParseInput)
		if payload.CPUModel == "" {
			payload.CPUModel = parsed.CPUModel
		}
		payload.CPUCores = parsed.CPUCores
		payload.MemoryGB = parsed.MemoryGB
		payload.Phase1WallTime = parsed.Phase1WallTime
		payload.Phase2WallTime = parsed.Phase2WallTime
		payload.OverallWallTime = parsed.OverallWallTime
	}

	ipAddress := support.ClientIP(r)

	result := domain.BenchmarkResult{
		UserID:          user.ID,
		Username:        user.Username,
		CPUModel:        payload.CPUModel,
		CPUCores:        payload.CPUCores,
		MemoryGB:        payload.MemoryGB,
		Phase1WallTime:  payload.Phase1WallTime,
		Phase2WallTime:  payload.Phase2WallTime,
		OverallWallTime: payload.OverallWallTime,
		RawResultText:   payload.RawResultText,
		Notes:           payload.Notes,
		IPAddress:       ipAddress,
		Country:         geoip.CountryForIP(ipAddress),
		UserAgent:       r.UserAgent(),
	}

	if err := database.CreateBenchmarkResult(&result, policy); err != nil {
		var quotaErr *benchmark.QuotaExceededError
		if errors.As(err, &quotaErr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":          quotaErr.Error(),
				"verified_count": quotaErr.Verified,
				"limit":          quotaErr.Limit,
			})
			return
		}
		var fieldErr *benchmark.FieldError
		if errors.As(err, &fieldErr) {
			writeError(w, fieldErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		log.Error("Failed to create benchmark result", "user", user.Username, "error", err)
		writeError(w, "Failed to submit benchmark result", http.StatusInternalServerError)
		return
	}

	leaderboard.InvalidateCache(r.Context())

	log.Info("Benchmark result submitted", "user", user.Username, "result_id", result.ID)
	writeJSON(w, http.StatusCreated, result)
}

func payloadIsBare(payload dto.BenchmarkResultCreate) bool {
	return payload.CPUCores == nil &&
		payload.MemoryGB == nil &&
		payload.Phase1WallTime == nil &&
		payload.Phase2WallTime == nil &&
		payload.OverallWallTime == nil
}

func parseBenchmarkText(w http.ResponseWriter, r *http.Request) {
	var payload dto.ParseTextRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	parsed := benchmark.ParseResultText(payload.Text, currentPolicy().MaxParseInput)
	if parsed.IsEmpty() {
		writeError(w, "Could not parse any fields from the provided text", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, parsed)
}

func getMyResults(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, limit := leaderboard.ClampPaging(
		queryInt(r, "page", 1),
		queryInt(r, "limit", config.GetConfig().Leaderboard.DefaultPageSize),
	)

	results, total, err := database.GetUserResults(userID, page, limit)
	if err != nil {
		log.Error("Failed to load user results", "user_id", userID, "error", err)
		writeError(w, "Failed to load benchmark results", http.StatusInternalServerError)
		return
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages == 0 {
		pages = 1
	}

	writeJSON(w, http.StatusOK, dto.BenchmarkResultList{
		Results: results,
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
	})
}

func getBenchmarkResult(w http.ResponseWriter, r *http.Request) {
	resultID, err := pathResultID(r)
	if err != nil {
		writeError(w, "Invalid result ID", http.StatusBadRequest)
		return
	}

	result, err := database.GetResultByID(resultID)
	if err != nil {
		if errors.Is(err, benchmark.ErrNotFound) {
			writeError(w, "Benchmark result not found", http.StatusNotFound)
			return
		}
		writeError(w, "Failed to load benchmark result", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func updateBenchmarkResult(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	resultID, err := pathResultID(r)
	if err != nil {
		writeError(w, "Invalid result ID", http.StatusBadRequest)
		return
	}

	var patch dto.BenchmarkResultUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := database.UpdateResult(resultID, userID, patch, currentPolicy())
	if err != nil {
		if errors.Is(err, benchmark.ErrNotFound) {
			writeError(w, "Benchmark result not found or not owned by you", http.StatusNotFound)
			return
		}
		var fieldErr *benchmark.FieldError
		if errors.As(err, &fieldErr) {
			writeError(w, fieldErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		log.Error("Failed to update benchmark result", "result_id", resultID, "error", err)
		writeError(w, "Failed to update benchmark result", http.StatusInternalServerError)
		return
	}

	leaderboard.InvalidateCache(r.Context())

	writeJSON(w, http.StatusOK, result)
}

func deleteBenchmarkResult(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	resultID, err := pathResultID(r)
	if err != nil {
		writeError(w, "Invalid result ID", http.StatusBadRequest)
		return
	}

	if err := database.DeleteResult(resultID, userID); err != nil {
		if errors.Is(err, benchmark.ErrNotFound) {
			writeError(w, "Benchmark result not found or not owned by you", http.StatusNotFound)
			return
		}
		writeError(w, "Failed to delete benchmark result", http.StatusInternalServerError)
		return
	}

	leaderboard.InvalidateCache(r.Context())

	writeJSON(w, http.StatusOK, map[string]string{"message": "Benchmark result deleted"})
}

func correctDeviceType(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	resultID, err := pathResultID(r)
	if err != nil {
		writeError(w, "Invalid result ID", http.StatusBadRequest)
		return
	}

	var correction dto.DeviceTypeCorrection
	if err := json.NewDecoder(r.Body).Decode(&correction); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := database.UpdateDeviceType(resultID, userID, correction.DeviceType, currentPolicy())
	if err != nil {
		switch {
		case errors.Is(err, benchmark.ErrNotFound):
			writeError(w, "Benchmark result not found or not owned by you", http.StatusNotFound)
		case errors.Is(err, benchmark.ErrInvalidDeviceType):
			writeError(w, "Invalid device type", http.StatusBadRequest)
		case errors.Is(err, benchmark.ErrCorrectionNotAllowed):
			writeError(w, "Device type confidence too high for manual correction", http.StatusBadRequest)
		default:
			log.Error("Failed to correct device type", "result_id", resultID, "error", err)
			writeError(w, "Failed to correct device type", http.StatusInternalServerError)
		}
		return
	}

	leaderboard.InvalidateCache(r.Context())

	writeJSON(w, http.StatusOK, result)
}

func pathResultID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(r.PathValue("id"), 10, 64)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
