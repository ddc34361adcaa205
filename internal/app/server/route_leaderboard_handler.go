package server

import (
	"net/http"

	"github.com/charmbracelet/log"

	"benchboard/internal/auth"
	"benchboard/internal/database"
	"benchboard/internal/domain"
	"benchboard/internal/leaderboard"
)

func getLeaderboard(w http.ResponseWriter, r *http.Request) {
	deviceType := r.URL.Query().Get("device_type")
	if deviceType != "" && deviceType != domain.DeviceTypeServer && deviceType != domain.DeviceTypeConsumer {
		writeError(w, "Invalid device type, must be 'server', 'consumer' or unset", http.StatusBadRequest)
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0)

	response, err := leaderboard.GetPage(r.Context(), deviceType, page, limit)
	if err != nil {
		log.Error("Failed to build leaderboard", "device_type", deviceType, "error", err)
		writeError(w, "Failed to load leaderboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func getMyRank(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deviceType := r.URL.Query().Get("device_type")
	if deviceType != "" && deviceType != domain.DeviceTypeServer && deviceType != domain.DeviceTypeConsumer {
		writeError(w, "Invalid device type, must be 'server', 'consumer' or unset", http.StatusBadRequest)
		return
	}

	response, err := leaderboard.MyRank(userID, deviceType)
	if err != nil {
		log.Error("Failed to resolve rank", "user_id", userID, "error", err)
		writeError(w, "Failed to load rank", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func getStatistics(w http.ResponseWriter, _ *http.Request) {
	stats, err := database.GetBenchmarkStatistics()
	if err != nil {
		log.Error("Failed to aggregate statistics", "error", err)
		writeError(w, "Failed to load statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func getDeviceTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]string{
		{
			"value":       domain.DeviceTypeServer,
			"label":       "Server-class",
			"description": "Xeon, EPYC, Opteron and other server processors",
		},
		{
			"value":       domain.DeviceTypeConsumer,
			"label":       "Consumer-class",
			"description": "Core i-series, Ryzen, Apple M-series and other consumer processors",
		},
	})
}
