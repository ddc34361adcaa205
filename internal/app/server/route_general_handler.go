package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"benchboard/internal/app/version"
	"benchboard/internal/config"
	"benchboard/internal/database"
)

func getVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.GetInfo())
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	status := map[string]string{
		"status":   "healthy",
		"database": "connected",
	}
	code := http.StatusOK

	sqlDB, err := database.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		status["status"] = "unhealthy"
		status["database"] = "disconnected"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, status)
}

func saveSettings(w http.ResponseWriter, r *http.Request) {
	var newConfig config.Config
	if err := json.NewDecoder(r.Body).Decode(&newConfig); err != nil {
		log.Error("Error decoding request body:", err)
		writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	config.SetConfig(newConfig)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Configuration updated successfully"})
}

func getGlobalSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, config.GetConfig())
}
