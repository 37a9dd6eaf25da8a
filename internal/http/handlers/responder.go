package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/courtwire/nba-sim-service/internal/http/middleware"
	"github.com/courtwire/nba-sim-service/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]any{"success": false, "message": message}
	if reqID != "" {
		body["request_id"] = reqID
	}
	writeJSON(w, status, body, logger)
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	if logger := logging.FromContext(r.Context()); logger != nil {
		return logger
	}
	return fallback
}
