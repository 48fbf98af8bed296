package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/mind-engage/interview-coach/internal/interview"
)

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a 500 without details.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, interview.ErrNotFound):
		http.Error(w, "interview not found", http.StatusNotFound)
	case errors.Is(err, interview.ErrInvalidState):
		http.Error(w, "interview is already complete", http.StatusConflict)
	default:
		log.Error("request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
