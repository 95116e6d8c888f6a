package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/xtding233/luckyboost/internal/game"
	"github.com/xtding233/luckyboost/internal/luckyboost"
	"github.com/xtding233/luckyboost/internal/odds"
	"github.com/xtding233/luckyboost/internal/sim"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeHTTPError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Error: code})
}

// writeErr maps engine errors onto status codes.
func writeErr(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, odds.ErrPackNotFound):
		status, code = http.StatusNotFound, "pack_not_found"
	case errors.Is(err, luckyboost.ErrMilestoneNotFound):
		status, code = http.StatusNotFound, "milestone_not_found"
	case errors.Is(err, game.ErrInsufficientFunds):
		status, code = http.StatusPaymentRequired, "insufficient_funds"
	case errors.Is(err, sim.ErrUnknownGoal):
		status, code = http.StatusBadRequest, "invalid_goal"
	case errors.Is(err, sim.ErrUnreachable):
		status, code = http.StatusUnprocessableEntity, "unreachable"
	}
	writeJSON(w, status, errorResponse{Error: code, Message: err.Error()})
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}

// queryInt returns def when key is absent; ok is false for malformed values.
func queryInt(r *http.Request, key string, def int) (int, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
