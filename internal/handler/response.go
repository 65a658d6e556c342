package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/disperse/disperse"
	"github.com/AlexZinkM/disperse/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed. Should be "+method, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// writeSessionError maps session and gateway errors to a status and code
func writeSessionError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"

	switch {
	case errors.Is(err, disperse.ErrAlreadyInFlight):
		status, code = http.StatusConflict, "ALREADY_IN_FLIGHT"
	case errors.Is(err, disperse.ErrNotReady):
		status, code = http.StatusConflict, "NOT_READY"
	case errors.Is(err, disperse.ErrRetryNotAllowed):
		status, code = http.StatusConflict, "RETRY_NOT_ALLOWED"
	case errors.Is(err, disperse.ErrInvalidTransition):
		status, code = http.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, disperse.ErrSessionReset):
		status, code = http.StatusConflict, "SESSION_RESET"
	case errors.Is(err, disperse.ErrUserRejected):
		status, code = http.StatusForbidden, "USER_REJECTED"
	case errors.Is(err, disperse.ErrWalletUnavailable):
		status, code = http.StatusServiceUnavailable, "WALLET_UNAVAILABLE"
	case errors.Is(err, disperse.ErrInsufficientFunds):
		status, code = http.StatusPaymentRequired, "INSUFFICIENT_FUNDS"
	case errors.Is(err, disperse.ErrTimeout):
		status, code = http.StatusGatewayTimeout, "TIMEOUT"
	case errors.Is(err, disperse.ErrInvariantViolation):
		status, code = http.StatusInternalServerError, "INVARIANT_VIOLATION"
	case disperse.IsGatewayError(err):
		status, code = http.StatusBadGateway, "GATEWAY_ERROR"
	}

	writeError(w, status, code, err)
}
