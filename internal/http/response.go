package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"budgeter/internal/core"
	"budgeter/internal/log"
)

const serverErrorMessage = "Server error"

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeFailure maps err onto a status code. Validation problems are shown to
// the caller verbatim; anything unexpected is logged and reported generically.
func writeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger := log.FromContext(r.Context())

	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.WarnContext(r.Context(), "Request rejected",
			log.FieldOperation, op,
			log.FieldErrorType, log.ErrorTypeValidation,
			log.FieldError, verr.Error())
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, core.ErrCollaboratorUnavailable):
		logger.LogError(r.Context(), "Collaborator unavailable", err, op, log.ErrorTypeUnavailable)
		writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		logger.LogError(r.Context(), "Unexpected error", err, op, log.ErrorTypeInternal)
		writeError(w, http.StatusInternalServerError, serverErrorMessage)
	}
}
