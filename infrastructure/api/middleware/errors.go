// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/scoutline/scoutline/internal/domain"
	"github.com/scoutline/scoutline/internal/log"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps an error to an HTTP status and writes the JSON error
// body. Validation failures are 400, missing rows 404, state conflicts
// 409, upstream failures 502, everything else 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrDependency):
		status = http.StatusBadGateway
	}

	requestID := chimiddleware.GetReqID(r.Context())
	if status >= 500 {
		logger.Error("request failed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	WriteJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: requestID})
}
