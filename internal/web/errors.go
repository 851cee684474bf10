package web

// errors.go provides unified error response handling for the API.
//
// Errors are logged with full technical detail server-side, keyed by request
// id for correlation, and returned to clients as a stable JSON envelope.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rowforge/rowforge/internal/engine"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError logs the technical error and writes the JSON error envelope.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	requestID := middleware.GetReqID(r.Context())

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"request_id", requestID,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: err.Error(),
		Code:  errorCode(err, statusCode),
	})
}

// errorCode maps an error to a stable machine-readable code.
func errorCode(err error, statusCode int) string {
	switch {
	case errors.Is(err, engine.ErrJobNotFound):
		return "job_not_found"
	case errors.Is(err, engine.ErrTooManyJobs):
		return "too_many_jobs"
	}

	switch statusCode {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "rate_limited"
	}
	return "internal_error"
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
