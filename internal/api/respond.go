package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"household-shopping/internal/apperr"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func statusFor(err error) (int, string) {
	switch {
	case apperr.IsUnauthenticated(err):
		return http.StatusUnauthorized, "unauthenticated"
	case apperr.IsForbidden(err):
		return http.StatusForbidden, "forbidden"
	case apperr.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case apperr.IsValidation(err):
		return http.StatusBadRequest, "validation"
	case apperr.IsConflict(err):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeError maps domain errors to status codes. Anything else is logged and
// reported as an opaque 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	msg := err.Error()
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Message != "" {
		msg = ae.Message
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: errorBody{Kind: kind, Message: msg}})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("api.decode", "invalid request body: %v", err)
	}
	return nil
}
