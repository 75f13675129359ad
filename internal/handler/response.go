package handler

// Every error response has the same shape:
//
//	{"message": "Validation failed", "errors": [{"field": "email", "message": "is required"}]}
//
// "errors" is present only for validation failures. Success bodies wrap the
// entity under a named key ({"match": {...}}, {"matches": [...]}) and plain
// acknowledgements are {"message": "..."}.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/validate"
)

// maxBodyBytes caps request bodies; the largest legitimate payload is a
// feedback message of a couple of kilobytes.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string                `json:"message"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends data with the given status. Headers must be set before
// WriteHeader; anything set afterwards is silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeError maps an error from the service layer onto a status code.
//
// errors.As finds our *AppError anywhere in the wrap chain, so services are
// free to add context with fmt.Errorf("...: %w", err). Anything that is not
// an AppError is unexpected: it is logged in full and the client only sees
// a generic message, never SQL, paths or driver text.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrRateLimited):
			status = http.StatusTooManyRequests
		}

		if status != http.StatusInternalServerError {
			resp := ErrorResponse{Message: appErr.Message}
			if errors.Is(err, apperror.ErrValidation) {
				resp.Errors = appErr.Fields
			}
			writeJSON(w, status, resp)
			return
		}
	}

	logger.Error("unexpected error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
}

// decode reads a JSON body into dst, normalizes it when dst supports that,
// and validates it against its struct tags. Both malformed JSON and failed validation come back as
// apperror.ErrValidation so writeError answers 400.
func decode(w http.ResponseWriter, r *http.Request, v *validate.Validator, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "Invalid JSON body")
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return v.Struct(dst)
}

// normalizer is implemented by inputs that clean themselves up before
// validation, e.g. trimming usernames.
type normalizer interface {
	Normalize()
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed(name, fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

// NotFound answers requests no route matched.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed answers a known path requested with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}
