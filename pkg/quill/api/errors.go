package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/quillhq/quill/pkg/quill"
)

// ErrorResponse is the JSON error envelope all handlers use
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code alongside the message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain sentinels to HTTP statuses and renders the envelope.
// Wrapped errors are matched with errors.Is, so a ContentError around
// ErrSlugTaken still maps to 409.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, quill.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, quill.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, quill.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, quill.ErrActorNotFound),
		errors.Is(err, quill.ErrContentTypeNotFound),
		errors.Is(err, quill.ErrContentNotFound),
		errors.Is(err, quill.ErrMediaNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, quill.ErrActorExists),
		errors.Is(err, quill.ErrContentTypeSlugTaken),
		errors.Is(err, quill.ErrSlugTaken),
		errors.Is(err, quill.ErrContentTypeInUse):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, quill.ErrValidation):
		status, code = http.StatusUnprocessableEntity, "validation_failed"
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: ErrorDetail{Code: code, Message: err.Error()}})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: ErrorDetail{Code: "bad_request", Message: message}})
}
