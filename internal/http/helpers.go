package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/resolver"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/internal/variants"
)

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message,omitempty"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

// writePublicError hides input problems and internal details from readers.
func writePublicError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		status, payload = http.StatusNotFound, errorResponse{Error: "not_found"}
	case status >= http.StatusInternalServerError:
		payload = errorResponse{Error: "internal_error"}
	case status == http.StatusNotFound:
		payload = errorResponse{Error: "not_found"}
	}
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if errors.Is(err, variants.ErrNotFound) || errors.Is(err, resolver.ErrNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		}
	}

	if resolver.IsLookupFailure(err) {
		return http.StatusInternalServerError, errorResponse{
			Error:   "lookup_failed",
			Message: err.Error(),
		}
	}

	if errors.Is(err, variants.ErrTranslationExists) ||
		errors.Is(err, variants.ErrSlugExists) ||
		errors.Is(err, variants.ErrShortCodeExists) ||
		errors.Is(err, variants.ErrShortCodeExhausted) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, validation.ErrInvalidInput) ||
		goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  validation.Issues(err),
		}
	}

	if errors.Is(err, resolver.ErrInvalidInput) ||
		errors.Is(err, variants.ErrVariantRequired) ||
		errors.Is(err, variants.ErrGroupRequired) ||
		errors.Is(err, variants.ErrKindInvalid) ||
		errors.Is(err, variants.ErrLocaleInvalid) ||
		errors.Is(err, variants.ErrStatusInvalid) ||
		errors.Is(err, variants.ErrTitleRequired) ||
		errors.Is(err, variants.ErrSlugRequired) ||
		errors.Is(err, variants.ErrSlugInvalid) ||
		errors.Is(err, variants.ErrScheduleRequired) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	return uuid.Parse(trimmed)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}
