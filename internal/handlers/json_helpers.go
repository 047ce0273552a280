package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ubuntu-connect/internal/models"
	"ubuntu-connect/internal/service"
)

// ErrorResponse is the uniform error payload returned by all handlers.
type ErrorResponse struct {
	Error                string              `json:"error"`
	RequiredCapabilities []models.Capability `json:"required_capabilities,omitempty"`
}

// JSONResponse writes data as a JSON response with the given status code.
func JSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a plain error message with the given status code.
func RespondWithError(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, ErrorResponse{Error: message})
}

// RespondWithServiceError translates service-layer errors into HTTP responses.
func RespondWithServiceError(w http.ResponseWriter, err error) {
	var forbidden *service.ForbiddenError
	switch {
	case errors.As(err, &forbidden):
		JSONResponse(w, http.StatusForbidden, ErrorResponse{
			Error:                ErrMsgInsufficientAccess,
			RequiredCapabilities: forbidden.Required,
		})
	case errors.Is(err, service.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, ErrMsgSubmissionNotFound)
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidInput):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotAwardable):
		RespondWithError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("Unhandled service error", "error", err)
		RespondWithError(w, http.StatusInternalServerError, ErrMsgInternalServerError)
	}
}
