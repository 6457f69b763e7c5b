package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskhub/logging"
	"taskhub/models"
)

// debugMode controls whether 500 responses include the underlying error
// detail. Set once at startup.
var debugMode bool

func SetDebug(debug bool) { debugMode = debug }

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError is the single translation point from the domain error
// taxonomy to HTTP statuses. Unexpected errors are logged with request
// context and redacted unless debug mode is on.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: "Validation failed", Errors: verr.Fields})
	case errors.Is(err, models.ErrDuplicateEmail):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Message: "Validation failed",
			Errors:  map[string]string{"email": "The email has already been taken."},
		})
	case errors.Is(err, models.ErrInvalidReference):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Invalid credentials"})
	case errors.Is(err, models.ErrUnauthenticated):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthenticated"})
	case errors.Is(err, models.ErrTokenNotFound):
		// A logout can lose to a concurrent revocation of the same
		// token; the session is gone either way.
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthenticated"})
	case errors.Is(err, models.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorResponse{Message: "Unauthorized"})
	case errors.Is(err, models.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Message: "Resource not found"})
	default:
		logging.Logger.Errorf("Event ID: UNEXPECTED_ERROR, Description: Unhandled error on %s %s: %v", r.Method, r.URL.Path, err)
		resp := errorResponse{Message: "Internal server error"}
		if debugMode {
			resp.Error = err.Error()
		}
		respondJSON(w, http.StatusInternalServerError, resp)
	}
}
