package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"taskhub/logging"
	"taskhub/models"
	"taskhub/services"
)

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// Authenticate resolves the bearer token from the Authorization header
// and injects the authenticated user and the raw token into the request
// context. Requests without a valid live token get a 401.
func Authenticate(auth *services.AuthService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Debugf("Event ID: AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
				unauthenticated(w)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader || token == "" {
				logging.Logger.Debugf("Event ID: AUTH_BEARER_PREFIX_MISSING, Description: Bearer prefix missing in Authorization header for request to %s %s", r.Method, r.URL.Path)
				unauthenticated(w)
				return
			}

			user, err := auth.CurrentUser(r.Context(), token)
			if err != nil {
				logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
				unauthenticated(w)
				return
			}

			ctx := ContextWithUser(r.Context(), user)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthenticatedResponse mirrors the handlers package's error envelope;
// the middleware cannot import handlers without a cycle.
type unauthenticatedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(unauthenticatedResponse{Message: "Unauthenticated"})
}

// ContextWithUser returns ctx carrying the authenticated user. Exported
// for handler tests that bypass the middleware.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user placed by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// TokenFromContext returns the raw bearer token of the current request.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
