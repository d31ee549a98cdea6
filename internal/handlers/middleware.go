package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/security"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

const sessionCookieName = "session_id"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	profiles *service.ProfileService
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(profiles *service.ProfileService) *Middleware {
	return &Middleware{profiles: profiles}
}

// RequireAuth resolves the session cookie to a user and puts it on the
// request context. Requests without a live session get 401.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			respondError(w, service.ErrSessionNotFound)
			return
		}

		user, err := m.profiles.CurrentUser(cookie.Value)
		if err != nil {
			clearSessionCookie(w)
			respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// UserFromContext returns the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}

// RateLimit rejects requests over the per-client budget with 429. Keyed
// by session when present, falling back to client IP.
func RateLimit(limiter *security.RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := security.ClientIP(r)
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			key = cookie.Value
		}
		if !limiter.Allow(key) {
			respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests. Wait a moment and try again."})
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func setSessionCookie(w http.ResponseWriter, sessionID string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
