package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
)

// AuthHandler handles login, logout and the Google OAuth flow.
type AuthHandler struct {
	profiles    *service.ProfileService
	email       *service.EmailService
	googleOAuth *oauth2.Config
	appBaseURL  string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(profiles *service.ProfileService, email *service.EmailService, googleOAuth *oauth2.Config, appBaseURL string) *AuthHandler {
	return &AuthHandler{
		profiles:    profiles,
		email:       email,
		googleOAuth: googleOAuth,
		appBaseURL:  appBaseURL,
	}
}

// TrialLogin starts a device-local trial session.
// POST /api/auth/trial {"email": "..."}
func (h *AuthHandler) TrialLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body."})
		return
	}

	session, user, err := h.profiles.LoginTrial(req.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	setSessionCookie(w, session.ID, session.ExpiresAt)
	respondJSON(w, http.StatusOK, user)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, UserFromContext(r.Context()))
}

// Logout ends the session. Local data is untouched.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.profiles.Logout(cookie.Value); err != nil {
			log.Printf("Error deleting session: %v", err)
		}
	}
	clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// StartGoogleOAuth begins the cloud sign-in flow.
// GET /auth/google/start
func (h *AuthHandler) StartGoogleOAuth(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuth == nil || h.googleOAuth.ClientID == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Cloud sign-in is not configured."})
		return
	}

	state := uuid.NewString()
	nonce := uuid.NewString()
	setTempCookie(w, "oauth_state", state, 10*time.Minute)
	setTempCookie(w, "oauth_nonce", nonce, 10*time.Minute)

	authURL := h.googleOAuth.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("nonce", nonce),
	)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// GoogleCallback completes the flow: it exchanges the code, verifies the
// ID token signature and claims against Google's published keys, then
// signs the verified email in as a cloud account.
// GET /auth/google/callback
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuth == nil || h.googleOAuth.ClientID == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Cloud sign-in is not configured."})
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing authorization code."})
		return
	}
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid sign-in state. Please try again."})
		return
	}
	nonce := ""
	if cookie, err := r.Cookie("oauth_nonce"); err == nil {
		nonce = cookie.Value
	}
	clearTempCookie(w, "oauth_state")
	clearTempCookie(w, "oauth_nonce")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := h.googleOAuth.Exchange(ctx, code)
	if err != nil {
		log.Printf("OAuth code exchange failed: %v", err)
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Sign-in failed. Please try again."})
		return
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Sign-in failed. Please try again."})
		return
	}

	claims, err := parseGoogleIDToken(ctx, idToken, h.googleOAuth.ClientID, nonce)
	if err != nil {
		log.Printf("Google ID token rejected: %v", err)
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Sign-in failed. Please try again."})
		return
	}

	known, err := h.profiles.IsKnownEmail(claims.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	session, user, err := h.profiles.LoginCloud(claims.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	if !known {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.email.SendWelcomeEmail(ctx, user.Email); err != nil {
				log.Printf("Welcome email failed for %s: %v", user.Email, err)
			}
		}()
	}

	setSessionCookie(w, session.ID, session.ExpiresAt)
	http.Redirect(w, r, h.appBaseURL+"/", http.StatusSeeOther)
}

func setTempCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

func clearTempCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
