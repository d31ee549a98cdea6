package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/ai"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/validation"
)

// errorResponse is the JSON error envelope. Field is set for validation
// errors so the client can highlight the offending input.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Error encoding response: %v", err)
		}
	}
}

// respondError maps domain errors to HTTP statuses and stable, user-safe
// messages. Internal details go to the log, never to the client.
func respondError(w http.ResponseWriter, err error) {
	var vErr validation.ValidationError
	if errors.As(err, &vErr) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Message, Field: vErr.Field})
		return
	}

	var connErr *ai.ConnectivityError
	if errors.As(err, &connErr) {
		log.Printf("AI connectivity error: %v", err)
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: "Could not reach the evaluation service. Check your connection and try again."})
		return
	}

	var authErr *ai.AuthError
	if errors.As(err, &authErr) {
		log.Printf("AI auth error: %v", err)
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: "The evaluation service rejected our credentials. Please contact support."})
		return
	}

	var malformedErr *ai.MalformedResponseError
	if errors.As(err, &malformedErr) {
		log.Printf("AI malformed response: %v", err)
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: "The evaluation service returned an unexpected answer. Please try again."})
		return
	}

	var rateErr *ai.RateLimitError
	if errors.As(err, &rateErr) {
		respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many evaluations right now. Wait a moment and try again."})
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionExpired):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "Your session has ended. Please sign in again."})
	case errors.Is(err, service.ErrUserNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "Account not found."})
	case errors.Is(err, service.ErrNotPlaced):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "Take the placement quiz first."})
	default:
		log.Printf("Internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Something went wrong. Please try again."})
	}
}
