package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/ai"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/validation"
)

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantField  string
	}{
		{
			name:       "validation error carries field",
			err:        validation.ValidationError{Field: "email", Message: "invalid email format"},
			wantStatus: http.StatusBadRequest,
			wantField:  "email",
		},
		{
			name:       "connectivity error",
			err:        &ai.ConnectivityError{Err: errors.New("dial tcp: timeout")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "auth error",
			err:        &ai.AuthError{Err: errors.New("401")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "malformed response",
			err:        &ai.MalformedResponseError{Err: errors.New("schema validation failed")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "rate limited",
			err:        &ai.RateLimitError{Err: errors.New("429")},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "session not found",
			err:        service.ErrSessionNotFound,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "session expired",
			err:        service.ErrSessionExpired,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not placed",
			err:        service.ErrNotPlaced,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown error",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
			if body.Field != tt.wantField {
				t.Errorf("field = %q, want %q", body.Field, tt.wantField)
			}
		})
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, errors.New("pq: connection refused on 10.0.0.3"))

	if got := rec.Body.String(); len(got) > 0 && (containsAny(got, "pq:", "10.0.0.3")) {
		t.Errorf("internal details leaked to client: %s", got)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
	}
	return false
}
