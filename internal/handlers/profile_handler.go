package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
)

// ProfileHandler handles profile reads and updates.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Update applies a partial profile change.
// PATCH /api/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var update service.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body."})
		return
	}

	updated, err := h.profiles.UpdateProfile(user.ID, update)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// ClearData wipes the user's submissions and drafts. The client shows a
// confirmation dialog before calling this; the account itself survives.
// POST /api/profile/clear-data
func (h *ProfileHandler) ClearData(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := h.profiles.ClearUserData(user.ID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
