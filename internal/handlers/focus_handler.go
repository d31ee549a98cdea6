package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
)

// FocusHandler serves the ambient focus sound controls.
type FocusHandler struct {
	focus *service.FocusService
}

// NewFocusHandler creates a new focus handler
func NewFocusHandler(focus *service.FocusService) *FocusHandler {
	return &FocusHandler{focus: focus}
}

type focusResponse struct {
	models.FocusSettings
	Track string `json:"track"`
}

func focusView(settings models.FocusSettings) focusResponse {
	return focusResponse{
		FocusSettings: settings,
		Track:         models.FocusTracks[settings.TrackIndex],
	}
}

// Get returns the current focus settings.
// GET /api/focus
func (h *FocusHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	respondJSON(w, http.StatusOK, focusView(h.focus.Get(user.ID)))
}

// Toggle flips the focus sound on or off.
// POST /api/focus/toggle
func (h *FocusHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	respondJSON(w, http.StatusOK, focusView(h.focus.Toggle(user.ID)))
}

// SetVolume stores a clamped volume.
// PUT /api/focus/volume {"volume": 0.8}
func (h *FocusHandler) SetVolume(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Volume float64 `json:"volume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body."})
		return
	}
	respondJSON(w, http.StatusOK, focusView(h.focus.SetVolume(user.ID, req.Volume)))
}

// NextTrack advances to the next ambient track.
// POST /api/focus/next-track
func (h *FocusHandler) NextTrack(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	respondJSON(w, http.StatusOK, focusView(h.focus.NextTrack(user.ID)))
}
