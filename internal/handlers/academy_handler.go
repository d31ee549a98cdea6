package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/audio"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
)

// AcademyHandler serves the beginner curriculum endpoints.
type AcademyHandler struct {
	academy *service.AcademyService
	tts     *audio.TTSService
}

// NewAcademyHandler creates a new academy handler
func NewAcademyHandler(academy *service.AcademyService, tts *audio.TTSService) *AcademyHandler {
	return &AcademyHandler{academy: academy, tts: tts}
}

// Place scores the placement quiz and assigns a level.
// POST /api/academy/placement {"correct": 3}
func (h *AcademyHandler) Place(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Correct int `json:"correct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body."})
		return
	}

	level, err := h.academy.Place(user.ID, req.Correct)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]models.AcademyLevel{"level": level})
}

// Deck returns the vocab deck for the user's level.
// GET /api/academy/deck
func (h *AcademyHandler) Deck(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	deck, err := h.academy.Deck(user)
	if err != nil {
		respondError(w, err)
		return
	}
	if deck == nil {
		deck = []models.VocabEntry{}
	}
	respondJSON(w, http.StatusOK, deck)
}

// LearnVocab marks a word learned and returns the derived count.
// POST /api/academy/vocab/{vocabId}/learn
func (h *AcademyHandler) LearnVocab(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	vocabID := r.PathValue("vocabId")

	count, err := h.academy.MarkVocabLearned(user.ID, vocabID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"vocabCount": count})
}

// CompleteLesson marks a lesson done.
// POST /api/academy/lessons/{lessonId}/complete
func (h *AcademyHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	lessonID := r.PathValue("lessonId")

	if err := h.academy.CompleteLesson(user.ID, lessonID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Progress returns the user's academy progress.
// GET /api/academy/progress
func (h *AcademyHandler) Progress(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	progress, err := h.academy.Progress(user)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

// Pronounce returns the audio filename for a word's pronunciation,
// generating and caching it on first request.
// GET /api/academy/pronounce?word=...
func (h *AcademyHandler) Pronounce(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	if word == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing word parameter."})
		return
	}

	filename, err := h.tts.PronunciationAudio(word)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"audio": "/static/audio/" + filename})
}
