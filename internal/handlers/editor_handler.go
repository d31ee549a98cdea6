package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/ai"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/audio"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
)

// EditorHandler manages editing sessions: draft autosave and live
// suggestions both hang off the editor lifecycle.
type EditorHandler struct {
	drafts    *service.DraftService
	suggester *ai.Suggester
	tts       *audio.TTSService
}

// NewEditorHandler creates a new editor handler
func NewEditorHandler(drafts *service.DraftService, suggester *ai.Suggester, tts *audio.TTSService) *EditorHandler {
	return &EditorHandler{drafts: drafts, suggester: suggester, tts: tts}
}

type openResponse struct {
	Draft       *draftView `json:"draft,omitempty"`
	OfferResume bool       `json:"offerResume"`
}

type draftView struct {
	TaskID  string    `json:"taskId"`
	Content string    `json:"content"`
	SavedAt time.Time `json:"savedAt"`
}

// Open starts an editing session for a task. When a saved draft exists the
// response offers to resume it; the client decides.
// POST /api/editor/{taskId}/open
func (h *EditorHandler) Open(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	taskID := r.PathValue("taskId")

	draft, err := h.drafts.Open(user.ID, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := openResponse{}
	if draft != nil {
		resp.Draft = &draftView{TaskID: draft.TaskID, Content: draft.Content, SavedAt: draft.SavedAt}
		resp.OfferResume = draft.OfferResume("")
	}
	respondJSON(w, http.StatusOK, resp)
}

// Content receives the current editor buffer. It feeds both the autosave
// loop and the suggestion debouncer; neither blocks the request.
// PUT /api/editor/{taskId}/content
func (h *EditorHandler) Content(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	taskID := r.PathValue("taskId")

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body."})
		return
	}

	h.drafts.SetContent(user.ID, taskID, req.Content)
	h.suggester.Update(user.ID, taskID, req.Content)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type statusResponse struct {
	LastSaved   *time.Time        `json:"lastSaved,omitempty"`
	Suggestions *ai.SuggestResult `json:"suggestions,omitempty"`
}

// Status reports the last autosave time and any fresh suggestions. The
// client polls this while the editor is open.
// GET /api/editor/{taskId}/status
func (h *EditorHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	taskID := r.PathValue("taskId")

	resp := statusResponse{}
	if lastSaved, ok := h.drafts.LastSaved(user.ID, taskID); ok && !lastSaved.IsZero() {
		resp.LastSaved = &lastSaved
	}
	if result, ok := h.suggester.Latest(user.ID, taskID); ok {
		resp.Suggestions = result
	}
	respondJSON(w, http.StatusOK, resp)
}

// Close ends the editing session, flushing any unsaved draft.
// POST /api/editor/{taskId}/close
func (h *EditorHandler) Close(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	taskID := r.PathValue("taskId")

	h.drafts.Close(user.ID, taskID)
	h.suggester.Close(user.ID, taskID)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// CueCard returns the spoken audio for a speaking cue card prompt,
// generating and caching it on first request.
// GET /api/editor/{taskId}/cue-audio?prompt=...
func (h *EditorHandler) CueCard(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskId")
	prompt := r.URL.Query().Get("prompt")
	if prompt == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing prompt parameter."})
		return
	}

	filename, err := h.tts.CueCardAudio(taskID, prompt)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"audio": "/static/audio/" + filename})
}

// Discard throws away the stored draft for a task.
// DELETE /api/editor/{taskId}/draft
func (h *EditorHandler) Discard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	taskID := r.PathValue("taskId")

	if err := h.drafts.Discard(user.ID, taskID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
