package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
)

// SubmissionHandler serves the ledger: evaluation, history and dashboards.
type SubmissionHandler struct {
	ledger *service.LedgerService
	drafts *service.DraftService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(ledger *service.LedgerService, drafts *service.DraftService) *SubmissionHandler {
	return &SubmissionHandler{ledger: ledger, drafts: drafts}
}

// List returns the user's submissions, newest first.
// GET /api/submissions
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	submissions, err := h.ledger.List(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if submissions == nil {
		submissions = []models.Submission{}
	}
	respondJSON(w, http.StatusOK, submissions)
}

// Evaluate grades a completed task and appends it to the ledger. On
// success the task's draft is discarded so the editor reopens clean.
// POST /api/submissions/evaluate
func (h *SubmissionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Type    models.TaskType `json:"type"`
		TaskID  string          `json:"taskId"`
		Content string          `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body."})
		return
	}

	submission, err := h.ledger.Evaluate(r.Context(), user, req.Type, req.TaskID, req.Content)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.drafts.Discard(user.ID, req.TaskID); err != nil {
		log.Printf("Error discarding draft after submit: %v", err)
	}

	respondJSON(w, http.StatusCreated, submission)
}

// Dashboard returns aggregates recomputed from the ledger.
// GET /api/dashboard
func (h *SubmissionHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	dashboard, err := h.ledger.GetDashboard(user)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// Predict returns the projected study time to the target band.
// GET /api/dashboard/prediction
func (h *SubmissionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	prediction, err := h.ledger.Predict(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prediction)
}
