package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/database"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

// DraftRepository handles database operations for autosaved drafts
type DraftRepository struct {
	db *database.DB
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *database.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// Upsert saves a draft, replacing any existing draft for the same task
func (r *DraftRepository) Upsert(draft *models.Draft) error {
	err := r.db.Upsert("drafts",
		[]string{"user_id", "task_id", "content", "saved_at"},
		[]string{"user_id", "task_id"},
		[]string{"content", "saved_at"},
		draft.UserID, draft.TaskID, draft.Content, draft.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Get retrieves the draft for a task, or nil if none exists
func (r *DraftRepository) Get(userID, taskID string) (*models.Draft, error) {
	query := "SELECT user_id, task_id, content, saved_at FROM drafts WHERE user_id = ? AND task_id = ?"
	draft := &models.Draft{}
	err := r.db.QueryRow(query, userID, taskID).Scan(
		&draft.UserID,
		&draft.TaskID,
		&draft.Content,
		&draft.SavedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// Delete removes the draft for a task
func (r *DraftRepository) Delete(userID, taskID string) error {
	query := "DELETE FROM drafts WHERE user_id = ? AND task_id = ?"
	if _, err := r.db.Exec(query, userID, taskID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// DeleteByUser removes all of a user's drafts
func (r *DraftRepository) DeleteByUser(userID string) error {
	query := "DELETE FROM drafts WHERE user_id = ?"
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to delete drafts: %w", err)
	}
	return nil
}

// DeleteStale removes drafts not touched since the cutoff
func (r *DraftRepository) DeleteStale(olderThan time.Time) (int64, error) {
	query := "DELETE FROM drafts WHERE saved_at < ?"
	result, err := r.db.Exec(query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale drafts: %w", err)
	}
	return result.RowsAffected()
}
