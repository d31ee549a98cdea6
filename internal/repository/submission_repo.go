package repository

import (
	"fmt"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/database"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

// SubmissionRepository handles database operations for the submission ledger
type SubmissionRepository struct {
	db *database.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *database.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Insert appends a submission to the ledger. Submissions are append-only;
// there is no update path.
func (r *SubmissionRepository) Insert(sub *models.Submission) error {
	feedback, err := models.EncodeFeedback(sub.Feedback)
	if err != nil {
		return fmt.Errorf("failed to encode feedback: %w", err)
	}

	query := `
		INSERT INTO submissions (id, user_id, type, task_id, content, word_count, feedback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		sub.ID,
		sub.UserID,
		string(sub.Type),
		sub.TaskID,
		sub.Content,
		sub.WordCount,
		string(feedback),
		sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// ListByUser returns a user's submissions, newest first. seq breaks
// timestamp ties by insertion order.
func (r *SubmissionRepository) ListByUser(userID string) ([]models.Submission, error) {
	query := `
		SELECT id, user_id, type, task_id, content, word_count, feedback, created_at
		FROM submissions
		WHERE user_id = ?
		ORDER BY created_at DESC, seq DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var sub models.Submission
		var taskType, feedback string
		err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&taskType,
			&sub.TaskID,
			&sub.Content,
			&sub.WordCount,
			&feedback,
			&sub.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		sub.Type = models.TaskType(taskType)
		sub.Feedback, err = models.DecodeFeedback(sub.Type, []byte(feedback))
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, sub)
	}
	return submissions, rows.Err()
}

// CountByUser returns the number of submissions a user has made
func (r *SubmissionRepository) CountByUser(userID string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM submissions WHERE user_id = ?"
	if err := r.db.QueryRow(query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

// DeleteByUser removes all of a user's submissions. Only the explicit
// clear-data flow calls this; logout never does.
func (r *SubmissionRepository) DeleteByUser(userID string) error {
	query := "DELETE FROM submissions WHERE user_id = ?"
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to delete submissions: %w", err)
	}
	return nil
}
