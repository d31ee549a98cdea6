package remote

import (
	"context"
	"fmt"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/database"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

// Mirror replicates cloud-account data to a remote store. Writes are
// best-effort: the local store has already committed by the time a mirror
// method runs, so callers log failures and move on.
type Mirror interface {
	UpsertProfile(ctx context.Context, user *models.User) error
	InsertSubmission(ctx context.Context, sub *models.Submission) error
}

// SQLMirror mirrors data into a remote postgres database.
type SQLMirror struct {
	db *database.DB
}

// NewSQLMirror wraps an open mirror connection.
func NewSQLMirror(db *database.DB) *SQLMirror {
	return &SQLMirror{db: db}
}

// UpsertProfile pushes the current profile state to the mirror.
func (m *SQLMirror) UpsertProfile(ctx context.Context, user *models.User) error {
	query := m.db.Dialect.UpsertQuery("users",
		[]string{"id", "email", "target_band", "theme", "accent_color", "auth_mode", "academy_level"},
		[]string{"id"},
		[]string{"email", "target_band", "theme", "accent_color", "auth_mode", "academy_level"},
	)
	_, err := m.db.DB.ExecContext(ctx, m.db.Dialect.RewriteQuery(query),
		user.ID,
		user.Email,
		user.TargetBand,
		string(user.Theme),
		user.AccentColor,
		string(user.AuthMode),
		string(user.AcademyLevel),
	)
	if err != nil {
		return fmt.Errorf("failed to mirror profile: %w", err)
	}
	return nil
}

// InsertSubmission pushes a new ledger entry to the mirror. Submissions are
// immutable, so a duplicate id from a retried push is skipped silently.
func (m *SQLMirror) InsertSubmission(ctx context.Context, sub *models.Submission) error {
	feedback, err := models.EncodeFeedback(sub.Feedback)
	if err != nil {
		return fmt.Errorf("failed to encode feedback for mirror: %w", err)
	}

	query := m.db.Dialect.InsertIgnoreQuery("submissions",
		[]string{"id", "user_id", "type", "task_id", "content", "word_count", "feedback", "created_at"},
		[]string{"id"},
	)
	_, err = m.db.DB.ExecContext(ctx, m.db.Dialect.RewriteQuery(query),
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
		return fmt.Errorf("failed to mirror submission: %w", err)
	}
	return nil
}

// NoopMirror is used when no mirror database is configured. Trial accounts
// and single-node deployments run against it.
type NoopMirror struct{}

func (NoopMirror) UpsertProfile(context.Context, *models.User) error          { return nil }
func (NoopMirror) InsertSubmission(context.Context, *models.Submission) error { return nil }
