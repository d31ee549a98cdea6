package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/database"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

// UserRepository handles database operations for users and sessions
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, target_band, theme, accent_color, auth_mode, academy_level, created_at, updated_at"

// CreateUser inserts a new user record
func (r *UserRepository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (id, email, target_band, theme, accent_color, auth_mode, academy_level)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		user.ID,
		user.Email,
		user.TargetBand,
		string(user.Theme),
		user.AccentColor,
		string(user.AuthMode),
		string(user.AcademyLevel),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return r.scanUser(r.db.QueryRow(query, id))
}

// GetUserByEmail retrieves a user by email address
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	return r.scanUser(r.db.QueryRow(query, email))
}

// SaveUser persists the full user record after a merge
func (r *UserRepository) SaveUser(user *models.User) error {
	query := `
		UPDATE users
		SET email = ?, target_band = ?, theme = ?, accent_color = ?, auth_mode = ?,
		    academy_level = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		user.Email,
		user.TargetBand,
		string(user.Theme),
		user.AccentColor,
		string(user.AuthMode),
		string(user.AcademyLevel),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// DeleteUser deletes a user; sessions, submissions, drafts and academy
// progress go with it via cascading foreign keys.
func (r *UserRepository) DeleteUser(id string) error {
	query := "DELETE FROM users WHERE id = ?"
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ListCloudUsers returns all cloud-authenticated users (digest recipients)
func (r *UserRepository) ListCloudUsers() ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE auth_mode = ? ORDER BY created_at"
	rows, err := r.db.Query(query, string(models.AuthModeCloud))
	if err != nil {
		return nil, fmt.Errorf("failed to query cloud users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// CreateSession creates a new session for a user
func (r *UserRepository) CreateSession(sessionID, userID string, expiresAt time.Time) (*models.Session, error) {
	query := "INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)"
	_, err := r.db.Exec(query, sessionID, userID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession retrieves a session by ID
func (r *UserRepository) GetSession(sessionID string) (*models.Session, error) {
	query := "SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?"
	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session
func (r *UserRepository) DeleteSession(sessionID string) error {
	query := "DELETE FROM sessions WHERE id = ?"
	if _, err := r.db.Exec(query, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions
func (r *UserRepository) DeleteExpiredSessions() error {
	query := "DELETE FROM sessions WHERE expires_at < ?"
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

// SetAcademyLevel records the placement result for a user
func (r *UserRepository) SetAcademyLevel(userID string, level models.AcademyLevel) error {
	query := "UPDATE users SET academy_level = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, string(level), userID); err != nil {
		return fmt.Errorf("failed to set academy level: %w", err)
	}
	return nil
}

// AddLearnedVocab marks a vocab entry learned. The insert is idempotent;
// it reports whether the entry was newly added.
func (r *UserRepository) AddLearnedVocab(userID, vocabID string) (bool, error) {
	inserted, err := r.db.InsertIgnore("learned_vocab",
		[]string{"user_id", "vocab_id"},
		[]string{"user_id", "vocab_id"},
		userID, vocabID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add learned vocab: %w", err)
	}
	return inserted, nil
}

// ListLearnedVocab returns the vocab ids a user has learned, oldest first
func (r *UserRepository) ListLearnedVocab(userID string) ([]string, error) {
	query := "SELECT vocab_id FROM learned_vocab WHERE user_id = ? ORDER BY learned_at, vocab_id"
	return r.listStrings(query, userID)
}

// CountLearnedVocab returns the derived vocab count
func (r *UserRepository) CountLearnedVocab(userID string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM learned_vocab WHERE user_id = ?"
	if err := r.db.QueryRow(query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count learned vocab: %w", err)
	}
	return count, nil
}

// AddCompletedLesson marks a lesson complete (idempotent)
func (r *UserRepository) AddCompletedLesson(userID, lessonID string) error {
	_, err := r.db.InsertIgnore("completed_lessons",
		[]string{"user_id", "lesson_id"},
		[]string{"user_id", "lesson_id"},
		userID, lessonID,
	)
	if err != nil {
		return fmt.Errorf("failed to add completed lesson: %w", err)
	}
	return nil
}

// ListCompletedLessons returns completed lesson ids, oldest first
func (r *UserRepository) ListCompletedLessons(userID string) ([]string, error) {
	query := "SELECT lesson_id FROM completed_lessons WHERE user_id = ? ORDER BY completed_at, lesson_id"
	return r.listStrings(query, userID)
}

func (r *UserRepository) listStrings(query string, args ...interface{}) ([]string, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var theme, authMode, level string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.TargetBand,
		&theme,
		&user.AccentColor,
		&authMode,
		&level,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Theme = models.Theme(theme)
	user.AuthMode = models.AuthMode(authMode)
	user.AcademyLevel = models.AcademyLevel(level)
	return user, nil
}

func scanUserRow(rows *sql.Rows) (*models.User, error) {
	user := &models.User{}
	var theme, authMode, level string
	err := rows.Scan(
		&user.ID,
		&user.Email,
		&user.TargetBand,
		&theme,
		&user.AccentColor,
		&authMode,
		&level,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	user.Theme = models.Theme(theme)
	user.AuthMode = models.AuthMode(authMode)
	user.AcademyLevel = models.AcademyLevel(level)
	return user, nil
}
