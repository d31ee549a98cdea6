package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/database"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

const backupVersion = "1.0"

// BackupData is the complete portable snapshot of the local store.
type BackupData struct {
	Version     string             `json:"version"`
	ExportedAt  time.Time          `json:"exported_at"`
	Users       []UserBackup       `json:"users"`
	Submissions []SubmissionBackup `json:"submissions"`
	Drafts      []DraftBackup      `json:"drafts"`
}

// UserBackup is a user record in a backup file.
type UserBackup struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	TargetBand   float64   `json:"target_band"`
	Theme        string    `json:"theme"`
	AccentColor  string    `json:"accent_color"`
	AuthMode     string    `json:"auth_mode"`
	AcademyLevel string    `json:"academy_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubmissionBackup is a ledger entry in a backup file. Feedback stays as
// raw JSON so a backup round-trips without reinterpreting it.
type SubmissionBackup struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      string          `json:"type"`
	TaskID    string          `json:"task_id"`
	Content   string          `json:"content"`
	WordCount *int            `json:"word_count,omitempty"`
	Feedback  json.RawMessage `json:"feedback"`
	CreatedAt time.Time       `json:"created_at"`
}

// DraftBackup is a draft record in a backup file.
type DraftBackup struct {
	UserID  string    `json:"user_id"`
	TaskID  string    `json:"task_id"`
	Content string    `json:"content"`
	SavedAt time.Time `json:"saved_at"`
}

// BackupService exports and imports the local store as JSON.
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes the full store to w as a JSON document.
func (s *BackupService) Export(w io.Writer) error {
	backup := BackupData{
		Version:    backupVersion,
		ExportedAt: time.Now().UTC(),
	}

	if err := s.exportUsers(&backup); err != nil {
		return err
	}
	if err := s.exportSubmissions(&backup); err != nil {
		return err
	}
	if err := s.exportDrafts(&backup); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Backup exported: %d users, %d submissions, %d drafts",
		len(backup.Users), len(backup.Submissions), len(backup.Drafts))
	return nil
}

// Import loads a backup document into the store. Existing rows with the
// same keys are overwritten; unrelated rows are left alone.
func (s *BackupService) Import(r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return fmt.Errorf("unsupported backup version: %q", backup.Version)
	}

	for _, u := range backup.Users {
		err := s.db.Upsert("users",
			[]string{"id", "email", "target_band", "theme", "accent_color", "auth_mode", "academy_level", "created_at", "updated_at"},
			[]string{"id"},
			[]string{"email", "target_band", "theme", "accent_color", "auth_mode", "academy_level", "updated_at"},
			u.ID, u.Email, u.TargetBand, u.Theme, u.AccentColor, u.AuthMode, u.AcademyLevel, u.CreatedAt, u.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import user %s: %w", u.ID, err)
		}
	}

	for _, sub := range backup.Submissions {
		// Validate the feedback shape before it enters the ledger.
		if _, err := models.DecodeFeedback(models.TaskType(sub.Type), sub.Feedback); err != nil {
			return fmt.Errorf("failed to import submission %s: %w", sub.ID, err)
		}
		_, err := s.db.InsertIgnore("submissions",
			[]string{"id", "user_id", "type", "task_id", "content", "word_count", "feedback", "created_at"},
			[]string{"id"},
			sub.ID, sub.UserID, sub.Type, sub.TaskID, sub.Content, sub.WordCount, string(sub.Feedback), sub.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import submission %s: %w", sub.ID, err)
		}
	}

	for _, d := range backup.Drafts {
		err := s.db.Upsert("drafts",
			[]string{"user_id", "task_id", "content", "saved_at"},
			[]string{"user_id", "task_id"},
			[]string{"content", "saved_at"},
			d.UserID, d.TaskID, d.Content, d.SavedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import draft %s/%s: %w", d.UserID, d.TaskID, err)
		}
	}

	log.Printf("Backup imported: %d users, %d submissions, %d drafts",
		len(backup.Users), len(backup.Submissions), len(backup.Drafts))
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, email, target_band, theme, accent_color, auth_mode, academy_level, created_at, updated_at FROM users ORDER BY created_at")
	if err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.TargetBand, &u.Theme, &u.AccentColor, &u.AuthMode, &u.AcademyLevel, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan user: %w", err)
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportSubmissions(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, user_id, type, task_id, content, word_count, feedback, created_at FROM submissions ORDER BY created_at")
	if err != nil {
		return fmt.Errorf("failed to export submissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sub SubmissionBackup
		var feedback string
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Type, &sub.TaskID, &sub.Content, &sub.WordCount, &feedback, &sub.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan submission: %w", err)
		}
		sub.Feedback = json.RawMessage(feedback)
		backup.Submissions = append(backup.Submissions, sub)
	}
	return rows.Err()
}

func (s *BackupService) exportDrafts(backup *BackupData) error {
	rows, err := s.db.Query("SELECT user_id, task_id, content, saved_at FROM drafts ORDER BY user_id, task_id")
	if err != nil {
		return fmt.Errorf("failed to export drafts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d DraftBackup
		if err := rows.Scan(&d.UserID, &d.TaskID, &d.Content, &d.SavedAt); err != nil {
			return fmt.Errorf("failed to scan draft: %w", err)
		}
		backup.Drafts = append(backup.Drafts, d)
	}
	return rows.Err()
}
