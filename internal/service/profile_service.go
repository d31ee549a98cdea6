package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/remote"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/repository"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/validation"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrUserNotFound    = errors.New("user not found")
)

// mirrorTimeout bounds each best-effort push to the remote mirror. The
// local write has already committed, so a slow mirror never blocks the user.
const mirrorTimeout = 10 * time.Second

// ProfileUpdate carries a partial profile change. Nil fields are left
// untouched; set fields are validated before the merge.
type ProfileUpdate struct {
	Email       *string  `json:"email"`
	TargetBand  *float64 `json:"targetBand"`
	Theme       *string  `json:"theme"`
	AccentColor *string  `json:"accentColor"`
}

// ProfileService handles accounts, sessions and profile updates
type ProfileService struct {
	userRepo        *repository.UserRepository
	submissionRepo  *repository.SubmissionRepository
	draftRepo       *repository.DraftRepository
	mirror          remote.Mirror
	sessionDuration time.Duration
}

// NewProfileService creates a new profile service
func NewProfileService(
	userRepo *repository.UserRepository,
	submissionRepo *repository.SubmissionRepository,
	draftRepo *repository.DraftRepository,
	mirror remote.Mirror,
	sessionDuration time.Duration,
) *ProfileService {
	return &ProfileService{
		userRepo:        userRepo,
		submissionRepo:  submissionRepo,
		draftRepo:       draftRepo,
		mirror:          mirror,
		sessionDuration: sessionDuration,
	}
}

// LoginTrial starts a throwaway trial identity. No credentials are
// involved; the email only labels the account on-device.
func (s *ProfileService) LoginTrial(email string) (*models.Session, *models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if user == nil {
		user = newUser(email, models.AuthModeTrial)
		if err := s.userRepo.CreateUser(user); err != nil {
			return nil, nil, err
		}
	}

	session, err := s.createSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// LoginCloud signs in a verified cloud identity. A trial account with the
// same email is promoted to cloud so its local data is kept.
func (s *ProfileService) LoginCloud(email string) (*models.Session, *models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	switch {
	case user == nil:
		user = newUser(email, models.AuthModeCloud)
		if err := s.userRepo.CreateUser(user); err != nil {
			return nil, nil, err
		}
	case user.AuthMode == models.AuthModeTrial:
		user.AuthMode = models.AuthModeCloud
		if err := s.userRepo.SaveUser(user); err != nil {
			return nil, nil, err
		}
	}

	s.mirrorProfile(user)

	session, err := s.createSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// IsKnownEmail reports whether an account already exists for the email.
func (s *ProfileService) IsKnownEmail(email string) (bool, error) {
	user, err := s.userRepo.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// CurrentUser resolves a session ID to its user.
func (s *ProfileService) CurrentUser(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		// Expired sessions are cleaned up lazily here and in bulk by the
		// background sweep.
		if err := s.userRepo.DeleteSession(sessionID); err != nil {
			log.Printf("failed to delete expired session: %v", err)
		}
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a partial update. Validation failures reject the
// whole update; untouched fields keep their values.
func (s *ProfileService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if update.Email != nil {
		if err := validation.ValidateEmail(*update.Email); err != nil {
			return nil, err
		}
		user.Email = strings.ToLower(strings.TrimSpace(*update.Email))
	}
	if update.TargetBand != nil {
		if err := validation.ValidateTargetBand(*update.TargetBand); err != nil {
			return nil, err
		}
		user.TargetBand = *update.TargetBand
	}
	if update.Theme != nil {
		theme := models.Theme(*update.Theme)
		if err := validation.ValidateTheme(theme); err != nil {
			return nil, err
		}
		user.Theme = theme
	}
	if update.AccentColor != nil {
		if err := validation.ValidateAccent(*update.AccentColor); err != nil {
			return nil, err
		}
		user.AccentColor = *update.AccentColor
	}

	if err := s.userRepo.SaveUser(user); err != nil {
		return nil, err
	}

	if user.AuthMode == models.AuthModeCloud {
		s.mirrorProfile(user)
	}
	return user, nil
}

// Logout ends the session. Local data stays: submissions, drafts and
// academy progress all survive so the next login finds them intact.
func (s *ProfileService) Logout(sessionID string) error {
	return s.userRepo.DeleteSession(sessionID)
}

// ClearUserData wipes a user's submissions and drafts. This is the only
// path that destroys ledger data and it requires an explicit confirmation
// upstream.
func (s *ProfileService) ClearUserData(userID string) error {
	if err := s.submissionRepo.DeleteByUser(userID); err != nil {
		return err
	}
	if err := s.draftRepo.DeleteByUser(userID); err != nil {
		return err
	}
	return nil
}

// mirrorProfile pushes profile state to the remote mirror in the
// background. Failures are logged and swallowed; the local store is the
// source of truth.
func (s *ProfileService) mirrorProfile(user *models.User) {
	snapshot := *user
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.mirror.UpsertProfile(ctx, &snapshot); err != nil {
			log.Printf("profile mirror failed for user %s: %v", snapshot.ID, err)
		}
	}()
}

func (s *ProfileService) createSession(userID string) (*models.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	return s.userRepo.CreateSession(sessionID, userID, time.Now().Add(s.sessionDuration))
}

func newUser(email string, mode models.AuthMode) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		TargetBand:   models.DefaultTargetBand,
		Theme:        models.ThemeLight,
		AccentColor:  models.AccentColors[0],
		AuthMode:     mode,
		AcademyLevel: models.LevelUnassigned,
	}
}

// generateSessionID creates a 64-character random hex token.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
