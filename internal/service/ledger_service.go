package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/ai"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/remote"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/repository"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/validation"
)

// FamilyAverage is a per-family rolling average for the dashboard.
type FamilyAverage struct {
	Family  models.TaskFamily `json:"family"`
	Average float64           `json:"average"`
	Count   int               `json:"count"`
}

// ScorePoint is one submission's score on the progress chart.
type ScorePoint struct {
	Band      float64           `json:"band"`
	Family    models.TaskFamily `json:"family"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Dashboard aggregates a user's ledger for the overview screen. All values
// are recomputed from the ledger on every read; nothing here is stored.
type Dashboard struct {
	TargetBand      float64         `json:"targetBand"`
	TotalSessions   int             `json:"totalSessions"`
	OverallAverage  float64         `json:"overallAverage"`
	BandGap         float64         `json:"bandGap"`
	FamilyAverages  []FamilyAverage `json:"familyAverages"`
	ScoreHistory    []ScorePoint    `json:"scoreHistory"`
	LastSubmittedAt *time.Time      `json:"lastSubmittedAt,omitempty"`
}

// LedgerService owns the append-only submission ledger and its aggregates.
type LedgerService struct {
	submissionRepo *repository.SubmissionRepository
	userRepo       *repository.UserRepository
	evaluator      *ai.Evaluator
	mirror         remote.Mirror
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	submissionRepo *repository.SubmissionRepository,
	userRepo *repository.UserRepository,
	evaluator *ai.Evaluator,
	mirror remote.Mirror,
) *LedgerService {
	return &LedgerService{
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		evaluator:      evaluator,
		mirror:         mirror,
	}
}

// Evaluate grades content and appends the result to the ledger. Any AI or
// validation error aborts before the local write, so a failed evaluation
// never leaves a partial submission behind.
func (s *LedgerService) Evaluate(ctx context.Context, user *models.User, taskType models.TaskType, taskID, content string) (*models.Submission, error) {
	if err := validation.ValidateTaskType(taskType); err != nil {
		return nil, err
	}
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}

	feedback, err := s.evaluator.Evaluate(ctx, taskType, taskID, content)
	if err != nil {
		return nil, err
	}

	sub := &models.Submission{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Type:      taskType,
		TaskID:    taskID,
		Content:   content,
		Feedback:  feedback,
		CreatedAt: time.Now().UTC(),
	}
	if taskType.Family() == models.FamilyWriting {
		wc := ai.WordCount(content)
		sub.WordCount = &wc
	}

	if err := s.submissionRepo.Insert(sub); err != nil {
		return nil, err
	}

	if user.AuthMode == models.AuthModeCloud {
		s.mirrorSubmission(sub)
	}
	return sub, nil
}

// List returns the user's submissions, newest first.
func (s *LedgerService) List(userID string) ([]models.Submission, error) {
	return s.submissionRepo.ListByUser(userID)
}

// GetDashboard recomputes the dashboard aggregates from the ledger.
func (s *LedgerService) GetDashboard(user *models.User) (*Dashboard, error) {
	submissions, err := s.submissionRepo.ListByUser(user.ID)
	if err != nil {
		return nil, err
	}
	return BuildDashboard(user.TargetBand, submissions), nil
}

// Predict projects preparation time to the target band from the ledger.
func (s *LedgerService) Predict(ctx context.Context, user *models.User) (*ai.Prediction, error) {
	submissions, err := s.submissionRepo.ListByUser(user.ID)
	if err != nil {
		return nil, err
	}
	return s.evaluator.Predict(ctx, user.TargetBand, submissions)
}

// BuildDashboard computes aggregates from a newest-first submission list.
// Pure so it can be tested without a store.
func BuildDashboard(targetBand float64, submissions []models.Submission) *Dashboard {
	dashboard := &Dashboard{
		TargetBand:   targetBand,
		ScoreHistory: make([]ScorePoint, 0, len(submissions)),
	}

	type accum struct {
		sum   float64
		count int
	}
	families := map[models.TaskFamily]*accum{}
	var totalSum float64

	for _, sub := range submissions {
		band := sub.Feedback.OverallBand()
		family := sub.Type.Family()

		a, ok := families[family]
		if !ok {
			a = &accum{}
			families[family] = a
		}
		a.sum += band
		a.count++
		totalSum += band

		dashboard.ScoreHistory = append(dashboard.ScoreHistory, ScorePoint{
			Band:      band,
			Family:    family,
			CreatedAt: sub.CreatedAt,
		})
	}

	dashboard.TotalSessions = len(submissions)
	if len(submissions) > 0 {
		dashboard.OverallAverage = totalSum / float64(len(submissions))
		dashboard.BandGap = targetBand - dashboard.OverallAverage
		last := submissions[0].CreatedAt
		dashboard.LastSubmittedAt = &last
	}

	for _, family := range []models.TaskFamily{models.FamilyWriting, models.FamilySpeaking, models.FamilyReading} {
		if a, ok := families[family]; ok {
			dashboard.FamilyAverages = append(dashboard.FamilyAverages, FamilyAverage{
				Family:  family,
				Average: a.sum / float64(a.count),
				Count:   a.count,
			})
		}
	}

	return dashboard
}

func (s *LedgerService) mirrorSubmission(sub *models.Submission) {
	snapshot := *sub
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.mirror.InsertSubmission(ctx, &snapshot); err != nil {
			log.Printf("submission mirror failed for %s: %v", snapshot.ID, err)
		}
	}()
}
