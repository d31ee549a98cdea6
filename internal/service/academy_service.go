package service

import (
	"errors"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/repository"
)

// ErrNotPlaced means the user tried an academy action before taking the
// placement quiz.
var ErrNotPlaced = errors.New("placement quiz not completed")

// placementQuestions is the fixed length of the placement quiz.
const placementQuestions = 5

// AcademyService runs the beginner curriculum: placement, vocab decks and
// lesson completion.
type AcademyService struct {
	userRepo  *repository.UserRepository
	vocabRepo *repository.VocabRepository
}

// NewAcademyService creates a new academy service
func NewAcademyService(userRepo *repository.UserRepository, vocabRepo *repository.VocabRepository) *AcademyService {
	return &AcademyService{userRepo: userRepo, vocabRepo: vocabRepo}
}

// Place scores the placement quiz and assigns the academy level. Retaking
// the quiz reassigns; progress within the old level is kept.
func (s *AcademyService) Place(userID string, correct int) (models.AcademyLevel, error) {
	if correct < 0 {
		correct = 0
	}
	if correct > placementQuestions {
		correct = placementQuestions
	}

	level := models.PlacementLevel(correct)
	if err := s.userRepo.SetAcademyLevel(userID, level); err != nil {
		return "", err
	}
	return level, nil
}

// Deck returns the vocab deck for the user's level.
func (s *AcademyService) Deck(user *models.User) ([]models.VocabEntry, error) {
	if user.AcademyLevel == models.LevelUnassigned {
		return nil, ErrNotPlaced
	}
	return s.vocabRepo.ListByLevel(user.AcademyLevel)
}

// MarkVocabLearned records a learned word. Repeats are no-ops; the
// returned count is always derived from the store, never incremented.
func (s *AcademyService) MarkVocabLearned(userID, vocabID string) (int, error) {
	if _, err := s.userRepo.AddLearnedVocab(userID, vocabID); err != nil {
		return 0, err
	}
	return s.userRepo.CountLearnedVocab(userID)
}

// CompleteLesson marks a lesson done. Idempotent.
func (s *AcademyService) CompleteLesson(userID, lessonID string) error {
	return s.userRepo.AddCompletedLesson(userID, lessonID)
}

// Progress assembles the user's academy progress.
func (s *AcademyService) Progress(user *models.User) (*models.AcademyProgress, error) {
	learned, err := s.userRepo.ListLearnedVocab(user.ID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.userRepo.ListCompletedLessons(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AcademyProgress{
		Level:            user.AcademyLevel,
		VocabCount:       len(learned),
		LearnedVocabIDs:  learned,
		CompletedLessons: lessons,
	}, nil
}
