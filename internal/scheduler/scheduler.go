package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/audio"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/repository"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
)

// audioRetention bounds the TTS cache; entries are regenerated on demand.
const audioRetention = 30 * 24 * time.Hour

// Scheduler runs the recurring maintenance jobs: session cleanup, stale
// draft pruning, audio cache pruning and the weekly progress digest for
// cloud accounts.
type Scheduler struct {
	scheduler      *gocron.Scheduler
	userRepo       *repository.UserRepository
	drafts         *service.DraftService
	ledger         *service.LedgerService
	email          *service.EmailService
	tts            *audio.TTSService
	draftRetention time.Duration
}

// New creates a new scheduler instance
func New(
	userRepo *repository.UserRepository,
	drafts *service.DraftService,
	ledger *service.LedgerService,
	email *service.EmailService,
	tts *audio.TTSService,
	draftRetention time.Duration,
) *Scheduler {
	return &Scheduler{
		scheduler:      gocron.NewScheduler(time.UTC),
		userRepo:       userRepo,
		drafts:         drafts,
		ledger:         ledger,
		email:          email,
		tts:            tts,
		draftRetention: draftRetention,
	}
}

// Start registers and begins running all scheduled jobs.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.cleanupSessions)
	s.scheduler.Every(1).Day().At("03:00").Do(s.cleanupDrafts)
	s.scheduler.Every(1).Day().At("03:30").Do(s.pruneAudio)
	if s.email.IsEnabled() {
		s.scheduler.Every(1).Monday().At("09:00").Do(s.sendProgressDigests)
	}
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) cleanupSessions() {
	if err := s.userRepo.DeleteExpiredSessions(); err != nil {
		log.Printf("Error cleaning up expired sessions: %v", err)
	}
}

func (s *Scheduler) pruneAudio() {
	if err := s.tts.Prune(audioRetention); err != nil {
		log.Printf("Error pruning audio cache: %v", err)
	}
}

func (s *Scheduler) cleanupDrafts() {
	removed, err := s.drafts.CleanupStale(s.draftRetention)
	if err != nil {
		log.Printf("Error cleaning up stale drafts: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Removed %d stale drafts", removed)
	}
}

// sendProgressDigests mails a weekly summary to every cloud account that
// practised at least once.
func (s *Scheduler) sendProgressDigests() {
	users, err := s.userRepo.ListCloudUsers()
	if err != nil {
		log.Printf("Error listing digest recipients: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for i := range users {
		user := &users[i]
		dashboard, err := s.ledger.GetDashboard(user)
		if err != nil {
			log.Printf("Error building digest for %s: %v", user.ID, err)
			continue
		}
		if dashboard.TotalSessions == 0 {
			continue
		}
		if err := s.email.SendProgressDigest(ctx, user.Email, dashboard); err != nil {
			log.Printf("Error sending digest to %s: %v", user.Email, err)
		}
	}
}
