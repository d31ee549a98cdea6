package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/ai"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/audio"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/config"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/database"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/handlers"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/remote"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/repository"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/scheduler"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/security"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Optional cloud mirror. Local writes never wait on it.
	var mirror remote.Mirror = remote.NoopMirror{}
	if cfg.MirrorDatabaseURL != "" {
		mirrorDB, err := database.OpenMirror(cfg.MirrorDatabaseURL)
		if err != nil {
			log.Printf("Warning: mirror database unreachable, continuing without: %v", err)
		} else {
			defer mirrorDB.Close()
			if err := mirrorDB.Migrate(); err != nil {
				log.Printf("Warning: mirror migrations failed, continuing without: %v", err)
			} else {
				mirror = remote.NewSQLMirror(mirrorDB)
				log.Println("Cloud mirror enabled")
			}
		}
	}

	// AI provider
	provider, err := ai.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	log.Printf("AI provider ready (model: %s)", provider.ModelID())

	evaluator := ai.NewEvaluator(provider)
	suggester := ai.NewSuggester(provider, cfg.SuggestMinLength, cfg.SuggestDebounce)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	vocabRepo := repository.NewVocabRepository(db)

	// Services
	profileService := service.NewProfileService(userRepo, submissionRepo, draftRepo, mirror, cfg.SessionDuration)
	ledgerService := service.NewLedgerService(submissionRepo, userRepo, evaluator, mirror)
	draftService := service.NewDraftService(draftRepo, cfg.AutosaveInterval)
	academyService := service.NewAcademyService(userRepo, vocabRepo)
	focusService := service.NewFocusService()

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	ttsService, err := audio.NewTTSService(cfg.AudioCachePath)
	if err != nil {
		log.Fatalf("Failed to initialize TTS service: %v", err)
	}

	// Google OAuth for cloud accounts. Trial accounts work without it.
	var googleOAuth *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		googleOAuth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppBaseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email"},
			Endpoint:     google.Endpoint,
		}
		log.Println("Google OAuth configured")
	} else {
		log.Println("Google OAuth not configured: cloud login disabled")
	}

	// Handlers
	mw := handlers.NewMiddleware(profileService)
	authHandler := handlers.NewAuthHandler(profileService, emailService, googleOAuth, cfg.AppBaseURL)
	profileHandler := handlers.NewProfileHandler(profileService)
	submissionHandler := handlers.NewSubmissionHandler(ledgerService, draftService)
	editorHandler := handlers.NewEditorHandler(draftService, suggester, ttsService)
	academyHandler := handlers.NewAcademyHandler(academyService, ttsService)
	focusHandler := handlers.NewFocusHandler(focusService)

	// Evaluation calls a paid model; keep a per-session ceiling. Login gets
	// its own limiter since trial login creates accounts.
	evaluateLimiter := security.NewRateLimiter(10, time.Minute)
	loginLimiter := security.NewRateLimiter(20, time.Minute)

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/trial", handlers.RateLimit(loginLimiter, authHandler.TrialLogin))
	mux.HandleFunc("GET /api/auth/me", mw.RequireAuth(authHandler.Me))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)

	// Profile
	mux.HandleFunc("PATCH /api/profile", mw.RequireAuth(profileHandler.Update))
	mux.HandleFunc("POST /api/profile/clear-data", mw.RequireAuth(profileHandler.ClearData))

	// Submissions and dashboard
	mux.HandleFunc("GET /api/submissions", mw.RequireAuth(submissionHandler.List))
	mux.HandleFunc("POST /api/submissions/evaluate", mw.RequireAuth(handlers.RateLimit(evaluateLimiter, submissionHandler.Evaluate)))
	mux.HandleFunc("GET /api/dashboard", mw.RequireAuth(submissionHandler.Dashboard))
	mux.HandleFunc("GET /api/dashboard/prediction", mw.RequireAuth(submissionHandler.Predict))

	// Editor sessions (autosave + live suggestions)
	mux.HandleFunc("POST /api/editor/{taskId}/open", mw.RequireAuth(editorHandler.Open))
	mux.HandleFunc("PUT /api/editor/{taskId}/content", mw.RequireAuth(editorHandler.Content))
	mux.HandleFunc("GET /api/editor/{taskId}/status", mw.RequireAuth(editorHandler.Status))
	mux.HandleFunc("POST /api/editor/{taskId}/close", mw.RequireAuth(editorHandler.Close))
	mux.HandleFunc("DELETE /api/editor/{taskId}/draft", mw.RequireAuth(editorHandler.Discard))
	mux.HandleFunc("GET /api/editor/{taskId}/cue-audio", mw.RequireAuth(editorHandler.CueCard))

	// Academy
	mux.HandleFunc("POST /api/academy/placement", mw.RequireAuth(academyHandler.Place))
	mux.HandleFunc("GET /api/academy/deck", mw.RequireAuth(academyHandler.Deck))
	mux.HandleFunc("POST /api/academy/vocab/{vocabId}/learn", mw.RequireAuth(academyHandler.LearnVocab))
	mux.HandleFunc("POST /api/academy/lessons/{lessonId}/complete", mw.RequireAuth(academyHandler.CompleteLesson))
	mux.HandleFunc("GET /api/academy/progress", mw.RequireAuth(academyHandler.Progress))
	mux.HandleFunc("GET /api/academy/pronounce", mw.RequireAuth(academyHandler.Pronounce))

	// Focus sound
	mux.HandleFunc("GET /api/focus", mw.RequireAuth(focusHandler.Get))
	mux.HandleFunc("POST /api/focus/toggle", mw.RequireAuth(focusHandler.Toggle))
	mux.HandleFunc("PUT /api/focus/volume", mw.RequireAuth(focusHandler.SetVolume))
	mux.HandleFunc("POST /api/focus/next-track", mw.RequireAuth(focusHandler.NextTrack))

	// Cached TTS audio
	mux.Handle("GET /static/audio/", http.StripPrefix("/static/audio/", http.FileServer(http.Dir(cfg.AudioCachePath))))

	// Background jobs
	jobs := scheduler.New(userRepo, draftService, ledgerService, emailService, ttsService, cfg.DraftRetention)
	jobs.Start()

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handlers.Logging(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	jobs.Stop()
	suggester.Stop()
	// Flush any drafts still sitting in open editors.
	draftService.Stop()

	log.Println("Server stopped")
}
