package handlers

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/ai"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/audio"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/database"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/remote"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/repository"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/security"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
)

type testServer struct {
	mux      *http.ServeMux
	provider *ai.MockProvider
	audioDir string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.Initialize(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userRepo := repository.NewUserRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	vocabRepo := repository.NewVocabRepository(db)

	provider := ai.NewMockProvider()
	evaluator := ai.NewEvaluator(provider)
	suggester := ai.NewSuggester(provider, 50, 20*time.Millisecond)
	t.Cleanup(suggester.Stop)

	profiles := service.NewProfileService(userRepo, submissionRepo, draftRepo, remote.NoopMirror{}, time.Hour)
	ledger := service.NewLedgerService(submissionRepo, userRepo, evaluator, remote.NoopMirror{})
	drafts := service.NewDraftService(draftRepo, 20*time.Millisecond)
	t.Cleanup(drafts.Stop)
	academy := service.NewAcademyService(userRepo, vocabRepo)
	focus := service.NewFocusService()
	email, _ := service.NewEmailService("", "", "")

	audioDir := t.TempDir()
	tts, err := audio.NewTTSService(audioDir)
	if err != nil {
		t.Fatalf("failed to create TTS service: %v", err)
	}

	mw := NewMiddleware(profiles)
	authHandler := NewAuthHandler(profiles, email, nil, "")
	profileHandler := NewProfileHandler(profiles)
	submissionHandler := NewSubmissionHandler(ledger, drafts)
	editorHandler := NewEditorHandler(drafts, suggester, tts)
	academyHandler := NewAcademyHandler(academy, tts)
	focusHandler := NewFocusHandler(focus)
	limiter := security.NewRateLimiter(100, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/trial", authHandler.TrialLogin)
	mux.HandleFunc("GET /api/auth/me", mw.RequireAuth(authHandler.Me))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("PATCH /api/profile", mw.RequireAuth(profileHandler.Update))
	mux.HandleFunc("POST /api/profile/clear-data", mw.RequireAuth(profileHandler.ClearData))
	mux.HandleFunc("GET /api/submissions", mw.RequireAuth(submissionHandler.List))
	mux.HandleFunc("POST /api/submissions/evaluate", mw.RequireAuth(RateLimit(limiter, submissionHandler.Evaluate)))
	mux.HandleFunc("GET /api/dashboard", mw.RequireAuth(submissionHandler.Dashboard))
	mux.HandleFunc("POST /api/editor/{taskId}/open", mw.RequireAuth(editorHandler.Open))
	mux.HandleFunc("PUT /api/editor/{taskId}/content", mw.RequireAuth(editorHandler.Content))
	mux.HandleFunc("GET /api/editor/{taskId}/status", mw.RequireAuth(editorHandler.Status))
	mux.HandleFunc("POST /api/editor/{taskId}/close", mw.RequireAuth(editorHandler.Close))
	mux.HandleFunc("GET /api/editor/{taskId}/cue-audio", mw.RequireAuth(editorHandler.CueCard))
	mux.HandleFunc("POST /api/academy/placement", mw.RequireAuth(academyHandler.Place))
	mux.HandleFunc("GET /api/academy/progress", mw.RequireAuth(academyHandler.Progress))
	mux.HandleFunc("GET /api/focus", mw.RequireAuth(focusHandler.Get))
	mux.HandleFunc("POST /api/focus/toggle", mw.RequireAuth(focusHandler.Toggle))

	return &testServer{mux: mux, provider: provider, audioDir: audioDir}
}

func (ts *testServer) do(t *testing.T, method, path, cookie string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/auth/trial", "", map[string]string{"email": email})
	if rec.Code != http.StatusOK {
		t.Fatalf("trial login status = %d: %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c.Value
		}
	}
	t.Fatal("no session cookie set")
	return ""
}

func TestTrialLoginAndMe(t *testing.T) {
	ts := setupServer(t)
	cookie := ts.login(t, "budi@example.com")

	rec := ts.do(t, http.MethodGet, "/api/auth/me", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	var user models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "budi@example.com" || user.TargetBand != 7.0 {
		t.Errorf("user = %+v", user)
	}
}

func TestTrialLoginRejectsBadEmail(t *testing.T) {
	ts := setupServer(t)
	rec := ts.do(t, http.MethodPost, "/api/auth/trial", "", map[string]string{"email": "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body errorResponse
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Field != "email" {
		t.Errorf("field = %q, want email", body.Field)
	}
}

func TestUnauthenticatedRequestsGet401(t *testing.T) {
	ts := setupServer(t)
	for _, path := range []string{"/api/auth/me", "/api/submissions", "/api/dashboard"} {
		rec := ts.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s status = %d, want 401", path, rec.Code)
		}
	}
}

func TestEvaluateFlowAppendsToLedger(t *testing.T) {
	ts := setupServer(t)
	cookie := ts.login(t, "budi@example.com")

	feedback, _ := json.Marshal(models.WritingFeedback{
		Overall: 6.5, TaskResponse: 6.0, Coherence: 7.0, LexicalRange: 6.5, Grammar: 6.5,
		Strengths: []string{"clear position"}, Improvements: []string{"linking devices"},
	})
	ts.provider.AddResponse(ai.MockResponse{Content: feedback})

	rec := ts.do(t, http.MethodPost, "/api/submissions/evaluate", cookie, map[string]string{
		"type":    "writing_task2",
		"taskId":  "task-essay-1",
		"content": "essay body text",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("evaluate status = %d: %s", rec.Code, rec.Body.String())
	}
	var sub models.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode submission: %v", err)
	}
	if sub.ID == "" || sub.Feedback.OverallBand() != 6.5 {
		t.Errorf("submission = %+v", sub)
	}

	rec = ts.do(t, http.MethodGet, "/api/submissions", cookie, nil)
	var list []models.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ledger size = %d, want 1", len(list))
	}
}

func TestEvaluateConnectivityFailureSurfaces(t *testing.T) {
	ts := setupServer(t)
	cookie := ts.login(t, "budi@example.com")

	// Empty mock queue means the provider reports a connectivity error.
	rec := ts.do(t, http.MethodPost, "/api/submissions/evaluate", cookie, map[string]string{
		"type":    "writing_task2",
		"taskId":  "task-essay-1",
		"content": "essay body text",
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/submissions", cookie, nil)
	var list []models.Submission
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 0 {
		t.Errorf("failed evaluation persisted %d submissions", len(list))
	}
}

func TestEditorOpenContentStatusClose(t *testing.T) {
	ts := setupServer(t)
	cookie := ts.login(t, "budi@example.com")

	rec := ts.do(t, http.MethodPost, "/api/editor/task-essay-1/open", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("open status = %d", rec.Code)
	}
	var open openResponse
	json.Unmarshal(rec.Body.Bytes(), &open)
	if open.OfferResume {
		t.Error("fresh task should not offer resume")
	}

	rec = ts.do(t, http.MethodPut, "/api/editor/task-essay-1/content", cookie, map[string]string{"content": "first paragraph"})
	if rec.Code != http.StatusOK {
		t.Fatalf("content status = %d", rec.Code)
	}

	// Wait for the autosave tick to flush.
	deadline := time.Now().Add(2 * time.Second)
	var status statusResponse
	for {
		rec = ts.do(t, http.MethodGet, "/api/editor/task-essay-1/status", cookie, nil)
		json.Unmarshal(rec.Body.Bytes(), &status)
		if status.LastSaved != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("autosave never reported a save")
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec = ts.do(t, http.MethodPost, "/api/editor/task-essay-1/close", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("close status = %d", rec.Code)
	}

	// Reopening offers the saved draft.
	rec = ts.do(t, http.MethodPost, "/api/editor/task-essay-1/open", cookie, nil)
	json.Unmarshal(rec.Body.Bytes(), &open)
	if !open.OfferResume || open.Draft == nil || open.Draft.Content != "first paragraph" {
		t.Errorf("reopen = %+v, want resume offer", open)
	}
}

func TestLogoutKeepsSubmissions(t *testing.T) {
	ts := setupServer(t)
	cookie := ts.login(t, "budi@example.com")

	feedback, _ := json.Marshal(models.WritingFeedback{
		Overall: 6.0, TaskResponse: 6.0, Coherence: 6.0, LexicalRange: 6.0, Grammar: 6.0,
		Strengths: []string{"structure"}, Improvements: []string{"range"},
	})
	ts.provider.AddResponse(ai.MockResponse{Content: feedback})
	ts.do(t, http.MethodPost, "/api/submissions/evaluate", cookie, map[string]string{
		"type": "writing_task2", "taskId": "t", "content": "body",
	})

	rec := ts.do(t, http.MethodPost, "/api/auth/logout", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}

	// Old session is dead.
	if rec := ts.do(t, http.MethodGet, "/api/submissions", cookie, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("old session status = %d, want 401", rec.Code)
	}

	// Logging back in finds the ledger intact.
	cookie = ts.login(t, "budi@example.com")
	rec = ts.do(t, http.MethodGet, "/api/submissions", cookie, nil)
	var list []models.Submission
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 1 {
		t.Errorf("ledger after relogin = %d, want 1", len(list))
	}
}

func TestPlacementAndProgress(t *testing.T) {
	ts := setupServer(t)
	cookie := ts.login(t, "budi@example.com")

	rec := ts.do(t, http.MethodPost, "/api/academy/placement", cookie, map[string]int{"correct": 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("placement status = %d", rec.Code)
	}
	var placed map[string]models.AcademyLevel
	json.Unmarshal(rec.Body.Bytes(), &placed)
	if placed["level"] != models.LevelBeginner {
		t.Errorf("level = %s, want beginner", placed["level"])
	}

	rec = ts.do(t, http.MethodGet, "/api/academy/progress", cookie, nil)
	var progress models.AcademyProgress
	json.Unmarshal(rec.Body.Bytes(), &progress)
	if progress.Level != models.LevelBeginner {
		t.Errorf("progress level = %s", progress.Level)
	}
}

func TestCueCardAudioEndpoint(t *testing.T) {
	ts := setupServer(t)
	cookie := ts.login(t, "budi@example.com")

	// Seed the cache so the handler never reaches out to the TTS endpoint.
	prompt := "Describe a journey you remember well."
	sum := sha1.Sum([]byte(prompt))
	name := fmt.Sprintf("cue_task_speaking_cue_1_%s.mp3", hex.EncodeToString(sum[:8]))
	if err := os.WriteFile(filepath.Join(ts.audioDir, name), []byte("mp3"), 0o644); err != nil {
		t.Fatalf("failed to seed audio cache: %v", err)
	}

	path := "/api/editor/task-speaking-cue-1/cue-audio?prompt=" + url.QueryEscape(prompt)
	rec := ts.do(t, http.MethodGet, path, cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cue-audio status = %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if want := "/static/audio/" + name; body["audio"] != want {
		t.Errorf("audio = %q, want %q", body["audio"], want)
	}

	// Missing prompt is rejected before any fetch.
	rec = ts.do(t, http.MethodGet, "/api/editor/task-speaking-cue-1/cue-audio", cookie, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing prompt status = %d, want 400", rec.Code)
	}
}

func TestFocusEndpoints(t *testing.T) {
	ts := setupServer(t)
	cookie := ts.login(t, "budi@example.com")

	rec := ts.do(t, http.MethodGet, "/api/focus", cookie, nil)
	var settings focusResponse
	json.Unmarshal(rec.Body.Bytes(), &settings)
	if settings.Enabled || settings.Track != "rain" {
		t.Errorf("default focus = %+v", settings)
	}

	rec = ts.do(t, http.MethodPost, "/api/focus/toggle", cookie, nil)
	json.Unmarshal(rec.Body.Bytes(), &settings)
	if !settings.Enabled {
		t.Error("toggle should enable focus sound")
	}
}
