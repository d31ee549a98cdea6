package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/database"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Initialize(":memory:")
	if err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, repo *UserRepository) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        "learner@example.com",
		TargetBand:   models.DefaultTargetBand,
		Theme:        models.ThemeLight,
		AccentColor:  models.AccentColors[0],
		AuthMode:     models.AuthModeTrial,
		AcademyLevel: models.LevelUnassigned,
	}
	if err := repo.CreateUser(user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserRepositoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, repo)

	got, err := repo.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetUserByID() returned nil for existing user")
	}
	if got.Email != user.Email {
		t.Errorf("email = %q, want %q", got.Email, user.Email)
	}
	if got.TargetBand != models.DefaultTargetBand {
		t.Errorf("target band = %v, want %v", got.TargetBand, models.DefaultTargetBand)
	}

	got.TargetBand = 8.0
	got.Theme = models.ThemeDark
	if err := repo.SaveUser(got); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}
	got, err = repo.GetUserByEmail(user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.TargetBand != 8.0 || got.Theme != models.ThemeDark {
		t.Errorf("update not persisted: band=%v theme=%v", got.TargetBand, got.Theme)
	}

	missing, err := repo.GetUserByID("nope")
	if err != nil {
		t.Fatalf("GetUserByID(missing) error = %v", err)
	}
	if missing != nil {
		t.Error("GetUserByID(missing) should return nil")
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, repo)

	sessionID := uuid.NewString()
	_, err := repo.CreateSession(sessionID, user.ID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	session, err := repo.GetSession(sessionID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if session == nil || session.UserID != user.ID {
		t.Fatalf("GetSession() = %+v, want session for user %s", session, user.ID)
	}
	if session.IsExpired() {
		t.Error("fresh session should not be expired")
	}

	if err := repo.DeleteSession(sessionID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	session, err = repo.GetSession(sessionID)
	if err != nil {
		t.Fatalf("GetSession() after delete error = %v", err)
	}
	if session != nil {
		t.Error("deleted session should not be found")
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, repo)

	expiredID := uuid.NewString()
	liveID := uuid.NewString()
	if _, err := repo.CreateSession(expiredID, user.ID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := repo.CreateSession(liveID, user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if err := repo.DeleteExpiredSessions(); err != nil {
		t.Fatalf("DeleteExpiredSessions() error = %v", err)
	}

	if s, _ := repo.GetSession(expiredID); s != nil {
		t.Error("expired session should have been removed")
	}
	if s, _ := repo.GetSession(liveID); s == nil {
		t.Error("live session should survive cleanup")
	}
}

func TestLearnedVocabIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, repo)

	inserted, err := repo.AddLearnedVocab(user.ID, "vocab-1")
	if err != nil {
		t.Fatalf("AddLearnedVocab() error = %v", err)
	}
	if !inserted {
		t.Error("first AddLearnedVocab should insert")
	}

	inserted, err = repo.AddLearnedVocab(user.ID, "vocab-1")
	if err != nil {
		t.Fatalf("repeated AddLearnedVocab() error = %v", err)
	}
	if inserted {
		t.Error("repeated AddLearnedVocab should be a no-op")
	}

	count, err := repo.CountLearnedVocab(user.ID)
	if err != nil {
		t.Fatalf("CountLearnedVocab() error = %v", err)
	}
	if count != 1 {
		t.Errorf("learned vocab count = %d, want 1", count)
	}
}

func TestSubmissionLedgerNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	subs := NewSubmissionRepository(db)
	user := createTestUser(t, users)

	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	words := 260
	for i := 0; i < 3; i++ {
		sub := &models.Submission{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Type:      models.TaskWritingTwo,
			TaskID:    "task-essay-1",
			Content:   "essay body",
			WordCount: &words,
			Feedback: models.WritingFeedback{
				Overall:      6.5,
				TaskResponse: 6.0,
				Coherence:    7.0,
				LexicalRange: 6.5,
				Grammar:      6.5,
				Strengths:    []string{"clear position"},
				Improvements: []string{"vary linking phrases"},
			},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := subs.Insert(sub); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	list, err := subs.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListByUser() returned %d submissions, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Errorf("submissions out of order at %d: %v after %v", i, list[i].CreatedAt, list[i-1].CreatedAt)
		}
	}

	wf, ok := list[0].Feedback.(models.WritingFeedback)
	if !ok {
		t.Fatalf("feedback decoded as %T, want WritingFeedback", list[0].Feedback)
	}
	if wf.Overall != 6.5 {
		t.Errorf("overall band = %v, want 6.5", wf.Overall)
	}
	if list[0].WordCount == nil || *list[0].WordCount != words {
		t.Errorf("word count not round-tripped: %v", list[0].WordCount)
	}
}

func TestLedgerOrderStableForEqualTimestamps(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	subs := NewSubmissionRepository(db)
	user := createTestUser(t, users)

	// Identical timestamps must still list in reverse insertion order.
	createdAt := time.Now().UTC().Truncate(time.Second)
	ids := make([]string, 3)
	for i := range ids {
		ids[i] = uuid.NewString()
		sub := &models.Submission{
			ID:      ids[i],
			UserID:  user.ID,
			Type:    models.TaskReading,
			TaskID:  "task-reading-1",
			Content: "answers",
			Feedback: models.ReadingFeedback{
				Overall: 7.0,
				Correct: 35,
				Total:   40,
			},
			CreatedAt: createdAt,
		}
		if err := subs.Insert(sub); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	list, err := subs.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListByUser() returned %d submissions, want 3", len(list))
	}
	for i := range list {
		if want := ids[len(ids)-1-i]; list[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, list[i].ID, want)
		}
	}
}

func TestDraftUpsertAndStaleCleanup(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	drafts := NewDraftRepository(db)
	user := createTestUser(t, users)

	draft := &models.Draft{
		UserID:  user.ID,
		TaskID:  "task-essay-1",
		Content: "first version",
		SavedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := drafts.Upsert(draft); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	draft.Content = "second version"
	draft.SavedAt = draft.SavedAt.Add(30 * time.Second)
	if err := drafts.Upsert(draft); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	got, err := drafts.Get(user.ID, "task-essay-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.Content != "second version" {
		t.Fatalf("Get() = %+v, want second version", got)
	}

	stale := &models.Draft{
		UserID:  user.ID,
		TaskID:  "task-essay-2",
		Content: "abandoned",
		SavedAt: time.Now().Add(-40 * 24 * time.Hour),
	}
	if err := drafts.Upsert(stale); err != nil {
		t.Fatalf("Upsert(stale) error = %v", err)
	}

	removed, err := drafts.DeleteStale(time.Now().Add(-30 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteStale() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("DeleteStale() removed %d drafts, want 1", removed)
	}
	if got, _ := drafts.Get(user.ID, "task-essay-1"); got == nil {
		t.Error("fresh draft should survive stale cleanup")
	}
}

func TestVocabDeckImportIdempotent(t *testing.T) {
	db := setupTestDB(t)
	vocab := NewVocabRepository(db)

	entry := &models.VocabEntry{
		ID:      "vocab-1",
		Word:    "scholarship",
		Meaning: "beasiswa",
		Example: "She won a scholarship to study abroad.",
		Level:   models.LevelFoundation,
	}
	if err := vocab.UpsertEntry(entry); err != nil {
		t.Fatalf("UpsertEntry() error = %v", err)
	}

	entry.Meaning = "beasiswa penuh"
	if err := vocab.UpsertEntry(entry); err != nil {
		t.Fatalf("repeated UpsertEntry() error = %v", err)
	}

	deck, err := vocab.ListByLevel(models.LevelFoundation)
	if err != nil {
		t.Fatalf("ListByLevel() error = %v", err)
	}
	if len(deck) != 1 {
		t.Fatalf("deck size = %d, want 1", len(deck))
	}
	if deck[0].Meaning != "beasiswa penuh" {
		t.Errorf("meaning = %q, want updated value", deck[0].Meaning)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	subs := NewSubmissionRepository(db)
	drafts := NewDraftRepository(db)
	user := createTestUser(t, users)

	sub := &models.Submission{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		Type:    models.TaskReading,
		TaskID:  "task-reading-1",
		Content: "answers",
		Feedback: models.ReadingFeedback{
			Overall: 7.0, Correct: 10, Total: 13,
			Explanations: []string{"q3 misread the heading"},
		},
		CreatedAt: time.Now(),
	}
	if err := subs.Insert(sub); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := drafts.Upsert(&models.Draft{UserID: user.ID, TaskID: "t", Content: "c", SavedAt: time.Now()}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if err := users.DeleteUser(user.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	list, err := subs.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("submissions survived user deletion: %d", len(list))
	}
	if d, _ := drafts.Get(user.ID, "t"); d != nil {
		t.Error("draft survived user deletion")
	}
}
