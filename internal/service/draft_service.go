package service

import (
	"log"
	"sync"
	"time"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/repository"
)

// DraftService persists in-progress writing so a closed tab never loses an
// essay. Each open editor gets its own autosave loop with an explicit stop
// channel; saves only happen when the buffer actually changed.
type DraftService struct {
	draftRepo *repository.DraftRepository
	interval  time.Duration

	mu       sync.Mutex
	sessions map[string]*editSession
}

type editSession struct {
	userID    string
	taskID    string
	content   string
	dirty     bool
	lastSaved time.Time
	stop      chan struct{}
	done      chan struct{}
}

// NewDraftService creates a draft service. interval is the autosave period.
func NewDraftService(draftRepo *repository.DraftRepository, interval time.Duration) *DraftService {
	return &DraftService{
		draftRepo: draftRepo,
		interval:  interval,
		sessions:  make(map[string]*editSession),
	}
}

// Open starts an editing session and returns any existing draft so the
// caller can offer to resume it.
func (s *DraftService) Open(userID, taskID string) (*models.Draft, error) {
	draft, err := s.draftRepo.Get(userID, taskID)
	if err != nil {
		return nil, err
	}

	key := userID + ":" + taskID

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[key]; ok {
		// Editor reopened without a close; keep the running loop.
		return draft, nil
	}

	sess := &editSession{
		userID: userID,
		taskID: taskID,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if draft != nil {
		sess.content = draft.Content
		sess.lastSaved = draft.SavedAt
	}
	s.sessions[key] = sess
	go s.autosaveLoop(sess)

	return draft, nil
}

// SetContent updates the editor buffer for a session.
func (s *DraftService) SetContent(userID, taskID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID+":"+taskID]; ok {
		if sess.content != content {
			sess.content = content
			sess.dirty = true
		}
	}
}

// LastSaved reports when the session's draft last hit the store.
func (s *DraftService) LastSaved(userID, taskID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID+":"+taskID]
	if !ok {
		return time.Time{}, false
	}
	return sess.lastSaved, true
}

// Close ends an editing session. Unsaved changes are flushed one last time
// before the loop stops.
func (s *DraftService) Close(userID, taskID string) {
	key := userID + ":" + taskID

	s.mu.Lock()
	sess, ok := s.sessions[key]
	if ok {
		delete(s.sessions, key)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	close(sess.stop)
	<-sess.done
}

// Stop shuts down every running autosave loop. Called on shutdown.
func (s *DraftService) Stop() {
	s.mu.Lock()
	sessions := make([]*editSession, 0, len(s.sessions))
	for key, sess := range s.sessions {
		sessions = append(sessions, sess)
		delete(s.sessions, key)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		close(sess.stop)
		<-sess.done
	}
}

// Get returns the stored draft for a task, or nil.
func (s *DraftService) Get(userID, taskID string) (*models.Draft, error) {
	return s.draftRepo.Get(userID, taskID)
}

// Discard removes the stored draft. Submitting the task calls this so the
// next visit starts clean.
func (s *DraftService) Discard(userID, taskID string) error {
	s.mu.Lock()
	if sess, ok := s.sessions[userID+":"+taskID]; ok {
		sess.content = ""
		sess.dirty = false
	}
	s.mu.Unlock()

	return s.draftRepo.Delete(userID, taskID)
}

// CleanupStale deletes drafts past the retention window.
func (s *DraftService) CleanupStale(retention time.Duration) (int64, error) {
	return s.draftRepo.DeleteStale(time.Now().Add(-retention))
}

func (s *DraftService) autosaveLoop(sess *editSession) {
	defer close(sess.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.flush(sess)
		case <-sess.stop:
			s.flush(sess)
			return
		}
	}
}

// flush persists the buffer when it changed since the last save. An empty
// dirty buffer means the candidate cleared the editor, which deletes the
// stored draft rather than saving an empty one.
func (s *DraftService) flush(sess *editSession) {
	s.mu.Lock()
	if !sess.dirty {
		s.mu.Unlock()
		return
	}
	content := sess.content
	sess.dirty = false
	s.mu.Unlock()

	if content == "" {
		if err := s.draftRepo.Delete(sess.userID, sess.taskID); err != nil {
			log.Printf("draft delete failed for %s/%s: %v", sess.userID, sess.taskID, err)
		}
		return
	}

	now := time.Now().UTC()
	draft := &models.Draft{
		UserID:  sess.userID,
		TaskID:  sess.taskID,
		Content: content,
		SavedAt: now,
	}
	if err := s.draftRepo.Upsert(draft); err != nil {
		// Autosave is best-effort; the next tick retries.
		log.Printf("draft autosave failed for %s/%s: %v", sess.userID, sess.taskID, err)
		s.mu.Lock()
		sess.dirty = true
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	sess.lastSaved = now
	s.mu.Unlock()
}
