package ai

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
	"unicode/utf8"
)

// SuggestResult is the latest set of live suggestions for an editing session.
type SuggestResult struct {
	Suggestions []string  `json:"suggestions"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Suggester produces live writing suggestions while a candidate drafts.
// Every content update resets a debounce timer; a model call only fires
// once typing has paused for the full debounce window, and only when the
// draft has reached the minimum length. Results from superseded content
// are discarded.
type Suggester struct {
	provider  Provider
	minLength int
	debounce  time.Duration

	mu       sync.Mutex
	sessions map[string]*suggestSession
}

type suggestSession struct {
	taskID  string
	timer   *time.Timer
	seq     uint64
	content string
	result  *SuggestResult
}

// NewSuggester creates a suggester. minLength is in runes.
func NewSuggester(provider Provider, minLength int, debounce time.Duration) *Suggester {
	return &Suggester{
		provider:  provider,
		minLength: minLength,
		debounce:  debounce,
		sessions:  make(map[string]*suggestSession),
	}
}

func sessionKey(userID, taskID string) string {
	return userID + ":" + taskID
}

// Update records a keystroke. It resets the debounce timer; when the draft
// is still below the minimum length the timer is cancelled instead, so a
// short draft never triggers a model call.
func (s *Suggester) Update(userID, taskID, content string) {
	key := sessionKey(userID, taskID)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		sess = &suggestSession{taskID: taskID}
		s.sessions[key] = sess
	}

	sess.seq++
	sess.content = content
	if sess.timer != nil {
		sess.timer.Stop()
		sess.timer = nil
	}

	if utf8.RuneCountInString(content) < s.minLength {
		return
	}

	seq := sess.seq
	sess.timer = time.AfterFunc(s.debounce, func() {
		s.fire(key, seq)
	})
}

// fire runs the model call for a settled draft. The sequence check drops
// the call if another keystroke arrived while the timer was pending, and
// drops the result if one arrived during the call.
func (s *Suggester) fire(key string, seq uint64) {
	s.mu.Lock()
	sess, ok := s.sessions[key]
	if !ok || sess.seq != seq {
		s.mu.Unlock()
		return
	}
	content := sess.content
	taskID := sess.taskID
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := s.provider.Generate(ctx, Request{
		System: suggestSystem,
		Messages: []Message{
			{Role: RoleUser, Content: suggestionPrompt(taskID, content)},
		},
		Schema:    suggestionsSchema,
		MaxTokens: suggestMaxTokens,
	})
	if err != nil {
		// Suggestions are advisory; failures are logged and dropped.
		log.Printf("live suggestion call failed: %v", err)
		return
	}

	var parsed struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(resp.Content, &parsed); err != nil {
		log.Printf("live suggestion decode failed: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok && sess.seq == seq {
		sess.result = &SuggestResult{
			Suggestions: parsed.Suggestions,
			GeneratedAt: time.Now(),
		}
	}
}

// Latest returns the most recent suggestions for a session, if any.
func (s *Suggester) Latest(userID, taskID string) (*SuggestResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionKey(userID, taskID)]
	if !ok || sess.result == nil {
		return nil, false
	}
	return sess.result, true
}

// Close ends an editing session, cancelling any pending timer.
func (s *Suggester) Close(userID, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(userID, taskID)
	if sess, ok := s.sessions[key]; ok {
		if sess.timer != nil {
			sess.timer.Stop()
		}
		delete(s.sessions, key)
	}
}

// Stop cancels all pending timers. Called on shutdown.
func (s *Suggester) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, sess := range s.sessions {
		if sess.timer != nil {
			sess.timer.Stop()
		}
		delete(s.sessions, key)
	}
}
