package ai

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longDraft = "The chart illustrates the proportion of households with internet access in three countries between 2000 and 2020."

func suggestionJSON(items ...string) json.RawMessage {
	out, _ := json.Marshal(map[string][]string{"suggestions": items})
	return out
}

func waitForResult(t *testing.T, s *Suggester, userID, taskID string) *SuggestResult {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if result, ok := s.Latest(userID, taskID); ok {
			return result
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for suggestions")
	return nil
}

func TestSuggesterFiresAfterPause(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: suggestionJSON("vary your sentence openers")})
	s := NewSuggester(mock, 50, 30*time.Millisecond)
	defer s.Stop()

	s.Update("user-1", "task-essay-1", longDraft)

	result := waitForResult(t, s, "user-1", "task-essay-1")
	assert.Equal(t, []string{"vary your sentence openers"}, result.Suggestions)
	assert.Equal(t, 1, mock.CallCount())
}

func TestSuggesterIgnoresShortDrafts(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: suggestionJSON("unused")})
	s := NewSuggester(mock, 50, 20*time.Millisecond)
	defer s.Stop()

	s.Update("user-1", "task-essay-1", "Too short to matter.")

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, mock.CallCount(), "short drafts must not trigger a model call")
	_, ok := s.Latest("user-1", "task-essay-1")
	assert.False(t, ok)
}

func TestSuggesterDebouncesRapidTyping(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: suggestionJSON("good progression of ideas")})
	s := NewSuggester(mock, 50, 50*time.Millisecond)
	defer s.Stop()

	// Keystrokes arriving faster than the debounce window.
	for i := 0; i < 5; i++ {
		s.Update("user-1", "task-essay-1", longDraft+strings.Repeat(" more", i))
		time.Sleep(10 * time.Millisecond)
	}

	waitForResult(t, s, "user-1", "task-essay-1")
	assert.Equal(t, 1, mock.CallCount(), "rapid typing should collapse into one call")
	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "more more more more",
		"the call should carry the final content")
}

func TestSuggesterShrinkingBelowMinimumCancelsPending(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: suggestionJSON("unused")})
	s := NewSuggester(mock, 50, 30*time.Millisecond)
	defer s.Stop()

	s.Update("user-1", "task-essay-1", longDraft)
	// Candidate deletes most of the draft before the timer fires.
	s.Update("user-1", "task-essay-1", "Short again.")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, mock.CallCount())
}

func TestSuggesterCloseCancelsTimer(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: suggestionJSON("unused")})
	s := NewSuggester(mock, 50, 30*time.Millisecond)
	defer s.Stop()

	s.Update("user-1", "task-essay-1", longDraft)
	s.Close("user-1", "task-essay-1")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, mock.CallCount())
}

func TestSuggesterSessionsAreIndependent(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: suggestionJSON("first session")},
		MockResponse{Content: suggestionJSON("second session")},
	)
	s := NewSuggester(mock, 50, 20*time.Millisecond)
	defer s.Stop()

	s.Update("user-1", "task-essay-1", longDraft)
	s.Update("user-2", "task-essay-1", longDraft)

	r1 := waitForResult(t, s, "user-1", "task-essay-1")
	r2 := waitForResult(t, s, "user-2", "task-essay-1")
	assert.NotEqual(t, r1.Suggestions, r2.Suggestions)
	assert.Equal(t, 2, mock.CallCount())
}
