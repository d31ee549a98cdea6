package audio

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func cacheName(prefix, text string) string {
	sum := sha1.Sum([]byte(text))
	return fmt.Sprintf("%s_%s.mp3", prefix, hex.EncodeToString(sum[:8]))
}

func TestCueCardAudioServedFromCache(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewTTSService(dir)
	if err != nil {
		t.Fatalf("NewTTSService() error = %v", err)
	}

	prompt := "Describe a journey you remember well."
	name := cacheName("cue_task_speaking_cue_1", prompt)
	if err := os.WriteFile(filepath.Join(dir, name), []byte("mp3"), 0o644); err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}

	// Cached entry means no network fetch.
	got, err := svc.CueCardAudio("task-speaking-cue-1", prompt)
	if err != nil {
		t.Fatalf("CueCardAudio() error = %v", err)
	}
	if got != name {
		t.Errorf("CueCardAudio() = %q, want %q", got, name)
	}
}

func TestPronunciationAudioServedFromCache(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewTTSService(dir)
	if err != nil {
		t.Fatalf("NewTTSService() error = %v", err)
	}

	name := cacheName("word_resilient", "resilient")
	if err := os.WriteFile(filepath.Join(dir, name), []byte("mp3"), 0o644); err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}

	got, err := svc.PronunciationAudio("resilient")
	if err != nil {
		t.Fatalf("PronunciationAudio() error = %v", err)
	}
	if got != name {
		t.Errorf("PronunciationAudio() = %q, want %q", got, name)
	}
}

func TestPruneRemovesOnlyOldAudio(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewTTSService(dir)
	if err != nil {
		t.Fatalf("NewTTSService() error = %v", err)
	}

	old := filepath.Join(dir, "cue_old_0011223344556677.mp3")
	fresh := filepath.Join(dir, "word_fresh_8899aabbccddeeff.mp3")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, fresh, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatalf("failed to age file: %v", err)
	}
	if err := os.Chtimes(other, stale, stale); err != nil {
		t.Fatalf("failed to age file: %v", err)
	}

	if err := svc.Prune(24 * time.Hour); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("stale audio file survived prune")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh audio file removed: %v", err)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("non-audio file removed: %v", err)
	}
}
