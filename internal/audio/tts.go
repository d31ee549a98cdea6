package audio

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const ttsRequestTimeout = 10 * time.Second

// TTSService generates spoken audio for cue cards and vocab entries. Files
// are cached on disk keyed by the text, so each prompt is fetched once.
type TTSService struct {
	cacheDir string
}

// NewTTSService creates a TTS service caching into cacheDir.
func NewTTSService(cacheDir string) (*TTSService, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio cache dir: %w", err)
	}
	return &TTSService{cacheDir: cacheDir}, nil
}

// CueCardAudio returns the filename of the spoken cue card prompt,
// generating it on first use.
func (s *TTSService) CueCardAudio(taskID, prompt string) (string, error) {
	return s.cachedAudio("cue_"+sanitize(taskID), prompt)
}

// PronunciationAudio returns the filename of a vocab word's pronunciation.
func (s *TTSService) PronunciationAudio(word string) (string, error) {
	return s.cachedAudio("word_"+sanitize(word), word)
}

func (s *TTSService) cachedAudio(prefix, text string) (string, error) {
	// Hash the text so edited prompts regenerate under a new name.
	sum := sha1.Sum([]byte(text))
	filename := fmt.Sprintf("%s_%s.mp3", prefix, hex.EncodeToString(sum[:8]))
	path := filepath.Join(s.cacheDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := s.fetchGoogleTTS(text, path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}
	return filename, nil
}

// fetchGoogleTTS pulls MP3 speech from the Google Translate TTS endpoint,
// which works without an API key.
func (s *TTSService) fetchGoogleTTS(text, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	fullURL := "https://translate.google.com/translate_tts?" + params.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// The endpoint rejects requests without a browser user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	client := &http.Client{Timeout: ttsRequestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

// Prune removes cached files older than maxAge.
func (s *TTSService) Prune(maxAge time.Duration) error {
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read audio cache: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".mp3" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(s.cacheDir, entry.Name()))
		}
	}
	return nil
}

func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
