package service

import (
	"sync"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

// FocusService keeps per-user focus sound settings. Settings are session
// scoped and in-memory only; a restart resets everyone to defaults.
type FocusService struct {
	mu       sync.Mutex
	settings map[string]models.FocusSettings
}

// NewFocusService creates a new focus service
func NewFocusService() *FocusService {
	return &FocusService{settings: make(map[string]models.FocusSettings)}
}

// Get returns the user's focus settings, defaulting to disabled.
func (s *FocusService) Get(userID string) models.FocusSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings, ok := s.settings[userID]; ok {
		return settings
	}
	return models.DefaultFocusSettings()
}

// Toggle flips the focus sound on or off and returns the new state.
func (s *FocusService) Toggle(userID string) models.FocusSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.get(userID)
	settings.Enabled = !settings.Enabled
	s.settings[userID] = settings
	return settings
}

// SetVolume clamps and stores the volume.
func (s *FocusService) SetVolume(userID string, volume float64) models.FocusSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.get(userID)
	settings.Volume = models.ClampVolume(volume)
	s.settings[userID] = settings
	return settings
}

// NextTrack advances to the next focus track, wrapping at the end.
func (s *FocusService) NextTrack(userID string) models.FocusSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.get(userID)
	settings.TrackIndex = models.WrapTrackIndex(settings.TrackIndex + 1)
	s.settings[userID] = settings
	return settings
}

func (s *FocusService) get(userID string) models.FocusSettings {
	if settings, ok := s.settings[userID]; ok {
		return settings
	}
	return models.DefaultFocusSettings()
}
