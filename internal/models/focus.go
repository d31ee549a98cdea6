package models

// FocusTracks is the fixed ambient audio track list.
var FocusTracks = []string{"rain", "cafe", "white-noise", "gamelan"}

// FocusSettings is the ambient audio preference. It lives in memory for
// the lifetime of the process and is never persisted.
type FocusSettings struct {
	Enabled    bool    `json:"isEnabled"`
	Volume     float64 `json:"volume"`
	TrackIndex int     `json:"trackIndex"`
}

// DefaultFocusSettings is the state for a user who never touched the
// focus player: off, half volume, first track.
func DefaultFocusSettings() FocusSettings {
	return FocusSettings{Enabled: false, Volume: 0.5, TrackIndex: 0}
}

// ClampVolume returns v forced into [0, 1].
func ClampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WrapTrackIndex wraps i modulo the track list length, handling negatives.
func WrapTrackIndex(i int) int {
	n := len(FocusTracks)
	return ((i % n) + n) % n
}
