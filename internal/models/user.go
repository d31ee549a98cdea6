package models

import "time"

// AuthMode distinguishes throwaway trial identities from cloud-backed accounts.
type AuthMode string

const (
	AuthModeTrial AuthMode = "trial"
	AuthModeCloud AuthMode = "cloud"
)

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// AccentColors is the fixed accent palette. The first entry is the default.
var AccentColors = []string{"teal", "coral", "indigo", "amber", "rose"}

// DefaultTargetBand is the band target assigned to fresh accounts.
const DefaultTargetBand = 7.0

// User represents a learner account
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	TargetBand   float64      `json:"targetBand"`
	Theme        Theme        `json:"theme"`
	AccentColor  string       `json:"accentColor"`
	AuthMode     AuthMode     `json:"authMode"`
	AcademyLevel AcademyLevel `json:"academyLevel"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Session represents an authenticated session
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ValidBand reports whether b is on the IELTS band scale:
// 1.0 through 9.0 in half-point increments.
func ValidBand(b float64) bool {
	if b < 1.0 || b > 9.0 {
		return false
	}
	doubled := b * 2
	return doubled == float64(int(doubled))
}

// ValidTheme reports whether t is a known theme.
func ValidTheme(t Theme) bool {
	return t == ThemeLight || t == ThemeDark
}

// ValidAccent reports whether c is in the accent palette.
func ValidAccent(c string) bool {
	for _, accent := range AccentColors {
		if accent == c {
			return true
		}
	}
	return false
}
