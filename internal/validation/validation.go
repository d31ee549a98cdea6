package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error. It is surfaced inline next
// to the offending input and always blocks the action.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateTargetBand checks that a band target sits on the IELTS scale.
func ValidateTargetBand(band float64) error {
	if !models.ValidBand(band) {
		return ValidationError{Field: "targetBand", Message: "target band must be between 1.0 and 9.0 in half-point steps"}
	}
	return nil
}

// ValidateTheme checks a theme preference.
func ValidateTheme(theme models.Theme) error {
	if !models.ValidTheme(theme) {
		return ValidationError{Field: "theme", Message: "theme must be light or dark"}
	}
	return nil
}

// ValidateAccent checks an accent colour against the fixed palette.
func ValidateAccent(accent string) error {
	if !models.ValidAccent(accent) {
		return ValidationError{Field: "accentColor", Message: "unknown accent colour"}
	}
	return nil
}

// ValidateContent checks that submitted practice content is non-empty.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ValidationError{Field: "content", Message: "content is required"}
	}
	return nil
}

// ValidateTaskType checks a submission task type.
func ValidateTaskType(taskType models.TaskType) error {
	if !taskType.Valid() {
		return ValidationError{Field: "type", Message: "unknown task type"}
	}
	return nil
}
