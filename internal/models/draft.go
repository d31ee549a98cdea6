package models

import "time"

// Draft is the autosaved scratch buffer for an in-progress task.
// At most one draft exists per (user, task) pair.
type Draft struct {
	UserID  string    `json:"-"`
	TaskID  string    `json:"taskId"`
	Content string    `json:"content"`
	SavedAt time.Time `json:"savedAt"`
}

// OfferResume reports whether the draft should be surfaced as a
// "resume draft?" prompt against the editor's current text: only when the
// stored content is non-empty and differs from what is already loaded.
func (d *Draft) OfferResume(current string) bool {
	return d.Content != "" && d.Content != current
}
