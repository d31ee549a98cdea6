package models

// AcademyLevel is the placement tier for the beginner curriculum.
type AcademyLevel string

const (
	LevelUnassigned AcademyLevel = "unassigned"
	LevelFoundation AcademyLevel = "foundation"
	LevelBridge     AcademyLevel = "bridge"
	LevelBeginner   AcademyLevel = "beginner"
)

// AcademyProgress is the learner's position in the academy curriculum.
// VocabCount is derived from LearnedVocabIDs and must never be set from
// caller input.
type AcademyProgress struct {
	Level            AcademyLevel `json:"level"`
	VocabCount       int          `json:"vocabCount"`
	LearnedVocabIDs  []string     `json:"learnedVocabIds"`
	CompletedLessons []string     `json:"completedLessons"`
}

// VocabEntry is one word in a vocabulary deck.
type VocabEntry struct {
	ID      string       `json:"id"`
	Word    string       `json:"word"`
	Meaning string       `json:"meaning"`
	Example string       `json:"example"`
	Level   AcademyLevel `json:"level"`
}

// PlacementLevel classifies a placement quiz score (out of 5 questions)
// into an academy level. Thresholds: 4+ correct places into beginner,
// 2-3 into bridge, below that foundation.
func PlacementLevel(correct int) AcademyLevel {
	switch {
	case correct >= 4:
		return LevelBeginner
	case correct >= 2:
		return LevelBridge
	default:
		return LevelFoundation
	}
}
