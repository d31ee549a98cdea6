package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TaskType identifies which practice task a submission belongs to.
type TaskType string

const (
	TaskWritingOne  TaskType = "writing_task1"
	TaskWritingTwo  TaskType = "writing_task2"
	TaskSpeakingOne TaskType = "speaking_part1"
	TaskSpeakingTwo TaskType = "speaking_part2"
	TaskSpeakingCue TaskType = "speaking_cue_card"
	TaskReading     TaskType = "reading"
)

// TaskFamily groups task types for dashboard aggregation.
type TaskFamily string

const (
	FamilyWriting  TaskFamily = "writing"
	FamilySpeaking TaskFamily = "speaking"
	FamilyReading  TaskFamily = "reading"
)

// Family returns the aggregation family for a task type.
func (t TaskType) Family() TaskFamily {
	switch t {
	case TaskWritingOne, TaskWritingTwo:
		return FamilyWriting
	case TaskSpeakingOne, TaskSpeakingTwo, TaskSpeakingCue:
		return FamilySpeaking
	default:
		return FamilyReading
	}
}

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TaskWritingOne, TaskWritingTwo, TaskSpeakingOne, TaskSpeakingTwo, TaskSpeakingCue, TaskReading:
		return true
	}
	return false
}

// Feedback is the AI evaluation attached to a submission. It is a closed
// union: exactly one of WritingFeedback, SpeakingFeedback or ReadingFeedback,
// matching the submission's task family.
type Feedback interface {
	// OverallBand is the primary score; present on every variant.
	OverallBand() float64
	feedbackFamily() TaskFamily
}

// WritingFeedback scores an essay on the four IELTS writing criteria.
type WritingFeedback struct {
	Overall      float64  `json:"overall"`
	TaskResponse float64  `json:"taskResponse"`
	Coherence    float64  `json:"coherence"`
	LexicalRange float64  `json:"lexicalRange"`
	Grammar      float64  `json:"grammar"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

func (f WritingFeedback) OverallBand() float64       { return f.Overall }
func (f WritingFeedback) feedbackFamily() TaskFamily { return FamilyWriting }

// SpeakingFeedback carries the transcript plus per-criterion scores.
type SpeakingFeedback struct {
	Overall       float64  `json:"overall"`
	Fluency       float64  `json:"fluency"`
	Pronunciation float64  `json:"pronunciation"`
	Vocabulary    float64  `json:"vocabulary"`
	Grammar       float64  `json:"grammar"`
	Transcript    string   `json:"transcript"`
	Notes         []string `json:"notes"`
}

func (f SpeakingFeedback) OverallBand() float64       { return f.Overall }
func (f SpeakingFeedback) feedbackFamily() TaskFamily { return FamilySpeaking }

// ReadingFeedback reports answer-by-answer results for a reading passage.
type ReadingFeedback struct {
	Overall      float64  `json:"overall"`
	Correct      int      `json:"correct"`
	Total        int      `json:"total"`
	Explanations []string `json:"explanations"`
}

func (f ReadingFeedback) OverallBand() float64       { return f.Overall }
func (f ReadingFeedback) feedbackFamily() TaskFamily { return FamilyReading }

// Submission is one completed practice attempt. Submissions are immutable
// once created.
type Submission struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Type      TaskType  `json:"type"`
	TaskID    string    `json:"taskId"`
	Content   string    `json:"content"`
	WordCount *int      `json:"wordCount,omitempty"`
	Feedback  Feedback  `json:"feedback"`
	CreatedAt time.Time `json:"createdAt"`
}

// DecodeFeedback parses stored feedback JSON into the variant matching the
// task type. The feedback shape must match the type; a mismatch is an error.
func DecodeFeedback(taskType TaskType, raw []byte) (Feedback, error) {
	switch taskType.Family() {
	case FamilyWriting:
		var f WritingFeedback
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("failed to decode writing feedback: %w", err)
		}
		return f, nil
	case FamilySpeaking:
		var f SpeakingFeedback
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("failed to decode speaking feedback: %w", err)
		}
		return f, nil
	case FamilyReading:
		var f ReadingFeedback
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("failed to decode reading feedback: %w", err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("unknown task type %q", taskType)
}

// EncodeFeedback serialises feedback for storage.
func EncodeFeedback(f Feedback) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("feedback is required")
	}
	return json.Marshal(f)
}

// UnmarshalJSON decodes a submission, resolving the feedback union from the
// type field.
func (s *Submission) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID        string          `json:"id"`
		Type      TaskType        `json:"type"`
		TaskID    string          `json:"taskId"`
		Content   string          `json:"content"`
		WordCount *int            `json:"wordCount"`
		Feedback  json.RawMessage `json:"feedback"`
		CreatedAt time.Time       `json:"createdAt"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	s.ID = a.ID
	s.Type = a.Type
	s.TaskID = a.TaskID
	s.Content = a.Content
	s.WordCount = a.WordCount
	s.CreatedAt = a.CreatedAt
	if len(a.Feedback) > 0 {
		feedback, err := DecodeFeedback(a.Type, a.Feedback)
		if err != nil {
			return err
		}
		s.Feedback = feedback
	}
	return nil
}
