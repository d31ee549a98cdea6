package ai

import "github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"

func bandProperty(desc string) map[string]any {
	return map[string]any{
		"type":        "number",
		"minimum":     1.0,
		"maximum":     9.0,
		"description": desc,
	}
}

func stringList(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

// writingFeedbackSchema scores an essay on the four writing criteria.
var writingFeedbackSchema = &Schema{
	Name:        "writing-feedback",
	Description: "IELTS writing evaluation with per-criterion band scores",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall":      bandProperty("Overall band score"),
			"taskResponse": bandProperty("Task response / task achievement"),
			"coherence":    bandProperty("Coherence and cohesion"),
			"lexicalRange": bandProperty("Lexical resource"),
			"grammar":      bandProperty("Grammatical range and accuracy"),
			"strengths":    stringList("What the candidate did well"),
			"improvements": stringList("Concrete things to improve"),
		},
		"required":             []string{"overall", "taskResponse", "coherence", "lexicalRange", "grammar", "strengths", "improvements"},
		"additionalProperties": false,
	},
}

// speakingFeedbackSchema scores a transcribed speaking response.
var speakingFeedbackSchema = &Schema{
	Name:        "speaking-feedback",
	Description: "IELTS speaking evaluation with per-criterion band scores",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall":       bandProperty("Overall band score"),
			"fluency":       bandProperty("Fluency and coherence"),
			"pronunciation": bandProperty("Pronunciation"),
			"vocabulary":    bandProperty("Lexical resource"),
			"grammar":       bandProperty("Grammatical range and accuracy"),
			"transcript":    map[string]any{"type": "string", "description": "Cleaned transcript of the response"},
			"notes":         stringList("Examiner notes"),
		},
		"required":             []string{"overall", "fluency", "pronunciation", "vocabulary", "grammar", "transcript", "notes"},
		"additionalProperties": false,
	},
}

// readingFeedbackSchema reports marked answers for a reading passage.
var readingFeedbackSchema = &Schema{
	Name:        "reading-feedback",
	Description: "IELTS reading answer marking with explanations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall":      bandProperty("Estimated band equivalent"),
			"correct":      map[string]any{"type": "integer", "minimum": 0},
			"total":        map[string]any{"type": "integer", "minimum": 1},
			"explanations": stringList("Per-question explanations for wrong answers"),
		},
		"required":             []string{"overall", "correct", "total", "explanations"},
		"additionalProperties": false,
	},
}

// suggestionsSchema is the shape for live writing suggestions.
var suggestionsSchema = &Schema{
	Name:        "live-suggestions",
	Description: "Short inline suggestions for an essay in progress",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestions": stringList("Up to three short, actionable suggestions"),
		},
		"required":             []string{"suggestions"},
		"additionalProperties": false,
	},
}

// predictionSchema is the shape for the study-time projection.
var predictionSchema = &Schema{
	Name:        "band-prediction",
	Description: "Projected preparation time to reach the target band",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"currentBand":   bandProperty("Estimated current band"),
			"weeksToTarget": map[string]any{"type": "integer", "minimum": 0},
			"focusAreas":    stringList("Skills to prioritise"),
			"summary":       map[string]any{"type": "string"},
		},
		"required":             []string{"currentBand", "weeksToTarget", "focusAreas", "summary"},
		"additionalProperties": false,
	},
}

// feedbackSchema picks the evaluation schema for a task family.
func feedbackSchema(taskType models.TaskType) *Schema {
	switch taskType.Family() {
	case models.FamilyWriting:
		return writingFeedbackSchema
	case models.FamilySpeaking:
		return speakingFeedbackSchema
	default:
		return readingFeedbackSchema
	}
}
