package ai

import (
	"context"
	"encoding/json"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

// Prediction is the projected path from current level to the target band.
type Prediction struct {
	CurrentBand   float64  `json:"currentBand"`
	WeeksToTarget int      `json:"weeksToTarget"`
	FocusAreas    []string `json:"focusAreas"`
	Summary       string   `json:"summary"`
}

// maxPredictionHistory caps how much of the ledger goes into the prompt.
const maxPredictionHistory = 20

// Predict projects how long the candidate needs to reach their target band
// based on recent scored submissions.
func (e *Evaluator) Predict(ctx context.Context, targetBand float64, history []models.Submission) (*Prediction, error) {
	if len(history) > maxPredictionHistory {
		history = history[:maxPredictionHistory]
	}

	resp, err := e.provider.Generate(ctx, Request{
		System: predictSystem,
		Messages: []Message{
			{Role: RoleUser, Content: predictionPrompt(targetBand, history)},
		},
		Schema:    predictionSchema,
		MaxTokens: predictMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var prediction Prediction
	if err := json.Unmarshal(resp.Content, &prediction); err != nil {
		return nil, &MalformedResponseError{Content: resp.Content, Err: err}
	}
	return &prediction, nil
}
