package ai

import (
	"context"
	"strings"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

const (
	evaluateMaxTokens = 2048
	predictMaxTokens  = 1024
	suggestMaxTokens  = 512
)

// Evaluator turns practice submissions into graded feedback.
type Evaluator struct {
	provider Provider
}

// NewEvaluator creates an evaluator on top of a provider.
func NewEvaluator(provider Provider) *Evaluator {
	return &Evaluator{provider: provider}
}

// Evaluate grades a submission and returns the feedback variant for its
// task family. The provider validates the response against the family
// schema; a shape mismatch surfaces as MalformedResponseError and nothing
// is persisted by callers.
func (e *Evaluator) Evaluate(ctx context.Context, taskType models.TaskType, taskID, content string) (models.Feedback, error) {
	resp, err := e.provider.Generate(ctx, Request{
		System: examinerSystem,
		Messages: []Message{
			{Role: RoleUser, Content: evaluationPrompt(taskType, taskID, content)},
		},
		Schema:    feedbackSchema(taskType),
		MaxTokens: evaluateMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	feedback, err := models.DecodeFeedback(taskType, resp.Content)
	if err != nil {
		return nil, &MalformedResponseError{Content: resp.Content, Err: err}
	}
	return feedback, nil
}

// WordCount counts whitespace-separated words, matching what the editor
// shows the candidate.
func WordCount(content string) int {
	return len(strings.Fields(content))
}
