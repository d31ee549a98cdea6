package ai

import (
	"fmt"
	"strings"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

const examinerSystem = `You are a certified IELTS examiner grading candidates who are
Indonesian scholarship applicants. Grade strictly against the official band
descriptors. Scores use the 1.0-9.0 scale in half-point steps. Be specific
and encouraging in written remarks; keep each remark under 25 words.`

var taskInstructions = map[models.TaskType]string{
	models.TaskWritingOne:  "Evaluate this IELTS Academic Writing Task 1 report (describing visual data). Expected length: at least 150 words.",
	models.TaskWritingTwo:  "Evaluate this IELTS Writing Task 2 essay. Expected length: at least 250 words.",
	models.TaskSpeakingOne: "Evaluate this transcribed IELTS Speaking Part 1 response (everyday questions).",
	models.TaskSpeakingTwo: "Evaluate this transcribed IELTS Speaking Part 2 response (discussion questions).",
	models.TaskSpeakingCue: "Evaluate this transcribed IELTS Speaking cue card monologue (2 minutes on the given topic).",
	models.TaskReading:     "Mark these IELTS reading answers. The submission lists the question number, the candidate's answer and the correct answer.",
}

func evaluationPrompt(taskType models.TaskType, taskID, content string) string {
	var b strings.Builder
	b.WriteString(taskInstructions[taskType])
	fmt.Fprintf(&b, "\n\nTask: %s\n\nCandidate submission:\n%s", taskID, content)
	return b.String()
}

const suggestSystem = `You are an IELTS writing coach. The candidate is mid-draft.
Offer at most three short suggestions (under 15 words each) on vocabulary,
cohesion or structure for the text so far. Never rewrite the essay.`

func suggestionPrompt(taskID, partial string) string {
	return fmt.Sprintf("Task: %s\n\nDraft so far:\n%s", taskID, partial)
}

const predictSystem = `You are an IELTS study planner. Given a candidate's recent
band scores and their target, estimate their current level and how many
weeks of focused preparation they need to reach the target.`

func predictionPrompt(targetBand float64, history []models.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target band: %.1f\n\nRecent results, newest first:\n", targetBand)
	for _, sub := range history {
		fmt.Fprintf(&b, "- %s: band %.1f (%s)\n", sub.Type, sub.Feedback.OverallBand(), sub.CreatedAt.Format("2006-01-02"))
	}
	return b.String()
}
