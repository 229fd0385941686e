package service

import (
	"strings"
	"termophysics_backend/internal/model"
)

// GradeResult is the auto-grading outcome for one answer. Both fields
// are nil when the question cannot be auto-graded (no answer key, or a
// file_upload question awaiting manual review).
type GradeResult struct {
	IsCorrect *bool
	Score     *int
}

// Graded reports whether the answer was auto-graded at all.
func (g GradeResult) Graded() bool {
	return g.IsCorrect != nil
}

// GradeAnswer compares a student's raw answer text against a question's
// answer key. MCQ and short-answer questions with a stored correct
// answer are compared case-insensitively after trimming whitespace; an
// exact match earns full points, anything else earns zero. Questions
// without an answer key, and file_upload questions, are left ungraded.
// An empty answer is a valid (incorrect) answer, never an error.
func GradeAnswer(question *model.QuizQuestion, answerText string) GradeResult {
	if question.CorrectAnswer == nil || question.QuestionType == model.QuestionFileUpload {
		return GradeResult{}
	}

	switch question.QuestionType {
	case model.QuestionMCQ, model.QuestionShortAnswer:
		correct := normalizeAnswer(answerText) == normalizeAnswer(*question.CorrectAnswer)
		score := 0
		if correct {
			score = question.Points
		}
		return GradeResult{IsCorrect: &correct, Score: &score}
	default:
		return GradeResult{}
	}
}

// TotalScore sums the graded scores. It returns nil when no answer was
// auto-gradable: a pending grade is observably different from a zero.
func TotalScore(results []GradeResult) *int {
	total := 0
	graded := false
	for _, r := range results {
		if r.Score != nil {
			total += *r.Score
			graded = true
		}
	}
	if !graded {
		return nil
	}
	return &total
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
