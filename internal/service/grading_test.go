package service

import (
	"termophysics_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func mcq(correct string, points int) *model.QuizQuestion {
	return &model.QuizQuestion{
		QuestionType:  model.QuestionMCQ,
		CorrectAnswer: strPtr(correct),
		Points:        points,
	}
}

func TestGradeAnswerExactMatch(t *testing.T) {
	res := GradeAnswer(mcq("b", 10), "b")
	require.True(t, res.Graded())
	assert.True(t, *res.IsCorrect)
	assert.Equal(t, 10, *res.Score)
}

func TestGradeAnswerTrimsAndLowercases(t *testing.T) {
	q := &model.QuizQuestion{
		QuestionType:  model.QuestionShortAnswer,
		CorrectAnswer: strPtr("Newton"),
		Points:        5,
	}

	for _, answer := range []string{"newton", "NEWTON", "  Newton  ", "\tnewton\n"} {
		res := GradeAnswer(q, answer)
		require.True(t, res.Graded(), "answer %q", answer)
		assert.True(t, *res.IsCorrect, "answer %q", answer)
		assert.Equal(t, 5, *res.Score, "answer %q", answer)
	}
}

func TestGradeAnswerWrongScoresZero(t *testing.T) {
	res := GradeAnswer(mcq("b", 10), "c")
	require.True(t, res.Graded())
	assert.False(t, *res.IsCorrect)
	assert.Equal(t, 0, *res.Score)
}

func TestGradeAnswerEmptyIsWrongNotUngraded(t *testing.T) {
	res := GradeAnswer(mcq("b", 10), "")
	require.True(t, res.Graded())
	assert.False(t, *res.IsCorrect)
	assert.Equal(t, 0, *res.Score)
}

func TestGradeAnswerNoKeyLeftUngraded(t *testing.T) {
	q := &model.QuizQuestion{
		QuestionType: model.QuestionShortAnswer,
		Points:       10,
	}
	res := GradeAnswer(q, "anything")
	assert.False(t, res.Graded())
	assert.Nil(t, res.IsCorrect)
	assert.Nil(t, res.Score)
}

func TestGradeAnswerFileUploadNeverAutoGraded(t *testing.T) {
	q := &model.QuizQuestion{
		QuestionType:  model.QuestionFileUpload,
		CorrectAnswer: strPtr("report.pdf"),
		Points:        10,
	}
	res := GradeAnswer(q, "report.pdf")
	assert.False(t, res.Graded())
}

func TestTotalScoreSumsOnlyGraded(t *testing.T) {
	results := []GradeResult{
		GradeAnswer(mcq("b", 10), "b"),
		GradeAnswer(&model.QuizQuestion{QuestionType: model.QuestionShortAnswer, Points: 5}, "essay text"),
	}
	total := TotalScore(results)
	require.NotNil(t, total)
	assert.Equal(t, 10, *total)
}

func TestTotalScoreNilWhenNothingGradable(t *testing.T) {
	results := []GradeResult{
		GradeAnswer(&model.QuizQuestion{QuestionType: model.QuestionFileUpload}, "x"),
		GradeAnswer(&model.QuizQuestion{QuestionType: model.QuestionShortAnswer}, "y"),
	}
	assert.Nil(t, TotalScore(results))
}

func TestTotalScoreZeroIsNotPending(t *testing.T) {
	// Every gradable answer wrong: the total is a real 0, not nil.
	results := []GradeResult{
		GradeAnswer(mcq("b", 10), "a"),
		GradeAnswer(mcq("c", 10), "d"),
	}
	total := TotalScore(results)
	require.NotNil(t, total)
	assert.Equal(t, 0, *total)
}
