package service

import (
	"fmt"
	"termophysics_backend/internal/model"
	"termophysics_backend/internal/repository"
	"termophysics_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Classroom{},
		&model.ClassroomEnrollment{},
		&model.Assignment{},
		&model.AssignmentSubmission{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizSubmission{},
		&model.QuizAnswer{},
	))
	return db
}

func newQuizService(db *gorm.DB) *QuizService {
	return NewQuizService(
		repository.NewQuizRepository(db),
		NewClassroomService(repository.NewClassroomRepository(db)),
	)
}

func enroll(t *testing.T, db *gorm.DB, classroomID string, studentID uint) {
	t.Helper()
	require.NoError(t, db.Create(&model.ClassroomEnrollment{
		ClassroomID: classroomID,
		StudentID:   studentID,
	}).Error)
}

func newQuizFixture(t *testing.T, db *gorm.DB) (*QuizService, *model.Quiz, *model.QuizQuestion, *model.QuizQuestion) {
	t.Helper()

	svc := newQuizService(db)

	teacher := &model.User{DisplayName: "Ms. Curie", Email: "curie@example.com", Password: "x", Role: model.Teacher}
	student := &model.User{DisplayName: "Alex", Email: "alex@example.com", Password: "x", Role: model.Student}
	require.NoError(t, db.Create(teacher).Error)
	require.NoError(t, db.Create(student).Error)
	enroll(t, db, "classroom-1", student.ID)

	quiz, err := svc.CreateQuiz("classroom-1", teacher.ID, QuizReq{Title: "Thermodynamics check"})
	require.NoError(t, err)

	q1, err := svc.AddQuestion(quiz.ID, teacher.ID, QuestionReq{
		QuestionText:  "Which law forbids perpetual motion of the second kind?",
		QuestionType:  model.QuestionMCQ,
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: strPtr("b"),
	})
	require.NoError(t, err)

	q2, err := svc.AddQuestion(quiz.ID, teacher.ID, QuestionReq{
		QuestionText: "Explain entropy in your own words.",
		QuestionType: model.QuestionShortAnswer,
	})
	require.NoError(t, err)

	return svc, quiz, q1, q2
}

const studentID uint = 2

func TestSubmitQuizGradesAndAggregates(t *testing.T) {
	db := newTestDB(t)
	svc, quiz, q1, q2 := newQuizFixture(t, db)

	submission, err := svc.SubmitQuiz(quiz.ID, studentID, map[string]string{
		q1.ID: "b",
		q2.ID: "disorder increases",
	})
	require.NoError(t, err)

	require.NotNil(t, submission.TotalScore)
	assert.Equal(t, 10, *submission.TotalScore)
	assert.NotNil(t, submission.GradedAt)

	var answers []model.QuizAnswer
	require.NoError(t, db.Where("submission_id = ?", submission.ID).Find(&answers).Error)
	require.Len(t, answers, 2)

	byQuestion := make(map[string]model.QuizAnswer)
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	graded := byQuestion[q1.ID]
	require.NotNil(t, graded.IsCorrect)
	assert.True(t, *graded.IsCorrect)
	assert.Equal(t, 10, *graded.Score)

	ungraded := byQuestion[q2.ID]
	assert.Nil(t, ungraded.IsCorrect)
	assert.Nil(t, ungraded.Score)
}

func TestSubmitQuizMissingAnswerGradedAsBlank(t *testing.T) {
	db := newTestDB(t)
	svc, quiz, q1, q2 := newQuizFixture(t, db)

	submission, err := svc.SubmitQuiz(quiz.ID, studentID, map[string]string{
		q2.ID: "left the mcq blank",
	})
	require.NoError(t, err)

	var answer model.QuizAnswer
	require.NoError(t, db.Where("submission_id = ? AND question_id = ?", submission.ID, q1.ID).First(&answer).Error)
	require.NotNil(t, answer.IsCorrect)
	assert.False(t, *answer.IsCorrect)
	assert.Equal(t, 0, *answer.Score)

	require.NotNil(t, submission.TotalScore)
	assert.Equal(t, 0, *submission.TotalScore)
}

func TestSubmitQuizPendingWhenNothingGradable(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	enroll(t, db, "classroom-1", studentID)

	quiz, err := svc.CreateQuiz("classroom-1", 1, QuizReq{Title: "Lab report"})
	require.NoError(t, err)
	q, err := svc.AddQuestion(quiz.ID, 1, QuestionReq{
		QuestionText: "Upload your measurements.",
		QuestionType: model.QuestionFileUpload,
	})
	require.NoError(t, err)

	submission, err := svc.SubmitQuiz(quiz.ID, studentID, map[string]string{q.ID: "measurements.csv"})
	require.NoError(t, err)

	assert.Nil(t, submission.TotalScore)
	assert.Nil(t, submission.GradedAt)
}

func TestSubmitQuizRejectsSecondAttempt(t *testing.T) {
	db := newTestDB(t)
	svc, quiz, q1, _ := newQuizFixture(t, db)

	_, err := svc.SubmitQuiz(quiz.ID, studentID, map[string]string{q1.ID: "b"})
	require.NoError(t, err)

	_, err = svc.SubmitQuiz(quiz.ID, studentID, map[string]string{q1.ID: "c"})
	assert.ErrorIs(t, err, util.ErrQuizAlreadySubmitted)

	// Only the first attempt survives.
	var count int64
	require.NoError(t, db.Model(&model.QuizSubmission{}).
		Where("quiz_id = ? AND student_id = ?", quiz.ID, studentID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUniqueIndexCatchesConcurrentDuplicate(t *testing.T) {
	// Bypass the service's advisory pre-check and write two submissions
	// straight through the repository, as two racing requests would.
	db := newTestDB(t)
	_, quiz, q1, _ := newQuizFixture(t, db)
	repo := repository.NewQuizRepository(db)

	first := &model.QuizSubmission{QuizID: quiz.ID, StudentID: studentID}
	require.NoError(t, repo.CreateSubmissionWithAnswers(first, []model.QuizAnswer{{QuestionID: q1.ID}}))

	second := &model.QuizSubmission{QuizID: quiz.ID, StudentID: studentID}
	err := repo.CreateSubmissionWithAnswers(second, []model.QuizAnswer{{QuestionID: q1.ID}})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The failed transaction must not leave orphan answer rows.
	var answers int64
	require.NoError(t, db.Model(&model.QuizAnswer{}).Count(&answers).Error)
	assert.EqualValues(t, 1, answers)
}

func TestSubmitQuizWithoutQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	enroll(t, db, "classroom-1", studentID)

	quiz, err := svc.CreateQuiz("classroom-1", 1, QuizReq{Title: "Empty"})
	require.NoError(t, err)

	_, err = svc.SubmitQuiz(quiz.ID, studentID, map[string]string{})
	assert.ErrorIs(t, err, util.ErrQuizNoQuestions)
}

func TestSubmitQuizRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc, quiz, q1, _ := newQuizFixture(t, db)

	// A student from another classroom, no enrollment row anywhere.
	outsider := uint(42)
	_, err := svc.SubmitQuiz(quiz.ID, outsider, map[string]string{q1.ID: "b"})
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	// Nothing must land in the teacher's results.
	var count int64
	require.NoError(t, db.Model(&model.QuizSubmission{}).
		Where("quiz_id = ?", quiz.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteQuizCascades(t *testing.T) {
	db := newTestDB(t)
	svc, quiz, q1, q2 := newQuizFixture(t, db)

	_, err := svc.SubmitQuiz(quiz.ID, studentID, map[string]string{q1.ID: "b", q2.ID: "entropy"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuiz(quiz.ID, 1))

	for _, m := range []interface{}{&model.Quiz{}, &model.QuizQuestion{}, &model.QuizSubmission{}, &model.QuizAnswer{}} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	}
}

func TestGetQuizForStudentStripsAnswerKey(t *testing.T) {
	db := newTestDB(t)
	svc, quiz, _, _ := newQuizFixture(t, db)

	_, questions, err := svc.GetQuizForStudent(quiz.ID, studentID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Which law forbids perpetual motion of the second kind?", questions[0].QuestionText)
}

func TestGetQuizForStudentAfterSubmission(t *testing.T) {
	db := newTestDB(t)
	svc, quiz, q1, _ := newQuizFixture(t, db)

	_, err := svc.SubmitQuiz(quiz.ID, studentID, map[string]string{q1.ID: "b"})
	require.NoError(t, err)

	_, _, err = svc.GetQuizForStudent(quiz.ID, studentID)
	assert.ErrorIs(t, err, util.ErrQuizAlreadySubmitted)
}

func TestListQuizzesDerivesSubmittedFlag(t *testing.T) {
	db := newTestDB(t)
	svc, quiz, q1, _ := newQuizFixture(t, db)

	items, err := svc.ListQuizzes("classroom-1", studentID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Submitted)

	_, err = svc.SubmitQuiz(quiz.ID, studentID, map[string]string{q1.ID: "b"})
	require.NoError(t, err)

	items, err = svc.ListQuizzes("classroom-1", studentID)
	require.NoError(t, err)
	assert.True(t, items[0].Submitted)
}

func TestListResults(t *testing.T) {
	db := newTestDB(t)
	svc, quiz, q1, q2 := newQuizFixture(t, db)
	teacherID := uint(1)

	// No submissions yet: empty slice, not an error.
	results, err := svc.ListResults(quiz.ID, teacherID)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = svc.SubmitQuiz(quiz.ID, studentID, map[string]string{q1.ID: "b", q2.ID: "entropy grows"})
	require.NoError(t, err)

	results, err = svc.ListResults(quiz.ID, teacherID)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "Alex", res.StudentName)
	assert.Equal(t, "alex@example.com", res.StudentEmail)
	require.NotNil(t, res.TotalScore)
	assert.Equal(t, 10, *res.TotalScore)
	assert.Equal(t, 100, res.MaxScore)
	require.Len(t, res.Answers, 2)
}

func TestListResultsOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc, quiz, _, _ := newQuizFixture(t, db)

	_, err := svc.ListResults(quiz.ID, 99)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAddQuestionValidation(t *testing.T) {
	db := newTestDB(t)
	svc, quiz, _, _ := newQuizFixture(t, db)
	teacherID := uint(1)

	_, err := svc.AddQuestion(quiz.ID, teacherID, QuestionReq{
		QuestionText: "Pick one",
		QuestionType: model.QuestionMCQ,
		Options:      []string{"only"},
	})
	assert.Error(t, err)

	_, err = svc.AddQuestion(quiz.ID, teacherID, QuestionReq{
		QuestionText: "Pick one",
		QuestionType: model.QuestionMCQ,
		Options:      []string{"a", "b"},
	})
	assert.Error(t, err)

	_, err = svc.AddQuestion(quiz.ID, teacherID, QuestionReq{
		QuestionText: "Bad type",
		QuestionType: "essay",
	})
	assert.Error(t, err)
}
