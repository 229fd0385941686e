package service

import (
	"encoding/json"
	"errors"
	"termophysics_backend/internal/model"
	"termophysics_backend/internal/repository"
	"termophysics_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type QuizService struct {
	Repo       *repository.QuizRepository
	Classrooms *ClassroomService
}

func NewQuizService(repo *repository.QuizRepository, classrooms *ClassroomService) *QuizService {
	return &QuizService{Repo: repo, Classrooms: classrooms}
}

type QuizReq struct {
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description"`
	DueDate          *time.Time `json:"dueDate"`
	TimeLimitMinutes *int       `json:"timeLimitMinutes"`
	MaxScore         *int       `json:"maxScore"`
}

func (s *QuizService) CreateQuiz(classroomID string, teacherID uint, req QuizReq) (*model.Quiz, error) {
	quiz := &model.Quiz{
		ClassroomID:      classroomID,
		TeacherID:        teacherID,
		Title:            req.Title,
		Description:      req.Description,
		DueDate:          req.DueDate,
		TimeLimitMinutes: req.TimeLimitMinutes,
		MaxScore:         100,
	}
	if req.MaxScore != nil {
		quiz.MaxScore = *req.MaxScore
	}
	if err := s.Repo.CreateQuiz(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(quizID string, teacherID uint) error {
	quiz, err := s.Repo.FindQuizByID(quizID)
	if err != nil {
		return util.ErrQuizNotFound
	}
	if quiz.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	return s.Repo.DeleteQuiz(quizID)
}

type QuestionReq struct {
	QuestionText  string             `json:"questionText" binding:"required"`
	QuestionType  model.QuestionType `json:"questionType" binding:"required"`
	Options       []string           `json:"options"`
	CorrectAnswer *string            `json:"correctAnswer"`
	Points        *int               `json:"points"`
}

func (s *QuizService) AddQuestion(quizID string, teacherID uint, req QuestionReq) (*model.QuizQuestion, error) {
	quiz, err := s.Repo.FindQuizByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}

	switch req.QuestionType {
	case model.QuestionMCQ, model.QuestionShortAnswer, model.QuestionFileUpload:
	default:
		return nil, errors.New("unknown question type")
	}

	question := &model.QuizQuestion{
		QuizID:        quizID,
		QuestionText:  req.QuestionText,
		QuestionType:  req.QuestionType,
		CorrectAnswer: req.CorrectAnswer,
		Points:        10,
	}
	if req.Points != nil {
		question.Points = *req.Points
	}

	if req.QuestionType == model.QuestionMCQ {
		options := make([]string, 0, len(req.Options))
		for _, o := range req.Options {
			if o != "" {
				options = append(options, o)
			}
		}
		if len(options) < 2 {
			return nil, errors.New("mcq needs at least 2 options")
		}
		if req.CorrectAnswer == nil || *req.CorrectAnswer == "" {
			return nil, errors.New("mcq needs a correct answer")
		}
		raw, err := json.Marshal(options)
		if err != nil {
			return nil, err
		}
		question.Options = raw
	}

	count, err := s.Repo.CountQuestions(quizID)
	if err != nil {
		return nil, err
	}
	question.SortOrder = int(count)

	if err := s.Repo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) DeleteQuestion(quizID, questionID string, teacherID uint) error {
	quiz, err := s.Repo.FindQuizByID(quizID)
	if err != nil {
		return util.ErrQuizNotFound
	}
	if quiz.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	return s.Repo.DeleteQuestion(questionID)
}

func (s *QuizService) GetQuiz(quizID string) (*model.Quiz, []model.QuizQuestion, error) {
	quiz, err := s.Repo.FindQuizByID(quizID)
	if err != nil {
		return nil, nil, util.ErrQuizNotFound
	}
	qs, err := s.Repo.ListQuestions(quizID)
	return quiz, qs, err
}

// QuizListItem is a quiz plus the student-derived submission state.
type QuizListItem struct {
	model.Quiz
	Submitted bool `json:"submitted"`
}

// ListQuizzes returns the classroom's quizzes; for students the
// Submitted flag is derived from submission existence.
func (s *QuizService) ListQuizzes(classroomID string, studentID uint) ([]QuizListItem, error) {
	quizzes, err := s.Repo.ListQuizzes(classroomID)
	if err != nil {
		return nil, err
	}

	submitted := make(map[string]bool)
	if studentID != 0 {
		ids, err := s.Repo.SubmittedQuizIDs(studentID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			submitted[id] = true
		}
	}

	items := make([]QuizListItem, len(quizzes))
	for i, q := range quizzes {
		items[i] = QuizListItem{Quiz: q, Submitted: submitted[q.ID]}
	}
	return items, nil
}

// StudentQuestion is a question with the answer key stripped.
type StudentQuestion struct {
	ID           string             `json:"id"`
	QuestionText string             `json:"questionText"`
	QuestionType model.QuestionType `json:"questionType"`
	Options      json.RawMessage    `json:"options,omitempty"`
	Points       int                `json:"points"`
	SortOrder    int                `json:"sortOrder"`
}

// GetQuizForStudent returns the quiz and its questions without correct
// answers. A student with an existing submission gets
// ErrQuizAlreadySubmitted instead of the form payload.
func (s *QuizService) GetQuizForStudent(quizID string, studentID uint) (*model.Quiz, []StudentQuestion, error) {
	quiz, err := s.Repo.FindQuizByID(quizID)
	if err != nil {
		return nil, nil, util.ErrQuizNotFound
	}

	if _, err := s.Repo.FindSubmission(quizID, studentID); err == nil {
		return nil, nil, util.ErrQuizAlreadySubmitted
	}

	qs, err := s.Repo.ListQuestions(quizID)
	if err != nil {
		return nil, nil, err
	}

	out := make([]StudentQuestion, len(qs))
	for i, q := range qs {
		out[i] = StudentQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      q.Options,
			Points:       q.Points,
			SortOrder:    q.SortOrder,
		}
	}
	return quiz, out, nil
}

// SubmitQuiz grades and persists one student attempt. Every question on
// the quiz gets an answer row; a question the student left blank is
// graded against the empty string. The submission and its answers are
// written in one transaction, and the (quiz_id, student_id) unique
// index is the final authority on double submission.
func (s *QuizService) SubmitQuiz(quizID string, studentID uint, answers map[string]string) (*model.QuizSubmission, error) {
	quiz, err := s.Repo.FindQuizByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}

	// Only enrolled students may land in the teacher's results.
	if !s.Classrooms.IsEnrolled(quiz.ClassroomID, studentID) {
		return nil, util.ErrNotEnrolled
	}

	questions, err := s.Repo.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrQuizNoQuestions
	}

	// Advisory fast path; the unique index catches the race.
	if _, err := s.Repo.FindSubmission(quizID, studentID); err == nil {
		return nil, util.ErrQuizAlreadySubmitted
	}

	results := make([]GradeResult, len(questions))
	rows := make([]model.QuizAnswer, len(questions))
	for i, q := range questions {
		res := GradeAnswer(&q, answers[q.ID])
		results[i] = res
		rows[i] = model.QuizAnswer{
			QuestionID: q.ID,
			AnswerText: answers[q.ID],
			IsCorrect:  res.IsCorrect,
			Score:      res.Score,
		}
	}

	now := time.Now()
	submission := &model.QuizSubmission{
		QuizID:      quizID,
		StudentID:   studentID,
		SubmittedAt: now,
		TotalScore:  TotalScore(results),
	}
	if submission.TotalScore != nil {
		submission.GradedAt = &now
	}

	if err := s.Repo.CreateSubmissionWithAnswers(submission, rows); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrQuizAlreadySubmitted
		}
		return nil, err
	}
	return submission, nil
}

// AnswerResult pairs a stored answer with its question for display.
// IsCorrect is nil when the question was not auto-gradable.
type AnswerResult struct {
	QuestionID   string             `json:"questionId"`
	QuestionText string             `json:"questionText"`
	QuestionType model.QuestionType `json:"questionType"`
	Points       int                `json:"points"`
	AnswerText   string             `json:"answerText"`
	IsCorrect    *bool              `json:"isCorrect"`
	Score        *int               `json:"score"`
}

// SubmissionResult is one student's aggregated outcome.
type SubmissionResult struct {
	SubmissionID string         `json:"submissionId"`
	StudentName  string         `json:"studentName"`
	StudentEmail string         `json:"studentEmail"`
	SubmittedAt  time.Time      `json:"submittedAt"`
	TotalScore   *int           `json:"totalScore"`
	MaxScore     int            `json:"maxScore"`
	Answers      []AnswerResult `json:"answers"`
}

// ListResults loads every submission for a quiz with nested answers and
// the submitting student's identity. A quiz with no submissions yields
// an empty slice. No class statistics are computed.
func (s *QuizService) ListResults(quizID string, teacherID uint) ([]SubmissionResult, error) {
	quiz, err := s.Repo.FindQuizByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}

	questions, err := s.Repo.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}
	questionByID := make(map[string]*model.QuizQuestion, len(questions))
	for i := range questions {
		questionByID[questions[i].ID] = &questions[i]
	}

	rows, err := s.Repo.ListSubmissions(quizID)
	if err != nil {
		return nil, err
	}

	submissionIDs := make([]string, len(rows))
	for i, r := range rows {
		submissionIDs[i] = r.ID
	}
	answers, err := s.Repo.ListAnswersBySubmissions(submissionIDs)
	if err != nil {
		return nil, err
	}
	answersBySubmission := make(map[string][]model.QuizAnswer)
	for _, a := range answers {
		answersBySubmission[a.SubmissionID] = append(answersBySubmission[a.SubmissionID], a)
	}

	results := make([]SubmissionResult, len(rows))
	for i, row := range rows {
		res := SubmissionResult{
			SubmissionID: row.ID,
			StudentName:  row.DisplayName,
			StudentEmail: row.Email,
			SubmittedAt:  row.SubmittedAt,
			TotalScore:   row.TotalScore,
			MaxScore:     quiz.MaxScore,
		}
		for _, a := range answersBySubmission[row.ID] {
			ar := AnswerResult{
				QuestionID: a.QuestionID,
				AnswerText: a.AnswerText,
				IsCorrect:  a.IsCorrect,
				Score:      a.Score,
			}
			if q, ok := questionByID[a.QuestionID]; ok {
				ar.QuestionText = q.QuestionText
				ar.QuestionType = q.QuestionType
				ar.Points = q.Points
			}
			res.Answers = append(res.Answers, ar)
		}
		results[i] = res
	}
	return results, nil
}
