package repository

import (
	"termophysics_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) CreateQuiz(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindQuizByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, "id = ?", id).Error
	return &quiz, err
}

func (r *QuizRepository) ListQuizzes(classroomID string) ([]model.Quiz, error) {
	var qs []model.Quiz
	err := r.DB.Where("classroom_id = ?", classroomID).
		Order("created_at desc").Find(&qs).Error
	return qs, err
}

func (r *QuizRepository) DeleteQuiz(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		var submissionIDs []string
		if err := tx.Model(&model.QuizSubmission{}).Where("quiz_id = ?", id).Pluck("id", &submissionIDs).Error; err != nil {
			return err
		}
		if len(submissionIDs) > 0 {
			if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&model.QuizAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizSubmission{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Quiz{}, "id = ?", id).Error
	})
}

func (r *QuizRepository) CreateQuestion(question *model.QuizQuestion) error {
	return r.DB.Create(question).Error
}

func (r *QuizRepository) DeleteQuestion(id string) error {
	return r.DB.Delete(&model.QuizQuestion{}, "id = ?", id).Error
}

func (r *QuizRepository) CountQuestions(quizID string) (int64, error) {
	var n int64
	err := r.DB.Model(&model.QuizQuestion{}).Where("quiz_id = ?", quizID).Count(&n).Error
	return n, err
}

func (r *QuizRepository) ListQuestions(quizID string) ([]model.QuizQuestion, error) {
	var qs []model.QuizQuestion
	err := r.DB.Where("quiz_id = ?", quizID).
		Order("sort_order asc, created_at asc").Find(&qs).Error
	return qs, err
}

// CreateSubmissionWithAnswers writes the submission and its answer rows
// as one transaction so a failed answer batch never leaves an orphan
// submission behind.
func (r *QuizRepository) CreateSubmissionWithAnswers(submission *model.QuizSubmission, answers []model.QuizAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].SubmissionID = submission.ID
		}
		return tx.Create(&answers).Error
	})
}

func (r *QuizRepository) FindSubmission(quizID string, studentID uint) (*model.QuizSubmission, error) {
	var s model.QuizSubmission
	err := r.DB.Where("quiz_id = ? AND student_id = ?", quizID, studentID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SubmittedQuizIDs returns the ids of every quiz the student has a
// submission for; the "already submitted" state is derived from this,
// never stored on the quiz.
func (r *QuizRepository) SubmittedQuizIDs(studentID uint) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.QuizSubmission{}).
		Where("student_id = ?", studentID).
		Pluck("quiz_id", &ids).Error
	return ids, err
}

// SubmissionRow joins a submission with the student's display identity.
type SubmissionRow struct {
	model.QuizSubmission
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (r *QuizRepository) ListSubmissions(quizID string) ([]SubmissionRow, error) {
	var rows []SubmissionRow
	err := r.DB.Table("quiz_submissions s").
		Select("s.*, u.display_name, u.email").
		Joins("JOIN users u ON s.student_id = u.id").
		Where("s.quiz_id = ? AND s.deleted_at IS NULL", quizID).
		Order("s.submitted_at desc").
		Scan(&rows).Error
	return rows, err
}

func (r *QuizRepository) ListAnswersBySubmissions(submissionIDs []string) ([]model.QuizAnswer, error) {
	if len(submissionIDs) == 0 {
		return nil, nil
	}
	var answers []model.QuizAnswer
	err := r.DB.Where("submission_id IN ?", submissionIDs).Find(&answers).Error
	return answers, err
}
