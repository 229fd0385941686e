package repository

import (
	"termophysics_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(a *model.Assignment) error {
	return r.DB.Create(a).Error
}

func (r *AssignmentRepository) FindByID(id string) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.First(&a, "id = ?", id).Error
	return &a, err
}

func (r *AssignmentRepository) List(classroomID string) ([]model.Assignment, error) {
	var as []model.Assignment
	err := r.DB.Where("classroom_id = ?", classroomID).
		Order("created_at desc").Find(&as).Error
	return as, err
}

func (r *AssignmentRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&model.AssignmentSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Assignment{}, "id = ?", id).Error
	})
}

func (r *AssignmentRepository) CreateSubmission(s *model.AssignmentSubmission) error {
	return r.DB.Create(s).Error
}

func (r *AssignmentRepository) FindSubmission(assignmentID string, studentID uint) (*model.AssignmentSubmission, error) {
	var s model.AssignmentSubmission
	err := r.DB.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type AssignmentSubmissionRow struct {
	model.AssignmentSubmission
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (r *AssignmentRepository) ListSubmissions(assignmentID string) ([]AssignmentSubmissionRow, error) {
	var rows []AssignmentSubmissionRow
	err := r.DB.Table("assignment_submissions s").
		Select("s.*, u.display_name, u.email").
		Joins("JOIN users u ON s.student_id = u.id").
		Where("s.assignment_id = ? AND s.deleted_at IS NULL", assignmentID).
		Order("s.submitted_at desc").
		Scan(&rows).Error
	return rows, err
}
