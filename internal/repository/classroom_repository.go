package repository

import (
	"termophysics_backend/internal/model"

	"gorm.io/gorm"
)

type ClassroomRepository struct {
	DB *gorm.DB
}

func NewClassroomRepository(db *gorm.DB) *ClassroomRepository {
	return &ClassroomRepository{DB: db}
}

func (r *ClassroomRepository) Create(classroom *model.Classroom) error {
	return r.DB.Create(classroom).Error
}

func (r *ClassroomRepository) FindByID(id string) (*model.Classroom, error) {
	var c model.Classroom
	err := r.DB.First(&c, "id = ?", id).Error
	return &c, err
}

func (r *ClassroomRepository) FindByClassCode(code string) (*model.Classroom, error) {
	var c model.Classroom
	err := r.DB.Where("class_code = ?", code).First(&c).Error
	return &c, err
}

func (r *ClassroomRepository) ListByTeacher(teacherID uint) ([]model.Classroom, error) {
	var cs []model.Classroom
	err := r.DB.Where("teacher_id = ?", teacherID).
		Order("created_at desc").Find(&cs).Error
	return cs, err
}

// ListEnrolled returns the classrooms a student has joined.
func (r *ClassroomRepository) ListEnrolled(studentID uint) ([]model.Classroom, error) {
	var cs []model.Classroom
	err := r.DB.Table("classrooms c").
		Select("c.*").
		Joins("JOIN classroom_enrollments e ON e.classroom_id = c.id").
		Where("e.student_id = ? AND e.deleted_at IS NULL AND c.deleted_at IS NULL", studentID).
		Order("e.enrolled_at desc").
		Scan(&cs).Error
	return cs, err
}

func (r *ClassroomRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("classroom_id = ?", id).Delete(&model.ClassroomEnrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Classroom{}, "id = ?", id).Error
	})
}

func (r *ClassroomRepository) CreateEnrollment(e *model.ClassroomEnrollment) error {
	return r.DB.Create(e).Error
}

func (r *ClassroomRepository) FindEnrollment(classroomID string, studentID uint) (*model.ClassroomEnrollment, error) {
	var e model.ClassroomEnrollment
	err := r.DB.Where("classroom_id = ? AND student_id = ?", classroomID, studentID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ClassroomRepository) DeleteEnrollment(enrollmentID string) error {
	return r.DB.Delete(&model.ClassroomEnrollment{}, "id = ?", enrollmentID).Error
}

// EnrollmentRow carries the student's display identity for rosters.
type EnrollmentRow struct {
	model.ClassroomEnrollment
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (r *ClassroomRepository) ListEnrollments(classroomID string) ([]EnrollmentRow, error) {
	var rows []EnrollmentRow
	err := r.DB.Table("classroom_enrollments e").
		Select("e.*, u.display_name, u.email").
		Joins("JOIN users u ON e.student_id = u.id").
		Where("e.classroom_id = ? AND e.deleted_at IS NULL", classroomID).
		Order("e.enrolled_at asc").
		Scan(&rows).Error
	return rows, err
}
