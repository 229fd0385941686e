package service

import (
	"errors"
	"strings"
	"termophysics_backend/internal/model"
	"termophysics_backend/internal/repository"
	"termophysics_backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassroomService struct {
	Repo *repository.ClassroomRepository
}

func NewClassroomService(repo *repository.ClassroomRepository) *ClassroomService {
	return &ClassroomService{Repo: repo}
}

type ClassroomReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
}

func (s *ClassroomService) CreateClassroom(teacherID uint, req ClassroomReq) (*model.Classroom, error) {
	classroom := &model.Classroom{
		Name:        req.Name,
		Description: req.Description,
		Subject:     req.Subject,
		TeacherID:   teacherID,
		ClassCode:   newClassCode(),
	}

	// Regenerate on the (unlikely) code collision.
	for i := 0; i < 3; i++ {
		err := s.Repo.Create(classroom)
		if err == nil {
			return classroom, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		classroom.ClassCode = newClassCode()
	}
	return nil, errors.New("could not allocate a class code")
}

func (s *ClassroomService) ListForTeacher(teacherID uint) ([]model.Classroom, error) {
	return s.Repo.ListByTeacher(teacherID)
}

func (s *ClassroomService) ListEnrolled(studentID uint) ([]model.Classroom, error) {
	return s.Repo.ListEnrolled(studentID)
}

func (s *ClassroomService) GetClassroom(id string) (*model.Classroom, error) {
	classroom, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrClassroomNotFound
	}
	return classroom, nil
}

func (s *ClassroomService) DeleteClassroom(id string, teacherID uint) error {
	classroom, err := s.Repo.FindByID(id)
	if err != nil {
		return util.ErrClassroomNotFound
	}
	if classroom.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	return s.Repo.Delete(id)
}

// JoinByCode enrolls a student via a classroom's join code. The unique
// (classroom_id, student_id) index decides duplicates; no error-message
// matching.
func (s *ClassroomService) JoinByCode(studentID uint, code string) (*model.Classroom, error) {
	classroom, err := s.Repo.FindByClassCode(strings.TrimSpace(code))
	if err != nil {
		return nil, util.ErrInvalidClassCode
	}

	enrollment := &model.ClassroomEnrollment{
		ClassroomID: classroom.ID,
		StudentID:   studentID,
	}
	if err := s.Repo.CreateEnrollment(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return classroom, nil
}

func (s *ClassroomService) ListStudents(classroomID string, teacherID uint) ([]repository.EnrollmentRow, error) {
	classroom, err := s.Repo.FindByID(classroomID)
	if err != nil {
		return nil, util.ErrClassroomNotFound
	}
	if classroom.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}
	return s.Repo.ListEnrollments(classroomID)
}

func (s *ClassroomService) RemoveStudent(classroomID, enrollmentID string, teacherID uint) error {
	classroom, err := s.Repo.FindByID(classroomID)
	if err != nil {
		return util.ErrClassroomNotFound
	}
	if classroom.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	return s.Repo.DeleteEnrollment(enrollmentID)
}

// IsEnrolled reports whether the student belongs to the classroom.
func (s *ClassroomService) IsEnrolled(classroomID string, studentID uint) bool {
	_, err := s.Repo.FindEnrollment(classroomID, studentID)
	return err == nil
}

// newClassCode returns a short, shareable uppercase join code.
func newClassCode() string {
	id := uuid.New().String()
	return strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}
