package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"termophysics_backend/internal/model"
	"termophysics_backend/internal/repository"
	"termophysics_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type AssignmentService struct {
	Repo       *repository.AssignmentRepository
	Storage    *StorageService
	Classrooms *ClassroomService
}

func NewAssignmentService(repo *repository.AssignmentRepository, storage *StorageService, classrooms *ClassroomService) *AssignmentService {
	return &AssignmentService{Repo: repo, Storage: storage, Classrooms: classrooms}
}

type AssignmentReq struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	MaxScore    *int       `json:"maxScore"`
}

func (s *AssignmentService) Create(classroomID string, teacherID uint, req AssignmentReq) (*model.Assignment, error) {
	assignment := &model.Assignment{
		ClassroomID: classroomID,
		TeacherID:   teacherID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxScore:    100,
	}
	if req.MaxScore != nil {
		assignment.MaxScore = *req.MaxScore
	}
	if err := s.Repo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) List(classroomID string) ([]model.Assignment, error) {
	return s.Repo.List(classroomID)
}

func (s *AssignmentService) Delete(id string, teacherID uint) error {
	assignment, err := s.Repo.FindByID(id)
	if err != nil {
		return err
	}
	if assignment.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	return s.Repo.Delete(id)
}

// Submit stores a student's assignment response, uploading the optional
// attachment first so a storage failure aborts before any row exists.
func (s *AssignmentService) Submit(ctx context.Context, assignmentID string, studentID uint, content string, file io.Reader, fileName string, fileSize int64, contentType string) (*model.AssignmentSubmission, error) {
	assignment, err := s.Repo.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}

	if !s.Classrooms.IsEnrolled(assignment.ClassroomID, studentID) {
		return nil, util.ErrNotEnrolled
	}

	submission := &model.AssignmentSubmission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      content,
		SubmittedAt:  time.Now(),
	}

	if file != nil && fileName != "" {
		objectName := fmt.Sprintf("%s/assignments/%s/%d-%s",
			assignment.ClassroomID, assignmentID, time.Now().UnixMilli(), fileName)
		url, err := s.Storage.Upload(ctx, objectName, file, fileSize, contentType)
		if err != nil {
			return nil, err
		}
		submission.FileURL = url
		submission.FileName = fileName
	}

	if err := s.Repo.CreateSubmission(submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAssignmentSubmitted
		}
		return nil, err
	}
	return submission, nil
}

func (s *AssignmentService) ListSubmissions(assignmentID string, teacherID uint) ([]repository.AssignmentSubmissionRow, error) {
	assignment, err := s.Repo.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}
	return s.Repo.ListSubmissions(assignmentID)
}

// HasSubmitted derives the student-facing submission state.
func (s *AssignmentService) HasSubmitted(assignmentID string, studentID uint) bool {
	_, err := s.Repo.FindSubmission(assignmentID, studentID)
	return err == nil
}
