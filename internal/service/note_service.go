package service

import (
	"context"
	"fmt"
	"io"
	"termophysics_backend/internal/model"
	"termophysics_backend/internal/repository"
	"termophysics_backend/internal/util"
	"time"
)

type NoteService struct {
	Repo    *repository.NoteRepository
	Storage *StorageService
}

func NewNoteService(repo *repository.NoteRepository, storage *StorageService) *NoteService {
	return &NoteService{Repo: repo, Storage: storage}
}

// CreateNote publishes a classroom note, uploading the optional
// attachment first.
func (s *NoteService) CreateNote(ctx context.Context, classroomID string, teacherID uint, title, content string, file io.Reader, fileName string, fileSize int64, contentType string) (*model.ClassroomNote, error) {
	note := &model.ClassroomNote{
		ClassroomID: classroomID,
		TeacherID:   teacherID,
		Title:       title,
		Content:     content,
	}

	if file != nil && fileName != "" {
		objectName := fmt.Sprintf("%s/notes/%d-%s", classroomID, time.Now().UnixMilli(), fileName)
		url, err := s.Storage.Upload(ctx, objectName, file, fileSize, contentType)
		if err != nil {
			return nil, err
		}
		note.FileURL = url
		note.FileName = fileName
	}

	if err := s.Repo.Create(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) List(classroomID string) ([]model.ClassroomNote, error) {
	return s.Repo.List(classroomID)
}

func (s *NoteService) Delete(id string, teacherID uint) error {
	note, err := s.Repo.FindByID(id)
	if err != nil {
		return err
	}
	if note.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	return s.Repo.Delete(id)
}
