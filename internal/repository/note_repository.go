package repository

import (
	"termophysics_backend/internal/model"

	"gorm.io/gorm"
)

type NoteRepository struct {
	DB *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func (r *NoteRepository) Create(note *model.ClassroomNote) error {
	return r.DB.Create(note).Error
}

func (r *NoteRepository) FindByID(id string) (*model.ClassroomNote, error) {
	var n model.ClassroomNote
	err := r.DB.First(&n, "id = ?", id).Error
	return &n, err
}

func (r *NoteRepository) List(classroomID string) ([]model.ClassroomNote, error) {
	var ns []model.ClassroomNote
	err := r.DB.Where("classroom_id = ?", classroomID).
		Order("created_at desc").Find(&ns).Error
	return ns, err
}

func (r *NoteRepository) Delete(id string) error {
	return r.DB.Delete(&model.ClassroomNote{}, "id = ?", id).Error
}
