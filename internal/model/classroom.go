package model

import "time"

type Classroom struct {
	UUIDBase
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Subject     string `gorm:"size:100" json:"subject"`
	ClassCode   string `gorm:"size:12;uniqueIndex;not null" json:"classCode"`
	TeacherID   uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
}

func (Classroom) TableName() string {
	return "classrooms"
}

// ClassroomEnrollment links a student to a classroom. The composite
// unique index is the source of truth for the one-enrollment rule.
type ClassroomEnrollment struct {
	UUIDBase
	ClassroomID string    `gorm:"type:varchar(36);uniqueIndex:idx_enroll_classroom_student" json:"classroomId"`
	StudentID   uint      `gorm:"type:bigint unsigned;uniqueIndex:idx_enroll_classroom_student" json:"studentId"`
	EnrolledAt  time.Time `gorm:"autoCreateTime" json:"enrolledAt"`
}

func (ClassroomEnrollment) TableName() string {
	return "classroom_enrollments"
}

type ClassroomNote struct {
	UUIDBase
	ClassroomID string `gorm:"index;type:varchar(36)" json:"classroomId"`
	TeacherID   uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Content     string `gorm:"type:text" json:"content"`
	FileURL     string `gorm:"size:512" json:"fileUrl,omitempty"`
	FileName    string `gorm:"size:255" json:"fileName,omitempty"`
}

func (ClassroomNote) TableName() string {
	return "classroom_notes"
}
