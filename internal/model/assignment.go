package model

import "time"

type Assignment struct {
	UUIDBase
	ClassroomID string     `gorm:"index;type:varchar(36)" json:"classroomId"`
	TeacherID   uint       `gorm:"index;type:bigint unsigned" json:"teacherId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	MaxScore    int        `gorm:"default:100" json:"maxScore"`
}

func (Assignment) TableName() string {
	return "assignments"
}

type AssignmentSubmission struct {
	UUIDBase
	AssignmentID string    `gorm:"type:varchar(36);uniqueIndex:idx_asub_assignment_student" json:"assignmentId"`
	StudentID    uint      `gorm:"type:bigint unsigned;uniqueIndex:idx_asub_assignment_student" json:"studentId"`
	Content      string    `gorm:"type:text" json:"content"`
	FileURL      string    `gorm:"size:512" json:"fileUrl,omitempty"`
	FileName     string    `gorm:"size:255" json:"fileName,omitempty"`
	SubmittedAt  time.Time `gorm:"autoCreateTime" json:"submittedAt"`
	Score        *int      `json:"score,omitempty"`
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
