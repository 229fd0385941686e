package model

import (
	"encoding/json"
	"time"
)

type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionShortAnswer QuestionType = "short_answer"
	QuestionFileUpload  QuestionType = "file_upload"
)

type Quiz struct {
	UUIDBase
	ClassroomID      string     `gorm:"index;type:varchar(36)" json:"classroomId"`
	TeacherID        uint       `gorm:"index;type:bigint unsigned" json:"teacherId"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	TimeLimitMinutes *int       `json:"timeLimitMinutes,omitempty"`
	MaxScore         int        `gorm:"default:100" json:"maxScore"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion carries the answer key. CorrectAnswer is nullable: a
// question without one is never auto-graded.
type QuizQuestion struct {
	UUIDBase
	QuizID        string          `gorm:"index;type:varchar(36)" json:"quizId"`
	QuestionText  string          `gorm:"type:text;not null" json:"questionText"`
	QuestionType  QuestionType    `gorm:"size:20;not null" json:"questionType"`
	Options       json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer *string         `gorm:"type:text" json:"correctAnswer,omitempty"`
	Points        int             `gorm:"default:10" json:"points"`
	SortOrder     int             `gorm:"default:0" json:"sortOrder"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizSubmission is created exactly once per (quiz, student); the
// composite unique index enforces that at the data layer. TotalScore
// stays NULL when no question was auto-gradable, which renders as
// "Pending" rather than a zero.
type QuizSubmission struct {
	UUIDBase
	QuizID      string     `gorm:"type:varchar(36);uniqueIndex:idx_qsub_quiz_student" json:"quizId"`
	StudentID   uint       `gorm:"type:bigint unsigned;uniqueIndex:idx_qsub_quiz_student" json:"studentId"`
	SubmittedAt time.Time  `gorm:"autoCreateTime" json:"submittedAt"`
	TotalScore  *int       `json:"totalScore"`
	GradedAt    *time.Time `json:"gradedAt,omitempty"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}

// QuizAnswer holds one student response. IsCorrect and Score are
// nullable so an ungraded answer is distinguishable from a wrong one.
type QuizAnswer struct {
	UUIDBase
	SubmissionID string `gorm:"index;type:varchar(36)" json:"submissionId"`
	QuestionID   string `gorm:"index;type:varchar(36)" json:"questionId"`
	AnswerText   string `gorm:"type:text" json:"answerText"`
	IsCorrect    *bool  `json:"isCorrect"`
	Score        *int   `json:"score"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
