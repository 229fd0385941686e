package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrClassroomNotFound    = errors.New("classroom not found")
	ErrInvalidClassCode     = errors.New("no classroom found with that code")
	ErrAlreadyEnrolled      = errors.New("already enrolled")
	ErrNotEnrolled          = errors.New("not enrolled in this classroom")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrQuizNoQuestions      = errors.New("quiz has no questions")
	ErrQuizAlreadySubmitted = errors.New("quiz already submitted")
	ErrAssignmentSubmitted  = errors.New("assignment already submitted")
	ErrImageQuotaExceeded   = errors.New("daily image generation quota reached")
)
