package service

import (
	"context"
	"termophysics_backend/internal/model"
	"termophysics_backend/internal/repository"
	"termophysics_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAssignmentFixture(t *testing.T, db *gorm.DB) (*AssignmentService, *model.Assignment) {
	t.Helper()

	svc := NewAssignmentService(
		repository.NewAssignmentRepository(db),
		nil, // text-only submissions in these tests, storage never touched
		NewClassroomService(repository.NewClassroomRepository(db)),
	)
	enroll(t, db, "classroom-1", studentID)

	assignment, err := svc.Create("classroom-1", 1, AssignmentReq{Title: "Problem set 3"})
	require.NoError(t, err)
	return svc, assignment
}

func TestSubmitAssignment(t *testing.T) {
	db := newTestDB(t)
	svc, assignment := newAssignmentFixture(t, db)

	submission, err := svc.Submit(context.Background(), assignment.ID, studentID,
		"worked solutions", nil, "", 0, "")
	require.NoError(t, err)
	assert.Equal(t, assignment.ID, submission.AssignmentID)
	assert.True(t, svc.HasSubmitted(assignment.ID, studentID))
}

func TestSubmitAssignmentRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc, assignment := newAssignmentFixture(t, db)

	outsider := uint(42)
	_, err := svc.Submit(context.Background(), assignment.ID, outsider,
		"drive-by submission", nil, "", 0, "")
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	var count int64
	require.NoError(t, db.Model(&model.AssignmentSubmission{}).
		Where("assignment_id = ?", assignment.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubmitAssignmentTwiceRejected(t *testing.T) {
	db := newTestDB(t)
	svc, assignment := newAssignmentFixture(t, db)

	_, err := svc.Submit(context.Background(), assignment.ID, studentID,
		"first attempt", nil, "", 0, "")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), assignment.ID, studentID,
		"second attempt", nil, "", 0, "")
	assert.ErrorIs(t, err, util.ErrAssignmentSubmitted)
}
