package service

import (
	"strings"
	"termophysics_backend/internal/repository"
	"termophysics_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClassroomAllocatesCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassroomService(repository.NewClassroomRepository(db))

	classroom, err := svc.CreateClassroom(1, ClassroomReq{Name: "Physics 101", Subject: "Thermodynamics"})
	require.NoError(t, err)
	assert.Len(t, classroom.ClassCode, 8)
	assert.Equal(t, strings.ToUpper(classroom.ClassCode), classroom.ClassCode)
}

func TestJoinByCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassroomService(repository.NewClassroomRepository(db))

	classroom, err := svc.CreateClassroom(1, ClassroomReq{Name: "Physics 101"})
	require.NoError(t, err)

	joined, err := svc.JoinByCode(2, classroom.ClassCode)
	require.NoError(t, err)
	assert.Equal(t, classroom.ID, joined.ID)
	assert.True(t, svc.IsEnrolled(classroom.ID, 2))
}

func TestJoinByCodeTrimsWhitespace(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassroomService(repository.NewClassroomRepository(db))

	classroom, err := svc.CreateClassroom(1, ClassroomReq{Name: "Physics 101"})
	require.NoError(t, err)

	_, err = svc.JoinByCode(2, "  "+classroom.ClassCode+"  ")
	assert.NoError(t, err)
}

func TestJoinByCodeUnknownCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassroomService(repository.NewClassroomRepository(db))

	_, err := svc.JoinByCode(2, "NOPE1234")
	assert.ErrorIs(t, err, util.ErrInvalidClassCode)
}

func TestJoinByCodeTwiceRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassroomService(repository.NewClassroomRepository(db))

	classroom, err := svc.CreateClassroom(1, ClassroomReq{Name: "Physics 101"})
	require.NoError(t, err)

	_, err = svc.JoinByCode(2, classroom.ClassCode)
	require.NoError(t, err)

	_, err = svc.JoinByCode(2, classroom.ClassCode)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestListEnrolled(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassroomService(repository.NewClassroomRepository(db))

	first, err := svc.CreateClassroom(1, ClassroomReq{Name: "Physics 101"})
	require.NoError(t, err)
	_, err = svc.CreateClassroom(1, ClassroomReq{Name: "Physics 201"})
	require.NoError(t, err)

	_, err = svc.JoinByCode(2, first.ClassCode)
	require.NoError(t, err)

	enrolled, err := svc.ListEnrolled(2)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, first.ID, enrolled[0].ID)
}
