package controller

import (
	"errors"
	"termophysics_backend/internal/model"
	"termophysics_backend/internal/service"
	"termophysics_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ClassroomController struct {
	ClassroomService *service.ClassroomService
}

func NewClassroomController(classroomService *service.ClassroomService) *ClassroomController {
	return &ClassroomController{ClassroomService: classroomService}
}

// Create godoc
// @Summary Create a classroom
// @Description Teacher creates a classroom; a shareable join code is allocated
// @Tags classrooms
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ClassroomReq true "Classroom"
// @Success 201 {object} util.Response{data=model.Classroom}
// @Failure 400 {object} util.Response "Invalid payload"
// @Router /api/classrooms [post]
func (c *ClassroomController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.ClassroomReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	classroom, err := c.ClassroomService.CreateClassroom(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, classroom)
}

// List godoc
// @Summary List my classrooms
// @Description Teachers see classrooms they own, students the ones they joined
// @Tags classrooms
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Classroom}
// @Router /api/classrooms [get]
func (c *ClassroomController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var (
		classrooms []model.Classroom
		err        error
	)
	if claims.Role == model.Teacher {
		classrooms, err = c.ClassroomService.ListForTeacher(claims.UserID)
	} else {
		classrooms, err = c.ClassroomService.ListEnrolled(claims.UserID)
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, classrooms)
}

// Get godoc
// @Summary Classroom details
// @Tags classrooms
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Classroom ID"
// @Success 200 {object} util.Response{data=model.Classroom}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/classrooms/{id} [get]
func (c *ClassroomController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := ctx.Param("id")

	classroom, err := c.ClassroomService.GetClassroom(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	if classroom.TeacherID != claims.UserID && !c.ClassroomService.IsEnrolled(id, claims.UserID) {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, classroom)
}

// Delete godoc
// @Summary Delete a classroom
// @Tags classrooms
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Classroom ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "Not the owner"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/classrooms/{id} [delete]
func (c *ClassroomController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.ClassroomService.DeleteClassroom(ctx.Param("id"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrClassroomNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

type JoinClassroomReq struct {
	Code string `json:"code" binding:"required"`
}

// Join godoc
// @Summary Join a classroom by code
// @Tags classrooms
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body JoinClassroomReq true "Join code"
// @Success 200 {object} util.Response{data=model.Classroom}
// @Failure 404 {object} util.Response "Unknown code"
// @Failure 409 {object} util.Response "Already enrolled"
// @Router /api/enrollments [post]
func (c *ClassroomController) Join(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req JoinClassroomReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	classroom, err := c.ClassroomService.JoinByCode(claims.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidClassCode):
			util.Error(ctx, 404, err.Error())
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, classroom)
}

// ListStudents godoc
// @Summary Classroom roster
// @Tags classrooms
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Classroom ID"
// @Success 200 {object} util.Response{data=[]repository.EnrollmentRow}
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/classrooms/{id}/students [get]
func (c *ClassroomController) ListStudents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	rows, err := c.ClassroomService.ListStudents(ctx.Param("id"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrClassroomNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, rows)
}

// RemoveStudent godoc
// @Summary Remove a student from the roster
// @Tags classrooms
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Classroom ID"
// @Param   enrollmentId path string true "Enrollment ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/classrooms/{id}/students/{enrollmentId} [delete]
func (c *ClassroomController) RemoveStudent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.ClassroomService.RemoveStudent(ctx.Param("id"), ctx.Param("enrollmentId"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrClassroomNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
