package controller

import (
	"errors"
	"io"
	"termophysics_backend/internal/model"
	"termophysics_backend/internal/service"
	"termophysics_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
	ClassroomService  *service.ClassroomService
}

func NewAssignmentController(assignmentService *service.AssignmentService, classroomService *service.ClassroomService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService, ClassroomService: classroomService}
}

// Create godoc
// @Summary Create an assignment
// @Tags assignments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Classroom ID"
// @Param   body body service.AssignmentReq true "Assignment"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/classrooms/{id}/assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classroomID := ctx.Param("id")

	classroom, err := c.ClassroomService.GetClassroom(classroomID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	if classroom.TeacherID != claims.UserID {
		util.Forbidden(ctx)
		return
	}

	var req service.AssignmentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Create(classroomID, claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, assignment)
}

// AssignmentListItem carries the student-derived submission state.
type AssignmentListItem struct {
	model.Assignment
	Submitted bool `json:"submitted"`
}

// List godoc
// @Summary Classroom assignments
// @Description Students also get their derived submitted flag per assignment
// @Tags assignments
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Classroom ID"
// @Success 200 {object} util.Response{data=[]AssignmentListItem}
// @Failure 403 {object} util.Response "Not a member"
// @Router /api/classrooms/{id}/assignments [get]
func (c *AssignmentController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classroomID := ctx.Param("id")

	classroom, err := c.ClassroomService.GetClassroom(classroomID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	isOwner := classroom.TeacherID == claims.UserID
	if !isOwner && !c.ClassroomService.IsEnrolled(classroomID, claims.UserID) {
		util.Forbidden(ctx)
		return
	}

	assignments, err := c.AssignmentService.List(classroomID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	items := make([]AssignmentListItem, len(assignments))
	for i, a := range assignments {
		submitted := false
		if !isOwner {
			submitted = c.AssignmentService.HasSubmitted(a.ID, claims.UserID)
		}
		items[i] = AssignmentListItem{Assignment: a, Submitted: submitted}
	}
	util.Success(ctx, items)
}

// Delete godoc
// @Summary Delete an assignment
// @Tags assignments
// @Produce  json
// @Security BearerAuth
// @Param   assignmentId path string true "Assignment ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/assignments/{assignmentId} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.AssignmentService.Delete(ctx.Param("assignmentId"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.NotFound(ctx)
		}
		return
	}
	util.Success(ctx, nil)
}

// Submit godoc
// @Summary Submit an assignment
// @Description Multipart form with text content and/or an attachment; one submission per student
// @Tags assignments
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param   assignmentId path string true "Assignment ID"
// @Param   content formData string false "Text response"
// @Param   file formData file false "Attachment"
// @Success 201 {object} util.Response{data=model.AssignmentSubmission}
// @Failure 403 {object} util.Response "Not enrolled"
// @Failure 409 {object} util.Response "Already submitted"
// @Router /api/assignments/{assignmentId}/submissions [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	content := ctx.PostForm("content")
	var (
		file        io.Reader
		fileName    string
		fileSize    int64
		contentType string
	)
	if fileHeader, err := ctx.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		defer f.Close()
		file = f
		fileName = fileHeader.Filename
		fileSize = fileHeader.Size
		contentType = fileHeader.Header.Get("Content-Type")
	}
	if content == "" && file == nil {
		util.BadRequest(ctx, "submission needs content or a file")
		return
	}

	submission, err := c.AssignmentService.Submit(ctx.Request.Context(), ctx.Param("assignmentId"),
		claims.UserID, content, file, fileName, fileSize, contentType)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAssignmentSubmitted):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, submission)
}

// ListSubmissions godoc
// @Summary Submissions for an assignment
// @Tags assignments
// @Produce  json
// @Security BearerAuth
// @Param   assignmentId path string true "Assignment ID"
// @Success 200 {object} util.Response{data=[]repository.AssignmentSubmissionRow}
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/assignments/{assignmentId}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	rows, err := c.AssignmentService.ListSubmissions(ctx.Param("assignmentId"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.NotFound(ctx)
		}
		return
	}
	util.Success(ctx, rows)
}
