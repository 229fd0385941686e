package controller

import (
	"errors"
	"io"
	"termophysics_backend/internal/service"
	"termophysics_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NoteController struct {
	NoteService      *service.NoteService
	ClassroomService *service.ClassroomService
}

func NewNoteController(noteService *service.NoteService, classroomService *service.ClassroomService) *NoteController {
	return &NoteController{NoteService: noteService, ClassroomService: classroomService}
}

// Create godoc
// @Summary Publish a classroom note
// @Description Multipart form with title, content and an optional attachment
// @Tags notes
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Classroom ID"
// @Param   title formData string true "Title"
// @Param   content formData string false "Body text"
// @Param   file formData file false "Attachment"
// @Success 201 {object} util.Response{data=model.ClassroomNote}
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/classrooms/{id}/notes [post]
func (c *NoteController) Create(ctx *gin.Context) {
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

	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}
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

	note, err := c.NoteService.CreateNote(ctx.Request.Context(), classroomID, claims.UserID,
		title, content, file, fileName, fileSize, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, note)
}

// List godoc
// @Summary Classroom notes
// @Tags notes
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Classroom ID"
// @Success 200 {object} util.Response{data=[]model.ClassroomNote}
// @Failure 403 {object} util.Response "Not a member"
// @Router /api/classrooms/{id}/notes [get]
func (c *NoteController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classroomID := ctx.Param("id")

	classroom, err := c.ClassroomService.GetClassroom(classroomID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	if classroom.TeacherID != claims.UserID && !c.ClassroomService.IsEnrolled(classroomID, claims.UserID) {
		util.Forbidden(ctx)
		return
	}

	notes, err := c.NoteService.List(classroomID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, notes)
}

// Delete godoc
// @Summary Delete a note
// @Tags notes
// @Produce  json
// @Security BearerAuth
// @Param   noteId path string true "Note ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/notes/{noteId} [delete]
func (c *NoteController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.NoteService.Delete(ctx.Param("noteId"), claims.UserID)
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
