package controller

import (
	"errors"
	"termophysics_backend/internal/service"
	"termophysics_backend/internal/util"
	"termophysics_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService      *service.QuizService
	ClassroomService *service.ClassroomService
}

func NewQuizController(quizService *service.QuizService, classroomService *service.ClassroomService) *QuizController {
	return &QuizController{QuizService: quizService, ClassroomService: classroomService}
}

// Create godoc
// @Summary Create a quiz
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Classroom ID"
// @Param   body body service.QuizReq true "Quiz"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/classrooms/{id}/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
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

	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(classroomID, claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// List godoc
// @Summary Classroom quizzes
// @Description Students also get their derived submitted flag per quiz
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Classroom ID"
// @Success 200 {object} util.Response{data=[]service.QuizListItem}
// @Failure 403 {object} util.Response "Not a member"
// @Router /api/classrooms/{id}/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classroomID := ctx.Param("id")

	classroom, err := c.ClassroomService.GetClassroom(classroomID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	studentID := claims.UserID
	if classroom.TeacherID == claims.UserID {
		studentID = 0
	} else if !c.ClassroomService.IsEnrolled(classroomID, claims.UserID) {
		util.Forbidden(ctx)
		return
	}

	items, err := c.QuizService.ListQuizzes(classroomID, studentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// Delete godoc
// @Summary Delete a quiz and everything under it
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/quizzes/{quizId} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.QuizService.DeleteQuiz(ctx.Param("quizId"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
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

// Get godoc
// @Summary Quiz with questions, answer keys included
// @Description Teacher view of a quiz; only the owner may read it
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Not found"
// @Router /api/quizzes/{quizId} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	quiz, questions, err := c.QuizService.GetQuiz(ctx.Param("quizId"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	if quiz.TeacherID != claims.UserID {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, gin.H{"quiz": quiz, "questions": questions})
}

// AddQuestion godoc
// @Summary Add a question to a quiz
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "Quiz ID"
// @Param   body body service.QuestionReq true "Question"
// @Success 201 {object} util.Response{data=model.QuizQuestion}
// @Failure 400 {object} util.Response "Invalid question"
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/quizzes/{quizId}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.AddQuestion(ctx.Param("quizId"), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, question)
}

// DeleteQuestion godoc
// @Summary Remove a question from a quiz
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "Quiz ID"
// @Param   questionId path string true "Question ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/quizzes/{quizId}/questions/{questionId} [delete]
func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.QuizService.DeleteQuestion(ctx.Param("quizId"), ctx.Param("questionId"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
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

// Take godoc
// @Summary Quiz form for a student
// @Description Questions without answer keys; 409 if already submitted
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "Already submitted"
// @Router /api/quizzes/{quizId}/take [get]
func (c *QuizController) Take(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	quiz, questions, err := c.QuizService.GetQuizForStudent(ctx.Param("quizId"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuizAlreadySubmitted):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	if !c.ClassroomService.IsEnrolled(quiz.ClassroomID, claims.UserID) {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, gin.H{"quiz": quiz, "questions": questions})
}

type SubmitQuizReq struct {
	// Answers maps question ID to the student's raw answer text.
	Answers map[string]string `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary Submit quiz answers
// @Description Grades auto-gradable questions immediately; one attempt per student
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "Quiz ID"
// @Param   body body SubmitQuizReq true "Answers keyed by question ID"
// @Success 201 {object} util.Response{data=model.QuizSubmission}
// @Failure 400 {object} util.Response "Quiz has no questions"
// @Failure 403 {object} util.Response "Not enrolled"
// @Failure 409 {object} util.Response "Already submitted"
// @Router /api/quizzes/{quizId}/submissions [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req SubmitQuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.QuizService.SubmitQuiz(ctx.Param("quizId"), claims.UserID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrQuizNoQuestions):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrQuizAlreadySubmitted):
			monitoring.QuizSubmissionCounter.WithLabelValues("duplicate").Inc()
			util.Conflict(ctx, err.Error())
		default:
			monitoring.QuizSubmissionCounter.WithLabelValues("error").Inc()
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.QuizSubmissionCounter.WithLabelValues("accepted").Inc()
	util.Created(ctx, submission)
}

// Results godoc
// @Summary All submissions for a quiz with graded answers
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "Quiz ID"
// @Success 200 {object} util.Response{data=[]service.SubmissionResult}
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/quizzes/{quizId}/results [get]
func (c *QuizController) Results(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	results, err := c.QuizService.ListResults(ctx.Param("quizId"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, results)
}
