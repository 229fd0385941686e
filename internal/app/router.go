package app

import (
	"termophysics_backend/docs"
	"termophysics_backend/internal/config"
	"termophysics_backend/internal/middleware"
	"termophysics_backend/internal/model"
	"termophysics_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// Profile
		authGroup.GET("/users/me", c.user.GetProfile)
		authGroup.PUT("/users/me", c.user.UpdateProfile)
		authGroup.POST("/users/me/avatar", c.user.UploadAvatar)

		// Classrooms, visible to both roles; ownership is checked per
		// handler.
		authGroup.GET("/classrooms", c.classroom.List)
		authGroup.GET("/classrooms/:id", c.classroom.Get)
		authGroup.GET("/classrooms/:id/notes", c.note.List)
		authGroup.GET("/classrooms/:id/assignments", c.assignment.List)
		authGroup.GET("/classrooms/:id/quizzes", c.quiz.List)

		// AI tutor
		authGroup.POST("/conversations", c.chat.CreateConversation)
		authGroup.GET("/conversations", c.chat.ListConversations)
		authGroup.PUT("/conversations/:id", c.chat.RenameConversation)
		authGroup.DELETE("/conversations/:id", c.chat.DeleteConversation)
		authGroup.GET("/conversations/:id/messages", c.chat.ListMessages)
		authGroup.POST("/conversations/:id/ask", c.chat.Ask)
		authGroup.GET("/conversations/:id/stream", c.chat.Stream)
		authGroup.POST("/images/generate", c.image.Generate)
		authGroup.GET("/images/quota", c.image.Quota)

		// Student-only
		student := authGroup.Group("")
		student.Use(middleware.RoleMiddleware(model.Student))
		{
			student.POST("/enrollments", c.classroom.Join)
			student.GET("/quizzes/:quizId/take", c.quiz.Take)
			student.POST("/quizzes/:quizId/submissions", c.quiz.Submit)
			student.POST("/assignments/:assignmentId/submissions", c.assignment.Submit)
		}

		// Teacher-only
		teacher := authGroup.Group("")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/classrooms", c.classroom.Create)
			teacher.DELETE("/classrooms/:id", c.classroom.Delete)
			teacher.GET("/classrooms/:id/students", c.classroom.ListStudents)
			teacher.DELETE("/classrooms/:id/students/:enrollmentId", c.classroom.RemoveStudent)

			teacher.POST("/classrooms/:id/notes", c.note.Create)
			teacher.DELETE("/notes/:noteId", c.note.Delete)

			teacher.POST("/classrooms/:id/assignments", c.assignment.Create)
			teacher.DELETE("/assignments/:assignmentId", c.assignment.Delete)
			teacher.GET("/assignments/:assignmentId/submissions", c.assignment.ListSubmissions)

			teacher.POST("/classrooms/:id/quizzes", c.quiz.Create)
			teacher.GET("/quizzes/:quizId", c.quiz.Get)
			teacher.DELETE("/quizzes/:quizId", c.quiz.Delete)
			teacher.POST("/quizzes/:quizId/questions", c.quiz.AddQuestion)
			teacher.DELETE("/quizzes/:quizId/questions/:questionId", c.quiz.DeleteQuestion)
			teacher.GET("/quizzes/:quizId/results", c.quiz.Results)
		}
	}
}
