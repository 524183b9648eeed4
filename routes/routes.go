package routes

import (
	"net/http"

	"engsmart/handlers"
	"engsmart/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	examHandler *handlers.ExamHandler,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		api.POST("/auth/login", authHandler.Login)

		// Teacher routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			quizzes := protected.Group("/quizzes")
			{
				quizzes.GET("", quizHandler.ListQuizzes)
				quizzes.POST("", quizHandler.CreateQuiz)
				quizzes.POST("/:id/active", quizHandler.SetActive)
				quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
				quizzes.GET("/:id/stats", quizHandler.GetStatistics)
				quizzes.GET("/:id/submissions", quizHandler.GetSubmissions)
			}
		}

		// Public student routes
		exams := api.Group("/exams")
		{
			exams.POST("/enter", examHandler.EnterExam)
			exams.GET("/:attemptId", examHandler.GetAttempt)
			exams.POST("/:attemptId/answers", examHandler.SelectAnswer)
			exams.POST("/:attemptId/submit", examHandler.SubmitAttempt)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
