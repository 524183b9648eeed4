package handlers

import (
	"errors"
	"net/http"

	"engsmart/models"
	"engsmart/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService       *services.QuizService
	submissionService *services.SubmissionService
	statsService      *services.StatsService
}

func NewQuizHandler(quizService *services.QuizService, submissionService *services.SubmissionService, statsService *services.StatsService) *QuizHandler {
	return &QuizHandler{
		quizService:       quizService,
		submissionService: submissionService,
		statsService:      statsService,
	}
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.CreateAndPublishQuiz(c.Request.Context(), &req)
	if err != nil {
		var genErr *services.GenerationError
		if errors.As(err, &genErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": genErr.Error()})
			return
		}
		var valErr *services.ValidationError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListQuizzes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

type setActiveRequest struct {
	Active *bool `json:"active"`
}

// SetActive flips the access gate. Without a body it toggles; with
// {"active": bool} it forces that state.
func (h *QuizHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var (
		quiz *models.Quiz
		err  error
	)
	if req.Active != nil {
		quiz, err = h.quizService.SetActive(c.Request.Context(), c.Param("id"), *req.Active)
	} else {
		quiz, err = h.quizService.ToggleActive(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		if errors.Is(err, services.ErrQuizNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	err := h.quizService.DeleteQuiz(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrQuizNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}

func (h *QuizHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statsService.GetStatistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetSubmissions lists raw submissions for a quiz id. Works for deleted
// quizzes too; orphaned submissions stay retrievable.
func (h *QuizHandler) GetSubmissions(c *gin.Context) {
	submissions, err := h.submissionService.SubmissionsByQuiz(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, submissions)
}
