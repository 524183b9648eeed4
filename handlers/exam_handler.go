package handlers

import (
	"errors"
	"net/http"

	"engsmart/services"

	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	submissionService *services.SubmissionService
}

func NewExamHandler(submissionService *services.SubmissionService) *ExamHandler {
	return &ExamHandler{
		submissionService: submissionService,
	}
}

// EnterExam starts an attempt from an access code. Invalid or closed
// codes are indistinguishable from unknown ones.
func (h *ExamHandler) EnterExam(c *gin.Context) {
	var req services.EnterExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, quiz, err := h.submissionService.EnterExam(c.Request.Context(), req.Code, req.StudentName)
	if err != nil {
		if errors.Is(err, services.ErrQuizNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid or closed exam"})
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

	c.JSON(http.StatusOK, gin.H{
		"attempt": attempt,
		"exam":    services.NewExamView(quiz),
	})
}

func (h *ExamHandler) GetAttempt(c *gin.Context) {
	attempt, err := h.submissionService.GetAttempt(c.Param("attemptId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempt":    attempt,
		"unanswered": attempt.UnansweredCount(),
	})
}

func (h *ExamHandler) SelectAnswer(c *gin.Context) {
	var req services.SelectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.submissionService.SelectAnswer(c.Param("attemptId"), req.QuestionIndex, req.OptionIndex)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAttemptNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		case errors.Is(err, services.ErrAttemptSubmitted):
			c.JSON(http.StatusConflict, gin.H{"error": "Attempt already submitted"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer recorded"})
}

// SubmitAttempt grades and persists. The incomplete-answers confirmation
// happens on the client; the engine trusts the caller's decision.
func (h *ExamHandler) SubmitAttempt(c *gin.Context) {
	submission, review, err := h.submissionService.Submit(c.Request.Context(), c.Param("attemptId"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAttemptNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		case errors.Is(err, services.ErrAttemptSubmitted):
			c.JSON(http.StatusConflict, gin.H{"error": "Attempt already submitted"})
		case errors.Is(err, services.ErrQuizNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz no longer exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
		"review":     review,
	})
}
